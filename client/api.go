package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Method is an HTTP verb accepted by the repository API.
type Method string

// The fixed set of verbs the transport dispatches.
const (
	MethodGet     Method = http.MethodGet
	MethodPut     Method = http.MethodPut
	MethodPost    Method = http.MethodPost
	MethodPatch   Method = http.MethodPatch
	MethodDelete  Method = http.MethodDelete
	MethodHead    Method = http.MethodHead
	MethodOptions Method = http.MethodOptions
)

// maxErrorBody limits how much of an error response body is retained on a
// ResourceError.
const maxErrorBody = 64 * 1024

// API issues a raw, authenticated request against a repository URI. The
// URI is validated against the repository base before any network I/O.
// The caller owns the response body.
//
// Most callers want the typed operations on Repository; API is the escape
// hatch for endpoints the client doesn't model.
func (r *Repository) API(ctx context.Context, method Method, uri string, header http.Header, body io.Reader) (*http.Response, error) {
	return r.api(ctx, method, uri, header, body)
}

func (r *Repository) api(ctx context.Context, method Method, uri string, header http.Header, body io.Reader) (*http.Response, error) {
	if _, err := r.URIToPath(uri); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, string(method), uri, body)
	if err != nil {
		return nil, fmt.Errorf("build %s request for %s: %w", method, uri, err)
	}
	for key, values := range header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	r.authenticate(req)

	requestID := uuid.New().String()
	r.logger.Debug("api call",
		"request_id", requestID,
		"method", string(method),
		"uri", uri)

	start := time.Now()
	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.metrics.observe(method, 0, time.Since(start))
		return nil, fmt.Errorf("%s %s: %w", method, uri, err)
	}
	r.metrics.observe(method, resp.StatusCode, time.Since(start))

	r.logger.Debug("api response",
		"request_id", requestID,
		"status", resp.StatusCode)
	return resp, nil
}

// authenticate sets basic auth credentials on the request. In delegated
// mode the admin user authenticates and the current user is carried in
// the On-Behalf-Of header.
func (r *Repository) authenticate(req *http.Request) {
	r.mu.Lock()
	current, admin, delegated := r.current, r.admin, r.delegated
	r.mu.Unlock()

	if delegated && admin.Name != "" && current.Name != admin.Name {
		req.SetBasicAuth(admin.Name, admin.Password)
		req.Header.Set("On-Behalf-Of", current.Name)
		return
	}
	req.SetBasicAuth(current.Name, current.Password)
}

// drainBody reads at most maxErrorBody bytes of an error response and
// closes it.
func drainBody(resp *http.Response) []byte {
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return nil
	}
	return body
}

// mediaType strips parameters like charset from a Content-Type value.
func mediaType(contentType string) string {
	return strings.TrimSpace(strings.Split(contentType, ";")[0])
}
