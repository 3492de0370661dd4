package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// urlChunk is the copy-buffer size for streaming URL-sourced uploads.
const urlChunk = 512

// defaultMIME is used when no content type can be determined.
const defaultMIME = "application/octet-stream"

// Source is the payload of a binary upload. Implementations are
// FileSource, URLSource and StreamSource; the kind is decided once at the
// call boundary, not re-inspected downstream.
type Source interface {
	// open yields the payload stream plus the content type and filename
	// derived from the source, either of which may be empty.
	open(ctx context.Context, r *Repository) (body io.ReadCloser, contentType, filename string, err error)
}

// FileSource uploads the contents of a local file. The MIME type is
// guessed from the filename extension and the Content-Disposition
// filename is the base name.
type FileSource string

func (s FileSource) open(_ context.Context, _ *Repository) (io.ReadCloser, string, string, error) {
	f, err := os.Open(string(s))
	if err != nil {
		return nil, "", "", fmt.Errorf("open binary source: %w", err)
	}
	contentType := mime.TypeByExtension(filepath.Ext(string(s)))
	return f, contentType, filepath.Base(string(s)), nil
}

// URLSource streams the body of an http(s) URL through to the upload in
// fixed-size chunks, forwarding its Content-Type, without buffering the
// payload in memory.
type URLSource string

func (s URLSource) open(ctx context.Context, r *Repository) (io.ReadCloser, string, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, string(s), nil)
	if err != nil {
		return nil, "", "", fmt.Errorf("build source request for %s: %w", s, err)
	}
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, "", "", fmt.Errorf("get binary source %s: %w", s, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, "", "", fmt.Errorf("get binary source %s returned HTTP status %d %s", s, resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	segments := strings.Split(strings.TrimSuffix(string(s), "/"), "/")
	filename := segments[len(segments)-1]
	return &chunkedReadCloser{body: resp.Body}, resp.Header.Get("Content-Type"), filename, nil
}

// StreamSource uploads from an arbitrary reader with a declared MIME
// type. The reader is closed after the upload if it implements io.Closer.
type StreamSource struct {
	Reader io.Reader
	MIME   string
	// Name optionally sets the Content-Disposition filename.
	Name string
}

func (s StreamSource) open(_ context.Context, _ *Repository) (io.ReadCloser, string, string, error) {
	if s.Reader == nil {
		return nil, "", "", errors.New("stream source has no reader")
	}
	rc, ok := s.Reader.(io.ReadCloser)
	if !ok {
		rc = io.NopCloser(s.Reader)
	}
	return rc, s.MIME, s.Name, nil
}

// SourceFromString resolves a string data source by shape: http(s) URLs
// become a URLSource, anything else a FileSource.
func SourceFromString(s string) Source {
	if u, err := url.Parse(s); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return URLSource(s)
	}
	return FileSource(s)
}

// BinaryOptions controls binary creation.
type BinaryOptions struct {
	// Slug hints the server-assigned path segment on POST creation, and
	// overrides the Content-Disposition filename for URL sources.
	Slug string
	// Path requests deterministic creation at parent/Path via PUT.
	Path string
	// Force overwrites an occupied Path. Ignored without Path.
	Force bool
	// MIME overrides the content type derived from the source.
	MIME string
}

// AddBinary uploads a binary (non-RDF) child under parentURI. Path, Slug
// and Force behave as in AddContainer. The payload streams through from
// the source; it is never fully buffered.
func (r *Repository) AddBinary(ctx context.Context, parentURI string, src Source, opts BinaryOptions) (*Resource, error) {
	if src == nil {
		return nil, errors.New("add binary: nil source")
	}

	header := http.Header{}
	method := MethodPost
	uri := parentURI
	if opts.Path != "" {
		method = MethodPut
		uri = pathConcat(parentURI, opts.Path)
		if err := r.ensurePathFree(ctx, uri, opts.Force); err != nil {
			return nil, err
		}
		r.logger.Debug("putting binary", "uri", uri)
	} else {
		if opts.Slug != "" {
			header.Set("Slug", opts.Slug)
		}
		r.logger.Debug("posting binary", "uri", uri, "slug", opts.Slug)
	}

	body, contentType, filename, err := src.open(ctx, r)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	if opts.MIME != "" {
		contentType = opts.MIME
	}
	if contentType == "" {
		contentType = defaultMIME
	}
	if method == MethodPost && opts.Slug != "" {
		filename = opts.Slug
	}

	header.Set("Content-Type", contentType)
	if filename != "" {
		header.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	}
	return r.addResource(ctx, method, uri, header, body)
}

// chunkedReadCloser caps each Read at urlChunk bytes so a URL-sourced
// payload moves through in fixed-size pieces.
type chunkedReadCloser struct {
	body io.ReadCloser
}

func (c *chunkedReadCloser) Read(p []byte) (int, error) {
	if len(p) > urlChunk {
		p = p[:urlChunk]
	}
	return c.body.Read(p)
}

func (c *chunkedReadCloser) Close() error {
	return c.body.Close()
}
