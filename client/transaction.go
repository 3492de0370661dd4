package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// Transaction scopes repository operations to a Fedora transaction.
// Resources created or modified under the transaction's URIs become
// visible to other clients only on Commit; Rollback discards them.
//
// Transaction URIs live under the repository's REST root, so the usual
// Repository operations work on URIs built with the transaction's
// PathToURI. Fedora times out idle transactions; KeepAlive extends one.
type Transaction struct {
	repo *Repository
	uri  string
}

// Begin starts a new transaction.
func (r *Repository) Begin(ctx context.Context) (*Transaction, error) {
	uri := r.PathToURI("/fcr:tx")
	resp, err := r.api(ctx, MethodPost, uri, nil, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return nil, &TransactionError{
			URI:        uri,
			StatusCode: resp.StatusCode,
			Reason:     http.StatusText(resp.StatusCode),
			Message:    fmt.Sprintf("start transaction failed: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
		}
	}
	location := resp.Header.Get("Location")
	if location == "" {
		return nil, &TransactionError{
			URI:        uri,
			StatusCode: resp.StatusCode,
			Message:    "start transaction returned no Location header",
		}
	}
	r.logger.Debug("started transaction", "uri", location)
	return &Transaction{repo: r, uri: location}, nil
}

// URI returns the transaction's base URI.
func (t *Transaction) URI() string {
	return t.uri
}

// PathToURI converts a repository-relative path to a URI scoped to this
// transaction. Transaction-API paths (fcr:tx) are not rewritten.
func (t *Transaction) PathToURI(path string) string {
	if strings.Contains(path, "fcr:tx") {
		return t.repo.PathToURI(path)
	}
	if path == "" {
		return t.uri
	}
	return t.uri + "/" + strings.TrimPrefix(path, "/")
}

// Commit makes the transaction's changes permanent.
func (t *Transaction) Commit(ctx context.Context) error {
	return t.txAPI(ctx, "fcr:commit")
}

// Rollback abandons the transaction and discards its changes.
func (t *Transaction) Rollback(ctx context.Context) error {
	return t.txAPI(ctx, "fcr:rollback")
}

// KeepAlive pings the transaction so it doesn't time out.
func (t *Transaction) KeepAlive(ctx context.Context) error {
	return t.txAPI(ctx, "")
}

// txAPI posts to the transaction control endpoint; op is fcr:commit,
// fcr:rollback, or empty for keep-alive.
func (t *Transaction) txAPI(ctx context.Context, op string) error {
	uri := pathConcat(t.uri, "fcr:tx")
	if op != "" {
		uri = pathConcat(uri, op)
	}
	resp, err := t.repo.api(ctx, MethodPost, uri, nil, nil)
	if err != nil {
		return err
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		name := op
		if name == "" {
			name = "keep-alive"
		}
		return &TransactionError{
			URI:        uri,
			StatusCode: resp.StatusCode,
			Reason:     http.StatusText(resp.StatusCode),
			Message:    fmt.Sprintf("transaction %s failed: %d %s", name, resp.StatusCode, http.StatusText(resp.StatusCode)),
		}
	}
	return nil
}
