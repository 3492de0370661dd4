package client

import "strings"

// PathToURI converts a repository-relative REST path to an absolute URI.
// The empty path addresses the REST root itself.
func (r *Repository) PathToURI(path string) string {
	uri := r.baseURI + "rest"
	if path == "" {
		return uri
	}
	if strings.HasPrefix(path, "/") {
		return uri + path
	}
	return uri + "/" + path
}

// URIToPath converts an absolute URI to its repository-relative REST path.
// The bare REST root maps to the empty path. A URI outside this
// repository yields a URIError.
func (r *Repository) URIToPath(uri string) (string, error) {
	prefix := r.baseURI + "rest/"
	if path, ok := strings.CutPrefix(uri, prefix); ok {
		return path, nil
	}
	if uri == r.baseURI+"rest" {
		return "", nil
	}
	return "", &URIError{URI: uri, Base: r.baseURI}
}

// pathConcat appends a suffix segment (like fcr:tombstone) to a path or
// URI, normalizing the separator between them.
func pathConcat(path, suffix string) string {
	if strings.HasSuffix(path, "/") {
		return path + suffix
	}
	return path + "/" + suffix
}
