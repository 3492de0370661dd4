package client

import (
	"errors"
	"testing"

	"github.com/c360studio/fcrepo/config"
)

func testRepo(t *testing.T, uri string) *Repository {
	t.Helper()
	repo, err := New(&config.Config{URI: uri, User: "a", Password: "b"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return repo
}

func TestPathToURI(t *testing.T) {
	repo := testRepo(t, "http://x/")

	tests := []struct {
		path string
		want string
	}{
		{"", "http://x/rest"},
		{"/foo", "http://x/rest/foo"},
		{"foo", "http://x/rest/foo"},
		{"/foo/bar", "http://x/rest/foo/bar"},
		{"foo/bar", "http://x/rest/foo/bar"},
	}
	for _, tt := range tests {
		if got := repo.PathToURI(tt.path); got != tt.want {
			t.Errorf("PathToURI(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestPathToURINormalizesBase(t *testing.T) {
	// Missing trailing separator on the configured URI is repaired.
	repo := testRepo(t, "http://x")
	if got := repo.PathToURI("foo"); got != "http://x/rest/foo" {
		t.Errorf("PathToURI(foo) = %q, want http://x/rest/foo", got)
	}
}

func TestURIToPath(t *testing.T) {
	repo := testRepo(t, "http://x/")

	tests := []struct {
		uri  string
		want string
	}{
		{"http://x/rest/foo", "foo"},
		{"http://x/rest/foo/bar", "foo/bar"},
		{"http://x/rest/", ""},
		{"http://x/rest", ""},
	}
	for _, tt := range tests {
		got, err := repo.URIToPath(tt.uri)
		if err != nil {
			t.Errorf("URIToPath(%q) error = %v", tt.uri, err)
			continue
		}
		if got != tt.want {
			t.Errorf("URIToPath(%q) = %q, want %q", tt.uri, got, tt.want)
		}
	}
}

func TestURIToPathRejectsForeignURI(t *testing.T) {
	repo := testRepo(t, "http://x/")

	for _, uri := range []string{
		"http://y/rest/foo",
		"http://x/other/foo",
		"gopher://x/rest/foo",
	} {
		_, err := repo.URIToPath(uri)
		var uriErr *URIError
		if !errors.As(err, &uriErr) {
			t.Errorf("URIToPath(%q) error = %v, want URIError", uri, err)
		}
	}
}

func TestPathRoundTrip(t *testing.T) {
	repo := testRepo(t, "http://x/")

	for _, uri := range []string{
		"http://x/rest",
		"http://x/rest/foo",
		"http://x/rest/a/b/c",
		"http://x/rest/a/fcr:tombstone",
	} {
		path, err := repo.URIToPath(uri)
		if err != nil {
			t.Fatalf("URIToPath(%q) error = %v", uri, err)
		}
		if got := repo.PathToURI(path); got != uri {
			t.Errorf("PathToURI(URIToPath(%q)) = %q", uri, got)
		}
	}
}

func TestPathConcat(t *testing.T) {
	tests := []struct {
		path, suffix, want string
	}{
		{"http://x/rest/foo", "fcr:tombstone", "http://x/rest/foo/fcr:tombstone"},
		{"http://x/rest/foo/", "fcr:tombstone", "http://x/rest/foo/fcr:tombstone"},
		{"a/b", "c", "a/b/c"},
	}
	for _, tt := range tests {
		if got := pathConcat(tt.path, tt.suffix); got != tt.want {
			t.Errorf("pathConcat(%q, %q) = %q, want %q", tt.path, tt.suffix, got, tt.want)
		}
	}
}
