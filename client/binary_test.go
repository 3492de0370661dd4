package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceFromString(t *testing.T) {
	assert.IsType(t, URLSource(""), SourceFromString("http://example.org/img.png"))
	assert.IsType(t, URLSource(""), SourceFromString("https://example.org/img.png"))
	assert.IsType(t, FileSource(""), SourceFromString("img.png"))
	assert.IsType(t, FileSource(""), SourceFromString("/data/img.png"))
	assert.IsType(t, FileSource(""), SourceFromString("C:\\data\\img.png"))
}

func TestAddBinaryFromFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "annals.html")
	require.NoError(t, os.WriteFile(file, []byte("<html>liber I</html>"), 0o644))

	var newURI string
	repo, srv, log := newServerRepo(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, newURI)
	})
	newURI = srv.URL + "/rest/parent/annals.html"

	res, err := repo.AddBinary(context.Background(), srv.URL+"/rest/parent",
		FileSource(file), BinaryOptions{})
	require.NoError(t, err)
	assert.Equal(t, newURI, res.URI)

	reqs := log.all()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPost, reqs[0].Method)
	assert.Equal(t, "<html>liber I</html>", string(reqs[0].Body))
	assert.True(t, strings.HasPrefix(reqs[0].Header.Get("Content-Type"), "text/html"),
		"Content-Type = %q", reqs[0].Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename="annals.html"`, reqs[0].Header.Get("Content-Disposition"))
}

func TestAddBinaryMIMEOverride(t *testing.T) {
	file := filepath.Join(t.TempDir(), "payload.bin")
	require.NoError(t, os.WriteFile(file, []byte{0x1, 0x2}, 0o644))

	repo, srv, log := newServerRepo(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	_, err := repo.AddBinary(context.Background(), srv.URL+"/rest/parent",
		FileSource(file), BinaryOptions{MIME: "application/x-annals"})
	require.NoError(t, err)

	reqs := log.all()
	require.Len(t, reqs, 1)
	assert.Equal(t, "application/x-annals", reqs[0].Header.Get("Content-Type"))
}

func TestAddBinaryFromURL(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		fmt.Fprint(w, "pngbytes")
	}))
	t.Cleanup(origin.Close)

	repo, srv, log := newServerRepo(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	// The origin is outside the repository; only the upload target is
	// validated against the base URI.
	_, err := repo.AddBinary(context.Background(), srv.URL+"/rest/parent",
		URLSource(origin.URL+"/images/logo.png"), BinaryOptions{})
	require.NoError(t, err)

	reqs := log.all()
	require.Len(t, reqs, 1)
	assert.Equal(t, "pngbytes", string(reqs[0].Body))
	assert.Equal(t, "image/png", reqs[0].Header.Get("Content-Type"))
	// Filename comes from the last URL segment.
	assert.Equal(t, `attachment; filename="logo.png"`, reqs[0].Header.Get("Content-Disposition"))
}

func TestAddBinarySlugOverridesFilename(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		fmt.Fprint(w, "pngbytes")
	}))
	t.Cleanup(origin.Close)

	repo, srv, log := newServerRepo(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	_, err := repo.AddBinary(context.Background(), srv.URL+"/rest/parent",
		URLSource(origin.URL+"/images/logo.png"), BinaryOptions{Slug: "emblem"})
	require.NoError(t, err)

	reqs := log.all()
	require.Len(t, reqs, 1)
	assert.Equal(t, "emblem", reqs[0].Header.Get("Slug"))
	assert.Equal(t, `attachment; filename="emblem"`, reqs[0].Header.Get("Content-Disposition"))
}

func TestAddBinaryFromURLErrorStatus(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	t.Cleanup(origin.Close)

	repo, srv, log := newServerRepo(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	_, err := repo.AddBinary(context.Background(), srv.URL+"/rest/parent",
		URLSource(origin.URL+"/missing"), BinaryOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Empty(t, log.calls())
}

func TestAddBinaryFromStream(t *testing.T) {
	repo, srv, log := newServerRepo(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	src := StreamSource{
		Reader: strings.NewReader("streamed"),
		MIME:   "text/plain",
		Name:   "notes.txt",
	}
	_, err := repo.AddBinary(context.Background(), srv.URL+"/rest/parent", src, BinaryOptions{})
	require.NoError(t, err)

	reqs := log.all()
	require.Len(t, reqs, 1)
	assert.Equal(t, "streamed", string(reqs[0].Body))
	assert.Equal(t, "text/plain", reqs[0].Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename="notes.txt"`, reqs[0].Header.Get("Content-Disposition"))
}

func TestAddBinaryStreamDefaults(t *testing.T) {
	repo, srv, log := newServerRepo(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	_, err := repo.AddBinary(context.Background(), srv.URL+"/rest/parent",
		StreamSource{Reader: strings.NewReader("x")}, BinaryOptions{})
	require.NoError(t, err)

	reqs := log.all()
	require.Len(t, reqs, 1)
	assert.Equal(t, defaultMIME, reqs[0].Header.Get("Content-Type"))
	assert.Empty(t, reqs[0].Header.Get("Content-Disposition"))
}

func TestAddBinaryNilSource(t *testing.T) {
	repo := testRepo(t, "http://x/")
	_, err := repo.AddBinary(context.Background(), "http://x/rest/parent", nil, BinaryOptions{})
	assert.Error(t, err)
}

func TestAddBinaryStreamWithoutReader(t *testing.T) {
	repo, srv, log := newServerRepo(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	_, err := repo.AddBinary(context.Background(), srv.URL+"/rest/parent",
		StreamSource{}, BinaryOptions{})
	assert.Error(t, err)
	assert.Empty(t, log.calls())
}

func TestAddBinaryAtPath(t *testing.T) {
	repo, srv, log := newServerRepo(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			http.NotFound(w, r)
		case http.MethodPut:
			w.WriteHeader(http.StatusCreated)
		}
	})

	_, err := repo.AddBinary(context.Background(), srv.URL+"/rest/parent",
		StreamSource{Reader: strings.NewReader("x"), MIME: "text/plain"},
		BinaryOptions{Path: "files/notes.txt"})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"GET /rest/parent/files/notes.txt",
		"PUT /rest/parent/files/notes.txt",
	}, log.calls())
}

func TestChunkedReadCloser(t *testing.T) {
	payload := strings.Repeat("a", 3*urlChunk+7)
	rc := &chunkedReadCloser{body: io.NopCloser(strings.NewReader(payload))}
	defer rc.Close()

	buf := make([]byte, 4*urlChunk)
	n, err := rc.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, urlChunk, n, "reads are capped at the chunk size")

	rest, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, payload, string(buf[:n])+string(rest))
}
