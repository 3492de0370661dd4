//go:build integration

package client

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"sync"
	"testing"

	rdf "github.com/geoknoesis/rdf-go/rdf"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/c360studio/fcrepo/config"
	"github.com/c360studio/fcrepo/graph"
	"github.com/c360studio/fcrepo/vocabulary/dc"
)

var (
	fedoraOnce sync.Once
	fedoraURI  string
	fedoraErr  error
)

// getFedora returns the base URI of the shared Fedora container, starting
// it on first use. The container is shared across all tests for
// performance.
func getFedora(tb testing.TB) string {
	tb.Helper()

	if os.Getenv("SKIP_DOCKER_TESTS") == "1" {
		tb.Skip("SKIP_DOCKER_TESTS is set")
	}

	fedoraOnce.Do(func() {
		ctx := context.Background()
		fedoraURI, fedoraErr = startFedoraContainer(ctx)
	})

	if fedoraErr != nil {
		tb.Fatalf("start fedora container: %v", fedoraErr)
	}

	return fedoraURI
}

// startFedoraContainer starts a Fedora 4 container and returns its base
// URI. Fedora takes a while to boot, so the wait is on the REST root.
func startFedoraContainer(ctx context.Context) (string, error) {
	req := testcontainers.ContainerRequest{
		Image:        "yinlinchen/fcrepo4-docker:4.7.5",
		ExposedPorts: []string{"8080/tcp"},
		WaitingFor:   wait.ForHTTP("/fcrepo/rest/").WithPort("8080/tcp").WithStatusCodeMatcher(isOKStatus),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return "", fmt.Errorf("start fedora container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return "", fmt.Errorf("resolve fedora host: %w", err)
	}
	port, err := container.MappedPort(ctx, "8080/tcp")
	if err != nil {
		return "", fmt.Errorf("resolve fedora port: %w", err)
	}

	return fmt.Sprintf("http://%s:%s/fcrepo/", host, port.Port()), nil
}

func isOKStatus(status int) bool {
	return status >= 200 && status < 300
}

// newIntegrationRepo connects to the shared container.
func newIntegrationRepo(tb testing.TB) *Repository {
	tb.Helper()
	repo, err := New(&config.Config{
		URI:      getFedora(tb),
		User:     "fedoraAdmin",
		Password: "secret3",
	})
	require.NoError(tb, err, "create repository client")
	return repo
}

// testPath generates a unique repository path to avoid collisions.
func testPath(name string) string {
	return fmt.Sprintf("it-%s-%s", name, uuid.New().String())
}

func TestIntegrationContainerLifecycle(t *testing.T) {
	repo := newIntegrationRepo(t)
	ctx := context.Background()
	root := repo.PathToURI("")

	md := map[string]string{
		"title":   "Annals of Tacitus",
		"creator": "Tacitus",
	}
	res, err := repo.AddContainer(ctx, root, graph.FromDC(md), CreateOptions{Path: testPath("container")})
	require.NoError(t, err)

	fetched, err := repo.Get(ctx, res.URI)
	require.NoError(t, err)
	require.NotNil(t, fetched.RDF)
	assert.Equal(t, md, fetched.DC())

	fetched.RDF.Replace(dc.Term("title"), rdf.Literal{Lexical: "Histories"})
	require.NoError(t, fetched.Save(ctx))

	require.NoError(t, fetched.Refresh(ctx))
	title, ok := fetched.RDF.FirstLiteral(dc.Term("title"))
	require.True(t, ok)
	assert.Equal(t, "Histories", title)

	require.NoError(t, repo.Delete(ctx, res.URI))
	_, err = repo.Get(ctx, res.URI)
	require.Error(t, err, "deleted resource must not resolve")

	require.NoError(t, repo.Obliterate(ctx, res.URI))
}

func TestIntegrationForceOverwrite(t *testing.T) {
	repo := newIntegrationRepo(t)
	ctx := context.Background()
	root := repo.PathToURI("")
	path := testPath("force")

	_, err := repo.AddContainer(ctx, root, graph.FromDC(map[string]string{"title": "first"}),
		CreateOptions{Path: path})
	require.NoError(t, err)

	_, err = repo.AddContainer(ctx, root, graph.FromDC(map[string]string{"title": "second"}),
		CreateOptions{Path: path})
	assert.True(t, IsConflict(err), "re-create without force must conflict, got %v", err)

	res, err := repo.AddContainer(ctx, root, graph.FromDC(map[string]string{"title": "second"}),
		CreateOptions{Path: path, Force: true})
	require.NoError(t, err)

	fetched, err := repo.Get(ctx, res.URI)
	require.NoError(t, err)
	title, _ := fetched.RDF.FirstLiteral(dc.Term("title"))
	assert.Equal(t, "second", title)
}

func TestIntegrationBinary(t *testing.T) {
	repo := newIntegrationRepo(t)
	ctx := context.Background()
	root := repo.PathToURI("")

	parent, err := repo.AddContainer(ctx, root, graph.New(), CreateOptions{Path: testPath("bin")})
	require.NoError(t, err)

	payload := []byte("liber primus")
	res, err := repo.AddBinary(ctx, parent.URI, StreamSource{
		Reader: bytes.NewReader(payload),
		MIME:   "text/plain",
		Name:   "annals.txt",
	}, BinaryOptions{Path: "annals.txt"})
	require.NoError(t, err)

	got, err := repo.Get(ctx, res.URI)
	require.NoError(t, err)
	assert.Nil(t, got.RDF)
	assert.Equal(t, payload, got.Data())

	children, err := repo.Get(ctx, parent.URI)
	require.NoError(t, err)
	assert.Contains(t, children.Children(), res.URI)
}

func TestIntegrationTransactionRollback(t *testing.T) {
	repo := newIntegrationRepo(t)
	ctx := context.Background()
	path := testPath("tx")

	tx, err := repo.Begin(ctx)
	require.NoError(t, err)

	_, err = repo.AddContainer(ctx, tx.PathToURI(""), graph.FromDC(map[string]string{"title": "ephemeral"}),
		CreateOptions{Path: path})
	require.NoError(t, err)

	require.NoError(t, tx.Rollback(ctx))

	_, err = repo.Get(ctx, repo.PathToURI(path))
	assert.True(t, IsNotFound(err), "rolled-back resource must not exist, got %v", err)
}
