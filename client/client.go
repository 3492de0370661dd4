// Package client provides a Go client for the Fedora Commons 4 REST API.
//
// A Repository is constructed from a config.Config and issues
// authenticated LDP requests: fetching containers and binaries, creating
// children at server-assigned or deterministic paths, updating metadata,
// and deleting resources (with tombstone handling). RDF metadata moves
// over the wire as Turtle and is modeled by the graph package.
package client

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/c360studio/fcrepo/config"
	"github.com/c360studio/fcrepo/graph"
)

// adminUser is the conventional name of the Fedora administrator account,
// used to authenticate delegated requests.
const adminUser = "fedoraAdmin"

// Repository is a connection to a Fedora Commons 4 repository.
//
// The configuration is read-only after construction. SetUser switches the
// active credentials and is safe for concurrent use, but the library
// provides no coordination between callers racing on the same path's
// create-or-overwrite sequence.
type Repository struct {
	baseURI string
	users   map[string]config.User

	mu        sync.Mutex
	current   config.User
	admin     config.User
	delegated bool

	httpClient *http.Client
	logger     *slog.Logger
	metrics    *Metrics
}

// Option configures a Repository.
type Option func(*Repository)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Repository) {
		r.httpClient = c
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Repository) {
		r.logger = logger
	}
}

// WithMetrics enables Prometheus instrumentation of API calls.
func WithMetrics(m *Metrics) Option {
	return func(r *Repository) {
		r.metrics = m
	}
}

// New creates a repository connection from a validated configuration.
func New(cfg *config.Config, opts ...Option) (*Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	current, err := cfg.Credentials()
	if err != nil {
		return nil, err
	}

	baseURI := cfg.URI
	if !strings.HasSuffix(baseURI, "/") {
		baseURI += "/"
	}

	users := make(map[string]config.User, len(cfg.Users)+1)
	for name, u := range cfg.Users {
		if u.Name == "" {
			u.Name = name
		}
		users[name] = u
	}
	if cfg.User != "" {
		users[cfg.User] = config.User{Name: cfg.User, Password: cfg.Password}
	}

	r := &Repository{
		baseURI:   baseURI,
		users:     users,
		current:   current,
		admin:     users[adminUser],
		delegated: cfg.Delegated,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// BaseURI returns the normalized repository root URI, always ending in a
// separator.
func (r *Repository) BaseURI() string {
	return r.baseURI
}

// SetUser switches the credentials used for subsequent requests. The name
// must exist in the configured users map.
func (r *Repository) SetUser(name string) error {
	u, ok := r.users[name]
	if !ok {
		return fmt.Errorf("couldn't find user %q in config", name)
	}
	r.mu.Lock()
	r.current = u
	r.mu.Unlock()
	return nil
}

// Get fetches the resource at uri. On HTTP 200 a Resource is returned;
// if the response is Turtle its metadata graph is parsed. Any other
// status yields a ResourceError.
func (r *Repository) Get(ctx context.Context, uri string) (*Resource, error) {
	return r.GetWithAccept(ctx, uri, "")
}

// GetWithAccept fetches the resource at uri with an explicit Accept type.
func (r *Repository) GetWithAccept(ctx context.Context, uri, accept string) (*Resource, error) {
	var header http.Header
	if accept != "" {
		header = http.Header{"Accept": []string{accept}}
	}
	resp, err := r.api(ctx, MethodGet, uri, header, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response for %s: %w", uri, err)
	}
	if resp.StatusCode != http.StatusOK {
		message := fmt.Sprintf("get %s returned HTTP status %d %s", uri, resp.StatusCode, http.StatusText(resp.StatusCode))
		return nil, newResourceError(uri, resp.StatusCode, body, message)
	}

	res := &Resource{repo: r, URI: uri, header: resp.Header.Clone(), body: body}
	if mediaType(resp.Header.Get("Content-Type")) == graph.TurtleMIME {
		g, err := graph.ParseTurtle(body)
		if err != nil {
			return nil, fmt.Errorf("parse metadata for %s: %w", uri, err)
		}
		res.RDF = g
	}
	return res, nil
}

// Open returns a stream of the resource's raw payload at uri, for
// downloading binaries without buffering. The caller must close the
// returned reader.
func (r *Repository) Open(ctx context.Context, uri string) (io.ReadCloser, http.Header, error) {
	resp, err := r.api(ctx, MethodGet, uri, nil, nil)
	if err != nil {
		return nil, nil, err
	}
	if resp.StatusCode != http.StatusOK {
		body := drainBody(resp)
		message := fmt.Sprintf("get %s returned HTTP status %d %s", uri, resp.StatusCode, http.StatusText(resp.StatusCode))
		return nil, nil, newResourceError(uri, resp.StatusCode, body, message)
	}
	return resp.Body, resp.Header, nil
}

// CreateOptions controls child container creation.
type CreateOptions struct {
	// Slug hints the server-assigned path segment on POST creation.
	Slug string
	// Path requests deterministic creation at parent/Path via PUT.
	Path string
	// Force overwrites an occupied Path (delete plus tombstone removal
	// before recreating). Ignored without Path.
	Force bool
}

// AddContainer creates a new RDF container under parentURI carrying the
// given metadata graph.
//
// With Path set, creation is a PUT to parent/Path; an occupied path
// yields a ConflictError unless Force is set, in which case the existing
// resource is deleted and its tombstone obliterated first. Without Path,
// the server assigns the location (POST, optionally hinted by Slug).
//
// The returned Resource carries the server-reported URI and the supplied
// graph; it is not re-fetched.
func (r *Repository) AddContainer(ctx context.Context, parentURI string, g *graph.Graph, opts CreateOptions) (*Resource, error) {
	turtle, err := g.Turtle()
	if err != nil {
		return nil, err
	}

	header := http.Header{}
	header.Set("Content-Type", graph.TurtleMIME)

	method := MethodPost
	uri := parentURI
	if opts.Path != "" {
		method = MethodPut
		uri = pathConcat(parentURI, opts.Path)
		if err := r.ensurePathFree(ctx, uri, opts.Force); err != nil {
			return nil, err
		}
	} else if opts.Slug != "" {
		header.Set("Slug", opts.Slug)
	}

	res, err := r.addResource(ctx, method, uri, header, strings.NewReader(turtle))
	if err != nil {
		return nil, err
	}
	res.RDF = g
	return res, nil
}

// Update writes a resource's metadata graph back to the repository.
// Fedora checks the update for consistency against server-managed
// triples, so the graph should derive from a recent Get.
func (r *Repository) Update(ctx context.Context, uri string, g *graph.Graph) error {
	if g == nil {
		return ErrBinaryUpdate
	}
	turtle, err := g.Turtle()
	if err != nil {
		return err
	}

	header := http.Header{}
	header.Set("Content-Type", graph.TurtleMIME)
	resp, err := r.api(ctx, MethodPut, uri, header, strings.NewReader(turtle))
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusNoContent {
		body := drainBody(resp)
		message := fmt.Sprintf("put RDF %s returned HTTP status %d %s", uri, resp.StatusCode, http.StatusText(resp.StatusCode))
		return newResourceError(uri, resp.StatusCode, body, message)
	}
	resp.Body.Close()
	return nil
}

// Delete removes the resource at uri. Per Fedora semantics a tombstone
// remains at the path; it must be obliterated before the path can be
// reused.
func (r *Repository) Delete(ctx context.Context, uri string) error {
	return r.deleteURI(ctx, uri)
}

// Obliterate removes the tombstone record left behind by Delete, freeing
// the path for reuse.
func (r *Repository) Obliterate(ctx context.Context, uri string) error {
	return r.deleteURI(ctx, pathConcat(uri, "fcr:tombstone"))
}

func (r *Repository) deleteURI(ctx context.Context, uri string) error {
	resp, err := r.api(ctx, MethodDelete, uri, nil, nil)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusNoContent {
		body := drainBody(resp)
		message := fmt.Sprintf("delete %s returned HTTP status %d %s", uri, resp.StatusCode, http.StatusText(resp.StatusCode))
		return newResourceError(uri, resp.StatusCode, body, message)
	}
	resp.Body.Close()
	return nil
}

// addResource runs a PUT/POST create call and builds the Resource handle
// from the server-reported location (the response body, per Fedora
// convention, falling back to the Location header).
func (r *Repository) addResource(ctx context.Context, method Method, uri string, header http.Header, body io.Reader) (*Resource, error) {
	resp, err := r.api(ctx, method, uri, header, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response for %s: %w", uri, err)
	}
	if resp.StatusCode != http.StatusCreated {
		message := fmt.Sprintf("%s %s failed: %d %s", method, uri, resp.StatusCode, http.StatusText(resp.StatusCode))
		r.logger.Error(message)
		return nil, newResourceError(uri, resp.StatusCode, data, message)
	}

	location := strings.TrimSpace(string(data))
	if location == "" {
		location = resp.Header.Get("Location")
	}
	if location == "" {
		location = uri
	}
	return &Resource{repo: r, URI: location}, nil
}

// ensurePathFree implements the create-or-overwrite conflict protocol for
// deterministic-path creation.
//
// A not-found probe means the path is free. Any other probe failure
// propagates unchanged. An occupied path is a ConflictError unless force
// is set, in which case the occupant is deleted and its tombstone
// obliterated; both must succeed before creation proceeds, since an
// un-obliterated tombstone makes the subsequent PUT fail at the server.
// The pair is not transactional: if obliterate fails after delete, the
// tombstoned state is surfaced to the caller as-is.
func (r *Repository) ensurePathFree(ctx context.Context, uri string, force bool) error {
	_, err := r.Get(ctx, uri)
	if err != nil {
		if IsNotFound(err) {
			r.logger.Debug("checked path", "uri", uri, "free", true)
			return nil
		}
		return err
	}

	if !force {
		err := &ConflictError{URI: uri}
		r.logger.Error(err.Error())
		return err
	}

	r.logger.Debug("force: obliterating", "uri", uri)
	if err := r.Delete(ctx, uri); err != nil {
		return err
	}
	return r.Obliterate(ctx, uri)
}
