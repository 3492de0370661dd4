package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"

	rdf "github.com/geoknoesis/rdf-go/rdf"

	"github.com/c360studio/fcrepo/graph"
	"github.com/c360studio/fcrepo/vocabulary/ldp"
	"github.com/c360studio/fcrepo/vocabulary/rdfns"
)

// aclLinkRe matches the rel="acl" target in an HTTP Link header.
var aclLinkRe = regexp.MustCompile(`<([^>]*)>; *rel="acl"`)

// Resource is a handle on a repository object, created by Get or by the
// create operations.
//
// RDF is nil for non-RDF resources (binaries) and for handles returned by
// create-at-generated-path before a fetch. The raw response payload is
// only present immediately after a fetch; it is not persisted or
// refreshed. After a Delete on the remote resource the handle goes stale
// (its URI may be a tombstone).
type Resource struct {
	// URI is the resource's absolute URI, its identity in the repository.
	URI string

	// RDF is the metadata graph, or nil for non-RDF resources.
	RDF *graph.Graph

	repo   *Repository
	header http.Header
	body   []byte
}

// Data returns the raw response payload from the fetch that produced this
// handle, or nil.
func (res *Resource) Data() []byte {
	return res.body
}

// Header returns the response headers from the fetch that produced this
// handle, or nil.
func (res *Resource) Header() http.Header {
	return res.header
}

// Children returns the URIs of the resource's children, from its
// ldp:contains triples.
func (res *Resource) Children() []string {
	if res.RDF == nil {
		return nil
	}
	var uris []string
	for _, o := range res.RDF.All(ldp.Contains) {
		if iri, ok := o.(rdf.IRI); ok {
			uris = append(uris, iri.Value)
		}
	}
	return uris
}

// DC extracts the resource's Dublin Core fields as a flat mapping.
// Absent fields are omitted. Non-RDF resources yield an empty map.
func (res *Resource) DC() map[string]string {
	if res.RDF == nil {
		return map[string]string{}
	}
	return res.RDF.DC()
}

// Types returns the resource's rdf:type IRIs.
func (res *Resource) Types() []string {
	if res.RDF == nil {
		return nil
	}
	var types []string
	for _, o := range res.RDF.All(rdfns.Type) {
		if iri, ok := o.(rdf.IRI); ok {
			types = append(types, iri.Value)
		}
	}
	return types
}

// ACLLink returns the URI of the resource's effective ACL from the
// rel="acl" Link header, or "" when the fetch carried none.
func (res *Resource) ACLLink() string {
	if res.header == nil {
		return ""
	}
	for _, link := range res.header.Values("Link") {
		if m := aclLinkRe.FindStringSubmatch(link); m != nil {
			return m[1]
		}
	}
	return ""
}

// AddContainer creates a new container under this resource.
func (res *Resource) AddContainer(ctx context.Context, g *graph.Graph, opts CreateOptions) (*Resource, error) {
	return res.repo.AddContainer(ctx, res.URI, g, opts)
}

// AddBinary uploads a binary under this resource.
func (res *Resource) AddBinary(ctx context.Context, src Source, opts BinaryOptions) (*Resource, error) {
	return res.repo.AddBinary(ctx, res.URI, src, opts)
}

// Save writes the resource's current metadata graph back to the
// repository.
func (res *Resource) Save(ctx context.Context) error {
	if res.RDF == nil {
		return fmt.Errorf("resource at uri %s is not an RDF resource", res.URI)
	}
	return res.repo.Update(ctx, res.URI, res.RDF)
}

// Refresh re-fetches the resource's metadata from the repository,
// replacing the handle's graph and payload in place.
func (res *Resource) Refresh(ctx context.Context) error {
	if res.repo == nil {
		return errors.New("resource has no repository")
	}
	fresh, err := res.repo.GetWithAccept(ctx, res.URI, graph.TurtleMIME)
	if err != nil {
		return err
	}
	res.RDF = fresh.RDF
	res.header = fresh.header
	res.body = fresh.body
	return nil
}
