package client

import (
	"context"
	"fmt"

	rdf "github.com/geoknoesis/rdf-go/rdf"

	"github.com/c360studio/fcrepo/graph"
	"github.com/c360studio/fcrepo/vocabulary/rdfns"
	"github.com/c360studio/fcrepo/vocabulary/webac"
)

// AccessMode is a WebAC grant mode.
type AccessMode string

// Supported grant modes.
const (
	AccessRead  AccessMode = "Read"
	AccessWrite AccessMode = "Write"
)

// IRI returns the WebAC mode IRI for the access mode.
func (m AccessMode) IRI() string {
	return webac.Namespace + string(m)
}

// ACL is a handle on a WebAC ACL container. Authorizations live as child
// resources named {agent}_{mode}.
type ACL struct {
	repo *Repository
	// URI is the ACL container's absolute URI.
	URI string
}

// AddACL creates an ACL container at parentURI/path (default "acl") and
// returns a handle on it.
func (r *Repository) AddACL(ctx context.Context, parentURI, path string, force bool) (*ACL, error) {
	if path == "" {
		path = "acl"
	}
	g := graph.New()
	g.Bind(webac.Prefix, webac.Namespace)
	g.AddIRI(rdfns.Type, webac.ACL)

	res, err := r.AddContainer(ctx, parentURI, g, CreateOptions{Path: path, Force: force})
	if err != nil {
		return nil, err
	}
	return &ACL{repo: r, URI: res.URI}, nil
}

// GetACL returns a handle on the effective ACL of the resource at uri,
// discovered through the rel="acl" Link header.
func (r *Repository) GetACL(ctx context.Context, uri string) (*ACL, error) {
	res, err := r.Get(ctx, uri)
	if err != nil {
		return nil, err
	}
	aclURI := res.ACLLink()
	if aclURI == "" {
		return nil, fmt.Errorf("resource %s has no effective acl", uri)
	}
	return &ACL{repo: r, URI: aclURI}, nil
}

// authPath is the conventional child path of the authorization granting
// agent the given mode.
func (a *ACL) authPath(agent string, mode AccessMode) string {
	return agent + "_" + string(mode)
}

// Grant gives agent the access mode over the resource at uri. The target
// gains an acl:accessControl triple pointing at this ACL, and an
// Authorization child is written under the ACL.
func (a *ACL) Grant(ctx context.Context, agent string, mode AccessMode, uri string) error {
	target, err := a.repo.Get(ctx, uri)
	if err != nil {
		return err
	}
	if target.RDF == nil {
		return fmt.Errorf("resource at uri %s is not an RDF resource", uri)
	}
	target.RDF.Bind(webac.Prefix, webac.Namespace)
	target.RDF.AddIRI(webac.AccessControl, a.URI)
	if err := target.Save(ctx); err != nil {
		return err
	}

	auth := graph.New()
	auth.Bind(webac.Prefix, webac.Namespace)
	auth.AddIRI(rdfns.Type, webac.Authorization)
	auth.AddIRI(webac.AccessTo, uri)
	auth.AddIRI(webac.Mode, mode.IRI())
	auth.Add(webac.Agent, rdf.Literal{Lexical: agent})

	_, err = a.repo.AddContainer(ctx, a.URI, auth, CreateOptions{Path: a.authPath(agent, mode), Force: true})
	return err
}

// Revoke removes agent's authorization for the given mode. The
// acl:accessControl triple on the target stays, since other
// authorizations may still reference this ACL. Revoking an absent
// authorization is a no-op.
func (a *ACL) Revoke(ctx context.Context, agent string, mode AccessMode) error {
	authURI := pathConcat(a.URI, a.authPath(agent, mode))
	if _, err := a.repo.Get(ctx, authURI); err != nil {
		if IsNotFound(err) {
			return nil
		}
		return err
	}
	if err := a.repo.Delete(ctx, authURI); err != nil {
		return err
	}
	return a.repo.Obliterate(ctx, authURI)
}

// Permissions lists every authorization in the ACL as a map of protected
// URI to agent to granted modes.
func (a *ACL) Permissions(ctx context.Context) (map[string]map[string][]AccessMode, error) {
	acl, err := a.repo.GetWithAccept(ctx, a.URI, graph.TurtleMIME)
	if err != nil {
		return nil, err
	}

	perms := make(map[string]map[string][]AccessMode)
	for _, child := range acl.Children() {
		auth, err := a.repo.GetWithAccept(ctx, child, graph.TurtleMIME)
		if err != nil {
			return nil, err
		}
		if auth.RDF == nil {
			continue
		}
		agent, _ := auth.RDF.FirstLiteral(webac.Agent)
		target, _ := auth.RDF.FirstLiteral(webac.AccessTo)
		modeIRI, _ := auth.RDF.FirstLiteral(webac.Mode)
		if agent == "" || target == "" || modeIRI == "" {
			continue
		}
		mode := AccessMode(webac.ModeName(modeIRI))
		if perms[target] == nil {
			perms[target] = make(map[string][]AccessMode)
		}
		perms[target][agent] = append(perms[target][agent], mode)
	}
	return perms, nil
}
