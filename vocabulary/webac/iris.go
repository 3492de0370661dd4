// Package webac provides vocabulary terms from the W3C Web Access Control
// ontology, used by Fedora for resource ACLs.
package webac

// Namespace is the base IRI for WebAC terms.
const Namespace = "http://www.w3.org/ns/auth/acl#"

// Prefix is the conventional namespace prefix used in serializations.
const Prefix = "acl"

// Class IRIs.
const (
	// ACL is the class of ACL resources.
	ACL = Namespace + "Acl"

	// Authorization is the class of individual grant records inside an ACL.
	Authorization = Namespace + "Authorization"
)

// Property IRIs.
const (
	// AccessControl links a protected resource to its ACL.
	AccessControl = Namespace + "accessControl"

	// AccessTo links an authorization to the resource it protects.
	AccessTo = Namespace + "accessTo"

	// Mode links an authorization to a grant mode (Read or Write).
	Mode = Namespace + "mode"

	// Agent links an authorization to the user it grants access to.
	Agent = Namespace + "agent"
)

// Grant modes.
const (
	// Read is the read-access mode IRI.
	Read = Namespace + "Read"

	// Write is the write-access mode IRI.
	Write = Namespace + "Write"
)

// ModeName shortens a mode IRI to its local name ("Read" or "Write").
// Unknown IRIs are returned unchanged.
func ModeName(iri string) string {
	if len(iri) > len(Namespace) && iri[:len(Namespace)] == Namespace {
		return iri[len(Namespace):]
	}
	return iri
}
