// Package ldp provides vocabulary terms from the W3C Linked Data Platform,
// the container/resource model underlying the Fedora REST API.
package ldp

// Namespace is the base IRI for LDP terms.
const Namespace = "http://www.w3.org/ns/ldp#"

// Class IRIs for LDP resource types.
const (
	// Resource is the base class of all LDP resources.
	Resource = Namespace + "Resource"

	// RDFSource is an LDP resource whose state is an RDF graph.
	RDFSource = Namespace + "RDFSource"

	// NonRDFSource is an LDP resource holding opaque bytes (a binary).
	NonRDFSource = Namespace + "NonRDFSource"

	// BasicContainer is the default container type created by Fedora.
	BasicContainer = Namespace + "BasicContainer"
)

// Contains links a container to its child resources.
const Contains = Namespace + "contains"
