// Package rdfns provides core RDF syntax vocabulary terms.
package rdfns

// Namespace is the base IRI for the RDF syntax vocabulary.
const Namespace = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"

// Type links a resource to its class.
const Type = Namespace + "type"
