// Package graph provides the in-memory RDF model for Fedora resources and
// its Turtle wire codec.
//
// A Graph is an ordered set of triples plus namespace bindings. Metadata
// written to the repository uses the empty IRI <> as its subject, which
// Fedora resolves to the resource being created or updated. Graphs parsed
// from a repository response carry the resource's absolute URI as subject,
// so all lookups match on predicate only.
package graph

import (
	rdf "github.com/geoknoesis/rdf-go/rdf"
)

// Self is the subject placeholder for "this resource". Fedora resolves the
// empty relative IRI against the request URI.
var Self = rdf.IRI{Value: ""}

// Pair is a single predicate/object pair for FromPairs.
type Pair struct {
	Predicate string
	Object    rdf.Term
}

// Graph is an ordered collection of RDF triples with namespace bindings.
type Graph struct {
	triples  []rdf.Triple
	prefixes map[string]string
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{prefixes: make(map[string]string)}
}

// FromPairs builds a graph of (predicate, object) pairs, all against the
// Self subject. bind optionally registers prefix -> namespace mappings for
// serialization readability.
func FromPairs(pairs []Pair, bind map[string]string) *Graph {
	g := New()
	for _, p := range pairs {
		g.Add(p.Predicate, p.Object)
	}
	for prefix, ns := range bind {
		g.Bind(prefix, ns)
	}
	return g
}

// Add appends a triple with the Self subject.
func (g *Graph) Add(predicate string, object rdf.Term) {
	g.AddTriple(rdf.Triple{S: Self, P: rdf.IRI{Value: predicate}, O: object})
}

// AddLiteral appends a plain literal triple with the Self subject.
func (g *Graph) AddLiteral(predicate, value string) {
	g.Add(predicate, rdf.Literal{Lexical: value})
}

// AddIRI appends an IRI-valued triple with the Self subject.
func (g *Graph) AddIRI(predicate, iri string) {
	g.Add(predicate, rdf.IRI{Value: iri})
}

// AddTriple appends a triple as-is.
func (g *Graph) AddTriple(t rdf.Triple) {
	g.triples = append(g.triples, t)
}

// Remove drops every triple whose predicate matches.
func (g *Graph) Remove(predicate string) {
	kept := g.triples[:0]
	for _, t := range g.triples {
		if t.P.Value != predicate {
			kept = append(kept, t)
		}
	}
	g.triples = kept
}

// Replace removes all triples with the given predicate and adds a single
// one with the Self subject in their place.
func (g *Graph) Replace(predicate string, object rdf.Term) {
	g.Remove(predicate)
	g.Add(predicate, object)
}

// First returns the object of the first triple with the given predicate.
func (g *Graph) First(predicate string) (rdf.Term, bool) {
	for _, t := range g.triples {
		if t.P.Value == predicate {
			return t.O, true
		}
	}
	return nil, false
}

// FirstLiteral returns the lexical form of the first matching object.
// IRI objects are returned as their IRI value.
func (g *Graph) FirstLiteral(predicate string) (string, bool) {
	o, ok := g.First(predicate)
	if !ok {
		return "", false
	}
	return lexical(o), true
}

// All returns the objects of every triple with the given predicate.
func (g *Graph) All(predicate string) []rdf.Term {
	var out []rdf.Term
	for _, t := range g.triples {
		if t.P.Value == predicate {
			out = append(out, t.O)
		}
	}
	return out
}

// Search returns the objects of every triple whose predicate satisfies
// the filter.
func (g *Graph) Search(filter func(predicate string) bool) []rdf.Term {
	var out []rdf.Term
	for _, t := range g.triples {
		if filter(t.P.Value) {
			out = append(out, t.O)
		}
	}
	return out
}

// Bind registers a namespace prefix for serialization.
func (g *Graph) Bind(prefix, namespace string) {
	if g.prefixes == nil {
		g.prefixes = make(map[string]string)
	}
	g.prefixes[prefix] = namespace
}

// Triples returns the underlying triples in insertion order.
func (g *Graph) Triples() []rdf.Triple {
	return g.triples
}

// Len returns the number of triples.
func (g *Graph) Len() int {
	if g == nil {
		return 0
	}
	return len(g.triples)
}

// lexical extracts a string value from a term.
func lexical(t rdf.Term) string {
	switch v := t.(type) {
	case rdf.Literal:
		return v.Lexical
	case rdf.IRI:
		return v.Value
	default:
		return t.String()
	}
}
