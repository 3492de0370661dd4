package graph

import (
	rdf "github.com/geoknoesis/rdf-go/rdf"

	"github.com/c360studio/fcrepo/vocabulary/dc"
)

// FromDC builds a metadata graph from a flat Dublin Core mapping. One
// triple is added per present field, in canonical field order; keys
// outside the fifteen Dublin Core elements are ignored.
func FromDC(md map[string]string) *Graph {
	g := New()
	for _, field := range dc.Fields {
		if value, ok := md[field]; ok {
			g.Add(dc.Term(field), rdf.Literal{Lexical: value})
		}
	}
	g.Bind(dc.Prefix, dc.Namespace)
	return g
}

// DC extracts Dublin Core fields into a flat mapping. For each field the
// first matching triple wins. Absent fields are omitted from the result
// rather than mapped to a sentinel value.
func (g *Graph) DC() map[string]string {
	md := make(map[string]string)
	for _, field := range dc.Fields {
		if value, ok := g.FirstLiteral(dc.Term(field)); ok {
			md[field] = value
		}
	}
	return md
}
