package graph

import (
	"bytes"
	"context"
	"fmt"
	"io"

	rdf "github.com/geoknoesis/rdf-go/rdf"
)

// TurtleMIME is the content type used for RDF exchange with the
// repository, both as the Accept type requested of the server and as the
// Content-Type of uploaded metadata.
const TurtleMIME = "text/turtle"

// EncodeTurtle serializes the graph as Turtle.
func (g *Graph) EncodeTurtle(w io.Writer) error {
	enc, err := rdf.NewWriter(w, rdf.FormatTurtle)
	if err != nil {
		return fmt.Errorf("serialize turtle: %w", err)
	}
	for _, t := range g.triples {
		if err := enc.Write(t.ToStatement()); err != nil {
			return fmt.Errorf("serialize turtle: %w", err)
		}
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("serialize turtle: %w", err)
	}
	return nil
}

// Turtle serializes the graph as a Turtle string.
func (g *Graph) Turtle() (string, error) {
	var buf bytes.Buffer
	if err := g.EncodeTurtle(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ParseTurtle parses a Turtle document into a graph.
func ParseTurtle(data []byte) (*Graph, error) {
	return DecodeTurtle(bytes.NewReader(data))
}

// DecodeTurtle parses a Turtle stream into a graph.
func DecodeTurtle(r io.Reader) (*Graph, error) {
	g := New()
	err := rdf.Parse(context.Background(), r, rdf.FormatTurtle, func(s rdf.Statement) error {
		g.AddTriple(s.AsTriple())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse turtle: %w", err)
	}
	return g, nil
}
