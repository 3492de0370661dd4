// Package dc provides vocabulary terms for Dublin Core metadata.
//
// Fedora resources conventionally carry descriptive metadata as Dublin
// Core triples. The Fields list enumerates the fifteen element names used
// bidirectionally by graph.FromDC and Graph.DC.
package dc
