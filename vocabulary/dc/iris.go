package dc

// Namespace is the base IRI for the Dublin Core element set.
const Namespace = "http://purl.org/dc/elements/1.1/"

// Prefix is the conventional namespace prefix used in serializations.
const Prefix = "dc"

// Fields enumerates the fifteen Dublin Core element names, in canonical
// order. Flat-field conversion considers exactly these names.
var Fields = []string{
	"contributor",
	"coverage",
	"creator",
	"date",
	"description",
	"format",
	"identifier",
	"language",
	"publisher",
	"relation",
	"rights",
	"source",
	"subject",
	"title",
	"type",
}

// Term returns the predicate IRI for a Dublin Core element name.
func Term(field string) string {
	return Namespace + field
}

// IsField reports whether name is one of the fifteen Dublin Core elements.
func IsField(name string) bool {
	for _, f := range Fields {
		if f == name {
			return true
		}
	}
	return false
}
