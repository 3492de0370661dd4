package dc

import "testing"

func TestTerm(t *testing.T) {
	if got := Term("title"); got != "http://purl.org/dc/elements/1.1/title" {
		t.Errorf("Term(title) = %q", got)
	}
}

func TestIsField(t *testing.T) {
	for _, f := range Fields {
		if !IsField(f) {
			t.Errorf("IsField(%q) = false", f)
		}
	}
	for _, name := range []string{"", "Title", "abstract", "modified"} {
		if IsField(name) {
			t.Errorf("IsField(%q) = true", name)
		}
	}
}

func TestFieldCount(t *testing.T) {
	if len(Fields) != 15 {
		t.Errorf("len(Fields) = %d, want 15", len(Fields))
	}
}
