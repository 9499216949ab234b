package chartfile

import (
	"errors"
	"strings"
	"testing"

	"github.com/ha1tch/bubblechart/pkg/dgraph"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		doc   *Document
		wants []string // substrings of expected problems; empty means valid
	}{
		{
			name: "valid",
			doc: &Document{
				Initial: "A",
				Nodes:   []dgraph.Node{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}},
				Arcs:    []dgraph.Arc{{ID: 1, Name: "Arc 1", SourceID: 1, DestinationID: 2}},
			},
		},
		{
			name: "empty",
			doc:  &Document{},
		},
		{
			name: "duplicate ids",
			doc: &Document{
				Nodes: []dgraph.Node{{ID: 1, Name: "A"}, {ID: 1, Name: "B"}},
				Arcs:  []dgraph.Arc{{ID: 3, SourceID: 1, DestinationID: 1}, {ID: 3, SourceID: 1, DestinationID: 1}},
			},
			wants: []string{"duplicate node id 1", "duplicate arc id 3"},
		},
		{
			name: "reserved id",
			doc: &Document{
				Nodes: []dgraph.Node{{ID: 0, Name: "A"}},
			},
			wants: []string{"reserved id 0"},
		},
		{
			name: "names",
			doc: &Document{
				Nodes: []dgraph.Node{{ID: 1, Name: "A"}, {ID: 2, Name: "A"}, {ID: 3, Name: " "}},
				Arcs: []dgraph.Arc{
					{ID: 4, Name: "go", SourceID: 1, DestinationID: 2},
					{ID: 5, Name: "go", SourceID: 2, DestinationID: 1},
				},
			},
			wants: []string{`duplicate node name "A"`, "node 3 has no name", `duplicate arc name "go"`},
		},
		{
			name: "unresolved endpoints",
			doc: &Document{
				Nodes: []dgraph.Node{{ID: 1, Name: "A"}},
				Arcs:  []dgraph.Arc{{ID: 2, SourceID: 9, DestinationID: 8}},
			},
			wants: []string{"source 9 is not a node", "destination 8 is not a node"},
		},
		{
			name: "missing initial",
			doc: &Document{
				Initial: "Z",
				Nodes:   []dgraph.Node{{ID: 1, Name: "A"}},
			},
			wants: []string{`initial state "Z"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.doc)
			if len(tt.wants) == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want *ValidationError", err)
			}
			if len(verr.Problems) != len(tt.wants) {
				t.Errorf("got %d problems %q, want %d", len(verr.Problems), verr.Problems, len(tt.wants))
			}
			all := strings.Join(verr.Problems, "\n")
			for _, w := range tt.wants {
				if !strings.Contains(all, w) {
					t.Errorf("problems lack %q:\n%s", w, all)
				}
			}
		})
	}
}

func TestValidationErrorMessage(t *testing.T) {
	one := &ValidationError{Problems: []string{"x"}}
	if one.Error() != "chartfile: invalid chart: x" {
		t.Errorf("single = %q", one.Error())
	}
	two := &ValidationError{Problems: []string{"x", "y"}}
	if !strings.Contains(two.Error(), "2 problems") {
		t.Errorf("multi = %q", two.Error())
	}
}
