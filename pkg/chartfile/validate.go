package chartfile

import (
	"fmt"
	"strings"

	"github.com/ha1tch/bubblechart/pkg/dgraph"
)

// ValidationError lists every structural problem found in a document.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 1 {
		return "chartfile: invalid chart: " + e.Problems[0]
	}
	return fmt.Sprintf("chartfile: invalid chart: %d problems:\n  %s",
		len(e.Problems), strings.Join(e.Problems, "\n  "))
}

// Validate checks a document for problems the editor tolerates but a
// consumer of the file should not have to: duplicate or reserved IDs,
// duplicate or empty names, arcs whose endpoints do not resolve and an
// initial state that names no node. It returns nil or a *ValidationError.
func Validate(doc *Document) error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	nodeIDs := make(map[int]bool)
	nodeNames := make(map[string]bool)
	for _, n := range doc.Nodes {
		if n.ID == dgraph.CursorNodeID {
			add("node %q uses reserved id %d", n.Name, n.ID)
		}
		if nodeIDs[n.ID] {
			add("duplicate node id %d", n.ID)
		}
		nodeIDs[n.ID] = true

		switch {
		case strings.TrimSpace(n.Name) == "":
			add("node %d has no name", n.ID)
		case nodeNames[n.Name]:
			add("duplicate node name %q", n.Name)
		}
		nodeNames[n.Name] = true
	}

	arcIDs := make(map[int]bool)
	arcNames := make(map[string]bool)
	for _, a := range doc.Arcs {
		if a.ID == dgraph.CursorNodeID {
			add("arc %q uses reserved id %d", a.Name, a.ID)
		}
		if arcIDs[a.ID] {
			add("duplicate arc id %d", a.ID)
		}
		arcIDs[a.ID] = true

		if a.Name != "" {
			if arcNames[a.Name] {
				add("duplicate arc name %q", a.Name)
			}
			arcNames[a.Name] = true
		}
		if !nodeIDs[a.SourceID] {
			add("arc %d: source %d is not a node", a.ID, a.SourceID)
		}
		if !nodeIDs[a.DestinationID] {
			add("arc %d: destination %d is not a node", a.ID, a.DestinationID)
		}
	}

	if doc.Initial != "" && !nodeNames[doc.Initial] {
		add("initial state %q is not a node", doc.Initial)
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
