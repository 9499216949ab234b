package chartedit

import (
	"fmt"

	"github.com/ha1tch/bubblechart/pkg/dgraph"
)

// Command is a context menu action.
type Command int

const (
	CmdAddNode Command = iota
	CmdDuplicateNode
	CmdStartArc
	CmdAddSelfArc
	CmdAddArcBetween
	CmdDeleteNode
	CmdDuplicateArc
	CmdDeleteArc
	CmdDeleteSelection
)

var commandNames = map[Command]string{
	CmdAddNode:         "add-node",
	CmdDuplicateNode:   "duplicate-node",
	CmdStartArc:        "start-arc",
	CmdAddSelfArc:      "add-self-arc",
	CmdAddArcBetween:   "add-arc-between",
	CmdDeleteNode:      "delete-node",
	CmdDuplicateArc:    "duplicate-arc",
	CmdDeleteArc:       "delete-arc",
	CmdDeleteSelection: "delete-selection",
}

func (c Command) String() string {
	if s, ok := commandNames[c]; ok {
		return s
	}
	return fmt.Sprintf("Command(%d)", int(c))
}

// MenuItem is one context menu entry.
type MenuItem struct {
	Label   string
	Command Command
}

// Menu returns the context menu entries valid for the current selection.
func (e *Editor) Menu() []MenuItem {
	if e.arcDrawing {
		return nil
	}
	switch p := e.primary.(type) {
	case nil:
		return []MenuItem{{"Add Node", CmdAddNode}}

	case *dgraph.Node:
		switch s := e.secondary.(type) {
		case nil:
			return []MenuItem{
				{"Duplicate " + p.Name, CmdDuplicateNode},
				{"Add Arc from " + p.Name, CmdStartArc},
				{"Add Arc from " + p.Name + " to " + p.Name, CmdAddSelfArc},
				{"Delete " + p.Name, CmdDeleteNode},
			}
		case *dgraph.Node:
			return []MenuItem{
				{"Add Arc from " + p.Name + " to " + s.Name, CmdAddArcBetween},
				{"Delete selection", CmdDeleteSelection},
			}
		}

	case *dgraph.Arc:
		if e.secondary == nil {
			label := arcLabel(p)
			return []MenuItem{
				{"Duplicate " + label, CmdDuplicateArc},
				{"Delete " + label, CmdDeleteArc},
			}
		}
	}
	return []MenuItem{{"Delete selection", CmdDeleteSelection}}
}

func arcLabel(a *dgraph.Arc) string {
	if !a.Resolved() {
		return a.Name
	}
	return fmt.Sprintf("Arc from %s to %s", a.Source.Name, a.Destination.Name)
}

// Do runs cmd against the current selection. at is where the menu was
// opened, used to place new nodes and the arc cursor.
//
// Like dismissing the menu, every command except CmdStartArc ends by
// clearing the selection. It reports whether the command applied.
func (e *Editor) Do(cmd Command, at dgraph.Point) bool {
	if !e.allowed(cmd) {
		return false
	}
	ok := e.run(cmd, at)
	if cmd != CmdStartArc || !ok {
		e.UnSelect()
	}
	return ok
}

// MenuDismissed is called when the context menu closes without a choice.
// An arc being drawn survives so that the second click can complete it.
func (e *Editor) MenuDismissed() {
	if e.arcDrawing {
		return
	}
	e.UnSelect()
}

func (e *Editor) allowed(cmd Command) bool {
	for _, item := range e.Menu() {
		if item.Command == cmd {
			return true
		}
	}
	return false
}

func (e *Editor) run(cmd Command, at dgraph.Point) bool {
	node, _ := e.primary.(*dgraph.Node)
	arc, _ := e.primary.(*dgraph.Arc)
	switch cmd {
	case CmdAddNode:
		return e.AddNode(at) != nil
	case CmdDuplicateNode:
		n, _ := e.DuplicateNode(node)
		return n != nil
	case CmdStartArc:
		return e.StartArc(at)
	case CmdAddSelfArc:
		return e.AddArc(node, node) != nil
	case CmdAddArcBetween:
		dst, _ := e.secondary.(*dgraph.Node)
		return e.AddArc(node, dst) != nil
	case CmdDeleteNode:
		return e.DeleteNode(node)
	case CmdDuplicateArc:
		return e.DuplicateArc(arc) != nil
	case CmdDeleteArc:
		return e.DeleteArc(arc)
	case CmdDeleteSelection:
		return e.DeleteSelection()
	}
	return false
}
