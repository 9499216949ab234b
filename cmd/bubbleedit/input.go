package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/ha1tch/bubblechart/pkg/chartedit"
	"github.com/ha1tch/bubblechart/pkg/dgraph"
)

// Viewport mapping. A cell maps to the chart point at its centre.

func (ed *Editor) toWorld(x, y int) dgraph.Point {
	return dgraph.Pt((float64(x+ed.offsetX)+0.5)*cellW, (float64(y+ed.offsetY)+0.5)*cellH)
}

func (ed *Editor) toCell(p dgraph.Point) (int, int) {
	return int(math.Floor(p.X/cellW)) - ed.offsetX, int(math.Floor(p.Y/cellH)) - ed.offsetY
}

func (ed *Editor) canvasSize(w, h int) (int, int) {
	if ed.showSidebar {
		w -= sidebarWidth
	}
	return w, h - 2
}

func (ed *Editor) handleKey(ev *tcell.EventKey) bool {
	if confirmName(ev) != ed.confirmKey {
		ed.confirmKey = ""
	}

	switch ed.mode {
	case ModeInput:
		return ed.handleInputKey(ev)
	case ModeMenu:
		return ed.handleMenuKey(ev)
	case ModeHelp:
		ed.mode = ModeCanvas
		return false
	}

	switch ev.Key() {
	case tcell.KeyCtrlQ, tcell.KeyCtrlC:
		if ed.modified && !ed.confirm("quit", "Unsaved changes: press again to quit") {
			return false
		}
		return true
	case tcell.KeyCtrlS:
		ed.save()
	case tcell.KeyCtrlO:
		if !ed.modified || ed.confirm("open", "Unsaved changes: press again to open another chart") {
			ed.open()
		}
	case tcell.KeyCtrlN:
		if !ed.modified || ed.confirm("new", "Unsaved changes: press again to discard") {
			ed.newChart()
			ed.showMessage("New chart", MsgInfo)
		}
	case tcell.KeyEscape:
		if ed.core.CancelArc() {
			ed.showMessage("Arc cancelled", MsgInfo)
		} else {
			ed.core.UnSelect()
		}
	case tcell.KeyDelete, tcell.KeyBackspace, tcell.KeyBackspace2:
		if !ed.core.DeleteSelection() {
			ed.showMessage("Nothing selected", MsgInfo)
		}
	case tcell.KeyTab:
		ed.showSidebar = !ed.showSidebar
	case tcell.KeyF2:
		ed.renameSelected()
	case tcell.KeyEnter:
		ed.openMenuAtPointer()
	case tcell.KeyLeft:
		ed.offsetX--
	case tcell.KeyRight:
		ed.offsetX++
	case tcell.KeyUp:
		ed.offsetY--
	case tcell.KeyDown:
		ed.offsetY++
	case tcell.KeyHome:
		ed.offsetX, ed.offsetY = 0, 0
	case tcell.KeyRune:
		ed.handleRune(ev.Rune())
	}
	return false
}

// confirmName names the keys that ask for confirmation before discarding
// unsaved changes.
func confirmName(ev *tcell.EventKey) string {
	switch ev.Key() {
	case tcell.KeyCtrlQ, tcell.KeyCtrlC:
		return "quit"
	case tcell.KeyCtrlO:
		return "open"
	case tcell.KeyCtrlN:
		return "new"
	}
	return ""
}

func (ed *Editor) handleRune(r rune) {
	sel := ed.core.Selection()
	node, _ := sel.Primary.(*dgraph.Node)
	arc, _ := sel.Primary.(*dgraph.Arc)

	switch r {
	case 'a':
		ed.core.AddNode(ed.core.Pointer())
	case 'd':
		switch {
		case node != nil:
			ed.core.DuplicateNode(node)
		case arc != nil:
			ed.core.DuplicateArc(arc)
		default:
			ed.showMessage("Select something to duplicate", MsgInfo)
		}
	case 'l':
		if ed.core.StartArc(ed.core.Pointer()) {
			ed.showMessage("Right-click a node to finish the arc, Esc to cancel", MsgInfo)
		} else {
			ed.showMessage("Select one node to start an arc", MsgInfo)
		}
	case 'n':
		ed.renameSelected()
	case 'e':
		if node == nil {
			ed.showMessage("Select a node to describe", MsgInfo)
			return
		}
		ed.prompt("Description: ", node.Description, func(s string) {
			ed.core.SetDescription(node, s)
		})
	case 'c':
		if node == nil {
			ed.showMessage("Select a node to colour", MsgInfo)
			return
		}
		ed.prompt("Colour (#rrggbb): ", node.Fill.Hex(), func(s string) {
			c, err := colorful.Hex(strings.TrimSpace(s))
			if err != nil {
				ed.showMessage(fmt.Sprintf("Not a colour: %q", s), MsgError)
				return
			}
			ed.core.SetColour(node, c)
		})
	case 'C':
		if node != nil {
			ed.core.SetColour(node, nextColour(ed.palette, node.Fill))
		}
	case 'k':
		if arc == nil {
			ed.showMessage("Select an arc to edit conditions", MsgInfo)
			return
		}
		ed.prompt("Conditions (; separated): ", strings.Join(arc.Conditions, "; "), func(s string) {
			ed.core.SetConditions(arc, splitLines(s))
		})
	case 'x':
		if arc == nil {
			ed.showMessage("Select an arc to edit actions", MsgInfo)
			return
		}
		ed.prompt("Actions (; separated): ", strings.Join(arc.Actions, "; "), func(s string) {
			ed.core.SetActions(arc, splitLines(s))
		})
	case 'i':
		if node == nil {
			ed.showMessage("Select a node to make initial", MsgInfo)
			return
		}
		ed.toggleInitial(node)
	case 't':
		ed.prompt("Chart name: ", ed.doc.Name, func(s string) {
			ed.doc.Name = strings.TrimSpace(s)
			ed.modified = true
		})
	case 'm', ' ':
		ed.openMenuAtPointer()
	case 'v':
		ed.runValidate()
	case 'p':
		ed.renderView()
	case 'g':
		ed.toggleRenderer()
	case 'f':
		ed.toggleFileType()
	case '?':
		ed.mode = ModeHelp
	}
}

func (ed *Editor) renameSelected() {
	obj := ed.core.Selection().Primary
	if obj == nil {
		ed.showMessage("Select something to rename", MsgInfo)
		return
	}
	ed.rename(obj)
}

func (ed *Editor) rename(obj dgraph.Object) {
	ed.prompt("Name: ", obj.ObjectName(), func(name string) {
		if !ed.core.Rename(obj, name) {
			ed.showMessage(fmt.Sprintf("Cannot rename to %q", name), MsgError)
		}
	})
}

// nextColour returns the palette colour after c, skipping the neutral
// entry. A colour not in the palette is followed by the first one.
func nextColour(p dgraph.Palette, c colorful.Color) colorful.Color {
	n := len(p.Colours)
	if n == 0 {
		return c
	}
	start := -1
	for i, pc := range p.Colours {
		if pc.Hex() == c.Hex() {
			start = i
			break
		}
	}
	for k := 1; k <= n; k++ {
		i := (start + k + n) % n
		if i != p.Neutral {
			return p.Colours[i]
		}
	}
	return c
}

// splitLines splits s on semicolons, dropping blank entries.
func splitLines(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ";") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Prompt line

func (ed *Editor) prompt(label, initial string, action func(string)) {
	ed.mode = ModeInput
	ed.inputPrompt = label
	ed.inputBuffer = initial
	ed.inputAction = action
}

func (ed *Editor) handleInputKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEnter:
		ed.mode = ModeCanvas
		if ed.inputAction != nil {
			ed.inputAction(ed.inputBuffer)
		}
		ed.inputAction = nil
	case tcell.KeyEscape:
		ed.mode = ModeCanvas
		ed.inputAction = nil
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if r := []rune(ed.inputBuffer); len(r) > 0 {
			ed.inputBuffer = string(r[:len(r)-1])
		}
	case tcell.KeyCtrlU:
		ed.inputBuffer = ""
	case tcell.KeyRune:
		ed.inputBuffer += string(ev.Rune())
	}
	return false
}

// Context menu

func (ed *Editor) openMenuAtPointer() {
	x, y := ed.toCell(ed.core.Pointer())
	ed.openMenu(x, y, ed.core.Pointer())
}

func (ed *Editor) openMenu(x, y int, at dgraph.Point) {
	items := ed.core.Menu()
	if len(items) == 0 {
		return
	}
	ed.menu = items
	ed.menuX, ed.menuY = x, y
	ed.menuAt = at
	ed.menuSelected = 0
	ed.mode = ModeMenu
}

// menuRect returns the context menu box clamped to a w x h screen.
func (ed *Editor) menuRect(w, h int) (x, y, bw, bh int) {
	bw = 4
	for _, item := range ed.menu {
		if n := stringWidth(item.Label) + 4; n > bw {
			bw = n
		}
	}
	bh = len(ed.menu) + 2
	x, y = ed.menuX, ed.menuY
	if x+bw > w {
		x = w - bw
	}
	if y+bh > h {
		y = h - bh
	}
	return max(x, 0), max(y, 0), bw, bh
}

// menuItemAt returns the menu entry under cell (x, y), or -1.
func (ed *Editor) menuItemAt(x, y int) int {
	w, h := ed.screen.Size()
	mx, my, bw, _ := ed.menuRect(w, h)
	i := y - my - 1
	if x <= mx || x >= mx+bw-1 || i < 0 || i >= len(ed.menu) {
		return -1
	}
	return i
}

func (ed *Editor) runMenuItem(i int) {
	item := ed.menu[i]
	ed.mode = ModeCanvas
	ed.menu = nil
	ed.log.Debug("menu", "command", item.Command.String())
	if !ed.core.Do(item.Command, ed.menuAt) {
		ed.showMessage("Cannot "+strings.ToLower(item.Label), MsgError)
		return
	}
	if item.Command == chartedit.CmdStartArc {
		ed.showMessage("Right-click a node to finish the arc, Esc to cancel", MsgInfo)
	}
}

func (ed *Editor) dismissMenu() {
	ed.mode = ModeCanvas
	ed.menu = nil
	ed.core.MenuDismissed()
}

func (ed *Editor) handleMenuKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyUp:
		if ed.menuSelected > 0 {
			ed.menuSelected--
		}
	case tcell.KeyDown:
		if ed.menuSelected < len(ed.menu)-1 {
			ed.menuSelected++
		}
	case tcell.KeyEnter:
		ed.runMenuItem(ed.menuSelected)
	case tcell.KeyEscape:
		ed.dismissMenu()
	}
	return false
}

// Mouse

func (ed *Editor) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	raw := ev.Buttons()

	if ed.mode == ModeCanvas {
		switch {
		case raw&tcell.WheelUp != 0:
			ed.offsetY -= 2
			return
		case raw&tcell.WheelDown != 0:
			ed.offsetY += 2
			return
		case raw&tcell.WheelLeft != 0:
			ed.offsetX -= 4
			return
		case raw&tcell.WheelRight != 0:
			ed.offsetX += 4
			return
		}
	}

	btn := raw & (tcell.Button1 | tcell.Button2 | tcell.Button3)
	pressed := btn &^ ed.buttons
	released := ed.buttons &^ btn
	ed.buttons = btn
	p := ed.toWorld(x, y)

	// The core always sees releases so that a drag never outlives the button.
	if released&tcell.Button1 != 0 {
		ed.core.Release(chartedit.ButtonPrimary, p)
	}
	if released&tcell.Button2 != 0 {
		ed.core.Release(chartedit.ButtonSecondary, p)
	}

	// Middle drag pans the viewport.
	if ed.panning {
		if btn&tcell.Button3 == 0 {
			ed.panning = false
		} else {
			ed.offsetX -= x - ed.panX
			ed.offsetY -= y - ed.panY
			ed.panX, ed.panY = x, y
		}
		return
	}

	switch ed.mode {
	case ModeMenu:
		if pressed&(tcell.Button1|tcell.Button2) != 0 {
			if i := ed.menuItemAt(x, y); i >= 0 {
				ed.runMenuItem(i)
			} else {
				ed.dismissMenu()
			}
		}
		return
	case ModeInput:
		return
	case ModeHelp:
		if pressed != 0 {
			ed.mode = ModeCanvas
		}
		return
	}

	w, h := ed.screen.Size()
	cw, ch := ed.canvasSize(w, h)
	inCanvas := x < cw && y < ch

	switch {
	case pressed&tcell.Button3 != 0:
		ed.panning = true
		ed.panX, ed.panY = x, y
	case pressed&tcell.Button1 != 0:
		if !inCanvas {
			ed.clickSidebar(y)
			return
		}
		if ed.isDoubleClick(x, y) {
			ed.core.Press(chartedit.ButtonPrimary, p)
			ed.doubleClick(p)
			return
		}
		ed.core.Press(chartedit.ButtonPrimary, p)
	case pressed&tcell.Button2 != 0:
		if !inCanvas {
			return
		}
		ed.rightClick(x, y, p)
	case pressed == 0 && released == 0:
		ed.core.Motion(p)
	}
}

func (ed *Editor) isDoubleClick(x, y int) bool {
	now := nowMillis()
	if now-ed.lastClickTime < doubleClickMillis && x == ed.lastClickX && y == ed.lastClickY {
		ed.lastClickTime = 0
		return true
	}
	ed.lastClickTime, ed.lastClickX, ed.lastClickY = now, x, y
	return false
}

// doubleClick renames the object under p, or adds a node there.
func (ed *Editor) doubleClick(p dgraph.Point) {
	if ed.core.ArcDrawing() {
		return
	}
	if obj := ed.core.Graph().HitTest(p); obj != nil {
		ed.rename(obj)
		return
	}
	ed.core.AddNode(p)
}

// rightClick finishes an arc being drawn, or makes a selection and opens
// the context menu for it. With nothing selected a right click on an
// object selects it first.
func (ed *Editor) rightClick(x, y int, p dgraph.Point) {
	if ed.core.ArcDrawing() {
		ed.core.Press(chartedit.ButtonSecondary, p)
		return
	}
	if ed.core.Selection().Primary == nil && ed.core.Graph().HitTest(p) != nil {
		ed.core.Press(chartedit.ButtonPrimary, p)
		ed.core.Release(chartedit.ButtonPrimary, p)
	} else {
		ed.core.Press(chartedit.ButtonSecondary, p)
	}
	ed.openMenu(x, y, p)
}

// clickSidebar selects the node or arc listed on row y and scrolls the
// canvas to it.
func (ed *Editor) clickSidebar(y int) {
	obj, ok := ed.sidebarRows[y]
	if !ok {
		return
	}
	var at dgraph.Point
	switch o := obj.(type) {
	case *dgraph.Node:
		at = o.Location
	case *dgraph.Arc:
		if !o.Resolved() {
			return
		}
		at = o.LabelPoint()
	}
	ed.centreOn(at)
	if ed.core.Graph().HitTest(at) == obj {
		ed.core.Press(chartedit.ButtonPrimary, at)
		ed.core.Release(chartedit.ButtonPrimary, at)
	}
}

func (ed *Editor) centreOn(p dgraph.Point) {
	w, h := ed.screen.Size()
	cw, ch := ed.canvasSize(w, h)
	cx, cy := ed.toCell(p)
	ed.offsetX += cx - cw/2
	ed.offsetY += cy - ch/2
}
