package main

import (
	"fmt"
	"math"
	"path/filepath"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"

	"github.com/ha1tch/bubblechart/pkg/chartedit"
	"github.com/ha1tch/bubblechart/pkg/dgraph"
)

const sidebarWidth = 30

// Styles
var (
	styleDefault    = tcell.StyleDefault
	styleMenu       = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleMenuSel    = tcell.StyleDefault.Background(tcell.ColorBlue).Foreground(tcell.ColorWhite)
	styleArc        = tcell.StyleDefault.Foreground(tcell.ColorTeal)
	styleArcSel     = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleArcDraft   = tcell.StyleDefault.Foreground(tcell.NewRGBColor(200, 162, 200)) // Lilac
	styleLabel      = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	styleSidebar    = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleSidebarH   = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleStatus     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	styleMsgInfo    = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleMsgError   = tcell.StyleDefault.Foreground(tcell.ColorRed).Background(tcell.ColorNavy).Bold(true)
	styleMsgSuccess = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleMsgWarning = tcell.StyleDefault.Foreground(tcell.ColorYellow).Background(tcell.ColorNavy)
	styleHelp       = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleCursor     = tcell.StyleDefault.Background(tcell.ColorDarkGray)
	styleInput      = tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite)
	styleBorder     = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

func (ed *Editor) draw() {
	ed.screen.Clear()
	w, h := ed.screen.Size()
	cw, ch := ed.canvasSize(w, h)

	ed.drawCanvas(cw, ch)
	if ed.showSidebar {
		ed.drawSidebar(w, h)
	}

	switch ed.mode {
	case ModeMenu:
		ed.drawContextMenu(w, h)
	case ModeInput:
		ed.drawInputBox(w, h)
	case ModeHelp:
		ed.drawHelp(w, h)
	}

	ed.drawStatusBar(w, h)
}

func (ed *Editor) drawCanvas(cw, ch int) {
	if ed.showSidebar {
		for y := 0; y < ch; y++ {
			ed.screen.SetContent(cw, y, '│', nil, styleBorder)
		}
	}

	g := ed.core.Graph()

	// Arcs first so that nodes render on top.
	for _, a := range g.Arcs() {
		style := styleArc
		if ed.core.IsSelected(a) {
			style = styleArcSel
		}
		ed.drawArc(a, style, cw, ch, true)
	}
	if ph := ed.core.Placeholder(); ph != nil {
		ed.drawArc(ph, styleArcDraft, cw, ch, false)
		if c := ed.core.CursorNode(); c != nil {
			x, y := ed.toCell(c.Location)
			ed.setCell(x, y, '+', styleCursor, cw, ch)
		}
	}

	for _, n := range g.Nodes() {
		ed.drawNode(n, cw, ch)
	}
}

func (ed *Editor) drawNode(n *dgraph.Node, cw, ch int) {
	label := "(" + n.Name + ")"
	if n.ID == ed.initialID {
		label = "→" + label
	}
	style := nodeStyle(n.Fill)
	if ed.core.IsSelected(n) {
		style = style.Reverse(true).Bold(true)
	}
	x, y := ed.toCell(n.Location)
	ed.drawClipped(x-stringWidth(label)/2, y, label, style, cw, ch)
}

// nodeStyle paints a node in its fill colour with readable text.
func nodeStyle(fill colorful.Color) tcell.Style {
	r, g, b := fill.Clamped().RGB255()
	fg := tcell.ColorWhite
	if l, _, _ := fill.Lab(); l > 0.6 {
		fg = tcell.ColorBlack
	}
	return tcell.StyleDefault.Background(tcell.NewRGBColor(int32(r), int32(g), int32(b))).Foreground(fg)
}

// drawArc rasterises an arc's path into cells and marks its head.
func (ed *Editor) drawArc(a *dgraph.Arc, style tcell.Style, cw, ch int, withLabel bool) {
	path := a.Path()
	if len(path) < 2 {
		return
	}
	for i := 1; i < len(path); i++ {
		ed.drawSegment(path[i-1], path[i], style, cw, ch)
	}

	from, tip := path[len(path)-2], path[len(path)-1]
	for i := len(path) - 2; i > 0 && from.Dist(tip) < cellW; i-- {
		from = path[i-1]
	}
	x, y := ed.toCell(tip)
	ed.setCell(x, y, arrowRune(tip.Sub(from)), style, cw, ch)

	if withLabel && a.Name != "" {
		lx, ly := ed.toCell(a.LabelPoint())
		ed.drawClipped(lx-stringWidth(a.Name)/2, ly, a.Name, styleLabel, cw, ch)
	}
}

func (ed *Editor) drawSegment(a, b dgraph.Point, style tcell.Style, cw, ch int) {
	// Work in cell units so that steps and slopes match the screen.
	ax, ay := a.X/cellW, a.Y/cellH
	bx, by := b.X/cellW, b.Y/cellH
	dx, dy := bx-ax, by-ay
	r := lineRune(dx, dy)

	steps := int(math.Ceil(math.Max(math.Abs(dx), math.Abs(dy)) * 2))
	if steps == 0 {
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := int(math.Floor(ax+dx*t)) - ed.offsetX
		y := int(math.Floor(ay+dy*t)) - ed.offsetY
		ed.setCell(x, y, r, style, cw, ch)
	}
}

// lineRune picks a box drawing rune for a direction given in cells.
func lineRune(dx, dy float64) rune {
	adx, ady := math.Abs(dx), math.Abs(dy)
	switch {
	case ady*2 <= adx:
		return '─'
	case adx*2 <= ady:
		return '│'
	case (dx > 0) == (dy > 0):
		return '╲'
	default:
		return '╱'
	}
}

// arrowRune picks an arrow head for a direction in chart coordinates.
func arrowRune(d dgraph.Point) rune {
	// Cells are twice as tall as wide.
	if math.Abs(d.X) >= math.Abs(d.Y)*cellW/cellH*2 {
		if d.X >= 0 {
			return '▶'
		}
		return '◀'
	}
	if d.Y >= 0 {
		return '▼'
	}
	return '▲'
}

func (ed *Editor) setCell(x, y int, r rune, style tcell.Style, cw, ch int) {
	if x < 0 || x >= cw || y < 0 || y >= ch {
		return
	}
	ed.screen.SetContent(x, y, r, nil, style)
}

// drawClipped draws s at (x, y), dropping runes outside the canvas.
func (ed *Editor) drawClipped(x, y int, s string, style tcell.Style, cw, ch int) {
	if y < 0 || y >= ch {
		return
	}
	for _, r := range s {
		if x >= 0 && x < cw {
			ed.screen.SetContent(x, y, r, nil, style)
		}
		x += runewidth.RuneWidth(r)
	}
}

func (ed *Editor) drawSidebar(w, h int) {
	x := w - sidebarWidth + 2
	width := sidebarWidth - 3
	y := 0
	ed.sidebarRows = make(map[int]dgraph.Object)

	title := ed.doc.Name
	if title == "" {
		title = "Untitled chart"
	}
	ed.drawString(x, y, truncate(title, width), styleSidebarH)
	y += 2

	g := ed.core.Graph()
	ed.drawString(x, y, fmt.Sprintf("Nodes (%d):", len(g.Nodes())), styleSidebarH)
	y++
	for _, n := range g.Nodes() {
		if y >= h-3 {
			ed.drawString(x, y, "  ...", styleSidebar)
			return
		}
		prefix := "  "
		if n.ID == ed.initialID {
			prefix = "→ "
		}
		style := styleSidebar
		if ed.core.IsSelected(n) {
			style = styleMenuSel
		}
		ed.drawString(x, y, truncate(prefix+n.Name, width), style)
		ed.sidebarRows[y] = n
		y++
	}
	y++

	ed.drawString(x, y, fmt.Sprintf("Arcs (%d):", len(g.Arcs())), styleSidebarH)
	y++
	for _, a := range g.Arcs() {
		if y >= h-3 {
			ed.drawString(x, y, "  ...", styleSidebar)
			return
		}
		src, dst := "?", "?"
		if a.Source != nil {
			src = a.Source.Name
		}
		if a.Destination != nil {
			dst = a.Destination.Name
		}
		style := styleSidebar
		if ed.core.IsSelected(a) {
			style = styleMenuSel
		}
		line := fmt.Sprintf("  %s --%s--> %s", src, a.Name, dst)
		ed.drawString(x, y, truncate(line, width), style)
		ed.sidebarRows[y] = a
		y++
	}
}

// flashes reports whether messages of type t flash when shown.
func flashes(t MessageType) bool {
	switch t {
	case MsgError, MsgSuccess, MsgWarning:
		return true
	}
	return false
}

// flashInverted reports whether a flashing message is drawn inverted
// elapsed milliseconds after it appeared: normal, inverted, normal,
// inverted in 125ms phases, then normal.
func flashInverted(elapsed int64) bool {
	if elapsed < 0 || elapsed >= 500 {
		return false
	}
	phase := elapsed / 125
	return phase == 1 || phase == 3
}

func (ed *Editor) drawStatusBar(w, h int) {
	y := h - 1
	for x := 0; x < w; x++ {
		ed.screen.SetContent(x, y, ' ', nil, styleStatus)
	}

	fileInfo := "[New]"
	if ed.filename != "" {
		fileInfo = filepath.Base(ed.filename)
	}
	if ed.modified {
		fileInfo += " *"
	}
	ed.drawString(1, y, fileInfo, styleStatus)

	modeStr := ed.modeString()
	ed.drawString(w/2-stringWidth(modeStr)/2, y, modeStr, styleStatus)

	if ed.message != "" {
		style := styleMsgInfo
		switch ed.messageType {
		case MsgError:
			style = styleMsgError
		case MsgSuccess:
			style = styleMsgSuccess
		case MsgWarning:
			style = styleMsgWarning
		}
		if flashes(ed.messageType) && flashInverted(nowMillis()-ed.flashStart.Load()) {
			style = style.Reverse(true)
		}
		msg := truncate(ed.message, w/2)
		ed.drawString(w-stringWidth(msg)-2, y, msg, style)
	}

	y = h - 2
	for x := 0; x < w; x++ {
		ed.screen.SetContent(x, y, ' ', nil, styleDefault)
	}
	ed.drawString(1, y, truncate(ed.helpString(), w-2), styleHelp)
}

func (ed *Editor) drawContextMenu(w, h int) {
	x, y, bw, bh := ed.menuRect(w, h)
	ed.drawBox(x, y, bw, bh, styleDefault)
	for i, item := range ed.menu {
		style := styleMenu
		if i == ed.menuSelected {
			style = styleMenuSel
		}
		label := fmt.Sprintf(" %-*s", bw-3, item.Label)
		ed.drawString(x+1, y+1+i, label, style)
	}
}

func (ed *Editor) drawInputBox(w, h int) {
	boxW := min(60, w)
	boxH := 3
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	ed.drawBox(boxX, boxY, boxW, boxH, styleInput)

	room := boxW - 4 - stringWidth(ed.inputPrompt) - 1
	text := ed.inputBuffer
	// Keep the end of long input visible.
	for stringWidth(text) > room && text != "" {
		_, size := utf8.DecodeRuneInString(text)
		text = text[size:]
	}
	ed.drawString(boxX+2, boxY+1, ed.inputPrompt, styleInput)
	ed.drawString(boxX+2+stringWidth(ed.inputPrompt), boxY+1, text+"_", styleInput)
}

var helpLines = []string{
	"Mouse",
	"  left click     select, drag to move",
	"  double click   rename, or add a node",
	"  right click    second selection and menu",
	"  middle drag    pan",
	"",
	"Keys",
	"  a  add node      d  duplicate     l  start arc",
	"  n  rename        e  description   c  colour",
	"  C  next colour   k  conditions    x  actions",
	"  i  initial       t  chart name    m  menu",
	"  v  validate      p  preview       g  renderer",
	"  f  file type     Tab sidebar      Del delete",
	"  Ctrl+S save  Ctrl+O open  Ctrl+N new  Ctrl+Q quit",
}

func (ed *Editor) drawHelp(w, h int) {
	bw := 4
	for _, l := range helpLines {
		bw = max(bw, stringWidth(l)+4)
	}
	bh := len(helpLines) + 2
	x, y := max((w-bw)/2, 0), max((h-bh)/2, 0)
	ed.drawBox(x, y, bw, bh, styleDefault)
	for i, l := range helpLines {
		style := styleMenu
		if l != "" && l[0] != ' ' {
			style = styleSidebarH
		}
		ed.drawString(x+2, y+1+i, l, style)
	}
}

func (ed *Editor) drawBox(x, y, w, h int, style tcell.Style) {
	ed.screen.SetContent(x, y, '┌', nil, styleBorder)
	ed.screen.SetContent(x+w-1, y, '┐', nil, styleBorder)
	ed.screen.SetContent(x, y+h-1, '└', nil, styleBorder)
	ed.screen.SetContent(x+w-1, y+h-1, '┘', nil, styleBorder)

	for i := x + 1; i < x+w-1; i++ {
		ed.screen.SetContent(i, y, '─', nil, styleBorder)
		ed.screen.SetContent(i, y+h-1, '─', nil, styleBorder)
	}
	for i := y + 1; i < y+h-1; i++ {
		ed.screen.SetContent(x, i, '│', nil, styleBorder)
		ed.screen.SetContent(x+w-1, i, '│', nil, styleBorder)
	}

	for row := y + 1; row < y+h-1; row++ {
		for col := x + 1; col < x+w-1; col++ {
			ed.screen.SetContent(col, row, ' ', nil, style)
		}
	}
}

func (ed *Editor) drawString(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		ed.screen.SetContent(x, y, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
}

func (ed *Editor) modeString() string {
	if ed.core.ArcDrawing() {
		return "ARC"
	}
	switch ed.mode {
	case ModeMenu:
		return "MENU"
	case ModeInput:
		return "INPUT"
	case ModeHelp:
		return "HELP"
	}
	if ed.core.State() == chartedit.StateDragging {
		return "MOVE"
	}
	return ""
}

func (ed *Editor) helpString() string {
	switch ed.mode {
	case ModeMenu:
		return "↑↓:Select  Enter:Confirm  Esc:Close"
	case ModeInput:
		return "Type text  Enter:Confirm  Esc:Cancel  Ctrl+U:Clear"
	case ModeHelp:
		return "Any key: close help"
	}
	if ed.core.ArcDrawing() {
		return "Right-click a node: finish arc  Left-click empty space or Esc: cancel"
	}
	return "a:Add  d:Duplicate  l:Arc  n:Rename  i:Initial  m:Menu  Del:Delete  ?:Help  Ctrl+S:Save  Ctrl+Q:Quit"
}

func stringWidth(s string) int {
	return runewidth.StringWidth(s)
}

// truncate shortens s to at most maxWidth columns.
func truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	return runewidth.Truncate(s, maxWidth, "…")
}
