// Command bubbleedit is a TUI editor for bubble charts.
package main

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/bubblechart/pkg/chartedit"
	"github.com/ha1tch/bubblechart/pkg/chartfile"
	"github.com/ha1tch/bubblechart/pkg/dgraph"
)

// Editor holds all front end state. The chart itself lives in core.
type Editor struct {
	screen   tcell.Screen
	core     *chartedit.Editor
	doc      *chartfile.Document // chart metadata; nodes and arcs live in core
	filename string
	modified bool
	mode     Mode
	config   Config
	palette  dgraph.Palette
	log      *slog.Logger

	message     string
	messageType MessageType
	// flashStart is the Unix millisecond time the message was shown. The
	// refresh ticker reads it from its own goroutine.
	flashStart atomic.Int64

	// Viewport origin in cells.
	offsetX int
	offsetY int

	// initialID is the ID of the initial node, 0 for none. Tracking the
	// ID keeps it valid across renames.
	initialID int

	// Mouse tracking
	buttons       tcell.ButtonMask
	panning       bool
	panX, panY    int
	lastClickTime int64
	lastClickX    int
	lastClickY    int

	// Context menu
	menu         []chartedit.MenuItem
	menuX, menuY int
	menuAt       dgraph.Point
	menuSelected int

	// Input state
	inputBuffer string
	inputPrompt string
	inputAction func(string)

	showSidebar bool
	sidebarRows map[int]dgraph.Object // screen row to listed object, rebuilt on draw
	confirmKey  string                // key that must be pressed again to confirm
}

// Mode represents editor mode.
type Mode int

const (
	ModeCanvas Mode = iota
	ModeMenu        // context menu open
	ModeInput       // prompt line
	ModeHelp        // help overlay
)

// MessageType for status messages.
type MessageType int

const (
	MsgInfo    MessageType = iota // Informative, no flash
	MsgError                      // Errors, flash
	MsgSuccess                    // State changes, flash
	MsgWarning                    // Warnings, flash
)

// Terminal cells are roughly twice as tall as wide; one cell covers this
// much of the chart.
const (
	cellW = 10.0
	cellH = 20.0
)

const doubleClickMillis = 400

func nowMillis() int64 { return time.Now().UnixMilli() }

func main() {
	cfg, cfgErr := LoadConfig(ConfigPath())
	logger, logFile := openLog(cfg)
	defer logFile.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing screen: %v\n", err)
		os.Exit(1)
	}
	screen.EnableMouse()
	screen.Clear()

	ed := newEditor(screen, cfg, logger)
	if cfgErr != nil {
		logger.Warn("config", "err", cfgErr)
		ed.showMessage("Config error, using defaults", MsgWarning)
	}

	if len(os.Args) > 1 {
		if err := ed.loadFile(os.Args[1]); err != nil {
			screen.Fini()
			fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", os.Args[1], err)
			os.Exit(1)
		}
	}

	logger.Info("started", "file", ed.filename)
	ed.run()
	screen.Fini()
	logger.Info("exited")
}

func newEditor(screen tcell.Screen, cfg Config, logger *slog.Logger) *Editor {
	ed := &Editor{
		screen:      screen,
		config:      cfg,
		log:         logger,
		doc:         chartfile.NewDocument(""),
		showSidebar: true,
	}

	pal, err := cfg.palette()
	if err != nil {
		logger.Warn("palette", "err", err)
		pal = dgraph.DefaultPalette()
	}
	ed.palette = pal
	opts := chartedit.Options{
		Handler: chartedit.HandlerFunc(ed.onEvent),
		Palette: pal,
	}
	if cfg.Seed != 0 {
		opts.Rand = rand.New(rand.NewPCG(cfg.Seed, cfg.Seed>>1|1))
	}
	ed.core = chartedit.New(opts)
	return ed
}

func (ed *Editor) run() {
	// Periodic refresh while a status message is flashing.
	go func() {
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for range ticker.C {
			if start := ed.flashStart.Load(); start > 0 {
				elapsed := nowMillis() - start
				if elapsed >= 0 && elapsed < 700 {
					ed.screen.PostEvent(tcell.NewEventInterrupt(nil))
				}
			}
		}
	}()

	for {
		ed.draw()
		ed.screen.Show()

		if ed.dispatch(ed.screen.PollEvent()) {
			return
		}
	}
}

// dispatch handles one terminal event and reports whether to quit. A panic
// in a handler is logged and reported instead of taking down the terminal.
func (ed *Editor) dispatch(ev tcell.Event) (quit bool) {
	defer func() {
		if r := recover(); r != nil {
			ed.log.Error("panic handling event",
				"event", fmt.Sprintf("%T", ev),
				"panic", r,
				"stack", string(debug.Stack()))
			ed.showMessage("Internal error (see log)", MsgError)
			quit = false
		}
	}()

	switch ev := ev.(type) {
	case *tcell.EventResize:
		ed.screen.Sync()
	case *tcell.EventKey:
		return ed.handleKey(ev)
	case *tcell.EventMouse:
		ed.handleMouse(ev)
	case *tcell.EventInterrupt:
		// Redraw only
	}
	return false
}

// onEvent receives notifications from the chart core.
func (ed *Editor) onEvent(ev chartedit.Event) {
	switch ev := ev.(type) {
	case chartedit.SelectionChanged:
		return
	case chartedit.MoveCompleted:
		ed.log.Debug("moved", "kind", ev.Object.Kind(), "id", ev.Object.ObjectID(),
			"x", ev.Location.X, "y", ev.Location.Y)
	case chartedit.NodeAdded:
		ed.log.Debug("node added", "id", ev.Node.ID, "name", ev.Node.Name)
		ed.showMessage("Added "+ev.Node.Name, MsgSuccess)
	case chartedit.ArcAdded:
		ed.log.Debug("arc added", "id", ev.Arc.ID, "source", ev.Arc.SourceID, "destination", ev.Arc.DestinationID)
		ed.showMessage("Added "+ev.Arc.Name, MsgSuccess)
	case chartedit.NodeDeleted:
		ed.log.Debug("node deleted", "id", ev.ID, "name", ev.Name)
		if ev.ID == ed.initialID {
			ed.initialID = 0
			ed.showMessage("Deleted "+ev.Name+" (was initial state)", MsgWarning)
		} else {
			ed.showMessage("Deleted "+ev.Name, MsgSuccess)
		}
	case chartedit.ArcsDeleted:
		ed.log.Debug("arcs deleted", "ids", ev.IDs)
	case chartedit.GraphChanged:
		ed.log.Debug("changed", "kind", ev.Object.Kind(), "id", ev.Object.ObjectID())
	}
	ed.modified = true
}

func (ed *Editor) showMessage(msg string, msgType MessageType) {
	ed.message = msg
	ed.messageType = msgType
	ed.flashStart.Store(nowMillis())
	if msgType == MsgError {
		ed.log.Warn("user error", "msg", msg)
	}
	ed.screen.PostEvent(tcell.NewEventInterrupt(nil))
}

// confirm reports whether key was pressed twice in a row. The first press
// arms it and warns with msg.
func (ed *Editor) confirm(key, msg string) bool {
	if ed.confirmKey == key {
		ed.confirmKey = ""
		return true
	}
	ed.confirmKey = key
	ed.showMessage(msg, MsgWarning)
	return false
}

// Initial state

func (ed *Editor) initialNode() *dgraph.Node {
	if ed.initialID == 0 {
		return nil
	}
	return ed.core.Graph().Node(ed.initialID)
}

func (ed *Editor) toggleInitial(n *dgraph.Node) {
	if ed.initialID == n.ID {
		ed.initialID = 0
		ed.showMessage(n.Name+" is no longer the initial state", MsgSuccess)
	} else {
		ed.initialID = n.ID
		ed.showMessage(n.Name+" is the initial state", MsgSuccess)
	}
	ed.modified = true
}

// File operations

func (ed *Editor) newChart() {
	ed.doc = chartfile.NewDocument("")
	ed.core.SetGraph(nil, nil)
	ed.filename = ""
	ed.initialID = 0
	ed.offsetX, ed.offsetY = 0, 0
	ed.modified = false
	ed.log.Info("new chart", "id", ed.doc.ID)
}

func (ed *Editor) loadFile(path string) error {
	doc, err := chartfile.Load(path)
	if err != nil {
		return err
	}
	ed.doc = doc
	ed.core.SetGraph(doc.Nodes, doc.Arcs)
	ed.initialID = 0
	if n := ed.core.Graph().NodeByName(doc.Initial); n != nil {
		ed.initialID = n.ID
	}
	ed.offsetX = int(doc.Offset.X / cellW)
	ed.offsetY = int(doc.Offset.Y / cellH)
	ed.filename = path
	ed.modified = false

	if err := chartfile.Validate(doc); err != nil {
		ed.log.Warn("loaded chart has problems", "file", path, "err", err)
		ed.showMessage(fmt.Sprintf("Loaded %s with problems (see log)", filepath.Base(path)), MsgWarning)
	} else {
		ed.showMessage("Loaded "+filepath.Base(path), MsgInfo)
	}
	ed.log.Info("loaded", "file", path, "nodes", len(doc.Nodes), "arcs", len(doc.Arcs))
	return nil
}

// document returns the chart as it stands in the editor.
func (ed *Editor) document() *chartfile.Document {
	doc := ed.doc.Clone()
	doc.SetGraph(ed.core.Graph())
	doc.Initial = ""
	if n := ed.initialNode(); n != nil {
		doc.Initial = n.Name
	}
	doc.Offset = dgraph.Pt(float64(ed.offsetX)*cellW, float64(ed.offsetY)*cellH)
	return doc
}

func (ed *Editor) saveFile(path string) error {
	if !chartfile.FormatFromPath(path).Loadable() {
		return fmt.Errorf("%w: save as .chart or .json", chartfile.ErrUnknownFormat)
	}
	doc := ed.document()
	if err := chartfile.Save(path, doc); err != nil {
		return err
	}
	ed.doc.Initial, ed.doc.Offset = doc.Initial, doc.Offset
	ed.filename = path
	ed.modified = false
	ed.log.Info("saved", "file", path, "nodes", len(doc.Nodes), "arcs", len(doc.Arcs))
	return nil
}

func (ed *Editor) save() {
	if ed.filename == "" {
		ed.saveAs()
		return
	}
	if err := ed.saveFile(ed.filename); err != nil {
		ed.showMessage("Save failed: "+err.Error(), MsgError)
		return
	}
	ed.showMessage("Saved "+filepath.Base(ed.filename), MsgSuccess)
}

func (ed *Editor) saveAs() {
	def := ed.filename
	if def == "" {
		def = filepath.Join(ed.config.LastDir, "untitled.chart")
	}
	ed.prompt("Save as: ", def, func(path string) {
		if path == "" {
			return
		}
		if err := ed.saveFile(path); err != nil {
			ed.showMessage("Save failed: "+err.Error(), MsgError)
			return
		}
		ed.rememberDir(path)
		ed.showMessage("Saved "+filepath.Base(path), MsgSuccess)
	})
}

func (ed *Editor) open() {
	ed.prompt("Open: ", ed.config.LastDir+string(filepath.Separator), func(path string) {
		if path == "" {
			return
		}
		if err := ed.loadFile(path); err != nil {
			ed.showMessage("Open failed: "+err.Error(), MsgError)
			return
		}
		ed.rememberDir(path)
	})
}

func (ed *Editor) rememberDir(path string) {
	dir, err := filepath.Abs(filepath.Dir(path))
	if err != nil || dir == ed.config.LastDir {
		return
	}
	ed.config.LastDir = dir
	ed.persistConfig()
}

func (ed *Editor) runValidate() {
	if err := chartfile.Validate(ed.document()); err != nil {
		ed.log.Info("validation", "err", err)
		ed.showMessage("✗ "+strings.ReplaceAll(err.Error(), "\n", " "), MsgError)
		return
	}
	ed.showMessage("✓ Chart is valid", MsgInfo)
}

func (ed *Editor) renderView() {
	doc := ed.document()
	title := doc.Name
	if title == "" && ed.filename != "" {
		title = strings.TrimSuffix(filepath.Base(ed.filename), filepath.Ext(ed.filename))
	}
	doc.Name = title

	useNative := ed.config.Renderer == "native"
	format := chartfile.ParseFormat(ed.config.FileType)

	if !useNative {
		if _, err := exec.LookPath("dot"); err != nil {
			ed.showMessage("Graphviz not found, using native renderer", MsgInfo)
			useNative = true
		}
	}

	tmpFile, err := os.CreateTemp("", "bubblechart-*."+format.String())
	if err != nil {
		ed.showMessage("Failed to create temp file", MsgError)
		return
	}
	tmpPath := tmpFile.Name()

	if useNative {
		err = chartfile.Export(tmpFile, doc, format)
		tmpFile.Close()
	} else {
		tmpFile.Close()
		cmd := exec.Command("dot", "-T"+format.String(), "-o", tmpPath)
		cmd.Stdin = strings.NewReader(chartfile.GenerateDOT(doc, title))
		err = cmd.Run()
	}
	if err != nil {
		ed.log.Error("render", "renderer", ed.config.Renderer, "err", err)
		ed.showMessage("Render failed: "+err.Error(), MsgError)
		os.Remove(tmpPath)
		return
	}

	var openCmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		openCmd = exec.Command("open", tmpPath)
	case "windows":
		openCmd = exec.Command("cmd", "/c", "start", "", tmpPath)
	default:
		openCmd = exec.Command("xdg-open", tmpPath)
	}
	if err := openCmd.Start(); err != nil {
		ed.showMessage("Failed to open viewer: "+err.Error(), MsgError)
		os.Remove(tmpPath)
		return
	}
	ed.showMessage("Opened in viewer: "+tmpPath, MsgInfo)
}

func (ed *Editor) toggleRenderer() {
	if ed.config.Renderer == "native" {
		ed.config.Renderer = "graphviz"
	} else {
		ed.config.Renderer = "native"
	}
	ed.persistConfig()
	ed.showMessage("Renderer: "+ed.config.Renderer, MsgInfo)
}

func (ed *Editor) toggleFileType() {
	if ed.config.FileType == "png" {
		ed.config.FileType = "svg"
	} else {
		ed.config.FileType = "png"
	}
	ed.persistConfig()
	ed.showMessage("File type: "+ed.config.FileType, MsgInfo)
}

func (ed *Editor) persistConfig() {
	if err := SaveConfig(ConfigPath(), ed.config); err != nil {
		ed.log.Warn("save config", "err", err)
	}
}
