package gui

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/charmbracelet/log"
	fynetooltip "github.com/dweymouth/fyne-tooltip"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"

	"codeberg.org/snonux/hebrewtrainer/internal"
	"codeberg.org/snonux/hebrewtrainer/internal/playback"
	"codeberg.org/snonux/hebrewtrainer/internal/session"
	"codeberg.org/snonux/hebrewtrainer/internal/store"
)

const instructions = "Left click to highlight & play, Right click to see examples."

// Source lists the items shown in the window
type Source interface {
	ListWords() ([]store.WordEntry, error)
	ListExamples(wordID int64) ([]store.ExamplePhrase, error)
}

// Controller speaks items and tracks the highlighted one
type Controller interface {
	Speak(ctx context.Context, id int64, kind store.Kind) (*playback.Task, error)
	Highlight(item session.Item)
	ClearHighlight()
	IsHighlighted(id int64, kind store.Kind) bool
	Stop()
}

type viewMode int

const (
	wordsView viewMode = iota
	examplesView
)

// listItem is one row of the current view
type listItem struct {
	id      int64
	kind    store.Kind
	hebrew  string
	english string
}

// Application represents the main GUI application
type Application struct {
	// Fyne components
	app    fyne.App
	window fyne.Window

	// UI elements
	headerLabel *widget.Label
	itemList    *widget.List
	backButton  *ttwidget.Button
	playbackBar *PlaybackBar
	activity    *ActivityPanel

	// State management
	mode       viewMode
	items      []listItem
	cursor     int // keyboard cursor, -1 when unset
	wordID     int64
	wordHebrew string

	// Collaborators
	config     *Config
	source     Source
	controller Controller
	logger     *log.Logger

	// Background synthesis
	ctx     context.Context
	cancel  context.CancelFunc
	speakMu  sync.Mutex
	speakSeq atomic.Uint64 // number of the newest click
	wg       sync.WaitGroup
}

// Config holds GUI application configuration
type Config struct {
	App        fyne.App // nil creates the desktop app
	Source     Source
	Controller Controller
	Logger     *log.Logger
}

// New creates a new GUI application
func New(config *Config) *Application {
	logger := config.Logger
	if logger == nil {
		logger = log.Default()
	}

	fyneApp := config.App
	if fyneApp == nil {
		fyneApp = app.NewWithID("org.codeberg.snonux.hebrewtrainer")
	}

	ctx, cancel := context.WithCancel(context.Background())

	a := &Application{
		app:        fyneApp,
		config:     config,
		source:     config.Source,
		controller: config.Controller,
		logger:     logger,
		cursor:     -1,
		ctx:        ctx,
		cancel:     cancel,
	}

	a.window = fyneApp.NewWindow(fmt.Sprintf("Hebrew Trainer %s", internal.Version))
	a.window.Resize(fyne.NewSize(700, 550))

	a.setupUI()
	a.setupKeyboardShortcuts()

	// Log lines go to stderr and the activity panel
	logger.SetOutput(a.activity.Writer(os.Stderr))

	a.window.SetOnClosed(func() {
		a.cancel()
		a.controller.Stop()
	})

	a.showWords()
	return a
}

func (a *Application) setupUI() {
	a.headerLabel = widget.NewLabel("")
	a.headerLabel.TextStyle = fyne.TextStyle{Bold: true}

	a.backButton = ttwidget.NewButtonWithIcon("Back to Words", theme.NavigateBackIcon(), a.showWords)
	a.backButton.SetToolTip("Return to the word list (Esc)")
	a.backButton.Hide()

	a.itemList = widget.NewList(
		func() int { return len(a.items) },
		func() fyne.CanvasObject { return NewItemRow() },
		a.updateRow,
	)

	a.playbackBar = NewPlaybackBar(a.controller.Stop)
	a.activity = NewActivityPanel()

	top := container.NewVBox(
		container.NewHBox(a.headerLabel, layout.NewSpacer(), a.backButton),
		widget.NewLabel(instructions),
		widget.NewSeparator(),
	)
	bottom := container.NewVBox(
		widget.NewSeparator(),
		a.playbackBar,
		a.activity,
	)

	content := container.NewBorder(top, bottom, nil, nil, a.itemList)
	a.window.SetContent(fynetooltip.AddWindowToolTipLayer(content, a.window.Canvas()))
}

func (a *Application) updateRow(id widget.ListItemID, obj fyne.CanvasObject) {
	if id < 0 || id >= len(a.items) {
		return
	}
	item := a.items[id]
	row := obj.(*ItemRow)
	row.SetItem(item.hebrew, item.english, a.controller.IsHighlighted(item.id, item.kind))
	row.OnTapped = func() { a.activate(id) }
	row.OnTappedSecondary = func() { a.openExamples(id) }
}

// Run starts the GUI application
func (a *Application) Run() {
	a.window.ShowAndRun()
	a.wg.Wait()
}

// showWords switches to the word list
func (a *Application) showWords() {
	words, err := a.source.ListWords()
	if err != nil {
		a.showError(err)
		words = nil
	}

	a.items = a.items[:0]
	for _, w := range words {
		a.items = append(a.items, listItem{id: w.ID, kind: store.KindWord, hebrew: w.Hebrew, english: w.English})
	}

	a.mode = wordsView
	a.wordID = 0
	a.wordHebrew = ""
	a.cursor = -1
	a.controller.ClearHighlight()
	a.backButton.Hide()

	if len(a.items) == 0 && err == nil {
		a.headerLabel.SetText("No words found (run seed first)")
	} else {
		a.headerLabel.SetText(fmt.Sprintf("Words (%d)", len(a.items)))
	}
	a.refreshList()
}

// showExamples switches to the examples of one word
func (a *Application) showExamples(wordID int64, hebrew string) {
	examples, err := a.source.ListExamples(wordID)
	if err != nil {
		a.showError(err)
		return
	}

	a.items = a.items[:0]
	for _, e := range examples {
		a.items = append(a.items, listItem{id: e.ID, kind: store.KindExample, hebrew: e.Hebrew, english: e.English})
	}

	a.mode = examplesView
	a.wordID = wordID
	a.wordHebrew = hebrew
	a.cursor = -1
	a.controller.ClearHighlight()
	a.backButton.Show()

	if len(a.items) == 0 {
		a.headerLabel.SetText(fmt.Sprintf("No examples for %s", hebrew))
	} else {
		a.headerLabel.SetText(fmt.Sprintf("Examples for %s (%d)", hebrew, len(a.items)))
	}
	a.refreshList()
}

func (a *Application) refreshList() {
	a.itemList.UnselectAll()
	a.itemList.Refresh()
	a.itemList.ScrollToTop()
}

// activate highlights the item at index and plays it
func (a *Application) activate(index int) {
	if index < 0 || index >= len(a.items) {
		return
	}
	item := a.items[index]
	a.cursor = index
	a.highlight(item)

	a.playbackBar.SetStatus(fmt.Sprintf("Loading audio for %s...", item.hebrew))

	seq := a.speakSeq.Add(1)
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.speak(item, seq)
	}()
}

func (a *Application) highlight(item listItem) {
	a.controller.Highlight(session.Item{ID: item.id, Kind: item.kind})
	a.itemList.Refresh()
}

// speak runs off the UI goroutine; a cache miss blocks on synthesis.
// Goroutines may acquire speakMu out of click order, so a speak that is
// no longer the newest click is dropped.
func (a *Application) speak(item listItem, seq uint64) {
	a.speakMu.Lock()
	defer a.speakMu.Unlock()

	if seq != a.speakSeq.Load() {
		a.logger.Debug("Skipping superseded click", "kind", item.kind, "id", item.id)
		return
	}

	task, err := a.controller.Speak(a.ctx, item.id, item.kind)
	if err != nil {
		if a.ctx.Err() != nil {
			return
		}
		a.logger.Error("Failed to play audio", "kind", item.kind, "id", item.id, "error", err)
		fyne.Do(func() {
			a.playbackBar.SetStatus(fmt.Sprintf("Error: %v", err))
		})
		return
	}

	fyne.Do(func() {
		a.playbackBar.Track(task, item.hebrew)
	})
}

// openExamples shows the examples of the word at index; ignored outside the word list
func (a *Application) openExamples(index int) {
	if a.mode != wordsView || index < 0 || index >= len(a.items) {
		return
	}
	item := a.items[index]
	a.showExamples(item.id, item.hebrew)
}

func (a *Application) repeat() {
	if a.cursor >= 0 {
		a.activate(a.cursor)
	}
}

func (a *Application) stop() {
	a.controller.Stop()
	a.playbackBar.SetStatus("Stopped")
}

func (a *Application) showError(err error) {
	a.logger.Error("GUI error", "error", err)
	a.playbackBar.SetStatus(fmt.Sprintf("Error: %v", err))
}
