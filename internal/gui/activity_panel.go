package gui

import (
	"bytes"
	"io"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"
)

const activityLimit = 200

// ActivityPanel shows what the trainer is doing: synthesis, cache hits and
// playback problems reported through the logger
type ActivityPanel struct {
	widget.BaseWidget

	content *fyne.Container
	text    *widget.Label
	scroll  *container.Scroll

	mu      sync.Mutex
	entries []string // oldest first
	now     func() time.Time
}

// NewActivityPanel creates an empty panel
func NewActivityPanel() *ActivityPanel {
	p := &ActivityPanel{now: time.Now}

	p.text = widget.NewLabel("")
	p.text.Wrapping = fyne.TextWrapWord
	p.text.TextStyle = fyne.TextStyle{Monospace: true}

	p.scroll = container.NewVScroll(p.text)
	p.scroll.SetMinSize(fyne.NewSize(0, 80))

	clearButton := ttwidget.NewButtonWithIcon("", theme.ContentClearIcon(), p.Clear)
	clearButton.SetToolTip("Clear activity")

	header := container.NewHBox(
		widget.NewLabelWithStyle("Activity", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		layout.NewSpacer(),
		clearButton,
	)
	p.content = container.NewBorder(header, nil, nil, nil, p.scroll)

	p.ExtendBaseWidget(p)
	return p
}

// CreateRenderer implements fyne.Widget
func (p *ActivityPanel) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(p.content)
}

// Writer returns an io.Writer that copies to tee and adds each complete
// line to the panel
func (p *ActivityPanel) Writer(tee io.Writer) io.Writer {
	return &activityWriter{panel: p, tee: tee}
}

// Add appends one line, stamped with the time of day
func (p *ActivityPanel) Add(line string) {
	p.mu.Lock()
	p.entries = append(p.entries, p.now().Format("15:04:05")+"  "+line)
	if n := len(p.entries) - activityLimit; n > 0 {
		p.entries = append(p.entries[:0], p.entries[n:]...)
	}
	text := p.render()
	p.mu.Unlock()

	p.show(text)
}

// Entries returns the shown lines, newest first
func (p *ActivityPanel) Entries() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]string, len(p.entries))
	for i, e := range p.entries {
		out[len(out)-1-i] = e
	}
	return out
}

// Clear empties the panel
func (p *ActivityPanel) Clear() {
	p.mu.Lock()
	p.entries = p.entries[:0]
	p.mu.Unlock()

	p.show("")
}

// render lists entries newest first; callers hold mu
func (p *ActivityPanel) render() string {
	var b strings.Builder
	for i := len(p.entries) - 1; i >= 0; i-- {
		b.WriteString(p.entries[i])
		if i > 0 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (p *ActivityPanel) show(text string) {
	fyne.Do(func() {
		p.text.SetText(text)
		p.scroll.ScrollToTop()
	})
}

// activityWriter buffers partial writes until a newline arrives
type activityWriter struct {
	panel *ActivityPanel
	tee   io.Writer

	mu      sync.Mutex
	pending []byte
}

func (w *activityWriter) Write(b []byte) (int, error) {
	if w.tee != nil {
		if _, err := w.tee.Write(b); err != nil {
			return 0, err
		}
	}

	w.mu.Lock()
	w.pending = append(w.pending, b...)
	var lines []string
	for {
		i := bytes.IndexByte(w.pending, '\n')
		if i < 0 {
			break
		}
		if line := strings.TrimSpace(string(w.pending[:i])); line != "" {
			lines = append(lines, line)
		}
		w.pending = w.pending[i+1:]
	}
	w.mu.Unlock()

	for _, line := range lines {
		w.panel.Add(line)
	}
	return len(b), nil
}
