package gui

import (
	"fmt"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"

	"codeberg.org/snonux/hebrewtrainer/internal/playback"
)

// PlaybackBar shows what is playing and offers a stop button
type PlaybackBar struct {
	widget.BaseWidget

	container   *fyne.Container
	stopButton  *ttwidget.Button
	statusLabel *widget.Label

	onStop func()

	mu      sync.Mutex
	current *playback.Task
}

// NewPlaybackBar creates a new playback bar; onStop is called by the button
func NewPlaybackBar(onStop func()) *PlaybackBar {
	p := &PlaybackBar{onStop: onStop}

	p.stopButton = ttwidget.NewButton("", p.stop)
	p.stopButton.Icon = theme.MediaStopIcon()
	p.stopButton.SetToolTip("Stop audio (S)")
	p.stopButton.Disable()

	p.statusLabel = widget.NewLabel("")

	p.container = container.NewHBox(
		p.stopButton,
		p.statusLabel,
		layout.NewSpacer(),
	)

	p.ExtendBaseWidget(p)
	return p
}

// CreateRenderer implements fyne.Widget
func (p *PlaybackBar) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(p.container)
}

// Track shows task as the current playback and updates when it ends.
// Must be called on the UI goroutine.
func (p *PlaybackBar) Track(task *playback.Task, label string) {
	p.mu.Lock()
	p.current = task
	p.mu.Unlock()

	p.stopButton.Enable()
	p.statusLabel.SetText(fmt.Sprintf("Playing: %s", label))

	go func() {
		err := task.Wait()
		fyne.Do(func() {
			p.mu.Lock()
			stillCurrent := p.current == task
			p.mu.Unlock()
			if !stillCurrent {
				return
			}
			p.stopButton.Disable()
			if err != nil {
				p.statusLabel.SetText(fmt.Sprintf("Playback failed: %v", err))
				return
			}
			p.statusLabel.SetText(fmt.Sprintf("Finished: %s", label))
		})
	}()
}

// SetStatus shows a message, such as a synthesis progress or error
func (p *PlaybackBar) SetStatus(text string) {
	p.statusLabel.SetText(text)
}

// Status returns the current status text
func (p *PlaybackBar) Status() string {
	return p.statusLabel.Text
}

func (p *PlaybackBar) stop() {
	if p.onStop != nil {
		p.onStop()
	}
	p.stopButton.Disable()
	p.statusLabel.SetText("Stopped")
}
