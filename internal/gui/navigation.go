package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// setupKeyboardShortcuts installs the window key handlers
func (a *Application) setupKeyboardShortcuts() {
	// Letter shortcuts work with both Latin and Hebrew keyboard layouts
	a.window.Canvas().SetOnTypedRune(func(r rune) {
		switch r {
		case 's', 'S', 'ד': // ד = s
			a.stop()
		case 'r', 'R', 'ר': // ר = r
			a.repeat()
		case 'h', 'H', 'י': // י = h
			a.onShowHotkeys()
		case 'q', 'Q', '/': // / = q
			a.window.Close()
		}
	})

	a.window.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		a.handleKey(ev.Name)
	})
}

// handleKey handles the non-letter keys
func (a *Application) handleKey(key fyne.KeyName) {
	switch key {
	case fyne.KeyDown:
		a.moveCursor(1)
	case fyne.KeyUp:
		a.moveCursor(-1)
	case fyne.KeyReturn, fyne.KeyEnter, fyne.KeySpace:
		a.repeat()
	case fyne.KeyRight:
		a.openExamples(a.cursor)
	case fyne.KeyEscape, fyne.KeyLeft, fyne.KeyBackspace:
		if a.mode == examplesView {
			a.showWords()
		}
	}
}

// moveCursor moves the keyboard cursor and highlights without playing
func (a *Application) moveCursor(delta int) {
	if len(a.items) == 0 {
		return
	}
	next := a.cursor + delta
	if a.cursor < 0 {
		next = 0
	}
	if next < 0 {
		next = 0
	}
	if next >= len(a.items) {
		next = len(a.items) - 1
	}
	a.cursor = next

	item := a.items[next]
	a.highlight(item)
	a.itemList.ScrollTo(next)
}

func (a *Application) onShowHotkeys() {
	hotkeys := `## Mouse
**Left click** Highlight and play
**Right click** Show examples of a word

## Navigation
**↑ / ↓** Move the highlight
**→** Show examples of the highlighted word
**← / Esc** Back to words

## Audio
**Enter / Space / r/ר** Play highlighted item
**s/ד** Stop audio

## Help
**h/י** Show hotkeys
**q/'/'** Quit application

---
*Letter hotkeys work with both Latin and Hebrew keyboards*`

	content := widget.NewRichTextFromMarkdown(hotkeys)
	content.Wrapping = fyne.TextWrapWord

	scroll := container.NewScroll(container.NewPadded(content))
	scroll.SetMinSize(fyne.NewSize(420, 360))

	d := dialog.NewCustom("Keyboard Shortcuts", "Close", scroll, a.window)
	d.Show()
}
