package gui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// ItemRow shows one word or example: Hebrew on the left, English on the right.
// A left click calls OnTapped, a right click OnTappedSecondary.
type ItemRow struct {
	widget.BaseWidget

	background  *canvas.Rectangle
	hebrewText  *canvas.Text
	englishText *canvas.Text
	container   *fyne.Container

	highlighted bool

	OnTapped          func()
	OnTappedSecondary func()
}

// NewItemRow creates an empty row
func NewItemRow() *ItemRow {
	r := &ItemRow{}

	r.background = canvas.NewRectangle(color.Transparent)

	r.hebrewText = canvas.NewText("", theme.Color(theme.ColorNameForeground))
	r.hebrewText.TextSize = 20
	r.hebrewText.Alignment = fyne.TextAlignLeading

	r.englishText = canvas.NewText("", theme.Color(theme.ColorNameForeground))
	r.englishText.TextSize = 14
	r.englishText.Alignment = fyne.TextAlignTrailing

	r.container = container.NewStack(
		r.background,
		container.NewPadded(container.NewBorder(nil, nil, r.hebrewText, r.englishText)),
	)

	r.ExtendBaseWidget(r)
	return r
}

// CreateRenderer implements fyne.Widget
func (r *ItemRow) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(r.container)
}

// SetItem updates the shown texts and highlight state
func (r *ItemRow) SetItem(hebrew, english string, highlighted bool) {
	r.hebrewText.Text = hebrew
	r.englishText.Text = english
	r.hebrewText.Color = theme.Color(theme.ColorNameForeground)
	r.englishText.Color = theme.Color(theme.ColorNameForeground)
	r.SetHighlighted(highlighted)
	r.hebrewText.Refresh()
	r.englishText.Refresh()
}

// SetHighlighted marks the row as the current selection
func (r *ItemRow) SetHighlighted(highlighted bool) {
	r.highlighted = highlighted
	if highlighted {
		r.background.FillColor = theme.Color(theme.ColorNameSelection)
	} else {
		r.background.FillColor = color.Transparent
	}
	r.background.Refresh()
}

// Highlighted reports whether the row is highlighted
func (r *ItemRow) Highlighted() bool {
	return r.highlighted
}

// Hebrew returns the Hebrew text shown
func (r *ItemRow) Hebrew() string {
	return r.hebrewText.Text
}

// Tapped implements fyne.Tappable
func (r *ItemRow) Tapped(*fyne.PointEvent) {
	if r.OnTapped != nil {
		r.OnTapped()
	}
}

// TappedSecondary implements fyne.SecondaryTappable
func (r *ItemRow) TappedSecondary(*fyne.PointEvent) {
	if r.OnTappedSecondary != nil {
		r.OnTappedSecondary()
	}
}
