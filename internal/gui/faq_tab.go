package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/talonwallet/talon-desktop/internal/controller"
)

// createFAQTab renders the static question list as an accordion.
func (g *MainGUI) createFAQTab() fyne.CanvasObject {
	titleLabel := widget.NewLabel("Frequently Asked Questions")
	titleLabel.TextStyle.Bold = true

	accordion := widget.NewAccordion()
	for _, entry := range controller.FAQEntries() {
		answer := widget.NewLabel(entry.Answer)
		answer.Wrapping = fyne.TextWrapWord
		accordion.Append(widget.NewAccordionItem(entry.Question, answer))
	}

	return container.NewBorder(
		container.NewVBox(titleLabel, widget.NewSeparator()),
		nil, nil, nil,
		container.NewVScroll(accordion),
	)
}
