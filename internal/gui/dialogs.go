package gui

import (
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"github.com/talonwallet/talon-desktop/internal/controller"
)

// fyneClipboard adapts the window clipboard to the controller interface.
type fyneClipboard struct {
	window fyne.Window
}

func (c fyneClipboard) Text() string { return c.window.Clipboard().Content() }

func (c fyneClipboard) SetText(text string) { c.window.Clipboard().SetContent(text) }

// fileDialogs bridges fyne's callback-style file pickers to the blocking
// calls the controller makes from its worker goroutines.
type fileDialogs struct {
	window fyne.Window
}

func (f *fileDialogs) OpenFile(title, filter string) (string, bool) {
	result := make(chan string, 1)
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			result <- ""
			return
		}
		path := reader.URI().Path()
		reader.Close()
		result <- path
	}, f.window)
	if exts := extensionsFromFilter(filter); len(exts) > 0 {
		fd.SetFilter(storage.NewExtensionFileFilter(exts))
	}
	fd.Show()

	path := <-result
	return path, path != ""
}

func (f *fileDialogs) SaveFile(title, filter string) (string, bool) {
	result := make(chan string, 1)
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			result <- ""
			return
		}
		path := writer.URI().Path()
		writer.Close()
		result <- path
	}, f.window)
	if exts := extensionsFromFilter(filter); len(exts) > 0 {
		fd.SetFilter(storage.NewExtensionFileFilter(exts))
	}
	fd.Show()

	path := <-result
	return path, path != ""
}

// extensionsFromFilter pulls the extensions out of a display filter like
// "Partially Signed Transaction (*.psbt)".
func extensionsFromFilter(filter string) []string {
	start := strings.Index(filter, "(")
	end := strings.LastIndex(filter, ")")
	if start < 0 || end <= start {
		return nil
	}
	var exts []string
	for _, tok := range strings.FieldsFunc(filter[start+1:end], func(r rune) bool {
		return r == ' ' || r == ';' || r == ','
	}) {
		tok = strings.TrimPrefix(tok, "*")
		if strings.HasPrefix(tok, ".") {
			exts = append(exts, tok)
		}
	}
	return exts
}

// showMessage renders a controller message. Errors keep their title in a
// custom dialog since dialog.ShowError would replace it with "Error".
func (g *MainGUI) showMessage(msg controller.Message) {
	switch msg.Severity {
	case controller.SeverityError:
		body := widget.NewLabel(msg.Body)
		body.Wrapping = fyne.TextWrapWord
		d := dialog.NewCustom(msg.Title, "OK", body, g.window)
		d.Resize(fyne.NewSize(420, 160))
		d.Show()
	default:
		dialog.ShowInformation(msg.Title, msg.Body, g.window)
	}
}
