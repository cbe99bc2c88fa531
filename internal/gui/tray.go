package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

// TrayManager keeps the wallet running in the system tray so staking and the
// header subscription survive a closed window.
type TrayManager struct {
	app     fyne.App
	window  fyne.Window
	visible bool
}

// NewTrayManager creates a new tray manager
func NewTrayManager(app fyne.App, window fyne.Window) *TrayManager {
	tm := &TrayManager{
		app:     app,
		window:  window,
		visible: true,
	}

	tm.setupTray()
	return tm
}

// setupTray initializes the system tray
func (tm *TrayManager) setupTray() {
	// Hide instead of closing when the window close button is clicked
	tm.window.SetCloseIntercept(func() {
		tm.hideWindow()
	})

	if desk, ok := tm.app.(desktop.App); ok {
		menu := fyne.NewMenu("Talon",
			fyne.NewMenuItem("Show/Hide", func() {
				tm.toggleWindow()
			}),
			fyne.NewMenuItem("Quit", func() {
				tm.quitApp()
			}),
		)
		desk.SetSystemTrayMenu(menu)
	}
}

// toggleWindow shows or hides the main window
func (tm *TrayManager) toggleWindow() {
	if tm.visible {
		tm.hideWindow()
	} else {
		tm.showWindow()
	}
}

// showWindow shows the main window
func (tm *TrayManager) showWindow() {
	tm.window.Show()
	tm.window.RequestFocus() // Bring window to front on macOS
	tm.visible = true
}

// hideWindow hides the main window
func (tm *TrayManager) hideWindow() {
	tm.window.Hide()
	tm.visible = false
}

// quitApp quits the entire application
func (tm *TrayManager) quitApp() {
	tm.app.Quit()
}

// IsVisible returns whether the window is currently visible
func (tm *TrayManager) IsVisible() bool {
	return tm.visible
}
