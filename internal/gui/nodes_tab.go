package gui

import (
	"context"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/talonwallet/talon-desktop/internal/node"
)

// createNodesTab builds the connection view: active server, chain tip and a
// table of all configured electrum servers.
func (g *MainGUI) createNodesTab() fyne.CanvasObject {
	statusLabel := widget.NewLabel("Status: not connected")
	statusLabel.TextStyle.Bold = true
	serverLabel := widget.NewLabel("Active server: none")
	tipLabel := widget.NewLabel("Chain tip: N/A")

	var servers []node.ServerStatus

	table := widget.NewTable(
		func() (int, int) {
			return len(servers), 4
		},
		func() fyne.CanvasObject {
			label := widget.NewLabel("wide content")
			label.Wrapping = fyne.TextWrapWord
			return container.NewPadded(label)
		},
		func(i widget.TableCellID, o fyne.CanvasObject) {
			label := o.(*fyne.Container).Objects[0].(*widget.Label)
			if i.Row >= len(servers) {
				return
			}
			s := servers[i.Row]
			switch i.Col {
			case 0:
				label.SetText(s.Address)
			case 1:
				if s.Connected {
					label.SetText("connected")
				} else if s.LastError != "" {
					label.SetText("error: " + s.LastError)
				} else {
					label.SetText("idle")
				}
			case 2:
				if s.TipHeight > 0 {
					label.SetText(FormatHeight(s.TipHeight))
				} else {
					label.SetText("N/A")
				}
			case 3:
				if s.LastSeen.IsZero() {
					label.SetText("never")
				} else {
					label.SetText(FormatTime(s.LastSeen))
				}
			}
		},
	)
	table.ShowHeaderRow = true
	table.CreateHeader = func() fyne.CanvasObject {
		headerLabel := widget.NewLabel("Header")
		headerLabel.TextStyle = fyne.TextStyle{Bold: true}
		return headerLabel
	}
	table.UpdateHeader = func(id widget.TableCellID, template fyne.CanvasObject) {
		label := template.(*widget.Label)
		switch id.Col {
		case 0:
			label.SetText("Server")
		case 1:
			label.SetText("State")
		case 2:
			label.SetText("Tip Height")
		case 3:
			label.SetText("Last Seen")
		}
	}
	table.SetColumnWidth(0, 240)
	table.SetColumnWidth(1, 160)
	table.SetColumnWidth(2, 110)
	table.SetColumnWidth(3, 150)
	table.SetRowHeight(0, 40)

	refresh := func() {
		stats := g.node.Stats()
		if stats.Connected {
			state := "connected"
			if stats.Syncing {
				state = "synchronising"
			}
			statusLabel.SetText("Status: " + state)
			serverLabel.SetText("Active server: " + stats.Server)
		} else {
			statusLabel.SetText("Status: not connected")
			serverLabel.SetText("Active server: none")
		}
		if stats.TipHeight > 0 {
			tipLabel.SetText("Chain tip: " + FormatHeight(stats.TipHeight) + " (" + FormatTime(stats.TipTime) + ")")
		} else {
			tipLabel.SetText("Chain tip: N/A")
		}
		servers = g.node.ServerStatuses()
		table.Refresh()
	}

	pingButton := widget.NewButtonWithIcon("Ping", theme.ViewRefreshIcon(), func() {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := g.node.Ping(ctx); err != nil {
				dialog.ShowError(err, g.window)
				return
			}
			refresh()
			dialog.ShowInformation("Ping", "The active server responded.", g.window)
		}()
	})

	refresh()
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			refresh()
		}
	}()

	top := container.NewVBox(
		statusLabel,
		serverLabel,
		tipLabel,
		container.NewHBox(pingButton),
		widget.NewSeparator(),
	)
	return container.NewBorder(top, nil, nil, nil, table)
}
