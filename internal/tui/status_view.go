package tui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

type statusView struct {
	*tview.Box
	state *State
}

func newStatusView(s *State) *statusView {
	return &statusView{
		Box:   tview.NewBox(),
		state: s,
	}
}

// buildStatusLine renders the bottom bar: the search prompt while the
// search view is active, the current notification otherwise.
func buildStatusLine(s *State) (string, tcell.Color) {
	if s.View == ViewSearch {
		return "/" + tview.Escape(s.SearchTerm) + "█", NormalColor
	}

	if s.Notification == "" {
		return "", NormalColor
	}

	return tview.Escape(s.Notification), notificationColor(s.NotificationLevel)
}

func (v *statusView) Draw(screen tcell.Screen) {
	v.Box.DrawForSubclass(screen, v)
	x, y, width, _ := v.GetInnerRect()

	line, color := buildStatusLine(v.state)
	if line == "" {
		return
	}

	tview.Print(screen, line, x, y, width, tview.AlignLeft, color)
}
