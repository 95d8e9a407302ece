package tui

import (
	"time"

	"github.com/rivo/tview"
	"github.com/spf13/viper"

	"revq/internal/persistance"
	"revq/internal/pkg/client"
)

const notificationDuration = 4 * time.Second

type Options struct {
	Client      client.Client
	Repository  *client.Repository
	Filter      client.ListFilter
	Persistance persistance.PersistanceRepo
}

// TUI owns the terminal application: one event loop that handles keys,
// applies worker completions and draws, plus the worker goroutines the
// fetchers spawn.
type TUI struct {
	app         *tview.Application
	pages       *tview.Pages
	client      client.Client
	repository  *client.Repository
	persistance persistance.PersistanceRepo
	state       *State
	messages    chan interface{}
	lastKey     rune
}

func newTUI(o *Options) *TUI {
	t := &TUI{
		app:         tview.NewApplication(),
		pages:       tview.NewPages(),
		client:      o.Client,
		repository:  o.Repository,
		persistance: o.Persistance,
		state:       NewState(o.Filter),
		messages:    make(chan interface{}, 16),
	}

	t.pages.AddPage("list", newListView(t.state), true, true)
	t.pages.AddPage("detail", newDetailView(t.state), true, false)
	t.pages.AddPage("diff", newDiffView(t.state), true, false)

	grid := tview.NewGrid().
		SetRows(0, 1).
		AddItem(t.pages, 0, 0, 1, 1, 0, 0, true).
		AddItem(newStatusView(t.state), 1, 0, 1, 1, 0, 0, false)

	t.app.SetInputCapture(t.handleKey)
	t.app.SetRoot(grid, true)

	return t
}

// Run starts the terminal interface and blocks until the user quits.
func Run(o *Options) error {
	icons = initIconsMap(viper.GetViper())

	t := newTUI(o)

	go t.pump()
	t.loadPullRequests()

	return t.app.Run()
}

// pump serializes worker completions onto the event loop. Every
// message is applied inside QueueUpdateDraw, so a state mutation never
// races a render pass or another mutation.
func (t *TUI) pump() {
	for msg := range t.messages {
		msg := msg

		t.app.QueueUpdateDraw(func() {
			before := t.state.NotificationSeq
			applyMessage(t.state, msg)

			if t.state.NotificationSeq != before && t.state.Notification != "" {
				t.expireNotification(t.state.NotificationSeq)
			}
		})
	}
}

// expireNotification schedules the auto-dismiss of a notification. The
// sequence number keeps an expiry from clearing a newer notification
// raised in the meantime.
func (t *TUI) expireNotification(seq int) {
	time.AfterFunc(notificationDuration, func() {
		t.messages <- notificationExpiredMsg{seq: seq}
	})
}

// syncView aligns the visible page with the state's active view. The
// search view keeps the list on screen, filtering it live while the
// bottom bar shows the term.
func (t *TUI) syncView() {
	switch t.state.View {
	case ViewDetail:
		t.pages.SwitchToPage("detail")
	case ViewDiff:
		t.pages.SwitchToPage("diff")
	default:
		t.pages.SwitchToPage("list")
	}
}
