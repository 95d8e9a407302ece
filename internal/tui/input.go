package tui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog/log"

	"revq/internal/pkg/client"
)

// handleKey is the single entry point for key input, dispatching on
// the active view. A panic in a handler becomes an error notification,
// the loop keeps running.
func (t *TUI) handleKey(event *tcell.EventKey) *tcell.EventKey {
	before := t.state.NotificationSeq

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("input handler panicked")
			t.state.Notify(fmt.Sprintf("internal error: %v", r), NotificationError)
		}

		if t.state.NotificationSeq != before && t.state.Notification != "" {
			t.expireNotification(t.state.NotificationSeq)
		}
	}()

	var handled bool

	switch t.state.View {
	case ViewList:
		handled = t.handleListKey(event)
	case ViewDetail:
		handled = t.handleDetailKey(event)
	case ViewDiff:
		handled = t.handleDiffKey(event)
	case ViewSearch:
		handled = t.handleSearchKey(event)
	}

	t.syncView()

	if handled {
		return nil
	}

	return event
}

func (t *TUI) handleListKey(event *tcell.EventKey) bool {
	switch event.Key() {
	case tcell.KeyDown:
		t.state.MoveCursor(1)
		return true
	case tcell.KeyUp:
		t.state.MoveCursor(-1)
		return true
	}

	switch event.Rune() {
	case 'j':
		t.state.MoveCursor(1)
	case 'k':
		t.state.MoveCursor(-1)
	case 'v':
		t.openDetail()
	case 'D':
		t.openDiff(ViewList)
	case 'r':
		t.loadPullRequests()
	case 'a':
		t.setFilter(client.ListFilter_ALL)
	case 'm':
		t.setFilter(client.ListFilter_MINE)
	case 'n':
		t.setFilter(client.ListFilter_REVIEWING)
	case '/':
		t.state.View = ViewSearch
	case 'q':
		t.app.Stop()
	default:
		return false
	}

	return true
}

func (t *TUI) handleDetailKey(event *tcell.EventKey) bool {
	switch event.Rune() {
	case 'v', 'q':
		t.state.View = ViewList
	case 'D':
		t.openDiff(ViewDetail)
	case 'a':
		t.approve()
	case 'c':
		t.state.Notify("PR commenting not implemented yet", NotificationInfo)
	case 'o':
		t.openPullRequest()
	default:
		return false
	}

	return true
}

func (t *TUI) handleDiffKey(event *tcell.EventKey) bool {
	chord := t.lastKey
	t.lastKey = 0

	switch event.Key() {
	case tcell.KeyLeft:
		t.state.AdvanceFile(-1)
		return true
	case tcell.KeyRight:
		t.state.AdvanceFile(1)
		return true
	case tcell.KeyDown:
		t.state.Scroll(1)
		return true
	case tcell.KeyUp:
		t.state.Scroll(-1)
		return true
	}

	switch event.Rune() {
	case 'h':
		t.state.AdvanceFile(-1)
	case 'l':
		t.state.AdvanceFile(1)
	case 'j':
		t.state.Scroll(1)
	case 'k':
		t.state.Scroll(-1)
	case 'f':
		t.state.Page(1)
	case 'b':
		t.state.Page(-1)
	case 'g':
		// A lone g binds nothing, two in a row scroll to the top.
		if chord == 'g' {
			t.state.ScrollToTop()
		} else {
			t.lastKey = 'g'
		}
	case 'G':
		t.state.ScrollToBottom()
	case 'v':
		t.state.View = ViewDetail
	case 'q':
		t.state.View = t.state.ReturnView
	default:
		return false
	}

	return true
}

func (t *TUI) handleSearchKey(event *tcell.EventKey) bool {
	switch event.Key() {
	case tcell.KeyEnter:
		t.state.View = ViewList
	case tcell.KeyEscape:
		t.state.SetSearchTerm("")
		t.state.View = ViewList
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		term := []rune(t.state.SearchTerm)
		if len(term) > 0 {
			t.state.SetSearchTerm(string(term[:len(term)-1]))
		}
	case tcell.KeyRune:
		t.state.SetSearchTerm(t.state.SearchTerm + string(event.Rune()))
	default:
		return false
	}

	return true
}

// openDetail shows the detail view for the pull request under the
// cursor, kicking the diff and merge restriction fetches when the
// selection changed.
func (t *TUI) openDetail() {
	pr := t.state.SelectedPullRequest()
	if pr == nil {
		t.state.Notify("No PR selected", NotificationWarning)
		return
	}

	t.selectPullRequest(pr)
	t.state.View = ViewDetail
}

// openDiff enters the diff view, remembering where to return to on q.
func (t *TUI) openDiff(from View) {
	if from == ViewList {
		pr := t.state.SelectedPullRequest()
		if pr == nil {
			t.state.Notify("No PR selected", NotificationWarning)
			return
		}

		t.selectPullRequest(pr)
	}

	if t.state.CurrentPullRequest == nil {
		return
	}

	if len(t.state.FileDiffs) == 0 && !t.state.DiffLoading {
		t.loadDiff()
	}

	t.state.ReturnView = from
	t.state.View = ViewDiff
}

func (t *TUI) selectPullRequest(pr *client.PullRequest) {
	if t.state.CurrentPullRequest != nil && t.state.CurrentPullRequest.ID == pr.ID {
		return
	}

	t.state.SetCurrentPullRequest(pr)
	t.loadDiff()
	t.loadMergeRestrictions()
}

func (t *TUI) setFilter(filter client.ListFilter) {
	if t.state.Filter == filter {
		return
	}

	t.state.Filter = filter

	err := t.persistance.SetFilter(
		t.repository.FullName(),
		string(t.repository.Provider),
		string(filter),
	)
	if err != nil {
		log.Debug().Err(err).Msg("unable to save the filter")
	}

	t.loadPullRequests()
}
