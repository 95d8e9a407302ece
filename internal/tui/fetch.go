package tui

import (
	"github.com/rs/zerolog/log"

	"revq/internal/cli/utils"
	"revq/internal/pkg/client"
)

var openInBrowser = utils.OpenInBrowser

// Fetch starters run on the event loop. Each bumps its sequence,
// snapshots the inputs and hands the blocking call to a goroutine that
// reports back through the message channel only. A superseded worker
// runs to completion, relevance filtering on arrival discards it.

func (t *TUI) loadPullRequests() {
	t.state.ListSeq++
	t.state.Loading = true

	seq := t.state.ListSeq
	filter := t.state.Filter

	go func() {
		prs, err := t.client.ListPullRequests(&client.ListPullRequestsOptions{
			Repository: t.repository,
			Filter:     filter,
		})

		t.messages <- listLoadedMsg{seq: seq, filter: filter, prs: prs, err: err}
	}()
}

func (t *TUI) loadDiff() {
	pr := t.state.CurrentPullRequest
	if pr == nil {
		return
	}

	t.state.DiffSeq++
	t.state.DiffLoading = true

	seq := t.state.DiffSeq
	id := pr.ID

	go func() {
		text, err := t.client.GetDiff(&client.GetDiffOptions{
			Repository: t.repository,
			ID:         id,
		})
		if err != nil {
			t.messages <- diffLoadedMsg{seq: seq, prID: id, err: err}
			return
		}

		// The diffstat only decorates the file list, losing it does not
		// fail the fetch.
		stat, err := t.client.GetDiffstat(&client.GetDiffstatOptions{
			Repository: t.repository,
			ID:         id,
		})
		if err != nil {
			log.Debug().Err(err).Msg("unable to load the diffstat")
		}

		t.messages <- diffLoadedMsg{seq: seq, prID: id, text: text, stat: stat}
	}()
}

func (t *TUI) loadMergeRestrictions() {
	pr := t.state.CurrentPullRequest
	if pr == nil {
		return
	}

	t.state.RestrictionsSeq++

	seq := t.state.RestrictionsSeq
	id := pr.ID

	go func() {
		mr, err := t.client.GetMergeRestrictions(&client.GetMergeRestrictionsOptions{
			Repository: t.repository,
			ID:         id,
		})

		t.messages <- restrictionsLoadedMsg{
			seq:          seq,
			prID:         id,
			restrictions: mr,
			err:          err,
		}
	}()
}

func (t *TUI) approve() {
	pr := t.state.CurrentPullRequest
	if pr == nil {
		return
	}

	id := pr.ID

	go func() {
		err := t.client.ApprovePullRequest(&client.ApproveOptions{
			Repository: t.repository,
			ID:         id,
		})
		if err != nil {
			t.messages <- approveDoneMsg{prID: id, err: err}
			return
		}

		// Refetch so the status and approver list reflect the new
		// participant state.
		fresh, err := t.client.GetPullRequest(&client.GetPullRequestOptions{
			Repository: t.repository,
			ID:         id,
		})

		t.messages <- approveDoneMsg{prID: id, pr: fresh, err: err}
	}()
}

func (t *TUI) openPullRequest() {
	pr := t.state.CurrentPullRequest
	if pr == nil {
		return
	}

	t.state.Notify("Opening PR in browser...", NotificationInfo)

	url := pr.URL

	go func() {
		t.messages <- browserOpenedMsg{err: openInBrowser(url)}
	}()
}
