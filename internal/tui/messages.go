package tui

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"revq/internal/errcodes"
	"revq/internal/pkg/client"
)

// Worker completion messages. Workers send exactly one of these per
// unit of work; the pump applies them on the event loop. Each carries
// the sequence number and inputs snapshotted when the fetch started,
// so relevance can be decided against the state at arrival time.

type listLoadedMsg struct {
	seq    int
	filter client.ListFilter
	prs    []*client.PullRequest
	err    error
}

type diffLoadedMsg struct {
	seq  int
	prID int
	text string
	stat []*client.DiffstatEntry
	err  error
}

type restrictionsLoadedMsg struct {
	seq          int
	prID         int
	restrictions *client.MergeRestrictions
	err          error
}

type approveDoneMsg struct {
	prID int
	pr   *client.PullRequest
	err  error
}

type browserOpenedMsg struct {
	err error
}

type notificationExpiredMsg struct {
	seq int
}

// relevant reports whether a completion still matches what the user is
// looking at. A completion that lost the race, the user refreshed,
// changed the filter or moved to another pull request in the meantime,
// is superseded and must be discarded.
func relevant(s *State, msg interface{}) bool {
	switch m := msg.(type) {
	case listLoadedMsg:
		return m.seq == s.ListSeq && m.filter == s.Filter
	case diffLoadedMsg:
		return m.seq == s.DiffSeq &&
			s.CurrentPullRequest != nil &&
			s.CurrentPullRequest.ID == m.prID
	case restrictionsLoadedMsg:
		return m.seq == s.RestrictionsSeq &&
			s.CurrentPullRequest != nil &&
			s.CurrentPullRequest.ID == m.prID
	case approveDoneMsg:
		return s.CurrentPullRequest != nil &&
			s.CurrentPullRequest.ID == m.prID
	case notificationExpiredMsg:
		return m.seq == s.NotificationSeq
	}

	return true
}

// applyMessage folds one completion into the state. Must run on the
// event loop. Superseded completions are cancellations, not errors,
// they only get a debug log line.
func applyMessage(s *State, msg interface{}) {
	if !relevant(s, msg) {
		log.Debug().
			Interface("message", msg).
			Msg("discarding superseded completion")

		return
	}

	switch m := msg.(type) {
	case listLoadedMsg:
		if m.err != nil {
			s.Loading = false
			notifyError(s, m.err)

			return
		}

		s.SetPullRequests(m.prs)

		if m.filter == client.ListFilter_MINE && len(m.prs) == 0 {
			s.Notify("No pull requests authored by you", NotificationWarning)
		}
	case diffLoadedMsg:
		if m.err != nil {
			s.DiffLoading = false
			notifyError(s, m.err)

			return
		}

		diffs := client.ParseDiff(m.text)
		client.ApplyDiffstat(diffs, m.stat)
		s.SetFileDiffs(diffs)
	case restrictionsLoadedMsg:
		if m.err != nil {
			notifyError(s, m.err)

			return
		}

		s.MergeRestrictions = m.restrictions
	case approveDoneMsg:
		if m.err != nil {
			notifyError(s, m.err)

			return
		}

		for i, pr := range s.PullRequests {
			if pr.ID == m.pr.ID {
				s.PullRequests[i] = m.pr
			}
		}

		s.CurrentPullRequest = m.pr
		s.Notify(fmt.Sprintf("Approved pull request #%d", m.pr.ID), NotificationInfo)
	case browserOpenedMsg:
		if m.err != nil {
			log.Debug().Err(m.err).Msg("browser launch failed")
			s.Notify("Unable to open PR in browser", NotificationError)
		}
	case notificationExpiredMsg:
		s.ClearNotification()
	}
}

func notifyError(s *State, err error) {
	if errors.Is(err, errcodes.ErrIPAllowlistBlocked) {
		s.Notify(
			"IP not whitelisted. Please check your BitBucket settings.",
			NotificationError,
		)

		return
	}

	s.Notify(err.Error(), NotificationError)
}
