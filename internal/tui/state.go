package tui

import (
	"strings"

	"revq/internal/pkg/client"
)

type View int

const (
	ViewList View = iota
	ViewDetail
	ViewDiff
	ViewSearch
)

type NotificationLevel int

const (
	NotificationInfo NotificationLevel = iota
	NotificationWarning
	NotificationError
)

// diffChromeRows is the fixed allowance for the diff view's navigator,
// the two more-content markers and the help footer.
const diffChromeRows = 4

// State is the single mutable structure behind every view. It has one
// writer context, the application's event loop: input handlers and the
// completion pump mutate it there, renderers only read it. Workers
// must never touch it directly.
type State struct {
	View       View
	ReturnView View

	Filter       client.ListFilter
	PullRequests []*client.PullRequest
	Loading      bool
	Selected     int
	SearchTerm   string

	CurrentPullRequest *client.PullRequest
	FileDiffs          []*client.FileDiff
	CurrentFileIndex   int
	ScrollPosition     int
	ViewportHeight     int
	DiffLoading        bool

	MergeRestrictions *client.MergeRestrictions

	Notification      string
	NotificationLevel NotificationLevel
	NotificationSeq   int

	ListSeq         int
	DiffSeq         int
	RestrictionsSeq int
}

func NewState(filter client.ListFilter) *State {
	return &State{
		View:             ViewList,
		ReturnView:       ViewList,
		Filter:           filter,
		CurrentFileIndex: -1,
		ViewportHeight:   1,
	}
}

// Visible returns the pull requests matching the search term, title or
// author, case-insensitive. An empty term matches everything.
func (s *State) Visible() []*client.PullRequest {
	if s.SearchTerm == "" {
		return s.PullRequests
	}

	term := strings.ToLower(s.SearchTerm)
	visible := make([]*client.PullRequest, 0, len(s.PullRequests))
	for _, pr := range s.PullRequests {
		if strings.Contains(strings.ToLower(pr.Title), term) ||
			strings.Contains(strings.ToLower(pr.Author), term) {
			visible = append(visible, pr)
		}
	}

	return visible
}

// MoveCursor shifts the list cursor, clamping at both ends.
func (s *State) MoveCursor(delta int) {
	s.Selected += delta
	s.clampCursor()
}

func (s *State) clampCursor() {
	end := len(s.Visible()) - 1
	if s.Selected > end {
		s.Selected = end
	}
	if s.Selected < 0 {
		s.Selected = 0
	}
}

// SelectedPullRequest returns the pull request under the cursor, nil
// when the visible list is empty.
func (s *State) SelectedPullRequest() *client.PullRequest {
	visible := s.Visible()
	if len(visible) == 0 || s.Selected >= len(visible) {
		return nil
	}

	return visible[s.Selected]
}

// SetPullRequests replaces the list wholesale and reclamps the cursor.
func (s *State) SetPullRequests(prs []*client.PullRequest) {
	s.PullRequests = prs
	s.Loading = false
	s.clampCursor()
}

// SetSearchTerm applies the term and reclamps the cursor against the
// narrowed list.
func (s *State) SetSearchTerm(term string) {
	s.SearchTerm = term
	s.clampCursor()
}

// SetCurrentPullRequest switches the pull request under review and
// atomically clears everything loaded for the previous one. A stale
// diff must never be shown against a new pull request.
func (s *State) SetCurrentPullRequest(pr *client.PullRequest) {
	s.CurrentPullRequest = pr
	s.FileDiffs = nil
	s.CurrentFileIndex = -1
	s.ScrollPosition = 0
	s.DiffLoading = false
	s.MergeRestrictions = nil
}

// SetFileDiffs installs a freshly parsed diff set, landing on the
// first file when there is one.
func (s *State) SetFileDiffs(diffs []*client.FileDiff) {
	s.FileDiffs = diffs
	s.DiffLoading = false
	s.ScrollPosition = 0

	if len(diffs) > 0 {
		s.CurrentFileIndex = 0
	} else {
		s.CurrentFileIndex = -1
	}
}

// CurrentFile returns the file under review, nil when no diffs are
// loaded.
func (s *State) CurrentFile() *client.FileDiff {
	if s.CurrentFileIndex < 0 || s.CurrentFileIndex >= len(s.FileDiffs) {
		return nil
	}

	return s.FileDiffs[s.CurrentFileIndex]
}

// AdvanceFile moves the current file index by delta, wrapping around
// both ends. Wrapping is the policy for the diff view's interactive
// navigation; the list cursor clamps instead. Changing files resets
// the scroll position.
func (s *State) AdvanceFile(delta int) {
	count := len(s.FileDiffs)
	if count == 0 {
		return
	}

	s.CurrentFileIndex = ((s.CurrentFileIndex+delta)%count + count) % count
	s.ScrollPosition = 0
}

func (s *State) maxScroll() int {
	file := s.CurrentFile()
	if file == nil {
		return 0
	}

	max := len(file.Lines) - s.ViewportHeight
	if max < 0 {
		return 0
	}

	return max
}

// Scroll shifts the diff viewport by delta lines, clamped to
// [0, max(0, lines-viewport)].
func (s *State) Scroll(delta int) {
	s.ScrollPosition += delta
	s.clampScroll()
}

// Page shifts the diff viewport by whole viewports.
func (s *State) Page(delta int) {
	s.Scroll(delta * s.ViewportHeight)
}

func (s *State) ScrollToTop() {
	s.ScrollPosition = 0
}

func (s *State) ScrollToBottom() {
	s.ScrollPosition = s.maxScroll()
}

func (s *State) clampScroll() {
	max := s.maxScroll()
	if s.ScrollPosition > max {
		s.ScrollPosition = max
	}
	if s.ScrollPosition < 0 {
		s.ScrollPosition = 0
	}
}

// UpdateViewportHeight derives how many diff body lines fit from the
// console height. Recomputed on every draw, the terminal can resize
// between frames.
func (s *State) UpdateViewportHeight(consoleHeight int) {
	s.ViewportHeight = consoleHeight - diffChromeRows
	if s.ViewportHeight < 1 {
		s.ViewportHeight = 1
	}
	s.clampScroll()
}

// Notify replaces the current notification. Every notification bumps
// the sequence so an expiry scheduled for an older one cannot clear a
// newer one.
func (s *State) Notify(text string, level NotificationLevel) {
	s.Notification = text
	s.NotificationLevel = level
	s.NotificationSeq++
}

func (s *State) ClearNotification() {
	s.Notification = ""
}
