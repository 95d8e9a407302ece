package tui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"golang.org/x/exp/slices"

	"revq/internal/pkg/client"
)

type detailView struct {
	*tview.Box
	state *State
}

func newDetailView(s *State) *detailView {
	v := &detailView{
		Box:   tview.NewBox(),
		state: s,
	}

	v.SetBorder(true)
	v.SetTitle(" Details ")

	return v
}

// buildDetailLines renders the detail view content: header, metadata,
// merge checks once restrictions arrive, description and the per-file
// change summary as the diff fetch fills in.
func buildDetailLines(s *State) []string {
	pr := s.CurrentPullRequest
	if pr == nil {
		return []string{"No PR selected"}
	}

	lines := []string{
		detailHeader(pr, s.MergeRestrictions),
		"",
		fmt.Sprintf("Author:    %s", tview.Escape(pr.Author)),
		fmt.Sprintf("Branch:    %s -> %s", tview.Escape(pr.Source), tview.Escape(pr.Destination)),
		fmt.Sprintf("Status:    %s", pr.Status),
		fmt.Sprintf("Created:   %s", pr.Created),
	}

	if rows := buildReviewerRows(pr); rows.Len() > 0 {
		lines = append(lines, fmt.Sprintf("Reviewers: %s", joinReviewerRows(rows)))
	}

	if len(pr.Approvals) > 0 {
		lines = append(
			lines,
			fmt.Sprintf("Approvals: %s", tview.Escape(strings.Join(pr.Approvals, ", "))),
		)
	}

	if s.MergeRestrictions != nil && len(s.MergeRestrictions.Restrictions) > 0 {
		lines = append(lines, "", "Merge checks:")

		for _, r := range s.MergeRestrictions.Restrictions {
			glyph, tag := icons["CheckFail"], deletionTag
			if r.Pass {
				glyph, tag = icons["CheckPass"], additionTag
			}

			label := r.Label
			if label == "" {
				label = r.Name
			}

			lines = append(
				lines,
				fmt.Sprintf("  [%s]%s[-] %s", tag, glyph, tview.Escape(label)),
			)
		}
	}

	lines = append(lines, "", "Description:", "")

	description := strings.TrimSpace(pr.Description)
	if description == "" {
		lines = append(lines, "*No description provided*")
	} else {
		for _, l := range strings.Split(description, "\n") {
			lines = append(lines, tview.Escape(l))
		}
	}

	lines = append(lines, "", "Changes:")

	switch {
	case s.DiffLoading:
		lines = append(lines, "  Loading diff...")
	case len(s.FileDiffs) == 0:
		lines = append(lines, "  No changes to display")
	default:
		for _, fd := range s.FileDiffs {
			lines = append(lines, formatFileSummary(fd))
		}
	}

	return lines
}

// detailHeader prefixes the title with a mergeable or blocked glyph
// once the merge restrictions have arrived.
func detailHeader(pr *client.PullRequest, mr *client.MergeRestrictions) string {
	header := fmt.Sprintf("[::b]PR #%d: %s", pr.ID, tview.Escape(pr.Title))

	if mr == nil {
		return header
	}

	if mr.CanMerge {
		return fmt.Sprintf("[%s]%s[-] %s", additionTag, icons["Mergeable"], header)
	}

	return fmt.Sprintf("[%s]%s[-] %s", deletionTag, icons["Blocked"], header)
}

// buildReviewerRows marks every reviewer that has approved.
func buildReviewerRows(pr *client.PullRequest) *RowSet {
	rs := NewRowSet()

	for i, reviewer := range pr.Reviewers {
		rs.Append(tview.Escape(reviewer), reviewer)

		if slices.Contains(pr.Approvals, reviewer) {
			rs.Toggle(i)
		}
	}

	return rs
}

func joinReviewerRows(rs *RowSet) string {
	parts := make([]string, 0, rs.Len())

	for i, row := range rs.Rows() {
		if rs.IsSelected(i) {
			parts = append(
				parts,
				fmt.Sprintf("[%s]%s[-] %s", additionTag, icons["Approved"], row.Text),
			)
		} else {
			parts = append(parts, fmt.Sprintf("%s %s", icons["Reviewer"], row.Text))
		}
	}

	return strings.Join(parts, ", ")
}

func formatFileSummary(fd *client.FileDiff) string {
	status := ""
	if fd.Status != "" {
		status = fmt.Sprintf(" (%s)", fd.Status)
	}

	return fmt.Sprintf(
		"  %s%s  [%s]+%d[-] [%s]-%d[-]",
		tview.Escape(fd.Filename),
		status,
		additionTag,
		fd.Additions,
		deletionTag,
		fd.Deletions,
	)
}

func (v *detailView) Draw(screen tcell.Screen) {
	v.Box.DrawForSubclass(screen, v)
	x, y, width, height := v.GetInnerRect()

	for i, line := range buildDetailLines(v.state) {
		if i >= height {
			break
		}

		tview.Print(screen, line, x, y+i, width, tview.AlignLeft, NormalColor)
	}
}
