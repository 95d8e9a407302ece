package tui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

type listView struct {
	*tview.Box
	state *State
}

func newListView(s *State) *listView {
	v := &listView{
		Box:   tview.NewBox(),
		state: s,
	}

	v.SetBorder(true)

	return v
}

// buildListRows builds the rows the list draws, one per pull request
// matching the search term, with the cursor on the selected one.
func buildListRows(s *State, width int) *RowSet {
	rs := NewRowSet()

	for _, pr := range s.Visible() {
		pr := pr

		rs.Append(formatListColumns(
			width,
			fmt.Sprintf("#%d", pr.ID),
			tview.Escape(pr.Title),
			tview.Escape(pr.Author),
			string(pr.Status),
			fmt.Sprintf("%d", len(pr.Approvals)),
			tview.Escape(pr.Source),
		), pr)
	}

	rs.SetCursor(s.Selected)

	return rs
}

func listHeader(width int) string {
	return formatListColumns(width, "ID", "TITLE", "AUTHOR", "STATUS", "APR", "BRANCH")
}

func formatListColumns(width int, id, title, author, status, approvals, branch string) string {
	titleWidth := width / 3
	if titleWidth < 20 {
		titleWidth = 20
	} else if titleWidth > 60 {
		titleWidth = 60
	}

	return fmt.Sprintf(
		" %-5s  %s  %-16s  %-8s  %3s  %s",
		id,
		padTruncate(title, titleWidth),
		padTruncate(author, 16),
		status,
		approvals,
		branch,
	)
}

func padTruncate(s string, width int) string {
	r := []rune(s)
	if len(r) > width {
		return string(r[:width-1]) + "…"
	}

	return s + strings.Repeat(" ", width-len(r))
}

func (v *listView) Draw(screen tcell.Screen) {
	v.SetTitle(" " + v.state.Filter.Title() + " ")
	v.Box.DrawForSubclass(screen, v)
	x, y, width, height := v.GetInnerRect()

	if v.state.Loading && len(v.state.PullRequests) == 0 {
		tview.Print(screen, "Loading pull requests...", x, y, width, tview.AlignLeft, NormalColor)
		return
	}

	rs := buildListRows(v.state, width)
	if rs.Len() == 0 {
		tview.Print(screen, "No pull requests found", x, y, width, tview.AlignLeft, NormalColor)
		return
	}

	tview.Print(screen, "[::b]"+listHeader(width), x, y, width, tview.AlignLeft, NormalColor)

	rows, _, rel := rs.Window(height - 1)
	for i, row := range rows {
		highlightPrefix := ""
		if i == rel {
			highlightPrefix = fmt.Sprintf("[:%s]", "gray")

			tview.Print(
				screen,
				highlightPrefix+strings.Repeat(" ", width),
				x,
				y+1+i,
				width,
				tview.AlignRight,
				NormalColor,
			)
		}

		tview.Print(
			screen,
			highlightPrefix+row.Text,
			x,
			y+1+i,
			width,
			tview.AlignLeft,
			NormalColor,
		)
	}
}
