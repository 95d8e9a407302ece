package tui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

const diffFooter = "[gray]h/l: prev/next file  j/k: scroll  f/b: page  gg: top  G: bottom  v: details  q: back"

type diffView struct {
	*tview.Box
	state *State
}

func newDiffView(s *State) *diffView {
	v := &diffView{
		Box:   tview.NewBox(),
		state: s,
	}

	v.SetBorder(true)
	v.SetTitle(" Diff ")

	return v
}

// buildDiffLines renders the diff view: file navigator, the visible
// slice of the current file framed by more-content markers, and the
// key binding footer. The line count tracks viewportHeight plus the
// fixed chrome rows.
func buildDiffLines(s *State) []string {
	if s.DiffLoading {
		return []string{"Loading diff..."}
	}

	fd := s.CurrentFile()
	if fd == nil {
		return []string{"No changes to display"}
	}

	lines := make([]string, 0, s.ViewportHeight+diffChromeRows)
	lines = append(lines, buildDiffNavigator(s))

	start := s.ScrollPosition
	end := start + s.ViewportHeight
	if end > len(fd.Lines) {
		end = len(fd.Lines)
	}

	above := ""
	if start > 0 {
		above = fmt.Sprintf("%s More above", icons["MoreAbove"])
	}

	lines = append(lines, above)

	for _, line := range fd.Lines[start:end] {
		lines = append(lines, colorDiffLine(line))
	}

	for i := end - start; i < s.ViewportHeight; i++ {
		lines = append(lines, "")
	}

	below := ""
	if end < len(fd.Lines) {
		below = fmt.Sprintf("%s More below", icons["MoreBelow"])
	}

	lines = append(lines, below)
	lines = append(lines, diffFooter)

	return lines
}

func buildDiffNavigator(s *State) string {
	fd := s.CurrentFile()

	return fmt.Sprintf(
		"File %d of %d  [::b]%s[::-]  [%s]+%d[-] [%s]-%d[-]",
		s.CurrentFileIndex+1,
		len(s.FileDiffs),
		tview.Escape(fd.Filename),
		additionTag,
		fd.Additions,
		deletionTag,
		fd.Deletions,
	)
}

// colorDiffLine styles one raw diff line by its leading characters.
func colorDiffLine(line string) string {
	escaped := tview.Escape(line)

	switch {
	case strings.HasPrefix(line, "diff --git"):
		return fmt.Sprintf("[%s::b]%s[-::-]", separatorTag, escaped)
	case strings.HasPrefix(line, "@@"):
		return fmt.Sprintf("[%s]%s[-]", hunkTag, escaped)
	case strings.HasPrefix(line, "+"):
		return fmt.Sprintf("[%s]%s[-]", additionTag, escaped)
	case strings.HasPrefix(line, "-"):
		return fmt.Sprintf("[%s]%s[-]", deletionTag, escaped)
	}

	return escaped
}

func (v *diffView) Draw(screen tcell.Screen) {
	v.Box.DrawForSubclass(screen, v)
	x, y, width, height := v.GetInnerRect()

	// The body slice must match what fits on this draw.
	v.state.UpdateViewportHeight(height)

	for i, line := range buildDiffLines(v.state) {
		if i >= height {
			break
		}

		tview.Print(screen, line, x, y+i, width, tview.AlignLeft, NormalColor)
	}
}
