package client

import (
	"fmt"
	"strings"
)

// FileDiff is one per-file section of a unified diff, carrying the raw
// lines plus counters maintained while lines are appended.
type FileDiff struct {
	Filename    string
	Lines       []string
	Additions   int
	Deletions   int
	Status      string
	ContentType string
}

// AddLine appends a raw diff line and updates the counters. File
// header lines ("+++ b/...", "--- a/...") never count as changes.
func (fd *FileDiff) AddLine(line string) {
	fd.Lines = append(fd.Lines, line)

	if strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "+++") {
		fd.Additions++
	} else if strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "---") {
		fd.Deletions++
	}
}

func (fd *FileDiff) Content() string {
	return strings.Join(fd.Lines, "\n")
}

// StatsText is the "+a -d" summary shown next to the filename.
func (fd *FileDiff) StatsText() string {
	return fmt.Sprintf("+%d -%d", fd.Additions, fd.Deletions)
}

// ParseDiff splits raw unified diff text into per-file sections. A
// "diff --git" line seals the open section and starts the next one;
// every line, separators included, lands in exactly one section.
// Lines before the first separator are dropped.
func ParseDiff(text string) []*FileDiff {
	diffs := []*FileDiff{}

	var current *FileDiff

	for _, line := range strings.Split(strings.TrimSuffix(text, "\n"), "\n") {
		if strings.HasPrefix(line, "diff --git") {
			if current != nil {
				diffs = append(diffs, current)
			}

			current = &FileDiff{Filename: filenameFromSeparator(line)}
		}

		if current != nil {
			current.AddLine(line)
		}
	}

	if current != nil {
		diffs = append(diffs, current)
	}

	return diffs
}

// filenameFromSeparator extracts the destination path from a
// "diff --git a/old b/new" line. The last " b/" marker wins, which
// keeps paths containing " b/" in the old half intact.
func filenameFromSeparator(line string) string {
	i := strings.LastIndex(line, " b/")
	if i == -1 {
		return line
	}

	return line[i+3:]
}

// ApplyDiffstat backfills Status and ContentType from diffstat entries
// onto already parsed sections, matched by path. Sections without a
// matching entry are left untouched.
func ApplyDiffstat(diffs []*FileDiff, entries []*DiffstatEntry) {
	for _, e := range entries {
		for _, fd := range diffs {
			if fd.Filename == e.Path {
				fd.Status = e.Status
				fd.ContentType = e.ContentType

				break
			}
		}
	}
}
