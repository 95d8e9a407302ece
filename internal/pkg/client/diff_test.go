package client

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ParseDiff(t *testing.T) {
	t.Run("empty input yields no sections", func(t *testing.T) {
		assert.Empty(t, ParseDiff(""))
	})

	t.Run("splits one file with counters", func(t *testing.T) {
		text := strings.Join([]string{
			"diff --git a/x.py b/x.py",
			"+line1",
			"-line2",
			"+++ b/x.py",
			"--- a/x.py",
		}, "\n")

		diffs := ParseDiff(text)

		require.Len(t, diffs, 1)
		assert.Equal(t, "x.py", diffs[0].Filename)
		assert.Equal(t, 1, diffs[0].Additions)
		assert.Equal(t, 1, diffs[0].Deletions)
		assert.Len(t, diffs[0].Lines, 5)
	})

	t.Run("partitions every line across sections", func(t *testing.T) {
		text := strings.Join([]string{
			"diff --git a/a.go b/a.go",
			"index 1111111..2222222 100644",
			"--- a/a.go",
			"+++ b/a.go",
			"@@ -1,2 +1,2 @@",
			"-old",
			"+new",
			"diff --git a/b.go b/b.go",
			"--- a/b.go",
			"+++ b/b.go",
			"@@ -1 +1,2 @@",
			" kept",
			"+added",
		}, "\n")

		diffs := ParseDiff(text)

		require.Len(t, diffs, 2)
		assert.Equal(t, "a.go", diffs[0].Filename)
		assert.Equal(t, "b.go", diffs[1].Filename)

		contents := make([]string, 0, len(diffs))
		for _, fd := range diffs {
			contents = append(contents, fd.Content())
		}

		assert.Equal(t, text, strings.Join(contents, "\n"))
	})

	t.Run("drops lines before the first separator", func(t *testing.T) {
		text := strings.Join([]string{
			"garbage preamble",
			"diff --git a/a.go b/a.go",
			"+x",
		}, "\n")

		diffs := ParseDiff(text)

		require.Len(t, diffs, 1)
		assert.Equal(t, []string{"diff --git a/a.go b/a.go", "+x"}, diffs[0].Lines)
	})

	t.Run("ignores a trailing newline", func(t *testing.T) {
		diffs := ParseDiff("diff --git a/a.go b/a.go\n+x\n")

		require.Len(t, diffs, 1)
		assert.Len(t, diffs[0].Lines, 2)
		assert.Equal(t, 1, diffs[0].Additions)
	})

	t.Run("takes the path after the last b/ marker", func(t *testing.T) {
		diffs := ParseDiff("diff --git a/lib b/util.go b/lib b/util.go")

		require.Len(t, diffs, 1)
		assert.Equal(t, "lib b/util.go", diffs[0].Filename)
	})
}

func Test_FileDiff_AddLine(t *testing.T) {
	t.Run("counts additions and deletions", func(t *testing.T) {
		fd := &FileDiff{}
		fd.AddLine("+added")
		fd.AddLine("-removed")
		fd.AddLine(" context")
		fd.AddLine("@@ -1 +1 @@")

		assert.Equal(t, 1, fd.Additions)
		assert.Equal(t, 1, fd.Deletions)
		assert.Len(t, fd.Lines, 4)
	})

	t.Run("file headers are not changes", func(t *testing.T) {
		fd := &FileDiff{}
		fd.AddLine("+++ b/x.py")
		fd.AddLine("--- a/x.py")

		assert.Equal(t, 0, fd.Additions)
		assert.Equal(t, 0, fd.Deletions)
	})
}

func Test_FileDiff_StatsText(t *testing.T) {
	fd := &FileDiff{Additions: 3, Deletions: 1}

	assert.Equal(t, "+3 -1", fd.StatsText())
}

func Test_ApplyDiffstat(t *testing.T) {
	t.Run("backfills matching sections", func(t *testing.T) {
		diffs := []*FileDiff{
			{Filename: "a.go"},
			{Filename: "b.go"},
		}

		ApplyDiffstat(diffs, []*DiffstatEntry{
			{Path: "b.go", Status: "modified", ContentType: "file"},
		})

		assert.Empty(t, diffs[0].Status)
		assert.Equal(t, "modified", diffs[1].Status)
		assert.Equal(t, "file", diffs[1].ContentType)
	})

	t.Run("entries without a section are skipped", func(t *testing.T) {
		diffs := []*FileDiff{{Filename: "a.go"}}

		ApplyDiffstat(diffs, []*DiffstatEntry{
			{Path: "missing.go", Status: "removed"},
		})

		assert.Empty(t, diffs[0].Status)
	})
}
