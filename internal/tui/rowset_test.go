package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVisibleWindow(t *testing.T) {
	t.Run("short list starts at the head", func(t *testing.T) {
		start, rel := visibleWindow(3, 2, 10)
		assert.Equal(t, 0, start)
		assert.Equal(t, 2, rel)
	})

	t.Run("selection in the first half window pins to the head", func(t *testing.T) {
		start, rel := visibleWindow(100, 0, 10)
		assert.Equal(t, 0, start)
		assert.Equal(t, 0, rel)

		start, rel = visibleWindow(100, 4, 10)
		assert.Equal(t, 0, start)
		assert.Equal(t, 4, rel)
	})

	t.Run("selection near the end pins to the tail", func(t *testing.T) {
		start, rel := visibleWindow(100, 99, 10)
		assert.Equal(t, 90, start)
		assert.Equal(t, 9, rel)

		// The last visible row is the selected one.
		assert.Equal(t, 99, start+rel)

		start, _ = visibleWindow(100, 96, 10)
		assert.Equal(t, 90, start)
	})

	t.Run("selection in the middle is centered", func(t *testing.T) {
		start, rel := visibleWindow(100, 50, 10)
		assert.Equal(t, 45, start)
		assert.Equal(t, 5, rel)
	})

	t.Run("single line capacity follows the selection", func(t *testing.T) {
		start, rel := visibleWindow(100, 42, 1)
		assert.Equal(t, 42, start)
		assert.Equal(t, 0, rel)
	})
}

func TestRowSet(t *testing.T) {
	newSet := func(n int) *RowSet {
		rs := NewRowSet()
		for i := 0; i < n; i++ {
			rs.Append("row", i)
		}

		return rs
	}

	t.Run("cursor clamps at both ends", func(t *testing.T) {
		rs := newSet(3)

		rs.SetCursor(10)
		assert.Equal(t, 2, rs.Cursor())

		rs.SetCursor(-1)
		assert.Equal(t, 0, rs.Cursor())
	})

	t.Run("cursor row resolves the reference", func(t *testing.T) {
		rs := newSet(3)
		rs.SetCursor(1)
		assert.Equal(t, 1, rs.CursorRow().Reference)
	})

	t.Run("cursor row is nil on an empty set", func(t *testing.T) {
		rs := NewRowSet()
		assert.Nil(t, rs.CursorRow())
	})

	t.Run("toggle flips membership", func(t *testing.T) {
		rs := newSet(3)

		rs.Toggle(1)
		assert.True(t, rs.IsSelected(1))
		assert.False(t, rs.IsSelected(0))

		rs.Toggle(1)
		assert.False(t, rs.IsSelected(1))
	})

	t.Run("toggle out of range is ignored", func(t *testing.T) {
		rs := newSet(3)
		rs.Toggle(7)
		rs.Toggle(-1)

		for i := 0; i < 3; i++ {
			assert.False(t, rs.IsSelected(i))
		}
	})

	t.Run("clear drops every mark", func(t *testing.T) {
		rs := newSet(3)
		rs.Toggle(0)
		rs.Toggle(2)

		rs.Clear()
		assert.False(t, rs.IsSelected(0))
		assert.False(t, rs.IsSelected(2))
	})

	t.Run("window translates the cursor", func(t *testing.T) {
		rs := newSet(100)
		rs.SetCursor(50)

		rows, start, rel := rs.Window(10)
		assert.Len(t, rows, 10)
		assert.Equal(t, 45, start)
		assert.Equal(t, 5, rel)
		assert.Equal(t, 50, rows[rel].Reference)
	})

	t.Run("window of an empty set is empty", func(t *testing.T) {
		rs := NewRowSet()

		rows, start, rel := rs.Window(10)
		assert.Empty(t, rows)
		assert.Equal(t, 0, start)
		assert.Equal(t, 0, rel)
	})
}
