package tui

// Row is one entry of a RowSet. Text is the preformatted display line,
// Reference points back at the domain value the row stands for.
type Row struct {
	Text      string
	Reference interface{}
}

// RowSet is an ordered list of rows with a cursor and a set of marked
// indices. It knows nothing about rendering; views build one per draw
// and read it back through Window and IsSelected.
type RowSet struct {
	rows     []*Row
	cursor   int
	selected map[int]struct{}
}

func NewRowSet() *RowSet {
	return &RowSet{
		rows:     []*Row{},
		selected: map[int]struct{}{},
	}
}

func (rs *RowSet) Append(text string, ref interface{}) {
	rs.rows = append(rs.rows, &Row{Text: text, Reference: ref})
}

func (rs *RowSet) Len() int {
	return len(rs.rows)
}

func (rs *RowSet) Rows() []*Row {
	return rs.rows
}

func (rs *RowSet) Cursor() int {
	return rs.cursor
}

func (rs *RowSet) SetCursor(i int) {
	end := len(rs.rows) - 1
	if i > end {
		i = end
	}

	if i < 0 {
		i = 0
	}

	rs.cursor = i
}

// CursorRow returns the row under the cursor, nil on an empty set.
func (rs *RowSet) CursorRow() *Row {
	if rs.cursor < 0 || rs.cursor >= len(rs.rows) {
		return nil
	}

	return rs.rows[rs.cursor]
}

func (rs *RowSet) Toggle(i int) {
	if i < 0 || i >= len(rs.rows) {
		return
	}

	if _, ok := rs.selected[i]; ok {
		delete(rs.selected, i)
		return
	}

	rs.selected[i] = struct{}{}
}

func (rs *RowSet) IsSelected(i int) bool {
	_, ok := rs.selected[i]
	return ok
}

// Clear drops the marked indices, the rows and cursor stay.
func (rs *RowSet) Clear() {
	rs.selected = map[int]struct{}{}
}

// Window returns the rows visible in a viewport of the given capacity
// together with the window start and the cursor translated into window
// coordinates.
func (rs *RowSet) Window(capacity int) ([]*Row, int, int) {
	if len(rs.rows) == 0 || capacity <= 0 {
		return nil, 0, 0
	}

	start, rel := visibleWindow(len(rs.rows), rs.cursor, capacity)

	end := start + capacity
	if end > len(rs.rows) {
		end = len(rs.rows)
	}

	return rs.rows[start:end], start, rel
}

// visibleWindow picks the slice of a fixed-height list to draw. The
// window pins to the head while the selection is in the first half
// window, pins to the tail once the selection is within a half window
// of the end, and centers on the selection in between.
func visibleWindow(total, selected, capacity int) (int, int) {
	if capacity <= 0 {
		return 0, 0
	}

	if total <= capacity {
		return 0, selected
	}

	half := capacity / 2

	start := selected - half
	if selected < half {
		start = 0
	} else if selected+half >= total {
		start = total - capacity
	}

	return start, selected - start
}
