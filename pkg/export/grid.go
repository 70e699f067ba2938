package export

// Grid is one timetable rendered as text: a title, a header row and body rows
// whose cells may span several lines.
type Grid struct {
	Title string
	// Subtitle is shown next to the title by the PDF and XLSX renderers.
	Subtitle string
	Header   []string
	Rows     [][]string
}

func (g Grid) cell(row, col int) string {
	if row >= len(g.Rows) || col >= len(g.Rows[row]) {
		return ""
	}
	return g.Rows[row][col]
}
