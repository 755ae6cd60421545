package qbank

import (
	"html"
	"strconv"
	"strings"
)

// SegmentType tags a parsed block of source text.
type SegmentType int

// Segment types produced by the block parser.
const (
	SegmentHeading SegmentType = iota
	SegmentCodeFence
	SegmentTable
	SegmentParagraph
)

// String returns the segment type name.
func (t SegmentType) String() string {
	switch t {
	case SegmentHeading:
		return "heading"
	case SegmentCodeFence:
		return "code_fence"
	case SegmentTable:
		return "table"
	case SegmentParagraph:
		return "paragraph"
	}
	return "unknown"
}

// Segment is a tagged variant of parsed source content. Exactly one
// interpretation applies per type: Level is set for headings, Language
// for code fences, and Text holds the content for all types (raw
// pipe-delimited rows for tables).
type Segment struct {
	Type     SegmentType `json:"type"`
	Level    int         `json:"level,omitempty"`
	Language string      `json:"language,omitempty"`
	Text     string      `json:"text"`
}

// RenderHTML serializes segments to HTML, preserving code and table
// structure. This is the authoritative content representation.
func RenderHTML(segments []Segment) string {
	var b strings.Builder
	for _, seg := range segments {
		switch seg.Type {
		case SegmentHeading:
			level := seg.Level
			if level < 1 || level > 6 {
				level = 2
			}
			tag := "h" + strconv.Itoa(level)
			b.WriteString("<" + tag + ">" + html.EscapeString(seg.Text) + "</" + tag + ">\n")
		case SegmentCodeFence:
			b.WriteString("<pre><code")
			if seg.Language != "" {
				b.WriteString(` class="language-` + html.EscapeString(seg.Language) + `"`)
			}
			b.WriteString(">" + html.EscapeString(seg.Text) + "</code></pre>\n")
		case SegmentTable:
			b.WriteString(renderTableHTML(seg.Text))
		case SegmentParagraph:
			b.WriteString("<p>" + html.EscapeString(seg.Text) + "</p>\n")
		}
	}
	return b.String()
}

// RenderPlain flattens segments to plain text: code fences stay fenced,
// tables stay pipe-delimited. The result is a projection of the HTML
// form, used for search and display fallbacks.
func RenderPlain(segments []Segment) string {
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		switch seg.Type {
		case SegmentHeading, SegmentParagraph, SegmentTable:
			parts = append(parts, seg.Text)
		case SegmentCodeFence:
			open := "```" + seg.Language
			parts = append(parts, open+"\n"+seg.Text+"\n```")
		}
	}
	return strings.Join(parts, "\n\n")
}

// renderTableHTML converts raw pipe-delimited rows to an HTML table.
// A separator row of dashes after the first row promotes it to a
// header row.
func renderTableHTML(raw string) string {
	lines := strings.Split(strings.TrimRight(raw, "\n"), "\n")
	rows := make([][]string, 0, len(lines))
	header := false
	for i, line := range lines {
		cells := splitTableRow(line)
		if i == 1 && isSeparatorRow(cells) {
			header = true
			continue
		}
		rows = append(rows, cells)
	}

	var b strings.Builder
	b.WriteString("<table>\n")
	for i, cells := range rows {
		tag := "td"
		if header && i == 0 {
			tag = "th"
		}
		b.WriteString("<tr>")
		for _, cell := range cells {
			b.WriteString("<" + tag + ">" + html.EscapeString(cell) + "</" + tag + ">")
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</table>\n")
	return b.String()
}

// splitTableRow splits a pipe-delimited row into trimmed cells,
// dropping the empty edge cells produced by leading/trailing pipes.
func splitTableRow(line string) []string {
	line = strings.TrimSpace(line)
	line = strings.TrimPrefix(line, "|")
	line = strings.TrimSuffix(line, "|")
	parts := strings.Split(line, "|")
	cells := make([]string, 0, len(parts))
	for _, p := range parts {
		cells = append(cells, strings.TrimSpace(p))
	}
	return cells
}

// isSeparatorRow reports whether all cells consist of dashes and
// optional alignment colons.
func isSeparatorRow(cells []string) bool {
	if len(cells) == 0 {
		return false
	}
	for _, cell := range cells {
		if cell == "" {
			return false
		}
		for _, r := range cell {
			if r != '-' && r != ':' {
				return false
			}
		}
	}
	return true
}
