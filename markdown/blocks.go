package markdown

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/fwojciec/qbank"
)

// markerRe matches a question marker heading: an optional "Question"
// prefix, a number token, and a separator before the title.
// Examples: "12. Why use channels?", "Question 3: Interfaces".
var markerRe = regexp.MustCompile(`(?i)^(?:question\s+)?(\d+)\s*[.:)]\s*(.*)$`)

// Block is a candidate question: a marker heading and the segments up
// to the next marker heading or end of document.
type Block struct {
	// NumberHint is the number token from the marker heading.
	NumberHint int

	// Title is the heading text with the marker token stripped.
	Title string

	// Body holds the segments between this marker and the next.
	Body []qbank.Segment
}

// QuestionMarker reports whether a segment is a question marker
// heading, returning the parsed number hint and stripped title.
func QuestionMarker(seg qbank.Segment) (number int, title string, ok bool) {
	if seg.Type != qbank.SegmentHeading {
		return 0, "", false
	}
	m := markerRe.FindStringSubmatch(seg.Text)
	if m == nil {
		return 0, "", false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, "", false
	}
	return n, strings.TrimSpace(m[2]), true
}

// SplitBlocks groups segments into question blocks. Content before the
// first marker heading is document preamble and is not part of any
// block. Two consecutive markers with no intervening content produce
// an empty block; the consumer flags it rather than discarding it.
func SplitBlocks(segments []qbank.Segment) []Block {
	var blocks []Block
	var current *Block

	for _, seg := range segments {
		if number, title, ok := QuestionMarker(seg); ok {
			if current != nil {
				blocks = append(blocks, *current)
			}
			current = &Block{NumberHint: number, Title: title}
			continue
		}
		if current != nil {
			current.Body = append(current.Body, seg)
		}
	}
	if current != nil {
		blocks = append(blocks, *current)
	}

	return blocks
}

// Preamble returns the segments before the first marker heading.
func Preamble(segments []qbank.Segment) []qbank.Segment {
	for i, seg := range segments {
		if _, _, ok := QuestionMarker(seg); ok {
			return segments[:i]
		}
	}
	return segments
}
