// Package markdown parses loosely structured source text into tagged
// segments and groups them into question blocks.
package markdown

import (
	"regexp"
	"strings"

	"github.com/fwojciec/qbank"
)

var headingRe = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)

// ParseSegments splits raw text into tagged segments using a
// line-oriented scan. Headings and tables inside fenced code are not
// misclassified: the fence gate wins over every other rule.
func ParseSegments(raw string) []qbank.Segment {
	var segments []qbank.Segment

	var inFence bool
	var fenceLang string
	var fence []string
	var para []string
	var table []string

	flushPara := func() {
		if len(para) > 0 {
			segments = append(segments, qbank.Segment{
				Type: qbank.SegmentParagraph,
				Text: strings.Join(para, "\n"),
			})
			para = nil
		}
	}
	flushTable := func() {
		if len(table) > 0 {
			segments = append(segments, qbank.Segment{
				Type: qbank.SegmentTable,
				Text: strings.Join(table, "\n"),
			})
			table = nil
		}
	}

	for line := range strings.Lines(raw) {
		line = strings.TrimRight(line, "\r\n")
		trimmed := strings.TrimSpace(line)

		if inFence {
			if strings.HasPrefix(trimmed, "```") {
				segments = append(segments, qbank.Segment{
					Type:     qbank.SegmentCodeFence,
					Language: fenceLang,
					Text:     strings.Join(fence, "\n"),
				})
				inFence = false
				fence = nil
				continue
			}
			fence = append(fence, line)
			continue
		}

		switch {
		case strings.HasPrefix(trimmed, "```"):
			flushPara()
			flushTable()
			inFence = true
			fenceLang = strings.TrimSpace(strings.TrimPrefix(trimmed, "```"))
		case headingRe.MatchString(trimmed):
			flushPara()
			flushTable()
			m := headingRe.FindStringSubmatch(trimmed)
			segments = append(segments, qbank.Segment{
				Type:  qbank.SegmentHeading,
				Level: len(m[1]),
				Text:  strings.TrimSpace(m[2]),
			})
		case strings.HasPrefix(trimmed, "|"):
			flushPara()
			table = append(table, trimmed)
		case trimmed == "":
			flushPara()
			flushTable()
		default:
			flushTable()
			para = append(para, trimmed)
		}
	}

	flushPara()
	flushTable()

	// An unterminated fence is still code; losing it would corrupt
	// the content projection.
	if inFence {
		segments = append(segments, qbank.Segment{
			Type:     qbank.SegmentCodeFence,
			Language: fenceLang,
			Text:     strings.Join(fence, "\n"),
		})
	}

	return segments
}
