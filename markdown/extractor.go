package markdown

import (
	"strings"

	"github.com/fwojciec/qbank"
)

// Extractor turns parsed source documents into question candidates.
type Extractor struct {
	// DefaultDifficulty applies when a block carries no difficulty
	// marker. Zero value falls back to beginner.
	DefaultDifficulty qbank.Difficulty
}

// NewExtractor creates an Extractor with the given default difficulty.
func NewExtractor(defaultDifficulty qbank.Difficulty) *Extractor {
	if defaultDifficulty == "" {
		defaultDifficulty = qbank.DifficultyBeginner
	}
	return &Extractor{DefaultDifficulty: defaultDifficulty}
}

// Extract parses a document and returns one candidate per question
// block, in document order. Extraction is deterministic: the same
// document always yields byte-identical candidates.
//
// A level-1 heading in the document preamble refines the category
// hint; an explicit manifest override, applied by the caller, wins
// over both.
func (e *Extractor) Extract(doc *qbank.SourceDocument) []*qbank.Candidate {
	segments := ParseSegments(doc.Text)

	hint := doc.CategoryHint
	for _, seg := range Preamble(segments) {
		if seg.Type == qbank.SegmentHeading && seg.Level == 1 {
			hint = seg.Text
			break
		}
	}

	blocks := SplitBlocks(segments)
	candidates := make([]*qbank.Candidate, 0, len(blocks))
	for _, block := range blocks {
		candidates = append(candidates, e.extractBlock(doc.ID, hint, block))
	}
	return candidates
}

func (e *Extractor) extractBlock(docID, categoryHint string, block Block) *qbank.Candidate {
	body, tags, difficulty := splitMetadata(block.Body)

	cand := &qbank.Candidate{
		DocumentID:   docID,
		CategoryHint: categoryHint,
		NumberHint:   block.NumberHint,
		Title:        block.Title,
		Tags:         tags,
		Difficulty:   e.DefaultDifficulty,
	}
	if difficulty != "" {
		if d, err := qbank.ParseDifficulty(difficulty); err == nil {
			cand.Difficulty = d
		}
	}

	if len(body) == 0 {
		cand.Empty = true
		return cand
	}

	cand.ContentHTML = qbank.RenderHTML(body)
	cand.ContentPlain = qbank.RenderPlain(body)
	return cand
}

// splitMetadata removes explicit "Tags:" and "Difficulty:" marker
// paragraphs from a block body and returns what they carried.
func splitMetadata(body []qbank.Segment) (content []qbank.Segment, tags []string, difficulty string) {
	content = make([]qbank.Segment, 0, len(body))
	for _, seg := range body {
		if seg.Type != qbank.SegmentParagraph {
			content = append(content, seg)
			continue
		}

		var keep []string
		for line := range strings.Lines(seg.Text) {
			line = strings.TrimRight(line, "\n")
			switch {
			case hasMarker(line, "Tags:"):
				for _, tag := range strings.Split(markerValue(line, "Tags:"), ",") {
					if tag = strings.TrimSpace(tag); tag != "" {
						tags = append(tags, tag)
					}
				}
			case hasMarker(line, "Difficulty:"):
				difficulty = strings.ToLower(markerValue(line, "Difficulty:"))
			default:
				keep = append(keep, line)
			}
		}
		if len(keep) > 0 {
			seg.Text = strings.Join(keep, "\n")
			content = append(content, seg)
		}
	}
	if len(content) == 0 {
		content = nil
	}
	return content, tags, difficulty
}

func hasMarker(line, marker string) bool {
	return len(line) >= len(marker) && strings.EqualFold(line[:len(marker)], marker)
}

func markerValue(line, marker string) string {
	return strings.TrimSpace(line[len(marker):])
}
