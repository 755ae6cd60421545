// Package htmlsource converts HTML source documents into text the
// block parser accepts.
package htmlsource

import (
	"bytes"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/qbank"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Converter implements qbank.Converter at compile time.
var _ qbank.Converter = (*Converter)(nil)

// Converter extracts the main content from an HTML page and renders
// it as markdown-shaped text. The page title becomes a level-1
// heading, so it feeds the category hint the same way a markdown
// preamble does.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Converter{conv: conv}
}

// Convert transforms an HTML document into parser-ready text.
func (c *Converter) Convert(rawHTML string) (string, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return "", qbank.Errorf(qbank.EINVALID, "empty HTML input")
	}

	content, title := extract(rawHTML)
	if title == "" {
		title = fallbackTitle(rawHTML)
	}

	text, err := c.conv.ConvertString(content)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", qbank.Errorf(qbank.EINVALID, "no content extracted from HTML")
	}

	if title != "" && !strings.HasPrefix(text, "# ") {
		text = "# " + title + "\n\n" + text
	}
	return text + "\n", nil
}

// extract pulls the main content out of a page, stripping navigation
// and other boilerplate. Falls back to the raw input when extraction
// finds nothing, which covers already-clean HTML fragments.
func extract(rawHTML string) (content, title string) {
	result, err := trafilatura.Extract(strings.NewReader(rawHTML), trafilatura.Options{
		EnableFallback: true,
	})
	if err != nil || result.ContentNode == nil {
		return rawHTML, ""
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, result.ContentNode); err != nil {
		return rawHTML, result.Metadata.Title
	}
	return buf.String(), result.Metadata.Title
}

// fallbackTitle reads the title from the document head, preferring
// og:title, then <title>, then the first h1.
func fallbackTitle(rawHTML string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return ""
	}

	if t, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		if t = strings.TrimSpace(t); t != "" {
			return t
		}
	}
	if t := strings.TrimSpace(doc.Find("title").First().Text()); t != "" {
		return t
	}
	return strings.TrimSpace(doc.Find("h1").First().Text())
}
