// Package etree reads the optional manifest.xml at a source root.
package etree

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/qbank/ingest"
)

// Ensure Manifest implements ingest.Overrides at compile time.
var _ ingest.Overrides = (*Manifest)(nil)

// Manifest carries per-document overrides declared at the source
// root. Documents the manifest does not mention fall through to their
// scanner-derived hints and the publish default.
//
// Format:
//
//	<manifest>
//	  <defaults published="false"/>
//	  <document id="concurrency/channels.md" category="Concurrency" published="true"/>
//	</manifest>
type Manifest struct {
	defaultPublished bool
	entries          map[string]entry
}

type entry struct {
	category  string
	published *bool
}

// Load reads a manifest file. A missing file is not an error: it
// returns a nil manifest, which callers pass through as "no overrides".
func Load(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return m, nil
}

// Parse reads a manifest document.
func Parse(r io.Reader) (*Manifest, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("parsing manifest XML: %w", err)
	}

	root := doc.Root()
	if root == nil || root.Tag != "manifest" {
		return nil, fmt.Errorf("manifest root element missing")
	}

	m := &Manifest{
		defaultPublished: true,
		entries:          make(map[string]entry),
	}

	if defaults := root.SelectElement("defaults"); defaults != nil {
		if attr := defaults.SelectAttr("published"); attr != nil {
			m.defaultPublished = parseBool(attr.Value, true)
		}
	}

	for _, el := range root.SelectElements("document") {
		id := strings.TrimSpace(el.SelectAttrValue("id", ""))
		if id == "" {
			return nil, fmt.Errorf("manifest document element without id")
		}

		var e entry
		e.category = strings.TrimSpace(el.SelectAttrValue("category", ""))
		if attr := el.SelectAttr("published"); attr != nil {
			v := parseBool(attr.Value, m.defaultPublished)
			e.published = &v
		}
		m.entries[id] = e
	}

	return m, nil
}

// CategoryFor returns the category override for a document ID.
func (m *Manifest) CategoryFor(documentID string) (string, bool) {
	e, ok := m.entries[documentID]
	if !ok || e.category == "" {
		return "", false
	}
	return e.category, true
}

// PublishedFor returns whether newly created questions from the
// document should be published. Existing rows keep their state.
func (m *Manifest) PublishedFor(documentID string) bool {
	if e, ok := m.entries[documentID]; ok && e.published != nil {
		return *e.published
	}
	return m.defaultPublished
}

func parseBool(s string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "1":
		return true
	case "false", "no", "0":
		return false
	}
	return fallback
}
