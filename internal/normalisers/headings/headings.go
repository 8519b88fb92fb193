// Package headings extracts heading text from CMS records.
//
// Two kinds of source are understood:
//
//   - Structured heading fields: a JSON object such as
//     {"text":"Pricing","type":"h2"} stored as a string in a field named
//     "heading" or "title".
//   - Rich text: HTML where <h1> to <h6> elements are matched by their tag
//     boundaries and their inner text is kept.
//
// Extraction never fails. Input that is not HTML or not JSON contributes
// no headings.
package headings

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/custodia-labs/searchsync/internal/core/domain"
)

// Field names that may hold a structured heading, in lookup order.
var structuredFieldNames = []string{"heading", "title"}

// headingTag matches an h1 to h6 element and captures its inner HTML.
var headingTag = regexp.MustCompile(`(?is)<h([1-6])\b[^>]*>(.*?)</h([1-6])\s*>`)

// structuredHeading is the JSON shape of the CMS heading custom field.
type structuredHeading struct {
	Text string `json:"text"`
	Type string `json:"type"`
}

// FromStructuredField returns the text of a JSON-encoded heading field.
// Values that do not start with '{', fail to decode or have no text
// yield ok == false.
func FromStructuredField(value string) (string, bool) {
	if value == "" || value[0] != '{' {
		return "", false
	}
	var h structuredHeading
	if err := json.Unmarshal([]byte(value), &h); err != nil {
		return "", false
	}
	text := strings.TrimSpace(h.Text)
	if text == "" {
		return "", false
	}
	return text, true
}

// FromHTML returns the inner text of every heading element in s,
// in order of appearance. Unbalanced or mismatched tags are skipped.
func FromHTML(s string) []string {
	if !strings.Contains(s, "<") {
		return nil
	}

	var found []string
	for _, m := range headingTag.FindAllStringSubmatch(s, -1) {
		// m[1] is the opening level, m[3] the closing one
		if m[1] != m[3] {
			continue
		}
		if text := plainText(m[2]); text != "" {
			found = append(found, text)
		}
	}
	return found
}

// FromModules walks a page's module list and returns its headings in
// document order. For each module the structured heading or title comes
// first, followed by headings found in its fields. List-valued fields are
// walked one level deep; nested single records are not descended into.
func FromModules(modules []domain.ContentRecord) []string {
	found := []string{}
	for i := range modules {
		module := &modules[i]
		if text, ok := structuredHeadingOf(module.Fields); ok {
			found = append(found, text)
		}

		for _, field := range module.Fields {
			switch field.Value.Kind {
			case domain.FieldString:
				s, _ := field.Value.Text()
				found = append(found, FromHTML(s)...)
			case domain.FieldList:
				items, _ := field.Value.List()
				found = append(found, fromListItems(items)...)
			case domain.FieldRecord:
				// Linked single records are shared content, not part of this page.
			}
		}
	}
	return found
}

// fromListItems extracts headings from the items of a module's list field.
// An item with a structured heading contributes only that heading;
// otherwise its string fields are scanned for markup.
func fromListItems(items []domain.ContentRecord) []string {
	var found []string
	for i := range items {
		item := &items[i]
		if text, ok := structuredHeadingOf(item.Fields); ok {
			found = append(found, text)
			continue
		}
		for _, field := range item.Fields {
			if s, ok := field.Value.Text(); ok {
				found = append(found, FromHTML(s)...)
			}
		}
	}
	return found
}

// structuredHeadingOf returns the structured heading held by the first
// non-empty heading or title field.
func structuredHeadingOf(fields domain.Fields) (string, bool) {
	value := fields.FirstString(structuredFieldNames...)
	return FromStructuredField(value)
}

// plainText renders a heading's inner HTML as collapsed plain text.
// The HTML5 parser recovers from any markup; it only errors on a failing
// reader, which a strings.Reader never is.
func plainText(inner string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(inner))
	if err != nil {
		return ""
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
