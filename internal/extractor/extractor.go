package extractor

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// Lines at or below this rune count are treated as headers, footers, or
// table fragments and discarded.
const minLineRunes = 40

// Entry is one qualifying line of MD&A text with its source page number.
type Entry struct {
	Text string
	Page int
}

// Page is the raw text of one document page.
type Page struct {
	Number int
	Text   string
}

// Extractor buckets document lines into topical sections using an ordered
// keyword rule table.
type Extractor struct {
	rules []SectionRule
}

// New creates an Extractor with the default section rules.
func New() *Extractor {
	return &Extractor{rules: DefaultSectionRules}
}

// NewWithRules creates an Extractor with a custom rule table. Rule order is
// significant: the first matching rule wins.
func NewWithRules(rules []SectionRule) *Extractor {
	return &Extractor{rules: rules}
}

// ExtractFile pulls per-page text out of a PDF and classifies it into
// sections. Pages with no extractable text are skipped.
func (e *Extractor) ExtractFile(path string) (map[string][]Entry, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	var pages []Page
	total := r.NumPage()
	for i := 1; i <= total; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			// A page without a text layer is not an error for the document
			continue
		}
		pages = append(pages, Page{Number: i, Text: text})
	}

	return e.Classify(pages), nil
}

// Classify folds over pages and lines, carrying the current-section pointer
// as explicit state. A line whose lower-cased text contains any keyword of a
// rule switches the current section to that rule's label before the line
// itself is considered for inclusion. Lines that precede any keyword accrue
// to the general section. Sections with zero entries are dropped.
func (e *Extractor) Classify(pages []Page) map[string][]Entry {
	sections := make(map[string][]Entry)
	current := GeneralSection

	for _, page := range pages {
		for _, raw := range strings.Split(page.Text, "\n") {
			line := strings.TrimSpace(raw)
			lower := strings.ToLower(line)

			if label, ok := e.matchSection(lower); ok {
				current = label
			}

			if utf8.RuneCountInString(line) > minLineRunes {
				sections[current] = append(sections[current], Entry{
					Text: line,
					Page: page.Number,
				})
			}
		}
	}

	return sections
}

// matchSection returns the label of the first rule with a keyword contained
// in the line, in rule declaration order.
func (e *Extractor) matchSection(lowerLine string) (string, bool) {
	for _, rule := range e.rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lowerLine, kw) {
				return rule.Label, true
			}
		}
	}
	return "", false
}
