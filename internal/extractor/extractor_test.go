package extractor

import (
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	e := New()
	if e == nil {
		t.Fatal("New() returned nil")
	}
}

func TestClassify_SectionSwitching(t *testing.T) {
	e := New()

	pages := []Page{
		{
			Number: 1,
			Text: strings.Join([]string{
				"This opening paragraph describes the company and its operating context in detail.",
				"Risk Management",
				"Credit exposure remained well within the board approved limits during the year.",
			}, "\n"),
		},
		{
			Number: 2,
			Text: strings.Join([]string{
				"Outlook",
				"The company expects sustained demand momentum across its core markets next year.",
			}, "\n"),
		},
	}

	sections := e.Classify(pages)

	general, ok := sections[GeneralSection]
	if !ok || len(general) != 1 {
		t.Fatalf("expected 1 general entry, got %v", sections[GeneralSection])
	}
	if general[0].Page != 1 {
		t.Errorf("general entry page = %d, want 1", general[0].Page)
	}

	risks, ok := sections["Risks & Risk Management"]
	if !ok || len(risks) != 1 {
		t.Fatalf("expected 1 risk entry, got %v", sections["Risks & Risk Management"])
	}
	if !strings.Contains(risks[0].Text, "Credit exposure") {
		t.Errorf("unexpected risk entry text: %q", risks[0].Text)
	}

	outlook, ok := sections["Outlook & Strategy"]
	if !ok || len(outlook) != 1 {
		t.Fatalf("expected 1 outlook entry, got %v", sections["Outlook & Strategy"])
	}
	if outlook[0].Page != 2 {
		t.Errorf("outlook entry page = %d, want 2", outlook[0].Page)
	}
}

func TestClassify_ShortLinesDropped(t *testing.T) {
	e := New()

	pages := []Page{
		{Number: 1, Text: "Page 12\nShort line.\nAnnual Report"},
	}

	sections := e.Classify(pages)
	if len(sections) != 0 {
		t.Errorf("expected no sections from header-only page, got %v", sections)
	}
}

func TestClassify_HeaderLineSwitchesButIsDropped(t *testing.T) {
	e := New()

	// The heading itself is under the line-length floor; it must still switch
	// the current section for the lines that follow.
	pages := []Page{
		{Number: 3, Text: "Human Capital\nTotal headcount grew to over six hundred thousand employees during the year."},
	}

	sections := e.Classify(pages)
	entries, ok := sections["Human Capital"]
	if !ok || len(entries) != 1 {
		t.Fatalf("expected 1 human-capital entry, got %v", sections)
	}
	if strings.Contains(entries[0].Text, "Human Capital") && len(entries) > 1 {
		t.Error("heading line itself should have been dropped")
	}
}

func TestClassify_FirstRuleWins(t *testing.T) {
	rules := []SectionRule{
		{Label: "First", Keywords: []string{"alpha"}},
		{Label: "Second", Keywords: []string{"alpha", "beta"}},
	}
	e := NewWithRules(rules)

	pages := []Page{
		{Number: 1, Text: "alpha beta\nThis qualifying line of body text is comfortably over forty characters long."},
	}

	sections := e.Classify(pages)
	if _, ok := sections["First"]; !ok {
		t.Errorf("expected first rule to win, got sections %v", sections)
	}
	if _, ok := sections["Second"]; ok {
		t.Errorf("second rule must not also collect entries, got %v", sections)
	}
}

func TestClassify_EmptyPages(t *testing.T) {
	e := New()
	if got := e.Classify(nil); len(got) != 0 {
		t.Errorf("Classify(nil) = %v, want empty", got)
	}
}
