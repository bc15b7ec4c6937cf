// Package query classifies incoming questions: a coarse intent, plus the
// target company and fiscal year when the question names them.
package query

import "strings"

// Intent is the coarse informational goal of a query. It biases both query
// expansion in the retriever and answer instructions in the composer.
type Intent string

const (
	IntentRisk        Intent = "risk"
	IntentOutlook     Intent = "outlook"
	IntentPerformance Intent = "performance"
	IntentPeople      Intent = "people"
	IntentGeneral     Intent = "general"
)

// IntentRule pairs an intent with its trigger keywords. Rules run in order
// and the first rule with any substring match wins, so a query containing
// both a risk term and a performance term classifies as risk.
type IntentRule struct {
	Intent   Intent
	Triggers []string
}

// DefaultIntentRules encodes the precedence risk > outlook > performance >
// people; anything else is general.
var DefaultIntentRules = []IntentRule{
	{IntentRisk, []string{"risk", "threat", "challenge", "concern", "exposure", "headwind"}},
	{IntentOutlook, []string{"outlook", "future", "strategy", "plan", "guidance", "way forward", "priority"}},
	{IntentPerformance, []string{"performance", "revenue", "profit", "growth", "earnings", "margin", "ebitda", "pat"}},
	{IntentPeople, []string{"employee", "talent", "hiring", "attrition", "workforce", "headcount"}},
}

// ExpansionKeywords is the vocabulary appended to a query to bias the
// similarity search toward intent-relevant chunks.
var ExpansionKeywords = map[Intent][]string{
	IntentRisk: {
		"risk", "threat", "challenge", "concern", "exposure",
		"uncertainty", "adverse", "impact", "pressure", "headwind",
	},
	IntentOutlook: {
		"future", "strategy", "plan", "outlook", "expect",
		"guidance", "going forward", "initiatives", "focus", "target", "priority",
	},
	IntentPerformance: {
		"revenue", "profit", "growth", "increased", "decreased",
		"performance", "earnings", "margin", "grew", "crore", "billion", "ebitda", "pat",
	},
	IntentPeople: {
		"employee", "talent", "hiring", "attrition", "workforce",
		"headcount", "training", "culture",
	},
	IntentGeneral: {
		"information", "detail", "overview", "summary",
	},
}

// CompanyAlias maps a lower-case alias found in query text to the canonical
// company name stored in chunk metadata.
type CompanyAlias struct {
	Alias   string
	Company string
}

// DefaultCompanyAliases lists the indexed companies. First alias found in
// declaration order wins.
var DefaultCompanyAliases = []CompanyAlias{
	{"icici", "ICICI Bank"},
	{"hdfc", "HDFC"},
	{"tcs", "TCS"},
	{"infosys", "Infosys"},
	{"reliance", "Reliance Industries"},
	{"adani", "Adani Power"},
}

// YearRule maps literal query tokens to a fiscal-year label. Adding a fiscal
// year is a new table entry, not a code change.
type YearRule struct {
	Tokens []string
	Label  string
}

// DefaultYearRules recognizes the two indexed fiscal years.
var DefaultYearRules = []YearRule{
	{[]string{"2024", "fy24", "2023-24"}, "FY2023-24"},
	{[]string{"2025", "fy25", "2024-25"}, "FY2024-25"},
}

// Analysis is the per-query classification result. Company and Year are
// empty when the query text names neither.
type Analysis struct {
	Intent  Intent
	Company string
	Year    string
}

// Analyzer classifies queries against configurable rule tables.
type Analyzer struct {
	intentRules    []IntentRule
	companyAliases []CompanyAlias
	yearRules      []YearRule
}

// NewAnalyzer creates an Analyzer with the default tables.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		intentRules:    DefaultIntentRules,
		companyAliases: DefaultCompanyAliases,
		yearRules:      DefaultYearRules,
	}
}

// NewAnalyzerWithTables creates an Analyzer with custom rule tables, for
// deployments covering a different corpus.
func NewAnalyzerWithTables(intents []IntentRule, companies []CompanyAlias, years []YearRule) *Analyzer {
	return &Analyzer{
		intentRules:    intents,
		companyAliases: companies,
		yearRules:      years,
	}
}

// Analyze classifies a raw query string.
func (a *Analyzer) Analyze(q string) Analysis {
	return Analysis{
		Intent:  a.DetectIntent(q),
		Company: a.ExtractCompany(q),
		Year:    a.ExtractYear(q),
	}
}

// DetectIntent returns the first intent whose trigger list has a substring
// match in the lower-cased query, or IntentGeneral.
func (a *Analyzer) DetectIntent(q string) Intent {
	lower := strings.ToLower(q)
	for _, rule := range a.intentRules {
		for _, trigger := range rule.Triggers {
			if strings.Contains(lower, trigger) {
				return rule.Intent
			}
		}
	}
	return IntentGeneral
}

// ExtractCompany returns the canonical name of the first company alias found
// in the lower-cased query, or "" when no alias matches.
func (a *Analyzer) ExtractCompany(q string) string {
	lower := strings.ToLower(q)
	for _, alias := range a.companyAliases {
		if strings.Contains(lower, alias.Alias) {
			return alias.Company
		}
	}
	return ""
}

// ExtractYear returns the fiscal-year label of the first year token found in
// the lower-cased query, or "" when the query names no year.
func (a *Analyzer) ExtractYear(q string) string {
	lower := strings.ToLower(q)
	for _, rule := range a.yearRules {
		for _, token := range rule.Tokens {
			if strings.Contains(lower, token) {
				return rule.Label
			}
		}
	}
	return ""
}

// Expansion returns the first n expansion keywords for an intent, joined by
// spaces, for query rewriting.
func Expansion(intent Intent, n int) string {
	kws := ExpansionKeywords[intent]
	if len(kws) > n {
		kws = kws[:n]
	}
	return strings.Join(kws, " ")
}
