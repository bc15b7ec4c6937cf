package financials

import (
	"fmt"
	"strings"

	"finsight/internal/chunk"
)

// Section labels for financial-data chunks.
const (
	SectionProfitLoss   = "Profit & Loss"
	SectionQuarterly    = "Quarterly Results"
	SectionBalanceSheet = "Balance Sheet"
	SectionCashFlow     = "Cash Flow"
)

const (
	recentYears    = 5
	recentQuarters = 8
)

var (
	plMetrics = []string{
		"Sales", "Net profit", "Profit before tax", "Interest",
		"Employee Cost", "Depreciation", "Tax",
	}
	quarterlyMetrics = []string{
		"Sales", "Net profit", "Profit before tax",
		"Operating Profit", "Interest", "Expenses",
	}
	bsMetrics = []string{
		"Equity Share Capital", "Reserves", "Borrowings",
		"Total", "Investments", "Cash & Bank", "Other Assets",
		"Return on Equity", "Return on Capital Emp",
	}
	cfMetrics = []string{
		"Cash from Operating Activity", "Cash from Investing Activity",
		"Cash from Financing Activity", "Net Cash Flow",
	}
	// Balance-sheet ratios render as percentages rather than crore.
	ratioMetrics = map[string]struct{}{
		"Return on Equity":      {},
		"Return on Capital Emp": {},
	}
	latestQuarterMetrics = []string{"Sales", "Net profit", "Operating Profit"}
)

// IngestWorkbook parses a financial workbook and renders it into
// narrative chunks across the four statement categories.
func IngestWorkbook(path, company string) ([]chunk.Chunk, error) {
	wb, err := ParseWorkbook(path)
	if err != nil {
		return nil, err
	}

	var chunks []chunk.Chunk
	chunks = append(chunks, ProfitLossChunks(wb, company)...)
	chunks = append(chunks, QuarterlyChunks(wb, company)...)
	chunks = append(chunks, BalanceSheetChunks(wb, company)...)
	chunks = append(chunks, CashFlowChunks(wb, company)...)
	return chunks, nil
}

// ProfitLossChunks emits one multi-year summary chunk plus one detailed
// chunk per recent fiscal year.
func ProfitLossChunks(wb *Workbook, company string) []chunk.Chunk {
	st := wb.ProfitLoss
	if len(st.Dates) == 0 {
		return nil
	}

	recentDates, recentIdx := tail(st.Dates, recentYears)

	var chunks []chunk.Chunk

	// Multi-year summary
	lines := []string{
		fmt.Sprintf("%s — Annual Profit & Loss Summary (₹ Crore)\n", company),
		fmt.Sprintf("Years covered: %s\n", strings.Join(recentDates, ", ")),
	}
	for _, metric := range plMetrics {
		series, ok := st.Rows[metric]
		if !ok {
			continue
		}
		vals := dropNils(sliceFrom(series, recentIdx))
		if len(vals) == 0 {
			continue
		}
		rowDates := tailDates(recentDates, len(vals))

		lines = append(lines, fmt.Sprintf("%s: %s", metric, joinValues(rowDates, vals)))
		if len(vals) >= 2 {
			if chg := PctChange(vals[len(vals)-1], vals[len(vals)-2]); chg != "" {
				lines = append(lines, fmt.Sprintf("  → %s was %s YoY in %s", metric, chg, rowDates[len(rowDates)-1]))
			}
		}
	}
	chunks = append(chunks, chunk.Chunk{
		Content: strings.Join(lines, "\n"),
		Meta: chunk.Metadata{
			Company:    company,
			Year:       chunk.YearMultiYear,
			DocType:    chunk.DocTypeFinancial,
			Section:    SectionProfitLoss,
			ChunkIndex: 0,
		},
	})

	// Per-year detail
	for i, date := range recentDates {
		actualIdx := recentIdx + i
		lines := []string{fmt.Sprintf("%s — Profit & Loss for %s (₹ Crore)\n", company, date)}

		for _, metric := range plMetrics {
			series, ok := st.Rows[metric]
			if !ok || actualIdx >= len(series) || series[actualIdx] == nil {
				continue
			}
			val := series[actualIdx]
			var prev *float64
			if actualIdx > 0 {
				prev = series[actualIdx-1]
			}
			suffix := ""
			if prev != nil && *prev != 0 {
				if chg := PctChange(val, prev); chg != "" {
					suffix = fmt.Sprintf(" (%s YoY)", chg)
				}
			}
			lines = append(lines, fmt.Sprintf("• %s: %s%s", metric, FormatCrore(val), suffix))
		}

		sales, hasSales := st.Rows["Sales"]
		net, hasNet := st.Rows["Net profit"]
		if hasSales && hasNet && actualIdx < len(sales) && sales[actualIdx] != nil && *sales[actualIdx] != 0 {
			margin := 0.0
			if actualIdx < len(net) && net[actualIdx] != nil {
				margin = *net[actualIdx] / *sales[actualIdx] * 100
			}
			lines = append(lines, fmt.Sprintf("• Net Profit Margin: %.1f%%", margin))
		}

		chunks = append(chunks, chunk.Chunk{
			Content: strings.Join(lines, "\n"),
			Meta: chunk.Metadata{
				Company:    company,
				Year:       date,
				DocType:    chunk.DocTypeFinancial,
				Section:    SectionProfitLoss,
				ChunkIndex: i + 1,
			},
		})
	}

	return chunks
}

// QuarterlyChunks emits one chunk spanning the most recent eight quarters
// with a latest-quarter highlight comparing against the same quarter a year
// earlier.
func QuarterlyChunks(wb *Workbook, company string) []chunk.Chunk {
	st := wb.Quarterly
	if len(st.Dates) == 0 {
		return nil
	}

	recentDates, recentIdx := tail(st.Dates, recentQuarters)

	lines := []string{
		fmt.Sprintf("%s — Quarterly Financial Data (₹ Crore)\n", company),
		fmt.Sprintf("Quarters: %s\n", strings.Join(recentDates, ", ")),
	}
	for _, metric := range quarterlyMetrics {
		series, ok := st.Rows[metric]
		if !ok {
			continue
		}
		vals := dropNils(sliceFrom(series, recentIdx))
		if len(vals) == 0 {
			continue
		}
		rowDates := tailDates(recentDates, len(vals))
		lines = append(lines, fmt.Sprintf("%s: %s", metric, joinValues(rowDates, vals)))
	}

	lastQ := recentDates[len(recentDates)-1]
	lines = append(lines, fmt.Sprintf("\nLatest Quarter (%s) highlights:", lastQ))
	for _, metric := range latestQuarterMetrics {
		series, ok := st.Rows[metric]
		if !ok || len(series) == 0 || series[len(series)-1] == nil {
			continue
		}
		latest := series[len(series)-1]
		// Four quarters back is the same quarter last year
		var prior *float64
		if len(series) >= 5 {
			prior = series[len(series)-5]
		}
		suffix := ""
		if prior != nil && *prior != 0 {
			if chg := PctChange(latest, prior); chg != "" {
				suffix = fmt.Sprintf(" (%s vs same quarter last year)", chg)
			}
		}
		lines = append(lines, fmt.Sprintf("• %s: %s%s", metric, FormatCrore(latest), suffix))
	}

	return []chunk.Chunk{{
		Content: strings.Join(lines, "\n"),
		Meta: chunk.Metadata{
			Company:    company,
			Year:       chunk.YearQuarterly,
			DocType:    chunk.DocTypeFinancial,
			Section:    SectionQuarterly,
			ChunkIndex: 0,
		},
	}}
}

// BalanceSheetChunks emits one multi-year summary chunk. Return ratios
// render as percentages, everything else as crore.
func BalanceSheetChunks(wb *Workbook, company string) []chunk.Chunk {
	st := wb.BalanceSheet
	if len(st.Dates) == 0 {
		return nil
	}

	recentDates, recentIdx := tail(st.Dates, recentYears)

	lines := []string{
		fmt.Sprintf("%s — Balance Sheet Summary (₹ Crore)\n", company),
		fmt.Sprintf("Years: %s\n", strings.Join(recentDates, ", ")),
	}
	for _, metric := range bsMetrics {
		series, ok := st.Rows[metric]
		if !ok {
			continue
		}
		vals := dropNils(sliceFrom(series, recentIdx))
		if len(vals) == 0 {
			continue
		}
		rowDates := tailDates(recentDates, len(vals))

		if _, isRatio := ratioMetrics[metric]; isRatio {
			n := len(vals)
			if len(rowDates) < n {
				n = len(rowDates)
			}
			parts := make([]string, 0, n)
			for i := 0; i < n; i++ {
				if v := vals[i]; v != nil && *v != 0 {
					parts = append(parts, fmt.Sprintf("%s: %.1f%%", rowDates[i], *v))
				} else {
					parts = append(parts, fmt.Sprintf("%s: N/A", rowDates[i]))
				}
			}
			lines = append(lines, fmt.Sprintf("%s: %s", metric, strings.Join(parts, " | ")))
		} else {
			lines = append(lines, fmt.Sprintf("%s: %s", metric, joinValues(rowDates, vals)))
		}

		if len(vals) >= 2 {
			if chg := PctChange(vals[len(vals)-1], vals[len(vals)-2]); chg != "" {
				lines = append(lines, fmt.Sprintf("  → %s %s YoY in %s", metric, chg, rowDates[len(rowDates)-1]))
			}
		}
	}

	return []chunk.Chunk{{
		Content: strings.Join(lines, "\n"),
		Meta: chunk.Metadata{
			Company:    company,
			Year:       chunk.YearMultiYear,
			DocType:    chunk.DocTypeFinancial,
			Section:    SectionBalanceSheet,
			ChunkIndex: 0,
		},
	}}
}

// CashFlowChunks emits one multi-year summary chunk.
func CashFlowChunks(wb *Workbook, company string) []chunk.Chunk {
	st := wb.CashFlow
	if len(st.Dates) == 0 {
		return nil
	}

	recentDates, recentIdx := tail(st.Dates, recentYears)

	lines := []string{
		fmt.Sprintf("%s — Cash Flow Summary (₹ Crore)\n", company),
		fmt.Sprintf("Years: %s\n", strings.Join(recentDates, ", ")),
	}
	for _, metric := range cfMetrics {
		series, ok := st.Rows[metric]
		if !ok {
			continue
		}
		vals := dropNils(sliceFrom(series, recentIdx))
		if len(vals) == 0 {
			continue
		}
		rowDates := tailDates(recentDates, len(vals))
		lines = append(lines, fmt.Sprintf("%s: %s", metric, joinValues(rowDates, vals)))
	}

	return []chunk.Chunk{{
		Content: strings.Join(lines, "\n"),
		Meta: chunk.Metadata{
			Company:    company,
			Year:       chunk.YearMultiYear,
			DocType:    chunk.DocTypeFinancial,
			Section:    SectionCashFlow,
			ChunkIndex: 0,
		},
	}}
}

// tail returns the last n dates plus the offset of the first returned date
// in the original slice.
func tail(dates []string, n int) ([]string, int) {
	idx := len(dates) - n
	if idx < 0 {
		idx = 0
	}
	return dates[idx:], idx
}

// tailDates aligns trailing values to trailing dates after nil filtering.
func tailDates(dates []string, n int) []string {
	if n >= len(dates) {
		return dates
	}
	return dates[len(dates)-n:]
}

func sliceFrom(series []*float64, idx int) []*float64 {
	if idx >= len(series) {
		return nil
	}
	return series[idx:]
}

func dropNils(series []*float64) []*float64 {
	var out []*float64
	for _, v := range series {
		if v != nil {
			out = append(out, v)
		}
	}
	return out
}

// joinValues pairs dates with values, truncating to the shorter of the two.
func joinValues(dates []string, vals []*float64) string {
	n := len(vals)
	if len(dates) < n {
		n = len(dates)
	}
	parts := make([]string, 0, n)
	for i := 0; i < n; i++ {
		parts = append(parts, fmt.Sprintf("%s: %s", dates[i], FormatCrore(vals[i])))
	}
	return strings.Join(parts, " | ")
}
