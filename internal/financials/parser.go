package financials

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// dataSheetName is the single sheet the screener-format workbooks carry.
const dataSheetName = "Data Sheet"

// Statement holds one financial statement's period labels and metric rows.
// Values are position-aligned to Dates; nil marks an empty cell.
type Statement struct {
	Dates []string
	Rows  map[string][]*float64
}

// Meta carries the workbook header rows. Captured but not used by chunk
// generation.
type Meta struct {
	Company      string
	CurrentPrice *float64
	MarketCap    *float64
}

// Workbook is the parsed form of one company's financial spreadsheet.
type Workbook struct {
	Meta         Meta
	ProfitLoss   Statement
	Quarterly    Statement
	BalanceSheet Statement
	CashFlow     Statement
}

func newStatement() Statement {
	return Statement{Rows: make(map[string][]*float64)}
}

// rows whose label is a sub-header rather than a metric.
var skipLabels = map[string]struct{}{
	"META": {}, "DERIVED:": {}, "PRICE:": {},
}

// ParseWorkbook reads a screener-format Excel workbook into structured
// statements. A row whose first cell matches a statement header switches the
// current statement; "Report Date" rows capture its period labels; any other
// labeled row under an active statement is a metric series.
func ParseWorkbook(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	if idx, err := f.GetSheetIndex(dataSheetName); err != nil || idx < 0 {
		return nil, fmt.Errorf("workbook %s has no %q sheet", path, dataSheetName)
	}

	rows, err := f.GetRows(dataSheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read %q sheet: %w", dataSheetName, err)
	}

	wb := &Workbook{
		ProfitLoss:   newStatement(),
		Quarterly:    newStatement(),
		BalanceSheet: newStatement(),
		CashFlow:     newStatement(),
	}

	var current *Statement
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}

		label := strings.TrimSpace(row[0])
		values := row[1:]

		switch strings.ToUpper(label) {
		case "PROFIT & LOSS":
			current = &wb.ProfitLoss
			continue
		case "QUARTERS":
			current = &wb.Quarterly
			continue
		case "BALANCE SHEET":
			current = &wb.BalanceSheet
			continue
		case "CASH FLOW:":
			current = &wb.CashFlow
			continue
		}

		switch label {
		case "COMPANY NAME":
			if len(values) > 0 {
				wb.Meta.Company = strings.TrimSpace(values[0])
			}
			continue
		case "Current Price":
			if len(values) > 0 {
				wb.Meta.CurrentPrice = parseNumber(values[0])
			}
			continue
		case "Market Capitalization":
			if len(values) > 0 {
				wb.Meta.MarketCap = parseNumber(values[0])
			}
			continue
		}

		if label == "Report Date" && current != nil {
			var dates []string
			for _, v := range values {
				if strings.TrimSpace(v) == "" {
					continue
				}
				dates = append(dates, formatPeriod(v))
			}
			current.Dates = dates
			continue
		}

		if current != nil && label != "" {
			if _, skip := skipLabels[label]; skip {
				continue
			}
			series := make([]*float64, len(values))
			for i, v := range values {
				series[i] = parseNumber(v)
			}
			current.Rows[label] = series
		}
	}

	return wb, nil
}

// parseNumber converts a raw cell value. Blank or non-numeric cells yield nil.
func parseNumber(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

// formatPeriod turns a raw Report Date cell into a fiscal-period label.
// Indian fiscal years run April through March, so a date in March 2025 is
// FY2024-25; June, September, and December month-ends are Q1, Q2, and Q3,
// with December rolling into the next fiscal year.
func formatPeriod(raw string) string {
	raw = strings.TrimSpace(raw)

	t, ok := parseCellDate(raw)
	if !ok {
		return raw
	}

	year := t.Year()
	switch t.Month() {
	case time.March:
		return fmt.Sprintf("FY%d-%02d", year-1, year%100)
	case time.June:
		return fmt.Sprintf("Q1 FY%d-%02d", year-1, year%100)
	case time.September:
		return fmt.Sprintf("Q2 FY%d-%02d", year-1, year%100)
	case time.December:
		return fmt.Sprintf("Q3 FY%d-%02d", year, (year+1)%100)
	default:
		return strconv.Itoa(year)
	}
}

// parseCellDate handles both Excel date serials (raw cell mode) and the
// common ISO layouts that show up when a sheet stores dates as text.
func parseCellDate(raw string) (time.Time, bool) {
	if serial, err := strconv.ParseFloat(raw, 64); err == nil && serial > 20000 {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return t, true
		}
	}
	for _, layout := range []string{"2006-01-02", "2006-01-02 15:04:05", "01-02-06", "1/2/2006"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
