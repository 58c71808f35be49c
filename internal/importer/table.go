package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/movement"
)

// Profile describes the column layout of one statement export. A profile
// either has a single signed AmountCol or a DebitCol/CreditCol pair.
type Profile struct {
	Name      string
	DateCol   string
	DescCol   string
	AmountCol string
	DebitCol  string
	CreditCol string
	// DateLayouts are tried in order.
	DateLayouts []string
	// DecimalComma marks "1.234,56" style numbers.
	DecimalComma bool
}

func (p *Profile) split() bool {
	return p.AmountCol == ""
}

func (p *Profile) requiredCols() []string {
	if p.split() {
		return []string{p.DateCol, p.DescCol, p.DebitCol, p.CreditCol}
	}

	return []string{p.DateCol, p.DescCol, p.AmountCol}
}

// TableParser finds the header row of a delimited export by matching it
// against its profiles, then reads every dated row below it.
type TableParser struct {
	bank     Bank
	profiles []Profile
}

// NewTableParser returns a parser for bank. More specific profiles must come
// first so they win over looser ones sharing column names.
func NewTableParser(bank Bank, profiles ...Profile) *TableParser {
	return &TableParser{bank: bank, profiles: profiles}
}

func (t *TableParser) Parse(r io.Reader) ([]movement.CreateParams, error) {
	dec, err := Decode(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(dec)
	reader.Comma = dec.Comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	profile, cols, headerIdx := t.detect(rows)
	if profile == nil {
		names := make([]string, len(t.profiles))
		for i, p := range t.profiles {
			names[i] = p.Name
		}

		return nil, fmt.Errorf("no matching %s format found: expected columns for %s", t.bank, strings.Join(names, ", "))
	}

	return parseRows(profile, cols, rows[headerIdx+1:], headerIdx+1)
}

type colIndex map[string]int

func (t *TableParser) detect(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			if name := strings.TrimSpace(cell); name != "" {
				cols[name] = i
			}
		}

		for i := range t.profiles {
			if cols.hasAll(t.profiles[i].requiredCols()) {
				return &t.profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func (c colIndex) hasAll(names []string) bool {
	for _, name := range names {
		if _, ok := c[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows reads drafts below the header. Rows without a parseable date or a
// non-zero amount are footers and are skipped.
func parseRows(p *Profile, cols colIndex, rows [][]string, headerRow int) ([]movement.CreateParams, error) {
	var drafts []movement.CreateParams

	for i, row := range rows {
		rowNum := headerRow + i + 1

		date, ok := p.parseDate(cellValue(row, cols[p.DateCol]))
		if !ok {
			continue
		}

		desc := cellValue(row, cols[p.DescCol])
		if desc == "" {
			return nil, fmt.Errorf("row %d: missing description", rowNum)
		}

		amount, typ, ok := p.parseAmount(cols, row)
		if !ok {
			continue
		}

		drafts = append(drafts, movement.CreateParams{
			Type:        typ,
			Date:        date,
			Amount:      amount,
			Description: desc,
		})
	}

	return drafts, nil
}

func (p *Profile) parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range p.DateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

func (p *Profile) parseAmount(cols colIndex, row []string) (decimal.Decimal, movement.Type, bool) {
	if !p.split() {
		v, ok := p.number(cellValue(row, cols[p.AmountCol]))
		if !ok {
			return decimal.Zero, "", false
		}

		if v.IsNegative() {
			return v.Neg(), movement.TypeExpense, true
		}

		return v, movement.TypeIncome, true
	}

	if v, ok := p.number(cellValue(row, cols[p.DebitCol])); ok {
		return v.Abs(), movement.TypeExpense, true
	}

	if v, ok := p.number(cellValue(row, cols[p.CreditCol])); ok {
		return v.Abs(), movement.TypeIncome, true
	}

	return decimal.Zero, "", false
}

// number parses a non-zero amount, rounded to cents.
func (p *Profile) number(s string) (decimal.Decimal, bool) {
	if s == "" {
		return decimal.Zero, false
	}

	clean := strings.ReplaceAll(s, " ", "")
	if p.DecimalComma {
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	} else {
		clean = strings.ReplaceAll(clean, ",", "")
	}

	v, err := decimal.NewFromString(clean)
	if err != nil || v.IsZero() {
		return decimal.Zero, false
	}

	return v.Round(2), true
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

// GenericProfiles read a plain export with English headers, ISO dates and
// dot decimals.
var GenericProfiles = []Profile{
	{
		Name:        "split",
		DateCol:     "Date",
		DescCol:     "Description",
		DebitCol:    "Debit",
		CreditCol:   "Credit",
		DateLayouts: []string{time.DateOnly, "02/01/2006"},
	},
	{
		Name:        "signed",
		DateCol:     "Date",
		DescCol:     "Description",
		AmountCol:   "Amount",
		DateLayouts: []string{time.DateOnly, "02/01/2006"},
	},
}
