package transform

import (
	"golang-market-etl/internal/etl/frame"
	"golang-market-etl/pkg/logger"
)

// NonCurrentAssetsColumn is derived as total_assets - current_assets.
const NonCurrentAssetsColumn = "non_current_assets"

// Term is one operand of a ratio numerator.
type Term struct {
	Column string
	Negate bool
	// ZeroIfMissing makes the term optional: a missing cell, or a column the
	// vendor never reported, counts as 0.
	ZeroIfMissing bool
}

// Ratio is a derived column computed as sum(Numerator) / Denominator.
type Ratio struct {
	Name        string
	Numerator   []Term
	Denominator string
}

// Requires lists the columns whose absence omits the ratio entirely.
func (r Ratio) Requires() []string {
	cols := []string{r.Denominator}
	for _, t := range r.Numerator {
		if !t.ZeroIfMissing {
			cols = append(cols, t.Column)
		}
	}
	return cols
}

func single(col string) []Term {
	return []Term{{Column: col}}
}

// Ratios is the fixed ratio set, in schema order.
var Ratios = []Ratio{
	// liquidity
	{Name: "current_ratio", Numerator: single("current_assets"), Denominator: "current_liabilities"},
	{Name: "quick_ratio", Numerator: []Term{
		{Column: "current_assets"},
		{Column: "inventory", Negate: true, ZeroIfMissing: true},
	}, Denominator: "current_liabilities"},
	{Name: "cash_ratio", Numerator: single("cash_and_equivalents"), Denominator: "current_liabilities"},

	// leverage
	{Name: "debt_to_equity", Numerator: single("total_liabilities"), Denominator: "total_equity"},
	{Name: "debt_ratio", Numerator: single("total_liabilities"), Denominator: "total_assets"},
	{Name: "interest_coverage_ratio", Numerator: single("operating_income_ebit"), Denominator: InterestExpenseColumn},

	// profitability
	{Name: "roa", Numerator: single("net_income"), Denominator: "total_assets"},
	{Name: "roe", Numerator: single("net_income"), Denominator: "total_equity"},
	{Name: "gross_margin", Numerator: single("gross_profit"), Denominator: "revenue"},
	{Name: "net_margin", Numerator: single("net_income"), Denominator: "revenue"},

	// efficiency
	{Name: "asset_turnover", Numerator: single("revenue"), Denominator: "total_assets"},
	{Name: "inventory_turnover", Numerator: single("cogs"), Denominator: "inventory"},
	{Name: "receivables_turnover", Numerator: single("revenue"), Denominator: "accounts_receivable"},
}

// RatioEngine appends derived fundamentals and ratios to normalized statements.
type RatioEngine struct {
	ratios []Ratio
	logger *logger.Logger
}

// NewRatioEngine creates a RatioEngine over the fixed ratio set.
func NewRatioEngine(log *logger.Logger) *RatioEngine {
	return &RatioEngine{ratios: Ratios, logger: log}
}

// Apply adds non_current_assets and every ratio whose inputs exist in f.
// Existing columns are never modified. It returns the names of omitted ratios.
func (e *RatioEngine) Apply(f *frame.Frame) []string {
	// Missing operands default to 0 here, unlike ratios which omit or null.
	defaulted := 0
	f.Set(NonCurrentAssetsColumn, func(row frame.Row) interface{} {
		total, totalOK := floatCell(row, "total_assets")
		current, currentOK := floatCell(row, "current_assets")
		if !totalOK || !currentOK {
			defaulted++
		}
		return total - current
	})
	if defaulted > 0 {
		e.logger.Debug("non_current_assets computed with missing operands as 0", logger.IntField("rows", defaulted))
	}

	var omitted []string
	for _, r := range e.ratios {
		if f.Has(r.Name) {
			continue
		}
		if !hasAll(f, r.Requires()) {
			omitted = append(omitted, r.Name)
			continue
		}
		ratio := r
		f.Set(ratio.Name, func(row frame.Row) interface{} {
			return ratio.compute(row)
		})
	}

	if len(omitted) > 0 {
		e.logger.Info("Ratios omitted, input line items absent", logger.Field("ratios", omitted))
	}
	return omitted
}

// compute returns the ratio value or nil when it is undefined. The denominator
// is checked for zero before dividing.
func (r Ratio) compute(row frame.Row) interface{} {
	den, ok := floatCell(row, r.Denominator)
	if !ok || den == 0 {
		return nil
	}

	var num float64
	for _, t := range r.Numerator {
		v, ok := floatCell(row, t.Column)
		if !ok {
			if !t.ZeroIfMissing {
				return nil
			}
			v = 0
		}
		if t.Negate {
			v = -v
		}
		num += v
	}
	if v := num / den; !isMissing(v) {
		return v
	}
	return nil
}

// floatCell returns a finite float value; ok is false for absent, nil or non-finite cells.
func floatCell(row frame.Row, col string) (float64, bool) {
	v, ok := row[col].(float64)
	if !ok || isMissing(v) {
		return 0, false
	}
	return v, true
}

func hasAll(f *frame.Frame, cols []string) bool {
	for _, c := range cols {
		if !f.Has(c) {
			return false
		}
	}
	return true
}
