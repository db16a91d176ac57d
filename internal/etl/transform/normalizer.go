package transform

import (
	"errors"
	"time"

	"golang-market-etl/internal/entity"
	"golang-market-etl/internal/etl/frame"
	"golang-market-etl/pkg/common"
	"golang-market-etl/pkg/logger"
)

// InterestExpenseColumn feeds interest_coverage_ratio but is not stored.
const InterestExpenseColumn = "interest_expense"

var companyRenames = map[string]string{
	"Ticker":              "ticker",
	"symbol":              "ticker",
	"longName":            "name",
	"Name":                "name",
	"Sector":              "sector",
	"Industry":            "industry",
	"Country":             "country",
	"Website":             "website",
	"longBusinessSummary": "description",
	"Description":         "description",
	"Currency":            "currency",
}

var priceRenames = map[string]string{
	"Date":      "date",
	"Open":      "open",
	"High":      "high",
	"Low":       "low",
	"Close":     "close",
	"Adj Close": "adj_close",
	"Volume":    "volume",
	"Ticker":    "ticker",
}

var financialRenames = map[string]string{
	"Date":                                    "report_date",
	"Ticker":                                  "ticker",
	"Total Revenue":                           "revenue",
	"Cost Of Revenue":                         "cogs",
	"Gross Profit":                            "gross_profit",
	"Total Operating Expenses":                "opex",
	"Operating Income":                        "operating_income_ebit",
	"Pretax Income":                           "ebt",
	"Net Income":                              "net_income",
	"EBITDA":                                  "ebitda",
	"Basic EPS":                               "basic_eps",
	"Diluted EPS":                             "diluted_eps",
	"Total Assets":                            "total_assets",
	"Current Assets":                          "current_assets",
	"Cash And Cash Equivalents":               "cash_and_equivalents",
	"Net Receivables":                         "accounts_receivable",
	"Inventory":                               "inventory",
	"Total Liabilities Net Minority Interest": "total_liabilities",
	"Current Liabilities":                     "current_liabilities",
	"Accounts Payable":                        "accounts_payable",
	"Current Debt":                            "short_term_debt",
	"Long Term Debt":                          "long_term_debt",
	"Stockholders Equity":                     "total_equity",
	"Common Stock":                            "common_stock",
	"Retained Earnings":                       "retained_earnings",
	"Interest Expense":                        InterestExpenseColumn,
}

var priceNumeric = []string{"open", "high", "low", "close", "adj_close"}

// NormalizeStats counts what happened to the rows of one entity.
type NormalizeStats struct {
	Input      int
	Dropped    int // missing ticker or date
	Invalid    int // cast failures
	Duplicates int
	Output     int
}

// Normalizer maps vendor tables onto the canonical schema of each entity.
type Normalizer struct {
	now    func() time.Time
	logger *logger.Logger
}

// NewNormalizer creates a Normalizer. now stamps companies.last_updated.
func NewNormalizer(log *logger.Logger, now func() time.Time) *Normalizer {
	if now == nil {
		now = time.Now
	}
	return &Normalizer{now: now, logger: log}
}

// Companies normalizes raw company profiles.
func (n *Normalizer) Companies(f *frame.Frame) (*frame.Frame, NormalizeStats, error) {
	stats := NormalizeStats{Input: f.Len()}
	if f.Len() == 0 {
		return frame.New(entity.CompanyColumns, nil), stats, nil
	}

	f.Rename(companyRenames)
	if err := requireColumns(common.EntityCompanies, f, "ticker"); err != nil {
		return nil, stats, err
	}
	fillMissingColumns(f, entity.CompanyColumns, nil)

	updatedAt := n.now().UTC()
	n.eachRow(common.EntityCompanies, f, &stats, func(row frame.Row) (bool, error) {
		for _, col := range entity.CompanyColumns {
			if col == "last_updated" {
				continue
			}
			row[col] = parseString(row[col])
		}
		if row["ticker"] == nil {
			return false, nil
		}
		for _, col := range []string{"website", "description"} {
			if row[col] == nil {
				row[col] = ""
			}
		}
		row["last_updated"] = updatedAt
		return true, nil
	})

	stats.Duplicates = f.DedupeBy(false, entity.CompanyKeys...)
	out := f.Select(entity.CompanyColumns...)
	stats.Output = out.Len()
	n.logStats(common.EntityCompanies, stats)
	return out, stats, nil
}

// Prices normalizes raw daily bars. A missing adj_close column is synthesized
// from close; dates are UTC calendar dates.
func (n *Normalizer) Prices(f *frame.Frame) (*frame.Frame, NormalizeStats, error) {
	stats := NormalizeStats{Input: f.Len()}
	if f.Len() == 0 {
		return frame.New(entity.StockPriceColumns, nil), stats, nil
	}

	f.Rename(priceRenames)
	if err := requireColumns(common.EntityStockPrices, f, entity.StockPriceKeys...); err != nil {
		return nil, stats, err
	}
	synthesizeAdjClose := !f.Has("adj_close")
	fillMissingColumns(f, entity.StockPriceColumns, nil)

	n.eachRow(common.EntityStockPrices, f, &stats, func(row frame.Row) (bool, error) {
		row["ticker"] = parseString(row["ticker"])
		date, ok := parseDate(row["date"])
		if row["ticker"] == nil || !ok {
			return false, nil
		}
		row["date"] = date

		if err := castFloats(row, priceNumeric); err != nil {
			return false, err
		}
		if synthesizeAdjClose {
			row["adj_close"] = row["close"]
		}

		volume, err := parseVolume(row["volume"])
		if err != nil {
			return false, &ComputationError{Column: "volume", Err: err}
		}
		row["volume"] = volume
		return true, nil
	})

	stats.Duplicates = f.DedupeBy(false, entity.StockPriceKeys...)
	out := f.Select(entity.StockPriceColumns...)
	stats.Output = out.Len()
	n.logStats(common.EntityStockPrices, stats)
	return out, stats, nil
}

// Financials normalizes raw annual statements. Only line items the vendor
// schema actually carries are emitted, plus interest_expense when present.
func (n *Normalizer) Financials(f *frame.Frame) (*frame.Frame, NormalizeStats, error) {
	stats := NormalizeStats{Input: f.Len()}
	if f.Len() == 0 {
		return frame.New(entity.FinancialStatementKeys, nil), stats, nil
	}

	f.Rename(financialRenames)
	if err := requireColumns(common.EntityFinancialStatements, f, "ticker", "report_date"); err != nil {
		return nil, stats, err
	}
	f.Set("period", func(frame.Row) interface{} { return entity.PeriodAnnual })

	numeric := financialInputColumns()
	n.eachRow(common.EntityFinancialStatements, f, &stats, func(row frame.Row) (bool, error) {
		row["ticker"] = parseString(row["ticker"])
		date, ok := parseDate(row["report_date"])
		if row["ticker"] == nil || !ok {
			return false, nil
		}
		row["report_date"] = date
		return true, castFloats(row, numeric)
	})

	stats.Duplicates = f.DedupeBy(true, entity.FinancialStatementKeys...)
	out := f.Select(append(append([]string{}, entity.FinancialStatementKeys...), numeric...)...)
	stats.Output = out.Len()
	n.logStats(common.EntityFinancialStatements, stats)
	return out, stats, nil
}

// financialInputColumns lists the vendor-sourced numeric columns; the derived
// non_current_assets is excluded.
func financialInputColumns() []string {
	cols := make([]string, 0, len(entity.FinancialLineItems))
	for _, c := range entity.FinancialLineItems {
		if c != NonCurrentAssetsColumn {
			cols = append(cols, c)
		}
	}
	return append(cols, InterestExpenseColumn)
}

// eachRow applies fn to every row. Rows for which fn returns false are
// dropped; rows failing with a ComputationError are skipped and logged.
func (n *Normalizer) eachRow(entityName string, f *frame.Frame, stats *NormalizeStats, fn func(frame.Row) (bool, error)) {
	idx := -1
	f.Filter(func(row frame.Row) bool {
		idx++
		keep, err := fn(row)
		if err != nil {
			var ce *ComputationError
			if !errors.As(err, &ce) {
				ce = &ComputationError{Err: err}
			}
			ce.Entity, ce.Row = entityName, idx
			stats.Invalid++
			n.logger.Warn("Skipping row with invalid value", logger.ErrorField(ce))
			return false
		}
		if !keep {
			stats.Dropped++
		}
		return keep
	})
}

func (n *Normalizer) logStats(entityName string, stats NormalizeStats) {
	n.logger.Info("Normalized records",
		logger.StringField("entity", entityName),
		logger.IntField("input", stats.Input),
		logger.IntField("dropped", stats.Dropped),
		logger.IntField("invalid", stats.Invalid),
		logger.IntField("duplicates", stats.Duplicates),
		logger.IntField("output", stats.Output))
}

func requireColumns(entityName string, f *frame.Frame, cols ...string) error {
	for _, c := range cols {
		if !f.Has(c) {
			return &SchemaError{Entity: entityName, Column: c}
		}
	}
	return nil
}

func fillMissingColumns(f *frame.Frame, cols []string, value interface{}) {
	for _, c := range cols {
		if !f.Has(c) {
			f.Set(c, func(frame.Row) interface{} { return value })
		}
	}
}

// ProjectFinancials keeps only stored statement columns, dropping inputs such
// as interest_expense that exist only to derive ratios.
func ProjectFinancials(f *frame.Frame) *frame.Frame {
	return f.Select(entity.FinancialStatementColumns()...)
}
