package entity

import (
	"github.com/guregu/null/v6"
	"gorm.io/datatypes"
)

// PeriodAnnual is the period literal of annual statements.
const PeriodAnnual = "12M"

// FinancialStatement holds one annual report of a ticker with its derived ratios.
type FinancialStatement struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Ticker     string         `gorm:"column:ticker;size:16;not null;uniqueIndex:idx_financial_statements_key,priority:1" json:"ticker"`
	ReportDate datatypes.Date `gorm:"column:report_date;not null;uniqueIndex:idx_financial_statements_key,priority:2" json:"report_date"`
	Period     string         `gorm:"column:period;size:8;not null;uniqueIndex:idx_financial_statements_key,priority:3" json:"period"`

	// Income statement
	Revenue             null.Float `gorm:"column:revenue" json:"revenue"`
	COGS                null.Float `gorm:"column:cogs" json:"cogs"`
	GrossProfit         null.Float `gorm:"column:gross_profit" json:"gross_profit"`
	Opex                null.Float `gorm:"column:opex" json:"opex"`
	OperatingIncomeEBIT null.Float `gorm:"column:operating_income_ebit" json:"operating_income_ebit"`
	EBT                 null.Float `gorm:"column:ebt" json:"ebt"`
	NetIncome           null.Float `gorm:"column:net_income" json:"net_income"`
	EBITDA              null.Float `gorm:"column:ebitda" json:"ebitda"`
	BasicEPS            null.Float `gorm:"column:basic_eps" json:"basic_eps"`
	DilutedEPS          null.Float `gorm:"column:diluted_eps" json:"diluted_eps"`

	// Balance sheet
	TotalAssets        null.Float `gorm:"column:total_assets" json:"total_assets"`
	CurrentAssets      null.Float `gorm:"column:current_assets" json:"current_assets"`
	CashAndEquivalents null.Float `gorm:"column:cash_and_equivalents" json:"cash_and_equivalents"`
	AccountsReceivable null.Float `gorm:"column:accounts_receivable" json:"accounts_receivable"`
	Inventory          null.Float `gorm:"column:inventory" json:"inventory"`
	NonCurrentAssets   null.Float `gorm:"column:non_current_assets" json:"non_current_assets"`
	TotalLiabilities   null.Float `gorm:"column:total_liabilities" json:"total_liabilities"`
	CurrentLiabilities null.Float `gorm:"column:current_liabilities" json:"current_liabilities"`
	AccountsPayable    null.Float `gorm:"column:accounts_payable" json:"accounts_payable"`
	ShortTermDebt      null.Float `gorm:"column:short_term_debt" json:"short_term_debt"`
	LongTermDebt       null.Float `gorm:"column:long_term_debt" json:"long_term_debt"`
	TotalEquity        null.Float `gorm:"column:total_equity" json:"total_equity"`
	CommonStock        null.Float `gorm:"column:common_stock" json:"common_stock"`
	RetainedEarnings   null.Float `gorm:"column:retained_earnings" json:"retained_earnings"`

	// Ratios
	CurrentRatio          null.Float `gorm:"column:current_ratio" json:"current_ratio"`
	QuickRatio            null.Float `gorm:"column:quick_ratio" json:"quick_ratio"`
	CashRatio             null.Float `gorm:"column:cash_ratio" json:"cash_ratio"`
	DebtToEquity          null.Float `gorm:"column:debt_to_equity" json:"debt_to_equity"`
	DebtRatio             null.Float `gorm:"column:debt_ratio" json:"debt_ratio"`
	InterestCoverageRatio null.Float `gorm:"column:interest_coverage_ratio" json:"interest_coverage_ratio"`
	ROA                   null.Float `gorm:"column:roa" json:"roa"`
	ROE                   null.Float `gorm:"column:roe" json:"roe"`
	GrossMargin           null.Float `gorm:"column:gross_margin" json:"gross_margin"`
	NetMargin             null.Float `gorm:"column:net_margin" json:"net_margin"`
	AssetTurnover         null.Float `gorm:"column:asset_turnover" json:"asset_turnover"`
	InventoryTurnover     null.Float `gorm:"column:inventory_turnover" json:"inventory_turnover"`
	ReceivablesTurnover   null.Float `gorm:"column:receivables_turnover" json:"receivables_turnover"`
}

// TableName specifies the table name for the FinancialStatement model.
func (FinancialStatement) TableName() string {
	return "financial_statements"
}

// FinancialStatementKeys is the unique key of the financial_statements table.
var FinancialStatementKeys = []string{"ticker", "report_date", "period"}

// FinancialLineItems are the raw statement columns, in schema order.
var FinancialLineItems = []string{
	"revenue", "cogs", "gross_profit", "opex", "operating_income_ebit",
	"ebt", "net_income", "ebitda", "basic_eps", "diluted_eps",
	"total_assets", "current_assets", "cash_and_equivalents", "accounts_receivable",
	"inventory", "non_current_assets", "total_liabilities", "current_liabilities",
	"accounts_payable", "short_term_debt", "long_term_debt", "total_equity",
	"common_stock", "retained_earnings",
}

// FinancialRatios are the derived ratio columns, in schema order.
var FinancialRatios = []string{
	"current_ratio", "quick_ratio", "cash_ratio", "debt_to_equity",
	"debt_ratio", "interest_coverage_ratio", "roa", "roe",
	"gross_margin", "net_margin", "asset_turnover", "inventory_turnover", "receivables_turnover",
}

// FinancialStatementColumns is the full canonical column set, keys first.
func FinancialStatementColumns() []string {
	cols := make([]string, 0, len(FinancialStatementKeys)+len(FinancialLineItems)+len(FinancialRatios))
	cols = append(cols, FinancialStatementKeys...)
	cols = append(cols, FinancialLineItems...)
	return append(cols, FinancialRatios...)
}

// Values returns every line item and ratio keyed by column name.
func (s FinancialStatement) Values() map[string]null.Float {
	return map[string]null.Float{
		"revenue":                 s.Revenue,
		"cogs":                    s.COGS,
		"gross_profit":            s.GrossProfit,
		"opex":                    s.Opex,
		"operating_income_ebit":   s.OperatingIncomeEBIT,
		"ebt":                     s.EBT,
		"net_income":              s.NetIncome,
		"ebitda":                  s.EBITDA,
		"basic_eps":               s.BasicEPS,
		"diluted_eps":             s.DilutedEPS,
		"total_assets":            s.TotalAssets,
		"current_assets":          s.CurrentAssets,
		"cash_and_equivalents":    s.CashAndEquivalents,
		"accounts_receivable":     s.AccountsReceivable,
		"inventory":               s.Inventory,
		"non_current_assets":      s.NonCurrentAssets,
		"total_liabilities":       s.TotalLiabilities,
		"current_liabilities":     s.CurrentLiabilities,
		"accounts_payable":        s.AccountsPayable,
		"short_term_debt":         s.ShortTermDebt,
		"long_term_debt":          s.LongTermDebt,
		"total_equity":            s.TotalEquity,
		"common_stock":            s.CommonStock,
		"retained_earnings":       s.RetainedEarnings,
		"current_ratio":           s.CurrentRatio,
		"quick_ratio":             s.QuickRatio,
		"cash_ratio":              s.CashRatio,
		"debt_to_equity":          s.DebtToEquity,
		"debt_ratio":              s.DebtRatio,
		"interest_coverage_ratio": s.InterestCoverageRatio,
		"roa":                     s.ROA,
		"roe":                     s.ROE,
		"gross_margin":            s.GrossMargin,
		"net_margin":              s.NetMargin,
		"asset_turnover":          s.AssetTurnover,
		"inventory_turnover":      s.InventoryTurnover,
		"receivables_turnover":    s.ReceivablesTurnover,
	}
}
