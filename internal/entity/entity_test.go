package entity

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

func parseSchema(t *testing.T, model interface{}) *schema.Schema {
	t.Helper()
	s, err := schema.Parse(model, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)
	return s
}

func TestColumnsMatchModels(t *testing.T) {
	cases := []struct {
		model   interface{}
		table   string
		columns []string
		keys    []string
	}{
		{&Company{}, "companies", CompanyColumns, CompanyKeys},
		{&StockPrice{}, "stock_prices", StockPriceColumns, StockPriceKeys},
		{&FinancialStatement{}, "financial_statements", FinancialStatementColumns(), FinancialStatementKeys},
	}

	for _, tc := range cases {
		t.Run(tc.table, func(t *testing.T) {
			s := parseSchema(t, tc.model)
			assert.Equal(t, tc.table, s.Table)
			for _, col := range tc.columns {
				assert.NotNil(t, s.LookUpField(col), "missing column %s", col)
			}
			for _, key := range tc.keys {
				assert.Contains(t, tc.columns, key)
			}
		})
	}
}

func TestCompanyRefreshColumnsAreCanonical(t *testing.T) {
	for _, col := range CompanyRefreshColumns {
		assert.Contains(t, CompanyColumns, col)
	}
}

func TestFinancialStatementColumns(t *testing.T) {
	cols := FinancialStatementColumns()
	assert.Len(t, cols, 3+24+13)
	assert.Equal(t, []string{"ticker", "report_date", "period"}, cols[:3])
}

func TestFinancialStatementValuesCoverColumns(t *testing.T) {
	values := FinancialStatement{}.Values()

	assert.Len(t, values, len(FinancialLineItems)+len(FinancialRatios))
	for _, col := range append(append([]string{}, FinancialLineItems...), FinancialRatios...) {
		assert.Contains(t, values, col)
	}
}
