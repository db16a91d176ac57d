package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm/clause"
)

func TestConflictPolicyUpdateColumns(t *testing.T) {
	keys := []string{"ticker", "date"}
	loaded := []string{"ticker", "date", "name", "close", "description"}

	assert.Nil(t, PreserveExisting().UpdateColumns(keys, loaded))
	assert.Equal(t, []string{"name", "close", "description"}, OverwriteAll().UpdateColumns(keys, loaded))
	assert.Equal(t, []string{"name", "description"},
		OverwritePartial("name", "description", "last_updated", "ticker").UpdateColumns(keys, loaded))
}

func TestConflictPolicyClause(t *testing.T) {
	keys := []string{"ticker"}

	preserve := PreserveExisting().Clause(keys, []string{"ticker", "name"})
	assert.True(t, preserve.DoNothing)
	assert.Equal(t, []clause.Column{{Name: "ticker"}}, preserve.Columns)

	overwrite := OverwriteAll().Clause(keys, []string{"ticker", "name"})
	assert.False(t, overwrite.DoNothing)
	assert.Equal(t, clause.AssignmentColumns([]string{"name"}), overwrite.DoUpdates)

	// nothing left to update degrades to do-nothing
	keysOnly := OverwriteAll().Clause(keys, []string{"ticker"})
	assert.True(t, keysOnly.DoNothing)
}

func TestTargetFor(t *testing.T) {
	for _, name := range []string{"companies", "stock_prices", "financial_statements"} {
		target, err := TargetFor(name)
		assert.NoError(t, err)
		assert.Equal(t, name, target.Entity)
	}

	_, err := TargetFor("dividends")
	assert.Error(t, err)
}

func TestTargetWriteColumns(t *testing.T) {
	loaded := []string{"ticker", "report_date", "period", "revenue"}

	statements := FinancialStatementTarget()
	assert.Equal(t, statements.Columns, statements.WriteColumns(loaded))
	assert.Contains(t, statements.WriteColumns(loaded), "inventory_turnover")

	assert.Equal(t, loaded, StockPriceTarget().WriteColumns(loaded))
	assert.Equal(t, loaded, CompanyTarget().WriteColumns(loaded))
}
