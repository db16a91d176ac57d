package repository

import (
	"fmt"

	"golang-market-etl/internal/entity"
	"golang-market-etl/pkg/common"
)

// Target describes where and how one entity is stored.
type Target struct {
	Entity  string
	Model   interface{}
	Keys    []string
	Policy  ConflictPolicy
	// Columns is the stored column set. An OverwriteAll load writes all of
	// them, so a restated record never keeps values from an older version.
	Columns []string
}

// WriteColumns returns the columns a load of a frame with loaded columns
// writes. Columns missing from the frame are written as NULL.
func (t Target) WriteColumns(loaded []string) []string {
	if t.Policy.kind != overwriteAll || len(t.Columns) == 0 {
		return loaded
	}
	return t.Columns
}

// CompanyTarget refreshes name, description and last_updated of known companies
// and leaves every other stored column alone.
func CompanyTarget() Target {
	return Target{
		Entity: common.EntityCompanies,
		Model:  &entity.Company{},
		Keys:   entity.CompanyKeys,
		Policy: OverwritePartial(entity.CompanyRefreshColumns...),
	}
}

// StockPriceTarget never rewrites a stored bar.
func StockPriceTarget() Target {
	return Target{
		Entity: common.EntityStockPrices,
		Model:  &entity.StockPrice{},
		Keys:   entity.StockPriceKeys,
		Policy: PreserveExisting(),
	}
}

// FinancialStatementTarget replaces restated reports with the latest values.
// Line items and ratios absent from a load are cleared.
func FinancialStatementTarget() Target {
	return Target{
		Entity:  common.EntityFinancialStatements,
		Model:   &entity.FinancialStatement{},
		Keys:    entity.FinancialStatementKeys,
		Policy:  OverwriteAll(),
		Columns: entity.FinancialStatementColumns(),
	}
}

// TargetFor returns the target of a known entity name.
func TargetFor(entityName string) (Target, error) {
	switch entityName {
	case common.EntityCompanies:
		return CompanyTarget(), nil
	case common.EntityStockPrices:
		return StockPriceTarget(), nil
	case common.EntityFinancialStatements:
		return FinancialStatementTarget(), nil
	default:
		return Target{}, fmt.Errorf("unknown entity %q", entityName)
	}
}
