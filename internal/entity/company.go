package entity

import (
	"time"

	"github.com/guregu/null/v6"
)

// Company is a listed company profile, unique by Ticker.
type Company struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Ticker      string      `gorm:"column:ticker;size:16;not null;uniqueIndex:idx_companies_ticker" json:"ticker"`
	Name        null.String `gorm:"column:name;size:255" json:"name"`
	Sector      null.String `gorm:"column:sector;size:128" json:"sector"`
	Industry    null.String `gorm:"column:industry;size:128" json:"industry"`
	Country     null.String `gorm:"column:country;size:64" json:"country"`
	Website     null.String `gorm:"column:website;size:255" json:"website"`
	Description null.String `gorm:"column:description;type:text" json:"description"`
	Currency    null.String `gorm:"column:currency;size:8" json:"currency"`
	LastUpdated time.Time   `gorm:"column:last_updated;not null" json:"last_updated"`
}

// TableName specifies the table name for the Company model.
func (Company) TableName() string {
	return "companies"
}

// CompanyKeys is the unique key of the companies table.
var CompanyKeys = []string{"ticker"}

// CompanyColumns is the canonical column set of a company record.
var CompanyColumns = []string{
	"ticker", "name", "sector", "industry", "country",
	"website", "description", "currency", "last_updated",
}

// CompanyRefreshColumns are the only columns a repeated company load may overwrite.
var CompanyRefreshColumns = []string{"name", "description", "last_updated"}
