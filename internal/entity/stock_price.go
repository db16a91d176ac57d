package entity

import (
	"github.com/guregu/null/v6"
	"gorm.io/datatypes"
)

// StockPrice is one daily OHLCV bar, unique by (Ticker, Date).
type StockPrice struct {
	ID       uint           `gorm:"primaryKey" json:"id"`
	Ticker   string         `gorm:"column:ticker;size:16;not null;uniqueIndex:idx_stock_prices_ticker_date,priority:1" json:"ticker"`
	Date     datatypes.Date `gorm:"column:date;not null;uniqueIndex:idx_stock_prices_ticker_date,priority:2" json:"date"`
	Open     null.Float     `gorm:"column:open" json:"open"`
	High     null.Float     `gorm:"column:high" json:"high"`
	Low      null.Float     `gorm:"column:low" json:"low"`
	Close    null.Float     `gorm:"column:close" json:"close"`
	AdjClose null.Float     `gorm:"column:adj_close" json:"adj_close"`
	Volume   null.Int       `gorm:"column:volume" json:"volume"`
}

// TableName specifies the table name for the StockPrice model.
func (StockPrice) TableName() string {
	return "stock_prices"
}

// StockPriceKeys is the unique key of the stock_prices table.
var StockPriceKeys = []string{"ticker", "date"}

// StockPriceColumns is the canonical column set of a price bar.
var StockPriceColumns = []string{
	"ticker", "date", "open", "high", "low", "close", "adj_close", "volume",
}
