package repository

import (
	"context"

	"golang-market-etl/internal/entity"

	"gorm.io/gorm"
)

// MarketRepository defines the read operations over loaded market data.
type MarketRepository interface {
	FindCompanies(ctx context.Context) ([]entity.Company, error)
	FindStockPrices(ctx context.Context, ticker string, limit int) ([]entity.StockPrice, error)
	FindFinancialStatements(ctx context.Context, ticker string) ([]entity.FinancialStatement, error)
	FindRuns(ctx context.Context, limit int) ([]entity.PipelineRun, error)
}

// NewMarketRepository creates a new GORM-based market repository.
func NewMarketRepository(db *gorm.DB) MarketRepository {
	return &marketRepository{db: db}
}

type marketRepository struct {
	db *gorm.DB
}

// FindCompanies retrieves all companies ordered by ticker.
func (r *marketRepository) FindCompanies(ctx context.Context) ([]entity.Company, error) {
	var companies []entity.Company
	if err := r.db.WithContext(ctx).Order("ticker").Find(&companies).Error; err != nil {
		return nil, err
	}
	return companies, nil
}

// FindStockPrices retrieves the latest bars of a ticker, newest first.
func (r *marketRepository) FindStockPrices(ctx context.Context, ticker string, limit int) ([]entity.StockPrice, error) {
	var prices []entity.StockPrice
	err := r.db.WithContext(ctx).
		Where("ticker = ?", ticker).
		Order("date desc").
		Limit(limit).
		Find(&prices).Error
	if err != nil {
		return nil, err
	}
	return prices, nil
}

// FindFinancialStatements retrieves the reports of a ticker, latest first.
func (r *marketRepository) FindFinancialStatements(ctx context.Context, ticker string) ([]entity.FinancialStatement, error) {
	var statements []entity.FinancialStatement
	err := r.db.WithContext(ctx).
		Where("ticker = ?", ticker).
		Order("report_date desc").
		Find(&statements).Error
	if err != nil {
		return nil, err
	}
	return statements, nil
}

// FindRuns retrieves the most recent pipeline runs, newest first.
func (r *marketRepository) FindRuns(ctx context.Context, limit int) ([]entity.PipelineRun, error) {
	var runs []entity.PipelineRun
	if err := r.db.WithContext(ctx).Order("started_at desc").Limit(limit).Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}
