package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"golang-market-etl/internal/entity"
	"golang-market-etl/internal/etl/frame"
	"golang-market-etl/internal/etl/repository"
	"golang-market-etl/internal/etl/source"
	"golang-market-etl/internal/etl/transform"
	"golang-market-etl/pkg/database"
	"golang-market-etl/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type memorySource map[string]func() *frame.Frame

func (m memorySource) Read(_ context.Context, name string) (*frame.Frame, error) {
	build, ok := m[name]
	if !ok {
		return nil, fmt.Errorf("read %s: %w", name, source.ErrSourceNotFound)
	}
	return build(), nil
}

type panicLoader struct {
	repository.Loader
	entity string
}

func (p panicLoader) Load(ctx context.Context, target repository.Target, f *frame.Frame) (repository.LoadResult, error) {
	if target.Entity == p.entity {
		panic("loader exploded")
	}
	return p.Loader.Load(ctx, target, f)
}

type recordingNotifier struct {
	reports []*RunReport
	err     error
}

func (n *recordingNotifier) NotifyRun(_ context.Context, report *RunReport) error {
	n.reports = append(n.reports, report)
	return n.err
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewDB(database.Config{
		Driver:   database.DriverSQLite,
		DBName:   filepath.Join(t.TempDir(), "etl.db"),
		LogLevel: "silent",
	})
	require.NoError(t, err)
	require.NoError(t, db.DB.AutoMigrate(&entity.Company{}, &entity.StockPrice{}, &entity.FinancialStatement{}))
	return db.DB
}

func rawCompanies() *frame.Frame {
	return frame.FromRecords([]string{"ticker", "longName", "sector", "website"}, []map[string]string{
		{"ticker": "AAPL", "longName": "Apple Inc.", "sector": "Technology", "website": "https://www.apple.com"},
	})
}

func rawPrices() *frame.Frame {
	return frame.FromRecords([]string{"Ticker", "Date", "Close"}, []map[string]string{
		{"Ticker": "AAPL", "Date": "2024-01-02T00:00:00-05:00", "Close": "185.0"},
		{"Ticker": "AAPL", "Date": "2024-01-03T00:00:00-05:00", "Close": "184.25"},
	})
}

func rawFinancials() *frame.Frame {
	return frame.FromRecords(
		[]string{"Date", "Ticker", "Total Revenue", "Net Income", "Total Assets", "Current Assets", "Current Liabilities"},
		[]map[string]string{
			{"Date": "2023-09-30", "Ticker": "AAPL", "Total Revenue": "400", "Net Income": "100",
				"Total Assets": "1000", "Current Assets": "100", "Current Liabilities": "0"},
		})
}

func newPipeline(src source.Source, loader repository.Loader, notifier Notifier) PipelineService {
	log := logger.NewNop()
	now := func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }
	return NewPipelineService(src, transform.NewNormalizer(log, now), transform.NewRatioEngine(log), loader, notifier, log)
}

func allSources() memorySource {
	return memorySource{
		"companies":            rawCompanies,
		"stock_prices":         rawPrices,
		"financial_statements": rawFinancials,
	}
}

func TestRunLoadsAllEntities(t *testing.T) {
	db := newTestDB(t)
	notifier := &recordingNotifier{}
	pipeline := newPipeline(allSources(), repository.NewLoader(db, logger.NewNop()), notifier)

	report := pipeline.Run(context.Background())

	require.Len(t, report.Results, 3)
	assert.False(t, report.Failed())
	for _, res := range report.Results {
		assert.Equal(t, StatusLoaded, res.Status, res.Entity)
		assert.Empty(t, res.Error)
	}
	prices, _ := report.Result("stock_prices")
	assert.Equal(t, 2, prices.RowsRead)
	assert.Equal(t, 2, prices.RowsLoaded)

	var adjClose []float64
	require.NoError(t, db.Model(&entity.StockPrice{}).Order("date").Pluck("adj_close", &adjClose).Error)
	assert.Equal(t, []float64{185.0, 184.25}, adjClose)

	var ratios struct {
		CurrentRatio, QuickRatio, ROA, NetMargin sql.NullFloat64
		NonCurrentAssets                         sql.NullFloat64
	}
	require.NoError(t, db.Model(&entity.FinancialStatement{}).
		Select("current_ratio, quick_ratio, roa, net_margin, non_current_assets").Scan(&ratios).Error)
	assert.False(t, ratios.CurrentRatio.Valid)
	assert.False(t, ratios.QuickRatio.Valid)
	assert.InDelta(t, 0.1, ratios.ROA.Float64, 1e-12)
	assert.InDelta(t, 0.25, ratios.NetMargin.Float64, 1e-12)
	assert.Equal(t, 900.0, ratios.NonCurrentAssets.Float64)

	financials, _ := report.Result("financial_statements")
	assert.Contains(t, financials.OmittedRatios, "debt_to_equity")

	require.Len(t, notifier.reports, 1)
	assert.Same(t, report, notifier.reports[0])
}

func snapshot(t *testing.T, db *gorm.DB) ([]entity.Company, []entity.StockPrice, []entity.FinancialStatement) {
	t.Helper()
	var companies []entity.Company
	var prices []entity.StockPrice
	var statements []entity.FinancialStatement
	require.NoError(t, db.Order("ticker").Find(&companies).Error)
	require.NoError(t, db.Order("ticker, date").Find(&prices).Error)
	require.NoError(t, db.Order("ticker, report_date").Find(&statements).Error)
	for i := range companies {
		companies[i].LastUpdated = time.Time{}
	}
	return companies, prices, statements
}

func TestRunIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	pipeline := newPipeline(allSources(), repository.NewLoader(db, logger.NewNop()), nil)

	pipeline.Run(context.Background())
	companies, prices, statements := snapshot(t, db)
	require.Len(t, companies, 1)
	require.Len(t, prices, 2)
	require.Len(t, statements, 1)

	report := pipeline.Run(context.Background())
	assert.False(t, report.Failed())

	gotCompanies, gotPrices, gotStatements := snapshot(t, db)
	assert.Equal(t, companies, gotCompanies)
	assert.Equal(t, prices, gotPrices)
	assert.Equal(t, statements, gotStatements)
}

func TestRunClearsRestatedLineItems(t *testing.T) {
	db := newTestDB(t)
	cols := []string{"Date", "Ticker", "Operating Income", "Interest Expense", "Cost Of Revenue", "Inventory"}
	first := memorySource{"financial_statements": func() *frame.Frame {
		return frame.FromRecords(cols, []map[string]string{
			{"Date": "2023-09-30", "Ticker": "JPM", "Operating Income": "100", "Interest Expense": "10",
				"Cost Of Revenue": "50", "Inventory": "5"},
		})
	}}
	restated := memorySource{"financial_statements": func() *frame.Frame {
		return frame.FromRecords([]string{"Date", "Ticker", "Operating Income", "Cost Of Revenue"}, []map[string]string{
			{"Date": "2023-09-30", "Ticker": "JPM", "Operating Income": "300", "Cost Of Revenue": "70"},
		})
	}}
	loader := repository.NewLoader(db, logger.NewNop())

	newPipeline(first, loader, nil).Run(context.Background())
	var stored entity.FinancialStatement
	require.NoError(t, db.First(&stored).Error)
	assert.Equal(t, 10.0, stored.InterestCoverageRatio.Float64)
	assert.Equal(t, 10.0, stored.InventoryTurnover.Float64)

	report := newPipeline(restated, loader, nil).Run(context.Background())
	financials, _ := report.Result("financial_statements")
	assert.Contains(t, financials.OmittedRatios, "interest_coverage_ratio")
	assert.Contains(t, financials.OmittedRatios, "inventory_turnover")

	stored = entity.FinancialStatement{}
	require.NoError(t, db.First(&stored).Error)
	assert.Equal(t, 300.0, stored.OperatingIncomeEBIT.Float64)
	assert.Equal(t, 70.0, stored.COGS.Float64)
	assert.False(t, stored.Inventory.Valid)
	assert.False(t, stored.InterestCoverageRatio.Valid)
	assert.False(t, stored.InventoryTurnover.Valid)
}

func TestRunSkipsMissingSource(t *testing.T) {
	db := newTestDB(t)
	src := allSources()
	delete(src, "companies")

	report := newPipeline(src, repository.NewLoader(db, logger.NewNop()), nil).Run(context.Background())

	companies, ok := report.Result("companies")
	require.True(t, ok)
	assert.Equal(t, StatusSkipped, companies.Status)
	assert.False(t, report.Failed())

	prices, _ := report.Result("stock_prices")
	assert.Equal(t, StatusLoaded, prices.Status)
}

func TestRunIsolatesEntityFailures(t *testing.T) {
	db := newTestDB(t)
	src := allSources()
	src["stock_prices"] = func() *frame.Frame {
		return frame.FromRecords([]string{"Ticker", "Close"}, []map[string]string{{"Ticker": "AAPL", "Close": "1"}})
	}
	loader := panicLoader{Loader: repository.NewLoader(db, logger.NewNop()), entity: "companies"}
	notifier := &recordingNotifier{err: errors.New("telegram down")}

	report := newPipeline(src, loader, notifier).Run(context.Background())

	assert.True(t, report.Failed())
	companies, _ := report.Result("companies")
	assert.Equal(t, StatusFailed, companies.Status)
	assert.Contains(t, companies.Error, "loader exploded")

	prices, _ := report.Result("stock_prices")
	assert.Equal(t, StatusFailed, prices.Status)
	assert.Contains(t, prices.Error, "date")

	financials, _ := report.Result("financial_statements")
	assert.Equal(t, StatusLoaded, financials.Status)
	assert.Equal(t, 1, financials.RowsLoaded)
	assert.Len(t, notifier.reports, 1)
}
