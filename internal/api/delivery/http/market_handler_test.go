package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"golang-market-etl/internal/api/dto"
	"golang-market-etl/internal/api/repository"
	"golang-market-etl/internal/api/service"
	"golang-market-etl/internal/entity"
	"golang-market-etl/pkg/database"
	"golang-market-etl/pkg/logger"

	"github.com/guregu/null/v6"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	db, err := database.NewDB(database.Config{
		Driver:   database.DriverSQLite,
		DBName:   filepath.Join(t.TempDir(), "api.db"),
		LogLevel: "silent",
	})
	require.NoError(t, err)
	gdb := db.DB
	require.NoError(t, gdb.AutoMigrate(&entity.Company{}, &entity.StockPrice{}, &entity.FinancialStatement{}, &entity.PipelineRun{}))

	require.NoError(t, gdb.Create(&[]entity.Company{
		{Ticker: "MSFT", Name: null.StringFrom("Microsoft Corporation"), LastUpdated: time.Now().UTC()},
		{Ticker: "AAPL", Name: null.StringFrom("Apple Inc."), Sector: null.StringFrom("Technology"), LastUpdated: time.Now().UTC()},
	}).Error)

	var prices []entity.StockPrice
	for i := 0; i < 3; i++ {
		prices = append(prices, entity.StockPrice{
			Ticker: "AAPL",
			Date:   datatypes.Date(time.Date(2024, 1, 2+i, 0, 0, 0, 0, time.UTC)),
			Close:  null.FloatFrom(185 - float64(i)),
			Volume: null.IntFrom(int64(1000 * (i + 1))),
		})
	}
	require.NoError(t, gdb.Create(&prices).Error)

	require.NoError(t, gdb.Create(&[]entity.FinancialStatement{
		{Ticker: "AAPL", ReportDate: datatypes.Date(time.Date(2022, 9, 30, 0, 0, 0, 0, time.UTC)), Period: entity.PeriodAnnual, Revenue: null.FloatFrom(394)},
		{Ticker: "AAPL", ReportDate: datatypes.Date(time.Date(2023, 9, 30, 0, 0, 0, 0, time.UTC)), Period: entity.PeriodAnnual, Revenue: null.FloatFrom(383), ROA: null.FloatFrom(0.27)},
	}).Error)

	runStart := time.Date(2024, 6, 3, 18, 0, 0, 0, time.UTC)
	require.NoError(t, gdb.Create(&[]entity.PipelineRun{
		{Status: entity.RunStatusFailed, StartedAt: runStart, FinishedAt: runStart.Add(time.Minute), Report: datatypes.JSON(`{"results":[]}`)},
		{Status: entity.RunStatusSucceeded, StartedAt: runStart.AddDate(0, 0, 1), FinishedAt: runStart.AddDate(0, 0, 1).Add(time.Minute), Report: datatypes.JSON(`{"results":[]}`)},
	}).Error)

	log := logger.NewNop()
	svc := service.NewMarketService(repository.NewMarketRepository(gdb), time.Minute, time.Minute, log)
	e := echo.New()
	NewMarketHandler(svc, log).RegisterRoutes(e.Group("/api/v1"))
	return e
}

func get(t *testing.T, e *echo.Echo, path string, out interface{}) int {
	t.Helper()
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	if out != nil && rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec.Code
}

func TestListCompanies(t *testing.T) {
	e := newTestServer(t)

	var companies []dto.CompanyResponse
	require.Equal(t, http.StatusOK, get(t, e, "/api/v1/companies", &companies))

	require.Len(t, companies, 2)
	assert.Equal(t, "AAPL", companies[0].Ticker)
	assert.Equal(t, "Technology", companies[0].Sector.String)
	assert.False(t, companies[1].Sector.Valid)
}

func TestGetStockPrices(t *testing.T) {
	e := newTestServer(t)

	var prices []dto.StockPriceResponse
	require.Equal(t, http.StatusOK, get(t, e, "/api/v1/stock_prices/aapl?limit=2", &prices))

	require.Len(t, prices, 2)
	assert.Equal(t, "2024-01-04", prices[0].Date)
	assert.Equal(t, "2024-01-03", prices[1].Date)
	assert.Equal(t, 183.0, prices[0].Close.Float64)
	assert.False(t, prices[0].Open.Valid)

	prices = nil
	require.Equal(t, http.StatusOK, get(t, e, "/api/v1/stock_prices/AAPL", &prices))
	assert.Len(t, prices, 3)

	prices = nil
	require.Equal(t, http.StatusOK, get(t, e, "/api/v1/stock_prices/TSLA", &prices))
	assert.Empty(t, prices)
}

func TestGetStockPricesRejectsBadLimit(t *testing.T) {
	e := newTestServer(t)

	assert.Equal(t, http.StatusBadRequest, get(t, e, "/api/v1/stock_prices/AAPL?limit=abc", nil))
	assert.Equal(t, http.StatusBadRequest, get(t, e, "/api/v1/stock_prices/AAPL?limit=-5", nil))
	assert.Equal(t, http.StatusBadRequest, get(t, e, "/api/v1/stock_prices/AAPL?limit=100000", nil))
}

func TestGetFinancialStatements(t *testing.T) {
	e := newTestServer(t)

	var statements []dto.FinancialStatementResponse
	require.Equal(t, http.StatusOK, get(t, e, "/api/v1/financials/AAPL", &statements))

	require.Len(t, statements, 2)
	assert.Equal(t, "2023-09-30", statements[0].ReportDate)
	assert.Equal(t, "12M", statements[0].Period)
	assert.Equal(t, 0.27, statements[0].Values["roa"].Float64)
	assert.False(t, statements[0].Values["current_ratio"].Valid)
	assert.Equal(t, "2022-09-30", statements[1].ReportDate)
}

func TestListRuns(t *testing.T) {
	e := newTestServer(t)

	var runs []dto.PipelineRunResponse
	require.Equal(t, http.StatusOK, get(t, e, "/api/v1/runs?limit=1", &runs))

	require.Len(t, runs, 1)
	assert.Equal(t, "succeeded", runs[0].Status)
	assert.JSONEq(t, `{"results":[]}`, string(runs[0].Report))

	assert.Equal(t, http.StatusBadRequest, get(t, e, "/api/v1/runs?limit=x", nil))
}
