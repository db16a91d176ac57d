package http

import (
	"errors"
	"net/http"
	"strconv"

	"golang-market-etl/internal/api/dto"
	"golang-market-etl/internal/api/service"
	"golang-market-etl/pkg/logger"

	"github.com/labstack/echo/v4"
)

// MarketHandler handles HTTP requests for market data.
type MarketHandler struct {
	marketService service.MarketService
	logger        *logger.Logger
}

// NewMarketHandler creates a new MarketHandler.
func NewMarketHandler(marketService service.MarketService, logger *logger.Logger) *MarketHandler {
	return &MarketHandler{marketService: marketService, logger: logger}
}

// RegisterRoutes registers the market data routes to the Echo group.
func (h *MarketHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/companies", h.ListCompanies)
	g.GET("/stock_prices/:ticker", h.GetStockPrices)
	g.GET("/financials/:ticker", h.GetFinancialStatements)
	g.GET("/runs", h.ListRuns)
}

// ListCompanies returns every company profile.
func (h *MarketHandler) ListCompanies(c echo.Context) error {
	companies, err := h.marketService.ListCompanies(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get companies"})
	}
	return c.JSON(http.StatusOK, companies)
}

// GetStockPrices returns the latest bars of a ticker. Query: limit (default 100).
func (h *MarketHandler) GetStockPrices(c echo.Context) error {
	limit, err := queryLimit(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid limit"})
	}

	prices, err := h.marketService.GetStockPrices(c.Request().Context(), c.Param("ticker"), limit)
	if err != nil {
		return h.errorResponse(c, err, "Failed to get stock prices")
	}
	return c.JSON(http.StatusOK, prices)
}

// GetFinancialStatements returns the annual reports of a ticker.
func (h *MarketHandler) GetFinancialStatements(c echo.Context) error {
	statements, err := h.marketService.GetFinancialStatements(c.Request().Context(), c.Param("ticker"))
	if err != nil {
		return h.errorResponse(c, err, "Failed to get financial statements")
	}
	return c.JSON(http.StatusOK, statements)
}

// ListRuns returns the most recent pipeline runs. Query: limit (default 20).
func (h *MarketHandler) ListRuns(c echo.Context) error {
	limit, err := queryLimit(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid limit"})
	}

	runs, err := h.marketService.ListRuns(c.Request().Context(), limit)
	if err != nil {
		return h.errorResponse(c, err, "Failed to get pipeline runs")
	}
	return c.JSON(http.StatusOK, runs)
}

// queryLimit reads the optional limit query parameter; 0 means unset.
func queryLimit(c echo.Context) (int, error) {
	raw := c.QueryParam("limit")
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

func (h *MarketHandler) errorResponse(c echo.Context, err error, msg string) error {
	if errors.Is(err, service.ErrInvalidTicker) || errors.Is(err, service.ErrInvalidLimit) {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: msg})
}
