package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang-market-etl/internal/api/dto"
	"golang-market-etl/internal/api/repository"
	"golang-market-etl/pkg/logger"

	"github.com/patrickmn/go-cache"
)

const (
	DefaultPriceLimit = 100
	MaxPriceLimit     = 5000
	DefaultRunLimit   = 20
	MaxRunLimit       = 500

	companiesCacheKey = "companies"
)

var (
	// ErrInvalidTicker is returned for an empty ticker.
	ErrInvalidTicker = errors.New("ticker is required")
	// ErrInvalidLimit is returned for a limit outside the accepted range.
	ErrInvalidLimit = errors.New("limit is out of range")
)

// MarketService defines the read API over loaded market data.
type MarketService interface {
	ListCompanies(ctx context.Context) ([]dto.CompanyResponse, error)
	GetStockPrices(ctx context.Context, ticker string, limit int) ([]dto.StockPriceResponse, error)
	GetFinancialStatements(ctx context.Context, ticker string) ([]dto.FinancialStatementResponse, error)
	ListRuns(ctx context.Context, limit int) ([]dto.PipelineRunResponse, error)
}

// NewMarketService creates a new market service. Company lists are cached for ttl.
func NewMarketService(repo repository.MarketRepository, ttl, cleanupInterval time.Duration, logger *logger.Logger) MarketService {
	return &marketService{
		repo:   repo,
		cache:  cache.New(ttl, cleanupInterval),
		logger: logger,
	}
}

type marketService struct {
	repo   repository.MarketRepository
	cache  *cache.Cache
	logger *logger.Logger
}

// ListCompanies returns every company profile. Callers own the returned slice.
func (s *marketService) ListCompanies(ctx context.Context) ([]dto.CompanyResponse, error) {
	if cached, ok := s.cache.Get(companiesCacheKey); ok {
		return append([]dto.CompanyResponse(nil), cached.([]dto.CompanyResponse)...), nil
	}

	companies, err := s.repo.FindCompanies(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to find companies", logger.ErrorField(err))
		return nil, err
	}

	out := make([]dto.CompanyResponse, 0, len(companies))
	for _, c := range companies {
		out = append(out, dto.NewCompanyResponse(c))
	}
	s.cache.SetDefault(companiesCacheKey, out)
	return append([]dto.CompanyResponse(nil), out...), nil
}

// GetStockPrices returns the latest limit bars of ticker. A zero limit means DefaultPriceLimit.
func (s *marketService) GetStockPrices(ctx context.Context, ticker string, limit int) ([]dto.StockPriceResponse, error) {
	ticker, err := normalizeTicker(ticker)
	if err != nil {
		return nil, err
	}
	if limit == 0 {
		limit = DefaultPriceLimit
	}
	if limit < 0 || limit > MaxPriceLimit {
		return nil, fmt.Errorf("%w: must be between 1 and %d", ErrInvalidLimit, MaxPriceLimit)
	}

	prices, err := s.repo.FindStockPrices(ctx, ticker, limit)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to find stock prices", logger.ErrorField(err), logger.StringField("ticker", ticker))
		return nil, err
	}

	out := make([]dto.StockPriceResponse, 0, len(prices))
	for _, p := range prices {
		out = append(out, dto.NewStockPriceResponse(p))
	}
	return out, nil
}

// GetFinancialStatements returns the annual reports of ticker, latest first.
func (s *marketService) GetFinancialStatements(ctx context.Context, ticker string) ([]dto.FinancialStatementResponse, error) {
	ticker, err := normalizeTicker(ticker)
	if err != nil {
		return nil, err
	}

	statements, err := s.repo.FindFinancialStatements(ctx, ticker)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to find financial statements", logger.ErrorField(err), logger.StringField("ticker", ticker))
		return nil, err
	}

	out := make([]dto.FinancialStatementResponse, 0, len(statements))
	for _, st := range statements {
		out = append(out, dto.NewFinancialStatementResponse(st))
	}
	return out, nil
}

// ListRuns returns the most recent pipeline runs. A zero limit means DefaultRunLimit.
func (s *marketService) ListRuns(ctx context.Context, limit int) ([]dto.PipelineRunResponse, error) {
	if limit == 0 {
		limit = DefaultRunLimit
	}
	if limit < 0 || limit > MaxRunLimit {
		return nil, fmt.Errorf("%w: must be between 1 and %d", ErrInvalidLimit, MaxRunLimit)
	}

	runs, err := s.repo.FindRuns(ctx, limit)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to find pipeline runs", logger.ErrorField(err))
		return nil, err
	}

	out := make([]dto.PipelineRunResponse, 0, len(runs))
	for _, r := range runs {
		out = append(out, dto.NewPipelineRunResponse(r))
	}
	return out, nil
}

func normalizeTicker(ticker string) (string, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return "", ErrInvalidTicker
	}
	return ticker, nil
}
