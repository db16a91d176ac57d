package dto

import (
	"encoding/json"
	"time"

	"golang-market-etl/internal/entity"

	"github.com/guregu/null/v6"
)

const dateLayout = "2006-01-02"

// CompanyResponse is the API view of a company profile.
type CompanyResponse struct {
	Ticker      string      `json:"ticker"`
	Name        null.String `json:"name"`
	Sector      null.String `json:"sector"`
	Industry    null.String `json:"industry"`
	Country     null.String `json:"country"`
	Website     null.String `json:"website"`
	Description null.String `json:"description"`
	Currency    null.String `json:"currency"`
	LastUpdated time.Time   `json:"last_updated"`
}

// StockPriceResponse is the API view of a daily bar.
type StockPriceResponse struct {
	Ticker   string     `json:"ticker"`
	Date     string     `json:"date"`
	Open     null.Float `json:"open"`
	High     null.Float `json:"high"`
	Low      null.Float `json:"low"`
	Close    null.Float `json:"close"`
	AdjClose null.Float `json:"adj_close"`
	Volume   null.Int   `json:"volume"`
}

// FinancialStatementResponse is the API view of an annual report. Line items
// and ratios are reported under "values" keyed by column name.
type FinancialStatementResponse struct {
	Ticker     string                `json:"ticker"`
	ReportDate string                `json:"report_date"`
	Period     string                `json:"period"`
	Values     map[string]null.Float `json:"values"`
}

// NewCompanyResponse maps an entity.Company to a CompanyResponse.
func NewCompanyResponse(c entity.Company) CompanyResponse {
	return CompanyResponse{
		Ticker:      c.Ticker,
		Name:        c.Name,
		Sector:      c.Sector,
		Industry:    c.Industry,
		Country:     c.Country,
		Website:     c.Website,
		Description: c.Description,
		Currency:    c.Currency,
		LastUpdated: c.LastUpdated,
	}
}

// NewStockPriceResponse maps an entity.StockPrice to a StockPriceResponse.
func NewStockPriceResponse(p entity.StockPrice) StockPriceResponse {
	return StockPriceResponse{
		Ticker:   p.Ticker,
		Date:     time.Time(p.Date).Format(dateLayout),
		Open:     p.Open,
		High:     p.High,
		Low:      p.Low,
		Close:    p.Close,
		AdjClose: p.AdjClose,
		Volume:   p.Volume,
	}
}

// NewFinancialStatementResponse maps an entity.FinancialStatement to a FinancialStatementResponse.
func NewFinancialStatementResponse(s entity.FinancialStatement) FinancialStatementResponse {
	return FinancialStatementResponse{
		Ticker:     s.Ticker,
		ReportDate: time.Time(s.ReportDate).Format(dateLayout),
		Period:     s.Period,
		Values:     s.Values(),
	}
}

// PipelineRunResponse is the API view of a recorded pipeline run.
type PipelineRunResponse struct {
	ID         uint            `json:"id"`
	Status     string          `json:"status"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Report     json.RawMessage `json:"report"`
}

// NewPipelineRunResponse maps an entity.PipelineRun to a PipelineRunResponse.
func NewPipelineRunResponse(r entity.PipelineRun) PipelineRunResponse {
	return PipelineRunResponse{
		ID:         r.ID,
		Status:     string(r.Status),
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		Report:     json.RawMessage(r.Report),
	}
}
