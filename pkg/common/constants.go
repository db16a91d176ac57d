package common

// Entity names, used in logs, reports and source lookups.
const (
	EntityCompanies           = "companies"
	EntityStockPrices         = "stock_prices"
	EntityFinancialStatements = "financial_statements"
)

// Raw input file names written by the acquisition job.
const (
	RawCompaniesFile  = "raw_companies.csv"
	RawPricesFile     = "raw_prices.csv"
	RawFinancialsFile = "raw_financials.csv"
)

const (
	DefaultChunkSize = 2000
	DefaultSchedule  = "0 18 * * *"

	RedisLockPipelineRun = "market-etl:pipeline:run"
)
