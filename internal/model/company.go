package model

import "time"

// DataSource tags the provenance of an entity's fields.
type DataSource string

const (
	SourceYahooFinance DataSource = "yahoo_finance"
	SourceNewsFeed     DataSource = "news_feed"
	SourceRERAListing  DataSource = "rera_listing"
	SourceCOADirectory DataSource = "coa_directory"
	SourceLeadImport   DataSource = "lead_import"
	SourceTrendFeed    DataSource = "trend_feed"
	SourceDerived      DataSource = "derived"
	SourceManual       DataSource = "manual"
)

// Company is the canonical company profile. Optional fields are pointers so
// the upsert merge can distinguish "absent from this source" from a zero value.
// Exactly one row exists per distinct ticker symbol; name is a weaker,
// best-effort key for companies without one.
type Company struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	TickerSymbol    *string  `json:"ticker_symbol,omitempty"`
	Region          *string  `json:"region,omitempty"`
	Industry        *string  `json:"industry,omitempty"`
	Sector          *string  `json:"sector,omitempty"`
	Website         *string  `json:"website,omitempty"`
	Address         *string  `json:"address,omitempty"`
	Phone           *string  `json:"phone,omitempty"`
	EmployeeCount   *int     `json:"employee_count,omitempty"`
	BusinessSummary *string  `json:"business_summary,omitempty"`
	MarketCap       *float64 `json:"market_cap,omitempty"`
	Revenue         *float64 `json:"revenue,omitempty"`
	GrowthRate      *float64 `json:"growth_rate,omitempty"`
	ProfitMargin    *float64 `json:"profit_margin,omitempty"`

	// Insight scores as reported by the source (source-defined ranges).
	Innovativeness   *float64 `json:"innovativeness_score,omitempty"`
	Hiring           *float64 `json:"hiring_score,omitempty"`
	Sustainability   *float64 `json:"sustainability_score,omitempty"`
	InsiderSentiment *float64 `json:"insider_sentiment_score,omitempty"`

	LastUpdated time.Time  `json:"last_updated"`
	DataSource  DataSource `json:"data_source,omitempty"`

	// Officers is the transient working copy carried by a normalized record;
	// the store owns the persisted list (replace-on-refresh).
	Officers []CompanyOfficer `json:"officers,omitempty"`
}

// CompanyOfficer belongs to exactly one company and has no independent
// lifecycle.
type CompanyOfficer struct {
	ID               int64    `json:"id"`
	CompanyID        int64    `json:"company_id"`
	Name             string   `json:"name"`
	Title            *string  `json:"title,omitempty"`
	Age              *int     `json:"age,omitempty"`
	YearBorn         *int     `json:"year_born,omitempty"`
	FiscalYear       *int     `json:"fiscal_year,omitempty"`
	TotalPay         *float64 `json:"total_pay,omitempty"`
	ExercisedValue   *float64 `json:"exercised_value,omitempty"`
	UnexercisedValue *float64 `json:"unexercised_value,omitempty"`
}
