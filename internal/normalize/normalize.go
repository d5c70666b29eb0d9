// Package normalize converts raw, loosely-typed source records into canonical
// entities. It is the single boundary where untyped connector output becomes
// typed data: field aliases are mapped, values coerced, and anything that
// fails coercion is dropped rather than guessed. Pure functions, no I/O.
package normalize

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/market-intel/internal/model"
)

// Raw is a loosely-typed source record as handed over by a connector.
type Raw = map[string]any

// Kind identifies which canonical entity a raw record should become.
type Kind string

const (
	KindCompany Kind = "company"
	KindArticle Kind = "article"
	KindTrend   Kind = "trend"
	KindLead    Kind = "lead"
	KindProject Kind = "project"
	KindFirm    Kind = "firm"
)

// Err is the sentinel for malformed or incomplete records. A record that
// lacks its natural key cannot be normalized; the caller drops it and moves
// on to the next one.
var Err = eris.New("normalize: malformed record")

// Company maps a raw company record (Yahoo Finance profile shape or the
// canonical snake_case shape) onto a model.Company. A record with neither a
// name nor a ticker symbol is rejected.
func Company(raw Raw) (*model.Company, error) {
	name := str(raw, "name", "company_name", "longName", "shortName")
	ticker := str(raw, "ticker_symbol", "symbol", "ticker")
	if name == nil && ticker == nil {
		return nil, eris.Wrap(Err, "company: missing name and ticker")
	}

	c := &model.Company{
		TickerSymbol:     ticker,
		Region:           str(raw, "region"),
		Industry:         str(raw, "industry", "industryDisp"),
		Sector:           str(raw, "sector", "sectorDisp"),
		Website:          str(raw, "website"),
		Address:          str(raw, "address", "address1"),
		Phone:            str(raw, "phone"),
		EmployeeCount:    integer(raw, "employee_count", "fullTimeEmployees"),
		BusinessSummary:  str(raw, "business_summary", "longBusinessSummary"),
		MarketCap:        float(raw, "market_cap", "marketCap"),
		Revenue:          float(raw, "revenue", "totalRevenue"),
		GrowthRate:       float(raw, "growth_rate", "revenueGrowth"),
		ProfitMargin:     float(raw, "profit_margin", "profitMargins"),
		Innovativeness:   float(raw, "innovativeness_score", "innovativeness"),
		Hiring:           float(raw, "hiring_score", "hiring"),
		Sustainability:   float(raw, "sustainability_score", "sustainability"),
		InsiderSentiment: float(raw, "insider_sentiment_score", "insiderSentiments"),
		DataSource:       source(raw, model.SourceYahooFinance),
	}
	if name != nil {
		c.Name = *name
	} else {
		// Ticker-only records fall back to the ticker as a display name.
		c.Name = *ticker
	}
	c.Officers = officers(raw, "officers", "companyOfficers")
	return c, nil
}

// Article maps a raw news record onto a model.NewsArticle. The source URL is
// the natural key and is required; a missing title is tolerated only when a
// summary exists to stand in for it.
func Article(raw Raw) (*model.NewsArticle, error) {
	url := str(raw, "source_url", "url", "link")
	if url == nil {
		return nil, eris.Wrap(Err, "article: missing source_url")
	}
	title := str(raw, "title", "headline")
	summary := str(raw, "summary", "description")
	if title == nil {
		if summary == nil {
			return nil, eris.Wrap(Err, "article: missing title")
		}
		title = summary
	}

	return &model.NewsArticle{
		CompanyID:     i64(raw, "company_id"),
		Industry:      str(raw, "industry"),
		Topic:         str(raw, "topic"),
		Title:         *title,
		SourceName:    str(raw, "source_name", "source"),
		SourceURL:     *url,
		PublishedDate: date(raw, "published_date", "published", "pubDate"),
		Summary:       summary,
	}, nil
}

// Trend maps a raw market-trend record onto a model.MarketTrend.
func Trend(raw Raw) (*model.MarketTrend, error) {
	desc := str(raw, "trend_description", "description")
	if desc == nil {
		return nil, eris.Wrap(Err, "trend: missing description")
	}
	return &model.MarketTrend{
		Industry:       str(raw, "industry"),
		Region:         str(raw, "region"),
		Description:    *desc,
		TrendType:      str(raw, "trend_type", "type"),
		Source:         str(raw, "source", "source_name"),
		SourceURL:      str(raw, "source_url", "url"),
		PublishedDate:  date(raw, "published_date", "published"),
		RelevanceScore: float(raw, "relevance_score", "relevance"),
	}, nil
}

// Lead maps a raw lead record onto a model.Lead. Contact fields are carried
// through only when the source marks them as public data.
func Lead(raw Raw) (*model.Lead, error) {
	company := str(raw, "company_name", "company")
	if company == nil {
		return nil, eris.Wrap(Err, "lead: missing company_name")
	}
	l := &model.Lead{
		CompanyName:      *company,
		ContactName:      str(raw, "contact_name"),
		JobTitle:         str(raw, "job_title", "title"),
		Industry:         str(raw, "industry"),
		CompanySize:      str(raw, "company_size"),
		Region:           str(raw, "region", "location"),
		Website:          str(raw, "website"),
		LinkedInProfile:  str(raw, "linkedin_profile", "linkedin"),
		Source:           str(raw, "source"),
		EngagementLevel:  float(raw, "engagement_level"),
		TechnologiesUsed: str(raw, "technologies_used"),
		Notes:            str(raw, "notes"),
		Status:           model.LeadNew,
	}
	if boolVal(raw, "contact_is_public") {
		l.Email = str(raw, "email")
		l.Phone = str(raw, "phone")
	}
	return l, nil
}

// Project maps a raw real-estate listing onto a model.RealEstateProject.
func Project(raw Raw) (*model.RealEstateProject, error) {
	name := str(raw, "project_name", "name")
	if name == nil {
		return nil, eris.Wrap(Err, "project: missing project_name")
	}
	return &model.RealEstateProject{
		ProjectName:        *name,
		DeveloperName:      str(raw, "developer_name", "developer"),
		City:               str(raw, "city"),
		Region:             str(raw, "region", "state"),
		ProjectType:        str(raw, "project_type", "type"),
		Status:             str(raw, "status"),
		RERARegistrationID: str(raw, "rera_registration_id", "rera_id"),
		LaunchDate:         date(raw, "launch_date"),
		ExpectedCompletion: date(raw, "expected_completion_date", "expected_completion"),
		TotalAreaSqft:      float(raw, "total_area_sqft", "total_area"),
		PricePerSqftRange:  str(raw, "price_per_sqft_range", "price_range"),
		KeyFeatures:        str(raw, "key_features"),
		SourceURL:          str(raw, "source_url", "url"),
	}, nil
}

// Firm maps a raw architecture-directory record onto a model.ArchitecturalFirm.
func Firm(raw Raw) (*model.ArchitecturalFirm, error) {
	name := str(raw, "firm_name", "name")
	if name == nil {
		return nil, eris.Wrap(Err, "firm: missing firm_name")
	}
	return &model.ArchitecturalFirm{
		FirmName:          *name,
		City:              str(raw, "city"),
		Region:            str(raw, "region", "state"),
		Specialization:    str(raw, "specialization"),
		NotableProjects:   str(raw, "notable_projects"),
		KeyPersonnel:      str(raw, "key_personnel"),
		Awards:            str(raw, "awards"),
		COARegistrationID: str(raw, "coa_registration_id", "coa_id"),
		SourceURL:         str(raw, "source_url", "url"),
	}, nil
}

// officers extracts an officer list from the raw record, skipping entries
// without a name.
func officers(raw Raw, keys ...string) []model.CompanyOfficer {
	var list []any
	for _, k := range keys {
		if v, ok := raw[k].([]any); ok {
			list = append(list, v...)
		}
	}
	var out []model.CompanyOfficer
	for _, item := range list {
		m, ok := item.(Raw)
		if !ok {
			continue
		}
		name := str(m, "name")
		if name == nil {
			continue
		}
		out = append(out, model.CompanyOfficer{
			Name:             *name,
			Title:            str(m, "title"),
			Age:              integer(m, "age"),
			YearBorn:         integer(m, "year_born", "yearBorn"),
			FiscalYear:       integer(m, "fiscal_year", "fiscalYear"),
			TotalPay:         float(m, "total_pay", "totalPay"),
			ExercisedValue:   float(m, "exercised_value", "exercisedValue"),
			UnexercisedValue: float(m, "unexercised_value", "unexercisedValue"),
		})
	}
	return out
}

// source reads the provenance tag, defaulting when the record carries none.
func source(raw Raw, fallback model.DataSource) model.DataSource {
	s := str(raw, "data_source")
	if s == nil {
		return fallback
	}
	switch strings.ToLower(strings.ReplaceAll(*s, " ", "_")) {
	case "yahoofinance", "yahoo_finance":
		return model.SourceYahooFinance
	case "news_feed", "newsfeed":
		return model.SourceNewsFeed
	case "rera_listing", "rera":
		return model.SourceRERAListing
	case "coa_directory", "coa":
		return model.SourceCOADirectory
	case "lead_import":
		return model.SourceLeadImport
	case "trend_feed":
		return model.SourceTrendFeed
	case "derived":
		return model.SourceDerived
	default:
		return model.SourceManual
	}
}

// dateLayouts are tried in order when parsing date strings.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
	"Jan 2, 2006",
}

func date(raw Raw, keys ...string) *time.Time {
	for _, k := range keys {
		switch v := raw[k].(type) {
		case time.Time:
			t := v.UTC()
			return &t
		case string:
			s := strings.TrimSpace(v)
			if s == "" {
				continue
			}
			for _, layout := range dateLayouts {
				if t, err := time.Parse(layout, s); err == nil {
					t = t.UTC()
					return &t
				}
			}
		}
	}
	return nil
}
