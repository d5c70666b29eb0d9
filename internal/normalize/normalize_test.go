package normalize

import (
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/market-intel/internal/model"
)

func TestCompany_YahooShape(t *testing.T) {
	raw := Raw{
		"longName":            "Acme Infra Ltd",
		"symbol":              "ACME.NS",
		"industry":            "Engineering & Construction",
		"sector":              "Industrials",
		"fullTimeEmployees":   float64(4200),
		"longBusinessSummary": "Acme builds infrastructure.",
		"marketCap":           map[string]any{"raw": float64(1.5e10), "fmt": "15B"},
		"profitMargins":       0.12,
		"innovativeness":      0.61,
		"companyOfficers": []any{
			map[string]any{
				"name":     "A. Rao",
				"title":    "CEO",
				"yearBorn": float64(1971),
				"totalPay": map[string]any{"raw": float64(2.4e6)},
			},
			map[string]any{"title": "no name, skipped"},
		},
	}

	c, err := Company(raw)
	require.NoError(t, err)
	assert.Equal(t, "Acme Infra Ltd", c.Name)
	require.NotNil(t, c.TickerSymbol)
	assert.Equal(t, "ACME.NS", *c.TickerSymbol)
	require.NotNil(t, c.EmployeeCount)
	assert.Equal(t, 4200, *c.EmployeeCount)
	require.NotNil(t, c.MarketCap)
	assert.InDelta(t, 1.5e10, *c.MarketCap, 1)
	require.NotNil(t, c.ProfitMargin)
	assert.InDelta(t, 0.12, *c.ProfitMargin, 0.001)
	require.NotNil(t, c.Innovativeness)
	assert.InDelta(t, 0.61, *c.Innovativeness, 0.001)
	assert.Equal(t, model.SourceYahooFinance, c.DataSource)

	require.Len(t, c.Officers, 1)
	assert.Equal(t, "A. Rao", c.Officers[0].Name)
	require.NotNil(t, c.Officers[0].YearBorn)
	assert.Equal(t, 1971, *c.Officers[0].YearBorn)
	require.NotNil(t, c.Officers[0].TotalPay)
	assert.InDelta(t, 2.4e6, *c.Officers[0].TotalPay, 1)
}

func TestCompany_TickerOnlyFallsBackToTickerName(t *testing.T) {
	c, err := Company(Raw{"ticker_symbol": "TCS.NS"})
	require.NoError(t, err)
	assert.Equal(t, "TCS.NS", c.Name)
}

func TestCompany_MissingNaturalKey(t *testing.T) {
	_, err := Company(Raw{"industry": "Technology"})
	require.Error(t, err)
	assert.True(t, eris.Is(err, Err))
}

func TestCompany_DropsUncoercibleFields(t *testing.T) {
	c, err := Company(Raw{
		"name":        "Acme",
		"revenue":     "not-a-number",
		"market_cap":  "1,200,000",
		"growth_rate": "18%",
	})
	require.NoError(t, err)
	assert.Nil(t, c.Revenue)
	require.NotNil(t, c.MarketCap)
	assert.InDelta(t, 1200000, *c.MarketCap, 0.1)
	require.NotNil(t, c.GrowthRate)
	assert.InDelta(t, 18, *c.GrowthRate, 0.001)
}

func TestArticle(t *testing.T) {
	a, err := Article(Raw{
		"title":          "Acme wins metro contract",
		"source_url":     "https://news.example.com/acme",
		"source_name":    "Example News",
		"published_date": "2026-03-10",
		"summary":        "Acme secured a large order.",
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme wins metro contract", a.Title)
	assert.Equal(t, "https://news.example.com/acme", a.SourceURL)
	require.NotNil(t, a.PublishedDate)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), *a.PublishedDate)
}

func TestArticle_MissingURL(t *testing.T) {
	_, err := Article(Raw{"title": "No link"})
	require.Error(t, err)
	assert.True(t, eris.Is(err, Err))
}

func TestArticle_TitleFallsBackToSummary(t *testing.T) {
	a, err := Article(Raw{
		"source_url": "https://news.example.com/x",
		"summary":    "A summary only.",
	})
	require.NoError(t, err)
	assert.Equal(t, "A summary only.", a.Title)
}

func TestTrend_RequiresDescription(t *testing.T) {
	_, err := Trend(Raw{"industry": "Real Estate"})
	require.Error(t, err)
	assert.True(t, eris.Is(err, Err))

	tr, err := Trend(Raw{"description": "Green buildings", "trend_type": "growth"})
	require.NoError(t, err)
	assert.Equal(t, "Green buildings", tr.Description)
	require.NotNil(t, tr.TrendType)
	assert.Equal(t, "growth", *tr.TrendType)
}

func TestLead_ContactFieldsOnlyWhenPublic(t *testing.T) {
	private, err := Lead(Raw{
		"company_name": "Acme",
		"email":        "x@acme.example",
		"phone":        "+91 99999 99999",
	})
	require.NoError(t, err)
	assert.Nil(t, private.Email)
	assert.Nil(t, private.Phone)

	public, err := Lead(Raw{
		"company_name":      "Acme",
		"email":             "x@acme.example",
		"contact_is_public": true,
	})
	require.NoError(t, err)
	require.NotNil(t, public.Email)
	assert.Equal(t, "x@acme.example", *public.Email)
	assert.Equal(t, model.LeadNew, public.Status)
}

func TestProject(t *testing.T) {
	p, err := Project(Raw{
		"project_name":        "Emerald Heights",
		"developer":           "Skyline Developers",
		"city":                "Pune",
		"rera_id":             "P52100012345",
		"total_area_sqft":     "240,000",
		"expected_completion": "2027-06-30",
	})
	require.NoError(t, err)
	assert.Equal(t, "Emerald Heights", p.ProjectName)
	require.NotNil(t, p.DeveloperName)
	assert.Equal(t, "Skyline Developers", *p.DeveloperName)
	require.NotNil(t, p.RERARegistrationID)
	assert.Equal(t, "P52100012345", *p.RERARegistrationID)
	require.NotNil(t, p.TotalAreaSqft)
	assert.InDelta(t, 240000, *p.TotalAreaSqft, 0.1)
	require.NotNil(t, p.ExpectedCompletion)
}

func TestFirm(t *testing.T) {
	f, err := Firm(Raw{
		"firm_name":      "Morphogenesis Studio",
		"city":           "Delhi",
		"specialization": "Sustainable design",
	})
	require.NoError(t, err)
	assert.Equal(t, "Morphogenesis Studio", f.FirmName)

	_, err = Firm(Raw{"city": "Delhi"})
	require.Error(t, err)
	assert.True(t, eris.Is(err, Err))
}

func TestDateLayouts(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want time.Time
	}{
		{"2026-03-10T08:30:00Z", time.Date(2026, 3, 10, 8, 30, 0, 0, time.UTC)},
		{"2026-03-10 08:30:00", time.Date(2026, 3, 10, 8, 30, 0, 0, time.UTC)},
		{"2026-03-10", time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)},
		{"10/03/2026", time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)},
		{"Mar 10, 2026", time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)},
	} {
		got := date(Raw{"d": tc.in}, "d")
		require.NotNil(t, got, tc.in)
		assert.Equal(t, tc.want, *got, tc.in)
	}

	assert.Nil(t, date(Raw{"d": "next tuesday"}, "d"))
}
