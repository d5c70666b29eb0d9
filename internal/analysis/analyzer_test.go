package analysis

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/market-intel/internal/model"
	"github.com/sells-group/market-intel/internal/store"
)

func newTestAnalyzer(t *testing.T) (*Analyzer, store.Store) {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(context.Background()))
	return New(st, Options{}), st
}

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func seedIndustry(t *testing.T, st store.Store) (target int64) {
	t.Helper()
	ctx := context.Background()

	target, err := st.InsertCompany(ctx, &model.Company{
		Name:         "Acme Estates",
		Industry:     strPtr("Real Estate"),
		ProfitMargin: floatPtr(0.18),
		GrowthRate:   floatPtr(0.05),
		MarketCap:    floatPtr(2e9),
	})
	require.NoError(t, err)

	for _, c := range []model.Company{
		{Name: "Peer One", Industry: strPtr("Real Estate"), ProfitMargin: floatPtr(0.10), GrowthRate: floatPtr(0.12), MarketCap: floatPtr(1e9)},
		{Name: "Peer Two", Industry: strPtr("Real Estate"), ProfitMargin: floatPtr(0.08), GrowthRate: floatPtr(0.15), MarketCap: floatPtr(3e9)},
	} {
		c := c
		_, err := st.InsertCompany(ctx, &c)
		require.NoError(t, err)
	}
	return target
}

func TestBuildSWOT_MedianComparison(t *testing.T) {
	a, st := newTestAnalyzer(t)
	ctx := context.Background()
	target := seedIndustry(t, st)

	s, err := a.BuildSWOT(ctx, target)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Competitors)

	// Margin 0.18 beats the peer median 0.09; growth 0.05 trails 0.135.
	require.NotEmpty(t, s.Strengths)
	assert.Contains(t, s.Strengths[0], "profit margin above industry median")
	found := false
	for _, w := range s.Weaknesses {
		if strings.Contains(w, "revenue growth below industry median") {
			found = true
		}
	}
	assert.True(t, found, "expected a growth weakness, got %v", s.Weaknesses)
}

func TestBuildSWOT_TrendsAndNews(t *testing.T) {
	a, st := newTestAnalyzer(t)
	ctx := context.Background()
	target := seedIndustry(t, st)

	_, err := st.InsertTrend(ctx, &model.MarketTrend{
		Industry:       strPtr("Real Estate"),
		Description:    "Green buildings gaining regulatory support",
		SentimentScore: floatPtr(0.4),
	})
	require.NoError(t, err)
	_, err = st.InsertTrend(ctx, &model.MarketTrend{
		Industry:       strPtr("Real Estate"),
		Description:    "Input cost inflation squeezing margins",
		SentimentScore: floatPtr(-0.3),
	})
	require.NoError(t, err)

	negative := model.SentimentNegative
	_, err = st.InsertArticle(ctx, &model.NewsArticle{
		CompanyID:      &target,
		Title:          "Acme project delayed by litigation",
		SourceURL:      "https://news.example.com/delay",
		SentimentLabel: &negative,
	})
	require.NoError(t, err)

	s, err := a.BuildSWOT(ctx, target)
	require.NoError(t, err)
	assert.Contains(t, s.Opportunities, "Green buildings gaining regulatory support")
	assert.Contains(t, s.Threats, "Input cost inflation squeezing margins")
	require.NotEmpty(t, s.Threats)
	assert.Contains(t, s.Threats[len(s.Threats)-1], "negative coverage")
}

func TestBuildSWOT_PersistsAppendOnly(t *testing.T) {
	a, st := newTestAnalyzer(t)
	ctx := context.Background()
	target := seedIndustry(t, st)

	_, err := a.BuildSWOT(ctx, target)
	require.NoError(t, err)
	_, err = a.BuildSWOT(ctx, target)
	require.NoError(t, err)

	results, err := st.ListAnalyses(ctx, store.AnalysisFilter{Type: model.AnalysisSWOT, TargetID: &target})
	require.NoError(t, err)
	assert.Len(t, results, 2)

	var decoded SWOT
	require.NoError(t, json.Unmarshal([]byte(results[0].ResultJSON), &decoded))
	assert.Equal(t, "Acme Estates", decoded.CompanyName)
}

func TestBuildCompetitorReport(t *testing.T) {
	a, st := newTestAnalyzer(t)
	ctx := context.Background()
	seedIndustry(t, st)

	report, err := a.BuildCompetitorReport(ctx, "Real Estate")
	require.NoError(t, err)
	require.Len(t, report.Companies, 3)
	// Ordered by market cap descending.
	assert.Equal(t, "Peer Two", report.Companies[0].Name)
	assert.Equal(t, "Acme Estates", report.Companies[1].Name)
	assert.Equal(t, "Peer One", report.Companies[2].Name)

	md := RenderCompetitorReport(report)
	assert.Contains(t, md, "# Competitor Landscape: Real Estate")
	assert.Contains(t, md, "| Peer Two | 3.0B |")
}

func TestBuildCompetitorReport_EmptyIndustry(t *testing.T) {
	a, _ := newTestAnalyzer(t)

	_, err := a.BuildCompetitorReport(context.Background(), "Shipbuilding")
	require.Error(t, err)
}

func TestBuildTrendReport(t *testing.T) {
	a, st := newTestAnalyzer(t)
	ctx := context.Background()

	growth := "growth"
	for _, tr := range []model.MarketTrend{
		{Industry: strPtr("Real Estate"), Description: "Tier-2 city demand rising", TrendType: &growth, SentimentScore: floatPtr(0.5)},
		{Industry: strPtr("Real Estate"), Description: "Luxury segment cooling", SentimentScore: floatPtr(-0.1)},
	} {
		tr := tr
		_, err := st.InsertTrend(ctx, &tr)
		require.NoError(t, err)
	}

	report, err := a.BuildTrendReport(ctx, "Real Estate", "")
	require.NoError(t, err)
	assert.Equal(t, 2, report.TrendCount)
	require.NotNil(t, report.AverageSentiment)
	assert.InDelta(t, 0.2, *report.AverageSentiment, 0.001)
	assert.Equal(t, 1, report.ByType["growth"])
	assert.Len(t, report.Highlights, 2)

	md := RenderTrendReport(report)
	assert.Contains(t, md, "Tier-2 city demand rising")
}

func TestRenderSWOT_EmptySections(t *testing.T) {
	s := &SWOT{CompanyName: "Acme", Strengths: []string{"margin leader"}}
	md := RenderSWOT(s)
	assert.Contains(t, md, "- margin leader")
	assert.Contains(t, md, "- none identified")
}
