package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/market-intel/internal/model"
)

func newTestSQLite(t *testing.T) Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func strPtr(s string) *string        { return &s }
func intPtr(n int) *int              { return &n }
func int64Ptr(n int64) *int64        { return &n }
func floatPtr(f float64) *float64    { return &f }
func timePtr(t time.Time) *time.Time { return &t }

func storeTestSuite(t *testing.T, newStore func(t *testing.T) Store) {
	t.Run("InsertAndGetCompany", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		c := &model.Company{
			Name:         "Acme Infra Ltd",
			TickerSymbol: strPtr("ACME.NS"),
			Industry:     strPtr("Construction"),
			Region:       strPtr("IN"),
			Revenue:      floatPtr(1.2e9),
			ProfitMargin: floatPtr(0.14),
			DataSource:   model.SourceYahooFinance,
		}
		id, err := s.InsertCompany(ctx, c)
		require.NoError(t, err)
		assert.Positive(t, id)

		got, err := s.GetCompany(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Acme Infra Ltd", got.Name)
		require.NotNil(t, got.TickerSymbol)
		assert.Equal(t, "ACME.NS", *got.TickerSymbol)
		require.NotNil(t, got.ProfitMargin)
		assert.InDelta(t, 0.14, *got.ProfitMargin, 0.001)
		assert.Nil(t, got.MarketCap)
		assert.Equal(t, model.SourceYahooFinance, got.DataSource)
	})

	t.Run("GetCompanyByTicker", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		_, err := s.InsertCompany(ctx, &model.Company{
			Name: "Acme Infra Ltd", TickerSymbol: strPtr("ACME.NS"), DataSource: model.SourceManual,
		})
		require.NoError(t, err)

		got, err := s.GetCompanyByTicker(ctx, "ACME.NS")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Acme Infra Ltd", got.Name)

		miss, err := s.GetCompanyByTicker(ctx, "NOPE.NS")
		require.NoError(t, err)
		assert.Nil(t, miss)
	})

	t.Run("GetCompanyByNameCaseInsensitive", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		_, err := s.InsertCompany(ctx, &model.Company{Name: "Skyline Developers", DataSource: model.SourceManual})
		require.NoError(t, err)

		got, err := s.GetCompanyByName(ctx, "skyline developers")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Skyline Developers", got.Name)
	})

	t.Run("DuplicateTickerConflict", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		_, err := s.InsertCompany(ctx, &model.Company{
			Name: "First", TickerSymbol: strPtr("DUP.NS"), DataSource: model.SourceManual,
		})
		require.NoError(t, err)

		_, err = s.InsertCompany(ctx, &model.Company{
			Name: "Second", TickerSymbol: strPtr("DUP.NS"), DataSource: model.SourceManual,
		})
		require.Error(t, err)
		assert.True(t, eris.Is(err, ErrConflict))
	})

	t.Run("UpdateCompany", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		c := &model.Company{Name: "Acme Infra Ltd", DataSource: model.SourceManual}
		id, err := s.InsertCompany(ctx, c)
		require.NoError(t, err)

		c.Industry = strPtr("Real Estate")
		c.EmployeeCount = intPtr(850)
		require.NoError(t, s.UpdateCompany(ctx, c))

		got, err := s.GetCompany(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, got.Industry)
		assert.Equal(t, "Real Estate", *got.Industry)
		require.NotNil(t, got.EmployeeCount)
		assert.Equal(t, 850, *got.EmployeeCount)
	})

	t.Run("UpdateCompanyNotFound", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		err := s.UpdateCompany(ctx, &model.Company{ID: 9999, Name: "Ghost", DataSource: model.SourceManual})
		require.Error(t, err)
		assert.True(t, eris.Is(err, ErrNotFound))
	})

	t.Run("ListCompaniesByIndustry", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		_, err := s.InsertCompany(ctx, &model.Company{
			Name: "Alpha", Industry: strPtr("Real Estate"), DataSource: model.SourceManual,
		})
		require.NoError(t, err)
		_, err = s.InsertCompany(ctx, &model.Company{
			Name: "Beta", Industry: strPtr("Technology"), DataSource: model.SourceManual,
		})
		require.NoError(t, err)

		re, err := s.ListCompanies(ctx, CompanyFilter{Industry: "Real Estate"})
		require.NoError(t, err)
		require.Len(t, re, 1)
		assert.Equal(t, "Alpha", re[0].Name)

		all, err := s.ListCompanies(ctx, CompanyFilter{})
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("ReplaceOfficers", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		id, err := s.InsertCompany(ctx, &model.Company{Name: "Acme", DataSource: model.SourceManual})
		require.NoError(t, err)

		first := []model.CompanyOfficer{
			{Name: "A. Rao", Title: strPtr("CEO"), TotalPay: floatPtr(1.5e6)},
			{Name: "B. Mehta", Title: strPtr("CFO")},
		}
		require.NoError(t, s.ReplaceOfficers(ctx, id, first))

		second := []model.CompanyOfficer{
			{Name: "C. Iyer", Title: strPtr("CEO")},
		}
		require.NoError(t, s.ReplaceOfficers(ctx, id, second))

		got, err := s.ListOfficers(ctx, id)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "C. Iyer", got[0].Name)
	})

	t.Run("InsertAndGetArticleByURL", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		published := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
		label := model.SentimentPositive
		a := &model.NewsArticle{
			Title:          "Acme wins metro contract",
			SourceURL:      "https://news.example.com/acme-metro",
			SourceName:     strPtr("Example News"),
			Industry:       strPtr("Construction"),
			PublishedDate:  timePtr(published),
			SentimentScore: floatPtr(0.62),
			SentimentLabel: &label,
		}
		_, err := s.InsertArticle(ctx, a)
		require.NoError(t, err)

		got, err := s.GetArticleByURL(ctx, "https://news.example.com/acme-metro")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Acme wins metro contract", got.Title)
		require.NotNil(t, got.SentimentLabel)
		assert.Equal(t, model.SentimentPositive, *got.SentimentLabel)

		miss, err := s.GetArticleByURL(ctx, "https://news.example.com/other")
		require.NoError(t, err)
		assert.Nil(t, miss)
	})

	t.Run("DuplicateArticleURLConflict", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		_, err := s.InsertArticle(ctx, &model.NewsArticle{
			Title: "First", SourceURL: "https://news.example.com/dup",
		})
		require.NoError(t, err)

		_, err = s.InsertArticle(ctx, &model.NewsArticle{
			Title: "Second", SourceURL: "https://news.example.com/dup",
		})
		require.Error(t, err)
		assert.True(t, eris.Is(err, ErrConflict))
	})

	t.Run("ListArticlesByCompany", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		cid, err := s.InsertCompany(ctx, &model.Company{Name: "Acme", DataSource: model.SourceManual})
		require.NoError(t, err)

		_, err = s.InsertArticle(ctx, &model.NewsArticle{
			Title: "Linked", SourceURL: "https://n.example.com/1", CompanyID: int64Ptr(cid),
		})
		require.NoError(t, err)
		_, err = s.InsertArticle(ctx, &model.NewsArticle{
			Title: "Unlinked", SourceURL: "https://n.example.com/2",
		})
		require.NoError(t, err)

		got, err := s.ListArticles(ctx, ArticleFilter{CompanyID: int64Ptr(cid)})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Linked", got[0].Title)
	})

	t.Run("InsertAndListTrends", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		_, err := s.InsertTrend(ctx, &model.MarketTrend{
			Description:    "Green building adoption accelerating",
			Industry:       strPtr("Real Estate"),
			SentimentScore: floatPtr(0.4),
		})
		require.NoError(t, err)
		_, err = s.InsertTrend(ctx, &model.MarketTrend{
			Description: "Cement prices rising",
			Industry:    strPtr("Construction"),
		})
		require.NoError(t, err)

		got, err := s.ListTrends(ctx, TrendFilter{Industry: "Real Estate"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Green building adoption accelerating", got[0].Description)
	})

	t.Run("ICPRoundTrip", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		p := &model.ICP{
			ProfileName:  "mid-market-tech",
			CriteriaJSON: `{"preferred_industries":["Technology"]}`,
		}
		id, err := s.InsertICP(ctx, p)
		require.NoError(t, err)

		got, err := s.GetICPByName(ctx, "mid-market-tech")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, id, got.ID)
		assert.Nil(t, got.LastUsed)

		require.NoError(t, s.TouchICP(ctx, id))
		got, err = s.GetICP(ctx, id)
		require.NoError(t, err)
		assert.NotNil(t, got.LastUsed)
	})

	t.Run("DuplicateICPNameConflict", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		_, err := s.InsertICP(ctx, &model.ICP{ProfileName: "dup", CriteriaJSON: "{}"})
		require.NoError(t, err)
		_, err = s.InsertICP(ctx, &model.ICP{ProfileName: "dup", CriteriaJSON: "{}"})
		require.Error(t, err)
		assert.True(t, eris.Is(err, ErrConflict))
	})

	t.Run("LeadLifecycle", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		l := &model.Lead{CompanyName: "Acme Infra Ltd", Score: floatPtr(0.7)}
		id, err := s.InsertLead(ctx, l)
		require.NoError(t, err)
		assert.Equal(t, model.LeadNew, l.Status)

		require.NoError(t, s.UpdateLeadStatus(ctx, id, model.LeadQualified))

		got, err := s.GetLead(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, model.LeadQualified, got.Status)
	})

	t.Run("GetLeadByCompanyNameCaseInsensitive", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		_, err := s.InsertLead(ctx, &model.Lead{CompanyName: "Skyline Developers"})
		require.NoError(t, err)

		got, err := s.GetLeadByCompanyName(ctx, "SKYLINE DEVELOPERS")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Skyline Developers", got.CompanyName)
	})

	t.Run("ListLeadsByStatusAndScore", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		_, err := s.InsertLead(ctx, &model.Lead{CompanyName: "High", Score: floatPtr(0.9), Status: model.LeadQualified})
		require.NoError(t, err)
		_, err = s.InsertLead(ctx, &model.Lead{CompanyName: "Low", Score: floatPtr(0.2), Status: model.LeadDisqualified})
		require.NoError(t, err)

		qualified, err := s.ListLeads(ctx, LeadFilter{Status: model.LeadQualified})
		require.NoError(t, err)
		require.Len(t, qualified, 1)
		assert.Equal(t, "High", qualified[0].CompanyName)

		scored, err := s.ListLeads(ctx, LeadFilter{MinScore: floatPtr(0.5)})
		require.NoError(t, err)
		require.Len(t, scored, 1)
		assert.Equal(t, "High", scored[0].CompanyName)
	})

	t.Run("ProjectRERALookup", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		p := &model.RealEstateProject{
			ProjectName:        "Emerald Heights",
			City:               strPtr("Pune"),
			RERARegistrationID: strPtr("P52100012345"),
			TotalAreaSqft:      floatPtr(240000),
		}
		_, err := s.InsertProject(ctx, p)
		require.NoError(t, err)

		got, err := s.GetProjectByRERA(ctx, "P52100012345")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Emerald Heights", got.ProjectName)

		miss, err := s.GetProjectByRERA(ctx, "P00000000000")
		require.NoError(t, err)
		assert.Nil(t, miss)
	})

	t.Run("DuplicateRERAConflict", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		_, err := s.InsertProject(ctx, &model.RealEstateProject{
			ProjectName: "First", RERARegistrationID: strPtr("P999"),
		})
		require.NoError(t, err)
		_, err = s.InsertProject(ctx, &model.RealEstateProject{
			ProjectName: "Second", RERARegistrationID: strPtr("P999"),
		})
		require.Error(t, err)
		assert.True(t, eris.Is(err, ErrConflict))
	})

	t.Run("ProjectsWithoutRERADoNotConflict", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		_, err := s.InsertProject(ctx, &model.RealEstateProject{ProjectName: "NoRERA One"})
		require.NoError(t, err)
		_, err = s.InsertProject(ctx, &model.RealEstateProject{ProjectName: "NoRERA Two"})
		require.NoError(t, err)

		all, err := s.ListProjects(ctx, ProjectFilter{})
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("FirmByName", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		f := &model.ArchitecturalFirm{
			FirmName:       "Morphogenesis Studio",
			City:           strPtr("Delhi"),
			Specialization: strPtr("Sustainable design"),
		}
		_, err := s.InsertFirm(ctx, f)
		require.NoError(t, err)

		got, err := s.GetFirmByName(ctx, "morphogenesis studio")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Morphogenesis Studio", got.FirmName)

		bySpec, err := s.ListFirms(ctx, FirmFilter{Specialization: "Sustainable"})
		require.NoError(t, err)
		assert.Len(t, bySpec, 1)
	})

	t.Run("AnalysisAppendOnly", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		r1 := &model.AnalysisResult{
			AnalysisType: model.AnalysisSWOT,
			TargetID:     int64Ptr(1),
			TargetName:   strPtr("Acme"),
			ResultJSON:   `{"strengths":["margin"]}`,
		}
		_, err := s.InsertAnalysis(ctx, r1)
		require.NoError(t, err)

		r2 := &model.AnalysisResult{
			AnalysisType: model.AnalysisSWOT,
			TargetID:     int64Ptr(1),
			TargetName:   strPtr("Acme"),
			ResultJSON:   `{"strengths":["margin","growth"]}`,
		}
		_, err = s.InsertAnalysis(ctx, r2)
		require.NoError(t, err)

		got, err := s.ListAnalyses(ctx, AnalysisFilter{Type: model.AnalysisSWOT, TargetID: int64Ptr(1)})
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("GetCompanyNotFound", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		_, err := s.GetCompany(ctx, 424242)
		require.Error(t, err)
		assert.True(t, eris.Is(err, ErrNotFound))
	})
}

func TestSQLiteStore(t *testing.T) {
	storeTestSuite(t, newTestSQLite)
}
