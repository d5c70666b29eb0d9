package resolve

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/market-intel/internal/model"
	"github.com/sells-group/market-intel/internal/store"
)

func newTestResolver(t *testing.T) (*Resolver, store.Store) {
	t.Helper()
	s, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return New(s), s
}

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func TestUpsertCompany_Idempotent(t *testing.T) {
	r, _ := newTestResolver(t)
	ctx := context.Background()

	first := &model.Company{Name: "Acme Infra Ltd", TickerSymbol: strPtr("ACME.NS")}
	id1, created1, err := r.UpsertCompany(ctx, first)
	require.NoError(t, err)
	assert.True(t, created1)

	second := &model.Company{Name: "Acme Infra Ltd", TickerSymbol: strPtr("ACME.NS")}
	id2, created2, err := r.UpsertCompany(ctx, second)
	require.NoError(t, err)
	assert.False(t, created2)
	assert.Equal(t, id1, id2)
}

func TestUpsertCompany_TickerBeatsName(t *testing.T) {
	r, st := newTestResolver(t)
	ctx := context.Background()

	byTicker := &model.Company{Name: "Acme Infrastructure Limited", TickerSymbol: strPtr("ACME.NS")}
	tickerID, _, err := r.UpsertCompany(ctx, byTicker)
	require.NoError(t, err)

	byName := &model.Company{Name: "Acme Infra", TickerSymbol: nil}
	nameID, _, err := r.UpsertCompany(ctx, byName)
	require.NoError(t, err)
	assert.NotEqual(t, tickerID, nameID)

	// Same ticker but a name matching the other row resolves by ticker.
	both := &model.Company{Name: "Acme Infra", TickerSymbol: strPtr("ACME.NS")}
	id, created, err := r.UpsertCompany(ctx, both)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, tickerID, id)

	got, err := st.GetCompany(ctx, tickerID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Infra", got.Name)
}

func TestUpsertCompany_MergeNeverRegresses(t *testing.T) {
	r, st := newTestResolver(t)
	ctx := context.Background()

	rich := &model.Company{
		Name:         "Acme Infra Ltd",
		TickerSymbol: strPtr("ACME.NS"),
		Industry:     strPtr("Engineering & Construction"),
		MarketCap:    floatPtr(1.5e10),
	}
	id, _, err := r.UpsertCompany(ctx, rich)
	require.NoError(t, err)

	sparse := &model.Company{
		Name:         "Acme Infra Ltd",
		TickerSymbol: strPtr("ACME.NS"),
		Region:       strPtr("Karnataka"),
	}
	_, created, err := r.UpsertCompany(ctx, sparse)
	require.NoError(t, err)
	assert.False(t, created)

	got, err := st.GetCompany(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got.Industry)
	assert.Equal(t, "Engineering & Construction", *got.Industry)
	require.NotNil(t, got.MarketCap)
	assert.InDelta(t, 1.5e10, *got.MarketCap, 1)
	require.NotNil(t, got.Region)
	assert.Equal(t, "Karnataka", *got.Region)
}

func TestUpsertCompany_OfficersReplaceOnRefresh(t *testing.T) {
	r, st := newTestResolver(t)
	ctx := context.Background()

	id, _, err := r.UpsertCompany(ctx, &model.Company{
		Name:     "Acme Infra Ltd",
		Officers: []model.CompanyOfficer{{Name: "A. Rao"}, {Name: "B. Iyer"}},
	})
	require.NoError(t, err)

	_, _, err = r.UpsertCompany(ctx, &model.Company{
		Name:     "Acme Infra Ltd",
		Officers: []model.CompanyOfficer{{Name: "C. Shah"}},
	})
	require.NoError(t, err)

	officers, err := st.ListOfficers(ctx, id)
	require.NoError(t, err)
	require.Len(t, officers, 1)
	assert.Equal(t, "C. Shah", officers[0].Name)
}

func TestUpsertArticle_ReingestUpdatesInPlace(t *testing.T) {
	r, st := newTestResolver(t)
	ctx := context.Background()

	url := "https://news.example.com/acme-metro"
	id1, created1, err := r.UpsertArticle(ctx, &model.NewsArticle{
		Title:     "Acme wins metro contract",
		SourceURL: url,
	})
	require.NoError(t, err)
	assert.True(t, created1)

	label := model.SentimentPositive
	id2, created2, err := r.UpsertArticle(ctx, &model.NewsArticle{
		Title:          "Acme wins metro contract (updated)",
		SourceURL:      url,
		SentimentScore: floatPtr(0.42),
		SentimentLabel: &label,
	})
	require.NoError(t, err)
	assert.False(t, created2)
	assert.Equal(t, id1, id2)

	got, err := st.GetArticleByURL(ctx, url)
	require.NoError(t, err)
	assert.Equal(t, "Acme wins metro contract (updated)", got.Title)
	require.NotNil(t, got.SentimentScore)
	assert.InDelta(t, 0.42, *got.SentimentScore, 0.001)
}

func TestUpsertTrend_AlwaysCreates(t *testing.T) {
	r, _ := newTestResolver(t)
	ctx := context.Background()

	tr := model.MarketTrend{Description: "Green buildings gaining share"}
	first := tr
	id1, created1, err := r.UpsertTrend(ctx, &first)
	require.NoError(t, err)
	assert.True(t, created1)

	second := tr
	id2, created2, err := r.UpsertTrend(ctx, &second)
	require.NoError(t, err)
	assert.True(t, created2)
	assert.NotEqual(t, id1, id2)
}

func TestUpsertLead_StatusNeverRewinds(t *testing.T) {
	r, st := newTestResolver(t)
	ctx := context.Background()

	id, _, err := r.UpsertLead(ctx, &model.Lead{CompanyName: "Acme Infra Ltd", Status: model.LeadNew})
	require.NoError(t, err)
	require.NoError(t, st.UpdateLeadStatus(ctx, id, model.LeadQualified))

	_, created, err := r.UpsertLead(ctx, &model.Lead{
		CompanyName: "Acme Infra Ltd",
		Status:      model.LeadNew,
		Score:       floatPtr(0.8),
	})
	require.NoError(t, err)
	assert.False(t, created)

	got, err := st.GetLead(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.LeadQualified, got.Status)
	require.NotNil(t, got.Score)
	assert.InDelta(t, 0.8, *got.Score, 0.001)
}

func TestUpsertProject_DeveloperPlaceholderCreatedOnce(t *testing.T) {
	r, st := newTestResolver(t)
	ctx := context.Background()

	p1 := &model.RealEstateProject{
		ProjectName:        "Emerald Heights",
		DeveloperName:      strPtr("Skyline Developers"),
		RERARegistrationID: strPtr("P52100012345"),
	}
	_, created, err := r.UpsertProject(ctx, p1)
	require.NoError(t, err)
	assert.True(t, created)
	require.NotNil(t, p1.DeveloperID)

	dev, err := st.GetCompany(ctx, *p1.DeveloperID)
	require.NoError(t, err)
	assert.Equal(t, "Skyline Developers", dev.Name)
	assert.Equal(t, model.SourceDerived, dev.DataSource)

	p2 := &model.RealEstateProject{
		ProjectName:        "Emerald Towers",
		DeveloperName:      strPtr("Skyline Developers"),
		RERARegistrationID: strPtr("P52100099999"),
	}
	_, _, err = r.UpsertProject(ctx, p2)
	require.NoError(t, err)
	require.NotNil(t, p2.DeveloperID)
	assert.Equal(t, *p1.DeveloperID, *p2.DeveloperID)

	companies, err := st.ListCompanies(ctx, store.CompanyFilter{})
	require.NoError(t, err)
	assert.Len(t, companies, 1)
}

func TestUpsertProject_RERADedup(t *testing.T) {
	r, _ := newTestResolver(t)
	ctx := context.Background()

	rera := "P52100012345"
	id1, _, err := r.UpsertProject(ctx, &model.RealEstateProject{
		ProjectName:        "Emerald Heights",
		RERARegistrationID: &rera,
	})
	require.NoError(t, err)

	id2, created, err := r.UpsertProject(ctx, &model.RealEstateProject{
		ProjectName:        "Emerald Heights Phase II",
		RERARegistrationID: &rera,
		City:               strPtr("Pune"),
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, id1, id2)
}

func TestUpsertFirm_LinksCompany(t *testing.T) {
	r, st := newTestResolver(t)
	ctx := context.Background()

	f := &model.ArchitecturalFirm{FirmName: "Morphogenesis Studio", City: strPtr("Delhi")}
	_, created, err := r.UpsertFirm(ctx, f)
	require.NoError(t, err)
	assert.True(t, created)
	require.NotNil(t, f.CompanyID)

	linked, err := st.GetCompany(ctx, *f.CompanyID)
	require.NoError(t, err)
	assert.Equal(t, "Morphogenesis Studio", linked.Name)

	again := &model.ArchitecturalFirm{FirmName: "Morphogenesis Studio", Specialization: strPtr("Sustainable design")}
	_, created2, err := r.UpsertFirm(ctx, again)
	require.NoError(t, err)
	assert.False(t, created2)
	assert.Equal(t, *f.CompanyID, *again.CompanyID)
}
