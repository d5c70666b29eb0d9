package ingest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/market-intel/internal/model"
	"github.com/sells-group/market-intel/internal/normalize"
	"github.com/sells-group/market-intel/internal/resolve"
	"github.com/sells-group/market-intel/internal/store"
)

func newTestRunner(t *testing.T) (*Runner, store.Store) {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(context.Background()))
	return NewRunner(resolve.New(st), 0, 0), st
}

func TestRun_MixedBatch(t *testing.T) {
	r, st := newTestRunner(t)
	ctx := context.Background()

	records := []Record{
		{Kind: normalize.KindCompany, Data: normalize.Raw{
			"name":          "Acme Infra Ltd",
			"ticker_symbol": "ACME.NS",
			"industry":      "Engineering & Construction",
		}},
		{Kind: normalize.KindArticle, Data: normalize.Raw{
			"title":      "Acme wins major metro contract",
			"source_url": "https://news.example.com/acme-metro",
		}},
		{Kind: normalize.KindProject, Data: normalize.Raw{
			"project_name": "Emerald Heights",
			"developer":    "Skyline Developers",
			"rera_id":      "P52100012345",
		}},
	}

	summary, err := r.Run(ctx, records)
	require.NoError(t, err)
	assert.NotEmpty(t, summary.BatchID)
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 3, summary.Succeeded)
	assert.Equal(t, 3, summary.Created)
	assert.Zero(t, summary.Failed)

	// The article picked up a sentiment score on the way through.
	a, err := st.GetArticleByURL(ctx, "https://news.example.com/acme-metro")
	require.NoError(t, err)
	require.NotNil(t, a)
	require.NotNil(t, a.SentimentScore)
	assert.Positive(t, *a.SentimentScore)
	require.NotNil(t, a.SentimentLabel)
	assert.Equal(t, model.SentimentPositive, *a.SentimentLabel)

	// The project's developer got a placeholder company.
	dev, err := st.GetCompanyByName(ctx, "Skyline Developers")
	require.NoError(t, err)
	require.NotNil(t, dev)
	assert.Equal(t, model.SourceDerived, dev.DataSource)
}

func TestRun_MalformedRecordDroppedBatchContinues(t *testing.T) {
	r, st := newTestRunner(t)
	ctx := context.Background()

	records := []Record{
		{Kind: normalize.KindCompany, Data: normalize.Raw{"industry": "Technology"}},
		{Kind: normalize.KindCompany, Data: normalize.Raw{"name": "Acme"}},
		{Kind: normalize.KindArticle, Data: normalize.Raw{"title": "no url"}},
	}

	summary, err := r.Run(ctx, records)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 2, summary.Failed)
	require.Len(t, summary.Errors, 2)
	assert.Equal(t, 0, summary.Errors[0].Index)
	assert.Equal(t, 2, summary.Errors[1].Index)

	c, err := st.GetCompanyByName(ctx, "Acme")
	require.NoError(t, err)
	assert.NotNil(t, c)
}

func TestRun_ReingestUpdatesInsteadOfCreating(t *testing.T) {
	r, _ := newTestRunner(t)
	ctx := context.Background()

	article := Record{Kind: normalize.KindArticle, Data: normalize.Raw{
		"title":      "Acme quarterly update",
		"source_url": "https://news.example.com/q1",
	}}

	first, err := r.Run(ctx, []Record{article})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Created)

	second, err := r.Run(ctx, []Record{article})
	require.NoError(t, err)
	assert.Zero(t, second.Created)
	assert.Equal(t, 1, second.Updated)
}

func TestRun_UnknownKind(t *testing.T) {
	r, _ := newTestRunner(t)

	summary, err := r.Run(context.Background(), []Record{
		{Kind: "invoice", Data: normalize.Raw{"total": 100}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Failed)
	require.Len(t, summary.Errors, 1)
	assert.Contains(t, summary.Errors[0].Reason, "unknown record kind")
}

func TestRun_EmptyBatch(t *testing.T) {
	r, _ := newTestRunner(t)

	summary, err := r.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, summary.Total)
	assert.NotEmpty(t, summary.BatchID)
}
