package export

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/market-intel/internal/model"
	"github.com/sells-group/market-intel/internal/store"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func TestQualifiedLeads(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	for _, l := range []model.Lead{
		{CompanyName: "Acme Estates", Industry: strPtr("Real Estate"), Score: floatPtr(0.8), Status: model.LeadQualified},
		{CompanyName: "Skyline Developers", Industry: strPtr("Real Estate"), Score: floatPtr(0.6), Status: model.LeadQualified},
		{CompanyName: "Offside Hotels", Score: floatPtr(0.2), Status: model.LeadDisqualified},
	} {
		l := l
		_, err := st.InsertLead(ctx, &l)
		require.NoError(t, err)
	}

	path := filepath.Join(t.TempDir(), "leads.xlsx")
	n, err := QualifiedLeads(ctx, st, store.LeadFilter{Status: model.LeadQualified}, path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 2)

	summary := f.Sheet["Summary"]
	require.NotNil(t, summary)
	assert.NotEmpty(t, summary.Rows)

	leads := f.Sheet["Leads"]
	require.NotNil(t, leads)
	// Header plus two qualified rows.
	require.Len(t, leads.Rows, 3)
	assert.Equal(t, "Company", leads.Rows[0].Cells[0].String())
	assert.Equal(t, "Acme Estates", leads.Rows[1].Cells[0].String())
	assert.Equal(t, "Qualified", leads.Rows[1].Cells[5].String())
}

func TestQualifiedLeads_EmptyResult(t *testing.T) {
	st := newTestStore(t)

	path := filepath.Join(t.TempDir(), "empty.xlsx")
	n, err := QualifiedLeads(context.Background(), st, store.LeadFilter{Status: model.LeadClosed}, path)
	require.NoError(t, err)
	assert.Zero(t, n)

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	leads := f.Sheet["Leads"]
	require.NotNil(t, leads)
	require.Len(t, leads.Rows, 1)
}
