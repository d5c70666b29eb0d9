package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/market-intel/internal/model"
)

// Sentinel errors shared by both backends. Callers match them with eris.Is.
var (
	// ErrNotFound is returned by id-based getters when no row exists.
	ErrNotFound = eris.New("store: not found")
	// ErrConflict is returned when an insert or update violates a natural-key
	// uniqueness constraint.
	ErrConflict = eris.New("store: conflict")
	// ErrUnavailable is returned when the backing database cannot be reached.
	ErrUnavailable = eris.New("store: unavailable")
)

// CompanyFilter specifies criteria for listing companies.
type CompanyFilter struct {
	Industry string `json:"industry,omitempty"`
	Region   string `json:"region,omitempty"`
	Limit    int    `json:"limit,omitempty"`
	Offset   int    `json:"offset,omitempty"`
}

// ArticleFilter specifies criteria for listing news articles.
type ArticleFilter struct {
	CompanyID *int64 `json:"company_id,omitempty"`
	Industry  string `json:"industry,omitempty"`
	Topic     string `json:"topic,omitempty"`
	Limit     int    `json:"limit,omitempty"`
	Offset    int    `json:"offset,omitempty"`
}

// TrendFilter specifies criteria for listing market trends.
type TrendFilter struct {
	Industry string `json:"industry,omitempty"`
	Region   string `json:"region,omitempty"`
	Limit    int    `json:"limit,omitempty"`
	Offset   int    `json:"offset,omitempty"`
}

// LeadFilter specifies criteria for listing leads.
type LeadFilter struct {
	Status   model.LeadStatus `json:"status,omitempty"`
	ICPID    *int64           `json:"icp_id,omitempty"`
	MinScore *float64         `json:"min_score,omitempty"`
	Limit    int              `json:"limit,omitempty"`
	Offset   int              `json:"offset,omitempty"`
}

// ProjectFilter specifies criteria for listing real-estate projects.
type ProjectFilter struct {
	City   string `json:"city,omitempty"`
	Region string `json:"region,omitempty"`
	Status string `json:"status,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

// FirmFilter specifies criteria for listing architectural firms.
type FirmFilter struct {
	City           string `json:"city,omitempty"`
	Specialization string `json:"specialization,omitempty"`
	Limit          int    `json:"limit,omitempty"`
	Offset         int    `json:"offset,omitempty"`
}

// AnalysisFilter specifies criteria for listing analysis results.
type AnalysisFilter struct {
	Type     model.AnalysisType `json:"analysis_type,omitempty"`
	TargetID *int64             `json:"target_entity_id,omitempty"`
	Limit    int                `json:"limit,omitempty"`
	Offset   int                `json:"offset,omitempty"`
}

// Store defines the persistence interface for the intelligence pipeline.
// Natural-key getters (by ticker, URL, name) return (nil, nil) on a miss so
// the resolver can treat absence as a normal outcome; id-based getters return
// ErrNotFound.
type Store interface {
	// Companies
	InsertCompany(ctx context.Context, c *model.Company) (int64, error)
	UpdateCompany(ctx context.Context, c *model.Company) error
	GetCompany(ctx context.Context, id int64) (*model.Company, error)
	GetCompanyByTicker(ctx context.Context, ticker string) (*model.Company, error)
	GetCompanyByName(ctx context.Context, name string) (*model.Company, error)
	ListCompanies(ctx context.Context, filter CompanyFilter) ([]model.Company, error)
	ReplaceOfficers(ctx context.Context, companyID int64, officers []model.CompanyOfficer) error
	ListOfficers(ctx context.Context, companyID int64) ([]model.CompanyOfficer, error)

	// News articles
	InsertArticle(ctx context.Context, a *model.NewsArticle) (int64, error)
	UpdateArticle(ctx context.Context, a *model.NewsArticle) error
	GetArticleByURL(ctx context.Context, sourceURL string) (*model.NewsArticle, error)
	ListArticles(ctx context.Context, filter ArticleFilter) ([]model.NewsArticle, error)

	// Market trends
	InsertTrend(ctx context.Context, t *model.MarketTrend) (int64, error)
	ListTrends(ctx context.Context, filter TrendFilter) ([]model.MarketTrend, error)

	// ICPs
	InsertICP(ctx context.Context, p *model.ICP) (int64, error)
	UpdateICP(ctx context.Context, p *model.ICP) error
	GetICP(ctx context.Context, id int64) (*model.ICP, error)
	GetICPByName(ctx context.Context, profileName string) (*model.ICP, error)
	ListICPs(ctx context.Context) ([]model.ICP, error)
	TouchICP(ctx context.Context, id int64) error

	// Leads
	InsertLead(ctx context.Context, l *model.Lead) (int64, error)
	UpdateLead(ctx context.Context, l *model.Lead) error
	GetLead(ctx context.Context, id int64) (*model.Lead, error)
	GetLeadByCompanyName(ctx context.Context, companyName string) (*model.Lead, error)
	ListLeads(ctx context.Context, filter LeadFilter) ([]model.Lead, error)
	UpdateLeadStatus(ctx context.Context, id int64, status model.LeadStatus) error

	// Real-estate projects
	InsertProject(ctx context.Context, p *model.RealEstateProject) (int64, error)
	UpdateProject(ctx context.Context, p *model.RealEstateProject) error
	GetProjectByRERA(ctx context.Context, reraID string) (*model.RealEstateProject, error)
	ListProjects(ctx context.Context, filter ProjectFilter) ([]model.RealEstateProject, error)

	// Architectural firms
	InsertFirm(ctx context.Context, f *model.ArchitecturalFirm) (int64, error)
	UpdateFirm(ctx context.Context, f *model.ArchitecturalFirm) error
	GetFirmByName(ctx context.Context, firmName string) (*model.ArchitecturalFirm, error)
	ListFirms(ctx context.Context, filter FirmFilter) ([]model.ArchitecturalFirm, error)

	// Analysis results (append-only)
	InsertAnalysis(ctx context.Context, r *model.AnalysisResult) (int64, error)
	ListAnalyses(ctx context.Context, filter AnalysisFilter) ([]model.AnalysisResult, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
