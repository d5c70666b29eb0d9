// Package analysis derives SWOT, competitor and trend reports from stored
// entities. Every build persists a fresh append-only AnalysisResult row so
// reports generated at different times stay comparable.
package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/market-intel/internal/model"
	"github.com/sells-group/market-intel/internal/store"
)

// Options bound how much history a report considers.
type Options struct {
	NewsWindowDays  int
	TrendWindowDays int
	MaxTrends       int
}

// DefaultOptions are the windows used when the caller passes zero values.
var DefaultOptions = Options{
	NewsWindowDays:  30,
	TrendWindowDays: 90,
	MaxTrends:       10,
}

// Analyzer builds reports over the store.
type Analyzer struct {
	store store.Store
	opts  Options
}

// New builds an Analyzer. Zero option fields fall back to DefaultOptions.
func New(st store.Store, opts Options) *Analyzer {
	if opts.NewsWindowDays <= 0 {
		opts.NewsWindowDays = DefaultOptions.NewsWindowDays
	}
	if opts.TrendWindowDays <= 0 {
		opts.TrendWindowDays = DefaultOptions.TrendWindowDays
	}
	if opts.MaxTrends <= 0 {
		opts.MaxTrends = DefaultOptions.MaxTrends
	}
	return &Analyzer{store: st, opts: opts}
}

// SWOT is the stored shape of a SWOT analysis.
type SWOT struct {
	CompanyID     int64     `json:"company_id"`
	CompanyName   string    `json:"company_name"`
	Industry      string    `json:"industry,omitempty"`
	Competitors   int       `json:"competitors_compared"`
	Strengths     []string  `json:"strengths"`
	Weaknesses    []string  `json:"weaknesses"`
	Opportunities []string  `json:"opportunities"`
	Threats       []string  `json:"threats"`
	GeneratedAt   time.Time `json:"generated_at"`
}

// BuildSWOT compares a company against the median of its industry peers for
// strengths and weaknesses, and reads opportunities and threats off trend and
// news sentiment.
func (a *Analyzer) BuildSWOT(ctx context.Context, companyID int64) (*SWOT, error) {
	company, err := a.store.GetCompany(ctx, companyID)
	if err != nil {
		return nil, eris.Wrap(err, "analysis: load company")
	}

	industry := ""
	if company.Industry != nil {
		industry = *company.Industry
	}

	peers, err := a.industryPeers(ctx, industry, companyID)
	if err != nil {
		return nil, err
	}

	s := &SWOT{
		CompanyID:   companyID,
		CompanyName: company.Name,
		Industry:    industry,
		Competitors: len(peers),
		GeneratedAt: time.Now().UTC(),
	}

	for _, m := range []struct {
		label string
		value *float64
		pick  func(*model.Company) *float64
	}{
		{"profit margin", company.ProfitMargin, func(c *model.Company) *float64 { return c.ProfitMargin }},
		{"revenue growth", company.GrowthRate, func(c *model.Company) *float64 { return c.GrowthRate }},
		{"market capitalization", company.MarketCap, func(c *model.Company) *float64 { return c.MarketCap }},
		{"innovativeness score", company.Innovativeness, func(c *model.Company) *float64 { return c.Innovativeness }},
		{"hiring score", company.Hiring, func(c *model.Company) *float64 { return c.Hiring }},
		{"sustainability score", company.Sustainability, func(c *model.Company) *float64 { return c.Sustainability }},
	} {
		if m.value == nil {
			continue
		}
		med, ok := median(peers, m.pick)
		if !ok {
			continue
		}
		switch {
		case *m.value > med:
			s.Strengths = append(s.Strengths, fmt.Sprintf("%s above industry median (%.2f vs %.2f)", m.label, *m.value, med))
		case *m.value < med:
			s.Weaknesses = append(s.Weaknesses, fmt.Sprintf("%s below industry median (%.2f vs %.2f)", m.label, *m.value, med))
		}
	}

	if company.InsiderSentiment != nil && *company.InsiderSentiment < 0 {
		s.Weaknesses = append(s.Weaknesses, fmt.Sprintf("negative insider sentiment (%.2f)", *company.InsiderSentiment))
	}

	trends, err := a.store.ListTrends(ctx, store.TrendFilter{Industry: industry, Limit: a.opts.MaxTrends})
	if err != nil {
		return nil, eris.Wrap(err, "analysis: list trends")
	}
	for _, tr := range trends {
		if tr.SentimentScore == nil {
			continue
		}
		if *tr.SentimentScore > 0 {
			s.Opportunities = append(s.Opportunities, tr.Description)
		} else if *tr.SentimentScore < 0 {
			s.Threats = append(s.Threats, tr.Description)
		}
	}

	articles, err := a.store.ListArticles(ctx, store.ArticleFilter{CompanyID: &companyID})
	if err != nil {
		return nil, eris.Wrap(err, "analysis: list articles")
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -a.opts.NewsWindowDays)
	for _, art := range articles {
		if art.SentimentLabel == nil || art.CollectedDate.Before(cutoff) {
			continue
		}
		switch *art.SentimentLabel {
		case model.SentimentPositive:
			s.Opportunities = append(s.Opportunities, fmt.Sprintf("positive coverage: %s", art.Title))
		case model.SentimentNegative:
			s.Threats = append(s.Threats, fmt.Sprintf("negative coverage: %s", art.Title))
		}
	}

	if err := a.persist(ctx, model.AnalysisSWOT, &companyID, &company.Name, s); err != nil {
		return nil, err
	}
	zap.L().Info("analysis: swot built",
		zap.String("company", company.Name),
		zap.Int("competitors", s.Competitors),
	)
	return s, nil
}

// CompetitorEntry is one company row inside a competitor report.
type CompetitorEntry struct {
	CompanyID      int64    `json:"company_id"`
	Name           string   `json:"name"`
	MarketCap      *float64 `json:"market_cap,omitempty"`
	Revenue        *float64 `json:"revenue,omitempty"`
	ProfitMargin   *float64 `json:"profit_margin,omitempty"`
	GrowthRate     *float64 `json:"growth_rate,omitempty"`
	Innovativeness *float64 `json:"innovativeness,omitempty"`
	NewsSentiment  *float64 `json:"news_sentiment,omitempty"`
	Articles       int      `json:"articles"`
}

// CompetitorReport is the stored shape of an industry competitor comparison.
type CompetitorReport struct {
	Industry    string            `json:"industry"`
	Companies   []CompetitorEntry `json:"companies"`
	GeneratedAt time.Time         `json:"generated_at"`
}

// BuildCompetitorReport profiles every company in an industry, including its
// average news sentiment over the configured window, ordered by market cap.
func (a *Analyzer) BuildCompetitorReport(ctx context.Context, industry string) (*CompetitorReport, error) {
	companies, err := a.store.ListCompanies(ctx, store.CompanyFilter{Industry: industry})
	if err != nil {
		return nil, eris.Wrap(err, "analysis: list companies")
	}
	if len(companies) == 0 {
		return nil, eris.Wrapf(store.ErrNotFound, "no companies in industry %q", industry)
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -a.opts.NewsWindowDays)
	report := &CompetitorReport{Industry: industry, GeneratedAt: time.Now().UTC()}
	for _, c := range companies {
		entry := CompetitorEntry{
			CompanyID:      c.ID,
			Name:           c.Name,
			MarketCap:      c.MarketCap,
			Revenue:        c.Revenue,
			ProfitMargin:   c.ProfitMargin,
			GrowthRate:     c.GrowthRate,
			Innovativeness: c.Innovativeness,
		}
		articles, err := a.store.ListArticles(ctx, store.ArticleFilter{CompanyID: &c.ID})
		if err != nil {
			return nil, eris.Wrap(err, "analysis: list articles")
		}
		var sum float64
		for _, art := range articles {
			if art.SentimentScore == nil || art.CollectedDate.Before(cutoff) {
				continue
			}
			sum += *art.SentimentScore
			entry.Articles++
		}
		if entry.Articles > 0 {
			avg := sum / float64(entry.Articles)
			entry.NewsSentiment = &avg
		}
		report.Companies = append(report.Companies, entry)
	}

	sort.SliceStable(report.Companies, func(i, j int) bool {
		return deref(report.Companies[i].MarketCap) > deref(report.Companies[j].MarketCap)
	})

	if err := a.persist(ctx, model.AnalysisCompetitor, nil, &industry, report); err != nil {
		return nil, err
	}
	return report, nil
}

// TrendReport is the stored shape of an industry/region trend digest.
type TrendReport struct {
	Industry         string         `json:"industry,omitempty"`
	Region           string         `json:"region,omitempty"`
	TrendCount       int            `json:"trend_count"`
	AverageSentiment *float64       `json:"average_sentiment,omitempty"`
	ByType           map[string]int `json:"by_type,omitempty"`
	Highlights       []string       `json:"highlights"`
	GeneratedAt      time.Time      `json:"generated_at"`
}

// BuildTrendReport digests recent trends for an industry and/or region.
func (a *Analyzer) BuildTrendReport(ctx context.Context, industry, region string) (*TrendReport, error) {
	trends, err := a.store.ListTrends(ctx, store.TrendFilter{Industry: industry, Region: region})
	if err != nil {
		return nil, eris.Wrap(err, "analysis: list trends")
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -a.opts.TrendWindowDays)
	report := &TrendReport{
		Industry:    industry,
		Region:      region,
		ByType:      make(map[string]int),
		GeneratedAt: time.Now().UTC(),
	}
	var sum float64
	scored := 0
	for _, tr := range trends {
		if tr.CollectedDate.Before(cutoff) {
			continue
		}
		report.TrendCount++
		if tr.TrendType != nil {
			report.ByType[*tr.TrendType]++
		}
		if tr.SentimentScore != nil {
			sum += *tr.SentimentScore
			scored++
		}
		if len(report.Highlights) < a.opts.MaxTrends {
			report.Highlights = append(report.Highlights, tr.Description)
		}
	}
	if scored > 0 {
		avg := sum / float64(scored)
		report.AverageSentiment = &avg
	}

	name := industry
	if name == "" {
		name = region
	}
	if err := a.persist(ctx, model.AnalysisTrend, nil, &name, report); err != nil {
		return nil, err
	}
	return report, nil
}

func (a *Analyzer) persist(ctx context.Context, typ model.AnalysisType, targetID *int64, targetName *string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return eris.Wrap(err, "analysis: encode result")
	}
	_, err = a.store.InsertAnalysis(ctx, &model.AnalysisResult{
		AnalysisType: typ,
		TargetID:     targetID,
		TargetName:   targetName,
		ResultJSON:   string(raw),
	})
	if err != nil {
		return eris.Wrap(err, "analysis: persist result")
	}
	return nil
}

func (a *Analyzer) industryPeers(ctx context.Context, industry string, excludeID int64) ([]model.Company, error) {
	if industry == "" {
		return nil, nil
	}
	companies, err := a.store.ListCompanies(ctx, store.CompanyFilter{Industry: industry})
	if err != nil {
		return nil, eris.Wrap(err, "analysis: list peers")
	}
	peers := companies[:0]
	for _, c := range companies {
		if c.ID != excludeID {
			peers = append(peers, c)
		}
	}
	return peers, nil
}

// median extracts one metric from each peer and returns the median of the
// non-nil values.
func median(peers []model.Company, pick func(*model.Company) *float64) (float64, bool) {
	var values []float64
	for i := range peers {
		if v := pick(&peers[i]); v != nil {
			values = append(values, *v)
		}
	}
	if len(values) == 0 {
		return 0, false
	}
	sort.Float64s(values)
	mid := len(values) / 2
	if len(values)%2 == 1 {
		return values[mid], true
	}
	return (values[mid-1] + values[mid]) / 2, true
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
