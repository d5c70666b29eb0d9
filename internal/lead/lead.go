// Package lead runs prospect scoring and owns the outreach lifecycle.
package lead

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/market-intel/internal/icp"
	"github.com/sells-group/market-intel/internal/model"
	"github.com/sells-group/market-intel/internal/resolve"
	"github.com/sells-group/market-intel/internal/store"
)

// ErrInvalidTransition is returned for lifecycle moves the state machine does
// not allow.
var ErrInvalidTransition = eris.New("lead: invalid status transition")

// DefaultMaxProspects caps how many companies one scoring run considers.
const DefaultMaxProspects = 200

// Service scores prospects against ICPs and advances lead lifecycles.
type Service struct {
	store    store.Store
	resolver *resolve.Resolver
}

// NewService wires a Service over the store and resolver.
func NewService(st store.Store, r *resolve.Resolver) *Service {
	return &Service{store: st, resolver: r}
}

// RunSummary reports the outcome of one scoring run.
type RunSummary struct {
	ICPID        int64   `json:"icp_id"`
	ProfileName  string  `json:"profile_name"`
	Scored       int     `json:"scored"`
	Qualified    int     `json:"qualified"`
	Disqualified int     `json:"disqualified"`
	AverageScore float64 `json:"average_score"`
}

// Generate finds prospect companies matching the profile's categorical
// filters, scores each against the profile and upserts a lead per company.
// Newly scored leads move to Qualified or Disqualified automatically;
// re-scored leads keep whatever lifecycle state outreach has advanced them
// to.
func (s *Service) Generate(ctx context.Context, icpID int64, maxProspects int) (*RunSummary, error) {
	profile, err := s.store.GetICP(ctx, icpID)
	if err != nil {
		return nil, eris.Wrap(err, "lead: load icp")
	}
	criteria, err := icp.ParseJSON(profile.CriteriaJSON)
	if err != nil {
		return nil, err
	}
	if maxProspects <= 0 {
		maxProspects = DefaultMaxProspects
	}

	prospects, err := s.findProspects(ctx, criteria, maxProspects)
	if err != nil {
		return nil, err
	}

	summary := &RunSummary{ICPID: icpID, ProfileName: profile.ProfileName}
	var total float64
	for i := range prospects {
		ev, err := s.scoreProspect(ctx, &prospects[i], profile.ID, criteria)
		if err != nil {
			return nil, err
		}
		summary.Scored++
		total += ev.Score
		if ev.Qualified {
			summary.Qualified++
		} else {
			summary.Disqualified++
		}
	}
	if summary.Scored > 0 {
		summary.AverageScore = total / float64(summary.Scored)
	}

	if err := s.store.TouchICP(ctx, icpID); err != nil {
		return nil, eris.Wrap(err, "lead: touch icp")
	}

	zap.L().Info("lead: scoring run complete",
		zap.String("profile", profile.ProfileName),
		zap.Int("scored", summary.Scored),
		zap.Int("qualified", summary.Qualified),
		zap.Float64("average_score", summary.AverageScore),
	)
	return summary, nil
}

// Rescore re-evaluates the existing leads linked to a profile. Scores and
// qualification reasons refresh; lifecycle states past New are untouched.
func (s *Service) Rescore(ctx context.Context, icpID int64) (*RunSummary, error) {
	profile, err := s.store.GetICP(ctx, icpID)
	if err != nil {
		return nil, eris.Wrap(err, "lead: load icp")
	}
	criteria, err := icp.ParseJSON(profile.CriteriaJSON)
	if err != nil {
		return nil, err
	}

	leads, err := s.store.ListLeads(ctx, store.LeadFilter{ICPID: &icpID})
	if err != nil {
		return nil, eris.Wrap(err, "lead: list leads")
	}

	summary := &RunSummary{ICPID: icpID, ProfileName: profile.ProfileName}
	var total float64
	for i := range leads {
		l := &leads[i]
		ev, err := icp.ScoreLead(l, criteria)
		if err != nil {
			return nil, err
		}
		l.Score = &ev.Score
		l.QualificationReason = &ev.Reason
		if err := s.store.UpdateLead(ctx, l); err != nil {
			return nil, eris.Wrapf(err, "lead: update %q", l.CompanyName)
		}
		if err := s.applyScoringTransition(ctx, l, ev.Qualified); err != nil {
			return nil, err
		}
		summary.Scored++
		total += ev.Score
		if ev.Qualified {
			summary.Qualified++
		} else {
			summary.Disqualified++
		}
	}
	if summary.Scored > 0 {
		summary.AverageScore = total / float64(summary.Scored)
	}

	if err := s.store.TouchICP(ctx, icpID); err != nil {
		return nil, eris.Wrap(err, "lead: touch icp")
	}
	return summary, nil
}

// Advance moves a lead to the requested lifecycle state, enforcing the state
// machine.
func (s *Service) Advance(ctx context.Context, leadID int64, to model.LeadStatus) error {
	if !to.Valid() {
		return eris.Wrapf(ErrInvalidTransition, "unknown status %q", to)
	}
	l, err := s.store.GetLead(ctx, leadID)
	if err != nil {
		return eris.Wrap(err, "lead: load lead")
	}
	if !l.Status.CanTransition(to) {
		return eris.Wrapf(ErrInvalidTransition, "%s -> %s", l.Status, to)
	}
	if err := s.store.UpdateLeadStatus(ctx, leadID, to); err != nil {
		return eris.Wrap(err, "lead: update status")
	}
	zap.L().Info("lead: status advanced",
		zap.Int64("lead_id", leadID),
		zap.String("from", string(l.Status)),
		zap.String("to", string(to)),
	)
	return nil
}

// findProspects lists companies matching the profile's categorical filters.
// Multi-valued industry criteria fan out into one query per value, deduped
// by company id.
func (s *Service) findProspects(ctx context.Context, criteria *icp.Criteria, limit int) ([]model.Company, error) {
	industries := []string{""}
	if criteria.Industry != nil {
		industries = criteria.Industry.In
	}

	seen := make(map[int64]bool)
	var prospects []model.Company
	for _, industry := range industries {
		companies, err := s.store.ListCompanies(ctx, store.CompanyFilter{Industry: industry, Limit: limit})
		if err != nil {
			return nil, eris.Wrap(err, "lead: list prospects")
		}
		for _, c := range companies {
			if seen[c.ID] || len(prospects) >= limit {
				continue
			}
			seen[c.ID] = true
			prospects = append(prospects, c)
		}
	}
	return prospects, nil
}

// scoreProspect evaluates one company and upserts its lead row.
func (s *Service) scoreProspect(ctx context.Context, c *model.Company, icpID int64, criteria *icp.Criteria) (icp.Evaluation, error) {
	l := leadFromCompany(c, icpID)
	ev, err := icp.ScoreLead(l, criteria)
	if err != nil {
		return icp.Evaluation{}, err
	}
	l.Score = &ev.Score
	l.QualificationReason = &ev.Reason

	id, _, err := s.resolver.UpsertLead(ctx, l)
	if err != nil {
		return icp.Evaluation{}, err
	}

	stored, err := s.store.GetLead(ctx, id)
	if err != nil {
		return icp.Evaluation{}, eris.Wrap(err, "lead: reload lead")
	}
	if err := s.applyScoringTransition(ctx, stored, ev.Qualified); err != nil {
		return icp.Evaluation{}, err
	}
	return ev, nil
}

// applyScoringTransition performs the automatic New -> Qualified/Disqualified
// move. Any other state is outreach progress and stays put.
func (s *Service) applyScoringTransition(ctx context.Context, l *model.Lead, qualified bool) error {
	if l.Status != model.LeadNew {
		return nil
	}
	next := model.LeadDisqualified
	if qualified {
		next = model.LeadQualified
	}
	if err := s.store.UpdateLeadStatus(ctx, l.ID, next); err != nil {
		return eris.Wrap(err, "lead: apply scoring status")
	}
	return nil
}

// leadFromCompany projects the company attributes the scoring engine reads.
func leadFromCompany(c *model.Company, icpID int64) *model.Lead {
	l := &model.Lead{
		ICPID:       &icpID,
		CompanyName: c.Name,
		Industry:    c.Industry,
		Region:      c.Region,
		Website:     c.Website,
		Status:      model.LeadNew,
	}
	if c.EmployeeCount != nil {
		bucket := SizeBucket(*c.EmployeeCount)
		l.CompanySize = &bucket
	}
	return l
}

// SizeBucket maps a headcount to the company_size buckets ICP criteria use.
func SizeBucket(employees int) string {
	switch {
	case employees <= 10:
		return "1-10"
	case employees <= 50:
		return "11-50"
	case employees <= 200:
		return "51-200"
	case employees <= 500:
		return "201-500"
	case employees <= 1000:
		return "501-1000"
	default:
		return "1000+"
	}
}

// FormatStatus renders a lifecycle state with its allowed next moves, for CLI
// output.
func FormatStatus(s model.LeadStatus) string {
	next := []model.LeadStatus{
		model.LeadQualified, model.LeadDisqualified, model.LeadPending,
		model.LeadContacted, model.LeadNurturing, model.LeadClosed,
	}
	var allowed []string
	for _, n := range next {
		if s.CanTransition(n) {
			allowed = append(allowed, string(n))
		}
	}
	if len(allowed) == 0 {
		return fmt.Sprintf("%s (terminal)", s)
	}
	return fmt.Sprintf("%s (next: %v)", s, allowed)
}
