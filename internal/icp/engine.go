package icp

import (
	"fmt"
	"strings"

	"github.com/sells-group/market-intel/internal/model"
)

// Evaluation is the outcome of scoring one lead against one profile.
type Evaluation struct {
	Score     float64
	Qualified bool
	Reason    string
}

// ScoreLead rates a lead against the criteria. The aggregate is the
// weight-normalized sum of per-criterion scores, so it always lands in
// [0, 1] regardless of the raw weights. A lead missing an attribute scores 0
// on that criterion rather than being skipped. Deterministic.
func ScoreLead(lead *model.Lead, c *Criteria) (Evaluation, error) {
	if err := c.Validate(); err != nil {
		return Evaluation{}, err
	}

	type component struct {
		name   string
		score  float64
		weight float64
	}
	var parts []component

	if c.Industry != nil {
		parts = append(parts, component{"industry", scoreSet(lead.Industry, c.Industry), weightOf(c.Industry.Weight)})
	}
	if c.Region != nil {
		parts = append(parts, component{"region", scoreSet(lead.Region, c.Region), weightOf(c.Region.Weight)})
	}
	if c.CompanySize != nil {
		parts = append(parts, component{"company_size", scoreSet(lead.CompanySize, c.CompanySize), weightOf(c.CompanySize.Weight)})
	}
	if c.Technology != nil {
		parts = append(parts, component{"technology", scoreContains(lead.TechnologiesUsed, c.Technology), weightOf(c.Technology.Weight)})
	}
	if c.EngagementLevel != nil {
		parts = append(parts, component{"engagement_level", scoreRange(lead.EngagementLevel, c.EngagementLevel), weightOf(c.EngagementLevel.Weight)})
	}

	var sum, totalWeight float64
	lowest := parts[0]
	for _, p := range parts {
		sum += p.score * p.weight
		totalWeight += p.weight
		if p.score < lowest.score {
			lowest = p
		}
	}
	score := sum / totalWeight

	threshold := c.Threshold()
	qualified := score >= threshold

	var reason string
	switch {
	case qualified:
		reason = fmt.Sprintf("score %.2f meets threshold %.2f", score, threshold)
	case lowest.score < 1:
		reason = fmt.Sprintf("%s mismatch: score %.2f below threshold %.2f", lowest.name, score, threshold)
	default:
		reason = fmt.Sprintf("score %.2f below threshold %.2f", score, threshold)
	}

	return Evaluation{Score: score, Qualified: qualified, Reason: reason}, nil
}

// scoreSet is 0/1 membership, case-insensitive. A missing attribute is 0.
func scoreSet(attr *string, crit *SetCriterion) float64 {
	if attr == nil || *attr == "" {
		return 0
	}
	for _, want := range crit.In {
		if strings.EqualFold(strings.TrimSpace(*attr), strings.TrimSpace(want)) {
			return 1
		}
	}
	return 0
}

// scoreContains is 0/1 on whether any listed value appears as a substring of
// the attribute. Used for free-text attributes like technologies_used.
func scoreContains(attr *string, crit *SetCriterion) float64 {
	if attr == nil || *attr == "" {
		return 0
	}
	haystack := strings.ToLower(*attr)
	for _, want := range crit.In {
		if strings.Contains(haystack, strings.ToLower(strings.TrimSpace(want))) {
			return 1
		}
	}
	return 0
}

// scoreRange ramps linearly from Min to Max when both bounds are present and
// degrades to a hard cutoff with a single bound. Values outside the bounds
// score 0.
func scoreRange(attr *float64, crit *RangeCriterion) float64 {
	if attr == nil {
		return 0
	}
	v := *attr
	if crit.Min != nil && v < *crit.Min {
		return 0
	}
	if crit.Max != nil && v > *crit.Max {
		return 0
	}
	if crit.Min == nil || crit.Max == nil {
		return 1
	}
	if *crit.Max == *crit.Min {
		return 1
	}
	return (v - *crit.Min) / (*crit.Max - *crit.Min)
}
