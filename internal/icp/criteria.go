// Package icp models Ideal Customer Profile criteria and scores leads
// against them.
package icp

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned for criteria that cannot be scored: empty profiles,
// unknown criterion keys, bad weights or bounds.
var ErrInvalid = eris.New("icp: invalid criteria")

// defaultThreshold applies when a profile does not set min_score_threshold.
const defaultThreshold = 0.5

// SetCriterion accepts leads whose attribute is one of the listed values.
// Matching is case-insensitive.
type SetCriterion struct {
	In     []string `json:"in" yaml:"in"`
	Weight *float64 `json:"weight,omitempty" yaml:"weight,omitempty"`
}

// RangeCriterion accepts leads whose numeric attribute lies within the
// bounds. With both bounds set the score ramps linearly from Min to Max;
// with a single bound it is a hard cutoff.
type RangeCriterion struct {
	Min    *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max    *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	Weight *float64 `json:"weight,omitempty" yaml:"weight,omitempty"`
}

// Criteria is the closed set of criterion kinds a profile may use. Unknown
// keys in the stored or user-supplied form are rejected rather than ignored,
// so a typo cannot silently drop a criterion.
type Criteria struct {
	Industry        *SetCriterion   `json:"industry,omitempty" yaml:"industry,omitempty"`
	Region          *SetCriterion   `json:"region,omitempty" yaml:"region,omitempty"`
	CompanySize     *SetCriterion   `json:"company_size,omitempty" yaml:"company_size,omitempty"`
	Technology      *SetCriterion   `json:"technology,omitempty" yaml:"technology,omitempty"`
	EngagementLevel *RangeCriterion `json:"engagement_level,omitempty" yaml:"engagement_level,omitempty"`

	MinScoreThreshold *float64 `json:"min_score_threshold,omitempty" yaml:"min_score_threshold,omitempty"`
}

// ParseJSON decodes and validates the stored criteria form.
func ParseJSON(raw string) (*Criteria, error) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.DisallowUnknownFields()
	var c Criteria
	if err := dec.Decode(&c); err != nil {
		return nil, eris.Wrapf(ErrInvalid, "decode json: %v", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// ParseYAML decodes and validates the CLI criteria file form.
func ParseYAML(raw []byte) (*Criteria, error) {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	var c Criteria
	if err := dec.Decode(&c); err != nil {
		return nil, eris.Wrapf(ErrInvalid, "decode yaml: %v", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// JSON renders the criteria in the stored form.
func (c *Criteria) JSON() (string, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return "", eris.Wrap(err, "icp: encode criteria")
	}
	return string(b), nil
}

// Threshold returns the qualification threshold, defaulted when unset.
func (c *Criteria) Threshold() float64 {
	if c.MinScoreThreshold != nil {
		return *c.MinScoreThreshold
	}
	return defaultThreshold
}

// Validate checks that the profile has at least one criterion and that every
// weight, bound and threshold is usable.
func (c *Criteria) Validate() error {
	n := 0
	for _, sc := range []struct {
		name string
		crit *SetCriterion
	}{
		{"industry", c.Industry},
		{"region", c.Region},
		{"company_size", c.CompanySize},
		{"technology", c.Technology},
	} {
		if sc.crit == nil {
			continue
		}
		n++
		if len(sc.crit.In) == 0 {
			return eris.Wrapf(ErrInvalid, "%s: empty value set", sc.name)
		}
		if err := checkWeight(sc.name, sc.crit.Weight); err != nil {
			return err
		}
	}
	if rc := c.EngagementLevel; rc != nil {
		n++
		if rc.Min == nil && rc.Max == nil {
			return eris.Wrap(ErrInvalid, "engagement_level: no bounds")
		}
		if rc.Min != nil && rc.Max != nil && *rc.Min > *rc.Max {
			return eris.Wrap(ErrInvalid, "engagement_level: min above max")
		}
		if err := checkWeight("engagement_level", rc.Weight); err != nil {
			return err
		}
	}
	if n == 0 {
		return eris.Wrap(ErrInvalid, "no criteria")
	}
	if t := c.MinScoreThreshold; t != nil && (*t < 0 || *t > 1) {
		return eris.Wrap(ErrInvalid, "min_score_threshold outside [0, 1]")
	}
	return nil
}

func checkWeight(name string, w *float64) error {
	if w != nil && *w <= 0 {
		return eris.Wrapf(ErrInvalid, "%s: weight must be positive", name)
	}
	return nil
}

func weightOf(w *float64) float64 {
	if w == nil {
		return 1
	}
	return *w
}
