package model

import "time"

// ICP is a named Ideal Customer Profile: a weighted set of acceptance
// criteria used to score leads. CriteriaJSON is the stored form; the icp
// package owns parsing and validation.
type ICP struct {
	ID           int64      `json:"id"`
	ProfileName  string     `json:"profile_name"`
	CriteriaJSON string     `json:"criteria_json"`
	CreatedAt    time.Time  `json:"created_at"`
	LastUsed     *time.Time `json:"last_used,omitempty"`
}
