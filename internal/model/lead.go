package model

import "time"

// LeadStatus is the outreach lifecycle state of a lead.
type LeadStatus string

const (
	LeadNew          LeadStatus = "New"
	LeadQualified    LeadStatus = "Qualified"
	LeadDisqualified LeadStatus = "Disqualified"
	LeadPending      LeadStatus = "Pending"
	LeadContacted    LeadStatus = "Contacted"
	LeadNurturing    LeadStatus = "Nurturing"
	LeadClosed       LeadStatus = "Closed"
)

// leadTransitions holds the allowed lifecycle transitions. New leads move to
// Qualified/Disqualified automatically after scoring; every other transition
// is an explicit call from the outreach collaborator. Closed is terminal.
var leadTransitions = map[LeadStatus][]LeadStatus{
	LeadNew:          {LeadQualified, LeadDisqualified},
	LeadQualified:    {LeadPending},
	LeadDisqualified: {LeadPending},
	LeadPending:      {LeadContacted},
	LeadContacted:    {LeadNurturing, LeadClosed},
	LeadNurturing:    {LeadContacted, LeadClosed},
}

// CanTransition reports whether moving from one lifecycle state to another is
// allowed.
func (s LeadStatus) CanTransition(to LeadStatus) bool {
	for _, next := range leadTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Valid reports whether s is a known lifecycle state.
func (s LeadStatus) Valid() bool {
	switch s {
	case LeadNew, LeadQualified, LeadDisqualified, LeadPending, LeadContacted, LeadNurturing, LeadClosed:
		return true
	}
	return false
}

// Lead is a scored prospect, optionally linked to the ICP it was scored
// against. Contact fields are stored only when sourced from explicitly
// public data.
type Lead struct {
	ID                  int64      `json:"id"`
	ICPID               *int64     `json:"icp_id,omitempty"`
	CompanyName         string     `json:"company_name"`
	ContactName         *string    `json:"contact_name,omitempty"`
	JobTitle            *string    `json:"job_title,omitempty"`
	Industry            *string    `json:"industry,omitempty"`
	CompanySize         *string    `json:"company_size,omitempty"`
	Region              *string    `json:"region,omitempty"`
	Website             *string    `json:"website,omitempty"`
	Email               *string    `json:"email,omitempty"`
	Phone               *string    `json:"phone,omitempty"`
	LinkedInProfile     *string    `json:"linkedin_profile,omitempty"`
	Source              *string    `json:"source,omitempty"`
	QualificationReason *string    `json:"qualification_reason,omitempty"`
	Score               *float64   `json:"score,omitempty"`
	EngagementLevel     *float64   `json:"engagement_level,omitempty"`
	TechnologiesUsed    *string    `json:"technologies_used,omitempty"`
	Notes               *string    `json:"notes,omitempty"`
	CollectedDate       time.Time  `json:"collected_date"`
	LastContacted       *time.Time `json:"last_contacted,omitempty"`
	Status              LeadStatus `json:"status"`
}
