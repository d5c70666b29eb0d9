package model

import "time"

// RealEstateProject is a collected real-estate development. The RERA
// registration id is the natural key when present; projects without one
// carry no dedup guarantee.
type RealEstateProject struct {
	ID                 int64      `json:"id"`
	ProjectName        string     `json:"project_name"`
	DeveloperID        *int64     `json:"developer_id,omitempty"`
	DeveloperName      *string    `json:"developer_name,omitempty"`
	City               *string    `json:"city,omitempty"`
	Region             *string    `json:"region,omitempty"`
	ProjectType        *string    `json:"project_type,omitempty"`
	Status             *string    `json:"status,omitempty"`
	RERARegistrationID *string    `json:"rera_registration_id,omitempty"`
	LaunchDate         *time.Time `json:"launch_date,omitempty"`
	ExpectedCompletion *time.Time `json:"expected_completion_date,omitempty"`
	TotalAreaSqft      *float64   `json:"total_area_sqft,omitempty"`
	PricePerSqftRange  *string    `json:"price_per_sqft_range,omitempty"`
	KeyFeatures        *string    `json:"key_features,omitempty"`
	SourceURL          *string    `json:"source_url,omitempty"`
	CollectedDate      time.Time  `json:"collected_date"`
}

// ArchitecturalFirm is a collected architecture practice with an optional
// one-to-one link to its Company row.
type ArchitecturalFirm struct {
	ID                int64     `json:"id"`
	CompanyID         *int64    `json:"company_id,omitempty"`
	FirmName          string    `json:"firm_name"`
	City              *string   `json:"city,omitempty"`
	Region            *string   `json:"region,omitempty"`
	Specialization    *string   `json:"specialization,omitempty"`
	NotableProjects   *string   `json:"notable_projects,omitempty"`
	KeyPersonnel      *string   `json:"key_personnel,omitempty"`
	Awards            *string   `json:"awards,omitempty"`
	COARegistrationID *string   `json:"coa_registration_id,omitempty"`
	SourceURL         *string   `json:"source_url,omitempty"`
	CollectedDate     time.Time `json:"collected_date"`
}
