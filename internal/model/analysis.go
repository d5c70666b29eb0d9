package model

import "time"

// AnalysisType tags the kind of analysis artifact stored in a result row.
type AnalysisType string

const (
	AnalysisSWOT       AnalysisType = "swot"
	AnalysisCompetitor AnalysisType = "competitor"
	AnalysisTrend      AnalysisType = "trend_report"
)

// AnalysisResult is an opaque, append-only analysis artifact. Rows are never
// mutated after creation so past reports remain comparable.
type AnalysisResult struct {
	ID           int64        `json:"id"`
	AnalysisType AnalysisType `json:"analysis_type"`
	TargetID     *int64       `json:"target_entity_id,omitempty"`
	TargetName   *string      `json:"target_entity_name,omitempty"`
	ResultJSON   string       `json:"result_json"`
	GeneratedAt  time.Time    `json:"generated_at"`
}
