package model

import "time"

// SentimentLabel is the three-way polarity classification.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNeutral  SentimentLabel = "neutral"
	SentimentNegative SentimentLabel = "negative"
)

// NewsArticle is a collected news item, deduplicated by source URL. Sentiment
// is computed once at ingestion and only recomputed on explicit re-ingestion.
type NewsArticle struct {
	ID             int64           `json:"id"`
	CompanyID      *int64          `json:"company_id,omitempty"`
	Industry       *string         `json:"industry,omitempty"`
	Topic          *string         `json:"topic,omitempty"`
	Title          string          `json:"title"`
	SourceName     *string         `json:"source_name,omitempty"`
	SourceURL      string          `json:"source_url"`
	PublishedDate  *time.Time      `json:"published_date,omitempty"`
	Summary        *string         `json:"summary,omitempty"`
	SentimentScore *float64        `json:"sentiment_score,omitempty"`
	SentimentLabel *SentimentLabel `json:"sentiment_label,omitempty"`
	CollectedDate  time.Time       `json:"collected_date"`
}
