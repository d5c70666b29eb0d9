package model

import "time"

// MarketTrend is an observed industry trend. Trends have no natural key, so
// repeated collection runs may store the same trend more than once.
type MarketTrend struct {
	ID             int64      `json:"id"`
	Industry       *string    `json:"industry,omitempty"`
	Region         *string    `json:"region,omitempty"`
	Description    string     `json:"trend_description"`
	TrendType      *string    `json:"trend_type,omitempty"`
	Source         *string    `json:"source,omitempty"`
	SourceURL      *string    `json:"source_url,omitempty"`
	PublishedDate  *time.Time `json:"published_date,omitempty"`
	CollectedDate  time.Time  `json:"collected_date"`
	SentimentScore *float64   `json:"sentiment_score,omitempty"`
	RelevanceScore *float64   `json:"relevance_score,omitempty"`
}
