// Package ingest runs the batch pipeline: raw records are normalized,
// enriched with sentiment where text is available, and upserted through the
// identity resolver. A malformed record is dropped with a recorded reason;
// the rest of the batch continues.
package ingest

import (
	"context"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/market-intel/internal/model"
	"github.com/sells-group/market-intel/internal/normalize"
	"github.com/sells-group/market-intel/internal/resolve"
	"github.com/sells-group/market-intel/internal/sentiment"
	"github.com/sells-group/market-intel/internal/store"
)

// Record is one raw input item tagged with its target entity kind.
type Record struct {
	Kind normalize.Kind `json:"kind"`
	Data normalize.Raw  `json:"data"`
}

// RecordError records why one record was dropped.
type RecordError struct {
	Index  int            `json:"index"`
	Kind   normalize.Kind `json:"kind"`
	Reason string         `json:"reason"`
}

// Summary reports the outcome of one batch.
type Summary struct {
	BatchID   string        `json:"batch_id"`
	Total     int           `json:"total"`
	Succeeded int           `json:"succeeded"`
	Created   int           `json:"created"`
	Updated   int           `json:"updated"`
	Failed    int           `json:"failed"`
	Errors    []RecordError `json:"errors,omitempty"`
}

// Runner drives batches through the pipeline, pacing writes with a rate
// limiter.
type Runner struct {
	resolver *resolve.Resolver
	limiter  *rate.Limiter
}

// NewRunner builds a Runner. writesPerSec <= 0 disables pacing.
func NewRunner(r *resolve.Resolver, writesPerSec float64, burst int) *Runner {
	limit := rate.Inf
	if writesPerSec > 0 {
		limit = rate.Limit(writesPerSec)
	}
	if burst <= 0 {
		burst = 1
	}
	return &Runner{resolver: r, limiter: rate.NewLimiter(limit, burst)}
}

// Run processes the batch in order. Malformed records and identity conflicts
// are collected per record; a store outage aborts the batch since nothing
// further can commit.
func (r *Runner) Run(ctx context.Context, records []Record) (*Summary, error) {
	summary := &Summary{
		BatchID: uuid.NewString(),
		Total:   len(records),
	}

	for i, rec := range records {
		if err := r.limiter.Wait(ctx); err != nil {
			return summary, eris.Wrap(err, "ingest: rate limit wait")
		}

		created, err := r.ingestOne(ctx, rec)
		if err != nil {
			if eris.Is(err, store.ErrUnavailable) {
				return summary, eris.Wrap(err, "ingest: store unavailable")
			}
			summary.Failed++
			summary.Errors = append(summary.Errors, RecordError{
				Index:  i,
				Kind:   rec.Kind,
				Reason: eris.ToString(err, false),
			})
			zap.L().Warn("ingest: record dropped",
				zap.String("batch_id", summary.BatchID),
				zap.Int("index", i),
				zap.String("kind", string(rec.Kind)),
				zap.Error(err),
			)
			continue
		}

		summary.Succeeded++
		if created {
			summary.Created++
		} else {
			summary.Updated++
		}
	}

	zap.L().Info("ingest: batch complete",
		zap.String("batch_id", summary.BatchID),
		zap.Int("total", summary.Total),
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed),
	)
	return summary, nil
}

func (r *Runner) ingestOne(ctx context.Context, rec Record) (bool, error) {
	switch rec.Kind {
	case normalize.KindCompany:
		c, err := normalize.Company(rec.Data)
		if err != nil {
			return false, err
		}
		_, created, err := r.resolver.UpsertCompany(ctx, c)
		return created, err

	case normalize.KindArticle:
		a, err := normalize.Article(rec.Data)
		if err != nil {
			return false, err
		}
		scoreArticle(a)
		_, created, err := r.resolver.UpsertArticle(ctx, a)
		return created, err

	case normalize.KindTrend:
		t, err := normalize.Trend(rec.Data)
		if err != nil {
			return false, err
		}
		scoreTrend(t)
		_, created, err := r.resolver.UpsertTrend(ctx, t)
		return created, err

	case normalize.KindLead:
		l, err := normalize.Lead(rec.Data)
		if err != nil {
			return false, err
		}
		_, created, err := r.resolver.UpsertLead(ctx, l)
		return created, err

	case normalize.KindProject:
		p, err := normalize.Project(rec.Data)
		if err != nil {
			return false, err
		}
		_, created, err := r.resolver.UpsertProject(ctx, p)
		return created, err

	case normalize.KindFirm:
		f, err := normalize.Firm(rec.Data)
		if err != nil {
			return false, err
		}
		_, created, err := r.resolver.UpsertFirm(ctx, f)
		return created, err

	default:
		return false, eris.Wrapf(normalize.Err, "unknown record kind %q", rec.Kind)
	}
}

// scoreArticle rates the richest text the article carries. Re-ingestion
// recomputes, so an edited summary refreshes the stored polarity.
func scoreArticle(a *model.NewsArticle) {
	text := a.Title
	if a.Summary != nil && *a.Summary != "" {
		text = a.Title + ". " + *a.Summary
	}
	res := sentiment.Score(text)
	a.SentimentScore = &res.Score
	a.SentimentLabel = &res.Label
}

func scoreTrend(t *model.MarketTrend) {
	res := sentiment.Score(t.Description)
	t.SentimentScore = &res.Score
}
