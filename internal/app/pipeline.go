package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/deusflow/dailydigest/internal/logger"
	"github.com/deusflow/dailydigest/internal/metrics"
	"github.com/deusflow/dailydigest/internal/news"
	"github.com/deusflow/dailydigest/internal/rss"
	"github.com/deusflow/dailydigest/internal/storage"
)

var (
	// ErrHistory means the history could not be read; nothing was sent.
	ErrHistory = errors.New("failed to load history")
	// ErrSendFailed means the digest was not delivered; history is unchanged.
	ErrSendFailed = errors.New("failed to send digest")
	// ErrCommit means the digest was delivered but history could not be updated.
	ErrCommit = errors.New("failed to update history")
)

// Fetcher collects articles from all sources.
type Fetcher interface {
	FetchAll(ctx context.Context, sources []rss.Source) rss.FetchResult
}

// Filter scores articles and keeps the relevant ones.
type Filter interface {
	Filter(articles []news.Article) ([]news.Article, news.FilterStats)
}

// Sender delivers the selected articles. A nil error means delivery was confirmed.
type Sender interface {
	Send(ctx context.Context, articles []news.Article, recipient string) error
}

// Report summarizes one run.
type Report struct {
	Fetched       int
	FetchFailures []*rss.FetchError
	Excluded      int
	Eligible      int
	New           int
	Selected      []news.Article
	Sent          bool
	Previewed     bool // dry run: rendered, not delivered
	Committed     bool
}

// Pipeline is one linear digest run: fetch, score, dedupe, rank, send, commit.
type Pipeline struct {
	Sources   []rss.Source
	Fetcher   Fetcher
	Filter    Filter
	History   storage.History
	Sender    Sender
	Recipient string
	TopN      int
	// DryRun sends through Sender but never commits history.
	DryRun  bool
	Metrics *metrics.Metrics
}

// Run executes the pipeline once. History is committed only after Sender
// confirmed delivery, so a failed send leaves it untouched.
func (p *Pipeline) Run(ctx context.Context) (rep Report, err error) {
	if p.Metrics == nil {
		p.Metrics = metrics.New()
	}
	start := time.Now()
	defer func() {
		p.Metrics.RecordProcessingTime(time.Since(start))
		if err != nil {
			p.Metrics.SetError(err.Error())
		} else {
			p.Metrics.SetLastRun()
		}
	}()

	logger.Info("Running digest", "at", start.Format(time.RFC3339), "sources", len(p.Sources))

	seen, err := p.History.Load(ctx)
	if err != nil {
		logger.Error("Error loading history", "error", err)
		return rep, fmt.Errorf("%w: %w", ErrHistory, err)
	}

	fetched := p.Fetcher.FetchAll(ctx, p.Sources)
	rep.Fetched = len(fetched.Articles)
	rep.FetchFailures = fetched.Failures
	p.Metrics.AddFetched(rep.Fetched, len(fetched.Failures))
	logger.Info("Total articles fetched", "count", rep.Fetched, "failed_sources", len(fetched.Failures))

	eligible, stats := p.Filter.Filter(fetched.Articles)
	rep.Excluded = stats.Excluded
	rep.Eligible = len(eligible)
	p.Metrics.AddFiltered(stats.Excluded, rep.Eligible)
	logger.Info("Articles after filtering", "count", rep.Eligible, "excluded", stats.Excluded)

	fresh := news.FilterNew(eligible, seen)
	rep.New = len(fresh)
	p.Metrics.AddDuplicates(rep.Eligible - rep.New)
	logger.Info("New articles (not previously sent)", "count", rep.New)

	top := news.Rank(fresh, p.TopN)
	rep.Selected = top
	p.Metrics.AddSelected(len(top))

	if len(top) == 0 {
		logger.Info("No new articles to send today")
		return rep, nil
	}

	logger.Info("Sending articles", "count", len(top))
	for _, a := range top {
		logger.Info("  -", "title", a.Title, "score", a.Score, "source", a.Source)
	}

	if err := p.Sender.Send(ctx, top, p.Recipient); err != nil {
		p.Metrics.IncrementSendFailures()
		logger.Error("Failed to send digest", "error", err)
		return rep, fmt.Errorf("%w: %w", ErrSendFailed, err)
	}
	if p.DryRun {
		rep.Previewed = true
		logger.Info("Dry run, history not updated")
		return rep, nil
	}
	rep.Sent = true
	p.Metrics.IncrementDigestsSent()

	if err := p.History.Commit(ctx, news.Links(top)); err != nil {
		logger.Error("Error saving history", "error", err)
		return rep, fmt.Errorf("%w: %w", ErrCommit, err)
	}
	rep.Committed = true

	logger.Info("Digest sent successfully", "articles", len(top))
	return rep, nil
}
