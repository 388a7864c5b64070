package app

import (
	"context"
	"fmt"
	"io"

	"github.com/deusflow/dailydigest/internal/config"
	"github.com/deusflow/dailydigest/internal/digest"
	"github.com/deusflow/dailydigest/internal/logger"
	"github.com/deusflow/dailydigest/internal/mailer"
	"github.com/deusflow/dailydigest/internal/metrics"
	"github.com/deusflow/dailydigest/internal/news"
	"github.com/deusflow/dailydigest/internal/rss"
	"github.com/deusflow/dailydigest/internal/storage"
)

// Run wires the concrete components from cfg and executes one digest run.
// In dry-run mode the rendered HTML is written to out instead of being mailed.
func Run(ctx context.Context, cfg *config.Config, out io.Writer) (Report, error) {
	history, err := OpenHistory(ctx, cfg)
	if err != nil {
		return Report{}, fmt.Errorf("%w: %w", ErrHistory, err)
	}
	defer history.Close()

	annotator := news.NewAnnotator(cfg.Taxonomy)
	renderer := digest.NewRenderer(annotator, cfg.Taxonomy.Domains)
	dispatcher := mailer.NewDispatcher(mailer.NewSendGrid(cfg.SendGridAPIKey), renderer, cfg.From)

	var sender Sender = dispatcher
	if cfg.DryRun {
		sender = &previewSender{dispatcher: dispatcher, out: out}
	}

	m := metrics.New()
	p := &Pipeline{
		Sources: cfg.Sources,
		Fetcher: rss.NewFetcher(
			rss.WithTimeout(cfg.RequestTimeout),
			rss.WithMaxItems(cfg.MaxItemsPerSource),
		),
		Filter:    news.NewScorer(cfg.Taxonomy),
		History:   history,
		Sender:    sender,
		Recipient: cfg.Recipient,
		TopN:      cfg.TopN,
		DryRun:    cfg.DryRun,
		Metrics:   m,
	}

	rep, err := p.Run(ctx)
	logger.Info("Run finished", m.LogArgs()...)
	return rep, err
}

// OpenHistory picks PostgreSQL when a database URL is configured and the JSON file otherwise.
func OpenHistory(ctx context.Context, cfg *config.Config) (storage.History, error) {
	if cfg.DatabaseURL != "" {
		pg, err := storage.NewPostgresHistory(ctx, cfg.DatabaseURL, cfg.HistoryMaxEntries)
		if err != nil {
			return nil, err
		}
		return pg, nil
	}
	return storage.NewFileHistory(cfg.HistoryFile, cfg.HistoryMaxEntries), nil
}

// previewSender writes the digest instead of mailing it.
type previewSender struct {
	dispatcher *mailer.Dispatcher
	out        io.Writer
}

func (s *previewSender) Send(_ context.Context, articles []news.Article, recipient string) error {
	msg, err := s.dispatcher.Compose(articles, recipient)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.out, "To: %s\nSubject: %s\n\n%s\n", msg.To, msg.Subject, msg.HTML); err != nil {
		return fmt.Errorf("failed to write preview: %w", err)
	}
	return nil
}
