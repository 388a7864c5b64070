package app

import (
	"context"
	"fmt"
	"io"

	"github.com/deusflow/dailydigest/internal/config"
	"github.com/deusflow/dailydigest/internal/storage"
)

// ShowHistory prints the history size and its newest limit entries, newest first.
func ShowHistory(ctx context.Context, cfg *config.Config, out io.Writer, limit int) error {
	history, err := OpenHistory(ctx, cfg)
	if err != nil {
		return err
	}
	defer history.Close()

	return printHistory(ctx, history, out, limit)
}

func printHistory(ctx context.Context, history storage.History, out io.Writer, limit int) error {
	if limit <= 0 {
		limit = 10
	}

	log, err := history.Load(ctx)
	if err != nil {
		return err
	}

	switch h := history.(type) {
	case *storage.FileHistory:
		fmt.Fprintf(out, "History file: %s\n", h.Path())
	case *storage.PostgresHistory:
		fmt.Fprintln(out, "History: PostgreSQL")
	}
	fmt.Fprintf(out, "Sent links: %d\n", log.Len())

	if log.Len() == 0 {
		fmt.Fprintln(out, "  (nothing sent yet)")
		return nil
	}

	if pg, ok := history.(*storage.PostgresHistory); ok {
		recent, err := pg.Recent(ctx, limit)
		if err != nil {
			return err
		}
		for i, item := range recent {
			fmt.Fprintf(out, "  %d. %s (sent %s)\n", i+1, item.Link, item.SentAt.Format("2006-01-02 15:04:05"))
		}
		return nil
	}

	links := log.Links()
	for i := 0; i < limit && i < len(links); i++ {
		fmt.Fprintf(out, "  %d. %s\n", i+1, links[len(links)-1-i])
	}
	return nil
}
