package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/deusflow/dailydigest/internal/app"
	"github.com/deusflow/dailydigest/internal/config"
	"github.com/deusflow/dailydigest/internal/logger"
)

func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if cmd.IsSet("config") {
		if err := cfg.LoadDigest(cmd.String("config")); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	if cmd.IsSet("dry-run") {
		cfg.DryRun = cmd.Bool("dry-run")
	}
	if cmd.IsSet("strict") {
		cfg.FailOnSendError = cmd.Bool("strict")
	}

	logger.Init(cfg.LogLevel)
	return cfg, nil
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	_, err = app.Run(ctx, cfg, os.Stdout)
	if errors.Is(err, app.ErrSendFailed) && !cfg.FailOnSendError {
		// Already logged; a missed digest is retried by the next scheduled run.
		return nil
	}
	return err
}

func history(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return app.ShowHistory(ctx, cfg, os.Stdout, int(cmd.Int("limit")))
}

func main() {
	cmd := &cli.Command{
		Name:   "dailydigest",
		Usage:  "Fetch RSS feeds, pick the most relevant new articles and mail them as a daily digest",
		Action: run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML file with sources and keyword taxonomy (built-in when empty)",
				Sources: cli.EnvVars("DIGEST_CONFIG"),
			},
			&cli.BoolFlag{
				Name:    "dry-run",
				Usage:   "Print the digest instead of sending it; history is not updated",
				Sources: cli.EnvVars("DIGEST_DRY_RUN"),
			},
			&cli.BoolFlag{
				Name:    "strict",
				Usage:   "Exit with an error when the digest could not be sent",
				Sources: cli.EnvVars("FAIL_ON_SEND_ERROR"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "history",
				Usage:  "Show how many links were sent and the most recent ones",
				Action: history,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Number of recent links to list",
						Value: 10,
					},
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
