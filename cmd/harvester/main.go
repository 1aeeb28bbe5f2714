// Command harvester polls a Hacker News story list and publishes every new
// story to the configured sinks.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samvad-hq/samvad-hn-harvester/internal/app"
	"github.com/samvad-hq/samvad-hn-harvester/internal/config"
	"github.com/samvad-hq/samvad-hn-harvester/internal/logger"
	"github.com/spf13/cobra"
)

func main() {
	if err := newCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "harvester: %v\n", err)
		os.Exit(1)
	}
}

func newCommand() *cobra.Command {
	var once bool

	cmd := &cobra.Command{
		Use:           "harvester",
		Short:         "Poll Hacker News and publish new stories",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), once)
		},
	}
	cmd.Flags().BoolVar(&once, "once", false, "run a single harvest pass and exit")
	return cmd
}

func run(parent context.Context, once bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.InfoObj("harvester starting", "config", map[string]any{
		"app":         cfg.AppName,
		"env":         cfg.Env,
		"story_list":  cfg.StoryList,
		"max_stories": cfg.MaxStories,
		"once":        once,
	})

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	harvester, err := app.NewHarvester(ctx, cfg, log)
	if err != nil {
		logger.ErrorObj("failed to initialize harvester", "error", err.Error())
		return err
	}

	if once {
		return harvester.RunOnce(ctx)
	}
	if err := harvester.Run(ctx); err != nil {
		return fmt.Errorf("harvester run: %w", err)
	}
	return nil
}
