package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"habitink/internal/logging"
)

// defaultSchedule keeps the panel fresh without hammering the Notion
// API; the change probe makes most ticks a single cheap request.
const defaultSchedule = "*/5 * * * *"

var schedule string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run continuously, updating the panel on a schedule",
	Long: `watch runs the refresh pipeline on a cron schedule until
interrupted. Ticks that find no changes in Notion exit after a single
metadata probe, so a tight schedule stays cheap.

A tick that overlaps a still-running refresh is skipped.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logging.New(verbose)
		defer log.Sync()
		return runWatch(cmd.Context(), log)
	},
}

func init() {
	watchCmd.Flags().StringVar(&schedule, "schedule", defaultSchedule, "cron schedule for refresh runs")
	watchCmd.Flags().BoolVarP(&force, "force", "f", false, "update on every tick even if nothing changed")
	watchCmd.Flags().BoolVar(&preview, "preview", false, "write a PNG instead of updating the panel")
	watchCmd.Flags().StringVarP(&output, "output", "o", "preview.png", "output path for preview image")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(ctx context.Context, log *zap.Logger) error {
	tick := func() {
		tickCtx, cancel := context.WithTimeout(ctx, runTimeout)
		defer cancel()
		if err := runRefresh(tickCtx, log); err != nil {
			log.Error("refresh failed", zap.Error(err))
		}
	}

	c := cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DefaultLogger),
	))
	if _, err := c.AddFunc(schedule, tick); err != nil {
		return err
	}

	log.Info("watching for changes", zap.String("schedule", schedule))
	tick()
	c.Start()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case s := <-sig:
		log.Info("shutting down", zap.String("signal", s.String()))
	case <-ctx.Done():
	}

	stopCtx := c.Stop()
	<-stopCtx.Done()
	return nil
}
