package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"habitink/internal/adapters/epaper"
	"habitink/internal/adapters/markerfile"
	"habitink/internal/adapters/notion"
	"habitink/internal/adapters/pngfile"
	"habitink/internal/application"
	"habitink/internal/config"
	"habitink/internal/domain"
	"habitink/internal/logging"
	"habitink/internal/ports"
)

// runTimeout bounds one full pipeline pass, network and panel refresh
// included.
const runTimeout = 2 * time.Minute

var (
	cfgPath string
	verbose bool

	demo    bool
	preview bool
	force   bool
	output  string
)

var rootCmd = &cobra.Command{
	Use:   "habitink",
	Short: "Render Notion habit tracking onto a 7.5\" e-paper panel",
	Long: `habitink polls a Notion habit database and renders today's
completion state, streak and a multi-week heatmap onto a Waveshare
7.5" e-paper display.

A run is cheap when nothing changed: a metadata probe compares the
database's last edit time against a locally stored marker and exits
early on a match.

Examples:
  habitink                      update the panel from Notion
  habitink --preview            render to preview.png instead
  habitink --preview --demo     preview with synthetic data, no Notion
  habitink --force              update even if nothing changed`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logging.New(verbose)
		defer log.Sync()

		ctx, cancel := context.WithTimeout(cmd.Context(), runTimeout)
		defer cancel()
		return runRefresh(ctx, log)
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", config.Path(), "path to config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.Flags().BoolVar(&demo, "demo", false, "use synthetic data instead of Notion")
	rootCmd.Flags().BoolVar(&preview, "preview", false, "write a PNG instead of updating the panel")
	rootCmd.Flags().BoolVarP(&force, "force", "f", false, "update even if nothing changed")
	rootCmd.Flags().StringVarP(&output, "output", "o", "preview.png", "output path for preview image")
}

// runRefresh wires the pipeline from config and flags, then executes it
// once.
func runRefresh(ctx context.Context, log *zap.Logger) error {
	refresh := &application.Refresh{Log: log}

	if demo {
		refresh.Options = application.Options{
			Demo:          true,
			ShowStreak:    true,
			Calendar:      true,
			CalendarWeeks: 12,
		}
	} else {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		refresh.Source = newSource(cfg)
		refresh.Markers = markerfile.NewStore(cfg.StatePath)
		refresh.Options = application.Options{
			Force:         force,
			ShowStreak:    cfg.Streak.Enabled,
			Calendar:      cfg.Calendar.Enabled,
			CalendarWeeks: cfg.Calendar.Weeks,
			Rotation:      cfg.Display.Rotation,
			DynamicHabits: cfg.HasDynamicHabits(),
			Habits:        inlineHabits(cfg),
		}
	}

	refresh.Display, refresh.Fallback = selectDisplay(log)

	result, err := refresh.Execute(ctx)
	if err != nil {
		return err
	}
	if result.Skipped {
		return nil
	}
	log.Info("display updated")
	return nil
}

// selectDisplay picks the sink by capability probe, not by config: the
// panel when present, the PNG file otherwise. --preview always takes
// the file path.
func selectDisplay(log *zap.Logger) (display, fallback ports.Display) {
	file := pngfile.NewSink(output)
	if preview {
		return file, nil
	}
	hw, err := epaper.Detect(log)
	if err != nil {
		log.Warn("panel not detected, writing preview file instead",
			zap.String("path", output), zap.Error(err))
		return file, nil
	}
	return hw, file
}

func newSource(cfg *config.Config) *notion.Client {
	opts := []notion.Option{}
	if cfg.HasDynamicHabits() {
		opts = append(opts, notion.WithHabitsDatabase(cfg.Notion.HabitsDatabaseID))
	}
	return notion.NewClient(cfg.Notion.APIKey, cfg.Notion.DatabaseID, opts...)
}

// inlineHabits converts config habit entries into domain habits. Their
// sort order is their position in the file.
func inlineHabits(cfg *config.Config) []domain.Habit {
	habits := make([]domain.Habit, len(cfg.Habits))
	for i, h := range cfg.Habits {
		habits[i] = domain.Habit{
			Property: h.Property,
			Label:    h.Name,
			Icon:     h.Icon,
			Kind:     domain.ParseKind(h.Type),
			Sort:     i,
		}
	}
	return habits
}
