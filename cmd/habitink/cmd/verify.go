package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"habitink/internal/config"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check Notion credentials and database access",
	Long: `verify loads the configuration and confirms the integration
can reach every configured Notion database. Use it after setup to
catch a wrong ID or a database that was never shared with the
integration.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		titles, err := newSource(cfg).Verify(ctx)
		if err != nil {
			return err
		}
		for _, title := range titles {
			fmt.Printf("ok: %s\n", title)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
