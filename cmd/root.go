package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/meeting-agent/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "meeting-agent",
	Short: "Meeting transcript analysis pipeline",
	Long:  "Extracts action items, decisions, and risks from meeting transcripts, resolves owners and deadlines, validates the results, and drafts follow-up messages.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
