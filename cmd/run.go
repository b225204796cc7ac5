package main

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/meeting-agent/internal/model"
)

var (
	runTranscript string
	runPeople     string
	runRefDate    string
	runOutputDir  string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Analyze a single meeting transcript",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		transcript, err := os.ReadFile(runTranscript)
		if err != nil {
			return eris.Wrapf(err, "read transcript %s", runTranscript)
		}

		directory, err := model.LoadDirectory(runPeople)
		if err != nil {
			return err
		}

		refDate, err := resolveReferenceDate(runRefDate)
		if err != nil {
			return err
		}

		outputDir := runOutputDir
		if outputDir == "" {
			outputDir = cfg.Output.Dir
		}
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return eris.Wrapf(err, "create output dir %s", outputDir)
		}

		p := buildPipeline()
		state := model.NewProcessingState(string(transcript), directory, refDate)

		out, err := executeRun(ctx, st, p, runTranscript, state)
		if err != nil {
			return eris.Wrap(err, "pipeline run")
		}

		if err := writeArtifacts(outputDir, out); err != nil {
			return err
		}

		zap.L().Info("analysis complete",
			zap.String("run_id", out.Metadata.RunID),
			zap.Int("action_items", out.Metadata.ActionItems),
			zap.Int("decisions", out.Metadata.Decisions),
			zap.Int("risks", out.Metadata.Risks),
			zap.Int("flagged_for_review", out.Metadata.FlaggedForReview),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

// writeArtifacts exports the three run artifacts: the structured document,
// the human-readable summary, and the notification event log.
func writeArtifacts(dir string, out *model.FinalOutput) error {
	doc, err := out.MarshalIndent()
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, "meeting_output.json"), doc, 0o644); err != nil {
		return eris.Wrap(err, "write meeting output")
	}

	if err := os.WriteFile(filepath.Join(dir, "meeting_summary.txt"), []byte(out.MeetingSummary), 0o644); err != nil {
		return eris.Wrap(err, "write meeting summary")
	}

	events, err := json.MarshalIndent(out.NotificationEvents, "", "  ")
	if err != nil {
		return eris.Wrap(err, "marshal notification events")
	}
	if err := os.WriteFile(filepath.Join(dir, "notification_events.json"), events, 0o644); err != nil {
		return eris.Wrap(err, "write notification events")
	}

	return nil
}

func init() {
	runCmd.Flags().StringVar(&runTranscript, "transcript", "", "path to meeting transcript (required)")
	runCmd.Flags().StringVar(&runPeople, "people", "", "path to people directory JSON (required)")
	runCmd.Flags().StringVar(&runRefDate, "reference-date", "", "deadline anchor date YYYY-MM-DD (default from config, then today)")
	runCmd.Flags().StringVar(&runOutputDir, "output-dir", "", "artifact output directory (default from config)")
	_ = runCmd.MarkFlagRequired("transcript")
	_ = runCmd.MarkFlagRequired("people")
	rootCmd.AddCommand(runCmd)
}
