package main

import (
	"fmt"

	"github.com/jonathan/call-scorer/internal/pipeline"
	"github.com/spf13/cobra"
)

var batchScoreCmd = &cobra.Command{
	Use:   "batch-score <file-or-dir>...",
	Short: "Score many transcripts in parallel",
	Long: `Score every .txt and .json transcript in the given files and directories against one rubric.
Files that fail to score are reported in the summary; the command exits non-zero if any failed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatchScore,
}

var (
	batchOutputFile  string
	batchConcurrency int
	batchRubric      rubricFlags
)

func init() {
	batchScoreCmd.Flags().StringVarP(&batchOutputFile, "out", "o", "", "Write the batch summary JSON to this file")
	batchScoreCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "Parallel scoring workers (default from config)")
	batchRubric.register(batchScoreCmd)

	rootCmd.AddCommand(batchScoreCmd)
}

func runBatchScore(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	paths, err := pipeline.CollectTranscripts(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no .txt or .json transcripts found")
	}

	r, err := batchRubric.load(ctx)
	if err != nil {
		return err
	}

	concurrency := cfg.Concurrency
	if batchConcurrency > 0 {
		concurrency = batchConcurrency
	}

	summary, err := pipeline.ScoreBatch(ctx, paths, pipeline.BatchOptions{
		Rubric:      r,
		Concurrency: concurrency,
		Logger:      log,
	})
	if err != nil {
		return err
	}

	if cfg.Verbose && batchOutputFile == "" {
		out := cmd.OutOrStdout()
		for _, res := range summary.Results {
			if res.Error != "" {
				_, _ = fmt.Fprintf(out, "✗ %s: %s\n", res.Path, res.Error)
				continue
			}
			_, _ = fmt.Fprintf(out, "✓ %s: %d%% (Grade %s)\n", res.Path, res.Analysis.Percentage, res.Analysis.Grade)
		}
		_, _ = fmt.Fprintf(out, "\nScored %d, failed %d, average %.1f%%\n", summary.Scored, summary.Failed, summary.AveragePercentage)
	} else if err := writeJSON(cmd, batchOutputFile, summary); err != nil {
		return err
	}

	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d transcripts failed to score", summary.Failed, len(summary.Results))
	}
	return nil
}
