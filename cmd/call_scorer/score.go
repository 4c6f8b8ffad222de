package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/call-scorer/internal/observability"
	"github.com/jonathan/call-scorer/internal/scoring"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a call transcript against a rubric",
	Long: `Score a call transcript against a rubric and print the analysis as JSON.

The transcript is either canonical "Agent: ..." / "Customer: ..." text or a JSON array of
speaker-labeled utterances, in which case the agent is identified first. Reads stdin when
--transcript is omitted.`,
	Args: cobra.NoArgs,
	RunE: runScore,
}

var (
	scoreTranscriptFile string
	scoreOutputFile     string
	scoreRubric         rubricFlags
)

func init() {
	scoreCmd.Flags().StringVarP(&scoreTranscriptFile, "transcript", "t", "", "Transcript text or utterances JSON file (default: stdin)")
	scoreCmd.Flags().StringVarP(&scoreOutputFile, "out", "o", "", "Write the analysis JSON to this file")
	scoreRubric.register(scoreCmd)

	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	transcript, classification, err := readTranscript(cmd, scoreTranscriptFile)
	if err != nil {
		return err
	}

	r, err := scoreRubric.load(ctx)
	if err != nil {
		return err
	}

	analysis, err := scoring.ScoreRubric(transcript, r)
	if err != nil {
		return fmt.Errorf("scoring failed: %w", err)
	}
	analysis.ID = uuid.New().String()

	log.WithFields(logrus.Fields{
		"analysis_id": analysis.ID,
		"rubric":      r.Name,
		"percentage":  analysis.Percentage,
		"grade":       analysis.Grade,
	}).Info("call scored")

	if cfg.Verbose && scoreOutputFile == "" {
		printer := observability.NewPrinter(cmd.OutOrStdout())
		if classification != nil {
			printer.PrintSpeakerProfiles(classification.AgentID, classification.Profiles)
		}
		printer.PrintAnalysis(analysis, r)
		return nil
	}
	return writeJSON(cmd, scoreOutputFile, analysis)
}
