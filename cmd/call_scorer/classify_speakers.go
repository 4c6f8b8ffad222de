package main

import (
	"github.com/jonathan/call-scorer/internal/observability"
	"github.com/jonathan/call-scorer/internal/pipeline"
	"github.com/jonathan/call-scorer/internal/speakers"
	"github.com/spf13/cobra"
)

var classifySpeakersCmd = &cobra.Command{
	Use:   "classify-speakers",
	Short: "Identify the agent in speaker-labeled utterances",
	Long: `Identify which speaker is the customer service agent in a JSON array of utterances and
print the speaker profiles and role-labeled utterances. Reads stdin when --in is omitted.`,
	Args: cobra.NoArgs,
	RunE: runClassifySpeakers,
}

var (
	classifyInputFile      string
	classifyOutputFile     string
	classifyTranscriptOnly bool
)

func init() {
	classifySpeakersCmd.Flags().StringVarP(&classifyInputFile, "in", "i", "", "Utterances JSON file (default: stdin)")
	classifySpeakersCmd.Flags().StringVarP(&classifyOutputFile, "out", "o", "", "Write the classification JSON to this file")
	classifySpeakersCmd.Flags().BoolVar(&classifyTranscriptOnly, "transcript-only", false, "Print only the Agent:/Customer: transcript")

	rootCmd.AddCommand(classifySpeakersCmd)
}

func runClassifySpeakers(cmd *cobra.Command, _ []string) error {
	data, err := readInput(cmd, classifyInputFile)
	if err != nil {
		return err
	}

	utterances, err := pipeline.ParseUtterances(data)
	if err != nil {
		return err
	}

	classification, err := speakers.Classify(utterances)
	if err != nil {
		return err
	}
	log.WithField("agent", classification.AgentID).Debug("agent identified")

	switch {
	case classifyTranscriptOnly:
		return writeOutput(cmd, classifyOutputFile, []byte(classification.Transcript()+"\n"))
	case cfg.Verbose && classifyOutputFile == "":
		observability.NewPrinter(cmd.OutOrStdout()).PrintSpeakerProfiles(classification.AgentID, classification.Profiles)
		return nil
	default:
		return writeJSON(cmd, classifyOutputFile, classification)
	}
}
