package main

import (
	"fmt"
	"os"

	"github.com/jonathan/call-scorer/internal/observability"
	"github.com/jonathan/call-scorer/internal/pipeline"
	"github.com/jonathan/call-scorer/internal/transcription"
	"github.com/spf13/cobra"
)

var transcribeCmd = &cobra.Command{
	Use:   "transcribe",
	Short: "Transcribe a call recording with AssemblyAI",
	Long: `Upload a call recording to AssemblyAI, wait for the speaker-labeled transcript, and print
the job with a confidence summary and the Agent:/Customer: transcript. The JSON output can be
passed to score --transcript. With --score the call is also scored.`,
	Args: cobra.NoArgs,
	RunE: runTranscribe,
}

var (
	transcribeAudioFile  string
	transcribeOutputFile string
	transcribeAPIKey     string
	transcribeScore      bool
	transcribeRubric     rubricFlags
)

func init() {
	transcribeCmd.Flags().StringVarP(&transcribeAudioFile, "audio", "a", "", "Path to the call recording")
	transcribeCmd.Flags().StringVarP(&transcribeOutputFile, "out", "o", "", "Write the result JSON to this file")
	transcribeCmd.Flags().StringVar(&transcribeAPIKey, "api-key", "", "AssemblyAI API key (overrides CALL_SCORER_ASSEMBLYAI_API_KEY)")
	transcribeCmd.Flags().BoolVar(&transcribeScore, "score", false, "Score the transcript after transcription")
	transcribeRubric.register(transcribeCmd)

	_ = transcribeCmd.MarkFlagRequired("audio")

	rootCmd.AddCommand(transcribeCmd)
}

func runTranscribe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	apiKey := firstNonEmpty(transcribeAPIKey, cfg.AssemblyAIAPIKey)
	if apiKey == "" {
		return fmt.Errorf("AssemblyAI API key is required (set CALL_SCORER_ASSEMBLYAI_API_KEY or use --api-key flag)")
	}

	audio, err := os.ReadFile(transcribeAudioFile)
	if err != nil {
		return fmt.Errorf("failed to read audio file: %w", err)
	}

	svc := transcription.NewAssemblyAI(apiKey, transcription.WithBaseURL(cfg.AssemblyAIBaseURL))
	wait := transcription.WaitOptions{
		Interval:    cfg.PollInterval,
		MaxAttempts: cfg.MaxPollAttempts,
		Logger:      log,
	}
	printer := observability.NewPrinter(cmd.OutOrStdout())
	pretty := cfg.Verbose && transcribeOutputFile == ""

	if !transcribeScore {
		result, err := pipeline.Transcribe(ctx, audio, pipeline.RunOptions{Service: svc, Wait: wait, Logger: log})
		if err != nil {
			return err
		}

		if pretty {
			printer.PrintQuality(result.Quality)
			if result.Classification != nil {
				printer.PrintSpeakerProfiles(result.Classification.AgentID, result.Classification.Profiles)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), result.Transcript)
			return nil
		}
		return writeJSON(cmd, transcribeOutputFile, result)
	}

	r, err := transcribeRubric.load(ctx)
	if err != nil {
		return err
	}

	result, err := pipeline.RunPipeline(ctx, audio, pipeline.RunOptions{
		Service: svc,
		Rubric:  r,
		Wait:    wait,
		Logger:  log,
		OnProgress: func(event pipeline.ProgressEvent) {
			log.WithField("step", event.Step).Info(event.Message)
		},
	})
	if err != nil {
		return err
	}

	if pretty {
		if result.Quality != nil {
			printer.PrintQuality(*result.Quality)
		}
		if result.Classification != nil {
			printer.PrintSpeakerProfiles(result.Classification.AgentID, result.Classification.Profiles)
		}
		printer.PrintAnalysis(result.Analysis, r)
		return nil
	}
	return writeJSON(cmd, transcribeOutputFile, result)
}
