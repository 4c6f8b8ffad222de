package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/jonathan/call-scorer/internal/rubric"
	"github.com/jonathan/call-scorer/internal/server"
	"github.com/jonathan/call-scorer/internal/transcription"
	"github.com/spf13/cobra"
)

var (
	servePort   int
	serveRubric rubricFlags
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes REST endpoints for scoring transcripts, classifying
speakers, transcribing recordings, and managing rubrics.

Transcription is enabled when an AssemblyAI API key is configured, rubric storage when a
database URL is configured, and bearer authentication when a JWT secret is configured.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default from config, 8080)")
	serveRubric.register(serveCmd)
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		})
		if err != nil {
			log.WithError(err).Warn("sentry init failed")
		} else {
			defer sentry.Flush(2 * time.Second)
			log.Info("sentry initialized")
		}
	}

	jwtConfig, err := cfg.JWT()
	if err != nil {
		return err
	}
	if jwtConfig == nil {
		log.Warn("no JWT secret configured, API endpoints are unauthenticated")
	}

	deps := server.Deps{Logger: log}

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
		deps.Store = store
	} else {
		log.Info("no database configured, rubric storage disabled")
	}

	if cfg.AssemblyAIAPIKey != "" {
		deps.Transcriber = transcription.NewAssemblyAI(cfg.AssemblyAIAPIKey, transcription.WithBaseURL(cfg.AssemblyAIBaseURL))
	} else {
		log.Info("no AssemblyAI API key configured, transcription disabled")
	}

	opts := serveRubric.options()
	if store != nil {
		opts.Store = store
	}
	defaultRubric, err := rubric.NewSource(ctx, opts)
	if err != nil {
		return err
	}
	// Fail at startup rather than on the first request
	r, err := rubric.Load(ctx, defaultRubric)
	if err != nil {
		return fmt.Errorf("failed to load default rubric: %w", err)
	}
	log.WithField("rubric", r.Name).Info("default rubric loaded")
	deps.DefaultRubric = defaultRubric

	port := cfg.Port
	if servePort > 0 {
		port = servePort
	}

	srv := server.New(server.Config{
		Port: port,
		JWT:  jwtConfig,
		Wait: transcription.WaitOptions{
			Interval:    cfg.PollInterval,
			MaxAttempts: cfg.MaxPollAttempts,
		},
	}, deps)
	defer srv.Close()

	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
