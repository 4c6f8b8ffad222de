package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jonathan/call-scorer/internal/db"
	"github.com/jonathan/call-scorer/internal/pipeline"
	"github.com/jonathan/call-scorer/internal/rubric"
	"github.com/jonathan/call-scorer/internal/speakers"
	"github.com/jonathan/call-scorer/internal/types"
	"github.com/spf13/cobra"
)

// rubricFlags selects a rubric on any command that scores. Unset flags fall back to config.
type rubricFlags struct {
	file       string
	sheetID    string
	sheetRange string
	stored     string
	preset     string
}

func (f *rubricFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.file, "rubric", "r", "", "Rubric file (.json, .yaml, .yml, or .csv)")
	cmd.Flags().StringVar(&f.sheetID, "rubric-sheet", "", "Google Sheet ID holding the rubric table")
	cmd.Flags().StringVar(&f.sheetRange, "rubric-range", "", "A1 range of the rubric table in the sheet")
	cmd.Flags().StringVar(&f.stored, "rubric-name", "", "Name of a rubric stored in the database")
	cmd.Flags().StringVar(&f.preset, "preset", "", "Built-in rubric (default or extended)")
}

func (f *rubricFlags) options() rubric.SourceOptions {
	opts := rubric.SourceOptions{
		File:       firstNonEmpty(f.file, cfg.RubricFile),
		SheetID:    firstNonEmpty(f.sheetID, cfg.RubricSheetID),
		SheetRange: firstNonEmpty(f.sheetRange, cfg.RubricSheetRange),
		Stored:     firstNonEmpty(f.stored, cfg.RubricName),
		Preset:     firstNonEmpty(f.preset, cfg.RubricPreset),
		Sheets: rubric.SheetsConfig{
			CredentialsFile: cfg.GoogleCredentialsFile,
			APIKey:          cfg.GoogleAPIKey,
		},
	}
	// A flag outranks every config source, not only its own key
	switch {
	case f.file != "":
		opts.SheetID, opts.Stored, opts.Preset = "", "", ""
	case f.sheetID != "":
		opts.File, opts.Stored, opts.Preset = "", "", ""
	case f.stored != "":
		opts.File, opts.SheetID, opts.Preset = "", "", ""
	case f.preset != "":
		opts.File, opts.SheetID, opts.Stored = "", "", ""
	}
	return opts
}

// source builds the configured rubric source. The returned close func releases the
// database pool when a stored rubric was requested.
func (f *rubricFlags) source(ctx context.Context) (rubric.Source, func(), error) {
	opts := f.options()
	closeStore := func() {}

	if opts.Stored != "" {
		store, err := openStore(ctx)
		if err != nil {
			return nil, closeStore, err
		}
		if store != nil {
			opts.Store = store
			closeStore = store.Close
		}
	}

	src, err := rubric.NewSource(ctx, opts)
	if err != nil {
		closeStore()
		return nil, func() {}, err
	}
	return src, closeStore, nil
}

// load resolves the rubric, defaulting to the built-in preset when nothing is configured
func (f *rubricFlags) load(ctx context.Context) (*types.Rubric, error) {
	src, closeStore, err := f.source(ctx)
	if err != nil {
		return nil, err
	}
	defer closeStore()

	r, err := rubric.Load(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("failed to load rubric: %w", err)
	}
	return r, nil
}

// openStore connects to the configured database, or returns nil when none is configured
func openStore(ctx context.Context) (*db.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, nil
	}
	store, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := store.EnsureSchema(ctx); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}

// requireStore is openStore for commands that cannot run without a database
func requireStore(ctx context.Context) (*db.DB, error) {
	store, err := openStore(ctx)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, fmt.Errorf("database URL is required (set CALL_SCORER_DATABASE_URL or database_url in the config file)")
	}
	return store, nil
}

// readInput reads a file, or stdin when path is empty or "-"
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// readTranscript loads a transcript file or stdin. Utterance JSON is speaker-classified and a
// saved transcription result supplies its transcript; anything else is canonical transcript text.
func readTranscript(cmd *cobra.Command, path string) (string, *speakers.Classification, error) {
	if path != "" && path != "-" {
		return pipeline.LoadTranscript(path)
	}

	data, err := readInput(cmd, path)
	if err != nil {
		return "", nil, err
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{') {
		return pipeline.DecodeTranscript(trimmed)
	}
	return string(data), nil, nil
}

// writeJSON writes v as indented JSON to path, or to the command's stdout when path is empty
func writeJSON(cmd *cobra.Command, path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	return writeOutput(cmd, path, append(data, '\n'))
}

func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", path)
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
