package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/call-scorer/internal/scoring"
	"github.com/jonathan/call-scorer/internal/types"
)

// DefaultConcurrency bounds batch fan-out when none is configured
const DefaultConcurrency = 4

// BatchOptions configures ScoreBatch
type BatchOptions struct {
	Rubric      *types.Rubric
	Concurrency int
	Logger      logrus.FieldLogger
}

// BatchResult is the outcome for one transcript file.
// A failed file carries Error and no Analysis; it does not fail the batch.
type BatchResult struct {
	Path     string              `json:"path"`
	Analysis *types.CallAnalysis `json:"analysis,omitempty"`
	Error    string              `json:"error,omitempty"`
}

// BatchSummary aggregates a batch run
type BatchSummary struct {
	Results           []BatchResult `json:"results"`
	Scored            int           `json:"scored"`
	Failed            int           `json:"failed"`
	AveragePercentage float64       `json:"averagePercentage"`
}

// CollectTranscripts expands a mix of files and directories into transcript file paths.
// Directories contribute their .txt and .json files, non-recursively, sorted by name.
func CollectTranscripts(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", p, err)
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}

		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read directory %s: %w", p, err)
		}
		var dirFiles []string
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			switch strings.ToLower(filepath.Ext(e.Name())) {
			case ".txt", ".json":
				dirFiles = append(dirFiles, filepath.Join(p, e.Name()))
			}
		}
		sort.Strings(dirFiles)
		files = append(files, dirFiles...)
	}
	return files, nil
}

// ScoreBatch scores every file concurrently with at most opts.Concurrency in flight.
// Results keep the order of paths. Only context cancellation aborts the batch.
func ScoreBatch(ctx context.Context, paths []string, opts BatchOptions) (*BatchSummary, error) {
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}

	results := make([]BatchResult, len(paths))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)

	for i, path := range paths {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			results[i] = scoreFile(path, opts.Rubric)
			log := opts.Logger.WithField("file", path)
			if results[i].Error != "" {
				log.WithField("error", results[i].Error).Warn("failed to score transcript")
			} else {
				log.WithField("percentage", results[i].Analysis.Percentage).Debug("scored transcript")
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summarize(results), nil
}

func scoreFile(path string, rubric *types.Rubric) BatchResult {
	result := BatchResult{Path: path}

	transcript, _, err := LoadTranscript(path)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	analysis, err := scoring.ScoreRubric(transcript, rubric)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.Analysis = analysis
	return result
}

func summarize(results []BatchResult) *BatchSummary {
	summary := &BatchSummary{Results: results}
	total := 0
	for _, r := range results {
		if r.Analysis == nil {
			summary.Failed++
			continue
		}
		summary.Scored++
		total += r.Analysis.Percentage
	}
	if summary.Scored > 0 {
		summary.AveragePercentage = float64(total) / float64(summary.Scored)
	}
	return summary
}
