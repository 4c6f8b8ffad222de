package rubric

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/call-scorer/internal/types"
)

// Source supplies a rubric
type Source interface {
	Load(ctx context.Context) (*types.Rubric, error)
}

// Store is the subset of the rubric store used to resolve stored rubrics.
// GetRubric returns nil, nil when no rubric has the given name.
type Store interface {
	GetRubric(ctx context.Context, name string) (*types.Rubric, error)
}

// Load resolves a rubric from src, falling back to the default preset when src is nil
func Load(ctx context.Context, src Source) (*types.Rubric, error) {
	if src == nil {
		return Default(), nil
	}
	return src.Load(ctx)
}

// FileSource reads a JSON, YAML, or CSV rubric file
type FileSource struct {
	Path string
}

// Load implements Source
func (s FileSource) Load(_ context.Context) (*types.Rubric, error) {
	return LoadFile(s.Path)
}

// LoadFile reads and validates a rubric file, choosing the decoder by extension
func LoadFile(path string) (*types.Rubric, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, &ParseError{Source: path, Message: "unknown format", Cause: err}
	}
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read rubric file: %w", err)
	}
	return Decode(path, data, format)
}

// PresetSource returns a built-in rubric by name
type PresetSource struct {
	Name string
}

// Load implements Source
func (s PresetSource) Load(_ context.Context) (*types.Rubric, error) {
	return Preset(s.Name)
}

// StoreSource reads a named rubric from the store, falling back to a preset of the same name
type StoreSource struct {
	Store Store
	Name  string
}

// Load implements Source
func (s StoreSource) Load(ctx context.Context) (*types.Rubric, error) {
	r, err := s.Store.GetRubric(ctx, s.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to load stored rubric %q: %w", s.Name, err)
	}
	if r != nil {
		return r, nil
	}
	return Preset(s.Name)
}

// SourceOptions selects where a rubric comes from. The first non-empty field wins, in field order.
type SourceOptions struct {
	File       string
	SheetID    string
	SheetRange string
	Stored     string
	Preset     string

	// Sheets configures the spreadsheet client when SheetID is set
	Sheets SheetsConfig
	// Store resolves Stored names
	Store Store
}

// NewSource builds the Source described by opts, or nil when nothing is configured
func NewSource(ctx context.Context, opts SourceOptions) (Source, error) {
	switch {
	case opts.File != "":
		return FileSource{Path: opts.File}, nil
	case opts.SheetID != "":
		cfg := opts.Sheets
		cfg.SpreadsheetID = opts.SheetID
		if opts.SheetRange != "" {
			cfg.Range = opts.SheetRange
		}
		src, err := NewSheetsSource(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return src, nil
	case opts.Stored != "":
		if opts.Store == nil {
			return nil, fmt.Errorf("stored rubric %q requested but no rubric store is configured", opts.Stored)
		}
		return StoreSource{Store: opts.Store, Name: opts.Stored}, nil
	case opts.Preset != "":
		return PresetSource{Name: opts.Preset}, nil
	default:
		return nil, nil
	}
}
