package rubric

import (
	"context"
	"fmt"

	"github.com/jonathan/call-scorer/internal/types"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// DefaultSheetRange covers the rubric columns of the first sheet
const DefaultSheetRange = "A:H"

// SheetsConfig configures access to a Google Sheets rubric
type SheetsConfig struct {
	SpreadsheetID   string
	Range           string
	CredentialsFile string
	APIKey          string
}

// SheetsSource reads a rubric table from a Google Sheet
type SheetsSource struct {
	service       *sheets.Service
	spreadsheetID string
	readRange     string
}

// NewSheetsSource creates a Sheets-backed rubric source. Extra client options are appended
// after the credentials derived from cfg.
func NewSheetsSource(ctx context.Context, cfg SheetsConfig, opts ...option.ClientOption) (*SheetsSource, error) {
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet ID is required")
	}
	if cfg.Range == "" {
		cfg.Range = DefaultSheetRange
	}

	var clientOpts []option.ClientOption
	if cfg.CredentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	if cfg.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(cfg.APIKey))
	}
	clientOpts = append(clientOpts, option.WithScopes(sheets.SpreadsheetsReadonlyScope))
	clientOpts = append(clientOpts, opts...)

	service, err := sheets.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	return &SheetsSource{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		readRange:     cfg.Range,
	}, nil
}

// Load implements Source
func (s *SheetsSource) Load(ctx context.Context) (*types.Rubric, error) {
	resp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, s.readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read spreadsheet %s: %w", s.spreadsheetID, err)
	}

	rows := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		rows[i] = make([]string, len(row))
		for j, v := range row {
			rows[i][j] = fmt.Sprint(v)
		}
	}

	return ParseRows("sheet:"+s.spreadsheetID, rows)
}
