package rubric

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jonathan/call-scorer/internal/types"
)

// Header is the column layout written by Rows and preferred by ParseRows.
// ParseRows also accepts any column order and an optional leading ID column.
var Header = []string{"ID", "Name", "Description", "Max Score", "Weight", "Keywords", "Required Keywords", "Category"}

const defaultWeight = 1.0

type column int

const (
	colID column = iota
	colName
	colDescription
	colMaxScore
	colWeight
	colKeywords
	colRequiredKeywords
	colCategory
)

var headerAliases = map[string]column{
	"id":                colID,
	"criteria id":       colID,
	"name":              colName,
	"criterion":         colName,
	"description":       colDescription,
	"max score":         colMaxScore,
	"maxscore":          colMaxScore,
	"max_score":         colMaxScore,
	"points":            colMaxScore,
	"weight":            colWeight,
	"keywords":          colKeywords,
	"required keywords": colRequiredKeywords,
	"requiredkeywords":  colRequiredKeywords,
	"required_keywords": colRequiredKeywords,
	"category":          colCategory,
}

// ParseRows converts a spreadsheet-style table (header row first) into a rubric.
// Rows with an empty name are skipped. IDs are derived from names when no ID column exists.
func ParseRows(source string, rows [][]string) (*types.Rubric, error) {
	if len(rows) == 0 {
		return nil, &ParseError{Source: source, Message: "no rows"}
	}

	index := make(map[column]int)
	for i, cell := range rows[0] {
		key := strings.ToLower(strings.TrimSpace(cell))
		if col, ok := headerAliases[key]; ok {
			if _, dup := index[col]; !dup {
				index[col] = i
			}
		}
	}
	for _, required := range []column{colName, colMaxScore} {
		if _, ok := index[required]; !ok {
			return nil, &ParseError{Source: source, Message: fmt.Sprintf("missing required column %q", Header[required])}
		}
	}

	cell := func(row []string, col column) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	r := &types.Rubric{Name: source}
	for n, row := range rows[1:] {
		rowNum := n + 2
		name := cell(row, colName)
		if name == "" {
			continue
		}

		maxScore, err := strconv.ParseFloat(cell(row, colMaxScore), 64)
		if err != nil {
			return nil, &ParseError{Source: source, Message: fmt.Sprintf("row %d: invalid max score", rowNum), Cause: err}
		}

		weight := defaultWeight
		if raw := cell(row, colWeight); raw != "" {
			weight, err = strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, &ParseError{Source: source, Message: fmt.Sprintf("row %d: invalid weight", rowNum), Cause: err}
			}
		}

		id := cell(row, colID)
		if id == "" {
			id = Slug(name)
		}

		r.Criteria = append(r.Criteria, types.EvaluationCriterion{
			ID:               id,
			Name:             name,
			Description:      cell(row, colDescription),
			MaxScore:         maxScore,
			Weight:           weight,
			Keywords:         splitList(cell(row, colKeywords)),
			RequiredKeywords: splitList(cell(row, colRequiredKeywords)),
			Category:         cell(row, colCategory),
		})
	}

	if err := validate(r); err != nil {
		return nil, err
	}
	return r, nil
}

// Rows renders a rubric as a table using Header
func Rows(r *types.Rubric) [][]string {
	rows := make([][]string, 0, len(r.Criteria)+1)
	rows = append(rows, append([]string(nil), Header...))
	for _, c := range r.Criteria {
		rows = append(rows, []string{
			c.ID,
			c.Name,
			c.Description,
			strconv.FormatFloat(c.MaxScore, 'f', -1, 64),
			strconv.FormatFloat(c.Weight, 'f', -1, 64),
			strings.Join(c.Keywords, ", "),
			strings.Join(c.RequiredKeywords, ", "),
			c.Category,
		})
	}
	return rows
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slug derives a criterion ID from a display name ("Follow-up & Closure" -> "follow_up_closure")
func Slug(name string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(name), "_"), "_")
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, strings.ToLower(part))
		}
	}
	return out
}
