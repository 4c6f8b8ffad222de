package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jonathan/call-scorer/internal/types"
)

// ErrRubricNotFound is returned by DeleteRubric when no row matches
var ErrRubricNotFound = errors.New("rubric not found")

// SaveRubric inserts or replaces a rubric by name
func (db *DB) SaveRubric(ctx context.Context, r *types.Rubric) error {
	if r == nil || r.Name == "" {
		return fmt.Errorf("rubric name is required")
	}

	jsonBytes, err := marshalCriteria(r.Criteria)
	if err != nil {
		return err
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO rubrics (name, criteria)
		 VALUES ($1, $2)
		 ON CONFLICT (name) DO UPDATE SET criteria = $2, updated_at = NOW()`,
		r.Name, jsonBytes,
	)
	if err != nil {
		return fmt.Errorf("failed to save rubric %s: %w", r.Name, err)
	}
	return nil
}

// GetRubric retrieves a rubric by name, returning nil when it does not exist
func (db *DB) GetRubric(ctx context.Context, name string) (*types.Rubric, error) {
	stored, err := db.GetStoredRubric(ctx, name)
	if err != nil || stored == nil {
		return nil, err
	}
	return stored.Rubric(), nil
}

// GetStoredRubric retrieves a rubric record with timestamps
func (db *DB) GetStoredRubric(ctx context.Context, name string) (*StoredRubric, error) {
	var stored StoredRubric
	var criteria []byte
	err := db.pool.QueryRow(ctx,
		`SELECT name, criteria, created_at, updated_at FROM rubrics WHERE name = $1`,
		name,
	).Scan(&stored.Name, &criteria, &stored.CreatedAt, &stored.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get rubric %s: %w", name, err)
	}

	stored.Criteria, err = unmarshalCriteria(criteria)
	if err != nil {
		return nil, fmt.Errorf("rubric %s: %w", name, err)
	}
	return &stored, nil
}

// ListRubrics retrieves all stored rubrics ordered by name
func (db *DB) ListRubrics(ctx context.Context) ([]RubricSummary, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT name, jsonb_array_length(criteria), updated_at FROM rubrics ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list rubrics: %w", err)
	}
	defer rows.Close()

	var summaries []RubricSummary
	for rows.Next() {
		var s RubricSummary
		if err := rows.Scan(&s.Name, &s.CriteriaCount, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rubric: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list rubrics: %w", err)
	}
	return summaries, nil
}

// DeleteRubric removes a rubric by name
func (db *DB) DeleteRubric(ctx context.Context, name string) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM rubrics WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("failed to delete rubric: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrRubricNotFound, name)
	}
	return nil
}

func marshalCriteria(criteria []types.EvaluationCriterion) ([]byte, error) {
	if criteria == nil {
		criteria = []types.EvaluationCriterion{}
	}
	jsonBytes, err := json.Marshal(criteria)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal criteria: %w", err)
	}
	return jsonBytes, nil
}

func unmarshalCriteria(data []byte) ([]types.EvaluationCriterion, error) {
	var criteria []types.EvaluationCriterion
	if err := json.Unmarshal(data, &criteria); err != nil {
		return nil, fmt.Errorf("failed to unmarshal criteria: %w", err)
	}
	return criteria, nil
}
