package rubric

import (
	"context"
	"errors"
	"testing"

	"github.com/jonathan/call-scorer/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	rubrics map[string]*types.Rubric
	err     error
}

func (f *fakeStore) GetRubric(_ context.Context, name string) (*types.Rubric, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rubrics[name], nil
}

func TestLoad_DefaultsWhenNoSource(t *testing.T) {
	r, err := Load(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), r)
}

func TestStoreSource(t *testing.T) {
	stored := &types.Rubric{Name: "team", Criteria: []types.EvaluationCriterion{{ID: "a", Name: "A", MaxScore: 3}}}
	store := &fakeStore{rubrics: map[string]*types.Rubric{"team": stored}}
	ctx := context.Background()

	r, err := StoreSource{Store: store, Name: "team"}.Load(ctx)
	require.NoError(t, err)
	assert.Same(t, stored, r)

	r, err = StoreSource{Store: store, Name: "extended"}.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, ExtendedName, r.Name)

	_, err = StoreSource{Store: store, Name: "unknown"}.Load(ctx)
	var notFound *NotFoundError
	assert.True(t, errors.As(err, &notFound))

	boom := errors.New("connection refused")
	_, err = StoreSource{Store: &fakeStore{err: boom}, Name: "team"}.Load(ctx)
	assert.ErrorIs(t, err, boom)
}

func TestNewSource(t *testing.T) {
	ctx := context.Background()

	src, err := NewSource(ctx, SourceOptions{})
	require.NoError(t, err)
	assert.Nil(t, src)

	src, err = NewSource(ctx, SourceOptions{File: "a.json", Preset: "extended"})
	require.NoError(t, err)
	assert.Equal(t, FileSource{Path: "a.json"}, src)

	src, err = NewSource(ctx, SourceOptions{Preset: "extended"})
	require.NoError(t, err)
	assert.Equal(t, PresetSource{Name: "extended"}, src)

	_, err = NewSource(ctx, SourceOptions{Stored: "team"})
	assert.Error(t, err)

	store := &fakeStore{}
	src, err = NewSource(ctx, SourceOptions{Stored: "team", Store: store})
	require.NoError(t, err)
	assert.Equal(t, StoreSource{Store: store, Name: "team"}, src)
}
