package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fadilmartias/pitch-analyzer/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testID = "0b8e6c1e-7a52-4f0e-9d3b-2c9f4a6e1d57"

func sampleResult(id string) model.EvaluationResult {
	return model.EvaluationResult{
		EvaluationID: id,
		CompanyName:  "Acme",
		Sector:       "Fintech",
		Stage:        "Seed",
		FundingAsk:   "$2M",
		Scores: map[string]float64{
			"market_size": 8, "team": 7.5, "product": 6.25, "traction": 5, "financials": 4, "overall": 6.15,
		},
		Investible:      "Yes",
		EvaluationNotes: map[string]string{"market_size": "big", "team": "strong"},
		Summary:         "Promising.",
		KeyStrengths:    []string{"team"},
		KeyConcerns:     []string{},
		Timestamp:       "2026-01-02T03:04:05.123456789Z",
		Filename:        "deck.pdf",
	}
}

func TestResultRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	want := sampleResult(testID)

	repo := NewResultRepository(NewMemoryCache(), NewFileMirror(dir), nil)
	require.NoError(t, repo.Put(ctx, testID, want))

	got, err := repo.Get(ctx, testID)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.FileExists(t, filepath.Join(dir, testID+".json"))

	// a fresh cache stands in for a restarted process
	restarted := NewResultRepository(NewMemoryCache(), NewFileMirror(dir), nil)
	got, err = restarted.Get(ctx, testID)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestResultRepository_RefillsCache(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, NewFileMirror(dir).Save(ctx, testID, sampleResult(testID)))

	cache := NewMemoryCache()
	repo := NewResultRepository(cache, NewFileMirror(dir), nil)
	_, err := repo.Get(ctx, testID)
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(dir, testID+".json")))
	_, ok, err := cache.Get(ctx, testID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestResultRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewResultRepository(NewMemoryCache(), NewFileMirror(t.TempDir()), nil)

	_, err := repo.Get(ctx, testID)
	assert.ErrorIs(t, err, model.ErrNotFound)

	require.NoError(t, repo.Put(ctx, testID, sampleResult(testID)))
	_, err = repo.Get(ctx, "5f2d1c3b-0000-4000-8000-000000000000")
	assert.ErrorIs(t, err, model.ErrNotFound)

	for _, id := range []string{"", "not-a-uuid", "../../etc/passwd", "0B8E6C1E-7A52-4F0E-9D3B-2C9F4A6E1D57"} {
		_, err := repo.Get(ctx, id)
		assert.ErrorIs(t, err, model.ErrNotFound, id)
	}
}

type failingMirror struct{}

func (failingMirror) Save(context.Context, string, model.EvaluationResult) error {
	return errors.New("disk full")
}

func (failingMirror) Load(context.Context, string) (model.EvaluationResult, error) {
	return model.EvaluationResult{}, errors.New("disk gone")
}

func TestResultRepository_MirrorFirst(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache()
	repo := NewResultRepository(cache, failingMirror{}, nil)

	err := repo.Put(ctx, testID, sampleResult(testID))
	require.Error(t, err)

	_, ok, _ := cache.Get(ctx, testID)
	assert.False(t, ok)

	_, err = repo.Get(ctx, testID)
	require.Error(t, err)
	assert.NotErrorIs(t, err, model.ErrNotFound)
}

func TestMemoryCache_CopiesEntries(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache()
	in := sampleResult(testID)
	require.NoError(t, cache.Set(ctx, testID, in))

	in.Scores["overall"] = 0
	in.KeyStrengths[0] = "changed"

	got, ok, err := cache.Get(ctx, testID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 6.15, got.Scores["overall"])
	assert.Equal(t, "team", got.KeyStrengths[0])
}
