package repository

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/fadilmartias/pitch-analyzer/internal/model"
)

// MemoryCache keeps results for the life of the process. Entries are copied
// in and out so callers cannot mutate what is stored.
type MemoryCache struct {
	mu      sync.RWMutex
	results map[string]model.EvaluationResult
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{results: make(map[string]model.EvaluationResult)}
}

func (c *MemoryCache) Get(_ context.Context, id string) (model.EvaluationResult, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result, ok := c.results[id]
	if !ok {
		return model.EvaluationResult{}, false, nil
	}
	return cloneResult(result), true, nil
}

func (c *MemoryCache) Set(_ context.Context, id string, result model.EvaluationResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results[id] = cloneResult(result)
	return nil
}

func cloneResult(r model.EvaluationResult) model.EvaluationResult {
	r.Scores = maps.Clone(r.Scores)
	r.EvaluationNotes = maps.Clone(r.EvaluationNotes)
	r.KeyStrengths = slices.Clone(r.KeyStrengths)
	r.KeyConcerns = slices.Clone(r.KeyConcerns)
	return r
}
