package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/fadilmartias/pitch-analyzer/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Cache is the fast, possibly volatile, side of the result store.
type Cache interface {
	Get(ctx context.Context, id string) (model.EvaluationResult, bool, error)
	Set(ctx context.Context, id string, result model.EvaluationResult) error
}

// Mirror is the durable record. Load returns model.ErrNotFound for unknown ids.
type Mirror interface {
	Save(ctx context.Context, id string, result model.EvaluationResult) error
	Load(ctx context.Context, id string) (model.EvaluationResult, error)
}

// ResultRepository is a read-through store: cache first, mirror on miss.
type ResultRepository struct {
	cache  Cache
	mirror Mirror
	log    *zap.Logger
}

func NewResultRepository(cache Cache, mirror Mirror, log *zap.Logger) *ResultRepository {
	if log == nil {
		log = zap.NewNop()
	}
	return &ResultRepository{cache: cache, mirror: mirror, log: log}
}

func (r *ResultRepository) Put(ctx context.Context, id string, result model.EvaluationResult) error {
	if !validID(id) {
		return model.WrapError(model.ErrInvalidInput, "put result", fmt.Errorf("invalid evaluation id %q", id))
	}
	if err := r.mirror.Save(ctx, id, result); err != nil {
		return fmt.Errorf("save result %s: %w", id, err)
	}
	if err := r.cache.Set(ctx, id, result); err != nil {
		return fmt.Errorf("cache result %s: %w", id, err)
	}
	return nil
}

func (r *ResultRepository) Get(ctx context.Context, id string) (model.EvaluationResult, error) {
	if !validID(id) {
		return model.EvaluationResult{}, model.WrapError(model.ErrNotFound, "get result", nil)
	}

	result, ok, err := r.cache.Get(ctx, id)
	if err != nil {
		r.log.Warn("result cache read failed", zap.String("evaluation_id", id), zap.Error(err))
	}
	if ok {
		return result, nil
	}

	result, err = r.mirror.Load(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.EvaluationResult{}, err
		}
		return model.EvaluationResult{}, fmt.Errorf("load result %s: %w", id, err)
	}

	if err := r.cache.Set(ctx, id, result); err != nil {
		r.log.Warn("result cache refill failed", zap.String("evaluation_id", id), zap.Error(err))
	}
	return result, nil
}

// validID accepts canonical lowercase UUIDs only, so ids are safe as file names.
func validID(id string) bool {
	parsed, err := uuid.Parse(id)
	return err == nil && parsed.String() == id
}
