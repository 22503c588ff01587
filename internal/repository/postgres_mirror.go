package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fadilmartias/pitch-analyzer/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresMirror struct {
	db *gorm.DB
}

func NewPostgresMirror(db *gorm.DB) *PostgresMirror {
	return &PostgresMirror{db}
}

func (m *PostgresMirror) Save(ctx context.Context, id string, result model.EvaluationResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	report := &model.EvaluationReport{
		ID:          id,
		CompanyName: result.CompanyName,
		Investible:  result.Investible,
		Overall:     result.Scores[model.OverallKey],
		Payload:     string(payload),
	}
	return m.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(report).Error
}

func (m *PostgresMirror) Load(ctx context.Context, id string) (model.EvaluationResult, error) {
	var report model.EvaluationReport
	err := m.db.WithContext(ctx).Take(&report, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.EvaluationResult{}, model.WrapError(model.ErrNotFound, "load report "+id, nil)
	}
	if err != nil {
		return model.EvaluationResult{}, fmt.Errorf("query report: %w", err)
	}

	var result model.EvaluationResult
	if err := json.Unmarshal([]byte(report.Payload), &result); err != nil {
		return model.EvaluationResult{}, fmt.Errorf("decode report: %w", err)
	}
	return result, nil
}
