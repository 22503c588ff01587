package dto

import "github.com/fadilmartias/pitch-analyzer/internal/model"

type UploadResponse struct {
	EvaluationID string                 `json:"evaluation_id"`
	Result       model.EvaluationResult `json:"result"`
}
