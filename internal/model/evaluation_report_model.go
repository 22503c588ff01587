package model

import "time"

// EvaluationReport is the Postgres mirror row of an EvaluationResult. Payload
// holds the full JSON document; the other columns are for querying by hand.
type EvaluationReport struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	CompanyName string    `gorm:"type:varchar(255)" json:"company_name"`
	Investible  string    `gorm:"type:varchar(8)" json:"investible"`
	Overall     float64   `gorm:"type:float" json:"overall"`
	Payload     string    `gorm:"type:jsonb" json:"payload"`
	CreatedAt   time.Time `json:"created_at"`
}

func (r *EvaluationReport) TableName() string {
	return "evaluation_reports"
}
