package model

// OverallKey is the scores entry holding the mean of all category scores.
const OverallKey = "overall"

type DeckSubmission struct {
	CompanyName string `json:"company_name"`
	Sector      string `json:"sector"`
	Stage       string `json:"stage"`
	FundingAsk  string `json:"funding_ask"`
	FundThesis  string `json:"fund_thesis,omitempty"`
	Content     string `json:"content"`
}

// Outcome tells how a score or decision was obtained. It never reaches the
// serialized result; it feeds logs and metrics.
type Outcome string

const (
	OutcomeScored      Outcome = "scored"      // model reply parsed
	OutcomeDefaulted   Outcome = "defaulted"   // reply unparseable, fallback values used
	OutcomeUnavailable Outcome = "unavailable" // remote call failed
)

// ScoreResult is what the scoring client returns for one category prompt.
type ScoreResult struct {
	Score   float64
	Notes   string
	Outcome Outcome
}

type CategoryScore struct {
	Category string  `json:"category"`
	Score    float64 `json:"score"`
	Notes    string  `json:"notes"`
	Outcome  Outcome `json:"-"`
}

type Decision struct {
	Investible   string   `json:"investible"`
	Summary      string   `json:"summary"`
	KeyStrengths []string `json:"key_strengths"`
	KeyConcerns  []string `json:"key_concerns"`
	Outcome      Outcome  `json:"-"`
}

// DecisionRequest carries the raw, unrounded category scores and their notes.
type DecisionRequest struct {
	Scores     map[string]float64
	Notes      map[string]string
	FundThesis string
}

type EvaluationResult struct {
	EvaluationID    string             `json:"evaluation_id"`
	CompanyName     string             `json:"company_name"`
	Sector          string             `json:"sector"`
	Stage           string             `json:"stage"`
	FundingAsk      string             `json:"funding_ask"`
	Scores          map[string]float64 `json:"scores"`
	Investible      string             `json:"investible"`
	EvaluationNotes map[string]string  `json:"evaluation_notes"`
	Summary         string             `json:"summary"`
	KeyStrengths    []string           `json:"key_strengths"`
	KeyConcerns     []string           `json:"key_concerns"`
	Timestamp       string             `json:"timestamp"`
	Filename        string             `json:"filename"`
}
