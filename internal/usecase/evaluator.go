package usecase

import (
	"context"
	"time"

	"github.com/fadilmartias/pitch-analyzer/internal/metrics"
	"github.com/fadilmartias/pitch-analyzer/internal/model"
	"github.com/fadilmartias/pitch-analyzer/internal/util"
	"go.uber.org/zap"
)

// Scorer is the remote scoring client. Both calls are fail-soft.
type Scorer interface {
	ScoreCategory(ctx context.Context, label, text, deckContext string) model.ScoreResult
	ScoreDecision(ctx context.Context, req model.DecisionRequest) model.Decision
}

// Evaluator scores every category, then asks for the investment decision.
type Evaluator struct {
	scorer     Scorer
	categories []model.Category
	metrics    *metrics.Metrics
	log        *zap.Logger
}

func NewEvaluator(scorer Scorer, m *metrics.Metrics, log *zap.Logger) *Evaluator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Evaluator{
		scorer:     scorer,
		categories: model.Categories,
		metrics:    m,
		log:        log,
	}
}

// Evaluate leaves EvaluationID, Timestamp and Filename empty.
func (e *Evaluator) Evaluate(ctx context.Context, sub model.DeckSubmission) model.EvaluationResult {
	start := time.Now()
	raw := make(map[string]float64, len(e.categories))
	notes := make(map[string]string, len(e.categories))

	var total float64
	for _, c := range e.categories {
		res := e.scorer.ScoreCategory(ctx, c.Label, sub.Content, c.Context(sub))
		raw[c.Key] = res.Score
		notes[c.Key] = res.Notes
		total += res.Score

		e.metrics.ObserveCategory(c.Key, string(res.Outcome))
		e.log.Info("category scored",
			zap.String("company", sub.CompanyName),
			zap.String("category", c.Key),
			zap.Float64("score", res.Score),
			zap.String("outcome", string(res.Outcome)),
		)
	}

	var overall float64
	if len(e.categories) > 0 {
		overall = total / float64(len(e.categories))
	}

	decision := e.scorer.ScoreDecision(ctx, model.DecisionRequest{
		Scores:     raw,
		Notes:      notes,
		FundThesis: sub.FundThesis,
	})
	e.metrics.ObserveDecision(string(decision.Outcome), decision.Investible)

	scores := make(map[string]float64, len(raw)+1)
	for k, v := range raw {
		scores[k] = util.Round2(v)
	}
	scores[model.OverallKey] = util.Round2(overall)

	e.log.Info("evaluation complete",
		zap.String("company", sub.CompanyName),
		zap.Float64("overall", scores[model.OverallKey]),
		zap.String("investible", decision.Investible),
		zap.String("decision_outcome", string(decision.Outcome)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return model.EvaluationResult{
		CompanyName:     sub.CompanyName,
		Sector:          sub.Sector,
		Stage:           sub.Stage,
		FundingAsk:      sub.FundingAsk,
		Scores:          scores,
		Investible:      decision.Investible,
		EvaluationNotes: notes,
		Summary:         decision.Summary,
		KeyStrengths:    nonNil(decision.KeyStrengths),
		KeyConcerns:     nonNil(decision.KeyConcerns),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
