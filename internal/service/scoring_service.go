package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/fadilmartias/pitch-analyzer/internal/config"
	"github.com/fadilmartias/pitch-analyzer/internal/model"
	"github.com/fadilmartias/pitch-analyzer/internal/util"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const (
	defaultScore     = 5.0
	rawNotesLimit    = 200
	evaluationErrMsg = "Error during evaluation: "
)

// ScoringService turns model replies into category scores and an investment
// decision. It never returns an error: failures become fallback values.
type ScoringService struct {
	completer         Completer
	temperature       float64
	scoreMaxTokens    int
	decisionMaxTokens int
	log               *zap.Logger
}

func NewScoringService(completer Completer, cfg *config.LLMConfig, log *zap.Logger) *ScoringService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ScoringService{
		completer:         completer,
		temperature:       cfg.Temperature,
		scoreMaxTokens:    cfg.ScoreMaxTokens,
		decisionMaxTokens: cfg.DecisionMaxTokens,
		log:               log,
	}
}

func (s *ScoringService) ScoreCategory(ctx context.Context, label, text, deckContext string) model.ScoreResult {
	raw, err := s.completer.Complete(ctx, CompletionRequest{
		System:      analystSystemPrompt,
		Prompt:      categoryPrompt(label, text, deckContext),
		Temperature: s.temperature,
		MaxTokens:   s.scoreMaxTokens,
	})
	if err != nil {
		s.log.Error("category scoring failed", zap.String("category", label), zap.Error(err))
		return model.ScoreResult{
			Score:   0,
			Notes:   evaluationErrMsg + err.Error(),
			Outcome: model.OutcomeUnavailable,
		}
	}

	doc, ok := util.RecoverJSON(raw)
	if !ok {
		s.log.Warn("category reply is not JSON, using default score", zap.String("category", label))
		return model.ScoreResult{
			Score:   defaultScore,
			Notes:   util.Truncate(raw, rawNotesLimit),
			Outcome: model.OutcomeDefaulted,
		}
	}

	score, err := coerceScore(doc.Get("score"))
	if err != nil {
		s.log.Warn("category score is not numeric", zap.String("category", label), zap.Error(err))
		return model.ScoreResult{
			Score:   0,
			Notes:   evaluationErrMsg + err.Error(),
			Outcome: model.OutcomeDefaulted,
		}
	}

	return model.ScoreResult{
		Score:   score,
		Notes:   doc.Get("notes").String(),
		Outcome: model.OutcomeScored,
	}
}

func (s *ScoringService) ScoreDecision(ctx context.Context, req model.DecisionRequest) model.Decision {
	raw, err := s.completer.Complete(ctx, CompletionRequest{
		System:      analystSystemPrompt,
		Prompt:      decisionPrompt(req),
		Temperature: s.temperature,
		MaxTokens:   s.decisionMaxTokens,
	})
	if err != nil {
		s.log.Error("investment decision failed", zap.Error(err))
		return model.Decision{
			Investible:   "No",
			Summary:      evaluationErrMsg + err.Error(),
			KeyStrengths: []string{},
			KeyConcerns:  []string{"API error"},
			Outcome:      model.OutcomeUnavailable,
		}
	}

	doc, ok := util.RecoverJSON(raw)
	if !ok {
		s.log.Warn("decision reply is not JSON, using default decision")
		return model.Decision{
			Investible:   "No",
			Summary:      "Unable to generate decision",
			KeyStrengths: []string{},
			KeyConcerns:  []string{"Evaluation error"},
			Outcome:      model.OutcomeDefaulted,
		}
	}

	return model.Decision{
		Investible:   normalizeInvestible(doc.Get("investible")),
		Summary:      doc.Get("summary").String(),
		KeyStrengths: stringList(doc.Get("key_strengths")),
		KeyConcerns:  stringList(doc.Get("key_concerns")),
		Outcome:      model.OutcomeScored,
	}
}

// coerceScore accepts numbers and numeric strings. A missing or null score is
// the default score.
func coerceScore(r gjson.Result) (float64, error) {
	switch r.Type {
	case gjson.Null:
		return defaultScore, nil
	case gjson.Number:
		return finiteScore(r.Float(), r.Raw)
	case gjson.True:
		return 1, nil
	case gjson.False:
		return 0, nil
	case gjson.String:
		v, err := strconv.ParseFloat(strings.TrimSpace(r.Str), 64)
		if err != nil {
			return 0, fmt.Errorf("could not convert score %q to a number", r.Str)
		}
		return finiteScore(v, r.Raw)
	default:
		return 0, fmt.Errorf("could not convert score %s to a number", r.Raw)
	}
}

func finiteScore(v float64, raw string) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("score %s is not a finite number", raw)
	}
	return v, nil
}

func normalizeInvestible(r gjson.Result) string {
	switch r.Type {
	case gjson.True:
		return "Yes"
	case gjson.String:
		switch strings.ToLower(strings.TrimSpace(r.Str)) {
		case "yes", "true":
			return "Yes"
		}
	}
	return "No"
}

func stringList(r gjson.Result) []string {
	out := []string{}
	switch {
	case r.IsArray():
		for _, item := range r.Array() {
			out = append(out, item.String())
		}
	case r.Type == gjson.String && r.Str != "":
		out = append(out, r.Str)
	}
	return out
}
