package usecase

import (
	"context"
	"os"
	"time"

	"github.com/fadilmartias/pitch-analyzer/internal/extractor"
	"github.com/fadilmartias/pitch-analyzer/internal/metrics"
	"github.com/fadilmartias/pitch-analyzer/internal/model"
	"go.uber.org/zap"
)

type DocumentExtractor interface {
	Extract(path, ext string) (extractor.Result, error)
}

type DeckEvaluator interface {
	Evaluate(ctx context.Context, sub model.DeckSubmission) model.EvaluationResult
}

type ResultStore interface {
	Put(ctx context.Context, id string, result model.EvaluationResult) error
	Get(ctx context.Context, id string) (model.EvaluationResult, error)
}

type ReportNotifier interface {
	Send(ctx context.Context, to string, result model.EvaluationResult) error
	Provider() string
}

// Upload is a saved deck waiting to be evaluated.
type Upload struct {
	EvaluationID string
	Path         string
	Ext          string
	Filename     string
	ContactEmail string
	Submission   model.DeckSubmission
}

type EvaluationUsecase struct {
	extractor       DocumentExtractor
	evaluator       DeckEvaluator
	store           ResultStore
	notifier        ReportNotifier
	checkCredential func() error
	metrics         *metrics.Metrics
	log             *zap.Logger
	now             func() time.Time
}

// NewEvaluationUsecase wires the evaluation flow. notifier may be nil when
// email is not configured.
func NewEvaluationUsecase(
	ext DocumentExtractor,
	evaluator DeckEvaluator,
	store ResultStore,
	notifier ReportNotifier,
	checkCredential func() error,
	m *metrics.Metrics,
	log *zap.Logger,
) *EvaluationUsecase {
	if log == nil {
		log = zap.NewNop()
	}
	if checkCredential == nil {
		checkCredential = func() error { return nil }
	}
	return &EvaluationUsecase{
		extractor:       ext,
		evaluator:       evaluator,
		store:           store,
		notifier:        notifier,
		checkCredential: checkCredential,
		metrics:         m,
		log:             log,
		now:             time.Now,
	}
}

// Ready reports whether evaluations can run. It is checked before an upload
// is accepted.
func (uc *EvaluationUsecase) Ready() error {
	if err := uc.checkCredential(); err != nil {
		uc.metrics.ObserveEvaluation("rejected")
		return err
	}
	return nil
}

// Submit runs the whole pipeline synchronously and returns the stored result.
// The saved upload is removed when it cannot be extracted.
func (uc *EvaluationUsecase) Submit(ctx context.Context, up Upload) (model.EvaluationResult, error) {
	log := uc.log.With(zap.String("evaluation_id", up.EvaluationID))

	doc, err := uc.extractor.Extract(up.Path, up.Ext)
	if err != nil {
		uc.metrics.ObserveEvaluation("extraction_failed")
		uc.removeUpload(log, up.Path)
		return model.EvaluationResult{}, err
	}
	log.Info("deck extracted", zap.Int("units", doc.UnitCount))

	sub := up.Submission
	sub.Content = doc.Content
	result := uc.evaluator.Evaluate(ctx, sub)
	result.EvaluationID = up.EvaluationID
	result.Timestamp = uc.now().UTC().Format(time.RFC3339Nano)
	result.Filename = up.Filename

	if err := uc.store.Put(ctx, up.EvaluationID, result); err != nil {
		uc.metrics.ObserveEvaluation("store_failed")
		return model.EvaluationResult{}, err
	}
	uc.metrics.ObserveEvaluation("success")

	if up.ContactEmail != "" && uc.notifier != nil {
		uc.notify(ctx, log, up.ContactEmail, result)
	}
	return result, nil
}

func (uc *EvaluationUsecase) GetResult(ctx context.Context, id string) (model.EvaluationResult, error) {
	return uc.store.Get(ctx, id)
}

// notify never fails the request; delivery problems are logged and counted.
func (uc *EvaluationUsecase) notify(ctx context.Context, log *zap.Logger, to string, result model.EvaluationResult) {
	if err := uc.notifier.Send(ctx, to, result); err != nil {
		uc.metrics.ObserveNotification(uc.notifier.Provider(), "failed")
		log.Error("evaluation email failed", zap.String("provider", uc.notifier.Provider()), zap.Error(err))
		return
	}
	uc.metrics.ObserveNotification(uc.notifier.Provider(), "sent")
	log.Info("evaluation email sent", zap.String("provider", uc.notifier.Provider()))
}

func (uc *EvaluationUsecase) removeUpload(log *zap.Logger, path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Warn("failed to remove upload", zap.String("path", path), zap.Error(err))
	}
}
