package service

import (
	"github.com/fadilmartias/pitch-analyzer/internal/config"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// newBreaker returns nil unless the breaker is enabled in cfg.
func newBreaker(cfg *config.LLMConfig, log *zap.Logger) *gobreaker.CircuitBreaker[string] {
	if !cfg.BreakerEnabled {
		return nil
	}
	maxFailures := uint32(cfg.BreakerMaxFailures)
	if maxFailures == 0 {
		maxFailures = 5
	}
	return gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name: cfg.Provider + "-completion",
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
}
