package services

import (
	"context"
	"math/rand/v2"
	"time"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/processing"
)

// StageEvaluator is the single capability shared by all pipeline stages.
// Evaluate returns structured metadata describing the attempt; the metadata
// is produced on failures too, so the audit trail records what the stage saw.
//
// A business-rule failure is returned as *StageError. Any other error is an
// infrastructure fault and must escape to the transport layer.
type StageEvaluator interface {
	// Stage returns the audit label of this evaluator.
	Stage() processing.Stage

	// Evaluate runs the stage against one order.
	Evaluate(ctx context.Context, o *order.Order) (map[string]any, error)
}

// StageError is an expected, recoverable-by-design business failure of one
// stage. It terminates the order's pipeline run with Failed status but is
// never treated as exceptional by the consumer.
type StageError struct {
	stage  processing.Stage
	reason string
}

// NewStageError creates a business failure for the given stage.
func NewStageError(stage processing.Stage, reason string) *StageError {
	return &StageError{stage: stage, reason: reason}
}

// Stage returns the stage that failed.
func (e *StageError) Stage() processing.Stage {
	return e.stage
}

// Reason returns the human-readable failure reason stored on the order.
func (e *StageError) Reason() string {
	return e.reason
}

// Error implements the error interface.
func (e *StageError) Error() string {
	return e.reason
}

// DelayFunc suspends a stage for its simulated (or real) external-call
// latency. It must return promptly once ctx is done.
type DelayFunc func(ctx context.Context)

// ZeroDelay returns immediately. Used in tests.
func ZeroDelay(context.Context) {}

// RandomDelay returns a DelayFunc sleeping a uniformly random duration in
// [minDelay, maxDelay], interruptible by context cancellation.
func RandomDelay(minDelay, maxDelay time.Duration) DelayFunc {
	return func(ctx context.Context) {
		d := minDelay
		if span := maxDelay - minDelay; span > 0 {
			d += time.Duration(rand.Int64N(int64(span) + 1))
		}

		timer := time.NewTimer(d)
		defer timer.Stop()

		select {
		case <-ctx.Done():
		case <-timer.C:
		}
	}
}
