// Package services contains the stage evaluators of the order pipeline.
//
// Each evaluator implements one step of the fixed four-step sequence
// (address validation, inventory check, shipping calculation, risk
// assessment) behind the common StageEvaluator capability, so the consumer
// dispatches over an ordered list instead of branching on stage identity.
//
// Evaluators are pure-ish: their only inputs are the order under evaluation
// and immutable reference data injected at construction. Expected business
// failures are reported as *StageError values; any other error is treated as
// an infrastructure fault by the caller. The simulated latency of each stage
// is an injectable DelayFunc so tests run with zero delay.
package services
