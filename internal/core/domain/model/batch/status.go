package batch

import (
	"fmt"

	"orderflow/internal/pkg/errs"
)

// Status represents the lifecycle state of an uploaded batch:
//
//	Pending ──> Processing ──> Completed
//	   │             │
//	   └─────────────┴───────> Failed
//
// Pending -> Failed covers a stream-level ingestion failure before any order
// was published. Completed and Failed are terminal.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota

	// Pending is the initial status of an accepted upload.
	Pending

	// Processing indicates the batch's orders have been published to the
	// queue and are working through the pipeline.
	Processing

	// Completed indicates every contained order reached a terminal status.
	Completed

	// Failed indicates ingestion aborted before the orders were published.
	Failed
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "Unknown",
		Pending:    "Pending",
		Processing: "Processing",
		Completed:  "Completed",
		Failed:     "Failed",
	}
}

// Validate checks that the Status is one of the defined lifecycle states.
func (s Status) Validate() error {
	if s < Pending || s > Failed {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the human-readable name of the status.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether the status permits no further transitions.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Failed
}

// StartProcessing transitions Pending to Processing.
func (s Status) StartProcessing() (Status, error) {
	if s != Pending {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to start processing", s.String()),
		)
	}

	return Processing, nil
}

// Complete transitions Processing to Completed.
func (s Status) Complete() (Status, error) {
	if s != Processing {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to complete", s.String()),
		)
	}

	return Completed, nil
}

// Fail transitions Pending or Processing to Failed.
func (s Status) Fail() (Status, error) {
	if s != Pending && s != Processing {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to fail", s.String()),
		)
	}

	return Failed, nil
}
