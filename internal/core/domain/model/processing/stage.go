package processing

import (
	"fmt"

	"orderflow/internal/pkg/errs"
)

// Stage identifies which step of the pipeline an audit entry belongs to.
//
// Each of the four evaluators has exactly one label, and two terminal markers
// (Completed, Failed) close the overall run. Earlier revisions of this system
// reused labels across stages (an inventory success logged under
// StageAddressValidation, a risk success under StageCompleted); that was a
// logging bug, not a taxonomy, and is deliberately not reproduced here.
type Stage int

const (
	// StageUnknown represents an invalid or undefined stage.
	StageUnknown Stage = iota

	// StageAddressValidation is the address validation evaluator.
	StageAddressValidation

	// StageInventoryCheck is the inventory availability evaluator.
	StageInventoryCheck

	// StageShippingCalculation is the shipping cost evaluator.
	StageShippingCalculation

	// StageRiskAssessment is the risk assessment evaluator.
	StageRiskAssessment

	// StageCompleted is the terminal marker for a fully successful run.
	StageCompleted

	// StageFailed is the terminal marker for an aborted run.
	StageFailed
)

func getStageStrings() map[Stage]string {
	return map[Stage]string{
		StageUnknown:             "UNKNOWN",
		StageAddressValidation:   "ADDRESS_VALIDATION",
		StageInventoryCheck:      "INVENTORY_CHECK",
		StageShippingCalculation: "SHIPPING_CALCULATION",
		StageRiskAssessment:      "RISK_ASSESSMENT",
		StageCompleted:           "COMPLETED",
		StageFailed:              "FAILED",
	}
}

// Validate checks that the Stage is one of the defined labels.
func (s Stage) Validate() error {
	if s < StageAddressValidation || s > StageFailed {
		return errs.NewValueIsInvalidErrorWithCause("stage is invalid", fmt.Errorf("%d is not a valid stage", s))
	}
	return nil
}

// String returns the persisted name of the stage.
func (s Stage) String() string {
	if str, ok := getStageStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsTerminalMarker reports whether the stage closes an overall run rather
// than describing one evaluator attempt.
func (s Stage) IsTerminalMarker() bool {
	return s == StageCompleted || s == StageFailed
}
