package report

import (
	"fmt"
	"math"

	"DrawdownLens/internal/model"
)

// ValidateTargetGain checks that a target gain percentage lies in (0, 100].
func ValidateTargetGain(pct float64) error {
	if math.IsNaN(pct) || math.IsInf(pct, 0) {
		return &model.ValidationError{Field: "target gain", Reason: "must be a number"}
	}
	if pct <= 0 || pct > 100 {
		return &model.ValidationError{
			Field:  "target gain",
			Reason: fmt.Sprintf("must be greater than 0%% and at most 100%%, got %g%%", pct),
		}
	}
	return nil
}
