package validation

import "strings"

// TripValidity is the three-way answer from the trip-period check.
type TripValidity int

const (
	// ValidityUnknown means the upstream answered but not with either of the
	// recognised verdicts. It is not a yes.
	ValidityUnknown TripValidity = iota
	ValidityValid
	ValidityInvalid
)

const noTripRemark = "No trip available for given period"

// ClassifyTripValidity maps the upstream STATUS/REMARKS pair to a verdict.
// Success status with the no-trip remark means the period is free; error
// status with an "already exists" remark means an overlapping trip blocks it.
// Every other combination is unknown and must be treated as a failed check.
func ClassifyTripValidity(status, remarks string) TripValidity {
	switch {
	case status == "S" && strings.Contains(remarks, noTripRemark):
		return ValidityValid
	case status == "E" && strings.Contains(remarks, "already exists"):
		return ValidityInvalid
	default:
		return ValidityUnknown
	}
}
