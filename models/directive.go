package models

// DirectiveKind enumerates the closed set of actions the oracle can request.
type DirectiveKind string

const (
	DirectiveCaptureID         DirectiveKind = "capture_employee_id"
	DirectiveCollectData       DirectiveKind = "collect_travel_data"
	DirectiveReady             DirectiveKind = "ready"
	DirectiveShowTrips         DirectiveKind = "show_trips"
	DirectiveCancelTrip        DirectiveKind = "cancel_trip"
	DirectiveOutOfScope        DirectiveKind = "out_of_scope"
	DirectiveExtractionFailure DirectiveKind = "extraction_failure"
)

// TravelFields carries the string values extracted from one oracle payload.
// Empty means the oracle did not supply the field this turn.
type TravelFields struct {
	EmployeeID      string
	Purpose         string
	OriginCity      string
	DestinationCity string
	StartDate       string
	EndDate         string
	StartTime       string
	EndTime         string
	JourneyType     string
	TravelMode      string
	TravelClassText string
	BookingMethod   string
	CostCenter      string
	ProjectWBS      string
	Comment         string
}

// TripFilter selects which trips a trip-details lookup returns. An empty
// date range means "around today" (the gateway applies the default window).
type TripFilter struct {
	EmployeeID string
	AllTrips   bool
	StartDate  string
	EndDate    string
	TripNumber string
}

// CancelTarget identifies the trip a cancellation request refers to.
type CancelTarget struct {
	EmployeeID string
	TripNumber string
}

// Directive is the typed result of extracting one oracle response. Exactly
// one of the payload pointers is set, matching Kind. Reply is the trailing
// free text to relay to the user, Raw the unmodified oracle output kept for
// diagnostics.
type Directive struct {
	Kind     DirectiveKind
	Reply    string
	Raw      string
	Warnings []string

	EmployeeID string
	Fields     *TravelFields
	TripFilter *TripFilter
	Cancel     *CancelTarget
}
