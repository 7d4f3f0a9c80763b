package models

// TripSummary is one row of a trip-details lookup, trimmed from the upstream
// entity to what the assistant displays.
type TripSummary struct {
	TripNumber     string `json:"trip_number"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
	ApprovalStatus string `json:"approval_status"`
}

// CancelResult is the backend's answer to a cancellation request.
type CancelResult struct {
	MessageType string `json:"MESSAGE_TYPE"`
	Message     string `json:"MESSAGE"`
}

// CityCodes is the resolved origin/destination pair used by the payload
// builders. Both names are catalog-valid by the time this exists.
type CityCodes struct {
	OriginCity      string `json:"origin_city"`
	OriginCode      string `json:"origin_city_code"`
	DestinationCity string `json:"destination_city"`
	DestinationCode string `json:"destination_city_code"`
}
