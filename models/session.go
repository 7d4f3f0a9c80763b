package models

// SessionState tracks where a conversation is in the booking flow.
type SessionState string

const (
	StateAwaitingEmployeeID   SessionState = "awaiting_employee_id"
	StateCollectingTravelData SessionState = "collecting_travel_data"
	StateAwaitingConfirmation SessionState = "awaiting_confirmation"
	StateSubmitted            SessionState = "submitted"
)

// TravelDetails is the incrementally filled travel record. String fields stay
// empty until the user supplies them; a non-empty value is never overwritten
// by an empty one.
type TravelDetails struct {
	Purpose           string  `json:"travel_purpose"`
	OriginCity        string  `json:"origin_city"`
	DestinationCity   string  `json:"destination_city"`
	StartDate         string  `json:"start_date"` // YYYYMMDD
	EndDate           string  `json:"end_date"`   // YYYYMMDD
	StartTime         string  `json:"start_time"` // HHMMSS
	EndTime           string  `json:"end_time"`   // HHMMSS
	JourneyType       string  `json:"journey_type"` // "One Way" or "Round Trip"
	TravelMode        string  `json:"travel_mode"`  // Bus, Own Car, Company Arranged Car, Train
	TravelClassText   string  `json:"travel_class_text"`
	BookingMethod     string  `json:"booking_method"`
	CostCenter        string  `json:"cost_center"` // 6-digit
	ProjectWBS        string  `json:"project_wbs"`
	Comment           string  `json:"comment"`
	TravelAdvance     float64 `json:"travel_advance"`
	AdditionalAdvance float64 `json:"additional_advance"`
	ReimbursePercent  float64 `json:"reimburse_percentage"`
}

// NewTravelDetails returns a travel record with the backend's advance and
// reimbursement defaults pre-filled.
func NewTravelDetails() TravelDetails {
	return TravelDetails{
		TravelAdvance:     500,
		AdditionalAdvance: 100,
		ReimbursePercent:  100,
	}
}

// CoreComplete reports whether the fields required before the trip-validity
// check are all present.
func (t TravelDetails) CoreComplete() bool {
	return t.Purpose != "" && t.OriginCity != "" && t.DestinationCity != "" &&
		t.StartDate != "" && t.EndDate != "" && t.StartTime != "" && t.EndTime != ""
}

// Complete reports whether every field required for submission is present.
func (t TravelDetails) Complete() bool {
	return t.CoreComplete() &&
		t.JourneyType != "" && t.TravelMode != "" && t.TravelClassText != "" &&
		t.BookingMethod != "" && t.CostCenter != "" && t.ProjectWBS != ""
}

// PeriodKey identifies the date/time window a trip-validity check covered, so
// the check reruns only when the window changes.
func (t TravelDetails) PeriodKey() string {
	return t.StartDate + "|" + t.EndDate + "|" + t.StartTime + "|" + t.EndTime
}

// ChatTurn is one message in the conversation history.
type ChatTurn struct {
	Role string `json:"role"` // "user" or "assistant"
	Text string `json:"text"`
}

// BookingSession holds the full per-conversation state. One session is owned
// by one conversation; turns against it are serialized by the engine.
type BookingSession struct {
	SessionID       string           `json:"sessionId"`
	State           SessionState     `json:"state"`
	EmployeeID      string           `json:"employeeId"`
	Travel          TravelDetails    `json:"travel"`
	Profile         *EmployeeProfile `json:"profile,omitempty"`
	TripRef         string           `json:"tripRef,omitempty"`
	ValidatedPeriod string           `json:"validatedPeriod,omitempty"`
	History         []ChatTurn       `json:"history"`
}

// NewBookingSession creates a fresh session in the initial state.
func NewBookingSession(id string) *BookingSession {
	return &BookingSession{
		SessionID: id,
		State:     StateAwaitingEmployeeID,
		Travel:    NewTravelDetails(),
	}
}

// Reset clears everything except the session identity, returning the session
// to the state of a first message.
func (s *BookingSession) Reset() {
	s.State = StateAwaitingEmployeeID
	s.EmployeeID = ""
	s.Travel = NewTravelDetails()
	s.Profile = nil
	s.TripRef = ""
	s.ValidatedPeriod = ""
	s.History = nil
}
