package models

import "time"

// Submission stages recorded in the audit trail.
const (
	StageSearch = "search"
	StageFinal  = "final"
)

// SubmissionAudit is one durable record of a submission attempt. Partial
// failures (search posted, final failed) leave the backend in an
// inconsistent state with no compensation call available, so the snapshot
// here is what manual reconciliation works from.
type SubmissionAudit struct {
	SessionID  string         `bson:"sessionId" json:"sessionId"`
	EmployeeID string         `bson:"employeeId" json:"employeeId"`
	Stage      string         `bson:"stage" json:"stage"`
	Success    bool           `bson:"success" json:"success"`
	TripRef    string         `bson:"tripRef,omitempty" json:"tripRef,omitempty"`
	Error      string         `bson:"error,omitempty" json:"error,omitempty"`
	Snapshot   BookingSession `bson:"snapshot" json:"snapshot"`
	CreatedAt  time.Time      `bson:"createdAt" json:"createdAt"`
}
