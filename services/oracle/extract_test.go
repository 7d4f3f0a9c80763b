package oracle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelbot/models"
)

func TestExtractPlainTextIsOutOfScope(t *testing.T) {
	d := Extract("Sure, could you share your employee ID?")
	assert.Equal(t, models.DirectiveOutOfScope, d.Kind)
	assert.Equal(t, "Sure, could you share your employee ID?", d.Reply)
}

func TestExtractNewRequest(t *testing.T) {
	d := Extract(`<NEW_REQUEST> {"employee ID": "12345678"} Thanks, let me look you up.`)
	assert.Equal(t, models.DirectiveCaptureID, d.Kind)
	assert.Equal(t, "12345678", d.EmployeeID)
	assert.Equal(t, "Thanks, let me look you up.", d.Reply)
}

func TestExtractNewRequestNumericID(t *testing.T) {
	d := Extract(`<NEW_REQUEST> {"employee ID": 12345678}`)
	assert.Equal(t, models.DirectiveCaptureID, d.Kind)
	assert.Equal(t, "12345678", d.EmployeeID)
}

func TestExtractDataCollectedNormalizesDatesAndTimes(t *testing.T) {
	d := Extract(`<DATA_COLLECTED> {"travel_purpose": "Training",
		"origin_city": "Mumbai", "destination_city": "Pune",
		"start_date": "2026-09-10", "end_date": "2026/09/12",
		"start_time": "09:30", "end_time": "18:45:30"}`)

	require.Equal(t, models.DirectiveCollectData, d.Kind)
	require.NotNil(t, d.Fields)
	assert.Equal(t, "20260910", d.Fields.StartDate)
	assert.Equal(t, "20260912", d.Fields.EndDate)
	assert.Equal(t, "093000", d.Fields.StartTime)
	assert.Equal(t, "184530", d.Fields.EndTime)
	assert.Empty(t, d.Warnings)
}

func TestExtractKeepsInvalidDateWithWarning(t *testing.T) {
	d := Extract(`<DATA_COLLECTED> {"start_date": "next Tuesday"}`)

	require.NotNil(t, d.Fields)
	assert.Equal(t, "next Tuesday", d.Fields.StartDate)
	require.Len(t, d.Warnings, 1)
	assert.Contains(t, d.Warnings[0], "start_date")
}

func TestExtractFieldAliases(t *testing.T) {
	d := Extract(`<DATA_COLLECTED> {"purpose": "Audit", "wbs": "WBS-100", "travel_class": "3AC"}`)

	require.NotNil(t, d.Fields)
	assert.Equal(t, "Audit", d.Fields.Purpose)
	assert.Equal(t, "WBS-100", d.Fields.ProjectWBS)
	assert.Equal(t, "3AC", d.Fields.TravelClassText)
}

func TestExtractReadyInsideCodeFence(t *testing.T) {
	raw := "```json\n<READY> {\"travel_purpose\": \"Training\", \"origin_city\": \"Mumbai\"}\n```"
	d := Extract(raw)
	assert.Equal(t, models.DirectiveReady, d.Kind)
	require.NotNil(t, d.Fields)
	assert.Equal(t, "Training", d.Fields.Purpose)
}

func TestExtractTripDetails(t *testing.T) {
	d := Extract(`<TRIP_DETAILS> {"employee ID": "12345678", "all_trips": "No",
		"start_date": "20260901", "end_date": "20260930"}`)

	require.Equal(t, models.DirectiveShowTrips, d.Kind)
	require.NotNil(t, d.TripFilter)
	assert.False(t, d.TripFilter.AllTrips)
	assert.Equal(t, "20260901", d.TripFilter.StartDate)
	assert.Equal(t, "20260930", d.TripFilter.EndDate)
}

func TestExtractTripCancelAliasedKey(t *testing.T) {
	d := Extract(`<TRIP_CANCEL> {"employee ID": "12345678", "trip_num": "0000004711"}`)

	require.Equal(t, models.DirectiveCancelTrip, d.Kind)
	require.NotNil(t, d.Cancel)
	assert.Equal(t, "0000004711", d.Cancel.TripNumber)
}

func TestExtractMarkerWithoutJSONFails(t *testing.T) {
	d := Extract(`<DATA_COLLECTED> sorry, I lost the details`)
	assert.Equal(t, models.DirectiveExtractionFailure, d.Kind)
	assert.Contains(t, d.Raw, "sorry")
}

func TestExtractBracesInsideStrings(t *testing.T) {
	d := Extract(`<DATA_COLLECTED> {"comment": "use {urgent} handling"} noted`)

	require.Equal(t, models.DirectiveCollectData, d.Kind)
	require.NotNil(t, d.Fields)
	assert.Equal(t, "use {urgent} handling", d.Fields.Comment)
	assert.Equal(t, "noted", d.Reply)
}

func TestExtractDirectToolCall(t *testing.T) {
	d := Extract(`{"tool": "cancel_trip", "arguments": {"employee_id": "12345678", "trip_number": "0000000042"}}`)

	require.Equal(t, models.DirectiveCancelTrip, d.Kind)
	require.NotNil(t, d.Cancel)
	assert.Equal(t, "12345678", d.Cancel.EmployeeID)
	assert.Equal(t, "0000000042", d.Cancel.TripNumber)
}

func TestExtractUnknownToolFallsThrough(t *testing.T) {
	d := Extract(`{"tool": "book_hotel", "arguments": {}}`)
	assert.Equal(t, models.DirectiveOutOfScope, d.Kind)
}

func TestNormalizeTimeIdempotent(t *testing.T) {
	got, ok := normalizeTime("093000")
	require.True(t, ok)
	assert.Equal(t, "093000", got)
}
