package oracle

import (
	"encoding/json"
	"fmt"
	"strings"

	"travelbot/models"
	"travelbot/services/refdata"
)

const historyTail = 5

// BuildPrompt assembles the full instruction block sent to the model for one
// turn: behaviour rules, reference tables, the current session snapshot, the
// recent history tail and the new user message.
func BuildPrompt(cat *refdata.Catalog, sess *models.BookingSession, userText string) string {
	var b strings.Builder

	b.WriteString(`You are a corporate travel booking assistant. You help employees raise
travel requests, view their trips and cancel trips. Stay strictly on these
topics; for anything else reply briefly that you only handle travel requests.

You must prefix structured output with exactly one of these markers, followed
by a single JSON object:

<NEW_REQUEST> {"employee ID": "<8 digits>"}
  - when the user has provided their employee ID and no ID is known yet.

<DATA_COLLECTED> {"travel_purpose": ..., "origin_city": ..., "destination_city": ...,
  "start_date": ..., "end_date": ..., "start_time": ..., "end_time": ...,
  "journey_type": ..., "travel_mode": ..., "travel_class_text": ...,
  "booking_method": ..., "cost_center": ..., "project_wbs": ..., "comment": ...}
  - every time the user supplies or changes any travel detail. Include every
    field you currently know; use "" for unknown fields. NEVER blank out a
    value you reported earlier unless the user explicitly changed it.

<READY> {same JSON shape as <DATA_COLLECTED>}
  - only when all fields are filled and the user should be asked to confirm.

<TRIP_DETAILS> {"employee ID": ..., "all_trips": "Yes"/"No",
  "start_date": ..., "end_date": ..., "trip_number": ...}
  - when the user asks to see their trips. "all_trips": "Yes" means no filter.

<TRIP_CANCEL> {"employee ID": ..., "trip_num": ...}
  - when the user asks to cancel a specific trip.

Dates are YYYYMMDD, times are HHMMSS. journey_type is "One-way" or "Round trip".
travel_mode is one of: Bus, Own Car, Company Arranged Car, Train.
booking_method is one of: Company Booked, Self Booked, Others.

Valid cities (name → code):
`)
	b.WriteString(cat.CityPairs())
	b.WriteString("\n\nValid travel purposes: ")
	b.WriteString(cat.PurposeList())
	b.WriteString("\n\nCurrent session state:\n")
	b.WriteString(sessionSnapshot(sess))

	tail := sess.History
	if len(tail) > historyTail {
		tail = tail[len(tail)-historyTail:]
	}
	if len(tail) > 0 {
		b.WriteString("\n\nRecent conversation:\n")
		for _, turn := range tail {
			fmt.Fprintf(&b, "%s: %s\n", turn.Role, turn.Text)
		}
	}

	b.WriteString("\nUser: ")
	b.WriteString(userText)
	return b.String()
}

// sessionSnapshot serializes the facts the model must treat as already
// established, so it never re-asks for or drops them.
func sessionSnapshot(sess *models.BookingSession) string {
	snap := map[string]any{
		"state":       string(sess.State),
		"employee_id": sess.EmployeeID,
		"travel":      sess.Travel,
	}
	out, err := json.Marshal(snap)
	if err != nil {
		return "{}"
	}
	return string(out)
}
