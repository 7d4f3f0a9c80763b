package oracle

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"travelbot/models"
)

// Response markers the oracle prefixes its output with. Anything else is
// plain assistant text and is relayed unchanged.
const (
	MarkerNewRequest    = "<NEW_REQUEST>"
	MarkerDataCollected = "<DATA_COLLECTED>"
	MarkerReady         = "<READY>"
	MarkerTripDetails   = "<TRIP_DETAILS>"
	MarkerTripCancel    = "<TRIP_CANCEL>"
)

// Extract parses one raw oracle response into a typed directive. It is a pure
// function: parse failures come back as an extraction-failure directive
// carrying the raw text, never as an error or a mutation.
func Extract(raw string) models.Directive {
	text := stripCodeFences(strings.TrimSpace(raw))

	// Direct tool-call mode: a bare {"tool": ..., "arguments": {...}} object.
	if strings.HasPrefix(text, "{") {
		if d, ok := extractToolCall(text, raw); ok {
			return d
		}
	}

	for marker, kind := range map[string]models.DirectiveKind{
		MarkerNewRequest:    models.DirectiveCaptureID,
		MarkerDataCollected: models.DirectiveCollectData,
		MarkerReady:         models.DirectiveReady,
		MarkerTripDetails:   models.DirectiveShowTrips,
		MarkerTripCancel:    models.DirectiveCancelTrip,
	} {
		if strings.HasPrefix(text, marker) {
			return extractTagged(kind, strings.TrimPrefix(text, marker), raw)
		}
	}

	return models.Directive{Kind: models.DirectiveOutOfScope, Reply: text, Raw: raw}
}

func extractTagged(kind models.DirectiveKind, body, raw string) models.Directive {
	obj, rest, ok := firstJSONObject(body)
	if !ok {
		return models.Directive{Kind: models.DirectiveExtractionFailure, Raw: raw}
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(obj), &payload); err != nil {
		return models.Directive{Kind: models.DirectiveExtractionFailure, Raw: raw}
	}

	d := buildDirective(kind, payload)
	d.Reply = strings.TrimSpace(rest)
	d.Raw = raw
	return d
}

func extractToolCall(text, raw string) (models.Directive, bool) {
	obj, _, ok := firstJSONObject(text)
	if !ok {
		return models.Directive{}, false
	}
	var call struct {
		Tool      string         `json:"tool"`
		Arguments map[string]any `json:"arguments"`
	}
	if err := json.Unmarshal([]byte(obj), &call); err != nil || call.Tool == "" {
		return models.Directive{}, false
	}

	var kind models.DirectiveKind
	switch call.Tool {
	case "capture_employee_id":
		kind = models.DirectiveCaptureID
	case "collect_travel_data":
		kind = models.DirectiveCollectData
	case "submit_travel_request":
		kind = models.DirectiveReady
	case "show_trip_details":
		kind = models.DirectiveShowTrips
	case "cancel_trip":
		kind = models.DirectiveCancelTrip
	default:
		return models.Directive{}, false
	}

	d := buildDirective(kind, call.Arguments)
	d.Raw = raw
	return d, true
}

func buildDirective(kind models.DirectiveKind, payload map[string]any) models.Directive {
	d := models.Directive{Kind: kind}

	switch kind {
	case models.DirectiveCaptureID:
		d.EmployeeID = stringField(payload, "employee ID", "employee_id", "employeeId")

	case models.DirectiveCollectData, models.DirectiveReady:
		f := &models.TravelFields{
			EmployeeID:      stringField(payload, "employee ID", "employee_id", "employeeId"),
			Purpose:         stringField(payload, "travel_purpose", "purpose"),
			OriginCity:      stringField(payload, "origin_city"),
			DestinationCity: stringField(payload, "destination_city"),
			JourneyType:     stringField(payload, "journey_type"),
			TravelMode:      stringField(payload, "travel_mode"),
			TravelClassText: stringField(payload, "travel_class_text", "travel_class"),
			BookingMethod:   stringField(payload, "booking_method"),
			CostCenter:      stringField(payload, "cost_center"),
			ProjectWBS:      stringField(payload, "project_wbs", "wbs"),
			Comment:         stringField(payload, "comment"),
		}
		f.StartDate = normalizeField(stringField(payload, "start_date"), normalizeDate, "start_date", &d)
		f.EndDate = normalizeField(stringField(payload, "end_date"), normalizeDate, "end_date", &d)
		f.StartTime = normalizeField(stringField(payload, "start_time"), normalizeTime, "start_time", &d)
		f.EndTime = normalizeField(stringField(payload, "end_time"), normalizeTime, "end_time", &d)
		d.Fields = f

	case models.DirectiveShowTrips:
		filter := &models.TripFilter{
			EmployeeID: stringField(payload, "employee ID", "employee_id", "employeeId"),
			AllTrips:   strings.EqualFold(stringField(payload, "all_trips"), "yes"),
			TripNumber: stringField(payload, "trip_number", "trip_num"),
		}
		filter.StartDate = normalizeField(stringField(payload, "start_date"), normalizeDate, "start_date", &d)
		filter.EndDate = normalizeField(stringField(payload, "end_date"), normalizeDate, "end_date", &d)
		d.TripFilter = filter

	case models.DirectiveCancelTrip:
		d.Cancel = &models.CancelTarget{
			EmployeeID: stringField(payload, "employee ID", "employee_id", "employeeId"),
			TripNumber: stringField(payload, "trip_num", "trip_number"),
		}
	}

	return d
}

// normalizeField applies a normalizer but keeps the original value when it
// does not parse, recording a warning so the state machine can re-prompt
// instead of silently dropping the input.
func normalizeField(val string, fn func(string) (string, bool), name string, d *models.Directive) string {
	if val == "" {
		return ""
	}
	norm, ok := fn(val)
	if !ok {
		d.Warnings = append(d.Warnings, fmt.Sprintf("invalid %s format: %q", name, val))
		return val
	}
	return norm
}

// normalizeDate coerces a date string to 8-digit YYYYMMDD.
func normalizeDate(s string) (string, bool) {
	trimmed := strings.TrimSpace(s)
	compact := strings.NewReplacer("-", "", "/", "").Replace(trimmed)
	if len(compact) != 8 {
		return "", false
	}
	if _, err := time.Parse("20060102", compact); err != nil {
		return "", false
	}
	return compact, true
}

// normalizeTime coerces a time string to 6-digit HHMMSS, zero-padding seconds.
func normalizeTime(s string) (string, bool) {
	compact := strings.ReplaceAll(strings.TrimSpace(s), ":", "")
	switch len(compact) {
	case 4:
		compact += "00"
	case 6:
		// already HHMMSS
	default:
		return "", false
	}
	if _, err := time.Parse("150405", compact); err != nil {
		return "", false
	}
	return compact, true
}

// stringField returns the first non-empty value among the aliased keys,
// tolerating numeric JSON values.
func stringField(payload map[string]any, keys ...string) string {
	for _, key := range keys {
		v, ok := payload[key]
		if !ok {
			continue
		}
		switch t := v.(type) {
		case string:
			if s := strings.TrimSpace(t); s != "" {
				return s
			}
		case float64:
			if t == float64(int64(t)) {
				return fmt.Sprintf("%d", int64(t))
			}
			return fmt.Sprintf("%v", t)
		}
	}
	return ""
}

// firstJSONObject returns the first balanced {...} block in s and the
// surrounding text with the block removed. String literals and escapes are
// honoured so braces inside values do not break the scan.
func firstJSONObject(s string) (obj string, rest string, ok bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", s, false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], s[:start] + s[i+1:], true
			}
		}
	}
	return "", s, false
}

// stripCodeFences removes a surrounding ```json ... ``` block if present.
func stripCodeFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	trimmed := strings.TrimPrefix(s, "```")
	if idx := strings.IndexByte(trimmed, '\n'); idx >= 0 {
		trimmed = trimmed[idx+1:]
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
