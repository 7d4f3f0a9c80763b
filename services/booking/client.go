package booking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"travelbot/models"
)

const defaultTripWindowDays = 90

// AuditRecorder persists one submission-attempt record. Recording is
// best-effort; a failed write never fails the submission itself.
type AuditRecorder interface {
	Record(ctx context.Context, entry models.SubmissionAudit) error
}

// PartialFailureError reports a submission where the search stage was
// accepted but the final stage failed. The backend now holds a half-created
// request with no compensation call; the audit trail carries the session
// snapshot for manual reconciliation.
type PartialFailureError struct {
	Stage string
	Err   error
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("submission failed at %s stage after search was accepted: %v", e.Stage, e.Err)
}

func (e *PartialFailureError) Unwrap() error { return e.Err }

// Client talks to the booking backend: two-stage submission, trip listing
// and cancellation.
type Client struct {
	baseURL  string
	username string
	password string
	client   *http.Client
	audit    AuditRecorder
	now      func() time.Time
}

func NewClient(baseURL, username, password string, timeout time.Duration, audit AuditRecorder) *Client {
	return &Client{
		baseURL:  baseURL,
		username: username,
		password: password,
		client:   &http.Client{Timeout: timeout},
		audit:    audit,
		now:      time.Now,
	}
}

// Submit posts the search payload and then the final payload, both of which
// must come back 201. The returned string is the backend-assigned trip
// reference. A final-stage failure after a successful search surfaces as a
// PartialFailureError.
func (c *Client) Submit(ctx context.Context, sess *models.BookingSession, cities models.CityCodes) (string, error) {
	search := BuildSearchPayload(sess, cities)
	status, _, err := c.postJSON(ctx, "/ES_GET", search)
	if err == nil && status != http.StatusCreated {
		err = fmt.Errorf("search stage returned status %d", status)
	}
	if err != nil {
		c.record(ctx, sess, models.StageSearch, false, "", err)
		return "", fmt.Errorf("search stage: %w", err)
	}
	c.record(ctx, sess, models.StageSearch, true, "", nil)

	final := BuildFinalPayload(sess, cities)
	status, body, err := c.postJSON(ctx, "/ES_FINAL", final)
	if err == nil && status != http.StatusCreated {
		err = fmt.Errorf("final stage returned status %d", status)
	}
	if err != nil {
		c.record(ctx, sess, models.StageFinal, false, "", err)
		return "", &PartialFailureError{Stage: models.StageFinal, Err: err}
	}

	var envelope struct {
		D struct {
			Reinr string `json:"REINR"`
		} `json:"d"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		c.record(ctx, sess, models.StageFinal, false, "", err)
		return "", &PartialFailureError{Stage: models.StageFinal, Err: fmt.Errorf("decode response: %w", err)}
	}

	c.record(ctx, sess, models.StageFinal, true, envelope.D.Reinr, nil)
	return envelope.D.Reinr, nil
}

// TripList fetches the employee's trips. With no explicit filter the window
// defaults to 90 days either side of today; an all-trips request drops the
// window entirely.
func (c *Client) TripList(ctx context.Context, filter models.TripFilter) ([]models.TripSummary, error) {
	startDate, endDate := filter.StartDate, filter.EndDate
	if filter.AllTrips {
		startDate, endDate = "", ""
	} else if startDate == "" && endDate == "" && filter.TripNumber == "" {
		today := c.now()
		startDate = today.AddDate(0, 0, -defaultTripWindowDays).Format("20060102")
		endDate = today.AddDate(0, 0, defaultTripWindowDays).Format("20060102")
	}

	url := fmt.Sprintf(
		"%s/ES_TRIP_GET_LIST_OF_EMPSet(USER_ID='%s',EMP_ID='',FILTER_STATUS='',TRIP_NUMBER='%s',STARTDATE='%s',ENDDATE='%s')/NAV_Get_Emp_Trips_List?sap-client=500",
		c.baseURL, filter.EmployeeID, filter.TripNumber, startDate, endDate)

	status, body, err := c.getJSON(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("trip list: %w", err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("trip list returned status %d", status)
	}

	var envelope struct {
		D struct {
			Results []struct {
				TripNumber     string `json:"TRIP_NUMBER"`
				StartDate      string `json:"STARTDATE"`
				EndDate        string `json:"ENDDATE"`
				ApprovalStatus string `json:"APPROVALSTATUS"`
			} `json:"results"`
		} `json:"d"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("trip list: decode response: %w", err)
	}

	trips := make([]models.TripSummary, 0, len(envelope.D.Results))
	for _, row := range envelope.D.Results {
		trips = append(trips, models.TripSummary{
			TripNumber:     row.TripNumber,
			StartDate:      row.StartDate,
			EndDate:        row.EndDate,
			ApprovalStatus: row.ApprovalStatus,
		})
	}
	return trips, nil
}

// CancelTrip asks the backend to cancel one trip. The backend answers 200
// even for refusals; the verdict is in the message type.
func (c *Client) CancelTrip(ctx context.Context, target models.CancelTarget) (models.CancelResult, error) {
	url := fmt.Sprintf(
		"%s/ES_TRIP_CANCEL(PERNR='%s',TRIPNO='%s',COMMENTS='Trip cancellation requested by user')",
		c.baseURL, target.EmployeeID, target.TripNumber)

	status, body, err := c.getJSON(ctx, url)
	if err != nil {
		return models.CancelResult{}, fmt.Errorf("cancel trip: %w", err)
	}
	if status != http.StatusOK {
		return models.CancelResult{}, fmt.Errorf("cancel trip returned status %d", status)
	}

	var envelope struct {
		D models.CancelResult `json:"d"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return models.CancelResult{}, fmt.Errorf("cancel trip: decode response: %w", err)
	}
	return envelope.D, nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload any) (int, []byte, error) {
	buf, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(buf))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) getJSON(ctx context.Context, url string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, nil, err
	}
	return c.do(req)
}

func (c *Client) do(req *http.Request) (int, []byte, error) {
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Requested-With", "X")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, body, nil
}

func (c *Client) record(ctx context.Context, sess *models.BookingSession, stage string, success bool, tripRef string, cause error) {
	if c.audit == nil {
		return
	}
	entry := models.SubmissionAudit{
		SessionID:  sess.SessionID,
		EmployeeID: sess.EmployeeID,
		Stage:      stage,
		Success:    success,
		TripRef:    tripRef,
		Snapshot:   *sess,
		CreatedAt:  c.now(),
	}
	if cause != nil {
		entry.Error = cause.Error()
	}
	if err := c.audit.Record(ctx, entry); err != nil {
		zap.L().Error("failed to record submission audit",
			zap.String("sessionId", sess.SessionID),
			zap.String("stage", stage),
			zap.Error(err))
	}
}
