package validation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"travelbot/models"
)

// Gateway talks to the employee-validation upstreams: header lookup,
// eligibility and trip-period validity. Each upstream sits behind its own
// circuit breaker so a flapping endpoint cannot stall every turn.
type Gateway struct {
	baseURL  string
	username string
	password string
	client   *http.Client
	breakers map[string]*gobreaker.CircuitBreaker
}

func NewGateway(baseURL, username, password string, timeout time.Duration) *Gateway {
	g := &Gateway{
		baseURL:  baseURL,
		username: username,
		password: password,
		client:   &http.Client{Timeout: timeout},
		breakers: make(map[string]*gobreaker.CircuitBreaker),
	}
	for _, name := range []string{"ES_HEADER", "ES_MODE_ELIG_OR_NOT", "ES_TRIPVALD"} {
		g.breakers[name] = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    name,
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				zap.L().Warn("upstream breaker state change",
					zap.String("upstream", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()))
			},
		})
	}
	return g
}

// FetchEmployeeHeader resolves an employee ID to the profile used in booking
// payloads. A 404 means the employee does not exist.
func (g *Gateway) FetchEmployeeHeader(ctx context.Context, pernr string) (*models.EmployeeProfile, error) {
	url := fmt.Sprintf("%s/ES_HEADER(UNAME='%s',REINR='',MODE='',PERNR='%s')?sap-client=500", g.baseURL, pernr, pernr)

	status, body, err := g.get(ctx, "ES_HEADER", url)
	if err != nil {
		return nil, err
	}
	switch status {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrNotFound
	default:
		return nil, serviceErr("ES_HEADER", "unexpected status code %d", status)
	}

	var envelope struct {
		D models.EmployeeProfile `json:"d"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, serviceErr("ES_HEADER", "decode response: %w", err)
	}
	return &envelope.D, nil
}

// CheckEligibility reports whether the employee may raise travel requests.
// Ineligible is a definitive answer, not an error.
func (g *Gateway) CheckEligibility(ctx context.Context, pernr string) (bool, error) {
	url := fmt.Sprintf("%s/ES_MODE_ELIG_OR_NOT(PERNR='%s')", g.baseURL, pernr)

	status, _, err := g.get(ctx, "ES_MODE_ELIG_OR_NOT", url)
	if err != nil {
		return false, err
	}
	switch status {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, serviceErr("ES_MODE_ELIG_OR_NOT", "unexpected status code %d", status)
	}
}

// CheckTripValidity asks the upstream whether the period is free of existing
// trips. Dates are YYYYMMDD, times HHMMSS. Anything but a recognised verdict
// comes back as a ServiceError so the caller can retry or re-prompt.
func (g *Gateway) CheckTripValidity(ctx context.Context, pernr, deptDate, arrDate, deptTime, arrTime string) (TripValidity, string, error) {
	url := fmt.Sprintf(
		"%s/ES_TRIPVALD(PERNR='%s',DEPT_DATE='%s',ARR_DATE='%s',DEPT_TIME='%s',ARR_TIME='%s',ACTION='',TRIPNO='0000000000')",
		g.baseURL, pernr, deptDate, arrDate, deptTime, arrTime)

	status, body, err := g.get(ctx, "ES_TRIPVALD", url)
	if err != nil {
		return ValidityUnknown, "", err
	}
	if status != http.StatusOK {
		return ValidityUnknown, "", serviceErr("ES_TRIPVALD", "unexpected status code %d", status)
	}

	var envelope struct {
		D struct {
			Status  string `json:"STATUS"`
			Remarks string `json:"REMARKS"`
		} `json:"d"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ValidityUnknown, "", serviceErr("ES_TRIPVALD", "decode response: %w", err)
	}

	verdict := ClassifyTripValidity(envelope.D.Status, envelope.D.Remarks)
	if verdict == ValidityUnknown {
		return ValidityUnknown, envelope.D.Remarks,
			serviceErr("ES_TRIPVALD", "unrecognised verdict status=%q remarks=%q", envelope.D.Status, envelope.D.Remarks)
	}
	return verdict, envelope.D.Remarks, nil
}

func (g *Gateway) get(ctx context.Context, upstream, url string) (int, []byte, error) {
	result, err := g.breakers[upstream].Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.SetBasicAuth(g.username, g.password)
		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-Requested-With", "X")

		resp, err := g.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		return &upstreamResponse{status: resp.StatusCode, body: body}, nil
	})
	if err != nil {
		return 0, nil, &ServiceError{Upstream: upstream, Err: err}
	}
	r := result.(*upstreamResponse)
	return r.status, r.body, nil
}

type upstreamResponse struct {
	status int
	body   []byte
}
