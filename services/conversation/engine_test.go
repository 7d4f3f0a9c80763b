package conversation

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelbot/models"
	"travelbot/services/refdata"
	"travelbot/services/validation"
)

type fakeOracle struct {
	directives []models.Directive
	calls      int
}

func (f *fakeOracle) Respond(_ context.Context, _ *models.BookingSession, _ string) (models.Directive, error) {
	d := f.directives[f.calls%len(f.directives)]
	f.calls++
	return d, nil
}

type fakeGateway struct {
	headerCalls   int
	validityCalls int
	profile       *models.EmployeeProfile
	headerErr     error
	eligible      bool
	eligibleErr   error
	validity      []func() (validation.TripValidity, string, error)
}

func (f *fakeGateway) FetchEmployeeHeader(_ context.Context, _ string) (*models.EmployeeProfile, error) {
	f.headerCalls++
	return f.profile, f.headerErr
}

func (f *fakeGateway) CheckEligibility(_ context.Context, _ string) (bool, error) {
	return f.eligible, f.eligibleErr
}

func (f *fakeGateway) CheckTripValidity(_ context.Context, _, _, _, _, _ string) (validation.TripValidity, string, error) {
	idx := f.validityCalls
	if idx >= len(f.validity) {
		idx = len(f.validity) - 1
	}
	f.validityCalls++
	return f.validity[idx]()
}

type fakeBackend struct {
	submitCalls int
	submitRef   string
	submitErr   error
	trips       []models.TripSummary
	cancel      models.CancelResult
}

func (f *fakeBackend) Submit(_ context.Context, _ *models.BookingSession, _ models.CityCodes) (string, error) {
	f.submitCalls++
	return f.submitRef, f.submitErr
}

func (f *fakeBackend) TripList(_ context.Context, _ models.TripFilter) ([]models.TripSummary, error) {
	return f.trips, nil
}

func (f *fakeBackend) CancelTrip(_ context.Context, _ models.CancelTarget) (models.CancelResult, error) {
	return f.cancel, nil
}

func testCatalog(t *testing.T) *refdata.Catalog {
	t.Helper()
	dir := t.TempDir()
	cityPath := filepath.Join(dir, "cities.csv")
	purposePath := filepath.Join(dir, "purposes.csv")
	require.NoError(t, os.WriteFile(cityPath, []byte("Mumbai,BOM\nPune,PNQ\nNagpur,NAG\n"), 0o644))
	require.NoError(t, os.WriteFile(purposePath, []byte("Training\nClient Meeting\n"), 0o644))
	cat, err := refdata.Load(cityPath, purposePath)
	require.NoError(t, err)
	return cat
}

func validProfile() *models.EmployeeProfile {
	return &models.EmployeeProfile{Pernr: "12345678", FirstName: "Asha", Persa: "1100"}
}

func alwaysValid() func() (validation.TripValidity, string, error) {
	return func() (validation.TripValidity, string, error) {
		return validation.ValidityValid, "No trip available for given period", nil
	}
}

func newTestEngine(t *testing.T, o *fakeOracle, g *fakeGateway, b *fakeBackend) *Engine {
	t.Helper()
	return NewEngine(NewMemorySessionStore(), o, g, b, testCatalog(t))
}

func captureDirective(id string) models.Directive {
	return models.Directive{Kind: models.DirectiveCaptureID, EmployeeID: id}
}

func collectDirective(f models.TravelFields) models.Directive {
	return models.Directive{Kind: models.DirectiveCollectData, Fields: &f}
}

func fullFields() models.TravelFields {
	return models.TravelFields{
		Purpose:         "Training",
		OriginCity:      "Mumbai",
		DestinationCity: "Pune",
		StartDate:       "20260910",
		EndDate:         "20260912",
		StartTime:       "093000",
		EndTime:         "180000",
		JourneyType:     "Round Trip",
		TravelMode:      "Train",
		TravelClassText: "Three Tier AC",
		BookingMethod:   "Company Booked",
		CostCenter:      "100200",
		ProjectWBS:      "WBS-0042",
	}
}

// signIn drives a fresh session through the employee-ID stage.
func signIn(t *testing.T, e *Engine, sessionID string) {
	t.Helper()
	_, state, err := e.HandleTurn(context.Background(), sessionID, "my id is 12345678")
	require.NoError(t, err)
	require.Equal(t, models.StateCollectingTravelData, state)
}

func TestEmployeeIDMustBeEightDigits(t *testing.T) {
	g := &fakeGateway{profile: validProfile(), eligible: true}
	e := newTestEngine(t, &fakeOracle{directives: []models.Directive{captureDirective("1234")}}, g, &fakeBackend{})

	reply, state, err := e.HandleTurn(context.Background(), "s1", "my id is 1234")
	require.NoError(t, err)
	assert.Contains(t, reply, "8 digits")
	assert.Equal(t, models.StateAwaitingEmployeeID, state)
	assert.Zero(t, g.headerCalls, "invalid ID must never reach the backend")
}

func TestEmployeeVerificationHappyPath(t *testing.T) {
	g := &fakeGateway{profile: validProfile(), eligible: true}
	e := newTestEngine(t, &fakeOracle{directives: []models.Directive{captureDirective("12345678")}}, g, &fakeBackend{})

	reply, state, err := e.HandleTurn(context.Background(), "s1", "my id is 12345678")
	require.NoError(t, err)
	assert.Contains(t, reply, "Asha")
	assert.Equal(t, models.StateCollectingTravelData, state)
}

func TestEmployeeNotFound(t *testing.T) {
	g := &fakeGateway{headerErr: validation.ErrNotFound}
	e := newTestEngine(t, &fakeOracle{directives: []models.Directive{captureDirective("12345678")}}, g, &fakeBackend{})

	reply, state, err := e.HandleTurn(context.Background(), "s1", "12345678")
	require.NoError(t, err)
	assert.Contains(t, reply, "couldn't find")
	assert.Equal(t, models.StateAwaitingEmployeeID, state)
}

func TestIneligibleEmployeeIsRejected(t *testing.T) {
	g := &fakeGateway{profile: validProfile(), eligible: false}
	e := newTestEngine(t, &fakeOracle{directives: []models.Directive{captureDirective("12345678")}}, g, &fakeBackend{})

	reply, state, err := e.HandleTurn(context.Background(), "s1", "12345678")
	require.NoError(t, err)
	assert.Contains(t, reply, "not currently eligible")
	assert.Equal(t, models.StateAwaitingEmployeeID, state)
}

func TestMonotonicFieldFill(t *testing.T) {
	o := &fakeOracle{directives: []models.Directive{
		captureDirective("12345678"),
		collectDirective(models.TravelFields{OriginCity: "Mumbai", DestinationCity: "Pune"}),
		// later turn with those fields empty must not clear them
		collectDirective(models.TravelFields{Purpose: "Training"}),
	}}
	g := &fakeGateway{profile: validProfile(), eligible: true}
	e := newTestEngine(t, o, g, &fakeBackend{})

	ctx := context.Background()
	signIn(t, e, "s1")
	_, _, err := e.HandleTurn(ctx, "s1", "Mumbai to Pune")
	require.NoError(t, err)
	_, _, err = e.HandleTurn(ctx, "s1", "it's for training")
	require.NoError(t, err)

	sess, err := e.store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Mumbai", sess.Travel.OriginCity)
	assert.Equal(t, "Pune", sess.Travel.DestinationCity)
	assert.Equal(t, "Training", sess.Travel.Purpose)
}

func TestUnknownCityRejectedWithSuggestions(t *testing.T) {
	o := &fakeOracle{directives: []models.Directive{
		captureDirective("12345678"),
		collectDirective(models.TravelFields{OriginCity: "Mumbai"}),
		collectDirective(models.TravelFields{OriginCity: "Nagpoor"}),
	}}
	g := &fakeGateway{profile: validProfile(), eligible: true}
	e := newTestEngine(t, o, g, &fakeBackend{})

	ctx := context.Background()
	signIn(t, e, "s1")
	_, _, err := e.HandleTurn(ctx, "s1", "from Mumbai")
	require.NoError(t, err)
	reply, _, err := e.HandleTurn(ctx, "s1", "from Nagpoor actually")
	require.NoError(t, err)

	assert.Contains(t, reply, "Nagpoor")
	assert.Contains(t, reply, "Nagpur")

	// the invalid value must not displace the previous one
	sess, err := e.store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Mumbai", sess.Travel.OriginCity)
}

func TestCostCenterAndWBSCoExtraction(t *testing.T) {
	o := &fakeOracle{directives: []models.Directive{
		captureDirective("12345678"),
		collectDirective(models.TravelFields{CostCenter: "100200", ProjectWBS: "WBS-0042"}),
	}}
	g := &fakeGateway{profile: validProfile(), eligible: true}
	e := newTestEngine(t, o, g, &fakeBackend{})

	ctx := context.Background()
	signIn(t, e, "s1")
	_, _, err := e.HandleTurn(ctx, "s1", "cost center 100200, WBS WBS-0042")
	require.NoError(t, err)

	sess, err := e.store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "100200", sess.Travel.CostCenter)
	assert.Equal(t, "WBS-0042", sess.Travel.ProjectWBS)
}

func TestCompleteDataMovesToConfirmation(t *testing.T) {
	o := &fakeOracle{directives: []models.Directive{
		captureDirective("12345678"),
		collectDirective(fullFields()),
	}}
	g := &fakeGateway{profile: validProfile(), eligible: true, validity: []func() (validation.TripValidity, string, error){alwaysValid()}}
	e := newTestEngine(t, o, g, &fakeBackend{})

	ctx := context.Background()
	signIn(t, e, "s1")
	reply, state, err := e.HandleTurn(ctx, "s1", "everything in one go")
	require.NoError(t, err)

	assert.Equal(t, models.StateAwaitingConfirmation, state)
	assert.Contains(t, reply, "confirm")
	assert.Equal(t, 1, g.validityCalls)
}

func TestValidityRetriesOnceOnServiceError(t *testing.T) {
	failOnce := func() (validation.TripValidity, string, error) {
		return validation.ValidityUnknown, "", &validation.ServiceError{Upstream: "ES_TRIPVALD", Err: context.DeadlineExceeded}
	}
	o := &fakeOracle{directives: []models.Directive{
		captureDirective("12345678"),
		collectDirective(fullFields()),
	}}
	g := &fakeGateway{
		profile: validProfile(), eligible: true,
		validity: []func() (validation.TripValidity, string, error){failOnce, alwaysValid()},
	}
	e := newTestEngine(t, o, g, &fakeBackend{})

	ctx := context.Background()
	signIn(t, e, "s1")
	_, state, err := e.HandleTurn(ctx, "s1", "everything in one go")
	require.NoError(t, err)

	assert.Equal(t, 2, g.validityCalls)
	assert.Equal(t, models.StateAwaitingConfirmation, state)
}

func TestOverlappingTripBlocksConfirmation(t *testing.T) {
	invalid := func() (validation.TripValidity, string, error) {
		return validation.ValidityInvalid, "Trip 2200118348 already exists", nil
	}
	o := &fakeOracle{directives: []models.Directive{
		captureDirective("12345678"),
		collectDirective(fullFields()),
	}}
	g := &fakeGateway{profile: validProfile(), eligible: true, validity: []func() (validation.TripValidity, string, error){invalid}}
	e := newTestEngine(t, o, g, &fakeBackend{})

	ctx := context.Background()
	signIn(t, e, "s1")
	reply, state, err := e.HandleTurn(ctx, "s1", "everything in one go")
	require.NoError(t, err)

	assert.Contains(t, reply, "already exists")
	assert.Equal(t, models.StateCollectingTravelData, state)
}

func TestConfirmationSubmitsWithoutOracle(t *testing.T) {
	o := &fakeOracle{directives: []models.Directive{
		captureDirective("12345678"),
		collectDirective(fullFields()),
	}}
	g := &fakeGateway{profile: validProfile(), eligible: true, validity: []func() (validation.TripValidity, string, error){alwaysValid()}}
	b := &fakeBackend{submitRef: "2200123456"}
	e := newTestEngine(t, o, g, b)

	ctx := context.Background()
	signIn(t, e, "s1")
	_, _, err := e.HandleTurn(ctx, "s1", "everything in one go")
	require.NoError(t, err)

	oracleCallsBefore := o.calls
	reply, state, err := e.HandleTurn(ctx, "s1", "confirm")
	require.NoError(t, err)

	assert.Equal(t, oracleCallsBefore, o.calls, "confirmation must not invoke the oracle")
	assert.Equal(t, 1, b.submitCalls)
	assert.Equal(t, models.StateSubmitted, state)
	assert.Contains(t, reply, "2200123456")
}

func TestNonAffirmativeTextDoesNotSubmit(t *testing.T) {
	o := &fakeOracle{directives: []models.Directive{
		captureDirective("12345678"),
		collectDirective(fullFields()),
		{Kind: models.DirectiveOutOfScope, Reply: "Take your time."},
	}}
	g := &fakeGateway{profile: validProfile(), eligible: true, validity: []func() (validation.TripValidity, string, error){alwaysValid()}}
	b := &fakeBackend{submitRef: "2200123456"}
	e := newTestEngine(t, o, g, b)

	ctx := context.Background()
	signIn(t, e, "s1")
	_, _, err := e.HandleTurn(ctx, "s1", "everything in one go")
	require.NoError(t, err)

	_, state, err := e.HandleTurn(ctx, "s1", "let me think about it")
	require.NoError(t, err)
	assert.Zero(t, b.submitCalls)
	assert.Equal(t, models.StateAwaitingConfirmation, state)
}

func TestRepeatedConfirmationIsIdempotent(t *testing.T) {
	o := &fakeOracle{directives: []models.Directive{
		captureDirective("12345678"),
		collectDirective(fullFields()),
	}}
	g := &fakeGateway{profile: validProfile(), eligible: true, validity: []func() (validation.TripValidity, string, error){alwaysValid()}}
	b := &fakeBackend{submitRef: "2200123456"}
	e := newTestEngine(t, o, g, b)

	ctx := context.Background()
	signIn(t, e, "s1")
	_, _, err := e.HandleTurn(ctx, "s1", "everything in one go")
	require.NoError(t, err)
	_, _, err = e.HandleTurn(ctx, "s1", "confirm")
	require.NoError(t, err)

	reply, state, err := e.HandleTurn(ctx, "s1", "confirm")
	require.NoError(t, err)
	assert.Equal(t, 1, b.submitCalls, "a second confirm must not resubmit")
	assert.Equal(t, models.StateSubmitted, state)
	assert.Contains(t, reply, "2200123456")
}

func TestNewRequestAfterSubmissionKeepsEmployee(t *testing.T) {
	o := &fakeOracle{directives: []models.Directive{
		captureDirective("12345678"),
		collectDirective(fullFields()),
		collectDirective(models.TravelFields{OriginCity: "Pune", DestinationCity: "Nagpur"}),
	}}
	g := &fakeGateway{profile: validProfile(), eligible: true, validity: []func() (validation.TripValidity, string, error){alwaysValid()}}
	b := &fakeBackend{submitRef: "2200123456"}
	e := newTestEngine(t, o, g, b)

	ctx := context.Background()
	signIn(t, e, "s1")
	_, _, err := e.HandleTurn(ctx, "s1", "everything in one go")
	require.NoError(t, err)
	_, _, err = e.HandleTurn(ctx, "s1", "confirm")
	require.NoError(t, err)

	_, state, err := e.HandleTurn(ctx, "s1", "book me Pune to Nagpur next")
	require.NoError(t, err)

	sess, err := e.store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, models.StateCollectingTravelData, state)
	assert.Equal(t, "12345678", sess.EmployeeID)
	assert.Equal(t, "Pune", sess.Travel.OriginCity)
	assert.Empty(t, sess.TripRef)
	assert.Empty(t, sess.Travel.Purpose, "travel details start fresh")
}

func TestShowTripsUsesSessionEmployee(t *testing.T) {
	o := &fakeOracle{directives: []models.Directive{
		captureDirective("12345678"),
		{Kind: models.DirectiveShowTrips, TripFilter: &models.TripFilter{AllTrips: true}},
	}}
	g := &fakeGateway{profile: validProfile(), eligible: true}
	b := &fakeBackend{trips: []models.TripSummary{
		{TripNumber: "0000004711", StartDate: "20260901", EndDate: "20260903", ApprovalStatus: "Approved"},
	}}
	e := newTestEngine(t, o, g, b)

	ctx := context.Background()
	signIn(t, e, "s1")
	reply, _, err := e.HandleTurn(ctx, "s1", "show my trips")
	require.NoError(t, err)
	assert.Contains(t, reply, "0000004711")
	assert.Contains(t, reply, "Approved")
}

func TestCancelTripRelaysBackendMessage(t *testing.T) {
	o := &fakeOracle{directives: []models.Directive{
		captureDirective("12345678"),
		{Kind: models.DirectiveCancelTrip, Cancel: &models.CancelTarget{TripNumber: "0000004711"}},
	}}
	g := &fakeGateway{profile: validProfile(), eligible: true}
	b := &fakeBackend{cancel: models.CancelResult{MessageType: "S", Message: "Trip cancelled successfully"}}
	e := newTestEngine(t, o, g, b)

	ctx := context.Background()
	signIn(t, e, "s1")
	reply, _, err := e.HandleTurn(ctx, "s1", "cancel trip 4711")
	require.NoError(t, err)
	assert.Equal(t, "Trip cancelled successfully", reply)
}

func TestHistoryIsTrimmed(t *testing.T) {
	o := &fakeOracle{directives: []models.Directive{{Kind: models.DirectiveOutOfScope, Reply: "noted"}}}
	e := newTestEngine(t, o, &fakeGateway{}, &fakeBackend{})

	ctx := context.Background()
	for i := 0; i < 12; i++ {
		_, _, err := e.HandleTurn(ctx, "s1", "hello again")
		require.NoError(t, err)
	}

	sess, err := e.store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, sess.History, maxHistoryTurns)
}

func TestDropSessionReleasesLock(t *testing.T) {
	g := &fakeGateway{profile: validProfile(), eligible: true}
	e := newTestEngine(t, &fakeOracle{directives: []models.Directive{captureDirective("12345678")}}, g, &fakeBackend{})

	ctx := context.Background()
	signIn(t, e, "s1")

	require.NoError(t, e.DropSession(ctx, "s1"))

	sess, err := e.store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, sess)

	e.mu.Lock()
	defer e.mu.Unlock()
	assert.Empty(t, e.locks)
}
