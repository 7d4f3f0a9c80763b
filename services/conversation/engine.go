package conversation

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"travelbot/models"
	"travelbot/services/booking"
	"travelbot/services/refdata"
	"travelbot/services/validation"
)

const maxHistoryTurns = 10

var employeeIDPattern = regexp.MustCompile(`^[0-9]{8}$`)

// Oracle produces one typed directive per user turn.
type Oracle interface {
	Respond(ctx context.Context, sess *models.BookingSession, userText string) (models.Directive, error)
}

// ValidationGateway covers the employee and trip-period checks.
type ValidationGateway interface {
	FetchEmployeeHeader(ctx context.Context, pernr string) (*models.EmployeeProfile, error)
	CheckEligibility(ctx context.Context, pernr string) (bool, error)
	CheckTripValidity(ctx context.Context, pernr, deptDate, arrDate, deptTime, arrTime string) (validation.TripValidity, string, error)
}

// BookingBackend covers submission, trip listing and cancellation.
type BookingBackend interface {
	Submit(ctx context.Context, sess *models.BookingSession, cities models.CityCodes) (string, error)
	TripList(ctx context.Context, filter models.TripFilter) ([]models.TripSummary, error)
	CancelTrip(ctx context.Context, target models.CancelTarget) (models.CancelResult, error)
}

// Engine drives the booking state machine. All state lives in the session;
// turns against one session are serialized by a per-session lock, so each
// tool sees a consistent snapshot.
type Engine struct {
	store   SessionStore
	oracle  Oracle
	gateway ValidationGateway
	backend BookingBackend
	catalog *refdata.Catalog

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewEngine(store SessionStore, oracle Oracle, gateway ValidationGateway, backend BookingBackend, catalog *refdata.Catalog) *Engine {
	return &Engine{
		store:   store,
		oracle:  oracle,
		gateway: gateway,
		backend: backend,
		catalog: catalog,
		locks:   make(map[string]*sync.Mutex),
	}
}

func (e *Engine) sessionLock(id string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	if l, ok := e.locks[id]; ok {
		return l
	}
	l := &sync.Mutex{}
	e.locks[id] = l
	return l
}

// DropSession deletes the stored session and releases its lock entry, so
// abandoned conversations do not pin memory for the process lifetime.
func (e *Engine) DropSession(ctx context.Context, id string) error {
	lock := e.sessionLock(id)
	lock.Lock()
	defer lock.Unlock()

	if err := e.store.Delete(ctx, id); err != nil {
		return err
	}
	e.mu.Lock()
	delete(e.locks, id)
	e.mu.Unlock()
	return nil
}

// HandleTurn processes one user message and returns the assistant reply. A
// confirmation while awaiting one goes straight to submission without a
// model round-trip; everything else is interpreted by the oracle first.
func (e *Engine) HandleTurn(ctx context.Context, sessionID, userText string) (string, models.SessionState, error) {
	lock := e.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	sess, err := e.store.Get(ctx, sessionID)
	if err != nil {
		return "", "", err
	}
	if sess == nil {
		sess = models.NewBookingSession(sessionID)
	}

	var reply string
	switch {
	case sess.State == models.StateSubmitted && isAffirmation(userText):
		// repeated confirmations never resubmit
		reply = fmt.Sprintf("Your travel request is already submitted. Trip reference: %s.", sess.TripRef)
	case sess.State == models.StateAwaitingConfirmation && isAffirmation(userText):
		reply = e.submit(ctx, sess)
	default:
		d, oerr := e.oracle.Respond(ctx, sess, userText)
		if oerr != nil {
			zap.L().Error("oracle call failed", zap.String("sessionId", sessionID), zap.Error(oerr))
			reply = "I'm having trouble understanding right now. Please try again in a moment."
		} else {
			reply = e.dispatch(ctx, sess, d)
		}
	}

	sess.History = append(sess.History,
		models.ChatTurn{Role: "user", Text: userText},
		models.ChatTurn{Role: "assistant", Text: reply})
	if len(sess.History) > maxHistoryTurns {
		sess.History = sess.History[len(sess.History)-maxHistoryTurns:]
	}

	if err := e.store.Save(ctx, sess); err != nil {
		return "", "", err
	}
	return reply, sess.State, nil
}

func (e *Engine) dispatch(ctx context.Context, sess *models.BookingSession, d models.Directive) string {
	switch d.Kind {
	case models.DirectiveCaptureID:
		return e.captureEmployeeID(ctx, sess, d)
	case models.DirectiveCollectData, models.DirectiveReady:
		return e.collectTravelData(ctx, sess, d)
	case models.DirectiveShowTrips:
		return e.showTrips(ctx, sess, d)
	case models.DirectiveCancelTrip:
		return e.cancelTrip(ctx, sess, d)
	case models.DirectiveExtractionFailure:
		zap.L().Warn("unparseable oracle output",
			zap.String("sessionId", sess.SessionID), zap.String("raw", d.Raw))
		return "Sorry, I didn't quite catch that. Could you rephrase?"
	default:
		if d.Reply != "" {
			return d.Reply
		}
		if sess.EmployeeID == "" {
			return "Hello! I can help you raise, view or cancel travel requests. Please share your 8-digit employee ID to get started."
		}
		return "I can help with raising, viewing or cancelling travel requests. What would you like to do?"
	}
}

func (e *Engine) captureEmployeeID(ctx context.Context, sess *models.BookingSession, d models.Directive) string {
	// once verified, identity never changes within a session
	if sess.EmployeeID != "" {
		if d.Reply != "" {
			return d.Reply
		}
		return fmt.Sprintf("You're already signed in as %s. What would you like to do?", sess.EmployeeID)
	}

	id := d.EmployeeID
	if !employeeIDPattern.MatchString(id) {
		return "An employee ID is exactly 8 digits. Could you check and share it again?"
	}

	profile, err := e.gateway.FetchEmployeeHeader(ctx, id)
	if errors.Is(err, validation.ErrNotFound) {
		return fmt.Sprintf("I couldn't find an employee with ID %s. Could you check the number?", id)
	}
	if err != nil {
		zap.L().Error("employee header lookup failed", zap.String("pernr", id), zap.Error(err))
		return "The employee service isn't responding right now. Please try again in a few minutes."
	}

	eligible, err := e.gateway.CheckEligibility(ctx, id)
	if err != nil {
		zap.L().Error("eligibility check failed", zap.String("pernr", id), zap.Error(err))
		return "The employee service isn't responding right now. Please try again in a few minutes."
	}
	if !eligible {
		return "You're not currently eligible to raise domestic travel requests. Please contact your HR team."
	}

	sess.EmployeeID = id
	sess.Profile = profile
	sess.State = models.StateCollectingTravelData

	name := strings.TrimSpace(profile.FirstName)
	if name == "" {
		name = "there"
	}
	return fmt.Sprintf("Hello %s! Where are you travelling from and to, and on which dates?", name)
}

func (e *Engine) collectTravelData(ctx context.Context, sess *models.BookingSession, d models.Directive) string {
	if sess.EmployeeID == "" {
		return "Before we plan the trip I need your 8-digit employee ID."
	}
	if d.Fields == nil {
		if d.Reply != "" {
			return d.Reply
		}
		return "Could you share the travel details again?"
	}

	// a new request after submission keeps the verified employee
	if sess.State == models.StateSubmitted {
		sess.Travel = models.NewTravelDetails()
		sess.TripRef = ""
		sess.ValidatedPeriod = ""
	}
	sess.State = models.StateCollectingTravelData

	notes := append([]string{}, d.Warnings...)
	notes = append(notes, e.mergeFields(sess, d.Fields)...)

	travel := &sess.Travel
	if travel.CoreComplete() && periodWellFormed(*travel) && travel.PeriodKey() != sess.ValidatedPeriod {
		if msg, ok := e.validatePeriod(ctx, sess); !ok {
			return joinNotes(notes, msg)
		}
	}

	if travel.Complete() && sess.ValidatedPeriod == travel.PeriodKey() {
		sess.State = models.StateAwaitingConfirmation
		return joinNotes(notes, e.summary(sess))
	}

	if d.Reply != "" {
		return joinNotes(notes, d.Reply)
	}
	return joinNotes(notes, "Got it. What else should I note down?")
}

// mergeFields applies the monotonic fill: a non-empty incoming value
// overwrites, an empty one never clears. City and purpose values must be
// catalog-valid to land in the session at all.
func (e *Engine) mergeFields(sess *models.BookingSession, f *models.TravelFields) []string {
	var notes []string
	travel := &sess.Travel

	if f.OriginCity != "" {
		if _, ok := e.catalog.CityCode(f.OriginCity); ok {
			travel.OriginCity = f.OriginCity
		} else {
			notes = append(notes, unknownValueNote("origin city", f.OriginCity, e.catalog.SuggestCities(f.OriginCity, 5)))
		}
	}
	if f.DestinationCity != "" {
		if _, ok := e.catalog.CityCode(f.DestinationCity); ok {
			travel.DestinationCity = f.DestinationCity
		} else {
			notes = append(notes, unknownValueNote("destination city", f.DestinationCity, e.catalog.SuggestCities(f.DestinationCity, 5)))
		}
	}
	if f.Purpose != "" {
		if e.catalog.ValidPurpose(f.Purpose) {
			travel.Purpose = f.Purpose
		} else {
			notes = append(notes, unknownValueNote("travel purpose", f.Purpose, e.catalog.SuggestPurposes(f.Purpose, 5)))
		}
	}

	setIfPresent(&travel.StartDate, f.StartDate)
	setIfPresent(&travel.EndDate, f.EndDate)
	setIfPresent(&travel.StartTime, f.StartTime)
	setIfPresent(&travel.EndTime, f.EndTime)
	setIfPresent(&travel.JourneyType, f.JourneyType)
	setIfPresent(&travel.TravelMode, f.TravelMode)
	setIfPresent(&travel.TravelClassText, f.TravelClassText)
	setIfPresent(&travel.BookingMethod, f.BookingMethod)
	setIfPresent(&travel.CostCenter, f.CostCenter)
	setIfPresent(&travel.ProjectWBS, f.ProjectWBS)
	setIfPresent(&travel.Comment, f.Comment)

	return notes
}

// validatePeriod runs the trip-validity check for the current window,
// retrying once on a service failure. ok is true only for a definitive yes.
func (e *Engine) validatePeriod(ctx context.Context, sess *models.BookingSession) (string, bool) {
	travel := sess.Travel
	verdict, remarks, err := e.gateway.CheckTripValidity(ctx,
		sess.EmployeeID, travel.StartDate, travel.EndDate, travel.StartTime, travel.EndTime)

	var se *validation.ServiceError
	if errors.As(err, &se) {
		zap.L().Warn("trip validity check failed, retrying",
			zap.String("sessionId", sess.SessionID), zap.Error(err))
		verdict, remarks, err = e.gateway.CheckTripValidity(ctx,
			sess.EmployeeID, travel.StartDate, travel.EndDate, travel.StartTime, travel.EndTime)
	}
	if err != nil {
		zap.L().Error("trip validity check failed",
			zap.String("sessionId", sess.SessionID), zap.Error(err))
		return "I couldn't verify those travel dates right now. Please try again in a moment.", false
	}

	switch verdict {
	case validation.ValidityValid:
		sess.ValidatedPeriod = travel.PeriodKey()
		return "", true
	case validation.ValidityInvalid:
		sess.ValidatedPeriod = ""
		return fmt.Sprintf("Those dates clash with an existing trip (%s). Could you pick a different period?", remarks), false
	default:
		return "I couldn't verify those travel dates right now. Please try again in a moment.", false
	}
}

func (e *Engine) showTrips(ctx context.Context, sess *models.BookingSession, d models.Directive) string {
	filter := models.TripFilter{}
	if d.TripFilter != nil {
		filter = *d.TripFilter
	}
	if filter.EmployeeID == "" {
		filter.EmployeeID = sess.EmployeeID
	}
	if filter.EmployeeID == "" {
		return "I need your 8-digit employee ID to look up your trips."
	}

	trips, err := e.backend.TripList(ctx, filter)
	if err != nil {
		zap.L().Error("trip list failed", zap.String("pernr", filter.EmployeeID), zap.Error(err))
		return "I couldn't fetch your trips right now. Please try again in a few minutes."
	}
	if len(trips) == 0 {
		return "No trips found for that period."
	}

	var b strings.Builder
	b.WriteString("Here are your trips:\n")
	for _, trip := range trips {
		fmt.Fprintf(&b, "- Trip %s: %s to %s (%s)\n",
			trip.TripNumber, trip.StartDate, trip.EndDate, trip.ApprovalStatus)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (e *Engine) cancelTrip(ctx context.Context, sess *models.BookingSession, d models.Directive) string {
	target := models.CancelTarget{}
	if d.Cancel != nil {
		target = *d.Cancel
	}
	if target.EmployeeID == "" {
		target.EmployeeID = sess.EmployeeID
	}
	if target.EmployeeID == "" {
		return "I need your 8-digit employee ID before I can cancel a trip."
	}
	if target.TripNumber == "" {
		return "Which trip number should I cancel?"
	}

	result, err := e.backend.CancelTrip(ctx, target)
	if err != nil {
		zap.L().Error("trip cancel failed",
			zap.String("pernr", target.EmployeeID),
			zap.String("trip", target.TripNumber),
			zap.Error(err))
		return "I couldn't reach the cancellation service. Please try again in a few minutes."
	}
	if result.MessageType == "E" {
		return fmt.Sprintf("The trip couldn't be cancelled: %s", result.Message)
	}
	if result.Message != "" {
		return result.Message
	}
	return fmt.Sprintf("Trip %s has been cancelled.", target.TripNumber)
}

func (e *Engine) submit(ctx context.Context, sess *models.BookingSession) string {
	travel := sess.Travel
	originCode, ok := e.catalog.CityCode(travel.OriginCity)
	if !ok {
		return fmt.Sprintf("I don't recognise %q as a valid city anymore. Could you re-check the origin?", travel.OriginCity)
	}
	destCode, ok := e.catalog.CityCode(travel.DestinationCity)
	if !ok {
		return fmt.Sprintf("I don't recognise %q as a valid city anymore. Could you re-check the destination?", travel.DestinationCity)
	}

	cities := models.CityCodes{
		OriginCity:      travel.OriginCity,
		OriginCode:      originCode,
		DestinationCity: travel.DestinationCity,
		DestinationCode: destCode,
	}

	ref, err := e.backend.Submit(ctx, sess, cities)
	var partial *booking.PartialFailureError
	if errors.As(err, &partial) {
		zap.L().Error("partial submission failure",
			zap.String("sessionId", sess.SessionID), zap.Error(err))
		return "Part of your request went through but it could not be completed. The travel desk has been notified; please do not resubmit."
	}
	if err != nil {
		zap.L().Error("submission failed",
			zap.String("sessionId", sess.SessionID), zap.Error(err))
		return "I couldn't submit your request just now. Please confirm again in a moment."
	}

	sess.TripRef = ref
	sess.State = models.StateSubmitted
	return fmt.Sprintf("Your travel request has been submitted. Trip reference: %s.", ref)
}

func (e *Engine) summary(sess *models.BookingSession) string {
	t := sess.Travel
	var b strings.Builder
	b.WriteString("Here's your travel request:\n")
	fmt.Fprintf(&b, "- Purpose: %s\n", t.Purpose)
	fmt.Fprintf(&b, "- From %s to %s (%s)\n", t.OriginCity, t.DestinationCity, t.JourneyType)
	fmt.Fprintf(&b, "- %s %s to %s %s\n",
		displayDate(t.StartDate), displayTime(t.StartTime), displayDate(t.EndDate), displayTime(t.EndTime))
	fmt.Fprintf(&b, "- Mode: %s, class %s, %s\n", t.TravelMode, t.TravelClassText, t.BookingMethod)
	fmt.Fprintf(&b, "- Cost center %s, WBS %s\n", t.CostCenter, t.ProjectWBS)
	if t.Comment != "" {
		fmt.Fprintf(&b, "- Comment: %s\n", t.Comment)
	}
	b.WriteString("Reply 'confirm' to book it.")
	return b.String()
}

func setIfPresent(dst *string, val string) {
	if val != "" {
		*dst = val
	}
}

func unknownValueNote(field, value string, suggestions []string) string {
	if len(suggestions) == 0 {
		return fmt.Sprintf("I don't recognise %q as a valid %s.", value, field)
	}
	return fmt.Sprintf("I don't recognise %q as a valid %s. Did you mean: %s?",
		value, field, strings.Join(suggestions, ", "))
}

func joinNotes(notes []string, reply string) string {
	if len(notes) == 0 {
		return reply
	}
	return strings.Join(notes, "\n") + "\n" + reply
}

// periodWellFormed gates the validity call on parseable dates and times, so
// a value kept verbatim after a failed normalization never reaches the
// upstream.
func periodWellFormed(t models.TravelDetails) bool {
	for _, d := range []string{t.StartDate, t.EndDate} {
		if _, err := time.Parse("20060102", d); err != nil {
			return false
		}
	}
	for _, tm := range []string{t.StartTime, t.EndTime} {
		if _, err := time.Parse("150405", tm); err != nil {
			return false
		}
	}
	return true
}

func isAffirmation(text string) bool {
	cleaned := strings.ToLower(strings.Trim(strings.TrimSpace(text), ".!"))
	switch cleaned {
	case "confirm", "yes", "y", "book", "confirmed", "yes please":
		return true
	}
	return false
}

func displayDate(yyyymmdd string) string {
	t, err := time.Parse("20060102", yyyymmdd)
	if err != nil {
		return yyyymmdd
	}
	return t.Format("02 Jan 2006")
}

func displayTime(hhmmss string) string {
	t, err := time.Parse("150405", hhmmss)
	if err != nil {
		return hhmmss
	}
	return t.Format("15:04")
}
