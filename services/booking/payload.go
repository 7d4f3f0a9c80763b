package booking

import (
	"fmt"
	"strings"
	"time"

	"travelbot/models"
)

// BuildSearchPayload assembles the first-stage submission body from a
// confirmed session. Round trips carry a reversed second leg pinned to the
// end date, with its arrival time zeroed.
func BuildSearchPayload(sess *models.BookingSession, cities models.CityCodes) models.SearchPayload {
	travel := sess.Travel
	profile := sess.Profile

	segments := []models.SearchSegment{buildSearchSegment(travel, cities, profile.Pernr, 1, false)}
	if isRoundTrip(travel.JourneyType) {
		segments = append(segments, buildSearchSegment(travel, cities, profile.Pernr, 2, true))
	}

	return models.SearchPayload{
		AddAdv:        amount(travel.AdditionalAdvance),
		DateBeg:       travel.StartDate,
		DateEnd:       travel.EndDate,
		LocStart:      cities.OriginCity,
		LocationEnd:   cities.DestinationCity,
		Mobile:        profile.Mobile,
		NavApprovers:  []any{},
		NavGetSearch:  []any{},
		NavJ12Way:     []any{},
		NavPrefFlight: []any{},
		NavReprice:    []any{},
		NavTravelDet:  segments,
		PayMode:       profile.PayMode,
		Pernr:         profile.Pernr,
		Persa:         profile.Persa,
		Persk:         profile.Persk,
		Reason:        travel.Purpose,
		Reinr:         "0000000000",
		SearchMandt:   "X",
		SearchVisible: "X",
		TimeBeg:       travel.StartTime,
		TimeEnd:       travel.EndTime,
		TravAdv:       amount(travel.TravelAdvance),
	}
}

func buildSearchSegment(travel models.TravelDetails, cities models.CityCodes, pernr string, itinerary int, reverse bool) models.SearchSegment {
	cfg := modeConfig(travel.TravelMode)
	classCode, classText := resolveClass(travel.TravelMode, cfg, classInput(travel))

	origin, originCode := cities.OriginCity, cities.OriginCode
	dest, destCode := cities.DestinationCity, cities.DestinationCode
	dateBeg, timeBeg := travel.StartDate, travel.StartTime
	timeEnd := travel.EndTime
	if reverse {
		origin, originCode, dest, destCode = dest, destCode, origin, originCode
		// the return leg departs on the end date; its arrival time is unknown
		dateBeg, timeBeg = travel.EndDate, travel.EndTime
		timeEnd = "000000"
	}

	seg := models.SearchSegment{
		Pernr:           pernr,
		DateBeg:         isoDate(dateBeg),
		TimeBeg:         hhmmss(timeBeg),
		DateEnd:         isoDate(dateBeg),
		TimeEnd:         hhmmss(timeEnd),
		LocationBeg:     origin,
		CountryBeg:      "IN",
		OriginCode:      originCode,
		LocationEnd:     dest,
		CountryEnd:      "IN",
		DestCode:        destCode,
		TravelMode:      cfg.Code,
		TravelModeCode:  cfg.Code,
		TravelClass:     classCode,
		TravelClassText: classText,
		Itinerary:       fmt.Sprintf("%d", itinerary),
	}
	if cfg.RequiresTicketMethod {
		method := bookingMethodInput(travel)
		seg.TicketMethod = resolveBookingMethod(cfg, method)
		seg.TickMethTxt = method
	}
	return seg
}

// BuildFinalPayload assembles the second-stage submission body. Segment dates
// switch to the backend's epoch form here; the cost assignment row carries
// the cost center and WBS.
func BuildFinalPayload(sess *models.BookingSession, cities models.CityCodes) models.FinalPayload {
	travel := sess.Travel
	profile := sess.Profile

	roundTrip := isRoundTrip(travel.JourneyType)
	segments := []models.FinalSegment{buildFinalSegment(travel, cities, profile.Pernr, 1, roundTrip, false)}
	if roundTrip {
		segments = append(segments, buildFinalSegment(travel, cities, profile.Pernr, 2, roundTrip, true))
	}

	return models.FinalPayload{
		AddAdv:      amount(travel.AdditionalAdvance),
		Age:         profile.Age,
		Comment:     travel.Comment,
		DateBeg:     travel.StartDate,
		DateEnd:     travel.EndDate,
		DOB:         profile.DOB,
		Email:       profile.Email,
		FirstName:   profile.FirstName,
		LastName:    profile.LastName,
		LocStart:    cities.OriginCity,
		LocationEnd: cities.DestinationCity,
		MiddleName:  profile.MiddleName,
		Mobile:      profile.Mobile,
		NavFinBook:  []any{},
		NavFinComing: []any{},
		NavFinCost: []models.CostAssignment{{
			Kostl:   travel.CostCenter,
			Percent: amount(travel.ReimbursePercent),
			Posnr:   travel.ProjectWBS,
		}},
		NavFinFlights: []any{},
		NavFinFiles:   []any{},
		NavFinGoing:   []any{},
		NavFinJ12Way:  []any{},
		NavFinOneWay:  []any{},
		NavFinReprice: []any{},
		NavFinSegment: []any{},
		NavFinToIt:    segments,
		NoValidations: "X",
		PayMode:       profile.PayMode,
		Pernr:         profile.Pernr,
		Persa:         profile.Persa,
		Persk:         profile.Persk,
		Reason:        travel.Purpose,
		Reinr:         "0000000000",
		SearchMandt:   "X",
		SearchVisible: "X",
		Sex:           profile.Sex,
		TimeBeg:       hhmmss(travel.StartTime),
		TimeEnd:       hhmmss(travel.EndTime),
		Title:         profile.Title,
		TravAdv:       amount(travel.TravelAdvance),
	}
}

func buildFinalSegment(travel models.TravelDetails, cities models.CityCodes, pernr string, itinerary int, roundTrip, reverse bool) models.FinalSegment {
	cfg := modeConfig(travel.TravelMode)
	classCode, classText := resolveClass(travel.TravelMode, cfg, classInput(travel))

	origin, originCode := cities.OriginCity, cities.OriginCode
	dest, destCode := cities.DestinationCity, cities.DestinationCode

	dateBeg := epochDate(travel.StartDate)
	dateEnd := epochDate(travel.EndDate)
	timeBeg := hhmmss(travel.StartTime)
	timeEnd := hhmmss(travel.EndTime)
	if roundTrip && reverse {
		origin, originCode, dest, destCode = dest, destCode, origin, originCode
		dateBeg = epochDate(travel.EndDate)
		dateEnd = epochDate(travel.EndDate)
		timeBeg = hhmmss(travel.EndTime)
		timeEnd = "000000"
	}

	seg := models.FinalSegment{
		CountryBeg:      "IN",
		CountryEnd:      "IN",
		DateBeg:         dateBeg,
		DateEnd:         dateEnd,
		DestCode:        destCode,
		Itinerary:       fmt.Sprintf("%d", itinerary),
		LocationBeg:     origin,
		LocationEnd:     dest,
		OriginCode:      originCode,
		Pernr:           pernr,
		TimeBeg:         timeBeg,
		TimeEnd:         timeEnd,
		TravelClass:     classCode,
		TravelClassText: classText,
		TravelMode:      cfg.Code,
		TravelModeCode:  cfg.Code,
	}
	if cfg.RequiresTicketMethod {
		method := bookingMethodInput(travel)
		seg.TicketMethod = resolveBookingMethod(cfg, method)
		seg.TickMethTxt = method
	}
	return seg
}

func classInput(travel models.TravelDetails) string {
	if travel.TravelClassText == "" {
		return "AC"
	}
	return travel.TravelClassText
}

func bookingMethodInput(travel models.TravelDetails) string {
	if travel.BookingMethod == "" {
		return "Company Booked"
	}
	return travel.BookingMethod
}

func isRoundTrip(journeyType string) bool {
	return strings.EqualFold(strings.TrimSpace(journeyType), "round trip")
}

// isoDate renders YYYYMMDD as the search-stage ISO form. Unparseable input
// passes through untouched; it has already been flagged upstream.
func isoDate(yyyymmdd string) string {
	t, err := time.Parse("20060102", yyyymmdd)
	if err != nil {
		return yyyymmdd
	}
	return t.Format("2006-01-02T00:00:00")
}

// epochDate renders YYYYMMDD as the backend's /Date(ms)/ epoch form.
func epochDate(yyyymmdd string) string {
	t, err := time.Parse("20060102", yyyymmdd)
	if err != nil {
		return yyyymmdd
	}
	return fmt.Sprintf("/Date(%d)/", t.UTC().Unix()*1000)
}

// hhmmss is idempotent: it accepts HH:MM, HH:MM:SS, HHMM and HHMMSS and
// always yields six digits.
func hhmmss(t string) string {
	compact := strings.ReplaceAll(t, ":", "")
	if len(compact) == 4 {
		compact += "00"
	}
	return compact
}

func amount(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
