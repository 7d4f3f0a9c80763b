package models

// Wire payloads for the two-stage booking submission. Field names and order
// follow the backend's entity definitions; do not rename.

// SearchSegment is one itinerary leg of the search-stage payload. Segment
// dates are ISO (YYYY-MM-DDT00:00:00). The ticket-method pair is omitted for
// travel modes that do not carry one.
type SearchSegment struct {
	Pernr           string `json:"PERNR"`
	DateBeg         string `json:"DATE_BEG"`
	TimeBeg         string `json:"TIME_BEG"`
	DateEnd         string `json:"DATE_END"`
	TimeEnd         string `json:"TIME_END"`
	LocationBeg     string `json:"LOCATION_BEG"`
	CountryBeg      string `json:"COUNTRY_BEG"`
	OriginCode      string `json:"ORIGIN_CODE"`
	LocationEnd     string `json:"LOCATION_END"`
	CountryEnd      string `json:"COUNTRY_END"`
	DestCode        string `json:"DEST_CODE"`
	TravelMode      string `json:"TRAVEL_MODE"`
	TravelModeCode  string `json:"TRAVEL_MODE_CODE"`
	TravelClass     string `json:"TRAVEL_CLASS"`
	TravelClassText string `json:"TRAVEL_CLASS_TEXT"`
	PreferredFlight string `json:"PREFERRED_FLIGHT"`
	MRC12WayFlag    string `json:"MRC_1_2_WAY_FLAG"`
	Itinerary       string `json:"ITENARY"`
	TicketMethod    string `json:"TICKET_METHOD,omitempty"`
	TickMethTxt     string `json:"TICK_METH_TXT,omitempty"`
}

// SearchPayload is the first-stage submission body.
type SearchPayload struct {
	Action          string          `json:"ACTION"`
	AddAdv          string          `json:"ADDADV"`
	DateBeg         string          `json:"DATE_BEG"`
	DateEnd         string          `json:"DATE_END"`
	Flag            string          `json:"FLAG"`
	LocStart        string          `json:"LOC_START"`
	LocationEnd     string          `json:"LOCATION_END"`
	LocStartAlt     string          `json:"LOCSTART"`
	Mobile          string          `json:"MOBILE"`
	NavApprovers    []any           `json:"NAV_APPROVERS"`
	NavGetSearch    []any           `json:"NAV_GETSEARCH"`
	NavJ12Way       []any           `json:"NAV_J12WAY"`
	NavPrefFlight   []any           `json:"NAV_PREFERRED_FLIGHT"`
	NavReprice      []any           `json:"NAV_REPRICE"`
	NavTravelDet    []SearchSegment `json:"NAV_TRAVELDET"`
	OLocStart       string          `json:"OLOC_START"`
	OLocationEnd    string          `json:"OLOCATION_END"`
	OtherReason     string          `json:"OTHERREASON"`
	PayMode         string          `json:"PAYMODE"`
	Pernr           string          `json:"PERNR"`
	Persa           string          `json:"PERSA"`
	Persk           string          `json:"PERSK"`
	Reason          string          `json:"REASON"`
	Reinr           string          `json:"REINR"`
	SearchMandt     string          `json:"SEARCHMANDT"`
	SearchVisible   string          `json:"SEARCHVISIBLE"`
	TimeBeg         string          `json:"TIME_BEG"`
	TimeEnd         string          `json:"TIME_END"`
	TravAdv         string          `json:"TRAVADV"`
}

// FinalSegment is one itinerary leg of the final-stage payload. Segment dates
// use the backend's epoch form (/Date(ms)/). Unlike the search segment, the
// ticket-method pair is always present (empty strings for Own Car).
type FinalSegment struct {
	CityClass          string `json:"CITY_CLASS"`
	CountryBeg         string `json:"COUNTRY_BEG"`
	CountryEnd         string `json:"COUNTRY_END"`
	DateBeg            string `json:"DATE_BEG"`
	DateEnd            string `json:"DATE_END"`
	DelButtonReadOnly  string `json:"DEL_BUTTON_READ_ONLY"`
	DestCode           string `json:"DEST_CODE"`
	EditButtonReadOnly string `json:"EDIT_BUTTON_READ_ONLY"`
	Itinerary          string `json:"ITENARY"`
	LocationBeg        string `json:"LOCATION_BEG"`
	LocationEnd        string `json:"LOCATION_END"`
	MRC12WayFlag       string `json:"MRC_1_2_WAY_FLAG"`
	OriginCode         string `json:"ORIGIN_CODE"`
	Pernr              string `json:"PERNR"`
	PreferredFlight    string `json:"PREFERRED_FLIGHT"`
	TimeBeg            string `json:"TIME_BEG"`
	TimeEnd            string `json:"TIME_END"`
	TravelClass        string `json:"TRAVEL_CLASS"`
	TravelClassText    string `json:"TRAVEL_CLASS_TEXT"`
	TravelMode         string `json:"TRAVEL_MODE"`
	TravelModeCode     string `json:"TRAVEL_MODE_CODE"`
	TickMethTxt        string `json:"TICK_METH_TXT"`
	TicketMethod       string `json:"TICKET_METHOD"`
}

// CostAssignment is the cost-center/WBS row of the final payload.
type CostAssignment struct {
	Aufnr    string `json:"AUFNR"`
	Kostl    string `json:"KOSTL"`
	Percent  string `json:"PERCENT"`
	Posnr    string `json:"POSNR"`
	Posnr2W  string `json:"POSNR2W"`
}

// FinalPayload is the second-stage submission body. Its response carries the
// backend-assigned trip reference (REINR).
type FinalPayload struct {
	Action         string           `json:"ACTION"`
	AddAdv         string           `json:"ADDADV"`
	Age            string           `json:"AGE"`
	AttachMandt    string           `json:"ATTACHMANDT"`
	AttachVisible  string           `json:"ATTACHVISIBLE"`
	Comment        string           `json:"COMMENT"`
	CreateDate     string           `json:"CREAT_DATE"`
	DateBeg        string           `json:"DATE_BEG"`
	DateEnd        string           `json:"DATE_END"`
	DOB            string           `json:"DOB"`
	Email          string           `json:"EMAIL"`
	FirstName      string           `json:"FNAME"`
	IssfUserID     string           `json:"ISSFUSERID"`
	LastName       string           `json:"LNAME"`
	LocStart       string           `json:"LOC_START"`
	LocationEnd    string           `json:"LOCATION_END"`
	MiddleName     string           `json:"MNAME"`
	Mobile         string           `json:"MOBILE"`
	Mode           string           `json:"MODE"`
	NavFinBook     []any            `json:"NAV_FIN_BOOK"`
	NavFinComing   []any            `json:"NAV_FIN_COMING"`
	NavFinCost     []CostAssignment `json:"NAV_FIN_COST"`
	NavFinFlights  []any            `json:"NAV_FIN_EMPFLIGHTS"`
	NavFinFiles    []any            `json:"NAV_FIN_FILES"`
	NavFinGoing    []any            `json:"NAV_FIN_GOING"`
	NavFinJ12Way   []any            `json:"NAV_FIN_J12WAY"`
	NavFinOneWay   []any            `json:"NAV_FIN_ONEWAY"`
	NavFinReprice  []any            `json:"NAV_FIN_REPRICE"`
	NavFinSegment  []any            `json:"NAV_FIN_SEGMENT"`
	NavFinToIt     []FinalSegment   `json:"NAV_FIN_TO_IT"`
	NoValidations  string           `json:"NO_VALIDATIONS"`
	OLocStart      string           `json:"OLOC_START"`
	OLocationEnd   string           `json:"OLOCATION_END"`
	OtherReason    string           `json:"OTHERREASON"`
	PayMode        string           `json:"PAYMODE"`
	Pernr          string           `json:"PERNR"`
	Persa          string           `json:"PERSA"`
	Persk          string           `json:"PERSK"`
	Reason         string           `json:"REASON"`
	Reinr          string           `json:"REINR"`
	SearchMandt    string           `json:"SEARCHMANDT"`
	SearchMode     string           `json:"SEARCHMODE"`
	SearchVisible  string           `json:"SEARCHVISIBLE"`
	Sex            string           `json:"SEX"`
	TimeBeg        string           `json:"TIME_BEG"`
	TimeEnd        string           `json:"TIME_END"`
	Title          string           `json:"TITLE"`
	TravAdv        string           `json:"TRAVADV"`
	TripDel        string           `json:"TRIPDEL"`
	TripEdit       string           `json:"TRIPEDIT"`
	Waers          string           `json:"WAERS"`
	WBSMand        string           `json:"WBSMAND"`
}
