package booking

// ModeConfig describes one travel mode: its wire code, the class text→code
// table and the booking-method text→code table. Modes without a ticket
// method (Own Car) omit the ticket pair from search segments entirely.
type ModeConfig struct {
	Code                 string
	Classes              map[string]string
	BookingMethods       map[string]string
	RequiresTicketMethod bool
}

var busClasses = map[string]string{
	"AC":     "BAC",
	"Non-AC": "BNC",
}

var standardBookingMethods = map[string]string{
	"Company Booked": "3",
	"Self Booked":    "1",
	"Others":         "4",
}

// TravelModes is the supported mode table. Unknown modes fall back to Bus.
var TravelModes = map[string]ModeConfig{
	"Bus": {
		Code:                 "B",
		Classes:              busClasses,
		BookingMethods:       standardBookingMethods,
		RequiresTicketMethod: true,
	},
	"Own Car": {
		Code:                 "O",
		Classes:              map[string]string{"Any Class": "*"},
		BookingMethods:       map[string]string{},
		RequiresTicketMethod: false,
	},
	"Company Arranged Car": {
		Code:                 "A",
		Classes:              busClasses,
		BookingMethods:       map[string]string{"Company Booked": "3"},
		RequiresTicketMethod: true,
	},
	"Train": {
		Code: "T",
		Classes: map[string]string{
			"First Class AC":  "1A",
			"Two Tier AC":     "2AC",
			"Three Tier AC":   "3AC",
			"Chair Car":       "CC",
			"Sleeper Class":   "SL",
			"Air Conditioned": "AC",
			"First Class":     "FC",
		},
		BookingMethods:       standardBookingMethods,
		RequiresTicketMethod: true,
	},
}

func modeConfig(mode string) ModeConfig {
	if cfg, ok := TravelModes[mode]; ok {
		return cfg
	}
	return TravelModes["Bus"]
}

// resolveClass maps the user's class text to the (code, text) pair. Own Car
// always gets the wildcard pair. For other modes the input is tried as class
// text first, then as a class code (reverse lookup); an unrecognised value is
// kept as literal text with an empty code, so reference-data drift degrades
// to a backend-side rejection instead of a hard failure here.
func resolveClass(mode string, cfg ModeConfig, input string) (code, text string) {
	if mode == "Own Car" {
		return "*", "Any Class"
	}
	if c, ok := cfg.Classes[input]; ok {
		return c, input
	}
	for t, c := range cfg.Classes {
		if c == input {
			return input, t
		}
	}
	return "", input
}

// resolveBookingMethod maps booking-method text to its code, defaulting to
// company-booked for anything unrecognised.
func resolveBookingMethod(cfg ModeConfig, text string) string {
	if code, ok := cfg.BookingMethods[text]; ok {
		return code
	}
	return "3"
}
