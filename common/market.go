package common

import "time"

// MarketPhase is the phase of the Vietnamese trading day.
type MarketPhase string

const (
	PhaseClosed    MarketPhase = "closed"
	PhaseMorning   MarketPhase = "morning"
	PhaseLunch     MarketPhase = "lunch"
	PhaseAfternoon MarketPhase = "afternoon"
	PhaseATC       MarketPhase = "atc"
)

// MarketPhaseAt resolves the trading phase for a point in time, evaluated in
// the market timezone. Weekends are closed; public holidays are not modeled.
func MarketPhaseAt(t time.Time) MarketPhase {
	loc, err := time.LoadLocation(MarketTimezone)
	if err != nil {
		loc = time.FixedZone("ICT", 7*3600)
	}
	local := t.In(loc)

	switch local.Weekday() {
	case time.Saturday, time.Sunday:
		return PhaseClosed
	}

	hhmm := local.Format("15:04")
	switch {
	case hhmm < MarketMorningOpen:
		return PhaseClosed
	case hhmm < MarketMorningClose:
		return PhaseMorning
	case hhmm < MarketAfternoonOpen:
		return PhaseLunch
	case hhmm < MarketAfternoonEnd:
		return PhaseAfternoon
	case hhmm < MarketATCEnd:
		return PhaseATC
	default:
		return PhaseClosed
	}
}

// MarketOpenAt reports whether continuous or auction trading is running.
func MarketOpenAt(t time.Time) bool {
	switch MarketPhaseAt(t) {
	case PhaseMorning, PhaseAfternoon, PhaseATC:
		return true
	}
	return false
}
