package service

import "truida/internal/passenger/models"

// Outcome is the closed set of verification results. Every value is a
// terminal answer for the caller; none of them is an error.
type Outcome string

const (
	OutcomeGranted             Outcome = "GRANTED"
	OutcomeAlreadyCleared      Outcome = "ALREADY_CLEARED"
	OutcomeNoMatch             Outcome = "NO_MATCH"
	OutcomeFlightDeparted      Outcome = "FLIGHT_DEPARTED"
	OutcomePrerequisiteMissing Outcome = "PREREQUISITE_MISSING"
)

// Granted reports whether the passenger may pass.
func (o Outcome) Granted() bool {
	return o == OutcomeGranted || o == OutcomeAlreadyCleared
}

// Result maps the outcome onto the access log result.
func (o Outcome) Result() models.AccessResult {
	if o.Granted() {
		return models.AccessGranted
	}
	return models.AccessDenied
}

func (o Outcome) String() string { return string(o) }

// Message is the operator-facing text shown at the gate.
func (o Outcome) Message() string {
	switch o {
	case OutcomeGranted:
		return "access granted"
	case OutcomeAlreadyCleared:
		return "checkpoint already cleared"
	case OutcomeNoMatch:
		return "no enrolled passenger matches the presented biometrics"
	case OutcomeFlightDeparted:
		return "flight has departed"
	case OutcomePrerequisiteMissing:
		return "an earlier checkpoint has not been cleared"
	}
	return ""
}
