package requests

import "fmt"

// ActionError is returned when an action is rejected before reaching the
// booking service.
type ActionError struct {
	Code    string
	Message string
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewValidationError flags invalid action input caught client-side.
func NewValidationError(msg string) error {
	return &ActionError{
		Code:    "validationError",
		Message: msg,
	}
}

// NewActionInFlightError flags a second action on a booking whose first
// action has not resolved yet.
func NewActionInFlightError(bookingID string) error {
	return &ActionError{
		Code:    "actionInFlight",
		Message: fmt.Sprintf("an action for booking %s is already in flight", bookingID),
	}
}

// IsValidation reports whether err is a client-side validation rejection.
func IsValidation(err error) bool {
	ae, ok := err.(*ActionError)
	return ok && ae.Code == "validationError"
}

// IsActionInFlight reports whether err is a per-booking serialization rejection.
func IsActionInFlight(err error) bool {
	ae, ok := err.(*ActionError)
	return ok && ae.Code == "actionInFlight"
}
