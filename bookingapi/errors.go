package bookingapi

import "fmt"

// APIError represents a non-2xx response from the booking service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("booking service returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("booking service returned status %d: %s", e.StatusCode, e.Message)
}
