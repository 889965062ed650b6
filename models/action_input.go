package models

import "time"

// DeclineReason enumerates the fixed set of reasons a provider may give when
// declining a booking request.
type DeclineReason string

const (
	DeclineScheduleConflict   DeclineReason = "schedule_conflict"
	DeclineFullyBooked        DeclineReason = "fully_booked"
	DeclineServiceUnavailable DeclineReason = "service_unavailable"
	DeclineLocationIssue      DeclineReason = "location_issue"
	DeclineOther              DeclineReason = "other"
)

// DeclineInput carries the provider's decline submission. When Reason is
// DeclineOther, CustomReason must hold non-empty free text and becomes the
// reason sent to the booking service.
type DeclineInput struct {
	Reason       DeclineReason `json:"reason"`
	CustomReason string        `json:"customReason,omitempty"`
}

// RescheduleInput carries a proposed alternate start time and an optional
// message to the patient.
type RescheduleInput struct {
	ProposedStart time.Time `json:"proposedStart"`
	Message       string    `json:"message,omitempty"`
}
