package models

import "time"

// BookingRequestStatus enumerates the server-owned lifecycle states of a booking
// request. The portal never transitions status directly; it requests a transition
// via an action call and re-fetches truth from the booking service.
type BookingRequestStatus string

const (
	StatusPendingConfirmation BookingRequestStatus = "pending_confirmation"
	StatusConfirmed           BookingRequestStatus = "confirmed"
	StatusCompleted           BookingRequestStatus = "completed"
	StatusCancelledPatient    BookingRequestStatus = "cancelled_patient"
	StatusCancelledProvider   BookingRequestStatus = "cancelled_provider"
	StatusExpired             BookingRequestStatus = "expired"
	StatusRescheduleProposed  BookingRequestStatus = "reschedule_proposed"
	StatusNoShow              BookingRequestStatus = "no_show"
)

// HasExpiryWindow reports whether ExpiresAt is meaningful for this status.
func (s BookingRequestStatus) HasExpiryWindow() bool {
	return s == StatusPendingConfirmation || s == StatusRescheduleProposed
}

// PatientRef identifies the patient behind a booking request. All fields are
// optional; the booking service redacts contact details until confirmation.
type PatientRef struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// ServiceSnapshot captures the booked service as it was at request time.
// It is never re-derived from the provider's current service catalogue.
type ServiceSnapshot struct {
	Name            string `json:"name"`
	Category        string `json:"category,omitempty"`
	PriceCents      int64  `json:"priceCents"` // integer minor currency units
	DurationMinutes int    `json:"durationMinutes"`
}

// BookingRequest is the portal's read-only, eventually-consistent snapshot of a
// booking request held by the remote booking service.
type BookingRequest struct {
	ID            string `json:"id"`
	BookingNumber string `json:"bookingNumber"`

	Patient PatientRef      `json:"patient"`
	Service ServiceSnapshot `json:"service"`

	RequestedStart time.Time  `json:"requestedStart"`
	RequestedEnd   time.Time  `json:"requestedEnd"`
	ConfirmedStart *time.Time `json:"confirmedStart,omitempty"`
	ConfirmedEnd   *time.Time `json:"confirmedEnd,omitempty"`
	ProposedStart  *time.Time `json:"proposedStart,omitempty"`
	ProposedEnd    *time.Time `json:"proposedEnd,omitempty"`

	ExpiresAt     time.Time `json:"expiresAt"`
	RemindersSent int       `json:"remindersSent"`

	Status      BookingRequestStatus `json:"status"`
	PatientNote string               `json:"patientNote,omitempty"`
}

// EffectiveStart returns the authoritative start time for display purposes,
// preferring the confirmed time over the originally requested one.
func (b *BookingRequest) EffectiveStart() time.Time {
	if b.ConfirmedStart != nil {
		return *b.ConfirmedStart
	}
	return b.RequestedStart
}

// Pagination mirrors the paging metadata returned by the booking service.
type Pagination struct {
	Total int `json:"total"`
	Limit int `json:"limit"`
	Skip  int `json:"skip"`
}
