package requests

import (
	"context"
	"time"

	"carelink/models"
)

// Source supplies booking-request snapshots. The production implementation is
// the bookingapi HTTP client; keeping it behind an interface lets the polling
// fetcher be swapped for a push subscription without touching the presenter
// or the dispatcher.
type Source interface {
	ListPending(ctx context.Context, providerID string) ([]models.BookingRequest, error)
}

// ActionAPI issues status-transition requests against the booking service.
type ActionAPI interface {
	Confirm(ctx context.Context, providerID, bookingID string) error
	Decline(ctx context.Context, providerID, bookingID, reason string) error
	Reschedule(ctx context.Context, providerID, bookingID string, proposedStart time.Time, message string) error
}

// AuditSink records dispatched actions and their outcomes.
type AuditSink interface {
	Record(ctx context.Context, record models.ActionRecord) error
}
