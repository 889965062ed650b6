package requests

import (
	"context"
	"strings"
	"sync"
	"time"

	"carelink/models"

	"go.uber.org/zap"
)

const maxRescheduleMessageLen = 500

// Dispatcher issues confirm/decline/reschedule calls against the booking
// service. Validation happens here, before any network dispatch; a second
// action on a booking whose first action has not resolved is rejected, which
// closes the double-click race the legacy portal only papered over with a
// disabled button.
type Dispatcher struct {
	api      ActionAPI
	registry *Registry
	audit    AuditSink
	logger   *zap.Logger

	mu       sync.Mutex
	inflight map[string]bool
}

// NewDispatcher creates an action dispatcher. audit may be nil, in which
// case actions are not recorded.
func NewDispatcher(api ActionAPI, registry *Registry, audit AuditSink, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.L()
	}
	return &Dispatcher{
		api:      api,
		registry: registry,
		audit:    audit,
		logger:   logger,
		inflight: make(map[string]bool),
	}
}

// Confirm requests confirmation of a pending booking. On success the item is
// pruned from the provider's pending list and a refetch is triggered.
func (d *Dispatcher) Confirm(ctx context.Context, providerID, bookingID string) error {
	if err := d.acquire(bookingID); err != nil {
		return err
	}
	defer d.release(bookingID)

	err := d.api.Confirm(ctx, providerID, bookingID)
	d.record(providerID, bookingID, "confirm", "", "", err)
	if err != nil {
		return err
	}
	d.settle(providerID, bookingID)
	return nil
}

// Decline declines a pending booking with a mandatory reason.
func (d *Dispatcher) Decline(ctx context.Context, providerID, bookingID string, in models.DeclineInput) error {
	reason, err := resolveDeclineReason(in)
	if err != nil {
		return err
	}

	if err := d.acquire(bookingID); err != nil {
		return err
	}
	defer d.release(bookingID)

	err = d.api.Decline(ctx, providerID, bookingID, reason)
	d.record(providerID, bookingID, "decline", reason, "", err)
	if err != nil {
		return err
	}
	d.settle(providerID, bookingID)
	return nil
}

// Reschedule proposes an alternate start time with an optional message.
func (d *Dispatcher) Reschedule(ctx context.Context, providerID, bookingID string, in models.RescheduleInput) error {
	if err := validateReschedule(in, time.Now()); err != nil {
		return err
	}

	if err := d.acquire(bookingID); err != nil {
		return err
	}
	defer d.release(bookingID)

	err := d.api.Reschedule(ctx, providerID, bookingID, in.ProposedStart, in.Message)
	d.record(providerID, bookingID, "reschedule", "", in.ProposedStart.Format(time.RFC3339), err)
	if err != nil {
		return err
	}
	d.settle(providerID, bookingID)
	return nil
}

// resolveDeclineReason validates decline input and returns the reason string
// sent to the booking service. "other" requires non-empty free text, which
// then becomes the reason itself.
func resolveDeclineReason(in models.DeclineInput) (string, error) {
	switch in.Reason {
	case models.DeclineScheduleConflict, models.DeclineFullyBooked,
		models.DeclineServiceUnavailable, models.DeclineLocationIssue:
		return string(in.Reason), nil
	case models.DeclineOther:
		custom := strings.TrimSpace(in.CustomReason)
		if custom == "" {
			return "", NewValidationError("a custom reason is required when declining with \"other\"")
		}
		return custom, nil
	case "":
		return "", NewValidationError("a decline reason is required")
	default:
		return "", NewValidationError("unknown decline reason: " + string(in.Reason))
	}
}

func validateReschedule(in models.RescheduleInput, now time.Time) error {
	if in.ProposedStart.IsZero() {
		return NewValidationError("a proposed start time is required")
	}
	if !in.ProposedStart.After(now) {
		return NewValidationError("the proposed start time must be in the future")
	}
	if !OnSlotGrid(in.ProposedStart) {
		return NewValidationError("the proposed start time must fall on a half-hour slot between 08:00 and 18:00")
	}
	if len(in.Message) > maxRescheduleMessageLen {
		return NewValidationError("the message may not exceed 500 characters")
	}
	return nil
}

func (d *Dispatcher) acquire(bookingID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.inflight[bookingID] {
		return NewActionInFlightError(bookingID)
	}
	d.inflight[bookingID] = true
	return nil
}

func (d *Dispatcher) release(bookingID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.inflight, bookingID)
}

// settle removes the actioned item from the provider's pending snapshot and
// schedules a refetch so the list converges on server truth.
func (d *Dispatcher) settle(providerID, bookingID string) {
	if d.registry == nil {
		return
	}
	fetcher, ok := d.registry.Get(providerID)
	if !ok {
		return
	}
	fetcher.Prune(bookingID)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := fetcher.Refresh(ctx); err != nil {
			d.logger.Warn("post-action refetch failed",
				zap.String("providerID", providerID), zap.Error(err))
		}
	}()
}

func (d *Dispatcher) record(providerID, bookingID, action, reason, proposedAt string, actionErr error) {
	if d.audit == nil {
		return
	}
	outcome := "ok"
	if actionErr != nil {
		outcome = actionErr.Error()
	}
	rec := models.ActionRecord{
		BookingID:  bookingID,
		ProviderID: providerID,
		Action:     action,
		Reason:     reason,
		ProposedAt: proposedAt,
		Outcome:    outcome,
		CreatedAt:  time.Now(),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.audit.Record(ctx, rec); err != nil {
		d.logger.Error("failed to record action audit entry",
			zap.String("bookingID", bookingID), zap.Error(err))
	}
}
