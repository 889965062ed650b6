package requests

import (
	"context"
	"sync"
	"testing"
	"time"

	"carelink/bookingapi"
	"carelink/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeActionAPI records dispatched actions and can fail or block on demand.
type fakeActionAPI struct {
	mu              sync.Mutex
	confirmCalls    int
	declineCalls    int
	rescheduleCalls int
	lastReason      string
	lastProposed    time.Time
	lastMessage     string
	err             error
	block           chan struct{}
}

func (a *fakeActionAPI) Confirm(ctx context.Context, providerID, bookingID string) error {
	a.mu.Lock()
	a.confirmCalls++
	block := a.block
	err := a.err
	a.mu.Unlock()
	if block != nil {
		<-block
	}
	return err
}

func (a *fakeActionAPI) Decline(ctx context.Context, providerID, bookingID, reason string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.declineCalls++
	a.lastReason = reason
	return a.err
}

func (a *fakeActionAPI) Reschedule(ctx context.Context, providerID, bookingID string, proposedStart time.Time, message string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.rescheduleCalls++
	a.lastProposed = proposedStart
	a.lastMessage = message
	return a.err
}

type fakeAudit struct {
	mu      sync.Mutex
	records []models.ActionRecord
}

func (a *fakeAudit) Record(ctx context.Context, record models.ActionRecord) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.records = append(a.records, record)
	return nil
}

func (a *fakeAudit) outcomes() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.records))
	for _, r := range a.records {
		out = append(out, r.Outcome)
	}
	return out
}

func futureSlot() time.Time {
	// Next week at 10:00 local time, safely on the slot grid.
	now := time.Now()
	day := now.AddDate(0, 0, 7)
	return time.Date(day.Year(), day.Month(), day.Day(), 10, 0, 0, 0, now.Location())
}

func TestDispatcher_ConfirmPrunesPendingList(t *testing.T) {
	source := &fakeSource{list: pendingFixture("a", "b")}
	reg := NewRegistry(source, time.Hour, time.Hour, zap.NewNop())
	defer reg.StopAll()

	fetcher := reg.Ensure("prov-1")
	require.NoError(t, fetcher.Refresh(context.Background()))

	// The refetch after the action must not resurrect the confirmed item.
	source.set(pendingFixture("b"), nil)

	api := &fakeActionAPI{}
	audit := &fakeAudit{}
	d := NewDispatcher(api, reg, audit, zap.NewNop())

	require.NoError(t, d.Confirm(context.Background(), "prov-1", "a"))

	snap := fetcher.Snapshot()
	for _, req := range snap.Requests {
		assert.NotEqual(t, "a", req.ID, "confirmed request still in pending list")
	}
	assert.Equal(t, []string{"ok"}, audit.outcomes())
}

func TestDispatcher_DeclineRequiresReason(t *testing.T) {
	api := &fakeActionAPI{}
	d := NewDispatcher(api, nil, nil, zap.NewNop())

	err := d.Decline(context.Background(), "prov-1", "a", models.DeclineInput{})
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	err = d.Decline(context.Background(), "prov-1", "a", models.DeclineInput{
		Reason: models.DeclineOther, CustomReason: "   ",
	})
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	err = d.Decline(context.Background(), "prov-1", "a", models.DeclineInput{
		Reason: "not_a_reason",
	})
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	assert.Equal(t, 0, api.declineCalls, "invalid decline input must never reach the network")
}

func TestDispatcher_DeclineOtherUsesCustomText(t *testing.T) {
	api := &fakeActionAPI{}
	d := NewDispatcher(api, nil, nil, zap.NewNop())

	err := d.Decline(context.Background(), "prov-1", "a", models.DeclineInput{
		Reason:       models.DeclineOther,
		CustomReason: "Provider on vacation",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, api.declineCalls)
	assert.Equal(t, "Provider on vacation", api.lastReason)
}

func TestDispatcher_DeclineEnumeratedReasonPassedThrough(t *testing.T) {
	api := &fakeActionAPI{}
	d := NewDispatcher(api, nil, nil, zap.NewNop())

	err := d.Decline(context.Background(), "prov-1", "a", models.DeclineInput{
		Reason: models.DeclineScheduleConflict,
	})
	require.NoError(t, err)
	assert.Equal(t, "schedule_conflict", api.lastReason)
}

func TestDispatcher_FailureLeavesListUnchanged(t *testing.T) {
	source := &fakeSource{list: pendingFixture("a", "b")}
	reg := NewRegistry(source, time.Hour, time.Hour, zap.NewNop())
	defer reg.StopAll()

	fetcher := reg.Ensure("prov-1")
	require.NoError(t, fetcher.Refresh(context.Background()))

	api := &fakeActionAPI{err: &bookingapi.APIError{StatusCode: 409, Message: "already confirmed"}}
	audit := &fakeAudit{}
	d := NewDispatcher(api, reg, audit, zap.NewNop())

	err := d.Decline(context.Background(), "prov-1", "a", models.DeclineInput{
		Reason: models.DeclineFullyBooked,
	})
	require.Error(t, err)

	snap := fetcher.Snapshot()
	require.Len(t, snap.Requests, 2, "failed action must leave the item in place")

	outcomes := audit.outcomes()
	require.Len(t, outcomes, 1)
	assert.Contains(t, outcomes[0], "already confirmed")
}

func TestDispatcher_RescheduleValidation(t *testing.T) {
	api := &fakeActionAPI{}
	d := NewDispatcher(api, nil, nil, zap.NewNop())

	// Missing start.
	err := d.Reschedule(context.Background(), "prov-1", "a", models.RescheduleInput{})
	assert.True(t, IsValidation(err))

	// Past start.
	err = d.Reschedule(context.Background(), "prov-1", "a", models.RescheduleInput{
		ProposedStart: futureSlot().AddDate(0, 0, -14),
	})
	assert.True(t, IsValidation(err))

	// Off-grid start.
	err = d.Reschedule(context.Background(), "prov-1", "a", models.RescheduleInput{
		ProposedStart: futureSlot().Add(10 * time.Minute),
	})
	assert.True(t, IsValidation(err))

	// Oversized message.
	long := make([]byte, 501)
	for i := range long {
		long[i] = 'x'
	}
	err = d.Reschedule(context.Background(), "prov-1", "a", models.RescheduleInput{
		ProposedStart: futureSlot(),
		Message:       string(long),
	})
	assert.True(t, IsValidation(err))

	assert.Equal(t, 0, api.rescheduleCalls)

	// Valid proposal goes through.
	err = d.Reschedule(context.Background(), "prov-1", "a", models.RescheduleInput{
		ProposedStart: futureSlot(),
		Message:       "Could we do 10:00 instead?",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, api.rescheduleCalls)
	assert.Equal(t, "Could we do 10:00 instead?", api.lastMessage)
}

func TestDispatcher_SecondActionOnSameBookingRejected(t *testing.T) {
	block := make(chan struct{})
	api := &fakeActionAPI{block: block}
	d := NewDispatcher(api, nil, nil, zap.NewNop())

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- d.Confirm(context.Background(), "prov-1", "a")
	}()

	// Wait until the first action holds the in-flight slot.
	assert.Eventually(t, func() bool {
		api.mu.Lock()
		defer api.mu.Unlock()
		return api.confirmCalls == 1
	}, time.Second, time.Millisecond)

	err := d.Confirm(context.Background(), "prov-1", "a")
	require.Error(t, err)
	assert.True(t, IsActionInFlight(err))

	// A different booking is not blocked.
	api.mu.Lock()
	api.block = nil
	api.mu.Unlock()
	require.NoError(t, d.Confirm(context.Background(), "prov-1", "b"))

	close(block)
	require.NoError(t, <-firstDone)

	// Once resolved, the same booking can be acted on again.
	require.NoError(t, d.Confirm(context.Background(), "prov-1", "a"))
}
