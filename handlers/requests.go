package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"carelink/bookingapi"
	auditRepo "carelink/database/repository/audit"
	"carelink/models"
	"carelink/services/requests"
	"carelink/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestHandler serves the booking-request view endpoints.
type RequestHandler struct {
	registry   *requests.Registry
	dispatcher *requests.Dispatcher
	lister     FullLister
	audit      auditRepo.ActionRecordRepository
	logger     *zap.Logger
}

// FullLister is the slice of the booking service client the full-list
// endpoint needs.
type FullLister interface {
	ListAll(ctx context.Context, providerID string, opts bookingapi.ListOptions) ([]models.BookingRequest, models.Pagination, error)
}

// NewRequestHandler constructs the booking-request view handler.
func NewRequestHandler(registry *requests.Registry, dispatcher *requests.Dispatcher, lister FullLister, audit auditRepo.ActionRecordRepository, logger *zap.Logger) *RequestHandler {
	if logger == nil {
		logger = zap.L()
	}
	return &RequestHandler{
		registry:   registry,
		dispatcher: dispatcher,
		lister:     lister,
		audit:      audit,
		logger:     logger,
	}
}

// requestItem decorates a booking request with its derived display state:
// the effective start time and, for statuses that still carry an expiry
// window, the countdown.
type requestItem struct {
	models.BookingRequest
	EffectiveStart time.Time           `json:"effectiveStart"`
	TimeLeft       *requests.Remaining `json:"timeLeft,omitempty"`
}

func decorateRequests(list []models.BookingRequest, now time.Time) []requestItem {
	items := make([]requestItem, 0, len(list))
	for _, req := range list {
		item := requestItem{
			BookingRequest: req,
			EffectiveStart: req.EffectiveStart(),
		}
		if req.Status.HasExpiryWindow() {
			left := requests.TimeRemaining(req.ExpiresAt, now)
			item.TimeLeft = &left
		}
		items = append(items, item)
	}
	return items
}

// GetPendingHandler returns the provider's pending requests, ordered by the
// requested sort key and decorated with countdown state.
func (h *RequestHandler) GetPendingHandler(c *gin.Context) {
	providerID := c.GetString("providerID")
	key := requests.ParseSortKey(c.Query("sort"))

	fetcher := h.registry.Ensure(providerID)
	snap := fetcher.Snapshot()
	if !snap.Loaded && snap.Err == "" {
		// First hit for this provider; the poller has not completed yet.
		if err := fetcher.Refresh(c.Request.Context()); err != nil {
			utils.JSONError(c, http.StatusBadGateway, "failed to load pending requests", err.Error())
			return
		}
		snap = fetcher.Snapshot()
	}

	ordered := requests.SortRequests(snap.Requests, key)
	items := decorateRequests(ordered, time.Now())

	resp := gin.H{
		"requests":  items,
		"fetchedAt": snap.FetchedAt,
	}
	if snap.Err != "" {
		resp["error"] = snap.Err
	}
	c.JSON(http.StatusOK, resp)
}

// RefreshHandler forces an immediate refetch of the pending list.
func (h *RequestHandler) RefreshHandler(c *gin.Context) {
	providerID := c.GetString("providerID")

	fetcher := h.registry.Ensure(providerID)
	if err := fetcher.Refresh(c.Request.Context()); err != nil {
		utils.JSONError(c, http.StatusBadGateway, "failed to refresh pending requests", err.Error())
		return
	}

	snap := fetcher.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"requests":  snap.Requests,
		"fetchedAt": snap.FetchedAt,
	})
}

// ListAllHandler returns the provider's full booking-request list, paged and
// optionally narrowed by status and free-text search.
func (h *RequestHandler) ListAllHandler(c *gin.Context) {
	providerID := c.GetString("providerID")

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	opts := bookingapi.ListOptions{
		Status: models.BookingRequestStatus(c.Query("status")),
		Limit:  limit,
		Skip:   skip,
	}

	list, pagination, err := h.lister.ListAll(c.Request.Context(), providerID, opts)
	if err != nil {
		utils.JSONError(c, http.StatusBadGateway, "failed to load booking requests", err.Error())
		return
	}

	// The booking service filters by status; the text search stays local.
	list = requests.FilterRequests(list, requests.Filter{Query: c.Query("q")})

	c.JSON(http.StatusOK, gin.H{
		"requests":   decorateRequests(list, time.Now()),
		"pagination": pagination,
	})
}

// ConfirmHandler confirms a pending booking request.
func (h *RequestHandler) ConfirmHandler(c *gin.Context) {
	providerID := c.GetString("providerID")
	bookingID := c.Param("id")

	if err := h.dispatcher.Confirm(c.Request.Context(), providerID, bookingID); err != nil {
		h.respondActionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "confirmed", "bookingId": bookingID})
}

// DeclineHandler declines a pending booking request with a reason.
func (h *RequestHandler) DeclineHandler(c *gin.Context) {
	providerID := c.GetString("providerID")
	bookingID := c.Param("id")

	var input models.DeclineInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	if err := h.dispatcher.Decline(c.Request.Context(), providerID, bookingID, input); err != nil {
		h.respondActionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "declined", "bookingId": bookingID})
}

// RescheduleHandler proposes an alternate start time for a booking request.
func (h *RequestHandler) RescheduleHandler(c *gin.Context) {
	providerID := c.GetString("providerID")
	bookingID := c.Param("id")

	var input models.RescheduleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	if err := h.dispatcher.Reschedule(c.Request.Context(), providerID, bookingID, input); err != nil {
		h.respondActionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "reschedule_proposed", "bookingId": bookingID})
}

// SlotGridHandler returns the proposable half-hour reschedule slots for a day.
func (h *RequestHandler) SlotGridHandler(c *gin.Context) {
	day, err := time.ParseInLocation("2006-01-02", c.Query("date"), time.Local)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid date", "expected date=YYYY-MM-DD")
		return
	}

	grid := requests.SlotGrid(day)
	slots := make([]gin.H, 0, len(grid))
	for _, slot := range grid {
		slots = append(slots, gin.H{
			"start": slot.Format(time.RFC3339),
			"label": slot.Format("15:04"),
		})
	}
	c.JSON(http.StatusOK, gin.H{"date": c.Query("date"), "slots": slots})
}

// HistoryHandler returns the audit trail of actions taken on a booking.
func (h *RequestHandler) HistoryHandler(c *gin.Context) {
	providerID := c.GetString("providerID")
	bookingID := c.Param("id")

	records, err := h.audit.GetByBookingID(c.Request.Context(), providerID, bookingID)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to load action history", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookingId": bookingID, "history": records})
}

// ProviderHistoryHandler returns the provider's recent actions across all
// bookings, newest first.
func (h *RequestHandler) ProviderHistoryHandler(c *gin.Context) {
	providerID := c.GetString("providerID")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	records, err := h.audit.GetByProviderID(c.Request.Context(), providerID, int64(limit))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to load action history", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": records})
}

func (h *RequestHandler) respondActionError(c *gin.Context, err error) {
	var apiErr *bookingapi.APIError
	switch {
	case requests.IsValidation(err):
		utils.JSONError(c, http.StatusBadRequest, "invalid action input", err.Error())
	case requests.IsActionInFlight(err):
		utils.JSONError(c, http.StatusConflict, "action already in flight", err.Error())
	case errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500:
		// The booking service rejected the action for a reason the caller
		// can act on (gone, already confirmed, conflicting state); keep
		// its status instead of flattening everything to a gateway error.
		utils.JSONError(c, apiErr.StatusCode, "booking service rejected the action", apiErr.Message)
	default:
		utils.JSONError(c, http.StatusBadGateway, "booking service call failed", err.Error())
	}
}
