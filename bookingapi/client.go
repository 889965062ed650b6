// Package bookingapi is the HTTP client for the remote booking service. The
// portal is a pure consumer: it reads booking-request snapshots and requests
// status transitions, but the booking service owns all state.
package bookingapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"carelink/models"

	"go.uber.org/zap"
)

const providerIDHeader = "X-Provider-ID"

// Client talks to the remote booking service over HTTP JSON.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a booking service client. The timeout bounds every call;
// the legacy portal had none, which left hung requests spinning forever.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.L()
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// ListOptions narrows a full booking-request listing.
type ListOptions struct {
	Status models.BookingRequestStatus
	Limit  int
	Skip   int
}

type listResponse struct {
	Bookings []models.BookingRequest `json:"bookings"`
}

type pagedResponse struct {
	Bookings   []models.BookingRequest `json:"bookings"`
	Pagination models.Pagination       `json:"pagination"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ListPending fetches the booking requests awaiting the provider's decision.
func (c *Client) ListPending(ctx context.Context, providerID string) ([]models.BookingRequest, error) {
	var out listResponse
	path := fmt.Sprintf("/bookings/provider/%s/pending", url.PathEscape(providerID))
	if err := c.do(ctx, http.MethodGet, path, providerID, nil, &out); err != nil {
		return nil, err
	}
	return out.Bookings, nil
}

// ListAll fetches the provider's booking requests across all statuses, paged.
func (c *Client) ListAll(ctx context.Context, providerID string, opts ListOptions) ([]models.BookingRequest, models.Pagination, error) {
	q := url.Values{}
	if opts.Status != "" {
		q.Set("status", string(opts.Status))
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Skip > 0 {
		q.Set("skip", strconv.Itoa(opts.Skip))
	}
	path := fmt.Sprintf("/bookings/provider/%s", url.PathEscape(providerID))
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var out pagedResponse
	if err := c.do(ctx, http.MethodGet, path, providerID, nil, &out); err != nil {
		return nil, models.Pagination{}, err
	}
	return out.Bookings, out.Pagination, nil
}

// Confirm requests the pending_confirmation -> confirmed transition. Patient
// payment capture happens inside the booking service and is opaque here.
func (c *Client) Confirm(ctx context.Context, providerID, bookingID string) error {
	path := fmt.Sprintf("/bookings/%s/confirm", url.PathEscape(bookingID))
	return c.do(ctx, http.MethodPost, path, providerID, nil, nil)
}

// Decline requests the pending_confirmation -> cancelled_provider transition.
// The booking service releases the patient's payment hold on success.
func (c *Client) Decline(ctx context.Context, providerID, bookingID, reason string) error {
	path := fmt.Sprintf("/bookings/%s/decline", url.PathEscape(bookingID))
	body := map[string]string{"reason": reason}
	return c.do(ctx, http.MethodPost, path, providerID, body, nil)
}

// Reschedule proposes an alternate start time to the patient. The booking
// service flips status to reschedule_proposed and opens the patient's
// response window.
func (c *Client) Reschedule(ctx context.Context, providerID, bookingID string, proposedStart time.Time, message string) error {
	path := fmt.Sprintf("/bookings/%s/reschedule", url.PathEscape(bookingID))
	body := map[string]string{
		"proposedStart": proposedStart.Format(time.RFC3339),
	}
	if message != "" {
		body["message"] = message
	}
	return c.do(ctx, http.MethodPost, path, providerID, body, nil)
}

func (c *Client) do(ctx context.Context, method, path, providerID string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("bookingapi: marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("bookingapi: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(providerIDHeader, providerID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("bookingapi: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("bookingapi: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errBody errorResponse
		if unmarshalErr := json.Unmarshal(raw, &errBody); unmarshalErr != nil || errBody.Error == "" {
			errBody.Error = http.StatusText(resp.StatusCode)
		}
		c.logger.Warn("booking service call failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("error", errBody.Error))
		return &APIError{StatusCode: resp.StatusCode, Message: errBody.Error}
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("bookingapi: decode response: %w", err)
		}
	}
	return nil
}
