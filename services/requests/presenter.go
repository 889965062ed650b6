package requests

import (
	"sort"
	"strings"

	"carelink/models"
)

// SortKey selects the ordering applied to a booking-request listing.
type SortKey string

const (
	SortByUrgency SortKey = "urgency" // soonest-expiring first
	SortByDate    SortKey = "date"    // earliest requested start first
	SortByAmount  SortKey = "amount"  // highest price first
)

// ParseSortKey maps a query-string value to a SortKey, defaulting to urgency.
func ParseSortKey(raw string) SortKey {
	switch SortKey(raw) {
	case SortByDate:
		return SortByDate
	case SortByAmount:
		return SortByAmount
	default:
		return SortByUrgency
	}
}

// SortRequests returns an ordered copy of the list. The input is never
// mutated; handlers hand out snapshots shared with the fetcher.
func SortRequests(list []models.BookingRequest, key SortKey) []models.BookingRequest {
	ordered := make([]models.BookingRequest, len(list))
	copy(ordered, list)

	switch key {
	case SortByDate:
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].RequestedStart.Before(ordered[j].RequestedStart)
		})
	case SortByAmount:
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].Service.PriceCents > ordered[j].Service.PriceCents
		})
	default:
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].ExpiresAt.Before(ordered[j].ExpiresAt)
		})
	}
	return ordered
}

// Filter narrows a full booking-request listing.
type Filter struct {
	Status models.BookingRequestStatus
	Query  string
}

// FilterRequests applies an exact status match and a case-insensitive
// substring search across patient name, service name and booking number
// (any one field matching keeps the entry).
func FilterRequests(list []models.BookingRequest, f Filter) []models.BookingRequest {
	if f.Status == "" && strings.TrimSpace(f.Query) == "" {
		out := make([]models.BookingRequest, len(list))
		copy(out, list)
		return out
	}

	needle := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]models.BookingRequest, 0, len(list))
	for _, req := range list {
		if f.Status != "" && req.Status != f.Status {
			continue
		}
		if needle != "" && !matchesQuery(req, needle) {
			continue
		}
		out = append(out, req)
	}
	return out
}

func matchesQuery(req models.BookingRequest, needle string) bool {
	return strings.Contains(strings.ToLower(req.Patient.Name), needle) ||
		strings.Contains(strings.ToLower(req.Service.Name), needle) ||
		strings.Contains(strings.ToLower(req.BookingNumber), needle)
}
