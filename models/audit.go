package models

import "time"

// ActionRecord is one entry in the provider action audit trail: a single
// confirm/decline/reschedule dispatch and its outcome.
type ActionRecord struct {
	ID         string    `bson:"id" json:"id"`
	BookingID  string    `bson:"bookingId" json:"bookingId"`
	ProviderID string    `bson:"providerId" json:"providerId"`
	Action     string    `bson:"action" json:"action"` // "confirm", "decline", "reschedule"
	Reason     string    `bson:"reason,omitempty" json:"reason,omitempty"`
	ProposedAt string    `bson:"proposedAt,omitempty" json:"proposedAt,omitempty"`
	Outcome    string    `bson:"outcome" json:"outcome"` // "ok" or the error string
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
}
