package model

import "time"

// ShortlistItem is an event-scoped saved listing. At most one item exists
// per (event_id, listing_id) pair; adding a duplicate returns the existing
// item. The pair is backed by a unique index (see internal/migrations).
type ShortlistItem struct {
	ID               string    `json:"id,omitempty" bson:"_id,omitempty"`
	EventID          string    `json:"event_id" bson:"event_id"`
	ServiceListingID string    `json:"service_listing_id" bson:"service_listing_id"`
	Notes            string    `json:"notes,omitempty" bson:"notes,omitempty"`
	AddedAt          time.Time `json:"added_at" bson:"added_at"`
}

type ShortlistAddRequest struct {
	EventID          string `json:"event_id" validate:"required"`
	ServiceListingID string `json:"service_listing_id" validate:"required"`
	Notes            string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

type ShortlistNotesUpdate struct {
	Notes string `json:"notes" validate:"max=2000"`
}
