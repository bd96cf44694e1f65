package model

import "time"

type BookingStatus string

const (
	BookingPending         BookingStatus = "PENDING"
	BookingVendorReviewing BookingStatus = "VENDOR_REVIEWING"
	BookingQuoteSent       BookingStatus = "QUOTE_SENT"
	BookingQuoteAccepted   BookingStatus = "QUOTE_ACCEPTED"
	BookingConfirmed       BookingStatus = "CONFIRMED"
	BookingInProgress      BookingStatus = "IN_PROGRESS"
	BookingCompleted       BookingStatus = "COMPLETED"
	BookingCancelled       BookingStatus = "CANCELLED"
)

// IsTerminal reports whether no further transition may leave the status.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingCompleted || s == BookingCancelled
}

type ActorType string

const (
	ActorOrganizer ActorType = "ORGANIZER"
	ActorVendor    ActorType = "VENDOR"
)

// VendorBooking is the stateful negotiation-and-delivery record linking an
// event, a listing, and a vendor. Deliverables and messages live in their
// own collections keyed by booking id; the booking document stays small no
// matter how many of either accumulate.
type VendorBooking struct {
	ID               string         `json:"id,omitempty" bson:"_id,omitempty"`
	EventID          string         `json:"event_id" bson:"event_id" validate:"required"`
	ServiceListingID string         `json:"service_listing_id" bson:"service_listing_id" validate:"required"`
	VendorID         string         `json:"vendor_id" bson:"vendor_id" validate:"required"`
	Status           BookingStatus  `json:"status" bson:"status" validate:"required,oneof=PENDING VENDOR_REVIEWING QUOTE_SENT QUOTE_ACCEPTED CONFIRMED IN_PROGRESS COMPLETED CANCELLED"`
	ServiceDate      time.Time      `json:"service_date" bson:"service_date" validate:"required"`
	Requirements     string         `json:"requirements" bson:"requirements" validate:"required,min=2,max=5000"`
	BudgetRange      string         `json:"budget_range,omitempty" bson:"budget_range,omitempty" validate:"omitempty,max=100"`
	AdditionalNotes  string         `json:"additional_notes,omitempty" bson:"additional_notes,omitempty" validate:"omitempty,max=5000"`
	FinalPrice       *float64       `json:"final_price,omitempty" bson:"final_price,omitempty" validate:"omitempty,gt=0"`
	StatusHistory    []StatusChange `json:"status_history" bson:"status_history"`
	ConfirmedAt      *time.Time     `json:"confirmed_at,omitempty" bson:"confirmed_at,omitempty"`
	Version          int64          `json:"version" bson:"version"`
	CreatedAt        time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at" bson:"updated_at"`
}

// StatusChange is one applied transition. The history is append-only and
// always starts with the PENDING entry written at quote request.
type StatusChange struct {
	From  BookingStatus `json:"from,omitempty" bson:"from,omitempty"`
	To    BookingStatus `json:"to" bson:"to"`
	Actor ActorType     `json:"actor" bson:"actor"`
	At    time.Time     `json:"at" bson:"at"`
}

// QuoteLock is an advisory lock document guarding quote-request creation
// for one (event, listing) pair. A TTL index on created_at reaps locks
// left behind by crashed holders.
type QuoteLock struct {
	ID        string    `bson:"_id"`
	CreatedAt time.Time `bson:"created_at"`
}

type QuoteRequest struct {
	EventID          string    `json:"event_id" validate:"required"`
	ServiceListingID string    `json:"service_listing_id" validate:"required"`
	ServiceDate      time.Time `json:"service_date" validate:"required"`
	Requirements     string    `json:"requirements" validate:"required,min=2,max=5000"`
	BudgetRange      string    `json:"budget_range,omitempty" validate:"omitempty,max=100"`
	AdditionalNotes  string    `json:"additional_notes,omitempty" validate:"omitempty,max=5000"`
}

// AdvanceRequest carries one status transition. FinalPrice is required for
// the QUOTE_SENT target and rejected for every other one, enforced by the
// bookings validator. ExpectedVersion, when set, is the optimistic
// concurrency token; a stale value yields Conflict instead of silently
// losing the transition.
type AdvanceRequest struct {
	Status          BookingStatus `json:"status" validate:"required,oneof=VENDOR_REVIEWING QUOTE_SENT QUOTE_ACCEPTED CONFIRMED IN_PROGRESS COMPLETED CANCELLED"`
	Actor           ActorType     `json:"actor" validate:"required,oneof=ORGANIZER VENDOR"`
	FinalPrice      *float64      `json:"final_price,omitempty" validate:"omitempty,gt=0"`
	ExpectedVersion *int64        `json:"expected_version,omitempty" validate:"omitempty,min=0"`
}
