package events

import (
	"time"

	"vendora/pkg/model"
)

// Event types published to the marketplace topic.
const (
	TypeQuoteRequested       = "booking.quote_requested"
	TypeBookingStatusChanged = "booking.status_changed"
	TypeDeliverableCompleted = "deliverable.completed"
	TypeMessagePosted        = "message.posted"
)

const SchemaVersion = "1"

type QuoteRequested struct {
	BookingID        string    `json:"booking_id"`
	EventID          string    `json:"event_id"`
	ServiceListingID string    `json:"service_listing_id"`
	VendorID         string    `json:"vendor_id"`
	ServiceDate      time.Time `json:"service_date"`
	RequestedAt      time.Time `json:"requested_at"`
}

type BookingStatusChanged struct {
	BookingID  string              `json:"booking_id"`
	EventID    string              `json:"event_id"`
	VendorID   string              `json:"vendor_id"`
	From       model.BookingStatus `json:"from"`
	To         model.BookingStatus `json:"to"`
	Actor      model.ActorType     `json:"actor"`
	FinalPrice *float64            `json:"final_price,omitempty"`
	ChangedAt  time.Time           `json:"changed_at"`
}

type DeliverableCompleted struct {
	DeliverableID string    `json:"deliverable_id"`
	BookingID     string    `json:"booking_id"`
	Title         string    `json:"title"`
	DueDate       time.Time `json:"due_date"`
	CompletedAt   time.Time `json:"completed_at"`
}

type MessagePosted struct {
	MessageID  string          `json:"message_id"`
	BookingID  string          `json:"booking_id"`
	SenderType model.ActorType `json:"sender_type"`
	SentAt     time.Time       `json:"sent_at"`
}
