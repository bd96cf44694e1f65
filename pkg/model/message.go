package model

import "time"

// MessageChannel exists once per booking, created when the booking enters
// CONFIRMED. Posting to a booking without a channel is an invalid-state
// error, not a lazy create.
type MessageChannel struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty"`
	BookingID string    `json:"booking_id" bson:"booking_id"`
	EventID   string    `json:"event_id" bson:"event_id"`
	VendorID  string    `json:"vendor_id" bson:"vendor_id"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// BookingMessage is append-only. No update or delete operation exists
// anywhere in the messaging package.
type BookingMessage struct {
	ID          string       `json:"id,omitempty" bson:"_id,omitempty"`
	BookingID   string       `json:"booking_id" bson:"booking_id" validate:"required"`
	SenderID    string       `json:"sender_id" bson:"sender_id" validate:"required"`
	SenderType  ActorType    `json:"sender_type" bson:"sender_type" validate:"required,oneof=ORGANIZER VENDOR"`
	Message     string       `json:"message" bson:"message" validate:"required,min=1,max=10000"`
	SentAt      time.Time    `json:"sent_at" bson:"sent_at"`
	Attachments []Attachment `json:"attachments,omitempty" bson:"attachments,omitempty" validate:"omitempty,max=10,dive"`
}

type Attachment struct {
	ID       string `json:"id" bson:"id"`
	URL      string `json:"url" bson:"url" validate:"required,url"`
	Filename string `json:"filename" bson:"filename" validate:"required,max=255"`
}

type PostMessageRequest struct {
	SenderID    string       `json:"sender_id" validate:"required"`
	SenderType  ActorType    `json:"sender_type" validate:"required,oneof=ORGANIZER VENDOR"`
	Message     string       `json:"message" validate:"required,min=1,max=10000"`
	Attachments []Attachment `json:"attachments,omitempty" validate:"omitempty,max=10,dive"`
}
