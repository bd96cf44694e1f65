package model

import "time"

type TimelineEventType string

const (
	TimelineMilestone     TimelineEventType = "MILESTONE"
	TimelineSetup         TimelineEventType = "SETUP"
	TimelineDeliverable   TimelineEventType = "DELIVERABLE"
	TimelineCommunication TimelineEventType = "COMMUNICATION"
)

// TimelineEvent is derived at read time, never persisted. BookingID and
// VendorID are non-owning back-references into the source entity.
type TimelineEvent struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Date        time.Time         `json:"date"`
	Type        TimelineEventType `json:"type"`
	Status      string            `json:"status,omitempty"`
	VendorID    string            `json:"vendor_id,omitempty"`
	BookingID   string            `json:"booking_id,omitempty"`
}
