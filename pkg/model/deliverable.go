package model

import "time"

type DeliverableStatus string

const (
	DeliverablePending    DeliverableStatus = "PENDING"
	DeliverableInProgress DeliverableStatus = "IN_PROGRESS"
	DeliverableCompleted  DeliverableStatus = "COMPLETED"

	// DeliverableOverdue is derived, never stored. It appears only in
	// timeline output, substituted when IsOverdue holds.
	DeliverableOverdue DeliverableStatus = "OVERDUE"
)

// Deliverable is a trackable unit of work owed by a vendor within a
// confirmed booking. CompletedAt is set iff Status == COMPLETED and is
// immutable once written.
type Deliverable struct {
	ID          string            `json:"id,omitempty" bson:"_id,omitempty"`
	BookingID   string            `json:"booking_id" bson:"booking_id" validate:"required"`
	Title       string            `json:"title" bson:"title" validate:"required,min=2,max=200"`
	Description string            `json:"description" bson:"description" validate:"omitempty,max=5000"`
	DueDate     time.Time         `json:"due_date" bson:"due_date" validate:"required"`
	Status      DeliverableStatus `json:"status" bson:"status" validate:"required,oneof=PENDING IN_PROGRESS COMPLETED"`
	CompletedAt *time.Time        `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
	Version     int64             `json:"version" bson:"version"`
	CreatedAt   time.Time         `json:"created_at" bson:"created_at"`
}

// IsOverdue is a pure function of (status, due date, now). It is recomputed
// on every read so completing a deliverable always clears overdue regardless
// of wall-clock time.
func (d *Deliverable) IsOverdue(now time.Time) bool {
	return d.Status != DeliverableCompleted && d.DueDate.Before(now)
}

type DeliverableCreateRequest struct {
	Title       string    `json:"title" validate:"required,min=2,max=200"`
	Description string    `json:"description,omitempty" validate:"omitempty,max=5000"`
	DueDate     time.Time `json:"due_date" validate:"required"`
}

type DeliverableStatusUpdate struct {
	Status          DeliverableStatus `json:"status" validate:"required,oneof=PENDING IN_PROGRESS COMPLETED"`
	ExpectedVersion *int64            `json:"expected_version,omitempty" validate:"omitempty,min=0"`
}
