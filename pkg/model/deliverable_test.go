package model

import (
	"testing"
	"time"
)

func TestDeliverable_IsOverdue(t *testing.T) {
	due := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	later := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	earlier := time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		status   DeliverableStatus
		now      time.Time
		expected bool
	}{
		{"pending past due", DeliverablePending, later, true},
		{"in progress past due", DeliverableInProgress, later, true},
		{"completed past due", DeliverableCompleted, later, false},
		{"pending before due", DeliverablePending, earlier, false},
		{"pending exactly at due", DeliverablePending, due, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &Deliverable{
				Status:  tt.status,
				DueDate: due,
			}
			if got := d.IsOverdue(tt.now); got != tt.expected {
				t.Errorf("IsOverdue(%v) with status %s = %v, want %v", tt.now, tt.status, got, tt.expected)
			}
		})
	}
}

func TestBookingStatus_IsTerminal(t *testing.T) {
	terminal := []BookingStatus{BookingCompleted, BookingCancelled}
	for _, s := range terminal {
		if !s.IsTerminal() {
			t.Errorf("expected %s to be terminal", s)
		}
	}

	nonTerminal := []BookingStatus{
		BookingPending, BookingVendorReviewing, BookingQuoteSent,
		BookingQuoteAccepted, BookingConfirmed, BookingInProgress,
	}
	for _, s := range nonTerminal {
		if s.IsTerminal() {
			t.Errorf("expected %s to be non-terminal", s)
		}
	}
}
