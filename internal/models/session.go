package models

import "time"

// Session status values.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Session represents one reservation-to-settlement booking lifecycle for a
// parking spot.
type Session struct {
	ID                 string     `json:"id"`
	SpotID             string     `json:"spot_id"`
	UserID             int64      `json:"user_id"`
	BookingTime        time.Time  `json:"booking_time"`
	ScheduledStartTime time.Time  `json:"scheduled_start_time"`
	ScheduledEndTime   time.Time  `json:"scheduled_end_time"`
	ActualStartTime    *time.Time `json:"actual_start_time,omitempty"`
	ActualEndTime      *time.Time `json:"actual_end_time,omitempty"`
	DurationHours      float64    `json:"duration_hours"`
	TotalCost          Amount     `json:"total_cost"`
	OverstayFee        *Amount    `json:"overstay_fee,omitempty"`
	Status             string     `json:"status"`
	AccessCode         string     `json:"access_code"`
}

// Clone returns a deep copy, detaching the optional pointer fields.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	if s.ActualStartTime != nil {
		t := *s.ActualStartTime
		c.ActualStartTime = &t
	}
	if s.ActualEndTime != nil {
		t := *s.ActualEndTime
		c.ActualEndTime = &t
	}
	if s.OverstayFee != nil {
		f := *s.OverstayFee
		c.OverstayFee = &f
	}
	return &c
}

// SessionSnapshot is the live view published on every metric update and
// lifecycle transition. The provisional overstay fee is a display estimate;
// only settlement commits it into the session's total cost.
type SessionSnapshot struct {
	Session                Session   `json:"session"`
	ElapsedSeconds         int64     `json:"elapsed_seconds"`
	TimeRemainingSeconds   int64     `json:"time_remaining_seconds"`
	CurrentCost            Amount    `json:"current_cost"`
	ProvisionalOverstayFee *Amount   `json:"provisional_overstay_fee,omitempty"`
	Advisory               string    `json:"advisory,omitempty"`
	UpdatedAt              time.Time `json:"updated_at"`
}
