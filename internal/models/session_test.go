package models

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

func TestCompletedSessionRoundTrip(t *testing.T) {
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(2*time.Hour + 16*time.Minute)
	fee := Amount(4000)

	original := Session{
		ID:                 "abc123",
		SpotID:             "spot-9",
		UserID:             42,
		BookingTime:        start,
		ScheduledStartTime: start,
		ScheduledEndTime:   start.Add(2 * time.Hour),
		ActualStartTime:    &start,
		ActualEndTime:      &end,
		DurationHours:      2,
		TotalCost:          15800,
		OverstayFee:        &fee,
		Status:             StatusCompleted,
		AccessCode:         "483920",
	}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded Session
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(original, decoded) {
		t.Fatalf("round trip mismatch:\n%+v\n%+v", original, decoded)
	}
}

func TestRoundTripPreservesAbsentOverstayFee(t *testing.T) {
	original := Session{
		ID:        "no-fee",
		Status:    StatusCompleted,
		TotalCost: 11800,
	}
	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded Session
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.OverstayFee != nil {
		t.Fatalf("expected absent overstay fee, got %v", *decoded.OverstayFee)
	}
	if decoded.ActualStartTime != nil || decoded.ActualEndTime != nil {
		t.Fatalf("expected absent actual times")
	}
}

func TestSnapshotRoundTripWithProvisionalFee(t *testing.T) {
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	fee := Amount(4000)

	original := SessionSnapshot{
		Session: Session{
			ID:                 "abc123",
			SpotID:             "spot-9",
			UserID:             42,
			BookingTime:        start,
			ScheduledStartTime: start,
			ScheduledEndTime:   start.Add(2 * time.Hour),
			ActualStartTime:    &start,
			DurationHours:      2,
			TotalCost:          11800,
			Status:             StatusActive,
			AccessCode:         "483920",
		},
		ElapsedSeconds:         8160,
		TimeRemainingSeconds:   -960,
		CurrentCost:            13373,
		ProvisionalOverstayFee: &fee,
		Advisory:               "consider_ending",
		UpdatedAt:              start.Add(2*time.Hour + 16*time.Minute),
	}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded SessionSnapshot
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(original, decoded) {
		t.Fatalf("round trip mismatch:\n%+v\n%+v", original, decoded)
	}
}

func TestCloneDetachesPointers(t *testing.T) {
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	fee := Amount(2000)
	s := &Session{ID: "x", ActualStartTime: &start, OverstayFee: &fee}

	c := s.Clone()
	*c.OverstayFee = 9999
	*c.ActualStartTime = start.Add(time.Hour)

	if *s.OverstayFee != 2000 {
		t.Fatalf("clone shares overstay fee pointer")
	}
	if !s.ActualStartTime.Equal(start) {
		t.Fatalf("clone shares actual start pointer")
	}
}

func TestAmountString(t *testing.T) {
	cases := map[Amount]string{
		0:     "0.00",
		5:     "0.05",
		5900:  "59.00",
		-2050: "-20.50",
	}
	for amount, want := range cases {
		if got := amount.String(); got != want {
			t.Fatalf("Amount(%d).String(): expected %q, got %q", int64(amount), want, got)
		}
	}
}
