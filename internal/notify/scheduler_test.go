package notify

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"parkezy/internal/models"
)

type capturingBus struct {
	mu     sync.Mutex
	events []WarningEvent
}

func (b *capturingBus) PublishWarning(ctx context.Context, event WarningEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
	return nil
}

func (b *capturingBus) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.events)
}

func (b *capturingBus) kinds() map[string]int {
	b.mu.Lock()
	defer b.mu.Unlock()
	result := make(map[string]int)
	for _, e := range b.events {
		result[e.Kind]++
	}
	return result
}

func warningSession(id string, end time.Time) *models.Session {
	return &models.Session{
		ID:               id,
		UserID:           7,
		SpotID:           "spot-1",
		ScheduledEndTime: end,
		Status:           models.StatusConfirmed,
	}
}

func TestScheduleWarningsFiresBothKinds(t *testing.T) {
	bus := &capturingBus{}
	s := NewScheduler(bus, zap.NewNop())
	defer s.Close()

	// Shrink the lead so both timers fire within the test.
	s.lead = 20 * time.Millisecond

	if err := s.ScheduleWarnings(warningSession("s1", time.Now().UTC().Add(60*time.Millisecond))); err != nil {
		t.Fatalf("schedule: %v", err)
	}

	waitFor(t, time.Second, func() bool { return bus.count() == 2 })

	kinds := bus.kinds()
	if kinds[KindExpiringSoon] != 1 || kinds[KindExpired] != 1 {
		t.Fatalf("expected one of each warning kind, got %v", kinds)
	}
}

func TestScheduleWarningsSkipsPastFireTimes(t *testing.T) {
	bus := &capturingBus{}
	s := NewScheduler(bus, zap.NewNop())
	defer s.Close()

	// Scheduled end already in the past: nothing should be armed.
	if err := s.ScheduleWarnings(warningSession("s1", time.Now().UTC().Add(-time.Hour))); err != nil {
		t.Fatalf("schedule: %v", err)
	}

	time.Sleep(50 * time.Millisecond)
	if bus.count() != 0 {
		t.Fatalf("expected no warnings for past end time, got %d", bus.count())
	}
}

func TestCancelWarningsStopsTimers(t *testing.T) {
	bus := &capturingBus{}
	s := NewScheduler(bus, zap.NewNop())
	defer s.Close()

	if err := s.ScheduleWarnings(warningSession("s1", time.Now().UTC().Add(60*time.Millisecond))); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if err := s.CancelWarnings("s1"); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	time.Sleep(120 * time.Millisecond)
	if bus.count() != 0 {
		t.Fatalf("expected cancelled warnings to stay silent, got %d", bus.count())
	}
}

func TestRescheduleLeavesSinglePendingSet(t *testing.T) {
	bus := &capturingBus{}
	s := NewScheduler(bus, zap.NewNop())
	defer s.Close()

	end := time.Now().UTC().Add(50 * time.Millisecond)
	if err := s.ScheduleWarnings(warningSession("s1", end)); err != nil {
		t.Fatalf("first schedule: %v", err)
	}
	// Re-anchor to a later end, as an extension would.
	if err := s.ScheduleWarnings(warningSession("s1", end.Add(40*time.Millisecond))); err != nil {
		t.Fatalf("reschedule: %v", err)
	}

	waitFor(t, time.Second, func() bool { return bus.count() >= 1 })
	time.Sleep(120 * time.Millisecond)

	if kinds := bus.kinds(); kinds[KindExpired] != 1 {
		t.Fatalf("expected exactly one expired warning after reschedule, got %v", kinds)
	}
}

func waitFor(t *testing.T, timeout time.Duration, condition func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within %s", timeout)
}
