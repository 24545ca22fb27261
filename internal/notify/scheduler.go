package notify

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"parkezy/internal/models"
)

// Warning kinds emitted around the scheduled end time.
const (
	KindExpiringSoon = "expiring_soon"
	KindExpired      = "expired"
)

// expiringSoonLead is how far before the scheduled end the first warning fires.
const expiringSoonLead = 15 * time.Minute

// WarningEvent is the payload handed to the bus when a timer fires.
type WarningEvent struct {
	SessionID        string    `json:"session_id"`
	UserID           int64     `json:"user_id"`
	SpotID           string    `json:"spot_id"`
	Kind             string    `json:"kind"`
	ScheduledEndTime time.Time `json:"scheduled_end_time"`
}

// WarningPublisher delivers fired warnings to the notification bus.
type WarningPublisher interface {
	PublishWarning(ctx context.Context, event WarningEvent) error
}

// Scheduler anchors warning timers to a session's scheduled end time.
// ScheduleWarnings is cancel-then-schedule keyed by session ID, so
// re-anchoring after an extension leaves exactly one pending set.
type Scheduler struct {
	mu     sync.Mutex
	timers map[string][]*time.Timer
	bus    WarningPublisher
	logger *zap.Logger
	now    func() time.Time
	lead   time.Duration
}

// NewScheduler builds a scheduler publishing to the given bus.
func NewScheduler(bus WarningPublisher, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		timers: make(map[string][]*time.Timer),
		bus:    bus,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
		lead:   expiringSoonLead,
	}
}

// ScheduleWarnings arms expiring-soon and expired timers for the session.
// Warnings whose fire time is already past are skipped.
func (s *Scheduler) ScheduleWarnings(session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelLocked(session.ID)

	now := s.now()
	fireTimes := map[string]time.Time{
		KindExpiringSoon: session.ScheduledEndTime.Add(-s.lead),
		KindExpired:      session.ScheduledEndTime,
	}

	var armed []*time.Timer
	for kind, at := range fireTimes {
		delay := at.Sub(now)
		if delay <= 0 {
			continue
		}
		event := WarningEvent{
			SessionID:        session.ID,
			UserID:           session.UserID,
			SpotID:           session.SpotID,
			Kind:             kind,
			ScheduledEndTime: session.ScheduledEndTime,
		}
		armed = append(armed, time.AfterFunc(delay, func() { s.fire(event) }))
	}
	s.timers[session.ID] = armed
	return nil
}

// CancelWarnings stops all pending timers for the session.
func (s *Scheduler) CancelWarnings(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked(sessionID)
	return nil
}

// Close stops every pending timer.
func (s *Scheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range s.timers {
		s.cancelLocked(id)
	}
}

func (s *Scheduler) cancelLocked(sessionID string) {
	for _, t := range s.timers[sessionID] {
		t.Stop()
	}
	delete(s.timers, sessionID)
}

func (s *Scheduler) fire(event WarningEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.bus.PublishWarning(ctx, event); err != nil {
		s.logger.Warn("warning publish failed",
			zap.String("session_id", event.SessionID),
			zap.String("kind", event.Kind),
			zap.Error(err),
		)
		return
	}
	s.logger.Info("warning published",
		zap.String("session_id", event.SessionID),
		zap.String("kind", event.Kind),
	)
}
