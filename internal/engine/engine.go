package engine

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"parkezy/internal/models"
	"parkezy/internal/pricing"
	"parkezy/internal/store"
)

// Lifecycle errors returned synchronously to callers.
var (
	ErrInvalidDuration  = errors.New("engine: duration must be positive")
	ErrInvalidCost      = errors.New("engine: total cost must not be negative")
	ErrSessionConflict  = errors.New("engine: another session is already in progress")
	ErrNoPendingSession = errors.New("engine: no confirmed session to start")
	ErrAlreadyStarted   = errors.New("engine: session already started")
	ErrNoActiveSession  = errors.New("engine: no session in progress")
	ErrRandomSource     = errors.New("engine: random source unavailable")
)

// Geofence event types delivered to the engine.
const (
	GeofenceEntered = "entered"
	GeofenceExited  = "exited"
)

// Snapshot advisories raised on geofence crossings. Advisories prompt the
// user; the engine never transitions state on them.
const (
	AdvisoryArrival     = "arrival_detected"
	AdvisoryConsiderEnd = "consider_ending"
)

// GeofenceService registers spot coordinates for entry/exit monitoring.
type GeofenceService interface {
	Monitor(ctx context.Context, spotID string, lat, lon float64) error
	StopMonitoring(ctx context.Context, spotID string) error
}

// NotificationScheduler manages expiry warnings keyed by session identity.
// Rescheduling must be idempotent.
type NotificationScheduler interface {
	ScheduleWarnings(session *models.Session) error
	CancelWarnings(sessionID string) error
}

// StatusPublisher pushes live snapshots to external displays. Fire-and-forget.
type StatusPublisher interface {
	Publish(snapshot models.SessionSnapshot)
}

// OccupancyUpdater flips the occupied flag on a spot.
type OccupancyUpdater interface {
	SetOccupied(ctx context.Context, spotID string, occupied bool) error
}

// HistoryArchiver persists finished sessions for receipts and audit.
type HistoryArchiver interface {
	Archive(ctx context.Context, session models.Session) error
}

// Deps are the collaborators every engine instance fans out to. Their
// failures are logged, never rolled back into lifecycle state.
type Deps struct {
	Geofence  GeofenceService
	Notifier  NotificationScheduler
	Publisher StatusPublisher
	Occupancy OccupancyUpdater
	Archiver  HistoryArchiver
	Logger    *zap.Logger
}

// Options override the clock, tick interval and random source, mainly for tests.
type Options struct {
	Now          func() time.Time
	TickInterval time.Duration
	Rand         io.Reader
}

const defaultTickInterval = 30 * time.Second

var idGenerator = generateID

// Engine owns the booking-session state machine for a single user. All
// mutations run under one mutex: timer ticks, geofence events and lifecycle
// calls are serialized against each other.
type Engine struct {
	mu     sync.Mutex
	userID int64
	store  *store.SessionStore
	spot   *models.Spot

	geofence  GeofenceService
	notifier  NotificationScheduler
	publisher StatusPublisher
	occupancy OccupancyUpdater
	archiver  HistoryArchiver
	logger    *zap.Logger

	now          func() time.Time
	tickInterval time.Duration
	rand         io.Reader

	tickStop chan struct{}
}

// NewEngine builds an engine with its own empty session store.
func NewEngine(userID int64, deps Deps, opts Options) *Engine {
	e := &Engine{
		userID:       userID,
		store:        store.NewSessionStore(),
		geofence:     deps.Geofence,
		notifier:     deps.Notifier,
		publisher:    deps.Publisher,
		occupancy:    deps.Occupancy,
		archiver:     deps.Archiver,
		logger:       deps.Logger,
		now:          opts.Now,
		tickInterval: opts.TickInterval,
		rand:         opts.Rand,
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}
	if e.now == nil {
		e.now = func() time.Time { return time.Now().UTC() }
	}
	if e.tickInterval <= 0 {
		e.tickInterval = defaultTickInterval
	}
	if e.rand == nil {
		e.rand = rand.Reader
	}
	return e
}

// CreateBooking reserves the spot for the given duration. The session starts
// out confirmed; timers do not run until StartSession. A second booking while
// one is in progress fails with ErrSessionConflict (reject, never replace).
func (e *Engine) CreateBooking(ctx context.Context, spot models.Spot, duration time.Duration, totalCost models.Amount) (*models.Session, error) {
	if duration <= 0 {
		return nil, ErrInvalidDuration
	}
	if totalCost < 0 {
		return nil, ErrInvalidCost
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	accessCode := spot.AccessPIN
	if accessCode == "" {
		code, err := e.generateAccessCode()
		if err != nil {
			return nil, err
		}
		accessCode = code
	}

	now := e.now()
	session := &models.Session{
		ID:                 idGenerator(),
		SpotID:             spot.ID,
		UserID:             e.userID,
		BookingTime:        now,
		ScheduledStartTime: now,
		ScheduledEndTime:   now.Add(duration),
		DurationHours:      duration.Hours(),
		TotalCost:          totalCost,
		Status:             models.StatusConfirmed,
		AccessCode:         accessCode,
	}

	if err := e.store.SetCurrent(session); err != nil {
		return nil, ErrSessionConflict
	}
	spotCopy := spot
	e.spot = &spotCopy

	if err := e.geofence.Monitor(ctx, spot.ID, spot.Latitude, spot.Longitude); err != nil {
		e.logger.Warn("geofence monitor registration failed",
			zap.String("spot_id", spot.ID), zap.Error(err))
	}
	if err := e.notifier.ScheduleWarnings(session.Clone()); err != nil {
		e.logger.Warn("warning scheduling failed",
			zap.String("session_id", session.ID), zap.Error(err))
	}

	e.publishLocked(now, "")

	e.logger.Info("booking created",
		zap.String("session_id", session.ID),
		zap.String("spot_id", spot.ID),
		zap.Float64("duration_hours", session.DurationHours),
	)
	return session.Clone(), nil
}

// StartSession moves the confirmed session to active, stamps the actual start
// time and begins periodic metric recalculation. Starting twice returns
// ErrAlreadyStarted so retries surface instead of passing silently.
func (e *Engine) StartSession(ctx context.Context) (*models.Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cur := e.store.Current()
	if cur == nil {
		return nil, ErrNoPendingSession
	}
	switch cur.Status {
	case models.StatusActive:
		return nil, ErrAlreadyStarted
	case models.StatusConfirmed:
	default:
		return nil, ErrNoPendingSession
	}

	now := e.now()
	cur.ActualStartTime = &now
	cur.Status = models.StatusActive

	e.startTickerLocked()
	e.publishLocked(now, "")

	e.logger.Info("session started", zap.String("session_id", cur.ID))
	return cur.Clone(), nil
}

// EndSession settles the live session at the current time, commits any
// overstay fee into the total, appends the completed session to history and
// tears down timers, warnings, geofence monitoring and occupancy.
func (e *Engine) EndSession(ctx context.Context) (*models.Session, error) {
	return e.finish(ctx, models.StatusCompleted)
}

// Cancel terminates a confirmed or active session without settlement. It is
// driven by an external trigger (user or operator), reusing the same teardown
// as EndSession.
func (e *Engine) Cancel(ctx context.Context) (*models.Session, error) {
	return e.finish(ctx, models.StatusCancelled)
}

func (e *Engine) finish(ctx context.Context, terminal string) (*models.Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cur := e.store.Current()
	if cur == nil || (cur.Status != models.StatusActive && cur.Status != models.StatusConfirmed) {
		return nil, ErrNoActiveSession
	}

	e.stopTickerLocked()

	now := e.now()
	cur.ActualEndTime = &now

	if terminal == models.StatusCompleted && cur.ActualStartTime != nil {
		actualDuration := now.Sub(*cur.ActualStartTime)
		scheduledDuration := cur.ScheduledEndTime.Sub(*cur.ActualStartTime)
		if actualDuration > scheduledDuration {
			fee := pricing.OverstayFee(actualDuration - scheduledDuration)
			cur.OverstayFee = &fee
			cur.TotalCost += fee
		}
	}

	cur.Status = terminal
	e.store.ClearCurrent()
	e.store.AppendHistory(cur)

	if err := e.notifier.CancelWarnings(cur.ID); err != nil {
		e.logger.Warn("warning cancellation failed", zap.String("session_id", cur.ID), zap.Error(err))
	}
	if err := e.geofence.StopMonitoring(ctx, cur.SpotID); err != nil {
		e.logger.Warn("geofence stop failed", zap.String("spot_id", cur.SpotID), zap.Error(err))
	}
	if err := e.occupancy.SetOccupied(ctx, cur.SpotID, false); err != nil {
		e.logger.Warn("occupancy release failed", zap.String("spot_id", cur.SpotID), zap.Error(err))
	}
	if err := e.archiver.Archive(ctx, *cur.Clone()); err != nil {
		e.logger.Warn("history archive failed", zap.String("session_id", cur.ID), zap.Error(err))
	}

	e.publishSessionLocked(cur, now, "")
	e.spot = nil

	e.logger.Info("session finished",
		zap.String("session_id", cur.ID),
		zap.String("status", terminal),
		zap.Int64("total_cost", int64(cur.TotalCost)),
	)
	return cur.Clone(), nil
}

// ExtendSession pushes the scheduled end forward and charges the incremental
// tax-inclusive cost. Warnings are re-anchored to the new end time so no
// stale notification fires against the old one.
func (e *Engine) ExtendSession(ctx context.Context, additional time.Duration) (*models.Session, error) {
	if additional <= 0 {
		return nil, ErrInvalidDuration
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	cur := e.store.Current()
	if cur == nil || (cur.Status != models.StatusActive && cur.Status != models.StatusConfirmed) {
		return nil, ErrNoActiveSession
	}

	cur.ScheduledEndTime = cur.ScheduledEndTime.Add(additional)
	cur.DurationHours += additional.Hours()
	if e.spot != nil {
		cur.TotalCost += pricing.ExtensionCost(e.spot.HourlyRate, additional, pricing.TaxRateBps)
	}

	if err := e.notifier.CancelWarnings(cur.ID); err != nil {
		e.logger.Warn("warning cancellation failed", zap.String("session_id", cur.ID), zap.Error(err))
	}
	if err := e.notifier.ScheduleWarnings(cur.Clone()); err != nil {
		e.logger.Warn("warning rescheduling failed", zap.String("session_id", cur.ID), zap.Error(err))
	}

	e.publishLocked(e.now(), "")

	e.logger.Info("session extended",
		zap.String("session_id", cur.ID),
		zap.Duration("additional", additional),
	)
	return cur.Clone(), nil
}

// UpdateMetrics recomputes running cost and remaining time for the active
// session and publishes a snapshot. Safe to call unconditionally: with no
// started session it is a silent no-op.
func (e *Engine) UpdateMetrics() {
	e.mu.Lock()
	defer e.mu.Unlock()

	cur := e.store.Current()
	if cur == nil || cur.Status != models.StatusActive || cur.ActualStartTime == nil {
		return
	}
	e.publishLocked(e.now(), "")
}

// HandleGeofenceEvent consumes an entered/exited signal. Events for other
// spots are dropped. Exit while active raises a consider-ending advisory;
// auto-ending is deliberately not performed, since settlement must stay
// behind explicit user confirmation.
func (e *Engine) HandleGeofenceEvent(spotID, eventType string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cur := e.store.Current()
	if cur == nil || cur.SpotID != spotID {
		return
	}

	switch eventType {
	case GeofenceEntered:
		e.logger.Info("geofence entry detected",
			zap.String("session_id", cur.ID), zap.String("spot_id", spotID))
		e.publishLocked(e.now(), AdvisoryArrival)
	case GeofenceExited:
		if cur.Status != models.StatusActive {
			return
		}
		e.logger.Info("geofence exit detected while active",
			zap.String("session_id", cur.ID), zap.String("spot_id", spotID))
		e.publishLocked(e.now(), AdvisoryConsiderEnd)
	}
}

// CurrentSession returns a display copy of the live session.
func (e *Engine) CurrentSession() (*models.Session, bool) {
	return e.store.CurrentSnapshot()
}

// History returns finished sessions in the order they ended.
func (e *Engine) History() []models.Session {
	return e.store.History()
}

// startTickerLocked launches the metric loop. The stop channel is the
// cancellation token: closed synchronously under the engine mutex before
// settlement commits, so no tick can mutate a cleared session.
func (e *Engine) startTickerLocked() {
	if e.tickStop != nil {
		return
	}
	stop := make(chan struct{})
	e.tickStop = stop

	go func() {
		ticker := time.NewTicker(e.tickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				e.UpdateMetrics()
			}
		}
	}()
}

func (e *Engine) stopTickerLocked() {
	if e.tickStop == nil {
		return
	}
	close(e.tickStop)
	e.tickStop = nil
}

func (e *Engine) publishLocked(now time.Time, advisory string) {
	cur := e.store.Current()
	if cur == nil {
		return
	}
	e.publishSessionLocked(cur, now, advisory)
}

func (e *Engine) publishSessionLocked(cur *models.Session, now time.Time, advisory string) {
	snap := models.SessionSnapshot{
		Session:   *cur.Clone(),
		UpdatedAt: now,
		Advisory:  advisory,
	}

	if cur.ActualStartTime != nil {
		elapsed := now.Sub(*cur.ActualStartTime)
		remaining := cur.ScheduledEndTime.Sub(now)
		snap.ElapsedSeconds = int64(elapsed / time.Second)
		snap.TimeRemainingSeconds = int64(remaining / time.Second)
		if e.spot != nil {
			snap.CurrentCost = pricing.RunningCost(e.spot.HourlyRate, elapsed, pricing.TaxRateBps)
		}
		if remaining < 0 && cur.Status == models.StatusActive {
			fee := pricing.OverstayFee(-remaining)
			snap.ProvisionalOverstayFee = &fee
		}
	}

	e.publisher.Publish(snap)
}

// generateAccessCode draws a uniform 6-digit code. Codes are not globally
// unique; collision handling belongs to the spot owner's hardware, not here.
func (e *Engine) generateAccessCode() (string, error) {
	n, err := rand.Int(e.rand, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRandomSource, err)
	}
	return strconv.FormatInt(n.Int64()+100000, 10), nil
}

func generateID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return strconv.FormatInt(time.Now().UnixNano(), 10)
	}
	return hex.EncodeToString(b)
}
