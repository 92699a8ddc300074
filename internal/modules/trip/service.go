// README: Trip service books trips and drives the staged delivery simulation.
package trip

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"teleport/internal/config"
	"teleport/internal/modules/matching"
	"teleport/internal/types"
)

var (
	ErrInvalidState = errors.New("invalid state transition")
	ErrNotFound     = errors.New("trip not found")
	ErrConflict     = errors.New("trip state conflict")
	ErrBadRequest   = errors.New("bad request")
)

const (
	defaultCurrency    = "USD"
	maxConflictRetries = 3

	// MaxPrice bounds a booked fare so it always fits in cents.
	MaxPrice = 1_000_000
)

// Assigner picks a courier for a pickup point.
type Assigner interface {
	Assign(ctx context.Context, target types.Point, pool []matching.Courier) matching.AssignmentResult
}

// LocationRecorder receives the rider's pickup once a booking is confirmed.
type LocationRecorder interface {
	Confirm(ctx context.Context, id types.ID, p types.GeoPoint) error
}

type Store interface {
	Create(ctx context.Context, t *Trip) error
	Get(ctx context.Context, id types.ID) (*Trip, error)
	UpdateStatus(ctx context.Context, id types.ID, tr Transition) (bool, error)
	UpdateTracking(ctx context.Context, id types.ID, pos types.Point, step int, at time.Time) (bool, error)
	AppendEvent(ctx context.Context, e *Event) error
	ListEvents(ctx context.Context, id types.ID) ([]Event, error)
}

type BookCommand struct {
	RiderID  types.ID
	Pickup   types.GeoPoint
	Dropoff  types.GeoPoint
	QuoteID  string
	Provider string
	Category string
	Price    float64
	Currency string
}

func (c BookCommand) validate() error {
	if !c.Pickup.HasCoords() && strings.TrimSpace(c.Pickup.Label) == "" {
		return fmt.Errorf("%w: pickup is required", ErrBadRequest)
	}
	if !c.Dropoff.HasCoords() && strings.TrimSpace(c.Dropoff.Label) == "" {
		return fmt.Errorf("%w: dropoff is required", ErrBadRequest)
	}
	if math.IsNaN(c.Price) || c.Price < 0 {
		return fmt.Errorf("%w: price must be non-negative", ErrBadRequest)
	}
	if c.Price > MaxPrice {
		return fmt.Errorf("%w: price above %.0f", ErrBadRequest, float64(MaxPrice))
	}
	return nil
}

// run is the simulation state of one active trip.
type run struct {
	sched  *Scheduler
	origin types.Point
	dest   types.Point
}

type Service struct {
	store     Store
	assigner  Assigner
	locations LocationRecorder
	clock     Clock
	cfg       config.TripConfig
	log       *zap.Logger

	mu     sync.Mutex
	closed bool
	runs   map[types.ID]*run
}

// NewService wires the trip service. locations may be nil; clock defaults to
// the wall clock.
func NewService(store Store, assigner Assigner, locations LocationRecorder, clock Clock, cfg config.TripConfig, log *zap.Logger) *Service {
	if clock == nil {
		clock = RealClock{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.TrackSteps <= 0 {
		cfg.TrackSteps = 1
	}
	return &Service{
		store:     store,
		assigner:  assigner,
		locations: locations,
		clock:     clock,
		cfg:       cfg,
		log:       log,
		runs:      make(map[types.ID]*run),
	}
}

// Book persists a confirmed trip, records the rider's pickup and starts the
// staged simulation.
func (s *Service) Book(ctx context.Context, cmd BookCommand) (*Trip, error) {
	if err := cmd.validate(); err != nil {
		return nil, err
	}
	currency := cmd.Currency
	if currency == "" {
		currency = defaultCurrency
	}
	now := s.clock.Now()
	t := &Trip{
		ID:        types.ID(uuid.NewString()),
		RiderID:   cmd.RiderID,
		Status:    StatusConfirmed,
		Pickup:    cmd.Pickup,
		Dropoff:   cmd.Dropoff,
		QuoteID:   cmd.QuoteID,
		Provider:  cmd.Provider,
		Category:  cmd.Category,
		Fare:      types.FromDollars(cmd.Price, currency),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("create trip: %w", err)
	}
	s.appendEvent(ctx, t.ID, StatusNone, StatusConfirmed, TriggerBook)

	if s.locations != nil {
		if err := s.locations.Confirm(ctx, cmd.RiderID, cmd.Pickup); err != nil {
			s.log.Warn("remember pickup failed", zap.String("rider_id", string(cmd.RiderID)), zap.Error(err))
		}
	}

	s.start(t.ID)
	s.log.Info("trip booked", zap.String("trip_id", string(t.ID)), zap.String("provider", t.Provider))
	return t, nil
}

// Cancel moves a non-terminal trip to cancelled and stops its timers.
func (s *Service) Cancel(ctx context.Context, id types.ID) (*Trip, error) {
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		t, err := s.advance(ctx, id, TriggerCancel)
		if errors.Is(err, ErrConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		s.release(id)
		s.log.Info("trip cancelled", zap.String("trip_id", string(id)))
		return t, nil
	}
	return nil, ErrConflict
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Trip, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) Events(ctx context.Context, id types.ID) ([]Event, error) {
	if _, err := s.store.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.store.ListEvents(ctx, id)
}

// Active reports how many trips still have a running simulation.
func (s *Service) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.runs)
}

// Shutdown stops every simulation. Trips booked afterwards are persisted but
// not simulated.
func (s *Service) Shutdown() {
	s.mu.Lock()
	runs := s.runs
	s.runs = make(map[types.ID]*run)
	s.closed = true
	s.mu.Unlock()

	for _, r := range runs {
		r.sched.Stop()
	}
}

func (s *Service) start(id types.ID) {
	r := &run{sched: NewScheduler(s.clock)}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.runs[id] = r
	s.mu.Unlock()

	s.scheduleStage(id, r, TriggerPrepare)
}

func (s *Service) lookup(id types.ID) *run {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs[id]
}

func (s *Service) release(id types.ID) {
	s.mu.Lock()
	r := s.runs[id]
	delete(s.runs, id)
	s.mu.Unlock()
	if r != nil {
		r.sched.Stop()
	}
}

func (s *Service) scheduleStage(id types.ID, r *run, trig Trigger) {
	r.sched.Schedule(s.cfg.StageDelay, func() { s.fire(id, trig) })
}

// fire applies a simulation trigger and schedules whatever comes next.
func (s *Service) fire(id types.ID, trig Trigger) {
	r := s.lookup(id)
	if r == nil {
		return
	}
	t, err := s.advance(context.Background(), id, trig)
	if err != nil {
		s.log.Warn("trip stage aborted",
			zap.String("trip_id", string(id)),
			zap.String("trigger", string(trig)),
			zap.Error(err),
		)
		s.release(id)
		return
	}

	switch t.Status {
	case StatusEnRoute:
		s.startTracking(id, r, t)
	case StatusDelivered:
		s.release(id)
	default:
		if next, ok := nextStage[t.Status]; ok {
			s.scheduleStage(id, r, next)
		}
	}
}

func (s *Service) startTracking(id types.ID, r *run, t *Trip) {
	r.origin = assignTarget(t)
	if t.CourierPosition != nil {
		r.origin = *t.CourierPosition
	}
	r.dest = r.origin
	switch {
	case t.Dropoff.HasCoords():
		r.dest = *t.Dropoff.Coords
	case t.Pickup.HasCoords():
		r.dest = *t.Pickup.Coords
	}
	s.scheduleTrack(id, r, 1)
}

func (s *Service) scheduleTrack(id types.ID, r *run, step int) {
	interval := s.cfg.StageDelay / time.Duration(s.cfg.TrackSteps)
	r.sched.Schedule(interval, func() { s.track(id, r, step) })
}

func (s *Service) track(id types.ID, r *run, step int) {
	pos := Interpolate(r.origin, r.dest, step, s.cfg.TrackSteps)
	ok, err := s.store.UpdateTracking(context.Background(), id, pos, step, s.clock.Now())
	if err != nil || !ok {
		if err != nil {
			s.log.Warn("trip tracking update failed", zap.String("trip_id", string(id)), zap.Error(err))
		}
		s.release(id)
		return
	}
	if step < s.cfg.TrackSteps {
		s.scheduleTrack(id, r, step+1)
		return
	}
	s.fire(id, TriggerDeliver)
}

// advance applies one trigger with an optimistic version check.
func (s *Service) advance(ctx context.Context, id types.ID, trig Trigger) (*Trip, error) {
	t, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	to, ok := Next(t.Status, trig)
	if !ok {
		return nil, fmt.Errorf("%w: %s from %s", ErrInvalidState, trig, t.Status)
	}

	tr := Transition{From: t.Status, To: to, Version: t.StatusVersion, At: s.clock.Now()}
	if trig == TriggerAssign {
		res := s.assigner.Assign(ctx, assignTarget(t), nil)
		tr.Courier = &CourierInfo{
			ID:       res.Courier.ID,
			Name:     res.Courier.Name,
			Vehicle:  res.Courier.Vehicle,
			Score:    res.Score,
			Fallback: res.Fallback,
		}
		pos := res.Courier.Position
		tr.Position = &pos
	}

	updated, err := s.store.UpdateStatus(ctx, id, tr)
	if err != nil {
		return nil, fmt.Errorf("update trip %s: %w", id, err)
	}
	if !updated {
		return nil, ErrConflict
	}
	s.appendEvent(ctx, id, tr.From, tr.To, trig)

	t.Status = to
	t.StatusVersion++
	t.UpdatedAt = tr.At
	if tr.Courier != nil {
		t.Courier = tr.Courier
	}
	if tr.Position != nil {
		t.CourierPosition = tr.Position
	}
	return t, nil
}

func (s *Service) appendEvent(ctx context.Context, id types.ID, from, to Status, trig Trigger) {
	err := s.store.AppendEvent(ctx, &Event{
		TripID:     id,
		FromStatus: from,
		ToStatus:   to,
		Trigger:    trig,
		CreatedAt:  s.clock.Now(),
	})
	if err != nil {
		s.log.Warn("append trip event failed", zap.String("trip_id", string(id)), zap.Error(err))
	}
}

// assignTarget is the point couriers are scored against.
func assignTarget(t *Trip) types.Point {
	switch {
	case t.Pickup.HasCoords():
		return *t.Pickup.Coords
	case t.Dropoff.HasCoords():
		return *t.Dropoff.Coords
	}
	return types.Point{}
}
