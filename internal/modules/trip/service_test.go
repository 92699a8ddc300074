// README: Trip service tests driving the simulation with a fake clock.
package trip

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"teleport/internal/config"
	"teleport/internal/modules/matching"
	"teleport/internal/types"
)

const stageDelay = time.Second

var (
	sfPickup  = types.NewGeoPoint(37.7749, -122.4194, "Civic Center")
	sfDropoff = types.NewGeoPoint(37.7849, -122.4094, "Nob Hill")
	courierAt = types.Point{Lat: 37.7649, Lng: -122.4294}
)

type fakeAssigner struct {
	mu      sync.Mutex
	targets []types.Point
}

func (f *fakeAssigner) Assign(_ context.Context, target types.Point, _ []matching.Courier) matching.AssignmentResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.targets = append(f.targets, target)
	return matching.AssignmentResult{
		Courier: matching.Courier{ID: "c-1", Name: "Michael D.", Rating: 4.9, Position: courierAt, Vehicle: "Prius"},
		Score:   42,
	}
}

type fakeRecorder struct {
	mu    sync.Mutex
	calls map[types.ID]types.GeoPoint
	err   error
}

func (f *fakeRecorder) Confirm(_ context.Context, id types.ID, p types.GeoPoint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[types.ID]types.GeoPoint{}
	}
	f.calls[id] = p
	return f.err
}

type harness struct {
	svc      *Service
	store    *MemoryStore
	clock    *fakeClock
	assigner *fakeAssigner
	recorder *fakeRecorder
}

func newHarness(steps int) *harness {
	h := &harness{
		store:    NewMemoryStore(),
		clock:    newFakeClock(),
		assigner: &fakeAssigner{},
		recorder: &fakeRecorder{},
	}
	cfg := config.TripConfig{StageDelay: stageDelay, TrackSteps: steps}
	h.svc = NewService(h.store, h.assigner, h.recorder, h.clock, cfg, nil)
	return h
}

func (h *harness) book(t *testing.T) *Trip {
	t.Helper()
	tr, err := h.svc.Book(context.Background(), BookCommand{
		RiderID:  "rider-1",
		Pickup:   sfPickup,
		Dropoff:  sfDropoff,
		QuoteID:  "3",
		Provider: "Teleport Fleet",
		Category: "eco",
		Price:    12.34,
	})
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	return tr
}

func assertStatus(t *testing.T, h *harness, id types.ID, want Status) *Trip {
	t.Helper()
	got, err := h.svc.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != want {
		t.Fatalf("status = %s, want %s", got.Status, want)
	}
	return got
}

func TestService_HappyPath(t *testing.T) {
	h := newHarness(4)
	tr := h.book(t)

	if tr.Status != StatusConfirmed || tr.ID == "" {
		t.Fatalf("unexpected booked trip %+v", tr)
	}
	if tr.Fare.Amount != 1234 || tr.Fare.Currency != "USD" {
		t.Fatalf("fare = %+v", tr.Fare)
	}
	if got, ok := h.recorder.calls["rider-1"]; !ok || got.Label != "Civic Center" {
		t.Fatalf("pickup not remembered on confirm: %+v", h.recorder.calls)
	}

	h.clock.Advance(stageDelay)
	assertStatus(t, h, tr.ID, StatusPreparing)

	h.clock.Advance(stageDelay)
	got := assertStatus(t, h, tr.ID, StatusAssigned)
	if got.Courier == nil || got.Courier.ID != "c-1" || got.Courier.Score != 42 {
		t.Fatalf("courier not recorded: %+v", got.Courier)
	}
	if got.CourierPosition == nil || *got.CourierPosition != courierAt {
		t.Fatalf("courier position = %+v", got.CourierPosition)
	}
	if len(h.assigner.targets) != 1 || h.assigner.targets[0] != *sfPickup.Coords {
		t.Fatalf("assigner targets = %+v", h.assigner.targets)
	}

	h.clock.Advance(stageDelay)
	assertStatus(t, h, tr.ID, StatusEnRoute)

	h.clock.Advance(stageDelay / 2)
	got = assertStatus(t, h, tr.ID, StatusEnRoute)
	mid := Interpolate(courierAt, *sfDropoff.Coords, 2, 4)
	if got.TrackStep != 2 || math.Abs(got.CourierPosition.Lat-mid.Lat) > 1e-9 || math.Abs(got.CourierPosition.Lng-mid.Lng) > 1e-9 {
		t.Fatalf("step %d position %+v, want step 2 at %+v", got.TrackStep, got.CourierPosition, mid)
	}

	h.clock.Advance(stageDelay / 2)
	got = assertStatus(t, h, tr.ID, StatusDelivered)
	if *got.CourierPosition != *sfDropoff.Coords {
		t.Fatalf("courier should end at dropoff, got %+v", got.CourierPosition)
	}
	if h.svc.Active() != 0 {
		t.Fatalf("Active = %d after delivery", h.svc.Active())
	}

	events, err := h.svc.Events(context.Background(), tr.ID)
	if err != nil {
		t.Fatalf("Events: %v", err)
	}
	wantTriggers := []Trigger{TriggerBook, TriggerPrepare, TriggerAssign, TriggerDepart, TriggerDeliver}
	if len(events) != len(wantTriggers) {
		t.Fatalf("got %d events, want %d: %+v", len(events), len(wantTriggers), events)
	}
	for i, e := range events {
		if e.Trigger != wantTriggers[i] {
			t.Errorf("event %d trigger = %s, want %s", i, e.Trigger, wantTriggers[i])
		}
	}
}

func TestService_CancelStopsTimers(t *testing.T) {
	h := newHarness(3)
	tr := h.book(t)
	ctx := context.Background()

	h.clock.Advance(stageDelay)
	assertStatus(t, h, tr.ID, StatusPreparing)

	cancelled, err := h.svc.Cancel(ctx, tr.ID)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if cancelled.Status != StatusCancelled {
		t.Fatalf("Cancel returned status %s", cancelled.Status)
	}

	h.clock.Advance(time.Hour)
	assertStatus(t, h, tr.ID, StatusCancelled)
	if len(h.assigner.targets) != 0 {
		t.Fatal("assign stage ran after cancel")
	}
	if h.svc.Active() != 0 {
		t.Fatalf("Active = %d after cancel", h.svc.Active())
	}

	events, _ := h.svc.Events(ctx, tr.ID)
	if last := events[len(events)-1]; last.Trigger != TriggerCancel || last.FromStatus != StatusPreparing {
		t.Fatalf("last event = %+v", last)
	}
}

func TestService_CancelWhileEnRoute(t *testing.T) {
	h := newHarness(5)
	tr := h.book(t)

	h.clock.Advance(3*stageDelay + stageDelay/5)
	got := assertStatus(t, h, tr.ID, StatusEnRoute)
	if got.TrackStep != 1 {
		t.Fatalf("TrackStep = %d, want 1", got.TrackStep)
	}

	if _, err := h.svc.Cancel(context.Background(), tr.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	h.clock.Advance(time.Hour)
	got = assertStatus(t, h, tr.ID, StatusCancelled)
	if got.TrackStep != 1 {
		t.Fatalf("tracking continued after cancel: step %d", got.TrackStep)
	}
}

func TestService_CancelErrors(t *testing.T) {
	h := newHarness(1)
	ctx := context.Background()

	if _, err := h.svc.Cancel(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	tr := h.book(t)
	h.clock.Advance(10 * stageDelay)
	assertStatus(t, h, tr.ID, StatusDelivered)

	if _, err := h.svc.Cancel(ctx, tr.ID); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState for delivered trip, got %v", err)
	}
}

// flakyStore rejects the first n status updates as version conflicts.
type flakyStore struct {
	*MemoryStore
	mu        sync.Mutex
	conflicts int
}

func (f *flakyStore) UpdateStatus(ctx context.Context, id types.ID, tr Transition) (bool, error) {
	f.mu.Lock()
	if f.conflicts > 0 {
		f.conflicts--
		f.mu.Unlock()
		return false, nil
	}
	f.mu.Unlock()
	return f.MemoryStore.UpdateStatus(ctx, id, tr)
}

func TestService_CancelRetriesConflicts(t *testing.T) {
	tests := []struct {
		name      string
		conflicts int
		wantErr   error
	}{
		{"single conflict", 1, nil},
		{"persistent conflict", maxConflictRetries, ErrConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &flakyStore{MemoryStore: NewMemoryStore()}
			svc := NewService(store, &fakeAssigner{}, nil, newFakeClock(), config.TripConfig{StageDelay: stageDelay, TrackSteps: 1}, nil)
			ctx := context.Background()

			tr, err := svc.Book(ctx, BookCommand{Pickup: sfPickup, Dropoff: sfDropoff})
			if err != nil {
				t.Fatalf("Book: %v", err)
			}
			store.mu.Lock()
			store.conflicts = tt.conflicts
			store.mu.Unlock()

			_, err = svc.Cancel(ctx, tr.ID)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Cancel error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestService_BookValidation(t *testing.T) {
	h := newHarness(1)
	cases := []struct {
		name string
		cmd  BookCommand
	}{
		{"missing pickup", BookCommand{Dropoff: sfDropoff}},
		{"blank dropoff label", BookCommand{Pickup: sfPickup, Dropoff: types.GeoPoint{Label: "  "}}},
		{"negative price", BookCommand{Pickup: sfPickup, Dropoff: sfDropoff, Price: -1}},
		{"nan price", BookCommand{Pickup: sfPickup, Dropoff: sfDropoff, Price: math.NaN()}},
		{"price above ceiling", BookCommand{Pickup: sfPickup, Dropoff: sfDropoff, Price: MaxPrice + 0.01}},
		{"huge price", BookCommand{Pickup: sfPickup, Dropoff: sfDropoff, Price: 1e300}},
		{"infinite price", BookCommand{Pickup: sfPickup, Dropoff: sfDropoff, Price: math.Inf(1)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := h.svc.Book(context.Background(), tc.cmd); !errors.Is(err, ErrBadRequest) {
				t.Fatalf("expected ErrBadRequest, got %v", err)
			}
		})
	}
	if h.svc.Active() != 0 {
		t.Fatal("rejected bookings must not start a simulation")
	}
}

func TestService_LabelOnlyTrip(t *testing.T) {
	h := newHarness(2)
	tr, err := h.svc.Book(context.Background(), BookCommand{
		Pickup:  types.GeoPoint{Label: "Ferry Building"},
		Dropoff: types.GeoPoint{Label: "Pier 39"},
	})
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	h.clock.Advance(10 * stageDelay)
	got := assertStatus(t, h, tr.ID, StatusDelivered)
	if got.CourierPosition == nil || *got.CourierPosition != courierAt {
		t.Fatalf("without coordinates the courier should stay put, got %+v", got.CourierPosition)
	}
}

func TestService_LocationFailureDoesNotBlockBooking(t *testing.T) {
	h := newHarness(1)
	h.recorder.err = errors.New("redis down")
	h.book(t)
	if h.svc.Active() != 1 {
		t.Fatalf("Active = %d, want 1", h.svc.Active())
	}
}

func TestService_Shutdown(t *testing.T) {
	h := newHarness(2)
	a := h.book(t)
	b := h.book(t)

	h.svc.Shutdown()
	h.clock.Advance(time.Hour)
	assertStatus(t, h, a.ID, StatusConfirmed)
	assertStatus(t, h, b.ID, StatusConfirmed)

	c := h.book(t)
	h.clock.Advance(time.Hour)
	assertStatus(t, h, c.ID, StatusConfirmed)
	if h.svc.Active() != 0 {
		t.Fatalf("Active = %d after shutdown", h.svc.Active())
	}
}

func TestService_RealClock(t *testing.T) {
	store := NewMemoryStore()
	cfg := config.TripConfig{StageDelay: 5 * time.Millisecond, TrackSteps: 2}
	svc := NewService(store, &fakeAssigner{}, nil, RealClock{}, cfg, nil)
	defer svc.Shutdown()

	tr, err := svc.Book(context.Background(), BookCommand{Pickup: sfPickup, Dropoff: sfDropoff})
	if err != nil {
		t.Fatalf("Book: %v", err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		got, err := svc.Get(context.Background(), tr.ID)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got.Status == StatusDelivered {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("trip was not delivered in time")
}
