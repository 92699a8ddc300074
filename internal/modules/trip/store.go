// README: Trip store backed by PostgreSQL (trips + trip_events).
package trip

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"teleport/internal/types"
)

type PGStore struct {
	db *pgxpool.Pool
}

func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) Create(ctx context.Context, t *Trip) error {
	pLat, pLng := coords(t.Pickup)
	dLat, dLng := coords(t.Dropoff)
	_, err := s.db.Exec(ctx, `
		INSERT INTO trips (
			id, rider_id, status, status_version,
			pickup_label, pickup_lat, pickup_lng,
			dropoff_label, dropoff_lat, dropoff_lng,
			quote_id, provider, category, fare_amount, fare_currency,
			track_step, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7,
			$8, $9, $10,
			$11, $12, $13, $14, $15,
			$16, $17, $18
		)`,
		string(t.ID), string(t.RiderID), string(t.Status), t.StatusVersion,
		t.Pickup.Label, pLat, pLng,
		t.Dropoff.Label, dLat, dLng,
		t.QuoteID, t.Provider, t.Category, t.Fare.Amount, t.Fare.Currency,
		t.TrackStep, t.CreatedAt, t.UpdatedAt,
	)
	return err
}

func (s *PGStore) Get(ctx context.Context, id types.ID) (*Trip, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, rider_id, status, status_version,
		       pickup_label, pickup_lat, pickup_lng,
		       dropoff_label, dropoff_lat, dropoff_lng,
		       quote_id, provider, category, fare_amount, fare_currency,
		       courier_id, courier_name, courier_vehicle, courier_score, courier_fallback,
		       courier_lat, courier_lng, track_step, created_at, updated_at
		FROM trips
		WHERE id = $1`, string(id),
	)

	var t Trip
	var pLat, pLng, dLat, dLng, cLat, cLng, cScore *float64
	var cID, cName, cVehicle *string
	var cFallback *bool

	err := row.Scan(
		&t.ID, &t.RiderID, &t.Status, &t.StatusVersion,
		&t.Pickup.Label, &pLat, &pLng,
		&t.Dropoff.Label, &dLat, &dLng,
		&t.QuoteID, &t.Provider, &t.Category, &t.Fare.Amount, &t.Fare.Currency,
		&cID, &cName, &cVehicle, &cScore, &cFallback,
		&cLat, &cLng, &t.TrackStep, &t.CreatedAt, &t.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	t.Pickup.Coords = toPoint(pLat, pLng)
	t.Dropoff.Coords = toPoint(dLat, dLng)
	t.CourierPosition = toPoint(cLat, cLng)
	if cID != nil {
		c := CourierInfo{ID: types.ID(*cID)}
		if cName != nil {
			c.Name = *cName
		}
		if cVehicle != nil {
			c.Vehicle = *cVehicle
		}
		if cScore != nil {
			c.Score = *cScore
		}
		if cFallback != nil {
			c.Fallback = *cFallback
		}
		t.Courier = &c
	}
	return &t, nil
}

func (s *PGStore) UpdateStatus(ctx context.Context, id types.ID, tr Transition) (bool, error) {
	var cID, cName, cVehicle *string
	var cScore *float64
	var cFallback *bool
	if tr.Courier != nil {
		v := string(tr.Courier.ID)
		cID, cName, cVehicle = &v, &tr.Courier.Name, &tr.Courier.Vehicle
		cScore, cFallback = &tr.Courier.Score, &tr.Courier.Fallback
	}
	var cLat, cLng *float64
	if tr.Position != nil {
		cLat, cLng = &tr.Position.Lat, &tr.Position.Lng
	}

	tag, err := s.db.Exec(ctx, `
		UPDATE trips
		SET status = $1,
		    status_version = status_version + 1,
		    courier_id = COALESCE($2, courier_id),
		    courier_name = COALESCE($3, courier_name),
		    courier_vehicle = COALESCE($4, courier_vehicle),
		    courier_score = COALESCE($5, courier_score),
		    courier_fallback = COALESCE($6, courier_fallback),
		    courier_lat = COALESCE($7, courier_lat),
		    courier_lng = COALESCE($8, courier_lng),
		    updated_at = $9
		WHERE id = $10 AND status = $11 AND status_version = $12`,
		string(tr.To),
		cID, cName, cVehicle, cScore, cFallback,
		cLat, cLng,
		tr.At,
		string(id), string(tr.From), tr.Version,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// UpdateTracking moves the courier of an en-route trip. It reports false when
// the trip is no longer en route.
func (s *PGStore) UpdateTracking(ctx context.Context, id types.ID, pos types.Point, step int, at time.Time) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE trips
		SET courier_lat = $1, courier_lng = $2, track_step = $3, updated_at = $4
		WHERE id = $5 AND status = 'en_route'`,
		pos.Lat, pos.Lng, step, at, string(id),
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *PGStore) AppendEvent(ctx context.Context, e *Event) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO trip_events (trip_id, from_status, to_status, trigger_name, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		string(e.TripID), string(e.FromStatus), string(e.ToStatus), string(e.Trigger), e.CreatedAt,
	)
	return err
}

func (s *PGStore) ListEvents(ctx context.Context, id types.ID) ([]Event, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, trip_id, from_status, to_status, trigger_name, created_at
		FROM trip_events
		WHERE trip_id = $1
		ORDER BY id`, string(id))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.TripID, &e.FromStatus, &e.ToStatus, &e.Trigger, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func coords(g types.GeoPoint) (*float64, *float64) {
	if !g.HasCoords() {
		return nil, nil
	}
	return &g.Coords.Lat, &g.Coords.Lng
}

func toPoint(lat, lng *float64) *types.Point {
	if lat == nil || lng == nil {
		return nil
	}
	return &types.Point{Lat: *lat, Lng: *lng}
}
