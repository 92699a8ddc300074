// README: Matching service keeps the courier index fresh and assigns couriers to pickups.
package matching

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"teleport/internal/config"
	"teleport/internal/types"
)

var ErrInvalidCourier = errors.New("invalid courier")

// Pool is the shared courier pool (Redis in production).
type Pool interface {
	Upsert(ctx context.Context, c Courier) error
	Remove(ctx context.Context, id types.ID) error
	All(ctx context.Context) ([]Courier, error)
}

// nearbyPool is implemented by pools that can answer radius queries
// themselves (Redis GEOSEARCH).
type nearbyPool interface {
	Nearby(ctx context.Context, p types.Point, radiusKm float64) ([]Courier, error)
}

type Service struct {
	pool  Pool
	index *Index
	cfg   config.MatchingConfig
	log   *zap.Logger
}

// NewService seeds the index with DefaultCouriers. pool may be nil, in which
// case location updates only reach the in-memory index.
func NewService(pool Pool, cfg config.MatchingConfig, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{pool: pool, index: NewIndex(DefaultCouriers), cfg: cfg, log: log}
}

// UpdateCourier records a courier's latest position and profile.
func (s *Service) UpdateCourier(ctx context.Context, c Courier) error {
	if c.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidCourier)
	}
	if c.Rating < 0 || c.Rating > 5 || c.Load < 0 {
		return fmt.Errorf("%w: rating %.2f load %d", ErrInvalidCourier, c.Rating, c.Load)
	}
	if s.pool != nil {
		if err := s.pool.Upsert(ctx, c); err != nil {
			return fmt.Errorf("upsert courier %s: %w", c.ID, err)
		}
	}
	s.index.Upsert(c)
	return nil
}

// RemoveCourier takes a courier out of the pool, e.g. when they go offline.
func (s *Service) RemoveCourier(ctx context.Context, id types.ID) error {
	if id == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidCourier)
	}
	if s.pool != nil {
		if err := s.pool.Remove(ctx, id); err != nil {
			return fmt.Errorf("remove courier %s: %w", id, err)
		}
	}
	s.index.Remove(id)
	return nil
}

// Nearby lists couriers within radius_km of p, nearest first. The shared
// pool is asked directly when it supports radius queries; the index answers
// otherwise or when that query fails.
func (s *Service) Nearby(ctx context.Context, p types.Point) []Courier {
	var out []Courier
	answered := false
	if np, ok := s.pool.(nearbyPool); ok {
		couriers, err := np.Nearby(ctx, p, s.cfg.RadiusKm)
		if err == nil {
			out, answered = couriers, true
		} else {
			s.log.Warn("pool nearby query failed, using index", zap.Error(err))
		}
	}
	if !answered {
		out = s.index.Within(p, s.cfg.RadiusKm)
	}
	if out == nil {
		out = []Courier{}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return ApproxKm(out[a].Position, p) < ApproxKm(out[b].Position, p)
	})
	return out
}

// Assign picks a courier for target. A non-empty explicit pool is scored as
// given; otherwise candidates come from the index window of radius_km.
func (s *Service) Assign(_ context.Context, target types.Point, explicit []Courier) AssignmentResult {
	candidates := explicit
	source := "explicit"
	if len(candidates) == 0 {
		candidates = s.index.Within(target, s.cfg.RadiusKm)
		source = "index"
	}
	res := Assign(target, candidates)
	s.log.Info("courier assigned",
		zap.String("courier_id", string(res.Courier.ID)),
		zap.Float64("score", res.Score),
		zap.Bool("fallback", res.Fallback),
		zap.String("source", source),
		zap.Int("candidates", len(candidates)),
	)
	return res
}

// Refresh rebuilds the index from the shared pool.
func (s *Service) Refresh(ctx context.Context) error {
	if s.pool == nil {
		return nil
	}
	couriers, err := s.pool.All(ctx)
	if err != nil {
		return fmt.Errorf("load courier pool: %w", err)
	}
	if len(couriers) == 0 {
		couriers = DefaultCouriers
	}
	s.index.Replace(couriers)
	return nil
}

// RunPoolRefresh refreshes the index every tick_seconds until ctx is done.
func (s *Service) RunPoolRefresh(ctx context.Context) {
	tick := time.Duration(s.cfg.TickSeconds) * time.Second
	if tick <= 0 {
		tick = time.Second
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Refresh(ctx); err != nil {
				s.log.Warn("courier pool refresh failed", zap.Error(err))
			}
		}
	}
}
