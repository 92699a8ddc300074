// README: Courier pool store backed by Redis GEO (positions) and a hash (profiles).
package matching

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"teleport/internal/types"
)

const (
	courierGeoKey     = "matching:couriers"
	courierProfileKey = "matching:courier_profiles"
)

var _ Pool = (*Store)(nil)

type Store struct {
	redis *redis.Client
}

func NewStore(redis *redis.Client) *Store {
	return &Store{redis: redis}
}

// Upsert writes the courier position and profile in one pipeline.
func (s *Store) Upsert(ctx context.Context, c Courier) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode courier %s: %w", c.ID, err)
	}
	pipe := s.redis.TxPipeline()
	pipe.GeoAdd(ctx, courierGeoKey, &redis.GeoLocation{
		Name:      string(c.ID),
		Longitude: c.Position.Lng,
		Latitude:  c.Position.Lat,
	})
	pipe.HSet(ctx, courierProfileKey, string(c.ID), raw)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Store) Remove(ctx context.Context, id types.ID) error {
	pipe := s.redis.TxPipeline()
	pipe.ZRem(ctx, courierGeoKey, string(id))
	pipe.HDel(ctx, courierProfileKey, string(id))
	_, err := pipe.Exec(ctx)
	return err
}

// Nearby returns couriers within radiusKm of p, nearest first.
func (s *Store) Nearby(ctx context.Context, p types.Point, radiusKm float64) ([]Courier, error) {
	ids, err := s.redis.GeoSearch(ctx, courierGeoKey, &redis.GeoSearchQuery{
		Longitude:  p.Lng,
		Latitude:   p.Lat,
		Radius:     radiusKm,
		RadiusUnit: "km",
		Sort:       "ASC",
	}).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []Courier{}, nil
	}
	vals, err := s.redis.HMGet(ctx, courierProfileKey, ids...).Result()
	if err != nil {
		return nil, err
	}
	out := make([]Courier, 0, len(vals))
	for _, v := range vals {
		raw, ok := v.(string)
		if !ok {
			continue // position without profile
		}
		c, err := decodeCourier(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// All returns every courier in the pool.
func (s *Store) All(ctx context.Context) ([]Courier, error) {
	vals, err := s.redis.HGetAll(ctx, courierProfileKey).Result()
	if err != nil {
		return nil, err
	}
	out := make([]Courier, 0, len(vals))
	for _, raw := range vals {
		c, err := decodeCourier(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func decodeCourier(raw string) (Courier, error) {
	var c Courier
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return Courier{}, fmt.Errorf("decode courier: %w", err)
	}
	return c, nil
}
