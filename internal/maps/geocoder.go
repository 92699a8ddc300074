// README: Geocoder fills in coordinates for label-only places via Google Geocoding.
package maps

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
	"googlemaps.github.io/maps"

	"teleport/internal/types"
)

// geocodeClient is the subset of *maps.Client used here.
type geocodeClient interface {
	Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
}

const (
	defaultCacheSize = 4096
	defaultCacheTTL  = 6 * time.Hour
)

// Geocoder resolves labels and remembers the answer, including misses, in a
// bounded cache whose entries expire.
type Geocoder struct {
	client geocodeClient
	region string
	log    *zap.Logger
	cache  *expirable.LRU[string, *types.Point]
}

// NewGeocoder creates a Geocoder with the given API key.
func NewGeocoder(apiKey, region string, log *zap.Logger) (*Geocoder, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return newGeocoder(client, region, defaultCacheSize, defaultCacheTTL, log), nil
}

func newGeocoder(client geocodeClient, region string, cacheSize int, cacheTTL time.Duration, log *zap.Logger) *Geocoder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Geocoder{
		client: client,
		region: region,
		log:    log,
		cache:  expirable.NewLRU[string, *types.Point](cacheSize, nil, cacheTTL),
	}
}

// Resolve returns p with coordinates filled in when its label can be
// geocoded. Failures leave p unchanged; pricing then uses its fallback
// distance.
func (g *Geocoder) Resolve(ctx context.Context, p types.GeoPoint) types.GeoPoint {
	label := strings.TrimSpace(p.Label)
	if p.HasCoords() || label == "" {
		return p
	}
	key := strings.ToLower(label)

	if cached, ok := g.cache.Get(key); ok {
		return withCoords(p, cached)
	}

	results, err := g.client.Geocode(ctx, &maps.GeocodingRequest{Address: label, Region: g.region})
	if err != nil {
		// not cached: transient errors get another chance next time
		g.log.Warn("geocode failed", zap.String("label", label), zap.Error(err))
		return p
	}
	var pt *types.Point
	if len(results) > 0 {
		loc := results[0].Geometry.Location
		pt = &types.Point{Lat: loc.Lat, Lng: loc.Lng}
	}

	g.cache.Add(key, pt)
	return withCoords(p, pt)
}

func withCoords(p types.GeoPoint, pt *types.Point) types.GeoPoint {
	if pt == nil {
		return p
	}
	c := *pt
	p.Coords = &c
	return p
}

// Passthrough is the resolver used when no Maps key is configured.
type Passthrough struct{}

func (Passthrough) Resolve(_ context.Context, p types.GeoPoint) types.GeoPoint { return p }
