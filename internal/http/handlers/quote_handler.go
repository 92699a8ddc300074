// README: Quote handlers: priced and ranked quotes for a trip request, promo lookup.
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"teleport/internal/modules/location"
	"teleport/internal/modules/pricing"
	"teleport/internal/types"
)

type QuoteHandler struct {
	pricing   *pricing.Service
	geocoder  Resolver
	locations *location.Cache
	preferred pricing.Provider
}

func NewQuoteHandler(svc *pricing.Service, geocoder Resolver, locations *location.Cache, preferred pricing.Provider) *QuoteHandler {
	return &QuoteHandler{pricing: svc, geocoder: geocoder, locations: locations, preferred: preferred}
}

type quoteReq struct {
	UserID            string        `json:"user_id"`
	Pickup            *geoPointReq  `json:"pickup"`
	Dropoff           *geoPointReq  `json:"dropoff" binding:"required"`
	Stops             []geoPointReq `json:"stops" binding:"max=3,dive"`
	Shared            bool          `json:"shared"`
	FlexibleDelivery  bool          `json:"flexible_delivery"`
	Service           string        `json:"service" binding:"omitempty,oneof=ride delivery business"`
	PromoCode         string        `json:"promo_code"`
	Discount          float64       `json:"discount" binding:"gte=0,lte=1"`
	TrafficSurge      float64       `json:"traffic_surge" binding:"gte=0"`
	PreferredProvider string        `json:"preferred_provider"`
	Premium           bool          `json:"premium"`
	Filter            string        `json:"filter" binding:"omitempty,category"`
	SortBy            string        `json:"sort_by" binding:"omitempty,sortkey"`
}

type quoteResp struct {
	Pickup     types.GeoPoint  `json:"pickup"`
	Dropoff    types.GeoPoint  `json:"dropoff"`
	DistanceKm float64         `json:"distance_km"`
	Promo      pricing.Promo   `json:"promo"`
	Quotes     []pricing.Quote `json:"quotes"`
}

// Create handles POST /api/quotes.
func (h *QuoteHandler) Create(c *gin.Context) {
	var req quoteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	ctx := c.Request.Context()

	pickup := req.Pickup.toGeoPoint()
	if req.Pickup.empty() {
		// new search session: start from the last confirmed pickup
		last, ok := h.lastKnown(c, req.UserID)
		if !ok {
			return
		}
		pickup = last
	}
	if req.Dropoff.empty() {
		writeError(c, http.StatusBadRequest, "dropoff is required")
		return
	}

	pickup = h.geocoder.Resolve(ctx, pickup)
	dropoff := h.geocoder.Resolve(ctx, req.Dropoff.toGeoPoint())
	stops := make([]types.GeoPoint, 0, len(req.Stops))
	for i := range req.Stops {
		if req.Stops[i].empty() {
			continue
		}
		stops = append(stops, h.geocoder.Resolve(ctx, req.Stops[i].toGeoPoint()))
	}

	promo := pricing.ResolvePromo(req.PromoCode)
	discount := req.Discount
	if promo.Status == pricing.PromoApplied {
		discount = promo.Discount
	}

	preferred := h.preferred
	if p := strings.TrimSpace(req.PreferredProvider); p != "" {
		preferred = pricing.Provider(p)
	}
	sortBy := pricing.SortKey(req.SortBy)
	if sortBy == "" {
		sortBy = pricing.SortByPrice
	}

	quotes := h.pricing.Quotes(ctx, pricing.TripRequest{
		Pickup:            pickup,
		Dropoff:           dropoff,
		Stops:             stops,
		Shared:            req.Shared,
		FlexibleDelivery:  req.FlexibleDelivery,
		Service:           pricing.ServiceType(req.Service),
		DiscountFraction:  discount,
		TrafficSurge:      req.TrafficSurge,
		PreferredProvider: preferred,
		Premium:           req.Premium,
		Filter:            pricing.Category(req.Filter),
		SortBy:            sortBy,
	})

	writeJSON(c, http.StatusOK, quoteResp{
		Pickup:     pickup,
		Dropoff:    dropoff,
		DistanceKm: location.TripDistanceKm(pickup, dropoff),
		Promo:      promo,
		Quotes:     quotes,
	})
}

func (h *QuoteHandler) lastKnown(c *gin.Context, userID string) (types.GeoPoint, bool) {
	userID = strings.TrimSpace(userID)
	if userID == "" || h.locations == nil {
		writeError(c, http.StatusBadRequest, "pickup is required")
		return types.GeoPoint{}, false
	}
	if !isValidID(userID) {
		writeError(c, http.StatusBadRequest, "invalid user_id")
		return types.GeoPoint{}, false
	}
	e, err := h.locations.Load(c.Request.Context(), types.ID(userID))
	switch {
	case errors.Is(err, location.ErrNotFound):
		writeError(c, http.StatusBadRequest, "pickup is required")
		return types.GeoPoint{}, false
	case err != nil:
		writeError(c, http.StatusInternalServerError, "internal error")
		return types.GeoPoint{}, false
	}
	return e.Point, true
}

// Promo handles GET /api/promos/:code. Unknown codes are a valid answer.
func (h *QuoteHandler) Promo(c *gin.Context) {
	writeJSON(c, http.StatusOK, pricing.ResolvePromo(c.Param("code")))
}
