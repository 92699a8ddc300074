// README: Trip handlers: book, inspect and cancel trips.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"teleport/internal/modules/trip"
	"teleport/internal/types"
)

type TripHandler struct {
	trips    *trip.Service
	geocoder Resolver
}

func NewTripHandler(svc *trip.Service, geocoder Resolver) *TripHandler {
	return &TripHandler{trips: svc, geocoder: geocoder}
}

type bookReq struct {
	RiderID  string       `json:"rider_id"`
	Pickup   *geoPointReq `json:"pickup" binding:"required"`
	Dropoff  *geoPointReq `json:"dropoff" binding:"required"`
	QuoteID  string       `json:"quote_id"`
	Provider string       `json:"provider"`
	Category string       `json:"category" binding:"omitempty,category"`
	Price    float64      `json:"price" binding:"gte=0,lte=1000000"`
	Currency string       `json:"currency" binding:"omitempty,len=3"`
}

// Book handles POST /api/trips.
func (h *TripHandler) Book(c *gin.Context) {
	var req bookReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	if req.RiderID != "" && !isValidID(req.RiderID) {
		writeError(c, http.StatusBadRequest, "invalid rider_id")
		return
	}
	ctx := c.Request.Context()
	t, err := h.trips.Book(ctx, trip.BookCommand{
		RiderID:  types.ID(req.RiderID),
		Pickup:   h.geocoder.Resolve(ctx, req.Pickup.toGeoPoint()),
		Dropoff:  h.geocoder.Resolve(ctx, req.Dropoff.toGeoPoint()),
		QuoteID:  req.QuoteID,
		Provider: req.Provider,
		Category: req.Category,
		Price:    req.Price,
		Currency: req.Currency,
	})
	if err != nil {
		writeTripError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, t)
}

// Get handles GET /api/trips/:id.
func (h *TripHandler) Get(c *gin.Context) {
	id, ok := tripID(c)
	if !ok {
		return
	}
	t, err := h.trips.Get(c.Request.Context(), id)
	if err != nil {
		writeTripError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, t)
}

// Cancel handles POST /api/trips/:id/cancel.
func (h *TripHandler) Cancel(c *gin.Context) {
	id, ok := tripID(c)
	if !ok {
		return
	}
	t, err := h.trips.Cancel(c.Request.Context(), id)
	if err != nil {
		writeTripError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, t)
}

// Events handles GET /api/trips/:id/events.
func (h *TripHandler) Events(c *gin.Context) {
	id, ok := tripID(c)
	if !ok {
		return
	}
	events, err := h.trips.Events(c.Request.Context(), id)
	if err != nil {
		writeTripError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"events": events})
}

func tripID(c *gin.Context) (types.ID, bool) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid trip id")
		return "", false
	}
	return types.ID(id), true
}
