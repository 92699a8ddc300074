// README: Courier assignment and courier location updates.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"teleport/internal/modules/matching"
	"teleport/internal/types"
)

type AssignmentHandler struct {
	matching *matching.Service
}

func NewAssignmentHandler(svc *matching.Service) *AssignmentHandler {
	return &AssignmentHandler{matching: svc}
}

type courierReq struct {
	ID       string    `json:"id" binding:"required"`
	Name     string    `json:"name"`
	Rating   float64   `json:"rating" binding:"gte=0,lte=5"`
	Position *pointReq `json:"position" binding:"required"`
	Load     int       `json:"load" binding:"gte=0"`
	Vehicle  string    `json:"vehicle"`
}

func (r courierReq) toCourier() matching.Courier {
	return matching.Courier{
		ID:       types.ID(r.ID),
		Name:     r.Name,
		Rating:   r.Rating,
		Position: types.Point{Lat: r.Position.Lat, Lng: r.Position.Lng},
		Load:     r.Load,
		Vehicle:  r.Vehicle,
	}
}

type assignReq struct {
	Target   *pointReq    `json:"target" binding:"required"`
	Couriers []courierReq `json:"couriers" binding:"dive"`
}

type assignResp struct {
	Courier  matching.Courier `json:"courier"`
	Score    float64          `json:"score"`
	Fallback bool             `json:"fallback"`
}

// Assign handles POST /api/assignments. Without an explicit courier list the
// nearby pool is used.
func (h *AssignmentHandler) Assign(c *gin.Context) {
	var req assignReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	pool := make([]matching.Courier, 0, len(req.Couriers))
	for _, cr := range req.Couriers {
		pool = append(pool, cr.toCourier())
	}
	target := types.Point{Lat: req.Target.Lat, Lng: req.Target.Lng}
	res := h.matching.Assign(c.Request.Context(), target, pool)
	writeJSON(c, http.StatusOK, assignResp{Courier: res.Courier, Score: res.Score, Fallback: res.Fallback})
}

type courierLocationReq struct {
	Name     string    `json:"name"`
	Rating   float64   `json:"rating" binding:"gte=0,lte=5"`
	Position *pointReq `json:"position" binding:"required"`
	Load     int       `json:"load" binding:"gte=0"`
	Vehicle  string    `json:"vehicle"`
}

// UpdateLocation handles PUT /api/couriers/:id/location.
func (h *AssignmentHandler) UpdateLocation(c *gin.Context) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid courier id")
		return
	}
	var req courierLocationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	courier := courierReq{
		ID: id, Name: req.Name, Rating: req.Rating, Position: req.Position, Load: req.Load, Vehicle: req.Vehicle,
	}.toCourier()
	if err := h.matching.UpdateCourier(c.Request.Context(), courier); err != nil {
		if errors.Is(err, matching.ErrInvalidCourier) {
			writeError(c, http.StatusBadRequest, err.Error())
			return
		}
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(c, http.StatusOK, courier)
}

// Remove handles DELETE /api/couriers/:id.
func (h *AssignmentHandler) Remove(c *gin.Context) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid courier id")
		return
	}
	if err := h.matching.RemoveCourier(c.Request.Context(), types.ID(id)); err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.Status(http.StatusNoContent)
}

type nearbyQuery struct {
	Lat *float64 `form:"lat" binding:"required,gte=-90,lte=90"`
	Lng *float64 `form:"lng" binding:"required,gte=-180,lte=180"`
}

// Nearby handles GET /api/couriers/nearby?lat=..&lng=..
func (h *AssignmentHandler) Nearby(c *gin.Context) {
	var q nearbyQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeBindError(c, err)
		return
	}
	couriers := h.matching.Nearby(c.Request.Context(), types.Point{Lat: *q.Lat, Lng: *q.Lng})
	writeJSON(c, http.StatusOK, gin.H{"couriers": couriers})
}
