// README: Base handler utilities (JSON helpers, request shapes, error mapping).
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"teleport/internal/modules/trip"
	"teleport/internal/types"
)

type errorResponse struct {
	Error string `json:"error"`
}

// Resolver fills in coordinates for label-only places.
type Resolver interface {
	Resolve(ctx context.Context, p types.GeoPoint) types.GeoPoint
}

const maxIDLen = 64

// isValidID accepts uuids and the short slugs used for couriers and riders.
func isValidID(v string) bool {
	if v == "" || len(v) > maxIDLen {
		return false
	}
	for _, c := range v {
		if (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '-' || c == '_' {
			continue
		}
		return false
	}
	return true
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writeBindError(c *gin.Context, err error) {
	writeError(c, http.StatusBadRequest, "invalid request: "+err.Error())
}

func writeTripError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, trip.ErrBadRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, trip.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, trip.ErrInvalidState), errors.Is(err, trip.ErrConflict):
		writeError(c, http.StatusConflict, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

type pointReq struct {
	Lat float64 `json:"lat" binding:"gte=-90,lte=90"`
	Lng float64 `json:"lng" binding:"gte=-180,lte=180"`
}

type geoPointReq struct {
	Label  string    `json:"label"`
	Coords *pointReq `json:"coords"`
}

func (g *geoPointReq) empty() bool {
	return g == nil || (g.Coords == nil && strings.TrimSpace(g.Label) == "")
}

func (g *geoPointReq) toGeoPoint() types.GeoPoint {
	if g == nil {
		return types.GeoPoint{}
	}
	p := types.GeoPoint{Label: strings.TrimSpace(g.Label)}
	if g.Coords != nil {
		p.Coords = &types.Point{Lat: g.Coords.Lat, Lng: g.Coords.Lng}
	}
	return p
}
