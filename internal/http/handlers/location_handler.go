package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"teleport/internal/modules/location"
	"teleport/internal/types"
)

type LocationHandler struct {
	cache *location.Cache
}

func NewLocationHandler(cache *location.Cache) *LocationHandler {
	return &LocationHandler{cache: cache}
}

// LastKnown handles GET /api/users/:id/location.
func (h *LocationHandler) LastKnown(c *gin.Context) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid user id")
		return
	}
	e, err := h.cache.Load(c.Request.Context(), types.ID(id))
	switch {
	case errors.Is(err, location.ErrNotFound):
		writeError(c, http.StatusNotFound, "no known location")
	case err != nil:
		writeError(c, http.StatusInternalServerError, "internal error")
	default:
		writeJSON(c, http.StatusOK, e)
	}
}
