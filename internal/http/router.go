// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"teleport/internal/ai"
	"teleport/internal/http/handlers"
	"teleport/internal/http/middleware"
	"teleport/internal/modules/aiusage"
	"teleport/internal/modules/location"
	"teleport/internal/modules/matching"
	"teleport/internal/modules/pricing"
	"teleport/internal/modules/trip"
)

// Deps are the services behind the API. Usage may be nil to disable the
// advice quota.
type Deps struct {
	Pricing           *pricing.Service
	Matching          *matching.Service
	Trips             *trip.Service
	Locations         *location.Cache
	Geocoder          handlers.Resolver
	Advisor           ai.Advisor
	Usage             *aiusage.Service
	PreferredProvider pricing.Provider
	Log               *zap.Logger
}

func NewRouter(deps Deps) (*gin.Engine, error) {
	if err := handlers.RegisterValidators(); err != nil {
		return nil, err
	}
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.Use(middleware.Recovery(log), middleware.Logging(log))

	api := r.Group("/api")

	quoteHandler := handlers.NewQuoteHandler(deps.Pricing, deps.Geocoder, deps.Locations, deps.PreferredProvider)
	api.POST("/quotes", quoteHandler.Create)
	api.GET("/promos/:code", quoteHandler.Promo)

	assignmentHandler := handlers.NewAssignmentHandler(deps.Matching)
	api.POST("/assignments", assignmentHandler.Assign)
	api.PUT("/couriers/:id/location", assignmentHandler.UpdateLocation)
	api.DELETE("/couriers/:id", assignmentHandler.Remove)
	api.GET("/couriers/nearby", assignmentHandler.Nearby)

	tripHandler := handlers.NewTripHandler(deps.Trips, deps.Geocoder)
	api.POST("/trips", tripHandler.Book)
	api.GET("/trips/:id", tripHandler.Get)
	api.POST("/trips/:id/cancel", tripHandler.Cancel)
	api.GET("/trips/:id/events", tripHandler.Events)

	locationHandler := handlers.NewLocationHandler(deps.Locations)
	api.GET("/users/:id/location", locationHandler.LastKnown)

	adviceHandler := handlers.NewAdviceHandler(deps.Advisor, deps.Usage, log)
	api.POST("/advice", adviceHandler.Advice)
	api.POST("/advice/efficiency", adviceHandler.Efficiency)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	return r, nil
}
