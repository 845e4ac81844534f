// Package v1 exposes the graph API consumed by the rendering client.
package v1

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/hrygo/vaultview/graph"
	"github.com/hrygo/vaultview/internal/profile"
	"github.com/hrygo/vaultview/server/middleware"
	"github.com/hrygo/vaultview/store"
)

type APIV1Service struct {
	Profile      *profile.Profile
	Store        *store.Store
	GraphService *graph.Service

	rateLimiter *middleware.RateLimiter
}

// NewAPIV1Service wires the graph service over the store.
func NewAPIV1Service(profile *profile.Profile, s *store.Store) *APIV1Service {
	return &APIV1Service{
		Profile:      profile,
		Store:        s,
		GraphService: graph.NewService(s, s.GraphCache()),
		rateLimiter:  middleware.NewRateLimiter(),
	}
}

// Register mounts the v1 routes on the echo server.
func (s *APIV1Service) Register(e *echo.Echo) {
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(echomw.Recover())

	api := e.Group("/api/v1", s.rateLimiter.Middleware())
	api.GET("/graph", s.GetGraph)
	api.GET("/graph/local/:id", s.GetLocalGraph)
	api.POST("/graph/filter", s.FilterGraph)
	api.POST("/graph/positions", s.GetPositions)
}
