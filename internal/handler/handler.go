// Package handler exposes the Connect3 HTTP API on gin.
package handler

import (
	"context"
	"errors"
	"net/http"

	"connect3/backend/internal/feed"
	"connect3/backend/internal/hub"
	"connect3/backend/internal/observability"
	"connect3/backend/internal/store"
	"connect3/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler carries the dependencies shared by every endpoint.
type Handler struct {
	store   store.Store
	feed    *feed.Selector
	hub     *hub.Hub
	invites *jwt.Issuer
	metrics *observability.Metrics
	logger  *zap.Logger
}

// Deps lists what New needs. Metrics and Invites may be nil.
type Deps struct {
	Store   store.Store
	Feed    *feed.Selector
	Hub     *hub.Hub
	Invites *jwt.Issuer
	Metrics *observability.Metrics
	Logger  *zap.Logger
}

// New builds a Handler. A missing feed selector or hub is created from the store.
func New(d Deps) *Handler {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Feed == nil {
		d.Feed = feed.NewSelector(d.Store, d.Metrics, nil)
	}
	if d.Hub == nil {
		d.Hub = hub.NewHub(d.Logger, d.Metrics)
	}
	return &Handler{
		store:   d.Store,
		feed:    d.Feed,
		hub:     d.Hub,
		invites: d.Invites,
		metrics: d.Metrics,
		logger:  d.Logger,
	}
}

// CloseStreams ends every open feed stream.
func (h *Handler) CloseStreams() {
	h.hub.Close()
}

// region --- Errors ---

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Error string `json:"error" example:"An error message"`
}

// MessageResponse is returned by endpoints that only report an outcome.
type MessageResponse struct {
	Message string `json:"message" example:"Users connected successfully"`
}

// errorMessages are the client-facing texts for the store sentinels an
// endpoint can hit.
type errorMessages struct {
	notFound string
	conflict string
}

// respondStoreError maps a store failure onto the HTTP status table:
// not found 404, conflict and self connection 400, unavailable or out of time
// 503, else 500.
func (h *Handler) respondStoreError(c *gin.Context, err error, msgs errorMessages) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": msgs.notFound})
	case errors.Is(err, store.ErrConflict):
		c.JSON(http.StatusBadRequest, gin.H{"error": msgs.conflict})
	case errors.Is(err, store.ErrSelfConnection):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot connect a user to themselves"})
	case errors.Is(err, store.ErrUnavailable), errors.Is(err, context.DeadlineExceeded):
		h.logger.Warn("graph store unavailable", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Graph store unavailable"})
	default:
		h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// endregion
