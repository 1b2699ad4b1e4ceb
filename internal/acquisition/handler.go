package acquisition

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/neurales/dashboard/internal/upstream"
	"github.com/neurales/dashboard/pkg/response"
)

// ErrNoSession is returned by operations that need a running session.
var ErrNoSession = errors.New("no acquisition session running")

// LivePoller fetches the polled live summary of a backend session.
type LivePoller interface {
	Live(ctx context.Context, sessionID string) (*upstream.LiveMetrics, error)
}

// ToggleRequest is the body for POST /acquisition/electrodes/toggle.
type ToggleRequest struct {
	ID string `json:"id" binding:"required"`
}

// SetRequest is the body for PUT /acquisition/electrodes.
type SetRequest struct {
	IDs []string `json:"ids"`
}

// Handler handles acquisition HTTP endpoints.
type Handler struct {
	store *Store
	live  LivePoller
}

// NewHandler creates an acquisition handler. live may be nil.
func NewHandler(store *Store, live LivePoller) *Handler {
	return &Handler{store: store, live: live}
}

// State handles GET /acquisition/state.
func (h *Handler) State(c *gin.Context) {
	response.OK(c, h.store.Snapshot())
}

// Start handles POST /acquisition/start.
func (h *Handler) Start(c *gin.Context) {
	h.store.Start(c.Request.Context())
	response.OK(c, h.store.Snapshot())
}

// Stop handles POST /acquisition/stop. It answers once the session is torn
// down locally; the backend is notified in the background.
func (h *Handler) Stop(c *gin.Context) {
	h.store.StopDetached(c.Request.Context())
	response.OK(c, h.store.Snapshot())
}

// Toggle handles POST /acquisition/electrodes/toggle.
func (h *Handler) Toggle(c *gin.Context) {
	var req ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.ID) == "" {
		response.BadRequest(c, "electrode id required")
		return
	}
	h.store.ToggleElectrode(req.ID)
	response.OK(c, h.store.Snapshot())
}

// SetElectrodes handles PUT /acquisition/electrodes.
func (h *Handler) SetElectrodes(c *gin.Context) {
	var req SetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	h.store.SetElectrodes(req.IDs)
	response.OK(c, h.store.Snapshot())
}

// ClearElectrodes handles DELETE /acquisition/electrodes.
func (h *Handler) ClearElectrodes(c *gin.Context) {
	h.store.ClearElectrodes()
	response.OK(c, h.store.Snapshot())
}

// Live handles GET /acquisition/live. Local sessions are unknown to the
// backend and answer with the stream-derived metrics instead.
func (h *Handler) Live(c *gin.Context) {
	id, running := h.store.Sessions().Running()
	if !running {
		response.Conflict(c, ErrNoSession.Error())
		return
	}
	if h.live == nil || strings.HasPrefix(id, LocalSessionPrefix) {
		response.OK(c, h.store.Snapshot().LiveMetrics)
		return
	}
	m, err := h.live.Live(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err, "failed to load live metrics")
		return
	}
	response.OK(c, m)
}

// Electrodes handles GET /electrodes.
func (h *Handler) Electrodes(c *gin.Context) {
	response.OK(c, UltracortexMarkIV)
}
