package results

import (
	"github.com/gin-gonic/gin"

	"github.com/neurales/dashboard/internal/models"
	"github.com/neurales/dashboard/pkg/response"
	"github.com/neurales/dashboard/pkg/utils"
)

// CreateRequest is the body for POST /results.
type CreateRequest struct {
	models.ResultInput
	Mode      string `json:"mode" binding:"required"`
	StartedAt string `json:"started_at" binding:"required"`
}

// Handler handles session result HTTP endpoints.
type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// List handles GET /results.
func (h *Handler) List(c *gin.Context) {
	limit, offset, err := utils.Paging(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	items, err := h.store.List(c.Request.Context(), limit, offset)
	if err != nil {
		response.Error(c, err, "failed to load sessions")
		return
	}
	response.OK(c, items)
}

// GetByID handles GET /results/:id.
func (h *Handler) GetByID(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	res, err := h.store.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err, "failed to load session")
		return
	}
	response.OK(c, res)
}

// Create handles POST /results.
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	in := req.ResultInput
	in.Mode, in.StartedAt = req.Mode, req.StartedAt
	res, err := h.store.Create(c.Request.Context(), in)
	if err != nil {
		response.Error(c, err, "failed to create session")
		return
	}
	response.Created(c, res)
}

// Update handles PUT /results/:id.
func (h *Handler) Update(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	var req models.ResultInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	res, err := h.store.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err, "failed to update session")
		return
	}
	response.OK(c, res)
}

// Delete handles DELETE /results/:id.
func (h *Handler) Delete(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err, "failed to delete session")
		return
	}
	response.NoContent(c)
}

// Status handles GET /results/status.
func (h *Handler) Status(c *gin.Context) {
	response.OK(c, h.store.Mirror().Status())
}

// Analytics returns a handler for GET /results/:id/<analysis>. A failed
// analysis answers 200 without data.
func (h *Handler) Analytics(a Analysis) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := sessionID(c)
		if !ok {
			return
		}
		raw := h.store.Analytics(c.Request.Context(), id, a)
		if raw == nil {
			response.OK(c, nil)
			return
		}
		response.OK(c, raw)
	}
}

func sessionID(c *gin.Context) (int, bool) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid session id")
		return 0, false
	}
	return id, true
}
