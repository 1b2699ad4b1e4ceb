package devices

import (
	"github.com/gin-gonic/gin"

	"github.com/neurales/dashboard/internal/models"
	"github.com/neurales/dashboard/pkg/response"
	"github.com/neurales/dashboard/pkg/utils"
)

// CreateRequest is the body for POST /devices.
type CreateRequest struct {
	Model          string `json:"marque_modele" binding:"required"`
	SerialNumber   string `json:"serial_number"`
	ConnectionType string `json:"connection_type" binding:"required"`
	State          string `json:"etat" binding:"required"`
}

// Handler handles device HTTP endpoints.
type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// List handles GET /devices.
func (h *Handler) List(c *gin.Context) {
	limit, offset, err := utils.Paging(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	items, err := h.store.List(c.Request.Context(), limit, offset)
	if err != nil {
		response.Error(c, err, "failed to load devices")
		return
	}
	response.OK(c, items)
}

// GetByID handles GET /devices/:id.
func (h *Handler) GetByID(c *gin.Context) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid device id")
		return
	}
	d, err := h.store.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err, "failed to load device")
		return
	}
	response.OK(c, d)
}

// Create handles POST /devices.
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	d, err := h.store.Create(c.Request.Context(), models.DeviceInput(req))
	if err != nil {
		response.Error(c, err, "failed to create device")
		return
	}
	response.Created(c, d)
}

// Update handles PUT /devices/:id.
func (h *Handler) Update(c *gin.Context) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid device id")
		return
	}
	var req models.DeviceInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	d, err := h.store.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err, "failed to update device")
		return
	}
	response.OK(c, d)
}

// Delete handles DELETE /devices/:id.
func (h *Handler) Delete(c *gin.Context) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid device id")
		return
	}
	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err, "failed to delete device")
		return
	}
	response.NoContent(c)
}

// Status handles GET /devices/status.
func (h *Handler) Status(c *gin.Context) {
	response.OK(c, h.store.Mirror().Status())
}
