package patients

import (
	"github.com/gin-gonic/gin"

	"github.com/neurales/dashboard/internal/models"
	"github.com/neurales/dashboard/pkg/response"
	"github.com/neurales/dashboard/pkg/utils"
)

// Handler handles patient HTTP endpoints.
type Handler struct {
	store *Store
}

// NewHandler creates a patient handler.
func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// List handles GET /patients.
func (h *Handler) List(c *gin.Context) {
	limit, offset, err := utils.Paging(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	items, err := h.store.List(c.Request.Context(), limit, offset)
	if err != nil {
		response.Error(c, err, "failed to load patients")
		return
	}
	response.OK(c, items)
}

// GetByID handles GET /patients/:id.
func (h *Handler) GetByID(c *gin.Context) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid patient id")
		return
	}
	p, err := h.store.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err, "failed to load patient")
		return
	}
	response.OK(c, p)
}

// Create handles POST /patients.
func (h *Handler) Create(c *gin.Context) {
	var req models.PatientInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	p, err := h.store.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err, "failed to create patient")
		return
	}
	response.Created(c, p)
}

// Update handles PUT /patients/:id.
func (h *Handler) Update(c *gin.Context) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid patient id")
		return
	}
	var req models.PatientUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	p, err := h.store.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err, "failed to update patient")
		return
	}
	response.OK(c, p)
}

// Delete handles DELETE /patients/:id.
func (h *Handler) Delete(c *gin.Context) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid patient id")
		return
	}
	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err, "failed to delete patient")
		return
	}
	response.NoContent(c)
}

// Services handles GET /patients/meta/services.
func (h *Handler) Services(c *gin.Context) {
	list, err := h.store.Services(c.Request.Context())
	if err != nil {
		response.Error(c, err, "failed to load services")
		return
	}
	response.OK(c, list)
}

// Doctors handles GET /patients/meta/medecins.
func (h *Handler) Doctors(c *gin.Context) {
	list, err := h.store.Doctors(c.Request.Context())
	if err != nil {
		response.Error(c, err, "failed to load doctors")
		return
	}
	response.OK(c, list)
}

// Status handles GET /patients/status.
func (h *Handler) Status(c *gin.Context) {
	response.OK(c, h.store.Mirror().Status())
}
