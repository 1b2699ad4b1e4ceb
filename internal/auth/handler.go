package auth

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/neurales/dashboard/pkg/response"
)

// Handler handles auth HTTP endpoints.
type Handler struct {
	session *Session
	logger  *zap.Logger
}

// NewHandler creates an auth handler.
func NewHandler(session *Session, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{session: session, logger: logger}
}

// Login handles POST /auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if err := h.session.Login(c.Request.Context(), req.Email, req.Password); err != nil {
		h.logger.Info("login failed", zap.String("email", req.Email), zap.Error(err))
		response.Error(c, err, "login failed")
		return
	}
	response.OK(c, h.session.View())
}

// Refresh handles POST /auth/refresh.
func (h *Handler) Refresh(c *gin.Context) {
	if err := h.session.Refresh(c.Request.Context()); err != nil {
		response.Error(c, err, "refresh failed")
		return
	}
	response.OK(c, h.session.View())
}

// Logout handles POST /auth/logout.
func (h *Handler) Logout(c *gin.Context) {
	h.session.Logout(c.Request.Context())
	response.OK(c, h.session.View())
}

// Me handles GET /auth/me.
func (h *Handler) Me(c *gin.Context) {
	if !h.session.IsLogged() {
		response.Unauthorized(c, "not logged in")
		return
	}
	if _, err := h.session.FetchMe(c.Request.Context()); err != nil {
		response.Error(c, err, "failed to load user")
		return
	}
	response.OK(c, h.session.View())
}
