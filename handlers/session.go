package handlers

import (
	"net/http"

	"carelink/models"
	"carelink/services/requests"
	"carelink/services/session"
	"carelink/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionHandler manages the provider's portal session.
type SessionHandler struct {
	sessions session.Store
	registry *requests.Registry
	logger   *zap.Logger
}

// NewSessionHandler constructs the session handler.
func NewSessionHandler(sessions session.Store, registry *requests.Registry, logger *zap.Logger) *SessionHandler {
	if logger == nil {
		logger = zap.L()
	}
	return &SessionHandler{
		sessions: sessions,
		registry: registry,
		logger:   logger,
	}
}

// StartSessionHandler exchanges an authenticated provider profile for a
// portal session token. Upstream identity verification happens at the
// gateway; this endpoint only establishes portal state.
func (h *SessionHandler) StartSessionHandler(c *gin.Context) {
	var provider models.ProviderSnapshot
	if err := c.ShouldBindJSON(&provider); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	if provider.ID == "" {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "provider id is required")
		return
	}

	token, err := h.sessions.Start(c.Request.Context(), provider)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to start session", err.Error())
		return
	}

	h.logger.Info("provider session started", zap.String("providerID", provider.ID))
	c.JSON(http.StatusOK, gin.H{
		"token":    token,
		"provider": provider,
	})
}

// GetSessionHandler returns the cached provider snapshot for the session.
func (h *SessionHandler) GetSessionHandler(c *gin.Context) {
	providerID := c.GetString("providerID")

	sess, err := h.sessions.Get(c.Request.Context(), providerID)
	if err == session.ErrNoSession {
		utils.JSONError(c, http.StatusUnauthorized, "not signed in", "")
		return
	}
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to load session", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"provider": sess.Provider, "createdAt": sess.CreatedAt})
}

// EndSessionHandler signs the provider out and stops their pending-request
// poller.
func (h *SessionHandler) EndSessionHandler(c *gin.Context) {
	providerID := c.GetString("providerID")

	if err := h.sessions.End(c.Request.Context(), providerID); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to end session", err.Error())
		return
	}
	h.registry.Stop(providerID)

	h.logger.Info("provider session ended", zap.String("providerID", providerID))
	c.JSON(http.StatusOK, gin.H{"status": "signed_out"})
}
