package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	v1 "github.com/dbforge/mssql-provision-agent/api/v1"
	"github.com/dbforge/mssql-provision-agent/internal/models"
)

// PutCredentials stores connection credentials for the target instance,
// overriding the agent's static configuration from the next connection on
// (PUT /credentials)
func (h *Handler) PutCredentials(c *gin.Context) {
	var req v1.CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, v1.Error{Error: err.Error()})
		return
	}

	creds := &models.InstanceCredentials{
		Host:     req.Host,
		Port:     req.Port,
		User:     req.User,
		Password: req.Password,
	}
	if creds.Port == 0 {
		creds.Port = 1433
	}

	if err := h.store.Credentials().Save(c.Request.Context(), creds); err != nil {
		zap.S().Named("credentials_handler").Errorw("failed to save credentials", "error", err)
		c.JSON(http.StatusInternalServerError, v1.Error{Error: "failed to save credentials"})
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteCredentials removes the stored credentials, falling back to the
// static configuration
// (DELETE /credentials)
func (h *Handler) DeleteCredentials(c *gin.Context) {
	if err := h.store.Credentials().Delete(c.Request.Context()); err != nil {
		zap.S().Named("credentials_handler").Errorw("failed to delete credentials", "error", err)
		c.JSON(http.StatusInternalServerError, v1.Error{Error: "failed to delete credentials"})
		return
	}
	c.Status(http.StatusNoContent)
}
