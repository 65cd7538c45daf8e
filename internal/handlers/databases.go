package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	v1 "github.com/dbforge/mssql-provision-agent/api/v1"
	srvErrors "github.com/dbforge/mssql-provision-agent/pkg/errors"
	"github.com/dbforge/mssql-provision-agent/pkg/layout"
)

// CreateDatabase accepts a provisioning request and starts it asynchronously
// (POST /databases)
func (h *Handler) CreateDatabase(c *gin.Context) {
	var req v1.CreateDatabaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, v1.Error{Error: err.Error()})
		return
	}

	spec, err := req.ToSpec()
	if err != nil {
		c.JSON(http.StatusBadRequest, v1.Error{Error: err.Error()})
		return
	}

	id, err := h.provisioner.Start(spec)
	if err != nil {
		if srvErrors.IsProvisionInProgressError(err) {
			c.JSON(http.StatusConflict, v1.Error{Error: err.Error()})
			return
		}
		zap.S().Named("database_handler").Errorw("failed to start provisioning", "database", spec.Name, "error", err)
		c.JSON(http.StatusInternalServerError, v1.Error{Error: "failed to start provisioning"})
		return
	}

	c.JSON(http.StatusAccepted, v1.CreateDatabaseResponse{ID: id, Database: spec.Name})
}

// PlanDatabase computes the layout a request would produce without touching
// the instance's databases. When the instance is reachable its volumes are
// queried and the space checks included; when it is not, the plan alone is
// returned.
// (POST /databases/plan)
func (h *Handler) PlanDatabase(c *gin.Context) {
	var req v1.CreateDatabaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, v1.Error{Error: err.Error()})
		return
	}

	spec, err := req.ToSpec()
	if err != nil {
		c.JSON(http.StatusBadRequest, v1.Error{Error: err.Error()})
		return
	}

	plan, err := h.planner.BuildPlan(spec)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, v1.Error{Error: err.Error()})
		return
	}

	var checks []layout.Check
	if admin, err := h.connect(c.Request.Context()); err == nil {
		defer admin.Close()
		volumes, err := admin.QueryVolumes(c.Request.Context())
		if err == nil {
			checks, err = h.planner.CheckSpace(plan, volumes)
			if err != nil {
				if layout.IsVolumeNotFound(err) {
					c.JSON(http.StatusUnprocessableEntity, v1.Error{Error: err.Error()})
					return
				}
				zap.S().Named("database_handler").Errorw("space check failed", "database", spec.Name, "error", err)
				c.JSON(http.StatusInternalServerError, v1.Error{Error: "space check failed"})
				return
			}
		}
	}

	c.JSON(http.StatusOK, v1.NewPlanResponse(plan, checks))
}

// GetStatus returns the provisioner's current state
// (GET /status)
func (h *Handler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, v1.NewStatusFromModel(h.provisioner.Status()))
}
