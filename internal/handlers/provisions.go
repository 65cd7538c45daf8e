package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	v1 "github.com/dbforge/mssql-provision-agent/api/v1"
	"github.com/dbforge/mssql-provision-agent/internal/services"
	"github.com/dbforge/mssql-provision-agent/internal/store"
	srvErrors "github.com/dbforge/mssql-provision-agent/pkg/errors"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// GetProvisions returns recorded provisioning runs with filtering and pagination
// (GET /provisions)
func (h *Handler) GetProvisions(c *gin.Context) {
	page := 1
	if raw := c.Query("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			page = v
		}
	}
	pageSize := defaultPageSize
	if raw := c.Query("pageSize"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			pageSize = v
			if pageSize > maxPageSize {
				pageSize = maxPageSize
			}
		}
	}

	params := services.HistoryListParams{
		Databases: c.QueryArray("database"),
		Outcomes:  c.QueryArray("outcome"),
		Sort:      parseSortParams(c.Query("sort")),
		Limit:     uint64(pageSize),
		Offset:    uint64((page - 1) * pageSize),
	}
	if raw := c.Query("startedAfter"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, v1.Error{Error: "startedAfter must be RFC 3339"})
			return
		}
		params.StartedAfter = &t
	}

	records, total, err := h.history.List(c.Request.Context(), params)
	if err != nil {
		zap.S().Named("provision_handler").Errorw("failed to list provisions", "error", err)
		c.JSON(http.StatusInternalServerError, v1.Error{Error: "failed to list provisions"})
		return
	}

	provisions := make([]v1.Provision, 0, len(records))
	for _, rec := range records {
		provisions = append(provisions, v1.NewProvisionFromModel(rec))
	}

	c.JSON(http.StatusOK, v1.ProvisionList{
		Provisions: provisions,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
	})
}

// GetProvision returns one recorded run by ID
// (GET /provisions/:id)
func (h *Handler) GetProvision(c *gin.Context) {
	rec, err := h.history.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if srvErrors.IsResourceNotFoundError(err) {
			c.JSON(http.StatusNotFound, v1.Error{Error: err.Error()})
			return
		}
		zap.S().Named("provision_handler").Errorw("failed to get provision", "id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, v1.Error{Error: "failed to get provision"})
		return
	}
	c.JSON(http.StatusOK, v1.NewProvisionFromModel(rec))
}

// parseSortParams parses "field1,-field2" into sort params; a leading dash
// means descending. Unknown fields are dropped by the store layer.
func parseSortParams(raw string) []store.SortParam {
	if raw == "" {
		return nil
	}
	var sorts []store.SortParam
	for _, field := range strings.Split(raw, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		desc := strings.HasPrefix(field, "-")
		sorts = append(sorts, store.SortParam{
			Field: strings.TrimPrefix(field, "-"),
			Desc:  desc,
		})
	}
	return sorts
}
