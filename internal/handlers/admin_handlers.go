package handlers

import (
	"encoding/json"
	"net/http"

	"crmneon/internal/common"
	"crmneon/internal/entities"
	"crmneon/internal/logger"
	"crmneon/internal/repositories"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AdminHandlers creates and deletes admin-only entities through the
// migration role
type AdminHandlers struct {
	repo repositories.RecordRepository
}

// NewAdminHandlers creates a new admin handlers instance
func NewAdminHandlers(repo repositories.RecordRepository) *AdminHandlers {
	return &AdminHandlers{repo: repo}
}

// Handle dispatches /admin/:entity[/:id]. Entities outside the admin set are
// reported as not found.
func (h *AdminHandlers) Handle(c echo.Context) error {
	entity := c.Param("entity")
	d, err := entities.Lookup(entity)
	if err != nil || !d.AdminOnly {
		return entityNotFound(entity)
	}

	switch c.Request().Method {
	case http.MethodPost:
		return h.create(c, d)
	case http.MethodDelete:
		if c.Param("id") == "" {
			return common.BadRequest("ID parameter is required for delete")
		}
		return h.delete(c, d)
	default:
		return common.MethodNotAllowed()
	}
}

func (h *AdminHandlers) create(c echo.Context, d entities.Descriptor) error {
	body, err := readBody(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	var record any
	if d.TenantColumn == "id" {
		// a tenant is its own scope and has no tenant to act as yet
		record, err = h.repo.CreateRoot(ctx, d.Name, body)
	} else {
		tenantID, ok := bodyTenantID(body)
		if !ok {
			return common.BadRequest("tenantId is required")
		}
		record, err = h.repo.Create(ctx, d.Name, body, tenantID)
	}
	if err != nil {
		return repositoryError(c, d.Name, err)
	}

	logger.FromEcho(c).Info("admin record created", zap.String("entity", d.Name))
	return common.SendSuccess(c, http.StatusCreated, d.DisplayName+" created successfully", record)
}

func (h *AdminHandlers) delete(c echo.Context, d entities.Descriptor) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	tenantID := id
	if d.TenantColumn != "id" {
		var ok bool
		tenantID, ok = h.deleteTenantID(c)
		if !ok {
			return common.BadRequest("tenantId is required")
		}
	}

	deleted, err := h.repo.Delete(c.Request().Context(), d.Name, id, tenantID)
	if err != nil {
		return repositoryError(c, d.Name, err)
	}

	logger.FromEcho(c).Info("admin record deleted", zap.String("entity", d.Name), zap.Int64("id", deleted))
	return common.SendSuccess(c, http.StatusOK, d.DisplayName+" deleted successfully", map[string]int64{"id": deleted})
}

// deleteTenantID reads tenantId from the query string, falling back to the body
func (h *AdminHandlers) deleteTenantID(c echo.Context) (int64, bool) {
	if q := c.QueryParam("tenantId"); q != "" {
		return common.ClaimToID(q)
	}
	body, err := readBody(c)
	if err != nil {
		return 0, false
	}
	return bodyTenantID(body)
}

func bodyTenantID(body []byte) (int64, bool) {
	var payload struct {
		TenantID any `json:"tenantId"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, false
	}
	return common.ClaimToID(payload.TenantID)
}
