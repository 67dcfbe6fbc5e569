package handlers

import (
	"net/http"

	"crmneon/internal/common"
	"crmneon/internal/entities"
	"crmneon/internal/repositories"

	"github.com/labstack/echo/v4"
)

// CRMHandlers serves tenant scoped CRUD over every non admin entity
type CRMHandlers struct {
	repo repositories.RecordRepository
}

// NewCRMHandlers creates a new CRM handlers instance
func NewCRMHandlers(repo repositories.RecordRepository) *CRMHandlers {
	return &CRMHandlers{repo: repo}
}

// Handle dispatches /crm/:entity[/:id] by method. Authentication and the
// tenant claim are handled by the router middleware.
func (h *CRMHandlers) Handle(c echo.Context) error {
	tenantID, ok := common.GetTenantIDFromContext(c.Request().Context())
	if !ok {
		return common.Unauthorized("")
	}

	entity := c.Param("entity")
	d, err := entities.Lookup(entity)
	if err != nil {
		return entityNotFound(entity)
	}
	if d.AdminOnly {
		return common.Forbidden("")
	}

	hasID := c.Param("id") != ""
	switch c.Request().Method {
	case http.MethodGet:
		if hasID {
			return h.get(c, d, tenantID)
		}
		return h.list(c, d, tenantID)
	case http.MethodPost:
		return h.create(c, d, tenantID)
	case http.MethodPut, http.MethodPatch:
		if !hasID {
			return common.BadRequest("ID parameter is required for update")
		}
		return h.update(c, d, tenantID)
	case http.MethodDelete:
		if !hasID {
			return common.BadRequest("ID parameter is required for delete")
		}
		return h.delete(c, d, tenantID)
	default:
		return common.MethodNotAllowed()
	}
}

func (h *CRMHandlers) list(c echo.Context, d entities.Descriptor, tenantID int64) error {
	records, err := h.repo.List(c.Request().Context(), d.Name, tenantID)
	if err != nil {
		return repositoryError(c, d.Name, err)
	}
	return common.SendSuccess(c, http.StatusOK, d.PluralName+" retrieved successfully", records)
}

func (h *CRMHandlers) get(c echo.Context, d entities.Descriptor, tenantID int64) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	record, err := h.repo.GetByID(c.Request().Context(), d.Name, id, tenantID)
	if err != nil {
		return repositoryError(c, d.Name, err)
	}
	return common.SendSuccess(c, http.StatusOK, d.DisplayName+" retrieved successfully", record)
}

func (h *CRMHandlers) create(c echo.Context, d entities.Descriptor, tenantID int64) error {
	body, err := readBody(c)
	if err != nil {
		return err
	}
	record, err := h.repo.Create(c.Request().Context(), d.Name, body, tenantID)
	if err != nil {
		return repositoryError(c, d.Name, err)
	}
	return common.SendSuccess(c, http.StatusCreated, d.DisplayName+" created successfully", record)
}

func (h *CRMHandlers) update(c echo.Context, d entities.Descriptor, tenantID int64) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	body, err := readBody(c)
	if err != nil {
		return err
	}
	record, err := h.repo.Update(c.Request().Context(), d.Name, id, body, tenantID)
	if err != nil {
		return repositoryError(c, d.Name, err)
	}
	return common.SendSuccess(c, http.StatusOK, d.DisplayName+" updated successfully", record)
}

func (h *CRMHandlers) delete(c echo.Context, d entities.Descriptor, tenantID int64) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	deleted, err := h.repo.Delete(c.Request().Context(), d.Name, id, tenantID)
	if err != nil {
		return repositoryError(c, d.Name, err)
	}
	return common.SendSuccess(c, http.StatusOK, d.DisplayName+" deleted successfully", map[string]int64{"id": deleted})
}
