package handlers

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"crmneon/internal/common"
	"crmneon/internal/entities"
	"crmneon/internal/logger"
	"crmneon/internal/models"
	"crmneon/internal/repositories"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// readBody returns the raw request body. An empty body or a JSON null is
// reported as missing.
func readBody(c echo.Context) ([]byte, error) {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return nil, common.BadRequest("Request body is required")
	}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, common.BadRequest("Request body is required")
	}
	return trimmed, nil
}

// parseIDParam reads the :id path parameter
func parseIDParam(c echo.Context) (int64, error) {
	id, err := common.ParseID(c.Param("id"), "id")
	if err != nil {
		return 0, common.BadRequest("Invalid ID parameter")
	}
	return id, nil
}

// repositoryError maps repository errors onto the API error taxonomy
func repositoryError(c echo.Context, entity string, err error) error {
	var notFound *repositories.RecordNotFoundError
	var validation *models.ValidationError
	switch {
	case errors.Is(err, entities.ErrEntityNotFound):
		return entityNotFound(entity)
	case errors.As(err, &notFound):
		return common.NotFound(entity+" not found", map[string]any{"id": notFound.ID})
	case errors.As(err, &validation):
		return common.NewAPIError(http.StatusBadRequest, "Validation error", map[string]any{"errors": validation.Issues})
	case errors.Is(err, repositories.ErrInvalidTenant):
		return common.BadRequest("tenantId must be a positive integer")
	}

	logger.FromEcho(c).Error("repository operation failed",
		zap.String("entity", entity),
		zap.Error(err),
	)
	return common.InternalError("")
}

func entityNotFound(entity string) error {
	return common.NotFound("Entity not found", map[string]any{"entity": entity})
}
