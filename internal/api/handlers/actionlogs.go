package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/unifiedui/variables-service/internal/api/dto"
	"github.com/unifiedui/variables-service/internal/api/middleware"
	"github.com/unifiedui/variables-service/internal/domain/errors"
	"github.com/unifiedui/variables-service/internal/services/actionlog"
)

// ActionLogsHandler handles audit log endpoints.
type ActionLogsHandler struct {
	service actionlog.Service
}

// NewActionLogsHandler creates a new ActionLogsHandler.
func NewActionLogsHandler(service actionlog.Service) *ActionLogsHandler {
	return &ActionLogsHandler{
		service: service,
	}
}

// Search handles POST /action-logs/search
// @Summary Search action logs
// @Description Returns the entries in [offsetTime-rangeTime, offsetTime], newest first, and how many older entries match
// @Tags ActionLogs
// @Accept json
// @Produce json
// @Param request body dto.SearchActionLogsRequest true "Search criteria, times in epoch milliseconds"
// @Success 200 {object} dto.SearchActionLogsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/v1/variables-service/action-logs/search [post]
func (h *ActionLogsHandler) Search(c *gin.Context) {
	var req dto.SearchActionLogsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	result, err := h.service.Search(c.Request.Context(), req.ToCriteria())
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSearchActionLogsResponse(result))
}
