package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"citizen-service/internal/http/middleware"
	"citizen-service/internal/service"
)

func (h *Handler) getDashboard(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	var filters service.DashboardFilters
	var err error
	if filters.WardID, err = queryUUID(c, "ward_id"); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}
	if filters.DepartmentID, err = queryUUID(c, "department_id"); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}
	if filters.CategoryID, err = queryUUID(c, "category_id"); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}
	if filters.DateFrom, err = queryTime(c, "date_from"); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}
	if filters.DateTo, err = queryTime(c, "date_to"); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	snapshot, err := h.dashboardService.Snapshot(c.Request.Context(), principal, filters)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(snapshot))
}
