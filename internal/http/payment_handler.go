package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"citizen-service/internal/http/middleware"
	"citizen-service/internal/model"
	"citizen-service/internal/service"
)

func (h *Handler) listPayments(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	var opts service.ListPaymentsOptions
	if statusParam := c.Query("status"); statusParam != "" {
		for _, val := range splitCSV(statusParam) {
			opts.Statuses = append(opts.Statuses, model.PaymentStatus(strings.ToLower(val)))
		}
	}
	var err error
	if opts.UserID, err = queryUUID(c, "user_id"); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}
	opts.Limit = queryInt(c, "limit")
	opts.Offset = queryInt(c, "offset")

	payments, err := h.paymentService.List(c.Request.Context(), principal, opts)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"items": payments}))
}

func (h *Handler) getPayment(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	reference := strings.TrimSpace(c.Param("reference"))
	if reference == "" {
		c.JSON(http.StatusBadRequest, errorResponse("invalid reference"))
		return
	}

	payment, err := h.paymentService.GetByReference(c.Request.Context(), principal, reference)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(payment))
}
