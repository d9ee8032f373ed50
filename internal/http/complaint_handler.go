package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"citizen-service/internal/http/middleware"
	"citizen-service/internal/model"
	"citizen-service/internal/service"
)

func (h *Handler) listComplaints(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	opts, err := parseComplaintQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	records, err := h.complaintService.List(c.Request.Context(), principal, opts)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"items": records}))
}

func (h *Handler) getComplaint(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	details, err := h.complaintService.GetDetails(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(details))
}

func (h *Handler) createComplaint(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	var req struct {
		Title       string  `json:"title" binding:"required"`
		Description string  `json:"description"`
		WardID      *string `json:"ward_id"`
		CategoryID  *string `json:"category_id"`
		Priority    string  `json:"priority"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	input := service.CreateComplaintInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    model.ComplaintPriority(strings.ToLower(strings.TrimSpace(req.Priority))),
	}
	if req.WardID != nil {
		id, err := uuid.Parse(strings.TrimSpace(*req.WardID))
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("invalid ward_id"))
			return
		}
		input.WardID = &id
	}
	if req.CategoryID != nil {
		id, err := uuid.Parse(strings.TrimSpace(*req.CategoryID))
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("invalid category_id"))
			return
		}
		input.CategoryID = &id
	}

	record, err := h.complaintService.Create(c.Request.Context(), principal, input)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse(record))
}

func (h *Handler) transitionComplaint(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		NextStatus string `json:"next_status" binding:"required"`
		Note       string `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	input := service.TransitionInput{
		ComplaintID: id,
		NextStatus:  model.ComplaintStatus(strings.ToLower(strings.TrimSpace(req.NextStatus))),
		Note:        req.Note,
	}

	result, err := h.complaintService.Transition(c.Request.Context(), principal, input)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(result))
}

func (h *Handler) escalateComplaint(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		TargetPriority     string  `json:"target_priority" binding:"required"`
		TargetDepartmentID *string `json:"target_department_id"`
		Reason             string  `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	input := service.EscalateInput{
		ComplaintID: id,
		Priority:    model.ComplaintPriority(strings.ToLower(strings.TrimSpace(req.TargetPriority))),
		Reason:      req.Reason,
	}
	if req.TargetDepartmentID != nil {
		deptID, err := uuid.Parse(strings.TrimSpace(*req.TargetDepartmentID))
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("invalid target_department_id"))
			return
		}
		input.DepartmentID = &deptID
	}

	if err := h.complaintService.Escalate(c.Request.Context(), principal, input); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"status": "escalated"}))
}

func (h *Handler) overrideComplaint(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		OverrideStatus string `json:"override_status" binding:"required"`
		Reason         string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	input := service.OverrideInput{
		ComplaintID: id,
		Status:      model.ComplaintStatus(strings.ToLower(strings.TrimSpace(req.OverrideStatus))),
		Reason:      req.Reason,
	}

	result, err := h.complaintService.Override(c.Request.Context(), principal, input)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(result))
}

func (h *Handler) addComplaintAttachment(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		FileName string `json:"file_name" binding:"required"`
		FileURL  string `json:"file_url" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	attachment, err := h.complaintService.AddAttachment(c.Request.Context(), principal, id, service.AttachmentInput{
		FileName: req.FileName,
		FileURL:  req.FileURL,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse(attachment))
}

func parseComplaintQuery(c *gin.Context) (service.ListComplaintsOptions, error) {
	var opts service.ListComplaintsOptions

	if statusParam := c.Query("status"); statusParam != "" {
		for _, val := range splitCSV(statusParam) {
			opts.Statuses = append(opts.Statuses, model.ComplaintStatus(strings.ToLower(val)))
		}
	}
	if priorityParam := c.Query("priority"); priorityParam != "" {
		for _, val := range splitCSV(priorityParam) {
			opts.Priorities = append(opts.Priorities, model.ComplaintPriority(strings.ToLower(val)))
		}
	}

	var err error
	if opts.WardID, err = queryUUID(c, "ward_id"); err != nil {
		return opts, err
	}
	if opts.DepartmentID, err = queryUUID(c, "department_id"); err != nil {
		return opts, err
	}
	if opts.CategoryID, err = queryUUID(c, "category_id"); err != nil {
		return opts, err
	}
	if opts.AssigneeID, err = queryUUID(c, "assignee_id"); err != nil {
		return opts, err
	}
	if opts.DateFrom, err = queryTime(c, "date_from"); err != nil {
		return opts, err
	}
	if opts.DateTo, err = queryTime(c, "date_to"); err != nil {
		return opts, err
	}

	opts.Search = strings.TrimSpace(c.Query("search"))
	if overdue := queryBool(c, "overdue"); overdue != nil {
		opts.OverdueOnly = *overdue
	}
	opts.Limit = queryInt(c, "limit")
	opts.Offset = queryInt(c, "offset")

	return opts, nil
}
