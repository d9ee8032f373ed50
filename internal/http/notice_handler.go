package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"citizen-service/internal/http/middleware"
	"citizen-service/internal/model"
	"citizen-service/internal/service"
)

func (h *Handler) listNotices(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	var opts service.ListNoticesOptions
	if statusParam := c.Query("status"); statusParam != "" {
		for _, val := range splitCSV(statusParam) {
			opts.Statuses = append(opts.Statuses, model.NoticeStatus(strings.ToLower(val)))
		}
	}
	if typeParam := c.Query("type"); typeParam != "" {
		for _, val := range splitCSV(typeParam) {
			opts.Types = append(opts.Types, model.NoticeType(strings.ToLower(val)))
		}
	}
	opts.Urgent = queryBool(c, "urgent")
	opts.Featured = queryBool(c, "featured")
	opts.Search = strings.TrimSpace(c.Query("search"))
	opts.Limit = queryInt(c, "limit")
	opts.Offset = queryInt(c, "offset")

	notices, err := h.noticeService.List(c.Request.Context(), principal, opts)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"items": notices}))
}

func (h *Handler) getNotice(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	slug := strings.TrimSpace(c.Param("slug"))
	if slug == "" {
		c.JSON(http.StatusBadRequest, errorResponse("invalid slug"))
		return
	}

	notice, err := h.noticeService.GetBySlug(c.Request.Context(), principal, slug)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(notice))
}

type noticePayload struct {
	Title        string   `json:"title" binding:"required"`
	TitleLocal   string   `json:"title_local"`
	Content      string   `json:"content" binding:"required"`
	ContentLocal string   `json:"content_local"`
	NoticeType   string   `json:"notice_type"`
	Urgent       bool     `json:"urgent"`
	Featured     bool     `json:"featured"`
	Tags         []string `json:"tags"`
	WardIDs      []string `json:"ward_ids"`
	DepartmentID *string  `json:"department_id"`
	ExpiresAt    *string  `json:"expires_at"`
}

func (p noticePayload) toInput() (service.NoticeInput, error) {
	input := service.NoticeInput{
		Title:        p.Title,
		TitleLocal:   p.TitleLocal,
		Content:      p.Content,
		ContentLocal: p.ContentLocal,
		NoticeType:   model.NoticeType(strings.ToLower(strings.TrimSpace(p.NoticeType))),
		Urgent:       p.Urgent,
		Featured:     p.Featured,
		Tags:         p.Tags,
	}
	for _, raw := range p.WardIDs {
		id, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			return input, err
		}
		input.WardIDs = append(input.WardIDs, id)
	}
	if p.DepartmentID != nil {
		id, err := uuid.Parse(strings.TrimSpace(*p.DepartmentID))
		if err != nil {
			return input, err
		}
		input.DepartmentID = &id
	}
	if p.ExpiresAt != nil {
		ts, err := time.Parse(time.RFC3339, strings.TrimSpace(*p.ExpiresAt))
		if err != nil {
			return input, err
		}
		input.ExpiresAt = &ts
	}
	return input, nil
}

func (h *Handler) createNotice(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	var req noticePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}
	input, err := req.toInput()
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	notice, err := h.noticeService.Create(c.Request.Context(), principal, input)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse(notice))
}

func (h *Handler) updateNotice(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req noticePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}
	input, err := req.toInput()
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	notice, err := h.noticeService.Update(c.Request.Context(), principal, id, input)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(notice))
}

func (h *Handler) publishNotice(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	notice, err := h.noticeService.Publish(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(notice))
}

func (h *Handler) archiveNotice(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	notice, err := h.noticeService.Archive(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(notice))
}
