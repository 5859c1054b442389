package handler

import (
	"net/http"

	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/projects/service"
	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/projects/transport"
	"github.com/BollineniRohith123/GharintoLeap-sub004/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
}

func (h *Handler) List(c *gin.Context) {
	var req transport.ListProjectsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid query parameters", err.Error())
		return
	}

	query := service.ListQuery{
		Status:   req.Status,
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if req.AssignedTo != "" {
		id, err := uuid.Parse(req.AssignedTo)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid assignedTo filter", nil)
			return
		}
		query.AssignedTo = &id
	}

	resp, err := h.svc.List(c.Request.Context(), query)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid project id", nil)
		return
	}

	resp, err := h.svc.Get(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}
