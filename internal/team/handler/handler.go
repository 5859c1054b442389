package handler

import (
	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/team/service"
	"github.com/BollineniRohith123/GharintoLeap-sub004/platform/httpkit"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/designers", h.ListDesigners)
}

func (h *Handler) ListDesigners(c *gin.Context) {
	result, err := h.svc.ListDesigners(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}
