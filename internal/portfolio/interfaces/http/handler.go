package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/response"

	"github.com/wyfcoding/riskengine/internal/portfolio/application"
)

// PortfolioHandler 负责处理组合分析相关的 HTTP 请求
type PortfolioHandler struct {
	svc *application.Service
}

// NewPortfolioHandler 创建 HTTP 处理器。
func NewPortfolioHandler(svc *application.Service) *PortfolioHandler {
	return &PortfolioHandler{svc: svc}
}

// RegisterRoutes 注册路由。
func (h *PortfolioHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/api/v1/portfolio")
	{
		api.POST("/aggregate", h.Aggregate)
		api.POST("/pnl", h.PnL)
		api.POST("/var", h.ComputeVaR)
	}
}

// Aggregate 组合聚合
func (h *PortfolioHandler) Aggregate(c *gin.Context) {
	var req application.PortfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	result, err := h.svc.Aggregate(c.Request.Context(), req)
	if err != nil {
		logging.Error(c.Request.Context(), "Failed to aggregate portfolio", "error", err)
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// PnL 组合损益
func (h *PortfolioHandler) PnL(c *gin.Context) {
	var req application.PortfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	dto, err := h.svc.PnL(c.Request.Context(), req)
	if err != nil {
		logging.Error(c.Request.Context(), "Failed to compute portfolio pnl", "error", err)
		response.Error(c, err)
		return
	}
	response.Success(c, dto)
}

// ComputeVaR 组合 VaR
func (h *PortfolioHandler) ComputeVaR(c *gin.Context) {
	var req application.VaRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	dto, err := h.svc.ComputeVaR(c.Request.Context(), req)
	if err != nil {
		logging.Error(c.Request.Context(), "Failed to compute portfolio VaR", "error", err)
		response.Error(c, err)
		return
	}
	response.Success(c, dto)
}
