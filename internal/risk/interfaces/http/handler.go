package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/response"

	"github.com/wyfcoding/riskengine/internal/risk/application"
)

// RiskHandler 负责处理 VaR 计算相关的 HTTP 请求
type RiskHandler struct {
	svc *application.Service
}

// NewRiskHandler 创建 HTTP 处理器。
func NewRiskHandler(svc *application.Service) *RiskHandler {
	return &RiskHandler{svc: svc}
}

// RegisterRoutes 注册路由。
func (h *RiskHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/api/v1/var")
	{
		api.POST("/compute", h.ComputeVaR)
		api.POST("/portfolio", h.PortfolioVaR)
	}
}

// ComputeVaR 单资产 VaR（参数法/历史法/蒙特卡洛）
func (h *RiskHandler) ComputeVaR(c *gin.Context) {
	var req application.VaRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	dto, err := h.svc.ComputeVaR(c.Request.Context(), req)
	if err != nil {
		logging.Error(c.Request.Context(), "Failed to compute VaR", "error", err)
		response.Error(c, err)
		return
	}
	response.Success(c, dto)
}

// PortfolioVaR 多资产关联蒙特卡洛 VaR
func (h *RiskHandler) PortfolioVaR(c *gin.Context) {
	var req application.PortfolioVaRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	dto, err := h.svc.PortfolioVaR(c.Request.Context(), req)
	if err != nil {
		logging.Error(c.Request.Context(), "Failed to compute portfolio VaR", "error", err)
		response.Error(c, err)
		return
	}
	response.Success(c, dto)
}
