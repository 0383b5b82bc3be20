package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/response"

	"github.com/wyfcoding/riskengine/internal/bond/application"
)

// BondHandler 负责处理债券分析相关的 HTTP 请求
type BondHandler struct {
	svc *application.Service
}

// NewBondHandler 创建 HTTP 处理器。
func NewBondHandler(svc *application.Service) *BondHandler {
	return &BondHandler{svc: svc}
}

// RegisterRoutes 注册路由。
func (h *BondHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/api/v1/bonds")
	{
		api.POST("/metrics", h.Metrics)
		api.POST("/yield", h.Yield)
	}
}

// Metrics 计算债券价格与风险指标
func (h *BondHandler) Metrics(c *gin.Context) {
	var req application.MetricsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	dto, err := h.svc.Metrics(c.Request.Context(), req)
	if err != nil {
		logging.Error(c.Request.Context(), "Failed to compute bond metrics", "error", err)
		response.Error(c, err)
		return
	}
	response.Success(c, dto)
}

// Yield 反解到期收益率
func (h *BondHandler) Yield(c *gin.Context) {
	var req application.YieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	dto, err := h.svc.Yield(c.Request.Context(), req)
	if err != nil {
		logging.Error(c.Request.Context(), "Failed to solve yield", "error", err)
		response.Error(c, err)
		return
	}
	response.Success(c, dto)
}
