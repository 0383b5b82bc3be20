package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/response"

	"github.com/wyfcoding/riskengine/internal/curve/application"
)

// CurveHandler 负责处理利率曲线相关的 HTTP 请求
type CurveHandler struct {
	svc *application.Service
}

// NewCurveHandler 创建 HTTP 处理器。
func NewCurveHandler(svc *application.Service) *CurveHandler {
	return &CurveHandler{svc: svc}
}

// RegisterRoutes 注册路由。
func (h *CurveHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/api/v1/curves")
	{
		api.POST("/bootstrap", h.Bootstrap)
		api.POST("/bond-price", h.BondPrice)
	}
}

// Bootstrap 自举零息曲线
func (h *CurveHandler) Bootstrap(c *gin.Context) {
	var req application.BootstrapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	dto, err := h.svc.Bootstrap(c.Request.Context(), req)
	if err != nil {
		logging.Error(c.Request.Context(), "Failed to bootstrap curve", "error", err)
		response.Error(c, err)
		return
	}
	response.Success(c, dto)
}

// BondPrice 用自举曲线为债券定价
func (h *CurveHandler) BondPrice(c *gin.Context) {
	var req application.BondPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	dto, err := h.svc.BondPrice(c.Request.Context(), req)
	if err != nil {
		logging.Error(c.Request.Context(), "Failed to price bond off curve", "error", err)
		response.Error(c, err)
		return
	}
	response.Success(c, dto)
}
