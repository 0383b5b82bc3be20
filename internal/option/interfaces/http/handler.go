package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/response"

	"github.com/wyfcoding/riskengine/internal/option/application"
)

// OptionHandler 负责处理期权定价相关的 HTTP 请求
type OptionHandler struct {
	svc *application.Service
}

// NewOptionHandler 创建 HTTP 处理器。
func NewOptionHandler(svc *application.Service) *OptionHandler {
	return &OptionHandler{svc: svc}
}

// RegisterRoutes 注册路由。
func (h *OptionHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/api/v1/options")
	{
		api.POST("/price", h.Price)
		api.POST("/greeks", h.Greeks)
	}
}

// Price 计算期权价格
func (h *OptionHandler) Price(c *gin.Context) {
	var req application.PriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	dto, err := h.svc.Price(c.Request.Context(), req)
	if err != nil {
		logging.Error(c.Request.Context(), "Failed to price option", "error", err)
		response.Error(c, err)
		return
	}
	response.Success(c, dto)
}

// Greeks 计算希腊字母
func (h *OptionHandler) Greeks(c *gin.Context) {
	var req application.PriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	dto, err := h.svc.Greeks(c.Request.Context(), req)
	if err != nil {
		logging.Error(c.Request.Context(), "Failed to calculate greeks", "error", err)
		response.Error(c, err)
		return
	}
	response.Success(c, dto)
}
