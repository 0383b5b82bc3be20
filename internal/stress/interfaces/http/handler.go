package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/response"

	"github.com/wyfcoding/riskengine/internal/stress/application"
)

// StressHandler 负责处理压力测试相关的 HTTP 请求
type StressHandler struct {
	svc *application.Service
}

// NewStressHandler 创建 HTTP 处理器。
func NewStressHandler(svc *application.Service) *StressHandler {
	return &StressHandler{svc: svc}
}

// RegisterRoutes 注册路由。
func (h *StressHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/api/v1/stress")
	{
		api.GET("/presets", h.Presets)
		api.POST("/apply", h.ApplyPreset)
		api.POST("/scenario", h.ApplyScenario)
	}
}

// Presets 列出全部命名预设
func (h *StressHandler) Presets(c *gin.Context) {
	response.Success(c, h.svc.Presets(c.Request.Context()))
}

// ApplyPreset 施加命名预设
func (h *StressHandler) ApplyPreset(c *gin.Context) {
	var req application.ApplyPresetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	dto, err := h.svc.ApplyPreset(c.Request.Context(), req)
	if err != nil {
		logging.Error(c.Request.Context(), "Failed to apply stress preset", "error", err)
		response.Error(c, err)
		return
	}
	response.Success(c, dto)
}

// ApplyScenario 施加临时情景
func (h *StressHandler) ApplyScenario(c *gin.Context) {
	var req application.ApplyScenarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	dto, err := h.svc.ApplyScenario(c.Request.Context(), req)
	if err != nil {
		logging.Error(c.Request.Context(), "Failed to apply stress scenario", "error", err)
		response.Error(c, err)
		return
	}
	response.Success(c, dto)
}
