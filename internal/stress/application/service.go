// Package application 压力测试服务的用例逻辑与 DTO。
package application

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/pkg/xerrors"

	portfoliodomain "github.com/wyfcoding/riskengine/internal/portfolio/domain"
	"github.com/wyfcoding/riskengine/internal/stress/domain"
)

// ApplyPresetRequest 施加命名预设请求 DTO
type ApplyPresetRequest struct {
	PresetID  string                     `json:"preset_id" binding:"required"`
	Positions []portfoliodomain.Position `json:"positions" binding:"required"`
}

// ApplyScenarioRequest 施加临时情景请求 DTO
type ApplyScenarioRequest struct {
	Scenario  domain.Scenario            `json:"scenario" binding:"required"`
	Positions []portfoliodomain.Position `json:"positions" binding:"required"`
}

// StressDTO 压力测试结果：冲击前后组合估值对照与损益冲击。
type StressDTO struct {
	PresetID          string                           `json:"preset_id,omitempty"`
	ScenarioName      string                           `json:"scenario_name"`
	ShocksApplied     []string                         `json:"shocks_applied"`
	BaseValue         decimal.Decimal                  `json:"base_value"`
	StressedValue     decimal.Decimal                  `json:"stressed_value"`
	PnLImpact         decimal.Decimal                  `json:"pnl_impact"`
	StressedPortfolio *portfoliodomain.AggregateResult `json:"stressed_portfolio"`
	InputHash         string                           `json:"input_hash"`
	StressedInputHash string                           `json:"stressed_input_hash"`
}

// Service 压力测试应用服务
type Service struct {
	engine *domain.Engine
	logger *slog.Logger
}

// NewService 创建压力测试应用服务。
func NewService(logger *slog.Logger) *Service {
	return &Service{engine: domain.NewEngine(), logger: logger}
}

// Presets 返回全部命名预设。
func (s *Service) Presets(ctx context.Context) []domain.Scenario {
	return s.engine.Presets()
}

// ApplyPreset 对组合施加命名预设并汇总冲击前后估值。
func (s *Service) ApplyPreset(ctx context.Context, req ApplyPresetRequest) (*StressDTO, error) {
	if len(req.Positions) == 0 {
		return nil, xerrors.ErrEmptyData
	}
	result, err := s.engine.ApplyPreset(req.PresetID, req.Positions)
	if err != nil {
		return nil, err
	}
	return s.toDTO(ctx, req.Positions, result), nil
}

// ApplyScenario 对组合施加临时情景并汇总冲击前后估值。
func (s *Service) ApplyScenario(ctx context.Context, req ApplyScenarioRequest) (*StressDTO, error) {
	if len(req.Positions) == 0 {
		return nil, xerrors.ErrEmptyData
	}
	result, err := domain.ApplyScenario(req.Scenario, req.Positions)
	if err != nil {
		return nil, err
	}
	return s.toDTO(ctx, req.Positions, result), nil
}

func (s *Service) toDTO(ctx context.Context, base []portfoliodomain.Position, result *domain.Result) *StressDTO {
	baseAgg := portfoliodomain.Aggregate(base)
	stressedAgg := portfoliodomain.Aggregate(result.Portfolio)
	impact := stressedAgg.TotalValue - baseAgg.TotalValue

	s.logger.DebugContext(ctx, "stress scenario applied",
		"scenario", result.ScenarioName, "shocks", result.ShocksApplied,
		"base_value", baseAgg.TotalValue, "stressed_value", stressedAgg.TotalValue)

	return &StressDTO{
		PresetID:          result.PresetID,
		ScenarioName:      result.ScenarioName,
		ShocksApplied:     result.ShocksApplied,
		BaseValue:         decimal.NewFromFloat(baseAgg.TotalValue),
		StressedValue:     decimal.NewFromFloat(stressedAgg.TotalValue),
		PnLImpact:         decimal.NewFromFloat(impact),
		StressedPortfolio: stressedAgg,
		InputHash:         result.InputHash,
		StressedInputHash: result.StressedInputHash,
	}
}
