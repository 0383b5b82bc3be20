// Package application 风险计算服务的用例逻辑与 DTO。
package application

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/wyfcoding/riskengine/internal/risk/domain"
)

// VaRRequest 单资产 VaR 请求 DTO。按方法取用相应字段。
type VaRRequest struct {
	Method          string    `json:"method" binding:"required"`
	PortfolioValue  float64   `json:"portfolio_value"`
	AnnualVol       float64   `json:"annual_volatility,omitempty"`
	Returns         []float64 `json:"historical_returns,omitempty"`
	ConfidenceLevel float64   `json:"confidence_level"`
	HorizonDays     int       `json:"horizon_days"`
}

// VaRDTO 单资产 VaR 结果
type VaRDTO struct {
	Method          string          `json:"method"`
	VaR             decimal.Decimal `json:"var"`
	ConfidenceLevel float64         `json:"confidence_level"`
	HorizonDays     int             `json:"horizon_days"`
}

// PortfolioVaRRequest 多资产关联蒙特卡洛请求 DTO
type PortfolioVaRRequest struct {
	Assets          []AssetDTO  `json:"assets" binding:"required"`
	Correlation     [][]float64 `json:"correlation_matrix" binding:"required"`
	ConfidenceLevel float64     `json:"confidence_level"`
	HorizonDays     int         `json:"horizon_days"`
}

// AssetDTO 多资产模拟中的单项资产
type AssetDTO struct {
	Symbol         string  `json:"symbol"`
	Value          float64 `json:"value"`
	Volatility     float64 `json:"volatility"`
	ExpectedReturn float64 `json:"expected_return"`
}

// PortfolioVaRDTO 多资产关联蒙特卡洛结果
type PortfolioVaRDTO struct {
	TotalValue        decimal.Decimal `json:"total_value"`
	VaR               decimal.Decimal `json:"var"`
	ExpectedShortfall decimal.Decimal `json:"expected_shortfall"`
	Paths             int             `json:"simulation_paths"`
}

// Service 风险计算应用服务
type Service struct {
	logger *slog.Logger
}

// NewService 创建风险计算应用服务。
func NewService(logger *slog.Logger) *Service {
	return &Service{logger: logger}
}

// ComputeVaR 按指定方法计算单资产 VaR。
func (s *Service) ComputeVaR(ctx context.Context, req VaRRequest) (*VaRDTO, error) {
	method, err := domain.ParseMethod(req.Method)
	if err != nil {
		return nil, err
	}

	horizon := req.HorizonDays
	if horizon == 0 {
		horizon = 1
	}

	v, err := domain.Compute(method, domain.Input{
		Value:       req.PortfolioValue,
		AnnualVol:   req.AnnualVol,
		Returns:     req.Returns,
		HorizonDays: horizon,
	}, req.ConfidenceLevel)
	if err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "var computed",
		"method", method, "confidence", req.ConfidenceLevel, "var", v)

	return &VaRDTO{
		Method:          string(method),
		VaR:             decimal.NewFromFloat(v),
		ConfidenceLevel: req.ConfidenceLevel,
		HorizonDays:     horizon,
	}, nil
}

// PortfolioVaR 多资产关联蒙特卡洛 VaR 与预期短缺。
func (s *Service) PortfolioVaR(ctx context.Context, req PortfolioVaRRequest) (*PortfolioVaRDTO, error) {
	assets := make([]domain.Asset, len(req.Assets))
	for i, a := range req.Assets {
		assets[i] = domain.Asset{
			Symbol:         a.Symbol,
			Value:          a.Value,
			Volatility:     a.Volatility,
			ExpectedReturn: a.ExpectedReturn,
		}
	}

	horizon := req.HorizonDays
	if horizon == 0 {
		horizon = 1
	}

	result, err := domain.CorrelatedMonteCarloVaR(domain.CorrelatedInput{
		Assets:      assets,
		Correlation: req.Correlation,
		HorizonDays: horizon,
		Confidence:  req.ConfidenceLevel,
	})
	if err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "portfolio var computed",
		"assets", len(assets), "var", result.VaR, "es", result.ExpectedShortfall)

	return &PortfolioVaRDTO{
		TotalValue:        decimal.NewFromFloat(result.TotalValue),
		VaR:               decimal.NewFromFloat(result.VaR),
		ExpectedShortfall: decimal.NewFromFloat(result.ExpectedShortfall),
		Paths:             domain.MonteCarloPaths,
	}, nil
}
