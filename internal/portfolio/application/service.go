// Package application 组合分析服务的用例逻辑与 DTO。
package application

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/pkg/xerrors"

	"github.com/wyfcoding/riskengine/internal/portfolio/domain"
	riskdomain "github.com/wyfcoding/riskengine/internal/risk/domain"
)

// PortfolioRequest 组合请求 DTO。持仓结构直接复用领域模型的 JSON 形态。
type PortfolioRequest struct {
	Positions []domain.Position `json:"positions" binding:"required"`
}

// VaRRequest 组合 VaR 请求 DTO。组合市值由持仓聚合得到，
// 历史法需要提供历史价格序列，参数法/蒙特卡洛需要年化波动率。
type VaRRequest struct {
	Positions        []domain.Position `json:"positions" binding:"required"`
	Method           string            `json:"method" binding:"required"`
	AnnualVol        float64           `json:"annual_volatility,omitempty"`
	HistoricalPrices []float64         `json:"historical_prices,omitempty"`
	ConfidenceLevel  float64           `json:"confidence_level"`
	HorizonDays      int               `json:"horizon_days"`
}

// PnLDTO 组合损益结果
type PnLDTO struct {
	TotalPnL decimal.Decimal `json:"total_pnl"`
}

// VaRDTO 组合 VaR 结果
type VaRDTO struct {
	Method          string          `json:"method"`
	PortfolioValue  decimal.Decimal `json:"portfolio_value"`
	VaR             decimal.Decimal `json:"var"`
	ConfidenceLevel float64         `json:"confidence_level"`
	HorizonDays     int             `json:"horizon_days"`
}

// Service 组合应用服务
type Service struct {
	logger *slog.Logger
}

// NewService 创建组合应用服务。
func NewService(logger *slog.Logger) *Service {
	return &Service{logger: logger}
}

// Aggregate 聚合组合估值、损益、敞口与行业分布。
func (s *Service) Aggregate(ctx context.Context, req PortfolioRequest) (*domain.AggregateResult, error) {
	if len(req.Positions) == 0 {
		return nil, xerrors.ErrEmptyData
	}
	result := domain.Aggregate(req.Positions)

	s.logger.DebugContext(ctx, "portfolio aggregated",
		"positions", len(req.Positions), "failures", len(result.Failures),
		"total_value", result.TotalValue)
	return result, nil
}

// PnL 组合总损益。
func (s *Service) PnL(ctx context.Context, req PortfolioRequest) (*PnLDTO, error) {
	if len(req.Positions) == 0 {
		return nil, xerrors.ErrEmptyData
	}
	return &PnLDTO{TotalPnL: decimal.NewFromFloat(domain.PnL(req.Positions))}, nil
}

// ComputeVaR 先聚合组合市值，再按指定方法计算 VaR。
// 提供历史价格序列时转换为简单收益率供历史模拟法使用。
func (s *Service) ComputeVaR(ctx context.Context, req VaRRequest) (*VaRDTO, error) {
	if len(req.Positions) == 0 {
		return nil, xerrors.ErrEmptyData
	}
	method, err := riskdomain.ParseMethod(req.Method)
	if err != nil {
		return nil, err
	}

	aggregated := domain.Aggregate(req.Positions)
	if len(aggregated.Failures) == len(req.Positions) {
		return nil, xerrors.ErrInvalidInput
	}

	horizon := req.HorizonDays
	if horizon == 0 {
		horizon = 1
	}

	returns, err := pricesToReturns(req.HistoricalPrices)
	if err != nil {
		return nil, err
	}

	v, err := riskdomain.Compute(method, riskdomain.Input{
		Value:       aggregated.TotalValue,
		AnnualVol:   req.AnnualVol,
		Returns:     returns,
		HorizonDays: horizon,
	}, req.ConfidenceLevel)
	if err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "portfolio var computed",
		"method", method, "portfolio_value", aggregated.TotalValue, "var", v)

	return &VaRDTO{
		Method:          string(method),
		PortfolioValue:  decimal.NewFromFloat(aggregated.TotalValue),
		VaR:             decimal.NewFromFloat(v),
		ConfidenceLevel: req.ConfidenceLevel,
		HorizonDays:     horizon,
	}, nil
}

// pricesToReturns 价格序列转简单收益率：r_i = p_i/p_{i-1} - 1。
func pricesToReturns(prices []float64) ([]float64, error) {
	if len(prices) == 0 {
		return nil, nil
	}
	if len(prices) < 2 {
		return nil, xerrors.ErrInvalidInput
	}
	returns := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] <= 0 {
			return nil, xerrors.ErrInvalidInput
		}
		returns = append(returns, prices[i]/prices[i-1]-1)
	}
	return returns, nil
}
