// Package application 期权定价服务的用例逻辑与 DTO。
package application

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/wyfcoding/riskengine/internal/option/domain"
)

// PriceRequest 期权定价请求 DTO
type PriceRequest struct {
	UnderlyingPrice float64 `json:"underlying_price"`
	Strike          float64 `json:"strike"`
	TimeToMaturity  float64 `json:"time_to_maturity"` // 年
	RiskFreeRate    float64 `json:"risk_free_rate"`
	Volatility      float64 `json:"volatility"`
	OptionType      string  `json:"option_type" binding:"required"`
}

// PriceDTO 期权定价结果
type PriceDTO struct {
	Price      decimal.Decimal `json:"price"`
	OptionType string          `json:"option_type"`
}

// GreeksDTO 希腊字母结果
type GreeksDTO struct {
	Delta decimal.Decimal `json:"delta"`
	Gamma decimal.Decimal `json:"gamma"`
	Vega  decimal.Decimal `json:"vega"`
	Theta decimal.Decimal `json:"theta"`
	Rho   decimal.Decimal `json:"rho"`
}

// Service 期权应用服务
type Service struct {
	logger *slog.Logger
}

// NewService 创建期权应用服务。
func NewService(logger *slog.Logger) *Service {
	return &Service{logger: logger}
}

func (req PriceRequest) toDomain() domain.PricingInput {
	return domain.PricingInput{
		S:     req.UnderlyingPrice,
		K:     req.Strike,
		T:     req.TimeToMaturity,
		R:     req.RiskFreeRate,
		Sigma: req.Volatility,
	}
}

// Price 计算期权理论价格。
func (s *Service) Price(ctx context.Context, req PriceRequest) (*PriceDTO, error) {
	optType, err := domain.ParseOptionType(req.OptionType)
	if err != nil {
		return nil, err
	}
	price, err := domain.Price(optType, req.toDomain())
	if err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "option priced",
		"option_type", optType, "strike", req.Strike, "price", price)

	return &PriceDTO{
		Price:      decimal.NewFromFloat(price),
		OptionType: string(optType),
	}, nil
}

// Greeks 计算期权希腊字母。
func (s *Service) Greeks(ctx context.Context, req PriceRequest) (*GreeksDTO, error) {
	optType, err := domain.ParseOptionType(req.OptionType)
	if err != nil {
		return nil, err
	}
	g, err := domain.ComputeGreeks(optType, req.toDomain())
	if err != nil {
		return nil, err
	}

	return &GreeksDTO{
		Delta: decimal.NewFromFloat(g.Delta),
		Gamma: decimal.NewFromFloat(g.Gamma),
		Vega:  decimal.NewFromFloat(g.Vega),
		Theta: decimal.NewFromFloat(g.Theta),
		Rho:   decimal.NewFromFloat(g.Rho),
	}, nil
}
