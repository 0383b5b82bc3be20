// Package application 债券分析服务的用例逻辑与 DTO。
package application

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/wyfcoding/riskengine/internal/bond/domain"
)

// MetricsRequest 债券风险指标请求 DTO
type MetricsRequest struct {
	FaceValue       float64 `json:"face_value"`
	CouponRate      float64 `json:"coupon_rate"`
	YearsToMaturity float64 `json:"years_to_maturity"`
	YieldToMaturity float64 `json:"yield_to_maturity"`
	PeriodsPerYear  int     `json:"periods_per_year"`
}

// YieldRequest 反解到期收益率请求 DTO
type YieldRequest struct {
	FaceValue       float64 `json:"face_value"`
	CouponRate      float64 `json:"coupon_rate"`
	YearsToMaturity float64 `json:"years_to_maturity"`
	PeriodsPerYear  int     `json:"periods_per_year"`
	MarketPrice     float64 `json:"market_price"`
}

// MetricsDTO 债券风险指标结果
type MetricsDTO struct {
	Price            decimal.Decimal `json:"price"`
	MacaulayDuration decimal.Decimal `json:"macaulay_duration"`
	ModifiedDuration decimal.Decimal `json:"modified_duration"`
	Convexity        decimal.Decimal `json:"convexity"`
}

// YieldDTO 到期收益率结果
type YieldDTO struct {
	YieldToMaturity decimal.Decimal `json:"yield_to_maturity"`
	Converged       bool            `json:"converged"`
}

// Service 债券应用服务
type Service struct {
	logger *slog.Logger
}

// NewService 创建债券应用服务。
func NewService(logger *slog.Logger) *Service {
	return &Service{logger: logger}
}

func terms(face, coupon, years float64, periods int) domain.Terms {
	return domain.Terms{
		FaceValue:      face,
		CouponRate:     coupon,
		Years:          years,
		PeriodsPerYear: periods,
	}
}

// Metrics 计算债券价格、久期与凸性。
func (s *Service) Metrics(ctx context.Context, req MetricsRequest) (*MetricsDTO, error) {
	m, err := domain.ComputeRiskMetrics(
		terms(req.FaceValue, req.CouponRate, req.YearsToMaturity, req.PeriodsPerYear),
		req.YieldToMaturity,
	)
	if err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "bond metrics computed",
		"face_value", req.FaceValue, "ytm", req.YieldToMaturity, "price", m.Price)

	return &MetricsDTO{
		Price:            decimal.NewFromFloat(m.Price),
		MacaulayDuration: decimal.NewFromFloat(m.MacaulayDuration),
		ModifiedDuration: decimal.NewFromFloat(m.ModifiedDuration),
		Convexity:        decimal.NewFromFloat(m.Convexity),
	}, nil
}

// Yield 由市场价格反解到期收益率。
func (s *Service) Yield(ctx context.Context, req YieldRequest) (*YieldDTO, error) {
	ytm, converged, err := domain.YieldFromPrice(
		terms(req.FaceValue, req.CouponRate, req.YearsToMaturity, req.PeriodsPerYear),
		req.MarketPrice,
	)
	if err != nil {
		return nil, err
	}
	if !converged {
		s.logger.WarnContext(ctx, "yield solver hit iteration cap",
			"market_price", req.MarketPrice, "best_estimate", ytm)
	}

	return &YieldDTO{
		YieldToMaturity: decimal.NewFromFloat(ytm),
		Converged:       converged,
	}, nil
}
