package sizing

import (
	"OptEdge/internal/domain/models"
	domsvc "OptEdge/internal/domain/service"
	"OptEdge/internal/services/features"

	"github.com/shopspring/decimal"
)

// ContractMultiplier is the number of shares per listed contract.
const ContractMultiplier = 100

const (
	minKellyFraction = 0.01
	maxKellyFraction = 0.25

	coveredCallShare = 0.05
	cashPutShare     = 0.10
)

// KellyPolicy sizes by the capped Kelly fraction of a fixed risk budget.
type KellyPolicy struct {
	RiskBudget float64
}

func NewKellyPolicy(riskBudget float64) *KellyPolicy { return &KellyPolicy{RiskBudget: riskBudget} }

// KellyFraction is c - (1-c) bounded to [0.01, 0.25].
func KellyFraction(confidence float64) float64 {
	c := decimal.NewFromFloat(confidence)
	f, _ := c.Sub(decimal.NewFromInt(1).Sub(c)).Float64()
	return features.Clamp(f, minKellyFraction, maxKellyFraction)
}

func (p *KellyPolicy) Size(in domsvc.SizingInput) int {
	price := decimal.NewFromFloat(in.Premium).Mul(decimal.NewFromInt(ContractMultiplier))
	if !price.IsPositive() {
		return 1
	}
	budget := decimal.NewFromFloat(p.RiskBudget).Mul(decimal.NewFromFloat(KellyFraction(in.Confidence)))
	return atLeastOne(budget.Div(price))
}

// AllocationPolicy sizes covered calls from the equity sleeve and cash-secured puts
// from the cash sleeve of a notional portfolio.
type AllocationPolicy struct {
	PortfolioValue   float64
	EquityAllocation float64
	CashAllocation   float64
	MaxContracts     int
}

func NewAllocationPolicy(portfolio, equityAlloc, cashAlloc float64, maxContracts int) *AllocationPolicy {
	if maxContracts < 1 {
		maxContracts = 5
	}
	return &AllocationPolicy{
		PortfolioValue:   portfolio,
		EquityAllocation: equityAlloc,
		CashAllocation:   cashAlloc,
		MaxContracts:     maxContracts,
	}
}

func (p *AllocationPolicy) Size(in domsvc.SizingInput) int {
	portfolio := decimal.NewFromFloat(p.PortfolioValue)
	var budget, notional decimal.Decimal
	switch in.ContractType {
	case models.Call:
		budget = portfolio.Mul(decimal.NewFromFloat(coveredCallShare)).Mul(decimal.NewFromFloat(p.EquityAllocation))
		notional = decimal.NewFromFloat(in.Spot).Mul(decimal.NewFromInt(ContractMultiplier))
	case models.Put:
		budget = portfolio.Mul(decimal.NewFromFloat(cashPutShare)).Mul(decimal.NewFromFloat(p.CashAllocation))
		notional = decimal.NewFromFloat(in.Strike).Mul(decimal.NewFromInt(ContractMultiplier))
	default:
		return 1
	}
	if !notional.IsPositive() {
		return 1
	}
	return min(atLeastOne(budget.Div(notional)), p.MaxContracts)
}

func atLeastOne(ratio decimal.Decimal) int {
	n := ratio.Floor().IntPart()
	if n < 1 {
		return 1
	}
	return int(n)
}

var (
	_ domsvc.SizingPolicy = (*KellyPolicy)(nil)
	_ domsvc.SizingPolicy = (*AllocationPolicy)(nil)
)
