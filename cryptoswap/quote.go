package cryptoswap

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// Quote bundles everything a router needs to act on a swap.
type Quote struct {
	AmountOut      *big.Int
	Fee            *big.Int // output-token units
	SpotPrice      *big.Int // PRECISION-scaled
	EffectivePrice *big.Int // PRECISION-scaled
	PriceImpact    *big.Int // basis points, clamped at 0
	PriceImpactPct decimal.Decimal
}

// QuoteSwap aggregates output, fee, prices and impact for one (i, j, dx)
// over one snapshot.
func (p *Pool) QuoteSwap(i, j int, dx *big.Int) (*Quote, error) {
	dy, fee, err := p.swapOutput(i, j, dx)
	if err != nil {
		return nil, err
	}
	return buildQuote(p, i, j, dx, dy, fee)
}

func (p *TriPool) QuoteSwap(i, j int, dx *big.Int) (*Quote, error) {
	dy, fee, err := p.swapOutput(i, j, dx)
	if err != nil {
		return nil, err
	}
	return buildQuote(p, i, j, dx, dy, fee)
}

type pricer interface {
	GetSpotPrice(i, j int) (*big.Int, error)
	GetEffectivePrice(i, j int, dx *big.Int) (*big.Int, error)
	GetPriceImpact(i, j int, dx *big.Int) (*big.Int, error)
}

func buildQuote(p pricer, i, j int, dx, dy, fee *big.Int) (*Quote, error) {
	spot, err := p.GetSpotPrice(i, j)
	if err != nil {
		return nil, err
	}
	effective, err := p.GetEffectivePrice(i, j, dx)
	if err != nil {
		return nil, err
	}
	impact, err := p.GetPriceImpact(i, j, dx)
	if err != nil {
		return nil, err
	}
	return &Quote{
		AmountOut:      dy,
		Fee:            fee,
		SpotPrice:      spot,
		EffectivePrice: effective,
		PriceImpact:    impact,
		PriceImpactPct: decimal.NewFromBigInt(impact, -2),
	}, nil
}
