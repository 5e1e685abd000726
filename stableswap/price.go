package stableswap

import (
	"math/big"

	"github.com/curvelab/curve-go/shared"
	"github.com/curvelab/curve-go/u256"
)

// spotProbe picks the derivative epsilon for a pair: DERIVATIVE_EPSILON in
// the 18-decimal numeraire, floored so a coarse-decimal output token still
// quantizes to at least five digits, then converted to raw input units.
func spotProbe(ratesIn, ratesOut *big.Int) *big.Int {
	precOut := new(big.Int).Div(ratesOut, shared.Precision)
	floor := new(big.Int).Mul(big.NewInt(100_000), precOut)
	epsVal := u256.Max(shared.DerivativeEpsilon, floor)
	dx := u256.MulDiv(epsVal, shared.Precision, ratesIn, shared.RoundingDown)
	if dx.Sign() == 0 {
		return big.NewInt(1)
	}
	return dx
}

// GetSpotPrice probes the first derivative with a precision-adjusted epsilon
// and returns dy * PRECISION / dx in raw-unit terms. Quotes 0 on invalid
// indices.
func (p *Pool) GetSpotPrice(i, j int) (*big.Int, error) {
	n := p.NCoins()
	if i == j || i < 0 || i >= n || j < 0 || j >= n {
		return big.NewInt(0), nil
	}
	rates, err := p.rates()
	if err != nil {
		return nil, err
	}
	dx := spotProbe(rates[i], rates[j])
	dy, err := p.GetDy(i, j, dx)
	if err != nil {
		return nil, err
	}
	return u256.MulDiv(dy, shared.Precision, dx, shared.RoundingDown), nil
}

// GetEffectivePrice is the realized rate dy * PRECISION / dx for an actual
// trade size.
func (p *Pool) GetEffectivePrice(i, j int, dx *big.Int) (*big.Int, error) {
	if dx == nil || dx.Sign() <= 0 {
		return big.NewInt(0), nil
	}
	dy, err := p.GetDy(i, j, dx)
	if err != nil {
		return nil, err
	}
	return u256.MulDiv(dy, shared.Precision, dx, shared.RoundingDown), nil
}

// GetPriceImpact returns (spot - effective) * BPS / spot in basis points,
// clamped at zero for peg-crossing swaps whose realized rate beats spot.
func (p *Pool) GetPriceImpact(i, j int, dx *big.Int) (*big.Int, error) {
	spot, err := p.GetSpotPrice(i, j)
	if err != nil {
		return nil, err
	}
	if spot.Sign() == 0 {
		return big.NewInt(0), nil
	}
	effective, err := p.GetEffectivePrice(i, j, dx)
	if err != nil {
		return nil, err
	}
	diff := new(big.Int).Sub(spot, effective)
	if diff.Sign() <= 0 {
		return big.NewInt(0), nil
	}
	return u256.MulDiv(diff, shared.BPSDenominator, spot, shared.RoundingDown), nil
}
