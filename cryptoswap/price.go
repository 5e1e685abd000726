package cryptoswap

import (
	"math/big"

	"github.com/curvelab/curve-go/shared"
	"github.com/curvelab/curve-go/u256"
)

// GetSpotPrice probes the first derivative with a precision-adjusted epsilon
// and returns dy * PRECISION / dx.
func (p *Pool) GetSpotPrice(i, j int) (*big.Int, error) {
	if i == j || i < 0 || i > 1 || j < 0 || j > 1 {
		return big.NewInt(0), nil
	}
	return spotPrice(func(dx *big.Int) (*big.Int, error) {
		return p.GetDy(i, j, dx)
	}, p.precision(i), p.precision(j))
}

func (p *TriPool) GetSpotPrice(i, j int) (*big.Int, error) {
	if i == j || i < 0 || i > 2 || j < 0 || j > 2 {
		return big.NewInt(0), nil
	}
	return spotPrice(func(dx *big.Int) (*big.Int, error) {
		return p.GetDy(i, j, dx)
	}, p.precision(i), p.precision(j))
}

// spotPrice probes the derivative with DERIVATIVE_EPSILON in the numeraire,
// floored so a coarse-decimal output still quantizes to at least five digits.
func spotPrice(quote func(*big.Int) (*big.Int, error), precisionIn, precisionOut *big.Int) (*big.Int, error) {
	epsVal := u256.Max(shared.DerivativeEpsilon, new(big.Int).Mul(big.NewInt(100_000), precisionOut))
	dx := new(big.Int).Div(epsVal, precisionIn)
	if dx.Sign() == 0 {
		dx = big.NewInt(1)
	}
	dy, err := quote(dx)
	if err != nil {
		return nil, err
	}
	return u256.MulDiv(dy, shared.Precision, dx, shared.RoundingDown), nil
}

// GetEffectivePrice is the realized rate dy * PRECISION / dx for an actual
// trade size.
func (p *Pool) GetEffectivePrice(i, j int, dx *big.Int) (*big.Int, error) {
	return effectivePrice(func(v *big.Int) (*big.Int, error) {
		return p.GetDy(i, j, v)
	}, dx)
}

func (p *TriPool) GetEffectivePrice(i, j int, dx *big.Int) (*big.Int, error) {
	return effectivePrice(func(v *big.Int) (*big.Int, error) {
		return p.GetDy(i, j, v)
	}, dx)
}

func effectivePrice(quote func(*big.Int) (*big.Int, error), dx *big.Int) (*big.Int, error) {
	if dx == nil || dx.Sign() <= 0 {
		return big.NewInt(0), nil
	}
	dy, err := quote(dx)
	if err != nil {
		return nil, err
	}
	return u256.MulDiv(dy, shared.Precision, dx, shared.RoundingDown), nil
}

// GetPriceImpact returns (spot - effective) * BPS / spot in basis points,
// clamped at zero.
func (p *Pool) GetPriceImpact(i, j int, dx *big.Int) (*big.Int, error) {
	spot, err := p.GetSpotPrice(i, j)
	if err != nil {
		return nil, err
	}
	effective, err := p.GetEffectivePrice(i, j, dx)
	if err != nil {
		return nil, err
	}
	return priceImpact(spot, effective), nil
}

func (p *TriPool) GetPriceImpact(i, j int, dx *big.Int) (*big.Int, error) {
	spot, err := p.GetSpotPrice(i, j)
	if err != nil {
		return nil, err
	}
	effective, err := p.GetEffectivePrice(i, j, dx)
	if err != nil {
		return nil, err
	}
	return priceImpact(spot, effective), nil
}

func priceImpact(spot, effective *big.Int) *big.Int {
	if spot.Sign() == 0 {
		return big.NewInt(0)
	}
	diff := new(big.Int).Sub(spot, effective)
	if diff.Sign() <= 0 {
		return big.NewInt(0)
	}
	return u256.MulDiv(diff, shared.BPSDenominator, spot, shared.RoundingDown)
}
