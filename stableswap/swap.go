package stableswap

import (
	"math/big"

	"github.com/curvelab/curve-go/shared"
	"github.com/curvelab/curve-go/u256"
)

// GetDy quotes the output of swapping dx of coin i into coin j, fees
// included. Invalid indices or a zero dx quote 0; kernel failures propagate.
// Every snapshot takes the same exact-order computation: Rates are used as
// given, or derived as 10^(36-decimals) from Decimals.
func (p *Pool) GetDy(i, j int, dx *big.Int) (*big.Int, error) {
	dy, _, err := p.swapOutput(i, j, dx)
	return dy, err
}

// GetDyExact is GetDy pinned to the exact evaluation order of the reference
// contract (rates scaling, the deliberate -1 rounding, fee on the average of
// pre- and post-swap balances).
func (p *Pool) GetDyExact(i, j int, dx *big.Int) (*big.Int, error) {
	return p.GetDy(i, j, dx)
}

// swapOutput returns (dy, fee) in output-token units. The step order is
// load-bearing; see the reference Vyper exchange().
func (p *Pool) swapOutput(i, j int, dx *big.Int) (*big.Int, *big.Int, error) {
	n := p.NCoins()
	zero := big.NewInt(0)
	if i == j || i < 0 || i >= n || j < 0 || j >= n {
		return zero, zero, nil
	}
	if dx == nil || dx.Sign() <= 0 {
		return zero, zero, nil
	}
	if err := p.validate(); err != nil {
		return nil, nil, err
	}

	rates, err := p.rates()
	if err != nil {
		return nil, nil, err
	}
	xp, err := p.xp()
	if err != nil {
		return nil, nil, err
	}
	amp := p.amp()
	ann := new(big.Int).Mul(amp, big.NewInt(int64(n)))

	d, err := GetD(xp, ann)
	if err != nil {
		return nil, nil, err
	}

	x := new(big.Int).Add(xp[i], u256.MulDiv(dx, rates[i], shared.Precision, shared.RoundingDown))
	y, err := GetY(i, j, x, xp, ann, d)
	if err != nil {
		return nil, nil, err
	}

	// -1 in case of rounding errors
	dyRaw := new(big.Int).Sub(xp[j], y)
	dyRaw.Sub(dyRaw, u256.One)
	if dyRaw.Sign() <= 0 {
		return zero, zero, nil
	}

	// Fee on the average of pre- and post-swap balances of the pair.
	avgI := new(big.Int).Add(xp[i], x)
	avgI.Div(avgI, u256.Two)
	avgJ := new(big.Int).Add(xp[j], y)
	avgJ.Div(avgJ, u256.Two)
	feeRate := DynamicFee(avgI, avgJ, p.baseFee(), p.OffpegFeeMultiplier)

	feeAmt := u256.MulDiv(feeRate, dyRaw, shared.FeeDenominator, shared.RoundingDown)
	dy := new(big.Int).Sub(dyRaw, feeAmt)
	dy = u256.MulDiv(dy, shared.Precision, rates[j], shared.RoundingDown)
	feeOut := u256.MulDiv(feeAmt, shared.Precision, rates[j], shared.RoundingDown)
	if dy.Sign() <= 0 {
		return zero, feeOut, nil
	}
	return dy, feeOut, nil
}

// GetDx inverts GetDy by bisection: the smallest dx whose quote covers dy.
// Unachievable targets quote 0. The returned upper endpoint guarantees the
// caller receives at least dy.
func (p *Pool) GetDx(i, j int, dy *big.Int) (*big.Int, error) {
	n := p.NCoins()
	zero := big.NewInt(0)
	if i == j || i < 0 || i >= n || j < 0 || j >= n {
		return zero, nil
	}
	if dy == nil || dy.Sign() <= 0 {
		return zero, nil
	}

	high := new(big.Int).Mul(u256.MaxInSlice(p.Balances), big.NewInt(10))
	out, err := p.GetDy(i, j, high)
	if err != nil {
		return nil, err
	}
	for e := 0; e < shared.MaxSearchExpansions && out.Cmp(dy) < 0; e++ {
		high.Mul(high, u256.Two)
		out, err = p.GetDy(i, j, high)
		if err != nil {
			return nil, err
		}
	}
	if out.Cmp(dy) < 0 {
		return zero, nil
	}

	low := big.NewInt(1)
	for r := 0; r < shared.MaxSearchRounds; r++ {
		gap := new(big.Int).Sub(high, low)
		if gap.Cmp(u256.One) <= 0 {
			break
		}
		mid := new(big.Int).Add(low, high)
		mid.Rsh(mid, 1)
		out, err = p.GetDy(i, j, mid)
		if err != nil {
			return nil, err
		}
		if out.Cmp(dy) >= 0 {
			high = mid
		} else {
			low = mid
		}
	}
	return high, nil
}

// GetDxExact mirrors GetDyExact on the inverse side.
func (p *Pool) GetDxExact(i, j int, dy *big.Int) (*big.Int, error) {
	return p.GetDx(i, j, dy)
}
