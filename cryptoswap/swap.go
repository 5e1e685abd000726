package cryptoswap

import (
	"math/big"

	"github.com/curvelab/curve-go/shared"
	"github.com/curvelab/curve-go/u256"
)

// GetDy quotes the output of swapping dx of coin i into coin j. Zero dx,
// equal or out-of-range indices quote 0; kernel failures propagate.
func (p *Pool) GetDy(i, j int, dx *big.Int) (*big.Int, error) {
	dy, _, err := p.swapOutput(i, j, dx)
	return dy, err
}

func (p *Pool) swapOutput(i, j int, dx *big.Int) (*big.Int, *big.Int, error) {
	zero := big.NewInt(0)
	if i == j || i < 0 || i > 1 || j < 0 || j > 1 {
		return zero, zero, nil
	}
	if dx == nil || dx.Sign() <= 0 {
		return zero, zero, nil
	}
	if err := p.validate(); err != nil {
		return nil, nil, err
	}

	// dx joins the raw balance before scaling.
	balances := u256.CloneSlice(p.Balances)
	balances[i].Add(balances[i], dx)
	xp := p.xpMem(balances)

	y, err := NewtonY(p.A, p.Gamma, xp, p.D, j)
	if err != nil {
		return nil, nil, err
	}

	dyRaw := new(big.Int).Sub(xp[j], y)
	dyRaw.Sub(dyRaw, u256.One)
	if dyRaw.Sign() <= 0 {
		return zero, zero, nil
	}

	xpAfter := []*big.Int{xp[0], xp[1]}
	xpAfter[j] = y
	feeRate := DynamicFee(xpAfter, p.FeeGamma, p.MidFee, p.OutFee)
	feeAmt := u256.MulDiv(feeRate, dyRaw, shared.FeeDenominator, shared.RoundingDown)
	dy := new(big.Int).Sub(dyRaw, feeAmt)

	dy = p.unscale(dy, j)
	feeOut := p.unscale(feeAmt, j)
	if dy.Sign() <= 0 {
		return zero, feeOut, nil
	}
	return dy, feeOut, nil
}

// unscale converts an 18-decimal numeraire amount of coin j back into its
// native units, unwinding the price scale for the non-numeraire coin.
func (p *Pool) unscale(v *big.Int, j int) *big.Int {
	out := u256.Clone(v)
	if j > 0 {
		out = u256.MulDiv(out, shared.Precision, p.PriceScale, shared.RoundingDown)
	}
	return out.Div(out, p.precision(j))
}

// GetDx inverts GetDy with a spot-price-seeded bisection; the seed doubles
// the linear estimate so well-behaved pools converge without bracket growth.
func (p *Pool) GetDx(i, j int, dy *big.Int) (*big.Int, error) {
	if i == j || i < 0 || i > 1 || j < 0 || j > 1 {
		return big.NewInt(0), nil
	}
	if dy == nil || dy.Sign() <= 0 {
		return big.NewInt(0), nil
	}
	if dy.Cmp(p.Balances[j]) >= 0 {
		return big.NewInt(0), nil
	}
	spot, err := p.GetSpotPrice(i, j)
	if err != nil {
		return nil, err
	}
	return searchDx(func(dx *big.Int) (*big.Int, error) {
		return p.GetDy(i, j, dx)
	}, dy, spot, p.Balances[i])
}

func (p *TriPool) GetDy(i, j int, dx *big.Int) (*big.Int, error) {
	dy, _, err := p.swapOutput(i, j, dx)
	return dy, err
}

func (p *TriPool) swapOutput(i, j int, dx *big.Int) (*big.Int, *big.Int, error) {
	zero := big.NewInt(0)
	if i == j || i < 0 || i > 2 || j < 0 || j > 2 {
		return zero, zero, nil
	}
	if dx == nil || dx.Sign() <= 0 {
		return zero, zero, nil
	}
	if err := p.validate(); err != nil {
		return nil, nil, err
	}

	balances := u256.CloneSlice(p.Balances)
	balances[i].Add(balances[i], dx)
	xp := p.xpMem(balances)

	y, err := NewtonY3(p.A, p.Gamma, xp, p.D, j)
	if err != nil {
		return nil, nil, err
	}

	dyRaw := new(big.Int).Sub(xp[j], y)
	dyRaw.Sub(dyRaw, u256.One)
	if dyRaw.Sign() <= 0 {
		return zero, zero, nil
	}

	xpAfter := []*big.Int{xp[0], xp[1], xp[2]}
	xpAfter[j] = y
	feeRate := DynamicFee(xpAfter, p.FeeGamma, p.MidFee, p.OutFee)
	feeAmt := u256.MulDiv(feeRate, dyRaw, shared.FeeDenominator, shared.RoundingDown)
	dy := new(big.Int).Sub(dyRaw, feeAmt)

	dy = p.unscale(dy, j)
	feeOut := p.unscale(feeAmt, j)
	if dy.Sign() <= 0 {
		return zero, feeOut, nil
	}
	return dy, feeOut, nil
}

func (p *TriPool) unscale(v *big.Int, j int) *big.Int {
	out := u256.Clone(v)
	if j > 0 {
		out = u256.MulDiv(out, shared.Precision, p.PriceScales[j-1], shared.RoundingDown)
	}
	return out.Div(out, p.precision(j))
}

func (p *TriPool) GetDx(i, j int, dy *big.Int) (*big.Int, error) {
	if i == j || i < 0 || i > 2 || j < 0 || j > 2 {
		return big.NewInt(0), nil
	}
	if dy == nil || dy.Sign() <= 0 {
		return big.NewInt(0), nil
	}
	if dy.Cmp(p.Balances[j]) >= 0 {
		return big.NewInt(0), nil
	}
	spot, err := p.GetSpotPrice(i, j)
	if err != nil {
		return nil, err
	}
	return searchDx(func(dx *big.Int) (*big.Int, error) {
		return p.GetDy(i, j, dx)
	}, dy, spot, p.Balances[i])
}

// searchDx brackets the target output with a spot-seeded bound, expands it
// exponentially if needed and bisects down to max(1, dy/10000).
func searchDx(quote func(*big.Int) (*big.Int, error), dy, spot, balanceIn *big.Int) (*big.Int, error) {
	var high *big.Int
	if spot != nil && spot.Sign() > 0 {
		high = new(big.Int).Mul(u256.Two, dy)
		high = u256.MulDiv(high, shared.Precision, spot, shared.RoundingUp)
	} else {
		high = new(big.Int).Mul(balanceIn, big.NewInt(10))
	}
	if high.Sign() == 0 {
		high = big.NewInt(1)
	}

	out, err := quote(high)
	if err != nil {
		return nil, err
	}
	for e := 0; e < shared.MaxSearchExpansions && out.Cmp(dy) < 0; e++ {
		high.Mul(high, u256.Two)
		out, err = quote(high)
		if err != nil {
			return nil, err
		}
	}
	if out.Cmp(dy) < 0 {
		return big.NewInt(0), nil
	}

	tol := u256.Max(u256.One, new(big.Int).Div(dy, shared.BPSDenominator))
	low := big.NewInt(1)
	for r := 0; r < shared.MaxIterations; r++ {
		gap := new(big.Int).Sub(high, low)
		if gap.Cmp(tol) <= 0 {
			break
		}
		mid := new(big.Int).Add(low, high)
		mid.Rsh(mid, 1)
		out, err = quote(mid)
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
