package stableswap

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/curvelab/curve-go/shared"
	"github.com/curvelab/curve-go/u256"
)

// GetY solves the invariant for the output balance y = x_j given that
// balance i moves to newX and all other balances stay. Done by solving the
// quadratic
//
//	y^2 + y*(b - D) = c
//	y = (y^2 + c) / (2y + b - D)
//
// iteratively from y = D.
func GetY(i, j int, newX *big.Int, xp []*big.Int, ann, d *big.Int) (*big.Int, error) {
	n := len(xp)
	if i == j || j < 0 || j >= n {
		return nil, errors.Wrap(shared.ErrInvalidIndex, "getY out")
	}
	if i < 0 || i >= n {
		return nil, errors.Wrap(shared.ErrInvalidIndex, "getY in")
	}
	if ann == nil || ann.Sign() == 0 {
		return nil, shared.ErrInvalidA
	}

	nBig := big.NewInt(int64(n))
	c := u256.Clone(d)
	s := new(big.Int)
	for k := 0; k < n; k++ {
		var xk *big.Int
		switch {
		case k == i:
			xk = newX
		case k != j:
			xk = xp[k]
		default:
			continue
		}
		if xk.Sign() == 0 {
			return nil, errors.Wrap(shared.ErrZeroBalance, "getY")
		}
		s.Add(s, xk)
		// c = c * D / (x_k * n)
		c = u256.MulDiv(c, d, new(big.Int).Mul(xk, nBig), shared.RoundingDown)
	}
	// c = c * D * A_PRECISION / (ann * n)
	c = u256.MulDiv(new(big.Int).Mul(c, d), shared.APrecision, new(big.Int).Mul(ann, nBig), shared.RoundingDown)
	// b = S + D * A_PRECISION / ann
	b := new(big.Int).Add(s, u256.MulDiv(d, shared.APrecision, ann, shared.RoundingDown))

	y := u256.Clone(d)
	yPrev := new(big.Int)
	for iter := 0; iter < shared.MaxIterations; iter++ {
		yPrev.Set(y)
		// denom = 2y + b - D
		denom := new(big.Int).Mul(y, u256.Two)
		denom.Add(denom, b)
		denom.Sub(denom, d)
		if denom.Sign() <= 0 {
			return nil, errors.Wrap(shared.ErrBadDenom, "getY")
		}
		num := new(big.Int).Mul(y, y)
		num.Add(num, c)
		y = num.Div(num, denom)

		if u256.AbsDiff(y, yPrev).Cmp(u256.One) <= 0 {
			return y, nil
		}
	}
	return nil, errors.Wrap(shared.ErrNoConverge, "getY")
}

// GetYD solves for balance i against a target invariant d with the existing
// other balances; used by the liquidity paths where D moved but no balance
// was substituted.
func GetYD(i int, xp []*big.Int, ann, d *big.Int) (*big.Int, error) {
	n := len(xp)
	if i < 0 || i >= n {
		return nil, errors.Wrap(shared.ErrInvalidIndex, "getYD")
	}
	if ann == nil || ann.Sign() == 0 {
		return nil, shared.ErrInvalidA
	}

	nBig := big.NewInt(int64(n))
	c := u256.Clone(d)
	s := new(big.Int)
	for k := 0; k < n; k++ {
		if k == i {
			continue
		}
		if xp[k].Sign() == 0 {
			return nil, errors.Wrap(shared.ErrZeroBalance, "getYD")
		}
		s.Add(s, xp[k])
		c = u256.MulDiv(c, d, new(big.Int).Mul(xp[k], nBig), shared.RoundingDown)
	}
	c = u256.MulDiv(new(big.Int).Mul(c, d), shared.APrecision, new(big.Int).Mul(ann, nBig), shared.RoundingDown)
	b := new(big.Int).Add(s, u256.MulDiv(d, shared.APrecision, ann, shared.RoundingDown))

	y := u256.Clone(d)
	yPrev := new(big.Int)
	for iter := 0; iter < shared.MaxIterations; iter++ {
		yPrev.Set(y)
		denom := new(big.Int).Mul(y, u256.Two)
		denom.Add(denom, b)
		denom.Sub(denom, d)
		if denom.Sign() <= 0 {
			return nil, errors.Wrap(shared.ErrBadDenom, "getYD")
		}
		num := new(big.Int).Mul(y, y)
		num.Add(num, c)
		y = num.Div(num, denom)

		if u256.AbsDiff(y, yPrev).Cmp(u256.One) <= 0 {
			return y, nil
		}
	}
	return nil, errors.Wrap(shared.ErrNoConverge, "getYD")
}
