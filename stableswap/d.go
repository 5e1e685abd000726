package stableswap

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/curvelab/curve-go/shared"
	"github.com/curvelab/curve-go/u256"
)

// GetD solves the invariant
//
//	A * n^n * sum(x_i) + D = A * D * n^n + D^(n+1) / (n^n * prod(x_i))
//
// for D by Newton iteration. ann is A * A_PRECISION * n. The division order
// inside the loop mirrors the reference contract; reassociating any product
// breaks last-unit parity.
func GetD(xp []*big.Int, ann *big.Int) (*big.Int, error) {
	s := u256.Sum(xp)
	if s.Sign() == 0 {
		return big.NewInt(0), nil
	}
	if ann == nil || ann.Sign() == 0 {
		return nil, shared.ErrInvalidA
	}

	n := int64(len(xp))
	nBig := big.NewInt(n)
	nPow := new(big.Int).Exp(nBig, nBig, nil)

	for _, x := range xp {
		if x.Sign() == 0 {
			return nil, errors.Wrap(shared.ErrZeroBalance, "getD")
		}
	}

	d := u256.Clone(s)
	dPrev := new(big.Int)
	for iter := 0; iter < shared.MaxIterations; iter++ {
		// dP = D^(n+1) / (n^n * prod(x))
		dP := u256.Clone(d)
		for _, x := range xp {
			dP = u256.MulDiv(dP, d, x, shared.RoundingDown)
		}
		dP.Div(dP, nPow)

		dPrev.Set(d)
		// D = (ann*S/A_PRECISION + dP*n) * D /
		//     ((ann - A_PRECISION)*D/A_PRECISION + (n+1)*dP)
		num := u256.MulDiv(ann, s, shared.APrecision, shared.RoundingDown)
		num.Add(num, new(big.Int).Mul(dP, nBig))
		den := new(big.Int).Sub(ann, shared.APrecision)
		den = u256.MulDiv(den, d, shared.APrecision, shared.RoundingDown)
		den.Add(den, new(big.Int).Mul(dP, big.NewInt(n+1)))
		d = u256.MulDiv(num, d, den, shared.RoundingDown)

		if u256.AbsDiff(d, dPrev).Cmp(u256.One) <= 0 {
			return d, nil
		}
	}
	return nil, errors.Wrap(shared.ErrNoConverge, "getD")
}
