package cryptoswap

import (
	"math/big"
	"sort"

	"github.com/pkg/errors"

	"github.com/curvelab/curve-go/shared"
	"github.com/curvelab/curve-go/u256"
)

// geometricMean computes the N-th root of prod(x) by Newton iteration,
// seeded with the largest balance.
func geometricMean(x []*big.Int) (*big.Int, error) {
	n := int64(len(x))
	sorted := u256.CloneSlice(x)
	sort.Slice(sorted, func(a, b int) bool { return sorted[a].Cmp(sorted[b]) > 0 })

	nBig := big.NewInt(n)
	d := u256.Clone(sorted[0])
	dPrev := new(big.Int)
	for iter := 0; iter < shared.MaxIterations; iter++ {
		dPrev.Set(d)
		tmp := u256.Clone(shared.Precision)
		for _, v := range sorted {
			tmp = u256.MulDiv(tmp, v, d, shared.RoundingDown)
		}
		// d = d * ((n-1)*PRECISION + tmp) / (n*PRECISION)
		num := new(big.Int).Mul(big.NewInt(n-1), shared.Precision)
		num.Add(num, tmp)
		d = u256.MulDiv(d, num, new(big.Int).Mul(nBig, shared.Precision), shared.RoundingDown)

		// tmp carries only PRECISION resolution, so D can settle into a cycle
		// whose step is far above one unit; a step below D/PRECISION is done.
		diff := u256.AbsDiff(d, dPrev)
		if diff.Cmp(u256.One) <= 0 || new(big.Int).Mul(diff, shared.Precision).Cmp(d) < 0 {
			return d, nil
		}
	}
	return nil, errors.Wrap(shared.ErrNoConverge, "geometricMean")
}

// CalcD solves the CryptoSwap invariant for D over any N, using the
// K0-shaped Newton update of the reference contract and a geometric-mean
// initial guess. All-zero balances are an empty pool (D = 0); a partial zero
// is a fatal input error.
func CalcD(a, gamma *big.Int, xp []*big.Int) (*big.Int, error) {
	if a == nil || a.Sign() == 0 {
		return nil, shared.ErrInvalidA
	}
	if gamma == nil || gamma.Sign() == 0 {
		return nil, shared.ErrInvalidGamma
	}
	n := int64(len(xp))
	nBig := big.NewInt(n)

	zeros := 0
	for _, x := range xp {
		if x.Sign() == 0 {
			zeros++
		}
	}
	if zeros == len(xp) {
		return big.NewInt(0), nil
	}
	if zeros > 0 {
		return nil, errors.Wrap(shared.ErrZeroBalance, "calcD")
	}

	s := u256.Sum(xp)
	mean, err := geometricMean(xp)
	if err != nil {
		return nil, err
	}
	d := new(big.Int).Mul(nBig, mean)
	dPrev := new(big.Int)

	for iter := 0; iter < shared.MaxIterations; iter++ {
		dPrev.Set(d)
		if d.Sign() == 0 {
			return nil, errors.Wrap(shared.ErrNoConverge, "calcD: zero estimate")
		}

		// K0 = PRECISION * N^N * prod(x) / D^N, accumulated per coin.
		k0 := u256.Clone(shared.Precision)
		for _, x := range xp {
			k0.Mul(k0, x)
			k0.Mul(k0, nBig)
			k0.Div(k0, d)
		}
		if k0.Sign() == 0 {
			return nil, errors.Wrap(shared.ErrNoConverge, "calcD: K0 vanished")
		}

		g1k0 := new(big.Int).Add(gamma, shared.Precision)
		g1k0.Sub(g1k0, k0)
		g1k0.Abs(g1k0)
		g1k0.Add(g1k0, u256.One)

		// mul1 = PRECISION * D / gamma * g1k0 / gamma * g1k0 * A_MULTIPLIER / A
		mul1 := new(big.Int).Mul(shared.Precision, d)
		mul1.Div(mul1, gamma)
		mul1.Mul(mul1, g1k0)
		mul1.Div(mul1, gamma)
		mul1.Mul(mul1, g1k0)
		mul1.Mul(mul1, shared.AMultiplier)
		mul1.Div(mul1, a)

		// mul2 = 2 * PRECISION * N * K0 / g1k0
		mul2 := new(big.Int).Mul(u256.Two, shared.Precision)
		mul2.Mul(mul2, nBig)
		mul2.Mul(mul2, k0)
		mul2.Div(mul2, g1k0)

		// negFprime = S + S*mul2/PRECISION + mul1*N/K0 - mul2*D/PRECISION
		negFprime := new(big.Int).Add(s, u256.MulDiv(s, mul2, shared.Precision, shared.RoundingDown))
		negFprime.Add(negFprime, u256.MulDiv(mul1, nBig, k0, shared.RoundingDown))
		negFprime.Sub(negFprime, u256.MulDiv(mul2, d, shared.Precision, shared.RoundingDown))
		if negFprime.Sign() <= 0 {
			return nil, errors.Wrap(shared.ErrNoConverge, "calcD: negative slope")
		}

		// D = (Dplus - Dminus), halved when the step overshoots.
		dPlus := u256.MulDiv(d, new(big.Int).Add(negFprime, s), negFprime, shared.RoundingDown)
		dMinus := u256.MulDiv(d, d, negFprime, shared.RoundingDown)
		correction := u256.MulDiv(d, new(big.Int).Div(mul1, negFprime), shared.Precision, shared.RoundingDown)
		if shared.Precision.Cmp(k0) > 0 {
			skew := new(big.Int).Sub(shared.Precision, k0)
			dMinus.Add(dMinus, u256.MulDiv(correction, skew, k0, shared.RoundingDown))
		} else {
			skew := new(big.Int).Sub(k0, shared.Precision)
			dMinus.Sub(dMinus, u256.MulDiv(correction, skew, k0, shared.RoundingDown))
		}

		if dPlus.Cmp(dMinus) > 0 {
			d = new(big.Int).Sub(dPlus, dMinus)
		} else {
			d = new(big.Int).Sub(dMinus, dPlus)
			d.Div(d, u256.Two)
		}

		diff := u256.AbsDiff(d, dPrev)
		if new(big.Int).Mul(diff, shared.ConvergenceThreshold).Cmp(d) < 0 {
			return d, nil
		}
	}
	return nil, errors.Wrap(shared.ErrNoConverge, "calcD")
}
