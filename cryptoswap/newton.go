package cryptoswap

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/curvelab/curve-go/shared"
	"github.com/curvelab/curve-go/u256"
)

// convergenceLimit is max(hint, D) / CONVERGENCE_THRESHOLD, floored at
// MIN_CONVERGENCE.
func convergenceLimit(hint, d *big.Int) *big.Int {
	lim := new(big.Int).Div(u256.Max(hint, d), shared.ConvergenceThreshold)
	return u256.Max(lim, shared.MinConvergence)
}

// halve backs an overshooting estimate off to half its previous value,
// floored at one unit. Oscillation is a normal mode of this iteration, not a
// failure.
func halve(yPrev *big.Int) *big.Int {
	y := new(big.Int).Div(yPrev, u256.Two)
	if y.Sign() == 0 {
		y.Set(u256.One)
	}
	return y
}

// NewtonY solves the two-coin CryptoSwap invariant for balance i given the
// other scaled balance and the target D.
func NewtonY(a, gamma *big.Int, x []*big.Int, d *big.Int, i int) (*big.Int, error) {
	if a == nil || a.Sign() == 0 {
		return nil, shared.ErrInvalidA
	}
	if gamma == nil || gamma.Sign() == 0 {
		return nil, shared.ErrInvalidGamma
	}
	if len(x) != 2 || i < 0 || i > 1 {
		return nil, errors.Wrap(shared.ErrInvalidIndex, "newtonY")
	}
	if d == nil || d.Sign() <= 0 {
		return nil, errors.Wrap(shared.ErrInsufficientLiquidity, "newtonY")
	}
	xj := x[1-i]
	if xj.Sign() == 0 {
		return nil, errors.Wrap(shared.ErrNoConverge, "newtonY: empty paired balance")
	}

	nBig := u256.Two

	// y0 = D^2 / (x_j * N^2)
	y := new(big.Int).Mul(d, d)
	y.Div(y, new(big.Int).Mul(xj, big.NewInt(4)))
	if y.Sign() == 0 {
		y.Set(u256.One)
	}

	limit := convergenceLimit(xj, d)
	yPrev := new(big.Int)

	for iter := 0; iter < shared.MaxIterations; iter++ {
		yPrev.Set(y)

		// K0 = (PRECISION * N * x_j / D) * y * N / D
		k0 := new(big.Int).Mul(shared.Precision, nBig)
		k0.Mul(k0, xj)
		k0.Div(k0, d)
		k0.Mul(k0, y)
		k0.Mul(k0, nBig)
		k0.Div(k0, d)
		if k0.Sign() == 0 {
			return nil, errors.Wrap(shared.ErrNoConverge, "newtonY: K0 vanished")
		}

		s := new(big.Int).Add(xj, y)

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

		// mul2 = PRECISION + 2 * PRECISION * K0 / g1k0
		mul2 := new(big.Int).Mul(u256.Two, shared.Precision)
		mul2.Mul(mul2, k0)
		mul2.Div(mul2, g1k0)
		mul2.Add(mul2, shared.Precision)

		// yfprime = PRECISION*y + S*mul2 + mul1 - D*mul2; a negative value
		// means the estimate overshot the curve.
		lhs := new(big.Int).Mul(shared.Precision, y)
		lhs.Add(lhs, new(big.Int).Mul(s, mul2))
		lhs.Add(lhs, mul1)
		rhs := new(big.Int).Mul(d, mul2)
		if lhs.Cmp(rhs) < 0 {
			y = halve(yPrev)
			continue
		}
		yfprime := lhs.Sub(lhs, rhs)

		fprime := new(big.Int).Div(yfprime, y)
		if fprime.Sign() == 0 {
			return nil, errors.Wrap(shared.ErrNoConverge, "newtonY: flat derivative")
		}

		yMinus := new(big.Int).Div(mul1, fprime)
		yPlus := new(big.Int).Add(yfprime, new(big.Int).Mul(shared.Precision, d))
		yPlus.Div(yPlus, fprime)
		yPlus.Add(yPlus, u256.MulDiv(yMinus, shared.Precision, k0, shared.RoundingDown))
		yMinus.Add(yMinus, new(big.Int).Div(new(big.Int).Mul(shared.Precision, s), fprime))

		if yPlus.Cmp(yMinus) < 0 {
			y = halve(yPrev)
			continue
		}
		y = yPlus.Sub(yPlus, yMinus)

		diff := u256.AbsDiff(y, yPrev)
		tol := u256.Max(limit, new(big.Int).Div(y, shared.ConvergenceThreshold))
		if diff.Cmp(tol) < 0 {
			return y, nil
		}
	}
	return nil, errors.Wrap(shared.ErrNoConverge, "newtonY")
}

// NewtonY3 is the three-coin variant of NewtonY, with N = 3 and the initial
// guess seeded from the product of the two untouched balances.
func NewtonY3(a, gamma *big.Int, x []*big.Int, d *big.Int, i int) (*big.Int, error) {
	if a == nil || a.Sign() == 0 {
		return nil, shared.ErrInvalidA
	}
	if gamma == nil || gamma.Sign() == 0 {
		return nil, shared.ErrInvalidGamma
	}
	if len(x) != 3 || i < 0 || i > 2 {
		return nil, errors.Wrap(shared.ErrInvalidIndex, "newtonY3")
	}
	if d == nil || d.Sign() <= 0 {
		return nil, errors.Wrap(shared.ErrInsufficientLiquidity, "newtonY3")
	}
	dSq := new(big.Int).Mul(d, d)
	dSq.Div(dSq, shared.Precision)
	if dSq.Sign() == 0 {
		return nil, errors.Wrap(shared.ErrInsufficientLiquidity, "newtonY3")
	}

	others := make([]*big.Int, 0, 2)
	for k := 0; k < 3; k++ {
		if k != i {
			others = append(others, x[k])
		}
	}
	// prod = x_a * x_b / PRECISION, running
	prod := u256.Clone(others[0])
	prod = u256.MulDiv(prod, others[1], shared.Precision, shared.RoundingDown)
	if prod.Sign() == 0 {
		return nil, errors.Wrap(shared.ErrZeroBalance, "newtonY3")
	}

	nBig := big.NewInt(3)

	// y0 = D^3 / (27 * PRECISION * prod)
	y := u256.MulDiv(dSq, d, prod, shared.RoundingDown)
	y.Div(y, big.NewInt(27))
	if y.Sign() == 0 {
		y.Set(u256.One)
	}

	limit := convergenceLimit(u256.Max(others[0], others[1]), d)
	yPrev := new(big.Int)

	for iter := 0; iter < shared.MaxIterations; iter++ {
		yPrev.Set(y)

		// K0 = PRECISION * 27 * prod(x) / D^3, accumulated per coin.
		k0 := u256.Clone(shared.Precision)
		for _, xk := range append([]*big.Int{y}, others...) {
			k0.Mul(k0, xk)
			k0.Mul(k0, nBig)
			k0.Div(k0, d)
		}
		if k0.Sign() == 0 {
			return nil, errors.Wrap(shared.ErrNoConverge, "newtonY3: K0 vanished")
		}

		s := new(big.Int).Add(others[0], others[1])
		s.Add(s, y)

		g1k0 := new(big.Int).Add(gamma, shared.Precision)
		g1k0.Sub(g1k0, k0)
		g1k0.Abs(g1k0)
		g1k0.Add(g1k0, u256.One)

		mul1 := new(big.Int).Mul(shared.Precision, d)
		mul1.Div(mul1, gamma)
		mul1.Mul(mul1, g1k0)
		mul1.Div(mul1, gamma)
		mul1.Mul(mul1, g1k0)
		mul1.Mul(mul1, shared.AMultiplier)
		mul1.Div(mul1, a)

		mul2 := new(big.Int).Mul(u256.Two, shared.Precision)
		mul2.Mul(mul2, k0)
		mul2.Div(mul2, g1k0)
		mul2.Add(mul2, shared.Precision)

		lhs := new(big.Int).Mul(shared.Precision, y)
		lhs.Add(lhs, new(big.Int).Mul(s, mul2))
		lhs.Add(lhs, mul1)
		rhs := new(big.Int).Mul(d, mul2)
		if lhs.Cmp(rhs) < 0 {
			y = halve(yPrev)
			continue
		}
		yfprime := lhs.Sub(lhs, rhs)

		fprime := new(big.Int).Div(yfprime, y)
		if fprime.Sign() == 0 {
			return nil, errors.Wrap(shared.ErrNoConverge, "newtonY3: flat derivative")
		}

		yMinus := new(big.Int).Div(mul1, fprime)
		yPlus := new(big.Int).Add(yfprime, new(big.Int).Mul(shared.Precision, d))
		yPlus.Div(yPlus, fprime)
		yPlus.Add(yPlus, u256.MulDiv(yMinus, shared.Precision, k0, shared.RoundingDown))
		yMinus.Add(yMinus, new(big.Int).Div(new(big.Int).Mul(shared.Precision, s), fprime))

		if yPlus.Cmp(yMinus) < 0 {
			y = halve(yPrev)
			continue
		}
		y = yPlus.Sub(yPlus, yMinus)

		diff := u256.AbsDiff(y, yPrev)
		tol := u256.Max(limit, new(big.Int).Div(y, shared.ConvergenceThreshold))
		if diff.Cmp(tol) < 0 {
			return y, nil
		}
	}
	return nil, errors.Wrap(shared.ErrNoConverge, "newtonY3")
}
