package cryptoswap

import (
	"math/big"

	"github.com/curvelab/curve-go/shared"
	"github.com/curvelab/curve-go/u256"
)

// AGammaAtTime interpolates a ramping (A, gamma) pair linearly between
// (a0, g0) at t0 and (a1, g1) at t1. Before t0 the initial values hold, at
// or after t1 the final ones. The ramp window must be forward in time.
func AGammaAtTime(a0, a1, g0, g1 *big.Int, t0, t1, now uint64) (*big.Int, *big.Int, error) {
	if t1 <= t0 {
		return nil, nil, shared.ErrInvalidRamp
	}
	if now <= t0 {
		return u256.Clone(a0), u256.Clone(g0), nil
	}
	if now >= t1 {
		return u256.Clone(a1), u256.Clone(g1), nil
	}
	dt := new(big.Int).SetUint64(now - t0)
	span := new(big.Int).SetUint64(t1 - t0)
	return lerp(a0, a1, dt, span), lerp(g0, g1, dt, span), nil
}

// lerp walks from a toward b by dt/span, branching to stay unsigned.
func lerp(a, b, dt, span *big.Int) *big.Int {
	if b.Cmp(a) >= 0 {
		step := new(big.Int).Sub(b, a)
		return new(big.Int).Add(a, u256.MulDiv(step, dt, span, shared.RoundingDown))
	}
	step := new(big.Int).Sub(a, b)
	return new(big.Int).Sub(a, u256.MulDiv(step, dt, span, shared.RoundingDown))
}
