package stableswap

import (
	"math/big"

	"github.com/curvelab/curve-go/shared"
	"github.com/curvelab/curve-go/u256"
)

// AAtTime interpolates a ramping amplification coefficient linearly between
// (a0, t0) and (a1, t1). Before t0 it is a0, at or after t1 it is a1.
// Unsigned arithmetic cannot carry negatives, thus the branch.
func AAtTime(a0, a1 *big.Int, t0, t1, now uint64) (*big.Int, error) {
	if t1 <= t0 {
		return nil, shared.ErrInvalidRamp
	}
	if now <= t0 {
		return u256.Clone(a0), nil
	}
	if now >= t1 {
		return u256.Clone(a1), nil
	}
	dt := new(big.Int).SetUint64(now - t0)
	span := new(big.Int).SetUint64(t1 - t0)
	if a1.Cmp(a0) >= 0 {
		step := new(big.Int).Sub(a1, a0)
		return new(big.Int).Add(a0, u256.MulDiv(step, dt, span, shared.RoundingDown)), nil
	}
	step := new(big.Int).Sub(a0, a1)
	return new(big.Int).Sub(a0, u256.MulDiv(step, dt, span, shared.RoundingDown)), nil
}
