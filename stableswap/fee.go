package stableswap

import (
	"math/big"

	"github.com/curvelab/curve-go/shared"
	"github.com/curvelab/curve-go/u256"
)

// DynamicFee scales the base fee by how far the (xi, xj) pair sits from
// balance. A balanced pair pays exactly baseFee; the fee rises as the pool
// skews, toward multiplier * baseFee / FEE_DENOMINATOR. A multiplier of 0 or
// anything at or below FEE_DENOMINATOR disables the scaling.
//
//	fee = multiplier * baseFee /
//	      ((multiplier - FEE_DENOMINATOR) * 4 * xi * xj / (xi+xj)^2 + FEE_DENOMINATOR)
func DynamicFee(xi, xj, baseFee, multiplier *big.Int) *big.Int {
	if baseFee == nil {
		return big.NewInt(0)
	}
	if multiplier == nil || multiplier.Cmp(shared.FeeDenominator) <= 0 {
		return u256.Clone(baseFee)
	}
	s := new(big.Int).Add(xi, xj)
	if s.Sign() == 0 {
		return u256.Clone(baseFee)
	}
	xps2 := new(big.Int).Mul(s, s)

	num := new(big.Int).Mul(multiplier, baseFee)
	den := new(big.Int).Sub(multiplier, shared.FeeDenominator)
	den.Mul(den, big.NewInt(4))
	den.Mul(den, xi)
	den.Mul(den, xj)
	den.Div(den, xps2)
	den.Add(den, shared.FeeDenominator)
	return num.Div(num, den)
}
