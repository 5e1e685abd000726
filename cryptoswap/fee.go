package cryptoswap

import (
	"math/big"

	"github.com/curvelab/curve-go/shared"
	"github.com/curvelab/curve-go/u256"
)

// DynamicFee blends midFee and outFee along the balance-skew indicator
//
//	K = PRECISION * N^N * prod(xp) / sum(xp)^N
//
// which is PRECISION for a perfectly balanced pool and decays toward zero as
// it skews. The blend weight is f = feeGamma * PRECISION / (feeGamma +
// PRECISION - K); when the denominator is driven non-positive by extreme
// skew the fee short-circuits to outFee.
func DynamicFee(xp []*big.Int, feeGamma, midFee, outFee *big.Int) *big.Int {
	if midFee == nil {
		midFee = big.NewInt(0)
	}
	if outFee == nil {
		outFee = midFee
	}
	if feeGamma == nil || feeGamma.Sign() == 0 {
		return u256.Clone(midFee)
	}
	s := u256.Sum(xp)
	if s.Sign() == 0 {
		return u256.Clone(midFee)
	}
	n := big.NewInt(int64(len(xp)))

	k := u256.Clone(shared.Precision)
	for _, x := range xp {
		k.Mul(k, n)
		k.Mul(k, x)
		k.Div(k, s)
	}

	den := new(big.Int).Add(feeGamma, shared.Precision)
	den.Sub(den, k)
	if den.Sign() <= 0 {
		return u256.Clone(outFee)
	}
	f := new(big.Int).Mul(feeGamma, shared.Precision)
	f.Div(f, den)

	fee := new(big.Int).Mul(midFee, f)
	rest := new(big.Int).Sub(shared.Precision, f)
	fee.Add(fee, new(big.Int).Mul(outFee, rest))
	return fee.Div(fee, shared.Precision)
}
