// Package curvego computes Curve AMM results off-chain, gas-free, from
// point-in-time pool snapshots: swap outputs and inputs, liquidity mints,
// single-sided withdrawals, prices, price impact and dynamic fees, all in
// exact integer arithmetic that tracks the on-chain contracts.
//
// Example:
//
//	pool := &stableswap.Pool{
//		Balances: []*big.Int{daiReserve, usdcReserve},
//		Decimals: []uint8{18, 6},
//		A:        big.NewInt(100),
//		Fee:      big.NewInt(4_000_000),
//	}
//
//	dy, _ := pool.GetDy(0, 1, dx)
//	quote, _ := pool.QuoteSwap(0, 1, dx)
//	minOut, _ := curvego.CalculateMinDy(quote.AmountOut, 100)
package curvego

import (
	"math/big"

	"github.com/curvelab/curve-go/cryptoswap"
	"github.com/curvelab/curve-go/shared"
	"github.com/curvelab/curve-go/u256"
)

// AGammaAtTime interpolates a ramping (A, gamma) pair; see cryptoswap.
var AGammaAtTime = cryptoswap.AGammaAtTime

// CalculateMinDy applies a slippage tolerance to an expected output:
// amount * (10000 - bps) / 10000.
func CalculateMinDy(amount *big.Int, slippageBps int64) (*big.Int, error) {
	if slippageBps < 0 || slippageBps > shared.BasisPointMax {
		return nil, shared.ErrInvalidSlippage
	}
	factor := big.NewInt(shared.BasisPointMax - slippageBps)
	return u256.MulDiv(amount, factor, shared.BPSDenominator, shared.RoundingDown), nil
}

// CalculateMaxDx applies a slippage tolerance to an expected input:
// amount * (10000 + bps) / 10000.
func CalculateMaxDx(amount *big.Int, slippageBps int64) (*big.Int, error) {
	if slippageBps < 0 || slippageBps > shared.BasisPointMax {
		return nil, shared.ErrInvalidSlippage
	}
	factor := big.NewInt(shared.BasisPointMax + slippageBps)
	return u256.MulDiv(amount, factor, shared.BPSDenominator, shared.RoundingDown), nil
}
