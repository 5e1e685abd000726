// Package stableswap reimplements the Curve StableSwap pool math off-chain:
// the D and y invariant solvers, the exact-order swap wrappers that track the
// reference Vyper contracts to the last unit, dynamic off-peg fees, and the
// liquidity and price analytics built on top. Every function is a pure
// function of the pool snapshot it receives.
package stableswap

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/curvelab/curve-go/shared"
	"github.com/curvelab/curve-go/u256"
)

// Pool is a point-in-time snapshot of an on-chain StableSwap pool. Balances
// are raw reserves in native token decimals. Scaling comes either from Rates
// (10^(36-decimals), exact mode) or from Decimals (normalized mode); when
// both are present Rates wins. Fee and OffpegFeeMultiplier are denominated in
// shared.FeeDenominator units.
type Pool struct {
	Balances            []*big.Int
	Rates               []*big.Int
	Decimals            []uint8
	A                   *big.Int
	Fee                 *big.Int
	OffpegFeeMultiplier *big.Int
	TotalSupply         *big.Int
}

func (p *Pool) NCoins() int {
	return len(p.Balances)
}

func (p *Pool) validate() error {
	n := len(p.Balances)
	if n < 2 || n > shared.MaxCoins {
		return errors.Wrapf(shared.ErrInvalidIndex, "pool has %d coins", n)
	}
	if p.A == nil || p.A.Sign() <= 0 {
		return shared.ErrInvalidA
	}
	if p.Rates != nil && len(p.Rates) != n {
		return errors.Wrap(shared.ErrInvalidDecimals, "rates length")
	}
	if p.Rates == nil {
		if len(p.Decimals) != n {
			return errors.Wrap(shared.ErrInvalidDecimals, "decimals length")
		}
		for _, d := range p.Decimals {
			if d > 36 {
				return shared.ErrInvalidDecimals
			}
		}
	}
	return nil
}

// rates resolves the exact-mode multipliers: 10^(36-decimals).
func (p *Pool) rates() ([]*big.Int, error) {
	if p.Rates != nil {
		return p.Rates, nil
	}
	out := make([]*big.Int, len(p.Decimals))
	for i, d := range p.Decimals {
		if d > 36 {
			return nil, shared.ErrInvalidDecimals
		}
		out[i] = u256.Pow10(uint(36 - d))
	}
	return out, nil
}

// xp normalizes balances into the common 18-decimal numeraire:
// xp[i] = rates[i] * balances[i] / PRECISION.
func (p *Pool) xp() ([]*big.Int, error) {
	return p.xpMem(p.Balances)
}

func (p *Pool) xpMem(balances []*big.Int) ([]*big.Int, error) {
	rates, err := p.rates()
	if err != nil {
		return nil, err
	}
	out := make([]*big.Int, len(balances))
	for i, b := range balances {
		out[i] = u256.MulDiv(rates[i], b, shared.Precision, shared.RoundingDown)
	}
	return out, nil
}

// amp returns A * A_PRECISION, the precise amplification the kernels use.
func (p *Pool) amp() *big.Int {
	return new(big.Int).Mul(p.A, shared.APrecision)
}

func (p *Pool) baseFee() *big.Int {
	if p.Fee == nil {
		return big.NewInt(0)
	}
	return p.Fee
}
