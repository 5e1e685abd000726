package stableswap

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/curvelab/curve-go/shared"
	"github.com/curvelab/curve-go/u256"
)

// CalcTokenAmount quotes the LP tokens minted for depositing amounts
// (native decimals, one entry per coin). Slippage is accounted for, fees are
// not; see CalcTokenAmountWithFees for the fee-adjusted mint.
func (p *Pool) CalcTokenAmount(amounts []*big.Int) (*big.Int, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	n := p.NCoins()
	if len(amounts) != n {
		return nil, errors.Wrap(shared.ErrInvalidAmount, "calcTokenAmount")
	}

	amp := p.amp()
	ann := new(big.Int).Mul(amp, big.NewInt(int64(n)))

	xp0, err := p.xp()
	if err != nil {
		return nil, err
	}
	d0, err := GetD(xp0, ann)
	if err != nil {
		return nil, err
	}

	newBalances := u256.CloneSlice(p.Balances)
	for k := 0; k < n; k++ {
		newBalances[k].Add(newBalances[k], amounts[k])
	}
	xp1, err := p.xpMem(newBalances)
	if err != nil {
		return nil, err
	}
	d1, err := GetD(xp1, ann)
	if err != nil {
		return nil, err
	}

	supply := p.TotalSupply
	if supply == nil || supply.Sign() == 0 {
		return d1, nil
	}
	if d0.Sign() == 0 {
		return nil, errors.Wrap(shared.ErrSupplyZero, "supply without invariant")
	}
	diff := new(big.Int).Sub(d1, d0)
	return u256.MulDiv(supply, diff, d0, shared.RoundingDown), nil
}

// CalcTokenAmountWithFees is the imbalance-fee-adjusted mint quote used by
// add_liquidity: each coin pays fee*N/(4*(N-1)) on its distance from the
// ideal post-deposit balance before the minted share is computed.
func (p *Pool) CalcTokenAmountWithFees(amounts []*big.Int) (*big.Int, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	n := p.NCoins()
	if len(amounts) != n {
		return nil, errors.Wrap(shared.ErrInvalidAmount, "calcTokenAmountWithFees")
	}
	supply := p.TotalSupply
	if supply == nil || supply.Sign() == 0 {
		return p.CalcTokenAmount(amounts)
	}

	amp := p.amp()
	ann := new(big.Int).Mul(amp, big.NewInt(int64(n)))

	xp0, err := p.xp()
	if err != nil {
		return nil, err
	}
	d0, err := GetD(xp0, ann)
	if err != nil {
		return nil, err
	}
	if d0.Sign() == 0 {
		return nil, errors.Wrap(shared.ErrSupplyZero, "supply without invariant")
	}

	newBalances := u256.CloneSlice(p.Balances)
	for k := 0; k < n; k++ {
		newBalances[k].Add(newBalances[k], amounts[k])
	}
	xp1, err := p.xpMem(newBalances)
	if err != nil {
		return nil, err
	}
	d1, err := GetD(xp1, ann)
	if err != nil {
		return nil, err
	}

	// fee = baseFee * N / (4 * (N - 1))
	fee := new(big.Int).Mul(p.baseFee(), big.NewInt(int64(n)))
	fee.Div(fee, big.NewInt(int64(4*(n-1))))

	for k := 0; k < n; k++ {
		ideal := u256.MulDiv(d1, xp0[k], d0, shared.RoundingDown)
		diff := u256.AbsDiff(ideal, xp1[k])
		xp1[k].Sub(xp1[k], u256.MulDiv(fee, diff, shared.FeeDenominator, shared.RoundingDown))
	}
	d2, err := GetD(xp1, ann)
	if err != nil {
		return nil, err
	}
	mint := new(big.Int).Sub(d2, d0)
	return u256.MulDiv(supply, mint, d0, shared.RoundingDown), nil
}

// CalcWithdrawOneCoin quotes the coin-i payout for burning lp tokens.
// A full withdrawal short-circuits to the raw balance.
func (p *Pool) CalcWithdrawOneCoin(lp *big.Int, i int) (*big.Int, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	n := p.NCoins()
	if i < 0 || i >= n {
		return nil, errors.Wrap(shared.ErrInvalidIndex, "calcWithdrawOneCoin")
	}
	if lp == nil || lp.Sign() <= 0 {
		return big.NewInt(0), nil
	}
	supply := p.TotalSupply
	if supply == nil || supply.Sign() == 0 {
		return nil, errors.Wrap(shared.ErrSupplyZero, "calcWithdrawOneCoin")
	}
	if lp.Cmp(supply) > 0 {
		return nil, errors.Wrap(shared.ErrInvalidAmount, "lp exceeds supply")
	}
	if lp.Cmp(supply) == 0 {
		return u256.Clone(p.Balances[i]), nil
	}

	amp := p.amp()
	ann := new(big.Int).Mul(amp, big.NewInt(int64(n)))
	xp, err := p.xp()
	if err != nil {
		return nil, err
	}
	d0, err := GetD(xp, ann)
	if err != nil {
		return nil, err
	}
	remaining := new(big.Int).Sub(supply, lp)
	d1 := u256.MulDiv(d0, remaining, supply, shared.RoundingDown)

	y, err := GetYD(i, xp, ann, d1)
	if err != nil {
		return nil, err
	}

	dyRaw := new(big.Int).Sub(xp[i], y)
	if dyRaw.Sign() <= 0 {
		return big.NewInt(0), nil
	}
	feeAmt := u256.MulDiv(p.baseFee(), dyRaw, shared.FeeDenominator, shared.RoundingDown)
	dy := new(big.Int).Sub(dyRaw, feeAmt)

	rates, err := p.rates()
	if err != nil {
		return nil, err
	}
	if p.Rates != nil {
		// Exact path: withdraw one unit less before unscaling, matching the
		// reference rounding even when it lands on zero.
		dy.Sub(dy, u256.One)
		if dy.Sign() < 0 {
			return big.NewInt(0), nil
		}
		return u256.MulDiv(dy, shared.Precision, rates[i], shared.RoundingDown), nil
	}
	// Normalized path unscales first and takes the unit off only while the
	// result is still positive.
	dy = u256.MulDiv(dy, shared.Precision, rates[i], shared.RoundingDown)
	if dy.Sign() > 0 {
		dy.Sub(dy, u256.One)
	}
	return dy, nil
}

// CalcRemoveLiquidity quotes the strictly proportional withdrawal:
// balances[k] * lp / supply per coin.
func (p *Pool) CalcRemoveLiquidity(lp *big.Int) ([]*big.Int, error) {
	supply := p.TotalSupply
	if supply == nil || supply.Sign() == 0 {
		return nil, errors.Wrap(shared.ErrSupplyZero, "calcRemoveLiquidity")
	}
	if lp == nil || lp.Sign() < 0 || lp.Cmp(supply) > 0 {
		return nil, errors.Wrap(shared.ErrInvalidAmount, "calcRemoveLiquidity")
	}
	out := make([]*big.Int, p.NCoins())
	for k, b := range p.Balances {
		out[k] = u256.MulDiv(b, lp, supply, shared.RoundingDown)
	}
	return out, nil
}

// GetVirtualPrice returns D * PRECISION / totalSupply, the fee-accruing
// value of one LP token in the 18-decimal numeraire. An empty pool is worth
// exactly PRECISION.
func (p *Pool) GetVirtualPrice() (*big.Int, error) {
	supply := p.TotalSupply
	if supply == nil || supply.Sign() == 0 {
		return u256.Clone(shared.Precision), nil
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	xp, err := p.xp()
	if err != nil {
		return nil, err
	}
	ann := new(big.Int).Mul(p.amp(), big.NewInt(int64(p.NCoins())))
	d, err := GetD(xp, ann)
	if err != nil {
		return nil, err
	}
	return u256.MulDiv(d, shared.Precision, supply, shared.RoundingDown), nil
}
