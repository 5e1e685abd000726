package cryptoswap

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/curvelab/curve-go/shared"
	"github.com/curvelab/curve-go/u256"
)

// CalcTokenAmount quotes the LP tokens minted for depositing amounts (native
// decimals). First deposit mints D1 outright.
func (p *Pool) CalcTokenAmount(amounts []*big.Int) (*big.Int, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	if len(amounts) != 2 {
		return nil, errors.Wrap(shared.ErrInvalidAmount, "calcTokenAmount")
	}
	return calcTokenAmount(p.A, p.Gamma, p.xp(), p.xpMem(addAmounts(p.Balances, amounts)), p.TotalSupply)
}

func (p *TriPool) CalcTokenAmount(amounts []*big.Int) (*big.Int, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	if len(amounts) != 3 {
		return nil, errors.Wrap(shared.ErrInvalidAmount, "calcTokenAmount")
	}
	return calcTokenAmount(p.A, p.Gamma, p.xp(), p.xpMem(addAmounts(p.Balances, amounts)), p.TotalSupply)
}

func addAmounts(balances, amounts []*big.Int) []*big.Int {
	out := u256.CloneSlice(balances)
	for k := range out {
		out[k].Add(out[k], amounts[k])
	}
	return out
}

func calcTokenAmount(a, gamma *big.Int, xp0, xp1 []*big.Int, supply *big.Int) (*big.Int, error) {
	d0, err := CalcD(a, gamma, xp0)
	if err != nil {
		return nil, err
	}
	d1, err := CalcD(a, gamma, xp1)
	if err != nil {
		return nil, err
	}
	if supply == nil || supply.Sign() == 0 {
		return d1, nil
	}
	if d0.Sign() == 0 {
		return nil, errors.Wrap(shared.ErrSupplyZero, "supply without invariant")
	}
	diff := new(big.Int).Sub(d1, d0)
	return u256.MulDiv(supply, diff, d0, shared.RoundingDown), nil
}

// CalcWithdrawOneCoin quotes the coin-i payout for burning lp tokens; the
// pool D shrinks proportionally and the dynamic fee applies to the exit.
// Full withdrawal short-circuits to the raw balance.
func (p *Pool) CalcWithdrawOneCoin(lp *big.Int, i int) (*big.Int, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	if i < 0 || i > 1 {
		return nil, errors.Wrap(shared.ErrInvalidIndex, "calcWithdrawOneCoin")
	}
	xp := p.xp()
	dy, err := calcWithdrawOneCoin(p.A, p.Gamma, xp, p.D, lp, i, p.TotalSupply, p.FeeGamma, p.MidFee, p.OutFee, NewtonY)
	if err != nil {
		return nil, err
	}
	if dy == nil {
		return u256.Clone(p.Balances[i]), nil
	}
	return p.unscale(dy, i), nil
}

func (p *TriPool) CalcWithdrawOneCoin(lp *big.Int, i int) (*big.Int, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	if i < 0 || i > 2 {
		return nil, errors.Wrap(shared.ErrInvalidIndex, "calcWithdrawOneCoin")
	}
	xp := p.xp()
	dy, err := calcWithdrawOneCoin(p.A, p.Gamma, xp, p.D, lp, i, p.TotalSupply, p.FeeGamma, p.MidFee, p.OutFee, NewtonY3)
	if err != nil {
		return nil, err
	}
	if dy == nil {
		return u256.Clone(p.Balances[i]), nil
	}
	return p.unscale(dy, i), nil
}

type newtonFn func(a, gamma *big.Int, x []*big.Int, d *big.Int, i int) (*big.Int, error)

// calcWithdrawOneCoin returns the scaled payout, or a nil payout to signal
// the full-withdrawal short-circuit.
func calcWithdrawOneCoin(a, gamma *big.Int, xp []*big.Int, d, lp *big.Int, i int, supply, feeGamma, midFee, outFee *big.Int, solve newtonFn) (*big.Int, error) {
	if supply == nil || supply.Sign() == 0 {
		return nil, errors.Wrap(shared.ErrSupplyZero, "calcWithdrawOneCoin")
	}
	if lp == nil || lp.Sign() <= 0 {
		return big.NewInt(0), nil
	}
	if lp.Cmp(supply) > 0 {
		return nil, errors.Wrap(shared.ErrInvalidAmount, "lp exceeds supply")
	}
	if lp.Cmp(supply) == 0 {
		return nil, nil
	}
	if d == nil || d.Sign() == 0 {
		return nil, errors.Wrap(shared.ErrInsufficientLiquidity, "calcWithdrawOneCoin")
	}

	remaining := new(big.Int).Sub(supply, lp)
	d1 := u256.MulDiv(d, remaining, supply, shared.RoundingDown)

	y, err := solve(a, gamma, xp, d1, i)
	if err != nil {
		return nil, err
	}
	dyRaw := new(big.Int).Sub(xp[i], y)
	if dyRaw.Sign() <= 0 {
		return big.NewInt(0), nil
	}

	xpAfter := u256.CloneSlice(xp)
	xpAfter[i] = y
	feeRate := DynamicFee(xpAfter, feeGamma, midFee, outFee)
	feeAmt := u256.MulDiv(feeRate, dyRaw, shared.FeeDenominator, shared.RoundingDown)
	return dyRaw.Sub(dyRaw, feeAmt), nil
}

// CalcRemoveLiquidity quotes the strictly proportional withdrawal.
func (p *Pool) CalcRemoveLiquidity(lp *big.Int) ([]*big.Int, error) {
	return calcRemoveLiquidity(p.Balances, lp, p.TotalSupply)
}

func (p *TriPool) CalcRemoveLiquidity(lp *big.Int) ([]*big.Int, error) {
	return calcRemoveLiquidity(p.Balances, lp, p.TotalSupply)
}

func calcRemoveLiquidity(balances []*big.Int, lp, supply *big.Int) ([]*big.Int, error) {
	if supply == nil || supply.Sign() == 0 {
		return nil, errors.Wrap(shared.ErrSupplyZero, "calcRemoveLiquidity")
	}
	if lp == nil || lp.Sign() < 0 || lp.Cmp(supply) > 0 {
		return nil, errors.Wrap(shared.ErrInvalidAmount, "calcRemoveLiquidity")
	}
	out := make([]*big.Int, len(balances))
	for k, b := range balances {
		out[k] = u256.MulDiv(b, lp, supply, shared.RoundingDown)
	}
	return out, nil
}

// GetVirtualPrice returns D * PRECISION / totalSupply; an empty pool is
// worth exactly PRECISION.
func (p *Pool) GetVirtualPrice() (*big.Int, error) {
	return virtualPrice(p.D, p.TotalSupply)
}

func (p *TriPool) GetVirtualPrice() (*big.Int, error) {
	return virtualPrice(p.D, p.TotalSupply)
}

func virtualPrice(d, supply *big.Int) (*big.Int, error) {
	if supply == nil || supply.Sign() == 0 {
		return u256.Clone(shared.Precision), nil
	}
	if d == nil {
		return u256.Clone(shared.Precision), nil
	}
	return u256.MulDiv(d, shared.Precision, supply, shared.RoundingDown), nil
}

// LpPrice values one LP token in token-0 terms: the scaled-balance sum
// divided by the supply.
func (p *Pool) LpPrice() (*big.Int, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	return lpPrice(p.xp(), p.TotalSupply)
}

func (p *TriPool) LpPrice() (*big.Int, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	return lpPrice(p.xp(), p.TotalSupply)
}

func lpPrice(xp []*big.Int, supply *big.Int) (*big.Int, error) {
	if supply == nil || supply.Sign() == 0 {
		return big.NewInt(0), nil
	}
	return u256.MulDiv(u256.Sum(xp), shared.Precision, supply, shared.RoundingDown), nil
}
