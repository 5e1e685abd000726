// Package cryptoswap reimplements the Curve CryptoSwap math off-chain: the
// two-coin newton_y and three-coin tricrypto solvers, the N-coin invariant,
// the K-shaped dynamic fee curve and the analytics layered on top. Token 0
// is always the numeraire; every other balance is pulled onto the internal
// peg through its price scale before the solvers see it.
package cryptoswap

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/curvelab/curve-go/shared"
	"github.com/curvelab/curve-go/u256"
)

// Pool is a two-coin CryptoSwap (twocrypto) snapshot. A carries the
// A_MULTIPLIER denominator; Gamma, D, PriceScale and FeeGamma are
// PRECISION-scaled. MidFee and OutFee are FEE_DENOMINATOR-denominated.
type Pool struct {
	Balances   []*big.Int
	Precisions []*big.Int
	PriceScale *big.Int
	A          *big.Int
	Gamma      *big.Int
	D          *big.Int
	MidFee     *big.Int
	OutFee     *big.Int
	FeeGamma   *big.Int

	TotalSupply *big.Int
}

// TriPool is the three-coin (tricrypto) variant; PriceScales holds the pegs
// of tokens 1 and 2 against token 0.
type TriPool struct {
	Balances    []*big.Int
	Precisions  []*big.Int
	PriceScales []*big.Int
	A           *big.Int
	Gamma       *big.Int
	D           *big.Int
	MidFee      *big.Int
	OutFee      *big.Int
	FeeGamma    *big.Int

	TotalSupply *big.Int
}

func (p *Pool) validate() error {
	if len(p.Balances) != 2 {
		return errors.Wrap(shared.ErrInvalidIndex, "twocrypto needs 2 balances")
	}
	if p.A == nil || p.A.Sign() == 0 {
		return shared.ErrInvalidA
	}
	if p.Gamma == nil || p.Gamma.Sign() == 0 {
		return shared.ErrInvalidGamma
	}
	if p.PriceScale == nil || p.PriceScale.Sign() == 0 {
		return errors.Wrap(shared.ErrInvalidAmount, "price scale")
	}
	return nil
}

func (p *TriPool) validate() error {
	if len(p.Balances) != 3 || len(p.PriceScales) != 2 {
		return errors.Wrap(shared.ErrInvalidIndex, "tricrypto needs 3 balances and 2 price scales")
	}
	if p.A == nil || p.A.Sign() == 0 {
		return shared.ErrInvalidA
	}
	if p.Gamma == nil || p.Gamma.Sign() == 0 {
		return shared.ErrInvalidGamma
	}
	for _, ps := range p.PriceScales {
		if ps == nil || ps.Sign() == 0 {
			return errors.Wrap(shared.ErrInvalidAmount, "price scale")
		}
	}
	return nil
}

func (p *Pool) precision(i int) *big.Int {
	if len(p.Precisions) > i && p.Precisions[i] != nil {
		return p.Precisions[i]
	}
	return u256.One
}

func (p *TriPool) precision(i int) *big.Int {
	if len(p.Precisions) > i && p.Precisions[i] != nil {
		return p.Precisions[i]
	}
	return u256.One
}

// xpMem scales raw balances into the numeraire:
// xp = [b0*p0, b1*p1*priceScale/PRECISION].
func (p *Pool) xpMem(balances []*big.Int) []*big.Int {
	xp := make([]*big.Int, 2)
	xp[0] = new(big.Int).Mul(balances[0], p.precision(0))
	xp[1] = new(big.Int).Mul(balances[1], p.precision(1))
	xp[1] = u256.MulDiv(xp[1], p.PriceScale, shared.Precision, shared.RoundingDown)
	return xp
}

func (p *Pool) xp() []*big.Int {
	return p.xpMem(p.Balances)
}

func (p *TriPool) xpMem(balances []*big.Int) []*big.Int {
	xp := make([]*big.Int, 3)
	xp[0] = new(big.Int).Mul(balances[0], p.precision(0))
	for k := 1; k < 3; k++ {
		xp[k] = new(big.Int).Mul(balances[k], p.precision(k))
		xp[k] = u256.MulDiv(xp[k], p.PriceScales[k-1], shared.Precision, shared.RoundingDown)
	}
	return xp
}

func (p *TriPool) xp() []*big.Int {
	return p.xpMem(p.Balances)
}
