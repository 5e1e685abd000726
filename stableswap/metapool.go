package stableswap

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/curvelab/curve-go/shared"
)

// GetDyUnderlying quotes a metapool swap that crosses into the base pool.
// The metapool holds [coin0, baseLP]; underlying index 0 is coin0 and
// indices 1..N_base address the base pool's coins. A crossing swap composes
// one metapool exchange with one base-pool liquidity leg; no new primitive
// is involved.
func GetDyUnderlying(meta, base *Pool, i, j int, dx *big.Int) (*big.Int, error) {
	if meta.NCoins() != 2 {
		return nil, errors.Wrap(shared.ErrInvalidIndex, "metapool must have 2 coins")
	}
	nUnderlying := 1 + base.NCoins()
	if i == j || i < 0 || i >= nUnderlying || j < 0 || j >= nUnderlying {
		return big.NewInt(0), nil
	}
	if dx == nil || dx.Sign() <= 0 {
		return big.NewInt(0), nil
	}

	switch {
	case i == 0:
		// coin0 -> base coin: swap into baseLP, then withdraw one-sided.
		lp, err := meta.GetDy(0, 1, dx)
		if err != nil {
			return nil, err
		}
		if lp.Sign() == 0 {
			return big.NewInt(0), nil
		}
		return base.CalcWithdrawOneCoin(lp, j-1)
	case j == 0:
		// base coin -> coin0: deposit one-sided, then swap the minted LP.
		amounts := make([]*big.Int, base.NCoins())
		for k := range amounts {
			amounts[k] = big.NewInt(0)
		}
		amounts[i-1] = dx
		lp, err := base.CalcTokenAmountWithFees(amounts)
		if err != nil {
			return nil, err
		}
		if lp.Sign() == 0 {
			return big.NewInt(0), nil
		}
		return meta.GetDy(1, 0, lp)
	default:
		// base coin -> base coin never leaves the base pool.
		return base.GetDy(i-1, j-1, dx)
	}
}
