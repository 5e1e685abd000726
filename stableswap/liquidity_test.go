package stableswap

import (
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curvelab/curve-go/shared"
	"github.com/curvelab/curve-go/u256"
)

func fundedPool() *Pool {
	p := daiUsdcPool()
	p.TotalSupply = tokens(2_000_000, 18)
	return p
}

func TestCalcTokenAmountFirstDeposit(t *testing.T) {
	pool := &Pool{
		Balances: []*big.Int{big.NewInt(0), big.NewInt(0)},
		Decimals: []uint8{18, 6},
		A:        big.NewInt(100),
		Fee:      big.NewInt(4_000_000),
	}
	minted, err := pool.CalcTokenAmount([]*big.Int{tokens(1_000_000, 18), tokens(1_000_000, 6)})
	require.NoError(t, err)
	// First deposit mints D1 outright: ~2M in 18 decimals for a balanced add.
	assert.True(t, minted.Cmp(tokens(1_999_000, 18)) > 0)
	assert.True(t, minted.Cmp(tokens(2_001_000, 18)) < 0)
}

func TestCalcTokenAmountProportionalDeposit(t *testing.T) {
	pool := fundedPool()
	minted, err := pool.CalcTokenAmount([]*big.Int{tokens(10_000, 18), tokens(10_000, 6)})
	require.NoError(t, err)
	// A 1% balanced add mints ~1% of supply.
	assert.True(t, minted.Cmp(tokens(19_990, 18)) > 0, "minted=%s", minted)
	assert.True(t, minted.Cmp(tokens(20_010, 18)) < 0, "minted=%s", minted)
}

func TestCalcTokenAmountWithFeesNeverBeatsFeeFree(t *testing.T) {
	pool := fundedPool()
	amounts := []*big.Int{tokens(50_000, 18), big.NewInt(0)} // one-sided
	free, err := pool.CalcTokenAmount(amounts)
	require.NoError(t, err)
	charged, err := pool.CalcTokenAmountWithFees(amounts)
	require.NoError(t, err)
	assert.True(t, charged.Cmp(free) < 0)
	assert.True(t, charged.Sign() > 0)
}

func TestCalcTokenAmountBalancedDepositBarelyPaysFees(t *testing.T) {
	pool := fundedPool()
	amounts := []*big.Int{tokens(10_000, 18), tokens(10_000, 6)}
	free, err := pool.CalcTokenAmount(amounts)
	require.NoError(t, err)
	charged, err := pool.CalcTokenAmountWithFees(amounts)
	require.NoError(t, err)
	// Ideal-ratio deposits pay no imbalance fee beyond rounding.
	assert.True(t, u256.AbsDiff(free, charged).Cmp(tokens(1, 15)) < 0)
}

func TestCalcWithdrawOneCoin(t *testing.T) {
	pool := fundedPool()

	t.Run("partial withdrawal", func(t *testing.T) {
		dy, err := pool.CalcWithdrawOneCoin(tokens(10_000, 18), 1)
		require.NoError(t, err)
		// Burning 0.5% of supply for one coin yields just under 10k USDC.
		assert.True(t, dy.Cmp(tokens(9_900, 6)) > 0, "dy=%s", dy)
		assert.True(t, dy.Cmp(tokens(10_000, 6)) < 0, "dy=%s", dy)
	})

	t.Run("full withdrawal short-circuits", func(t *testing.T) {
		dy, err := pool.CalcWithdrawOneCoin(pool.TotalSupply, 1)
		require.NoError(t, err)
		assert.Zero(t, dy.Cmp(pool.Balances[1]))
	})

	t.Run("zero supply is fatal", func(t *testing.T) {
		empty := daiUsdcPool()
		_, err := empty.CalcWithdrawOneCoin(tokens(1, 18), 0)
		assert.True(t, errors.Is(err, shared.ErrSupplyZero))
	})

	t.Run("burn beyond supply is fatal", func(t *testing.T) {
		over := new(big.Int).Add(pool.TotalSupply, big.NewInt(1))
		_, err := pool.CalcWithdrawOneCoin(over, 1)
		assert.True(t, errors.Is(err, shared.ErrInvalidAmount))
	})
}

func TestCalcRemoveLiquidityProportional(t *testing.T) {
	pool := fundedPool()
	lp := tokens(500_000, 18) // a quarter of supply
	amounts, err := pool.CalcRemoveLiquidity(lp)
	require.NoError(t, err)
	require.Len(t, amounts, 2)

	for k := range amounts {
		want := u256.MulDiv(pool.Balances[k], lp, pool.TotalSupply, shared.RoundingDown)
		assert.Zero(t, amounts[k].Cmp(want), "coin %d", k)
	}
}

func TestGetVirtualPrice(t *testing.T) {
	t.Run("healthy pool floors at PRECISION", func(t *testing.T) {
		pool := fundedPool()
		vp, err := pool.GetVirtualPrice()
		require.NoError(t, err)
		floor := new(big.Int).Sub(shared.Precision, big.NewInt(10))
		assert.True(t, vp.Cmp(floor) >= 0, "vp=%s", vp)
	})

	t.Run("empty pool returns exactly PRECISION", func(t *testing.T) {
		pool := daiUsdcPool()
		vp, err := pool.GetVirtualPrice()
		require.NoError(t, err)
		assert.Zero(t, vp.Cmp(shared.Precision))
	})
}
