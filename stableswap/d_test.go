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

func tokens(amount int64, decimals uint) *big.Int {
	return new(big.Int).Mul(big.NewInt(amount), u256.Pow10(decimals))
}

func ann(a int64, n int64) *big.Int {
	out := new(big.Int).Mul(big.NewInt(a), shared.APrecision)
	return out.Mul(out, big.NewInt(n))
}

func TestGetD(t *testing.T) {
	t.Run("empty pool", func(t *testing.T) {
		d, err := GetD([]*big.Int{big.NewInt(0), big.NewInt(0)}, ann(100, 2))
		require.NoError(t, err)
		assert.Zero(t, d.Sign())
	})

	t.Run("balanced pool equals sum", func(t *testing.T) {
		xp := []*big.Int{tokens(1_000_000, 18), tokens(1_000_000, 18)}
		d, err := GetD(xp, ann(100, 2))
		require.NoError(t, err)
		sum := u256.Sum(xp)
		assert.True(t, d.Sign() > 0)
		assert.True(t, d.Cmp(new(big.Int).Add(sum, big.NewInt(2))) <= 0, "D must not exceed sum(xp): %s vs %s", d, sum)
		assert.True(t, u256.AbsDiff(d, sum).Cmp(big.NewInt(10)) <= 0, "balanced D should sit on sum(xp)")
	})

	t.Run("imbalanced pool stays below sum", func(t *testing.T) {
		xp := []*big.Int{tokens(1_900_000, 18), tokens(100_000, 18)}
		d, err := GetD(xp, ann(100, 2))
		require.NoError(t, err)
		assert.True(t, d.Sign() > 0)
		assert.True(t, d.Cmp(u256.Sum(xp)) < 0)
	})

	t.Run("doubling balances doubles D", func(t *testing.T) {
		xp := []*big.Int{tokens(1_000_000, 18), tokens(997_000, 18), tokens(1_020_000, 18)}
		d1, err := GetD(xp, ann(200, 3))
		require.NoError(t, err)
		doubled := make([]*big.Int, len(xp))
		for k, x := range xp {
			doubled[k] = new(big.Int).Mul(x, big.NewInt(2))
		}
		d2, err := GetD(doubled, ann(200, 3))
		require.NoError(t, err)
		ratio := new(big.Int).Div(new(big.Int).Mul(d2, big.NewInt(1000)), d1)
		assert.True(t, u256.AbsDiff(ratio, big.NewInt(2000)).Cmp(big.NewInt(2)) <= 0,
			"2x balances should give ~2x D, got ratio %s/1000", ratio)
	})

	t.Run("extreme imbalance converges", func(t *testing.T) {
		xp := []*big.Int{tokens(100_000, 18), big.NewInt(1_000_000_000_000_000_000)}
		d, err := GetD(xp, ann(100, 2))
		require.NoError(t, err)
		assert.True(t, d.Sign() > 0)
	})

	t.Run("partial zero balance is fatal", func(t *testing.T) {
		_, err := GetD([]*big.Int{tokens(1, 18), big.NewInt(0)}, ann(100, 2))
		assert.True(t, errors.Is(err, shared.ErrZeroBalance))
	})

	t.Run("zero amplification is fatal", func(t *testing.T) {
		_, err := GetD([]*big.Int{tokens(1, 18), tokens(1, 18)}, big.NewInt(0))
		assert.True(t, errors.Is(err, shared.ErrInvalidA))
	})
}

func TestGetYRecoversBalance(t *testing.T) {
	// Solving for j with an unchanged x_i must hand back roughly xp[j].
	xp := []*big.Int{tokens(1_000_000, 18), tokens(1_000_000, 18)}
	amp := ann(100, 2)
	d, err := GetD(xp, amp)
	require.NoError(t, err)

	y, err := GetY(0, 1, xp[0], xp, amp, d)
	require.NoError(t, err)
	assert.True(t, u256.AbsDiff(y, xp[1]).Cmp(big.NewInt(10)) <= 0,
		"y=%s should recover xp[1]=%s", y, xp[1])
}

func TestGetYStrictOnIndices(t *testing.T) {
	xp := []*big.Int{tokens(1, 18), tokens(1, 18)}
	amp := ann(100, 2)
	d, err := GetD(xp, amp)
	require.NoError(t, err)

	_, err = GetY(0, 0, xp[0], xp, amp, d)
	assert.True(t, errors.Is(err, shared.ErrInvalidIndex))
	_, err = GetY(0, 5, xp[0], xp, amp, d)
	assert.True(t, errors.Is(err, shared.ErrInvalidIndex))
	_, err = GetYD(9, xp, amp, d)
	assert.True(t, errors.Is(err, shared.ErrInvalidIndex))
}

func TestGetYDMatchesGetDInverse(t *testing.T) {
	// getYD at the unchanged D must reproduce the existing balance.
	xp := []*big.Int{tokens(500_000, 18), tokens(700_000, 18), tokens(600_000, 18)}
	amp := ann(150, 3)
	d, err := GetD(xp, amp)
	require.NoError(t, err)

	for i := range xp {
		y, err := GetYD(i, xp, amp, d)
		require.NoError(t, err)
		assert.True(t, u256.AbsDiff(y, xp[i]).Cmp(big.NewInt(100)) <= 0,
			"coin %d: y=%s xp=%s", i, y, xp[i])
	}
}
