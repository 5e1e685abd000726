package cryptoswap

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curvelab/curve-go/u256"
)

// twocryptoFixture is a balanced 2M pool with typical twocrypto-ng
// parameters.
func twocryptoFixture() *Pool {
	return &Pool{
		Balances:   []*big.Int{tokens(1_000_000, 18), tokens(1_000_000, 18)},
		Precisions: []*big.Int{big.NewInt(1), big.NewInt(1)},
		PriceScale: tokens(1, 18),
		A:          twoA,
		Gamma:      twoGamma,
		D:          tokens(2_000_000, 18),
		MidFee:     big.NewInt(3_000_000),
		OutFee:     big.NewInt(30_000_000),
		FeeGamma:   tokens(230, 12),
	}
}

// tricryptoFixture mirrors a USDC/WBTC/WETH pool: 6/8/18 decimal tokens,
// equal scaled balances, tricrypto-sized A and gamma.
func tricryptoFixture() *TriPool {
	return &TriPool{
		Balances:    []*big.Int{tokens(1_000_000, 6), tokens(1_000_000, 8), tokens(1_000_000, 18)},
		Precisions:  []*big.Int{tokens(1, 12), tokens(1, 10), big.NewInt(1)},
		PriceScales: []*big.Int{tokens(1, 18), tokens(1, 18)},
		A:           triA,
		Gamma:       triGamma,
		D:           tokens(3_000_000, 18),
		MidFee:      big.NewInt(3_000_000),
		OutFee:      big.NewInt(30_000_000),
		FeeGamma:    tokens(500, 12),
	}
}

func TestPoolGetDyBalanced(t *testing.T) {
	pool := twocryptoFixture()
	dy, err := pool.GetDy(0, 1, tokens(100, 18))
	require.NoError(t, err)

	assert.True(t, dy.Cmp(tokens(99, 18)) > 0, "dy=%s", dy)
	assert.True(t, dy.Cmp(tokens(100, 18)) < 0, "dy=%s", dy)
}

func TestPoolGetDySilentZeroes(t *testing.T) {
	pool := twocryptoFixture()
	for _, tc := range []struct {
		name string
		i, j int
		dx   *big.Int
	}{
		{"same coin", 1, 1, tokens(1, 18)},
		{"out of range", 0, 2, tokens(1, 18)},
		{"zero amount", 0, 1, big.NewInt(0)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			dy, err := pool.GetDy(tc.i, tc.j, tc.dx)
			require.NoError(t, err)
			assert.Zero(t, dy.Sign())
		})
	}
}

func TestPoolGetDyMonotonic(t *testing.T) {
	pool := twocryptoFixture()
	prev := big.NewInt(-1)
	for _, dx := range []*big.Int{tokens(10, 18), tokens(100, 18), tokens(1_000, 18), tokens(50_000, 18)} {
		dy, err := pool.GetDy(0, 1, dx)
		require.NoError(t, err)
		assert.True(t, dy.Cmp(prev) >= 0)
		prev = dy
	}
}

func TestPoolGetDyPriceScale(t *testing.T) {
	// Token 1 pegged at 2000:1 -- selling the numeraire buys 1/2000th.
	pool := twocryptoFixture()
	pool.PriceScale = new(big.Int).Mul(big.NewInt(2000), tokens(1, 18))
	pool.Balances = []*big.Int{tokens(1_000_000, 18), tokens(500, 18)}
	pool.D = tokens(2_000_000, 18)

	dy, err := pool.GetDy(0, 1, tokens(2000, 18))
	require.NoError(t, err)
	// ~1 token out for 2000 in, minus fee and slippage.
	assert.True(t, dy.Cmp(tokens(98, 16)) > 0, "dy=%s", dy)  // > 0.98
	assert.True(t, dy.Cmp(tokens(100, 16)) < 0, "dy=%s", dy) // < 1.00
}

func TestPoolRoundtrip(t *testing.T) {
	pool := twocryptoFixture()
	for _, dx := range []*big.Int{tokens(100, 18), tokens(10_000, 18)} {
		dy, err := pool.GetDy(0, 1, dx)
		require.NoError(t, err)
		require.True(t, dy.Sign() > 0)

		back, err := pool.GetDx(0, 1, dy)
		require.NoError(t, err)

		tol := u256.Max(big.NewInt(1), new(big.Int).Div(dx, big.NewInt(50)))
		assert.True(t, u256.AbsDiff(back, dx).Cmp(tol) <= 0, "dx=%s back=%s", dx, back)
	}
}

func TestPoolGetDxRejectsDrain(t *testing.T) {
	pool := twocryptoFixture()
	dx, err := pool.GetDx(0, 1, pool.Balances[1])
	require.NoError(t, err)
	assert.Zero(t, dx.Sign())
}

func TestTriPoolGetDyUsdcToWbtc(t *testing.T) {
	pool := tricryptoFixture()
	// 1000 USDC in, quantity-pegged fixture: expect just under 1000 "WBTC"
	// units-of-account, i.e. just under 10^11 raw at 8 decimals.
	dy, err := pool.GetDy(0, 1, tokens(1000, 6))
	require.NoError(t, err)

	assert.True(t, dy.Cmp(tokens(980, 8)) > 0, "dy=%s", dy)
	assert.True(t, dy.Cmp(tokens(1000, 8)) < 0, "dy=%s", dy)
}

func TestTriPoolGetDyIntoNumeraire(t *testing.T) {
	pool := tricryptoFixture()
	dy, err := pool.GetDy(2, 0, tokens(1000, 18))
	require.NoError(t, err)

	assert.True(t, dy.Cmp(tokens(980, 6)) > 0, "dy=%s", dy)
	assert.True(t, dy.Cmp(tokens(1000, 6)) < 0, "dy=%s", dy)
}

func TestTriPoolMonotonic(t *testing.T) {
	pool := tricryptoFixture()
	prev := big.NewInt(-1)
	for _, dx := range []*big.Int{tokens(100, 6), tokens(1_000, 6), tokens(50_000, 6)} {
		dy, err := pool.GetDy(0, 1, dx)
		require.NoError(t, err)
		assert.True(t, dy.Cmp(prev) >= 0)
		prev = dy
	}
}

func TestTriPoolRoundtrip(t *testing.T) {
	pool := tricryptoFixture()
	dx := tokens(5_000, 6)
	dy, err := pool.GetDy(0, 1, dx)
	require.NoError(t, err)
	require.True(t, dy.Sign() > 0)

	back, err := pool.GetDx(0, 1, dy)
	require.NoError(t, err)
	tol := u256.Max(big.NewInt(1), new(big.Int).Div(dx, big.NewInt(50)))
	assert.True(t, u256.AbsDiff(back, dx).Cmp(tol) <= 0, "dx=%s back=%s", dx, back)
}

func TestPoolQuoteSwap(t *testing.T) {
	pool := twocryptoFixture()
	dx := tokens(10_000, 18)
	quote, err := pool.QuoteSwap(0, 1, dx)
	require.NoError(t, err)

	dy, err := pool.GetDy(0, 1, dx)
	require.NoError(t, err)
	assert.Zero(t, quote.AmountOut.Cmp(dy))
	assert.True(t, quote.Fee.Sign() > 0)
	assert.True(t, quote.SpotPrice.Sign() > 0)
	assert.True(t, quote.EffectivePrice.Sign() > 0)
	assert.True(t, quote.PriceImpact.Sign() >= 0)
}
