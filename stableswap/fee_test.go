package stableswap

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDynamicFee(t *testing.T) {
	base := big.NewInt(4_000_000)

	t.Run("disabled multiplier passes base through", func(t *testing.T) {
		for _, mult := range []*big.Int{nil, big.NewInt(0), big.NewInt(10_000_000_000)} {
			fee := DynamicFee(tokens(1, 18), tokens(1, 18), base, mult)
			assert.Zero(t, fee.Cmp(base))
		}
	})

	t.Run("balanced pair stays at base", func(t *testing.T) {
		fee := DynamicFee(tokens(500, 18), tokens(500, 18), base, big.NewInt(50_000_000_000))
		assert.Zero(t, fee.Cmp(base))
	})

	t.Run("skewed pair pays more", func(t *testing.T) {
		mult := big.NewInt(50_000_000_000) // 5x
		fee := DynamicFee(tokens(950, 18), tokens(50, 18), base, mult)
		assert.True(t, fee.Cmp(base) > 0)
		// Never beyond multiplier * base / FEE_DENOMINATOR.
		assert.True(t, fee.Cmp(big.NewInt(20_000_000)) <= 0)
	})

	t.Run("more skew means more fee", func(t *testing.T) {
		mult := big.NewInt(50_000_000_000)
		mild := DynamicFee(tokens(700, 18), tokens(300, 18), base, mult)
		harsh := DynamicFee(tokens(990, 18), tokens(10, 18), base, mult)
		assert.True(t, harsh.Cmp(mild) > 0)
	})

	t.Run("empty pair falls back to base", func(t *testing.T) {
		fee := DynamicFee(big.NewInt(0), big.NewInt(0), base, big.NewInt(50_000_000_000))
		assert.Zero(t, fee.Cmp(base))
	})
}
