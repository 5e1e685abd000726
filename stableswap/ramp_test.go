package stableswap

import (
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curvelab/curve-go/shared"
)

func TestAAtTime(t *testing.T) {
	a0, a1 := big.NewInt(100), big.NewInt(200)

	t.Run("before ramp", func(t *testing.T) {
		a, err := AAtTime(a0, a1, 1000, 2000, 500)
		require.NoError(t, err)
		assert.Zero(t, a.Cmp(a0))
	})

	t.Run("after ramp", func(t *testing.T) {
		a, err := AAtTime(a0, a1, 1000, 2000, 2000)
		require.NoError(t, err)
		assert.Zero(t, a.Cmp(a1))
	})

	t.Run("halfway", func(t *testing.T) {
		a, err := AAtTime(a0, a1, 1000, 2000, 1500)
		require.NoError(t, err)
		assert.Zero(t, a.Cmp(big.NewInt(150)))
	})

	t.Run("ramping down", func(t *testing.T) {
		a, err := AAtTime(big.NewInt(400), big.NewInt(100), 0, 300, 100)
		require.NoError(t, err)
		assert.Zero(t, a.Cmp(big.NewInt(300)))
	})

	t.Run("degenerate window is fatal", func(t *testing.T) {
		_, err := AAtTime(a0, a1, 2000, 2000, 1500)
		assert.True(t, errors.Is(err, shared.ErrInvalidRamp))
		_, err = AAtTime(a0, a1, 2000, 1000, 1500)
		assert.True(t, errors.Is(err, shared.ErrInvalidRamp))
	})
}
