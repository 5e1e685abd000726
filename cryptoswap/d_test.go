package cryptoswap

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

// within asserts |got - want| <= want * tolBps / 10000.
func within(t *testing.T, got, want *big.Int, tolBps int64, msg string) {
	t.Helper()
	tol := new(big.Int).Mul(want, big.NewInt(tolBps))
	tol.Div(tol, big.NewInt(10_000))
	assert.True(t, u256.AbsDiff(got, want).Cmp(tol) <= 0, "%s: got=%s want=%s±%sbps", msg, got, want, big.NewInt(tolBps))
}

var (
	twoA     = big.NewInt(400_000)
	twoGamma = tokens(145, 12)
	triA     = big.NewInt(1_707_629)
	triGamma = big.NewInt(11_809_167_828_997)
)

func TestCalcD(t *testing.T) {
	t.Run("balanced two-coin", func(t *testing.T) {
		xp := []*big.Int{tokens(1_000_000, 18), tokens(1_000_000, 18)}
		d, err := CalcD(twoA, twoGamma, xp)
		require.NoError(t, err)
		within(t, d, tokens(2_000_000, 18), 10, "balanced D")
	})

	t.Run("balanced three-coin", func(t *testing.T) {
		xp := []*big.Int{tokens(1_000_000, 18), tokens(1_000_000, 18), tokens(1_000_000, 18)}
		d, err := CalcD(triA, triGamma, xp)
		require.NoError(t, err)
		within(t, d, tokens(3_000_000, 18), 10, "balanced D")
	})

	t.Run("imbalanced two-coin stays below sum", func(t *testing.T) {
		xp := []*big.Int{tokens(1_500_000, 18), tokens(500_000, 18)}
		d, err := CalcD(twoA, twoGamma, xp)
		require.NoError(t, err)
		assert.True(t, d.Sign() > 0)
		assert.True(t, d.Cmp(u256.Sum(xp)) < 0)
	})

	t.Run("doubling balances doubles D", func(t *testing.T) {
		xp := []*big.Int{tokens(1_000_000, 18), tokens(950_000, 18)}
		d1, err := CalcD(twoA, twoGamma, xp)
		require.NoError(t, err)
		doubled := []*big.Int{new(big.Int).Mul(xp[0], u256.Two), new(big.Int).Mul(xp[1], u256.Two)}
		d2, err := CalcD(twoA, twoGamma, doubled)
		require.NoError(t, err)
		within(t, d2, new(big.Int).Mul(d1, u256.Two), 5, "scaled D")
	})

	t.Run("all-zero balances give zero", func(t *testing.T) {
		d, err := CalcD(twoA, twoGamma, []*big.Int{big.NewInt(0), big.NewInt(0)})
		require.NoError(t, err)
		assert.Zero(t, d.Sign())
	})

	t.Run("partial zero is fatal", func(t *testing.T) {
		_, err := CalcD(twoA, twoGamma, []*big.Int{tokens(1, 18), big.NewInt(0)})
		assert.True(t, errors.Is(err, shared.ErrZeroBalance))
	})

	t.Run("zero parameters are fatal", func(t *testing.T) {
		xp := []*big.Int{tokens(1, 18), tokens(1, 18)}
		_, err := CalcD(big.NewInt(0), twoGamma, xp)
		assert.True(t, errors.Is(err, shared.ErrInvalidA))
		_, err = CalcD(twoA, big.NewInt(0), xp)
		assert.True(t, errors.Is(err, shared.ErrInvalidGamma))
	})
}

func TestNewtonYRecoversBalance(t *testing.T) {
	xp := []*big.Int{tokens(1_000_000, 18), tokens(1_000_000, 18)}
	d, err := CalcD(twoA, twoGamma, xp)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		y, err := NewtonY(twoA, twoGamma, xp, d, i)
		require.NoError(t, err)
		within(t, y, xp[i], 10, "recovered balance")
	}
}

func TestNewtonY3RecoversBalance(t *testing.T) {
	xp := []*big.Int{tokens(1_000_000, 18), tokens(1_000_000, 18), tokens(1_000_000, 18)}
	d, err := CalcD(triA, triGamma, xp)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		y, err := NewtonY3(triA, triGamma, xp, d, i)
		require.NoError(t, err)
		within(t, y, xp[i], 10, "recovered balance")
	}
}

func TestNewtonYGuards(t *testing.T) {
	xp := []*big.Int{tokens(1, 18), tokens(1, 18)}

	_, err := NewtonY(twoA, twoGamma, xp, big.NewInt(0), 0)
	assert.True(t, errors.Is(err, shared.ErrInsufficientLiquidity))

	_, err = NewtonY(big.NewInt(0), twoGamma, xp, tokens(2, 18), 0)
	assert.True(t, errors.Is(err, shared.ErrInvalidA))

	_, err = NewtonY(twoA, big.NewInt(0), xp, tokens(2, 18), 0)
	assert.True(t, errors.Is(err, shared.ErrInvalidGamma))

	xp3 := []*big.Int{tokens(1, 18), tokens(1, 18), tokens(1, 18)}
	_, err = NewtonY3(triA, triGamma, xp3, big.NewInt(0), 0)
	assert.True(t, errors.Is(err, shared.ErrInsufficientLiquidity))

	_, err = NewtonY3(triA, triGamma, []*big.Int{tokens(1, 18), big.NewInt(0), tokens(1, 18)}, tokens(3, 18), 0)
	assert.True(t, errors.Is(err, shared.ErrZeroBalance))
}
