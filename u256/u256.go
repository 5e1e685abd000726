// Package u256 holds the unsigned wide-integer helpers every kernel builds
// on. Stored quantities fit 256 bits; chained products inside the Newton
// solvers need up to 512 bits of headroom, which math/big provides without
// ceremony. All division truncates toward zero unless a rounding mode says
// otherwise.
package u256

import (
	"fmt"
	"math/big"

	"github.com/pkg/errors"

	"github.com/curvelab/curve-go/shared"
)

var (
	Zero = big.NewInt(0)
	One  = big.NewInt(1)
	Two  = big.NewInt(2)

	// MaxU256 caps every stored field.
	MaxU256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
)

func Clone(a *big.Int) *big.Int {
	return new(big.Int).Set(a)
}

func CloneSlice(a []*big.Int) []*big.Int {
	out := make([]*big.Int, len(a))
	for i, v := range a {
		out[i] = new(big.Int).Set(v)
	}
	return out
}

func Sum(a []*big.Int) *big.Int {
	s := new(big.Int)
	for _, v := range a {
		s.Add(s, v)
	}
	return s
}

func Min(a, b *big.Int) *big.Int {
	if a.Cmp(b) < 0 {
		return a
	}
	return b
}

func Max(a, b *big.Int) *big.Int {
	if a.Cmp(b) > 0 {
		return a
	}
	return b
}

func MaxInSlice(a []*big.Int) *big.Int {
	if len(a) == 0 {
		return big.NewInt(0)
	}
	m := a[0]
	for _, v := range a[1:] {
		if v.Cmp(m) > 0 {
			m = v
		}
	}
	return new(big.Int).Set(m)
}

// AbsDiff returns |a - b| without mutating either operand.
func AbsDiff(a, b *big.Int) *big.Int {
	d := new(big.Int).Sub(a, b)
	return d.Abs(d)
}

// MulDiv computes x * y / denominator in one widening step.
func MulDiv(x, y, denominator *big.Int, rounding shared.Rounding) *big.Int {
	if denominator.Sign() == 0 {
		return big.NewInt(0)
	}
	mul := new(big.Int).Mul(x, y)
	div, mod := new(big.Int).QuoRem(mul, denominator, new(big.Int))
	if rounding == shared.RoundingUp && mod.Sign() != 0 {
		return div.Add(div, One)
	}
	return div
}

// Pow10 returns 10^n.
func Pow10(n uint) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}

// FromString parses a non-negative decimal or 0x-prefixed integer and
// rejects anything wider than 256 bits.
func FromString(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 0)
	if !ok {
		return nil, errors.Errorf("u256: cannot parse %q", s)
	}
	if v.Sign() < 0 {
		return nil, errors.New("u256: value cannot be negative")
	}
	if v.BitLen() > 256 {
		return nil, errors.New("u256: value overflows 256 bits")
	}
	return v, nil
}

// MustFromString is FromString for test seeds and constants.
func MustFromString(s string) *big.Int {
	v, err := FromString(s)
	if err != nil {
		panic(fmt.Sprintf("u256: %v", err))
	}
	return v
}
