package stableswap

import (
	"math/big"

	"github.com/curvelab/curve-go/shared"
	"github.com/curvelab/curve-go/u256"
)

// PegPoint finds the largest input of coin i that still buys at least a 1:1
// amount of coin j, compared in the common 18-decimal numeraire. Beyond it
// the pool stops subsidizing rebalancing. Returns 0 when even the smallest
// trade quotes below par.
func (p *Pool) PegPoint(i, j int) (*big.Int, error) {
	n := p.NCoins()
	if i == j || i < 0 || i >= n || j < 0 || j >= n {
		return big.NewInt(0), nil
	}
	rates, err := p.rates()
	if err != nil {
		return nil, err
	}

	atLeastPar := func(dx *big.Int) (bool, error) {
		dy, err := p.GetDy(i, j, dx)
		if err != nil {
			return false, err
		}
		in := new(big.Int).Mul(dx, rates[i])
		out := new(big.Int).Mul(dy, rates[j])
		return out.Cmp(in) >= 0, nil
	}

	low := big.NewInt(1)
	ok, err := atLeastPar(low)
	if err != nil {
		return nil, err
	}
	if !ok {
		return big.NewInt(0), nil
	}

	high := new(big.Int).Mul(u256.MaxInSlice(p.Balances), big.NewInt(10))
	for r := 0; r < shared.MaxSearchRounds; r++ {
		gap := new(big.Int).Sub(high, low)
		if gap.Cmp(u256.One) <= 0 {
			break
		}
		mid := new(big.Int).Add(low, high)
		mid.Rsh(mid, 1)
		ok, err = atLeastPar(mid)
		if err != nil {
			return nil, err
		}
		if ok {
			low = mid
		} else {
			high = mid
		}
	}
	return low, nil
}
