// Package snapshot populates pool snapshots for the math packages, either
// from an Ethereum JSON-RPC endpoint or from snapshot JSON documents. The
// math core never calls into it; it only produces the input structs.
package snapshot

import (
	"context"
	"math/big"
	"strings"
	"time"

	ethereum "github.com/ethereum/go-ethereum"
	gethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"

	"github.com/curvelab/curve-go/cryptoswap"
	"github.com/curvelab/curve-go/stableswap"
	"github.com/curvelab/curve-go/u256"
)

const dialTimeout = 15 * time.Second

// Dial connects an ethclient with a bounded handshake.
func Dial(ctx context.Context, url string) (*ethclient.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()
	return ethclient.DialContext(ctx, url)
}

// Fetcher reads pool state over eth_call.
type Fetcher struct {
	client *ethclient.Client

	stable    gethabi.ABI
	twocrypto gethabi.ABI
	tricrypto gethabi.ABI
	erc20     gethabi.ABI
}

func NewFetcher(client *ethclient.Client) (*Fetcher, error) {
	f := &Fetcher{client: client}
	for _, entry := range []struct {
		raw string
		dst *gethabi.ABI
	}{
		{stableABI, &f.stable},
		{twocryptoABI, &f.twocrypto},
		{tricryptoABI, &f.tricrypto},
		{erc20ABI, &f.erc20},
	} {
		parsed, err := gethabi.JSON(strings.NewReader(entry.raw))
		if err != nil {
			return nil, errors.Wrap(err, "snapshot: parse abi")
		}
		*entry.dst = parsed
	}
	return f, nil
}

func (f *Fetcher) callUint(ctx context.Context, abi gethabi.ABI, to common.Address, method string, args ...interface{}) (*big.Int, error) {
	input, err := abi.Pack(method, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "snapshot: pack %s", method)
	}
	out, err := f.client.CallContract(ctx, ethereum.CallMsg{To: &to, Data: input}, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "snapshot: call %s", method)
	}
	values, err := abi.Unpack(method, out)
	if err != nil {
		return nil, errors.Wrapf(err, "snapshot: unpack %s", method)
	}
	v, ok := values[0].(*big.Int)
	if !ok {
		return nil, errors.Errorf("snapshot: %s returned %T", method, values[0])
	}
	return v, nil
}

func (f *Fetcher) balances(ctx context.Context, abi gethabi.ABI, pool common.Address, n int) ([]*big.Int, error) {
	out := make([]*big.Int, n)
	for k := 0; k < n; k++ {
		v, err := f.callUint(ctx, abi, pool, "balances", big.NewInt(int64(k)))
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

// StablePool reads a StableSwap snapshot. decimals supplies the per-coin
// token decimals (not exposed by the pool contract); lpToken, when non-nil,
// supplies TotalSupply.
func (f *Fetcher) StablePool(ctx context.Context, pool common.Address, decimals []uint8, lpToken *common.Address) (*stableswap.Pool, error) {
	balances, err := f.balances(ctx, f.stable, pool, len(decimals))
	if err != nil {
		return nil, err
	}
	a, err := f.callUint(ctx, f.stable, pool, "A")
	if err != nil {
		return nil, err
	}
	fee, err := f.callUint(ctx, f.stable, pool, "fee")
	if err != nil {
		return nil, err
	}
	// Older templates predate the dynamic fee; a reverting getter means the
	// multiplier is absent, not that the snapshot failed.
	multiplier, err := f.callUint(ctx, f.stable, pool, "offpeg_fee_multiplier")
	if err != nil {
		multiplier = big.NewInt(0)
	}

	p := &stableswap.Pool{
		Balances:            balances,
		Decimals:            decimals,
		A:                   a,
		Fee:                 fee,
		OffpegFeeMultiplier: multiplier,
	}
	if lpToken != nil {
		supply, err := f.callUint(ctx, f.erc20, *lpToken, "totalSupply")
		if err != nil {
			return nil, err
		}
		p.TotalSupply = supply
	}
	return p, nil
}

// TwocryptoPool reads a two-coin CryptoSwap snapshot. precisions are the
// 10^(18-decimals) multipliers of the two coins.
func (f *Fetcher) TwocryptoPool(ctx context.Context, pool common.Address, precisions []*big.Int, lpToken *common.Address) (*cryptoswap.Pool, error) {
	balances, err := f.balances(ctx, f.twocrypto, pool, 2)
	if err != nil {
		return nil, err
	}
	fields, err := f.cryptoFields(ctx, f.twocrypto, pool)
	if err != nil {
		return nil, err
	}
	priceScale, err := f.callUint(ctx, f.twocrypto, pool, "price_scale")
	if err != nil {
		return nil, err
	}
	p := &cryptoswap.Pool{
		Balances:   balances,
		Precisions: precisions,
		PriceScale: priceScale,
		A:          fields.a,
		Gamma:      fields.gamma,
		D:          fields.d,
		MidFee:     fields.midFee,
		OutFee:     fields.outFee,
		FeeGamma:   fields.feeGamma,
	}
	if lpToken != nil {
		supply, err := f.callUint(ctx, f.erc20, *lpToken, "totalSupply")
		if err != nil {
			return nil, err
		}
		p.TotalSupply = supply
	}
	return p, nil
}

// TricryptoPool reads a three-coin CryptoSwap snapshot.
func (f *Fetcher) TricryptoPool(ctx context.Context, pool common.Address, precisions []*big.Int, lpToken *common.Address) (*cryptoswap.TriPool, error) {
	balances, err := f.balances(ctx, f.tricrypto, pool, 3)
	if err != nil {
		return nil, err
	}
	fields, err := f.cryptoFields(ctx, f.tricrypto, pool)
	if err != nil {
		return nil, err
	}
	priceScales := make([]*big.Int, 2)
	for k := 0; k < 2; k++ {
		v, err := f.callUint(ctx, f.tricrypto, pool, "price_scale", big.NewInt(int64(k)))
		if err != nil {
			return nil, err
		}
		priceScales[k] = v
	}
	p := &cryptoswap.TriPool{
		Balances:    balances,
		Precisions:  precisions,
		PriceScales: priceScales,
		A:           fields.a,
		Gamma:       fields.gamma,
		D:           fields.d,
		MidFee:      fields.midFee,
		OutFee:      fields.outFee,
		FeeGamma:    fields.feeGamma,
	}
	if lpToken != nil {
		supply, err := f.callUint(ctx, f.erc20, *lpToken, "totalSupply")
		if err != nil {
			return nil, err
		}
		p.TotalSupply = supply
	}
	return p, nil
}

type cryptoFields struct {
	a, gamma, d, midFee, outFee, feeGamma *big.Int
}

func (f *Fetcher) cryptoFields(ctx context.Context, abi gethabi.ABI, pool common.Address) (*cryptoFields, error) {
	out := &cryptoFields{}
	for _, entry := range []struct {
		method string
		dst    **big.Int
	}{
		{"A", &out.a},
		{"gamma", &out.gamma},
		{"D", &out.d},
		{"mid_fee", &out.midFee},
		{"out_fee", &out.outFee},
		{"fee_gamma", &out.feeGamma},
	} {
		v, err := f.callUint(ctx, abi, pool, entry.method)
		if err != nil {
			return nil, err
		}
		if v.Cmp(u256.MaxU256) > 0 {
			return nil, errors.Errorf("snapshot: %s overflows 256 bits", entry.method)
		}
		*entry.dst = v
	}
	return out, nil
}

// ReferenceGetDy calls the pool's own get_dy for parity checks.
func (f *Fetcher) ReferenceGetDy(ctx context.Context, pool common.Address, i, j int64, dx *big.Int) (*big.Int, error) {
	return f.callUint(ctx, f.stable, pool, "get_dy", big.NewInt(i), big.NewInt(j), dx)
}
