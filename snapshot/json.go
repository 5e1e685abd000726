package snapshot

import (
	"math/big"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"github.com/curvelab/curve-go/cryptoswap"
	"github.com/curvelab/curve-go/stableswap"
	"github.com/curvelab/curve-go/u256"
)

// Snapshot JSON documents carry every 256-bit quantity as a decimal string so
// that it survives any JSON tooling untouched; token decimals are plain JSON
// numbers.

func parseUint(v gjson.Result, field string) (*big.Int, error) {
	if !v.Exists() {
		return nil, errors.Errorf("snapshot: missing field %q", field)
	}
	out, err := u256.FromString(v.String())
	if err != nil {
		return nil, errors.Wrapf(err, "snapshot: field %q", field)
	}
	return out, nil
}

func parseUintSlice(v gjson.Result, field string) ([]*big.Int, error) {
	if !v.Exists() || !v.IsArray() {
		return nil, errors.Errorf("snapshot: missing array %q", field)
	}
	var out []*big.Int
	var parseErr error
	v.ForEach(func(_, item gjson.Result) bool {
		val, err := u256.FromString(item.String())
		if err != nil {
			parseErr = errors.Wrapf(err, "snapshot: array %q", field)
			return false
		}
		out = append(out, val)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return out, nil
}

// ParseStablePool decodes a StableSwap snapshot document:
//
//	{"balances":["...",...], "decimals":[18,6] | "rates":["...",...],
//	 "a":"100", "fee":"4000000", "offpeg_fee_multiplier":"0",
//	 "total_supply":"..."}
func ParseStablePool(data []byte) (*stableswap.Pool, error) {
	doc := gjson.ParseBytes(data)

	balances, err := parseUintSlice(doc.Get("balances"), "balances")
	if err != nil {
		return nil, err
	}
	a, err := parseUint(doc.Get("a"), "a")
	if err != nil {
		return nil, err
	}
	fee, err := parseUint(doc.Get("fee"), "fee")
	if err != nil {
		return nil, err
	}

	p := &stableswap.Pool{
		Balances:            balances,
		A:                   a,
		Fee:                 fee,
		OffpegFeeMultiplier: big.NewInt(0),
	}
	if v := doc.Get("offpeg_fee_multiplier"); v.Exists() {
		if p.OffpegFeeMultiplier, err = parseUint(v, "offpeg_fee_multiplier"); err != nil {
			return nil, err
		}
	}
	if v := doc.Get("rates"); v.Exists() {
		if p.Rates, err = parseUintSlice(v, "rates"); err != nil {
			return nil, err
		}
	} else {
		decs := doc.Get("decimals")
		if !decs.IsArray() {
			return nil, errors.New("snapshot: need rates or decimals")
		}
		decs.ForEach(func(_, item gjson.Result) bool {
			p.Decimals = append(p.Decimals, uint8(item.Int()))
			return true
		})
	}
	if v := doc.Get("total_supply"); v.Exists() {
		if p.TotalSupply, err = parseUint(v, "total_supply"); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// ParseTwocryptoPool decodes a two-coin CryptoSwap snapshot document.
func ParseTwocryptoPool(data []byte) (*cryptoswap.Pool, error) {
	doc := gjson.ParseBytes(data)
	fields, err := parseCryptoFields(doc)
	if err != nil {
		return nil, err
	}
	priceScale, err := parseUint(doc.Get("price_scale"), "price_scale")
	if err != nil {
		return nil, err
	}
	p := &cryptoswap.Pool{
		Balances:    fields.balances,
		Precisions:  fields.precisions,
		PriceScale:  priceScale,
		A:           fields.a,
		Gamma:       fields.gamma,
		D:           fields.d,
		MidFee:      fields.midFee,
		OutFee:      fields.outFee,
		FeeGamma:    fields.feeGamma,
		TotalSupply: fields.totalSupply,
	}
	return p, nil
}

// ParseTricryptoPool decodes a three-coin CryptoSwap snapshot document with
// a "price_scales" array for tokens 1 and 2.
func ParseTricryptoPool(data []byte) (*cryptoswap.TriPool, error) {
	doc := gjson.ParseBytes(data)
	fields, err := parseCryptoFields(doc)
	if err != nil {
		return nil, err
	}
	priceScales, err := parseUintSlice(doc.Get("price_scales"), "price_scales")
	if err != nil {
		return nil, err
	}
	p := &cryptoswap.TriPool{
		Balances:    fields.balances,
		Precisions:  fields.precisions,
		PriceScales: priceScales,
		A:           fields.a,
		Gamma:       fields.gamma,
		D:           fields.d,
		MidFee:      fields.midFee,
		OutFee:      fields.outFee,
		FeeGamma:    fields.feeGamma,
		TotalSupply: fields.totalSupply,
	}
	return p, nil
}

type jsonCryptoFields struct {
	balances, precisions                  []*big.Int
	a, gamma, d, midFee, outFee, feeGamma *big.Int
	totalSupply                           *big.Int
}

func parseCryptoFields(doc gjson.Result) (*jsonCryptoFields, error) {
	out := &jsonCryptoFields{}
	var err error
	if out.balances, err = parseUintSlice(doc.Get("balances"), "balances"); err != nil {
		return nil, err
	}
	if v := doc.Get("precisions"); v.Exists() {
		if out.precisions, err = parseUintSlice(v, "precisions"); err != nil {
			return nil, err
		}
	}
	for _, entry := range []struct {
		field string
		dst   **big.Int
	}{
		{"a", &out.a},
		{"gamma", &out.gamma},
		{"d", &out.d},
		{"mid_fee", &out.midFee},
		{"out_fee", &out.outFee},
		{"fee_gamma", &out.feeGamma},
	} {
		if *entry.dst, err = parseUint(doc.Get(entry.field), entry.field); err != nil {
			return nil, err
		}
	}
	if v := doc.Get("total_supply"); v.Exists() {
		if out.totalSupply, err = parseUint(v, "total_supply"); err != nil {
			return nil, err
		}
	}
	return out, nil
}
