package shared

import "github.com/pkg/errors"

// Every fatal failure maps to one of these sentinels. Messages are advisory;
// the identifier is the contract. Swap and quote helpers swallow the cheap
// input mistakes (bad index, zero amount) and return 0 instead, so they can
// be composed inside search loops; kernel primitives never do.
var (
	ErrInvalidIndex          = errors.New("curve: INVALID_INDEX")
	ErrInvalidAmount         = errors.New("curve: INVALID_AMOUNT")
	ErrInvalidA              = errors.New("curve: INVALID_A")
	ErrInvalidGamma          = errors.New("curve: INVALID_GAMMA")
	ErrInvalidRamp           = errors.New("curve: INVALID_RAMP")
	ErrInvalidSlippage       = errors.New("curve: INVALID_SLIPPAGE")
	ErrInvalidDecimals       = errors.New("curve: INVALID_DECIMALS")
	ErrZeroBalance           = errors.New("curve: ZERO_BALANCE")
	ErrBadDenom              = errors.New("curve: BAD_DENOM")
	ErrInsufficientLiquidity = errors.New("curve: INSUFFICIENT_LIQUIDITY")
	ErrNoConverge            = errors.New("curve: NO_CONVERGE")
	ErrSupplyZero            = errors.New("curve: SUPPLY_ZERO")
)
