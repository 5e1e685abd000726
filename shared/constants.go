package shared

import "math/big"

const (
	// MaxCoins bounds the StableSwap pool width.
	MaxCoins = 8

	// MaxIterations caps every Newton solve; convergence typically takes
	// well under ten rounds.
	MaxIterations = 255

	// MaxSearchRounds caps the StableSwap bisections (GetDx, PegPoint); the
	// CryptoSwap inverse search is capped by MaxIterations.
	MaxSearchRounds = 256

	// MaxSearchExpansions caps the exponential bracket growth before an
	// inverse problem is declared unachievable.
	MaxSearchExpansions = 10

	BasisPointMax = 10_000
)

var (
	// Precision is the base of the internal fixed-point representation.
	Precision = big.NewInt(1_000_000_000_000_000_000)

	// APrecision scales the StableSwap amplification coefficient.
	APrecision = big.NewInt(100)

	// AMultiplier scales the CryptoSwap amplification coefficient.
	AMultiplier = big.NewInt(10_000)

	// FeeDenominator is the unit every fee parameter is expressed in.
	FeeDenominator = big.NewInt(10_000_000_000)

	BPSDenominator = big.NewInt(BasisPointMax)

	// ConvergenceThreshold is the relative tolerance of the CryptoSwap
	// Newton solvers: |delta| * ConvergenceThreshold < value.
	ConvergenceThreshold = big.NewInt(100_000_000_000_000)

	// MinConvergence floors the absolute CryptoSwap convergence limit.
	MinConvergence = big.NewInt(100)

	// DerivativeEpsilon is the 18-decimal step used to probe the first
	// derivative for spot prices; divided by the input token's precision.
	DerivativeEpsilon = big.NewInt(1_000_000_000_000)
)
