package utils

import (
	"math/big"
	"strings"
)

// FormatBigInt converts a big.Int value to a human-readable string,
// considering the given number of decimals.
// Example: amount=1234500000000000000, decimals=18 => "1.2345"
// The conversion is exact; trailing zeros of the fraction are trimmed.
func FormatBigInt(amount *big.Int, decimals uint8) (string, error) {
	if amount == nil {
		return "0", nil
	}
	if decimals == 0 {
		return amount.String(), nil
	}

	abs := new(big.Int).Abs(amount)
	divisor := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	intPart, fracPart := new(big.Int).QuoRem(abs, divisor, new(big.Int))

	sign := ""
	if amount.Sign() < 0 {
		sign = "-"
	}

	if fracPart.Sign() == 0 {
		return sign + intPart.String(), nil
	}

	frac := fracPart.String()
	// Left-pad the fraction to the full number of decimals, e.g. 5 with 18 decimals is 0.000000000000000005.
	frac = strings.Repeat("0", int(decimals)-len(frac)) + frac
	frac = strings.TrimRight(frac, "0")

	return sign + intPart.String() + "." + frac, nil
}

// ShortenID renders long identifiers as first8...last8, the way the status panel shows a txId.
func ShortenID(id string) string {
	if len(id) <= 19 {
		return id
	}
	return id[:8] + "..." + id[len(id)-8:]
}
