package utils

import (
	"fmt"
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"alph_dashboard/internal/domain/entity"

	"github.com/ethereum/go-ethereum/common/math"
)

// AlphDecimals is the fixed-point scale of ALPH: 1 ALPH = 10^18 attoALPH.
const AlphDecimals = 18

var decimalPattern = regexp.MustCompile(`^\+?(\d*)(?:\.(\d*))?(?:[eE]([+-]?\d{1,3}))?$`)

// ParseUnits converts a user-entered decimal string into smallest units.
// Digits beyond the unit's precision are truncated, never rounded, so the result
// never exceeds what the user typed. Zero, negative, malformed and out-of-range
// (above U256) amounts fail with entity.ErrInvalidAmount.
func ParseUnits(s string, decimals uint8) (*big.Int, error) {
	s = strings.TrimSpace(s)
	m := decimalPattern.FindStringSubmatch(s)
	if m == nil || (m[1] == "" && m[2] == "") {
		return nil, fmt.Errorf("%w: %q is not a decimal number", entity.ErrInvalidAmount, s)
	}

	intDigits, fracDigits := m[1], m[2]
	exp := 0
	if m[3] != "" {
		e, err := strconv.Atoi(m[3])
		if err != nil {
			return nil, fmt.Errorf("%w: bad exponent in %q", entity.ErrInvalidAmount, s)
		}
		exp = e
	}

	digits, ok := new(big.Int).SetString(intDigits+fracDigits, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a decimal number", entity.ErrInvalidAmount, s)
	}
	if digits.Sign() == 0 {
		return nil, fmt.Errorf("%w: amount must be greater than zero", entity.ErrInvalidAmount)
	}

	// value = digits * 10^(exp - len(frac)); units = value * 10^decimals
	shift := int64(decimals) + int64(exp) - int64(len(fracDigits))
	units := digits
	if shift >= 0 {
		units.Mul(units, pow10(shift))
	} else {
		units.Quo(units, pow10(-shift))
	}

	if units.Sign() == 0 {
		return nil, fmt.Errorf("%w: %q is below the smallest unit", entity.ErrInvalidAmount, s)
	}
	if units.Cmp(math.MaxBig256) > 0 {
		return nil, fmt.Errorf("%w: %q exceeds the maximum amount", entity.ErrInvalidAmount, s)
	}
	return units, nil
}

func pow10(n int64) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(n), nil)
}
