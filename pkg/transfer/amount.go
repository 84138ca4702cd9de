package transfer

import (
	"math/big"
	"strings"

	"github.com/iov-one/weave/errors"
	"github.com/shopspring/decimal"
)

// FormatUnits renders an amount of smallest units as a human scale decimal.
// The result always carries at least one fractional digit, so 10^18 with 18
// decimals renders as "1.0".
func FormatUnits(amount *big.Int, decimals int32) string {
	if amount == nil {
		amount = new(big.Int)
	}
	s := decimal.NewFromBigInt(amount, -decimals).String()
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// ParseUnits converts a human scale decimal into smallest units. Precision
// beyond the given decimals is rejected rather than rounded.
func ParseUnits(s string, decimals int32) (*big.Int, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidAmount, "%q: %s", s, err)
	}
	if d.IsNegative() {
		return nil, errors.Wrapf(ErrInvalidAmount, "%q is negative", s)
	}
	shifted := d.Shift(decimals)
	if !shifted.Equal(shifted.Truncate(0)) {
		return nil, errors.Wrapf(ErrInvalidAmount, "%q has more than %d decimals", s, decimals)
	}
	return shifted.BigInt(), nil
}
