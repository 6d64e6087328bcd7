package asset

import (
	"errors"
	"fmt"
	"math"
	"math/big"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned when a human amount cannot be expressed in smallest units.
var ErrInvalidAmount = errors.New("invalid amount")

var maxUint64 = fromUint64(math.MaxUint64)

// ToRaw converts a human amount into smallest units. The conversion is a
// decimal shift of the shortest float representation, so 0.1 SOL is exactly
// 100000000 lamports. Digits below the smallest unit are truncated.
func (a Asset) ToRaw(ui float64) (uint64, error) {
	if math.IsNaN(ui) || math.IsInf(ui, 0) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidAmount, ui)
	}
	if ui < 0 {
		return 0, fmt.Errorf("%w: negative amount %v", ErrInvalidAmount, ui)
	}
	raw := decimal.NewFromFloat(ui).Shift(int32(a.meta.Decimals)).Truncate(0)
	if raw.GreaterThan(maxUint64) {
		return 0, fmt.Errorf("%w: %v %s overflows smallest units", ErrInvalidAmount, ui, a.meta.Symbol)
	}
	return raw.BigInt().Uint64(), nil
}

// ToRawString parses a decimal string such as "0.5" into smallest units.
func (a Asset) ToRawString(s string) (uint64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("%w: negative amount %s", ErrInvalidAmount, s)
	}
	raw := d.Shift(int32(a.meta.Decimals)).Truncate(0)
	if raw.GreaterThan(maxUint64) {
		return 0, fmt.Errorf("%w: %s %s overflows smallest units", ErrInvalidAmount, s, a.meta.Symbol)
	}
	return raw.BigInt().Uint64(), nil
}

// FormatRaw renders a raw amount with full precision, e.g. "1.5" for 1500000000 lamports.
func (a Asset) FormatRaw(raw uint64) string {
	return fromUint64(raw).Shift(-int32(a.meta.Decimals)).String()
}

func fromUint64(v uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(v), 0)
}
