// Package fee computes the platform fee taken from a transaction amount.
package fee

import (
	"errors"
	"fmt"
	"math"

	solanago "github.com/gagliardetto/solana-go"
)

const (
	// DefaultFeePercentage is 0.25%.
	DefaultFeePercentage = 0.0025

	// MinTransactionAmount avoids computing fees on dust.
	MinTransactionAmount = 0.000001

	// DefaultTreasuryAddress receives platform fees.
	DefaultTreasuryAddress = "3YAyrP4mjiLRuHZQjfskmmVBbF7urtfDLfnLtW2jzgx3"

	bpsDenominator = 10_000
)

var (
	ErrInvalidFeePercentage = errors.New("invalid fee percentage")
	ErrAmountTooSmall       = errors.New("amount too small for fee calculation")
	ErrCalculationOverflow  = errors.New("fee calculation overflow")
	ErrTreasuryAddress      = errors.New("treasury address error")
)

// Breakdown splits an amount into fee and net parts.
type Breakdown struct {
	OriginalAmount float64 `json:"original_amount"`
	FeeAmount      float64 `json:"fee_amount"`
	NetAmount      float64 `json:"net_amount"`
	FeePercentage  float64 `json:"fee_percentage"`
	Currency       string  `json:"currency"`
}

// Calculator applies a fee fraction. The zero value charges no fee; config
// supplies DefaultFeePercentage when FEE_PERCENTAGE is unset.
type Calculator struct {
	Fraction float64
}

// NewCalculator validates fraction and returns a Calculator for it.
func NewCalculator(fraction float64) (*Calculator, error) {
	if err := ValidateFraction(fraction); err != nil {
		return nil, err
	}
	return &Calculator{Fraction: fraction}, nil
}

// Default computes the breakdown with the calculator's own fraction.
func (c *Calculator) Default(amount float64, currency string) (Breakdown, error) {
	return c.Breakdown(amount, c.Fraction, currency)
}

// Breakdown computes fee = amount * feeFraction and net = amount - fee. Values are not rounded.
func (c *Calculator) Breakdown(amount, feeFraction float64, currency string) (Breakdown, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Breakdown{}, fmt.Errorf("%w: amount %v", ErrCalculationOverflow, amount)
	}
	if err := ValidateFraction(feeFraction); err != nil {
		return Breakdown{}, err
	}
	if amount < MinTransactionAmount {
		return Breakdown{}, fmt.Errorf("%w: %v", ErrAmountTooSmall, amount)
	}

	feeAmount := amount * feeFraction
	net := amount - feeAmount
	if math.IsInf(feeAmount, 0) || math.IsInf(net, 0) || math.IsNaN(feeAmount) || math.IsNaN(net) {
		return Breakdown{}, ErrCalculationOverflow
	}

	return Breakdown{
		OriginalAmount: amount,
		FeeAmount:      feeAmount,
		NetAmount:      net,
		FeePercentage:  feeFraction,
		Currency:       currency,
	}, nil
}

// BreakdownBps computes the breakdown for a fee in basis points.
func (c *Calculator) BreakdownBps(amount float64, bps uint16, currency string) (Breakdown, error) {
	return c.Breakdown(amount, float64(bps)/bpsDenominator, currency)
}

// ValidateFraction reports whether fraction lies in [0, 1).
func ValidateFraction(fraction float64) error {
	if math.IsNaN(fraction) || fraction < 0 || fraction >= 1 {
		return fmt.Errorf("%w: %v", ErrInvalidFeePercentage, fraction)
	}
	return nil
}

// TreasuryAddress parses the treasury wallet. An empty string selects the default.
func TreasuryAddress(addr string) (solanago.PublicKey, error) {
	if addr == "" {
		addr = DefaultTreasuryAddress
	}
	pk, err := solanago.PublicKeyFromBase58(addr)
	if err != nil {
		return solanago.PublicKey{}, fmt.Errorf("%w: invalid treasury address %s: %v", ErrTreasuryAddress, addr, err)
	}
	return pk, nil
}
