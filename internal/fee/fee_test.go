package fee

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreakdown(t *testing.T) {
	var c Calculator

	b, err := c.Breakdown(100, DefaultFeePercentage, "USDC")
	require.NoError(t, err)
	assert.InDelta(t, 0.25, b.FeeAmount, 1e-12)
	assert.InDelta(t, 99.75, b.NetAmount, 1e-12)
	assert.Equal(t, 100.0, b.OriginalAmount)
	assert.Equal(t, DefaultFeePercentage, b.FeePercentage)
	assert.Equal(t, "USDC", b.Currency)
}

func TestBreakdown_ZeroFee(t *testing.T) {
	var c Calculator
	b, err := c.Breakdown(1, 0, "SOL")
	require.NoError(t, err)
	assert.Zero(t, b.FeeAmount)
	assert.Equal(t, 1.0, b.NetAmount)
}

func TestBreakdown_Errors(t *testing.T) {
	var c Calculator
	tests := []struct {
		name     string
		amount   float64
		fraction float64
		want     error
	}{
		{"negative fraction", 10, -0.01, ErrInvalidFeePercentage},
		{"fraction of one", 10, 1, ErrInvalidFeePercentage},
		{"NaN fraction", 10, math.NaN(), ErrInvalidFeePercentage},
		{"dust", 0.0000001, 0.01, ErrAmountTooSmall},
		{"negative amount", -5, 0.01, ErrAmountTooSmall},
		{"infinite amount", math.Inf(1), 0.01, ErrCalculationOverflow},
		{"NaN amount", math.NaN(), 0.01, ErrCalculationOverflow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Breakdown(tt.amount, tt.fraction, "SOL")
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestBreakdownBps(t *testing.T) {
	var c Calculator
	b, err := c.BreakdownBps(200, 50, "BACH")
	require.NoError(t, err)
	assert.InDelta(t, 0.005, b.FeePercentage, 1e-15)
	assert.InDelta(t, 1.0, b.FeeAmount, 1e-12)

	_, err = c.BreakdownBps(200, 10_000, "BACH")
	assert.True(t, errors.Is(err, ErrInvalidFeePercentage))
}

func TestCalculatorDefault(t *testing.T) {
	free, err := NewCalculator(0)
	require.NoError(t, err)
	b, err := free.Default(100, "SOL")
	require.NoError(t, err)
	assert.Zero(t, b.FeeAmount)
	assert.Equal(t, 100.0, b.NetAmount)
	assert.Zero(t, b.FeePercentage)

	std, err := NewCalculator(DefaultFeePercentage)
	require.NoError(t, err)
	b, err = std.Default(400, "SOL")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, b.FeeAmount, 1e-12)

	c, err := NewCalculator(0.01)
	require.NoError(t, err)
	b, err = c.Default(400, "SOL")
	require.NoError(t, err)
	assert.InDelta(t, 4.0, b.FeeAmount, 1e-12)

	_, err = NewCalculator(1.5)
	assert.True(t, errors.Is(err, ErrInvalidFeePercentage))
}

func TestTreasuryAddress(t *testing.T) {
	pk, err := TreasuryAddress("")
	require.NoError(t, err)
	assert.Equal(t, DefaultTreasuryAddress, pk.String())

	_, err = TreasuryAddress("short")
	assert.True(t, errors.Is(err, ErrTreasuryAddress))
}

func TestBreakdown_FeePlusNetEqualsOriginal(t *testing.T) {
	var c Calculator
	fractions := []float64{0, 0.0001, DefaultFeePercentage, 0.01, 0.3333, 0.5, 0.999999}
	amounts := []float64{MinTransactionAmount, 0.1, 1, 1.5, 123.456789, 1e6, 1e15}
	for _, f := range fractions {
		for _, amount := range amounts {
			b, err := c.Breakdown(amount, f, "SOL")
			require.NoError(t, err, "fraction %v amount %v", f, amount)
			assert.InDelta(t, amount, b.FeeAmount+b.NetAmount, amount*1e-12,
				"fraction %v amount %v", f, amount)
			assert.GreaterOrEqual(t, b.NetAmount, 0.0)
		}
	}
}
