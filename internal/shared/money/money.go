package money

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxDonationCents caps a single checkout at 100,000.00.
const MaxDonationCents int64 = 100_000_00

var (
	maxDonation = decimal.New(MaxDonationCents, -2)
	maxCents    = decimal.NewFromInt(math.MaxInt64)
)

var (
	ErrNotPositive = errors.New("amount must be greater than 0")
	ErrTooLarge    = errors.New("amount must not exceed 100000")
	ErrTooPrecise  = errors.New("amount must have at most two decimal places")
	ErrRequired    = errors.New("amount is required")
	ErrOutOfRange  = errors.New("amount is out of range")
)

// ToCents converts a major-unit amount into integer cents.
func ToCents(d decimal.Decimal) (int64, error) {
	if !d.Equal(d.Round(2)) {
		return 0, ErrTooPrecise
	}
	if !d.IsPositive() {
		return 0, ErrNotPositive
	}
	shifted := d.Shift(2)
	if shifted.GreaterThan(maxCents) {
		return 0, ErrOutOfRange
	}
	return shifted.IntPart(), nil
}

// DonationCents validates a donation amount: 0 < amount <= 100000, two decimals.
func DonationCents(d *decimal.Decimal) (int64, error) {
	if d == nil {
		return 0, ErrRequired
	}
	if d.GreaterThan(maxDonation) {
		if !d.Equal(d.Round(2)) {
			return 0, ErrTooPrecise
		}
		return 0, ErrTooLarge
	}
	return ToCents(*d)
}

func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// Format renders cents with the currency symbol, e.g. "$25.00".
func Format(currency string, cents int64) string {
	major := FromCents(cents).StringFixed(2)
	switch strings.ToUpper(currency) {
	case "USD":
		return "$" + major
	case "EUR":
		return "€" + major
	case "GBP":
		return "£" + major
	default:
		return fmt.Sprintf("%s %s", major, strings.ToUpper(currency))
	}
}
