package view

import "github.com/shopspring/decimal"

// Money is an amount in cents that serializes as a two-decimal JSON number,
// e.g. 2500 -> 25.00.
type Money int64

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(decimal.New(int64(m), -2).StringFixed(2)), nil
}

func optionalMoney(cents *int64) *Money {
	if cents == nil {
		return nil
	}
	m := Money(*cents)
	return &m
}
