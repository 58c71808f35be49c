package currency

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

var ErrUnsupported = errors.New("unsupported currency")

// RateSource returns how many units of a currency make one unit of the base
// currency.
type RateSource interface {
	RateOf(code string) (decimal.Decimal, error)
}

// StaticRates is a fixed rate table keyed by ISO 4217 code.
type StaticRates map[string]decimal.Decimal

// DefaultRates uses USD as the base unit.
func DefaultRates() StaticRates {
	return StaticRates{
		"USD": decimal.NewFromInt(1),
		"EUR": decimal.RequireFromString("0.92"),
		"GBP": decimal.RequireFromString("0.79"),
		"MXN": decimal.RequireFromString("17.15"),
		"ARS": decimal.RequireFromString("350"),
		"BRL": decimal.RequireFromString("4.97"),
		"COP": decimal.RequireFromString("3950"),
	}
}

func (r StaticRates) RateOf(code string) (decimal.Decimal, error) {
	rate, ok := r[Normalize(code)]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrUnsupported, code)
	}

	return rate, nil
}

func (r StaticRates) Codes() []string {
	codes := make([]string, 0, len(r))
	for code := range r {
		codes = append(codes, code)
	}

	return codes
}

func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

type Converter struct {
	rates RateSource
}

func NewConverter(rates RateSource) *Converter {
	return &Converter{rates: rates}
}

// Validate reports whether code is a known ISO currency with a configured rate.
func (c *Converter) Validate(code string) error {
	code = Normalize(code)
	if money.GetCurrency(code) == nil {
		return fmt.Errorf("%w: %s", ErrUnsupported, code)
	}

	if _, err := c.rates.RateOf(code); err != nil {
		return err
	}

	return nil
}

// Convert re-denominates amount from one currency to another, rounding half
// away from zero to two decimals. A same-currency conversion returns amount
// untouched.
func (c *Converter) Convert(amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	from, to = Normalize(from), Normalize(to)
	if from == to {
		return amount, nil
	}

	fromRate, err := c.rates.RateOf(from)
	if err != nil {
		return decimal.Zero, err
	}

	toRate, err := c.rates.RateOf(to)
	if err != nil {
		return decimal.Zero, err
	}

	if fromRate.IsZero() {
		return decimal.Zero, fmt.Errorf("%w: zero rate for %s", ErrUnsupported, from)
	}

	return amount.DivRound(fromRate, 16).Mul(toRate).Round(2), nil
}

// Format renders amount using the currency's symbol and grouping rules.
func Format(amount decimal.Decimal, code string) string {
	code = Normalize(code)
	c := money.GetCurrency(code)
	if c == nil {
		return amount.StringFixed(2) + " " + code
	}

	cents := amount.Shift(int32(c.Fraction)).Round(0).IntPart()

	return money.New(cents, code).Display()
}
