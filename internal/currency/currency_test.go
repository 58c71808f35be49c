package currency_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tally/internal/currency"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestConverter_Convert(t *testing.T) {
	type testCase struct {
		name     string
		amount   string
		from, to string
		want     string
		wantErr  error
	}

	tests := []testCase{
		{name: "USD to EUR", amount: "100.00", from: "USD", to: "EUR", want: "92"},
		{name: "EUR to USD", amount: "92.00", from: "EUR", to: "USD", want: "100"},
		{name: "USD to COP", amount: "12.34", from: "USD", to: "COP", want: "48743"},
		{name: "Rounds half away from zero", amount: "0.05", from: "USD", to: "GBP", want: "0.04"},
		{name: "Lower case codes", amount: "10", from: "usd", to: "mxn", want: "171.5"},
		{name: "Same currency keeps precision", amount: "10.005", from: "EUR", to: "EUR", want: "10.005"},
		{name: "Unknown source", amount: "1", from: "JPY", to: "USD", wantErr: currency.ErrUnsupported},
		{name: "Unknown target", amount: "1", from: "USD", to: "XXX", wantErr: currency.ErrUnsupported},
	}

	conv := currency.NewConverter(currency.DefaultRates())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := conv.Convert(dec(tt.amount), tt.from, tt.to)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.True(t, dec(tt.want).Equal(got), "got %s want %s", got, tt.want)
		})
	}
}

func TestConverter_Convert_SameCurrencyIsIdentity(t *testing.T) {
	conv := currency.NewConverter(currency.DefaultRates())
	amount := dec("1234.5678")

	got, err := conv.Convert(amount, "BRL", "BRL")
	require.NoError(t, err)
	assert.Equal(t, amount.String(), got.String())
}

func TestConverter_Convert_RoundTripDrift(t *testing.T) {
	rates := currency.DefaultRates()
	conv := currency.NewConverter(rates)
	amounts := []string{"0.01", "0.99", "1.00", "13.37", "99.99", "100.00", "2500.55", "987654.32"}
	half := dec("0.005")
	epsilon := dec("0.000001")

	for _, a := range rates.Codes() {
		for _, b := range rates.Codes() {
			rateA, _ := rates.RateOf(a)
			rateB, _ := rates.RateOf(b)
			// Each rounding step is off by at most half a cent of its currency.
			bound := half.Div(rateA).Add(half.Div(rateB)).Add(epsilon)

			for _, s := range amounts {
				x := dec(s)

				y, err := conv.Convert(x, a, b)
				require.NoError(t, err)

				z, err := conv.Convert(y, b, a)
				require.NoError(t, err)

				drift := z.Sub(x).Abs().Div(rateA)
				assert.True(t, drift.LessThanOrEqual(bound),
					"%s %s->%s->%s drifted %s base units", s, a, b, a, drift)
			}
		}
	}
}

func TestConverter_Convert_RoundTripWithinOneCent(t *testing.T) {
	conv := currency.NewConverter(currency.DefaultRates())
	cent := dec("0.01")

	for _, code := range []string{"MXN", "ARS", "BRL", "COP"} {
		for _, s := range []string{"0.01", "1.00", "19.99", "100.00", "5432.10"} {
			x := dec(s)

			y, err := conv.Convert(x, "USD", code)
			require.NoError(t, err)

			z, err := conv.Convert(y, code, "USD")
			require.NoError(t, err)

			assert.True(t, z.Sub(x).Abs().LessThanOrEqual(cent), "%s USD->%s->USD gave %s", s, code, z)
		}
	}
}

func TestConverter_Validate(t *testing.T) {
	conv := currency.NewConverter(currency.DefaultRates())

	assert.NoError(t, conv.Validate("eur"))
	assert.ErrorIs(t, conv.Validate("JPY"), currency.ErrUnsupported)
	assert.ErrorIs(t, conv.Validate("ZZZ"), currency.ErrUnsupported)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "$1,234.50", currency.Format(dec("1234.5"), "USD"))
	assert.Equal(t, "12.00 ZZZ", currency.Format(dec("12"), "zzz"))
}
