package currency

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestFormat(t *testing.T) {
	cases := []struct {
		amount string
		tag    string
		symbol string
		want   string
	}{
		{"10000.5", "en-US", "", "$10,000.5"},
		{"10000.50", "en-US", "", "$10,000.5"},
		{"10000", "en-US", "", "$10,000"},
		{"0", "en-US", "", "$0"},
		{"999", "en-US", "", "$999"},
		{"-250000", "en-US", "", "-$250,000"},
		{"1.123456789", "en-US", "", "$1.12345"},
		{"-1.123456789", "en-US", "", "-$1.12345"},
		{"10000.5", "de-DE", "", "10.000,5\u00a0€"},
		{"10000.5", "en-US", "Rp", "Rp10,000.5"},
		{"10000.5", "", "", "$10,000.5"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Format(dec(tc.amount), tc.tag, tc.symbol), "%s %s", tc.amount, tc.tag)
	}
}

func TestFormatWithUnit(t *testing.T) {
	cases := []struct {
		amount string
		want   string
	}{
		{"999", "$999"},
		{"1000", "$1K"},
		{"1599", "$1.5K"},
		{"1500000", "$1.5M"},
		{"2999999999", "$2.9B"},
		{"7000000000000", "$7T"},
		{"-250000", "-$250K"},
		{"-999.5", "-$999.5"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatWithUnit(dec(tc.amount), "en-US", ""), tc.amount)
	}
}

func TestParse(t *testing.T) {
	cases := []struct {
		text string
		tag  string
		want string
	}{
		{"$10,000.50", "en-US", "10000.5"},
		{"10.000,5\u00a0€", "de-DE", "10000.5"},
		{"-1,000", "en-US", "-1000"},
		{"", "en-US", "0"},
		{".", "en-US", "0"},
		{"-", "en-US", "0"},
		{"-.", "en-US", "0"},
		{"--5", "en-US", "0"},
		{"5-5", "en-US", "5"},
		{"12.5.6", "en-US", "12.5"},
		{".5", "en-US", "0.5"},
		{"5.", "en-US", "5"},
		{"abc", "en-US", "0"},
		{"1.200", "en-US", "1.2"},
	}
	for _, tc := range cases {
		got, err := Parse(tc.text, tc.tag)
		require.NoError(t, err, tc.text)
		assert.True(t, dec(tc.want).Equal(got), "%q: want %s got %s", tc.text, tc.want, got)
	}
}

func TestParse_StripsTrailingZeros(t *testing.T) {
	got, err := Parse("1.2300", "en-US")
	require.NoError(t, err)
	assert.Equal(t, "1.23", got.String())
	assert.Equal(t, 2, CountDecimalPlace(got))
}

func TestFormatParseRoundTrip(t *testing.T) {
	for _, amount := range []string{"0", "999", "1000", "1500000", "-250000", "12.345678"} {
		for _, tag := range []string{"en-US", "de-DE"} {
			want := dec(amount).Truncate(MaximumFractionDigits)
			got := ParseOrZero(Format(dec(amount), tag, ""), tag)
			assert.True(t, want.Equal(got), "%s %s: got %s", amount, tag, got)
		}
	}
}

func TestSeparatorsAndSymbol(t *testing.T) {
	assert.Equal(t, ".", DecimalSeparator("en-US"))
	assert.Equal(t, ",", GroupingSeparator("en-US"))
	assert.Equal(t, ",", DecimalSeparator("de-DE"))
	assert.Equal(t, ".", GroupingSeparator("de-DE"))
	assert.Equal(t, "$", Symbol("en-US"))
	assert.Equal(t, "€", Symbol("de-DE"))

	assert.True(t, IsSymbolAtStart("en-US"))
	assert.True(t, IsSymbolAtStart("ja-JP"))
	assert.True(t, IsSymbolAtStart("id-ID"))
	assert.False(t, IsSymbolAtStart("de-DE"))
	assert.False(t, IsSymbolAtStart("fr-FR"))
}

func TestLookup_CacheBoundedByLocale(t *testing.T) {
	count := func() int {
		n := 0
		locales.Range(func(_, _ any) bool {
			n++
			return true
		})
		return n
	}

	Symbol("en-US")
	before := count()
	for i := 1000; i < 1500; i++ {
		Symbol(fmt.Sprintf("zz-%d", i))
		Symbol(fmt.Sprintf("en-US-x-%d", i))
		Symbol(fmt.Sprintf("en-US-u-cu-%d", i))
	}
	assert.LessOrEqual(t, count()-before, 1)

	assert.Same(t, lookup("en-US"), lookup("en"))
	assert.Same(t, lookup("en-US"), lookup(" EN-us "))
	assert.Same(t, lookup(DefaultLanguageTag), lookup("not a tag"))
	assert.Equal(t, "€", Symbol("de-DE-x-private"))
}

func TestCountDecimalPlace(t *testing.T) {
	assert.Equal(t, 0, CountDecimalPlace(dec("100")))
	assert.Equal(t, 0, CountDecimalPlace(dec("100.000")))
	assert.Equal(t, 3, CountDecimalPlace(dec("0.125")))
	assert.Equal(t, 1, CountDecimalPlace(dec("-2.50")))
}
