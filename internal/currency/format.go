// Package currency formats and parses money amounts for a language tag.
package currency

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	MinimumFractionDigits = 0
	MaximumFractionDigits = 5
)

// unitExponents are the powers of ten behind the thousand, million, billion
// and trillion suffixes.
var unitExponents = [4]int32{3, 6, 9, 12}

// Format renders amount in the locale's currency layout, truncating past
// MaximumFractionDigits. An empty symbol uses the locale's own.
func Format(amount decimal.Decimal, languageTag, symbol string) string {
	l := lookup(languageTag)
	if symbol == "" {
		symbol = l.symbol
	}

	truncated := amount.Truncate(MaximumFractionDigits)
	sign := ""
	if truncated.IsNegative() {
		sign = "-"
	}
	digits := groupDigits(truncated.Abs(), l)

	if l.symbolFirst {
		return sign + symbol + digits
	}
	return sign + digits + "\u00a0" + symbol
}

// FormatWithUnit abbreviates amounts of at least a thousand with a magnitude
// suffix, e.g. $1.5M. The scaled value keeps one truncated fraction digit.
func FormatWithUnit(amount decimal.Decimal, languageTag, symbol string) string {
	l := lookup(languageTag)
	sign := ""
	if amount.IsNegative() {
		sign = "-"
	}
	abs := amount.Abs()

	for i := len(unitExponents) - 1; i >= 0; i-- {
		if abs.GreaterThanOrEqual(decimal.New(1, unitExponents[i])) {
			scaled := abs.Shift(-unitExponents[i]).Truncate(1)
			return sign + Format(scaled, languageTag, symbol) + l.units[i]
		}
	}
	return sign + Format(abs, languageTag, symbol)
}

// Parse reads a user typed amount. Everything but digits, the locale's decimal
// separator and '-' is ignored; degenerate input such as "", "-" or "--1" is zero.
func Parse(text, languageTag string) (decimal.Decimal, error) {
	l := lookup(languageTag)
	sep := l.decimal
	cleaned := l.nonNumeric.ReplaceAllString(text, "")

	if strings.TrimSpace(cleaned) == "" ||
		cleaned == sep ||
		cleaned == "-" ||
		cleaned == "-"+sep ||
		strings.Count(cleaned, "-") > 1 {
		return decimal.Zero, nil
	}

	// Parsing stops at the first character that cannot continue a number,
	// so "12-3" reads as 12 and "1,2,3" (comma decimal) as 1,2.
	var b strings.Builder
	seenSep := false
scan:
	for i, r := range cleaned {
		switch s := string(r); {
		case r == '-' && i == 0:
			b.WriteByte('-')
		case r == '-':
			break scan
		case s == sep && seenSep:
			break scan
		case s == sep:
			seenSep = true
			b.WriteByte('.')
		default:
			b.WriteRune(r)
		}
	}

	normalized := b.String()
	if normalized == "-" || normalized == "." || normalized == "-." || normalized == "" {
		return decimal.Zero, nil
	}
	if strings.HasSuffix(normalized, ".") {
		normalized += "0"
	}
	if strings.HasPrefix(normalized, ".") || strings.HasPrefix(normalized, "-.") {
		normalized = strings.Replace(normalized, ".", "0.", 1)
	}

	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse amount %q: %w", text, err)
	}
	return stripTrailingZeros(d), nil
}

// ParseOrZero parses text and falls back to zero on failure.
func ParseOrZero(text, languageTag string) decimal.Decimal {
	d, err := Parse(text, languageTag)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// CountDecimalPlace returns the number of significant fraction digits of amount.
func CountDecimalPlace(amount decimal.Decimal) int {
	exp := stripTrailingZeros(amount).Exponent()
	if exp >= 0 {
		return 0
	}
	return int(-exp)
}

func stripTrailingZeros(d decimal.Decimal) decimal.Decimal {
	if d.IsZero() {
		return decimal.Zero
	}
	return decimal.RequireFromString(d.String())
}

func groupDigits(abs decimal.Decimal, l *locale) string {
	intPart, fracPart, _ := strings.Cut(abs.String(), ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteString(l.grouping)
		}
		b.WriteRune(r)
	}
	if fracPart != "" {
		b.WriteString(l.decimal)
		b.WriteString(fracPart)
	}
	return b.String()
}
