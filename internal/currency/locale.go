package currency

import (
	"regexp"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultLanguageTag is used when a tag is empty or cannot be parsed.
const DefaultLanguageTag = "en-US"

// symbolAfterAmount lists the base languages whose currency pattern places the
// symbol after the number.
var symbolAfterAmount = map[string]bool{
	"bg": true, "cs": true, "da": true, "de": true, "el": true, "es": true,
	"et": true, "fi": true, "fr": true, "hr": true, "hu": true, "it": true,
	"lt": true, "lv": true, "nb": true, "nn": true, "no": true, "pl": true,
	"ro": true, "ru": true, "sk": true, "sl": true, "sr": true, "sv": true,
	"uk": true, "vi": true,
}

type locale struct {
	tag         language.Tag
	symbol      string
	decimal     string
	grouping    string
	symbolFirst bool
	units       [4]string
	nonNumeric  *regexp.Regexp
}

// locales is keyed by canonical base-script-region, so it grows with the known
// locales rather than with every string a caller sends.
var locales sync.Map

func lookup(languageTag string) *locale {
	tag := canonicalTag(languageTag)
	key := tag.String()
	if l, ok := locales.Load(key); ok {
		return l.(*locale)
	}
	l := newLocale(tag)
	actual, _ := locales.LoadOrStore(key, l)
	return actual.(*locale)
}

// canonicalTag reduces a tag to its base, explicit script and region, falling back to
// DefaultLanguageTag when it is empty or unknown.
func canonicalTag(languageTag string) language.Tag {
	fallback := language.MustParse(DefaultLanguageTag)
	raw := strings.TrimSpace(languageTag)
	if raw == "" {
		return fallback
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return fallback
	}
	base, _ := tag.Base()
	parts := []any{base}
	if script, conf := tag.Script(); conf == language.Exact {
		parts = append(parts, script)
	}
	if region, conf := tag.Region(); conf != language.No {
		parts = append(parts, region)
	}
	tag, err = language.Compose(parts...)
	if err != nil || tag == language.Und {
		return fallback
	}
	return tag
}

func newLocale(tag language.Tag) *locale {
	p := message.NewPrinter(tag)

	l := &locale{tag: tag, decimal: ".", grouping: ","}

	// 1234.5 renders as 1<group>234<decimal>5 in every locale we care about.
	var seps []string
	for _, r := range p.Sprint(number.Decimal(1234.5)) {
		if !unicode.IsDigit(r) {
			seps = append(seps, string(r))
		}
	}
	switch len(seps) {
	case 1:
		l.decimal = seps[0]
		l.grouping = ""
	case 2:
		l.grouping, l.decimal = seps[0], seps[1]
	}

	l.nonNumeric = regexp.MustCompile(`[^\d\-` + regexp.QuoteMeta(l.decimal) + `]`)

	unit, conf := currency.FromTag(tag)
	if conf != language.No {
		l.symbol = p.Sprint(currency.Symbol(unit))
	}
	if l.symbol == "" {
		l.symbol = "¤"
	}

	base, _ := tag.Base()
	region, _ := tag.Region()
	l.symbolFirst = !symbolAfterAmount[base.String()] && !(base.String() == "pt" && region.String() == "PT")

	switch base.String() {
	case "id":
		l.units = [4]string{"rb", "jt", "M", "T"}
	default:
		l.units = [4]string{"K", "M", "B", "T"}
	}
	return l
}

// Symbol returns the currency symbol of the locale's default currency.
func Symbol(languageTag string) string {
	return lookup(languageTag).symbol
}

// DecimalSeparator returns the locale's decimal separator.
func DecimalSeparator(languageTag string) string {
	return lookup(languageTag).decimal
}

// GroupingSeparator returns the locale's thousands grouping separator.
func GroupingSeparator(languageTag string) string {
	return lookup(languageTag).grouping
}

// IsSymbolAtStart reports whether the locale writes the currency symbol before the amount.
func IsSymbolAtStart(languageTag string) bool {
	return lookup(languageTag).symbolFirst
}
