package ganhos

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a locale-formatted monetary string into an exact
// decimal. It accepts both Brazilian ("1.234,56") and US ("1,234.56" or
// "1234.56") conventions, and strips currency symbols, quotes and spaces.
//
// Parse failures are reported as errors rather than defaulting to zero: a
// silently zeroed amount would flow straight into tax figures.
func ParseAmount(raw string) (decimal.Decimal, error) {
	s := cleanAmount(raw)
	if s == "" {
		return decimal.Decimal{}, fmt.Errorf("cannot parse amount from %q: empty value", raw)
	}

	switch {
	case strings.Contains(s, ".") && strings.Contains(s, ","):
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			// Brazilian: '.' groups thousands, ',' is the decimal separator.
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			// US: ',' groups thousands.
			s = strings.ReplaceAll(s, ",", "")
		}
	case strings.Contains(s, ","):
		s = strings.ReplaceAll(s, ",", ".")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("cannot parse amount from %q: %w", raw, err)
	}
	return d, nil
}

// ParseMoney is ParseAmount tagged with a currency.
func ParseMoney(raw, currency string) (Money, error) {
	d, err := ParseAmount(raw)
	if err != nil {
		return Money{}, err
	}
	return M(d, currency), nil
}

// cleanAmount removes everything around the number: quotes, currency
// symbols, and whitespace (including the one between "R$" and the digits).
func cleanAmount(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.Trim(s, `"'`)
	for _, symbol := range []string{"R$", "US$", "U$", "$"} {
		s = strings.ReplaceAll(s, symbol, "")
	}
	return strings.TrimSpace(s)
}
