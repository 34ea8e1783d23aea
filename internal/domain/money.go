package domain

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Currency is the only currency the portal handles. GNF has no minor unit.
const Currency = "GNF"

// FormatAmount renders an amount the way the UI shows it, e.g. "1 500 000 GNF".
func FormatAmount(d decimal.Decimal) string {
	p := message.NewPrinter(language.French)
	return p.Sprintf("%d %s", d.Round(0).IntPart(), Currency)
}

// ParseAmount accepts what the form sends: "150000", "150 000" or "150000.00".
func ParseAmount(raw string) (decimal.Decimal, error) {
	cleaned := strings.NewReplacer(" ", "", "\u00a0", "", "\u202f", "", ",", ".").Replace(strings.TrimSpace(raw))
	return decimal.NewFromString(cleaned)
}
