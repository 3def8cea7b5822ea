package utils

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var usd = message.NewPrinter(language.English)

// FormatUSD renders a whole-dollar amount with thousands separators, e.g. "$65,000".
func FormatUSD(amount float64) string {
	return usd.Sprintf("$%d", int64(math.Round(amount)))
}

// FormatUSDRange renders "$min - $max".
func FormatUSDRange(lo, hi float64) string {
	return FormatUSD(lo) + " - " + FormatUSD(hi)
}
