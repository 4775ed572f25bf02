// Package format renders stored decimal text for chat replies. Rounding is
// half away from zero on the exact decimal value. Input that does not parse
// as a number is returned unchanged.
package format

import (
	"strconv"
	"strings"

	"MacroBot/internal/catalog"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

var thousand = decimal.NewFromInt(1000)

// Value formats raw for display class cat.
func Value(cat catalog.Category, raw string) string {
	num, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return raw
	}

	switch cat {
	case catalog.YoYGrowth, catalog.Percentage, catalog.RateBand:
		return num.StringFixed(2) + "%"
	case catalog.Monetary:
		return "$" + num.StringFixed(2)
	case catalog.LargeNumbers:
		return group(num, 0)
	case catalog.Hours:
		return num.StringFixed(1) + " hrs"
	case catalog.NoDecimals:
		return group(num.Mul(thousand), 0)
	case catalog.Billions:
		return "$" + num.Div(thousand).StringFixed(2) + " B"
	default:
		return num.StringFixed(2)
	}
}

// Grouped renders raw with thousands separators and places decimals.
func Grouped(raw string, places int32) string {
	num, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return raw
	}
	return group(num, places)
}

// Truncated drops the fraction and groups the integer part.
func Truncated(raw string) string {
	num, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return raw
	}
	return group(num.Truncate(0), 0)
}

// PercentDrop returns (high-latest)/high*100 to two places. ok is false
// when either side does not parse or high is zero.
func PercentDrop(high, latest string) (string, bool) {
	h, err := decimal.NewFromString(strings.TrimSpace(high))
	if err != nil || h.IsZero() {
		return "", false
	}
	l, err := decimal.NewFromString(strings.TrimSpace(latest))
	if err != nil {
		return "", false
	}
	return h.Sub(l).Div(h).Mul(decimal.NewFromInt(100)).StringFixed(2), true
}

func group(num decimal.Decimal, places int32) string {
	fixed := num.Abs().StringFixed(places)
	intPart, frac := fixed, ""
	if i := strings.IndexByte(fixed, '.'); i >= 0 {
		intPart, frac = fixed[:i], fixed[i:]
	}

	n, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return num.StringFixed(places)
	}
	out := humanize.Comma(n) + frac
	if num.IsNegative() && strings.Trim(fixed, "0.") != "" {
		out = "-" + out
	}
	return out
}
