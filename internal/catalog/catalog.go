// Package catalog is the single code-to-display-class table. The lookup
// planner and the value formatter both read from it.
package catalog

import "sort"

type Category string

const (
	YoYGrowth    Category = "yoy_growth"
	Percentage   Category = "percentage"
	Monetary     Category = "monetary"
	LargeNumbers Category = "large_numbers"
	Hours        Category = "hours"
	Decimal2     Category = "decimal_2"
	NoDecimals   Category = "no_decimals"
	Billions     Category = "billions"
	JoltsTriple  Category = "jolts_triple"
	SP500Band    Category = "sp500_band"
	RateBand     Category = "rate_band"
)

// Bespoke reports whether c has its own lookup handler instead of the
// generic last-15 query.
func (c Category) Bespoke() bool {
	return c == JoltsTriple || c == SP500Band || c == RateBand
}

const (
	JoltsOpenings = "JOLTS_OPN"
	JoltsQuits    = "JOLTS_QUT"
	JoltsLayoffs  = "JOLTS_LAY"
)

type entry struct {
	category Category
	// component series are stored and formatted but never queried directly
	component bool
}

var table = func() map[string]entry {
	groups := []struct {
		cat   Category
		codes []string
	}{
		{YoYGrowth, []string{"CPI", "HPI", "PPI", "PCE"}},
		{Percentage, []string{"GDP", "FFR", "MORTG", "UR", "LFPR", "V"}},
		{Monetary, []string{"WAGE"}},
		{LargeNumbers, []string{"NFP", "RTSAL", "XHOME", "TBLNC", "M2"}},
		{Hours, []string{"AWH"}},
		{Decimal2, []string{"IP", "AUTO", "MCSI"}},
		{NoDecimals, []string{"NHOME", "HSTART", "BPERM"}},
		{Billions, []string{"FDEF", "USDEBT"}},
		{JoltsTriple, []string{"JOLTS"}},
		{SP500Band, []string{"SP500"}},
		{RateBand, []string{"10YY", "YCURV", "BSPRD"}},
	}

	m := make(map[string]entry)
	for _, g := range groups {
		for _, code := range g.codes {
			if _, dup := m[code]; dup {
				panic("catalog: duplicate code " + code)
			}
			m[code] = entry{category: g.cat}
		}
	}
	for _, code := range []string{JoltsOpenings, JoltsQuits, JoltsLayoffs} {
		m[code] = entry{category: NoDecimals, component: true}
	}
	return m
}()

// Classify returns the display class of an upper-cased code.
func Classify(code string) (Category, bool) {
	e, ok := table[code]
	return e.category, ok
}

// Accepts reports whether a user may query code directly.
func Accepts(code string) bool {
	e, ok := table[code]
	return ok && !e.component
}

// Codes lists user-queryable codes in sorted order.
func Codes() []string {
	out := make([]string, 0, len(table))
	for code, e := range table {
		if !e.component {
			out = append(out, code)
		}
	}
	sort.Strings(out)
	return out
}

// Categories lists every category in declaration order.
func Categories() []Category {
	return []Category{
		YoYGrowth, Percentage, Monetary, LargeNumbers, Hours, Decimal2,
		NoDecimals, Billions, JoltsTriple, SP500Band, RateBand,
	}
}
