package usecase

import (
	"time"

	"MacroBot/internal/catalog"
	"MacroBot/pkg/util"
)

const (
	// SeriesLimit is the number of points in a single-series reply.
	SeriesLimit = 15
	// JoltsLimit is the number of dates in each JOLTS table.
	JoltsLimit = 24
	// BandWeeks is the trailing window of the high/low band.
	BandWeeks = 52
)

// Plan is the query shape chosen for one code. The set of implementations
// is closed; HandleCode switches over it exhaustively.
type Plan interface {
	Strategy() string
	plan()
}

// JoltsPlan pivots the three JOLTS component series by date.
type JoltsPlan struct {
	Openings string
	Quits    string
	Layoffs  string
	Limit    int
}

// BandPlan lists recent points with the trailing 52-week high and low.
// ShowDrop adds the distance of the latest point from the high.
type BandPlan struct {
	Code     string
	Since    string
	Limit    int
	Suffix   string
	ShowDrop bool
}

// SeriesPlan lists recent points of one code formatted by Category.
type SeriesPlan struct {
	Code     string
	Category catalog.Category
	YoY      bool
	Limit    int
}

func (JoltsPlan) Strategy() string { return string(catalog.JoltsTriple) }

func (p BandPlan) Strategy() string {
	if p.ShowDrop {
		return string(catalog.SP500Band)
	}
	return string(catalog.RateBand)
}

func (SeriesPlan) Strategy() string { return "series" }

func (JoltsPlan) plan()  {}
func (BandPlan) plan()   {}
func (SeriesPlan) plan() {}

// PlanFor selects the plan of a user-queryable code. ok is false for codes
// the catalog does not accept.
func PlanFor(code string, now time.Time) (Plan, bool) {
	if !catalog.Accepts(code) {
		return nil, false
	}
	cat, _ := catalog.Classify(code)

	switch cat {
	case catalog.JoltsTriple:
		return JoltsPlan{
			Openings: catalog.JoltsOpenings,
			Quits:    catalog.JoltsQuits,
			Layoffs:  catalog.JoltsLayoffs,
			Limit:    JoltsLimit,
		}, true
	case catalog.SP500Band:
		return BandPlan{Code: code, Since: util.WeeksBefore(now, BandWeeks), Limit: SeriesLimit, ShowDrop: true}, true
	case catalog.RateBand:
		return BandPlan{Code: code, Since: util.WeeksBefore(now, BandWeeks), Limit: SeriesLimit, Suffix: "%"}, true
	default:
		return SeriesPlan{Code: code, Category: cat, YoY: cat == catalog.YoYGrowth, Limit: SeriesLimit}, true
	}
}
