package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"MacroBot/internal/domain/models"
	drepo "MacroBot/internal/domain/repository"
	"MacroBot/internal/format"
	applogger "MacroBot/pkg/logger"
	"MacroBot/pkg/util"
)

const (
	noDescription = "No description available."
	notAvailable  = "N/A"
	joltsGuide    = "🔹 Openings high = Strong labor demand\n" +
		"🔹 Quits high & Layoffs low = Strong labor market\n" +
		"🔹 Layoffs high & Openings low = Weak labor market"
)

var joltsTables = []struct {
	title  string
	column string
	rule   string
	pick   func(models.JoltsRow) *string
}{
	{"📈 **Job Openings", "Job Openings", "------------", func(r models.JoltsRow) *string { return r.Openings }},
	{"📉 **Job Quits", "Job Quits", "---------", func(r models.JoltsRow) *string { return r.Quits }},
	{"🔻 **Job Layoffs", "Job Layoffs", "---------", func(r models.JoltsRow) *string { return r.Layoffs }},
}

// Lookup answers one user query.
type Lookup interface {
	HandleCode(ctx context.Context, code string) models.Payload
}

// LookupService turns a code into reply blocks. It never returns an error:
// store failures become an apology block.
type LookupService struct {
	store   drepo.Store
	metrics drepo.Metrics
	l       *applogger.Logger
	now     func() time.Time
}

var _ Lookup = (*LookupService)(nil)

func NewLookupService(store drepo.Store, metrics drepo.Metrics, l *applogger.Logger, now func() time.Time) *LookupService {
	if now == nil {
		now = time.Now
	}
	return &LookupService{store: store, metrics: metrics, l: l.With(applogger.String("component", "lookup")), now: now}
}

func (s *LookupService) HandleCode(ctx context.Context, code string) models.Payload {
	start := time.Now()
	code = util.NormalizeCode(code)

	plan, ok := PlanFor(code, s.now())
	if !ok {
		s.l.Debug("lookup rejected", applogger.String("code", code), applogger.Error(models.OutcomeNotRecognized.Err()))
		s.metrics.RecordLookup("none", string(models.OutcomeNotRecognized))
		return models.Text(models.OutcomeNotRecognized, fmt.Sprintf("Invalid input: %s is not recognized.", code))
	}

	p := s.run(ctx, code, plan)
	if errors.Is(p.Outcome.Err(), models.ErrNoDataAvailable) {
		s.l.Info("no data for code", applogger.String("code", code), applogger.Error(p.Outcome.Err()))
	}

	s.metrics.RecordLookup(plan.Strategy(), string(p.Outcome))
	s.metrics.RecordLatency("lookup", time.Since(start).Seconds())
	return p
}

// run executes one plan. Any failure, including a plan kind it does not
// know, becomes the apology block.
func (s *LookupService) run(ctx context.Context, code string, plan Plan) models.Payload {
	var (
		p   models.Payload
		err error
	)
	switch plan := plan.(type) {
	case JoltsPlan:
		p, err = s.jolts(ctx, code, plan)
	case BandPlan:
		p, err = s.band(ctx, plan)
	case SeriesPlan:
		p, err = s.series(ctx, plan)
	default:
		err = fmt.Errorf("unhandled plan %T", plan)
	}
	if err != nil {
		s.l.Error("lookup failed", applogger.String("code", code), applogger.String("strategy", plan.Strategy()), applogger.Error(err))
		s.metrics.RecordError("store")
		return models.Text(models.OutcomeUnavailable, fmt.Sprintf("⚠️ Error: Unable to fetch data for %s. Please try again later.", code))
	}
	return p
}

func header(ind models.Indicator) string {
	note := ind.Note
	if note == "" {
		note = noDescription
	}
	return fmt.Sprintf("📊 %s\n📌 Category: %s\n📝 %s\n\n", ind.Name, ind.Category, note)
}

func notEnough(code string) models.Payload {
	return models.Text(models.OutcomeNoData, fmt.Sprintf("Not enough historical data available for %s.", code))
}

func (s *LookupService) series(ctx context.Context, p SeriesPlan) (models.Payload, error) {
	ind, err := s.store.GetIndicator(ctx, p.Code)
	if err != nil {
		return models.Payload{}, err
	}
	if ind == nil {
		return notEnough(p.Code), nil
	}

	var points []models.Point
	if p.YoY {
		points, err = s.store.YearOverYear(ctx, p.Code, p.Limit)
	} else {
		points, err = s.store.Latest(ctx, p.Code, p.Limit)
	}
	if err != nil {
		return models.Payload{}, err
	}
	if len(points) == 0 {
		return notEnough(p.Code), nil
	}

	lines := make([]string, len(points))
	for i, pt := range points {
		lines[i] = pt.Date + ": " + format.Value(p.Category, pt.Value)
	}
	text := header(*ind) + "🔹 Last 15 Data Points:\n" + strings.Join(lines, "\n")
	return models.Text(models.OutcomeOK, text), nil
}

func (s *LookupService) band(ctx context.Context, p BandPlan) (models.Payload, error) {
	ind, err := s.store.GetIndicator(ctx, p.Code)
	if err != nil {
		return models.Payload{}, err
	}
	if ind == nil {
		return notEnough(p.Code), nil
	}
	points, err := s.store.Latest(ctx, p.Code, p.Limit)
	if err != nil {
		return models.Payload{}, err
	}
	if len(points) == 0 {
		return notEnough(p.Code), nil
	}
	band, err := s.store.Band(ctx, p.Code, p.Since)
	if err != nil {
		return models.Payload{}, err
	}

	render := func(raw *string) string {
		if raw == nil {
			return notAvailable
		}
		return format.Grouped(*raw, 2) + p.Suffix
	}

	var b strings.Builder
	b.WriteString(header(*ind))
	fmt.Fprintf(&b, "🔹 52W Highs and Lows: [H] %s / [L] %s\n", render(band.High), render(band.Low))
	if p.ShowDrop {
		drop := notAvailable
		if band.High != nil {
			if d, ok := format.PercentDrop(*band.High, points[0].Value); ok {
				drop = d
			}
		}
		fmt.Fprintf(&b, "🔹 Current position: -%s%% from 52-week High\n", drop)
	}
	b.WriteString("\n🔹 Last 15 Data Points:\n")
	for i, pt := range points {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(pt.Date + ": " + render(&pt.Value))
	}
	return models.Text(models.OutcomeOK, b.String()), nil
}

func (s *LookupService) jolts(ctx context.Context, code string, p JoltsPlan) (models.Payload, error) {
	rows, err := s.store.JoltsPivot(ctx, p.Openings, p.Quits, p.Layoffs, p.Limit)
	if err != nil {
		return models.Payload{}, err
	}
	if len(rows) == 0 {
		return models.Text(models.OutcomeNoData, "No JOLTS data available."), nil
	}

	ind, err := s.joltsIndicator(ctx, code, p)
	if err != nil {
		return models.Payload{}, err
	}

	blocks := []string{header(ind) + joltsGuide}
	for _, t := range joltsTables {
		var b strings.Builder
		fmt.Fprintf(&b, "%s (Unit: Thousands of persons)**\n\nDate            | %s\n----------|%s\n", t.title, t.column, t.rule)
		for _, r := range rows {
			v := notAvailable
			if raw := t.pick(r); raw != nil {
				v = format.Truncated(*raw)
			}
			fmt.Fprintf(&b, "%s | %s\n", r.Date, v)
		}
		blocks = append(blocks, b.String())
	}
	return models.Payload{Blocks: blocks, Outcome: models.OutcomeOK}, nil
}

// joltsIndicator prefers metadata on the JOLTS code itself, then the first
// component that has a row.
func (s *LookupService) joltsIndicator(ctx context.Context, code string, p JoltsPlan) (models.Indicator, error) {
	for _, c := range []string{code, p.Openings, p.Quits, p.Layoffs} {
		ind, err := s.store.GetIndicator(ctx, c)
		if err != nil {
			return models.Indicator{}, err
		}
		if ind != nil {
			return *ind, nil
		}
	}
	return models.Indicator{Code: code, Name: code}, nil
}
