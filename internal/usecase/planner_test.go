package usecase

import (
	"testing"

	"MacroBot/internal/catalog"

	"github.com/go-playground/assert/v2"
)

func TestPlanForEveryAcceptedCode(t *testing.T) {
	for _, code := range catalog.Codes() {
		p, ok := PlanFor(code, fixedNow)
		if !ok {
			t.Fatalf("%s: no plan", code)
		}
		cat, _ := catalog.Classify(code)
		_, generic := p.(SeriesPlan)
		if cat.Bespoke() == generic {
			t.Fatalf("%s: category %s planned as %T", code, cat, p)
		}
	}
}

func TestPlanForBespokeCodes(t *testing.T) {
	p, _ := PlanFor("JOLTS", fixedNow)
	assert.Equal(t, JoltsPlan{Openings: "JOLTS_OPN", Quits: "JOLTS_QUT", Layoffs: "JOLTS_LAY", Limit: 24}, p)

	p, _ = PlanFor("SP500", fixedNow)
	assert.Equal(t, BandPlan{Code: "SP500", Since: "2023-06-17", Limit: 15, ShowDrop: true}, p)

	for _, code := range []string{"10YY", "YCURV", "BSPRD"} {
		p, _ = PlanFor(code, fixedNow)
		assert.Equal(t, BandPlan{Code: code, Since: "2023-06-17", Limit: 15, Suffix: "%"}, p)
		assert.Equal(t, "rate_band", p.Strategy())
	}
}

func TestPlanForGenericCodes(t *testing.T) {
	p, _ := PlanFor("CPI", fixedNow)
	assert.Equal(t, SeriesPlan{Code: "CPI", Category: catalog.YoYGrowth, YoY: true, Limit: 15}, p)

	p, _ = PlanFor("NHOME", fixedNow)
	assert.Equal(t, SeriesPlan{Code: "NHOME", Category: catalog.NoDecimals, Limit: 15}, p)
}

func TestPlanForRejects(t *testing.T) {
	for _, code := range []string{"ISMPMI", "JOLTS_OPN", "cpi", ""} {
		_, ok := PlanFor(code, fixedNow)
		assert.Equal(t, false, ok)
	}
}
