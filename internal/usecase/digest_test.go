package usecase

import (
	"strings"
	"testing"
	"time"

	"MacroBot/internal/domain/models"

	"github.com/google/go-cmp/cmp"
)

func TestRenderDigest(t *testing.T) {
	prev := "3.9"
	changes := []models.ChangeRecord{
		{Code: "UR", Name: "Unemployment Rate", Latest: "4.0", Previous: &prev},
		{Code: "NHOME", Name: "New Home Sales", Latest: "683"},
		{Code: "ZZZ", Name: "Unlisted", Latest: "1.005"},
	}

	want := "📢 Macroeconomic Data Update 🚀\n" +
		"✅ 3 new data points were updated in the last 24 hours.\n\n" +
		"🔹 Key Updates:\n" +
		"- Unemployment Rate (UR): 4.00% (Previous: 3.90%)\n" +
		"- New Home Sales (NHOME): 683,000 (Previous: N/A)\n" +
		"- Unlisted (ZZZ): 1.01 (Previous: N/A)\n" +
		"\n📊 Check the latest data by sending an abbreviation (e.g., 'CPI') to the bot!"
	if diff := cmp.Diff(want, RenderDigest(changes, 24*time.Hour)); diff != "" {
		t.Fatalf("digest mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderDigestUsesScanWindow(t *testing.T) {
	changes := []models.ChangeRecord{{Code: "UR", Name: "Unemployment Rate", Latest: "4.0"}}

	tests := []struct {
		window time.Duration
		want   string
	}{
		{24 * time.Hour, "updated in the last 24 hours."},
		{12 * time.Hour, "updated in the last 12 hours."},
		{time.Hour, "updated in the last hour."},
		{90 * time.Minute, "updated in the last 90 minutes."},
	}
	for _, tt := range tests {
		got := RenderDigest(changes, tt.window)
		if !strings.Contains(got, "✅ 1 new data points were "+tt.want) {
			t.Fatalf("window %s: digest %q lacks %q", tt.window, got, tt.want)
		}
	}
}
