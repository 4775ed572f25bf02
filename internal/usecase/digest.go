package usecase

import (
	"fmt"
	"strings"
	"time"

	"MacroBot/internal/catalog"
	"MacroBot/internal/domain/models"
	"MacroBot/internal/format"
)

// RenderDigest builds the push message for a non-empty change list scanned
// over window. Values are formatted by each record's own catalog class.
func RenderDigest(changes []models.ChangeRecord, window time.Duration) string {
	var b strings.Builder
	b.WriteString("📢 Macroeconomic Data Update 🚀\n")
	fmt.Fprintf(&b, "✅ %d new data points were updated in the last %s.\n\n", len(changes), windowText(window))
	b.WriteString("🔹 Key Updates:\n")

	for _, c := range changes {
		cat, _ := catalog.Classify(c.Code)
		previous := notAvailable
		if c.Previous != nil {
			previous = format.Value(cat, *c.Previous)
		}
		fmt.Fprintf(&b, "- %s (%s): %s (Previous: %s)\n", c.Name, c.Code, format.Value(cat, c.Latest), previous)
	}

	b.WriteString("\n📊 Check the latest data by sending an abbreviation (e.g., 'CPI') to the bot!")
	return b.String()
}

func windowText(window time.Duration) string {
	switch {
	case window == time.Hour:
		return "hour"
	case window%time.Hour == 0:
		return fmt.Sprintf("%d hours", int(window/time.Hour))
	case window%time.Minute == 0:
		return fmt.Sprintf("%d minutes", int(window/time.Minute))
	}
	return window.String()
}
