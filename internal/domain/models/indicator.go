package models

import "time"

// Indicator is operator-maintained metadata for one code. Category is the
// human label shown in replies ("Inflation"), not the display class.
type Indicator struct {
	Code           string
	Name           string
	Category       string
	Note           string
	Source         string
	SourceSeriesID string
}

// Observation is one stored value. Value keeps the store's decimal text.
type Observation struct {
	IndicatorCode string
	RecordDate    string // YYYY-MM-DD
	Value         string
	LastModified  time.Time
}

// Point is a (date, value) pair as read from a query or an upstream feed.
type Point struct {
	Date  string
	Value string
}

// Band is the trailing 52-week extreme pair. Nil means the store had no rows.
type Band struct {
	High *string
	Low  *string
}

// JoltsRow is one date of the openings/quits/layoffs pivot. Nil marks a
// component without a row on that date.
type JoltsRow struct {
	Date     string
	Openings *string
	Quits    *string
	Layoffs  *string
}

// ChangeRecord is a row modified inside the notification window, with the
// value at the latest earlier record date of the same indicator.
type ChangeRecord struct {
	Code         string
	Name         string
	RecordDate   string
	Latest       string
	Previous     *string
	LastModified time.Time
}

type UpsertResult string

const (
	UpsertInserted  UpsertResult = "inserted"
	UpsertUpdated   UpsertResult = "updated"
	UpsertUnchanged UpsertResult = "unchanged"
)
