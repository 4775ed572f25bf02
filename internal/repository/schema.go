package repository

// Schema is applied idempotently at startup.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS indicators (
		code             TEXT PRIMARY KEY,
		name             TEXT NOT NULL,
		category         TEXT NOT NULL DEFAULT '',
		note             TEXT,
		source           TEXT NOT NULL DEFAULT 'FRED',
		source_series_id TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS observations (
		indicator_code TEXT NOT NULL REFERENCES indicators(code),
		record_date    DATE NOT NULL,
		value          NUMERIC NOT NULL,
		last_modified  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (indicator_code, record_date)
	)`,
	`CREATE INDEX IF NOT EXISTS observations_last_modified_idx ON observations (last_modified DESC)`,
}
