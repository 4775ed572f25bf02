package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"MacroBot/internal/domain/models"
	domrepo "MacroBot/internal/domain/repository"
	applogger "MacroBot/pkg/logger"
)

// PostgresStore implements repository.Store on lib/pq. Values travel as
// NUMERIC text so no precision is lost before formatting.
type PostgresStore struct {
	db *sql.DB
	l  *applogger.Logger
}

var _ domrepo.Store = (*PostgresStore)(nil)

func NewPostgresStore(db *sql.DB, l *applogger.Logger) *PostgresStore {
	if l == nil {
		l = applogger.Nop()
	}
	return &PostgresStore{db: db, l: l}
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, models.ErrStoreUnavailable, err)
}

func (s *PostgresStore) GetIndicator(ctx context.Context, code string) (*models.Indicator, error) {
	const q = `
		SELECT code, name, category, COALESCE(note, ''), source, COALESCE(source_series_id, '')
		FROM indicators
		WHERE code = $1`

	var ind models.Indicator
	err := s.db.QueryRowContext(ctx, q, code).Scan(
		&ind.Code, &ind.Name, &ind.Category, &ind.Note, &ind.Source, &ind.SourceSeriesID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		s.l.Error("postgres get_indicator error", applogger.String("code", code), applogger.Error(err))
		return nil, storeErr("get indicator", err)
	}
	return &ind, nil
}

func (s *PostgresStore) ListSyncable(ctx context.Context, source string) ([]models.Indicator, error) {
	const q = `
		SELECT code, name, category, COALESCE(note, ''), source, source_series_id
		FROM indicators
		WHERE source = $1 AND source_series_id IS NOT NULL AND source_series_id <> ''
		ORDER BY code`

	rows, err := s.db.QueryContext(ctx, q, source)
	if err != nil {
		s.l.Error("postgres list_syncable query error", applogger.Error(err))
		return nil, storeErr("list syncable", err)
	}
	defer rows.Close()

	var out []models.Indicator
	for rows.Next() {
		var ind models.Indicator
		if err := rows.Scan(&ind.Code, &ind.Name, &ind.Category, &ind.Note, &ind.Source, &ind.SourceSeriesID); err != nil {
			s.l.Error("postgres list_syncable scan error", applogger.Error(err))
			return nil, storeErr("scan indicator", err)
		}
		out = append(out, ind)
	}
	if err := rows.Err(); err != nil {
		s.l.Error("postgres list_syncable rows error", applogger.Error(err))
		return nil, storeErr("rows", err)
	}
	return out, nil
}

func (s *PostgresStore) Latest(ctx context.Context, code string, limit int) ([]models.Point, error) {
	const q = `
		SELECT to_char(record_date, 'YYYY-MM-DD'), value::text
		FROM observations
		WHERE indicator_code = $1
		ORDER BY record_date DESC
		LIMIT $2`
	return s.queryPoints(ctx, "latest", code, q, code, limit)
}

func (s *PostgresStore) YearOverYear(ctx context.Context, code string, limit int) ([]models.Point, error) {
	const q = `
		SELECT to_char(recent.record_date, 'YYYY-MM-DD'),
		       ((recent.value - past.value) / past.value * 100)::text
		FROM observations recent
		JOIN observations past
		  ON past.indicator_code = recent.indicator_code
		 AND past.record_date = (recent.record_date - INTERVAL '12 months')::date
		WHERE recent.indicator_code = $1 AND past.value <> 0
		ORDER BY recent.record_date DESC
		LIMIT $2`
	return s.queryPoints(ctx, "year_over_year", code, q, code, limit)
}

func (s *PostgresStore) queryPoints(ctx context.Context, op, code, q string, args ...interface{}) ([]models.Point, error) {
	start := time.Now()
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		s.l.Error("postgres "+op+" query error", applogger.String("code", code), applogger.Error(err))
		return nil, storeErr(op, err)
	}
	defer rows.Close()

	out := make([]models.Point, 0, 16)
	for rows.Next() {
		var p models.Point
		if err := rows.Scan(&p.Date, &p.Value); err != nil {
			s.l.Error("postgres "+op+" scan error", applogger.String("code", code), applogger.Error(err))
			return nil, storeErr("scan point", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		s.l.Error("postgres "+op+" rows error", applogger.String("code", code), applogger.Error(err))
		return nil, storeErr("rows", err)
	}

	s.l.Debug("postgres "+op+" ok",
		applogger.String("code", code),
		applogger.Int("rows", len(out)),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return out, nil
}

func (s *PostgresStore) Band(ctx context.Context, code string, since string) (models.Band, error) {
	const q = `
		SELECT MAX(value)::text, MIN(value)::text
		FROM observations
		WHERE indicator_code = $1 AND record_date >= $2`

	var high, low sql.NullString
	if err := s.db.QueryRowContext(ctx, q, code, since).Scan(&high, &low); err != nil {
		s.l.Error("postgres band error",
			applogger.String("code", code),
			applogger.String("since", since),
			applogger.Error(err),
		)
		return models.Band{}, storeErr("band", err)
	}
	return models.Band{High: nullable(high), Low: nullable(low)}, nil
}

func (s *PostgresStore) JoltsPivot(ctx context.Context, openings, quits, layoffs string, limit int) ([]models.JoltsRow, error) {
	const q = `
		SELECT to_char(record_date, 'YYYY-MM-DD'),
		       MAX(CASE WHEN indicator_code = $1 THEN value END)::text,
		       MAX(CASE WHEN indicator_code = $2 THEN value END)::text,
		       MAX(CASE WHEN indicator_code = $3 THEN value END)::text
		FROM observations
		WHERE indicator_code IN ($1, $2, $3)
		GROUP BY record_date
		ORDER BY record_date DESC
		LIMIT $4`

	rows, err := s.db.QueryContext(ctx, q, openings, quits, layoffs, limit)
	if err != nil {
		s.l.Error("postgres jolts_pivot query error", applogger.Error(err))
		return nil, storeErr("jolts pivot", err)
	}
	defer rows.Close()

	var out []models.JoltsRow
	for rows.Next() {
		var r models.JoltsRow
		var o, qt, l sql.NullString
		if err := rows.Scan(&r.Date, &o, &qt, &l); err != nil {
			s.l.Error("postgres jolts_pivot scan error", applogger.Error(err))
			return nil, storeErr("scan jolts row", err)
		}
		r.Openings, r.Quits, r.Layoffs = nullable(o), nullable(qt), nullable(l)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		s.l.Error("postgres jolts_pivot rows error", applogger.Error(err))
		return nil, storeErr("rows", err)
	}
	return out, nil
}

func (s *PostgresStore) ChangedSince(ctx context.Context, since time.Time, limit int) ([]models.ChangeRecord, error) {
	const q = `
		SELECT i.code, i.name, to_char(o.record_date, 'YYYY-MM-DD'), o.value::text,
		       (SELECT p.value::text
		          FROM observations p
		         WHERE p.indicator_code = o.indicator_code
		           AND p.record_date < o.record_date
		         ORDER BY p.record_date DESC
		         LIMIT 1),
		       o.last_modified
		FROM observations o
		JOIN indicators i ON i.code = o.indicator_code
		WHERE o.last_modified >= $1
		ORDER BY o.last_modified DESC
		LIMIT $2`

	start := time.Now()
	rows, err := s.db.QueryContext(ctx, q, since, limit)
	if err != nil {
		s.l.Error("postgres changed_since query error", applogger.Error(err))
		return nil, storeErr("changed since", err)
	}
	defer rows.Close()

	var out []models.ChangeRecord
	for rows.Next() {
		var c models.ChangeRecord
		var prev sql.NullString
		if err := rows.Scan(&c.Code, &c.Name, &c.RecordDate, &c.Latest, &prev, &c.LastModified); err != nil {
			s.l.Error("postgres changed_since scan error", applogger.Error(err))
			return nil, storeErr("scan change", err)
		}
		c.Previous = nullable(prev)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		s.l.Error("postgres changed_since rows error", applogger.Error(err))
		return nil, storeErr("rows", err)
	}

	s.l.Debug("postgres changed_since ok",
		applogger.Int("rows", len(out)),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return out, nil
}

func (s *PostgresStore) LastRecordDate(ctx context.Context, code string) (string, bool, error) {
	const q = `SELECT to_char(MAX(record_date), 'YYYY-MM-DD') FROM observations WHERE indicator_code = $1`

	var d sql.NullString
	if err := s.db.QueryRowContext(ctx, q, code).Scan(&d); err != nil {
		s.l.Error("postgres last_record_date error", applogger.String("code", code), applogger.Error(err))
		return "", false, storeErr("last record date", err)
	}
	return d.String, d.Valid, nil
}

// Upsert relies on the WHERE clause to leave identical rows untouched: no
// row comes back, so the result is unchanged and last_modified stays put.
// xmax = 0 distinguishes a fresh insert from an update.
func (s *PostgresStore) Upsert(ctx context.Context, obs models.Observation) (models.UpsertResult, error) {
	const q = `
		INSERT INTO observations (indicator_code, record_date, value, last_modified)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (indicator_code, record_date) DO UPDATE
		SET value = EXCLUDED.value, last_modified = NOW()
		WHERE observations.value IS DISTINCT FROM EXCLUDED.value
		RETURNING (xmax = 0)`

	var inserted bool
	err := s.db.QueryRowContext(ctx, q, obs.IndicatorCode, obs.RecordDate, obs.Value).Scan(&inserted)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return models.UpsertUnchanged, nil
	case err != nil:
		s.l.Error("postgres upsert error",
			applogger.String("code", obs.IndicatorCode),
			applogger.String("date", obs.RecordDate),
			applogger.Error(err),
		)
		return "", storeErr("upsert", err)
	case inserted:
		return models.UpsertInserted, nil
	default:
		return models.UpsertUpdated, nil
	}
}

func (s *PostgresStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func nullable(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}
