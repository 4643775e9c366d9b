package postgres

import (
	"context"
	"database/sql"
	"time"

	"pet-records/internal/domain/pets"

	"github.com/shopspring/decimal"
)

type StatsRepo struct {
	db *sql.DB
}

// StatsFor resuelve el lote con tres consultas fijas, sin importar cuántas
// mascotas haya.
func (r *StatsRepo) StatsFor(ctx context.Context, petIDs []string) (map[string]pets.Stats, error) {
	out := make(map[string]pets.Stats, len(petIDs))
	if len(petIDs) == 0 {
		return out, nil
	}

	if err := r.each(ctx, `
		SELECT pet_id, COUNT(*) FROM health_logs
		WHERE pet_id = ANY($1) AND NOT case_closed
		GROUP BY pet_id
	`, petIDs, func(rows *sql.Rows) error {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return err
		}
		st := out[id]
		st.OpenHealthCases = n
		out[id] = st
		return nil
	}); err != nil {
		return nil, err
	}

	if err := r.each(ctx, `
		SELECT DISTINCT ON (pet_id) pet_id, weight_kg, recorded_at
		FROM weight_logs
		WHERE pet_id = ANY($1)
		ORDER BY pet_id, recorded_at DESC, seq DESC
	`, petIDs, func(rows *sql.Rows) error {
		var id string
		var w decimal.Decimal
		var at time.Time
		if err := rows.Scan(&id, &w, &at); err != nil {
			return err
		}
		st := out[id]
		st.LastWeight = &pets.WeightSnapshot{WeightKg: w, RecordedAt: asDate(at)}
		out[id] = st
		return nil
	}); err != nil {
		return nil, err
	}

	if err := r.each(ctx, `
		SELECT pet_id, MAX(injection_date) FROM injection_logs
		WHERE pet_id = ANY($1)
		GROUP BY pet_id
	`, petIDs, func(rows *sql.Rows) error {
		var id string
		var d time.Time
		if err := rows.Scan(&id, &d); err != nil {
			return err
		}
		d = asDate(d)
		st := out[id]
		st.LastInjectionDate = &d
		out[id] = st
		return nil
	}); err != nil {
		return nil, err
	}

	return out, nil
}

func (r *StatsRepo) each(ctx context.Context, query string, petIDs []string, fn func(*sql.Rows) error) error {
	rows, err := r.db.QueryContext(ctx, query, petIDs)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}
