package postgres

import (
	"context"
	"database/sql"
	"errors"

	"pet-records/internal/domain/weightlogs"
)

type WeightLogsRepo struct {
	db *sql.DB
}

func (r *WeightLogsRepo) ListByPet(ctx context.Context, ownerUserID, petID string) ([]weightlogs.WeightLog, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT w.id, w.pet_id, w.weight_kg, w.recorded_at, w.created_at
		FROM weight_logs w
		JOIN pets p ON p.id = w.pet_id
		WHERE w.pet_id = $1 AND p.owner_user_id = $2
		ORDER BY w.recorded_at DESC, w.seq DESC
	`, petID, ownerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]weightlogs.WeightLog, 0)
	for rows.Next() {
		l, err := scanWeight(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func scanWeight(row scanner) (weightlogs.WeightLog, error) {
	var l weightlogs.WeightLog
	if err := row.Scan(&l.ID, &l.PetID, &l.WeightKg, &l.RecordedAt, &l.CreatedAt); err != nil {
		return weightlogs.WeightLog{}, err
	}
	l.RecordedAt = asDate(l.RecordedAt)
	return l, nil
}

func (r *WeightLogsRepo) Create(ctx context.Context, l weightlogs.WeightLog) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO weight_logs (id, pet_id, weight_kg, recorded_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, l.ID, l.PetID, l.WeightKg, l.RecordedAt, l.CreatedAt)
	if pgCode(err) == codeForeignKeyViolation {
		return weightlogs.ErrNotFound
	}
	return err
}

func (r *WeightLogsRepo) GetOwned(ctx context.Context, ownerUserID, petID, id string) (weightlogs.WeightLog, error) {
	l, err := scanWeight(r.db.QueryRowContext(ctx, `
		SELECT w.id, w.pet_id, w.weight_kg, w.recorded_at, w.created_at
		FROM weight_logs w
		JOIN pets p ON p.id = w.pet_id
		WHERE w.id = $1 AND w.pet_id = $2 AND p.owner_user_id = $3
	`, id, petID, ownerUserID))
	if errors.Is(err, sql.ErrNoRows) {
		return weightlogs.WeightLog{}, weightlogs.ErrNotFound
	}
	return l, err
}

func (r *WeightLogsRepo) Update(ctx context.Context, l weightlogs.WeightLog) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE weight_logs SET weight_kg = $3, recorded_at = $4 WHERE id = $1 AND pet_id = $2`,
		l.ID, l.PetID, l.WeightKg, l.RecordedAt)
	if err != nil {
		return err
	}
	return affected(res, weightlogs.ErrNotFound)
}

func (r *WeightLogsRepo) Delete(ctx context.Context, ownerUserID, petID, id string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM weight_logs w
		USING pets p
		WHERE w.id = $1 AND w.pet_id = $2 AND p.id = w.pet_id AND p.owner_user_id = $3
	`, id, petID, ownerUserID)
	if err != nil {
		return err
	}
	return affected(res, weightlogs.ErrNotFound)
}
