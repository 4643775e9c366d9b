package postgres

import (
	"context"
	"database/sql"
	"errors"

	"pet-records/internal/domain/healthlogs"
)

type HealthLogsRepo struct {
	db *sql.DB
}

const healthColumns = `h.id, h.pet_id, h.topic, h.content, h.photo_key, h.action, h.case_closed, h.created_at`

func scanHealth(row scanner) (healthlogs.HealthLog, error) {
	var (
		l      healthlogs.HealthLog
		action string
	)
	if err := row.Scan(&l.ID, &l.PetID, &l.Topic, &l.Content, &l.PhotoKey, &action, &l.CaseClosed, &l.CreatedAt); err != nil {
		return healthlogs.HealthLog{}, err
	}
	l.Action = healthlogs.Action(action)
	return l, nil
}

func (r *HealthLogsRepo) ListByPet(ctx context.Context, ownerUserID, petID string) ([]healthlogs.HealthLog, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+healthColumns+`
		FROM health_logs h
		JOIN pets p ON p.id = h.pet_id
		WHERE h.pet_id = $1 AND p.owner_user_id = $2
		ORDER BY h.created_at DESC, h.seq DESC
	`, petID, ownerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]healthlogs.HealthLog, 0)
	for rows.Next() {
		l, err := scanHealth(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *HealthLogsRepo) Create(ctx context.Context, l healthlogs.HealthLog) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO health_logs (id, pet_id, topic, content, photo_key, action, case_closed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, l.ID, l.PetID, l.Topic, l.Content, l.PhotoKey, string(l.Action), l.CaseClosed, l.CreatedAt)
	if pgCode(err) == codeForeignKeyViolation {
		return healthlogs.ErrNotFound
	}
	return err
}

func (r *HealthLogsRepo) GetOwned(ctx context.Context, ownerUserID, petID, id string) (healthlogs.HealthLog, error) {
	l, err := scanHealth(r.db.QueryRowContext(ctx, `
		SELECT `+healthColumns+`
		FROM health_logs h
		JOIN pets p ON p.id = h.pet_id
		WHERE h.id = $1 AND h.pet_id = $2 AND p.owner_user_id = $3
	`, id, petID, ownerUserID))
	if errors.Is(err, sql.ErrNoRows) {
		return healthlogs.HealthLog{}, healthlogs.ErrNotFound
	}
	return l, err
}

// Update no toca created_at.
func (r *HealthLogsRepo) Update(ctx context.Context, l healthlogs.HealthLog) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE health_logs
		SET topic = $3, content = $4, photo_key = $5, action = $6, case_closed = $7
		WHERE id = $1 AND pet_id = $2
	`, l.ID, l.PetID, l.Topic, l.Content, l.PhotoKey, string(l.Action), l.CaseClosed)
	if err != nil {
		return err
	}
	return affected(res, healthlogs.ErrNotFound)
}

func (r *HealthLogsRepo) Delete(ctx context.Context, ownerUserID, petID, id string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM health_logs h
		USING pets p
		WHERE h.id = $1 AND h.pet_id = $2 AND p.id = h.pet_id AND p.owner_user_id = $3
	`, id, petID, ownerUserID)
	if err != nil {
		return err
	}
	return affected(res, healthlogs.ErrNotFound)
}
