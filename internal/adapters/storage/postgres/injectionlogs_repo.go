package postgres

import (
	"context"
	"database/sql"
	"errors"

	"pet-records/internal/domain/injectionlogs"
)

type InjectionLogsRepo struct {
	db *sql.DB
}

const injectionColumns = `i.id, i.pet_id, i.injection_type, i.note, i.injection_date, i.created_at`

func scanInjection(row scanner) (injectionlogs.InjectionLog, error) {
	var l injectionlogs.InjectionLog
	if err := row.Scan(&l.ID, &l.PetID, &l.InjectionType, &l.Note, &l.InjectionDate, &l.CreatedAt); err != nil {
		return injectionlogs.InjectionLog{}, err
	}
	l.InjectionDate = asDate(l.InjectionDate)
	return l, nil
}

func (r *InjectionLogsRepo) ListByPet(ctx context.Context, ownerUserID, petID string) ([]injectionlogs.InjectionLog, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+injectionColumns+`
		FROM injection_logs i
		JOIN pets p ON p.id = i.pet_id
		WHERE i.pet_id = $1 AND p.owner_user_id = $2
		ORDER BY i.injection_date DESC, i.seq DESC
	`, petID, ownerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]injectionlogs.InjectionLog, 0)
	for rows.Next() {
		l, err := scanInjection(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *InjectionLogsRepo) Create(ctx context.Context, l injectionlogs.InjectionLog) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO injection_logs (id, pet_id, injection_type, note, injection_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, l.ID, l.PetID, l.InjectionType, l.Note, l.InjectionDate, l.CreatedAt)
	if pgCode(err) == codeForeignKeyViolation {
		return injectionlogs.ErrNotFound
	}
	return err
}

func (r *InjectionLogsRepo) GetOwned(ctx context.Context, ownerUserID, petID, id string) (injectionlogs.InjectionLog, error) {
	l, err := scanInjection(r.db.QueryRowContext(ctx, `
		SELECT `+injectionColumns+`
		FROM injection_logs i
		JOIN pets p ON p.id = i.pet_id
		WHERE i.id = $1 AND i.pet_id = $2 AND p.owner_user_id = $3
	`, id, petID, ownerUserID))
	if errors.Is(err, sql.ErrNoRows) {
		return injectionlogs.InjectionLog{}, injectionlogs.ErrNotFound
	}
	return l, err
}

func (r *InjectionLogsRepo) Update(ctx context.Context, l injectionlogs.InjectionLog) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE injection_logs
		SET injection_type = $3, note = $4, injection_date = $5
		WHERE id = $1 AND pet_id = $2
	`, l.ID, l.PetID, l.InjectionType, l.Note, l.InjectionDate)
	if err != nil {
		return err
	}
	return affected(res, injectionlogs.ErrNotFound)
}

func (r *InjectionLogsRepo) Delete(ctx context.Context, ownerUserID, petID, id string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM injection_logs i
		USING pets p
		WHERE i.id = $1 AND i.pet_id = $2 AND p.id = i.pet_id AND p.owner_user_id = $3
	`, id, petID, ownerUserID)
	if err != nil {
		return err
	}
	return affected(res, injectionlogs.ErrNotFound)
}
