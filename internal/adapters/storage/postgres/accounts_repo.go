package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pet-records/internal/domain/accounts"
	"pet-records/internal/domain/profiles"
)

type UsersRepo struct {
	db *sql.DB
}

func (r *UsersRepo) Create(ctx context.Context, u accounts.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, created_at) VALUES ($1, $2, $3, $4)`,
		u.ID, u.Username, u.PasswordHash, u.CreatedAt)
	if pgCode(err) == codeUniqueViolation {
		return accounts.ErrDuplicateUsername
	}
	return err
}

func (r *UsersRepo) GetByUsername(ctx context.Context, username string) (accounts.User, error) {
	return r.getWhere(ctx, `username = $1`, username)
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (accounts.User, error) {
	return r.getWhere(ctx, `id = $1`, id)
}

func (r *UsersRepo) getWhere(ctx context.Context, where, arg string) (accounts.User, error) {
	var u accounts.User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at FROM users WHERE `+where, arg).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return accounts.User{}, accounts.ErrNotFound
	}
	return u, err
}

// Delete borra en una transacción mascotas (y por CASCADE sus logs), perfil
// y usuario.
func (r *UsersRepo) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if err := affected(res, accounts.ErrNotFound); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM pets WHERE owner_user_id = $1`, id); err != nil {
		return fmt.Errorf("delete pets: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM profiles WHERE user_id = $1`, id); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	return tx.Commit()
}

type ProfilesRepo struct {
	db *sql.DB
}

func (r *ProfilesRepo) GetOrCreate(ctx context.Context, userID string) (profiles.Profile, error) {
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO profiles (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`, userID); err != nil {
		return profiles.Profile{}, err
	}

	p := profiles.Profile{UserID: userID}
	err := r.db.QueryRowContext(ctx,
		`SELECT owner_name, owner_address FROM profiles WHERE user_id = $1`, userID).
		Scan(&p.OwnerName, &p.OwnerAddress)
	return p, err
}

func (r *ProfilesRepo) Update(ctx context.Context, p profiles.Profile) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE profiles SET owner_name = $2, owner_address = $3 WHERE user_id = $1`,
		p.UserID, p.OwnerName, p.OwnerAddress)
	if err != nil {
		return err
	}
	return affected(res, profiles.ErrNotFound)
}
