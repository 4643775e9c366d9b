package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"pet-records/internal/platform/apperror"
	"pet-records/internal/ports/auth"

	"github.com/google/uuid"
)

const badCredentials = "Unable to log in with provided credentials."

type Service struct {
	repo      Repository
	passwords *Passwords
	issuer    auth.TokenIssuer
	now       func() time.Time
}

// NewService: issuer puede ser nil cuando no hay emisión local de tokens
// (modos dev y odin); Login responde entonces con error.
func NewService(repo Repository, passwords *Passwords, issuer auth.TokenIssuer) *Service {
	if passwords == nil {
		passwords = NewPasswords(DefaultCost)
	}
	return &Service{repo: repo, passwords: passwords, issuer: issuer, now: time.Now}
}

func (s *Service) UseClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Login no distingue usuario inexistente de contraseña incorrecta.
func (s *Service) Login(ctx context.Context, username, password string) (auth.Token, error) {
	v := apperror.NewValidation()
	if strings.TrimSpace(username) == "" {
		v.Add("username", "This field is required.")
	}
	if password == "" {
		v.Add("password", "This field is required.")
	}
	if err := v.Err(); err != nil {
		return auth.Token{}, err
	}
	if s.issuer == nil {
		return auth.Token{}, errors.New("accounts: no token issuer configured")
	}

	u, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return auth.Token{}, apperror.Unauthenticated(badCredentials)
		}
		return auth.Token{}, fmt.Errorf("accounts: login: %w", err)
	}
	if !s.passwords.Verify(u.PasswordHash, password) {
		return auth.Token{}, apperror.Unauthenticated(badCredentials)
	}

	return s.issuer.Issue(ctx, auth.Claims{UserID: u.ID, Username: u.Username})
}

func (s *Service) CreateUser(ctx context.Context, username, password string) (User, error) {
	username = strings.TrimSpace(username)

	v := apperror.NewValidation()
	switch n := utf8.RuneCountInString(username); {
	case n == 0:
		v.Add("username", "This field may not be blank.")
	case n > MaxUsernameLen:
		v.Add("username", "Ensure this field has no more than 150 characters.")
	}
	switch {
	case len(password) < MinPasswordLen:
		v.Add("password", "This password is too short. It must contain at least 8 characters.")
	case len(password) > MaxPasswordBytes:
		v.Add("password", "Ensure this field has no more than 72 bytes.")
	}
	if err := v.Err(); err != nil {
		return User{}, err
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return User{}, err
	}
	u := User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, ErrDuplicateUsername) {
			return User{}, apperror.Conflict("A user with that username already exists.")
		}
		return User{}, fmt.Errorf("accounts: create user: %w", err)
	}
	return u, nil
}

// EnsureUser crea el usuario sólo si no existe. created=false si ya estaba.
func (s *Service) EnsureUser(ctx context.Context, username, password string) (u User, created bool, err error) {
	existing, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return User{}, false, fmt.Errorf("accounts: ensure user: %w", err)
	}

	u, err = s.CreateUser(ctx, username, password)
	if errors.Is(err, apperror.ErrConflict) {
		// Carrera con otra instancia sembrando el mismo usuario.
		existing, gerr := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
		if gerr != nil {
			return User{}, false, gerr
		}
		return existing, false, nil
	}
	if err != nil {
		return User{}, false, err
	}
	return u, true, nil
}

func (s *Service) FindByUsername(ctx context.Context, username string) (User, error) {
	u, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, apperror.NotFound("user")
		}
		return User{}, fmt.Errorf("accounts: find user: %w", err)
	}
	return u, nil
}

func (s *Service) DeleteUser(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, strings.TrimSpace(id)); err != nil {
		if errors.Is(err, ErrNotFound) {
			return apperror.NotFound("user")
		}
		return fmt.Errorf("accounts: delete user: %w", err)
	}
	return nil
}
