package injectionlogs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"pet-records/internal/platform/apperror"
	"pet-records/internal/platform/dates"

	"github.com/google/uuid"
)

type PetGuard interface {
	EnsureOwned(ctx context.Context, ownerUserID, petID string) error
}

type Service struct {
	repo Repository
	pets PetGuard
	now  func() time.Time
}

func NewService(repo Repository, pets PetGuard) *Service {
	return &Service{
		repo: repo,
		pets: pets,
		now:  time.Now,
	}
}

func (s *Service) UseClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

type Input struct {
	InjectionType *string
	Note          *string
	InjectionDate *time.Time

	// FieldErrors trae los errores de lectura del payload.
	FieldErrors error
}

func (s *Service) List(ctx context.Context, ownerUserID, petID string) ([]InjectionLog, error) {
	if strings.TrimSpace(petID) == "" || strings.TrimSpace(ownerUserID) == "" {
		return []InjectionLog{}, nil
	}
	return s.repo.ListByPet(ctx, ownerUserID, strings.TrimSpace(petID))
}

func (s *Service) Create(ctx context.Context, ownerUserID, petID string, in Input) (InjectionLog, error) {
	petID = strings.TrimSpace(petID)
	if err := s.pets.EnsureOwned(ctx, ownerUserID, petID); err != nil {
		return InjectionLog{}, err
	}

	now := s.now()
	l := InjectionLog{
		ID:            uuid.NewString(),
		PetID:         petID,
		InjectionDate: dates.Of(now),
		CreatedAt:     now,
	}
	if err := apply(&l, in, true); err != nil {
		return InjectionLog{}, err
	}

	if err := s.repo.Create(ctx, l); err != nil {
		return InjectionLog{}, fmt.Errorf("injectionlogs: create: %w", err)
	}
	return l, nil
}

func (s *Service) Get(ctx context.Context, ownerUserID, petID, id string) (InjectionLog, error) {
	l, err := s.repo.GetOwned(ctx, ownerUserID, strings.TrimSpace(petID), strings.TrimSpace(id))
	if errors.Is(err, ErrNotFound) {
		return InjectionLog{}, apperror.NotFound("injection log")
	}
	return l, err
}

func (s *Service) Update(ctx context.Context, ownerUserID, petID, id string, in Input, partial bool) (InjectionLog, error) {
	l, err := s.Get(ctx, ownerUserID, petID, id)
	if err != nil {
		return InjectionLog{}, err
	}
	if err := apply(&l, in, !partial); err != nil {
		return InjectionLog{}, err
	}

	if err := s.repo.Update(ctx, l); err != nil {
		if errors.Is(err, ErrNotFound) {
			return InjectionLog{}, apperror.NotFound("injection log")
		}
		return InjectionLog{}, fmt.Errorf("injectionlogs: update: %w", err)
	}
	return l, nil
}

func (s *Service) Delete(ctx context.Context, ownerUserID, petID, id string) error {
	err := s.repo.Delete(ctx, ownerUserID, strings.TrimSpace(petID), strings.TrimSpace(id))
	if errors.Is(err, ErrNotFound) {
		return apperror.NotFound("injection log")
	}
	return err
}

func apply(l *InjectionLog, in Input, full bool) error {
	v := apperror.NewValidation()
	v.Merge(in.FieldErrors)

	switch {
	case in.InjectionType != nil:
		t := strings.TrimSpace(*in.InjectionType)
		if t == "" {
			v.Add("injection_type", "This field may not be blank.")
		} else if utf8.RuneCountInString(t) > MaxInjectionTypeLen {
			v.Add("injection_type", "Ensure this field has no more than 100 characters.")
		} else {
			l.InjectionType = t
		}
	case full && !v.Has("injection_type"):
		v.Add("injection_type", "This field is required.")
	}

	if in.Note != nil {
		l.Note = *in.Note
	}
	if in.InjectionDate != nil {
		l.InjectionDate = dates.Of(*in.InjectionDate)
	}
	return v.Err()
}
