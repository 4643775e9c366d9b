package weightlogs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-records/internal/platform/apperror"
	"pet-records/internal/platform/dates"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PetGuard confirma que la mascota existe y es del usuario (ver pets.Guard).
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
	WeightKg   *decimal.Decimal
	RecordedAt *time.Time

	// FieldErrors trae los errores de lectura del payload.
	FieldErrors error
}

// List nunca falla por mascota ajena: devuelve vacío.
func (s *Service) List(ctx context.Context, ownerUserID, petID string) ([]WeightLog, error) {
	if strings.TrimSpace(petID) == "" || strings.TrimSpace(ownerUserID) == "" {
		return []WeightLog{}, nil
	}
	return s.repo.ListByPet(ctx, ownerUserID, strings.TrimSpace(petID))
}

func (s *Service) Create(ctx context.Context, ownerUserID, petID string, in Input) (WeightLog, error) {
	petID = strings.TrimSpace(petID)
	if err := s.pets.EnsureOwned(ctx, ownerUserID, petID); err != nil {
		return WeightLog{}, err
	}

	now := s.now()
	l := WeightLog{
		ID:         uuid.NewString(),
		PetID:      petID,
		RecordedAt: dates.Of(now),
		CreatedAt:  now,
	}
	if err := apply(&l, in, true); err != nil {
		return WeightLog{}, err
	}

	if err := s.repo.Create(ctx, l); err != nil {
		return WeightLog{}, fmt.Errorf("weightlogs: create: %w", err)
	}
	return l, nil
}

func (s *Service) Get(ctx context.Context, ownerUserID, petID, id string) (WeightLog, error) {
	l, err := s.repo.GetOwned(ctx, ownerUserID, strings.TrimSpace(petID), strings.TrimSpace(id))
	if errors.Is(err, ErrNotFound) {
		return WeightLog{}, apperror.NotFound("weight log")
	}
	return l, err
}

func (s *Service) Update(ctx context.Context, ownerUserID, petID, id string, in Input, partial bool) (WeightLog, error) {
	l, err := s.Get(ctx, ownerUserID, petID, id)
	if err != nil {
		return WeightLog{}, err
	}
	if err := apply(&l, in, !partial); err != nil {
		return WeightLog{}, err
	}

	if err := s.repo.Update(ctx, l); err != nil {
		if errors.Is(err, ErrNotFound) {
			return WeightLog{}, apperror.NotFound("weight log")
		}
		return WeightLog{}, fmt.Errorf("weightlogs: update: %w", err)
	}
	return l, nil
}

func (s *Service) Delete(ctx context.Context, ownerUserID, petID, id string) error {
	err := s.repo.Delete(ctx, ownerUserID, strings.TrimSpace(petID), strings.TrimSpace(id))
	if errors.Is(err, ErrNotFound) {
		return apperror.NotFound("weight log")
	}
	return err
}

// apply: recorded_at nunca es obligatorio (default hoy); weight_kg sí en alta y PUT.
func apply(l *WeightLog, in Input, full bool) error {
	v := apperror.NewValidation()
	v.Merge(in.FieldErrors)

	switch {
	case in.WeightKg != nil:
		if msg := ValidateWeight(*in.WeightKg); msg != "" {
			v.Add("weight_kg", msg)
		} else {
			l.WeightKg = in.WeightKg.Round(DecimalPlaces)
		}
	case full && !v.Has("weight_kg"):
		v.Add("weight_kg", "This field is required.")
	}

	if in.RecordedAt != nil {
		l.RecordedAt = dates.Of(*in.RecordedAt)
	}
	return v.Err()
}

var maxWeight = decimal.New(1, MaxDigits-DecimalPlaces) // 1000

// ValidateWeight aplica NUMERIC(5,2): hasta 2 decimales y |w| < 1000.
// Devuelve "" si el valor es válido.
func ValidateWeight(w decimal.Decimal) string {
	if !w.Equal(w.Round(DecimalPlaces)) {
		return "Ensure that there are no more than 2 decimal places."
	}
	if w.Abs().GreaterThanOrEqual(maxWeight) {
		return "Ensure that there are no more than 5 digits in total."
	}
	return ""
}
