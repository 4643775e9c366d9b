package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"pet-records/internal/platform/apperror"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context, userID string) (Profile, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Profile{}, apperror.Unauthenticated("Authentication credentials were not provided.")
	}
	return s.repo.GetOrCreate(ctx, userID)
}

type Input struct {
	OwnerName    *string
	OwnerAddress *string

	// FieldErrors trae los errores de lectura del payload.
	FieldErrors error
}

// Update: PUT (partial=false) exige owner_name.
func (s *Service) Update(ctx context.Context, userID string, in Input, partial bool) (Profile, error) {
	p, err := s.Get(ctx, userID)
	if err != nil {
		return Profile{}, err
	}

	v := apperror.NewValidation()
	v.Merge(in.FieldErrors)
	switch {
	case in.OwnerName != nil:
		name := strings.TrimSpace(*in.OwnerName)
		if name == "" {
			v.Add("owner_name", "This field may not be blank.")
		} else if utf8.RuneCountInString(name) > MaxOwnerNameLen {
			v.Add("owner_name", "Ensure this field has no more than 100 characters.")
		} else {
			p.OwnerName = name
		}
	case !partial && !v.Has("owner_name"):
		v.Add("owner_name", "This field is required.")
	}

	if in.OwnerAddress != nil {
		addr := strings.TrimSpace(*in.OwnerAddress)
		if utf8.RuneCountInString(addr) > MaxOwnerAddressLen {
			v.Add("owner_address", "Ensure this field has no more than 255 characters.")
		} else {
			p.OwnerAddress = addr
		}
	}
	if err := v.Err(); err != nil {
		return Profile{}, err
	}

	if err := s.repo.Update(ctx, p); err != nil {
		if errors.Is(err, ErrNotFound) {
			return Profile{}, apperror.NotFound("profile")
		}
		return Profile{}, fmt.Errorf("profiles: update: %w", err)
	}
	return p, nil
}
