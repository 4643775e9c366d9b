package taxonomy

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"pet-records/internal/platform/apperror"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListTypes(ctx context.Context) ([]PetType, error) {
	return s.repo.ListTypes(ctx)
}

func (s *Service) GetType(ctx context.Context, id string) (PetType, error) {
	t, err := s.repo.GetType(ctx, strings.TrimSpace(id))
	if errors.Is(err, ErrNotFound) {
		return PetType{}, apperror.NotFound("pet type")
	}
	return t, err
}

// ListSpecies implementa el filtro en cascada: sin tipo => vacío, nunca la
// tabla completa.
func (s *Service) ListSpecies(ctx context.Context, typeID string) ([]PetSpecies, error) {
	typeID = strings.TrimSpace(typeID)
	if typeID == "" {
		return []PetSpecies{}, nil
	}
	return s.repo.ListSpecies(ctx, typeID)
}

// GetSpecies busca la especie dentro del tipo; una especie de otro tipo no existe.
func (s *Service) GetSpecies(ctx context.Context, typeID, speciesID string) (PetSpecies, error) {
	sp, err := s.repo.GetSpecies(ctx, strings.TrimSpace(speciesID))
	if errors.Is(err, ErrNotFound) || (err == nil && sp.PetTypeID != strings.TrimSpace(typeID)) {
		return PetSpecies{}, apperror.NotFound("pet species")
	}
	return sp, err
}

func (s *Service) CreateType(ctx context.Context, name string) (PetType, error) {
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return PetType{}, err
	}

	t := PetType{ID: uuid.NewString(), Name: name, Species: []PetSpecies{}}
	if err := s.repo.CreateType(ctx, t); err != nil {
		if errors.Is(err, ErrDuplicateName) {
			return PetType{}, apperror.Invalid("name", "pet type with this name already exists.")
		}
		return PetType{}, err
	}
	return t, nil
}

func (s *Service) CreateSpecies(ctx context.Context, typeID, name string) (PetSpecies, error) {
	name = strings.TrimSpace(name)
	v := apperror.NewValidation()
	v.Merge(validateName(name))
	if strings.TrimSpace(typeID) == "" {
		v.Add("pet_type", "This field is required.")
	}
	if err := v.Err(); err != nil {
		return PetSpecies{}, err
	}

	sp := PetSpecies{ID: uuid.NewString(), Name: name, PetTypeID: strings.TrimSpace(typeID)}
	if err := s.repo.CreateSpecies(ctx, sp); err != nil {
		switch {
		case errors.Is(err, ErrDuplicateName):
			return PetSpecies{}, apperror.Invalid("name", "pet species with this name already exists.")
		case errors.Is(err, ErrUnknownType):
			return PetSpecies{}, apperror.Invalid("pet_type", `Invalid pk "`+sp.PetTypeID+`" - object does not exist.`)
		}
		return PetSpecies{}, err
	}
	return sp, nil
}

func (s *Service) DeleteType(ctx context.Context, id string) error {
	err := s.repo.DeleteType(ctx, strings.TrimSpace(id))
	if errors.Is(err, ErrNotFound) {
		return apperror.NotFound("pet type")
	}
	return err
}

func (s *Service) DeleteSpecies(ctx context.Context, id string) error {
	err := s.repo.DeleteSpecies(ctx, strings.TrimSpace(id))
	if errors.Is(err, ErrNotFound) {
		return apperror.NotFound("pet species")
	}
	return err
}

// SeedDefaults instala DefaultCatalog. Es idempotente: lo que ya existe (por
// nombre) se deja como está. Devuelve cuántas filas creó.
func (s *Service) SeedDefaults(ctx context.Context) (int, error) {
	created := 0
	for _, entry := range DefaultCatalog {
		t, err := s.repo.FindTypeByName(ctx, entry.Type)
		if errors.Is(err, ErrNotFound) {
			t, err = s.CreateType(ctx, entry.Type)
			if err == nil {
				created++
			}
		}
		if err != nil {
			return created, err
		}

		for _, name := range entry.Species {
			_, err := s.repo.FindSpeciesByName(ctx, name)
			if err == nil {
				continue
			}
			if !errors.Is(err, ErrNotFound) {
				return created, err
			}
			if _, err := s.CreateSpecies(ctx, t.ID, name); err != nil {
				return created, err
			}
			created++
		}
	}
	return created, nil
}

func validateName(name string) error {
	switch {
	case name == "":
		return apperror.Invalid("name", "This field may not be blank.")
	case utf8.RuneCountInString(name) > MaxNameLen:
		return apperror.Invalid("name", "Ensure this field has no more than 50 characters.")
	}
	return nil
}
