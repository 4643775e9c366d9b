package pets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"pet-records/internal/domain/taxonomy"
	"pet-records/internal/platform/apperror"
	"pet-records/internal/platform/choice"
	"pet-records/internal/platform/dates"
	"pet-records/internal/ports/blobstore"

	"github.com/google/uuid"
)

// TaxonomyLookup es lo mínimo que pets necesita de la taxonomía para validar
// pet_type_id / pet_species_id.
type TaxonomyLookup interface {
	GetType(ctx context.Context, id string) (taxonomy.PetType, error)
	GetSpecies(ctx context.Context, id string) (taxonomy.PetSpecies, error)
}

// Owner es el usuario que hace el request; siempre es el dueño.
type Owner struct {
	ID       string
	Username string
}

type Service struct {
	repo     Repository
	taxonomy TaxonomyLookup
	stats    StatsReader
	blobs    blobstore.Store
	now      func() time.Time
}

func NewService(repo Repository, tax TaxonomyLookup, stats StatsReader, blobs blobstore.Store) *Service {
	return &Service{
		repo:     repo,
		taxonomy: tax,
		stats:    stats,
		blobs:    blobs,
		now:      time.Now,
	}
}

// UseClock fija el reloj (zona horaria de la app o tests).
func (s *Service) UseClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Input sirve para alta, PUT y PATCH: nil = no enviado.
type Input struct {
	Name         *string
	PetTypeID    *string
	PetSpeciesID *string
	Gender       *string
	Sterilised   *bool
	BirthDay     *time.Time
	FavoriteFood *string
	Memo         *string

	Photo      *blobstore.File
	ClearPhoto bool

	// FieldErrors trae los errores de lectura del payload; se reportan junto
	// con el resto de la validación.
	FieldErrors error
}

func (s *Service) Create(ctx context.Context, owner Owner, in Input) (View, error) {
	if strings.TrimSpace(owner.ID) == "" {
		return View{}, apperror.Unauthenticated("Authentication credentials were not provided.")
	}

	now := s.now()
	p := Pet{
		ID:          uuid.NewString(),
		OwnerUserID: owner.ID,
		Gender:      GenderMale,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.apply(ctx, &p, in, true); err != nil {
		return View{}, err
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.discardPhoto(ctx, p.PhotoKey, "")
		return View{}, writeError("create", err)
	}
	return s.get(ctx, owner, p.ID)
}

func (s *Service) ListByOwner(ctx context.Context, owner Owner) ([]View, error) {
	items, err := s.repo.ListByOwner(ctx, owner.ID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(items))
	for _, p := range items {
		ids = append(ids, p.ID)
	}
	stats, err := s.stats.StatsFor(ctx, ids)
	if err != nil {
		return nil, err
	}

	today := dates.Of(s.now())
	out := make([]View, 0, len(items))
	for _, p := range items {
		out = append(out, Project(p, stats[p.ID], owner.Username, today, s.blobs.URL(p.PhotoKey)))
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, owner Owner, id string) (View, error) {
	return s.get(ctx, owner, id)
}

// Update aplica PUT (partial=false, exige los campos obligatorios) o PATCH.
func (s *Service) Update(ctx context.Context, owner Owner, id string, in Input, partial bool) (View, error) {
	p, err := s.owned(ctx, owner, id)
	if err != nil {
		return View{}, err
	}
	if !IsOwner(p, owner.ID) {
		return View{}, apperror.NotFound("pet")
	}

	prevPhoto := p.PhotoKey
	if err := s.apply(ctx, &p, in, !partial); err != nil {
		return View{}, err
	}
	p.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, p); err != nil {
		s.discardPhoto(ctx, p.PhotoKey, prevPhoto)
		if errors.Is(err, ErrNotFound) {
			return View{}, apperror.NotFound("pet")
		}
		return View{}, writeError("update", err)
	}
	return s.get(ctx, owner, p.ID)
}

// Delete borra la mascota y, en cascada, todos sus logs.
func (s *Service) Delete(ctx context.Context, owner Owner, id string) error {
	p, err := s.owned(ctx, owner, id)
	if err != nil {
		return err
	}
	if !IsOwner(p, owner.ID) {
		return apperror.NotFound("pet")
	}

	err = s.repo.Delete(ctx, owner.ID, p.ID)
	if errors.Is(err, ErrNotFound) {
		return apperror.NotFound("pet")
	}
	return err
}

func (s *Service) get(ctx context.Context, owner Owner, id string) (View, error) {
	p, err := s.owned(ctx, owner, id)
	if err != nil {
		return View{}, err
	}
	stats, err := s.stats.StatsFor(ctx, []string{p.ID})
	if err != nil {
		return View{}, err
	}
	return Project(p, stats[p.ID], owner.Username, dates.Of(s.now()), s.blobs.URL(p.PhotoKey)), nil
}

func (s *Service) owned(ctx context.Context, owner Owner, id string) (Pet, error) {
	owner.ID, id = strings.TrimSpace(owner.ID), strings.TrimSpace(id)
	if owner.ID == "" || id == "" {
		return Pet{}, apperror.NotFound("pet")
	}
	p, err := s.repo.GetOwned(ctx, owner.ID, id)
	if errors.Is(err, ErrNotFound) {
		return Pet{}, apperror.NotFound("pet")
	}
	return p, err
}

// apply valida el input y lo vuelca sobre p. full=true exige los campos
// obligatorios (alta y PUT).
func (s *Service) apply(ctx context.Context, p *Pet, in Input, full bool) error {
	v := apperror.NewValidation()
	v.Merge(in.FieldErrors)
	required := func(field string, present bool) bool {
		if !present && full && !v.Has(field) {
			v.Add(field, "This field is required.")
		}
		return present
	}

	if required("name", in.Name != nil) {
		name := strings.TrimSpace(*in.Name)
		switch {
		case name == "":
			v.Add("name", "This field may not be blank.")
		case utf8.RuneCountInString(name) > MaxNameLen:
			v.Add("name", "Ensure this field has no more than 100 characters.")
		default:
			p.Name = name
		}
	}

	if required("birth_day", in.BirthDay != nil) {
		p.BirthDay = dates.Of(*in.BirthDay)
	}

	if in.Gender != nil {
		g, ok := Genders.Parse(*in.Gender)
		if !ok {
			v.Add("gender", choice.InvalidMessage(*in.Gender))
		} else {
			p.Gender = g
		}
	}

	if in.FavoriteFood != nil {
		raw := strings.TrimSpace(*in.FavoriteFood)
		f, ok := FoodBrands.Parse(raw)
		switch {
		case raw == "":
			p.FavoriteFood = ""
		case !ok:
			v.Add("favorite_food", choice.InvalidMessage(raw))
		default:
			p.FavoriteFood = f
		}
	}

	if in.Sterilised != nil {
		p.Sterilised = *in.Sterilised
	}
	if in.Memo != nil {
		p.Memo = *in.Memo
	}

	typeChanged := required("pet_type_id", in.PetTypeID != nil)
	if typeChanged {
		if err := s.resolveType(ctx, p, *in.PetTypeID); err != nil {
			v.Merge(err)
		}
	}
	if required("pet_species_id", in.PetSpeciesID != nil) {
		if err := s.resolveSpecies(ctx, p, *in.PetSpeciesID); err != nil {
			v.Merge(err)
		}
	} else if typeChanged && !v.Has("pet_type_id") && p.PetSpeciesID != nil {
		// PATCH que cambia sólo el tipo: la especie actual tiene que seguir encajando.
		if err := s.resolveSpecies(ctx, p, *p.PetSpeciesID); err != nil {
			v.Merge(err)
		}
	}

	if err := v.Err(); err != nil {
		return err
	}

	switch {
	case in.Photo != nil:
		key, err := s.storePhoto(ctx, *in.Photo)
		if err != nil {
			return err
		}
		p.PhotoKey = key
	case in.ClearPhoto:
		p.PhotoKey = ""
	}
	return nil
}

func (s *Service) resolveType(ctx context.Context, p *Pet, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.Invalid("pet_type_id", "This field may not be null.")
	}
	t, err := s.taxonomy.GetType(ctx, id)
	if errors.Is(err, taxonomy.ErrNotFound) {
		return apperror.Invalid("pet_type_id", invalidPK(id))
	}
	if err != nil {
		return err
	}
	p.PetTypeID, p.PetTypeName = &t.ID, t.Name
	return nil
}

// resolveSpecies exige que la especie pertenezca al tipo ya resuelto en p.
func (s *Service) resolveSpecies(ctx context.Context, p *Pet, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.Invalid("pet_species_id", "This field may not be null.")
	}
	sp, err := s.taxonomy.GetSpecies(ctx, id)
	if errors.Is(err, taxonomy.ErrNotFound) {
		return apperror.Invalid("pet_species_id", invalidPK(id))
	}
	if err != nil {
		return err
	}
	if p.PetTypeID == nil || *p.PetTypeID != sp.PetTypeID {
		return apperror.Invalid("pet_species_id", "Species does not belong to the selected pet type.")
	}
	p.PetSpeciesID, p.PetSpeciesName = &sp.ID, sp.Name
	return nil
}

func (s *Service) storePhoto(ctx context.Context, f blobstore.File) (string, error) {
	r, err := blobstore.SniffImage(f.Reader)
	if errors.Is(err, blobstore.ErrNotImage) {
		return "", apperror.Invalid("photo", err.Error())
	}
	if err != nil {
		return "", fmt.Errorf("pets: read photo: %w", err)
	}
	key, err := s.blobs.Put(ctx, blobstore.FolderPetPhotos, f.Name, r)
	if err != nil {
		return "", fmt.Errorf("pets: store photo: %w", err)
	}
	return key, nil
}

// discardPhoto borra la foto recién subida si la fila no se guardó.
func (s *Service) discardPhoto(ctx context.Context, key, prev string) {
	if key == "" || key == prev {
		return
	}
	_ = s.blobs.Delete(ctx, key)
}

// writeError traduce las referencias que desaparecieron entre la validación y
// la escritura a errores del campo.
func writeError(op string, err error) error {
	switch {
	case errors.Is(err, ErrUnknownPetType):
		return apperror.Invalid("pet_type_id", "Selected pet type no longer exists.")
	case errors.Is(err, ErrUnknownPetSpecies):
		return apperror.Invalid("pet_species_id", "Selected pet species no longer exists.")
	}
	return fmt.Errorf("pets: %s: %w", op, err)
}

func invalidPK(id string) string {
	return `Invalid pk "` + id + `" - object does not exist.`
}
