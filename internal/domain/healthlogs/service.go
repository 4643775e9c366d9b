package healthlogs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"pet-records/internal/platform/apperror"
	"pet-records/internal/platform/choice"
	"pet-records/internal/ports/blobstore"

	"github.com/google/uuid"
)

type PetGuard interface {
	EnsureOwned(ctx context.Context, ownerUserID, petID string) error
}

type Service struct {
	repo  Repository
	pets  PetGuard
	blobs blobstore.Store
	now   func() time.Time
}

func NewService(repo Repository, pets PetGuard, blobs blobstore.Store) *Service {
	return &Service{
		repo:  repo,
		pets:  pets,
		blobs: blobs,
		now:   time.Now,
	}
}

func (s *Service) UseClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// PhotoURL resuelve la key guardada a URL pública.
func (s *Service) PhotoURL(l HealthLog) string {
	return s.blobs.URL(l.PhotoKey)
}

type Input struct {
	Topic      *string
	Content    *string
	Action     *string
	CaseClosed *bool

	// PhotoRecords sólo llega como archivo multipart.
	PhotoRecords *blobstore.File

	// FieldErrors trae los errores de lectura del payload.
	FieldErrors error
}

func (s *Service) List(ctx context.Context, ownerUserID, petID string) ([]HealthLog, error) {
	if strings.TrimSpace(petID) == "" || strings.TrimSpace(ownerUserID) == "" {
		return []HealthLog{}, nil
	}
	return s.repo.ListByPet(ctx, ownerUserID, strings.TrimSpace(petID))
}

func (s *Service) Create(ctx context.Context, ownerUserID, petID string, in Input) (HealthLog, error) {
	petID = strings.TrimSpace(petID)
	if err := s.pets.EnsureOwned(ctx, ownerUserID, petID); err != nil {
		return HealthLog{}, err
	}

	l := HealthLog{
		ID:        uuid.NewString(),
		PetID:     petID,
		CreatedAt: s.now(),
	}
	if err := s.apply(ctx, &l, in, true); err != nil {
		return HealthLog{}, err
	}

	if err := s.repo.Create(ctx, l); err != nil {
		s.discardPhoto(ctx, l.PhotoKey, "")
		return HealthLog{}, fmt.Errorf("healthlogs: create: %w", err)
	}
	return l, nil
}

func (s *Service) Get(ctx context.Context, ownerUserID, petID, id string) (HealthLog, error) {
	l, err := s.repo.GetOwned(ctx, ownerUserID, strings.TrimSpace(petID), strings.TrimSpace(id))
	if errors.Is(err, ErrNotFound) {
		return HealthLog{}, apperror.NotFound("health log")
	}
	return l, err
}

// Update no toca CreatedAt. case_closed puede ir de true a false (reabrir).
func (s *Service) Update(ctx context.Context, ownerUserID, petID, id string, in Input, partial bool) (HealthLog, error) {
	l, err := s.Get(ctx, ownerUserID, petID, id)
	if err != nil {
		return HealthLog{}, err
	}
	prevPhoto := l.PhotoKey
	if err := s.apply(ctx, &l, in, !partial); err != nil {
		return HealthLog{}, err
	}

	if err := s.repo.Update(ctx, l); err != nil {
		s.discardPhoto(ctx, l.PhotoKey, prevPhoto)
		if errors.Is(err, ErrNotFound) {
			return HealthLog{}, apperror.NotFound("health log")
		}
		return HealthLog{}, fmt.Errorf("healthlogs: update: %w", err)
	}
	return l, nil
}

func (s *Service) Delete(ctx context.Context, ownerUserID, petID, id string) error {
	err := s.repo.Delete(ctx, ownerUserID, strings.TrimSpace(petID), strings.TrimSpace(id))
	if errors.Is(err, ErrNotFound) {
		return apperror.NotFound("health log")
	}
	return err
}

// discardPhoto borra la foto recién subida si la fila no se guardó.
func (s *Service) discardPhoto(ctx context.Context, key, prev string) {
	if key == "" || key == prev {
		return
	}
	_ = s.blobs.Delete(ctx, key)
}

func (s *Service) apply(ctx context.Context, l *HealthLog, in Input, full bool) error {
	v := apperror.NewValidation()
	v.Merge(in.FieldErrors)

	switch {
	case in.Topic != nil:
		topic := strings.TrimSpace(*in.Topic)
		if topic == "" {
			v.Add("topic", "This field may not be blank.")
		} else if utf8.RuneCountInString(topic) > MaxTopicLen {
			v.Add("topic", "Ensure this field has no more than 200 characters.")
		} else {
			l.Topic = topic
		}
	case full && !v.Has("topic"):
		v.Add("topic", "This field is required.")
	}

	switch {
	case in.Content != nil:
		if strings.TrimSpace(*in.Content) == "" {
			v.Add("content", "This field may not be blank.")
		} else {
			l.Content = *in.Content
		}
	case full && !v.Has("content"):
		v.Add("content", "This field is required.")
	}

	switch {
	case in.Action != nil:
		a, ok := Actions.Parse(*in.Action)
		if !ok {
			v.Add("action", choice.InvalidMessage(*in.Action))
		} else {
			l.Action = a
		}
	case full && !v.Has("action"):
		v.Add("action", "This field is required.")
	}

	if in.CaseClosed != nil {
		l.CaseClosed = *in.CaseClosed
	}

	if err := v.Err(); err != nil {
		return err
	}

	if in.PhotoRecords != nil {
		r, err := blobstore.SniffImage(in.PhotoRecords.Reader)
		if errors.Is(err, blobstore.ErrNotImage) {
			return apperror.Invalid("photo_records", err.Error())
		}
		if err != nil {
			return fmt.Errorf("healthlogs: read photo: %w", err)
		}
		key, err := s.blobs.Put(ctx, blobstore.FolderHealthLogPhotos, in.PhotoRecords.Name, r)
		if err != nil {
			return fmt.Errorf("healthlogs: store photo: %w", err)
		}
		l.PhotoKey = key
	}
	return nil
}
