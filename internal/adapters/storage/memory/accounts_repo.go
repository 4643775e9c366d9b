package memory

import (
	"context"

	"pet-records/internal/domain/accounts"
	"pet-records/internal/domain/profiles"
)

type usersRepo struct {
	s *Store
}

func (r usersRepo) Create(ctx context.Context, u accounts.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, rec := range r.s.users {
		if rec.v.Username == u.Username {
			return accounts.ErrDuplicateUsername
		}
	}
	r.s.users[u.ID] = record[accounts.User]{seq: r.s.next(), v: u}
	return nil
}

func (r usersRepo) GetByUsername(ctx context.Context, username string) (accounts.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, rec := range r.s.users {
		if rec.v.Username == username {
			return rec.v, nil
		}
	}
	return accounts.User{}, accounts.ErrNotFound
}

func (r usersRepo) GetByID(ctx context.Context, id string) (accounts.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rec, ok := r.s.users[id]
	if !ok {
		return accounts.User{}, accounts.ErrNotFound
	}
	return rec.v, nil
}

// Delete borra perfil, mascotas y logs del usuario.
func (r usersRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return accounts.ErrNotFound
	}
	delete(r.s.users, id)
	delete(r.s.profiles, id)
	for pid, rec := range r.s.pets {
		if rec.v.OwnerUserID == id {
			r.s.deletePet(pid)
		}
	}
	return nil
}

type profilesRepo struct {
	s *Store
}

func (r profilesRepo) GetOrCreate(ctx context.Context, userID string) (profiles.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if p, ok := r.s.profiles[userID]; ok {
		return p, nil
	}
	p := profiles.Profile{UserID: userID}
	r.s.profiles[userID] = p
	return p, nil
}

func (r profilesRepo) Update(ctx context.Context, p profiles.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.profiles[p.UserID]; !ok {
		return profiles.ErrNotFound
	}
	r.s.profiles[p.UserID] = p
	return nil
}
