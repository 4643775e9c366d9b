package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"pet-records/internal/domain/pets"
)

type PetsRepo struct {
	db *sql.DB
}

func NewPetsRepo(db *sql.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

const petColumns = `
	p.id, p.owner_user_id, p.name,
	p.pet_type_id, p.pet_species_id,
	COALESCE(t.name, ''), COALESCE(s.name, ''),
	p.gender, p.sterilised, p.photo_key,
	p.birth_day, p.favorite_food, p.memo,
	p.created_at, p.updated_at
	FROM pets p
	LEFT JOIN pet_types t ON t.id = p.pet_type_id
	LEFT JOIN pet_species s ON s.id = p.pet_species_id`

type scanner interface {
	Scan(dest ...any) error
}

func scanPet(row scanner) (pets.Pet, error) {
	var (
		p               pets.Pet
		typeID, species sql.NullString
		gender, food    string
	)
	if err := row.Scan(
		&p.ID,
		&p.OwnerUserID,
		&p.Name,
		&typeID,
		&species,
		&p.PetTypeName,
		&p.PetSpeciesName,
		&gender,
		&p.Sterilised,
		&p.PhotoKey,
		&p.BirthDay,
		&food,
		&p.Memo,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return pets.Pet{}, err
	}
	p.PetTypeID = stringPtr(typeID)
	p.PetSpeciesID = stringPtr(species)
	p.Gender = pets.Gender(gender)
	p.FavoriteFood = pets.FoodBrand(food)
	p.BirthDay = asDate(p.BirthDay)
	return p, nil
}

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pets (
			id, owner_user_id, name,
			pet_type_id, pet_species_id,
			gender, sterilised, photo_key,
			birth_day, favorite_food, memo,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`,
		p.ID,
		p.OwnerUserID,
		p.Name,
		nullString(p.PetTypeID),
		nullString(p.PetSpeciesID),
		string(p.Gender),
		p.Sterilised,
		p.PhotoKey,
		p.BirthDay,
		string(p.FavoriteFood),
		p.Memo,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return petWriteError(err)
}

// Update filtra por dueño; nunca reasigna owner_user_id ni created_at.
func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE pets
		SET
			name = $3,
			pet_type_id = $4,
			pet_species_id = $5,
			gender = $6,
			sterilised = $7,
			photo_key = $8,
			birth_day = $9,
			favorite_food = $10,
			memo = $11,
			updated_at = $12
		WHERE id = $1 AND owner_user_id = $2
	`,
		p.ID,
		p.OwnerUserID,
		p.Name,
		nullString(p.PetTypeID),
		nullString(p.PetSpeciesID),
		string(p.Gender),
		p.Sterilised,
		p.PhotoKey,
		p.BirthDay,
		string(p.FavoriteFood),
		p.Memo,
		p.UpdatedAt,
	)
	if err != nil {
		return petWriteError(err)
	}
	return affected(res, pets.ErrNotFound)
}

// petWriteError traduce la FK a taxonomía (tipo o especie borrados en el medio).
func petWriteError(err error) error {
	if err == nil || pgCode(err) != codeForeignKeyViolation {
		return err
	}
	if strings.Contains(pgConstraint(err), "pet_species") {
		return pets.ErrUnknownPetSpecies
	}
	return pets.ErrUnknownPetType
}

// Delete arrastra los logs por ON DELETE CASCADE.
func (r *PetsRepo) Delete(ctx context.Context, ownerUserID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM pets WHERE id = $1 AND owner_user_id = $2`, id, ownerUserID)
	if err != nil {
		return err
	}
	return affected(res, pets.ErrNotFound)
}

func (r *PetsRepo) GetOwned(ctx context.Context, ownerUserID, id string) (pets.Pet, error) {
	ownerUserID, id = strings.TrimSpace(ownerUserID), strings.TrimSpace(id)
	if ownerUserID == "" || id == "" {
		return pets.Pet{}, pets.ErrNotFound
	}

	p, err := scanPet(r.db.QueryRowContext(ctx,
		`SELECT `+petColumns+` WHERE p.id = $1 AND p.owner_user_id = $2`, id, ownerUserID))
	if errors.Is(err, sql.ErrNoRows) {
		return pets.Pet{}, pets.ErrNotFound
	}
	return p, err
}

func (r *PetsRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]pets.Pet, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return []pets.Pet{}, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+petColumns+` WHERE p.owner_user_id = $1 ORDER BY p.created_at ASC, p.seq ASC`, ownerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pets.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
