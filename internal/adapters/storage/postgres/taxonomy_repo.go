package postgres

import (
	"context"
	"database/sql"
	"errors"

	"pet-records/internal/domain/taxonomy"
)

type TaxonomyRepo struct {
	db *sql.DB
}

func (r *TaxonomyRepo) ListTypes(ctx context.Context) ([]taxonomy.PetType, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM pet_types ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	types := make([]taxonomy.PetType, 0)
	index := map[string]int{}
	for rows.Next() {
		t := taxonomy.PetType{Species: []taxonomy.PetSpecies{}}
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		index[t.ID] = len(types)
		types = append(types, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Una sola consulta para todas las especies.
	all, err := r.querySpecies(ctx, `SELECT id, name, pet_type_id FROM pet_species ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	for _, sp := range all {
		if i, ok := index[sp.PetTypeID]; ok {
			types[i].Species = append(types[i].Species, sp)
		}
	}
	return types, nil
}

func (r *TaxonomyRepo) GetType(ctx context.Context, id string) (taxonomy.PetType, error) {
	return r.getTypeWhere(ctx, `id = $1`, id)
}

func (r *TaxonomyRepo) FindTypeByName(ctx context.Context, name string) (taxonomy.PetType, error) {
	return r.getTypeWhere(ctx, `name = $1`, name)
}

func (r *TaxonomyRepo) getTypeWhere(ctx context.Context, where string, arg string) (taxonomy.PetType, error) {
	var t taxonomy.PetType
	err := r.db.QueryRowContext(ctx, `SELECT id, name FROM pet_types WHERE `+where, arg).Scan(&t.ID, &t.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return taxonomy.PetType{}, taxonomy.ErrNotFound
	}
	if err != nil {
		return taxonomy.PetType{}, err
	}
	t.Species, err = r.ListSpecies(ctx, t.ID)
	return t, err
}

func (r *TaxonomyRepo) ListSpecies(ctx context.Context, typeID string) ([]taxonomy.PetSpecies, error) {
	if typeID == "" {
		return []taxonomy.PetSpecies{}, nil
	}
	return r.querySpecies(ctx,
		`SELECT id, name, pet_type_id FROM pet_species WHERE pet_type_id = $1 ORDER BY seq`, typeID)
}

func (r *TaxonomyRepo) GetSpecies(ctx context.Context, id string) (taxonomy.PetSpecies, error) {
	return r.getSpeciesWhere(ctx, `id = $1`, id)
}

func (r *TaxonomyRepo) FindSpeciesByName(ctx context.Context, name string) (taxonomy.PetSpecies, error) {
	return r.getSpeciesWhere(ctx, `name = $1`, name)
}

func (r *TaxonomyRepo) getSpeciesWhere(ctx context.Context, where string, arg string) (taxonomy.PetSpecies, error) {
	var sp taxonomy.PetSpecies
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, pet_type_id FROM pet_species WHERE `+where, arg).Scan(&sp.ID, &sp.Name, &sp.PetTypeID)
	if errors.Is(err, sql.ErrNoRows) {
		return taxonomy.PetSpecies{}, taxonomy.ErrNotFound
	}
	return sp, err
}

func (r *TaxonomyRepo) querySpecies(ctx context.Context, query string, args ...any) ([]taxonomy.PetSpecies, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]taxonomy.PetSpecies, 0)
	for rows.Next() {
		var sp taxonomy.PetSpecies
		if err := rows.Scan(&sp.ID, &sp.Name, &sp.PetTypeID); err != nil {
			return nil, err
		}
		out = append(out, sp)
	}
	return out, rows.Err()
}

func (r *TaxonomyRepo) CreateType(ctx context.Context, t taxonomy.PetType) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO pet_types (id, name) VALUES ($1, $2)`, t.ID, t.Name)
	if pgCode(err) == codeUniqueViolation {
		return taxonomy.ErrDuplicateName
	}
	return err
}

func (r *TaxonomyRepo) CreateSpecies(ctx context.Context, sp taxonomy.PetSpecies) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO pet_species (id, name, pet_type_id) VALUES ($1, $2, $3)`, sp.ID, sp.Name, sp.PetTypeID)
	switch pgCode(err) {
	case codeUniqueViolation:
		return taxonomy.ErrDuplicateName
	case codeForeignKeyViolation:
		return taxonomy.ErrUnknownType
	}
	return err
}

// DeleteType: las especies caen por CASCADE y las mascotas quedan en NULL.
func (r *TaxonomyRepo) DeleteType(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pet_types WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return affected(res, taxonomy.ErrNotFound)
}

func (r *TaxonomyRepo) DeleteSpecies(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pet_species WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return affected(res, taxonomy.ErrNotFound)
}
