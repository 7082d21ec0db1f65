package postgres

import (
	"context"
	"database/sql"
	"strings"

	"vetcare-api/internal/domain/pets"
)

type PetsRepo struct {
	db *sql.DB
}

func NewPetsRepo(db *sql.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

const petColumns = `
	id, owner_id, vet_id, sector_id,
	name, breed, type, weight, sex, age,
	photo_url, created_at, updated_at`

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pets (`+petColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`,
		p.ID,
		nullString(p.OwnerID),
		nullString(p.VetID),
		nullString(p.SectorID),
		p.Name,
		p.Breed,
		string(p.Type),
		p.Weight,
		string(p.Sex),
		p.Age,
		p.PhotoURL,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return mapErr(err)
}

func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) error {
	return affected(r.db.ExecContext(ctx, `
		UPDATE pets
		SET
			owner_id = $2,
			vet_id = $3,
			sector_id = $4,
			name = $5,
			breed = $6,
			type = $7,
			weight = $8,
			sex = $9,
			age = $10,
			photo_url = $11,
			updated_at = $12
		WHERE id = $1
	`,
		p.ID,
		nullString(p.OwnerID),
		nullString(p.VetID),
		nullString(p.SectorID),
		p.Name,
		p.Breed,
		string(p.Type),
		p.Weight,
		string(p.Sex),
		p.Age,
		p.PhotoURL,
		p.UpdatedAt,
	))
}

func (r *PetsRepo) Delete(ctx context.Context, id string) error {
	return affected(r.db.ExecContext(ctx, `DELETE FROM pets WHERE id = $1`, id))
}

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	return queryOne(ctx, r.db, scanPet, `SELECT `+petColumns+` FROM pets WHERE id = $1`, strings.TrimSpace(id))
}

func (r *PetsRepo) ListAll(ctx context.Context) ([]pets.Pet, error) {
	return query(ctx, r.db, scanPet, `SELECT `+petColumns+` FROM pets ORDER BY created_at ASC`)
}

func (r *PetsRepo) ListByOwner(ctx context.Context, ownerID string) ([]pets.Pet, error) {
	return query(ctx, r.db, scanPet,
		`SELECT `+petColumns+` FROM pets WHERE owner_id = $1 ORDER BY created_at ASC`, ownerID)
}

func (r *PetsRepo) ListByVet(ctx context.Context, vetID string) ([]pets.Pet, error) {
	return query(ctx, r.db, scanPet,
		`SELECT `+petColumns+` FROM pets WHERE vet_id = $1 ORDER BY created_at ASC`, vetID)
}

func scanPet(s scanner) (pets.Pet, error) {
	var (
		p                  pets.Pet
		owner, vet, sector sql.NullString
		petType, sex       string
	)
	if err := s.Scan(
		&p.ID,
		&owner,
		&vet,
		&sector,
		&p.Name,
		&p.Breed,
		&petType,
		&p.Weight,
		&sex,
		&p.Age,
		&p.PhotoURL,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return pets.Pet{}, err
	}
	p.OwnerID = owner.String
	p.VetID = vet.String
	p.SectorID = sector.String
	p.Type = pets.Type(petType)
	p.Sex = pets.Sex(sex)
	return p, nil
}
