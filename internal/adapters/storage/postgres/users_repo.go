package postgres

import (
	"context"
	"database/sql"
	"strings"

	"vetcare-api/internal/domain/identity"
	"vetcare-api/internal/domain/users"
)

type UsersRepo struct {
	db *sql.DB
}

func NewUsersRepo(db *sql.DB) *UsersRepo {
	return &UsersRepo{db: db}
}

const userColumns = `id, username, email, password_hash, phone, name, surname, roles, clinic_id, photo_url, created_at, updated_at`

func (r *UsersRepo) Create(ctx context.Context, u users.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`,
		u.ID,
		u.Username,
		u.Email,
		u.PasswordHash,
		u.Phone,
		u.Name,
		u.Surname,
		rolesToText(u.Roles),
		nullStringPtr(u.ClinicID),
		u.PhotoURL,
		u.CreatedAt,
		u.UpdatedAt,
	)
	return mapErr(err)
}

func (r *UsersRepo) Update(ctx context.Context, u users.User) error {
	return affected(r.db.ExecContext(ctx, `
		UPDATE users
		SET
			username = $2,
			email = $3,
			password_hash = $4,
			phone = $5,
			name = $6,
			surname = $7,
			roles = $8,
			clinic_id = $9,
			photo_url = $10,
			updated_at = $11
		WHERE id = $1
	`,
		u.ID,
		u.Username,
		u.Email,
		u.PasswordHash,
		u.Phone,
		u.Name,
		u.Surname,
		rolesToText(u.Roles),
		nullStringPtr(u.ClinicID),
		u.PhotoURL,
		u.UpdatedAt,
	))
}

func (r *UsersRepo) Delete(ctx context.Context, id string) error {
	return affected(r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id))
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (users.User, error) {
	return queryOne(ctx, r.db, scanUser, `SELECT `+userColumns+` FROM users WHERE id = $1`, strings.TrimSpace(id))
}

func (r *UsersRepo) GetByUsername(ctx context.Context, username string) (users.User, error) {
	return queryOne(ctx, r.db, scanUser,
		`SELECT `+userColumns+` FROM users WHERE lower(username) = lower($1)`, strings.TrimSpace(username))
}

func (r *UsersRepo) ListAll(ctx context.Context) ([]users.User, error) {
	return query(ctx, r.db, scanUser, `SELECT `+userColumns+` FROM users ORDER BY username`)
}

// ListByRole: roles se guarda como lista separada por comas ("OWNER" o "ADMIN,VET").
func (r *UsersRepo) ListByRole(ctx context.Context, role identity.Role) ([]users.User, error) {
	return query(ctx, r.db, scanUser, `
		SELECT `+userColumns+`
		FROM users
		WHERE $1 = ANY (string_to_array(roles, ','))
		ORDER BY username
	`, string(role))
}

func scanUser(s scanner) (users.User, error) {
	var (
		u        users.User
		roles    string
		clinicID sql.NullString
	)
	if err := s.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.Phone,
		&u.Name,
		&u.Surname,
		&roles,
		&clinicID,
		&u.PhotoURL,
		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		return users.User{}, err
	}
	u.Roles = identity.ParseRoleSet(strings.Split(roles, ","))
	if clinicID.Valid {
		c := clinicID.String
		u.ClinicID = &c
	}
	return u, nil
}

func rolesToText(s identity.RoleSet) string {
	return strings.Join(s.Strings(), ",")
}
