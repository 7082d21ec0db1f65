package postgres

import (
	"context"
	"database/sql"

	"vetcare-api/internal/domain/appointments"
)

type AppointmentsRepo struct {
	db *sql.DB
}

func NewAppointmentsRepo(db *sql.DB) *AppointmentsRepo {
	return &AppointmentsRepo{db: db}
}

const appointmentColumns = `id, pet_id, slot_id, description, created_at`

func (r *AppointmentsRepo) Create(ctx context.Context, a appointments.Appointment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO appointments (`+appointmentColumns+`) VALUES ($1,$2,$3,$4,$5)
	`, a.ID, a.PetID, nullString(a.SlotID), a.Description, a.CreatedAt)
	return mapErr(err)
}

func (r *AppointmentsRepo) Update(ctx context.Context, a appointments.Appointment) error {
	return affected(r.db.ExecContext(ctx, `
		UPDATE appointments SET slot_id = $2, description = $3 WHERE id = $1
	`, a.ID, nullString(a.SlotID), a.Description))
}

func (r *AppointmentsRepo) Delete(ctx context.Context, id string) error {
	return affected(r.db.ExecContext(ctx, `DELETE FROM appointments WHERE id = $1`, id))
}

func (r *AppointmentsRepo) GetByID(ctx context.Context, id string) (appointments.Appointment, error) {
	return queryOne(ctx, r.db, scanAppointment,
		`SELECT `+appointmentColumns+` FROM appointments WHERE id = $1`, id)
}

func (r *AppointmentsRepo) ListAll(ctx context.Context) ([]appointments.Appointment, error) {
	return query(ctx, r.db, scanAppointment,
		`SELECT `+appointmentColumns+` FROM appointments ORDER BY created_at ASC`)
}

func (r *AppointmentsRepo) ListByPet(ctx context.Context, petID string) ([]appointments.Appointment, error) {
	return query(ctx, r.db, scanAppointment,
		`SELECT `+appointmentColumns+` FROM appointments WHERE pet_id = $1 ORDER BY created_at ASC`, petID)
}

// ListBySlots usa ANY($1): pgx codifica el []string como text[].
func (r *AppointmentsRepo) ListBySlots(ctx context.Context, slotIDs []string) ([]appointments.Appointment, error) {
	if len(slotIDs) == 0 {
		return []appointments.Appointment{}, nil
	}
	return query(ctx, r.db, scanAppointment,
		`SELECT `+appointmentColumns+` FROM appointments WHERE slot_id = ANY($1) ORDER BY created_at ASC`, slotIDs)
}

func scanAppointment(s scanner) (appointments.Appointment, error) {
	var (
		a      appointments.Appointment
		slotID sql.NullString
	)
	if err := s.Scan(&a.ID, &a.PetID, &slotID, &a.Description, &a.CreatedAt); err != nil {
		return appointments.Appointment{}, err
	}
	a.SlotID = slotID.String
	return a, nil
}
