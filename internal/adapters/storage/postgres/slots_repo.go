package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"vetcare-api/internal/domain/slots"
	"vetcare-api/internal/platform/apperr"
)

type SlotsRepo struct {
	db *sql.DB
}

func NewSlotsRepo(db *sql.DB) *SlotsRepo {
	return &SlotsRepo{db: db}
}

const slotColumns = `id, vet_id, day, start_time, end_time, is_available, is_priority, created_at`

func (r *SlotsRepo) Create(ctx context.Context, s slots.Slot) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO slots (`+slotColumns+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, s.ID, s.VetID, s.Date, s.Start, s.End, s.Available, s.Priority, s.CreatedAt)
	return mapErr(err)
}

func (r *SlotsRepo) GetByID(ctx context.Context, id string) (slots.Slot, error) {
	return queryOne(ctx, r.db, scanSlot, `SELECT `+slotColumns+` FROM slots WHERE id = $1`, id)
}

func (r *SlotsRepo) Delete(ctx context.Context, id string) error {
	return affected(r.db.ExecContext(ctx, `DELETE FROM slots WHERE id = $1`, id))
}

func (r *SlotsRepo) ListAll(ctx context.Context) ([]slots.Slot, error) {
	return query(ctx, r.db, scanSlot, `SELECT `+slotColumns+` FROM slots ORDER BY start_time ASC`)
}

func (r *SlotsRepo) ListAvailable(ctx context.Context, priority bool) ([]slots.Slot, error) {
	return query(ctx, r.db, scanSlot, `
		SELECT `+slotColumns+`
		FROM slots
		WHERE is_available = TRUE AND is_priority = $1
		ORDER BY start_time ASC
	`, priority)
}

func (r *SlotsRepo) ListByVet(ctx context.Context, vetID string) ([]slots.Slot, error) {
	return query(ctx, r.db, scanSlot,
		`SELECT `+slotColumns+` FROM slots WHERE vet_id = $1 ORDER BY start_time ASC`, vetID)
}

func (r *SlotsRepo) ListStartingBetween(ctx context.Context, from, to time.Time) ([]slots.Slot, error) {
	return query(ctx, r.db, scanSlot, `
		SELECT `+slotColumns+`
		FROM slots
		WHERE start_time >= $1 AND start_time < $2
		ORDER BY start_time ASC
	`, from, to)
}

// Book: el UPDATE condicional es el compare-and-swap; la fila la gana un solo UPDATE.
func (r *SlotsRepo) Book(ctx context.Context, id string) (bool, error) {
	err := affected(r.db.ExecContext(ctx,
		`UPDATE slots SET is_available = FALSE WHERE id = $1 AND is_available = TRUE`, id))
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, apperr.ErrRecordNotFound) {
		return false, err
	}

	// 0 filas: o no existe o ya estaba reservado
	var exists bool
	if err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM slots WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, mapErr(err)
	}
	if !exists {
		return false, apperr.ErrRecordNotFound
	}
	return false, nil
}

func (r *SlotsRepo) Release(ctx context.Context, id string) error {
	return affected(r.db.ExecContext(ctx, `UPDATE slots SET is_available = TRUE WHERE id = $1`, id))
}

func scanSlot(s scanner) (slots.Slot, error) {
	var x slots.Slot
	err := s.Scan(&x.ID, &x.VetID, &x.Date, &x.Start, &x.End, &x.Available, &x.Priority, &x.CreatedAt)
	return x, err
}
