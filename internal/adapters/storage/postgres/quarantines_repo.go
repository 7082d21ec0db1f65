package postgres

import (
	"context"
	"database/sql"
	"time"

	"vetcare-api/internal/domain/quarantines"
)

type QuarantinesRepo struct {
	db *sql.DB
}

func NewQuarantinesRepo(db *sql.DB) *QuarantinesRepo {
	return &QuarantinesRepo{db: db}
}

const quarantineColumns = `
	id, pet_id, sector_id, vet_id, reason, description,
	start_date, end_date, status, created_at`

func (r *QuarantinesRepo) Create(ctx context.Context, q quarantines.Quarantine) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO quarantines (`+quarantineColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		q.ID,
		q.PetID,
		q.SectorID,
		q.VetID,
		q.Reason,
		q.Description,
		q.Start,
		q.End,
		string(q.Status),
		q.CreatedAt,
	)
	return mapErr(err)
}

func (r *QuarantinesRepo) GetByID(ctx context.Context, id string) (quarantines.Quarantine, error) {
	return queryOne(ctx, r.db, scanQuarantine, `SELECT `+quarantineColumns+` FROM quarantines WHERE id = $1`, id)
}

func (r *QuarantinesRepo) Delete(ctx context.Context, id string) error {
	return affected(r.db.ExecContext(ctx, `DELETE FROM quarantines WHERE id = $1`, id))
}

func (r *QuarantinesRepo) ListAll(ctx context.Context) ([]quarantines.Quarantine, error) {
	return query(ctx, r.db, scanQuarantine, `SELECT `+quarantineColumns+` FROM quarantines ORDER BY start_date ASC`)
}

func (r *QuarantinesRepo) ListByPet(ctx context.Context, petID string) ([]quarantines.Quarantine, error) {
	return query(ctx, r.db, scanQuarantine,
		`SELECT `+quarantineColumns+` FROM quarantines WHERE pet_id = $1 ORDER BY start_date ASC`, petID)
}

func (r *QuarantinesRepo) ListBySector(ctx context.Context, sectorID string) ([]quarantines.Quarantine, error) {
	return query(ctx, r.db, scanQuarantine,
		`SELECT `+quarantineColumns+` FROM quarantines WHERE sector_id = $1 ORDER BY start_date ASC`, sectorID)
}

func (r *QuarantinesRepo) ListBySectorStatus(ctx context.Context, sectorID string, status quarantines.Status, offset, limit int) ([]quarantines.Quarantine, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM quarantines WHERE sector_id = $1 AND status = $2`,
		sectorID, string(status),
	).Scan(&total); err != nil {
		return nil, 0, mapErr(err)
	}

	items, err := query(ctx, r.db, scanQuarantine, `
		SELECT `+quarantineColumns+`
		FROM quarantines
		WHERE sector_id = $1 AND status = $2
		ORDER BY start_date ASC, id ASC
		OFFSET $3 LIMIT $4
	`, sectorID, string(status), offset, limit)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *QuarantinesRepo) Reasons(ctx context.Context, sectorID string, status quarantines.Status) ([]string, error) {
	return query(ctx, r.db, func(s scanner) (string, error) {
		var reason string
		err := s.Scan(&reason)
		return reason, err
	}, `
		SELECT DISTINCT reason
		FROM quarantines
		WHERE sector_id = $1 AND status = $2
		ORDER BY reason
	`, sectorID, string(status))
}

func (r *QuarantinesRepo) ListDue(ctx context.Context, now time.Time) ([]quarantines.Quarantine, error) {
	return query(ctx, r.db, scanQuarantine, `
		SELECT `+quarantineColumns+`
		FROM quarantines
		WHERE end_date < $1 AND status <> 'DONE'
		ORDER BY end_date ASC
	`, now)
}

// Complete: si dos sweeps compiten, solo uno ve RowsAffected == 1.
func (r *QuarantinesRepo) Complete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE quarantines SET status = 'DONE' WHERE id = $1 AND status <> 'DONE'`, id)
	if err != nil {
		return false, mapErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func scanQuarantine(s scanner) (quarantines.Quarantine, error) {
	var (
		q      quarantines.Quarantine
		status string
	)
	if err := s.Scan(
		&q.ID,
		&q.PetID,
		&q.SectorID,
		&q.VetID,
		&q.Reason,
		&q.Description,
		&q.Start,
		&q.End,
		&status,
		&q.CreatedAt,
	); err != nil {
		return quarantines.Quarantine{}, err
	}
	q.Status = quarantines.Status(status)
	return q, nil
}
