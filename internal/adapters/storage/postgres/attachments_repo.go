package postgres

import (
	"context"
	"database/sql"

	"vetcare-api/internal/domain/attachments"
)

type AttachmentsRepo struct {
	db *sql.DB
}

func NewAttachmentsRepo(db *sql.DB) *AttachmentsRepo {
	return &AttachmentsRepo{db: db}
}

const attachmentColumns = `id, anamnesis_id, file_name, content_type, object_name, file_url, recommendation, upload_date`

func (r *AttachmentsRepo) Create(ctx context.Context, a attachments.Attachment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO diagnostic_attachments (`+attachmentColumns+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, a.ID, a.AnamnesisID, a.FileName, a.ContentType, a.ObjectName, a.FileURL, a.Recommendation, a.UploadedAt)
	return mapErr(err)
}

func (r *AttachmentsRepo) GetByID(ctx context.Context, id string) (attachments.Attachment, error) {
	return queryOne(ctx, r.db, scanAttachment,
		`SELECT `+attachmentColumns+` FROM diagnostic_attachments WHERE id = $1`, id)
}

func (r *AttachmentsRepo) ListByAnamnesis(ctx context.Context, anamnesisID string) ([]attachments.Attachment, error) {
	return query(ctx, r.db, scanAttachment, `
		SELECT `+attachmentColumns+`
		FROM diagnostic_attachments
		WHERE anamnesis_id = $1
		ORDER BY upload_date ASC
	`, anamnesisID)
}

func (r *AttachmentsRepo) Delete(ctx context.Context, id string) error {
	return affected(r.db.ExecContext(ctx, `DELETE FROM diagnostic_attachments WHERE id = $1`, id))
}

func scanAttachment(s scanner) (attachments.Attachment, error) {
	var a attachments.Attachment
	err := s.Scan(&a.ID, &a.AnamnesisID, &a.FileName, &a.ContentType, &a.ObjectName, &a.FileURL, &a.Recommendation, &a.UploadedAt)
	return a, err
}
