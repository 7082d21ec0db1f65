package memory

import (
	"context"

	"vetcare-api/internal/domain/attachments"
)

type attachmentRepo struct {
	t *table[attachments.Attachment]
}

func NewAttachmentRepo() attachments.Repository {
	return NewStore().Attachments()
}

func (r *attachmentRepo) Create(ctx context.Context, a attachments.Attachment) error {
	return r.t.insert(a.ID, a)
}

func (r *attachmentRepo) GetByID(ctx context.Context, id string) (attachments.Attachment, error) {
	return r.t.get(id)
}

func (r *attachmentRepo) ListByAnamnesis(ctx context.Context, anamnesisID string) ([]attachments.Attachment, error) {
	return r.t.list(
		func(a attachments.Attachment) bool { return a.AnamnesisID == anamnesisID },
		func(a, b attachments.Attachment) bool { return a.UploadedAt.Before(b.UploadedAt) },
	), nil
}

func (r *attachmentRepo) Delete(ctx context.Context, id string) error {
	return r.t.remove(id)
}
