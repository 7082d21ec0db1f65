package attachments

import (
	"context"
	"errors"
	"path"
	"strings"
	"time"

	"vetcare-api/internal/domain/access"
	"vetcare-api/internal/domain/anamnesis"
	"vetcare-api/internal/domain/identity"
	"vetcare-api/internal/platform/apperr"
	"vetcare-api/internal/ports/storage"

	"github.com/google/uuid"
)

// AnamnesisLookup: GetByID sin chequeo de acceso, Get con chequeo sobre la mascota.
type AnamnesisLookup interface {
	GetByID(ctx context.Context, id string) (anamnesis.Anamnesis, error)
	Get(ctx context.Context, actor identity.Actor, id string) (anamnesis.Anamnesis, error)
}

type Service struct {
	repo      Repository
	anamnesis AnamnesisLookup
	objects   storage.ObjectStorage
	now       func() time.Time
}

func NewService(repo Repository, anamnesis AnamnesisLookup, objects storage.ObjectStorage) *Service {
	return &Service{repo: repo, anamnesis: anamnesis, objects: objects, now: time.Now}
}

// Save sube el archivo a anamnesis<ID>/<uuid>-<nombre> y registra el adjunto.
// Si falla el registro, el objeto subido se borra.
func (s *Service) Save(ctx context.Context, actor identity.Actor, anamnesisID, recommendation string, obj storage.Object) (Attachment, error) {
	if err := access.RequireAnyRole(actor, identity.RoleAdmin, identity.RoleVet); err != nil {
		return Attachment{}, err
	}
	if obj.Body == nil {
		return Attachment{}, apperr.Validation("file is required")
	}
	an, err := s.anamnesis.GetByID(ctx, anamnesisID)
	if err != nil {
		return Attachment{}, err
	}

	fileName := cleanFileName(obj.Name)
	id := uuid.NewString()
	obj.Bucket = storage.BucketAttachment
	obj.Name = "anamnesis" + an.ID + "/" + id + "-" + fileName
	if obj.ContentType == "" {
		obj.ContentType = "application/octet-stream"
	}

	url, err := s.objects.Put(ctx, obj)
	if err != nil {
		return Attachment{}, apperr.Internal(err, "upload attachment")
	}

	a := Attachment{
		ID:             id,
		AnamnesisID:    an.ID,
		FileName:       fileName,
		ContentType:    obj.ContentType,
		ObjectName:     obj.Name,
		FileURL:        url,
		Recommendation: strings.TrimSpace(recommendation),
		UploadedAt:     s.now(),
	}
	if err := s.repo.Create(ctx, a); err != nil {
		_ = s.objects.Remove(ctx, storage.BucketAttachment, obj.Name)
		return Attachment{}, apperr.Internal(err, "create attachment")
	}
	return a, nil
}

func (s *Service) Get(ctx context.Context, actor identity.Actor, id string) (Attachment, error) {
	a, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, apperr.ErrRecordNotFound) {
			return Attachment{}, apperr.NotFound("Attachment not found with id: %s", id)
		}
		return Attachment{}, apperr.Internal(err, "load attachment")
	}
	if _, err := s.anamnesis.Get(ctx, actor, a.AnamnesisID); err != nil {
		return Attachment{}, err
	}
	return a, nil
}

// URL resuelve la url pública actual del archivo.
func (s *Service) URL(ctx context.Context, actor identity.Actor, id string) (string, error) {
	a, err := s.Get(ctx, actor, id)
	if err != nil {
		return "", err
	}
	return s.objects.URL(storage.BucketAttachment, a.ObjectName), nil
}

func (s *Service) ListByAnamnesis(ctx context.Context, actor identity.Actor, anamnesisID string) ([]Attachment, error) {
	if _, err := s.anamnesis.Get(ctx, actor, anamnesisID); err != nil {
		return nil, err
	}
	items, err := s.repo.ListByAnamnesis(ctx, anamnesisID)
	if err != nil {
		return nil, apperr.Internal(err, "list attachments")
	}
	return items, nil
}

// Delete borra el registro y después el objeto.
func (s *Service) Delete(ctx context.Context, actor identity.Actor, id string) error {
	if err := access.RequireAnyRole(actor, identity.RoleAdmin, identity.RoleVet); err != nil {
		return err
	}
	a, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, apperr.ErrRecordNotFound) {
			return apperr.NotFound("Attachment not found with id: %s", id)
		}
		return apperr.Internal(err, "load attachment")
	}
	if err := s.repo.Delete(ctx, a.ID); err != nil {
		return apperr.Internal(err, "delete attachment")
	}
	if err := s.objects.Remove(ctx, storage.BucketAttachment, a.ObjectName); err != nil {
		return apperr.Internal(err, "remove attachment object")
	}
	return nil
}

func cleanFileName(name string) string {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "file"
	}
	return strings.ReplaceAll(name, " ", "_")
}
