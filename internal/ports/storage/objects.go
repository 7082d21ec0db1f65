package storage

import (
	"context"
	"io"
)

// Buckets usados por la API.
const (
	BucketPets       = "pets"
	BucketAttachment = "attachment"
	BucketUsers      = "users"
)

// Object describe lo que se sube. Size -1 si no se conoce.
type Object struct {
	Bucket      string
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// ObjectStorage es el puerto de almacenamiento de archivos (avatars, adjuntos).
type ObjectStorage interface {
	Put(ctx context.Context, obj Object) (url string, err error)
	Remove(ctx context.Context, bucket, name string) error
	URL(bucket, name string) string
}

// IsImage acepta solo PNG y JPEG, que es lo que usan los avatars.
func IsImage(contentType string) bool {
	switch contentType {
	case "image/png", "image/jpeg":
		return true
	}
	return false
}
