// Package minio implementa storage.ObjectStorage sobre un servidor MinIO/S3.
package minio

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"vetcare-api/internal/ports/storage"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	// PublicURL es la base que ven los clientes; vacío => se arma con Endpoint.
	PublicURL string
}

type Store struct {
	client *minio.Client
	public string

	mu    sync.Mutex
	ready map[string]bool // buckets ya verificados
}

func New(cfg Config) (*Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio: new client: %w", err)
	}

	public := strings.TrimRight(cfg.PublicURL, "/")
	if public == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		public = scheme + "://" + cfg.Endpoint
	}

	return &Store{client: client, public: public, ready: make(map[string]bool)}, nil
}

// EnsureBuckets crea los buckets que falten. Se llama una vez al arrancar.
func (s *Store) EnsureBuckets(ctx context.Context, buckets ...string) error {
	for _, b := range buckets {
		if err := s.ensure(ctx, b); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) ensure(ctx context.Context, bucket string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ready[bucket] {
		return nil
	}
	exists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("minio: bucket exists %s: %w", bucket, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("minio: make bucket %s: %w", bucket, err)
		}
	}
	s.ready[bucket] = true
	return nil
}

func (s *Store) Put(ctx context.Context, obj storage.Object) (string, error) {
	if err := s.ensure(ctx, obj.Bucket); err != nil {
		return "", err
	}
	_, err := s.client.PutObject(ctx, obj.Bucket, obj.Name, obj.Body, obj.Size, minio.PutObjectOptions{
		ContentType: obj.ContentType,
	})
	if err != nil {
		return "", fmt.Errorf("minio: put %s/%s: %w", obj.Bucket, obj.Name, err)
	}
	return s.URL(obj.Bucket, obj.Name), nil
}

func (s *Store) Remove(ctx context.Context, bucket, name string) error {
	if err := s.client.RemoveObject(ctx, bucket, name, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("minio: remove %s/%s: %w", bucket, name, err)
	}
	return nil
}

// URL arma la URL pública path-style: <public>/<bucket>/<name>.
func (s *Store) URL(bucket, name string) string {
	return s.public + "/" + bucket + "/" + escapePath(name)
}

func escapePath(name string) string {
	parts := strings.Split(name, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
