// Package memory guarda los objetos en memoria. Lo usan los tests y el modo sin MinIO.
package memory

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"

	"vetcare-api/internal/ports/storage"
)

type object struct {
	contentType string
	data        []byte
}

type Store struct {
	base string

	mu      sync.RWMutex
	objects map[string]object
}

func New(base string) *Store {
	if base == "" {
		base = "memory://"
	}
	return &Store{base: base, objects: make(map[string]object)}
}

func (s *Store) Put(_ context.Context, obj storage.Object) (string, error) {
	if obj.Body == nil {
		return "", errors.New("memory store: empty body")
	}
	data, err := io.ReadAll(obj.Body)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.objects[obj.Bucket+"/"+obj.Name] = object{contentType: obj.ContentType, data: data}
	s.mu.Unlock()

	return s.URL(obj.Bucket, obj.Name), nil
}

// Remove es idempotente, como en S3.
func (s *Store) Remove(_ context.Context, bucket, name string) error {
	s.mu.Lock()
	delete(s.objects, bucket+"/"+name)
	s.mu.Unlock()
	return nil
}

func (s *Store) URL(bucket, name string) string {
	return s.base + bucket + "/" + name
}

// Open devuelve el contenido guardado; false si no existe.
func (s *Store) Open(bucket, name string) (io.Reader, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.objects[bucket+"/"+name]
	if !ok {
		return nil, "", false
	}
	return bytes.NewReader(o.data), o.contentType, true
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
