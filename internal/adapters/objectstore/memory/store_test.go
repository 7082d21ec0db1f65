package memory

import (
	"context"
	"io"
	"strings"
	"testing"

	"vetcare-api/internal/ports/storage"
)

func TestStore_PutOpenRemove(t *testing.T) {
	s := New("")
	ctx := context.Background()

	url, err := s.Put(ctx, storage.Object{
		Bucket:      storage.BucketAttachment,
		Name:        "anamnesis1/x.png",
		ContentType: "image/png",
		Size:        3,
		Body:        strings.NewReader("png"),
	})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if url != "memory://attachment/anamnesis1/x.png" {
		t.Fatalf("unexpected url %q", url)
	}

	r, ct, ok := s.Open(storage.BucketAttachment, "anamnesis1/x.png")
	if !ok || ct != "image/png" {
		t.Fatalf("expected stored object, got ok=%v ct=%q", ok, ct)
	}
	b, _ := io.ReadAll(r)
	if string(b) != "png" {
		t.Fatalf("unexpected content %q", b)
	}

	if err := s.Remove(ctx, storage.BucketAttachment, "anamnesis1/x.png"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("expected empty store")
	}
	// segunda vez no falla
	if err := s.Remove(ctx, storage.BucketAttachment, "anamnesis1/x.png"); err != nil {
		t.Fatalf("remove twice: %v", err)
	}
}
