package redislock

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestNew_RejectsBadURL(t *testing.T) {
	if _, err := New("http://not-redis"); err == nil {
		t.Fatalf("expected error for non redis url")
	}
}

func TestTryLock_PropagatesConnectionError(t *testing.T) {
	l := NewWithClient(redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	}))
	defer l.Close()

	release, ok, err := l.TryLock(context.Background(), "vetcare:job:test", time.Second)
	if err == nil || ok || release != nil {
		t.Fatalf("expected connection error, got ok=%v err=%v", ok, err)
	}
}
