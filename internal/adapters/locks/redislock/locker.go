// Package redislock implementa scheduler.Locker con SET NX PX.
// Sirve para que con varias réplicas los sweeps corran en una sola.
package redislock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// solo borra si el lock sigue siendo nuestro
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type Locker struct {
	client *redis.Client
}

// New parsea una URL redis:// o rediss://.
func New(url string) (*Locker, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return &Locker{client: redis.NewClient(opt)}, nil
}

func NewWithClient(c *redis.Client) *Locker {
	return &Locker{client: c}
}

func (l *Locker) Ping(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}

func (l *Locker) TryLock(ctx context.Context, key string, ttl time.Duration) (func(), bool, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}

	release := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = releaseScript.Run(ctx, l.client, []string{key}, token).Err()
	}
	return release, true, nil
}

func (l *Locker) Close() error {
	return l.client.Close()
}
