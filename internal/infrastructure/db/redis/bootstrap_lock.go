package redis

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultLockKey = "userdir:bootstrap:lock"
	defaultLockTTL = 30 * time.Second
)

// releaseScript deletes the key only while it still holds our token, so an
// expired lock re-acquired by another instance is never released by us.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// BootstrapLock is a single-holder lock used while seeding the user store.
type BootstrapLock struct {
	client *redis.Client
	key    string
	ttl    time.Duration
	token  string
}

// NewBootstrapLock creates a lock on key (defaultLockKey when empty) that
// expires after ttl so a crashed holder cannot block later starts.
func NewBootstrapLock(client *redis.Client, key string, ttl time.Duration) *BootstrapLock {
	if key == "" {
		key = defaultLockKey
	}
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &BootstrapLock{client: client, key: key, ttl: ttl}
}

// Acquire reports whether this instance now holds the lock.
func (l *BootstrapLock) Acquire(ctx context.Context) (bool, error) {
	token, err := randomToken()
	if err != nil {
		return false, fmt.Errorf("bootstrap lock: %w", err)
	}

	ok, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("bootstrap lock: %w", err)
	}
	if ok {
		l.token = token
	}
	return ok, nil
}

// Release drops the lock if it is still ours.
func (l *BootstrapLock) Release(ctx context.Context) error {
	if l.token == "" {
		return nil
	}
	if err := releaseScript.Run(ctx, l.client, []string{l.key}, l.token).Err(); err != nil {
		return fmt.Errorf("bootstrap unlock: %w", err)
	}
	l.token = ""
	return nil
}

func randomToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
