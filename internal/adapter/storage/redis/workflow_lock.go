package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// ErrLockNotHeld is returned by Release when the lock expired or was taken
// over by another holder before it was released.
var ErrLockNotHeld = errors.New("workflow lock no longer held")

// releaseScript deletes the key only while it still carries the caller's token.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// WorkflowLock implements ports.WorkflowLocker using Redis SET NX with a
// per-acquire token.
type WorkflowLock struct {
	client *goredis.Client
	prefix string
}

// NewWorkflowLock creates a new Redis-backed workflow lock.
func NewWorkflowLock(client *goredis.Client) *WorkflowLock {
	return &WorkflowLock{
		client: client,
		prefix: "settlement:lock:",
	}
}

// Acquire takes the lock for workflowID until ttl elapses.
// Returns false if another sweeper holds it.
func (l *WorkflowLock) Acquire(ctx context.Context, workflowID uuid.UUID, ttl time.Duration) (string, bool, error) {
	token := uuid.NewString()
	result, err := l.client.SetArgs(ctx, l.key(workflowID), token, goredis.SetArgs{
		Mode: "NX",
		TTL:  ttl,
	}).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis workflow lock: %w", err)
	}
	if result != "OK" {
		return "", false, nil
	}
	return token, true, nil
}

// Release drops the lock if token still owns it. A lock that expired and was
// re-acquired by another sweeper is left alone and ErrLockNotHeld returned.
func (l *WorkflowLock) Release(ctx context.Context, workflowID uuid.UUID, token string) error {
	deleted, err := releaseScript.Run(ctx, l.client, []string{l.key(workflowID)}, token).Int()
	if err != nil {
		return fmt.Errorf("redis workflow unlock: %w", err)
	}
	if deleted == 0 {
		return ErrLockNotHeld
	}
	return nil
}

func (l *WorkflowLock) key(workflowID uuid.UUID) string {
	return l.prefix + workflowID.String()
}
