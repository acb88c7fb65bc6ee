// Package lock provides per-semester mutual exclusion for allocation runs.
// Runs against the same semester must never interleave; runs against
// different semesters are independent.
package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	appErrors "github.com/unialloc/room-alloc-api/pkg/errors"
)

// SemesterLock coordinates run exclusivity through Redis SET NX with a TTL
// so a crashed run cannot leave a semester locked forever.
type SemesterLock struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSemesterLock constructs the lock manager.
func NewSemesterLock(client *redis.Client, ttl time.Duration) *SemesterLock {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &SemesterLock{client: client, ttl: ttl}
}

const releaseScript = `if redis.call("get", KEYS[1]) == ARGV[1] then return redis.call("del", KEYS[1]) else return 0 end`

// Acquire takes the semester lock and returns a release function. It returns
// ErrRunInProgress when another run holds the lock.
func (l *SemesterLock) Acquire(ctx context.Context, semesterID string) (func(), error) {
	key := fmt.Sprintf("alloc:run:%s", semesterID)
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to acquire semester lock")
	}
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrRunInProgress, "")
	}

	release := func() {
		// compare-and-delete so an expired lock taken over by another run
		// is never released by the original holder
		_ = l.client.Eval(context.Background(), releaseScript, []string{key}, token).Err()
	}
	return release, nil
}
