package state

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// ErrLeaseHeld is returned when another operator is working on the same sheet.
var ErrLeaseHeld = errors.New("layout lease is held by another operator")

// Lease is exclusive ownership of a sheet layout for the scan-and-write window.
type Lease struct {
	Key   string
	Token string
}

type LeaseManager interface {
	Acquire(ctx context.Context, sheet string) (*Lease, error)
	Release(ctx context.Context, lease *Lease) error
}

// releaseScript deletes the key only if it still holds our token, so an expired
// lease taken over by someone else is never released by the old owner.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type redisLeaseManager struct {
	redisClient redis.Cmdable
	keyPrefix   string
	ttl         time.Duration
}

func NewRedisLeaseManager(redisClient redis.Cmdable, ttl time.Duration) LeaseManager {
	return &redisLeaseManager{
		redisClient: redisClient,
		keyPrefix:   "catsync:lease:layout:",
		ttl:         ttl,
	}
}

func (m *redisLeaseManager) Acquire(ctx context.Context, sheet string) (*Lease, error) {
	lease := &Lease{Key: m.keyPrefix + sheet, Token: uuid.NewString()}

	ok, err := m.redisClient.SetNX(ctx, lease.Key, lease.Token, m.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lease for sheet %s: %w", sheet, err)
	}
	if !ok {
		return nil, fmt.Errorf("sheet %s: %w", sheet, ErrLeaseHeld)
	}

	log.Debugf("Acquired lease %s for %s", lease.Token, lease.Key)
	return lease, nil
}

func (m *redisLeaseManager) Release(ctx context.Context, lease *Lease) error {
	released, err := releaseScript.Run(ctx, m.redisClient, []string{lease.Key}, lease.Token).Int()
	if err != nil {
		return fmt.Errorf("failed to release lease %s: %w", lease.Key, err)
	}
	if released == 0 {
		log.Warnf("⚠️ Lease %s expired before release", lease.Key)
	}
	return nil
}

// WithLease runs fn while holding the lease for sheet.
func WithLease(ctx context.Context, m LeaseManager, sheet string, fn func() error) error {
	lease, err := m.Acquire(ctx, sheet)
	if err != nil {
		return err
	}
	defer func() {
		if err := m.Release(context.WithoutCancel(ctx), lease); err != nil {
			log.Errorf("❌ %v", err)
		}
	}()

	return fn()
}
