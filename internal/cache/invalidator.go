package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Logical view keys invalidated after successful mutations. Services declare
// what changed; the refresh itself happens at the read side.
const (
	ViewCarList   = "view:cars"
	ViewDashboard = "view:dashboard"
)

// ViewCar returns the view key for a single car page
func ViewCar(carID string) string {
	return "view:car:" + carID
}

// ViewUserBookings returns the view key for a user's reservations
func ViewUserBookings(userID string) string {
	return "view:bookings:" + userID
}

// ViewSavedCars returns the view key for a user's wishlist
func ViewSavedCars(userID string) string {
	return "view:saved:" + userID
}

// Invalidator is notified after successful mutations with the logical views
// that must be refreshed
type Invalidator interface {
	Invalidate(ctx context.Context, views ...string)
}

// RedisInvalidator drops cached views from Redis. Invalidation is
// best-effort: a failed delete is logged, never surfaced to the caller.
type RedisInvalidator struct {
	client *redis.Client
	logger *logrus.Logger
}

// NewRedisInvalidator creates a RedisInvalidator for the given address
func NewRedisInvalidator(addr, password string, logger *logrus.Logger) *RedisInvalidator {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	return &RedisInvalidator{client: client, logger: logger}
}

// Invalidate deletes the given view keys
func (i *RedisInvalidator) Invalidate(ctx context.Context, views ...string) {
	if len(views) == 0 {
		return
	}

	if err := i.client.Del(ctx, views...).Err(); err != nil {
		i.logger.WithError(err).WithField("views", views).Warn("Failed to invalidate cached views")
	}
}

// Ping verifies the Redis connection
func (i *RedisInvalidator) Ping(ctx context.Context) error {
	return i.client.Ping(ctx).Err()
}

// Close closes the underlying Redis client
func (i *RedisInvalidator) Close() error {
	return i.client.Close()
}

// NoopInvalidator discards invalidation notices. Used when no cache layer
// is configured.
type NoopInvalidator struct{}

// Invalidate does nothing
func (NoopInvalidator) Invalidate(ctx context.Context, views ...string) {}
