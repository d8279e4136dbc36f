package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

var (
	ErrEmptyConnectionURL           = errors.New("empty redis connection URL, use REDIS_URL env var")
	ErrFailedToParseRedisConnString = errors.New("failed to parse redis connection string")
	ErrRedisNotReady                = errors.New("redis did not become ready")
	ErrHealthcheckFailed            = errors.New("redis healthcheck failed")
)

// Healthcheck returns a readiness probe. The relay depends on pub/sub, so a
// replica that answers PING but refuses PUBLISH is reported as well.
func Healthcheck(client redis.UniversalClient) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := client.Ping(ctx).Err(); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		if err := client.Do(ctx, "PUBSUB", "NUMPAT").Err(); err != nil {
			return errors.Join(ErrHealthcheckFailed, fmt.Errorf("pubsub: %w", err))
		}
		return nil
	}
}
