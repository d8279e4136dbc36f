package pg

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Healthcheck returns a readiness probe that pings pool.
func Healthcheck(pool *pgxpool.Pool) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := pool.Ping(ctx); err != nil {
			return errors.Join(ErrHealthcheck, err)
		}
		return nil
	}
}

// PoolUsage reports acquired and maximum connections of pool.
func PoolUsage(pool *pgxpool.Pool) func() (acquired, max int) {
	return func() (int, int) {
		st := pool.Stat()
		return int(st.AcquiredConns()), int(st.MaxConns())
	}
}
