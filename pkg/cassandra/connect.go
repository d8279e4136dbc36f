package cassandra

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/gocql/gocql"
)

var keyspaceName = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]{0,47}$`)

// Connect ensures the configured keyspace exists and returns a session bound to it.
func Connect(ctx context.Context, cfg Config) (*gocql.Session, error) {
	if !keyspaceName.MatchString(cfg.Keyspace) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKeyspaceName, cfg.Keyspace)
	}
	consistency, err := ParseConsistency(cfg.Consistency)
	if err != nil {
		return nil, err
	}

	cluster := gocql.NewCluster(cfg.Hosts...)
	cluster.Timeout = cfg.Timeout
	cluster.ConnectTimeout = cfg.ConnectTimeout
	cluster.Consistency = consistency
	if cfg.Username != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: cfg.Username,
			Password: cfg.Password,
		}
	}

	bootstrap, err := cluster.CreateSession()
	if err != nil {
		return nil, errors.Join(ErrFailedToConnect, err)
	}
	err = bootstrap.Query(fmt.Sprintf(
		`CREATE KEYSPACE IF NOT EXISTS %s WITH replication = {'class': 'SimpleStrategy', 'replication_factor': %d}`,
		cfg.Keyspace, max(cfg.ReplicationFactor, 1),
	)).WithContext(ctx).Exec()
	bootstrap.Close()
	if err != nil {
		return nil, errors.Join(ErrFailedToConnect, fmt.Errorf("create keyspace: %w", err))
	}

	cluster.Keyspace = cfg.Keyspace
	session, err := cluster.CreateSession()
	if err != nil {
		return nil, errors.Join(ErrFailedToConnect, err)
	}
	return session, nil
}

// ParseConsistency maps names such as "ONE" or "local_quorum" to a level.
func ParseConsistency(s string) (gocql.Consistency, error) {
	var c gocql.Consistency
	if err := c.UnmarshalText([]byte(strings.ToUpper(strings.TrimSpace(s)))); err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidConsistency, s)
	}
	return c, nil
}

// Healthcheck returns a readiness probe reading the local node's version.
func Healthcheck(session *gocql.Session) func(context.Context) error {
	return func(ctx context.Context) error {
		var version string
		if err := session.Query(`SELECT release_version FROM system.local`).WithContext(ctx).Scan(&version); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}
