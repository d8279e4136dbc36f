// Package cassandrastore persists notifications in Cassandra, partitioned by
// UTC day so that history reads walk backwards one partition at a time.
package cassandrastore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gocql/gocql"

	"github.com/carebridge/opsnotify/svc/alerts"
)

const dayLayout = "2006-01-02"

// DefaultLookback bounds how many daily partitions List reads when the
// caller sets no Since filter.
const DefaultLookback = 30 * 24 * time.Hour

const schema = `CREATE TABLE IF NOT EXISTS notifications_by_day (
	day         TEXT,
	created_at  TIMESTAMP,
	id          TIMEUUID,
	type        TEXT,
	title       TEXT,
	message     TEXT,
	priority    INT,
	target_user TEXT,
	target_role TEXT,
	ip_address  TEXT,
	location    TEXT,
	action_url  TEXT,
	metadata    TEXT,
	PRIMARY KEY ((day), created_at, id)
) WITH CLUSTERING ORDER BY (created_at DESC, id ASC)`

// Store is an append-only alerts.Store on the notifications_by_day table.
type Store struct {
	session  *gocql.Session
	lookback time.Duration
	now      func() time.Time
}

var _ alerts.Store = (*Store)(nil)

// New creates a store. lookback <= 0 selects DefaultLookback.
func New(session *gocql.Session, lookback time.Duration) *Store {
	if lookback <= 0 {
		lookback = DefaultLookback
	}
	return &Store{session: session, lookback: lookback, now: time.Now}
}

// CreateTable creates the table when it does not exist yet.
func (s *Store) CreateTable(ctx context.Context) error {
	if err := s.session.Query(schema).WithContext(ctx).Exec(); err != nil {
		return fmt.Errorf("cassandrastore: create table: %w", err)
	}
	return nil
}

func (s *Store) Create(ctx context.Context, d alerts.Draft) (alerts.Notification, error) {
	if err := d.Validate(); err != nil {
		return alerts.Notification{}, err
	}
	meta, err := json.Marshal(d.Metadata)
	if err != nil {
		return alerts.Notification{}, fmt.Errorf("cassandrastore: encode metadata: %w", err)
	}

	createdAt := s.now().UTC().Truncate(time.Millisecond)
	id := gocql.UUIDFromTime(createdAt)

	err = s.session.Query(`INSERT INTO notifications_by_day
		(day, created_at, id, type, title, message, priority, target_user, target_role, ip_address, location, action_url, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		createdAt.Format(dayLayout), createdAt, id, string(d.Type), d.Title, d.Message, int(d.Priority),
		d.TargetUser, d.TargetRole, d.IPAddress, d.Location, d.ActionURL, string(meta),
	).WithContext(ctx).Exec()
	if err != nil {
		return alerts.Notification{}, fmt.Errorf("cassandrastore: insert notification: %w", err)
	}

	return d.Stored(id.String(), createdAt), nil
}

// List reads daily partitions newest first and filters rows in process.
func (s *Store) List(ctx context.Context, opts alerts.ListOptions) ([]alerts.Notification, error) {
	now := s.now().UTC()
	from := now.Add(-s.lookback)
	if opts.Since != nil {
		from = opts.Since.UTC()
	}

	want := -1
	if opts.Limit > 0 {
		want = max(opts.Offset, 0) + opts.Limit
	}

	var matched []alerts.Notification
	for _, day := range days(from, now) {
		rows, err := s.readDay(ctx, day)
		if err != nil {
			return nil, err
		}
		for _, n := range rows {
			if opts.Match(n) {
				matched = append(matched, n)
			}
		}
		if want >= 0 && len(matched) >= want {
			break
		}
	}

	offset := min(max(opts.Offset, 0), len(matched))
	matched = matched[offset:]
	if opts.Limit > 0 && len(matched) > opts.Limit {
		matched = matched[:opts.Limit]
	}
	return matched, nil
}

func (s *Store) readDay(ctx context.Context, day string) ([]alerts.Notification, error) {
	iter := s.session.Query(`SELECT id, created_at, type, title, message, priority, target_user, target_role,
		ip_address, location, action_url, metadata FROM notifications_by_day WHERE day = ?`, day).
		WithContext(ctx).Iter()

	var (
		out      []alerts.Notification
		id       gocql.UUID
		n        alerts.Notification
		typ      string
		priority int
		meta     string
	)
	for iter.Scan(&id, &n.CreatedAt, &typ, &n.Title, &n.Message, &priority, &n.TargetUser, &n.TargetRole,
		&n.IPAddress, &n.Location, &n.ActionURL, &meta) {
		n.ID = id.String()
		n.Type = alerts.Type(typ)
		n.Priority = alerts.Priority(priority)
		n.CreatedAt = n.CreatedAt.UTC()
		n.Metadata = nil
		if meta != "" {
			if err := json.Unmarshal([]byte(meta), &n.Metadata); err != nil {
				_ = iter.Close()
				return nil, fmt.Errorf("cassandrastore: decode metadata of %s: %w", n.ID, err)
			}
		}
		out = append(out, n)
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("cassandrastore: read partition %s: %w", day, err)
	}
	return out, nil
}

// days lists the UTC day partitions between from and to, newest first.
func days(from, to time.Time) []string {
	from = from.UTC().Truncate(24 * time.Hour)
	to = to.UTC()
	var out []string
	for d := to.Truncate(24 * time.Hour); !d.Before(from); d = d.Add(-24 * time.Hour) {
		out = append(out, d.Format(dayLayout))
	}
	return out
}
