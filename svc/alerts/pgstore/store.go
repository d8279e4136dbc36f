// Package pgstore persists notifications in Postgres.
package pgstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carebridge/opsnotify/svc/alerts"
)

const columns = `id, type, title, message, priority, target_user, target_role, ip_address, location, action_url, metadata, created_at`

// Store is an append-only alerts.Store on the notifications table.
type Store struct {
	pool *pgxpool.Pool
}

var _ alerts.Store = (*Store)(nil)

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Create(ctx context.Context, d alerts.Draft) (alerts.Notification, error) {
	if err := d.Validate(); err != nil {
		return alerts.Notification{}, err
	}
	meta, err := json.Marshal(d.Metadata)
	if err != nil {
		return alerts.Notification{}, fmt.Errorf("pgstore: encode metadata: %w", err)
	}

	id := uuid.New()
	var createdAt time.Time
	err = s.pool.QueryRow(ctx,
		`INSERT INTO notifications (`+columns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now())
		 RETURNING created_at`,
		id, string(d.Type), d.Title, d.Message, int16(d.Priority),
		d.TargetUser, d.TargetRole, d.IPAddress, d.Location, d.ActionURL, meta,
	).Scan(&createdAt)
	if err != nil {
		return alerts.Notification{}, fmt.Errorf("pgstore: insert notification: %w", err)
	}

	return d.Stored(id.String(), createdAt.UTC()), nil
}

func (s *Store) List(ctx context.Context, opts alerts.ListOptions) ([]alerts.Notification, error) {
	query, args := listQuery(opts)
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pgstore: list notifications: %w", err)
	}

	items, err := pgx.CollectRows(rows, scanNotification)
	if err != nil {
		return nil, fmt.Errorf("pgstore: scan notifications: %w", err)
	}
	return items, nil
}

func scanNotification(row pgx.CollectableRow) (alerts.Notification, error) {
	var (
		n        alerts.Notification
		id       uuid.UUID
		typ      string
		priority int16
		meta     []byte
	)
	err := row.Scan(&id, &typ, &n.Title, &n.Message, &priority, &n.TargetUser, &n.TargetRole,
		&n.IPAddress, &n.Location, &n.ActionURL, &meta, &n.CreatedAt)
	if err != nil {
		return n, err
	}
	n.ID = id.String()
	n.Type = alerts.Type(typ)
	n.Priority = alerts.Priority(priority)
	n.CreatedAt = n.CreatedAt.UTC()
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &n.Metadata); err != nil {
			return n, fmt.Errorf("decode metadata of %s: %w", n.ID, err)
		}
	}
	return n, nil
}

// listQuery builds the filtered, newest-first SELECT for opts.
func listQuery(opts alerts.ListOptions) (string, []any) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if opts.TargetRole != "" {
		where = append(where, "target_role = "+arg(opts.TargetRole))
	}
	if len(opts.Types) > 0 {
		where = append(where, "type = ANY("+arg(opts.TypeStrings())+")")
	}
	if opts.MinPriority.Valid() {
		where = append(where, "priority >= "+arg(int16(opts.MinPriority)))
	}
	if opts.Since != nil {
		where = append(where, "created_at >= "+arg(*opts.Since))
	}

	var b strings.Builder
	b.WriteString("SELECT " + columns + " FROM notifications")
	if len(where) > 0 {
		b.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	b.WriteString(" ORDER BY created_at DESC, id")
	if opts.Limit > 0 {
		b.WriteString(" LIMIT " + arg(opts.Limit))
	}
	if opts.Offset > 0 {
		b.WriteString(" OFFSET " + arg(opts.Offset))
	}
	return b.String(), args
}
