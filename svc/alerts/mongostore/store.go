// Package mongostore persists notifications in a MongoDB collection.
package mongostore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/carebridge/opsnotify/svc/alerts"
)

const DefaultCollection = "notifications"

type document struct {
	ID         string         `bson:"_id"`
	Type       string         `bson:"type"`
	Title      string         `bson:"title"`
	Message    string         `bson:"message"`
	Priority   int            `bson:"priority"`
	TargetUser string         `bson:"targetUser,omitempty"`
	TargetRole string         `bson:"targetRole,omitempty"`
	IPAddress  string         `bson:"ipAddress,omitempty"`
	Location   string         `bson:"location,omitempty"`
	ActionURL  string         `bson:"actionUrl,omitempty"`
	Metadata   map[string]any `bson:"metadata"`
	CreatedAt  time.Time      `bson:"createdAt"`
}

func toDocument(n alerts.Notification) document {
	return document{
		ID:         n.ID,
		Type:       string(n.Type),
		Title:      n.Title,
		Message:    n.Message,
		Priority:   int(n.Priority),
		TargetUser: n.TargetUser,
		TargetRole: n.TargetRole,
		IPAddress:  n.IPAddress,
		Location:   n.Location,
		ActionURL:  n.ActionURL,
		Metadata:   n.Metadata,
		CreatedAt:  n.CreatedAt,
	}
}

func (d document) notification() alerts.Notification {
	return alerts.Notification{
		ID:         d.ID,
		Type:       alerts.Type(d.Type),
		Title:      d.Title,
		Message:    d.Message,
		Priority:   alerts.Priority(d.Priority),
		TargetUser: d.TargetUser,
		TargetRole: d.TargetRole,
		IPAddress:  d.IPAddress,
		Location:   d.Location,
		ActionURL:  d.ActionURL,
		Metadata:   d.Metadata,
		CreatedAt:  d.CreatedAt.UTC(),
	}
}

// Store is an append-only alerts.Store backed by a collection.
type Store struct {
	coll *mongo.Collection
	now  func() time.Time
}

var _ alerts.Store = (*Store)(nil)

func New(db *mongo.Database) *Store {
	return &Store{coll: db.Collection(DefaultCollection), now: time.Now}
}

// EnsureIndexes creates the indexes List relies on. Safe to call repeatedly.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "targetRole", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "type", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("mongostore: create indexes: %w", err)
	}
	return nil
}

func (s *Store) Create(ctx context.Context, d alerts.Draft) (alerts.Notification, error) {
	if err := d.Validate(); err != nil {
		return alerts.Notification{}, err
	}
	// Mongo keeps millisecond precision.
	n := d.Stored(uuid.NewString(), s.now().UTC().Truncate(time.Millisecond))
	if _, err := s.coll.InsertOne(ctx, toDocument(n)); err != nil {
		return alerts.Notification{}, fmt.Errorf("mongostore: insert notification: %w", err)
	}
	return n, nil
}

func (s *Store) List(ctx context.Context, opts alerts.ListOptions) ([]alerts.Notification, error) {
	find := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}})
	if opts.Limit > 0 {
		find.SetLimit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		find.SetSkip(int64(opts.Offset))
	}

	cur, err := s.coll.Find(ctx, filter(opts), find)
	if err != nil {
		return nil, fmt.Errorf("mongostore: find notifications: %w", err)
	}
	var docs []document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongostore: decode notifications: %w", err)
	}

	out := make([]alerts.Notification, len(docs))
	for i, d := range docs {
		out[i] = d.notification()
	}
	return out, nil
}

func filter(opts alerts.ListOptions) bson.D {
	f := bson.D{}
	if opts.TargetRole != "" {
		f = append(f, bson.E{Key: "targetRole", Value: opts.TargetRole})
	}
	if len(opts.Types) > 0 {
		f = append(f, bson.E{Key: "type", Value: bson.D{{Key: "$in", Value: opts.TypeStrings()}}})
	}
	if opts.MinPriority.Valid() {
		f = append(f, bson.E{Key: "priority", Value: bson.D{{Key: "$gte", Value: int(opts.MinPriority)}}})
	}
	if opts.Since != nil {
		f = append(f, bson.E{Key: "createdAt", Value: bson.D{{Key: "$gte", Value: *opts.Since}}})
	}
	return f
}
