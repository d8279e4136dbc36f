// Package searchstore persists notifications in an OpenSearch index, which
// gives operators full-text search over titles and messages.
package searchstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/carebridge/opsnotify/svc/alerts"
)

// MaxPageSize caps List when the caller sets no limit.
const MaxPageSize = 1000

const mapping = `{
  "mappings": {
    "properties": {
      "id":            {"type": "keyword"},
      "type":          {"type": "keyword"},
      "title":         {"type": "text"},
      "message":       {"type": "text"},
      "priority":      {"type": "keyword"},
      "priorityLevel": {"type": "integer"},
      "targetUser":    {"type": "keyword"},
      "targetRole":    {"type": "keyword"},
      "ipAddress":     {"type": "keyword"},
      "location":      {"type": "keyword"},
      "actionUrl":     {"type": "keyword", "index": false},
      "metadata":      {"type": "object", "enabled": false},
      "createdAt":     {"type": "date"}
    }
  }
}`

type document struct {
	alerts.Notification
	PriorityLevel int `json:"priorityLevel"`
}

// Store is an append-only alerts.Store on a single index.
type Store struct {
	client *opensearch.Client
	index  string
	now    func() time.Time
}

var _ alerts.Store = (*Store)(nil)

func New(client *opensearch.Client, index string) *Store {
	return &Store{client: client, index: index, now: time.Now}
}

// EnsureIndex creates the index with its mapping unless it already exists.
func (s *Store) EnsureIndex(ctx context.Context) error {
	exists, err := opensearchapi.IndicesExistsRequest{Index: []string{s.index}}.Do(ctx, s.client)
	if err != nil {
		return fmt.Errorf("searchstore: check index: %w", err)
	}
	exists.Body.Close()
	if exists.StatusCode == 200 {
		return nil
	}

	res, err := opensearchapi.IndicesCreateRequest{
		Index: s.index,
		Body:  bytes.NewReader([]byte(mapping)),
	}.Do(ctx, s.client)
	if err != nil {
		return fmt.Errorf("searchstore: create index: %w", err)
	}
	return checkResponse(res, "create index")
}

func (s *Store) Create(ctx context.Context, d alerts.Draft) (alerts.Notification, error) {
	if err := d.Validate(); err != nil {
		return alerts.Notification{}, err
	}
	n := d.Stored(uuid.NewString(), s.now().UTC().Truncate(time.Millisecond))

	body, err := json.Marshal(document{Notification: n, PriorityLevel: int(n.Priority)})
	if err != nil {
		return alerts.Notification{}, fmt.Errorf("searchstore: encode notification: %w", err)
	}

	res, err := opensearchapi.IndexRequest{
		Index:      s.index,
		DocumentID: n.ID,
		Body:       bytes.NewReader(body),
		OpType:     "create",
	}.Do(ctx, s.client)
	if err != nil {
		return alerts.Notification{}, fmt.Errorf("searchstore: index notification: %w", err)
	}
	if err := checkResponse(res, "index notification"); err != nil {
		return alerts.Notification{}, err
	}
	return n, nil
}

func (s *Store) List(ctx context.Context, opts alerts.ListOptions) ([]alerts.Notification, error) {
	query, err := json.Marshal(searchQuery(opts))
	if err != nil {
		return nil, fmt.Errorf("searchstore: encode query: %w", err)
	}

	res, err := opensearchapi.SearchRequest{
		Index: []string{s.index},
		Body:  bytes.NewReader(query),
	}.Do(ctx, s.client)
	if err != nil {
		return nil, fmt.Errorf("searchstore: search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("searchstore: search: %s", res.Status())
	}

	return decodeHits(res.Body)
}

func searchQuery(opts alerts.ListOptions) map[string]any {
	filters := []any{}
	if opts.TargetRole != "" {
		filters = append(filters, map[string]any{"term": map[string]any{"targetRole": opts.TargetRole}})
	}
	if len(opts.Types) > 0 {
		filters = append(filters, map[string]any{"terms": map[string]any{"type": opts.TypeStrings()}})
	}
	if opts.MinPriority.Valid() {
		filters = append(filters, map[string]any{"range": map[string]any{"priorityLevel": map[string]any{"gte": int(opts.MinPriority)}}})
	}
	if opts.Since != nil {
		filters = append(filters, map[string]any{"range": map[string]any{"createdAt": map[string]any{"gte": opts.Since.UTC().Format(time.RFC3339Nano)}}})
	}

	size := MaxPageSize
	if opts.Limit > 0 && opts.Limit < MaxPageSize {
		size = opts.Limit
	}

	return map[string]any{
		"query": map[string]any{"bool": map[string]any{"filter": filters}},
		"sort":  []any{map[string]any{"createdAt": "desc"}, map[string]any{"id": "asc"}},
		"from":  max(opts.Offset, 0),
		"size":  size,
	}
}

func decodeHits(r io.Reader) ([]alerts.Notification, error) {
	var body struct {
		Hits struct {
			Hits []struct {
				Source document `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(r).Decode(&body); err != nil {
		return nil, fmt.Errorf("searchstore: decode hits: %w", err)
	}

	out := make([]alerts.Notification, len(body.Hits.Hits))
	for i, h := range body.Hits.Hits {
		out[i] = h.Source.Notification
		out[i].CreatedAt = out[i].CreatedAt.UTC()
	}
	return out, nil
}

func checkResponse(res *opensearchapi.Response, op string) error {
	defer res.Body.Close()
	if res.IsError() {
		raw, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return fmt.Errorf("searchstore: %s: %s: %s", op, res.Status(), raw)
	}
	return nil
}
