package searchstore

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carebridge/opsnotify/svc/alerts"
)

func TestSearchQuery(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		raw, err := json.Marshal(searchQuery(alerts.ListOptions{}))
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"query": {"bool": {"filter": []}},
			"sort": [{"createdAt": "desc"}, {"id": "asc"}],
			"from": 0,
			"size": 1000
		}`, string(raw))
	})

	t.Run("filters", func(t *testing.T) {
		t.Parallel()

		since := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		raw, err := json.Marshal(searchQuery(alerts.ListOptions{
			TargetRole:  "SUPER_ADMIN",
			Types:       []alerts.Type{alerts.TypeSecurityAlert},
			MinPriority: alerts.PriorityHigh,
			Since:       &since,
			Limit:       25,
			Offset:      50,
		}))
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"query": {"bool": {"filter": [
				{"term": {"targetRole": "SUPER_ADMIN"}},
				{"terms": {"type": ["SECURITY_ALERT"]}},
				{"range": {"priorityLevel": {"gte": 3}}},
				{"range": {"createdAt": {"gte": "2024-01-01T00:00:00Z"}}}
			]}},
			"sort": [{"createdAt": "desc"}, {"id": "asc"}],
			"from": 50,
			"size": 25
		}`, string(raw))
	})
}

func TestDocumentEncoding(t *testing.T) {
	t.Parallel()

	n := alerts.Draft{Type: alerts.TypeSecurityAlert, Title: "t", Priority: alerts.PriorityCritical}.
		Stored("id-1", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	raw, err := json.Marshal(document{Notification: n, PriorityLevel: int(n.Priority)})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"priority":"CRITICAL"`)
	assert.Contains(t, string(raw), `"priorityLevel":4`)

	hits := `{"hits":{"hits":[{"_id":"id-1","_source":` + string(raw) + `}]}}`
	got, err := decodeHits(strings.NewReader(hits))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "id-1", got[0].ID)
	assert.Equal(t, alerts.PriorityCritical, got[0].Priority)
}
