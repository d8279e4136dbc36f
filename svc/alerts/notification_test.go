package alerts_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carebridge/opsnotify/svc/alerts"
)

func TestPriority_Ordering(t *testing.T) {
	t.Parallel()

	assert.Less(t, alerts.PriorityLow, alerts.PriorityMedium)
	assert.Less(t, alerts.PriorityMedium, alerts.PriorityHigh)
	assert.Less(t, alerts.PriorityHigh, alerts.PriorityCritical)
	assert.False(t, alerts.Priority(0).Valid())
}

func TestParsePriority(t *testing.T) {
	t.Parallel()

	p, err := alerts.ParsePriority("high")
	require.NoError(t, err)
	assert.Equal(t, alerts.PriorityHigh, p)

	_, err = alerts.ParsePriority("urgent")
	assert.ErrorIs(t, err, alerts.ErrUnknownPriority)
}

func TestNotification_JSON(t *testing.T) {
	t.Parallel()

	n := alerts.Draft{
		Type:     alerts.TypeSecurityAlert,
		Title:    "t",
		Priority: alerts.PriorityCritical,
		Metadata: alerts.Metadata{"attemptCount": 6},
	}.Stored("id-1", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))

	raw, err := json.Marshal(n)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"priority":"CRITICAL"`)
	assert.Contains(t, string(raw), `"type":"SECURITY_ALERT"`)

	var back alerts.Notification
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, alerts.PriorityCritical, back.Priority)
	assert.Equal(t, "id-1", back.ID)

	_, err = json.Marshal(alerts.Notification{Priority: 9})
	assert.Error(t, err)
}

func TestDraft_Validate(t *testing.T) {
	t.Parallel()

	valid := alerts.Draft{Type: alerts.TypeSystemStatus, Title: "ok", Priority: alerts.PriorityLow}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name  string
		draft alerts.Draft
	}{
		{"unknown type", alerts.Draft{Type: "NOPE", Title: "x", Priority: alerts.PriorityLow}},
		{"missing priority", alerts.Draft{Type: alerts.TypeSystemStatus, Title: "x"}},
		{"blank title", alerts.Draft{Type: alerts.TypeSystemStatus, Title: " ", Priority: alerts.PriorityLow}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.ErrorIs(t, tt.draft.Validate(), alerts.ErrInvalidDraft)
		})
	}
}

func TestDraft_StoredClonesMetadata(t *testing.T) {
	t.Parallel()

	d := alerts.Draft{Type: alerts.TypeSystemStatus, Title: "x", Priority: alerts.PriorityLow, Metadata: alerts.Metadata{"k": "v"}}
	n := d.Stored("id", time.Now())
	d.Metadata["k"] = "changed"

	assert.Equal(t, "v", n.Metadata["k"])
}
