package alerts

import (
	"fmt"
	"maps"
	"strings"
	"time"
)

// Type classifies what kind of event a notification describes.
type Type string

const (
	TypePasswordChange      Type = "PASSWORD_CHANGE"
	TypeSecurityAlert       Type = "SECURITY_ALERT"
	TypeSubscriptionRequest Type = "SUBSCRIPTION_REQUEST"
	TypeAdminAction         Type = "ADMIN_ACTION"
	TypeSystemStatus        Type = "SYSTEM_STATUS"
	TypeLoginAttempt        Type = "LOGIN_ATTEMPT"
	TypeBackupComplete      Type = "BACKUP_COMPLETE"
	TypeDatabaseAlert       Type = "DATABASE_ALERT"
)

var knownTypes = map[Type]struct{}{
	TypePasswordChange:      {},
	TypeSecurityAlert:       {},
	TypeSubscriptionRequest: {},
	TypeAdminAction:         {},
	TypeSystemStatus:        {},
	TypeLoginAttempt:        {},
	TypeBackupComplete:      {},
	TypeDatabaseAlert:       {},
}

// Valid reports whether t is one of the known notification types.
func (t Type) Valid() bool {
	_, ok := knownTypes[t]
	return ok
}

// Priority is an ordered severity tier. The zero value is undefined and is
// rejected by Draft.Validate.
type Priority int

const (
	PriorityLow Priority = iota + 1
	PriorityMedium
	PriorityHigh
	PriorityCritical
)

var priorityNames = map[Priority]string{
	PriorityLow:      "LOW",
	PriorityMedium:   "MEDIUM",
	PriorityHigh:     "HIGH",
	PriorityCritical: "CRITICAL",
}

func (p Priority) String() string {
	if s, ok := priorityNames[p]; ok {
		return s
	}
	return fmt.Sprintf("Priority(%d)", int(p))
}

// Valid reports whether p is one of the four defined tiers.
func (p Priority) Valid() bool {
	return p >= PriorityLow && p <= PriorityCritical
}

// ParsePriority converts "LOW", "medium", ... into a Priority.
func ParsePriority(s string) (Priority, error) {
	for p, name := range priorityNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPriority, s)
}

func (p Priority) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPriority, int(p))
	}
	return []byte(p.String()), nil
}

func (p *Priority) UnmarshalText(b []byte) error {
	v, err := ParsePriority(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Metadata is the open key/value bag attached to a notification.
type Metadata map[string]any

// Notification is a stored, immutable alert record.
type Notification struct {
	ID         string    `json:"id"`
	Type       Type      `json:"type"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	Priority   Priority  `json:"priority"`
	TargetUser string    `json:"targetUser,omitempty"`
	TargetRole string    `json:"targetRole,omitempty"`
	IPAddress  string    `json:"ipAddress,omitempty"`
	Location   string    `json:"location,omitempty"`
	ActionURL  string    `json:"actionUrl,omitempty"`
	Metadata   Metadata  `json:"metadata"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Draft is a notification that has not been persisted yet: everything but
// the ID and CreatedAt, which the Store assigns.
type Draft struct {
	Type       Type     `json:"type"`
	Title      string   `json:"title"`
	Message    string   `json:"message"`
	Priority   Priority `json:"priority"`
	TargetUser string   `json:"targetUser,omitempty"`
	TargetRole string   `json:"targetRole,omitempty"`
	IPAddress  string   `json:"ipAddress,omitempty"`
	Location   string   `json:"location,omitempty"`
	ActionURL  string   `json:"actionUrl,omitempty"`
	Metadata   Metadata `json:"metadata"`
}

// Validate checks the fields every stored notification must carry.
func (d Draft) Validate() error {
	switch {
	case !d.Type.Valid():
		return fmt.Errorf("%w: unknown type %q", ErrInvalidDraft, d.Type)
	case !d.Priority.Valid():
		return fmt.Errorf("%w: undefined priority", ErrInvalidDraft)
	case strings.TrimSpace(d.Title) == "":
		return fmt.Errorf("%w: empty title", ErrInvalidDraft)
	}
	return nil
}

// Stored turns the draft into a Notification with the given identity.
// Metadata is cloned so later changes to the draft cannot leak into the record.
func (d Draft) Stored(id string, createdAt time.Time) Notification {
	return Notification{
		ID:         id,
		Type:       d.Type,
		Title:      d.Title,
		Message:    d.Message,
		Priority:   d.Priority,
		TargetUser: d.TargetUser,
		TargetRole: d.TargetRole,
		IPAddress:  d.IPAddress,
		Location:   d.Location,
		ActionURL:  d.ActionURL,
		Metadata:   maps.Clone(d.Metadata),
		CreatedAt:  createdAt,
	}
}

// Draft returns the persisted-independent part of n.
func (n Notification) Draft() Draft {
	return Draft{
		Type:       n.Type,
		Title:      n.Title,
		Message:    n.Message,
		Priority:   n.Priority,
		TargetUser: n.TargetUser,
		TargetRole: n.TargetRole,
		IPAddress:  n.IPAddress,
		Location:   n.Location,
		ActionURL:  n.ActionURL,
		Metadata:   maps.Clone(n.Metadata),
	}
}
