package alerts_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"

	"github.com/carebridge/opsnotify/svc/alerts"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newRecordingNotifier(opts ...alerts.NotifierOption) (*alerts.Notifier, *recordingSubmitter) {
	rec := &recordingSubmitter{}
	opts = append([]alerts.NotifierOption{alerts.WithClock(func() time.Time { return fixedNow })}, opts...)
	return alerts.NewNotifier(rec, opts...), rec
}

func TestNotifier_Catalog(t *testing.T) {
	t.Parallel()

	links := alerts.DefaultLinks()
	ctx := context.Background()

	tests := []struct {
		name     string
		call     func(n *alerts.Notifier)
		typ      alerts.Type
		priority alerts.Priority
		link     string
		meta     alerts.Metadata
	}{
		{"password change", func(n *alerts.Notifier) { n.OnPasswordChange(ctx, superAdmin, "a@b.com", "10.0.0.1") },
			alerts.TypePasswordChange, alerts.PriorityMedium, links.Security, alerts.Metadata{"userEmail": "a@b.com"}},
		{"admin created", func(n *alerts.Notifier) { n.OnAdminCreated(ctx, superAdmin, "Ann", "ann@x.io", "root") },
			alerts.TypeAdminAction, alerts.PriorityMedium, links.Admins, alerts.Metadata{"createdBy": "root"}},
		{"admin activated", func(n *alerts.Notifier) { n.OnAdminActivated(ctx, superAdmin, "Ann", "ann@x.io") },
			alerts.TypeAdminAction, alerts.PriorityLow, links.Admins, alerts.Metadata{"action": "activated"}},
		{"admin deactivated", func(n *alerts.Notifier) { n.OnAdminDeactivated(ctx, superAdmin, "Ann", "ann@x.io", "left") },
			alerts.TypeAdminAction, alerts.PriorityMedium, links.Admins, alerts.Metadata{"reason": "left"}},
		{"admin deleted", func(n *alerts.Notifier) { n.OnAdminDeleted(ctx, superAdmin, "Ann", "ann@x.io", "root") },
			alerts.TypeAdminAction, alerts.PriorityHigh, links.Admins, alerts.Metadata{"deletedBy": "root"}},
		{"password reset requested", func(n *alerts.Notifier) { n.OnPasswordResetRequested(ctx, superAdmin, "a@b.com", "1.1.1.1") },
			alerts.TypePasswordChange, alerts.PriorityLow, links.Security, nil},
		{"password reset succeeded", func(n *alerts.Notifier) { n.OnPasswordResetSucceeded(ctx, superAdmin, "a@b.com", "1.1.1.1") },
			alerts.TypePasswordChange, alerts.PriorityMedium, links.Security, nil},
		{"inactive admins few", func(n *alerts.Notifier) { n.OnInactiveAdminsDetected(ctx, superAdmin, 3, 90) },
			alerts.TypeAdminAction, alerts.PriorityMedium, links.Admins, alerts.Metadata{"inactiveCount": 3}},
		{"inactive admins many", func(n *alerts.Notifier) { n.OnInactiveAdminsDetected(ctx, superAdmin, 4, 90) },
			alerts.TypeAdminAction, alerts.PriorityHigh, links.Admins, nil},

		{"subscription submitted", func(n *alerts.Notifier) { n.OnSubscriptionRequestSubmitted(ctx, superAdmin, "Clinic", "Pro", "c@x.io") },
			alerts.TypeSubscriptionRequest, alerts.PriorityMedium, links.Subscriptions, alerts.Metadata{"planName": "Pro"}},
		{"subscription approved", func(n *alerts.Notifier) { n.OnSubscriptionApproved(ctx, superAdmin, "Clinic", "Pro", "root") },
			alerts.TypeSubscriptionRequest, alerts.PriorityLow, links.Subscriptions, alerts.Metadata{"status": "approved"}},
		{"subscription rejected", func(n *alerts.Notifier) { n.OnSubscriptionRejected(ctx, superAdmin, "Clinic", "Pro", "no budget") },
			alerts.TypeSubscriptionRequest, alerts.PriorityLow, links.Subscriptions, alerts.Metadata{"status": "rejected"}},
		{"plan created", func(n *alerts.Notifier) { n.OnPlanCreated(ctx, superAdmin, "Pro", 49.5) },
			alerts.TypeAdminAction, alerts.PriorityLow, links.Plans, alerts.Metadata{"currency": "USD"}},
		{"plan updated", func(n *alerts.Notifier) { n.OnPlanUpdated(ctx, superAdmin, "Pro", []string{"price"}) },
			alerts.TypeAdminAction, alerts.PriorityLow, links.Plans, alerts.Metadata{"changes": []string{"price"}}},
		{"plan deleted", func(n *alerts.Notifier) { n.OnPlanDeleted(ctx, superAdmin, "Pro", 12) },
			alerts.TypeAdminAction, alerts.PriorityMedium, links.Plans, alerts.Metadata{"affectedSubscribers": 12}},
		{"revenue milestone", func(n *alerts.Notifier) { n.OnRevenueMilestone(ctx, superAdmin, 1000000, "Q1 2024") },
			alerts.TypeSystemStatus, alerts.PriorityLow, links.Revenue, alerts.Metadata{"amountFormatted": "USD 1,000,000.00"}},

		{"failed login low", func(n *alerts.Notifier) { n.OnFailedLogin(ctx, superAdmin, "a@b.com", "10.0.0.1", 3) },
			alerts.TypeLoginAttempt, alerts.PriorityLow, links.Logins, alerts.Metadata{"attemptCount": 3}},
		{"failed login medium", func(n *alerts.Notifier) { n.OnFailedLogin(ctx, superAdmin, "a@b.com", "10.0.0.1", 4) },
			alerts.TypeLoginAttempt, alerts.PriorityMedium, links.Logins, nil},
		{"failed login high", func(n *alerts.Notifier) { n.OnFailedLogin(ctx, superAdmin, "a@b.com", "10.0.0.1", 6) },
			alerts.TypeLoginAttempt, alerts.PriorityHigh, links.Logins, nil},
		{"multiple failed logins medium", func(n *alerts.Notifier) { n.OnMultipleFailedLogins(ctx, superAdmin, "a@b.com", "10.0.0.1", 5) },
			alerts.TypeSecurityAlert, alerts.PriorityMedium, links.Security, alerts.Metadata{"attemptCount": 5}},
		{"suspicious login", func(n *alerts.Notifier) { n.OnSuspiciousLogin(ctx, superAdmin, "a@b.com", "10.0.0.1", "Oslo", "tor exit node") },
			alerts.TypeSecurityAlert, alerts.PriorityHigh, links.Logins, alerts.Metadata{"location": "Oslo"}},
		{"unusual location", func(n *alerts.Notifier) { n.OnUnusualLoginLocation(ctx, superAdmin, "a@b.com", "10.0.0.1", "Oslo", "Berlin") },
			alerts.TypeSecurityAlert, alerts.PriorityMedium, links.Logins, alerts.Metadata{"usualLocation": "Berlin"}},
		{"account lockout", func(n *alerts.Notifier) { n.OnAccountLockout(ctx, superAdmin, "a@b.com", "10.0.0.1", 15*time.Minute) },
			alerts.TypeSecurityAlert, alerts.PriorityHigh, links.Security, alerts.Metadata{"lockDurationSeconds": int64(900)}},
		{"privilege escalation", func(n *alerts.Notifier) { n.OnPrivilegeEscalationAttempt(ctx, superAdmin, "a@b.com", "DELETE /admins", "10.0.0.1") },
			alerts.TypeSecurityAlert, alerts.PriorityCritical, links.Security, nil},
		{"data breach", func(n *alerts.Notifier) { n.OnDataBreachAttempt(ctx, superAdmin, "export api", "10.0.0.1", "Critical") },
			alerts.TypeSecurityAlert, alerts.PriorityCritical, links.Security, alerts.Metadata{"severity": "critical"}},
		{"malware", func(n *alerts.Notifier) { n.OnMalwareDetected(ctx, superAdmin, "scan.pdf", "trojan", "medium") },
			alerts.TypeSecurityAlert, alerts.PriorityMedium, links.Security, alerts.Metadata{"fileName": "scan.pdf"}},
		{"malware unknown severity", func(n *alerts.Notifier) { n.OnMalwareDetected(ctx, superAdmin, "scan.pdf", "adware", "meh") },
			alerts.TypeSecurityAlert, alerts.PriorityLow, links.Security, nil},
		{"firewall", func(n *alerts.Notifier) { n.OnFirewallBreachAttempt(ctx, superAdmin, "10.0.0.9", 22, 40) },
			alerts.TypeSecurityAlert, alerts.PriorityHigh, links.Security, alerts.Metadata{"port": 22}},
		{"scan clean", func(n *alerts.Notifier) { n.OnSecurityScanComplete(ctx, superAdmin, "full", 0, time.Minute) },
			alerts.TypeSecurityAlert, alerts.PriorityLow, links.Security, alerts.Metadata{"threatsFound": 0}},
		{"scan threats", func(n *alerts.Notifier) { n.OnSecurityScanComplete(ctx, superAdmin, "full", 2, time.Minute) },
			alerts.TypeSecurityAlert, alerts.PriorityHigh, links.Security, nil},
		{"ssl 31 days", func(n *alerts.Notifier) { n.OnSSLCertificateExpiring(ctx, superAdmin, "example.com", 31, "wildcard") },
			alerts.TypeSecurityAlert, alerts.PriorityMedium, links.Security, alerts.Metadata{"daysUntilExpiry": 31}},
		{"rate limit", func(n *alerts.Notifier) {
			n.OnAPIRateLimitExceeded(ctx, superAdmin, "/api/login", "10.0.0.1", 500, time.Minute)
		}, alerts.TypeSecurityAlert, alerts.PriorityMedium, links.Security, alerts.Metadata{"windowSeconds": int64(60)}},

		{"backup failed", func(n *alerts.Notifier) { n.OnBackupFailed(ctx, superAdmin, "daily", "disk full") },
			alerts.TypeSystemStatus, alerts.PriorityHigh, links.Backups, alerts.Metadata{"reason": "disk full"}},
		{"health healthy", func(n *alerts.Notifier) { n.OnHealthCheck(ctx, superAdmin, "api", "healthy", "") },
			alerts.TypeSystemStatus, alerts.PriorityLow, links.System, nil},
		{"health warning", func(n *alerts.Notifier) { n.OnHealthCheck(ctx, superAdmin, "api", "WARNING", "p99 high") },
			alerts.TypeSystemStatus, alerts.PriorityHigh, links.System, alerts.Metadata{"status": "warning"}},
		{"db performance", func(n *alerts.Notifier) {
			n.OnDatabasePerformanceIssue(ctx, superAdmin, "slow query on bookings", 2500*time.Millisecond, "high")
		}, alerts.TypeDatabaseAlert, alerts.PriorityHigh, links.Database, alerts.Metadata{"queryTimeMs": int64(2500)}},
		{"critical error", func(n *alerts.Notifier) { n.OnCriticalSystemError(ctx, superAdmin, "billing", "nil map") },
			alerts.TypeSystemStatus, alerts.PriorityCritical, links.System, alerts.Metadata{"component": "billing"}},
		{"resource usage", func(n *alerts.Notifier) { n.OnUnusualResourceUsage(ctx, superAdmin, "cpu", 91) },
			alerts.TypeSystemStatus, alerts.PriorityCritical, links.System, alerts.Metadata{"usagePercent": 91.0}},
		{"pool exhausted", func(n *alerts.Notifier) { n.OnDatabaseConnectionPoolExhausted(ctx, superAdmin, "primary", 100, 100) },
			alerts.TypeDatabaseAlert, alerts.PriorityCritical, links.Database, alerts.Metadata{"maxConnections": 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			n, rec := newRecordingNotifier()
			tt.call(n)

			got := rec.Last()
			assert.Equal(t, superAdmin, got.Actor)
			assert.Equal(t, tt.typ, got.Draft.Type)
			assert.Equal(t, tt.priority, got.Draft.Priority)
			assert.Equal(t, tt.link, got.Draft.ActionURL)
			assert.NotEmpty(t, got.Draft.Title)
			assert.NotEmpty(t, got.Draft.Message)
			assert.NoError(t, got.Draft.Validate())
			assert.Equal(t, fixedNow.Format(time.RFC3339Nano), got.Draft.Metadata["timestamp"])
			for k, v := range tt.meta {
				assert.Equal(t, v, got.Draft.Metadata[k], k)
			}
		})
	}
}

func TestNotifier_Messages(t *testing.T) {
	t.Parallel()

	n, rec := newRecordingNotifier()
	ctx := context.Background()

	n.OnBackupCompleted(ctx, superAdmin, "daily", 52428800, 1500*time.Second)
	assert.Equal(t, "daily backup completed successfully (50.00 MB in 25m0s)", rec.Last().Draft.Message)

	n.OnSSLCertificateExpiring(ctx, superAdmin, "example.com", 5, "wildcard")
	assert.Equal(t, "The wildcard certificate for example.com expires in 5 days", rec.Last().Draft.Message)

	n.OnPlanDeleted(ctx, superAdmin, "Pro", 1200)
	assert.Equal(t, "Plan Pro was deleted, affecting 1,200 subscribers", rec.Last().Draft.Message)

	n.OnPlanUpdated(ctx, superAdmin, "Pro", nil)
	assert.Equal(t, "Plan Pro was updated", rec.Last().Draft.Message)
}

func TestNotifier_Options(t *testing.T) {
	t.Parallel()

	links := alerts.DefaultLinks()
	links.Security = "/ops/security"
	n, rec := newRecordingNotifier(
		alerts.WithLinks(links),
		alerts.WithLocale(language.German, currency.EUR),
	)

	n.OnPasswordChange(context.Background(), superAdmin, "a@b.com", "1.1.1.1")
	assert.Equal(t, "/ops/security", rec.Last().Draft.ActionURL)
	assert.Equal(t, "/ops/security", n.Links().Security)

	n.OnRevenueMilestone(context.Background(), superAdmin, 1234.5, "March")
	assert.Equal(t, "EUR", rec.Last().Draft.Metadata["currency"])
}

// pipeline wires a Notifier to a real Dispatcher, MemoryStore and recording fan-out.
func pipeline(t *testing.T, store alerts.Store) (*alerts.Notifier, *alerts.Dispatcher, *recordingFanout) {
	t.Helper()
	fan := &recordingFanout{}
	d := newDispatcher(t, store, alerts.WithFanout(fan))
	require.NoError(t, d.Start(context.Background()))
	return alerts.NewNotifier(d), d, fan
}

func TestPipeline_MultipleFailedLogins(t *testing.T) {
	t.Parallel()

	store := alerts.NewMemoryStore()
	n, d, fan := pipeline(t, store)

	n.OnMultipleFailedLogins(context.Background(), superAdmin, "a@b.com", "10.0.0.1", 6)
	require.NoError(t, d.Stop())

	stored, err := store.List(context.Background(), alerts.ListOptions{})
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, alerts.TypeSecurityAlert, stored[0].Type)
	assert.Equal(t, alerts.PriorityHigh, stored[0].Priority)
	assert.Equal(t, 6, stored[0].Metadata["attemptCount"])
	assert.Contains(t, stored[0].Metadata, "timestamp")

	require.Len(t, fan.Published(), 1)
	assert.Equal(t, stored[0].ID, fan.Published()[0].Notification.ID)
	assert.Equal(t, alerts.DefaultPrivilegedRole, fan.Published()[0].Role)
}

func TestPipeline_SSLCertificateExpiring(t *testing.T) {
	t.Parallel()

	store := alerts.NewMemoryStore()
	n, d, _ := pipeline(t, store)

	n.OnSSLCertificateExpiring(context.Background(), superAdmin, "example.com", 5, "wildcard")
	require.NoError(t, d.Stop())

	stored, err := store.List(context.Background(), alerts.ListOptions{})
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, alerts.PriorityCritical, stored[0].Priority)
}

func TestPipeline_BackupCompleted(t *testing.T) {
	t.Parallel()

	store := alerts.NewMemoryStore()
	n, d, _ := pipeline(t, store)

	n.OnBackupCompleted(context.Background(), superAdmin, "daily", 52428800, 1500*time.Second)
	require.NoError(t, d.Stop())

	stored, err := store.List(context.Background(), alerts.ListOptions{})
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, alerts.TypeBackupComplete, stored[0].Type)
	assert.Equal(t, alerts.PriorityLow, stored[0].Priority)
	assert.Equal(t, "50.00 MB", stored[0].Metadata["backupSize"])
	assert.Equal(t, 1500.0, stored[0].Metadata["durationSeconds"])
}

func TestPipeline_NonPrivilegedActorIsSilentNoop(t *testing.T) {
	t.Parallel()

	store := alerts.NewMemoryStore()
	n, d, fan := pipeline(t, store)
	ctx := context.Background()
	admin := alerts.Actor{Role: "ADMIN", ID: "u2"}

	assert.NotPanics(t, func() {
		n.OnMultipleFailedLogins(ctx, admin, "a@b.com", "10.0.0.1", 6)
		n.OnCriticalSystemError(ctx, admin, "billing", "boom")
		n.OnBackupCompleted(ctx, admin, "daily", 1, time.Second)
		n.OnPlanCreated(ctx, admin, "Pro", 10)
	})
	require.NoError(t, d.Stop())

	assert.Zero(t, store.Len())
	assert.Empty(t, fan.Published())
	assert.Equal(t, uint64(4), d.Stats().Denied)
}

func TestPipeline_DuplicateCallsAreNotMerged(t *testing.T) {
	t.Parallel()

	store := alerts.NewMemoryStore()
	n, d, fan := pipeline(t, store)

	n.OnAdminCreated(context.Background(), superAdmin, "Ann", "ann@x.io", "root")
	n.OnAdminCreated(context.Background(), superAdmin, "Ann", "ann@x.io", "root")
	require.NoError(t, d.Stop())

	stored, err := store.List(context.Background(), alerts.ListOptions{})
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.NotEqual(t, stored[0].ID, stored[1].ID)
	assert.Len(t, fan.Published(), 2)
}

func TestPipeline_PersistenceFailureReturnsNormally(t *testing.T) {
	t.Parallel()

	store := &mockStore{}
	store.On("Create", mock.Anything, mock.Anything).Return(alerts.Notification{}, errors.New("store unreachable"))
	n, d, fan := pipeline(t, store)

	reached := false
	assert.NotPanics(t, func() {
		n.OnBackupFailed(context.Background(), superAdmin, "daily", "disk full")
		reached = true
	})
	assert.True(t, reached)
	require.NoError(t, d.Stop())

	assert.Empty(t, fan.Published())
	assert.Equal(t, uint64(1), d.Stats().PersistenceFailures)
}
