package alerts

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// OnBackupCompleted reports a finished backup of sizeBytes that took duration.
func (n *Notifier) OnBackupCompleted(ctx context.Context, actor Actor, backupType string, sizeBytes int64, duration time.Duration) {
	size := FormatBytes(sizeBytes)
	n.emit(ctx, actor, Draft{
		Type:      TypeBackupComplete,
		Priority:  PriorityLow,
		Title:     "Backup Completed",
		Message:   fmt.Sprintf("%s backup completed successfully (%s in %s)", backupType, size, FormatDuration(duration)),
		ActionURL: n.links.Backups,
		Metadata: Metadata{
			"backupType":      backupType,
			"backupSize":      size,
			"backupSizeBytes": sizeBytes,
			"durationSeconds": duration.Seconds(),
		},
	})
}

func (n *Notifier) OnBackupFailed(ctx context.Context, actor Actor, backupType, reason string) {
	n.emit(ctx, actor, Draft{
		Type:      TypeSystemStatus,
		Priority:  PriorityHigh,
		Title:     "Backup Failed",
		Message:   fmt.Sprintf("%s backup failed: %s", backupType, reason),
		ActionURL: n.links.Backups,
		Metadata:  Metadata{"backupType": backupType, "reason": reason},
	})
}

// OnHealthCheck reports the status of a component: "healthy", "warning" or "critical".
func (n *Notifier) OnHealthCheck(ctx context.Context, actor Actor, component, status, details string) {
	msg := fmt.Sprintf("%s health check: %s", component, strings.ToLower(status))
	if details != "" {
		msg += " (" + details + ")"
	}
	n.emit(ctx, actor, Draft{
		Type:      TypeSystemStatus,
		Priority:  HealthStatusPriority(status),
		Title:     "System Health Check",
		Message:   msg,
		ActionURL: n.links.System,
		Metadata: Metadata{
			"component": component,
			"status":    strings.ToLower(status),
			"details":   details,
		},
	})
}

func (n *Notifier) OnDatabasePerformanceIssue(ctx context.Context, actor Actor, issue string, queryTime time.Duration, severity string) {
	n.emit(ctx, actor, Draft{
		Type:      TypeDatabaseAlert,
		Priority:  SeverityPriority(severity),
		Title:     "Database Performance Issue",
		Message:   fmt.Sprintf("%s (query time %s)", issue, FormatDuration(queryTime)),
		ActionURL: n.links.Database,
		Metadata: Metadata{
			"issue":       issue,
			"queryTimeMs": queryTime.Milliseconds(),
			"severity":    strings.ToLower(severity),
		},
	})
}

func (n *Notifier) OnCriticalSystemError(ctx context.Context, actor Actor, component, errorMessage string) {
	n.emit(ctx, actor, Draft{
		Type:      TypeSystemStatus,
		Priority:  PriorityCritical,
		Title:     "Critical System Error",
		Message:   fmt.Sprintf("%s: %s", component, errorMessage),
		ActionURL: n.links.System,
		Metadata:  Metadata{"component": component, "error": errorMessage},
	})
}

func (n *Notifier) OnUnusualResourceUsage(ctx context.Context, actor Actor, resource string, usagePercent float64) {
	n.emit(ctx, actor, Draft{
		Type:      TypeSystemStatus,
		Priority:  ResourceUsagePriority(usagePercent),
		Title:     "Unusual Resource Usage",
		Message:   fmt.Sprintf("%s usage is at %.1f%%", resource, usagePercent),
		ActionURL: n.links.System,
		Metadata:  Metadata{"resource": resource, "usagePercent": usagePercent},
	})
}

func (n *Notifier) OnDatabaseConnectionPoolExhausted(ctx context.Context, actor Actor, database string, activeConnections, maxConnections int) {
	n.emit(ctx, actor, Draft{
		Type:      TypeDatabaseAlert,
		Priority:  PriorityCritical,
		Title:     "Database Connection Pool Exhausted",
		Message:   fmt.Sprintf("%s is using %d of %d connections", database, activeConnections, maxConnections),
		ActionURL: n.links.Database,
		Metadata: Metadata{
			"database":          database,
			"activeConnections": activeConnections,
			"maxConnections":    maxConnections,
		},
	})
}
