package alerts

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// OnFailedLogin reports a failed sign-in. Priority follows
// FailedLoginPriority, which differs from OnMultipleFailedLogins.
func (n *Notifier) OnFailedLogin(ctx context.Context, actor Actor, email, ipAddress string, attemptCount int) {
	n.emit(ctx, actor, Draft{
		Type:       TypeLoginAttempt,
		Priority:   FailedLoginPriority(attemptCount),
		Title:      "Failed Login Attempt",
		Message:    fmt.Sprintf("Failed login attempt for %s from %s (attempt %d)", email, ipAddress, attemptCount),
		TargetUser: email,
		IPAddress:  ipAddress,
		ActionURL:  n.links.Logins,
		Metadata:   Metadata{"email": email, "ipAddress": ipAddress, "attemptCount": attemptCount},
	})
}

// OnMultipleFailedLogins reports a burst of failed sign-ins for one account.
func (n *Notifier) OnMultipleFailedLogins(ctx context.Context, actor Actor, email, ipAddress string, attemptCount int) {
	n.emit(ctx, actor, Draft{
		Type:       TypeSecurityAlert,
		Priority:   MultipleFailedLoginsPriority(attemptCount),
		Title:      "Multiple Failed Login Attempts",
		Message:    fmt.Sprintf("%d failed login attempts detected for %s from %s", attemptCount, email, ipAddress),
		TargetUser: email,
		IPAddress:  ipAddress,
		ActionURL:  n.links.Security,
		Metadata:   Metadata{"email": email, "ipAddress": ipAddress, "attemptCount": attemptCount},
	})
}

func (n *Notifier) OnSuspiciousLogin(ctx context.Context, actor Actor, email, ipAddress, location, reason string) {
	n.emit(ctx, actor, Draft{
		Type:       TypeSecurityAlert,
		Priority:   PriorityHigh,
		Title:      "Suspicious Login Detected",
		Message:    fmt.Sprintf("Suspicious login for %s from %s (%s): %s", email, ipAddress, location, reason),
		TargetUser: email,
		IPAddress:  ipAddress,
		Location:   location,
		ActionURL:  n.links.Logins,
		Metadata: Metadata{
			"email":     email,
			"ipAddress": ipAddress,
			"location":  location,
			"reason":    reason,
		},
	})
}

func (n *Notifier) OnUnusualLoginLocation(ctx context.Context, actor Actor, email, ipAddress, location, usualLocation string) {
	n.emit(ctx, actor, Draft{
		Type:       TypeSecurityAlert,
		Priority:   PriorityMedium,
		Title:      "Login From Unusual Location",
		Message:    fmt.Sprintf("%s signed in from %s, usually %s", email, location, usualLocation),
		TargetUser: email,
		IPAddress:  ipAddress,
		Location:   location,
		ActionURL:  n.links.Logins,
		Metadata: Metadata{
			"email":         email,
			"ipAddress":     ipAddress,
			"location":      location,
			"usualLocation": usualLocation,
		},
	})
}

func (n *Notifier) OnAccountLockout(ctx context.Context, actor Actor, email, ipAddress string, lockDuration time.Duration) {
	n.emit(ctx, actor, Draft{
		Type:       TypeSecurityAlert,
		Priority:   PriorityHigh,
		Title:      "Account Locked",
		Message:    fmt.Sprintf("Account %s was locked for %s after repeated failures from %s", email, FormatDuration(lockDuration), ipAddress),
		TargetUser: email,
		IPAddress:  ipAddress,
		ActionURL:  n.links.Security,
		Metadata: Metadata{
			"email":               email,
			"ipAddress":           ipAddress,
			"lockDurationSeconds": int64(lockDuration / time.Second),
		},
	})
}

func (n *Notifier) OnPrivilegeEscalationAttempt(ctx context.Context, actor Actor, userEmail, attemptedAction, ipAddress string) {
	n.emit(ctx, actor, Draft{
		Type:       TypeSecurityAlert,
		Priority:   PriorityCritical,
		Title:      "Privilege Escalation Attempt",
		Message:    fmt.Sprintf("%s attempted a privileged action without permission: %s", userEmail, attemptedAction),
		TargetUser: userEmail,
		IPAddress:  ipAddress,
		ActionURL:  n.links.Security,
		Metadata: Metadata{
			"userEmail":       userEmail,
			"attemptedAction": attemptedAction,
			"ipAddress":       ipAddress,
		},
	})
}

func (n *Notifier) OnDataBreachAttempt(ctx context.Context, actor Actor, source, ipAddress, severity string) {
	n.emit(ctx, actor, Draft{
		Type:      TypeSecurityAlert,
		Priority:  SeverityPriority(severity),
		Title:     "Data Breach Attempt",
		Message:   fmt.Sprintf("Possible data breach attempt via %s from %s", source, ipAddress),
		IPAddress: ipAddress,
		ActionURL: n.links.Security,
		Metadata: Metadata{
			"source":    source,
			"ipAddress": ipAddress,
			"severity":  strings.ToLower(severity),
		},
	})
}

func (n *Notifier) OnMalwareDetected(ctx context.Context, actor Actor, fileName, malwareType, severity string) {
	n.emit(ctx, actor, Draft{
		Type:      TypeSecurityAlert,
		Priority:  SeverityPriority(severity),
		Title:     "Malware Detected",
		Message:   fmt.Sprintf("%s detected in %s", malwareType, fileName),
		ActionURL: n.links.Security,
		Metadata: Metadata{
			"fileName":    fileName,
			"malwareType": malwareType,
			"severity":    strings.ToLower(severity),
		},
	})
}

func (n *Notifier) OnFirewallBreachAttempt(ctx context.Context, actor Actor, ipAddress string, port int, attempts int) {
	n.emit(ctx, actor, Draft{
		Type:      TypeSecurityAlert,
		Priority:  PriorityHigh,
		Title:     "Firewall Breach Attempt",
		Message:   fmt.Sprintf("%d blocked connection attempts from %s on port %d", attempts, ipAddress, port),
		IPAddress: ipAddress,
		ActionURL: n.links.Security,
		Metadata:  Metadata{"ipAddress": ipAddress, "port": port, "attempts": attempts},
	})
}

func (n *Notifier) OnSecurityScanComplete(ctx context.Context, actor Actor, scanType string, threatsFound int, scanDuration time.Duration) {
	msg := fmt.Sprintf("%s scan completed in %s, no threats found", scanType, FormatDuration(scanDuration))
	if threatsFound > 0 {
		msg = fmt.Sprintf("%s scan completed in %s, %d threats found", scanType, FormatDuration(scanDuration), threatsFound)
	}
	n.emit(ctx, actor, Draft{
		Type:      TypeSecurityAlert,
		Priority:  SecurityScanPriority(threatsFound),
		Title:     "Security Scan Complete",
		Message:   msg,
		ActionURL: n.links.Security,
		Metadata: Metadata{
			"scanType":     scanType,
			"threatsFound": threatsFound,
			"scanDuration": FormatDuration(scanDuration),
		},
	})
}

func (n *Notifier) OnSSLCertificateExpiring(ctx context.Context, actor Actor, domain string, daysUntilExpiry int, certificateType string) {
	n.emit(ctx, actor, Draft{
		Type:      TypeSecurityAlert,
		Priority:  SSLExpiryPriority(daysUntilExpiry),
		Title:     "SSL Certificate Expiring",
		Message:   fmt.Sprintf("The %s certificate for %s expires in %d days", certificateType, domain, daysUntilExpiry),
		ActionURL: n.links.Security,
		Metadata: Metadata{
			"domain":          domain,
			"daysUntilExpiry": daysUntilExpiry,
			"certificateType": certificateType,
		},
	})
}

func (n *Notifier) OnAPIRateLimitExceeded(ctx context.Context, actor Actor, endpoint, ipAddress string, requestCount int, window time.Duration) {
	n.emit(ctx, actor, Draft{
		Type:      TypeSecurityAlert,
		Priority:  PriorityMedium,
		Title:     "API Rate Limit Exceeded",
		Message:   fmt.Sprintf("%s made %d requests to %s within %s", ipAddress, requestCount, endpoint, FormatDuration(window)),
		IPAddress: ipAddress,
		ActionURL: n.links.Security,
		Metadata: Metadata{
			"endpoint":      endpoint,
			"ipAddress":     ipAddress,
			"requestCount":  requestCount,
			"windowSeconds": int64(window / time.Second),
		},
	})
}
