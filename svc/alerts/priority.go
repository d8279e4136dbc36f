package alerts

import "strings"

// The thresholds below differ slightly between call sites. They are kept
// exactly as the product defined them; do not merge the two failed-login
// rules.

// FailedLoginPriority classifies a single failed-login report.
// More than 5 attempts is HIGH, more than 3 is MEDIUM, anything else LOW.
func FailedLoginPriority(attemptCount int) Priority {
	switch {
	case attemptCount > 5:
		return PriorityHigh
	case attemptCount > 3:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// MultipleFailedLoginsPriority classifies a burst of failed logins.
// It never yields LOW.
func MultipleFailedLoginsPriority(attemptCount int) Priority {
	if attemptCount > 5 {
		return PriorityHigh
	}
	return PriorityMedium
}

// ResourceUsagePriority classifies a resource utilisation percentage.
func ResourceUsagePriority(usagePercent float64) Priority {
	switch {
	case usagePercent > 90:
		return PriorityCritical
	case usagePercent > 75:
		return PriorityHigh
	default:
		return PriorityMedium
	}
}

// SSLExpiryPriority classifies the days left before a certificate expires.
func SSLExpiryPriority(daysUntilExpiry int) Priority {
	switch {
	case daysUntilExpiry <= 7:
		return PriorityCritical
	case daysUntilExpiry <= 30:
		return PriorityHigh
	default:
		return PriorityMedium
	}
}

// SeverityPriority maps a free-form severity label (malware, breach
// attempts, database performance) onto a tier. Unknown labels are LOW.
func SeverityPriority(severity string) Priority {
	switch strings.ToLower(strings.TrimSpace(severity)) {
	case "critical":
		return PriorityCritical
	case "high":
		return PriorityHigh
	case "medium":
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// HealthStatusPriority maps a health-check status onto a tier.
func HealthStatusPriority(status string) Priority {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "critical":
		return PriorityCritical
	case "warning":
		return PriorityHigh
	default:
		return PriorityLow
	}
}

// InactiveAdminsPriority classifies the number of dormant admin accounts.
func InactiveAdminsPriority(count int) Priority {
	if count > 3 {
		return PriorityHigh
	}
	return PriorityMedium
}

// SecurityScanPriority is HIGH as soon as a scan reports any threat.
func SecurityScanPriority(threatsFound int) Priority {
	if threatsFound > 0 {
		return PriorityHigh
	}
	return PriorityLow
}
