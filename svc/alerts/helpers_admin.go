package alerts

import (
	"context"
	"fmt"
)

func (n *Notifier) OnPasswordChange(ctx context.Context, actor Actor, userEmail, ipAddress string) {
	n.emit(ctx, actor, Draft{
		Type:       TypePasswordChange,
		Priority:   PriorityMedium,
		Title:      "Password Changed",
		Message:    fmt.Sprintf("Password was changed for %s", userEmail),
		TargetUser: userEmail,
		IPAddress:  ipAddress,
		ActionURL:  n.links.Security,
		Metadata:   Metadata{"userEmail": userEmail, "ipAddress": ipAddress},
	})
}

func (n *Notifier) OnAdminCreated(ctx context.Context, actor Actor, adminName, adminEmail, createdBy string) {
	n.emit(ctx, actor, Draft{
		Type:       TypeAdminAction,
		Priority:   PriorityMedium,
		Title:      "New Admin Created",
		Message:    fmt.Sprintf("%s (%s) was added as an administrator by %s", adminName, adminEmail, createdBy),
		TargetUser: adminEmail,
		ActionURL:  n.links.Admins,
		Metadata: Metadata{
			"adminName":  adminName,
			"adminEmail": adminEmail,
			"createdBy":  createdBy,
			"action":     "created",
		},
	})
}

func (n *Notifier) OnAdminActivated(ctx context.Context, actor Actor, adminName, adminEmail string) {
	n.emit(ctx, actor, Draft{
		Type:       TypeAdminAction,
		Priority:   PriorityLow,
		Title:      "Admin Activated",
		Message:    fmt.Sprintf("Administrator %s (%s) has been activated", adminName, adminEmail),
		TargetUser: adminEmail,
		ActionURL:  n.links.Admins,
		Metadata: Metadata{
			"adminName":  adminName,
			"adminEmail": adminEmail,
			"action":     "activated",
		},
	})
}

func (n *Notifier) OnAdminDeactivated(ctx context.Context, actor Actor, adminName, adminEmail, reason string) {
	msg := fmt.Sprintf("Administrator %s (%s) has been deactivated", adminName, adminEmail)
	if reason != "" {
		msg += ": " + reason
	}
	n.emit(ctx, actor, Draft{
		Type:       TypeAdminAction,
		Priority:   PriorityMedium,
		Title:      "Admin Deactivated",
		Message:    msg,
		TargetUser: adminEmail,
		ActionURL:  n.links.Admins,
		Metadata: Metadata{
			"adminName":  adminName,
			"adminEmail": adminEmail,
			"reason":     reason,
			"action":     "deactivated",
		},
	})
}

func (n *Notifier) OnAdminDeleted(ctx context.Context, actor Actor, adminName, adminEmail, deletedBy string) {
	n.emit(ctx, actor, Draft{
		Type:       TypeAdminAction,
		Priority:   PriorityHigh,
		Title:      "Admin Deleted",
		Message:    fmt.Sprintf("Administrator %s (%s) was deleted by %s", adminName, adminEmail, deletedBy),
		TargetUser: adminEmail,
		ActionURL:  n.links.Admins,
		Metadata: Metadata{
			"adminName":  adminName,
			"adminEmail": adminEmail,
			"deletedBy":  deletedBy,
			"action":     "deleted",
		},
	})
}

func (n *Notifier) OnPasswordResetRequested(ctx context.Context, actor Actor, userEmail, ipAddress string) {
	n.emit(ctx, actor, Draft{
		Type:       TypePasswordChange,
		Priority:   PriorityLow,
		Title:      "Password Reset Requested",
		Message:    fmt.Sprintf("A password reset was requested for %s", userEmail),
		TargetUser: userEmail,
		IPAddress:  ipAddress,
		ActionURL:  n.links.Security,
		Metadata:   Metadata{"userEmail": userEmail, "ipAddress": ipAddress},
	})
}

func (n *Notifier) OnPasswordResetSucceeded(ctx context.Context, actor Actor, userEmail, ipAddress string) {
	n.emit(ctx, actor, Draft{
		Type:       TypePasswordChange,
		Priority:   PriorityMedium,
		Title:      "Password Reset Completed",
		Message:    fmt.Sprintf("Password for %s was reset successfully", userEmail),
		TargetUser: userEmail,
		IPAddress:  ipAddress,
		ActionURL:  n.links.Security,
		Metadata:   Metadata{"userEmail": userEmail, "ipAddress": ipAddress},
	})
}

// OnInactiveAdminsDetected reports administrator accounts without activity
// for at least inactiveDays days.
func (n *Notifier) OnInactiveAdminsDetected(ctx context.Context, actor Actor, count, inactiveDays int) {
	n.emit(ctx, actor, Draft{
		Type:      TypeAdminAction,
		Priority:  InactiveAdminsPriority(count),
		Title:     "Inactive Admins Detected",
		Message:   fmt.Sprintf("%d administrator accounts have been inactive for %d days or more", count, inactiveDays),
		ActionURL: n.links.Admins,
		Metadata:  Metadata{"inactiveCount": count, "inactiveDays": inactiveDays},
	})
}
