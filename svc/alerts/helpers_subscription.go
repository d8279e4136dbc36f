package alerts

import (
	"context"
	"fmt"
	"slices"
	"strings"
)

func (n *Notifier) OnSubscriptionRequestSubmitted(ctx context.Context, actor Actor, organization, planName, requestedBy string) {
	n.emit(ctx, actor, Draft{
		Type:       TypeSubscriptionRequest,
		Priority:   PriorityMedium,
		Title:      "New Subscription Request",
		Message:    fmt.Sprintf("%s requested the %s plan for %s", requestedBy, planName, organization),
		TargetUser: requestedBy,
		ActionURL:  n.links.Subscriptions,
		Metadata: Metadata{
			"organization": organization,
			"planName":     planName,
			"requestedBy":  requestedBy,
		},
	})
}

func (n *Notifier) OnSubscriptionApproved(ctx context.Context, actor Actor, organization, planName, approvedBy string) {
	n.emit(ctx, actor, Draft{
		Type:      TypeSubscriptionRequest,
		Priority:  PriorityLow,
		Title:     "Subscription Approved",
		Message:   fmt.Sprintf("The %s plan for %s was approved by %s", planName, organization, approvedBy),
		ActionURL: n.links.Subscriptions,
		Metadata: Metadata{
			"organization": organization,
			"planName":     planName,
			"approvedBy":   approvedBy,
			"status":       "approved",
		},
	})
}

func (n *Notifier) OnSubscriptionRejected(ctx context.Context, actor Actor, organization, planName, reason string) {
	msg := fmt.Sprintf("The %s plan request for %s was rejected", planName, organization)
	if reason != "" {
		msg += ": " + reason
	}
	n.emit(ctx, actor, Draft{
		Type:      TypeSubscriptionRequest,
		Priority:  PriorityLow,
		Title:     "Subscription Rejected",
		Message:   msg,
		ActionURL: n.links.Subscriptions,
		Metadata: Metadata{
			"organization": organization,
			"planName":     planName,
			"reason":       reason,
			"status":       "rejected",
		},
	})
}

// OnPlanCreated reports a new plan priced at monthlyPrice in the notifier's currency.
func (n *Notifier) OnPlanCreated(ctx context.Context, actor Actor, planName string, monthlyPrice float64) {
	n.emit(ctx, actor, Draft{
		Type:      TypeAdminAction,
		Priority:  PriorityLow,
		Title:     "Subscription Plan Created",
		Message:   fmt.Sprintf("Plan %s was created at %s per month", planName, n.money.Format(monthlyPrice)),
		ActionURL: n.links.Plans,
		Metadata: Metadata{
			"planName":     planName,
			"monthlyPrice": monthlyPrice,
			"currency":     n.money.unit.String(),
			"action":       "created",
		},
	})
}

func (n *Notifier) OnPlanUpdated(ctx context.Context, actor Actor, planName string, changes []string) {
	msg := fmt.Sprintf("Plan %s was updated", planName)
	if len(changes) > 0 {
		msg += ": " + strings.Join(changes, ", ")
	}
	n.emit(ctx, actor, Draft{
		Type:      TypeAdminAction,
		Priority:  PriorityLow,
		Title:     "Subscription Plan Updated",
		Message:   msg,
		ActionURL: n.links.Plans,
		Metadata: Metadata{
			"planName": planName,
			"changes":  slices.Clone(changes),
			"action":   "updated",
		},
	})
}

func (n *Notifier) OnPlanDeleted(ctx context.Context, actor Actor, planName string, affectedSubscribers int) {
	n.emit(ctx, actor, Draft{
		Type:      TypeAdminAction,
		Priority:  PriorityMedium,
		Title:     "Subscription Plan Deleted",
		Message:   fmt.Sprintf("Plan %s was deleted, affecting %s subscribers", planName, n.money.Number(affectedSubscribers)),
		ActionURL: n.links.Plans,
		Metadata: Metadata{
			"planName":            planName,
			"affectedSubscribers": affectedSubscribers,
			"action":              "deleted",
		},
	})
}

// OnRevenueMilestone reports that revenue for period reached amount.
func (n *Notifier) OnRevenueMilestone(ctx context.Context, actor Actor, amount float64, period string) {
	formatted := n.money.Format(amount)
	n.emit(ctx, actor, Draft{
		Type:      TypeSystemStatus,
		Priority:  PriorityLow,
		Title:     "Revenue Milestone Reached",
		Message:   fmt.Sprintf("Revenue reached %s for %s", formatted, period),
		ActionURL: n.links.Revenue,
		Metadata: Metadata{
			"amount":          amount,
			"amountFormatted": formatted,
			"currency":        n.money.unit.String(),
			"period":          period,
		},
	})
}
