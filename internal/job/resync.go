package job

import (
	"context"
	"os"

	"github.com/robfig/cron/v3"
	"github.com/stripe/stripe-go/v78"
	stripesub "github.com/stripe/stripe-go/v78/subscription"

	"github.com/scottstamp/AFFiNE/internal/database"
	"github.com/scottstamp/AFFiNE/internal/logs"
	"github.com/scottstamp/AFFiNE/internal/quota"
	"github.com/scottstamp/AFFiNE/internal/subscription"
)

var liveStatuses = []string{
	subscription.StatusActive,
	subscription.StatusTrialing,
	subscription.StatusPastDue,
}

// StartResync planifie la réconciliation périodique avec Stripe.
// Ceinture et bretelles au-dessus des webhooks : un événement perdu
// finit par être rattrapé ici.
func StartResync(schedule string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		if err := ResyncAll(); err != nil {
			logs.LogJSON("ERROR", "Subscription resync failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	logs.LogJSON("INFO", "Subscription resync scheduled", map[string]interface{}{
		"schedule": schedule,
	})
	return c, nil
}

// ResyncAll réaligne chaque abonnement local en cours sur l'objet Stripe
func ResyncAll() error {
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")

	var userSubs []subscription.UserSubscription
	if err := database.DB.
		Where("status IN ? AND recurring <> ?", liveStatuses, subscription.RecurringLifetime).
		Find(&userSubs).Error; err != nil {
		return err
	}
	for _, row := range userSubs {
		m, err := subscription.ManagerFor(row.Plan, row.UserID, "")
		if err != nil {
			continue
		}
		resyncOne(m, row.StripeSubscriptionID, "")
	}

	var wsSubs []subscription.WorkspaceSubscription
	if err := database.DB.
		Where("status IN ?", liveStatuses).
		Find(&wsSubs).Error; err != nil {
		return err
	}
	for _, row := range wsSubs {
		m, err := subscription.ManagerFor(subscription.PlanTeam, "", row.WorkspaceID)
		if err != nil {
			continue
		}
		resyncOne(m, row.StripeSubscriptionID, row.WorkspaceID)
	}

	return nil
}

func resyncOne(m subscription.Manager, stripeSubscriptionID, workspaceID string) {
	if stripeSubscriptionID == "" {
		return
	}

	sub, err := stripesub.Get(stripeSubscriptionID, nil)
	if err != nil {
		logs.LogJSON("WARN", "Stripe subscription fetch failed", map[string]interface{}{
			"error":        err.Error(),
			"subscription": stripeSubscriptionID,
		})
		return
	}

	if err := m.Save(subscription.StateFromStripe(sub)); err != nil {
		logs.LogJSON("ERROR", "Subscription resync save failed", map[string]interface{}{
			"error":        err.Error(),
			"subscription": stripeSubscriptionID,
		})
		return
	}

	if workspaceID != "" {
		quota.Invalidate(context.Background(), workspaceID)
	}
}
