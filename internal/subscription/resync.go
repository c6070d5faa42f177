package subscription

import (
	"time"

	"github.com/stripe/stripe-go/v78"

	"github.com/scottstamp/AFFiNE/internal/apperror"
)

// recurringFromStripe déduit la récurrence de l'intervalle du prix
func recurringFromStripe(sub *stripe.Subscription) string {
	if sub.Metadata["recurring"] != "" {
		return sub.Metadata["recurring"]
	}
	if sub.Items != nil && len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil && sub.Items.Data[0].Price.Recurring != nil {
		switch sub.Items.Data[0].Price.Recurring.Interval {
		case stripe.PriceRecurringIntervalMonth:
			return RecurringMonthly
		case stripe.PriceRecurringIntervalYear:
			return RecurringYearly
		}
	}
	return RecurringMonthly
}

// StateFromStripe projette l'objet Stripe vers les colonnes locales
func StateFromStripe(sub *stripe.Subscription) StripeState {
	st := StripeState{
		Recurring:            recurringFromStripe(sub),
		Status:               string(sub.Status),
		StripeSubscriptionID: sub.ID,
		PeriodStart:          time.Unix(sub.CurrentPeriodStart, 0),
		PeriodEnd:            time.Unix(sub.CurrentPeriodEnd, 0),
		CancelAtPeriodEnd:    sub.CancelAtPeriodEnd,
	}
	if sub.Schedule != nil {
		st.StripeScheduleID = sub.Schedule.ID
	}
	if sub.TrialStart > 0 {
		ts := time.Unix(sub.TrialStart, 0)
		st.TrialStart = &ts
	}
	if sub.TrialEnd > 0 {
		te := time.Unix(sub.TrialEnd, 0)
		st.TrialEnd = &te
	}
	if sub.CanceledAt > 0 {
		ca := time.Unix(sub.CanceledAt, 0)
		st.CanceledAt = &ca
	}
	return st
}

// ManagerFromMetadata retrouve la stratégie depuis la metadata posée
// au checkout (relue par le webhook et le job de resync)
func ManagerFromMetadata(metadata map[string]string) (Manager, error) {
	plan := metadata["plan"]
	userID := metadata["user_id"]
	workspaceID := metadata["workspace_id"]
	if plan == "" || (userID == "" && workspaceID == "") {
		return nil, apperror.ErrSubscriptionPlanNotFound
	}
	return ManagerFor(plan, userID, workspaceID)
}

// ApplyStripeSubscription réconcilie la ligne locale avec l'objet Stripe.
// Renvoie le workspace concerné ("" pour un abonnement personnel).
func ApplyStripeSubscription(sub *stripe.Subscription) (string, error) {
	m, err := ManagerFromMetadata(sub.Metadata)
	if err != nil {
		return "", err
	}
	if err := m.Save(StateFromStripe(sub)); err != nil {
		return "", err
	}
	return sub.Metadata["workspace_id"], nil
}
