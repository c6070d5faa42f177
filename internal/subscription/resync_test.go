package subscription

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stripe/stripe-go/v78"
)

func TestStateFromStripe(t *testing.T) {
	now := time.Now().Unix()
	sub := &stripe.Subscription{
		ID:                 "sub_123",
		Status:             stripe.SubscriptionStatusActive,
		CurrentPeriodStart: now,
		CurrentPeriodEnd:   now + 30*24*3600,
		CancelAtPeriodEnd:  true,
		CanceledAt:         now,
		Metadata:           map[string]string{"recurring": RecurringYearly},
		Schedule:           &stripe.SubscriptionSchedule{ID: "sched_1"},
	}

	st := StateFromStripe(sub)

	assert.Equal(t, "sub_123", st.StripeSubscriptionID)
	assert.Equal(t, StatusActive, st.Status)
	assert.Equal(t, RecurringYearly, st.Recurring)
	assert.Equal(t, "sched_1", st.StripeScheduleID)
	assert.True(t, st.CancelAtPeriodEnd)
	assert.NotNil(t, st.CanceledAt)
	assert.Nil(t, st.TrialStart)
	assert.Equal(t, time.Unix(now, 0), st.PeriodStart)
}

func TestRecurringFromStripeInterval(t *testing.T) {
	tests := []struct {
		name     string
		sub      *stripe.Subscription
		expected string
	}{
		{
			name: "Metadata prioritaire",
			sub: &stripe.Subscription{
				Metadata: map[string]string{"recurring": RecurringYearly},
			},
			expected: RecurringYearly,
		},
		{
			name: "Intervalle mensuel",
			sub: &stripe.Subscription{
				Items: &stripe.SubscriptionItemList{
					Data: []*stripe.SubscriptionItem{
						{Price: &stripe.Price{
							Recurring: &stripe.PriceRecurring{Interval: stripe.PriceRecurringIntervalMonth},
						}},
					},
				},
			},
			expected: RecurringMonthly,
		},
		{
			name: "Intervalle annuel",
			sub: &stripe.Subscription{
				Items: &stripe.SubscriptionItemList{
					Data: []*stripe.SubscriptionItem{
						{Price: &stripe.Price{
							Recurring: &stripe.PriceRecurring{Interval: stripe.PriceRecurringIntervalYear},
						}},
					},
				},
			},
			expected: RecurringYearly,
		},
		{
			name:     "Défaut mensuel",
			sub:      &stripe.Subscription{Items: &stripe.SubscriptionItemList{}},
			expected: RecurringMonthly,
		},
		{
			name:     "Payload sans items",
			sub:      &stripe.Subscription{},
			expected: RecurringMonthly,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.sub.Metadata == nil {
				tt.sub.Metadata = map[string]string{}
			}
			assert.Equal(t, tt.expected, recurringFromStripe(tt.sub))
		})
	}
}

func TestManagerFromMetadata(t *testing.T) {
	m, err := ManagerFromMetadata(map[string]string{
		"plan":    PlanPro,
		"user_id": "user1",
	})
	assert.NoError(t, err)
	assert.Equal(t, PlanPro, m.Plan())

	m, err = ManagerFromMetadata(map[string]string{
		"plan":         PlanTeam,
		"user_id":      "user1",
		"workspace_id": "ws1",
	})
	assert.NoError(t, err)
	assert.Equal(t, PlanTeam, m.Plan())

	_, err = ManagerFromMetadata(map[string]string{})
	assert.Error(t, err)
}
