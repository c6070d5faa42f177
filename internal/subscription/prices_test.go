package subscription

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scottstamp/AFFiNE/internal/config"
)

func TestPriceID(t *testing.T) {
	prices := config.StripePrices{
		ProMonthly:  "price_pro_m",
		ProYearly:   "price_pro_y",
		ProLifetime: "price_pro_l",
		AIYearly:    "price_ai_y",
		TeamMonthly: "price_team_m",
		TeamYearly:  "price_team_y",
	}

	tests := []struct {
		plan      string
		recurring string
		expected  string
	}{
		{PlanPro, RecurringMonthly, "price_pro_m"},
		{PlanPro, RecurringYearly, "price_pro_y"},
		{PlanPro, RecurringLifetime, "price_pro_l"},
		{PlanAI, RecurringYearly, "price_ai_y"},
		{PlanAI, RecurringMonthly, ""}, // l'offre AI n'existe qu'en annuel
		{PlanTeam, RecurringMonthly, "price_team_m"},
		{PlanTeam, RecurringYearly, "price_team_y"},
		{PlanTeam, RecurringLifetime, ""},
		{PlanFree, RecurringMonthly, ""},
		{"platinum", RecurringMonthly, ""},
	}

	for _, tt := range tests {
		t.Run(tt.plan+"_"+tt.recurring, func(t *testing.T) {
			assert.Equal(t, tt.expected, PriceID(prices, tt.plan, tt.recurring))
		})
	}
}
