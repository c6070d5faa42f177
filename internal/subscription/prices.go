package subscription

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/price"

	"github.com/scottstamp/AFFiNE/internal/config"
	"github.com/scottstamp/AFFiNE/internal/logs"
)

// PriceID résout l'ID de prix Stripe pour une (offre, récurrence).
// Chaîne vide = combinaison non proposée.
func PriceID(p config.StripePrices, plan, recurring string) string {
	switch plan {
	case PlanPro:
		switch recurring {
		case RecurringMonthly:
			return p.ProMonthly
		case RecurringYearly:
			return p.ProYearly
		case RecurringLifetime:
			return p.ProLifetime
		}
	case PlanAI:
		if recurring == RecurringYearly {
			return p.AIYearly
		}
	case PlanTeam:
		switch recurring {
		case RecurringMonthly:
			return p.TeamMonthly
		case RecurringYearly:
			return p.TeamYearly
		}
	}
	return ""
}

// ListPrices GET /api/prices
// Renvoie les tarifs des combinaisons configurées, lus depuis Stripe
func ListPrices(c *gin.Context) {
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	prices := config.LoadConfig().Prices

	combos := []struct {
		Plan      string
		Recurring string
	}{
		{PlanPro, RecurringMonthly},
		{PlanPro, RecurringYearly},
		{PlanPro, RecurringLifetime},
		{PlanAI, RecurringYearly},
		{PlanTeam, RecurringMonthly},
		{PlanTeam, RecurringYearly},
	}

	var result []gin.H
	for _, combo := range combos {
		id := PriceID(prices, combo.Plan, combo.Recurring)
		if id == "" {
			continue
		}
		p, err := price.Get(id, nil)
		if err != nil {
			logs.LogJSON("WARN", "Stripe price lookup failed", map[string]interface{}{
				"error":   err.Error(),
				"priceID": id,
			})
			continue
		}
		result = append(result, gin.H{
			"plan":      combo.Plan,
			"recurring": combo.Recurring,
			"amount":    p.UnitAmount,
			"currency":  string(p.Currency),
		})
	}

	c.JSON(http.StatusOK, gin.H{"prices": result})
}
