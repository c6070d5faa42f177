package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v78"
	stripesub "github.com/stripe/stripe-go/v78/subscription"
	"github.com/stripe/stripe-go/v78/webhook"

	"github.com/scottstamp/AFFiNE/internal/invoice"
	"github.com/scottstamp/AFFiNE/internal/logs"
	"github.com/scottstamp/AFFiNE/internal/quota"
	"github.com/scottstamp/AFFiNE/internal/subscription"
	"github.com/scottstamp/AFFiNE/internal/workspace"
)

// HandleStripeWebhook POST /api/stripe/webhook
// Stripe est la source de vérité : chaque événement resynchronise les
// lignes locales. Une erreur de traitement renvoie un 500 pour que
// Stripe retente la livraison.
func HandleStripeWebhook(c *gin.Context) {
	const MaxBodyBytes = int64(65536)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Lecture du corps échouée"})
		return
	}

	endpointSecret := os.Getenv("STRIPE_WEBHOOK_SECRET")
	sigHeader := c.GetHeader("Stripe-Signature")

	event, err := webhook.ConstructEventWithOptions(payload, sigHeader, endpointSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Signature Stripe invalide"})
		return
	}

	switch event.Type {

	case "checkout.session.completed":
		var session stripe.CheckoutSession
		err := json.Unmarshal(event.Data.Raw, &session)
		if err == nil {
			err = handleCheckoutSessionCompleted(&session)
		}
		if err != nil {
			webhookError(c, event, err)
			return
		}

	case "customer.subscription.created", "customer.subscription.updated",
		"customer.subscription.deleted":
		var sub stripe.Subscription
		err := json.Unmarshal(event.Data.Raw, &sub)
		if err == nil {
			err = handleSubscriptionChanged(&sub)
		}
		if err != nil {
			webhookError(c, event, err)
			return
		}

	case "invoice.paid", "invoice.payment_failed":
		var in stripe.Invoice
		err := json.Unmarshal(event.Data.Raw, &in)
		if err == nil {
			err = invoice.SaveFromStripe(&in)
		}
		if err != nil {
			webhookError(c, event, err)
			return
		}

	default:
		logs.LogJSON("DEBUG", "Unhandled Stripe event", map[string]interface{}{
			"event": string(event.Type),
		})
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

func webhookError(c *gin.Context, event stripe.Event, err error) {
	logs.LogJSON("ERROR", "Stripe webhook processing failed", map[string]interface{}{
		"error": err.Error(),
		"event": string(event.Type),
		"id":    event.ID,
	})
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Traitement de l'événement échoué"})
}

// handleCheckoutSessionCompleted couvre deux cas : un abonnement
// récurrent (l'objet subscription arrive aussi par webhook dédié) et
// un paiement unique "à vie" sans objet subscription côté Stripe
func handleCheckoutSessionCompleted(session *stripe.CheckoutSession) error {
	metadata := session.Metadata
	if metadata["plan"] == "" {
		return fmt.Errorf("metadata plan manquante (session %s)", session.ID)
	}

	if session.Mode == stripe.CheckoutSessionModePayment {
		return applyLifetime(metadata)
	}

	if session.Subscription == nil || session.Subscription.ID == "" {
		return fmt.Errorf("ID d'abonnement Stripe manquant (session %s)", session.ID)
	}

	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	sub, err := stripesub.Get(session.Subscription.ID, nil)
	if err != nil {
		return err
	}
	// La metadata de session fait foi si celle du subscription est vide
	if sub.Metadata["plan"] == "" {
		sub.Metadata = metadata
	}
	return handleSubscriptionChanged(sub)
}

// applyLifetime enregistre un paiement unique comme abonnement sans fin
func applyLifetime(metadata map[string]string) error {
	m, err := subscription.ManagerFromMetadata(metadata)
	if err != nil {
		return err
	}
	forever := time.Now().AddDate(100, 0, 0)
	return m.Save(subscription.StripeState{
		Recurring:   subscription.RecurringLifetime,
		Status:      subscription.StatusActive,
		PeriodStart: time.Now(),
		PeriodEnd:   forever,
	})
}

func handleSubscriptionChanged(sub *stripe.Subscription) error {
	workspaceID, err := subscription.ApplyStripeSubscription(sub)
	if err != nil {
		return err
	}

	logs.LogJSON("INFO", "Subscription synced from Stripe", map[string]interface{}{
		"subscription": sub.ID,
		"status":       string(sub.Status),
	})

	if workspaceID == "" {
		return nil
	}

	// Feature et marqueur d'équipe alignés sur le statut, puis cache purgé
	live := sub.Status == stripe.SubscriptionStatusActive ||
		sub.Status == stripe.SubscriptionStatusTrialing
	if err := workspace.SetFeature(workspaceID, workspace.FeatureTeamPlan, live); err != nil {
		return err
	}
	if err := workspace.SetTeam(workspaceID, live); err != nil {
		return err
	}
	quota.Invalidate(context.Background(), workspaceID)
	return nil
}
