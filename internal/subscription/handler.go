package subscription

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/billingportal/session"
	checkoutsession "github.com/stripe/stripe-go/v78/checkout/session"
	"github.com/stripe/stripe-go/v78/customer"

	"github.com/scottstamp/AFFiNE/internal/apperror"
	"github.com/scottstamp/AFFiNE/internal/config"
	"github.com/scottstamp/AFFiNE/internal/database"
	"github.com/scottstamp/AFFiNE/internal/logs"
	"github.com/scottstamp/AFFiNE/internal/user"
	"github.com/scottstamp/AFFiNE/internal/workspace"
)

// ensureCustomer renvoie l'ID client Stripe de l'utilisateur,
// en le créant au premier passage
func ensureCustomer(userID, email string) (string, error) {
	u, err := user.FindByID(userID)
	if err != nil || u == nil {
		return "", apperror.ErrUserNotFound
	}
	if u.StripeCustomerID != "" {
		return u.StripeCustomerID, nil
	}

	params := &stripe.CustomerParams{
		Email: stripe.String(email),
		Metadata: map[string]string{
			"user_id": userID,
		},
	}
	cust, err := customer.New(params)
	if err != nil {
		return "", err
	}
	if err := user.SetStripeCustomerID(userID, cust.ID); err != nil {
		return "", err
	}
	return cust.ID, nil
}

// Checkout POST /api/subscriptions/checkout
// Crée la session de paiement Stripe pour une (offre, récurrence)
func Checkout(c *gin.Context) {
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	route := c.FullPath()
	userID := c.GetString("user_id")
	userEmail := c.GetString("user_email")
	cfg := config.LoadConfig()

	var input struct {
		Plan           string `json:"plan"`
		Recurring      string `json:"recurring"`
		WorkspaceID    string `json:"workspace_id"`
		IdempotencyKey string `json:"idempotency_key"`
	}
	if err := c.BindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Requête invalide"})
		return
	}

	m, err := ManagerFor(input.Plan, userID, input.WorkspaceID)
	if err != nil {
		apperror.Abort(c, err)
		return
	}

	// Refuse un second abonnement en cours
	existing, err := m.Active()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture abonnement"})
		return
	}
	if existing != nil {
		apperror.Abort(c, apperror.ErrSubscriptionAlreadyExists)
		return
	}

	priceID := PriceID(cfg.Prices, input.Plan, input.Recurring)
	if priceID == "" {
		apperror.Abort(c, apperror.ErrSubscriptionPlanNotFound)
		return
	}

	customerID, err := ensureCustomer(userID, userEmail)
	if err != nil {
		apperror.Abort(c, err)
		logs.LogJSON("ERROR", "Stripe customer create error", map[string]interface{}{
			"error":  err.Error(),
			"route":  route,
			"userID": userID,
		})
		return
	}

	quantity, err := m.Quantity()
	if err != nil || quantity < 1 {
		quantity = 1
	}

	mode := "subscription"
	if input.Recurring == RecurringLifetime {
		mode = "payment" // paiement unique, pas d'objet subscription côté Stripe
	}

	sessionParams := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(mode),
		Customer:   stripe.String(customerID),
		SuccessURL: stripe.String(fmt.Sprintf("%s/upgrade-success", cfg.BaseURL)),
		CancelURL:  stripe.String(fmt.Sprintf("%s/pricing", cfg.BaseURL)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(quantity),
			},
		},
		Metadata: m.Metadata(input.Recurring),
	}
	if mode == "subscription" {
		sessionParams.SubscriptionData = &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: m.Metadata(input.Recurring),
		}
	}

	// Clé d'idempotence : un double clic ne crée qu'une session
	key := input.IdempotencyKey
	if key == "" {
		key = uuid.NewString()
	}
	sessionParams.SetIdempotencyKey(key)

	createdSession, err := checkoutsession.New(sessionParams)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création session Stripe"})
		logs.LogJSON("ERROR", "Stripe checkout error", map[string]interface{}{
			"error":  err.Error(),
			"route":  route,
			"userID": userID,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": createdSession.URL})
	logs.LogJSON("INFO", "Checkout session created", map[string]interface{}{
		"route":  route,
		"userID": userID,
		"extra":  fmt.Sprintf("Checkout session created : %s %s", input.Plan, input.Recurring),
	})
}

func managerFromRequest(c *gin.Context) (Manager, bool) {
	var input struct {
		Plan        string `json:"plan"`
		WorkspaceID string `json:"workspace_id"`
	}
	if err := c.BindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Requête invalide"})
		return nil, false
	}
	m, err := ManagerFor(input.Plan, c.GetString("user_id"), input.WorkspaceID)
	if err != nil {
		apperror.Abort(c, err)
		return nil, false
	}
	return m, true
}

// CancelSubscription POST /api/subscriptions/cancel
func CancelSubscription(c *gin.Context) {
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	userID := c.GetString("user_id")

	m, ok := managerFromRequest(c)
	if !ok {
		return
	}

	st, err := Cancel(m)
	if err != nil {
		apperror.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"subscription": st})
	logs.LogJSON("INFO", "Subscription canceled", map[string]interface{}{
		"route":  c.FullPath(),
		"userID": userID,
		"extra":  fmt.Sprintf("Subscription canceled : %s", m.Plan()),
	})
}

// ResumeSubscription POST /api/subscriptions/resume
func ResumeSubscription(c *gin.Context) {
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	userID := c.GetString("user_id")

	m, ok := managerFromRequest(c)
	if !ok {
		return
	}

	st, err := Resume(m)
	if err != nil {
		apperror.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"subscription": st})
	logs.LogJSON("INFO", "Subscription resumed", map[string]interface{}{
		"route":  c.FullPath(),
		"userID": userID,
		"extra":  fmt.Sprintf("Subscription resumed : %s", m.Plan()),
	})
}

// UpdateSubscriptionRecurring POST /api/subscriptions/recurring
func UpdateSubscriptionRecurring(c *gin.Context) {
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	userID := c.GetString("user_id")

	var input struct {
		Plan        string `json:"plan"`
		WorkspaceID string `json:"workspace_id"`
		Recurring   string `json:"recurring"`
	}
	if err := c.BindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Requête invalide"})
		return
	}

	m, err := ManagerFor(input.Plan, userID, input.WorkspaceID)
	if err != nil {
		apperror.Abort(c, err)
		return
	}

	prices := config.LoadConfig().Prices
	if err := UpdateRecurring(m, prices, input.Recurring); err != nil {
		apperror.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Récurrence mise à jour"})
	logs.LogJSON("INFO", "Subscription recurring updated", map[string]interface{}{
		"route":  c.FullPath(),
		"userID": userID,
		"extra":  fmt.Sprintf("Recurring updated : %s -> %s", input.Plan, input.Recurring),
	})
}

// GetMySubscriptions GET /api/subscriptions
func GetMySubscriptions(c *gin.Context) {
	userID := c.GetString("user_id")

	var subs []UserSubscription
	if err := database.DB.Where("user_id = ?", userID).Find(&subs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture abonnements"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"subscriptions": subs})
}

// GetWorkspaceSubscription GET /api/workspaces/:workspace_id/subscription
func GetWorkspaceSubscription(c *gin.Context) {
	userID := c.GetString("user_id")
	workspaceID := c.Param("workspace_id")

	// Réservé aux membres acceptés, comme les autres routes d'espace
	ok, err := workspace.IsMember(workspaceID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture membres"})
		return
	}
	if !ok {
		apperror.Abort(c, apperror.ErrNotWorkspaceMember)
		return
	}

	var sub WorkspaceSubscription
	if err := database.DB.Where("workspace_id = ?", workspaceID).First(&sub).Error; err != nil {
		apperror.Abort(c, apperror.ErrSubscriptionNotExists)
		return
	}

	c.JSON(http.StatusOK, gin.H{"subscription": sub})
}

// CustomerPortal POST /api/subscriptions/portal
// Lien vers le portail client Stripe (moyens de paiement, factures)
func CustomerPortal(c *gin.Context) {
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	userID := c.GetString("user_id")
	cfg := config.LoadConfig()

	u, err := user.FindByID(userID)
	if err != nil || u == nil || u.StripeCustomerID == "" {
		apperror.Abort(c, apperror.ErrSubscriptionNotExists)
		return
	}

	portal, err := session.New(&stripe.BillingPortalSessionParams{
		Customer:  stripe.String(u.StripeCustomerID),
		ReturnURL: stripe.String(fmt.Sprintf("%s/settings/billing", cfg.BaseURL)),
	})
	if err != nil {
		apperror.Abort(c, apperror.ErrCustomerPortalFailed)
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": portal.URL})
}
