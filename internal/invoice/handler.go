package invoice

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v78"
	"gorm.io/gorm"

	"github.com/scottstamp/AFFiNE/internal/database"
)

// SaveFromStripe upsert la facture locale depuis l'objet Stripe
func SaveFromStripe(in *stripe.Invoice) error {
	var metadata map[string]string
	if in.SubscriptionDetails != nil && in.SubscriptionDetails.Metadata != nil {
		metadata = in.SubscriptionDetails.Metadata
	} else {
		metadata = in.Metadata
	}

	row := Invoice{
		StripeInvoiceID: in.ID,
		UserID:          metadata["user_id"],
		WorkspaceID:     metadata["workspace_id"],
		Plan:            metadata["plan"],
		Recurring:       metadata["recurring"],
		Currency:        string(in.Currency),
		Amount:          in.AmountPaid,
		Status:          string(in.Status),
		Reason:          string(in.BillingReason),
		Link:            in.HostedInvoiceURL,
	}
	if in.AmountPaid == 0 {
		row.Amount = in.AmountDue
	}

	var existing Invoice
	err := database.DB.First(&existing, "stripe_invoice_id = ?", in.ID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row.CreatedAt = time.Now()
		return database.DB.Create(&row).Error
	}
	if err != nil {
		return err
	}
	row.CreatedAt = existing.CreatedAt
	return database.DB.Save(&row).Error
}

// ListInvoices GET /api/invoices
func ListInvoices(c *gin.Context) {
	userID := c.GetString("user_id")

	var invoices []Invoice
	err := database.DB.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&invoices).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture factures"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"invoices": invoices})
}
