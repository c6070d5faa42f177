package invoice

import "time"

// Invoice : reflet local des factures Stripe, alimenté par webhook
type Invoice struct {
	StripeInvoiceID string `gorm:"primaryKey"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
	UserID          string `gorm:"index"`
	WorkspaceID     string `gorm:"index"`
	Plan            string
	Recurring       string
	Currency        string
	Amount          int64
	Status          string
	Reason          string
	Link            string
}
