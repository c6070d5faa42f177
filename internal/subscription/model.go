package subscription

import "time"

// Offres
const (
	PlanFree = "free"
	PlanPro  = "pro"
	PlanAI   = "ai"
	PlanTeam = "team"
)

// Récurrences
const (
	RecurringMonthly  = "monthly"
	RecurringYearly   = "yearly"
	RecurringLifetime = "lifetime"
)

// Statuts, alignés sur ceux de Stripe
const (
	StatusActive            = "active"
	StatusTrialing          = "trialing"
	StatusPastDue           = "past_due"
	StatusUnpaid            = "unpaid"
	StatusCanceled          = "canceled"
	StatusPaused            = "paused"
	StatusIncomplete        = "incomplete"
	StatusIncompleteExpired = "incomplete_expired"
)

// StripeState : partie de l'abonnement synchronisée depuis Stripe.
// Stripe est la source de vérité, ces colonnes ne sont qu'un cache
// réconcilié par webhook et par le job de resync.
type StripeState struct {
	Recurring            string
	Status               string
	StripeSubscriptionID string `gorm:"index"`
	StripeScheduleID     string
	PeriodStart          time.Time
	PeriodEnd            time.Time
	TrialStart           *time.Time
	TrialEnd             *time.Time
	CancelAtPeriodEnd    bool
	CanceledAt           *time.Time
}

type UserSubscription struct {
	ID        string `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	UserID    string `gorm:"index:idx_user_sub_plan,unique"`
	// Un seul abonnement par (utilisateur, offre)
	Plan        string `gorm:"index:idx_user_sub_plan,unique"`
	StripeState `gorm:"embedded"`
}

type WorkspaceSubscription struct {
	ID          string `gorm:"primaryKey"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	WorkspaceID string `gorm:"uniqueIndex"`
	Plan        string // toujours "team"
	Quantity    int64  // sièges facturés
	StripeState `gorm:"embedded"`
}
