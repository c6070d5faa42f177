package subscription

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v78"
	stripesub "github.com/stripe/stripe-go/v78/subscription"
	"github.com/stripe/stripe-go/v78/subscriptionschedule"
	"gorm.io/gorm"

	"github.com/scottstamp/AFFiNE/internal/apperror"
	"github.com/scottstamp/AFFiNE/internal/config"
	"github.com/scottstamp/AFFiNE/internal/database"
	"github.com/scottstamp/AFFiNE/internal/workspace"
)

// Statuts considérés comme "en cours" pour la gestion d'abonnement
var liveStatuses = []string{StatusActive, StatusTrialing, StatusPastDue}

// Manager : stratégie commune entre abonnement personnel (pro/ai)
// et abonnement d'équipe (workspace)
type Manager interface {
	Plan() string
	// Active renvoie l'état en cours, nil si aucun
	Active() (*StripeState, error)
	// Save upsert la ligne locale depuis l'état Stripe
	Save(st StripeState) error
	// Metadata embarquée dans la session checkout, relue par le webhook
	Metadata(recurring string) map[string]string
	// Quantity : sièges facturés (1 hors team)
	Quantity() (int64, error)
}

// ManagerFor dispatch selon l'offre demandée
func ManagerFor(plan, userID, workspaceID string) (Manager, error) {
	switch plan {
	case PlanPro, PlanAI:
		return &userManager{userID: userID, plan: plan}, nil
	case PlanTeam:
		if workspaceID == "" {
			return nil, apperror.ErrWorkspaceNotFound
		}
		return &teamManager{workspaceID: workspaceID, userID: userID}, nil
	default:
		return nil, apperror.ErrSubscriptionPlanNotFound
	}
}

type userManager struct {
	userID string
	plan   string
}

func (m *userManager) Plan() string { return m.plan }

func (m *userManager) Active() (*StripeState, error) {
	var row UserSubscription
	err := database.DB.
		Where("user_id = ? AND plan = ? AND status IN ?", m.userID, m.plan, liveStatuses).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row.StripeState, nil
}

func (m *userManager) Save(st StripeState) error {
	var row UserSubscription
	err := database.DB.
		Where("user_id = ? AND plan = ?", m.userID, m.plan).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return database.DB.Create(&UserSubscription{
			ID:          uuid.NewString(),
			CreatedAt:   time.Now(),
			UserID:      m.userID,
			Plan:        m.plan,
			StripeState: st,
		}).Error
	}
	if err != nil {
		return err
	}
	row.StripeState = st
	return database.DB.Save(&row).Error
}

func (m *userManager) Metadata(recurring string) map[string]string {
	return map[string]string{
		"user_id":   m.userID,
		"plan":      m.plan,
		"recurring": recurring,
	}
}

func (m *userManager) Quantity() (int64, error) { return 1, nil }

type teamManager struct {
	workspaceID string
	userID      string
}

func (m *teamManager) Plan() string { return PlanTeam }

func (m *teamManager) Active() (*StripeState, error) {
	var row WorkspaceSubscription
	err := database.DB.
		Where("workspace_id = ? AND status IN ?", m.workspaceID, liveStatuses).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row.StripeState, nil
}

func (m *teamManager) Save(st StripeState) error {
	seats, err := m.Quantity()
	if err != nil {
		seats = 1
	}

	var row WorkspaceSubscription
	err = database.DB.
		Where("workspace_id = ?", m.workspaceID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return database.DB.Create(&WorkspaceSubscription{
			ID:          uuid.NewString(),
			CreatedAt:   time.Now(),
			WorkspaceID: m.workspaceID,
			Plan:        PlanTeam,
			Quantity:    seats,
			StripeState: st,
		}).Error
	}
	if err != nil {
		return err
	}
	row.StripeState = st
	row.Quantity = seats
	return database.DB.Save(&row).Error
}

func (m *teamManager) Metadata(recurring string) map[string]string {
	return map[string]string{
		"user_id":      m.userID,
		"workspace_id": m.workspaceID,
		"plan":         PlanTeam,
		"recurring":    recurring,
	}
}

func (m *teamManager) Quantity() (int64, error) {
	return workspace.MemberCount(m.workspaceID)
}

// Cancel programme l'annulation en fin de période et reflète l'état en local
func Cancel(m Manager) (*StripeState, error) {
	st, err := m.Active()
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, apperror.ErrSubscriptionNotExists
	}
	if st.Recurring == RecurringLifetime {
		return nil, apperror.ErrCantUpdateOnetimePayment
	}
	if st.CancelAtPeriodEnd {
		return nil, apperror.ErrSubscriptionHasBeenCanceled
	}

	updated, err := stripesub.Update(st.StripeSubscriptionID, &stripe.SubscriptionParams{
		CancelAtPeriodEnd: stripe.Bool(true),
	})
	if err != nil {
		return nil, err
	}

	newState := StateFromStripe(updated)
	if err := m.Save(newState); err != nil {
		return nil, err
	}
	return &newState, nil
}

// Resume annule la demande d'annulation, tant que la période court encore
func Resume(m Manager) (*StripeState, error) {
	st, err := m.Active()
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, apperror.ErrSubscriptionNotExists
	}
	if !st.CancelAtPeriodEnd {
		return nil, apperror.ErrSubscriptionNotCanceled
	}
	if time.Now().After(st.PeriodEnd) {
		return nil, apperror.ErrSubscriptionExpired
	}

	updated, err := stripesub.Update(st.StripeSubscriptionID, &stripe.SubscriptionParams{
		CancelAtPeriodEnd: stripe.Bool(false),
	})
	if err != nil {
		return nil, err
	}

	newState := StateFromStripe(updated)
	if err := m.Save(newState); err != nil {
		return nil, err
	}
	return &newState, nil
}

// UpdateRecurring bascule mensuel/annuel via un subscription schedule :
// le nouveau tarif prend effet à la fin de la période en cours
func UpdateRecurring(m Manager, prices config.StripePrices, newRecurring string) error {
	st, err := m.Active()
	if err != nil {
		return err
	}
	if st == nil {
		return apperror.ErrSubscriptionNotExists
	}
	if st.Recurring == RecurringLifetime || newRecurring == RecurringLifetime {
		return apperror.ErrCantUpdateOnetimePayment
	}
	if st.Recurring == newRecurring {
		return apperror.ErrSameSubscriptionRecurring
	}

	newPriceID := PriceID(prices, m.Plan(), newRecurring)
	if newPriceID == "" {
		return apperror.ErrSubscriptionPlanNotFound
	}
	currentPriceID := PriceID(prices, m.Plan(), st.Recurring)

	scheduleID := st.StripeScheduleID
	if scheduleID == "" {
		sched, err := subscriptionschedule.New(&stripe.SubscriptionScheduleParams{
			FromSubscription: stripe.String(st.StripeSubscriptionID),
		})
		if err != nil {
			return err
		}
		scheduleID = sched.ID
	}

	quantity, err := m.Quantity()
	if err != nil {
		quantity = 1
	}

	// Phase courante inchangée, nouveau tarif à partir de la fin de période
	_, err = subscriptionschedule.Update(scheduleID, &stripe.SubscriptionScheduleParams{
		Phases: []*stripe.SubscriptionSchedulePhaseParams{
			{
				Items: []*stripe.SubscriptionSchedulePhaseItemParams{
					{Price: stripe.String(currentPriceID), Quantity: stripe.Int64(quantity)},
				},
				StartDate: stripe.Int64(st.PeriodStart.Unix()),
				EndDate:   stripe.Int64(st.PeriodEnd.Unix()),
			},
			{
				Items: []*stripe.SubscriptionSchedulePhaseItemParams{
					{Price: stripe.String(newPriceID), Quantity: stripe.Int64(quantity)},
				},
			},
		},
	})
	if err != nil {
		return err
	}

	st.StripeScheduleID = scheduleID
	st.Recurring = newRecurring
	return m.Save(*st)
}
