package subscription

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/scottstamp/AFFiNE/internal/apperror"
	"github.com/scottstamp/AFFiNE/internal/config"
	"github.com/scottstamp/AFFiNE/internal/database"
)

// fakeManager : stratégie en mémoire pour tester les garde-fous
// sans appeler Stripe ni la base
type fakeManager struct {
	plan  string
	state *StripeState
	saved *StripeState
}

func (m *fakeManager) Plan() string                  { return m.plan }
func (m *fakeManager) Active() (*StripeState, error) { return m.state, nil }
func (m *fakeManager) Save(st StripeState) error     { m.saved = &st; return nil }
func (m *fakeManager) Quantity() (int64, error)      { return 1, nil }
func (m *fakeManager) Metadata(r string) map[string]string {
	return map[string]string{"plan": m.plan, "recurring": r}
}

func TestCancelGuards(t *testing.T) {
	tests := []struct {
		name        string
		state       *StripeState
		expectedErr error
	}{
		{
			name:        "Aucun abonnement",
			state:       nil,
			expectedErr: apperror.ErrSubscriptionNotExists,
		},
		{
			name: "Déjà annulé",
			state: &StripeState{
				Recurring:         RecurringMonthly,
				Status:            StatusActive,
				CancelAtPeriodEnd: true,
			},
			expectedErr: apperror.ErrSubscriptionHasBeenCanceled,
		},
		{
			name: "Paiement à vie",
			state: &StripeState{
				Recurring: RecurringLifetime,
				Status:    StatusActive,
			},
			expectedErr: apperror.ErrCantUpdateOnetimePayment,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &fakeManager{plan: PlanPro, state: tt.state}
			_, err := Cancel(m)
			assert.ErrorIs(t, err, tt.expectedErr)
			assert.Nil(t, m.saved)
		})
	}
}

func TestResumeGuards(t *testing.T) {
	tests := []struct {
		name        string
		state       *StripeState
		expectedErr error
	}{
		{
			name:        "Aucun abonnement",
			state:       nil,
			expectedErr: apperror.ErrSubscriptionNotExists,
		},
		{
			name: "Pas annulé",
			state: &StripeState{
				Recurring: RecurringMonthly,
				Status:    StatusActive,
			},
			expectedErr: apperror.ErrSubscriptionNotCanceled,
		},
		{
			name: "Période déjà terminée",
			state: &StripeState{
				Recurring:         RecurringMonthly,
				Status:            StatusActive,
				CancelAtPeriodEnd: true,
				PeriodEnd:         time.Now().Add(-24 * time.Hour),
			},
			expectedErr: apperror.ErrSubscriptionExpired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &fakeManager{plan: PlanPro, state: tt.state}
			_, err := Resume(m)
			assert.ErrorIs(t, err, tt.expectedErr)
		})
	}
}

func TestUpdateRecurringGuards(t *testing.T) {
	prices := config.StripePrices{
		ProMonthly: "price_pro_m",
		ProYearly:  "price_pro_y",
	}

	tests := []struct {
		name         string
		state        *StripeState
		newRecurring string
		expectedErr  error
	}{
		{
			name:         "Aucun abonnement",
			state:        nil,
			newRecurring: RecurringYearly,
			expectedErr:  apperror.ErrSubscriptionNotExists,
		},
		{
			name: "Même récurrence",
			state: &StripeState{
				Recurring: RecurringMonthly,
				Status:    StatusActive,
			},
			newRecurring: RecurringMonthly,
			expectedErr:  apperror.ErrSameSubscriptionRecurring,
		},
		{
			name: "Depuis un paiement à vie",
			state: &StripeState{
				Recurring: RecurringLifetime,
				Status:    StatusActive,
			},
			newRecurring: RecurringMonthly,
			expectedErr:  apperror.ErrCantUpdateOnetimePayment,
		},
		{
			name: "Vers un paiement à vie",
			state: &StripeState{
				Recurring: RecurringMonthly,
				Status:    StatusActive,
			},
			newRecurring: RecurringLifetime,
			expectedErr:  apperror.ErrCantUpdateOnetimePayment,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &fakeManager{plan: PlanPro, state: tt.state}
			err := UpdateRecurring(m, prices, tt.newRecurring)
			assert.ErrorIs(t, err, tt.expectedErr)
		})
	}
}

func TestManagerForDispatch(t *testing.T) {
	m, err := ManagerFor(PlanPro, "user1", "")
	assert.NoError(t, err)
	assert.IsType(t, &userManager{}, m)
	assert.Equal(t, PlanPro, m.Plan())

	m, err = ManagerFor(PlanTeam, "user1", "ws1")
	assert.NoError(t, err)
	assert.IsType(t, &teamManager{}, m)
	assert.Equal(t, PlanTeam, m.Plan())

	_, err = ManagerFor(PlanTeam, "user1", "")
	assert.ErrorIs(t, err, apperror.ErrWorkspaceNotFound)

	_, err = ManagerFor("platinum", "user1", "")
	assert.ErrorIs(t, err, apperror.ErrSubscriptionPlanNotFound)
}

func TestUserManagerActive(t *testing.T) {
	// Setup mock database
	mockDB, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer mockDB.Close()

	dialector := postgres.New(postgres.Config{
		Conn:                 mockDB,
		DriverName:           "postgres",
		PreferSimpleProtocol: true,
	})

	db, err := gorm.Open(dialector, &gorm.Config{})
	assert.NoError(t, err)

	originalDB := database.DB
	database.DB = db
	defer func() { database.DB = originalDB }()

	columns := []string{"id", "user_id", "plan", "recurring", "status",
		"stripe_subscription_id", "cancel_at_period_end"}

	t.Run("Abonnement actif trouvé", func(t *testing.T) {
		mock.ExpectQuery(`SELECT`).WillReturnRows(
			sqlmock.NewRows(columns).
				AddRow("sub1", "user1", PlanPro, RecurringMonthly, StatusActive, "sub_stripe_1", false))

		m := &userManager{userID: "user1", plan: PlanPro}
		st, err := m.Active()
		assert.NoError(t, err)
		assert.NotNil(t, st)
		assert.Equal(t, "sub_stripe_1", st.StripeSubscriptionID)
		assert.Equal(t, StatusActive, st.Status)
	})

	t.Run("Aucune ligne", func(t *testing.T) {
		mock.ExpectQuery(`SELECT`).WillReturnRows(sqlmock.NewRows(columns))

		m := &userManager{userID: "user1", plan: PlanAI}
		st, err := m.Active()
		assert.NoError(t, err)
		assert.Nil(t, st)
	})
}
