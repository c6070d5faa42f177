package quota

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeOverrideChain(t *testing.T) {
	svc := NewService()
	ctx := context.Background()

	tests := []struct {
		name            string
		snap            Snapshot
		expectedName    string
		expectedStorage int64
		expectedMembers int64
	}{
		{
			name:            "Free sans override",
			snap:            Snapshot{OwnerPlan: "free", Features: map[string]bool{}},
			expectedName:    "Free",
			expectedStorage: 10 * GiB,
			expectedMembers: 3,
		},
		{
			name:            "Pro sans override",
			snap:            Snapshot{OwnerPlan: "pro", Features: map[string]bool{}},
			expectedName:    "Pro",
			expectedStorage: 100 * GiB,
			expectedMembers: 10,
		},
		{
			name: "Team : stockage proportionnel aux sièges",
			snap: Snapshot{
				OwnerPlan: "free",
				TeamPlan:  true,
				Seats:     5,
				Features:  map[string]bool{},
			},
			expectedName:    "Team",
			expectedStorage: 100*GiB + 5*TeamSeatStorage,
			expectedMembers: 0,
		},
		{
			name: "Team via feature sans abonnement",
			snap: Snapshot{
				OwnerPlan: "pro",
				Seats:     2,
				Features:  map[string]bool{"team_plan_v1": true},
			},
			expectedName:    "Team",
			expectedStorage: 100*GiB + 2*TeamSeatStorage,
			expectedMembers: 0,
		},
		{
			name: "Team avec zéro siège compte un siège",
			snap: Snapshot{
				OwnerPlan: "free",
				TeamPlan:  true,
				Seats:     0,
				Features:  map[string]bool{},
			},
			expectedName:    "Team",
			expectedStorage: 100*GiB + TeamSeatStorage,
			expectedMembers: 0,
		},
		{
			name: "Unlimited prime sur le plan de base",
			snap: Snapshot{
				OwnerPlan: "free",
				Features:  map[string]bool{"unlimited_workspace": true},
			},
			expectedName:    "Free (illimité)",
			expectedStorage: 1 << 50,
			expectedMembers: 0,
		},
		{
			name: "Unlimited appliqué après team",
			snap: Snapshot{
				OwnerPlan: "free",
				TeamPlan:  true,
				Seats:     3,
				Features:  map[string]bool{"unlimited_workspace": true},
			},
			expectedName:    "Team (illimité)",
			expectedStorage: 1 << 50,
			expectedMembers: 0,
		},
		{
			name:            "Plan inconnu retombe sur free",
			snap:            Snapshot{OwnerPlan: "platinum", Features: map[string]bool{}},
			expectedName:    "Free",
			expectedStorage: 10 * GiB,
			expectedMembers: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := svc.Compute(ctx, tt.snap)
			assert.Equal(t, tt.expectedName, q.Name)
			assert.Equal(t, tt.expectedStorage, q.StorageQuota)
			assert.Equal(t, tt.expectedMembers, q.MemberLimit)
		})
	}
}

func TestRegisterOrder(t *testing.T) {
	// L'ordre d'enregistrement est l'ordre d'application
	svc := &Service{}
	svc.Register(UnlimitedOverride{})
	svc.Register(TeamPlanOverride{})

	snap := Snapshot{
		OwnerPlan: "free",
		TeamPlan:  true,
		Seats:     2,
		Features:  map[string]bool{"unlimited_workspace": true},
	}
	q := svc.Compute(context.Background(), snap)

	// Team appliqué en dernier écrase le résultat d'unlimited
	assert.Equal(t, "Team", q.Name)
	assert.Equal(t, 100*GiB+2*TeamSeatStorage, q.StorageQuota)
}
