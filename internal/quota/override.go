package quota

import "context"

// Snapshot : état d'un espace au moment du calcul, chargé une seule fois
// puis passé à chaque override de la chaîne.
type Snapshot struct {
	WorkspaceID string
	OwnerPlan   string          // plan actif du propriétaire (free/pro/ai)
	TeamPlan    bool            // abonnement team actif sur l'espace
	Seats       int64           // membres acceptés
	Features    map[string]bool // features activées (workspace_features)
}

// Override : transformation optionnelle du quota calculé.
// Les overrides sont appliqués strictement dans l'ordre d'enregistrement.
type Override interface {
	Name() string
	Apply(ctx context.Context, snap Snapshot, q Quota) Quota
}

// TeamPlanOverride : un espace avec abonnement team actif passe sur le
// quota team avec stockage proportionnel au nombre de sièges
type TeamPlanOverride struct{}

func (TeamPlanOverride) Name() string { return "team_plan_v1" }

func (TeamPlanOverride) Apply(_ context.Context, snap Snapshot, q Quota) Quota {
	if !snap.TeamPlan && !snap.Features["team_plan_v1"] {
		return q
	}
	team := BasePlan("team")
	seats := snap.Seats
	if seats < 1 {
		seats = 1
	}
	team.StorageQuota += seats * TeamSeatStorage
	team.MemberLimit = 0 // illimité
	return team
}

// UnlimitedOverride : feature interne, lève toutes les limites de l'espace
type UnlimitedOverride struct{}

func (UnlimitedOverride) Name() string { return "unlimited_workspace" }

func (UnlimitedOverride) Apply(_ context.Context, snap Snapshot, q Quota) Quota {
	if !snap.Features["unlimited_workspace"] {
		return q
	}
	q.Name = q.Name + " (illimité)"
	q.StorageQuota = 1 << 50
	q.BlobLimit = 1 << 40
	q.MemberLimit = 0
	q.HistoryDays = 365
	return q
}
