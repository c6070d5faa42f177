package quota

import (
	"context"
	"time"

	"github.com/scottstamp/AFFiNE/internal/database"
	"github.com/scottstamp/AFFiNE/internal/logs"
)

// Service : chaîne ordonnée d'overrides appliquée sur le quota de base
type Service struct {
	overrides []Override
}

// NewService enregistre les overrides intégrés, dans l'ordre d'application
func NewService() *Service {
	s := &Service{}
	s.Register(TeamPlanOverride{})
	s.Register(UnlimitedOverride{})
	return s
}

func (s *Service) Register(o Override) {
	s.overrides = append(s.overrides, o)
}

// Compute applique la chaîne d'overrides sur le quota de base du snapshot
func (s *Service) Compute(ctx context.Context, snap Snapshot) Quota {
	q := BasePlan(snap.OwnerPlan)
	for _, o := range s.overrides {
		q = o.Apply(ctx, snap, q)
	}
	return q
}

// Default : service utilisé par les handlers
var Default = NewService()

// loadSnapshot charge l'état de l'espace en une passe.
// Requêtes Table() directes pour éviter d'importer les packages métier.
func loadSnapshot(workspaceID string) (Snapshot, error) {
	snap := Snapshot{
		WorkspaceID: workspaceID,
		OwnerPlan:   "free",
		Features:    map[string]bool{},
	}

	var ws struct {
		OwnerID string
	}
	if err := database.DB.Table("workspaces").Select("owner_id").
		Where("id = ?", workspaceID).Scan(&ws).Error; err != nil {
		return snap, err
	}

	// Plan actif du propriétaire
	var sub struct {
		Plan string
	}
	if err := database.DB.Table("user_subscriptions").Select("plan").
		Where("user_id = ? AND status IN ?", ws.OwnerID, []string{"active", "trialing"}).
		Order("created_at DESC").Limit(1).Scan(&sub).Error; err != nil {
		return snap, err
	}
	if sub.Plan != "" {
		snap.OwnerPlan = sub.Plan
	}

	// Abonnement team de l'espace
	var teamCount int64
	if err := database.DB.Table("workspace_subscriptions").
		Where("workspace_id = ? AND status IN ?", workspaceID, []string{"active", "trialing"}).
		Count(&teamCount).Error; err != nil {
		return snap, err
	}
	snap.TeamPlan = teamCount > 0

	// Sièges (membres acceptés)
	if err := database.DB.Table("workspace_members").
		Where("workspace_id = ? AND status = ?", workspaceID, "accepted").
		Count(&snap.Seats).Error; err != nil {
		return snap, err
	}

	// Features activées
	var features []struct {
		Name string
	}
	if err := database.DB.Table("workspace_features").Select("name").
		Where("workspace_id = ? AND activated = true", workspaceID).
		Scan(&features).Error; err != nil {
		return snap, err
	}
	for _, f := range features {
		snap.Features[f.Name] = true
	}

	return snap, nil
}

// ForWorkspace : quota effectif d'un espace, avec cache Redis court
func ForWorkspace(ctx context.Context, workspaceID string) (Quota, error) {
	if q, ok := cacheGet(ctx, workspaceID); ok {
		return q, nil
	}

	snap, err := loadSnapshot(workspaceID)
	if err != nil {
		return Quota{}, err
	}
	q := Default.Compute(ctx, snap)

	cacheSet(ctx, workspaceID, q, 5*time.Minute)
	return q, nil
}

// ForUser : quota personnel selon le plan actif de l'utilisateur
func ForUser(userID string) (Quota, error) {
	var sub struct {
		Plan string
	}
	err := database.DB.Table("user_subscriptions").Select("plan").
		Where("user_id = ? AND status IN ?", userID, []string{"active", "trialing"}).
		Order("created_at DESC").Limit(1).Scan(&sub).Error
	if err != nil {
		return Quota{}, err
	}
	plan := sub.Plan
	if plan == "" {
		plan = "free"
	}
	return BasePlan(plan), nil
}

// UsedStorage : octets stockés par l'espace (somme des blobs)
func UsedStorage(workspaceID string) (int64, error) {
	var used struct {
		Total int64
	}
	err := database.DB.Table("blobs").
		Select("COALESCE(SUM(size), 0) AS total").
		Where("workspace_id = ?", workspaceID).
		Scan(&used).Error
	return used.Total, err
}

// Invalidate purge le cache après un changement d'abonnement,
// de feature ou de membres
func Invalidate(ctx context.Context, workspaceID string) {
	if err := cacheDel(ctx, workspaceID); err != nil {
		logs.LogJSON("WARN", "Quota cache invalidation failed", map[string]interface{}{
			"error":       err.Error(),
			"workspaceID": workspaceID,
		})
	}
}
