package workspace

import "time"

type Workspace struct {
	ID        string `gorm:"primaryKey"`
	CreatedAt time.Time
	Name      string
	OwnerID   string `gorm:"index"`
	IsTeam    bool
}

// Rôles des membres
const (
	RoleOwner = "owner"
	RoleAdmin = "admin"
	RoleWrite = "write"
	RoleRead  = "read"
)

// Statuts d'invitation
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
)

type WorkspaceMember struct {
	ID          string `gorm:"primaryKey"`
	CreatedAt   time.Time
	WorkspaceID string `gorm:"index:idx_member_workspace_user,unique"`
	UserID      string `gorm:"index:idx_member_workspace_user,unique"`
	Role        string
	Status      string
}

// Features activables par espace (team_plan_v1, unlimited_workspace…)
type WorkspaceFeature struct {
	ID          string `gorm:"primaryKey"`
	CreatedAt   time.Time
	WorkspaceID string `gorm:"index:idx_feature_workspace_name,unique"`
	Name        string `gorm:"index:idx_feature_workspace_name,unique"`
	Activated   bool
}

const (
	FeatureTeamPlan  = "team_plan_v1"
	FeatureUnlimited = "unlimited_workspace"
)
