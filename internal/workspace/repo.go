package workspace

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/scottstamp/AFFiNE/internal/database"
)

func FindByID(id string) (*Workspace, error) {
	var ws Workspace
	if err := database.DB.First(&ws, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ws, nil
}

// MemberCount compte les membres acceptés (sert au quota et au nombre de sièges)
func MemberCount(workspaceID string) (int64, error) {
	var count int64
	err := database.DB.Model(&WorkspaceMember{}).
		Where("workspace_id = ? AND status = ?", workspaceID, StatusAccepted).
		Count(&count).Error
	return count, err
}

func IsMember(workspaceID, userID string) (bool, error) {
	var count int64
	err := database.DB.Model(&WorkspaceMember{}).
		Where("workspace_id = ? AND user_id = ? AND status = ?", workspaceID, userID, StatusAccepted).
		Count(&count).Error
	return count > 0, err
}

// SetTeam marque l'espace comme espace d'équipe (abonnement team en cours)
func SetTeam(workspaceID string, team bool) error {
	return database.DB.Model(&Workspace{}).
		Where("id = ?", workspaceID).
		Update("is_team", team).Error
}

// SetFeature active ou désactive une feature d'espace (upsert)
func SetFeature(workspaceID, name string, activated bool) error {
	var feature WorkspaceFeature
	err := database.DB.
		Where("workspace_id = ? AND name = ?", workspaceID, name).
		First(&feature).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return database.DB.Create(&WorkspaceFeature{
			ID:          uuid.NewString(),
			CreatedAt:   time.Now(),
			WorkspaceID: workspaceID,
			Name:        name,
			Activated:   activated,
		}).Error
	}
	if err != nil {
		return err
	}
	feature.Activated = activated
	return database.DB.Save(&feature).Error
}

// HasFeature renvoie true si la feature est activée pour l'espace
func HasFeature(workspaceID, name string) (bool, error) {
	var count int64
	err := database.DB.Model(&WorkspaceFeature{}).
		Where("workspace_id = ? AND name = ? AND activated = true", workspaceID, name).
		Count(&count).Error
	return count > 0, err
}
