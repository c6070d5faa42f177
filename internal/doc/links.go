package doc

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/scottstamp/AFFiNE/internal/database"
)

// normalizeTargets déduplique les cibles et ignore l'auto-lien
func normalizeTargets(fromGuid string, targets []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, t := range targets {
		if t == "" || t == fromGuid || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// ReplaceLinks remplace les liens sortants d'un doc de façon atomique
func ReplaceLinks(workspaceID, fromGuid string, targets []string) error {
	targets = normalizeTargets(fromGuid, targets)

	return database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("workspace_id = ? AND from_guid = ?", workspaceID, fromGuid).
			Delete(&DocLink{}).Error; err != nil {
			return err
		}
		for _, target := range targets {
			link := DocLink{
				ID:          uuid.NewString(),
				CreatedAt:   time.Now(),
				WorkspaceID: workspaceID,
				FromGuid:    fromGuid,
				ToGuid:      target,
			}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Links : liens sortants d'un doc
func Links(workspaceID, fromGuid string) ([]DocLink, error) {
	var links []DocLink
	err := database.DB.
		Where("workspace_id = ? AND from_guid = ?", workspaceID, fromGuid).
		Find(&links).Error
	return links, err
}

// Backlinks : docs qui pointent vers celui-ci
func Backlinks(workspaceID, toGuid string) ([]DocLink, error) {
	var links []DocLink
	err := database.DB.
		Where("workspace_id = ? AND to_guid = ?", workspaceID, toGuid).
		Find(&links).Error
	return links, err
}

// DeleteDoc supprime le doc et ses liens dans les deux sens
func DeleteDoc(workspaceID, guid string) error {
	return database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("workspace_id = ? AND (from_guid = ? OR to_guid = ?)", workspaceID, guid, guid).
			Delete(&DocLink{}).Error; err != nil {
			return err
		}
		return tx.
			Where("workspace_id = ? AND guid = ?", workspaceID, guid).
			Delete(&Doc{}).Error
	})
}
