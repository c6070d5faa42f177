package doc

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/scottstamp/AFFiNE/internal/apperror"
	"github.com/scottstamp/AFFiNE/internal/database"
	"github.com/scottstamp/AFFiNE/internal/logs"
)

// requireMember vérifie que l'utilisateur est membre accepté de l'espace
func requireMember(c *gin.Context, workspaceID string) bool {
	userID := c.GetString("user_id")

	var count int64
	if err := database.DB.Table("workspace_members").
		Where("workspace_id = ? AND user_id = ? AND status = ?", workspaceID, userID, "accepted").
		Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture membres"})
		return false
	}
	if count == 0 {
		apperror.Abort(c, apperror.ErrNotWorkspaceMember)
		return false
	}
	return true
}

// UpsertDoc PUT /api/workspaces/:workspace_id/docs/:guid
func UpsertDoc(c *gin.Context) {
	route := c.FullPath()
	userID := c.GetString("user_id")
	workspaceID := c.Param("workspace_id")
	guid := c.Param("guid")

	if !requireMember(c, workspaceID) {
		return
	}

	var input struct {
		Title       string   `json:"title"`
		Summary     string   `json:"summary"`
		JournalDate string   `json:"journal_date"` // YYYY-MM-DD
		Links       []string `json:"links"`
	}
	if err := c.BindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Requête invalide"})
		return
	}

	var journalDate *time.Time
	if input.JournalDate != "" {
		d, err := time.Parse("2006-01-02", input.JournalDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Format de date invalide pour journal_date"})
			return
		}
		journalDate = &d
	}

	var existing Doc
	err := database.DB.
		Where("workspace_id = ? AND guid = ?", workspaceID, guid).
		First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		existing = Doc{
			ID:          uuid.NewString(),
			CreatedAt:   time.Now(),
			WorkspaceID: workspaceID,
			Guid:        guid,
			Title:       input.Title,
			Summary:     input.Summary,
			JournalDate: journalDate,
		}
		if err := database.DB.Create(&existing).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création document"})
			return
		}
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture document"})
		return
	} else {
		existing.Title = input.Title
		existing.Summary = input.Summary
		existing.JournalDate = journalDate
		if err := database.DB.Save(&existing).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour document"})
			return
		}
	}

	// Les liens sortants accompagnent chaque sauvegarde
	if input.Links != nil {
		if err := ReplaceLinks(workspaceID, guid, input.Links); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour des liens"})
			logs.LogJSON("ERROR", "Doc links update error", map[string]interface{}{
				"error":  err.Error(),
				"route":  route,
				"userID": userID,
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"doc": existing})
}

// GetDoc GET /api/workspaces/:workspace_id/docs/:guid
func GetDoc(c *gin.Context) {
	workspaceID := c.Param("workspace_id")
	guid := c.Param("guid")

	if !requireMember(c, workspaceID) {
		return
	}

	var d Doc
	if err := database.DB.
		Where("workspace_id = ? AND guid = ?", workspaceID, guid).
		First(&d).Error; err != nil {
		apperror.Abort(c, apperror.ErrDocNotFound)
		return
	}

	links, err := Links(workspaceID, guid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture liens"})
		return
	}
	backlinks, err := Backlinks(workspaceID, guid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture backlinks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"doc":       d,
		"links":     links,
		"backlinks": backlinks,
	})
}

// GetBacklinks GET /api/workspaces/:workspace_id/docs/:guid/backlinks
func GetBacklinks(c *gin.Context) {
	workspaceID := c.Param("workspace_id")
	guid := c.Param("guid")

	if !requireMember(c, workspaceID) {
		return
	}

	backlinks, err := Backlinks(workspaceID, guid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture backlinks"})
		return
	}

	// On joint les titres des docs sources pour l'affichage
	guids := make([]string, 0, len(backlinks))
	for _, l := range backlinks {
		guids = append(guids, l.FromGuid)
	}
	var sources []Doc
	if len(guids) > 0 {
		if err := database.DB.
			Where("workspace_id = ? AND guid IN ?", workspaceID, guids).
			Find(&sources).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture documents"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"backlinks": backlinks,
		"sources":   sources,
	})
}

// GetJournal GET /api/workspaces/:workspace_id/journal?date=YYYY-MM-DD
func GetJournal(c *gin.Context) {
	workspaceID := c.Param("workspace_id")

	if !requireMember(c, workspaceID) {
		return
	}

	dateStr := c.Query("date")
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Format de date invalide pour date"})
		return
	}

	var docs []Doc
	if err := database.DB.
		Where("workspace_id = ? AND journal_date = ?", workspaceID, date).
		Find(&docs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture journal"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"docs": docs})
}

// RemoveDoc DELETE /api/workspaces/:workspace_id/docs/:guid
func RemoveDoc(c *gin.Context) {
	workspaceID := c.Param("workspace_id")
	guid := c.Param("guid")

	if !requireMember(c, workspaceID) {
		return
	}

	if err := DeleteDoc(workspaceID, guid); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression document"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Document supprimé"})
}
