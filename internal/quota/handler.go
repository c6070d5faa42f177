package quota

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scottstamp/AFFiNE/internal/apperror"
	"github.com/scottstamp/AFFiNE/internal/database"
	"github.com/scottstamp/AFFiNE/internal/logs"
)

// GetWorkspaceQuota GET /api/workspaces/:workspace_id/quota
func GetWorkspaceQuota(c *gin.Context) {
	route := c.FullPath()
	userID := c.GetString("user_id")
	workspaceID := c.Param("workspace_id")

	// Membre accepté uniquement
	var count int64
	if err := database.DB.Table("workspace_members").
		Where("workspace_id = ? AND user_id = ? AND status = ?", workspaceID, userID, "accepted").
		Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture membres"})
		return
	}
	if count == 0 {
		apperror.Abort(c, apperror.ErrNotWorkspaceMember)
		return
	}

	q, err := ForWorkspace(c.Request.Context(), workspaceID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur calcul quota"})
		logs.LogJSON("ERROR", "Quota compute error", map[string]interface{}{
			"error":  err.Error(),
			"route":  route,
			"userID": userID,
		})
		return
	}

	used, err := UsedStorage(workspaceID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture stockage"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"quota":        q,
		"used_storage": used,
	})
}

// GetMyQuota GET /api/me/quota
func GetMyQuota(c *gin.Context) {
	userID := c.GetString("user_id")

	q, err := ForUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur calcul quota"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"quota": q})
}
