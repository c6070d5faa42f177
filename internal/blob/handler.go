package blob

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/scottstamp/AFFiNE/internal/apperror"
	"github.com/scottstamp/AFFiNE/internal/database"
	"github.com/scottstamp/AFFiNE/internal/logs"
	"github.com/scottstamp/AFFiNE/internal/quota"
	"github.com/scottstamp/AFFiNE/internal/storage"
)

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

// Upload POST /api/workspaces/:workspace_id/blobs
// Refuse les fichiers au-dessus de la limite de blob ou qui feraient
// dépasser le quota de stockage calculé
func Upload(c *gin.Context) {
	route := c.FullPath()
	userID := c.GetString("user_id")
	workspaceID := c.Param("workspace_id")

	if !requireMember(c, workspaceID) {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fichier manquant"})
		return
	}

	q, err := quota.ForWorkspace(c.Request.Context(), workspaceID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur calcul quota"})
		return
	}
	if fileHeader.Size > q.BlobLimit {
		apperror.Abort(c, apperror.ErrBlobTooLarge)
		return
	}

	used, err := quota.UsedStorage(workspaceID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture stockage"})
		return
	}
	if used+fileHeader.Size > q.StorageQuota {
		apperror.Abort(c, apperror.ErrStorageQuotaExceeded)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lecture du fichier échouée"})
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	key := uuid.NewString()

	url, err := storage.PutBlob(c.Request.Context(), workspaceID, key, contentType, file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload S3 échoué"})
		logs.LogJSON("ERROR", "Blob upload error", map[string]interface{}{
			"error":  err.Error(),
			"route":  route,
			"userID": userID,
		})
		return
	}

	b := Blob{
		ID:          uuid.NewString(),
		CreatedAt:   time.Now(),
		WorkspaceID: workspaceID,
		Key:         key,
		Size:        fileHeader.Size,
		ContentType: contentType,
		URL:         url,
	}
	if err := database.DB.Create(&b).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur enregistrement blob"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"blob": b})
	logs.LogJSON("INFO", "Blob uploaded", map[string]interface{}{
		"route":  route,
		"userID": userID,
		"extra":  fmt.Sprintf("Blob uploaded : %s (%d octets)", key, fileHeader.Size),
	})
}

// List GET /api/workspaces/:workspace_id/blobs
func List(c *gin.Context) {
	workspaceID := c.Param("workspace_id")

	if !requireMember(c, workspaceID) {
		return
	}

	var blobs []Blob
	if err := database.DB.Where("workspace_id = ?", workspaceID).Find(&blobs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture blobs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"blobs": blobs})
}

// Delete DELETE /api/workspaces/:workspace_id/blobs/:key
func Delete(c *gin.Context) {
	workspaceID := c.Param("workspace_id")
	key := c.Param("key")

	if !requireMember(c, workspaceID) {
		return
	}

	var b Blob
	if err := database.DB.
		Where("workspace_id = ? AND key = ?", workspaceID, key).
		First(&b).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Blob introuvable"})
		return
	}

	if err := storage.DeleteBlob(c.Request.Context(), workspaceID, key); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression S3"})
		return
	}
	if err := database.DB.Delete(&b).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression blob"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Blob supprimé"})
}
