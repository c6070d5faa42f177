package workspace

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/scottstamp/AFFiNE/internal/apperror"
	"github.com/scottstamp/AFFiNE/internal/database"
	"github.com/scottstamp/AFFiNE/internal/logs"
	"github.com/scottstamp/AFFiNE/internal/quota"
)

// CreateWorkspace POST /api/workspaces
func CreateWorkspace(c *gin.Context) {
	route := c.FullPath()
	userID := c.GetString("user_id")

	var input struct {
		Name string `json:"name"`
	}
	if err := c.BindJSON(&input); err != nil || input.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nom d'espace requis"})
		return
	}

	ws := Workspace{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		Name:      input.Name,
		OwnerID:   userID,
	}

	// Espace + membre propriétaire dans la même transaction
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&ws).Error; err != nil {
			return err
		}
		return tx.Create(&WorkspaceMember{
			ID:          uuid.NewString(),
			CreatedAt:   time.Now(),
			WorkspaceID: ws.ID,
			UserID:      userID,
			Role:        RoleOwner,
			Status:      StatusAccepted,
		}).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création espace"})
		logs.LogJSON("ERROR", "Workspace create error", map[string]interface{}{
			"error":  err.Error(),
			"route":  route,
			"userID": userID,
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"workspace": ws})
	logs.LogJSON("INFO", "Workspace created", map[string]interface{}{
		"route":  route,
		"userID": userID,
		"extra":  fmt.Sprintf("Workspace created : %s", ws.ID),
	})
}

// ListWorkspaces GET /api/workspaces
func ListWorkspaces(c *gin.Context) {
	userID := c.GetString("user_id")

	var workspaces []Workspace
	err := database.DB.
		Joins("JOIN workspace_members ON workspace_members.workspace_id = workspaces.id").
		Where("workspace_members.user_id = ? AND workspace_members.status = ?", userID, StatusAccepted).
		Find(&workspaces).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture espaces"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"workspaces": workspaces})
}

// InviteMember POST /api/workspaces/:workspace_id/members
func InviteMember(c *gin.Context) {
	route := c.FullPath()
	userID := c.GetString("user_id")
	workspaceID := c.Param("workspace_id")

	ws, err := FindByID(workspaceID)
	if err != nil || ws == nil {
		apperror.Abort(c, apperror.ErrWorkspaceNotFound)
		return
	}
	if ws.OwnerID != userID {
		apperror.Abort(c, apperror.ErrNotWorkspaceOwner)
		return
	}

	var input struct {
		UserID string `json:"user_id"`
		Role   string `json:"role"`
	}
	if err := c.BindJSON(&input); err != nil || input.UserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id requis"})
		return
	}
	if input.Role == "" {
		input.Role = RoleWrite
	}

	// Vérifie la limite de membres du quota calculé
	q, err := quota.ForWorkspace(c.Request.Context(), workspaceID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur calcul quota"})
		return
	}
	count, err := MemberCount(workspaceID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture membres"})
		return
	}
	if q.MemberLimit > 0 && count >= q.MemberLimit {
		apperror.Abort(c, apperror.ErrMemberQuotaExceeded)
		return
	}

	member := WorkspaceMember{
		ID:          uuid.NewString(),
		CreatedAt:   time.Now(),
		WorkspaceID: workspaceID,
		UserID:      input.UserID,
		Role:        input.Role,
		Status:      StatusPending,
	}
	if err := database.DB.Create(&member).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Membre déjà invité"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"member": member})
	logs.LogJSON("INFO", "Member invited", map[string]interface{}{
		"route":  route,
		"userID": userID,
		"extra":  fmt.Sprintf("Member invited : %s -> %s", input.UserID, workspaceID),
	})
}

// AcceptInvite POST /api/workspaces/:workspace_id/members/accept
func AcceptInvite(c *gin.Context) {
	userID := c.GetString("user_id")
	workspaceID := c.Param("workspace_id")

	res := database.DB.Model(&WorkspaceMember{}).
		Where("workspace_id = ? AND user_id = ? AND status = ?", workspaceID, userID, StatusPending).
		Update("status", StatusAccepted)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour invitation"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invitation introuvable"})
		return
	}

	quota.Invalidate(c.Request.Context(), workspaceID)
	c.JSON(http.StatusOK, gin.H{"message": "Invitation acceptée"})
}

// RemoveMember DELETE /api/workspaces/:workspace_id/members/:user_id
func RemoveMember(c *gin.Context) {
	userID := c.GetString("user_id")
	workspaceID := c.Param("workspace_id")
	targetID := c.Param("user_id")

	ws, err := FindByID(workspaceID)
	if err != nil || ws == nil {
		apperror.Abort(c, apperror.ErrWorkspaceNotFound)
		return
	}
	// Le propriétaire retire n'importe qui ; un membre ne peut que partir
	if ws.OwnerID != userID && targetID != userID {
		apperror.Abort(c, apperror.ErrNotWorkspaceOwner)
		return
	}
	if targetID == ws.OwnerID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le propriétaire ne peut pas quitter son espace"})
		return
	}

	res := database.DB.
		Where("workspace_id = ? AND user_id = ?", workspaceID, targetID).
		Delete(&WorkspaceMember{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression membre"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Membre introuvable"})
		return
	}

	quota.Invalidate(c.Request.Context(), workspaceID)
	c.JSON(http.StatusOK, gin.H{"message": "Membre retiré"})
}

// ListMembers GET /api/workspaces/:workspace_id/members
func ListMembers(c *gin.Context) {
	userID := c.GetString("user_id")
	workspaceID := c.Param("workspace_id")

	ok, err := IsMember(workspaceID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture membres"})
		return
	}
	if !ok {
		apperror.Abort(c, apperror.ErrNotWorkspaceMember)
		return
	}

	var members []WorkspaceMember
	if err := database.DB.Where("workspace_id = ?", workspaceID).Find(&members).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture membres"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"members": members})
}
