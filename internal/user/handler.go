package user

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scottstamp/AFFiNE/internal/apperror"
	"github.com/scottstamp/AFFiNE/internal/database"
	"github.com/scottstamp/AFFiNE/internal/logs"
)

// GetMe GET /api/me
func GetMe(c *gin.Context) {
	route := c.FullPath()
	userID := c.GetString("user_id")

	var user User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		apperror.Abort(c, apperror.ErrUserNotFound)
		fields := logs.Request(route, userID)
		fields["error"] = err.Error()
		logs.LogJSON("WARN", "User not found", fields)
		return
	}

	response := gin.H{
		"id":         user.ID,
		"email":      user.Email,
		"username":   user.Username,
		"firstname":  user.Firstname,
		"lastname":   user.Lastname,
		"avatar_url": user.AvatarURL,
		"language":   user.Language,
	}
	if user.IsAdmin {
		response["is_admin"] = true
	}

	c.JSON(http.StatusOK, gin.H{"user": response})
}

// UpdateMe PATCH /api/me
func UpdateMe(c *gin.Context) {
	route := c.FullPath()
	userID := c.GetString("user_id")

	var user User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		apperror.Abort(c, apperror.ErrUserNotFound)
		return
	}

	// Bind les champs envoyés
	var input map[string]interface{}
	if err := c.BindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Requête invalide"})
		return
	}

	// Seuls ces champs sont modifiables par l'utilisateur
	allowed := map[string]bool{
		"username": true, "firstname": true, "lastname": true,
		"avatar_url": true, "language": true,
	}
	updates := map[string]interface{}{}
	for k, v := range input {
		if allowed[k] {
			updates[k] = v
		}
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&user).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour utilisateur"})
			fields := logs.Request(route, userID)
			fields["error"] = err.Error()
			logs.LogJSON("ERROR", "User update error", fields)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
	fields := logs.Request(route, userID)
	fields["extra"] = fmt.Sprintf("User updated successfully : %s", userID)
	logs.LogJSON("INFO", "User updated successfully", fields)
}
