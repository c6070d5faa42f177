package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scottstamp/AFFiNE/internal/database"
)

// AdminMiddleware : à chaîner après AuthMiddleware
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token requis"})
			return
		}

		var row struct {
			IsAdmin bool
		}
		if err := database.DB.Table("users").Select("is_admin").
			Where("id = ?", userID).Scan(&row).Error; err != nil || !row.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Accès réservé aux administrateurs"})
			return
		}

		c.Next()
	}
}
