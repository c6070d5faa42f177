// internal/admin/handler.go
package admin

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/scottstamp/AFFiNE/internal/database"
)

// GetDashboardStats GET /api/admin/stats
func GetDashboardStats(c *gin.Context) {
	// Paramètres optionnels
	startDateStr := c.Query("start_date")
	endDateStr := c.Query("end_date")

	var startDate, endDate time.Time
	var err error

	// Parse des dates si fournies
	if startDateStr != "" {
		startDate, err = time.Parse("2006-01-02", startDateStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Format de date invalide pour start_date"})
			return
		}
	} else {
		startDate = time.Now().AddDate(0, 0, -30) // 30 jours par défaut
	}

	if endDateStr != "" {
		endDate, err = time.Parse("2006-01-02", endDateStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Format de date invalide pour end_date"})
			return
		}
	} else {
		endDate = time.Now()
	}

	var totalUsers, totalWorkspaces, totalDocs int64
	var activeUserSubs, activeTeamSubs int64

	database.DB.Table("users").Count(&totalUsers)
	database.DB.Table("workspaces").Count(&totalWorkspaces)
	database.DB.Table("docs").Count(&totalDocs)

	database.DB.Table("user_subscriptions").
		Where("status = ?", "active").Count(&activeUserSubs)
	database.DB.Table("workspace_subscriptions").
		Where("status = ?", "active").Count(&activeTeamSubs)

	// Revenu encaissé sur la période (factures payées)
	var revenue struct {
		Total int64
	}
	database.DB.Table("invoices").
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("status = ? AND created_at BETWEEN ? AND ?", "paid", startDate, endDate).
		Scan(&revenue)

	stats := gin.H{
		"total_users":          totalUsers,
		"total_workspaces":     totalWorkspaces,
		"total_docs":           totalDocs,
		"active_subscriptions": activeUserSubs,
		"active_team_plans":    activeTeamSubs,
		"revenue":              revenue.Total,
		"date_range": gin.H{
			"start": startDate.Format("2006-01-02"),
			"end":   endDate.Format("2006-01-02"),
		},
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}
