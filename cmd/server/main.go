package main

import (
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/scottstamp/AFFiNE/internal/admin"
	"github.com/scottstamp/AFFiNE/internal/auth"
	"github.com/scottstamp/AFFiNE/internal/blob"
	"github.com/scottstamp/AFFiNE/internal/config"
	"github.com/scottstamp/AFFiNE/internal/database"
	"github.com/scottstamp/AFFiNE/internal/doc"
	"github.com/scottstamp/AFFiNE/internal/invoice"
	"github.com/scottstamp/AFFiNE/internal/job"
	"github.com/scottstamp/AFFiNE/internal/logs"
	"github.com/scottstamp/AFFiNE/internal/middleware"
	"github.com/scottstamp/AFFiNE/internal/quota"
	"github.com/scottstamp/AFFiNE/internal/storage"
	stripehandler "github.com/scottstamp/AFFiNE/internal/stripe"
	"github.com/scottstamp/AFFiNE/internal/subscription"
	"github.com/scottstamp/AFFiNE/internal/user"
	"github.com/scottstamp/AFFiNE/internal/workspace"
)

func main() {
	_ = godotenv.Load()
	cfg := config.LoadConfig()

	if cfg.DBUrl == "" {
		logs.Fatal("DATABASE_URL manquant", nil)
	}

	database.Connect(cfg.DBUrl)
	database.Migrate(
		&user.User{},
		&workspace.Workspace{},
		&workspace.WorkspaceMember{},
		&workspace.WorkspaceFeature{},
		&doc.Doc{},
		&doc.DocLink{},
		&subscription.UserSubscription{},
		&subscription.WorkspaceSubscription{},
		&invoice.Invoice{},
		&blob.Blob{},
	)

	if err := storage.InitS3(); err != nil {
		logs.LogJSON("WARN", "S3 storage disabled", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if err := quota.InitCache(cfg.RedisURL); err != nil {
		logs.LogJSON("WARN", "Quota cache disabled", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Réconciliation périodique avec Stripe
	resync, err := job.StartResync(cfg.ResyncSchedule)
	if err != nil {
		logs.Fatal("Planification du resync impossible", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer resync.Stop()

	r := gin.Default()
	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	// Inscription & Connexion
	api.POST("/signup", auth.Signup)
	api.POST("/login", auth.Login)

	// Webhook Stripe : signature vérifiée, pas de JWT
	api.POST("/stripe/webhook", stripehandler.HandleStripeWebhook)

	// Tarifs publics
	api.GET("/prices", subscription.ListPrices)

	api.Use(middleware.AuthMiddleware())

	api.GET("/me", user.GetMe)
	api.PATCH("/me", user.UpdateMe)
	api.GET("/me/quota", quota.GetMyQuota)

	// Espaces de travail
	api.POST("/workspaces", workspace.CreateWorkspace)
	api.GET("/workspaces", workspace.ListWorkspaces)
	api.GET("/workspaces/:workspace_id/members", workspace.ListMembers)
	api.POST("/workspaces/:workspace_id/members", workspace.InviteMember)
	api.POST("/workspaces/:workspace_id/members/accept", workspace.AcceptInvite)
	api.DELETE("/workspaces/:workspace_id/members/:user_id", workspace.RemoveMember)
	api.GET("/workspaces/:workspace_id/quota", quota.GetWorkspaceQuota)
	api.GET("/workspaces/:workspace_id/subscription", subscription.GetWorkspaceSubscription)

	// Documents & backlinks
	api.PUT("/workspaces/:workspace_id/docs/:guid", doc.UpsertDoc)
	api.GET("/workspaces/:workspace_id/docs/:guid", doc.GetDoc)
	api.GET("/workspaces/:workspace_id/docs/:guid/backlinks", doc.GetBacklinks)
	api.DELETE("/workspaces/:workspace_id/docs/:guid", doc.RemoveDoc)
	api.GET("/workspaces/:workspace_id/journal", doc.GetJournal)

	// Blobs
	api.POST("/workspaces/:workspace_id/blobs", blob.Upload)
	api.GET("/workspaces/:workspace_id/blobs", blob.List)
	api.DELETE("/workspaces/:workspace_id/blobs/:key", blob.Delete)

	// Abonnements
	api.GET("/subscriptions", subscription.GetMySubscriptions)
	api.POST("/subscriptions/checkout", subscription.Checkout)
	api.POST("/subscriptions/cancel", subscription.CancelSubscription)
	api.POST("/subscriptions/resume", subscription.ResumeSubscription)
	api.POST("/subscriptions/recurring", subscription.UpdateSubscriptionRecurring)
	api.POST("/subscriptions/portal", subscription.CustomerPortal)
	api.GET("/invoices", invoice.ListInvoices)

	// Administration
	adminGroup := api.Group("/admin")
	adminGroup.Use(middleware.AdminMiddleware())
	adminGroup.GET("/stats", admin.GetDashboardStats)

	if err := r.Run(cfg.Addr); err != nil {
		logs.Fatal("Serveur arrêté", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
