package main

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"carelink-backend/portal-service/handlers"
	"carelink-backend/portal-service/middleware"
	"carelink-backend/portal-service/services"
	"carelink-backend/shared/cache"
	"carelink-backend/shared/config"
	"carelink-backend/shared/database"
	"carelink-backend/shared/pipeline"
	"carelink-backend/shared/tasks"

	_ "carelink-backend/docs"
)

// @title CareLink Portal API
// @version 1.0
// @description Coordination portal for partner organizations - memberships, invites, inventory, content and appointments.

// @contact.name CareLink Support
// @contact.email support@carelink.org

// @host localhost:8080
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT token.

func main() {
	// Load configuration
	config.LoadConfig()
	cfg := config.GetConfig()

	// Initialize database
	if err := database.InitDatabase(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.CloseDatabase()

	// Media storage is optional; the portal runs without uploads if MinIO is down
	mediaService, err := services.NewMediaService()
	if err != nil {
		log.Printf("⚠️ Media storage unavailable, uploads disabled: %v", err)
		mediaService = nil
	}

	feed := services.GetActivityFeed()

	// One pipeline instance serves every surface
	pipe := &pipeline.Pipeline{
		Recorder: &pipeline.DBRecorder{
			DB:        database.GetDB(),
			Broadcast: feed.Publish,
		},
		Invalidator: &pipeline.RedisInvalidator{RDB: cache.Client()},
	}
	limiter := &pipeline.RateLimiter{RDB: cache.Client()}
	taskClient := tasks.NewClient(cfg)
	defer taskClient.Close()

	handlers.Init(pipe, limiter, taskClient, mediaService)

	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	rateLimiter := &middleware.RateLimiter{RDB: cache.Client()}
	router.Use(rateLimiter.GlobalRateLimitMiddleware(middleware.NewRateLimitConfig()))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "portal",
		})
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	authed := router.Group("/api")
	authed.Use(middleware.AuthMiddleware(), middleware.AccessMiddleware())

	// Live activity feed for admin dashboards
	authed.GET("/activity/ws", feed.HandleConnection)

	// Three admin surfaces share one handler set. Surface-specific behavior
	// is a presentation concern; policy never branches on the path prefix.
	for _, surface := range []string{"/ops/admin", "/admin", "/app-admin"} {
		registerPortalRoutes(authed.Group(surface))
	}

	port := portFromURL(cfg.PortalServiceURL)
	log.Printf("Portal Service starting on port %s...", port)
	router.Run(":" + port)
}

// registerPortalRoutes mounts the shared handler set on one admin surface
func registerPortalRoutes(group *gin.RouterGroup) {
	// Organizations
	group.GET("/organizations", handlers.GetOrganizations)
	group.GET("/organizations/:id", handlers.GetOrganization)
	group.POST("/organizations", handlers.CreateOrganization)
	group.POST("/organizations/:id", handlers.UpdateOrganization)
	group.POST("/organizations/:id/status", handlers.SetOrganizationStatus)
	group.GET("/organizations/:id/dependents", handlers.GetOrganizationDependents)
	group.POST("/organizations/:id/delete", handlers.DeleteOrganization)

	// Members and roles
	group.GET("/organizations/:id/members", handlers.GetMembers)
	group.GET("/roles", handlers.GetRoles)
	group.POST("/members/:id/roles", handlers.AssignMemberRoles)
	group.POST("/members/:id/remove", handlers.RemoveMember)

	// Invites
	group.GET("/organizations/:id/invites", handlers.GetInvites)
	group.POST("/organizations/:id/invites", handlers.CreateInvite)

	// Inventory
	group.GET("/organizations/:id/inventory/items", handlers.GetInventoryItems)
	group.POST("/organizations/:id/inventory/items", handlers.CreateInventoryItem)
	group.POST("/inventory/items/:id", handlers.UpdateInventoryItem)
	group.POST("/inventory/items/:id/active", handlers.SetInventoryItemActive)
	group.POST("/inventory/items/:id/delete", handlers.DeleteInventoryItem)
	group.GET("/organizations/:id/inventory/locations", handlers.GetInventoryLocations)
	group.POST("/organizations/:id/inventory/locations", handlers.CreateInventoryLocation)
	group.POST("/inventory/locations/:id", handlers.UpdateInventoryLocation)
	group.POST("/inventory/locations/:id/active", handlers.SetInventoryLocationActive)
	group.POST("/inventory/locations/:id/delete", handlers.DeleteInventoryLocation)
	group.POST("/organizations/:id/inventory/receive", handlers.ReceiveStock)
	group.POST("/organizations/:id/inventory/transfer", handlers.TransferStock)
	group.POST("/organizations/:id/inventory/adjust", handlers.AdjustStock)
	group.GET("/organizations/:id/inventory/on-hand", handlers.GetOnHand)

	// Website content
	group.GET("/organizations/:id/content", handlers.GetContentBlocks)
	group.POST("/organizations/:id/content", handlers.UpsertContentBlock)
	group.POST("/organizations/:id/content/image", handlers.UploadContentImage)

	// Appointments
	group.GET("/organizations/:id/appointments", handlers.GetAppointments)
	group.POST("/organizations/:id/appointments", handlers.CreateAppointment)
	group.POST("/appointments/:id", handlers.UpdateAppointment)
	group.POST("/appointments/:id/status", handlers.SetAppointmentStatus)

	// Audit trail
	group.GET("/audit", handlers.GetAuditEvents)
}

// portFromURL extracts the port from a service URL like http://localhost:8080
func portFromURL(serviceURL string) string {
	parts := strings.Split(serviceURL, ":")
	if len(parts) == 3 {
		return parts[2]
	}
	return "8080"
}
