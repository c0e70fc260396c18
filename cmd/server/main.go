package main

import (
	"fmt"
	"log"

	"github.com/TriStrac/scarrow-server/internal/config"
	"github.com/TriStrac/scarrow-server/internal/handlers"
	"github.com/TriStrac/scarrow-server/internal/ingest"
	"github.com/TriStrac/scarrow-server/internal/middleware"
	"github.com/TriStrac/scarrow-server/internal/repository"
	"github.com/TriStrac/scarrow-server/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env if present, real environment wins either way
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Set Gin mode
	gin.SetMode(cfg.Server.Mode)

	// Initialize database
	db, err := repository.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := repository.Close(db); err != nil {
			log.Printf("Failed to close database: %v", err)
		}
	}()

	// Initialize JWT auth
	jwtAuth := middleware.NewJWTAuth(cfg.JWT.Secret, cfg.JWT.ExpireMinutes)

	// Initialize services
	userService := services.NewUserService(db)
	groupService := services.NewGroupService(db)
	deviceService := services.NewDeviceService(db)
	deviceLogService := services.NewDeviceLogService(db, deviceService)
	activityService := services.NewActivityLogService(db)

	recorder := services.NewActivityRecorder(activityService, cfg.Activity.BufferSize)
	recorder.Start()
	defer recorder.Stop()

	// Optional MQTT ingestion for device events
	if cfg.MQTT.Enabled {
		ingestor := ingest.NewIngestor(cfg.MQTT, deviceLogService)
		if err := ingestor.Start(); err != nil {
			log.Fatalf("Failed to start MQTT ingestor: %v", err)
		}
		defer ingestor.Stop()
	}

	r := setupRouter(jwtAuth, recorder,
		handlers.NewUserHandler(userService, jwtAuth),
		handlers.NewGroupHandler(groupService),
		handlers.NewDeviceHandler(deviceService),
		handlers.NewDeviceLogHandler(deviceLogService),
		handlers.NewActivityLogHandler(activityService),
	)

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Starting server on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupRouter(
	jwtAuth *middleware.JWTAuth,
	recorder *services.ActivityRecorder,
	userHandler *handlers.UserHandler,
	groupHandler *handlers.GroupHandler,
	deviceHandler *handlers.DeviceHandler,
	deviceLogHandler *handlers.DeviceLogHandler,
	activityHandler *handlers.ActivityLogHandler,
) *gin.Engine {
	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	act := func(class, typ string) gin.HandlerFunc {
		return middleware.ActivityLogger(recorder, class, typ)
	}

	api := r.Group("/api")
	{
		// User routes (registration and login are public)
		users := api.Group("/users")
		{
			users.POST("", userHandler.Create)
			users.POST("/login", act("Accounts", "Logged In"), userHandler.Login)
		}

		usersProtected := api.Group("/users")
		usersProtected.Use(jwtAuth.Middleware())
		{
			usersProtected.GET("", act("Accounts", "Retrieved All Accounts"), userHandler.List)
			usersProtected.GET("/deleted", act("Accounts", "Retrieved Deleted Users"), userHandler.ListDeleted)
			usersProtected.GET("/:userId", act("Accounts", "Retrieved by ID"), userHandler.Get)
			usersProtected.PATCH("/:userId", act("Accounts", "Retrieved by UserId"), userHandler.Update)
			usersProtected.POST("/changePassword", act("Accounts", "Password Changed"), userHandler.ChangePassword)
			usersProtected.PATCH("/:userId/softDelete", act("Accounts", "Deleted an Account"), userHandler.SoftDelete)
			usersProtected.POST("/emailExists", userHandler.EmailExists)
		}

		// Group routes
		groups := api.Group("/groups")
		groups.Use(jwtAuth.Middleware())
		{
			groups.POST("", act("Groups", "Created a Group"), groupHandler.Create)
			groups.PATCH("/:groupId", act("Groups", "Updated a Group"), groupHandler.Update)
			groups.GET("", act("Groups", "Retrieved All Groups"), groupHandler.List)
			groups.GET("/owner", act("Groups", "Retrieved Group by Owner"), groupHandler.ListByOwner)
			groups.GET("/name", act("Groups", "Retrieved Group Info by Name"), groupHandler.GetByName)
			groups.GET("/:groupId", act("Groups", "Retrieved Group Info by ID"), groupHandler.Get)
			groups.PATCH("/:groupId/softDelete", act("Groups", "Soft Deleted a Group"), groupHandler.SoftDelete)
			groups.POST("/member", act("Groups", "Added a Member"), groupHandler.AddMember)
			groups.DELETE("/member", act("Groups", "Removed a Member"), groupHandler.RemoveMember)
			groups.GET("/:groupId/members", act("Groups", "Retrieved Group Members"), groupHandler.Members)
		}

		// Device routes
		devices := api.Group("/devices")
		devices.Use(jwtAuth.Middleware())
		{
			devices.POST("", act("Devices", "Created a Device"), deviceHandler.Create)
			devices.GET("", act("Devices", "Retrieved All Devices"), deviceHandler.List)
			devices.GET("/:deviceId", act("Devices", "Retrieved a Device"), deviceHandler.Get)
			devices.PATCH("/:deviceId/name", act("Devices", "Updated a Device"), deviceHandler.UpdateInfo)
			devices.POST("/:deviceId/status", act("Devices", "Created a Device Status"), deviceHandler.CreateStatus)
			devices.GET("/:deviceId/status", act("Devices", "Retrieved a Device Status"), deviceHandler.GetStatus)
			devices.GET("/status/user/:userId", act("Devices", "Retrieved Device Status by User"), deviceHandler.StatusesByUser)
			devices.GET("/status/group/:groupId", act("Devices", "Retrieved Device Status by Group"), deviceHandler.StatusesByGroup)
			devices.PATCH("/:deviceId/status", act("Devices", "Updated a Device Status"), deviceHandler.UpdateStatus)
			devices.POST("/owner", act("Devices", "Created a Device Owner"), deviceHandler.CreateOwner)
			devices.PATCH("/owner", act("Devices", "Updated a Device Owner"), deviceHandler.UpdateOwner)
			devices.GET("/:deviceId/owners", act("Devices", "Retrieved Device Owners"), deviceHandler.GetOwner)
			devices.GET("/user/:userId", act("Devices", "Retrieved Devices by User"), deviceHandler.ListByUser)
			devices.GET("/group/:groupId", act("Devices", "Retrieved Devices by Group"), deviceHandler.ListByGroup)
			devices.PATCH("/:deviceId/softDelete", act("Devices", "Deleted a Device"), deviceHandler.SoftDelete)
		}

		// Device log routes (creation is public so field units can report)
		deviceLogs := api.Group("/deviceLogs")
		{
			deviceLogs.POST("", deviceLogHandler.Create)
		}

		deviceLogsProtected := api.Group("/deviceLogs")
		deviceLogsProtected.Use(jwtAuth.Middleware())
		{
			deviceLogsProtected.GET("", act("DeviceLogs", "Retrieved all Device Logs"), deviceLogHandler.List)
			deviceLogsProtected.GET("/device/:deviceId", act("DeviceLogs", "Retrieved Logs of a Device"), deviceLogHandler.ListByDevice)
			deviceLogsProtected.GET("/:logId", act("DeviceLogs", "Retrieved Single Log Details"), deviceLogHandler.Get)
			deviceLogsProtected.DELETE("/device/:deviceId", act("DeviceLogs", "Deleted all logs of a Device"), deviceLogHandler.DeleteByDevice)
		}

		// Activity log routes (read-only, never audited themselves)
		activityLogs := api.Group("/userActivityLogs")
		activityLogs.Use(jwtAuth.Middleware())
		{
			activityLogs.GET("", activityHandler.List)
			activityLogs.GET("/user/:userId", activityHandler.ListByUser)
			activityLogs.GET("/device/:deviceId", activityHandler.ListByDevice)
		}
	}

	return r
}
