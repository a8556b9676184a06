package main

import (
	"context"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	authpkg "github.com/jobhub/jobhub/internal/auth"
	"github.com/jobhub/jobhub/internal/config"
	"github.com/jobhub/jobhub/internal/database"
	"github.com/jobhub/jobhub/internal/handlers"
	"github.com/jobhub/jobhub/internal/services"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	db, err := database.Connect(cfg.DatabaseDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}

	ctx := context.Background()

	// Core services
	issuer := authpkg.NewTokenIssuer(cfg.JWTSecret, cfg.TokenLifetime)
	matcher := services.NewMatcherService()
	notifications := services.NewNotificationService(db)
	profiles := services.NewProfileService(db)
	jobs := services.NewJobService(db, matcher)
	applications := services.NewApplicationService(db, notifications)
	connections := services.NewConnectionService(db, notifications)
	insights := services.NewInsightService(db)
	authSvc := services.NewAuthService(db, issuer, profiles, cfg.SessionExchangeURL)

	llm, err := services.NewLLMService(ctx, cfg.GeminiAPIKey)
	if err != nil {
		log.Warn().Err(err).Msg("llm extraction disabled, resumes parse with heuristics only")
	}
	resumes := services.NewResumeService(db, profiles, services.NewResumeParser(), llm, cfg.ResumeStoragePath)

	sync := services.NewSyncService(jobs, cfg.JobFeedURL, cfg.SyncInterval)
	sync.StartWatcher(ctx)

	google := authpkg.NewGoogleOAuth(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)

	// Handlers
	authHandler := handlers.NewAuthHandler(authSvc, google, cfg.FrontendURL)
	jobHandler := handlers.NewJobHandler(jobs, sync)
	appHandler := handlers.NewApplicationHandler(applications)
	profileHandler := handlers.NewProfileHandler(profiles, resumes)
	connHandler := handlers.NewConnectionHandler(connections)
	notifHandler := handlers.NewNotificationHandler(notifications)
	insightHandler := handlers.NewInsightHandler(insights)

	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	origins := cfg.AllowedOrigins()
	if len(origins) == 1 && origins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = origins
		corsConfig.AllowCredentials = true
	}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	requireUser := authpkg.RequireUser(db, issuer)

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck(db))

		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/signup", authHandler.Signup)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/session", authHandler.ExchangeSession)
			authRoutes.GET("/me", requireUser, authHandler.Me)
			authRoutes.POST("/logout", authHandler.Logout)
			authRoutes.GET("/google", authHandler.GoogleLogin)
			authRoutes.GET("/google/callback", authHandler.GoogleCallback)
		}

		jobRoutes := api.Group("/jobs")
		{
			jobRoutes.GET("/search", jobHandler.Search)
			jobRoutes.GET("/recommended", requireUser, jobHandler.Recommended)
			jobRoutes.GET("/startups/list", jobHandler.Startups)
			jobRoutes.GET("/startups/:company/jobs", jobHandler.StartupJobs)
			jobRoutes.POST("/sync", requireUser, jobHandler.TriggerSync)
			jobRoutes.GET("/:id", jobHandler.Get)
		}

		appRoutes := api.Group("/applications", requireUser)
		{
			appRoutes.POST("", appHandler.Create)
			appRoutes.GET("", appHandler.List)
			appRoutes.GET("/:id", appHandler.Get)
			appRoutes.PATCH("/:id/status", appHandler.UpdateStatus)
			appRoutes.DELETE("/:id", appHandler.Delete)
		}

		profileRoutes := api.Group("/profile", requireUser)
		{
			profileRoutes.GET("/me", profileHandler.Get)
			profileRoutes.PUT("/me", profileHandler.Update)
			profileRoutes.POST("/me/complete-onboarding", profileHandler.CompleteOnboarding)
			profileRoutes.POST("/resume/upload", profileHandler.UploadResume)
			profileRoutes.GET("/resume/:id/status", profileHandler.ResumeStatus)
		}

		connRoutes := api.Group("/connections", requireUser)
		{
			connRoutes.POST("", connHandler.Create)
			connRoutes.GET("", connHandler.List)
			connRoutes.GET("/:id", connHandler.Get)
			connRoutes.POST("/:id/respond", connHandler.Respond)
			connRoutes.POST("/:id/messages", connHandler.SendMessage)
			connRoutes.POST("/:id/read", connHandler.MarkRead)
		}

		notifRoutes := api.Group("/notifications", requireUser)
		{
			notifRoutes.GET("", notifHandler.List)
			notifRoutes.POST("/read-all", notifHandler.MarkAllRead)
			notifRoutes.POST("/:id/read", notifHandler.MarkRead)
		}

		insightRoutes := api.Group("/insights", requireUser)
		{
			insightRoutes.GET("/summary", insightHandler.Summary)
			insightRoutes.GET("/timeseries", insightHandler.Timeseries)
			insightRoutes.GET("/funnel", insightHandler.Funnel)
			insightRoutes.GET("/table", insightHandler.Table)
		}
	}

	log.Info().Str("port", cfg.Port).Msg("server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}
