package server

import (
	"context"
	"strings"
	"time"

	"github.com/dream-society/unity-nest/internal/bulkimport"
	"github.com/dream-society/unity-nest/internal/config"
	"github.com/dream-society/unity-nest/internal/handler"
	"github.com/dream-society/unity-nest/internal/middleware"
	"github.com/dream-society/unity-nest/internal/repository"
	"github.com/dream-society/unity-nest/internal/service"
	"github.com/dream-society/unity-nest/pkg/storage"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Server struct {
	engine *gin.Engine
	db     *gorm.DB
}

func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	userRepo := repository.NewUserRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	jobRepo := repository.NewJobRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	// Search and photo storage are optional backends; the rest of the
	// platform keeps working when they are not configured.
	var memberSearch service.MemberSearch
	if cfg.MeiliSearchHost != "" {
		meiliClient := meilisearch.New(cfg.MeiliSearchHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
		memberSearch = service.NewMeiliMemberSearch(meiliClient)
	}

	var photoStorage storage.ObjectStorage
	if cfg.S3Bucket != "" {
		store, err := storage.NewS3Storage(context.Background(), storage.S3Config{
			Region: cfg.AWSRegion,
			Bucket: cfg.S3Bucket,
		})
		if err != nil {
			logrus.WithError(err).Warn("failed to initialize S3 storage, photo uploads disabled")
		} else {
			photoStorage = store
		}
	}

	otpSvc := service.NewOTPService(redisClient, service.LogMailer{}, cfg.OTPTTL, cfg.OTPResendWindow)

	authSvc := service.NewAuthService(userRepo, otpSvc, memberSearch, cfg.JWTSecret, cfg.JWTTTL)
	authHandler := handler.NewAuthHandler(authSvc)

	memberSvc := service.NewMemberService(userRepo, memberSearch)
	memberHandler := handler.NewMemberHandler(memberSvc)

	profileSvc := service.NewProfileService(userRepo, memberRepo, photoStorage, memberSearch)
	profileHandler := handler.NewProfileHandler(profileSvc)

	jobSvc := service.NewJobService(jobRepo)
	jobHandler := handler.NewJobHandler(jobSvc)

	paymentSvc := service.NewPaymentService(paymentRepo)
	paymentHandler := handler.NewPaymentHandler(paymentSvc)

	importStore := bulkimport.NewGormStore(db)
	importer := bulkimport.NewService(importStore, importStore, importStore)

	adminSvc := service.NewAdminService(userRepo, jobRepo, paymentRepo, memberSearch)
	adminHandler := handler.NewAdminHandler(importer, adminSvc)

	router := gin.New()

	setupCORS(router, cfg.AllowedOrigins)

	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	authMiddleware := middleware.NewAuthMiddleware(userRepo, cfg.JWTSecret)

	api := router.Group("/api")

	// Public routes (no auth required)
	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/verify-otp", authHandler.VerifyOTP)
		auth.POST("/resend-otp", authHandler.ResendOTP)
	}

	// Protected routes (apply auth middleware explicitly)
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		// Admin routes
		adminGroup := protected.Group("/admin")
		adminGroup.Use(authMiddleware.RequireAdmin())
		{
			adminGroup.POST("/bulk-upload", adminHandler.BulkUpload)
			adminGroup.POST("/bulk-upload-users", adminHandler.BulkUploadUsers)
			adminGroup.GET("/bulk-upload-logs", adminHandler.BulkUploadLogs)
			adminGroup.GET("/users", adminHandler.ListUsers)
			adminGroup.GET("/analytics", adminHandler.Analytics)
			adminGroup.POST("/search/reindex", adminHandler.Reindex)
		}

		protected.GET("/auth/token-info", authHandler.TokenInfo)

		// Member directory
		protected.GET("/members", memberHandler.ListMembers)
		protected.GET("/users/:id", memberHandler.GetUser)
		protected.PUT("/users/:id", memberHandler.UpdateUser)

		// Profile routes
		protected.GET("/profile/me", profileHandler.GetProfile)
		protected.PUT("/profile", profileHandler.UpdateProfile)
		protected.POST("/profile/photo", profileHandler.UploadPhoto)
		protected.GET("/profile/photo", profileHandler.GetPhotoURL)
		protected.DELETE("/profile/photo", profileHandler.DeletePhoto)

		// Job routes
		protected.POST("/jobs", jobHandler.CreateJob)
		protected.GET("/jobs", jobHandler.ListJobs)
		protected.GET("/jobs/:id", jobHandler.GetJob)
		protected.POST("/jobs/:id/apply", jobHandler.Apply)
		protected.GET("/jobs/:id/applications", jobHandler.ListApplications)

		// Payment routes
		protected.POST("/payments", paymentHandler.Record)
		protected.GET("/payments/me", paymentHandler.ListMine)
	}

	return &Server{
		engine: router,
		db:     db,
	}
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

// Engine exposes the router for httptest-based handler tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	var origins []string
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	} else {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
