// internal/router/router.go
package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Artistsreach/storegen-sub000/internal/config"
	"github.com/Artistsreach/storegen-sub000/internal/handlers"
	"github.com/Artistsreach/storegen-sub000/internal/middleware"
	"github.com/Artistsreach/storegen-sub000/internal/services"
	"github.com/Artistsreach/storegen-sub000/internal/sources/bigcommerce"
	"github.com/Artistsreach/storegen-sub000/internal/sources/shopify"
	"github.com/Artistsreach/storegen-sub000/internal/utils"
	"github.com/Artistsreach/storegen-sub000/internal/wizard"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		logrus.WithError(err).Warn("Storage unavailable, generated assets fall back to local URLs")
	}
	aiService := services.NewAIService(cfg)
	generatorService := services.NewGeneratorService(aiService, storageService)

	authService := services.NewAuthService(db, cfg)
	storeService := services.NewStoreService(db)
	paymentService := services.NewPaymentService(db, cfg, storeService)

	// One wizard manager serves all users; platform strategies are fixed at
	// startup.
	requestTimeout := time.Duration(cfg.Sources.RequestTimeout) * time.Second
	wizardManager := wizard.NewManager(cfg.Sources.PageSize,
		shopify.NewSource(cfg.Sources.ShopifyAPIVersion, requestTimeout),
		bigcommerce.NewSource(requestTimeout),
	)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	storeHandler := handlers.NewStoreHandler(storeService, generatorService)
	assetHandler := handlers.NewAssetHandler(storeService, storageService)
	wizardHandler := handlers.NewWizardHandler(wizardManager, storeService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	aiHandler := handlers.NewAIHandler(aiService)
	adminHandler := handlers.NewAdminHandler(authService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg))
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", middleware.AuthRequired(), authHandler.Logout)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
		}

		// Shareable storefront preview; owners are recognized when a token
		// is presented.
		v1.GET("/stores/:id/preview", middleware.OptionalAuth(), storeHandler.PreviewStore)

		// Store routes
		stores := v1.Group("/stores")
		stores.Use(middleware.AuthRequired())
		{
			stores.GET("", storeHandler.ListStores)
			stores.POST("", storeHandler.CreateStore)
			stores.GET("/:id", storeHandler.GetStore)
			stores.PUT("/:id", storeHandler.UpdateStore)
			stores.DELETE("/:id", storeHandler.DeleteStore)

			stores.POST("/:id/assets", assetHandler.UploadAsset)
			stores.DELETE("/:id/assets", assetHandler.DeleteAsset)

			generate := stores.Group("/generate")
			generate.Use(middleware.GenerateRateLimit())
			{
				generate.POST("", storeHandler.GenerateFromPrompt)
				generate.POST("/guided", storeHandler.GenerateFromWizard)
			}
		}

		// Import wizard routes
		wizards := v1.Group("/wizard")
		wizards.Use(middleware.AuthRequired(), middleware.WizardRateLimit())
		{
			wizards.GET("/sources", wizardHandler.ListSources)
			wizards.GET("/:source", wizardHandler.State)
			wizards.POST("/:source/start", wizardHandler.Start)
			wizards.POST("/:source/next", wizardHandler.Next)
			wizards.POST("/:source/back", wizardHandler.Back)
			wizards.POST("/:source/load-more", wizardHandler.LoadMore)
			wizards.POST("/:source/finalize", wizardHandler.Finalize)
			wizards.POST("/:source/cancel", wizardHandler.Cancel)
		}

		// Payment routes
		payments := v1.Group("/payments")
		payments.Use(middleware.AuthRequired())
		{
			payments.POST("/checkout", paymentHandler.CreateCheckoutSession)
			payments.POST("/subscribe", paymentHandler.CreateSubscriptionSession)
			payments.POST("/portal", paymentHandler.CreateBillingPortalSession)
			payments.POST("/link-price", paymentHandler.LinkProductPrice)
		}

		// AI routes
		ai := v1.Group("/ai")
		ai.Use(middleware.AuthRequired(), middleware.GenerateRateLimit())
		{
			ai.POST("/store-names", aiHandler.SuggestStoreNames)
			ai.POST("/hero-copy", aiHandler.GenerateHeroCopy)
			ai.POST("/product-description", aiHandler.GenerateProductDescription)
			ai.GET("/images", aiHandler.SearchImages)
		}

		// Admin routes for the seeded operator account
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			admin.GET("/users", adminHandler.ListUsers)
		}

		// Stripe webhook; signature-verified, so no auth middleware.
		v1.POST("/webhooks/stripe", paymentHandler.StripeWebhook)
	}

	// Static file serving (for development)
	if cfg.Environment == "development" {
		r.Static("/uploads", "./uploads")
	}

	return r
}
