package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"marcenapp/internal/config"
	"marcenapp/internal/database"
	"marcenapp/internal/gemini"
	"marcenapp/internal/handlers"
	"marcenapp/internal/jobs"
	"marcenapp/internal/logging"
	"marcenapp/internal/middleware"
	"marcenapp/internal/services"
	"marcenapp/pkg/auth"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Initialize structured logging (JSON in production, text in dev)
	logging.Init()

	log.Println("🚀 Starting MarcenApp Server...")

	// Load .env file (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  No .env file found or error loading it: %v", err)
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	cfg := config.Load()
	log.Printf("📋 Configuration loaded (Port: %s, DB: %s)", cfg.Port, cfg.DatabasePath)

	// Local project store
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("❌ Failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.Initialize(); err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}
	log.Println("✅ Local project store ready")

	// AI gateway
	if cfg.GeminiAPIKey == "" {
		log.Fatal("❌ GEMINI_API_KEY environment variable is required")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	aiClient, err := gemini.New(ctx, cfg.GeminiAPIKey, cfg.GeminiTextModel, cfg.GeminiImageModel)
	cancel()
	if err != nil {
		log.Fatalf("❌ Failed to initialize AI gateway: %v", err)
	}
	defer aiClient.Close()
	log.Println("✅ AI gateway initialized")

	// Finish catalog with live reload
	catalog, err := services.NewCatalogService(cfg.CatalogPath)
	if err != nil {
		log.Fatalf("❌ Failed to load finish catalog: %v", err)
	}
	defer catalog.Close()
	if err := catalog.StartWatching(); err != nil {
		log.Printf("⚠️ Catalog live reload disabled: %v", err)
	}

	// Optional Redis tier for supplier-search answers
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Printf("⚠️ Invalid REDIS_URL: %v (shared cache disabled)", err)
		} else {
			redisClient = redis.NewClient(opts)
			pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := redisClient.Ping(pingCtx).Err(); err != nil {
				log.Printf("⚠️ Failed to connect to Redis: %v (shared cache disabled)", err)
				redisClient = nil
			} else {
				defer redisClient.Close()
				log.Println("✅ Redis connected successfully")
			}
			pingCancel()
		}
	} else {
		log.Println("⚠️ REDIS_URL not set - supplier cache is in-process only")
	}

	// Services
	metrics := services.InitMetrics()
	projectStore := services.NewProjectStore(db)
	clientStore := services.NewClientStore(db)
	favoriteStore := services.NewFavoriteStore(db)
	designService := services.NewDesignService(aiClient, projectStore, metrics)
	supplierService := services.NewSupplierService(aiClient, redisClient, metrics)
	proposalService := services.NewProposalService()

	// Single-workshop auth, optional in development
	var jwtAuth *auth.LocalJWTAuth
	if cfg.AuthEnabled() {
		jwtAuth, err = auth.NewLocalJWTAuth(cfg.JWTSecret, 0, 0)
		if err != nil {
			log.Fatalf("❌ Failed to initialize auth: %v", err)
		}
		log.Println("🔒 Workshop auth enabled")
	} else {
		if cfg.Environment == "production" {
			log.Fatal("❌ JWT_SECRET and APP_PASSWORD_HASH are required in production")
		}
		log.Println("⚠️ Workshop auth disabled (set JWT_SECRET and APP_PASSWORD_HASH)")
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "MarcenApp v1.0",
		ReadTimeout:  120 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
		// Generated views travel as base64 data URLs inside JSON bodies.
		BodyLimit: 50 * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(logger.New())

	prometheus := fiberprometheus.New("marcenapp")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)
	log.Println("📊 Prometheus metrics endpoint enabled at /metrics")

	rateLimitConfig := middleware.LoadRateLimitConfig()
	log.Printf("🛡️  [RATE-LIMIT] Loaded config: Global=%d/min, Generate=%d/min, Supplier=%d/min",
		rateLimitConfig.GlobalAPIMax,
		rateLimitConfig.GenerateMax,
		rateLimitConfig.SupplierSearchMax,
	)

	allowCredentials := cfg.AllowedOrigins != "*"
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization",
		AllowCredentials: allowCredentials,
	}))
	log.Printf("🔒 [SECURITY] CORS allowed origins: %s", cfg.AllowedOrigins)

	app.Use("/api", middleware.GlobalAPIRateLimiter(rateLimitConfig))

	// Handlers
	healthHandler := handlers.NewHealthHandler(db)
	projectHandler := handlers.NewProjectHandler(projectStore)
	clientHandler := handlers.NewClientHandler(clientStore)
	finishHandler := handlers.NewFinishHandler(catalog, favoriteStore)
	generateHandler := handlers.NewGenerateHandler(designService)
	supplierHandler := handlers.NewSupplierHandler(supplierService)
	exportHandler := handlers.NewExportHandler(projectStore, proposalService)

	// Routes
	app.Get("/health", healthHandler.Handle)

	api := app.Group("/api")

	if jwtAuth != nil {
		authHandler := handlers.NewAuthHandler(jwtAuth, cfg.WorkshopName, cfg.AppPasswordHash)
		api.Post("/auth/login", authHandler.Login)
		api.Post("/auth/refresh", authHandler.Refresh)
		api.Post("/auth/logout", authHandler.Logout)
	}

	protected := api.Group("", middleware.LocalAuthMiddleware(jwtAuth))

	generateLimiter := middleware.GenerateRateLimiter(rateLimitConfig)

	protected.Get("/projects", projectHandler.List)
	protected.Post("/projects", generateLimiter, generateHandler.Render)
	protected.Get("/projects/:id", projectHandler.Get)
	protected.Patch("/projects/:id", projectHandler.Update)
	protected.Delete("/projects/:id", projectHandler.Delete)
	protected.Post("/projects/:id/views", generateLimiter, generateHandler.AddView)
	protected.Get("/projects/:id/export.xlsx", exportHandler.Workbook)

	protected.Get("/clients", clientHandler.List)
	protected.Put("/clients", clientHandler.Upsert)
	protected.Post("/clients/:id/approve", clientHandler.Approve)
	protected.Delete("/clients/:id", clientHandler.Delete)

	protected.Get("/finishes", finishHandler.Catalog)
	protected.Get("/finishes/favorites", finishHandler.ListFavorites)
	protected.Post("/finishes/favorites", finishHandler.AddFavorite)
	protected.Delete("/finishes/favorites/:id", finishHandler.RemoveFavorite)

	generate := protected.Group("/generate", generateLimiter)
	generate.Post("/render", generateHandler.Render)
	generate.Post("/views", generateHandler.AddView)
	generate.Post("/floorplan", generateHandler.FloorPlan)
	generate.Post("/bom", generateHandler.BOM)
	generate.Post("/cutting-plan", generateHandler.CuttingPlan)
	generate.Post("/assembly", generateHandler.Assembly)
	generate.Post("/styles", generateHandler.Styles)
	generate.Post("/costs", generateHandler.Costs)
	generate.Post("/proposal", generateHandler.Proposal)

	protected.Post("/suppliers/search",
		middleware.SupplierSearchRateLimiter(rateLimitConfig), supplierHandler.Search)

	protected.Post("/proposal/html", exportHandler.ProposalHTML)

	// Background jobs
	jobScheduler := jobs.NewJobScheduler()
	jobScheduler.Register("database-backup", jobs.NewBackupJob(db, cfg.BackupDir))
	jobScheduler.Register("cache-sweep", jobs.NewCacheSweepJob(supplierService))
	if err := jobScheduler.Start(); err != nil {
		log.Printf("⚠️ Failed to start job scheduler: %v", err)
	}
	log.Println("🕐 Background jobs: database backup (daily 3 AM UTC), cache sweep (hourly)")

	// Handle graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("\n🛑 Shutting down server...")

		jobScheduler.Stop()

		if err := app.Shutdown(); err != nil {
			log.Printf("⚠️ Error shutting down server: %v", err)
		}
	}()

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}
