package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"legend-record-system/config"
	"legend-record-system/handlers"
	"legend-record-system/middleware"
	"legend-record-system/models"
	"legend-record-system/services"
	"legend-record-system/utils"
	"legend-record-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config:", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	app := fiber.New(fiber.Config{
		// three 5MB images plus the form itself
		BodyLimit: 20 * 1024 * 1024,
	})

	if cfg.GatewayToken != "" {
		app.Use(middleware.GatewayAuthMiddleware(cfg.GatewayToken))
	}

	origins := strings.Split(cfg.AllowedOrigins, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(origins, ","),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, X-User-ID, X-Service-Token",
		ExposeHeaders:    "Content-Length, Content-Type, Content-Disposition, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	app.Use(middleware.UserContextMiddleware(cfg.JWTSecret))

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Server{},
		&models.Player{},
		&models.Record{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	if err := services.SeedServers(db); err != nil {
		log.Fatal("failed to seed servers:", err)
	}

	var store utils.ImageStore
	if cfg.UseR2() {
		r2, err := utils.NewR2Store(cfg.CloudflareAccountID, cfg.R2AccessKeyID, cfg.R2AccessKeySecret, cfg.R2Bucket, cfg.CDNBaseURL)
		if err != nil {
			log.Fatal("failed to initialize R2 store:", err)
		}
		store = r2
		log.Println("✅ Image storage: R2")
	} else {
		local, err := utils.NewLocalStore(cfg.UploadDir)
		if err != nil {
			log.Fatal("failed to initialize local store:", err)
		}
		store = local
		app.Static("/uploads", cfg.UploadDir)
		log.Printf("✅ Image storage: local (%s)", cfg.UploadDir)
	}

	serverService := services.NewServerService(db)
	playerService := services.NewPlayerService(db)
	recordService := services.NewRecordService(db, playerService, store, cfg.ModerationEnabled)
	exportService := services.NewExportService(db)

	handlers.SetupServerRoutes(app, serverService)
	handlers.SetupPlayerRoutes(app, playerService, recordService)
	handlers.SetupRecordRoutes(app, recordService, exportService)

	sweeper := workers.NewTempSweeper(store, cfg.TempMaxAge)
	recordService.StartHousekeeping(sweeper, cfg.TempSweepInterval)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := app.Listen(cfg.ListenAddr); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on %s", cfg.ListenAddr)
	log.Printf("✅ Temp sweep every %s (max age %s)", cfg.TempSweepInterval, cfg.TempMaxAge)
	if cfg.ModerationEnabled {
		log.Println("✅ Moderation enabled — new records start as pending")
	}

	<-ctx.Done()
	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
