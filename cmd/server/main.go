package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MAMIDISETTI/taskmanagers/internal/api"
	"github.com/MAMIDISETTI/taskmanagers/internal/config"
	"github.com/MAMIDISETTI/taskmanagers/internal/notify"
	mongorepo "github.com/MAMIDISETTI/taskmanagers/internal/repository/mongo"
	"github.com/MAMIDISETTI/taskmanagers/internal/service"
	"github.com/MAMIDISETTI/taskmanagers/internal/sheets"
	"github.com/MAMIDISETTI/taskmanagers/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	log.Println("Starting Task Managers Server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	log.Println("Configuration loaded.")

	// --- Database Connection ---
	dbClient, err := mongorepo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Println("Disconnecting MongoDB...")
		if err := mongorepo.DisconnectDB(dbClient); err != nil {
			log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Println("Database connection established.")

	// --- Ensure Indexes ---
	log.Println("Ensuring database indexes...")
	go func() { // Run index creation concurrently/in background
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongorepo.EnsureUserIndexes(ctx, appDB.Collection("users"))
		mongorepo.EnsureJoinerIndexes(ctx, appDB.Collection("joiners"))
		mongorepo.EnsureResultIndexes(ctx, appDB.Collection("results"))
		mongorepo.EnsureDayPlanIndexes(ctx, appDB.Collection("day_plans"))
		mongorepo.EnsureDemoIndexes(ctx, appDB.Collection("demos"))
		mongorepo.EnsureObservationIndexes(ctx, appDB.Collection("observations"))
		mongorepo.EnsureAssignmentIndexes(ctx, appDB.Collection("assignments"))
		log.Println("Index creation process completed.")
	}()

	// --- Initialize Storage ---
	log.Println("Initializing file storage service...")
	fileStorage, err := storage.NewS3Storage(cfg.S3)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize S3 storage: %v", err)
	}

	// --- Initialize Notification Queue ---
	var notifier notify.Notifier
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		notifier = notify.NewRedisNotifier(redisClient, cfg.Redis.QueueKey)
		log.Printf("Notification queue: redis (%s)", cfg.Redis.Addr)
	} else {
		notifier = notify.NewInMemory(1024)
		log.Println("Notification queue: in-memory (no redis.addr configured)")
	}

	// --- Initialize Repositories ---
	log.Println("Initializing repositories...")
	userRepo := mongorepo.NewMongoUserRepository(appDB)
	joinerRepo := mongorepo.NewMongoJoinerRepository(appDB)
	resultRepo := mongorepo.NewMongoResultRepository(appDB)
	dayPlanRepo := mongorepo.NewMongoDayPlanRepository(appDB)
	demoRepo := mongorepo.NewMongoDemoRepository(appDB)
	observationRepo := mongorepo.NewMongoObservationRepository(appDB)
	assignmentRepo := mongorepo.NewMongoAssignmentRepository(appDB)

	// --- Initialize Services ---
	log.Println("Initializing services...")
	sheetsClient := sheets.NewClient(30 * time.Second)
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	trainerService := service.NewTrainerService(userRepo)
	joinerService := service.NewJoinerService(joinerRepo, sheetsClient)
	resultService := service.NewResultService(resultRepo, joinerRepo)
	reportService := service.NewReportService(resultRepo, assignmentRepo, observationRepo, dayPlanRepo, demoRepo)
	dayPlanService := service.NewDayPlanService(dayPlanRepo, userRepo, notifier)
	demoService := service.NewDemoService(demoRepo, fileStorage, notifier)

	// --- Initialize Gin Engine ---
	// gin.SetMode(gin.ReleaseMode) // Uncomment for production
	router := gin.Default() // Includes Logger and Recovery middleware

	// --- Setup Routes ---
	log.Println("Setting up API routes...")
	api.SetupRoutes(router, api.RouterDeps{
		JWTSecret:         cfg.JWT.Secret,
		ExposeDiagnostics: cfg.Server.ExposeDiagnostics,
		AuthService:       authService,
		TrainerService:    trainerService,
		JoinerService:     joinerService,
		ResultService:     resultService,
		ReportService:     reportService,
		DayPlanService:    dayPlanService,
		DemoService:       demoService,
	})

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("FATAL: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
