package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/pathlight-labs/pathlight-api/internal/config"
	"github.com/pathlight-labs/pathlight-api/internal/database"
	"github.com/pathlight-labs/pathlight-api/internal/handler"
	"github.com/pathlight-labs/pathlight-api/internal/middleware"
	"github.com/pathlight-labs/pathlight-api/internal/repository"
	"github.com/pathlight-labs/pathlight-api/internal/router"
	"github.com/pathlight-labs/pathlight-api/internal/service"
	"github.com/pathlight-labs/pathlight-api/internal/tools"
	"github.com/pathlight-labs/pathlight-api/pkg/ai"
	cloud "github.com/pathlight-labs/pathlight-api/pkg/cloudinary"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
	}

	var uploader service.FileStorage
	if cfg.CloudinaryCloudName != "" {
		cloudService, err := cloud.New(cloud.Config{
			CloudName: cfg.CloudinaryCloudName,
			APIKey:    cfg.CloudinaryAPIKey,
			APISecret: cfg.CloudinaryAPISecret,
			Folder:    cfg.CloudinaryUploadFolder,
		}, logger)
		if err != nil {
			log.Fatalf("failed to create cloudinary client: %v", err)
		}
		uploader = cloudService
	}

	var tutor ai.Tutor
	if cfg.OpenAIAPIKey != "" {
		openAITutor, err := ai.NewOpenAITutor(ai.OpenAIConfig{
			APIKey: cfg.OpenAIAPIKey,
			Model:  cfg.AssistantModel,
			Logger: logger,
		})
		if err != nil {
			log.Fatalf("failed to create assistant client: %v", err)
		}
		tutor = openAITutor
	}

	catalog := tools.Default()
	if cfg.ToolCatalogPath != "" {
		catalog, err = tools.Load(cfg.ToolCatalogPath)
		if err != nil {
			log.Fatalf("failed to load tool catalog: %v", err)
		}
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	lessonRepo := repository.NewLessonRepository(db)
	streakRepo := repository.NewStreakRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	achievementRepo := repository.NewAchievementRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	discussionRepo := repository.NewDiscussionRepository(db)

	lessonService := service.NewLessonService(lessonRepo, redisClient, validate, logger)
	dashboardService := service.NewDashboardService(lessonRepo, catalog, tools.NewKeywordMatcher(nil), redisClient, cfg.DashboardCacheTTL, validate, logger)
	streakService := service.NewStreakService(streakRepo, validate, logger)
	progressService := service.NewProgressService(progressRepo, validate, logger)
	gamificationService := service.NewGamificationService(achievementRepo, validate, logger)
	projectService := service.NewProjectService(projectRepo, uploader, cfg.MaxAssetSizeMB, validate, logger)
	discussionService := service.NewDiscussionService(discussionRepo, redisClient, cfg.EventChannelBase, natsConn, validate, logger)
	assistantService := service.NewAssistantService(tutor, lessonRepo, validate, logger)
	preferenceService := service.NewPreferenceService(redisClient, cfg.DefaultTheme, validate, logger)
	seedService := service.NewSeedService(subjectRepo, lessonRepo, cfg.SeedEnabled, cfg.SeedToken, validate, logger)

	serviceCtx, cancelServices := context.WithCancel(context.Background())
	defer cancelServices()
	discussionService.Start(serviceCtx)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		DashboardHandler:    handler.NewDashboardHandler(dashboardService, logger),
		LessonHandler:       handler.NewLessonHandler(lessonService, logger),
		StreakHandler:       handler.NewStreakHandler(streakService, logger),
		ProgressHandler:     handler.NewProgressHandler(progressService, logger),
		GamificationHandler: handler.NewGamificationHandler(gamificationService, logger),
		ProjectHandler:      handler.NewProjectHandler(projectService, logger),
		DiscussionHandler:   handler.NewDiscussionHandler(discussionService, validate, logger),
		AssistantHandler:    handler.NewAssistantHandler(assistantService, logger),
		PreferenceHandler:   handler.NewPreferenceHandler(preferenceService, logger),
		SeedHandler:         handler.NewSeedHandler(seedService, logger),
		JWTMiddleware:       middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
