package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"plume/internal/apierr"
	"plume/internal/handlers"
	"plume/internal/middleware"
	"plume/internal/models"
	"plume/internal/repositories"
	"plume/internal/services"
	"plume/pkg/rabbitmq"
)

// NewApp wires repositories, services, gates and handlers into a Fiber app.
// A nil db falls back to the in-memory repositories (useful for local runs
// without a database); a nil events publisher disables messaging. Tests
// inject an in-memory SQLite db, a nop logger and no publisher.
func NewApp(db *gorm.DB, events services.EventPublisher, appLogger *zap.Logger, jwtSecret string) (*fiber.App, error) {
	var (
		accountRepo repositories.AccountRepository
		profileRepo repositories.ProfileRepository
		articleRepo repositories.ArticleRepository
		commentRepo repositories.CommentRepository
	)
	if db != nil {
		accountRepo = repositories.NewGORMAccountRepository(db)
		profileRepo = repositories.NewGORMProfileRepository(db)
		articleRepo = repositories.NewGORMArticleRepository(db)
		commentRepo = repositories.NewGORMCommentRepository(db)
	} else {
		accountRepo = repositories.NewMockAccountRepository()
		profileRepo = repositories.NewMockProfileRepository()
		articleRepo = repositories.NewMockArticleRepository()
		commentRepo = repositories.NewMockCommentRepository()
	}

	authService := services.NewAuthService(accountRepo, profileRepo, articleRepo, commentRepo, events, appLogger, jwtSecret)
	profileService := services.NewProfileService(profileRepo, articleRepo, commentRepo, appLogger)
	articleService := services.NewArticleService(articleRepo, commentRepo, events, appLogger)
	commentService := services.NewCommentService(commentRepo, articleRepo, appLogger)

	authHandler := handlers.NewAuthHandler(authService)
	profileHandler := handlers.NewProfileHandler(profileService)
	articleHandler := handlers.NewArticleHandler(articleService, commentService)

	app := fiber.New(fiber.Config{
		ErrorHandler: apierr.ErrorHandler(appLogger),
	})
	app.Use(logger.New())

	authRequired := middleware.AuthRequired(authService)
	profileRequired := middleware.ProfileRequired(profileRepo)

	apiV1 := app.Group("/api/v1")
	authHandler.RegisterRoutes(apiV1, authRequired)
	profileHandler.RegisterRoutes(apiV1, authRequired)
	articleHandler.RegisterRoutes(apiV1, authRequired, profileRequired)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	return app, nil
}

func main() {
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DATABASE_DSN", "")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.AutomaticEnv()

	appPort := viper.GetString("APP_PORT")
	databaseDSN := viper.GetString("DATABASE_DSN")
	jwtSecret := viper.GetString("JWT_SECRET")
	rabbitMQURL := viper.GetString("RABBITMQ_URL")

	appLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()

	if jwtSecret == "" {
		appLogger.Fatal("JWT_SECRET must be set")
	}

	var db *gorm.DB
	if databaseDSN != "" {
		db, err = gorm.Open(postgres.Open(databaseDSN), &gorm.Config{})
		if err != nil {
			appLogger.Fatal("failed to connect to database", zap.Error(err))
		}
		err = db.AutoMigrate(&models.Account{}, &models.Profile{}, &models.Article{}, &models.Comment{})
		if err != nil {
			appLogger.Fatal("failed to migrate database", zap.Error(err))
		}
	} else {
		appLogger.Warn("DATABASE_DSN not set, using in-memory repositories")
	}

	var events services.EventPublisher
	var mqClient *rabbitmq.Client
	if rabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: rabbitMQURL})
		if err != nil {
			appLogger.Fatal("failed to initialize RabbitMQ client", zap.Error(err))
		}
		defer mqClient.Close()
		events = mqClient

		// Log the content event stream; downstream consumers (search
		// indexing, notifications) hang off the same queue.
		err = mqClient.Consume(func(msg amqp.Delivery) error {
			appLogger.Info("content event",
				zap.String("type", msg.Type),
				zap.ByteString("body", msg.Body),
			)
			return nil
		})
		if err != nil {
			appLogger.Fatal("failed to start RabbitMQ consumer", zap.Error(err))
		}
	}

	app, err := NewApp(db, events, appLogger, jwtSecret)
	if err != nil {
		appLogger.Fatal("failed to create app", zap.Error(err))
	}

	appLogger.Info("starting server", zap.String("port", appPort))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			appLogger.Fatal("server failed to start", zap.Error(err))
		}
	}()

	<-quit
	appLogger.Info("shutting down server")

	if err := app.Shutdown(); err != nil {
		appLogger.Error("error during shutdown", zap.Error(err))
	}
	appLogger.Info("server gracefully stopped")
}
