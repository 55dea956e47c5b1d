package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/gofiber/contrib/otelfiber/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "github.com/jackc/pgx/v5/stdlib"

	"contacts-service/internal/api"
	"contacts-service/internal/avatar"
	"contacts-service/internal/config"
	"contacts-service/internal/events"
	"contacts-service/internal/jwt"
	"contacts-service/internal/mail"
	"contacts-service/internal/password"
	"contacts-service/internal/repository"
	"contacts-service/internal/service"
	"contacts-service/internal/tracing"
	_ "contacts-service/migrations"
)

func main() {
	if err := godotenv.Load(".env.dev"); err != nil {
		fmt.Println("No .env.dev file found, reading from environment variables")
	}

	api.SetupGlobalHandler("contacts-service")

	cfg := config.Load()

	shutdownTracer, err := tracing.InitTracerProvider("contacts-service")
	if err != nil {
		log.Fatalf("Failed to initialize OpenTelemetry: %v", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			log.Printf("Error shutting down tracer provider: %v", err)
		}
	}()

	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		handleMigrations(cfg)
		return
	}

	db := connectDB(cfg)
	defer db.Close()

	sender := newMailSender(cfg)
	storage := newAvatarStorage(cfg)

	var publisher events.EventPublisher
	if p, err := events.NewNatsPublisher(cfg.NatsURL); err != nil {
		log.Printf("WARNING: Failed to connect to NATS, lifecycle events disabled: %v", err)
	} else {
		publisher = p
	}

	userRepo := repository.NewPostgresUserRepository(db)
	contactRepo := repository.NewPostgresContactRepository(db)

	hasher := password.NewBcryptHasher(0)
	tokens := jwt.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)
	avatars := avatar.NewProcessor(storage)

	verificationService := service.NewVerificationService(userRepo, sender, cfg.BaseURL, publisher)
	authService := service.NewAuthService(userRepo, hasher, tokens, verificationService, avatars, publisher)
	contactService := service.NewContactService(contactRepo)

	authHandler := api.NewAuthHandler(authService, verificationService)
	contactHandler := api.NewContactHandler(contactService)

	app := fiber.New(fiber.Config{
		ErrorHandler: api.ErrorHandler,
	})
	app.Use(otelfiber.Middleware())
	app.Use(api.PrometheusMiddleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": "contacts-service"})
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Static("/avatars", cfg.AvatarsDir)

	root := app.Group("/api")

	authRoutes := root.Group("/auth")
	authRoutes.Post("/register", authHandler.Register)
	authRoutes.Get("/verify/:code", authHandler.Verify)
	authRoutes.Post("/verify", authHandler.ResendVerify)
	authRoutes.Post("/login", authHandler.Login)

	authed := api.AuthMiddleware(tokens, userRepo)
	authRoutes.Post("/logout", authed, authHandler.Logout)
	authRoutes.Get("/current", authed, authHandler.GetCurrent)
	authRoutes.Patch("/subscription", authed, authHandler.UpdateSubscription)
	authRoutes.Patch("/avatar", authed, authHandler.UpdateAvatar)

	contactRoutes := root.Group("/contacts")
	contactRoutes.Use(authed)
	contactRoutes.Get("/", contactHandler.List)
	contactRoutes.Get("/:id", contactHandler.GetByID)
	contactRoutes.Post("/", contactHandler.Add)
	contactRoutes.Put("/:id", contactHandler.Update)
	contactRoutes.Patch("/:id/favorite", contactHandler.UpdateFavorite)
	contactRoutes.Delete("/:id", contactHandler.Delete)

	log.Printf("Listening contacts-service on port %s", cfg.AppPort)
	log.Fatal(app.Listen(":" + cfg.AppPort))
}

func connectDB(cfg *config.Config) *sqlx.DB {
	db, err := sqlx.Connect("pgx", cfg.DatabaseURL())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Successfully connected to the database.")
	return db
}

func newMailSender(cfg *config.Config) mail.Sender {
	switch cfg.MailTransport {
	case "nats":
		sender, err := mail.NewNatsSender(cfg.NatsURL)
		if err != nil {
			log.Fatalf("Failed to connect to NATS for mail queueing: %v", err)
		}
		return sender
	default:
		sender, err := mail.NewSESSender(context.Background(),
			cfg.AWSAccessKey, cfg.AWSSecretKey, cfg.AWSRegion, cfg.MailFrom, cfg.MailFromName,
		)
		if err != nil {
			log.Fatalf("Failed to initialize SES sender: %v", err)
		}
		return sender
	}
}

func newAvatarStorage(cfg *config.Config) avatar.Storage {
	if cfg.AvatarStorage == "s3" {
		storage, err := avatar.NewS3Storage(context.Background(), avatar.S3Config{
			Region:       cfg.AWSRegion,
			Bucket:       cfg.S3Bucket,
			Endpoint:     cfg.S3Endpoint,
			AccessKey:    cfg.AWSAccessKey,
			SecretKey:    cfg.AWSSecretKey,
			UsePathStyle: cfg.S3UsePathStyle,
		})
		if err != nil {
			log.Fatalf("Failed to initialize S3 avatar storage: %v", err)
		}
		return storage
	}

	storage, err := avatar.NewLocalStorage(cfg.AvatarsDir)
	if err != nil {
		log.Fatalf("Failed to initialize avatar storage: %v", err)
	}
	return storage
}

func handleMigrations(cfg *config.Config) {
	fmt.Println("Running database migrations...")

	db, err := sql.Open("pgx", cfg.DatabaseURL())
	if err != nil {
		log.Fatalf("failed to connect to database for migration: %v", err)
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("failed to set goose dialect: %v", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		log.Fatalf("goose: failed to run migrations: %v", err)
	}

	fmt.Println("Migrations applied successfully!")
}
