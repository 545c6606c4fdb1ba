package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/streadway/amqp"

	"github.com/MuhammadUsmanGM/ChatUp/internal/agent"
	"github.com/MuhammadUsmanGM/ChatUp/internal/clients/tavily"
	"github.com/MuhammadUsmanGM/ChatUp/internal/config"
	"github.com/MuhammadUsmanGM/ChatUp/internal/database"
	"github.com/MuhammadUsmanGM/ChatUp/internal/handlers"
	"github.com/MuhammadUsmanGM/ChatUp/internal/middleware"
	"github.com/MuhammadUsmanGM/ChatUp/internal/repositories"
	"github.com/MuhammadUsmanGM/ChatUp/internal/services"
	"github.com/MuhammadUsmanGM/ChatUp/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	cfg := config.Load()

	// --- Database ---
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := database.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := store.Close(shutdownCtx); err != nil {
			log.Printf("Error closing MongoDB connection: %v", err)
		}
	}()

	if err := store.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}
	log.Println("Connected to MongoDB")

	// --- Repositories ---
	userRepo := repositories.NewMongoUserRepository(store.Users)
	chatRepo := repositories.NewMongoChatRepository(store.Chats)

	// --- Mail ---
	smtpMailer := services.NewSMTPMailer(services.SMTPConfig{
		Server:   cfg.SMTPServer,
		Port:     cfg.SMTPPort,
		Address:  cfg.EmailAddress,
		Password: cfg.EmailPassword,
		BaseURL:  cfg.BaseURL,
	})

	// When RabbitMQ is configured, emails are queued and sent by a consumer
	// goroutine; otherwise they go out synchronously over SMTP.
	var mailer services.Mailer = smtpMailer
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()

		mailer = services.NewQueueMailer(mqClient)

		messageHandler := func(msg amqp.Delivery) error {
			var job rabbitmq.EmailJob
			if err := json.Unmarshal(msg.Body, &job); err != nil {
				// Unparseable jobs would requeue forever; log and drop.
				log.Printf("Dropping malformed email job %d: %v", msg.DeliveryTag, err)
				return nil
			}
			return services.DispatchEmailJob(smtpMailer, job)
		}
		if err := mqClient.ConsumeEmailJobs(messageHandler); err != nil {
			log.Fatalf("Failed to start email consumer: %v", err)
		}
	}

	// --- Agent ---
	var searcher agent.Searcher
	if cfg.TavilyAPIKey != "" {
		searcher = tavily.New(cfg.TavilyAPIKey)
	} else {
		log.Println("TAVILY_API_KEY not set; web search disabled")
	}
	chatAgent := agent.New(agent.Config{
		APIKey:  cfg.GeminiAPIKey,
		BaseURL: cfg.GeminiBaseURL,
	}, searcher)

	// --- Services ---
	authService := services.NewAuthService(userRepo, mailer, cfg.JWTSecret)
	chatService := services.NewChatService(chatRepo, chatAgent)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	accountHandler := handlers.NewAccountHandler(authService)
	chatHandler := handlers.NewChatHandler(chatService)
	supportHandler := handlers.NewSupportHandler(mailer)
	systemHandler := handlers.NewSystemHandler(store)

	// --- Initialize Fiber App ---
	app := fiber.New()

	// --- Middleware ---
	app.Use(logger.New()) // Request logger
	app.Use(cors.New())
	authRequired := middleware.AuthRequired(authService)

	// --- API Routes ---
	authHandler.RegisterRoutes(app)
	accountHandler.RegisterRoutes(app, authRequired)
	chatHandler.RegisterRoutes(app, authRequired)
	supportHandler.RegisterRoutes(app)
	systemHandler.RegisterRoutes(app)

	// --- Static Frontend ---
	registerStaticRoutes(app, cfg.StaticDir)

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", cfg.AppPort)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}

// registerStaticRoutes serves the single-page frontend: the index page, the
// asset directories, and the reset-password deep link (which the frontend
// JavaScript resolves from the query string).
func registerStaticRoutes(app *fiber.App, staticDir string) {
	app.Static("/css", staticDir+"/css")
	app.Static("/js", staticDir+"/js")
	app.Static("/assets", staticDir+"/assets")
	app.Static("/images", staticDir+"/images")

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendFile(staticDir + "/index.html")
	})
	app.Get("/favicon.ico", func(c *fiber.Ctx) error {
		return c.SendFile(staticDir + "/images/Logo.png")
	})
	app.Get("/reset-password", func(c *fiber.Ctx) error {
		return c.SendFile(staticDir + "/index.html")
	})
}
