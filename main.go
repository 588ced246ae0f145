package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"gwc-community-system/handlers"
	"gwc-community-system/models"
	"gwc-community-system/services"
	"gwc-community-system/utils"
	"gwc-community-system/workers"

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

	app := fiber.New(fiber.Config{
		BodyLimit: 25 * 1024 * 1024, // 25MB, covers cover images and team photos
	})

	// Load allowed origins from environment variable
	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, Cache-Control",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable not set")
	}

	if err := utils.InitR2(); err != nil {
		log.Fatal("failed to initialize R2 client:", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.PasswordReset{},
		&models.Tournament{},
		&models.TournamentRegistration{},
		&models.Scoreboard{},
		&models.TournamentRanking{},
		&models.BlogPost{},
		&models.BlogComment{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	// Where the admin role is read from: the token claim (fast, sticky until
	// re-login) or the user record (fresh on every new session).
	roleSource, err := services.ParseRoleSource(os.Getenv("ROLE_SOURCE"))
	if err != nil {
		log.Fatal("invalid ROLE_SOURCE:", err)
	}

	hub := services.NewLiveHub()
	sessions := services.NewSessionStore(db, roleSource)

	var mailer *services.Mailer
	m, err := services.NewMailerFromEnv()
	if err != nil {
		log.Printf("⚠️  email disabled: %v", err)
	} else {
		mailer = m
	}

	baseURL := os.Getenv("APP_BASE_URL")
	if baseURL == "" {
		baseURL = allowedOriginsList[0]
	}

	authService := services.NewAuthService(db, sessions, mailer, jwtSecret, baseURL)
	tournamentService := services.NewTournamentService(db, hub)
	scoreboardService := services.NewScoreboardService(db, hub)
	rankingService := services.NewRankingService(db, hub)
	blogService := services.NewBlogService(db, hub)
	liveService := services.NewLiveService(db, hub)
	cartService := services.NewCartService()
	mediaService := services.NewMediaService()

	var notifier services.RegistrationNotifier
	if mailer != nil {
		notifier = mailer
	} else {
		notifier = services.NopNotifier{}
	}
	registrationService := services.NewRegistrationService(db, notifier)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go workers.PurgeResetCodes(ctx, db, 10*time.Minute)

	blogService.StartPublishScheduler()

	handlers.SetupAuthRoutes(app, authService, jwtSecret, sessions)
	handlers.SetupTournamentRoutes(app, tournamentService, registrationService, jwtSecret, sessions)
	handlers.SetupScoreboardRoutes(app, scoreboardService, rankingService, jwtSecret, sessions)
	handlers.SetupBlogRoutes(app, blogService, jwtSecret, sessions)
	handlers.SetupLiveRoutes(app, liveService, cartService, mediaService, jwtSecret, sessions)

	port := os.Getenv("PORT")
	if port == "" {
		port = "5300"
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", port)
	log.Printf("✅ Role source: %s", roleSource)
	log.Println("✅ Blog publish scheduler running (every 1m)")
	log.Println("✅ Reset code purge running (every 10m)")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
	_ = app.Shutdown()
}
