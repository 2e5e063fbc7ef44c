package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/placementcell/placement-service/config"
	"github.com/placementcell/placement-service/infra/queue"
	"github.com/placementcell/placement-service/internal/api/rest/handlers"
	"github.com/placementcell/placement-service/internal/api/rest/middleware"
	"github.com/placementcell/placement-service/internal/domain"
	"github.com/placementcell/placement-service/internal/excel"
	"github.com/placementcell/placement-service/internal/helper"
	"github.com/placementcell/placement-service/internal/repository"
	"github.com/placementcell/placement-service/internal/services"
	"github.com/placementcell/placement-service/pkg/cloudinary"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func StartServer(cfg config.Config) {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(fiberlogger.New())

	// ---------- CORS ----------
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.BaseURL,
		AllowHeaders:     "Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	// ---------- DB ----------
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DatabaseDSN,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("database connection error")
	}
	log.Info().Msg("database connected")

	// ---------- MIGRATION + SEED (guarded by advisory lock) ----------
	const migrateLockID int64 = 20260901

	if err := db.Exec("SELECT pg_advisory_lock(?)", migrateLockID).Error; err != nil {
		log.Fatal().Err(err).Msg("migration lock error")
	}
	defer func() {
		_ = db.Exec("SELECT pg_advisory_unlock(?)", migrateLockID).Error
	}()

	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Course{},
		&domain.Student{},
		&domain.Job{},
		&domain.Application{},
		&domain.JobRound{},
		&domain.JobToken{},
		&domain.AuthRequest{},
	); err != nil {
		log.Fatal().Err(err).Msg("migration error")
	}
	log.Info().Msg("migration successful")

	authHelper := helper.SetupAuth(cfg.AccessSecret)
	seedAdmin(db, authHelper, cfg)

	// ---------- Infra ----------
	kafkaProducer := queue.NewProducer(
		cfg.KafkaBroker,
		cfg.KafkaTopic,
		cfg.KafkaUsername,
		cfg.KafkaPassword,
	)

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
	}
	limiter := middleware.NewRedisLimiter(redisClient)

	cld, err := cloudinary.New()
	if err != nil {
		log.Fatal().Err(err).Msg("cloudinary init error")
	}
	up := cloudinary.NewCloudinaryUploader(cld)

	// ---------- Repositories ----------
	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	jobRepo := repository.NewJobRepository(db)
	appRepo := repository.NewApplicationRepository(db)
	roundRepo := repository.NewRoundRepository(db)
	tokenRepo := repository.NewJobTokenRepository(db)
	authReqRepo := repository.NewAuthRequestRepository(db)

	// ---------- Services ----------
	notifier := services.NewNotifier(kafkaProducer)
	userSvc := services.NewUserService(userRepo, studentRepo, courseRepo, authHelper)
	courseSvc := services.NewCourseService(courseRepo)
	studentSvc := services.NewStudentService(
		studentRepo, userRepo, courseRepo, jobRepo, appRepo,
		excel.NewStudentSheetParser(), up, authHelper,
	)
	appSvc := services.NewApplicationService(studentRepo, jobRepo, appRepo, tokenRepo)
	jobSvc := services.NewJobService(
		jobRepo, studentRepo, appRepo, tokenRepo,
		excel.NewJobSheetParser(), notifier, up, cfg.FrontendURL,
	)
	roundSvc := services.NewRoundService(
		jobRepo, studentRepo, appRepo, roundRepo,
		excel.NewRosterParser(), notifier, cfg.CloseJobOnEmptyFinal,
	)
	authReqSvc := services.NewAuthRequestService(authReqRepo, studentRepo, courseRepo)

	// ---------- Handlers ----------
	userHandler := handlers.NewUserHandler(userSvc)
	courseHandler := handlers.NewCourseHandler(courseSvc)
	studentHandler := handlers.NewStudentHandler(studentSvc, userSvc)
	appHandler := handlers.NewApplicationHandler(appSvc, jobSvc)
	jobHandler := handlers.NewJobHandler(jobSvc)
	roundHandler := handlers.NewRoundHandler(roundSvc)
	authReqHandler := handlers.NewAuthRequestHandler(authReqSvc, studentSvc)

	applyLimit := middleware.RateLimit(limiter, "apply", 10, time.Minute)

	api := app.Group("/api")

	// Public routes first; everything registered after the auth
	// middleware requires a session.
	userHandler.SetupRoutes(api)
	courseHandler.SetupPublicRoutes(api)
	appHandler.SetupPublicRoutes(api, applyLimit)

	app.Use(middleware.AuthMiddleware(authHelper))

	student := api.Group("/student")
	studentHandler.SetupRoutes(student)
	appHandler.SetupStudentRoutes(student, applyLimit)
	authReqHandler.SetupStudentRoutes(student)

	admin := api.Group("/admin", middleware.AdminOnly(userSvc))
	jobHandler.SetupAdminRoutes(admin)
	studentHandler.SetupAdminRoutes(admin)
	roundHandler.SetupAdminRoutes(admin)
	authReqHandler.SetupAdminRoutes(admin)
	courseHandler.SetupAdminRoutes(admin)

	// ---------- Background sweeps ----------
	go runSweeps(authReqSvc, tokenRepo)

	// ---------- Health ----------
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// ---------- Listen ----------
	addr := cfg.ServerPort
	log.Info().Str("addr", addr).Msg("listening")
	log.Fatal().Err(app.Listen(addr)).Msg("server stopped")
}

// runSweeps drops expired auth requests and spent-by-time job tokens on
// an hourly cadence. Both deletes are idempotent, so overlapping
// replicas are fine.
func runSweeps(authReqSvc services.AuthRequestService, tokens repository.JobTokenRepository) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		if _, err := authReqSvc.PurgeExpired(); err != nil {
			log.Error().Err(err).Msg("auth request purge failed")
		}
		if deleted, err := tokens.DeleteExpired(time.Now()); err != nil {
			log.Error().Err(err).Msg("job token purge failed")
		} else if deleted > 0 {
			log.Info().Int64("count", deleted).Msg("purged expired job tokens")
		}
	}
}

func seedAdmin(db *gorm.DB, auth helper.Auth, cfg config.Config) {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return
	}

	var existing domain.User
	err := db.Where("email = ?", cfg.AdminEmail).First(&existing).Error
	if err != gorm.ErrRecordNotFound {
		return
	}

	hashed, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		log.Error().Err(err).Msg("admin seed: hash failed")
		return
	}
	err = db.Create(&domain.User{
		Email:        cfg.AdminEmail,
		PasswordHash: hashed,
		Name:         "Placement Admin",
		Role:         domain.RoleAdmin,
	}).Error
	if err != nil {
		log.Error().Err(err).Msg("admin seed failed")
		return
	}
	log.Info().Str("email", cfg.AdminEmail).Msg("admin user seeded")
}
