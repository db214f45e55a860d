package bootstrap

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/studentrecords/internal/app/controllers"
	appMigrations "github.com/yigit/studentrecords/internal/app/migrations"
	appRepos "github.com/yigit/studentrecords/internal/app/repositories"
	"github.com/yigit/studentrecords/internal/app/repositories/inmem"
	pgRepos "github.com/yigit/studentrecords/internal/app/repositories/postgres"
	appRoutes "github.com/yigit/studentrecords/internal/app/routes"
	appServices "github.com/yigit/studentrecords/internal/app/services"
	"github.com/yigit/studentrecords/internal/app/views"
	"github.com/yigit/studentrecords/internal/config"
	"github.com/yigit/studentrecords/internal/db"
	appMiddleware "github.com/yigit/studentrecords/internal/middleware"
	pkgAuth "github.com/yigit/studentrecords/internal/pkg/auth"
	"github.com/yigit/studentrecords/internal/pkg/filestorage"
	"github.com/yigit/studentrecords/internal/pkg/helpers"
	"github.com/yigit/studentrecords/internal/pkg/logger"
	"github.com/yigit/studentrecords/internal/seed"
)

// staticURL is where generated files such as histograms are served.
const staticURL = "/static"

// Dependencies holds all the application dependencies
type Dependencies struct {
	Store                appRepos.Store
	StudentService       *appServices.StudentService
	CourseService        *appServices.CourseService
	EnrollmentService    *appServices.EnrollmentService
	MarksService         *appServices.MarksService
	AuthService          *appServices.AuthService // nil when auth is disabled
	AuthController       *appControllers.AuthController
	StudentController    *appControllers.StudentController
	CourseController     *appControllers.CourseController
	EnrollmentController *appControllers.EnrollmentController
	WebController        *appControllers.WebController
	MarksController      *appControllers.MarksController
	AuthMiddleware       *appMiddleware.AuthMiddleware
	FileStorage          *filestorage.LocalStorage
	Logger               zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: strings.ToLower(cfg.Logging.Format) != "json",
	})

	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupStore opens the configured record store, applies migrations and
// seeds the default courses. The returned func releases the store.
func SetupStore(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (appRepos.Store, func(), error) {
	var (
		store   appRepos.Store
		closeFn = func() {}
	)

	switch cfg.Database.Driver {
	case config.DriverMemory:
		lgr.Info().Msg("Using in-memory record store")
		store = inmem.NewStore()

	case config.DriverPostgres:
		lgr.Info().Msg("Establishing database connection...")
		database, err := db.NewPostgresDB(cfg)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to connect to database")
			return nil, nil, err
		}
		lgr.Info().Msg("Database connection successfully established.")

		migrationsDir := cfg.Database.MigrationsDir
		if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
			database.Close()
			lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
			return nil, nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
		}

		lgr.Info().Msg("Running database migrations...")
		if err := appMigrations.NewMigrator(database.Pool).MigrateFromDirectory(ctx, migrationsDir); err != nil {
			database.Close()
			lgr.Error().Err(err).Msg("Database migration error")
			return nil, nil, fmt.Errorf("database migrations failed: %w", err)
		}
		lgr.Info().Msg("Database migrations successfully applied.")

		store = pgRepos.NewStore(database.Pool)
		closeFn = func() {
			lgr.Info().Msg("Closing database connection pool...")
			database.Close()
		}

	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	if cfg.Database.Seed {
		if err := seed.CreateDefaultData(ctx, store, lgr); err != nil {
			lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
		}
	}

	return store, closeFn, nil
}

// BuildDependencies initializes services and controllers on top of store.
func BuildDependencies(cfg *config.Config, store appRepos.Store, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Store: store, Logger: lgr}

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StaticPath, staticURL)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.StudentService = appServices.NewStudentService(store, logger.Component("student_service"))
	deps.CourseService = appServices.NewCourseService(store, logger.Component("course_service"))
	deps.EnrollmentService = appServices.NewEnrollmentService(store, logger.Component("enrollment_service"))
	deps.MarksService = appServices.NewMarksService(
		cfg.Marks.CSVPath,
		cfg.Marks.HistogramBins,
		deps.FileStorage,
		logger.Component("marks_service"),
	)

	if cfg.Auth.Enabled {
		jwtService := pkgAuth.NewJWTService(pkgAuth.JWTConfig{
			SecretKey:      cfg.Auth.JWTSecret,
			AccessTokenExp: helpers.ParseDuration(cfg.Auth.AccessTokenExpiration, time.Hour),
			TokenIssuer:    cfg.Auth.Issuer,
		})
		deps.AuthService = appServices.NewAuthService(
			cfg.Auth.AdminUsername,
			cfg.Auth.AdminPasswordHash,
			jwtService,
			logger.Component("auth_service"),
		)
		deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(jwtService, cfg.Auth.AdminUsername, cfg.Auth.AdminPasswordHash)
		deps.AuthController = appControllers.NewAuthController(deps.AuthService, lgr)
		lgr.Info().Msg("JWT authentication enabled for mutating API routes")
	}

	deps.StudentController = appControllers.NewStudentController(deps.StudentService)
	deps.CourseController = appControllers.NewCourseController(deps.CourseService)
	deps.EnrollmentController = appControllers.NewEnrollmentController(deps.EnrollmentService)
	deps.WebController = appControllers.NewWebController(deps.StudentService, deps.CourseService, logger.Component("web"))
	deps.MarksController = appControllers.NewMarksController(deps.MarksService, logger.Component("marks"))

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware, templates and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (*gin.Engine, error) {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger(lgr))

	tmpl, err := views.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to load page templates: %w", err)
	}
	router.SetHTMLTemplate(tmpl)
	router.Static(staticURL, cfg.Server.StaticPath)

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.StudentController,
		deps.CourseController,
		deps.EnrollmentController,
		deps.WebController,
		deps.MarksController,
		deps.AuthMiddleware,
	)

	return router, nil
}
