package app

import (
	"context"
	"errors"
	"miniudemy_backend/internal/config"
	"miniudemy_backend/internal/controller"
	"miniudemy_backend/internal/repository"
	"miniudemy_backend/internal/service"
	"miniudemy_backend/internal/session"
	"miniudemy_backend/internal/util"
	"miniudemy_backend/pkg/configwatcher"
	"miniudemy_backend/pkg/database"
	"miniudemy_backend/pkg/logger"
	"miniudemy_backend/pkg/monitoring"
	"miniudemy_backend/pkg/security"
	"miniudemy_backend/pkg/tracing"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	Sessions session.Store

	services        *services
	tracer          *sdktrace.TracerProvider
	configCallbacks []configwatcher.Reloader
}

type repositories struct {
	user       *repository.UserRepository
	category   *repository.CategoryRepository
	course     *repository.CourseRepository
	lesson     *repository.LessonRepository
	enrollment *repository.EnrollmentRepository
	progress   *repository.ProgressRepository
	review     *repository.ReviewRepository
}

type services struct {
	auth       *service.AuthService
	storage    *service.StorageService
	access     *service.AccessService
	review     *service.ReviewService
	course     *service.CourseService
	lesson     *service.LessonService
	enrollment *service.EnrollmentService
	seed       *service.SeedService
}

type controllers struct {
	auth       *controller.AuthController
	course     *controller.CourseController
	lesson     *controller.LessonController
	enrollment *controller.EnrollmentController
	review     *controller.ReviewController
	health     *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback configwatcher.Reloader) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		category:   repository.NewCategoryRepository(db),
		course:     repository.NewCourseRepository(db),
		lesson:     repository.NewLessonRepository(db),
		enrollment: repository.NewEnrollmentRepository(db),
		progress:   repository.NewProgressRepository(db),
		review:     repository.NewReviewRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB) *services {
	s := &services{}

	s.storage = service.NewStorageService(&cfg.Storage)
	s.auth = service.NewAuthService(repos.user, a.Sessions, cfg)
	s.access = service.NewAccessService(repos.course, repos.enrollment)
	s.review = service.NewReviewService(db, repos.course, repos.enrollment, repos.review)
	s.course = service.NewCourseService(db, repos.course, repos.category, s.review)
	s.lesson = service.NewLessonService(db, repos.lesson, repos.course, s.access, s.storage)
	s.enrollment = service.NewEnrollmentService(db, repos.course, repos.lesson, repos.enrollment, repos.progress)
	s.seed = service.NewSeedService(db)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth, a.Sessions),
		course:     controller.NewCourseController(s.course),
		lesson:     controller.NewLessonController(s.lesson),
		enrollment: controller.NewEnrollmentController(s.enrollment),
		review:     controller.NewReviewController(s.review),
		health:     controller.NewHealthController(db, a.Redis),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, window))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// New 在给定的连接与会话存储上组装路由，rdb 可为空
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, sessions session.Store) *App {
	app := &App{
		Config:   cfg,
		DB:       db,
		Redis:    rdb,
		Sessions: sessions,
	}

	repos := app.initRepositories(db)
	app.services = app.initServices(repos, cfg, db)
	controllers := app.initControllers(app.services, db)

	monitoring.Init()

	if cfg.Server.Mode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.RegisterConfigCallback(logger.OnConfigReload)
	return app
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode, cfg.ForceMigrate || cfg.Server.Mode != gin.ReleaseMode)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	var (
		rdb      *redis.Client
		sessions session.Store
	)
	if cfg.Redis.Enabled {
		rdb, err = database.InitRedis(&cfg.Redis)
		if err != nil {
			logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		}
		sessions = session.NewRedisStore(rdb)
	} else {
		logger.Log.Warn("Redis disabled, revoked tokens are kept in memory")
		sessions = session.NewMemoryStore()
	}

	app := New(cfg, db, rdb, sessions)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("miniudemy-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	return app
}

// Seed 写入演示数据，已存在时跳过
func (a *App) Seed(ctx context.Context) error {
	created, err := a.services.seed.Seed(ctx)
	if err != nil {
		return err
	}
	if created {
		logger.Log.Info("Seed data created",
			zap.String("instructor", service.SeedInstructorEmail),
			zap.String("student", service.SeedStudentEmail))
	} else {
		logger.Log.Info("Seed data already present, skipped")
	}
	return nil
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// 配置热加载
	if a.Config.Dir != "" {
		go func() {
			file := filepath.Join(a.Config.Dir, "config.yaml")
			if err := configwatcher.Watch(ctx, file, a.configCallbacks...); err != nil {
				logger.Log.Warn("Config watcher stopped", zap.Error(err))
			}
		}()
	}

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("listen", zap.Error(err))
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(shutdownCtx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}

	logger.Log.Info("Server exiting")
}
