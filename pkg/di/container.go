package di

import (
	"context"
	"time"

	"gorm.io/gorm"

	"smart-attendance/application/serviceimpl"
	"smart-attendance/domain/attendance"
	"smart-attendance/domain/repositories"
	"smart-attendance/domain/services"
	"smart-attendance/infrastructure/postgres"
	"smart-attendance/infrastructure/recognition"
	"smart-attendance/infrastructure/redis"
	"smart-attendance/interfaces/api/handlers"
	"smart-attendance/interfaces/api/websocket"
	"smart-attendance/pkg/config"
	"smart-attendance/pkg/logger"
	"smart-attendance/pkg/scheduler"
)

type Container struct {
	// Configuration
	Config *config.Config

	// Infrastructure
	DB             *gorm.DB
	RedisClient    *redis.RedisClient
	EventScheduler scheduler.EventScheduler
	GeminiClient   *recognition.GeminiClient
	Hub            *websocket.Hub

	// Repositories
	UserRepository    repositories.UserRepository
	StudentRepository repositories.StudentRepository
	SessionRepository repositories.SessionRepository

	// Services
	AuthService       services.AuthService
	StudentService    services.StudentService
	AttendanceService services.AttendanceService
	ReportService     services.ReportService
}

func NewContainer() *Container {
	return &Container{}
}

func (c *Container) Initialize() error {
	if err := c.initConfig(); err != nil {
		return err
	}

	if err := c.initInfrastructure(); err != nil {
		return err
	}

	if err := c.initRepositories(); err != nil {
		return err
	}

	if err := c.initServices(); err != nil {
		return err
	}

	if err := c.initScheduler(); err != nil {
		return err
	}

	return nil
}

func (c *Container) initConfig() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	c.Config = cfg
	logger.Startup("config_loaded", "Configuration loaded", nil)
	return nil
}

func (c *Container) initInfrastructure() error {
	// Initialize Database
	dbConfig := postgres.DatabaseConfig{
		Host:     c.Config.Database.Host,
		Port:     c.Config.Database.Port,
		User:     c.Config.Database.User,
		Password: c.Config.Database.Password,
		DBName:   c.Config.Database.DBName,
		SSLMode:  c.Config.Database.SSLMode,
	}

	db, err := postgres.NewDatabase(dbConfig)
	if err != nil {
		return err
	}
	c.DB = db
	logger.Startup("db_connected", "Database connected", nil)

	// Run migrations
	if err := postgres.Migrate(db); err != nil {
		return err
	}
	logger.Startup("db_migrated", "Database migrated", nil)

	// Initialize Redis. Summaries fall back to fresh computation when the
	// cache is down, so a failed ping only warns.
	if c.Config.Redis.Enabled {
		redisConfig := redis.RedisConfig{
			Host:     c.Config.Redis.Host,
			Port:     c.Config.Redis.Port,
			Password: c.Config.Redis.Password,
			DB:       c.Config.Redis.DB,
		}
		c.RedisClient = redis.NewRedisClient(redisConfig)

		if err := c.RedisClient.Ping(context.Background()); err != nil {
			logger.StartupWarn("redis_connection_failed", "Redis connection failed, summaries will not be cached", map[string]interface{}{"error": err.Error()})
			c.RedisClient = nil
		} else {
			logger.Startup("redis_connected", "Redis connected", nil)
		}
	}

	// Initialize Gemini recognition client (optional)
	if c.Config.Gemini.APIKey != "" {
		gemini, err := recognition.NewGeminiClient(c.Config.Gemini.APIKey, c.Config.Gemini.Model)
		if err != nil {
			logger.StartupWarn("gemini_init_failed", "Recognition client init failed, scanning disabled", map[string]interface{}{"error": err.Error()})
		} else {
			c.GeminiClient = gemini
			logger.Startup("gemini_initialized", "Recognition client initialized", map[string]interface{}{"model": c.Config.Gemini.Model})
		}
	} else {
		logger.StartupWarn("gemini_not_configured", "GEMINI_API_KEY not set, scanning disabled", nil)
	}

	// Initialize WebSocket hub
	c.Hub = websocket.NewHub()

	return nil
}

func (c *Container) initRepositories() error {
	c.UserRepository = postgres.NewUserRepository(c.DB)
	c.StudentRepository = postgres.NewStudentRepository(c.DB)
	c.SessionRepository = postgres.NewSessionRepository(c.DB)

	logger.Startup("repositories_initialized", "Repositories initialized", nil)
	return nil
}

func (c *Container) initServices() error {
	c.AuthService = serviceimpl.NewAuthService(c.UserRepository, c.Config.JWT.Secret)
	c.StudentService = serviceimpl.NewStudentService(c.StudentRepository)
	// A nil *GeminiClient must stay a nil Recognizer, not a typed nil.
	var recognizer serviceimpl.Recognizer
	if c.GeminiClient != nil {
		recognizer = c.GeminiClient
	}
	c.AttendanceService = serviceimpl.NewAttendanceService(
		c.SessionRepository,
		c.StudentRepository,
		recognizer,
		c.RedisClient,
	)
	c.ReportService = serviceimpl.NewReportService(c.SessionRepository, c.StudentRepository)

	logger.Startup("services_initialized", "Services initialized", nil)
	return nil
}

func (c *Container) initScheduler() error {
	c.EventScheduler = scheduler.NewEventScheduler()

	// Log the consolidated cohort summary at the end of each school day.
	err := c.EventScheduler.AddJob("daily_summary", "0 18 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		today := time.Now().Format(attendance.DayFormat)
		summary, err := c.AttendanceService.DailySummary(ctx, today, attendance.CollapseUnmarked)
		if err != nil {
			logger.AttendanceError("daily_summary_job", "Scheduled summary failed", err, map[string]interface{}{"date": today})
			return
		}

		logger.Attendance("daily_summary_job", "End of day summary", map[string]interface{}{
			"date":    today,
			"present": summary.Present,
			"late":    summary.Late,
			"absent":  summary.Absent,
			"total":   summary.Total,
		})
	})
	if err != nil {
		return err
	}

	c.EventScheduler.Start()
	logger.Startup("scheduler_started", "Event scheduler started", nil)
	return nil
}

// GetHandlerServices returns the services needed by HTTP handlers
func (c *Container) GetHandlerServices() *handlers.Services {
	return &handlers.Services{
		AuthService:       c.AuthService,
		StudentService:    c.StudentService,
		AttendanceService: c.AttendanceService,
		ReportService:     c.ReportService,
	}
}

// GetHandlerInfrastructure returns shared infrastructure needed by handlers
func (c *Container) GetHandlerInfrastructure() *handlers.Infrastructure {
	return &handlers.Infrastructure{
		DB:          c.DB,
		RedisClient: c.RedisClient,
		Hub:         c.Hub,
	}
}

// GetConfig returns the application configuration
func (c *Container) GetConfig() *config.Config {
	return c.Config
}

// Cleanup releases infrastructure resources on shutdown
func (c *Container) Cleanup() error {
	if c.EventScheduler != nil {
		c.EventScheduler.Stop()
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			logger.StartupWarn("redis_close_failed", "Failed to close Redis client", map[string]interface{}{"error": err.Error()})
		}
	}

	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err != nil {
			return err
		}
		if err := sqlDB.Close(); err != nil {
			return err
		}
	}

	return nil
}
