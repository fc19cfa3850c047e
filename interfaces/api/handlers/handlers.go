package handlers

import (
	"gorm.io/gorm"

	"smart-attendance/domain/services"
	"smart-attendance/infrastructure/redis"
	"smart-attendance/interfaces/api/websocket"
	"smart-attendance/pkg/config"
)

// Services contains all the services needed for handlers
type Services struct {
	AuthService       services.AuthService
	StudentService    services.StudentService
	AttendanceService services.AttendanceService
	ReportService     services.ReportService
}

// Infrastructure contains shared infrastructure needed by some handlers
type Infrastructure struct {
	DB          *gorm.DB
	RedisClient *redis.RedisClient
	Hub         *websocket.Hub
}

// Handlers contains all HTTP handlers
type Handlers struct {
	AuthHandler       *AuthHandler
	StudentHandler    *StudentHandler
	AttendanceHandler *AttendanceHandler
	ReportHandler     *ReportHandler
	HealthHandler     *HealthHandler

	// Short accessors for routes
	Auth       *AuthHandler
	Student    *StudentHandler
	Attendance *AttendanceHandler
	Report     *ReportHandler
	Health     *HealthHandler
}

// NewHandlers creates a new instance of Handlers with all dependencies
func NewHandlers(services *Services, infra *Infrastructure, cfg *config.Config) *Handlers {
	authHandler := NewAuthHandler(services.AuthService)
	studentHandler := NewStudentHandler(services.StudentService, infra.Hub)
	attendanceHandler := NewAttendanceHandler(services.AttendanceService, infra.Hub)
	reportHandler := NewReportHandler(services.ReportService)
	healthHandler := NewHealthHandler(infra.DB, infra.RedisClient, infra.Hub, cfg)

	return &Handlers{
		AuthHandler:       authHandler,
		StudentHandler:    studentHandler,
		AttendanceHandler: attendanceHandler,
		ReportHandler:     reportHandler,
		HealthHandler:     healthHandler,

		// Short accessors
		Auth:       authHandler,
		Student:    studentHandler,
		Attendance: attendanceHandler,
		Report:     reportHandler,
		Health:     healthHandler,
	}
}
