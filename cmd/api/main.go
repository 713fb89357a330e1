package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/scholarhub/scholarhub-api/api/swagger"
	"github.com/scholarhub/scholarhub-api/internal/handler"
	"github.com/scholarhub/scholarhub-api/internal/middleware"
	"github.com/scholarhub/scholarhub-api/internal/repository"
	"github.com/scholarhub/scholarhub-api/internal/service"
	"github.com/scholarhub/scholarhub-api/pkg/cache"
	"github.com/scholarhub/scholarhub-api/pkg/config"
	"github.com/scholarhub/scholarhub-api/pkg/database"
	"github.com/scholarhub/scholarhub-api/pkg/logger"
	corsmiddleware "github.com/scholarhub/scholarhub-api/pkg/middleware/cors"
	reqidmiddleware "github.com/scholarhub/scholarhub-api/pkg/middleware/requestid"
)

// @title ScholarHub API
// @version 1.0.0
// @description School administration dashboard API: students, classes, rosters, attendance, grading and analytics.
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	cacheRepo := repository.NewCacheRepository(nil, logr)
	if cfg.Analytics.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, analytics cache disabled", "error", err)
		} else {
			cacheRepo = repository.NewCacheRepository(redisClient, logr)
		}
	}
	defer cacheRepo.Close() //nolint:errcheck

	studentRepo := repository.NewStudentRepository(db)
	classRepo := repository.NewClassRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	gradeRepo := repository.NewGradeRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)

	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Analytics.CacheTTL, logr, cfg.Analytics.CacheEnabled)

	studentSvc := service.NewStudentService(studentRepo, logr)
	classSvc := service.NewClassService(classRepo, logr)
	rosterSvc := service.NewRosterService(classRepo, studentRepo, logr)
	assignmentSvc := service.NewAssignmentService(assignmentRepo, classRepo, gradeRepo, logr)
	gradeSvc := service.NewGradeService(gradeRepo, assignmentRepo, studentRepo, logr)
	attendanceSvc := service.NewAttendanceService(attendanceRepo, classRepo, logr)
	analyticsSvc := service.NewAnalyticsService(studentRepo, gradeRepo, attendanceRepo, cacheSvc, cfg.Analytics.CacheTTL, logr)

	handlers := handler.Handlers{
		Students:   handler.NewStudentHandler(studentSvc),
		Classes:    handler.NewClassHandler(classSvc, rosterSvc),
		Assignment: handler.NewAssignmentHandler(assignmentSvc, gradeSvc),
		Grades:     handler.NewGradeHandler(gradeSvc),
		Attendance: handler.NewAttendanceHandler(attendanceSvc),
		Analytics:  handler.NewAnalyticsHandler(analyticsSvc),
	}
	if cfg.Exports.Enabled {
		exportSvc := service.NewExportService(classRepo, assignmentRepo, gradeRepo, studentRepo, analyticsSvc, attendanceSvc, logr)
		handlers.Exports = handler.NewExportHandler(exportSvc)
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handlers.Register(r.Group(cfg.APIPrefix))

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
