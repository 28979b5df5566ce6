package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/campuskit/academic-records-api/api/swagger"
	"github.com/campuskit/academic-records-api/internal/handler"
	"github.com/campuskit/academic-records-api/internal/middleware"
	"github.com/campuskit/academic-records-api/internal/models"
	"github.com/campuskit/academic-records-api/internal/repository"
	"github.com/campuskit/academic-records-api/internal/seed"
	"github.com/campuskit/academic-records-api/internal/service"
	"github.com/campuskit/academic-records-api/pkg/cache"
	"github.com/campuskit/academic-records-api/pkg/config"
	"github.com/campuskit/academic-records-api/pkg/database"
	"github.com/campuskit/academic-records-api/pkg/logger"
	corsmiddleware "github.com/campuskit/academic-records-api/pkg/middleware/cors"
	reqidmiddleware "github.com/campuskit/academic-records-api/pkg/middleware/requestid"
)

// @title Academic Records API
// @version 1.0.0
// @description Identity, enrollment and academic record management
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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
		logr.Sugar().Fatalw("failed to connect database", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	metricsSvc := service.NewMetricsService()

	// Repositories
	studentRepo := repository.NewStudentRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	departmentRepo := repository.NewDepartmentRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)

	// A nil Redis client degrades the cache repository to a no-op, so the
	// services never need to care whether caching is on.
	if !cfg.Cache.Enabled {
		redisClient = nil
	}
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	// Services
	tokenSvc := service.NewTokenService(cfg.JWT)
	authSvc := service.NewAuthService(studentRepo, teacherRepo, departmentRepo, tokenSvc, nil, logr)
	studentSvc := service.NewStudentService(studentRepo, departmentRepo, nil, logr)
	teacherSvc := service.NewTeacherService(teacherRepo, departmentRepo, nil, logr)
	departmentSvc := service.NewDepartmentService(departmentRepo, cacheRepo, cfg.Cache.TTL, metricsSvc, nil, logr)
	courseSvc := service.NewCourseService(courseRepo, departmentRepo, teacherRepo, cacheRepo, cfg.Cache.TTL, metricsSvc, nil, logr)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, studentRepo, courseRepo, nil, logr)
	transcriptSvc := service.NewTranscriptService(studentRepo, departmentRepo, enrollmentRepo, logr)

	if cfg.Seed.Enabled {
		seeder := seed.New(departmentRepo, teacherRepo, courseRepo, logr)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := seeder.Run(ctx); err != nil {
			logr.Sugar().Fatalw("failed to seed database", "error", err)
		}
		cancel()
	}

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc, metricsSvc)
	studentHandler := handler.NewStudentHandler(studentSvc, transcriptSvc)
	teacherHandler := handler.NewTeacherHandler(teacherSvc)
	departmentHandler := handler.NewDepartmentHandler(departmentSvc, studentSvc, teacherSvc)
	courseHandler := handler.NewCourseHandler(courseSvc)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentSvc, metricsSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	authn := middleware.JWT(tokenSvc, authSvc.Directory())
	anyRole := middleware.RequireRoles(models.RoleStudent, models.RoleTeacher)
	teacherOnly := middleware.RequireRoles(models.RoleTeacher)

	api := r.Group(cfg.APIPrefix)
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/register/student", authHandler.RegisterStudent)
			auth.POST("/register/teacher", authHandler.RegisterTeacher)
			auth.GET("/me", authn, anyRole, authHandler.Me)
		}

		students := api.Group("/students", authn)
		{
			students.GET("", anyRole, studentHandler.List)
			students.GET("/pending", teacherOnly, studentHandler.ListPending)
			students.GET("/:id", anyRole, studentHandler.Get)
			students.PUT("/:id", anyRole, studentHandler.Update)
			students.DELETE("/:id", teacherOnly, studentHandler.Delete)
			students.POST("/:id/approve", teacherOnly, studentHandler.Approve)
			students.POST("/:id/reject", teacherOnly, studentHandler.Reject)
			students.GET("/:id/enrollments", anyRole, enrollmentHandler.ListByStudent)
			students.GET("/:id/enrollments/count", anyRole, enrollmentHandler.CountByStudent)
			students.GET("/:id/transcript", anyRole, studentHandler.ExportTranscript)
		}

		teachers := api.Group("/teachers", authn)
		{
			teachers.GET("", anyRole, teacherHandler.List)
			teachers.GET("/:id", anyRole, teacherHandler.Get)
			teachers.PUT("/:id", teacherOnly, teacherHandler.Update)
			teachers.DELETE("/:id", teacherOnly, teacherHandler.Delete)
		}

		departments := api.Group("/departments")
		{
			departments.GET("/all", departmentHandler.ListAll)
			departments.GET("", authn, anyRole, departmentHandler.List)
			departments.GET("/code/:code", authn, anyRole, departmentHandler.GetByCode)
			departments.GET("/:id", authn, anyRole, departmentHandler.Get)
			departments.GET("/:id/stats", authn, teacherOnly, departmentHandler.Stats)
			departments.POST("", authn, teacherOnly, departmentHandler.Create)
			departments.PUT("/:id", authn, teacherOnly, departmentHandler.Update)
			departments.DELETE("/:id", authn, teacherOnly, departmentHandler.Delete)
		}

		courses := api.Group("/courses")
		{
			courses.GET("/all", courseHandler.ListAll)
			courses.GET("", authn, anyRole, courseHandler.List)
			courses.GET("/code/:code", authn, anyRole, courseHandler.GetByCode)
			courses.GET("/:id", authn, anyRole, courseHandler.Get)
			courses.GET("/:id/enrollments/count", authn, anyRole, enrollmentHandler.CountByCourse)
			courses.POST("", authn, teacherOnly, courseHandler.Create)
			courses.PUT("/:id", authn, teacherOnly, courseHandler.Update)
			courses.PUT("/:id/teacher", authn, teacherOnly, courseHandler.AssignTeacher)
			courses.DELETE("/:id", authn, teacherOnly, courseHandler.Delete)
		}

		enrollments := api.Group("/enrollments", authn)
		{
			enrollments.GET("", anyRole, enrollmentHandler.List)
			enrollments.GET("/:id", anyRole, enrollmentHandler.Get)
			enrollments.POST("", teacherOnly, enrollmentHandler.Enroll)
			enrollments.PUT("/:id/grade", teacherOnly, enrollmentHandler.UpdateGrade)
			enrollments.DELETE("/:id", teacherOnly, enrollmentHandler.Drop)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
