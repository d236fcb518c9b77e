package http

import (
	"task_api/internal/config"
	"task_api/internal/http/handlers"
	"task_api/internal/http/middleware"
	"task_api/internal/repository"
	"task_api/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

func RegisterRoutes(r *gin.Engine, db *mongo.Database, cfg *config.Config) {
	taskRepo := repository.NewTaskRepository(db)
	userRepo := repository.NewUserRepository(db)
	integrity := service.NewCoordinator(taskRepo, userRepo)

	h := handlers.NewHandler(
		service.NewTaskService(taskRepo, userRepo, integrity),
		service.NewUserService(taskRepo, userRepo, integrity),
	)
	healthHandler := handlers.NewHealthHandler(db, cfg.AppVersion)

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	api := r.Group("/",
		middleware.Metrics(),
		middleware.RedisRateLimit(cfg.APIRateLimit, cfg.APIRateWindow),
	)

	api.GET("/tasks", h.ListTasks)
	api.POST("/tasks", h.CreateTask)
	api.GET("/tasks/:id", h.GetTask)
	api.PUT("/tasks/:id", h.ReplaceTask)
	api.DELETE("/tasks/:id", h.DeleteTask)

	api.GET("/users", h.ListUsers)
	api.POST("/users", h.CreateUser)
	api.GET("/users/:id", h.GetUser)
	api.PUT("/users/:id", h.ReplaceUser)
	api.DELETE("/users/:id", h.DeleteUser)
}
