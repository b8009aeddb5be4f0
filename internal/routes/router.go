package routes

import (
	"task-service/internal/controller"
	"task-service/internal/middleware"
	"task-service/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Router mounts the task API under prefix (e.g. /api/v1).
func Router(prefix string, tasks *controller.TaskController, log *logger.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	// Recovery sits innermost so recovered panics still get an access log line.
	router.Use(middleware.RequestID(), middleware.AccessLog(log), middleware.Recovery(log))

	// Readiness for K8s probes
	router.GET("/ready", tasks.Ready)

	api := router.Group(prefix)
	{
		api.GET("/health", tasks.Health)
		api.POST("/tasks", tasks.CreateTask)
		api.GET("/tasks", tasks.ListTasks)
		api.GET("/tasks/:id", tasks.GetTask)
		api.PUT("/tasks/:id", tasks.UpdateTask)
		api.DELETE("/tasks/:id", tasks.DeleteTask)
	}

	return router
}
