package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-timetable/internal/middleware"
	"github.com/noah-isme/sma-timetable/internal/models"
	"github.com/noah-isme/sma-timetable/internal/service"
)

// Routes bundles the handlers mounted under the API prefix.
type Routes struct {
	Datasets   *DatasetHandler
	Locks      *LockHandler
	Timetables *TimetableHandler
	Metrics    *MetricsHandler
	Auth       *service.AuthService
}

// Register mounts the probes on r and the timetable API under prefix. Every
// API route needs a token; writes need the ADMIN or SCHEDULER role.
func (rt Routes) Register(r *gin.Engine, prefix string) {
	r.GET("/health", rt.Metrics.Health)
	r.GET("/ready", rt.Metrics.Ready)
	r.GET("/metrics", rt.Metrics.Prometheus)

	api := r.Group(prefix, middleware.JWT(rt.Auth))
	write := middleware.RequireRoles(models.RoleAdmin, models.RoleScheduler)
	read := middleware.RequireRoles(models.RoleAdmin, models.RoleScheduler, models.RoleViewer)

	datasets := api.Group("/datasets")
	datasets.POST("/import", write, rt.Datasets.Import)
	datasets.POST("", write, rt.Datasets.Create)
	datasets.GET("", read, rt.Datasets.List)
	datasets.GET("/:id", read, rt.Datasets.Get)
	datasets.GET("/:id/subjects", read, rt.Datasets.Subjects)
	datasets.DELETE("/:id", middleware.RequireRoles(models.RoleAdmin), rt.Datasets.Delete)

	datasets.POST("/:id/locks", write, rt.Locks.Create)
	datasets.GET("/:id/locks", read, rt.Locks.List)
	datasets.DELETE("/:id/locks/:lockId", write, rt.Locks.Delete)

	datasets.POST("/:id/timetables/generate", read, rt.Timetables.Generate)
	datasets.GET("/:id/timetables/export", read, rt.Timetables.Export)
	datasets.GET("/:id/timetables/:group", read, rt.Timetables.Group)
}
