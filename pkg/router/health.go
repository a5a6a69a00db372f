package router

import (
	"github.com/gin-gonic/gin"
)

// setupHealthRoutes registers both health endpoint paths
func (r *Router) setupHealthRoutes() {
	handler := gin.WrapF(r.Container.Health.HTTPHandler())
	r.Engine.GET("/health", handler)
	r.Engine.GET("/api/v1/health", handler)
}
