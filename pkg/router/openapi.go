package router

import (
	"os"
	"path/filepath"

	"message-board/backend/pkg/validator"

	"github.com/gin-gonic/gin"
)

// addOpenAPIValidation validates requests on group against the schema and
// serves the schema under /api/docs
func (r *Router) addOpenAPIValidation(group *gin.RouterGroup, schemaPath string) error {
	if _, err := os.Stat(schemaPath); os.IsNotExist(err) {
		r.Logger.Warn("OpenAPI schema file not found, skipping validation", "path", schemaPath)
		return nil
	}

	v, err := validator.NewOpenAPIValidator(schemaPath)
	if err != nil {
		return err
	}

	group.Use(v.Middleware())
	r.Logger.Info("OpenAPI validation enabled", "schema", schemaPath)

	r.Engine.StaticFile("/api/docs/"+filepath.Base(schemaPath), schemaPath)
	r.Logger.Info("OpenAPI schema available at", "url", "/api/docs/"+filepath.Base(schemaPath))
	return nil
}
