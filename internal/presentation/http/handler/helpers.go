package handler

import (
	"log"

	"github.com/attarhouse/attarhouse-api/internal/application/service"
	"github.com/attarhouse/attarhouse-api/internal/presentation/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	return id, err == nil
}

// logWarnings records skipped side effects next to the request line
func logWarnings(c *gin.Context, warnings []service.Warning) {
	user := middleware.UserEmail(c)
	if user == "" {
		user = "anonymous"
	}
	for _, w := range warnings {
		log.Printf("[%s] Warning (%s): %s: %s", c.GetString("request_id"), user, w.Code, w.Message)
	}
}
