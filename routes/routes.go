package routes

import (
	"github.com/aadykin95/telegram-food-bot-render/controllers"
	"github.com/aadykin95/telegram-food-bot-render/middlewares"

	"github.com/gin-gonic/gin"
)

// SetupRouter mounts the keep-alive endpoints and, when a JWT secret is
// configured, the operator reports API.
func SetupRouter(reports *controllers.ReportController, jwtSecret []byte) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/", controllers.Health)
	r.GET("/healthz", controllers.Health)

	if len(jwtSecret) > 0 && reports != nil {
		api := r.Group("/api")
		api.Use(middlewares.OperatorAuth(jwtSecret))
		{
			api.GET("/reports/:userID", reports.GetReport)
		}
	}

	return r
}
