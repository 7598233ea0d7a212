package routes

import (
	"net/http"
	"time"

	"tally/handlers"
	"tally/middleware"
	"tally/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterUserRoutes registers account endpoints.
func RegisterUserRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/users")
	{
		api.POST("/register", hb.RegisterUserHandler)
		api.POST("/login", hb.AuthenticateUserHandler)

		// Protected routes (Require Authentication)
		api.Use(middleware.JWTAuthUserMiddleware(hb.UserRepo))
		api.GET("/me", hb.GetMeHandler)
		api.PATCH("/me", hb.UpdateUserHandler)
		api.DELETE("/me", hb.DeleteUserHandler)
		api.DELETE("/revoke", hb.RevokeUserAuthTokenHandler)
	}
}

// RegisterTokenRoutes registers the token record endpoints. Every route
// requires authentication; listing triggers backfill reconciliation.
func RegisterTokenRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/tokens")
	{
		api.Use(middleware.JWTAuthUserMiddleware(hb.UserRepo))
		api.POST("", hb.SubmitTokenDataHandler)
		api.GET("", hb.GetTokenRecordsHandler)
		api.GET("/grid", hb.GetGridHandler)
		api.GET("/current", hb.GetCurrentSlotHandler)
		api.GET("/:timeSlotId", hb.GetTokenRecordHandler)
		api.DELETE("/:timeSlotId", hb.DeleteTokenRecordHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "services": utils.GetHealthStatus()})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterUserRoutes(r, hb)
	RegisterTokenRoutes(r, hb)
	RegisterHealthRoute(r)
}
