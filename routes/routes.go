package routes

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"maisonlux-backend/config"
	"maisonlux-backend/controllers"
)

// Setup configures and returns the Gin engine.
func Setup(ctrl *controllers.Controller, cfg *config.AppConfig) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Printf("PANIC %s %s: %v", c.Request.Method, c.Request.URL.Path, recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
	}))
	r.Use(RequestLogger())
	r.Use(ErrorReporter())
	r.Use(BodySizeLimit(cfg.MaxBodyBytes))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.AllowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	r.Static("/static", "./static")

	api := r.Group("/api")
	{
		api.GET("/health", ctrl.HealthCheck)

		// Authentication
		api.POST("/auth/register", ctrl.Register)
		api.POST("/auth/login", ctrl.Login)
		api.POST("/auth/logout", ctrl.RequireAuth(), ctrl.Logout)
		api.GET("/auth/me", ctrl.RequireAuth(), ctrl.Me)

		// Catalogue (public)
		api.GET("/products", ctrl.GetProducts)
		api.GET("/products/:id", ctrl.GetProduct)

		// Cart and checkout (customer)
		authed := api.Group("", ctrl.RequireAuth())
		{
			authed.GET("/cart", ctrl.GetCart)
			authed.POST("/cart/items", ctrl.AddToCart)
			authed.PUT("/cart/items/:productId", ctrl.UpdateCartItem)
			authed.DELETE("/cart/items/:productId", ctrl.RemoveCartItem)

			authed.POST("/checkout", ctrl.PlaceOrder)
			authed.GET("/orders", ctrl.GetMyOrders)
			authed.GET("/orders/:code", ctrl.GetOrder)
		}

		// Admin panel
		admin := api.Group("/admin", ctrl.RequireAuth(), ctrl.RequireAdmin())
		{
			admin.POST("/products", ctrl.CreateProduct)
			admin.PUT("/products/:id", ctrl.UpdateProduct)
			admin.DELETE("/products/:id", ctrl.DeleteProduct)

			admin.GET("/orders", ctrl.GetAllOrders)
			admin.PUT("/orders/:code/status", ctrl.UpdateOrderStatus)

			admin.GET("/users", ctrl.GetUsers)
			admin.DELETE("/users/:id", ctrl.DeleteUser)

			admin.GET("/stats", ctrl.GetStats)
			admin.POST("/upload", ctrl.UploadImage)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Endpoint not found"})
	})
	return r
}
