// Package router assembles the gin engine: global middleware, the public
// storefront routes and the admin console routes.
package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gulfsteel/steelstore-api/config"
	"github.com/gulfsteel/steelstore-api/controllers"
	"github.com/gulfsteel/steelstore-api/middleware"
)

const maxMultipartMemory = 32 << 20

// Setup builds the API router. auth authenticates admin requests; nil means
// Auth0 JWT validation from cfg.
func Setup(cfg *config.Config, auth gin.HandlerFunc) *gin.Engine {
	if auth == nil {
		auth = middleware.EnsureValidToken(cfg)
	}

	engine := gin.New()
	engine.MaxMultipartMemory = maxMultipartMemory
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger())
	engine.Use(cors.New(corsConfig(cfg)))

	v1 := engine.Group("/api/v1")
	{
		v1.GET("/health", controllers.HealthCheck)
		v1.GET("/database/status", controllers.DatabaseStatus)

		v1.GET("/products", controllers.ListProducts)
		v1.GET("/settings/fees", controllers.GetFeeSettings)
		v1.GET("/calculator/diameters", controllers.CalculatorDiameters)
		v1.POST("/calculator/weight", controllers.CalculateWeight)
		v1.POST("/orders/quote", controllers.QuoteOrder)
	}

	// Submissions are tied to an anonymous session established before the write
	storefront := v1.Group("", middleware.EnsureSession(cfg.SessionCookie, cfg.IsProduction()))
	{
		storefront.POST("/orders", controllers.CreateOrder)
		storefront.POST("/quote-requests", controllers.CreateQuoteRequest)
		storefront.POST("/contact-requests", controllers.CreateContactRequest)
	}

	admin := v1.Group("/admin", auth)
	{
		admin.GET("/profile", controllers.GetMyProfile)
		admin.POST("/profile", controllers.CreateProfile)
	}

	console := admin.Group("", middleware.RequireAdmin())
	if cfg.Auth0AdminScope != "" {
		console.Use(middleware.RequireScope(cfg.Auth0AdminScope))
	}
	{
		console.GET("/products", controllers.ListAdminProducts)
		console.POST("/products", controllers.CreateProduct)
		console.POST("/products/seed", controllers.SeedProducts)
		console.PUT("/products/:id", controllers.UpdateProduct)
		console.DELETE("/products/:id", controllers.DeleteProduct)
		console.POST("/products/:id/variants", controllers.CreateVariant)
		console.POST("/products/:id/images", controllers.UploadProductImage)
		console.PUT("/products/:id/primary-image", controllers.SetPrimaryImage)
		console.PUT("/variants/:id", controllers.UpdateVariant)
		console.DELETE("/variants/:id", controllers.DeleteVariant)
		console.DELETE("/images/:id", controllers.DeleteProductImage)

		console.GET("/settings", controllers.GetSettings)
		console.PUT("/settings", controllers.UpdateSettings)

		console.GET("/orders", controllers.ListOrders)
		console.GET("/orders/:id", controllers.GetOrder)
		console.PATCH("/orders/:id/status", controllers.UpdateOrderStatus)

		console.GET("/quote-requests", controllers.ListQuoteRequests)
		console.GET("/quote-requests/files/url", controllers.GetQuoteRequestFileURL)
		console.GET("/contact-requests", controllers.ListContactRequests)
	}

	return engine
}

func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.Config{
		AllowMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Session-ID", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Session-ID", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if len(cfg.CORSAllowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
		return corsCfg
	}
	corsCfg.AllowOrigins = cfg.CORSAllowedOrigins
	return corsCfg
}
