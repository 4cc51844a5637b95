// Package routes defines the HTTP routes for the Secured Variables Service.
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/unifiedui/variables-service/internal/api/handlers"
	"github.com/unifiedui/variables-service/internal/api/middleware"
)

// BasePath prefixes every API route.
const BasePath = "/api/v1/variables-service"

// Config holds the dependencies for setting up routes.
type Config struct {
	HealthHandler     *handlers.HealthHandler
	VariablesHandler  *handlers.VariablesHandler
	ActionLogsHandler *handlers.ActionLogsHandler
	// Gatherer backs the /metrics endpoint. Nil disables it.
	Gatherer prometheus.Gatherer
}

// Setup configures all routes on the Gin engine.
func Setup(r *gin.Engine, cfg *Config) {
	v1 := r.Group(BasePath)
	{
		v1.GET("/health", cfg.HealthHandler.Health)
		v1.GET("/ready", cfg.HealthHandler.Ready)
		v1.GET("/live", cfg.HealthHandler.Live)

		secrets := v1.Group("/secrets")
		{
			secrets.GET("", cfg.VariablesHandler.ListSecrets)
			secrets.POST("/:secret", cfg.VariablesHandler.CreateSecret)
			secrets.GET("/:secret/template", cfg.VariablesHandler.GetSecretTemplate)

			secrets.GET("/:secret/variables", cfg.VariablesHandler.ListVariables)
			secrets.POST("/:secret/variables", cfg.VariablesHandler.AddVariables)
			secrets.PATCH("/:secret/variables", cfg.VariablesHandler.UpdateVariables)
			secrets.DELETE("/:secret/variables", cfg.VariablesHandler.DeleteVariables)
		}

		securedVariables := v1.Group("/secured-variables")
		{
			securedVariables.DELETE("", cfg.VariablesHandler.DeleteVariablesForMultipleSecrets)
			securedVariables.POST("/import", cfg.VariablesHandler.ImportVariables)
			securedVariables.PUT("/:name", cfg.VariablesHandler.UpdateVariable)
		}

		v1.POST("/action-logs/search", cfg.ActionLogsHandler.Search)
	}

	if cfg.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}
	r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.NoRoute(middleware.NotFound())
}

// SetupWithMiddleware sets up routes with common middleware.
func SetupWithMiddleware(r *gin.Engine, cfg *Config, loggingMw *middleware.LoggingMiddleware, errorMw *middleware.ErrorMiddleware, cors middleware.CORSConfig) {
	r.Use(loggingMw.RequestContext())
	r.Use(loggingMw.Logger())
	r.Use(errorMw.Recovery())
	r.Use(middleware.NewCORSMiddleware(cors))

	Setup(r, cfg)
}
