package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/a1-en/E-Shoe-Store/config"
	"github.com/a1-en/E-Shoe-Store/internal/application/services"
	"github.com/a1-en/E-Shoe-Store/internal/interfaces/http/handlers"
	"github.com/a1-en/E-Shoe-Store/internal/interfaces/http/middleware"
	"github.com/a1-en/E-Shoe-Store/pkg/authmw"
	"github.com/a1-en/E-Shoe-Store/pkg/jwt"
	"github.com/a1-en/E-Shoe-Store/pkg/logger"
)

// Router wraps the Gin engine with application dependencies.
type Router struct {
	engine *gin.Engine
	cfg    *config.Config
}

// RouterDeps contains dependencies needed by the router.
type RouterDeps struct {
	AuthService *services.AuthService
	JWTManager  *jwt.Manager
	DBHealther  handlers.HealthChecker
	Logger      logger.Logger
}

// NewRouter creates and configures the HTTP router.
func NewRouter(cfg *config.Config, deps *RouterDeps) *Router {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(gin.Recovery())

	log := deps.Logger
	if log == nil {
		log = logger.Default()
	}
	engine.Use(middleware.NewRequestLoggerMiddleware(log).Handler())

	// Create handlers
	authHandler := handlers.NewAuthHandler(deps.AuthService)
	healthHandler := handlers.NewHealthHandler(deps.DBHealther)

	// Rate limiters
	var rateLimiter *middleware.RateLimiter
	var authRateLimiter *middleware.AuthRateLimiter
	if cfg.Security.RateLimitEnabled {
		rateLimiter = middleware.NewRateLimiter(cfg.Security.RateLimitRPS, cfg.Security.RateLimitBurst)
		authRateLimiter = middleware.NewAuthRateLimiter()
	}

	// Health endpoints (no rate limiting)
	engine.GET("/health", healthHandler.Health)
	engine.GET("/ready", healthHandler.Ready)
	engine.GET("/live", healthHandler.Live)

	if rateLimiter != nil {
		engine.Use(rateLimiter.Middleware())
	}

	engine.Use(corsMiddleware(cfg.Security.AllowedOrigins))

	// Credential endpoints with stricter rate limiting
	auth := engine.Group("")
	if authRateLimiter != nil {
		auth.Use(authRateLimiter.Middleware())
	}
	{
		auth.POST("/signup", authHandler.Signup)
		auth.POST("/login", authHandler.Login)
	}

	// Protected endpoints (require a valid bearer token)
	protected := engine.Group("")
	protected.Use(authmw.RequireAuth(authmw.Config{Manager: deps.JWTManager}))
	{
		protected.GET("/protected", authHandler.Protected)
		protected.GET("/me", authHandler.Me)
	}

	// Catch-all for unmatched routes
	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Route not found"})
	})

	return &Router{
		engine: engine,
		cfg:    cfg,
	}
}

// Engine returns the underlying Gin engine.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// corsMiddleware creates a CORS middleware.
func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, o := range allowedOrigins {
			if o == "*" || o == origin {
				allowed = true
				break
			}
		}

		if allowed {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Max-Age", "86400")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
