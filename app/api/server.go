package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewServer creates a new HTTP server with all routes configured
func NewServer(handler *Handler, apiAccessKey string) *gin.Engine {
	// Set Gin mode (can be controlled via GIN_MODE environment variable)
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// Middleware
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC3339),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
			)
		},
		// scraped often
		SkipPaths: []string{"/health", "/metrics"},
	}))

	r.Use(gin.Recovery())

	// CORS middleware: the overlay page may be loaded from a local file in OBS
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, X-API-Key")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Routes
	setupRoutes(r, handler, apiAccessKey)

	return r
}

// setupRoutes configures all the application routes
func setupRoutes(r *gin.Engine, handler *Handler, apiAccessKey string) {
	// Health and metrics endpoints
	r.GET("/health", handler.GetHealth)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Overlay page, alert sounds and the frame streams
	r.GET("/overlay", handler.GetOverlayPage)
	r.Static("/sounds", filepath.Join(handler.webDir, "sounds"))
	r.GET("/overlay/stream", handler.StreamOverlay)
	r.GET("/overlay/presets/:name/stream", handler.StreamPreset)
	r.GET("/countdown", handler.GetCountdown)

	api := r.Group("/api")
	{
		api.GET("/overlay/config", handler.GetOverlayConfig)
		api.GET("/presets", handler.ListPresets)

		api.POST("/sessions/:id/sound/:play/ended", handler.PostSoundEnded)
		api.POST("/sessions/:id/sound/:play/failed", handler.PostSoundFailed)
		api.POST("/sessions/:id/ticker", handler.PostTicker)
		api.POST("/sessions/:id/alert/:level", handler.PostAlertPreview)

		api.GET("/settings", handler.GetSettings)
		api.POST("/settings/preview", handler.PostSettingsPreview)

		if apiAccessKey != "" {
			api.POST("/settings/build", authMiddleware(apiAccessKey), handler.PostSettingsBuild)
			slog.Info("Settings build endpoint requires authentication")
		} else {
			api.POST("/settings/build", handler.PostSettingsBuild)
		}
	}

	// Root endpoint with basic information
	r.GET("/", func(c *gin.Context) {
		endpoints := map[string]string{
			"overlay":   "/overlay?<query>",
			"stream":    "/overlay/stream?<query>",
			"preset":    "/overlay/presets/<name>/stream",
			"countdown": "/countdown?date=YYYY-MM-DD&color=<color>",
			"settings":  "/api/settings",
			"health":    "/health",
			"metrics":   "/metrics",
		}

		c.JSON(200, gin.H{
			"service":     "OBS Overlay",
			"version":     handler.version,
			"description": "OBS browser-source overlay: clock, news ticker and earthquake alerts",
			"endpoints":   endpoints,
			"api_status": map[string]interface{}{
				"auth_required": apiAccessKey != "",
				"header":        "X-API-Key",
			},
		})
	})

	// Favicon handler (return 204 to avoid 404s)
	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(204)
	})
}

// authMiddleware creates authentication middleware for API endpoints
func authMiddleware(apiAccessKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get API key from X-API-Key header
		providedKey := c.GetHeader("X-API-Key")

		// Also check Authorization header with Bearer prefix
		if providedKey == "" {
			authHeader := c.GetHeader("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				providedKey = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		if providedKey == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "API key required",
				"message": "Provide API key in X-API-Key header or Authorization: Bearer <key>",
			})
			c.Abort()
			return
		}

		if providedKey != apiAccessKey {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Invalid API key",
				"message": "The provided API key is not valid",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
