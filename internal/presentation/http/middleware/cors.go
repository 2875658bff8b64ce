package middleware

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sangkips/stayledger-api/internal/config"
)

var (
	defaultOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	defaultMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	defaultHeaders = []string{"Accept", "Authorization", "Content-Type", "Origin", "X-Request-ID"}
	// Headers the browser client must always be able to send.
	requiredHeaders = []string{"Idempotency-Key", "X-Request-ID"}
)

// CORSMiddleware creates a CORS middleware with the provided configuration
func CORSMiddleware(cfg *config.CORSConfig) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowOrigins: withDefault(cfg.AllowedOrigins, defaultOrigins),
		AllowMethods: withDefault(cfg.AllowedMethods, defaultMethods),
		AllowHeaders: withDefault(cfg.AllowedHeaders, defaultHeaders),
		ExposeHeaders: []string{
			"Content-Length", "Content-Type", "Content-Disposition", "X-Request-ID",
			"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-Idempotency-Replayed",
		},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	for _, h := range requiredHeaders {
		if !containsFold(corsConfig.AllowHeaders, h) {
			corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, h)
		}
	}

	return cors.New(corsConfig)
}

func withDefault(values, def []string) []string {
	if len(values) == 0 {
		return append([]string(nil), def...)
	}
	return values
}

func containsFold(list []string, v string) bool {
	for _, item := range list {
		if strings.EqualFold(item, v) {
			return true
		}
	}
	return false
}
