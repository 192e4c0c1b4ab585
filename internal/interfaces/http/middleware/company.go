package middleware

import (
	"net/http"
	"strings"

	"github.com/finlens/backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// CompanyIDKey is the gin context key holding the company ID
	CompanyIDKey = "company_id"
	// CompanyHeaderKey is the request header carrying the company ID
	CompanyHeaderKey = "X-Company-ID"
)

// CompanyMiddlewareConfig holds configuration for company scoping middleware
type CompanyMiddlewareConfig struct {
	// SkipPaths are paths that don't require company context (e.g., health check)
	SkipPaths []string
	// Required determines if company context is mandatory
	Required bool
	// Logger for middleware logging
	Logger *zap.Logger
}

// DefaultCompanyConfig returns default company middleware configuration
func DefaultCompanyConfig() CompanyMiddlewareConfig {
	return CompanyMiddlewareConfig{
		SkipPaths: []string{"/health", "/healthz", "/ready", "/api/v1/health", "/api/v1/ready"},
		Required:  true,
		Logger:    nil,
	}
}

// CompanyMiddleware extracts the company ID from the X-Company-ID header.
// Every repository query downstream is scoped by this ID, so requests
// without a valid one are rejected before reaching handlers.
func CompanyMiddleware() gin.HandlerFunc {
	return CompanyMiddlewareWithConfig(DefaultCompanyConfig())
}

// CompanyMiddlewareWithConfig returns company middleware with custom configuration
func CompanyMiddlewareWithConfig(cfg CompanyMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skipPath := range cfg.SkipPaths {
			if path == skipPath || strings.HasPrefix(path, skipPath+"/") {
				c.Next()
				return
			}
		}

		companyID := c.GetHeader(CompanyHeaderKey)

		if companyID != "" {
			if _, err := uuid.Parse(companyID); err != nil {
				respondCompanyUnauthorized(c, "Invalid company ID format")
				return
			}
		}

		if companyID == "" && cfg.Required {
			respondCompanyUnauthorized(c, "Company identification required")
			return
		}

		if companyID != "" {
			c.Set(CompanyIDKey, companyID)

			// Propagate through the request context so the service layer
			// logs carry the company ID
			ctx := c.Request.Context()
			log := logger.FromContext(ctx)
			ctx, _ = logger.WithCompanyID(ctx, log, companyID)
			c.Request = c.Request.WithContext(ctx)

			if cfg.Logger != nil {
				cfg.Logger.Debug("Company identified", zap.String("company_id", companyID))
			}
		}

		c.Next()
	}
}

// respondCompanyUnauthorized sends an unauthorized response
func respondCompanyUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "ERR_UNAUTHORIZED",
			"message": message,
		},
	})
}

// GetCompanyID retrieves the company ID from gin.Context
func GetCompanyID(c *gin.Context) string {
	if companyID, exists := c.Get(CompanyIDKey); exists {
		if cid, ok := companyID.(string); ok {
			return cid
		}
	}
	return ""
}

// GetCompanyUUID retrieves the company ID as UUID from gin.Context
func GetCompanyUUID(c *gin.Context) (uuid.UUID, error) {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(companyID)
}

// OptionalCompanyMiddleware creates middleware that doesn't require a company
func OptionalCompanyMiddleware() gin.HandlerFunc {
	cfg := DefaultCompanyConfig()
	cfg.Required = false
	return CompanyMiddlewareWithConfig(cfg)
}
