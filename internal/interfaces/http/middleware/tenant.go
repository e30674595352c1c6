package middleware

import (
	"net/http"
	"strings"

	"github.com/finbooks/backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Gin context keys populated by the tenant middleware.
const (
	TenantIDKey     = "tenant_id"
	TenantCodeKey   = "tenant_code"
	TenantHeaderKey = "X-Tenant-ID"
)

// TenantInfo describes a resolved tenant.
type TenantInfo struct {
	ID   uuid.UUID `json:"id"`
	Code string    `json:"code"`
}

// TenantValidator checks that a tenant exists and is active.
// Implementations typically back onto the tenants table.
type TenantValidator interface {
	ValidateTenant(tenantID string) (*TenantInfo, error)
}

// TenantMiddlewareConfig controls how the tenant is resolved from a request.
type TenantMiddlewareConfig struct {
	// HeaderEnabled allows resolution from the X-Tenant-ID header.
	HeaderEnabled bool
	// JWTEnabled allows resolution from JWT claims. The JWT middleware
	// must run first for this to have any effect.
	JWTEnabled bool
	// SubdomainEnabled allows resolution from the request host,
	// e.g. acme.finbooks.example.com.
	SubdomainEnabled bool
	// BaseDomain is stripped from the host during subdomain resolution.
	BaseDomain string
	// SkipPaths bypass tenant resolution entirely (health probes and
	// other endpoints that serve all tenants).
	SkipPaths []string
	// Required rejects requests with no resolvable tenant.
	Required bool
	// Validator optionally verifies the resolved tenant against storage.
	Validator TenantValidator
	Logger    *zap.Logger
}

// DefaultTenantConfig resolves the tenant from JWT claims first and the
// X-Tenant-ID header second. Subdomain resolution stays off until a base
// domain is configured for the deployment.
func DefaultTenantConfig() TenantMiddlewareConfig {
	return TenantMiddlewareConfig{
		HeaderEnabled: true,
		JWTEnabled:    true,
		SkipPaths:     []string{"/health", "/healthz", "/ready", "/metrics", "/api/v1/health"},
		Required:      true,
	}
}

// TenantMiddlewareWithConfig resolves the tenant for each request and binds
// it into both the gin context and the request context. Every repository
// query downstream scopes by the bound tenant, so a request that reaches a
// handler without one would silently read across ledgers; Required guards
// against that.
func TenantMiddlewareWithConfig(cfg TenantMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.skips(c.Request.URL.Path) {
			c.Next()
			return
		}

		tenantID, source := cfg.resolve(c)

		if tenantID != "" {
			if _, err := uuid.Parse(tenantID); err != nil {
				abortUnauthorized(c, "Invalid tenant ID format")
				return
			}
		}

		if tenantID == "" {
			if cfg.Required {
				abortUnauthorized(c, "Tenant identification required")
				return
			}
			c.Next()
			return
		}

		var info *TenantInfo
		if cfg.Validator != nil {
			var err error
			info, err = cfg.Validator.ValidateTenant(tenantID)
			if err != nil {
				log := cfg.Logger
				if log == nil {
					log = logger.FromContext(c.Request.Context())
				}
				log.Warn("Tenant validation failed",
					zap.String("tenant_id", tenantID),
					zap.Error(err),
				)
				abortUnauthorized(c, "Invalid or inactive tenant")
				return
			}
		}

		c.Set(TenantIDKey, tenantID)
		if info != nil {
			c.Set(TenantCodeKey, info.Code)
		}

		// Bind the tenant into the request context so services and the
		// persistence layer see it without touching gin.
		ctx := c.Request.Context()
		ctx, _ = logger.WithTenantID(ctx, logger.FromContext(ctx), tenantID)
		c.Request = c.Request.WithContext(ctx)

		if cfg.Logger != nil {
			cfg.Logger.Debug("Tenant identified",
				zap.String("tenant_id", tenantID),
				zap.String("source", source),
			)
		}

		c.Next()
	}
}

func (cfg TenantMiddlewareConfig) skips(path string) bool {
	for _, skip := range cfg.SkipPaths {
		if path == skip || strings.HasPrefix(path, skip+"/") {
			return true
		}
	}
	return false
}

// resolve tries each enabled source in priority order: JWT claims win over
// the header, the header wins over the subdomain. JWT claims take priority
// because they are signed; the header only matters for service-to-service
// calls that carry no user token.
func (cfg TenantMiddlewareConfig) resolve(c *gin.Context) (tenantID, source string) {
	if cfg.JWTEnabled {
		if claimed, ok := c.Get(JWTTenantIDKey); ok {
			if tid, ok := claimed.(string); ok && tid != "" {
				return tid, "jwt"
			}
		}
	}
	if cfg.HeaderEnabled {
		if tid := c.GetHeader(TenantHeaderKey); tid != "" {
			return tid, "header"
		}
	}
	if cfg.SubdomainEnabled && cfg.BaseDomain != "" {
		if tid := tenantFromSubdomain(c.Request.Host, cfg.BaseDomain); tid != "" {
			return tid, "subdomain"
		}
	}
	return "", ""
}

// tenantFromSubdomain extracts the leftmost label in front of the base
// domain: "acme.finbooks.example.com" yields "acme". The www label is not a
// tenant.
func tenantFromSubdomain(host, baseDomain string) string {
	if idx := strings.Index(host, ":"); idx != -1 {
		host = host[:idx]
	}
	if !strings.HasSuffix(host, baseDomain) {
		return ""
	}
	sub := strings.TrimSuffix(host, "."+baseDomain)
	if sub == host || sub == "" || sub == "www" {
		return ""
	}
	return strings.Split(sub, ".")[0]
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "UNAUTHORIZED",
			"message": message,
		},
	})
}

// GetTenantID returns the tenant bound by the middleware, or "" when the
// request carried none.
func GetTenantID(c *gin.Context) string {
	if v, ok := c.Get(TenantIDKey); ok {
		if tid, ok := v.(string); ok {
			return tid
		}
	}
	return ""
}

// GetTenantUUID returns the bound tenant as a UUID. A request with no bound
// tenant yields uuid.Nil without error.
func GetTenantUUID(c *gin.Context) (uuid.UUID, error) {
	tid := GetTenantID(c)
	if tid == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(tid)
}

// GetTenantCode returns the tenant code set by the validator, if any.
func GetTenantCode(c *gin.Context) string {
	if v, ok := c.Get(TenantCodeKey); ok {
		if code, ok := v.(string); ok {
			return code
		}
	}
	return ""
}
