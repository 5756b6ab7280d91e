package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-demo/party/internal/dto/response"
	"github.com/go-demo/party/internal/pkg/utils"
)

const (
	AuthorizationHeader = "Authorization"
	BearerPrefix        = "Bearer "
	HostClaimsKey       = "host_claims"
)

// HostAuth validates the host token issued at room creation. Only the
// host-side endpoints use it; joining and playing stay anonymous.
func HostAuth(jwtManager *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthorizationHeader)
		if authHeader == "" {
			response.Unauthorized(c, "missing host token")
			c.Abort()
			return
		}

		if !strings.HasPrefix(authHeader, BearerPrefix) {
			response.Unauthorized(c, "invalid authorization format")
			c.Abort()
			return
		}

		token := strings.TrimPrefix(authHeader, BearerPrefix)
		if token == "" {
			response.Unauthorized(c, "missing host token")
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateHostToken(token)
		if err != nil {
			if err == utils.ErrExpiredToken {
				response.Unauthorized(c, "host token has expired")
			} else {
				response.Unauthorized(c, "invalid host token")
			}
			c.Abort()
			return
		}

		c.Set(HostClaimsKey, claims)

		c.Next()
	}
}

// GetHostClaims retrieves host token claims from context
func GetHostClaims(c *gin.Context) *utils.HostClaims {
	claims, exists := c.Get(HostClaimsKey)
	if !exists {
		return nil
	}
	return claims.(*utils.HostClaims)
}
