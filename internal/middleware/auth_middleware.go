package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/studentrecords/internal/app/models/dto"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
	"github.com/yigit/studentrecords/internal/pkg/auth"
)

const usernameKey = "username"

const adminRealm = `Basic realm="studentrecords"`

// AuthMiddleware guards API routes with bearer tokens and the editing
// pages with the administrator's basic auth credentials.
type AuthMiddleware struct {
	jwtService        *auth.JWTService
	adminUsername     string
	adminPasswordHash string
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService, adminUsername, adminPasswordHash string) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService:        jwtService,
		adminUsername:     adminUsername,
		adminPasswordHash: adminPasswordHash,
	}
}

// JWTAuth rejects requests without a valid bearer token
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(apperrors.CodeUnauthorized, "Authorization header missing"))
			return
		}

		tokenString, err := auth.ExtractBearerToken(authHeader)
		if err != nil {
			HandleAPIError(c, err)
			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			HandleAPIError(c, err)
			return
		}

		c.Set(usernameKey, claims.Username)
		c.Next()
	}
}

// AdminBasicAuth rejects browser requests that do not carry the
// administrator's credentials and asks the browser to prompt for them.
func (m *AuthMiddleware) AdminBasicAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		username, password, ok := c.Request.BasicAuth()
		if !ok ||
			subtle.ConstantTimeCompare([]byte(username), []byte(m.adminUsername)) != 1 ||
			!auth.CheckPassword(m.adminPasswordHash, password) {
			c.Header("WWW-Authenticate", adminRealm)
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		c.Set(usernameKey, username)
		c.Next()
	}
}

// Username returns the authenticated user of the request, if any
func Username(c *gin.Context) string {
	return c.GetString(usernameKey)
}
