package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// PrincipalKey is the gin context key holding the authenticated principal ID
const PrincipalKey = "principal"

// AuthMiddleware authenticates requests from bearer tokens. The token
// subject is the opaque principal ID; roles are decided separately by the
// marketplace's authorizer.
type AuthMiddleware struct {
	secret []byte
}

// NewAuthMiddleware creates an auth middleware verifying tokens with the
// given HMAC secret
func NewAuthMiddleware(secret string) *AuthMiddleware {
	return &AuthMiddleware{secret: []byte(secret)}
}

// Authenticate extracts and verifies the bearer token, if present, and
// stores the principal in the request context. Requests without a token
// continue anonymously; handlers that need identity use RequireAuth.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "malformed authorization header"})
			return
		}

		claims := &jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return m.secret, nil
		})
		if err != nil || !token.Valid || claims.Subject == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(PrincipalKey, claims.Subject)
		c.Next()
	}
}

// RequireAuth rejects requests that did not authenticate a principal
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if Principal(c) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Next()
	}
}

// Principal returns the authenticated principal ID, or "" for anonymous
// requests
func Principal(c *gin.Context) string {
	principal, _ := c.Get(PrincipalKey)
	if s, ok := principal.(string); ok {
		return s
	}
	return ""
}
