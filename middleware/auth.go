package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/judyrop/storefront/auth"
)

const identityKey = "identity"

// RequireAuth validates the bearer token and stores the caller's identity.
func RequireAuth(authn auth.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader("Authorization"))
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "missing token"})
			return
		}

		parts := strings.Fields(raw)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid token"})
			return
		}

		identity, err := authn.Authenticate(c.Request.Context(), parts[1])
		if err != nil {
			log.Println("[AUTH] [ERROR] token validation failed:", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid token"})
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := CurrentIdentity(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "missing token"})
			return
		}
		if !identity.IsAdmin() {
			log.Printf("[AUTH] [WARN] user %d denied admin route %s", identity.UserID, c.FullPath())
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "admin access required"})
			return
		}
		c.Next()
	}
}

func CurrentIdentity(c *gin.Context) (*auth.Identity, bool) {
	value, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	identity, ok := value.(*auth.Identity)
	return identity, ok && identity != nil
}

// CurrentUserID returns 0 when the request is anonymous.
func CurrentUserID(c *gin.Context) uint {
	if identity, ok := CurrentIdentity(c); ok {
		return identity.UserID
	}
	return 0
}
