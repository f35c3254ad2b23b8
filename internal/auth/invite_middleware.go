package auth

import (
	"net/http"
	"strings"

	"connect3/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
)

// InviterKey is the gin context key holding the inviter ID of a verified invite.
const InviterKey = "inviterID"

// InviteMiddleware looks for an invite token in the invite_token query
// parameter or a Bearer Authorization header. A valid token stores the
// inviter's user ID under InviterKey. Requests without a token pass through
// untouched; a token that fails verification is rejected with 401.
func InviteMiddleware(issuer *jwt.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.Query("invite_token")
		if tokenString == "" {
			if parts := strings.Split(c.GetHeader("Authorization"), " "); len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}
		if tokenString == "" {
			c.Next()
			return
		}

		inviterID, err := issuer.ParseInviteToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired invite token"})
			return
		}
		c.Set(InviterKey, inviterID)
		c.Next()
	}
}

// Inviter returns the inviter ID stored by InviteMiddleware.
func Inviter(c *gin.Context) (string, bool) {
	id := c.GetString(InviterKey)
	return id, id != ""
}
