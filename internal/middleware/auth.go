// internal/middleware/auth.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/price-tracker/internal/i18n"
	"github.com/javajoker/price-tracker/internal/utils"
)

const rolesKey = "roles"

// AuthRequired accepts bearer tokens issued by the identity service.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := utils.GetLangFromContext(c)

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.UnauthorizedResponse(c, "")
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthInvalidToken))
			return
		}

		claims, err := utils.ValidateJWT(parts[1])
		if err != nil {
			utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthTokenExpired))
			return
		}

		// Set user info in context
		c.Set(utils.ContextKeyUserID, claims.UserID)
		c.Set(utils.ContextKeyUsername, claims.Username)
		c.Set(rolesKey, claims.Roles)
		c.Next()
	}
}

// AdminRequired must run after AuthRequired.
func AdminRequired(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roles, _ := c.Get(rolesKey)
		if r, ok := roles.(utils.Roles); !ok || !r.Has(role) {
			utils.ForbiddenResponse(c, "")
			return
		}
		c.Next()
	}
}
