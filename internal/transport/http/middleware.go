package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fixlink/marketplace-core/internal/auth"
	"github.com/fixlink/marketplace-core/internal/model"
)

const (
	ctxUserID = "userId"
	ctxRole   = "role"
)

// JWTAuth проверяет Bearer-токен и кладёт идентичность в контекст запроса.
func JWTAuth(tokens *auth.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "access denied, no token provided"})
			return
		}
		claims, err := tokens.ParseValidate(strings.TrimPrefix(h, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid token"})
			return
		}
		userID, err := claims.UserID()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid token"})
			return
		}
		c.Set(ctxUserID, userID)
		c.Set(ctxRole, model.Role(claims.Role))
		c.Next()
	}
}

// RequireRole пропускает только перечисленные роли.
func RequireRole(roles ...model.Role) gin.HandlerFunc {
	allowed := make(map[model.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		_, role := caller(c)
		if _, ok := allowed[role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "insufficient permissions"})
			return
		}
		c.Next()
	}
}

// caller достаёт идентичность, положенную JWTAuth.
func caller(c *gin.Context) (uuid.UUID, model.Role) {
	idVal, _ := c.Get(ctxUserID)
	roleVal, _ := c.Get(ctxRole)
	id, _ := idVal.(uuid.UUID)
	role, _ := roleVal.(model.Role)
	return id, role
}
