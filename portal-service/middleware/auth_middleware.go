package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"carelink-backend/shared/config"
	"carelink-backend/shared/database"
	"carelink-backend/shared/pipeline"
	utils "carelink-backend/shared/utils/auth"
)

// ContextAccessKey is where the resolved AccessContext lives on the request
const ContextAccessKey = "access"

// AuthMiddleware validates the bearer token and records the principal on the
// request context. Missing or invalid credentials redirect to login with the
// intended destination preserved.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			unauthenticated(c)
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			unauthenticated(c)
			return
		}

		claims, err := utils.ValidateJWT(tokenParts[1])
		if err != nil {
			unauthenticated(c)
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			unauthenticated(c)
			return
		}

		c.Set("userID", userID)
		c.Set("userEmail", claims.Email)

		c.Next()
	}
}

// AccessMiddleware resolves the actor's access descriptor once per request
// and passes it downstream by context value, never a process-wide singleton.
// Must run after AuthMiddleware.
func AccessMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID")
		if !exists {
			unauthenticated(c)
			return
		}

		ac, failure := pipeline.ResolveAccess(database.GetDB(), userID.(uuid.UUID))
		if failure != nil {
			if failure.Kind == pipeline.FailureUnauthenticated {
				unauthenticated(c)
				return
			}
			c.JSON(failure.HTTPStatus(), gin.H{
				"success": false,
				"error":   failure.Message,
			})
			c.Abort()
			return
		}

		c.Set(ContextAccessKey, ac)
		c.Next()
	}
}

// unauthenticated aborts with the login redirect payload
func unauthenticated(c *gin.Context) {
	cfg := config.GetConfig()
	c.JSON(http.StatusUnauthorized, gin.H{
		"success":   false,
		"error":     "Authentication required",
		"login_url": cfg.FrontendURL + "/login?next=" + c.Request.URL.Path,
	})
	c.Abort()
}
