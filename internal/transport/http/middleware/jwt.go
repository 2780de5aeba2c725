package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"visaguide/internal/pkg/jwtutil"
	"visaguide/internal/transport/http/response"
)

const (
	ContextUserIDKey   = "user_id"
	ContextUsernameKey = "username"
	ContextEmailKey    = "email"
)

func AuthJWT(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			response.Error(c, 401, response.CodeUnauthorized, "missing authorization header")
			c.Abort()
			return
		}

		token, ok := bearerToken(authHeader)
		if !ok {
			response.Error(c, 401, response.CodeUnauthorized, "invalid authorization scheme")
			c.Abort()
			return
		}

		claims, err := jwtutil.ParseToken(secret, token)
		if err != nil {
			response.Error(c, 401, response.CodeUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		setIdentity(c, claims)
		c.Next()
	}
}

// OptionalAuthJWT attaches the caller's identity when a valid bearer token is
// present and lets every other request through anonymously.
func OptionalAuthJWT(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(strings.TrimSpace(c.GetHeader("Authorization"))); ok {
			if claims, err := jwtutil.ParseToken(secret, token); err == nil {
				setIdentity(c, claims)
			}
		}
		c.Next()
	}
}

// Identity returns the user attached by AuthJWT or OptionalAuthJWT; zero
// values mean anonymous.
func Identity(c *gin.Context) (uint, string) {
	userID, _ := c.Get(ContextUserIDKey)
	email, _ := c.Get(ContextEmailKey)
	id, _ := userID.(uint)
	addr, _ := email.(string)
	return id, addr
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	return token, token != ""
}

func setIdentity(c *gin.Context, claims *jwtutil.Claims) {
	c.Set(ContextUserIDKey, claims.UserID)
	c.Set(ContextUsernameKey, claims.Username)
	c.Set(ContextEmailKey, claims.Email)
}
