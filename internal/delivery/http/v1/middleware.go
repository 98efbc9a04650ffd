package v1

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const userIDCtxKey = "user_id"

// HandleAuthMiddleware authenticates the request from the bearer
// credential. Personal API tokens carry a "|" separator between id
// and secret; everything else is treated as a JWT access token.
func (h *handlerImpl) HandleAuthMiddleware(c *gin.Context) {
	const authHeader = "Authorization"
	header := c.GetHeader(authHeader)
	if header == "" {
		h.logger.Warn().Msg("authorization header required")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	const bearerPrefix = "Bearer"
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != bearerPrefix {
		h.logger.Warn().Msg("invalid authorization header")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	credential := parts[1]

	if strings.Contains(credential, "|") {
		userID, err := h.tokens.AuthenticateToken(c, credential)
		if err != nil {
			h.logger.Warn().
				Err(err).
				Msg("failed to authenticate api token")
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		c.Set(userIDCtxKey, userID)
		c.Next()
		return
	}

	claims, err := h.auth.ParseAccessToken(credential)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to parse access token")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	c.Set(userIDCtxKey, claims.Subject)
	c.Next()
}

// currentUserID reads the authenticated user id set by the auth
// middleware. It aborts with 401 when absent.
func (h *handlerImpl) currentUserID(c *gin.Context) (string, bool) {
	userIDValue, exists := c.Get(userIDCtxKey)
	if !exists {
		h.logger.Error().Msg("no user id found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return "", false
	}
	userID, _ := userIDValue.(string)
	return userID, true
}
