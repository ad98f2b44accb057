package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	identityapp "github.com/storefront/backend/internal/application/identity"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

const (
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
	// ViewerIDKey holds the authenticated user id in the gin context
	ViewerIDKey = "viewer_id"
)

// Authenticator resolves an access token to its user
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*identity.User, error)
}

// Auth attaches the bearer token's user to the request context as the viewer.
// Requests without a token continue anonymously; a bad token is rejected.
func Auth(auth Authenticator, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		header := c.GetHeader(AuthHeaderKey)
		if header == "" {
			c.Next()
			return
		}
		token, ok := strings.CutPrefix(header, BearerPrefix)
		token = strings.TrimSpace(token)
		if !ok || token == "" {
			abortWithError(c, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}

		ctx := c.Request.Context()
		user, err := auth.Authenticate(ctx, token)
		if err != nil {
			if errors.Is(err, identityapp.ErrUnauthenticated) {
				abortWithError(c, http.StatusUnauthorized, err.Error())
				return
			}
			log.Error("Authentication failed",
				zap.String("request_id", logger.GetRequestID(ctx)),
				zap.Error(err))
			abortWithError(c, http.StatusInternalServerError, "internal server error")
			return
		}

		ctx = identityapp.WithViewer(ctx, identityapp.Viewer{User: user, AccessToken: token})
		ctx = logger.WithUserID(ctx, user.ID.String())
		c.Request = c.Request.WithContext(ctx)
		c.Set(ViewerIDKey, user.ID.String())
		c.Next()
	}
}
