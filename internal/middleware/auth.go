package middleware

import (
	"errors"
	"net/http"
	"strings"

	"epunch/internal/apierror"
	"epunch/internal/apperr"
	"epunch/internal/authz"
	"epunch/internal/service"

	"github.com/gin-gonic/gin"
)

const PrincipalKey = "principal"

// Auth validates the Bearer token on every protected route and stores the
// verified principal in the request context.
func Auth(tokens service.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New(apperr.ErrUnauthenticated.Message))
			return
		}

		principal, err := tokens.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			status := http.StatusUnauthorized
			msg := apperr.ErrTokenInvalid.Message
			if errors.Is(err, apperr.ErrTokenExpired) {
				msg = apperr.ErrTokenExpired.Message
			}
			c.AbortWithStatusJSON(status, apierror.New(msg))
			return
		}

		c.Set(PrincipalKey, principal)
		c.Next()
	}
}

// RequireRole rejects requests whose principal's role is not in the allowed
// list. Role sets are closed: listing admin does not admit staff or vice
// versa.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := authz.Authorize(GetPrincipal(c), roles...); err != nil {
			if errors.Is(err, apperr.ErrUnauthenticated) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New(apperr.ErrUnauthenticated.Message))
				return
			}
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New(apperr.ErrForbidden.Message))
			return
		}
		c.Next()
	}
}

// GetPrincipal retrieves the verified principal from the Gin context, or nil
// when the route is unauthenticated.
func GetPrincipal(c *gin.Context) *authz.Principal {
	v, ok := c.Get(PrincipalKey)
	if !ok {
		return nil
	}
	p, _ := v.(*authz.Principal)
	return p
}
