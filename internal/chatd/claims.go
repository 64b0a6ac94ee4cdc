package chatd

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kart-io/sentinel-x/pkg/auth"
	"github.com/kart-io/sentinel-x/pkg/errors"
	"github.com/kart-io/sentinel-x/pkg/response"
	httptransport "github.com/kart-io/sentinel-x/pkg/server/transport/http"
)

// claimsKey is the gin context key the verified claims are stored under.
const claimsKey = "chatd.claims"

// RequireAuth verifies the Bearer token on every request and stores the
// resulting claims in gin's context, the same Authorization-header/Bearer-
// scheme contract as pkg/middleware.Auth, built directly against gin rather
// than through the transport.Context abstraction that middleware depends on.
func RequireAuth(authn auth.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		rc := httptransport.NewRequestContext(c.Request, c.Writer)

		header := c.GetHeader("Authorization")
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer"))
		if header == "" || token == header {
			response.Fail(rc, errors.ErrUnauthorized.WithMessage("missing authentication token"))
			c.Abort()
			return
		}

		claims, err := authn.Verify(c.Request.Context(), token)
		if err != nil {
			response.FailWithError(rc, err)
			c.Abort()
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// ClaimsFromContext returns the claims RequireAuth stored for this request.
func ClaimsFromContext(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}
