package server

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/ALT-F4-LLC/softdesk/internal/model"
	"github.com/ALT-F4-LLC/softdesk/internal/output"
	"github.com/ALT-F4-LLC/softdesk/internal/service"
)

const (
	userKey  = "softdesk.user"
	tokenKey = "softdesk.token"
)

// ZLogMiddleware logs each request and turns the last handler error into a
// JSON error envelope. Handlers report failures with c.Error and return.
func ZLogMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		c.Next()

		if len(c.Errors) != 0 && !c.Writer.Written() {
			err := c.Errors.Last().Err
			code := output.CodeFor(err)
			env := output.NewErrorEnvelope(err, code)
			if code == output.ErrGeneral {
				log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
				env.Error = "internal error"
			} else {
				log.Debug().Err(err).Str("code", string(code)).Msg("request rejected")
			}
			c.AbortWithStatusJSON(output.HTTPStatusForError(code), env)
		}

		log.Debug().
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(startTime)).
			Str("ip", c.ClientIP()).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("")
	}
}

// requireAuth resolves the bearer token to a user and aborts with 401 when
// it is missing or invalid.
func (h *handlers) requireAuth(c *gin.Context) {
	token, ok := bearerToken(c.GetHeader("Authorization"))
	if !ok {
		c.Error(service.ErrUnauthenticated)
		c.Abort()
		return
	}

	user, err := h.svc.Authenticate(c.Request.Context(), token)
	if err != nil {
		c.Error(err)
		c.Abort()
		return
	}

	c.Set(userKey, user)
	c.Set(tokenKey, token)
	c.Next()
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// currentUser returns the authenticated user set by requireAuth.
func currentUser(c *gin.Context) *model.User {
	v, _ := c.Get(userKey)
	u, _ := v.(*model.User)
	return u
}
