package middleware

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"

	"jobassist-backend/internal/shared/auth"
	"jobassist-backend/internal/shared/server/respond"
)

const (
	userIDKey    = "userId"
	userEmailKey = "userEmail"
	userNameKey  = "userName"
	isGuestKey   = "isGuest"
)

var publicPaths = map[string]struct{}{
	"/api/v1/health": {},
	"/metrics":       {},
}

var validGuestID = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Auth resolves the caller's identity. A bearer JWT wins; outside production
// an X-Guest-Id header is accepted as user "guest:<id>". Preflight and
// public paths skip the check.
func Auth(env string) gin.HandlerFunc {
	guestsAllowed := env != "production"
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		if _, public := publicPaths[c.Request.URL.Path]; public {
			c.Next()
			return
		}

		if header := c.GetHeader("Authorization"); strings.TrimSpace(header) != "" {
			token, ok := bearerToken(header)
			if !ok {
				respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
				return
			}
			claims, err := auth.VerifyJWT(token)
			if err != nil {
				respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
				return
			}
			setIdentity(c, claims.Subject, claims.Email, claims.Name, false)
			c.Next()
			return
		}

		guest := strings.TrimSpace(c.GetHeader("X-Guest-Id"))
		switch {
		case guest == "" || !guestsAllowed:
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing identity", nil)
			return
		case !validGuestID.MatchString(guest):
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "malformed guest id", nil)
			return
		}
		setIdentity(c, "guest:"+guest, "", "", true)
		c.Next()
	}
}

// bearerToken extracts the token from an Authorization header. The scheme
// is matched case-insensitively.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func setIdentity(c *gin.Context, userID, email, name string, guest bool) {
	c.Set(userIDKey, userID)
	if email != "" {
		c.Set(userEmailKey, email)
	}
	if name != "" {
		c.Set(userNameKey, name)
	}
	c.Set(isGuestKey, guest)
}

// UserIDFromContext fetches the user ID set by the auth middleware.
func UserIDFromContext(c *gin.Context) string {
	return contextString(c, userIDKey)
}

// UserEmailFromContext fetches the user email set by the auth middleware.
func UserEmailFromContext(c *gin.Context) string {
	return contextString(c, userEmailKey)
}

// UserNameFromContext fetches the user name set by the auth middleware.
func UserNameFromContext(c *gin.Context) string {
	return contextString(c, userNameKey)
}

// IsGuest reports whether the caller authenticated with a guest header.
func IsGuest(c *gin.Context) bool {
	if c == nil {
		return false
	}
	val, _ := c.Get(isGuestKey)
	guest, _ := val.(bool)
	return guest
}

func contextString(c *gin.Context, key string) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(key)
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}
