package middleware

import (
	"net/http"
	"net/url"

	"quillpost/internal/log"
	"quillpost/internal/models"
	"quillpost/internal/repository"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	CheckUserKey   = "user"
	SessionUserKey = "user_id"
	LoginPath      = "/auth/login/"
)

// CurrentUser returns the user LoadUser attached, or nil for anonymous requests.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(CheckUserKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

// LoadUser retrieves the session user and sets it on the context. A session
// pointing at a deleted user is cleared.
func LoadUser(users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID, ok := session.Get(SessionUserKey).(uint)
		if !ok {
			c.Next()
			return
		}

		user, err := users.GetByID(c.Request.Context(), userID)
		if err != nil {
			l := log.Ctx(c.Request.Context())
			l.Debug().Err(err).Uint(log.FieldUserID, userID).Msg("dropping stale session")
			session.Delete(SessionUserKey)
			_ = session.Save()
			c.Next()
			return
		}

		c.Set(CheckUserKey, user)
		c.Set(log.FieldUserID, user.ID)
		c.Next()
	}
}

// AuthRequired sends anonymous visitors to the login page and brings them back
// afterwards.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.Redirect(http.StatusFound, LoginPath+"?next="+url.QueryEscape(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		c.Next()
	}
}

// AdminRequired must run after AuthRequired.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentUser(c).IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   gin.H{"code": "FORBIDDEN", "message": "admin access required"},
			})
			return
		}
		c.Next()
	}
}
