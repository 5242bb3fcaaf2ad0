package handlers

import (
	"errors"
	"net/http"
	"strings"

	"quillpost/internal/apperr"
	"quillpost/internal/middleware"
	"quillpost/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	accounts *services.AccountService
}

func NewAuthHandler(accounts *services.AccountService) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

type signupForm struct {
	Username string `json:"username"`
}

// safeNext only follows local paths so the login form cannot be used as an
// open redirect.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}

func startSession(c *gin.Context, userID uint) error {
	session := sessions.Default(c)
	session.Clear()
	session.Set(middleware.SessionUserKey, userID)
	return session.Save()
}

func (h *AuthHandler) Signup(c *gin.Context) {
	form := signupForm{Username: c.PostForm("username")}
	user, err := h.accounts.Signup(c.Request.Context(), form.Username, c.PostForm("password"))
	if err != nil {
		RespondError(c, err, form)
		return
	}
	if err := startSession(c, user.ID); err != nil {
		RespondError(c, err, nil)
		return
	}
	c.Redirect(http.StatusFound, safeNext(c.Query("next")))
}

func (h *AuthHandler) Login(c *gin.Context) {
	user, err := h.accounts.Authenticate(c.Request.Context(), c.PostForm("username"), c.PostForm("password"))
	if errors.Is(err, apperr.ErrUnauthorized) {
		Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid username or password")
		return
	}
	if err != nil {
		RespondError(c, err, nil)
		return
	}
	if err := startSession(c, user.ID); err != nil {
		RespondError(c, err, nil)
		return
	}

	next := c.PostForm("next")
	if next == "" {
		next = c.Query("next")
	}
	c.Redirect(http.StatusFound, safeNext(next))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	c.Redirect(http.StatusFound, "/")
}
