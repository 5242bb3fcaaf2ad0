package handlers

import (
	"quillpost/internal/cache"
	"quillpost/internal/log"
	"quillpost/internal/services"

	"github.com/gin-gonic/gin"
)

// AdminHandler serves the moderation endpoints. Routes are guarded by
// middleware.AdminRequired.
type AdminHandler struct {
	accounts *services.AccountService
	pages    cache.PageCache
}

func NewAdminHandler(accounts *services.AccountService, pages cache.PageCache) *AdminHandler {
	return &AdminHandler{accounts: accounts, pages: pages}
}

type groupForm struct {
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

func (h *AdminHandler) CreateGroup(c *gin.Context) {
	form := groupForm{
		Title:       c.PostForm("title"),
		Slug:        c.PostForm("slug"),
		Description: c.PostForm("description"),
	}
	group, err := h.accounts.CreateGroup(c.Request.Context(), form.Title, form.Slug, form.Description)
	if err != nil {
		RespondError(c, err, form)
		return
	}
	Created(c, group)
}

func (h *AdminHandler) DeleteGroup(c *gin.Context) {
	if err := h.accounts.DeleteGroup(c.Request.Context(), c.Param("slug")); err != nil {
		RespondError(c, err, nil)
		return
	}
	Success(c, gin.H{"deleted": c.Param("slug")})
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	if err := h.accounts.DeleteUser(c.Request.Context(), c.Param("username")); err != nil {
		RespondError(c, err, nil)
		return
	}
	Success(c, gin.H{"deleted": c.Param("username")})
}

// ClearCache drops every cached page so the next request renders fresh.
func (h *AdminHandler) ClearCache(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.pages.Clear(ctx); err != nil {
		RespondError(c, err, nil)
		return
	}
	l := log.Ctx(ctx)
	l.Info().Msg("page cache cleared")
	Success(c, gin.H{"cleared": true})
}
