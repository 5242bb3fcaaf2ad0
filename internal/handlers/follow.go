package handlers

import (
	"net/http"
	"net/url"

	"quillpost/internal/middleware"
	"quillpost/internal/services"

	"github.com/gin-gonic/gin"
)

type FollowHandler struct {
	graph    *services.GraphService
	accounts *services.AccountService
}

func NewFollowHandler(graph *services.GraphService, accounts *services.AccountService) *FollowHandler {
	return &FollowHandler{graph: graph, accounts: accounts}
}

func (h *FollowHandler) Follow(c *gin.Context) {
	ctx := c.Request.Context()
	viewer := middleware.CurrentUser(c)

	author, err := h.accounts.UserByUsername(ctx, c.Param("username"))
	if err != nil {
		RespondError(c, err, nil)
		return
	}
	if err := h.graph.Follow(ctx, viewer.ID, author.ID); err != nil {
		RespondError(c, err, nil)
		return
	}
	c.Redirect(http.StatusFound, profilePath(author.Username))
}

// Unfollow answers 404 when the viewer was not following the author.
func (h *FollowHandler) Unfollow(c *gin.Context) {
	ctx := c.Request.Context()
	viewer := middleware.CurrentUser(c)

	author, err := h.accounts.UserByUsername(ctx, c.Param("username"))
	if err != nil {
		RespondError(c, err, nil)
		return
	}
	if err := h.graph.Unfollow(ctx, viewer.ID, author.ID); err != nil {
		RespondError(c, err, nil)
		return
	}
	c.Redirect(http.StatusFound, profilePath(author.Username))
}

func profilePath(username string) string {
	return "/profile/" + url.PathEscape(username) + "/"
}
