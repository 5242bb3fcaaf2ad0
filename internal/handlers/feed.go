package handlers

import (
	"quillpost/internal/middleware"
	"quillpost/internal/services"

	"github.com/gin-gonic/gin"
)

type FeedHandler struct {
	feeds   *services.FeedService
	content *services.ContentService
}

func NewFeedHandler(feeds *services.FeedService, content *services.ContentService) *FeedHandler {
	return &FeedHandler{feeds: feeds, content: content}
}

// Index serves the global feed. The router wraps it in the page cache.
func (h *FeedHandler) Index(c *gin.Context) {
	feed, err := h.feeds.Global(c.Request.Context(), c.Query("page"))
	if err != nil {
		RespondError(c, err, nil)
		return
	}
	Success(c, feed)
}

func (h *FeedHandler) Group(c *gin.Context) {
	feed, err := h.feeds.Group(c.Request.Context(), c.Param("slug"), c.Query("page"))
	if err != nil {
		RespondError(c, err, nil)
		return
	}
	Success(c, feed)
}

func (h *FeedHandler) Groups(c *gin.Context) {
	groups, err := h.content.Groups(c.Request.Context())
	if err != nil {
		RespondError(c, err, nil)
		return
	}
	Success(c, gin.H{"groups": groups})
}

func (h *FeedHandler) Profile(c *gin.Context) {
	viewer := middleware.CurrentUser(c)
	feed, err := h.feeds.Author(c.Request.Context(), c.Param("username"), viewer, c.Query("page"))
	if err != nil {
		RespondError(c, err, nil)
		return
	}
	Success(c, feed)
}

// Following is the feed of every author the current user follows.
func (h *FeedHandler) Following(c *gin.Context) {
	feed, err := h.feeds.Followed(c.Request.Context(), middleware.CurrentUser(c), c.Query("page"))
	if err != nil {
		RespondError(c, err, nil)
		return
	}
	Success(c, feed)
}
