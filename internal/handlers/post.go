package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"quillpost/internal/apperr"
	"quillpost/internal/middleware"
	"quillpost/internal/models"
	"quillpost/internal/services"
	"quillpost/internal/utils"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	content *services.ContentService
}

func NewPostHandler(content *services.ContentService) *PostHandler {
	return &PostHandler{content: content}
}

type postForm struct {
	Text  string `json:"text"`
	Group string `json:"group"`
}

type commentForm struct {
	Text string `json:"text"`
}

func postPath(id uint) string {
	return fmt.Sprintf("/posts/%d/", id)
}

// readPostForm decodes the multipart or urlencoded post form. The returned
// closer releases the uploaded file and is never nil.
func readPostForm(c *gin.Context) (postForm, services.PostInput, func(), error) {
	form := postForm{
		Text:  c.PostForm("text"),
		Group: strings.TrimSpace(c.PostForm("group")),
	}
	in := services.PostInput{Text: form.Text}
	closer := func() {}

	if form.Group != "" {
		id, ok := utils.ParseID(form.Group)
		if !ok {
			return form, in, closer, apperr.NewValidation("group", "unknown group")
		}
		in.GroupID = &id
	}

	header, err := c.FormFile("image")
	switch {
	case err == nil:
		var file multipart.File
		if file, err = header.Open(); err != nil {
			return form, in, closer, fmt.Errorf("open upload: %w", err)
		}
		in.Image = file
		closer = func() { file.Close() }
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		return form, in, closer, apperr.NewValidation("image", "could not read upload")
	}
	return form, in, closer, nil
}

// authoredPost loads the post and sends anyone but its author back to the
// detail page before any form input is looked at.
func (h *PostHandler) authoredPost(c *gin.Context, id uint) (*models.Post, bool) {
	post, err := h.content.GetPost(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err, nil)
		return nil, false
	}
	if post.AuthorID != middleware.CurrentUser(c).ID {
		c.Redirect(http.StatusFound, postPath(id))
		return nil, false
	}
	return post, true
}

// NewForm lists the groups a new post can be filed under.
func (h *PostHandler) NewForm(c *gin.Context) {
	groups, err := h.content.Groups(c.Request.Context())
	if err != nil {
		RespondError(c, err, nil)
		return
	}
	Success(c, gin.H{"groups": groups})
}

func (h *PostHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)
	form, in, done, err := readPostForm(c)
	defer done()
	if err != nil {
		RespondError(c, err, form)
		return
	}

	if _, err := h.content.CreatePost(c.Request.Context(), user, in); err != nil {
		RespondError(c, err, form)
		return
	}
	c.Redirect(http.StatusFound, profilePath(user.Username))
}

func (h *PostHandler) Detail(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	detail, err := h.content.PostDetail(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err, nil)
		return
	}
	Success(c, detail)
}

// EditForm returns the post being edited along with the group choices.
// Anyone but the author is sent back to the post.
func (h *PostHandler) EditForm(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	post, ok := h.authoredPost(c, id)
	if !ok {
		return
	}
	groups, err := h.content.Groups(c.Request.Context())
	if err != nil {
		RespondError(c, err, nil)
		return
	}
	Success(c, gin.H{"post": post, "groups": groups, "is_edit": true})
}

func (h *PostHandler) Edit(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if _, ok := h.authoredPost(c, id); !ok {
		return
	}
	form, in, done, err := readPostForm(c)
	defer done()
	if err != nil {
		RespondError(c, err, form)
		return
	}

	_, err = h.content.EditPost(c.Request.Context(), middleware.CurrentUser(c), id, in)
	switch {
	case err == nil, errors.Is(err, apperr.ErrForbidden):
		c.Redirect(http.StatusFound, postPath(id))
	default:
		RespondError(c, err, form)
	}
}

func (h *PostHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	user := middleware.CurrentUser(c)
	if err := h.content.DeletePost(c.Request.Context(), user, id); err != nil {
		RespondError(c, err, nil)
		return
	}
	c.Redirect(http.StatusFound, profilePath(user.Username))
}

func (h *PostHandler) AddComment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	form := commentForm{Text: c.PostForm("text")}
	if _, err := h.content.AddComment(c.Request.Context(), middleware.CurrentUser(c), id, form.Text); err != nil {
		RespondError(c, err, form)
		return
	}
	c.Redirect(http.StatusFound, postPath(id))
}

// EditComment rewrites the text of the caller's own comment.
func (h *PostHandler) EditComment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	form := commentForm{Text: c.PostForm("text")}
	comment, err := h.content.EditComment(c.Request.Context(), middleware.CurrentUser(c), id, form.Text)
	if err != nil {
		RespondError(c, err, form)
		return
	}
	if comment.PostID == nil {
		Success(c, comment)
		return
	}
	c.Redirect(http.StatusFound, postPath(*comment.PostID))
}
