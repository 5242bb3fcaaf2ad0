package services

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"

	"quillpost/internal/apperr"
	"quillpost/internal/log"
	"quillpost/internal/metrics"
	"quillpost/internal/models"
	"quillpost/internal/repository"
	"quillpost/internal/storage"
	"quillpost/internal/utils"
)

const detailTitleLength = 30

// PostInput carries the author-editable fields of a post. Image is nil when no
// file was uploaded; on edit that keeps the current image.
type PostInput struct {
	Text    string
	GroupID *uint
	Image   io.Reader
}

type PostDetail struct {
	Post            models.Post      `json:"post"`
	Title           string           `json:"title"`
	HTML            template.HTML    `json:"html"`
	ImageURL        string           `json:"image_url,omitempty"`
	AuthorPostCount int64            `json:"author_post_count"`
	Comments        []models.Comment `json:"comments"`
}

type ContentService struct {
	posts        repository.PostRepository
	comments     repository.CommentRepository
	groups       repository.GroupRepository
	blobs        storage.Storage
	maxImageSize int64
}

func NewContentService(repos *repository.Repositories, blobs storage.Storage, maxImageSize int64) *ContentService {
	if maxImageSize <= 0 {
		maxImageSize = 10 << 20
	}
	return &ContentService{
		posts:        repos.Posts,
		comments:     repos.Comments,
		groups:       repos.Groups,
		blobs:        blobs,
		maxImageSize: maxImageSize,
	}
}

// MediaURL is the public path of a stored image.
func MediaURL(key string) string {
	if key == "" {
		return ""
	}
	return "/media/" + key
}

func (s *ContentService) Groups(ctx context.Context) ([]models.Group, error) {
	return s.groups.List(ctx)
}

func (s *ContentService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("post %d: %w", id, err)
	}
	return post, nil
}

// CreatePost validates input before the image is stored so rejected posts
// leave no blobs behind.
func (s *ContentService) CreatePost(ctx context.Context, author *models.User, in PostInput) (*models.Post, error) {
	if author == nil {
		return nil, apperr.ErrUnauthorized
	}
	post := &models.Post{Text: in.Text, AuthorID: author.ID, GroupID: in.GroupID}
	if err := s.validatePost(ctx, post); err != nil {
		return nil, err
	}
	if err := s.attachImage(ctx, post, in.Image); err != nil {
		return nil, err
	}

	if err := s.posts.Create(ctx, post); err != nil {
		s.discardImage(ctx, post.Image)
		return nil, err
	}
	metrics.PostsCreated.Inc()

	post.Author = *author
	return post, nil
}

// EditPost applies in to the post. Only its author may edit it.
func (s *ContentService) EditPost(ctx context.Context, editor *models.User, postID uint, in PostInput) (*models.Post, error) {
	post, err := s.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if editor == nil || post.AuthorID != editor.ID {
		return post, apperr.ErrForbidden
	}

	previousImage := post.Image
	post.Text = in.Text
	post.GroupID = in.GroupID
	post.Group = nil
	if err := s.validatePost(ctx, post); err != nil {
		return post, err
	}
	if err := s.attachImage(ctx, post, in.Image); err != nil {
		return post, err
	}

	if err := s.posts.Update(ctx, post); err != nil {
		if post.Image != previousImage {
			s.discardImage(ctx, post.Image)
		}
		return post, err
	}
	if previousImage != "" && post.Image != previousImage {
		s.discardImage(ctx, previousImage)
	}
	return s.GetPost(ctx, postID)
}

// DeletePost removes a post for its author or an admin. Comments stay as orphans.
func (s *ContentService) DeletePost(ctx context.Context, actor *models.User, postID uint) error {
	post, err := s.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	if actor == nil || (post.AuthorID != actor.ID && !actor.IsAdmin()) {
		return apperr.ErrForbidden
	}
	if err := s.posts.Delete(ctx, postID); err != nil {
		return err
	}
	s.discardImage(ctx, post.Image)
	return nil
}

func (s *ContentService) PostDetail(ctx context.Context, postID uint) (*PostDetail, error) {
	post, err := s.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	count, err := s.posts.Count(ctx, repository.PostFilter{AuthorID: post.AuthorID})
	if err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	return &PostDetail{
		Post:            *post,
		Title:           models.Truncate(post.Text, detailTitleLength),
		HTML:            utils.RenderMarkdown(post.Text),
		ImageURL:        MediaURL(post.Image),
		AuthorPostCount: count,
		Comments:        comments,
	}, nil
}

func (s *ContentService) AddComment(ctx context.Context, author *models.User, postID uint, text string) (*models.Comment, error) {
	if author == nil {
		return nil, apperr.ErrUnauthorized
	}
	if _, err := s.GetPost(ctx, postID); err != nil {
		return nil, err
	}

	comment := &models.Comment{PostID: &postID, AuthorID: author.ID, Text: text}
	if err := comment.Validate(); err != nil {
		return nil, err
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	metrics.CommentsCreated.Inc()

	comment.Author = *author
	return comment, nil
}

// EditComment rewrites the text of the editor's own comment.
func (s *ContentService) EditComment(ctx context.Context, editor *models.User, commentID uint, text string) (*models.Comment, error) {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, fmt.Errorf("comment %d: %w", commentID, err)
	}
	if editor == nil || comment.AuthorID != editor.ID {
		return comment, apperr.ErrForbidden
	}

	comment.Text = text
	if err := comment.Validate(); err != nil {
		return comment, err
	}
	if err := s.comments.UpdateText(ctx, comment); err != nil {
		return comment, err
	}
	return comment, nil
}

func (s *ContentService) validatePost(ctx context.Context, post *models.Post) error {
	var v apperr.ValidationError
	if err := post.Validate(); err != nil {
		v.Add("text", "required")
	}
	if post.GroupID != nil {
		if _, err := s.groups.GetByID(ctx, *post.GroupID); err != nil {
			if !errors.Is(err, apperr.ErrNotFound) {
				return err
			}
			v.Add("group", "unknown group")
		}
	}
	return v.OrNil()
}

func (s *ContentService) attachImage(ctx context.Context, post *models.Post, image io.Reader) error {
	if image == nil {
		return nil
	}
	key, err := storage.SaveImage(ctx, s.blobs, image, s.maxImageSize)
	switch {
	case errors.Is(err, storage.ErrNotImage):
		return apperr.NewValidation("image", "upload a valid image; the file is not an image or is corrupted")
	case errors.Is(err, storage.ErrImageTooLarge):
		return apperr.NewValidation("image", "image is too large")
	case err != nil:
		return fmt.Errorf("store image: %w", err)
	}
	post.Image = key
	return nil
}

func (s *ContentService) discardImage(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.blobs.Delete(ctx, key); err != nil {
		l := log.Ctx(ctx)
		l.Warn().Err(err).Str("key", key).Msg("failed to delete image blob")
	}
}

// RecentPosts returns up to limit posts, newest first.
func (s *ContentService) RecentPosts(ctx context.Context, limit int) ([]models.Post, error) {
	return s.posts.List(ctx, repository.PostFilter{}, 0, limit)
}
