package repository

import (
	"context"

	"quillpost/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	// Delete removes the user together with their posts, comments and follow edges.
	Delete(ctx context.Context, id uint) error
}

type GroupRepository interface {
	Create(ctx context.Context, group *models.Group) error
	GetByID(ctx context.Context, id uint) (*models.Group, error)
	GetBySlug(ctx context.Context, slug string) (*models.Group, error)
	List(ctx context.Context) ([]models.Group, error)
	// Delete removes the group and detaches its posts.
	Delete(ctx context.Context, id uint) error
}

// PostFilter selects the posts of one feed. Zero fields are ignored.
type PostFilter struct {
	AuthorID   uint
	GroupID    uint
	FollowerID uint // posts by every author FollowerID follows
}

type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	// Update writes the mutable fields only: text, group and image.
	Update(ctx context.Context, post *models.Post) error
	// Delete removes the post and leaves its comments orphaned.
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context, filter PostFilter) (int64, error)
	List(ctx context.Context, filter PostFilter, offset, limit int) ([]models.Post, error)
}

type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	// UpdateText rewrites the comment body; nothing else is mutable.
	UpdateText(ctx context.Context, comment *models.Comment) error
	ListByPost(ctx context.Context, postID uint) ([]models.Comment, error)
}

type FollowRepository interface {
	// Create inserts a new edge and fails with ErrConstraintViolation on a duplicate.
	Create(ctx context.Context, userID, authorID uint) error
	// Ensure inserts the edge unless it already exists.
	Ensure(ctx context.Context, userID, authorID uint) error
	// Delete removes the edge and fails with ErrNotFound when there is none.
	Delete(ctx context.Context, userID, authorID uint) error
	Exists(ctx context.Context, userID, authorID uint) (bool, error)
	CountFollowers(ctx context.Context, authorID uint) (int64, error)
	CountFollowing(ctx context.Context, userID uint) (int64, error)
}

// Repositories bundles every store the services need.
type Repositories struct {
	Users    UserRepository
	Groups   GroupRepository
	Posts    PostRepository
	Comments CommentRepository
	Follows  FollowRepository
}
