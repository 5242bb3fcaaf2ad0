package services

import (
	"context"
	"fmt"

	"quillpost/internal/apperr"
	"quillpost/internal/models"
	"quillpost/internal/repository"
)

const (
	GlobalFeedTitle       = "Latest updates"
	GlobalFeedDescription = "The home page of Quillpost"
	FollowFeedTitle       = "Favourite authors"
	FollowFeedPrompt      = "You are not following anyone yet. Follow an author to see their posts here."
)

type GlobalFeed struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	PostPage
}

type GroupFeed struct {
	Group models.Group `json:"group"`
	PostPage
}

type AuthorFeed struct {
	Author         models.User `json:"author"`
	PostCount      int64       `json:"post_count"`
	Following      bool        `json:"following"`
	FollowerCount  int64       `json:"follower_count"`
	FollowingCount int64       `json:"following_count"`
	PostPage
}

// FollowFeed sets NoContent instead of returning an empty page so callers can
// prompt the viewer to follow someone.
type FollowFeed struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	NoContent   bool   `json:"no_content"`
	PostPage
}

type FeedService struct {
	posts   repository.PostRepository
	groups  repository.GroupRepository
	users   repository.UserRepository
	follows repository.FollowRepository
	perPage int
}

func NewFeedService(repos *repository.Repositories, perPage int) *FeedService {
	if perPage < 1 {
		perPage = 10
	}
	return &FeedService{
		posts:   repos.Posts,
		groups:  repos.Groups,
		users:   repos.Users,
		follows: repos.Follows,
		perPage: perPage,
	}
}

func (s *FeedService) Global(ctx context.Context, rawPage string) (*GlobalFeed, error) {
	page, err := s.page(ctx, repository.PostFilter{}, rawPage)
	if err != nil {
		return nil, err
	}
	return &GlobalFeed{
		Title:       GlobalFeedTitle,
		Description: GlobalFeedDescription,
		PostPage:    page,
	}, nil
}

func (s *FeedService) Group(ctx context.Context, slug, rawPage string) (*GroupFeed, error) {
	group, err := s.groups.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("group %q: %w", slug, err)
	}
	page, err := s.page(ctx, repository.PostFilter{GroupID: group.ID}, rawPage)
	if err != nil {
		return nil, err
	}
	return &GroupFeed{Group: *group, PostPage: page}, nil
}

// Author lists one user's posts. viewer may be nil for anonymous requests.
func (s *FeedService) Author(ctx context.Context, username string, viewer *models.User, rawPage string) (*AuthorFeed, error) {
	author, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("user %q: %w", username, err)
	}
	page, err := s.page(ctx, repository.PostFilter{AuthorID: author.ID}, rawPage)
	if err != nil {
		return nil, err
	}

	feed := &AuthorFeed{
		Author:    *author,
		PostCount: page.Page.TotalItems,
		PostPage:  page,
	}
	if viewer != nil {
		feed.Following, err = s.follows.Exists(ctx, viewer.ID, author.ID)
		if err != nil {
			return nil, err
		}
	}
	if feed.FollowerCount, err = s.follows.CountFollowers(ctx, author.ID); err != nil {
		return nil, err
	}
	if feed.FollowingCount, err = s.follows.CountFollowing(ctx, author.ID); err != nil {
		return nil, err
	}
	return feed, nil
}

// Followed merges the posts of every author viewer follows into one
// newest-first sequence.
func (s *FeedService) Followed(ctx context.Context, viewer *models.User, rawPage string) (*FollowFeed, error) {
	if viewer == nil {
		return nil, apperr.ErrUnauthorized
	}
	page, err := s.page(ctx, repository.PostFilter{FollowerID: viewer.ID}, rawPage)
	if err != nil {
		return nil, err
	}

	feed := &FollowFeed{Title: FollowFeedTitle, PostPage: page}
	if page.Page.TotalItems == 0 {
		feed.NoContent = true
		feed.Description = FollowFeedPrompt
	}
	return feed, nil
}

func (s *FeedService) page(ctx context.Context, filter repository.PostFilter, rawPage string) (PostPage, error) {
	total, err := s.posts.Count(ctx, filter)
	if err != nil {
		return PostPage{}, fmt.Errorf("count posts: %w", err)
	}

	meta := NewPage(rawPage, total, s.perPage)
	posts := []models.Post{}
	if total > 0 {
		posts, err = s.posts.List(ctx, filter, meta.Offset(), meta.PerPage)
		if err != nil {
			return PostPage{}, fmt.Errorf("list posts: %w", err)
		}
	}
	return PostPage{Posts: posts, Page: meta}, nil
}
