package repository

import (
	"context"
	"errors"
	"strings"
	"testing"

	"quillpost/internal/apperr"
	"quillpost/internal/models"
	"quillpost/internal/testutil"
)

func TestFollowCreateRejectsDuplicate(t *testing.T) {
	conn := testutil.NewDB(t)
	repo := NewGormFollowRepository(conn)
	ctx := context.Background()
	alice := testutil.CreateUser(t, conn, "alice")
	bob := testutil.CreateUser(t, conn, "bob")

	if err := repo.Create(ctx, bob.ID, alice.ID); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	err := repo.Create(ctx, bob.ID, alice.ID)
	if !errors.Is(err, apperr.ErrConstraintViolation) {
		t.Fatalf("expected constraint violation, got %v", err)
	}
}

func TestFollowEnsureIsIdempotent(t *testing.T) {
	conn := testutil.NewDB(t)
	repo := NewGormFollowRepository(conn)
	ctx := context.Background()
	alice := testutil.CreateUser(t, conn, "alice")
	bob := testutil.CreateUser(t, conn, "bob")

	for i := 0; i < 3; i++ {
		if err := repo.Ensure(ctx, bob.ID, alice.ID); err != nil {
			t.Fatalf("Ensure #%d failed: %v", i, err)
		}
	}

	var count int64
	conn.Model(&models.Follow{}).Where("user_id = ? AND author_id = ?", bob.ID, alice.ID).Count(&count)
	if count != 1 {
		t.Errorf("expected exactly one edge, got %d", count)
	}
}

func TestFollowDeleteMissingEdge(t *testing.T) {
	conn := testutil.NewDB(t)
	repo := NewGormFollowRepository(conn)
	ctx := context.Background()
	alice := testutil.CreateUser(t, conn, "alice")
	bob := testutil.CreateUser(t, conn, "bob")

	if err := repo.Delete(ctx, bob.ID, alice.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	var count int64
	conn.Model(&models.Follow{}).Count(&count)
	if count != 0 {
		t.Errorf("expected no edges, got %d", count)
	}
}

func TestUserDeleteCascades(t *testing.T) {
	conn := testutil.NewDB(t)
	repos := NewGormRepositories(conn)
	ctx := context.Background()

	alice := testutil.CreateUser(t, conn, "alice")
	bob := testutil.CreateUser(t, conn, "bob")
	group := testutil.CreateGroup(t, conn, "test-slug")
	posts := testutil.CreatePosts(t, conn, alice, group, 3)

	// bob comments on alice's post, alice comments on her own post
	bobComment := models.Comment{PostID: &posts[0].ID, AuthorID: bob.ID, Text: "nice"}
	aliceComment := models.Comment{PostID: &posts[1].ID, AuthorID: alice.ID, Text: "thanks"}
	for _, c := range []*models.Comment{&bobComment, &aliceComment} {
		if err := repos.Comments.Create(ctx, c); err != nil {
			t.Fatalf("create comment: %v", err)
		}
	}
	if err := repos.Follows.Ensure(ctx, bob.ID, alice.ID); err != nil {
		t.Fatalf("follow: %v", err)
	}
	if err := repos.Follows.Ensure(ctx, alice.ID, bob.ID); err != nil {
		t.Fatalf("follow: %v", err)
	}

	if err := repos.Users.Delete(ctx, alice.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}

	var n int64
	conn.Model(&models.Post{}).Where("author_id = ?", alice.ID).Count(&n)
	if n != 0 {
		t.Errorf("expected alice's posts gone, %d remain", n)
	}
	conn.Model(&models.Comment{}).Where("author_id = ?", alice.ID).Count(&n)
	if n != 0 {
		t.Errorf("expected alice's comments gone, %d remain", n)
	}
	conn.Model(&models.Follow{}).Where("user_id = ? OR author_id = ?", alice.ID, alice.ID).Count(&n)
	if n != 0 {
		t.Errorf("expected alice's follow edges gone, %d remain", n)
	}

	var orphan models.Comment
	if err := conn.First(&orphan, bobComment.ID).Error; err != nil {
		t.Fatalf("bob's comment should survive: %v", err)
	}
	if orphan.PostID != nil {
		t.Errorf("expected orphaned comment, post_id = %v", *orphan.PostID)
	}

	if _, err := repos.Groups.GetBySlug(ctx, "test-slug"); err != nil {
		t.Errorf("group must survive author delete: %v", err)
	}
	if err := repos.Users.Delete(ctx, alice.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestGroupDeleteNullifiesPosts(t *testing.T) {
	conn := testutil.NewDB(t)
	repos := NewGormRepositories(conn)
	ctx := context.Background()

	alice := testutil.CreateUser(t, conn, "alice")
	group := testutil.CreateGroup(t, conn, "doomed")
	testutil.CreatePosts(t, conn, alice, group, 4)

	if err := repos.Groups.Delete(ctx, group.ID); err != nil {
		t.Fatalf("delete group: %v", err)
	}

	total, err := repos.Posts.Count(ctx, PostFilter{AuthorID: alice.ID})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if total != 4 {
		t.Errorf("expected 4 surviving posts, got %d", total)
	}

	var grouped int64
	conn.Model(&models.Post{}).Where("group_id IS NOT NULL").Count(&grouped)
	if grouped != 0 {
		t.Errorf("expected group reference cleared on every post, %d still set", grouped)
	}
}

func TestPostDeleteOrphansComments(t *testing.T) {
	conn := testutil.NewDB(t)
	repos := NewGormRepositories(conn)
	ctx := context.Background()

	alice := testutil.CreateUser(t, conn, "alice")
	posts := testutil.CreatePosts(t, conn, alice, nil, 1)
	comment := models.Comment{PostID: &posts[0].ID, AuthorID: alice.ID, Text: "first"}
	if err := repos.Comments.Create(ctx, &comment); err != nil {
		t.Fatalf("create comment: %v", err)
	}

	if err := repos.Posts.Delete(ctx, posts[0].ID); err != nil {
		t.Fatalf("delete post: %v", err)
	}

	var got models.Comment
	if err := conn.First(&got, comment.ID).Error; err != nil {
		t.Fatalf("comment should survive: %v", err)
	}
	if got.PostID != nil {
		t.Errorf("expected nil post reference")
	}
	if err := repos.Posts.Delete(ctx, posts[0].ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestPostUpdateKeepsImmutableFields(t *testing.T) {
	conn := testutil.NewDB(t)
	repos := NewGormRepositories(conn)
	ctx := context.Background()

	alice := testutil.CreateUser(t, conn, "alice")
	bob := testutil.CreateUser(t, conn, "bob")
	group := testutil.CreateGroup(t, conn, "g")
	post := testutil.CreatePosts(t, conn, alice, nil, 1)[0]

	edit := post
	edit.Text = "edited"
	edit.GroupID = &group.ID
	edit.AuthorID = bob.ID
	if err := repos.Posts.Update(ctx, &edit); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := repos.Posts.GetByID(ctx, post.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Text != "edited" || got.GroupID == nil || *got.GroupID != group.ID {
		t.Errorf("mutable fields not applied: %+v", got)
	}
	if got.AuthorID != alice.ID {
		t.Errorf("author must not change, got %d", got.AuthorID)
	}
	if !got.CreatedAt.Equal(post.CreatedAt) {
		t.Errorf("created_at changed from %v to %v", post.CreatedAt, got.CreatedAt)
	}

	edit.Text = ""
	if err := repos.Posts.Update(ctx, &edit); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("expected validation error for empty text, got %v", err)
	}
}

func TestPostListFollowedUnion(t *testing.T) {
	conn := testutil.NewDB(t)
	repos := NewGormRepositories(conn)
	ctx := context.Background()

	alice := testutil.CreateUser(t, conn, "alice")
	bob := testutil.CreateUser(t, conn, "bob")
	carol := testutil.CreateUser(t, conn, "carol")
	testutil.CreatePosts(t, conn, alice, nil, 2)
	testutil.CreatePosts(t, conn, bob, nil, 3)

	repos.Follows.Ensure(ctx, carol.ID, alice.ID)
	repos.Follows.Ensure(ctx, carol.ID, bob.ID)

	posts, err := repos.Posts.List(ctx, PostFilter{FollowerID: carol.ID}, 0, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(posts) != 5 {
		t.Fatalf("expected posts from both authors, got %d", len(posts))
	}
	for i := 1; i < len(posts); i++ {
		if posts[i].CreatedAt.After(posts[i-1].CreatedAt) {
			t.Errorf("posts not ordered newest first at %d", i)
		}
	}
}

func TestCommentRejectsOverlongText(t *testing.T) {
	conn := testutil.NewDB(t)
	repos := NewGormRepositories(conn)
	ctx := context.Background()

	alice := testutil.CreateUser(t, conn, "alice")
	post := testutil.CreatePosts(t, conn, alice, nil, 1)[0]

	long := models.Comment{PostID: &post.ID, AuthorID: alice.ID, Text: strings.Repeat("x", 281)}
	if err := repos.Comments.Create(ctx, &long); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	ok := models.Comment{PostID: &post.ID, AuthorID: alice.ID, Text: strings.Repeat("ж", 280)}
	if err := repos.Comments.Create(ctx, &ok); err != nil {
		t.Fatalf("280 characters should be accepted: %v", err)
	}

	comments, _ := repos.Comments.ListByPost(ctx, post.ID)
	if len(comments) != 1 {
		t.Errorf("expected only the valid comment stored, got %d", len(comments))
	}
}
