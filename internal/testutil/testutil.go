// Package testutil builds throwaway stores for package tests.
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"quillpost/internal/config"
	"quillpost/internal/db"
	"quillpost/internal/models"
	"quillpost/internal/utils"

	"gorm.io/gorm"
)

// NewDB returns a migrated in-memory SQLite database with foreign keys on.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	conn, err := db.New(config.DatabaseConfig{Driver: "sqlite", FilePath: ":memory:", LogLevel: "silent"})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return conn
}

// CreateUser inserts a user whose password is "password".
func CreateUser(t testing.TB, conn *gorm.DB, username string) *models.User {
	t.Helper()

	hash, err := utils.HashPassword("password")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &models.User{Username: username, Password: hash, Role: models.RoleUser}
	if err := conn.Create(user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func CreateGroup(t testing.TB, conn *gorm.DB, slug string) *models.Group {
	t.Helper()

	group := &models.Group{Title: "Group " + slug, Slug: slug, Description: "about " + slug}
	if err := conn.Create(group).Error; err != nil {
		t.Fatalf("create group %s: %v", slug, err)
	}
	return group
}

// CreatePosts inserts n posts by author, one second apart, oldest first.
func CreatePosts(t testing.TB, conn *gorm.DB, author *models.User, group *models.Group, n int) []models.Post {
	t.Helper()

	base := time.Now().Add(-time.Duration(n) * time.Second)
	posts := make([]models.Post, 0, n)
	for i := 0; i < n; i++ {
		p := models.Post{
			Text:      fmt.Sprintf("post %d by %s", i, author.Username),
			AuthorID:  author.ID,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		if group != nil {
			p.GroupID = &group.ID
		}
		if err := conn.WithContext(context.Background()).Omit("Author", "Group").Create(&p).Error; err != nil {
			t.Fatalf("create post: %v", err)
		}
		posts = append(posts, p)
	}
	return posts
}
