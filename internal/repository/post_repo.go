package repository

import (
	"context"

	"quillpost/internal/apperr"
	"quillpost/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormPostRepository struct {
	db *gorm.DB
}

func NewGormPostRepository(db *gorm.DB) *GormPostRepository {
	return &GormPostRepository{db: db}
}

func (r *GormPostRepository) Create(ctx context.Context, post *models.Post) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error)
}

func (r *GormPostRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Group").
		First(&post, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

func (r *GormPostRepository) Update(ctx context.Context, post *models.Post) error {
	upd := models.Post{
		ID:       post.ID,
		AuthorID: post.AuthorID,
		Text:     post.Text,
		GroupID:  post.GroupID,
		Image:    post.Image,
	}
	result := r.db.WithContext(ctx).Model(&upd).Select("text", "group_id", "image").Updates(&upd)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *GormPostRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Comment{}).Where("post_id = ?", id).UpdateColumn("post_id", nil).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Post{}, id)
		if result.Error != nil {
			return translate(result.Error)
		}
		if result.RowsAffected == 0 {
			return apperr.ErrNotFound
		}
		return nil
	})
}

func (r *GormPostRepository) Count(ctx context.Context, filter PostFilter) (int64, error) {
	var total int64
	err := r.scope(r.db.WithContext(ctx).Model(&models.Post{}), filter).Count(&total).Error
	return total, translate(err)
}

// List returns one window of the filtered posts, newest first. Posts created
// in the same instant keep insertion order reversed via the id tiebreaker.
func (r *GormPostRepository) List(ctx context.Context, filter PostFilter, offset, limit int) ([]models.Post, error) {
	var posts []models.Post
	err := r.scope(r.db.WithContext(ctx), filter).
		Preload("Author").
		Preload("Group").
		Order("created_at DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&posts).Error
	return posts, translate(err)
}

func (r *GormPostRepository) scope(q *gorm.DB, filter PostFilter) *gorm.DB {
	if filter.AuthorID != 0 {
		q = q.Where("author_id = ?", filter.AuthorID)
	}
	if filter.GroupID != 0 {
		q = q.Where("group_id = ?", filter.GroupID)
	}
	if filter.FollowerID != 0 {
		followed := r.db.Model(&models.Follow{}).Select("author_id").Where("user_id = ?", filter.FollowerID)
		q = q.Where("author_id IN (?)", followed)
	}
	return q
}

var _ PostRepository = (*GormPostRepository)(nil)
