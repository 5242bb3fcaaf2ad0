package repository

import (
	"context"

	"quillpost/internal/apperr"
	"quillpost/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormCommentRepository struct {
	db *gorm.DB
}

func NewGormCommentRepository(db *gorm.DB) *GormCommentRepository {
	return &GormCommentRepository{db: db}
}

func (r *GormCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error)
}

func (r *GormCommentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Preload("Author").First(&comment, id).Error; err != nil {
		return nil, translate(err)
	}
	return &comment, nil
}

func (r *GormCommentRepository) UpdateText(ctx context.Context, comment *models.Comment) error {
	upd := models.Comment{ID: comment.ID, Text: comment.Text}
	result := r.db.WithContext(ctx).Model(&upd).Select("text").Updates(&upd)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *GormCommentRepository) ListByPost(ctx context.Context, postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&comments).Error
	return comments, translate(err)
}

var _ CommentRepository = (*GormCommentRepository)(nil)
