package models

import (
	"strings"
	"time"
	"unicode/utf8"

	"quillpost/internal/apperr"

	"gorm.io/gorm"
)

const CommentMaxLength = 280

type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    *uint     `gorm:"index" json:"post_id"` // nil once the post is deleted
	Post      *Post     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`
	AuthorID  uint      `gorm:"not null;index" json:"author_id"`
	Author    User      `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	Text      string    `gorm:"size:280;not null" json:"text"`
	CreatedAt time.Time `gorm:"index;<-:create" json:"created_at"`
}

func (c Comment) String() string {
	return Truncate(c.Text, 15)
}

func (c *Comment) Validate() error {
	switch {
	case strings.TrimSpace(c.Text) == "":
		return apperr.NewValidation("text", "required")
	case utf8.RuneCountInString(c.Text) > CommentMaxLength:
		return apperr.NewValidation("text", "must be at most 280 characters")
	}
	return nil
}

func (c *Comment) BeforeSave(tx *gorm.DB) error {
	return c.Validate()
}
