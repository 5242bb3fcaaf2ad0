package models

import (
	"strings"
	"time"

	"quillpost/internal/apperr"

	"gorm.io/gorm"
)

type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `gorm:"index;<-:create" json:"created_at"`
	AuthorID  uint      `gorm:"not null;index" json:"author_id"`
	Author    User      `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	GroupID   *uint     `gorm:"index" json:"group_id"`
	Group     *Group    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"group,omitempty"`
	Image     string    `gorm:"size:255" json:"image,omitempty"` // blob store key
}

// String is the short label used in listings.
func (p Post) String() string {
	return Truncate(p.Text, 15)
}

func (p *Post) Validate() error {
	if strings.TrimSpace(p.Text) == "" {
		return apperr.NewValidation("text", "required")
	}
	return nil
}

func (p *Post) BeforeSave(tx *gorm.DB) error {
	return p.Validate()
}

// Truncate cuts s to at most n characters.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
