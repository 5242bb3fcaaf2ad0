package models

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"quillpost/internal/apperr"

	"gorm.io/gorm"
)

const GroupTitleMaxLength = 200

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

type Group struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"size:200;not null" json:"title"`
	Slug        string `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Description string `gorm:"type:text" json:"description"`
}

func (g Group) String() string {
	return g.Title
}

func (g *Group) Validate() error {
	var v apperr.ValidationError
	if strings.TrimSpace(g.Title) == "" {
		v.Add("title", "required")
	} else if utf8.RuneCountInString(g.Title) > GroupTitleMaxLength {
		v.Add("title", "must be at most 200 characters")
	}
	if !slugPattern.MatchString(g.Slug) {
		v.Add("slug", "must contain only latin letters, digits, hyphens and underscores")
	}
	return v.OrNil()
}

func (g *Group) BeforeSave(tx *gorm.DB) error {
	return g.Validate()
}
