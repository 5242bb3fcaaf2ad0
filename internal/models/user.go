package models

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"quillpost/internal/apperr"

	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	UsernameMaxLength = 150
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Password  string    `gorm:"not null" json:"-"` // bcrypt hash
	Role      string    `gorm:"size:20;default:'user';not null" json:"role"`
	CreatedAt time.Time `gorm:"<-:create" json:"created_at"`
	// No DeletedAt: users are removed physically together with their content.
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

func (u *User) Validate() error {
	var v apperr.ValidationError
	switch {
	case strings.TrimSpace(u.Username) == "":
		v.Add("username", "required")
	case utf8.RuneCountInString(u.Username) > UsernameMaxLength:
		v.Add("username", "too long")
	case !usernamePattern.MatchString(u.Username):
		v.Add("username", "may contain only letters, digits and @/./+/-/_")
	}
	if u.Password == "" {
		v.Add("password", "required")
	}
	return v.OrNil()
}

func (u *User) BeforeSave(tx *gorm.DB) error {
	if u.Role == "" {
		u.Role = RoleUser
	}
	return u.Validate()
}
