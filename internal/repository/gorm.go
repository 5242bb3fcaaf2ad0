package repository

import "gorm.io/gorm"

// NewGormRepositories wires every repository to one database handle.
func NewGormRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Users:    NewGormUserRepository(db),
		Groups:   NewGormGroupRepository(db),
		Posts:    NewGormPostRepository(db),
		Comments: NewGormCommentRepository(db),
		Follows:  NewGormFollowRepository(db),
	}
}
