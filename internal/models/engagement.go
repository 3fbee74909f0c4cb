package models

import (
	"time"
)

// Like represents a like edge, unique per (user, post). The feed core
// reads it for viewer annotation and windowed engagement counts.
type Like struct {
	UserID    int64     `gorm:"primaryKey;column:user_id"`
	PostID    int64     `gorm:"primaryKey;column:post_id"`
	CreatedAt time.Time `gorm:"not null;index:likes_created_ix;column:created_at"`
}

// TableName specifies the table name for Like
func (Like) TableName() string {
	return "likes"
}

// Comment is read here only for windowed engagement counts; comment
// content and threading belong to the commenting subsystem.
type Comment struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id"`
	PostID    int64     `gorm:"not null;column:post_id"`
	AuthorID  int64     `gorm:"not null;column:author_id"`
	CreatedAt time.Time `gorm:"not null;index:comments_created_ix;column:created_at"`
}

// TableName specifies the table name for Comment
func (Comment) TableName() string {
	return "comments"
}
