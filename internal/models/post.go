package models

import (
	"time"
)

// Post represents a published post. Immutable once created except for
// the denormalized counters and the soft-delete flag, all maintained
// by the posting subsystem.
type Post struct {
	ID           int64     `gorm:"primaryKey;autoIncrement;column:id"`
	AuthorID     int64     `gorm:"not null;index:posts_author_created_ix,priority:1;column:author_id"`
	Content      string    `gorm:"type:text;not null;column:content"`
	Category     string    `gorm:"type:varchar(32);column:category"`
	CreatedAt    time.Time `gorm:"not null;index:posts_created_ix;index:posts_author_created_ix,priority:2;column:created_at"`
	IsDeleted    bool      `gorm:"not null;default:false;column:is_deleted"`
	LikeCount    int64     `gorm:"not null;default:0;column:like_count"`
	CommentCount int64     `gorm:"not null;default:0;column:comment_count"`

	// Relationships
	Author *Profile `gorm:"foreignKey:AuthorID;references:ID"`
}

// TableName specifies the table name for Post
func (Post) TableName() string {
	return "posts"
}
