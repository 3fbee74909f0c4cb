package models

import (
	"time"
)

// Follow represents a follow edge: follower follows followee.
// Created and destroyed by the social subsystem; read-only here.
type Follow struct {
	FollowerID int64     `gorm:"primaryKey;column:follower_id"`
	FolloweeID int64     `gorm:"primaryKey;column:followee_id"`
	CreatedAt  time.Time `gorm:"not null;column:created_at"`

	// Relationships
	Follower *Profile `gorm:"foreignKey:FollowerID;references:ID"`
	Followee *Profile `gorm:"foreignKey:FolloweeID;references:ID"`
}

// TableName specifies the table name for Follow
func (Follow) TableName() string {
	return "follows"
}

// Block represents a block edge: blocker never sees the blocked
// author's posts in public results. Maintained upstream; the feed
// core only reads it as an exclusion filter.
type Block struct {
	BlockerID int64     `gorm:"primaryKey;column:blocker_id"`
	BlockedID int64     `gorm:"primaryKey;column:blocked_id"`
	CreatedAt time.Time `gorm:"not null;column:created_at"`
}

// TableName specifies the table name for Block
func (Block) TableName() string {
	return "blocks"
}
