package models

import (
	"time"
)

// Profile represents a platform account as the feed core sees it.
// Owned by the account subsystem; read-only here.
type Profile struct {
	ID             int64     `gorm:"primaryKey;autoIncrement;column:id"`
	Handle         string    `gorm:"type:varchar(32);not null;uniqueIndex:profiles_handle_ux;column:handle"`
	Visibility     string    `gorm:"type:varchar(8);not null;default:'public';column:visibility"`
	Role           string    `gorm:"type:varchar(8);not null;default:'user';column:role"`
	FollowerCount  int64     `gorm:"not null;default:0;column:follower_count"`
	FollowingCount int64     `gorm:"not null;default:0;column:following_count"`
	PostCount      int64     `gorm:"not null;default:0;column:post_count"`
	CreatedAt      time.Time `gorm:"not null;column:created_at"`
}

// TableName specifies the table name for Profile
func (Profile) TableName() string {
	return "profiles"
}

// Visibility values
const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

// Role values
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)
