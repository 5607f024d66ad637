package models

import "time"

// Membership joins a user to a team. The ID orders a user's memberships so
// the default team picked at login is stable.
type Membership struct {
	ID       uint64    `gorm:"primarykey" json:"id"`
	UserID   uint64    `gorm:"not null;uniqueIndex:idx_memberships_user_team" json:"user_id"`
	TeamID   uint64    `gorm:"not null;uniqueIndex:idx_memberships_user_team;index" json:"team_id"`
	JoinedAt time.Time `json:"joined_at"`

	// Relations
	Team Team `gorm:"foreignKey:TeamID" json:"team,omitempty"`
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
