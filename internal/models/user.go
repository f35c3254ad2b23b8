package models

import "time"

// User is a person node in the social graph.
// Email is the canonical contact attribute and is unique across users.
type User struct {
	ID               string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name             string    `gorm:"size:255;not null;index" json:"name"`
	Email            string    `gorm:"size:255;unique;not null" json:"email"`
	SchoolYear       int       `gorm:"not null" json:"school_year"`
	NumOfConnections int       `gorm:"not null;default:0" json:"num_of_connections"`
	InvitedBy        *string   `gorm:"type:varchar(36);index" json:"invited_by"`
	CreatedAt        time.Time `json:"-"`
}
