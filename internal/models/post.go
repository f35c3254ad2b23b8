package models

import "time"

// Post is a piece of content attached to its author.
// VisibilityDegree is the inclusive upper bound on the graph distance between
// the author and a viewer allowed to see the post.
type Post struct {
	ID               string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Content          string    `gorm:"not null" json:"content"`
	AuthorID         string    `gorm:"type:varchar(36);not null;index" json:"author_id"`
	VisibilityDegree int       `gorm:"not null;default:0" json:"visibility_degree"`
	Timestamp        time.Time `gorm:"not null;index" json:"timestamp"`

	Author User `gorm:"foreignKey:AuthorID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}
