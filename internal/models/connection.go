package models

import "time"

// Connection is one directed CONNECTED_TO edge.
// A friendship between A and B is always stored as the pair (A, B) and (B, A);
// the composite primary key keeps each direction unique.
type Connection struct {
	FromUserID string `gorm:"type:varchar(36);primaryKey"`
	ToUserID   string `gorm:"type:varchar(36);primaryKey;index"`
	CreatedAt  time.Time

	FromUser User `gorm:"foreignKey:FromUserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	ToUser   User `gorm:"foreignKey:ToUserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// ConnectionPair returns both directed edges of the friendship between a and b.
func ConnectionPair(a, b string) []Connection {
	return []Connection{
		{FromUserID: a, ToUserID: b},
		{FromUserID: b, ToUserID: a},
	}
}
