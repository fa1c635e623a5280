package model

import (
	"time"

	"anoa.com/tradeaid/pkg/geo"
)

type Community struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Lat         float64   `gorm:"not null" json:"lat"`
	Lon         float64   `gorm:"not null" json:"lon"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Community) TableName() string {
	return "communities"
}

func (c *Community) Coordinate() geo.Point {
	return geo.Point{Lat: c.Lat, Lon: c.Lon}
}

type JoinStatus string

const (
	JoinPending  JoinStatus = "pending"
	JoinApproved JoinStatus = "approved"
	JoinRejected JoinStatus = "rejected"
)

// JoinRequest links a user to a community they asked to join. The
// (user_id, community_id) pair is unique at the storage layer so concurrent
// submissions cannot create duplicates even though the service also
// pre-checks.
type JoinRequest struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"not null;index;uniqueIndex:uk_user_community" json:"user_id"`
	CommunityID uint       `gorm:"not null;index;uniqueIndex:uk_user_community" json:"community_id"`
	Status      JoinStatus `gorm:"size:20;not null;default:pending" json:"status"`
	Approvals   int        `gorm:"not null;default:0" json:"approvals"`
	Rejections  int        `gorm:"not null;default:0" json:"rejections"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (JoinRequest) TableName() string {
	return "join_requests"
}
