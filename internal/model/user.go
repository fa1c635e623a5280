package model

import "time"

type User struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Email            string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash     string    `gorm:"size:255;not null" json:"-"`
	FullName         string    `gorm:"size:100" json:"full_name,omitempty"`
	Gender           *string   `gorm:"size:20" json:"gender,omitempty"`
	Address          *string   `gorm:"type:text" json:"address,omitempty"`
	Phone            *string   `gorm:"size:30" json:"phone,omitempty"`
	ProfilePicture   *string   `gorm:"type:text" json:"profile_picture,omitempty"`
	ProfileCompleted bool      `gorm:"not null;default:false" json:"profile_completed"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
