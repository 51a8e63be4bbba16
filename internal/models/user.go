package models

import "time"

// User is a row of the users table. PasswordHash never leaves the process.
type User struct {
	ID           int64      `gorm:"column:user_id;primaryKey;autoIncrement" json:"user_id"`
	Email        string     `gorm:"column:email;size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"column:password_hash;size:255;not null" json:"-"`
	CreatedAt    time.Time  `gorm:"column:created_at;not null" json:"created_at"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at" json:"last_login_at"`
	IsActive     bool       `gorm:"column:is_active;not null" json:"is_active"`
	IsVerified   bool       `gorm:"column:is_verified;not null" json:"is_verified"`
}

func (User) TableName() string {
	return "users"
}

type UserCreate struct {
	Email      string `json:"email" validate:"required,email,max=255"`
	Password   string `json:"password" validate:"required,maxbytes=72"`
	IsActive   *bool  `json:"is_active"`
	IsVerified *bool  `json:"is_verified"`
}

// UserUpdate carries only the fields the client sent; nil means unchanged.
type UserUpdate struct {
	Email      *string `json:"email" validate:"omitnil,email,max=255"`
	Password   *string `json:"password" validate:"omitnil,min=1,maxbytes=72"`
	IsActive   *bool   `json:"is_active"`
	IsVerified *bool   `json:"is_verified"`
}
