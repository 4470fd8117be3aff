package models

import "time"

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"uniqueIndex;not null"     json:"username"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null"                 json:"role"`
	Locked       bool   `gorm:"not null;default:false"   json:"locked"`
}

type LoginAttempt struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username    string    `gorm:"index;not null"           json:"username"`
	Success     bool      `gorm:"not null"                 json:"success"`
	AttemptTime time.Time `gorm:"index;not null"           json:"attempt_time"`
}
