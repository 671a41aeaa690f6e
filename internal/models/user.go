package models

import "time"

// User is an account holder. Free users get a small daily generation
// allowance; premium users are unlimited and may persist generations.
type User struct {
	ID               int        `gorm:"primaryKey;autoIncrement" json:"id"`
	Username         string     `gorm:"size:255;not null;uniqueIndex" json:"username"`
	Password         string     `gorm:"not null" json:"-"`
	Premium          bool       `gorm:"not null;default:false" json:"premium"`
	DailyGenerations int        `gorm:"not null;default:0" json:"dailyGenerations"`
	LastGeneratedAt  *time.Time `json:"lastGeneratedAt"`
}
