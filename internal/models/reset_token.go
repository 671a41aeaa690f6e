package models

import "time"

// ResetToken is a single-use, time-bound password-recovery secret mapped
// to the requesting username. Expired tokens are removed lazily on access.
type ResetToken struct {
	Token    string    `gorm:"size:255;primaryKey" json:"-"`
	Username string    `gorm:"size:255;not null" json:"username"`
	Expiry   time.Time `gorm:"not null" json:"expiry"`
}
