package models

import "time"

// Generation is one persisted prompt/output pair produced by a tool
// invocation. Owned exclusively by its creator; premium-only.
type Generation struct {
	ID        int       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int       `gorm:"not null;index" json:"userId"`
	ToolID    int       `gorm:"not null" json:"toolId"`
	Prompt    string    `gorm:"type:text;not null" json:"prompt"`
	Output    string    `gorm:"type:text;not null" json:"output"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Tags      *string   `gorm:"size:255" json:"tags"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
}
