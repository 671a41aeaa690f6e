package models

// Tool is a named prompt template driving content generation. Tools are
// seeded at store initialization and read-only to end users.
type Tool struct {
	ID          int    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"size:255;not null" json:"name"`
	Description string `gorm:"type:text;not null" json:"description"`
	Icon        string `gorm:"size:100;not null" json:"icon"`
	Color       string `gorm:"size:50;not null" json:"color"`
}
