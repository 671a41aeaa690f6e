package storage

import "github.com/aiscribe/aiscribe-backend/internal/models"

// defaultTools is the seed catalog of prompt templates. Both storage
// implementations load it at initialization.
func defaultTools() []models.Tool {
	return []models.Tool{
		{
			Name:        "Blog Generator",
			Description: "Generate full blog posts with sections, headings, and engaging content based on your topic.",
			Icon:        "edit_note",
			Color:       "primary",
		},
		{
			Name:        "Title Creator",
			Description: "Generate attention-grabbing titles for blogs, articles, or social media posts in seconds.",
			Icon:        "title",
			Color:       "secondary",
		},
		{
			Name:        "Idea Summarizer",
			Description: "Transform lengthy concepts into concise, impactful summaries without losing key information.",
			Icon:        "tips_and_updates",
			Color:       "accent",
		},
		{
			Name:        "Content Rewriter",
			Description: "Rewrite existing content to improve readability, tone, or to create multiple variations.",
			Icon:        "cached",
			Color:       "primary",
		},
		{
			Name:        "Email Composer",
			Description: "Create professional emails with appropriate tone and structure for any business context.",
			Icon:        "mail",
			Color:       "secondary",
		},
		{
			Name:        "Social Media Copy",
			Description: "Create platform-specific content that engages followers and drives conversions.",
			Icon:        "share",
			Color:       "accent",
		},
	}
}
