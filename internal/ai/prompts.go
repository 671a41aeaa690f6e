package ai

import "fmt"

// systemPrompt selects the writing persona for a tool. Unknown tool names
// fall back to a generic content-writer prompt.
func systemPrompt(toolName, tone, length string) string {
	switch toolName {
	case "Blog Generator":
		return fmt.Sprintf("You are a professional blog writer. Create a well-structured blog post with headings, paragraphs, and relevant content. The tone should be %s. Length should be %s.", tone, length)
	case "Title Creator":
		return fmt.Sprintf("You are a title generation expert. Create a list of 10 attention-grabbing, clickable titles for content. The tone should be %s.", tone)
	case "Idea Summarizer":
		return fmt.Sprintf("You are a summarization expert. Transform the given text into a concise, impactful summary that captures the key points. The tone should be %s. Length should be %s.", tone, length)
	case "Content Rewriter":
		return fmt.Sprintf("You are a content rewriting specialist. Rewrite the provided content while maintaining its meaning but improving its clarity, readability, and engagement. The tone should be %s. Length should be %s.", tone, length)
	case "Email Composer":
		return fmt.Sprintf("You are an email writing expert. Create a professional email that is clear, concise, and effective. The tone should be %s. Length should be %s.", tone, length)
	case "Social Media Copy":
		return fmt.Sprintf("You are a social media copywriter. Create engaging, platform-specific content that drives engagement. The tone should be %s. Length should be %s.", tone, length)
	default:
		return fmt.Sprintf("You are a professional content writer. Create high-quality content based on the given prompt. The tone should be %s. Length should be %s.", tone, length)
	}
}
