package dto

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=255"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type GenerateRequest struct {
	Prompt string `json:"prompt" validate:"required"`
	ToolID int    `json:"toolId" validate:"required"`
	Tone   string `json:"tone"`
	Length string `json:"length"`
}

type SaveGenerationRequest struct {
	ToolID int     `json:"toolId" validate:"required"`
	Prompt string  `json:"prompt" validate:"required"`
	Output string  `json:"output" validate:"required"`
	Title  string  `json:"title" validate:"required,max=255"`
	Tags   *string `json:"tags" validate:"omitempty,max=255"`
}

type ForgotPasswordRequest struct {
	Username string `json:"username" validate:"required"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}
