package dto

import "github.com/aiscribe/aiscribe-backend/internal/models"

type ErrorResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// GenerateResponse carries freshly generated content plus the caller's
// remaining daily allowance. GenerationsLeft is a string because premium
// users get the unlimited marker.
type GenerateResponse struct {
	Content         string `json:"content"`
	GenerationsLeft string `json:"generationsLeft"`
}

type VerifyTokenResponse struct {
	Valid bool `json:"valid"`
}

type UpgradeResponse struct {
	Message string       `json:"message"`
	User    *models.User `json:"user"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Storage   string `json:"storage"`
}

// UnlimitedMarker is what premium users see in place of a remaining count.
const UnlimitedMarker = "∞"
