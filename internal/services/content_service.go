package services

import (
	"context"
	"errors"
	"strconv"

	"github.com/aiscribe/aiscribe-backend/internal/ai"
	"github.com/aiscribe/aiscribe-backend/internal/config"
	"github.com/aiscribe/aiscribe-backend/internal/dto"
	"github.com/aiscribe/aiscribe-backend/internal/models"
	"github.com/aiscribe/aiscribe-backend/internal/storage"
)

// ErrNotOwner is returned when a caller operates on another user's generation.
var ErrNotOwner = errors.New("not authorized to access this generation")

type ContentService struct {
	store     storage.Storage
	generator ai.Generator
	cfg       *config.Config
}

func NewContentService(store storage.Storage, generator ai.Generator, cfg *config.Config) *ContentService {
	return &ContentService{store: store, generator: generator, cfg: cfg}
}

// Generate runs the full tool invocation: tool lookup, the single atomic
// quota gate, then the upstream completion call. The quota slot is consumed
// before the upstream call so two in-flight requests cannot both slip under
// the limit; an upstream failure does not refund the slot.
func (s *ContentService) Generate(ctx context.Context, user *models.User, req *dto.GenerateRequest) (*dto.GenerateResponse, error) {
	tool, err := s.store.GetTool(req.ToolID)
	if err != nil {
		return nil, err
	}

	limit := s.cfg.FreeDailyLimit
	if user.Premium {
		limit = 0 // unlimited
	}
	updated, err := s.store.ConsumeGeneration(user.ID, limit)
	if err != nil {
		return nil, err
	}

	content, err := s.generator.Generate(ctx, req.Prompt, tool.Name, req.Tone, req.Length)
	if err != nil {
		return nil, err
	}

	return &dto.GenerateResponse{
		Content:         content,
		GenerationsLeft: s.generationsLeft(updated),
	}, nil
}

func (s *ContentService) generationsLeft(user *models.User) string {
	if user.Premium {
		return dto.UnlimitedMarker
	}
	left := s.cfg.FreeDailyLimit - user.DailyGenerations
	if left < 0 {
		left = 0
	}
	return strconv.Itoa(left)
}

func (s *ContentService) SaveGeneration(user *models.User, req *dto.SaveGenerationRequest) (*models.Generation, error) {
	return s.store.CreateGeneration(models.Generation{
		UserID: user.ID,
		ToolID: req.ToolID,
		Prompt: req.Prompt,
		Output: req.Output,
		Title:  req.Title,
		Tags:   req.Tags,
	})
}

func (s *ContentService) ListGenerations(userID int) ([]models.Generation, error) {
	return s.store.GetGenerations(userID)
}

// DeleteGeneration removes a generation after verifying ownership.
func (s *ContentService) DeleteGeneration(user *models.User, id int) error {
	gen, err := s.store.GetGeneration(id)
	if err != nil {
		return err
	}
	if gen.UserID != user.ID {
		return ErrNotOwner
	}

	_, err = s.store.DeleteGeneration(id)
	return err
}

// Upgrade flips the premium flag. Payment processing happens elsewhere;
// this is the post-payment bookkeeping step.
func (s *ContentService) Upgrade(userID int) (*models.User, error) {
	return s.store.UpdateUserPremium(userID, true)
}

// ResetGenerations zeroes a user's daily counter (admin support action).
func (s *ContentService) ResetGenerations(userID int) (*models.User, error) {
	return s.store.ResetUserGenerations(userID)
}

func (s *ContentService) GetTools() ([]models.Tool, error) {
	return s.store.GetTools()
}

func (s *ContentService) GetTool(id int) (*models.Tool, error) {
	return s.store.GetTool(id)
}
