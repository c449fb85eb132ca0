package services

import (
	"context"

	"github.com/serenvoice/serenvoice-cli/internal/client/api"
	"github.com/serenvoice/serenvoice-cli/internal/client/models"
)

// WellnessService exposes the wellness-domain reads and the voice
// submission. It is a thin pass-through: authorization, refresh and
// error mapping all live in the transport.
type WellnessService interface {
	Groups(ctx context.Context) ([]models.Group, error)
	GroupMembers(ctx context.Context, groupID int) ([]models.Member, error)
	Activities(ctx context.Context) ([]models.Activity, error)
	SubmitRecording(ctx context.Context, path, note string) (*models.VoiceAnalysis, error)
	Analysis(ctx context.Context, id string) (*models.VoiceAnalysis, error)
	Recommendations(ctx context.Context) ([]models.Recommendation, error)
}

type wellnessService struct {
	client api.Client
}

func NewWellnessService(client api.Client) WellnessService {
	return &wellnessService{client: client}
}

func (s *wellnessService) Groups(ctx context.Context) ([]models.Group, error) {
	return s.client.Groups(ctx)
}

func (s *wellnessService) GroupMembers(ctx context.Context, groupID int) ([]models.Member, error) {
	return s.client.GroupMembers(ctx, groupID)
}

func (s *wellnessService) Activities(ctx context.Context) ([]models.Activity, error) {
	return s.client.Activities(ctx)
}

func (s *wellnessService) SubmitRecording(ctx context.Context, path, note string) (*models.VoiceAnalysis, error) {
	return s.client.SubmitRecording(ctx, path, note)
}

func (s *wellnessService) Analysis(ctx context.Context, id string) (*models.VoiceAnalysis, error) {
	return s.client.Analysis(ctx, id)
}

func (s *wellnessService) Recommendations(ctx context.Context) ([]models.Recommendation, error) {
	return s.client.Recommendations(ctx)
}
