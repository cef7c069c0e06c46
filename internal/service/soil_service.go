package service

import (
	"context"
	"fmt"
	"time"

	"farmhub-server/internal/domain"
	"farmhub-server/internal/store"
	"farmhub-server/internal/upstream"

	"github.com/google/uuid"
)

type SoilService struct {
	store *store.EntityStore[*domain.SoilAnalysis]
	repo  EntityRepo[*domain.SoilAnalysis]
	chat  *upstream.ChatClient
}

func NewSoilService(st *store.EntityStore[*domain.SoilAnalysis], repo EntityRepo[*domain.SoilAnalysis], chat *upstream.ChatClient) *SoilService {
	return &SoilService{
		store: st,
		repo:  repo,
		chat:  chat,
	}
}

// Create saves the soil test and, when the assistant is reachable, attaches an
// AI assessment of the readings. The record persists either way; the
// assessment is best effort.
func (s *SoilService) Create(ctx context.Context, userID string, req *domain.CreateSoilAnalysisRequest) (*domain.SoilAnalysis, error) {
	analysis := &domain.SoilAnalysis{
		ID:            uuid.New().String(),
		UserID:        userID,
		FieldName:     req.FieldName,
		PHLevel:       req.PHLevel,
		Nitrogen:      req.Nitrogen,
		Phosphorus:    req.Phosphorus,
		Potassium:     req.Potassium,
		OrganicMatter: req.OrganicMatter,
		Moisture:      req.Moisture,
		ECLevel:       req.ECLevel,
		Notes:         req.Notes,
		AnalysisDate:  time.Now(),
		CreatedAt:     time.Now(),
	}

	if s.chat != nil {
		prompt := fmt.Sprintf(
			"Analyze these soil test results and give practical recommendations for the field %q: "+
				"pH %.1f, Nitrogen %.1f ppm, Phosphorus %.1f ppm, Potassium %.1f ppm, "+
				"Organic Matter %.1f%%, Moisture %.1f%%, EC %.2f dS/m. Notes: %s",
			req.FieldName, req.PHLevel, req.Nitrogen, req.Phosphorus, req.Potassium,
			req.OrganicMatter, req.Moisture, req.ECLevel, req.Notes,
		)
		reply, fallback := s.chat.Complete(ctx, []domain.ChatMessage{
			{Role: domain.RoleUser, Content: prompt},
		})
		if !fallback {
			analysis.Analysis = reply
		}
	}

	if err := s.store.Create(ctx, analysis); err != nil {
		return nil, fmt.Errorf("failed to save soil analysis: %w", err)
	}
	return analysis, nil
}

func (s *SoilService) History(ctx context.Context, userID string) ([]*domain.SoilAnalysis, error) {
	return s.store.List(ctx, userID)
}

// Get reads from the already-listed history. Rows belonging to other users
// are invisible, not forbidden.
func (s *SoilService) Get(userID, id string) (*domain.SoilAnalysis, bool) {
	analysis, ok := s.store.SelectOne(id)
	if !ok || analysis.UserID != userID {
		return nil, false
	}
	return analysis, true
}

func (s *SoilService) Delete(ctx context.Context, userID, id string) error {
	analysis, err := s.repo.Find(ctx, id)
	if err != nil {
		return err
	}
	if analysis.UserID != userID {
		return domain.ErrUnauthorized
	}
	return s.store.Delete(ctx, id)
}
