package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"farmhub-server/internal/domain"
	"farmhub-server/internal/notify"
	"farmhub-server/internal/store"
	"farmhub-server/internal/websocket"

	"github.com/google/uuid"
)

type OutbreakService struct {
	store         *store.EntityStore[*domain.DiseaseOutbreak]
	repo          EntityRepo[*domain.DiseaseOutbreak]
	manager       *websocket.Manager
	notifications *notify.Center
}

func NewOutbreakService(
	st *store.EntityStore[*domain.DiseaseOutbreak],
	repo EntityRepo[*domain.DiseaseOutbreak],
	manager *websocket.Manager,
	notifications *notify.Center,
) *OutbreakService {
	return &OutbreakService{
		store:         st,
		repo:          repo,
		manager:       manager,
		notifications: notifications,
	}
}

// Report files a new outbreak and alerts the community: a notification lands
// in every user's feed and connected sessions get a push.
func (s *OutbreakService) Report(ctx context.Context, userID string, req *domain.ReportOutbreakRequest) (*domain.DiseaseOutbreak, error) {
	outbreak := &domain.DiseaseOutbreak{
		ID:          uuid.New().String(),
		ReportedBy:  userID,
		DiseaseName: req.DiseaseName,
		Location:    req.Location,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		RadiusKm:    req.RadiusKm,
		Severity:    domain.Severity(req.Severity),
		Status:      domain.OutbreakActive,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if outbreak.RadiusKm == 0 {
		outbreak.RadiusKm = 10
	}

	if err := s.store.Create(ctx, outbreak); err != nil {
		return nil, fmt.Errorf("failed to report outbreak: %w", err)
	}

	if s.notifications != nil {
		s.notifications.Add(
			"Disease outbreak reported",
			fmt.Sprintf("%s reported near %s (%s severity).", outbreak.DiseaseName, outbreak.Location, outbreak.Severity),
		)
	}
	s.alert(outbreak)

	return outbreak, nil
}

// List returns all outbreaks, active first, then newest first.
func (s *OutbreakService) List(ctx context.Context) ([]*domain.DiseaseOutbreak, error) {
	outbreaks, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(outbreaks, func(i, j int) bool {
		iActive := outbreaks[i].Status == domain.OutbreakActive
		jActive := outbreaks[j].Status == domain.OutbreakActive
		if iActive != jActive {
			return iActive
		}
		return outbreaks[i].CreatedAt.After(outbreaks[j].CreatedAt)
	})
	return outbreaks, nil
}

// UpdateStatus moves an outbreak between active, contained and resolved. Only
// the reporter may change it.
func (s *OutbreakService) UpdateStatus(ctx context.Context, userID, id string, status domain.OutbreakStatus) (*domain.DiseaseOutbreak, error) {
	switch status {
	case domain.OutbreakActive, domain.OutbreakContained, domain.OutbreakResolved:
	default:
		return nil, &domain.ValidationError{Field: "status", Reason: "unknown status"}
	}

	outbreak, err := s.repo.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if outbreak.ReportedBy != userID {
		return nil, domain.ErrUnauthorized
	}

	outbreak.Status = status
	outbreak.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, outbreak); err != nil {
		return nil, err
	}
	return outbreak, nil
}

// Delete removes the outbreak report. Only the reporter may do so.
func (s *OutbreakService) Delete(ctx context.Context, userID, id string) error {
	outbreak, err := s.repo.Find(ctx, id)
	if err != nil {
		return err
	}
	if outbreak.ReportedBy != userID {
		return domain.ErrUnauthorized
	}
	return s.store.Delete(ctx, id)
}

func (s *OutbreakService) alert(outbreak *domain.DiseaseOutbreak) {
	if s.manager == nil {
		return
	}
	msg, err := websocket.NewMessage(websocket.TypeOutbreakAlert, &websocket.OutbreakAlertPayload{
		OutbreakID:  outbreak.ID,
		DiseaseName: outbreak.DiseaseName,
		Location:    outbreak.Location,
		Severity:    string(outbreak.Severity),
	})
	if err != nil {
		return
	}
	if err := s.manager.BroadcastAll(msg); err != nil {
		log.Printf("failed to broadcast outbreak alert: %v", err)
	}
}
