package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"math"
	"time"

	"farmhub-server/internal/domain"
	"farmhub-server/internal/notify"
	"farmhub-server/internal/storage"
	"farmhub-server/internal/store"
	"farmhub-server/internal/upstream"
	"farmhub-server/internal/websocket"

	"github.com/google/uuid"
)

type DiagnosisService struct {
	store         *store.EntityStore[*domain.CropDiagnosis]
	repo          EntityRepo[*domain.CropDiagnosis]
	ai            *upstream.DiagnosisClient
	uploader      *storage.Uploader
	manager       *websocket.Manager
	notifications *notify.Center
}

func NewDiagnosisService(
	st *store.EntityStore[*domain.CropDiagnosis],
	repo EntityRepo[*domain.CropDiagnosis],
	ai *upstream.DiagnosisClient,
	uploader *storage.Uploader,
	manager *websocket.Manager,
	notifications *notify.Center,
) *DiagnosisService {
	return &DiagnosisService{
		store:         st,
		repo:          repo,
		ai:            ai,
		uploader:      uploader,
		manager:       manager,
		notifications: notifications,
	}
}

// Diagnose runs the vision model over the submitted photo and saves the result
// in the user's history. Inline image data is uploaded to object storage first
// so the saved record references a durable URL.
func (s *DiagnosisService) Diagnose(ctx context.Context, userID string, req *domain.CreateDiagnosisRequest) (*domain.CropDiagnosis, error) {
	imageURL := req.ImageURL
	if req.ImageData != "" && s.uploader != nil {
		data, err := base64.StdEncoding.DecodeString(req.ImageData)
		if err != nil {
			return nil, &domain.ValidationError{Field: "image_data", Reason: "not valid base64"}
		}
		url, err := s.uploader.Upload(ctx, data, req.MimeType)
		if err != nil {
			// Diagnosis still works off the inline data; only the durable
			// reference is lost.
			log.Printf("image upload failed: %v", err)
		} else {
			imageURL = url
		}
	}

	outcome, crop, err := s.ai.Diagnose(ctx, req.ImageData, req.MimeType, req.CropName)
	if err != nil {
		return nil, err
	}
	if outcome.Kind == domain.DiagnosisFailed {
		return nil, &domain.UpstreamAIError{Reason: outcome.Reason}
	}

	diagnosis := &domain.CropDiagnosis{
		ID:        uuid.New().String(),
		UserID:    userID,
		Crop:      crop,
		ImageURL:  imageURL,
		Severity:  domain.SeverityNone,
		IsHealthy: true,
		CreatedAt: time.Now(),
	}
	if outcome.Kind == domain.DiagnosisDiseased {
		finding := outcome.Disease
		diagnosis.IsHealthy = false
		diagnosis.DiseaseName = finding.CommonName
		diagnosis.ScientificName = finding.ScientificName
		diagnosis.Severity = finding.Severity
		diagnosis.Confidence = int(math.Round(finding.Confidence * 100))
		diagnosis.Description = finding.Description
		diagnosis.Recommendations = finding.Recommendations
	}

	if err := s.store.Create(ctx, diagnosis); err != nil {
		return nil, fmt.Errorf("failed to save diagnosis: %w", err)
	}

	if !diagnosis.IsHealthy && s.notifications != nil {
		s.notifications.Add(
			"Disease detected: "+diagnosis.DiseaseName,
			fmt.Sprintf("Your %s shows signs of %s (%s severity). Check the treatment recommendations.",
				diagnosis.Crop, diagnosis.DiseaseName, diagnosis.Severity),
		)
	}
	s.broadcast(userID, websocket.TypeEntityCreated, diagnosis)

	return diagnosis, nil
}

// History returns the user's diagnoses newest first.
func (s *DiagnosisService) History(ctx context.Context, userID string) ([]*domain.CropDiagnosis, error) {
	return s.store.List(ctx, userID)
}

// Get reads from the already-listed history; it performs no I/O. Other users'
// rows are invisible, not forbidden.
func (s *DiagnosisService) Get(userID, id string) (*domain.CropDiagnosis, bool) {
	diagnosis, ok := s.store.SelectOne(id)
	if !ok || diagnosis.UserID != userID {
		return nil, false
	}
	return diagnosis, true
}

func (s *DiagnosisService) Delete(ctx context.Context, userID, id string) error {
	diagnosis, err := s.repo.Find(ctx, id)
	if err != nil {
		return err
	}
	if diagnosis.UserID != userID {
		return domain.ErrUnauthorized
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.broadcast(userID, websocket.TypeEntityDeleted, &domain.CropDiagnosis{ID: id, UserID: userID})
	return nil
}

func (s *DiagnosisService) broadcast(userID string, msgType websocket.MessageType, diagnosis *domain.CropDiagnosis) {
	if s.manager == nil {
		return
	}
	msg, err := websocket.NewMessage(msgType, &websocket.EntityEventPayload{
		Collection: "crop_diagnostics",
		EntityID:   diagnosis.ID,
	})
	if err != nil {
		return
	}
	if err := s.manager.BroadcastToUser(userID, msg, ""); err != nil {
		log.Printf("failed to broadcast diagnosis event: %v", err)
	}
}
