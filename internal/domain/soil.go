package domain

import "time"

// SoilAnalysis is one soil test record plus the AI assessment generated for it.
type SoilAnalysis struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	FieldName     string    `json:"field_name"`
	PHLevel       float64   `json:"ph_level,omitempty"`
	Nitrogen      float64   `json:"nitrogen,omitempty"`
	Phosphorus    float64   `json:"phosphorus,omitempty"`
	Potassium     float64   `json:"potassium,omitempty"`
	OrganicMatter float64   `json:"organic_matter,omitempty"`
	Moisture      float64   `json:"moisture,omitempty"`
	ECLevel       float64   `json:"ec_level,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	Analysis      string    `json:"analysis,omitempty"`
	AnalysisDate  time.Time `json:"analysis_date"`
	CreatedAt     time.Time `json:"created_at"`
}

func (s *SoilAnalysis) EntityID() string { return s.ID }

func (s *SoilAnalysis) OwnerID() string { return s.UserID }

func (s *SoilAnalysis) CreatedTime() time.Time { return s.CreatedAt }

type CreateSoilAnalysisRequest struct {
	FieldName     string  `json:"field_name" validate:"required"`
	PHLevel       float64 `json:"ph_level" validate:"gte=0,lte=14"`
	Nitrogen      float64 `json:"nitrogen" validate:"gte=0"`
	Phosphorus    float64 `json:"phosphorus" validate:"gte=0"`
	Potassium     float64 `json:"potassium" validate:"gte=0"`
	OrganicMatter float64 `json:"organic_matter" validate:"gte=0,lte=100"`
	Moisture      float64 `json:"moisture" validate:"gte=0,lte=100"`
	ECLevel       float64 `json:"ec_level" validate:"gte=0"`
	Notes         string  `json:"notes"`
}
