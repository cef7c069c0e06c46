package domain

import "time"

type OutbreakStatus string

const (
	OutbreakActive    OutbreakStatus = "active"
	OutbreakContained OutbreakStatus = "contained"
	OutbreakResolved  OutbreakStatus = "resolved"
)

// DiseaseOutbreak is a community-reported disease occurrence in a region.
type DiseaseOutbreak struct {
	ID          string         `json:"id"`
	ReportedBy  string         `json:"reported_by"`
	DiseaseName string         `json:"disease_name"`
	Location    string         `json:"location"`
	Latitude    float64        `json:"latitude,omitempty"`
	Longitude   float64        `json:"longitude,omitempty"`
	RadiusKm    float64        `json:"radius_km"`
	Severity    Severity       `json:"severity"`
	Status      OutbreakStatus `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (o *DiseaseOutbreak) EntityID() string { return o.ID }

func (o *DiseaseOutbreak) OwnerID() string { return o.ReportedBy }

func (o *DiseaseOutbreak) CreatedTime() time.Time { return o.CreatedAt }

type ReportOutbreakRequest struct {
	DiseaseName string  `json:"disease_name" validate:"required"`
	Location    string  `json:"location" validate:"required"`
	Latitude    float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude   float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	RadiusKm    float64 `json:"radius_km" validate:"omitempty,gt=0"`
	Severity    string  `json:"severity" validate:"required,oneof=Low Moderate High Severe"`
}
