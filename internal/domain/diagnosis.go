package domain

import "time"

type Severity string

const (
	SeverityNone     Severity = "None"
	SeverityLow      Severity = "Low"
	SeverityModerate Severity = "Moderate"
	SeverityHigh     Severity = "High"
	SeveritySevere   Severity = "Severe"
	SeverityUnknown  Severity = "Unknown"
)

// CropDiagnosis is one AI image-diagnosis result kept in the user's history.
type CropDiagnosis struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	Crop            string    `json:"crop"`
	ImageURL        string    `json:"image_url"`
	DiseaseName     string    `json:"disease_name,omitempty"`
	ScientificName  string    `json:"scientific_name,omitempty"`
	Severity        Severity  `json:"severity"`
	Confidence      int       `json:"confidence"` // 0-100
	Description     string    `json:"description,omitempty"`
	Recommendations []string  `json:"recommendations,omitempty"`
	IsHealthy       bool      `json:"is_healthy"`
	CreatedAt       time.Time `json:"created_at"`
}

func (d *CropDiagnosis) EntityID() string { return d.ID }

func (d *CropDiagnosis) OwnerID() string { return d.UserID }

func (d *CropDiagnosis) CreatedTime() time.Time { return d.CreatedAt }

type CreateDiagnosisRequest struct {
	ImageURL string `json:"image_url" validate:"required,url"`
	CropName string `json:"crop_name"`
	// ImageData carries the raw image inline when the client has not uploaded
	// it to object storage first. Base64-encoded.
	ImageData string `json:"image_data"`
	MimeType  string `json:"mime_type"`
}

// DiagnosisOutcome is the tagged result decoded from the vision provider.
// Exactly one of the branches is meaningful, discriminated by Kind.
type DiagnosisOutcome struct {
	Kind    DiagnosisKind
	Disease *DiseaseFinding // set when Kind == DiagnosisDiseased
	Reason  string          // set when Kind == DiagnosisFailed
}

type DiagnosisKind int

const (
	DiagnosisHealthy DiagnosisKind = iota
	DiagnosisDiseased
	DiagnosisFailed
)

type DiseaseFinding struct {
	CommonName      string
	ScientificName  string
	Confidence      float64 // 0.0-1.0
	Severity        Severity
	Description     string
	Recommendations []string
}
