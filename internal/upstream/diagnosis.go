package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"farmhub-server/internal/domain"
)

// DiagnosisClient calls the vision model that identifies crop diseases from a
// photo. The provider's reply is loosely structured JSON, sometimes wrapped
// in a markdown code fence, with every field optional; decoding is defensive
// and always lands on one of the tagged DiagnosisOutcome branches rather than
// trusting a fully populated record downstream.
type DiagnosisClient struct {
	fetcher  *Fetcher
	endpoint string
	apiKey   string
}

func NewDiagnosisClient(fetcher *Fetcher, endpoint, apiKey string) *DiagnosisClient {
	return &DiagnosisClient{
		fetcher:  fetcher,
		endpoint: endpoint,
		apiKey:   apiKey,
	}
}

type diagnoseRequest struct {
	Image    string `json:"image"`
	MimeType string `json:"mime_type,omitempty"`
	CropName string `json:"crop_name,omitempty"`
}

type diagnoseResponse struct {
	Error   string          `json:"error,omitempty"`
	Crop    string          `json:"crop,omitempty"`
	Disease json.RawMessage `json:"disease,omitempty"`
	// severity/description/recommendations may arrive at the top level...
	Severity        string   `json:"severity,omitempty"`
	Description     string   `json:"description,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
	IsHealthy       *bool    `json:"isHealthy,omitempty"`
	// ...or the whole thing may come back as raw model text.
	Text string `json:"text,omitempty"`
}

type diseaseBlock struct {
	CommonName     string          `json:"commonName"`
	ScientificName string          `json:"scientificName"`
	Confidence     json.RawMessage `json:"confidence"`
}

var codeFence = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// Diagnose submits the image and decodes the reply. Transport and provider
// failures come back as *domain.UpstreamAIError; a parseable reply always
// yields a Healthy or Diseased outcome.
func (c *DiagnosisClient) Diagnose(ctx context.Context, imageBase64, mimeType, cropName string) (*domain.DiagnosisOutcome, string, error) {
	headers := map[string]string{"Authorization": "Bearer " + c.apiKey}
	req := diagnoseRequest{Image: imageBase64, MimeType: mimeType, CropName: cropName}

	var resp diagnoseResponse
	if err := c.fetcher.FetchJSON(ctx, http.MethodPost, c.endpoint, headers, req, &resp); err != nil {
		return nil, "", &domain.UpstreamAIError{Reason: "diagnosis request failed", Cause: err}
	}

	if resp.Error != "" {
		return &domain.DiagnosisOutcome{Kind: domain.DiagnosisFailed, Reason: resp.Error}, resp.Crop, nil
	}

	// Some deployments return the model text verbatim; dig the JSON out of it.
	if resp.Text != "" && resp.Disease == nil {
		cleaned := resp.Text
		if m := codeFence.FindStringSubmatch(cleaned); m != nil {
			cleaned = m[1]
		}
		var inner diagnoseResponse
		if err := json.Unmarshal([]byte(strings.TrimSpace(cleaned)), &inner); err != nil {
			return &domain.DiagnosisOutcome{Kind: domain.DiagnosisFailed, Reason: "unparseable model response"}, resp.Crop, nil
		}
		inner.Crop = firstNonEmpty(inner.Crop, resp.Crop)
		resp = inner
	}

	crop := firstNonEmpty(cropName, resp.Crop, "Unknown Plant")

	var block diseaseBlock
	if resp.Disease != nil {
		// A malformed disease object degrades to "no finding", not an error.
		_ = json.Unmarshal(resp.Disease, &block)
	}

	healthy := block.CommonName == "" || strings.EqualFold(block.CommonName, "none")
	if resp.IsHealthy != nil {
		healthy = *resp.IsHealthy
	}
	if healthy {
		return &domain.DiagnosisOutcome{Kind: domain.DiagnosisHealthy}, crop, nil
	}

	finding := &domain.DiseaseFinding{
		CommonName:      block.CommonName,
		ScientificName:  block.ScientificName,
		Confidence:      parseConfidence(block.Confidence),
		Severity:        normalizeSeverity(resp.Severity),
		Description:     resp.Description,
		Recommendations: resp.Recommendations,
	}
	return &domain.DiagnosisOutcome{Kind: domain.DiagnosisDiseased, Disease: finding}, crop, nil
}

// parseConfidence accepts a JSON number or a numeric string; anything else
// falls back to 0.8, matching the provider's own default.
func parseConfidence(raw json.RawMessage) float64 {
	if raw == nil {
		return 0.8
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return 0.8
}

func normalizeSeverity(s string) domain.Severity {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return domain.SeverityLow
	case "moderate":
		return domain.SeverityModerate
	case "high":
		return domain.SeverityHigh
	case "severe":
		return domain.SeveritySevere
	case "none":
		return domain.SeverityNone
	default:
		return domain.SeverityUnknown
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
