package models

// ValidationRequest asks the service to validate one banner. Either URL
// (fetch + detect) or Detections (pre-detected regions) must be provided;
// inline detections take precedence and skip the detector entirely.
type ValidationRequest struct {
	URL        string      `json:"url,omitempty"`
	Detections []Detection `json:"detections,omitempty"`

	// ImageWidth/ImageHeight are required with inline detections so their
	// pixel quads can be normalized against the banner dimensions.
	ImageWidth  int `json:"image_width,omitempty"`
	ImageHeight int `json:"image_height,omitempty"`

	// OverlapThreshold overrides the configured minimum overlap fraction
	// when set (0-1).
	OverlapThreshold *float64 `json:"overlap_threshold,omitempty"`

	// Config overrides the persisted configuration for this run when set.
	Config *Config `json:"config,omitempty"`
}

// BatchValidationRequest validates several banner URLs in one call.
type BatchValidationRequest struct {
	URLs             []string `json:"urls" binding:"required,min=1"`
	OverlapThreshold *float64 `json:"overlap_threshold,omitempty"`
}

// BatchValidationItem is one entry of a batch response. Error is set when
// that URL failed to fetch or detect; Result is set otherwise.
type BatchValidationItem struct {
	URL    string            `json:"url"`
	Result *ValidationResult `json:"result,omitempty"`
	Error  string            `json:"error,omitempty"`
}

// BatchValidationResponse is the response for a batch run.
type BatchValidationResponse struct {
	Items []BatchValidationItem `json:"items"`
}

// ErrorResponse is the JSON body returned for failed requests.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
