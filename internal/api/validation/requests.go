package validation

// SessionRequest is the body of POST /auth/session.
type SessionRequest struct {
	SessionID string `json:"session_id" validate:"nonul"`
}

// CameraRequest is the body of camera create and update.
type CameraRequest struct {
	Name      string   `json:"name" validate:"required,nonul"`
	SourceURL string   `json:"source_url" validate:"nonul"`
	Location  *string  `json:"location" validate:"omitempty,nonul"`
	Lat       *float64 `json:"lat" validate:"omitempty,gte=-90,lte=90"`
	Lng       *float64 `json:"lng" validate:"omitempty,gte=-180,lte=180"`
	IsActive  *bool    `json:"is_active"`
}

// DetectionRequest is the body of POST /detections.
type DetectionRequest struct {
	CameraID   string   `json:"camera_id" validate:"required,nonul"`
	Type       string   `json:"detection_type" validate:"required,nonul"`
	Confidence *float64 `json:"confidence" validate:"required"`
	Lat        *float64 `json:"lat"`
	Lng        *float64 `json:"lng"`
	Location   *string  `json:"location" validate:"omitempty,nonul"`
	Severity   string   `json:"severity" validate:"nonul"`
}

// ListParams holds pagination query parameters after parsing.
type ListParams struct {
	Limit int `json:"limit" validate:"min=1,max=500"`
	Skip  int `json:"skip" validate:"min=0"`
}

// DetectionFilterParams holds the string filters of GET /detections.
type DetectionFilterParams struct {
	Type     string `json:"detection_type" validate:"nonul"`
	Severity string `json:"severity" validate:"nonul"`
	CameraID string `json:"camera_id" validate:"nonul"`
}

// TimelineParams holds the timeline query parameters after parsing.
type TimelineParams struct {
	Days int `json:"days" validate:"min=0,max=36500"`
}
