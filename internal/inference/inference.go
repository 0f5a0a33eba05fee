// Package inference defines the object detection model boundary. Only a
// disconnected placeholder is provided.
package inference

import (
	"context"
	"time"
)

// Status describes the connected model.
type Status struct {
	Connected     bool
	ModelName     string
	ModelVersion  string
	LastInference *time.Time
	Status        string
}

// Frame is one image submitted for inference.
type Frame struct {
	Image    string // base64, optional
	CameraID string
}

// Object is a single object found in a frame.
type Object struct {
	Class      string
	Confidence float64
	BBox       [4]float64 // x1, y1, x2, y2
	Severity   string
}

// Result is the outcome of running a frame through the model.
type Result struct {
	Detections      []Object
	InferenceTimeMS float64
	ModelName       string
	Message         string
}

// Detector runs object detection on frames.
type Detector interface {
	Status(ctx context.Context) Status
	Detect(ctx context.Context, f Frame) (*Result, error)
}

// Placeholder is a Detector with no model behind it.
type Placeholder struct{}

// NewPlaceholder creates a Placeholder detector.
func NewPlaceholder() *Placeholder {
	return &Placeholder{}
}

// Status always reports a disconnected model.
func (Placeholder) Status(context.Context) Status {
	return Status{
		Connected:    false,
		ModelName:    "YOLO v8 (Placeholder)",
		ModelVersion: "N/A",
		Status:       "disconnected",
	}
}

// Detect returns an empty result regardless of the frame.
func (Placeholder) Detect(context.Context, Frame) (*Result, error) {
	return &Result{
		Detections:      []Object{},
		InferenceTimeMS: 0,
		ModelName:       "placeholder",
		Message:         "Model not connected. Replace this endpoint with your YOLO/PyTorch model inference.",
	}, nil
}
