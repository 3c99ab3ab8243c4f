package models

import (
	"fmt"
	"strings"
)

// KnowledgeRequest is the body sent to the remote knowledge service.
type KnowledgeRequest struct {
	Query         string `json:"query" validate:"required" example:"What is Kolam?"`
	GenerateImage bool   `json:"generate_image" example:"true"`
}

func (r KnowledgeRequest) Validate() error {
	if strings.TrimSpace(r.Query) == "" {
		return fmt.Errorf("query is empty")
	}
	return nil
}

// KnowledgeResponse is the raw payload returned by a knowledge source.
// Explanation stays untyped until the controller checks its shape.
type KnowledgeResponse struct {
	Explanation any     `json:"explanation"`
	ImageBase64 *string `json:"image_base64"`
}

// KnowledgeAnswer is a validated answer, produced either remotely or from
// the mock corpus.
type KnowledgeAnswer struct {
	Explanation string `json:"explanation" example:"Kolam is a traditional art form..."`
	ImageBase64 string `json:"image_base64,omitempty"`
}

func (a KnowledgeAnswer) HasImage() bool {
	return a.ImageBase64 != ""
}

type HealthResponse struct {
	Status  string `json:"status" example:"healthy"`
	Version string `json:"version,omitempty" example:"0.1.0"`
}
