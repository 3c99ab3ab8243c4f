package knowledge

import (
	"context"

	"github.com/kdduha/kolam-knowledge/internal/models"
)

// Source is a remote knowledge service.
type Source interface {
	Query(ctx context.Context, req *models.KnowledgeRequest) (*models.KnowledgeResponse, error)
	Health(ctx context.Context) (*models.HealthResponse, error)
}
