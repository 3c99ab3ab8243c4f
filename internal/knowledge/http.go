package knowledge

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/kdduha/kolam-knowledge/internal/models"
)

const maxErrorBody = 4 << 10

// HTTPSource talks JSON to the knowledge API.
type HTTPSource struct {
	client     *http.Client
	baseURL    string
	queryPath  string
	healthPath string
}

// NewHTTPSource builds a source for baseURL. A zero timeout leaves timing to
// the transport.
func NewHTTPSource(baseURL, queryPath, healthPath string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		client:     &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		queryPath:  queryPath,
		healthPath: healthPath,
	}
}

func (s *HTTPSource) Query(ctx context.Context, req *models.KnowledgeRequest) (*models.KnowledgeResponse, error) {
	body, err := sonic.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal req: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+s.queryPath, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	var out models.KnowledgeResponse
	if err := s.do(httpReq, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *HTTPSource) Health(ctx context.Context) (*models.HealthResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+s.healthPath, nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "application/json")

	var out models.HealthResponse
	if err := s.do(httpReq, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *HTTPSource) do(req *http.Request, out any) error {
	resp, err := s.client.Do(req)
	if err != nil {
		return transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
		}
	}

	if err := sonic.ConfigDefault.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}
