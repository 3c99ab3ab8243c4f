package knowledge

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/kdduha/kolam-knowledge/internal/models"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string) error
}

// CachedSource serves repeated queries from a cache. Only answers with a
// string explanation are stored, so a malformed upstream payload is never
// replayed.
type CachedSource struct {
	logger *zap.Logger
	next   Source
	cache  Cache
	group  singleflight.Group
}

func NewCachedSource(logger *zap.Logger, next Source, cache Cache) *CachedSource {
	return &CachedSource{
		logger: logger,
		next:   next,
		cache:  cache,
	}
}

func (c *CachedSource) Query(ctx context.Context, req *models.KnowledgeRequest) (*models.KnowledgeResponse, error) {
	key := getCacheKey(req)

	cached, found, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.Warn("cache get error", zap.Error(err))
	}
	if found {
		var answer models.KnowledgeAnswer
		if err := sonic.UnmarshalString(cached, &answer); err == nil {
			c.logger.Debug("served from cache", zap.String("key", key))
			return answerToResponse(answer), nil
		}
		c.logger.Warn("dropping undecodable cache entry", zap.String("key", key))
	}

	// The shared upstream call outlives any single caller; each caller still
	// stops waiting when its own context ends.
	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		return c.fetch(shared, key, req)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*models.KnowledgeResponse), nil
	case <-ctx.Done():
		return nil, transportError(ctx.Err())
	}
}

func (c *CachedSource) fetch(ctx context.Context, key string, req *models.KnowledgeRequest) (*models.KnowledgeResponse, error) {
	resp, err := c.next.Query(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, fmt.Errorf("%w: empty body", ErrInvalidResponse)
	}

	if explanation, ok := resp.Explanation.(string); ok {
		answer := models.KnowledgeAnswer{Explanation: explanation}
		if resp.ImageBase64 != nil {
			answer.ImageBase64 = *resp.ImageBase64
		}
		if data, err := sonic.MarshalString(answer); err == nil {
			if err := c.cache.Set(ctx, key, data); err != nil {
				c.logger.Warn("failed to set cache", zap.Error(err))
			}
		}
	}
	return resp, nil
}

func (c *CachedSource) Health(ctx context.Context) (*models.HealthResponse, error) {
	return c.next.Health(ctx)
}

func answerToResponse(a models.KnowledgeAnswer) *models.KnowledgeResponse {
	resp := &models.KnowledgeResponse{Explanation: a.Explanation}
	if a.ImageBase64 != "" {
		img := a.ImageBase64
		resp.ImageBase64 = &img
	}
	return resp
}

func getCacheKey(req *models.KnowledgeRequest) string {
	data := []string{
		strings.ToLower(strings.TrimSpace(req.Query)),
		strconv.FormatBool(req.GenerateImage),
	}

	hash := sha256.Sum256([]byte(strings.Join(data, "-")))
	return hex.EncodeToString(hash[:])
}
