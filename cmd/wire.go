package main

import (
	"context"
	"time"

	"github.com/kdduha/kolam-knowledge/internal/cache"
	"github.com/kdduha/kolam-knowledge/internal/config"
	"github.com/kdduha/kolam-knowledge/internal/controller"
	"github.com/kdduha/kolam-knowledge/internal/corpus"
	"github.com/kdduha/kolam-knowledge/internal/knowledge"
	"github.com/kdduha/kolam-knowledge/internal/session"
	"go.uber.org/zap"
)

const redisPingTimeout = 2 * time.Second

// newSource builds the live knowledge source, or nil when the corpus
// answers everything.
func newSource(cfg *config.Config, logger *zap.Logger) (knowledge.Source, func() error) {
	if cfg.UseMockData() {
		return nil, func() error { return nil }
	}

	var src knowledge.Source
	switch cfg.Knowledge.Backend {
	case config.BackendOpenAI:
		src = knowledge.NewOpenAISource(logger, cfg.OpenAI)
	default:
		src = knowledge.NewHTTPSource(
			cfg.Knowledge.BaseURL,
			cfg.Knowledge.QueryPath,
			cfg.Knowledge.HealthPath,
			cfg.Knowledge.Timeout,
		)
	}
	logger.Info("knowledge source configured",
		zap.String("backend", cfg.Knowledge.Backend),
		zap.String("base_url", cfg.Knowledge.BaseURL))

	if !cfg.CacheEnable {
		return src, func() error { return nil }
	}
	redisCache := cache.NewRedisCache(cfg.RedisConfig)
	pingCtx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := redisCache.Ping(pingCtx); err != nil {
		logger.Warn("redis is unreachable, queries will bypass the cache",
			zap.String("addr", cfg.RedisConfig.Addr), zap.Error(err))
	} else {
		logger.Info("set redis as cache", zap.String("addr", cfg.RedisConfig.Addr))
	}
	return knowledge.NewCachedSource(logger, src, redisCache), redisCache.Close
}

func newFactory(cfg *config.Config, logger *zap.Logger, src knowledge.Source) (session.Factory, error) {
	corp, err := corpus.Load(cfg.Knowledge.CorpusPath)
	if err != nil {
		return nil, err
	}
	logger.Info("mock corpus loaded", zap.Int("records", corp.Len()), zap.Bool("use_mock_data", cfg.UseMockData()))

	opts := controller.Options{
		UseMockData: cfg.UseMockData(),
		MockDelay:   cfg.Knowledge.MockDelay,
	}
	return func() (*controller.Controller, error) {
		return controller.New(logger, src, corp, opts)
	}, nil
}
