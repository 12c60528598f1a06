// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"net/http"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/relevance-engine/internal/embed"
	"github.com/pdiddy/relevance-engine/internal/pipeline"
	"github.com/pdiddy/relevance-engine/internal/quality"
	"github.com/pdiddy/relevance-engine/pkg/types"
)

// rankConfig assembles the pipeline configuration from viper with defaults
// applied. The embedding API key falls back to .secrets/embedding-api-key.
func rankConfig() types.RankConfig {
	cfg := types.RankConfig{
		Embedding: types.EmbeddingConfig{
			Model:      viper.GetString("embedding.model"),
			Endpoint:   viper.GetString("embedding.endpoint"),
			APIKey:     secretDefault("embedding-api-key", viper.GetString("embedding.api_key")),
			Dimensions: viper.GetInt("embedding.dimensions"),
			Workers:    viper.GetInt("embedding.workers"),
			Timeout:    viper.GetDuration("embedding.timeout"),
		},
		Cache: types.CacheConfig{
			MemoryEntries: viper.GetInt("cache.memory_entries"),
			Path:          viper.GetString("cache.path"),
			TTL:           viper.GetDuration("cache.ttl"),
		},
		Rerank: types.RerankConfig{
			RecallSize:          viper.GetInt("rerank.recall_size"),
			MinEmbeddedFraction: viper.GetFloat64("rerank.min_embedded_fraction"),
		},
		WeightsFile: viper.GetString("weights_file"),
	}
	cfg.ApplyDefaults()
	return cfg
}

// buildPipeline wires the embedding service, cache, scorer, and orchestrator.
// Weight-table validation failures surface here, at startup, before any
// request runs. The returned cleanup releases the worker pool and cache.
func buildPipeline(cfg types.RankConfig) (*pipeline.Pipeline, func(), error) {
	tables, err := quality.LoadTables(cfg.WeightsFile)
	if err != nil {
		return nil, nil, err
	}

	cache, err := embed.NewCache(cfg.Cache)
	if err != nil {
		return nil, nil, err
	}

	model := buildModel(cfg.Embedding)
	svc, err := embed.NewService(model, cache, cfg.Embedding.Workers, cfg.Embedding.Timeout)
	if err != nil {
		cache.Close()
		return nil, nil, err
	}

	p := pipeline.New(svc, cfg.Rerank, quality.NewScorer(tables))
	cleanup := func() {
		svc.Close()
		cache.Close()
	}
	return p, cleanup, nil
}

// buildModel selects the remote model when an endpoint is configured and the
// deterministic local model otherwise.
func buildModel(cfg types.EmbeddingConfig) embed.Model {
	if cfg.Endpoint == "" {
		return embed.NewLocalModel(cfg.Dimensions)
	}
	client := &http.Client{Timeout: cfg.Timeout + 10*time.Second}
	return embed.NewRemoteModel(client, cfg.Endpoint, cfg.APIKey, cfg.Model, cfg.Dimensions)
}
