package main

import (
	"context"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/lexigraph/lexigraph/internal/config"
	"github.com/lexigraph/lexigraph/internal/core"
	"github.com/lexigraph/lexigraph/internal/driver"
	"github.com/lexigraph/lexigraph/internal/llm"
	"github.com/lexigraph/lexigraph/internal/logger"
	"github.com/lexigraph/lexigraph/internal/server"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Get().Fatal("failed to load configuration", zap.Error(err))
	}

	if err := logger.Init(cfg.Server.Env); err != nil {
		logger.Get().Fatal("failed to initialize logger", zap.Error(err))
	}
	defer logger.Sync()
	log := logger.Get()

	ctx := context.Background()

	d, err := driver.NewNeo4jDriver(ctx, cfg.Neo4j.URI, cfg.Neo4j.Username, cfg.Neo4j.Password)
	if err != nil {
		log.Fatal("failed to connect to Neo4j", zap.Error(err))
	}
	defer d.Close(ctx)

	extractionLLM, embedder, err := llm.NewClient(ctx, cfg.LLM, cfg.LLM.ExtractionModel)
	if err != nil {
		log.Fatal("failed to initialize extraction LLM client", zap.Error(err))
	}
	queryLLM, _, err := llm.NewClient(ctx, cfg.LLM, cfg.LLM.QueryModel)
	if err != nil {
		log.Fatal("failed to initialize query LLM client", zap.Error(err))
	}

	engine := core.NewEngine(d, extractionLLM, queryLLM, embedder, cfg)
	srv := server.NewServer(engine)

	log.Info("starting server",
		zap.String("port", cfg.Server.Port),
		zap.String("provider", cfg.LLM.Provider),
		zap.String("extraction_model", cfg.LLM.ExtractionModel),
		zap.String("query_model", cfg.LLM.QueryModel))

	if err := srv.SetupRouter().Run(":" + cfg.Server.Port); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}
