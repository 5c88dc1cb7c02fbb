package main

import (
	"github.com/2b3pro/ae-conjure/internal/bridge"
	"github.com/2b3pro/ae-conjure/internal/config"
	"github.com/2b3pro/ae-conjure/internal/engine"
	"github.com/2b3pro/ae-conjure/internal/knowledge"
	"github.com/2b3pro/ae-conjure/internal/llm"
	"github.com/2b3pro/ae-conjure/internal/runner"
	"github.com/2b3pro/ae-conjure/internal/sessions"
	"github.com/2b3pro/ae-conjure/internal/settings"
	"github.com/2b3pro/ae-conjure/internal/storage"
)

// creates and wires the run pipeline
func InitializeServices(cfg *config.Config, db *storage.Client, sessionMgr *sessions.Manager) *Services {
	knowledgeSvc := knowledge.NewService(&knowledge.Loader{
		CachePath: cfg.KnowledgeCachePath,
		SourceURL: cfg.KnowledgeSourceURL,
	}, knowledge.Options{})

	llmClient := llm.NewClient(knowledgeSvc, llm.Options{})
	hostBridge := bridge.NewHTTPBridge(cfg.HostBridgeURL, cfg.HostBridgeTimeout)
	eng := engine.New(llmClient, hostBridge, hostBridge)
	resolver := settings.NewResolver(db, cfg)

	return &Services{
		Knowledge: knowledgeSvc,
		LLM:       llmClient,
		Bridge:    hostBridge,
		Engine:    eng,
		Settings:  resolver,
		Runner:    runner.New(eng, resolver, sessionMgr, db, cfg.HistoryTurns),
	}
}
