package server

import (
	"context"
	"log/slog"

	"docsum/app/api"
	"docsum/app/middleware"
	"docsum/config"
	"docsum/extractor"
	"docsum/index"
	"docsum/model"
	"docsum/store"
	"docsum/summarizer"

	"github.com/gofiber/fiber/v2"
)

var fiberConfig = fiber.Config{
	ErrorHandler: api.ErrorHandler,
	BodyLimit:    100 * 1024 * 1024, // uploads up to 100MB
}

type Server struct {
	cfg    config.Config
	logger *slog.Logger
	app    *fiber.App
	closer func() error
}

func New(cfg config.Config) *Server {
	return &Server{
		cfg:    cfg,
		logger: slog.Default(),
	}
}

// Run builds the long-lived handles (store, embedder, index, ladder) once
// and serves until Stop.
func (s *Server) Run() error {
	ctx := context.Background()

	storer, history, closer, err := s.buildStore(ctx)
	if err != nil {
		return err
	}
	s.closer = closer

	embedder, err := model.NewEmbedder(model.Config{
		Backend: s.cfg.EmbedBackend,
		Model:   s.cfg.EmbedModel,
		URL:     s.cfg.EmbedURL,
		APIKey:  s.cfg.EmbedAPIKey,
		Dim:     s.cfg.EmbedDim,
	}, s.logger)
	if err != nil {
		return err
	}

	idx := index.New(embedder, storer, s.logger)
	ext := extractor.New(s.logger)
	orch := summarizer.NewOrchestrator(s.buildLadder(), s.cfg.MaxRetryRounds, s.logger)

	if err := summarizer.InitTokenCounter(); err != nil {
		s.logger.Warn("token counter unavailable", "err", err)
	}

	var (
		app             = fiber.New(fiberConfig)
		checkHandler    = api.NewCheckHandler()
		documentHandler = api.NewDocumentHandler(ext, idx, s.cfg.ChunkSize, s.cfg.OverlapPercent, s.logger)
		summaryHandler  = api.NewSummaryHandler(idx, orch, history, s.logger)
		validator       = middleware.NewStaticTokenValidator(s.cfg.AuthTokens)
		check           = app.Group("/check")
		apiv1           = app.Group("/api/v1", middleware.Auth(validator))
	)
	s.app = app

	check.Get("/healthy", checkHandler.HandleHealthy)
	apiv1.Post("/documents", documentHandler.HandleUpload)
	apiv1.Delete("/documents/:id", documentHandler.HandleDelete)
	apiv1.Get("/stats", documentHandler.HandleStats)
	apiv1.Post("/summaries", summaryHandler.HandleSummarize)
	apiv1.Get("/history", summaryHandler.HandleHistory)

	s.logger.Info("server listening", "addr", s.cfg.ListenAddr, "ladder", orch.Ladder())
	return app.Listen(s.cfg.ListenAddr)
}

func (s *Server) Stop() {
	if s.app != nil {
		if err := s.app.Shutdown(); err != nil {
			s.logger.Error("error shutting down server", "err", err)
		}
	}
	if s.closer != nil {
		if err := s.closer(); err != nil {
			s.logger.Error("error closing store", "err", err)
		}
	}
	s.logger.Info("server stopped")
}

func (s *Server) buildStore(ctx context.Context) (store.VectorStorer, store.HistoryStorer, func() error, error) {
	if s.cfg.StoreBackend == "memory" {
		s.logger.Warn("using in-memory vector store, data will not survive restarts")
		mem := store.NewMemoryStore(s.cfg.EmbedDim)
		return mem, mem, nil, nil
	}

	pg, err := store.NewPostgresStore(ctx, s.cfg.PostgresDSN(), s.cfg.EmbedDim, s.logger)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := pg.Init(ctx); err != nil {
		pg.Close()
		return nil, nil, nil, err
	}
	return pg, pg, pg.Close, nil
}

// buildLadder assembles the fallback ladder in preference order from the
// configured provider credentials.
func (s *Server) buildLadder() []summarizer.Provider {
	var ladder []summarizer.Provider
	if s.cfg.GroqAPIKey != "" {
		ladder = append(ladder, summarizer.NewGroq(s.cfg.GroqAPIKey, s.cfg.GroqModel))
	}
	if s.cfg.GeminiAPIKey != "" {
		ladder = append(ladder, summarizer.NewGemini(s.cfg.GeminiAPIKey, s.cfg.GeminiModel))
	}
	if s.cfg.OpenRouterAPIKey != "" {
		for _, p := range summarizer.NewOpenRouter(s.cfg.OpenRouterAPIKey, s.cfg.OpenRouterModels) {
			ladder = append(ladder, p)
		}
	}
	if s.cfg.SarvamAPIKey != "" {
		ladder = append(ladder, summarizer.NewSarvam(s.cfg.SarvamAPIKey, s.cfg.SarvamModel))
	}
	return ladder
}
