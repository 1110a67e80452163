package builder

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/adforge/adgen-backend/internal/api"
	adsapi "github.com/adforge/adgen-backend/internal/api/ads"
	conversationapi "github.com/adforge/adgen-backend/internal/api/conversation"
	sessionapi "github.com/adforge/adgen-backend/internal/api/session"
	"github.com/adforge/adgen-backend/internal/config"
	"github.com/adforge/adgen-backend/internal/integration/imagegen"
	"github.com/adforge/adgen-backend/internal/pkg/classifier"
	"github.com/adforge/adgen-backend/internal/pkg/report"
	"github.com/adforge/adgen-backend/internal/pkg/validator"
	"github.com/adforge/adgen-backend/internal/repository"
	"github.com/adforge/adgen-backend/internal/usecase/agent"
	"github.com/adforge/adgen-backend/internal/usecase/conversation"
	"github.com/adforge/adgen-backend/internal/vision"
)

func Build() (*App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	// Working directories
	for _, dir := range []string{cfg.UploadDir, cfg.OutputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	// Initialize repositories
	sessionRepo := repository.NewSessionMemory(cfg.ConversationTTL)
	conversationRepo := repository.NewConversationMemory(cfg.ConversationTTL)
	logger.Info("Repositories initialized")

	// Initialize generation connector (with mock support)
	var generator agent.Generator
	if cfg.EnableMocks {
		logger.Info("Using mock connector for image generation")
		generator = imagegen.NewMockConnector(logger)
	} else {
		logger.Info("Using Gemini connector for image generation",
			zap.String("model", cfg.ImageGenCfg.Model))
		generator = imagegen.NewConnector(imagegen.Config{
			BaseURL:               cfg.ImageGenCfg.Url,
			APIKey:                cfg.ImageGenCfg.APIKey,
			Model:                 cfg.ImageGenCfg.Model,
			RequestTimeout:        cfg.ImageGenCfg.RequestTimeout,
			ConnTimeout:           cfg.ImageGenCfg.ConnTimeout,
			KeepAlive:             cfg.ImageGenCfg.KeepAlive,
			IdleConnTimeout:       cfg.ImageGenCfg.IdleConnTimeout,
			ResponseHeaderTimeout: cfg.ImageGenCfg.ResponseHeaderTimeout,
			Retry:                 &cfg.ImageGenCfg.Retry,
		}, logger)
	}

	// Initialize analysis and classification
	analyzer := vision.NewAnalyzer(cfg.ImageUploadCfg.MaxImageSize, logger)
	answerClassifier := classifier.NewKeyword()

	// Initialize validators
	imageValidator := validator.NewValidator(cfg.ImageUploadCfg)
	logger.Info("Validators initialized")

	// Initialize use cases
	agentUC := agent.NewUseCase(
		sessionRepo,
		analyzer,
		answerClassifier,
		generator,
		agent.Config{
			OutputDir:         cfg.OutputDir,
			Concurrent:        cfg.GenerationCfg.Concurrent,
			GenerationTimeout: cfg.GenerationCfg.Timeout,
		},
	)

	conversationUC := conversation.NewUseCase(
		conversationRepo,
		agentUC,
		answerClassifier,
		conversation.Config{
			UploadDir: cfg.UploadDir,
		},
	)
	logger.Info("Use cases initialized")

	// Setup API handlers
	reportGen := report.NewGenerator(cfg.OutputDir)
	conversationHandler := conversationapi.NewHandler(conversationUC, reportGen, imageValidator)
	sessionHandler := sessionapi.NewHandler(agentUC, imageValidator, cfg.UploadDir)
	adsHandler := adsapi.NewHandler(cfg.OutputDir)
	logger.Info("API handlers initialized")

	// Setup router
	router := api.SetupRouter(conversationHandler, sessionHandler, adsHandler, logger)
	logger.Info("HTTP router configured")

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 150 * time.Second, // must outlast the generation fan-out
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server: server,
		logger: logger,
	}, nil
}
