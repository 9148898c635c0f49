package bootstrap

import (
	"context"
	"fmt"

	"studybuddy-be/internal/config"
	"studybuddy-be/internal/controller"
	"studybuddy-be/internal/pkg/logger"
	"studybuddy-be/internal/pkg/serverutils"
	"studybuddy-be/internal/pkg/token"
	"studybuddy-be/internal/repository/unitofwork"
	"studybuddy-be/internal/service"
	"studybuddy-be/pkg/chatbot"
	"studybuddy-be/pkg/events"
	"studybuddy-be/pkg/llm"
	"studybuddy-be/pkg/llm/factory"

	pktNats "studybuddy-be/pkg/nats"

	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController controller.IAuthController
	UserController controller.IUserController
	ChatController controller.IChatController

	// Infrastructure shared with the server
	DB     *gorm.DB
	Logger logger.ILogger

	closers []func()
}

func NewContainer(ctx context.Context, db *gorm.DB, cfg *config.Config, sysLogger logger.ILogger) (*Container, error) {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)

	tokens, err := token.NewIssuer(cfg.Security.SecretKey, cfg.Security.Algorithm, cfg.TokenTTL())
	if err != nil {
		return nil, fmt.Errorf("token issuer: %w", err)
	}

	c := &Container{DB: db, Logger: sysLogger}

	// 2. Event Bus
	publisher := c.newEventPublisher(ctx, cfg.Events)

	// 3. Completion provider
	provider, err := factory.NewLLMProvider(factory.Config{
		Provider:       cfg.Ai.Provider,
		ApiKey:         cfg.Ai.ApiKey,
		Model:          cfg.Ai.Model,
		BaseURL:        cfg.Ai.OllamaBaseURL,
		MockLatencyMin: cfg.Ai.MockLatencyMin,
		MockLatencyMax: cfg.Ai.MockLatencyMax,
	})
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("llm provider: %w", err)
	}
	if llm.IsOffline(provider) {
		sysLogger.Warn("BOOT", "No usable API key, answering with canned responses", map[string]interface{}{"provider": cfg.Ai.Provider})
	} else {
		sysLogger.Info("BOOT", "Completion provider ready", map[string]interface{}{"provider": cfg.Ai.Provider, "model": cfg.Ai.Model})
	}

	tutor := chatbot.NewTutor(provider, chatbot.Config{
		Temperature: cfg.Ai.Temperature,
		MaxTokens:   cfg.Ai.MaxTokens,
		Timeout:     cfg.Ai.Timeout(),
	})

	// 4. Services
	authService := service.NewAuthService(uowFactory, tokens, publisher, sysLogger)
	userService := service.NewUserService(uowFactory, sysLogger)
	chatService := service.NewChatService(uowFactory, tutor, publisher, sysLogger)

	// 5. Controllers
	jwt := serverutils.JwtMiddleware(authService)
	c.AuthController = controller.NewAuthController(authService)
	c.UserController = controller.NewUserController(userService, jwt)
	c.ChatController = controller.NewChatController(chatService, jwt)

	return c, nil
}

// newEventPublisher connects to NATS when configured. A broker that cannot be
// reached disables publishing instead of failing startup.
func (c *Container) newEventPublisher(ctx context.Context, cfg config.EventsConfig) events.Publisher {
	if cfg.NatsURL == "" {
		return events.NopPublisher{}
	}

	natsPub, err := pktNats.NewPublisher(ctx, cfg.NatsURL)
	if err != nil {
		c.Logger.Warn("BOOT", "Failed to connect to NATS, events disabled", map[string]interface{}{"error": err.Error()})
		return events.NopPublisher{}
	}

	c.closers = append(c.closers, natsPub.Close)
	c.Logger.Info("BOOT", "Publishing events to NATS", map[string]interface{}{"url": cfg.NatsURL})
	return natsPub
}

// Close releases broker connections. The database is owned by the caller.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}
