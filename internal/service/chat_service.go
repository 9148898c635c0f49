package service

import (
	"context"
	"time"

	"studybuddy-be/internal/dto"
	"studybuddy-be/internal/entity"
	"studybuddy-be/internal/pkg/apperror"
	"studybuddy-be/internal/pkg/logger"
	"studybuddy-be/internal/repository/specification"
	"studybuddy-be/internal/repository/unitofwork"
	"studybuddy-be/pkg/events"
	"studybuddy-be/pkg/llm"

	"github.com/google/uuid"
)

const (
	historyWindow = 10

	msgSessionNotFound  = "Chat session not found"
	msgGenerationFailed = "Failed to generate AI response. Please try again."
)

// Tutor produces assistant replies and session titles.
type Tutor interface {
	GenerateResponse(ctx context.Context, prompt string, history []llm.Message, subject string) (*llm.Completion, error)
	GenerateSessionTitle(ctx context.Context, firstMessage string) (string, error)
}

type IChatService interface {
	CreateSession(ctx context.Context, userId uuid.UUID, req *dto.CreateSessionRequest) (*dto.SessionResponse, error)
	ListSessions(ctx context.Context, userId uuid.UUID, query *dto.ListSessionsQuery) ([]*dto.SessionResponse, error)
	GetSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.SessionResponse, error)
	UpdateSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, req *dto.UpdateSessionRequest) (*dto.SessionResponse, error)
	DeleteSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error
	SendMessage(ctx context.Context, userId uuid.UUID, req *dto.SendMessageRequest) (*dto.ChatResponse, error)
	ListMessages(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, query *dto.PageQuery) ([]*dto.MessageResponse, error)
}

type chatService struct {
	uowFactory     unitofwork.RepositoryFactory
	tutor          Tutor
	eventPublisher events.Publisher
	logger         logger.ILogger
}

func NewChatService(uowFactory unitofwork.RepositoryFactory, tutor Tutor, eventPublisher events.Publisher, log logger.ILogger) IChatService {
	return &chatService{
		uowFactory:     uowFactory,
		tutor:          tutor,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func (cs *chatService) CreateSession(ctx context.Context, userId uuid.UUID, req *dto.CreateSessionRequest) (*dto.SessionResponse, error) {
	subject, err := parseSubject(req.Subject.Ptr())
	if err != nil {
		return nil, err
	}

	title := entity.DefaultSessionTitle
	if t, ok := req.Title.Get(); ok {
		title = t
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	session := newSession(userId, title, subject)
	if err := uow.ChatSessionRepository().Create(ctx, session); err != nil {
		return nil, apperror.Internal(err)
	}

	return toSessionResponse(session), nil
}

func (cs *chatService) ListSessions(ctx context.Context, userId uuid.UUID, query *dto.ListSessionsQuery) ([]*dto.SessionResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	specs := []specification.Specification{
		specification.UserOwnedBy{UserID: userId},
	}
	if query.ActiveOnly {
		specs = append(specs, specification.ActiveSessions{})
	}
	specs = append(specs,
		specification.RecentlyUpdated{},
		specification.Pagination{Limit: query.Limit, Offset: query.Skip},
	)

	sessions, err := uow.ChatSessionRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	response := make([]*dto.SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		response = append(response, toSessionResponse(s))
	}
	return response, nil
}

func (cs *chatService) GetSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.SessionResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)
	session, err := findOwnedSession(ctx, uow, userId, sessionId)
	if err != nil {
		return nil, err
	}
	return toSessionResponse(session), nil
}

func (cs *chatService) UpdateSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, req *dto.UpdateSessionRequest) (*dto.SessionResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, apperror.Internal(err)
	}
	defer uow.Rollback()

	session, err := findOwnedSession(ctx, uow, userId, sessionId)
	if err != nil {
		return nil, err
	}

	if title, ok := req.Title.Get(); ok {
		session.Title = title
	}
	if raw := req.Subject.Ptr(); raw != nil {
		subject, err := parseSubject(raw)
		if err != nil {
			return nil, err
		}
		session.Subject = subject
	}
	if active, ok := req.IsActive.Get(); ok {
		session.IsActive = active
	}

	if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
		return nil, apperror.Internal(err)
	}
	if err := uow.Commit(); err != nil {
		return nil, apperror.Internal(err)
	}

	return toSessionResponse(session), nil
}

// DeleteSession deactivates the session; its rows are kept.
func (cs *chatService) DeleteSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error {
	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return apperror.Internal(err)
	}
	defer uow.Rollback()

	session, err := findOwnedSession(ctx, uow, userId, sessionId)
	if err != nil {
		return err
	}

	session.IsActive = false
	if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
		return apperror.Internal(err)
	}
	if err := uow.Commit(); err != nil {
		return apperror.Internal(err)
	}

	cs.logger.Info("CHAT", "Session deactivated", map[string]interface{}{"session_id": sessionId.String()})
	return nil
}

// SendMessage runs one exchange in a single transaction: the user message,
// the assistant reply, the count bump and, on the first exchange, the title.
// A provider failure rolls everything back, including an implicitly created session.
func (cs *chatService) SendMessage(ctx context.Context, userId uuid.UUID, req *dto.SendMessageRequest) (*dto.ChatResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, apperror.Internal(err)
	}
	defer uow.Rollback()

	// 1. Resolve session
	var session *entity.ChatSession
	if req.SessionId != nil {
		owned, err := findOwnedSession(ctx, uow, userId, *req.SessionId)
		if err != nil {
			return nil, err
		}
		session = owned
	} else {
		subject, err := parseSubject(req.Subject)
		if err != nil {
			return nil, err
		}
		session = newSession(userId, entity.DefaultSessionTitle, subject)
		if err := uow.ChatSessionRepository().Create(ctx, session); err != nil {
			return nil, apperror.Internal(err)
		}
	}

	// 2. Persist the question
	userMessage := &entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: session.Id,
		Role:          entity.MessageRoleUser,
		Content:       req.Content,
		CreatedAt:     time.Now(),
	}
	if err := uow.ChatMessageRepository().Create(ctx, userMessage); err != nil {
		return nil, apperror.Internal(err)
	}

	// 3. Bounded history, newest first from the store, reversed for the prompt
	recent, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: session.Id},
		specification.MessageOrder{NewestFirst: true},
		specification.Pagination{Limit: historyWindow},
	)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	history := make([]llm.Message, 0, len(recent))
	for i := len(recent) - 1; i >= 0; i-- {
		history = append(history, llm.Message{Role: string(recent[i].Role), Content: recent[i].Content})
	}

	// 4. Ask the tutor
	completion, err := cs.tutor.GenerateResponse(ctx, req.Content, history, session.Subject.DisplayName())
	if err != nil {
		cs.logger.Error("CHAT", "Completion failed", map[string]interface{}{
			"session_id": session.Id.String(),
			"error":      err.Error(),
		})
		return nil, apperror.Upstream(err, msgGenerationFailed)
	}

	// 5. Persist the reply
	tokensUsed := completion.TokensUsed
	modelUsed := completion.Model
	responseTime := int(completion.Latency.Milliseconds())
	assistantMessage := &entity.ChatMessage{
		Id:             uuid.New(),
		ChatSessionId:  session.Id,
		Role:           entity.MessageRoleAssistant,
		Content:        completion.Content,
		TokensUsed:     &tokensUsed,
		ModelUsed:      &modelUsed,
		ResponseTimeMs: &responseTime,
		CreatedAt:      time.Now(),
	}
	if err := uow.ChatMessageRepository().Create(ctx, assistantMessage); err != nil {
		return nil, apperror.Internal(err)
	}

	// 6. Count the pair
	if err := uow.ChatSessionRepository().IncrementMessageCount(ctx, session.Id, 2); err != nil {
		return nil, apperror.Internal(err)
	}
	session, err = uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: session.Id})
	if err != nil || session == nil {
		return nil, apperror.Internal(err)
	}

	// 7. Title the session after its first exchange
	if session.MessageCount == 2 && session.Title == entity.DefaultSessionTitle {
		title, err := cs.tutor.GenerateSessionTitle(ctx, req.Content)
		if err != nil {
			cs.logger.Warn("CHAT", "Title generation failed, keeping default", map[string]interface{}{
				"session_id": session.Id.String(),
				"error":      err.Error(),
			})
		} else {
			session.Title = title
			if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
				return nil, apperror.Internal(err)
			}
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, apperror.Internal(err)
	}

	publishEvent(ctx, cs.eventPublisher, cs.logger, events.NewEvent(events.TypeChatExchange, map[string]interface{}{
		"user_id":     userId.String(),
		"session_id":  session.Id.String(),
		"tokens_used": tokensUsed,
		"model_used":  modelUsed,
	}))

	return &dto.ChatResponse{
		SessionId:        session.Id,
		SessionTitle:     session.Title,
		UserMessage:      toMessageResponse(userMessage),
		AssistantMessage: toMessageResponse(assistantMessage),
	}, nil
}

func (cs *chatService) ListMessages(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, query *dto.PageQuery) ([]*dto.MessageResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	if _, err := findOwnedSession(ctx, uow, userId, sessionId); err != nil {
		return nil, err
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.MessageOrder{},
		specification.Pagination{Limit: query.Limit, Offset: query.Skip},
	)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	response := make([]*dto.MessageResponse, 0, len(messages))
	for _, m := range messages {
		response = append(response, toMessageResponse(m))
	}
	return response, nil
}

// findOwnedSession hides sessions of other users behind NotFound.
// Inactive sessions are still returned.
func findOwnedSession(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, sessionId uuid.UUID) (*entity.ChatSession, error) {
	session, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if session == nil {
		return nil, apperror.NotFound(msgSessionNotFound)
	}
	return session, nil
}

func newSession(userId uuid.UUID, title string, subject entity.Subject) *entity.ChatSession {
	return &entity.ChatSession{
		Id:        uuid.New(),
		UserId:    userId,
		Title:     title,
		Subject:   subject,
		IsActive:  true,
		CreatedAt: time.Now(),
	}
}

func parseSubject(raw *string) (entity.Subject, error) {
	if raw == nil {
		return entity.SubjectOther, nil
	}
	subject := entity.Subject(*raw)
	if !subject.Valid() {
		return "", apperror.Validation("Validation failed", map[string]string{
			"subject": "subject must be a known study subject",
		})
	}
	return subject, nil
}

func toSessionResponse(s *entity.ChatSession) *dto.SessionResponse {
	return &dto.SessionResponse{
		Id:           s.Id,
		UserId:       s.UserId,
		Title:        s.Title,
		Subject:      string(s.Subject),
		IsActive:     s.IsActive,
		MessageCount: s.MessageCount,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

func toMessageResponse(m *entity.ChatMessage) *dto.MessageResponse {
	return &dto.MessageResponse{
		Id:           m.Id,
		SessionId:    m.ChatSessionId,
		Role:         string(m.Role),
		Content:      m.Content,
		TokensUsed:   m.TokensUsed,
		ModelUsed:    m.ModelUsed,
		ResponseTime: m.ResponseTimeMs,
		CreatedAt:    m.CreatedAt,
	}
}
