package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"studybuddy-be/internal/entity"
	"studybuddy-be/internal/pkg/logger"
	"studybuddy-be/internal/repository/contract"
	"studybuddy-be/internal/repository/specification"
	"studybuddy-be/internal/repository/unitofwork"
	"studybuddy-be/pkg/events"
	"studybuddy-be/pkg/llm"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// memStore is an in-memory stand-in for the relational store. Begin takes a
// snapshot that Rollback restores, which is enough for single-request tests.
type memStore struct {
	mu       sync.Mutex
	users    map[uuid.UUID]entity.User
	sessions map[uuid.UUID]entity.ChatSession
	messages []entity.ChatMessage
	seq      int64

	// beforeUserWrite runs under the lock ahead of the uniqueness check, letting
	// a test slip in a concurrent writer.
	beforeUserWrite func(users map[uuid.UUID]entity.User)
}

type memSnapshot struct {
	users    map[uuid.UUID]entity.User
	sessions map[uuid.UUID]entity.ChatSession
	messages []entity.ChatMessage
	seq      int64
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[uuid.UUID]entity.User{},
		sessions: map[uuid.UUID]entity.ChatSession{},
	}
}

func (s *memStore) snapshot() *memSnapshot {
	snap := &memSnapshot{
		users:    make(map[uuid.UUID]entity.User, len(s.users)),
		sessions: make(map[uuid.UUID]entity.ChatSession, len(s.sessions)),
		messages: append([]entity.ChatMessage(nil), s.messages...),
		seq:      s.seq,
	}
	for k, v := range s.users {
		snap.users[k] = v
	}
	for k, v := range s.sessions {
		snap.sessions[k] = v
	}
	return snap
}

func (s *memStore) restore(snap *memSnapshot) {
	s.users = snap.users
	s.sessions = snap.sessions
	s.messages = snap.messages
	s.seq = snap.seq
}

func (s *memStore) sessionMessages(sessionID uuid.UUID) []entity.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.ChatMessage
	for _, m := range s.messages {
		if m.ChatSessionId == sessionID {
			out = append(out, m)
		}
	}
	return out
}

type memFactory struct {
	store *memStore
}

func (f *memFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &memUow{store: f.store}
}

type memUow struct {
	store *memStore
	snap  *memSnapshot
}

func (u *memUow) Begin(ctx context.Context) error {
	if u.snap != nil {
		return errors.New("transaction already started")
	}
	u.store.mu.Lock()
	u.snap = u.store.snapshot()
	u.store.mu.Unlock()
	return nil
}

func (u *memUow) Commit() error {
	if u.snap == nil {
		return errors.New("no transaction to commit")
	}
	u.snap = nil
	return nil
}

func (u *memUow) Rollback() error {
	if u.snap == nil {
		return nil
	}
	u.store.mu.Lock()
	u.store.restore(u.snap)
	u.store.mu.Unlock()
	u.snap = nil
	return nil
}

func (u *memUow) UserRepository() contract.UserRepository {
	return &memUserRepo{store: u.store}
}

func (u *memUow) ChatSessionRepository() contract.ChatSessionRepository {
	return &memSessionRepo{store: u.store}
}

func (u *memUow) ChatMessageRepository() contract.ChatMessageRepository {
	return &memMessageRepo{store: u.store}
}

// Users

type memUserRepo struct {
	store *memStore
}

func (r *memUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if err := r.checkUnique(user); err != nil {
		return err
	}
	r.store.users[user.Id] = *user
	return nil
}

func (r *memUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if err := r.checkUnique(user); err != nil {
		return err
	}
	now := time.Now()
	user.UpdatedAt = &now
	r.store.users[user.Id] = *user
	return nil
}

// checkUnique mirrors the unique indexes, reporting violations the way the
// translated driver error does.
func (r *memUserRepo) checkUnique(user *entity.User) error {
	if r.store.beforeUserWrite != nil {
		r.store.beforeUserWrite(r.store.users)
	}
	for id, existing := range r.store.users {
		if id == user.Id {
			continue
		}
		if existing.Email == user.Email || existing.Username == user.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	return nil
}

func (r *memUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	users, err := r.FindAll(ctx, specs...)
	if err != nil || len(users) == 0 {
		return nil, err
	}
	return users[0], nil
}

func (r *memUserRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.User
	for _, u := range r.store.users {
		if matchUser(u, specs) {
			copied := u
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *memUserRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	users, err := r.FindAll(ctx, specs...)
	return int64(len(users)), err
}

func matchUser(u entity.User, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if u.Id != s.ID {
				return false
			}
		case specification.ExcludeID:
			if u.Id == s.ID {
				return false
			}
		case specification.ByEmail:
			if u.Email != strings.ToLower(s.Email) {
				return false
			}
		case specification.ByUsername:
			if u.Username != s.Username {
				return false
			}
		case specification.ByEmailOrUsername:
			if u.Email != strings.ToLower(s.Identifier) && u.Username != s.Identifier {
				return false
			}
		}
	}
	return true
}

// Sessions

type memSessionRepo struct {
	store *memStore
}

func (r *memSessionRepo) Create(ctx context.Context, session *entity.ChatSession) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	now := time.Now()
	session.UpdatedAt = &now
	r.store.sessions[session.Id] = *session
	return nil
}

func (r *memSessionRepo) Update(ctx context.Context, session *entity.ChatSession) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stored, ok := r.store.sessions[session.Id]
	if !ok {
		return errors.New("session missing")
	}
	now := time.Now()
	stored.Title = session.Title
	stored.Subject = session.Subject
	stored.IsActive = session.IsActive
	stored.UpdatedAt = &now
	r.store.sessions[session.Id] = stored
	*session = stored
	return nil
}

func (r *memSessionRepo) IncrementMessageCount(ctx context.Context, id uuid.UUID, delta int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stored, ok := r.store.sessions[id]
	if !ok {
		return errors.New("session missing")
	}
	now := time.Now()
	stored.MessageCount += delta
	stored.UpdatedAt = &now
	r.store.sessions[id] = stored
	return nil
}

func (r *memSessionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error) {
	sessions, err := r.FindAll(ctx, specs...)
	if err != nil || len(sessions) == 0 {
		return nil, err
	}
	return sessions[0], nil
}

func (r *memSessionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatSession, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.ChatSession
	for _, s := range r.store.sessions {
		if matchSession(s, specs) {
			copied := s
			out = append(out, &copied)
		}
	}
	for _, spec := range specs {
		if _, ok := spec.(specification.RecentlyUpdated); ok {
			sort.SliceStable(out, func(i, j int) bool {
				return out[i].UpdatedAt.After(*out[j].UpdatedAt)
			})
		}
	}
	return paginate(out, specs), nil
}

func (r *memSessionRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	sessions, err := r.FindAll(ctx, specs...)
	return int64(len(sessions)), err
}

func matchSession(s entity.ChatSession, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch f := spec.(type) {
		case specification.ByID:
			if s.Id != f.ID {
				return false
			}
		case specification.UserOwnedBy:
			if s.UserId != f.UserID {
				return false
			}
		case specification.ActiveSessions:
			if !s.IsActive {
				return false
			}
		}
	}
	return true
}

// Messages

type memMessageRepo struct {
	store *memStore
}

func (r *memMessageRepo) Create(ctx context.Context, message *entity.ChatMessage) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.seq++
	message.Seq = r.store.seq
	r.store.messages = append(r.store.messages, *message)
	return nil
}

func (r *memMessageRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatMessage, error) {
	messages, err := r.FindAll(ctx, specs...)
	if err != nil || len(messages) == 0 {
		return nil, err
	}
	return messages[0], nil
}

func (r *memMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.ChatMessage
	for _, m := range r.store.messages {
		keep := true
		for _, spec := range specs {
			if f, ok := spec.(specification.ByChatSessionID); ok && m.ChatSessionId != f.ChatSessionID {
				keep = false
			}
		}
		if keep {
			copied := m
			out = append(out, &copied)
		}
	}
	for _, spec := range specs {
		if order, ok := spec.(specification.MessageOrder); ok {
			sort.SliceStable(out, func(i, j int) bool {
				if order.NewestFirst {
					return out[i].Seq > out[j].Seq
				}
				return out[i].Seq < out[j].Seq
			})
		}
	}
	return paginate(out, specs), nil
}

func (r *memMessageRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	messages, err := r.FindAll(ctx, specs...)
	return int64(len(messages)), err
}

func paginate[T any](items []T, specs []specification.Specification) []T {
	for _, spec := range specs {
		p, ok := spec.(specification.Pagination)
		if !ok {
			continue
		}
		if p.Offset >= len(items) {
			return nil
		}
		items = items[p.Offset:]
		if p.Limit > 0 && p.Limit < len(items) {
			items = items[:p.Limit]
		}
	}
	return items
}

// Collaborators

type stubTokens struct{}

func (stubTokens) Issue(userID uuid.UUID) (string, error) {
	return "token-" + userID.String(), nil
}

func (stubTokens) Verify(raw string) (uuid.UUID, error) {
	id, ok := strings.CutPrefix(raw, "token-")
	if !ok {
		return uuid.Nil, errors.New("bad token")
	}
	return uuid.Parse(id)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType())
	}
	return out
}

// scriptedTutor answers every question with a fixed reply and records the
// history it was given.
type scriptedTutor struct {
	reply      string
	replyErr   error
	title      string
	titleErr   error
	histories  [][]llm.Message
	subjects   []string
	titleCalls int
}

func (t *scriptedTutor) GenerateResponse(ctx context.Context, prompt string, history []llm.Message, subject string) (*llm.Completion, error) {
	t.histories = append(t.histories, append([]llm.Message(nil), history...))
	t.subjects = append(t.subjects, subject)
	if t.replyErr != nil {
		return nil, t.replyErr
	}
	return &llm.Completion{
		Content:    t.reply,
		TokensUsed: 42,
		Model:      "test-model",
		Latency:    15 * time.Millisecond,
	}, nil
}

func (t *scriptedTutor) GenerateSessionTitle(ctx context.Context, firstMessage string) (string, error) {
	t.titleCalls++
	if t.titleErr != nil {
		return "", t.titleErr
	}
	return t.title, nil
}

func newTestLogger() logger.ILogger {
	return logger.NewNopLogger()
}
