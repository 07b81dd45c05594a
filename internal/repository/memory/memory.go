// Package memory holds in-memory implementations of the store interfaces.
// They back the usecase and handler tests; ownership joins resolve against
// the same shared state a SQL join would.
package memory

import (
	"context"
	"sync"
	"time"

	"botpanel/internal/entities"

	"github.com/google/uuid"
)

type Store struct {
	mu         sync.Mutex
	users      map[string]*entities.User
	businesses map[string]*entities.Business
	chatbots   map[string]*entities.Chatbot
	modules    map[string]*entities.Module
	audit      []entities.AuditLog
}

func NewStore() *Store {
	return &Store{
		users:      map[string]*entities.User{},
		businesses: map[string]*entities.Business{},
		chatbots:   map[string]*entities.Chatbot{},
		modules:    map[string]*entities.Module{},
	}
}

func (s *Store) Users() *UserStore          { return &UserStore{s} }
func (s *Store) Businesses() *BusinessStore { return &BusinessStore{s} }
func (s *Store) Chatbots() *ChatbotStore    { return &ChatbotStore{s} }
func (s *Store) Modules() *ModuleStore      { return &ModuleStore{s} }
func (s *Store) Audit() *AuditStore         { return &AuditStore{s} }

func copyUser(u *entities.User) *entities.User {
	cp := *u
	cp.Businesses = nil
	cp.Logs = nil
	return &cp
}

func copyBusiness(b *entities.Business) *entities.Business {
	cp := *b
	cp.WorkingDays = append([]string{}, b.WorkingDays...)
	return &cp
}

func copyChatbot(cb *entities.Chatbot) *entities.Chatbot {
	cp := *cb
	cp.PaymentMethods = append([]string{}, cb.PaymentMethods...)
	cp.DeliveryOptions = append([]entities.DeliveryOption{}, cb.DeliveryOptions...)
	cp.Business = nil
	return &cp
}

func copyModule(m *entities.Module) *entities.Module {
	cp := *m
	cp.ChatbotIDs = append([]string{}, m.ChatbotIDs...)
	cp.Chatbots = nil
	return &cp
}

type UserStore struct{ s *Store }

func (r *UserStore) Create(_ context.Context, u *entities.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Lang == "" {
		u.Lang = "en"
	}
	u.CreatedAt = time.Now()
	r.s.users[u.ID] = copyUser(u)
	return nil
}

func (r *UserStore) GetByEmail(_ context.Context, email string) (*entities.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, nil
}

func (r *UserStore) GetByID(_ context.Context, id string) (*entities.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[id]; ok {
		return copyUser(u), nil
	}
	return nil, nil
}

func (r *UserStore) List(_ context.Context) ([]entities.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	users := []entities.User{}
	for _, u := range r.s.users {
		users = append(users, *copyUser(u))
	}
	return users, nil
}

func (r *UserStore) RecordFailedLogin(_ context.Context, id string, threshold int) (int, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u := r.s.users[id]
	u.FailedLoginAttempts++
	if u.FailedLoginAttempts >= threshold {
		u.AccountLocked = true
	}
	return u.FailedLoginAttempts, u.AccountLocked, nil
}

func (r *UserStore) ResetFailedLogins(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.users[id].FailedLoginAttempts = 0
	return nil
}

func (r *UserStore) Update(_ context.Context, u *entities.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored := r.s.users[u.ID]
	stored.Role = u.Role
	stored.AccountLocked = u.AccountLocked
	stored.FailedLoginAttempts = u.FailedLoginAttempts
	stored.Lang = u.Lang
	return nil
}

func (r *UserStore) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.users, id)
	return nil
}

type BusinessStore struct{ s *Store }

func (r *BusinessStore) Create(_ context.Context, b *entities.Business) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.WorkingDays == nil {
		b.WorkingDays = []string{}
	}
	b.CreatedAt = time.Now()
	r.s.businesses[b.ID] = copyBusiness(b)
	return nil
}

func (r *BusinessStore) GetByID(_ context.Context, id string) (*entities.Business, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if b, ok := r.s.businesses[id]; ok {
		return copyBusiness(b), nil
	}
	return nil, nil
}

func (r *BusinessStore) ListByOwner(_ context.Context, ownerID string) ([]entities.Business, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	businesses := []entities.Business{}
	for _, b := range r.s.businesses {
		if b.OwnerID == ownerID {
			businesses = append(businesses, *copyBusiness(b))
		}
	}
	return businesses, nil
}

func (r *BusinessStore) ListAllGroupedByOwner(_ context.Context) (map[string][]entities.Business, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	grouped := map[string][]entities.Business{}
	for _, b := range r.s.businesses {
		grouped[b.OwnerID] = append(grouped[b.OwnerID], *copyBusiness(b))
	}
	return grouped, nil
}

func (r *BusinessStore) Update(_ context.Context, b *entities.Business) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored := r.s.businesses[b.ID]
	cp := copyBusiness(b)
	cp.OwnerID = stored.OwnerID
	cp.CreatedAt = stored.CreatedAt
	r.s.businesses[b.ID] = cp
	return nil
}

func (r *BusinessStore) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.businesses, id)
	// FK cascade: chatbots under the business, then orphaned associations
	for chatbotID, cb := range r.s.chatbots {
		if cb.BusinessID == id {
			delete(r.s.chatbots, chatbotID)
			r.s.dropChatbotAssociations(chatbotID)
		}
	}
	return nil
}

type ChatbotStore struct{ s *Store }

func (r *ChatbotStore) Create(_ context.Context, cb *entities.Chatbot) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if cb.ID == "" {
		cb.ID = uuid.NewString()
	}
	if cb.TemplateKey == "" {
		cb.TemplateKey = "T1"
	}
	if cb.PaymentMethods == nil {
		cb.PaymentMethods = []string{}
	}
	if cb.DeliveryOptions == nil {
		cb.DeliveryOptions = []entities.DeliveryOption{}
	}
	cb.CreatedAt = time.Now()
	r.s.chatbots[cb.ID] = copyChatbot(cb)
	return nil
}

func (r *ChatbotStore) GetByID(_ context.Context, id string) (*entities.Chatbot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if cb, ok := r.s.chatbots[id]; ok {
		return copyChatbot(cb), nil
	}
	return nil, nil
}

func (r *ChatbotStore) GetByIDs(_ context.Context, ids []string) ([]entities.Chatbot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	chatbots := []entities.Chatbot{}
	for _, id := range ids {
		if cb, ok := r.s.chatbots[id]; ok {
			chatbots = append(chatbots, *copyChatbot(cb))
		}
	}
	return chatbots, nil
}

func (r *ChatbotStore) ListByOwner(_ context.Context, ownerID string) ([]entities.Chatbot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	chatbots := []entities.Chatbot{}
	for _, cb := range r.s.chatbots {
		if b, ok := r.s.businesses[cb.BusinessID]; ok && b.OwnerID == ownerID {
			chatbots = append(chatbots, *copyChatbot(cb))
		}
	}
	return chatbots, nil
}

func (r *ChatbotStore) Update(_ context.Context, cb *entities.Chatbot) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored := r.s.chatbots[cb.ID]
	cp := copyChatbot(cb)
	cp.BusinessID = stored.BusinessID
	cp.CreatedAt = stored.CreatedAt
	r.s.chatbots[cb.ID] = cp
	return nil
}

func (r *ChatbotStore) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.chatbots, id)
	r.s.dropChatbotAssociations(id)
	return nil
}

func (s *Store) dropChatbotAssociations(chatbotID string) {
	for _, m := range s.modules {
		kept := m.ChatbotIDs[:0]
		for _, id := range m.ChatbotIDs {
			if id != chatbotID {
				kept = append(kept, id)
			}
		}
		m.ChatbotIDs = kept
	}
}

type ModuleStore struct{ s *Store }

func (r *ModuleStore) Create(_ context.Context, m *entities.Module) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if len(m.Config) == 0 {
		m.Config = []byte("{}")
	}
	m.CreatedAt = time.Now()
	r.s.modules[m.ID] = copyModule(m)
	return nil
}

func (r *ModuleStore) GetByID(_ context.Context, id string) (*entities.Module, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if m, ok := r.s.modules[id]; ok {
		return copyModule(m), nil
	}
	return nil, nil
}

func (r *ModuleStore) ListByOwner(_ context.Context, ownerID string) ([]entities.Module, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	modules := []entities.Module{}
	for _, m := range r.s.modules {
		for _, chatbotID := range m.ChatbotIDs {
			cb, ok := r.s.chatbots[chatbotID]
			if !ok {
				continue
			}
			if b, ok := r.s.businesses[cb.BusinessID]; ok && b.OwnerID == ownerID {
				cp := copyModule(m)
				for _, id := range cp.ChatbotIDs {
					if attached, ok := r.s.chatbots[id]; ok {
						cp.Chatbots = append(cp.Chatbots, *copyChatbot(attached))
					}
				}
				modules = append(modules, *cp)
				break
			}
		}
	}
	return modules, nil
}

func (r *ModuleStore) Update(_ context.Context, m *entities.Module, replaceChatbots bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored := r.s.modules[m.ID]
	cp := copyModule(m)
	cp.CreatedAt = stored.CreatedAt
	if !replaceChatbots {
		cp.ChatbotIDs = append([]string{}, stored.ChatbotIDs...)
	}
	r.s.modules[m.ID] = cp
	return nil
}

func (r *ModuleStore) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.modules, id)
	return nil
}

type AuditStore struct{ s *Store }

func (r *AuditStore) Append(_ context.Context, e *entities.AuditLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.CreatedAt = time.Now()
	entry := *e
	if actor, ok := r.s.users[e.UserID]; ok {
		entry.ActorEmail = actor.Email
	}
	r.s.audit = append(r.s.audit, entry)
	return nil
}

func (r *AuditStore) List(_ context.Context) ([]entities.AuditLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]entities.AuditLog{}, r.s.audit...), nil
}
