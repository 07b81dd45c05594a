package usecases

import (
	"context"

	"botpanel/internal/entities"
	"botpanel/internal/interfaces"
)

// Authorizer resolves the ownership chain User → Business → Chatbot → Module
// for the requesting identity. Every resource usecase funnels its access
// checks through here instead of re-implementing them.
//
// Absent and not-owned resources are both reported as ErrForbidden so the API
// never acts as an existence oracle for foreign ids.
type Authorizer struct {
	businesses interfaces.BusinessStore
	chatbots   interfaces.ChatbotStore
	modules    interfaces.ModuleStore
}

func NewAuthorizer(businesses interfaces.BusinessStore, chatbots interfaces.ChatbotStore, modules interfaces.ModuleStore) *Authorizer {
	return &Authorizer{
		businesses: businesses,
		chatbots:   chatbots,
		modules:    modules,
	}
}

// Business returns the business iff userID owns it.
func (a *Authorizer) Business(ctx context.Context, userID, businessID string) (*entities.Business, error) {
	biz, err := a.businesses.GetByID(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if biz == nil || biz.OwnerID != userID {
		return nil, ErrForbidden
	}
	return biz, nil
}

// Chatbot returns the chatbot iff userID owns its parent business.
func (a *Authorizer) Chatbot(ctx context.Context, userID, chatbotID string) (*entities.Chatbot, error) {
	cb, err := a.chatbots.GetByID(ctx, chatbotID)
	if err != nil {
		return nil, err
	}
	if cb == nil {
		return nil, ErrForbidden
	}
	if _, err := a.Business(ctx, userID, cb.BusinessID); err != nil {
		return nil, err
	}
	return cb, nil
}

// Chatbots resolves every id and requires userID to own all of them. Partial
// access is a full failure. Duplicate ids are collapsed before the existence
// check so a repeated owned id does not read as a missing one.
func (a *Authorizer) Chatbots(ctx context.Context, userID string, ids []string) ([]entities.Chatbot, error) {
	seen := make(map[string]struct{}, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	chatbots, err := a.chatbots.GetByIDs(ctx, unique)
	if err != nil {
		return nil, err
	}
	if len(chatbots) != len(unique) {
		return nil, ErrForbidden
	}
	for i := range chatbots {
		if _, err := a.Business(ctx, userID, chatbots[i].BusinessID); err != nil {
			return nil, err
		}
	}
	return chatbots, nil
}

// Module returns the module iff userID owns the business of at least one
// associated chatbot. A module with no reachable chatbot is invisible.
func (a *Authorizer) Module(ctx context.Context, userID, moduleID string) (*entities.Module, error) {
	m, err := a.modules.GetByID(ctx, moduleID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrNotFound
	}
	for _, chatbotID := range m.ChatbotIDs {
		cb, err := a.chatbots.GetByID(ctx, chatbotID)
		if err != nil {
			return nil, err
		}
		if cb == nil {
			continue
		}
		biz, err := a.businesses.GetByID(ctx, cb.BusinessID)
		if err != nil {
			return nil, err
		}
		if biz != nil && biz.OwnerID == userID {
			return m, nil
		}
	}
	return nil, ErrForbidden
}
