package usecases

import (
	"context"
	"encoding/json"

	"botpanel/internal/entities"
	"botpanel/internal/interfaces"
)

type ModuleUsecase struct {
	modules interfaces.ModuleStore
	authz   *Authorizer
}

func NewModuleUsecase(modules interfaces.ModuleStore, authz *Authorizer) *ModuleUsecase {
	return &ModuleUsecase{modules: modules, authz: authz}
}

type ModuleInput struct {
	Name       string          `json:"name" binding:"required"`
	Config     json.RawMessage `json:"config"`
	ChatbotIDs []string        `json:"chatbotIds" binding:"required,min=1"`
}

type ModulePatch struct {
	ID         string          `json:"id" binding:"required"`
	Name       *string         `json:"name"`
	Config     json.RawMessage `json:"config"`
	ChatbotIDs *[]string       `json:"chatbotIds"`
}

func (uc *ModuleUsecase) List(ctx context.Context, userID string) ([]entities.Module, error) {
	return uc.modules.ListByOwner(ctx, userID)
}

func (uc *ModuleUsecase) Get(ctx context.Context, userID, id string) (*entities.Module, error) {
	return uc.authz.Module(ctx, userID, id)
}

// Create requires ownership of every referenced chatbot: access to only some
// of them fails the whole operation with nothing written. The stored set is
// the resolved one, with duplicates collapsed.
func (uc *ModuleUsecase) Create(ctx context.Context, userID string, in ModuleInput) (*entities.Module, error) {
	resolved, err := uc.authz.Chatbots(ctx, userID, in.ChatbotIDs)
	if err != nil {
		return nil, err
	}

	m := &entities.Module{
		Name:       in.Name,
		Config:     in.Config,
		ChatbotIDs: chatbotIDs(resolved),
	}
	if err := uc.modules.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Update authorizes twice, as reads and writes have different scopes: the
// caller must reach the module through some currently-associated chatbot, and
// must own every chatbot in a replacement set.
func (uc *ModuleUsecase) Update(ctx context.Context, userID string, patch ModulePatch) (*entities.Module, error) {
	m, err := uc.authz.Module(ctx, userID, patch.ID)
	if err != nil {
		return nil, err
	}

	replaceChatbots := false
	if patch.ChatbotIDs != nil {
		resolved, err := uc.authz.Chatbots(ctx, userID, *patch.ChatbotIDs)
		if err != nil {
			return nil, err
		}
		m.ChatbotIDs = chatbotIDs(resolved)
		replaceChatbots = true
	}
	applyString(&m.Name, patch.Name)
	if len(patch.Config) > 0 {
		m.Config = patch.Config
	}

	if err := uc.modules.Update(ctx, m, replaceChatbots); err != nil {
		return nil, err
	}
	return m, nil
}

func chatbotIDs(chatbots []entities.Chatbot) []string {
	ids := make([]string, len(chatbots))
	for i := range chatbots {
		ids[i] = chatbots[i].ID
	}
	return ids
}

func (uc *ModuleUsecase) Delete(ctx context.Context, userID, id string) error {
	if _, err := uc.authz.Module(ctx, userID, id); err != nil {
		return err
	}
	return uc.modules.Delete(ctx, id)
}
