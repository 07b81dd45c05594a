package usecases

import (
	"context"

	"botpanel/internal/entities"
	"botpanel/internal/interfaces"
)

type ChatbotUsecase struct {
	chatbots   interfaces.ChatbotStore
	businesses interfaces.BusinessStore
	authz      *Authorizer
}

func NewChatbotUsecase(chatbots interfaces.ChatbotStore, businesses interfaces.BusinessStore, authz *Authorizer) *ChatbotUsecase {
	return &ChatbotUsecase{chatbots: chatbots, businesses: businesses, authz: authz}
}

type ChatbotInput struct {
	Name            string                    `json:"name" binding:"required"`
	BusinessID      string                    `json:"businessId" binding:"required"`
	TemplateKey     string                    `json:"templateKey"`
	MLEnabled       bool                      `json:"mlEnabled"`
	PaymentMethods  []string                  `json:"paymentMethods"`
	DeliveryOptions []entities.DeliveryOption `json:"deliveryOptions"`
}

// ChatbotPatch: nil fields untouched, PaymentMethods and DeliveryOptions are
// full-array replacements when present. BusinessID is intentionally absent;
// a chatbot cannot be moved between businesses.
type ChatbotPatch struct {
	ID              string                     `json:"id" binding:"required"`
	Name            *string                    `json:"name"`
	TemplateKey     *string                    `json:"templateKey"`
	MLEnabled       *bool                      `json:"mlEnabled"`
	PaymentMethods  *[]string                  `json:"paymentMethods"`
	DeliveryOptions *[]entities.DeliveryOption `json:"deliveryOptions"`
}

func (uc *ChatbotUsecase) List(ctx context.Context, userID string) ([]entities.Chatbot, error) {
	chatbots, err := uc.chatbots.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	// Attach parent businesses, mirroring the listing's nested relation data
	for i := range chatbots {
		biz, err := uc.businesses.GetByID(ctx, chatbots[i].BusinessID)
		if err != nil {
			return nil, err
		}
		chatbots[i].Business = biz
	}
	return chatbots, nil
}

func (uc *ChatbotUsecase) Get(ctx context.Context, userID, id string) (*entities.Chatbot, error) {
	return uc.authz.Chatbot(ctx, userID, id)
}

func (uc *ChatbotUsecase) Create(ctx context.Context, userID string, in ChatbotInput) (*entities.Chatbot, error) {
	if _, err := uc.authz.Business(ctx, userID, in.BusinessID); err != nil {
		return nil, err
	}

	cb := &entities.Chatbot{
		Name:            in.Name,
		BusinessID:      in.BusinessID,
		TemplateKey:     in.TemplateKey,
		MLEnabled:       in.MLEnabled,
		PaymentMethods:  in.PaymentMethods,
		DeliveryOptions: in.DeliveryOptions,
	}
	if cb.PaymentMethods == nil {
		cb.PaymentMethods = []string{}
	}
	if cb.DeliveryOptions == nil {
		cb.DeliveryOptions = []entities.DeliveryOption{}
	}
	if err := uc.chatbots.Create(ctx, cb); err != nil {
		return nil, err
	}
	return cb, nil
}

func (uc *ChatbotUsecase) Update(ctx context.Context, userID string, patch ChatbotPatch) (*entities.Chatbot, error) {
	cb, err := uc.authz.Chatbot(ctx, userID, patch.ID)
	if err != nil {
		return nil, err
	}

	applyString(&cb.Name, patch.Name)
	applyString(&cb.TemplateKey, patch.TemplateKey)
	applyBool(&cb.MLEnabled, patch.MLEnabled)
	if patch.PaymentMethods != nil {
		cb.PaymentMethods = *patch.PaymentMethods
	}
	if patch.DeliveryOptions != nil {
		cb.DeliveryOptions = *patch.DeliveryOptions
	}

	if err := uc.chatbots.Update(ctx, cb); err != nil {
		return nil, err
	}
	return cb, nil
}

func (uc *ChatbotUsecase) Delete(ctx context.Context, userID, id string) error {
	if _, err := uc.authz.Chatbot(ctx, userID, id); err != nil {
		return err
	}
	return uc.chatbots.Delete(ctx, id)
}

// ShareLink returns the URL encoded into the chatbot's share QR code: the
// parent business's promo link, or the business name when none is set.
func (uc *ChatbotUsecase) ShareLink(ctx context.Context, userID, id string) (string, error) {
	cb, err := uc.authz.Chatbot(ctx, userID, id)
	if err != nil {
		return "", err
	}
	biz, err := uc.businesses.GetByID(ctx, cb.BusinessID)
	if err != nil {
		return "", err
	}
	if biz != nil && biz.PromoLink != "" {
		return biz.PromoLink, nil
	}
	return cb.Name, nil
}
