package usecases

import (
	"context"

	"botpanel/internal/entities"
	"botpanel/internal/interfaces"
)

type BusinessUsecase struct {
	businesses interfaces.BusinessStore
	authz      *Authorizer
}

func NewBusinessUsecase(businesses interfaces.BusinessStore, authz *Authorizer) *BusinessUsecase {
	return &BusinessUsecase{businesses: businesses, authz: authz}
}

// BusinessInput carries every client-settable field for create.
type BusinessInput struct {
	Name          string   `json:"name" binding:"required"`
	Type          string   `json:"type"`
	PromoLink     string   `json:"promoLink"`
	Phone         string   `json:"phone"`
	Geo           string   `json:"geo"`
	Style         string   `json:"style"`
	TargetAction  string   `json:"targetAction"`
	WorkingDays   []string `json:"workingDays"`
	StartTime     string   `json:"startTime"`
	EndTime       string   `json:"endTime"`
	WorkSaturday  bool     `json:"workSaturday"`
	StartTimeSat  string   `json:"startTimeSat"`
	EndTimeSat    string   `json:"endTimeSat"`
	WorkSunday    bool     `json:"workSunday"`
	StartTimeSun  string   `json:"startTimeSun"`
	EndTimeSun    string   `json:"endTimeSun"`
	CatalogType   string   `json:"catalogType"`
	CatalogLink   string   `json:"catalogLink"`
	CatalogAPIKey string   `json:"catalogApiKey"`
	FAQLink       string   `json:"faqLink"`
}

// BusinessPatch is a partial update: nil fields are left untouched,
// WorkingDays is replaced wholesale when present.
type BusinessPatch struct {
	ID            string    `json:"id" binding:"required"`
	Name          *string   `json:"name"`
	Type          *string   `json:"type"`
	PromoLink     *string   `json:"promoLink"`
	Phone         *string   `json:"phone"`
	Geo           *string   `json:"geo"`
	Style         *string   `json:"style"`
	TargetAction  *string   `json:"targetAction"`
	WorkingDays   *[]string `json:"workingDays"`
	StartTime     *string   `json:"startTime"`
	EndTime       *string   `json:"endTime"`
	WorkSaturday  *bool     `json:"workSaturday"`
	StartTimeSat  *string   `json:"startTimeSat"`
	EndTimeSat    *string   `json:"endTimeSat"`
	WorkSunday    *bool     `json:"workSunday"`
	StartTimeSun  *string   `json:"startTimeSun"`
	EndTimeSun    *string   `json:"endTimeSun"`
	CatalogType   *string   `json:"catalogType"`
	CatalogLink   *string   `json:"catalogLink"`
	CatalogAPIKey *string   `json:"catalogApiKey"`
	FAQLink       *string   `json:"faqLink"`
}

func (uc *BusinessUsecase) List(ctx context.Context, userID string) ([]entities.Business, error) {
	return uc.businesses.ListByOwner(ctx, userID)
}

func (uc *BusinessUsecase) Get(ctx context.Context, userID, id string) (*entities.Business, error) {
	return uc.authz.Business(ctx, userID, id)
}

func (uc *BusinessUsecase) Create(ctx context.Context, userID string, in BusinessInput) (*entities.Business, error) {
	workingDays := in.WorkingDays
	if workingDays == nil {
		workingDays = []string{}
	}
	biz := &entities.Business{
		Name:          in.Name,
		OwnerID:       userID,
		Type:          in.Type,
		PromoLink:     in.PromoLink,
		Phone:         in.Phone,
		Geo:           in.Geo,
		Style:         in.Style,
		TargetAction:  in.TargetAction,
		WorkingDays:   workingDays,
		StartTime:     in.StartTime,
		EndTime:       in.EndTime,
		WorkSaturday:  in.WorkSaturday,
		StartTimeSat:  in.StartTimeSat,
		EndTimeSat:    in.EndTimeSat,
		WorkSunday:    in.WorkSunday,
		StartTimeSun:  in.StartTimeSun,
		EndTimeSun:    in.EndTimeSun,
		CatalogType:   in.CatalogType,
		CatalogLink:   in.CatalogLink,
		CatalogAPIKey: in.CatalogAPIKey,
		FAQLink:       in.FAQLink,
	}
	if err := uc.businesses.Create(ctx, biz); err != nil {
		return nil, err
	}
	return biz, nil
}

// Update re-resolves ownership from the stored record before applying the
// merge; client-supplied owner ids play no part.
func (uc *BusinessUsecase) Update(ctx context.Context, userID string, patch BusinessPatch) (*entities.Business, error) {
	biz, err := uc.authz.Business(ctx, userID, patch.ID)
	if err != nil {
		return nil, err
	}

	applyString(&biz.Name, patch.Name)
	applyString(&biz.Type, patch.Type)
	applyString(&biz.PromoLink, patch.PromoLink)
	applyString(&biz.Phone, patch.Phone)
	applyString(&biz.Geo, patch.Geo)
	applyString(&biz.Style, patch.Style)
	applyString(&biz.TargetAction, patch.TargetAction)
	applyString(&biz.StartTime, patch.StartTime)
	applyString(&biz.EndTime, patch.EndTime)
	applyString(&biz.StartTimeSat, patch.StartTimeSat)
	applyString(&biz.EndTimeSat, patch.EndTimeSat)
	applyString(&biz.StartTimeSun, patch.StartTimeSun)
	applyString(&biz.EndTimeSun, patch.EndTimeSun)
	applyString(&biz.CatalogType, patch.CatalogType)
	applyString(&biz.CatalogLink, patch.CatalogLink)
	applyString(&biz.CatalogAPIKey, patch.CatalogAPIKey)
	applyString(&biz.FAQLink, patch.FAQLink)
	applyBool(&biz.WorkSaturday, patch.WorkSaturday)
	applyBool(&biz.WorkSunday, patch.WorkSunday)
	if patch.WorkingDays != nil {
		biz.WorkingDays = *patch.WorkingDays
	}

	if err := uc.businesses.Update(ctx, biz); err != nil {
		return nil, err
	}
	return biz, nil
}

func (uc *BusinessUsecase) Delete(ctx context.Context, userID, id string) error {
	if _, err := uc.authz.Business(ctx, userID, id); err != nil {
		return err
	}
	return uc.businesses.Delete(ctx, id)
}

func applyString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func applyBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}
