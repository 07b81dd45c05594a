package entities

import "time"

// Business is the top of the ownership chain: every chatbot and module is
// reachable only through a business's owner.
type Business struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	OwnerID       string    `json:"ownerId"`
	Type          string    `json:"type"`
	PromoLink     string    `json:"promoLink"`
	Phone         string    `json:"phone"`
	Geo           string    `json:"geo"`
	Style         string    `json:"style"`
	TargetAction  string    `json:"targetAction"`
	WorkingDays   []string  `json:"workingDays"`
	StartTime     string    `json:"startTime"`
	EndTime       string    `json:"endTime"`
	WorkSaturday  bool      `json:"workSaturday"`
	StartTimeSat  string    `json:"startTimeSat"`
	EndTimeSat    string    `json:"endTimeSat"`
	WorkSunday    bool      `json:"workSunday"`
	StartTimeSun  string    `json:"startTimeSun"`
	EndTimeSun    string    `json:"endTimeSun"`
	CatalogType   string    `json:"catalogType"`
	CatalogLink   string    `json:"catalogLink"`
	CatalogAPIKey string    `json:"catalogApiKey"`
	FAQLink       string    `json:"faqLink"`
	CreatedAt     time.Time `json:"createdAt"`
}
