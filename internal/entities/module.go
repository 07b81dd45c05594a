package entities

import (
	"encoding/json"
	"time"
)

// Module is a feature plugin attached to one or more chatbots. A caller may
// access it if they own at least one associated chatbot's business.
type Module struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Config     json.RawMessage `json:"config"` // free-form per-module settings
	ChatbotIDs []string        `json:"chatbotIds"`
	CreatedAt  time.Time       `json:"createdAt"`
	Chatbots   []Chatbot       `json:"chatbots,omitempty"`
}
