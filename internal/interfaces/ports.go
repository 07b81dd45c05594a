package interfaces

import (
	"context"

	"botpanel/internal/entities"
)

// UserStore persists credential and account state.
type UserStore interface {
	Create(ctx context.Context, u *entities.User) error
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	GetByID(ctx context.Context, id string) (*entities.User, error)
	List(ctx context.Context) ([]entities.User, error)
	// RecordFailedLogin atomically increments the failed-attempt counter and
	// flips AccountLocked once the counter reaches threshold. Returns the
	// post-update counter and lock state.
	RecordFailedLogin(ctx context.Context, id string, threshold int) (attempts int, locked bool, err error)
	ResetFailedLogins(ctx context.Context, id string) error
	Update(ctx context.Context, u *entities.User) error
	Delete(ctx context.Context, id string) error
}

type BusinessStore interface {
	Create(ctx context.Context, b *entities.Business) error
	GetByID(ctx context.Context, id string) (*entities.Business, error)
	ListByOwner(ctx context.Context, ownerID string) ([]entities.Business, error)
	ListAllGroupedByOwner(ctx context.Context) (map[string][]entities.Business, error)
	Update(ctx context.Context, b *entities.Business) error
	Delete(ctx context.Context, id string) error
}

type ChatbotStore interface {
	Create(ctx context.Context, cb *entities.Chatbot) error
	GetByID(ctx context.Context, id string) (*entities.Chatbot, error)
	GetByIDs(ctx context.Context, ids []string) ([]entities.Chatbot, error)
	ListByOwner(ctx context.Context, ownerID string) ([]entities.Chatbot, error)
	Update(ctx context.Context, cb *entities.Chatbot) error
	Delete(ctx context.Context, id string) error
}

type ModuleStore interface {
	Create(ctx context.Context, m *entities.Module) error
	GetByID(ctx context.Context, id string) (*entities.Module, error)
	ListByOwner(ctx context.Context, ownerID string) ([]entities.Module, error)
	// Update replaces the module row; when m.ChatbotIDs is non-nil the full
	// association set is replaced as well.
	Update(ctx context.Context, m *entities.Module, replaceChatbots bool) error
	Delete(ctx context.Context, id string) error
}

type AuditStore interface {
	Append(ctx context.Context, e *entities.AuditLog) error
	List(ctx context.Context) ([]entities.AuditLog, error)
}

// Deployer pushes a new code bundle to the external chatbot runtime.
type Deployer interface {
	UpdateFunctionCode(ctx context.Context, s3Bucket, s3Key string) (*DeployResult, error)
}

type DeployResult struct {
	FunctionArn  string `json:"functionArn"`
	CodeSha256   string `json:"codeSha256"`
	LastModified string `json:"lastModified"`
	State        string `json:"state"`
}
