package repository

import (
	"context"
	"encoding/json"

	"botpanel/internal/entities"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ModuleRepository struct {
	db *pgxpool.Pool
}

func NewModuleRepository(db *pgxpool.Pool) *ModuleRepository {
	return &ModuleRepository{db: db}
}

// Create inserts the module row and its chatbot associations in one
// transaction so a failed association insert leaves nothing behind.
func (r *ModuleRepository) Create(ctx context.Context, m *entities.Module) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if len(m.Config) == 0 {
		m.Config = json.RawMessage("{}")
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		"INSERT INTO modules (id, name, config) VALUES ($1, $2, $3) RETURNING created_at",
		m.ID, m.Name, m.Config).Scan(&m.CreatedAt)
	if err != nil {
		return err
	}

	for _, chatbotID := range m.ChatbotIDs {
		_, err = tx.Exec(ctx,
			"INSERT INTO module_chatbots (module_id, chatbot_id) VALUES ($1, $2)",
			m.ID, chatbotID)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *ModuleRepository) GetByID(ctx context.Context, id string) (*entities.Module, error) {
	var m entities.Module
	err := r.db.QueryRow(ctx,
		"SELECT id, name, config, created_at FROM modules WHERE id = $1", id).
		Scan(&m.ID, &m.Name, &m.Config, &m.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, err
	}

	m.ChatbotIDs = []string{}
	rows, err := r.db.Query(ctx,
		"SELECT chatbot_id FROM module_chatbots WHERE module_id = $1", id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var chatbotID string
		if err := rows.Scan(&chatbotID); err != nil {
			return nil, err
		}
		m.ChatbotIDs = append(m.ChatbotIDs, chatbotID)
	}
	return &m, rows.Err()
}

// ListByOwner returns modules associated with at least one chatbot whose
// business belongs to ownerID, with the full chatbot set attached.
func (r *ModuleRepository) ListByOwner(ctx context.Context, ownerID string) ([]entities.Module, error) {
	rows, err := r.db.Query(ctx,
		`SELECT DISTINCT m.id, m.name, m.config, m.created_at
		 FROM modules m
		 JOIN module_chatbots mc ON mc.module_id = m.id
		 JOIN chatbots c ON c.id = mc.chatbot_id
		 JOIN businesses b ON b.id = c.business_id
		 WHERE b.owner_id = $1
		 ORDER BY m.created_at`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	modules := []entities.Module{}
	for rows.Next() {
		var m entities.Module
		if err := rows.Scan(&m.ID, &m.Name, &m.Config, &m.CreatedAt); err != nil {
			return nil, err
		}
		modules = append(modules, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range modules {
		if err := r.attachChatbots(ctx, &modules[i]); err != nil {
			return nil, err
		}
	}
	return modules, nil
}

func (r *ModuleRepository) attachChatbots(ctx context.Context, m *entities.Module) error {
	rows, err := r.db.Query(ctx,
		`SELECT c.id, c.name, c.business_id, c.template_key, c.ml_enabled,
			c.payment_methods, c.delivery_options, c.created_at
		 FROM chatbots c
		 JOIN module_chatbots mc ON mc.chatbot_id = c.id
		 WHERE mc.module_id = $1
		 ORDER BY c.created_at`, m.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	m.Chatbots, err = collectChatbots(rows)
	if err != nil {
		return err
	}
	m.ChatbotIDs = make([]string, 0, len(m.Chatbots))
	for _, cb := range m.Chatbots {
		m.ChatbotIDs = append(m.ChatbotIDs, cb.ID)
	}
	return nil
}

func (r *ModuleRepository) Update(ctx context.Context, m *entities.Module, replaceChatbots bool) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		"UPDATE modules SET name = $2, config = $3 WHERE id = $1",
		m.ID, m.Name, m.Config)
	if err != nil {
		return err
	}

	if replaceChatbots {
		_, err = tx.Exec(ctx, "DELETE FROM module_chatbots WHERE module_id = $1", m.ID)
		if err != nil {
			return err
		}
		for _, chatbotID := range m.ChatbotIDs {
			_, err = tx.Exec(ctx,
				"INSERT INTO module_chatbots (module_id, chatbot_id) VALUES ($1, $2)",
				m.ID, chatbotID)
			if err != nil {
				return err
			}
		}
	}

	return tx.Commit(ctx)
}

func (r *ModuleRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, "DELETE FROM modules WHERE id = $1", id)
	return err
}
