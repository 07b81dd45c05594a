package repository

import (
	"context"

	"botpanel/internal/entities"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ChatbotRepository struct {
	db *pgxpool.Pool
}

func NewChatbotRepository(db *pgxpool.Pool) *ChatbotRepository {
	return &ChatbotRepository{db: db}
}

const chatbotColumns = `id, name, business_id, template_key, ml_enabled, payment_methods, delivery_options, created_at`

func scanChatbot(row pgx.Row) (*entities.Chatbot, error) {
	var cb entities.Chatbot
	var paymentMethods, deliveryOptions []byte
	err := row.Scan(&cb.ID, &cb.Name, &cb.BusinessID, &cb.TemplateKey, &cb.MLEnabled,
		&paymentMethods, &deliveryOptions, &cb.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, err
	}
	cb.PaymentMethods = []string{}
	cb.DeliveryOptions = []entities.DeliveryOption{}
	fromJSONB(paymentMethods, &cb.PaymentMethods)
	fromJSONB(deliveryOptions, &cb.DeliveryOptions)
	return &cb, nil
}

func (r *ChatbotRepository) Create(ctx context.Context, cb *entities.Chatbot) error {
	if cb.ID == "" {
		cb.ID = uuid.NewString()
	}
	if cb.TemplateKey == "" {
		cb.TemplateKey = "T1"
	}
	return r.db.QueryRow(ctx,
		`INSERT INTO chatbots (id, name, business_id, template_key, ml_enabled, payment_methods, delivery_options)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING created_at`,
		cb.ID, cb.Name, cb.BusinessID, cb.TemplateKey, cb.MLEnabled,
		toJSONB(cb.PaymentMethods), toJSONB(cb.DeliveryOptions)).
		Scan(&cb.CreatedAt)
}

func (r *ChatbotRepository) GetByID(ctx context.Context, id string) (*entities.Chatbot, error) {
	return scanChatbot(r.db.QueryRow(ctx,
		"SELECT "+chatbotColumns+" FROM chatbots WHERE id = $1", id))
}

// GetByIDs returns only the chatbots that exist; the caller is responsible
// for treating a shorter result as a failed lookup.
func (r *ChatbotRepository) GetByIDs(ctx context.Context, ids []string) ([]entities.Chatbot, error) {
	if len(ids) == 0 {
		return []entities.Chatbot{}, nil
	}
	rows, err := r.db.Query(ctx,
		"SELECT "+chatbotColumns+" FROM chatbots WHERE id = ANY($1)", ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectChatbots(rows)
}

func (r *ChatbotRepository) ListByOwner(ctx context.Context, ownerID string) ([]entities.Chatbot, error) {
	rows, err := r.db.Query(ctx,
		`SELECT c.id, c.name, c.business_id, c.template_key, c.ml_enabled,
			c.payment_methods, c.delivery_options, c.created_at
		 FROM chatbots c
		 JOIN businesses b ON b.id = c.business_id
		 WHERE b.owner_id = $1
		 ORDER BY c.created_at`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectChatbots(rows)
}

func collectChatbots(rows pgx.Rows) ([]entities.Chatbot, error) {
	chatbots := []entities.Chatbot{}
	for rows.Next() {
		cb, err := scanChatbot(rows)
		if err != nil {
			return nil, err
		}
		chatbots = append(chatbots, *cb)
	}
	return chatbots, rows.Err()
}

func (r *ChatbotRepository) Update(ctx context.Context, cb *entities.Chatbot) error {
	_, err := r.db.Exec(ctx,
		`UPDATE chatbots SET name = $2, template_key = $3, ml_enabled = $4,
			payment_methods = $5, delivery_options = $6
		 WHERE id = $1`,
		cb.ID, cb.Name, cb.TemplateKey, cb.MLEnabled,
		toJSONB(cb.PaymentMethods), toJSONB(cb.DeliveryOptions))
	return err
}

func (r *ChatbotRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, "DELETE FROM chatbots WHERE id = $1", id)
	return err
}
