package infrastructure

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresClient struct {
	Pool *pgxpool.Pool
}

func NewPostgresClient(connString string) (*PostgresClient, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	// Pool configuration
	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	// Verify connection
	if err := pool.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	client := &PostgresClient{Pool: pool}

	// Auto-migrate schema
	if err := client.Migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return client, nil
}

func (p *PostgresClient) Migrate() error {
	ctx := context.Background()

	// Users Table
	_, err := p.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			email VARCHAR(255) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			role VARCHAR(20) NOT NULL DEFAULT 'USER',
			failed_login_attempts INT NOT NULL DEFAULT 0,
			account_locked BOOLEAN NOT NULL DEFAULT FALSE,
			lang VARCHAR(8) NOT NULL DEFAULT 'en',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("create users table: %w", err)
	}

	// Businesses Table (working_days kept as JSONB, same as the other
	// list-valued columns below)
	_, err = p.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS businesses (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			owner_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			type VARCHAR(100) DEFAULT '',
			promo_link TEXT DEFAULT '',
			phone VARCHAR(50) DEFAULT '',
			geo VARCHAR(255) DEFAULT '',
			style VARCHAR(100) DEFAULT '',
			target_action VARCHAR(255) DEFAULT '',
			working_days JSONB NOT NULL DEFAULT '[]',
			start_time VARCHAR(10) DEFAULT '',
			end_time VARCHAR(10) DEFAULT '',
			work_saturday BOOLEAN NOT NULL DEFAULT FALSE,
			start_time_sat VARCHAR(10) DEFAULT '',
			end_time_sat VARCHAR(10) DEFAULT '',
			work_sunday BOOLEAN NOT NULL DEFAULT FALSE,
			start_time_sun VARCHAR(10) DEFAULT '',
			end_time_sun VARCHAR(10) DEFAULT '',
			catalog_type VARCHAR(50) DEFAULT '',
			catalog_link TEXT DEFAULT '',
			catalog_api_key TEXT DEFAULT '',
			faq_link TEXT DEFAULT '',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("create businesses table: %w", err)
	}

	// Chatbots Table
	_, err = p.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS chatbots (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			business_id UUID NOT NULL REFERENCES businesses(id) ON DELETE CASCADE,
			template_key VARCHAR(20) NOT NULL DEFAULT 'T1',
			ml_enabled BOOLEAN NOT NULL DEFAULT FALSE,
			payment_methods JSONB NOT NULL DEFAULT '[]',
			delivery_options JSONB NOT NULL DEFAULT '[]',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("create chatbots table: %w", err)
	}

	// Modules Table + chatbot association
	_, err = p.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS modules (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			config JSONB NOT NULL DEFAULT '{}',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("create modules table: %w", err)
	}

	_, err = p.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS module_chatbots (
			module_id UUID NOT NULL REFERENCES modules(id) ON DELETE CASCADE,
			chatbot_id UUID NOT NULL REFERENCES chatbots(id) ON DELETE CASCADE,
			PRIMARY KEY (module_id, chatbot_id)
		);
	`)
	if err != nil {
		return fmt.Errorf("create module_chatbots table: %w", err)
	}

	// Audit Log Table. Append-only through the API; no FK to users and the
	// actor email is captured at insert, so entries outlive the actor.
	_, err = p.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS audit_logs (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL,
			actor_email VARCHAR(255) NOT NULL DEFAULT '',
			action VARCHAR(50) NOT NULL,
			status VARCHAR(20) NOT NULL,
			details TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("create audit_logs table: %w", err)
	}

	return nil
}

func (p *PostgresClient) Close() {
	p.Pool.Close()
}
