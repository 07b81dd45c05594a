package repository

import (
	"context"

	"botpanel/internal/entities"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Lang == "" {
		user.Lang = "en"
	}
	return r.db.QueryRow(ctx,
		`INSERT INTO users (id, email, password_hash, role, lang)
		 VALUES ($1, $2, $3, $4, $5) RETURNING created_at`,
		user.ID, user.Email, user.PasswordHash, user.Role, user.Lang).
		Scan(&user.CreatedAt)
}

const userColumns = `id, email, password_hash, role, failed_login_attempts, account_locked, lang, created_at`

func scanUser(row pgx.Row) (*entities.User, error) {
	var u entities.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role,
		&u.FailedLoginAttempts, &u.AccountLocked, &u.Lang, &u.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	return scanUser(r.db.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = $1", email))
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entities.User, error) {
	return scanUser(r.db.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = $1", id))
}

func (r *UserRepository) List(ctx context.Context) ([]entities.User, error) {
	rows, err := r.db.Query(ctx, "SELECT "+userColumns+" FROM users ORDER BY created_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []entities.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// RecordFailedLogin increments the counter and derives the lock flag in a
// single statement, so concurrent failures cannot skip past the threshold.
func (r *UserRepository) RecordFailedLogin(ctx context.Context, id string, threshold int) (int, bool, error) {
	var attempts int
	var locked bool
	err := r.db.QueryRow(ctx,
		`UPDATE users
		 SET failed_login_attempts = failed_login_attempts + 1,
		     account_locked = account_locked OR (failed_login_attempts + 1 >= $2)
		 WHERE id = $1
		 RETURNING failed_login_attempts, account_locked`,
		id, threshold).Scan(&attempts, &locked)
	return attempts, locked, err
}

func (r *UserRepository) ResetFailedLogins(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx,
		"UPDATE users SET failed_login_attempts = 0 WHERE id = $1", id)
	return err
}

func (r *UserRepository) Update(ctx context.Context, user *entities.User) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET role = $2, account_locked = $3, failed_login_attempts = $4, lang = $5
		 WHERE id = $1`,
		user.ID, user.Role, user.AccountLocked, user.FailedLoginAttempts, user.Lang)
	return err
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, "DELETE FROM users WHERE id = $1", id)
	return err
}
