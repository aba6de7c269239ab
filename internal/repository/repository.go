package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Dan9191/finance-service/internal/models"
	"github.com/Dan9191/finance-service/internal/utils"
	"github.com/lib/pq"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrDuplicateUser = errors.New("user already exists")
)

const uniqueViolation = "23505"

// Repository provides database operations
type Repository struct {
	db     *sql.DB
	sealer *utils.Sealer
}

// NewRepository initializes a new repository. Documents are sealed with
// sealer before they are written.
func NewRepository(db *sql.DB, sealer *utils.Sealer) *Repository {
	return &Repository{db: db, sealer: sealer}
}

// CreateUser creates a new user in the database
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO finance.users (username, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, user.Username, user.Email, user.PasswordHash).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", ErrDuplicateUser, user.Email)
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindUserByEmail retrieves a user by email
func (r *Repository) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, username, email, password_hash, created_at, updated_at
		FROM finance.users
		WHERE email = $1`
	err := r.db.QueryRowContext(ctx, query, email).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", email, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// ListUsers returns every registered user
func (r *Repository) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, username, email, created_at, updated_at
		FROM finance.users
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *Repository) loadDocument(ctx context.Context, q querier, userID int64, lock bool) (*models.FinancialData, error) {
	query := `SELECT payload, signature FROM finance.documents WHERE user_id = $1`
	if lock {
		query += ` FOR UPDATE`
	}
	var payload, signature string
	err := q.QueryRowContext(ctx, query, userID).Scan(&payload, &signature)
	if errors.Is(err, sql.ErrNoRows) {
		return models.NewFinancialData(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}

	plain, err := r.sealer.Open(payload, signature)
	if err != nil {
		return nil, fmt.Errorf("failed to open document of user %d: %w", userID, err)
	}
	data := models.NewFinancialData()
	if err := json.Unmarshal(plain, data); err != nil {
		return nil, err
	}
	return data, nil
}

// GetDocument returns the user's financial document, or an empty one if
// nothing was saved yet.
func (r *Repository) GetDocument(ctx context.Context, userID int64) (*models.FinancialData, error) {
	return r.loadDocument(ctx, r.db, userID, false)
}

// UpdateDocument replaces the user's document with the result of fn. The row
// is locked for the duration so concurrent writers of one user serialize.
func (r *Repository) UpdateDocument(ctx context.Context, userID int64, fn func(*models.FinancialData) (*models.FinancialData, error)) (*models.FinancialData, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	current, err := r.loadDocument(ctx, tx, userID, true)
	if err != nil {
		return nil, err
	}
	next, err := fn(current)
	if err != nil {
		return nil, err
	}

	plain, err := json.Marshal(next)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	payload, signature, err := r.sealer.Seal(plain)
	if err != nil {
		return nil, fmt.Errorf("failed to seal document: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO finance.documents (user_id, payload, signature, version, updated_at)
		VALUES ($1, $2, $3, 1, CURRENT_TIMESTAMP)
		ON CONFLICT (user_id) DO UPDATE
		SET payload = EXCLUDED.payload,
		    signature = EXCLUDED.signature,
		    version = finance.documents.version + 1,
		    updated_at = CURRENT_TIMESTAMP`,
		userID, payload, signature)
	if err != nil {
		return nil, fmt.Errorf("failed to save document: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit document: %w", err)
	}
	return next, nil
}
