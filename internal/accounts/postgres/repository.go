// Package postgres provides PostgreSQL implementation of the accounts repository.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/bissquit/parking-garden/internal/accounts"
	"github.com/bissquit/parking-garden/internal/domain"
	pgutil "github.com/bissquit/parking-garden/internal/pkg/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const usernameConstraint = "accounts_username_key"

// Repository implements the accounts.Repository interface using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// ListAccounts retrieves all accounts ordered by creation time.
func (r *Repository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY created_at, id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	accountList := make([]domain.Account, 0)
	for rows.Next() {
		account, err := ScanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accountList = append(accountList, *account)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}

	return accountList, nil
}

// CreateAccount inserts a new account. Status is forced to ACTIVE by the statement itself.
func (r *Repository) CreateAccount(ctx context.Context, account *domain.Account) error {
	query := `
		INSERT INTO accounts (username, email, password, role_name, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, status, created_at, updated_at
	`
	var status string
	err := r.db.QueryRow(ctx, query,
		account.Username,
		account.Email,
		account.Password,
		account.Role.Stored(),
		string(domain.AccountStatusActive),
	).Scan(&account.ID, &status, &account.CreatedAt, &account.UpdatedAt)

	if err != nil {
		if pgutil.IsUniqueViolation(err, usernameConstraint) {
			return accounts.ErrUsernameExists
		}
		return fmt.Errorf("create account: %w", err)
	}

	account.Status, err = domain.ParseAccountStatus(status)
	if err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

// GetAccountByID retrieves an account by its ID.
func (r *Repository) GetAccountByID(ctx context.Context, id string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	account, err := ScanAccount(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, accounts.ErrAccountNotFound
		}
		return nil, fmt.Errorf("get account by id: %w", err)
	}
	return account, nil
}

// GetAccountByUsername retrieves an account by its username.
func (r *Repository) GetAccountByUsername(ctx context.Context, username string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE username = $1`

	account, err := ScanAccount(r.db.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, accounts.ErrAccountNotFound
		}
		return nil, fmt.Errorf("get account by username: %w", err)
	}
	return account, nil
}

// UpdateAccount overwrites the editable fields of an account.
func (r *Repository) UpdateAccount(ctx context.Context, account *domain.Account) error {
	query := `
		UPDATE accounts
		SET username = $2, email = $3, password = $4, role_name = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING status, created_at, updated_at
	`
	var status string
	err := r.db.QueryRow(ctx, query,
		account.ID,
		account.Username,
		account.Email,
		account.Password,
		account.Role.Stored(),
	).Scan(&status, &account.CreatedAt, &account.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return accounts.ErrAccountNotFound
		}
		if pgutil.IsUniqueViolation(err, usernameConstraint) {
			return accounts.ErrUsernameExists
		}
		return fmt.Errorf("update account: %w", err)
	}

	account.Status, err = domain.ParseAccountStatus(status)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	return nil
}

// DeleteAccount removes an account. Deleting a missing account is not an error.
func (r *Repository) DeleteAccount(ctx context.Context, id string) error {
	query := `DELETE FROM accounts WHERE id = $1`
	if _, err := r.db.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return nil
}

// SetAccountStatus changes the status of an account.
func (r *Repository) SetAccountStatus(ctx context.Context, username string, status domain.AccountStatus) error {
	query := `UPDATE accounts SET status = $2, updated_at = NOW() WHERE username = $1`
	result, err := r.db.Exec(ctx, query, username, string(status))
	if err != nil {
		return fmt.Errorf("set account status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return accounts.ErrAccountNotFound
	}
	return nil
}

// GetAccountStatus returns the current status of an account.
func (r *Repository) GetAccountStatus(ctx context.Context, username string) (domain.AccountStatus, error) {
	query := `SELECT status FROM accounts WHERE username = $1`

	var status string
	if err := r.db.QueryRow(ctx, query, username).Scan(&status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", accounts.ErrAccountNotFound
		}
		return "", fmt.Errorf("get account status: %w", err)
	}

	return domain.ParseAccountStatus(status)
}

// GetRoleByUsername returns the bare role of an account.
func (r *Repository) GetRoleByUsername(ctx context.Context, username string) (domain.Role, error) {
	query := `SELECT role_name FROM accounts WHERE username = $1`

	var roleName string
	if err := r.db.QueryRow(ctx, query, username).Scan(&roleName); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", accounts.ErrAccountNotFound
		}
		return "", fmt.Errorf("get role by username: %w", err)
	}

	return domain.ParseStoredRole(roleName)
}

// GetDriverAttributes returns the driver extension row of an account.
func (r *Repository) GetDriverAttributes(ctx context.Context, accountID string) (*domain.DriverAttributes, error) {
	query := `SELECT account_id, license_plate, payment_method FROM drivers WHERE account_id = $1`

	driver, err := ScanDriverAttributes(r.db.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, accounts.ErrDriverAttributesNotFound
		}
		return nil, fmt.Errorf("get driver attributes: %w", err)
	}
	return driver, nil
}
