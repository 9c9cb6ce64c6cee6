package accounts

import (
	"context"

	"github.com/bissquit/parking-garden/internal/domain"
)

// Repository defines the interface for account data operations.
type Repository interface {
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	// CreateAccount persists a new account. The stored status is always ACTIVE.
	CreateAccount(ctx context.Context, account *domain.Account) error
	GetAccountByID(ctx context.Context, id string) (*domain.Account, error)
	GetAccountByUsername(ctx context.Context, username string) (*domain.Account, error)
	// UpdateAccount overwrites username, email, password and role. Status is never touched.
	UpdateAccount(ctx context.Context, account *domain.Account) error
	DeleteAccount(ctx context.Context, id string) error

	// Status transitions
	SetAccountStatus(ctx context.Context, username string, status domain.AccountStatus) error
	GetAccountStatus(ctx context.Context, username string) (domain.AccountStatus, error)

	GetRoleByUsername(ctx context.Context, username string) (domain.Role, error)

	// Driver attributes are maintained by the booking engine; read-only here.
	GetDriverAttributes(ctx context.Context, accountID string) (*domain.DriverAttributes, error)
}
