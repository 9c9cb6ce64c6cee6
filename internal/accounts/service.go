package accounts

import (
	"context"
	"errors"
	"fmt"

	"github.com/bissquit/parking-garden/internal/domain"
	"github.com/bissquit/parking-garden/internal/pkg/ctxlog"
	"github.com/bissquit/parking-garden/internal/pkg/metrics"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is the longest password bcrypt accepts, counted in bytes.
const MaxPasswordBytes = 72

// PasswordHasher turns a plaintext password into the opaque credential stored with the account.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// BcryptHasher hashes passwords with bcrypt.
type BcryptHasher struct {
	Cost int
}

// Hash implements PasswordHasher.
func (h BcryptHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Service implements account business logic.
type Service struct {
	repo   Repository
	hasher PasswordHasher
}

// NewService creates a new account service. A nil hasher defaults to bcrypt.
func NewService(repo Repository, hasher PasswordHasher) *Service {
	if hasher == nil {
		hasher = BcryptHasher{}
	}
	return &Service{
		repo:   repo,
		hasher: hasher,
	}
}

// AccountInput holds the caller-editable fields of an account.
type AccountInput struct {
	Username string
	Email    string
	Password string
	Role     string
}

func (s *Service) toAccount(input AccountInput) (*domain.Account, error) {
	role, ok := domain.ParseRole(input.Role)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRole, input.Role)
	}
	if input.Password == "" || len(input.Password) > MaxPasswordBytes {
		return nil, ErrInvalidPassword
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	return &domain.Account{
		Username: input.Username,
		Email:    input.Email,
		Password: hash,
		Role:     role,
	}, nil
}

// ListAccounts returns all accounts.
func (s *Service) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	return s.repo.ListAccounts(ctx)
}

// CreateAccount registers a new account. The account always starts ACTIVE.
func (s *Service) CreateAccount(ctx context.Context, input AccountInput) (*domain.Account, error) {
	account, err := s.toAccount(input)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateAccount(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// GetAccountByID returns the account or nil if it does not exist.
func (s *Service) GetAccountByID(ctx context.Context, id string) (*domain.Account, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	return absent(s.repo.GetAccountByID(ctx, id))
}

// GetAccountByUsername returns the account or nil if it does not exist.
func (s *Service) GetAccountByUsername(ctx context.Context, username string) (*domain.Account, error) {
	return absent(s.repo.GetAccountByUsername(ctx, username))
}

// GetRole returns the bare role of an existing account.
func (s *Service) GetRole(ctx context.Context, username string) (domain.Role, error) {
	return s.repo.GetRoleByUsername(ctx, username)
}

// UpdateAccount overwrites username, email, password and role of an existing account.
// The account status is left as is.
func (s *Service) UpdateAccount(ctx context.Context, id string, input AccountInput) (*domain.Account, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrAccountNotFound
	}

	account, err := s.toAccount(input)
	if err != nil {
		return nil, err
	}
	account.ID = id

	if err := s.repo.UpdateAccount(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// DeleteAccount irreversibly removes an account. Unknown ids are ignored.
func (s *Service) DeleteAccount(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return nil
	}
	return s.repo.DeleteAccount(ctx, id)
}

// Block prevents the account from using the platform.
func (s *Service) Block(ctx context.Context, username string) error {
	return s.setStatus(ctx, username, domain.AccountStatusBlocked)
}

// Unblock restores access for a blocked account.
func (s *Service) Unblock(ctx context.Context, username string) error {
	return s.setStatus(ctx, username, domain.AccountStatusActive)
}

func (s *Service) setStatus(ctx context.Context, username string, status domain.AccountStatus) error {
	if err := s.repo.SetAccountStatus(ctx, username, status); err != nil {
		return err
	}

	metrics.AccountStatusTransitions.WithLabelValues(string(status)).Inc()
	ctxlog.FromContext(ctx).Info("account status changed", "username", username, "status", status)
	return nil
}

// IsActive reports whether an existing account is ACTIVE.
func (s *Service) IsActive(ctx context.Context, username string) (bool, error) {
	status, err := s.repo.GetAccountStatus(ctx, username)
	if err != nil {
		return false, err
	}
	return status == domain.AccountStatusActive, nil
}

// GetUserDetails returns the role-aware view of an account or nil if it does not exist.
// A driver without attributes on record is logged and returned without driver fields.
func (s *Service) GetUserDetails(ctx context.Context, username string) (*domain.UserDetails, error) {
	account, err := s.GetAccountByUsername(ctx, username)
	if err != nil || account == nil {
		return nil, err
	}

	if account.Role != domain.RoleDriver {
		return domain.NewUserDetails(account, nil), nil
	}

	driver, err := s.repo.GetDriverAttributes(ctx, account.ID)
	if err != nil {
		if !errors.Is(err, ErrDriverAttributesNotFound) {
			return nil, err
		}
		ReportMissingDriverAttributes(ctx, account)
		driver = nil
	}

	return domain.NewUserDetails(account, driver), nil
}

// ReportMissingDriverAttributes records a driver account that has no attributes row.
func ReportMissingDriverAttributes(ctx context.Context, account *domain.Account) {
	metrics.IntegrityAnomalies.WithLabelValues("driver_attributes_missing").Inc()
	ctxlog.FromContext(ctx).Warn("driver account has no driver attributes",
		"account_id", account.ID,
		"username", account.Username,
	)
}

// absent converts ErrAccountNotFound into a nil account.
func absent(account *domain.Account, err error) (*domain.Account, error) {
	if errors.Is(err, ErrAccountNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return account, nil
}
