package accounts

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bissquit/parking-garden/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// mockRepository implements Repository in memory, keeping roles in stored form
// the way the database does.
type mockRepository struct {
	accounts    map[string]*storedAccount // keyed by username
	drivers     map[string]*domain.DriverAttributes
	createErr   error
	driverErr   error
	statusCalls int
}

type storedAccount struct {
	account  domain.Account
	roleName string
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		accounts: make(map[string]*storedAccount),
		drivers:  make(map[string]*domain.DriverAttributes),
	}
}

func (m *mockRepository) load(s *storedAccount) (*domain.Account, error) {
	role, err := domain.ParseStoredRole(s.roleName)
	if err != nil {
		return nil, err
	}
	account := s.account
	account.Role = role
	return &account, nil
}

func (m *mockRepository) ListAccounts(_ context.Context) ([]domain.Account, error) {
	list := make([]domain.Account, 0, len(m.accounts))
	for _, s := range m.accounts {
		account, err := m.load(s)
		if err != nil {
			return nil, err
		}
		list = append(list, *account)
	}
	return list, nil
}

func (m *mockRepository) CreateAccount(_ context.Context, account *domain.Account) error {
	if m.createErr != nil {
		return m.createErr
	}
	if _, ok := m.accounts[account.Username]; ok {
		return ErrUsernameExists
	}
	account.ID = uuid.NewString()
	account.Status = domain.AccountStatusActive
	m.accounts[account.Username] = &storedAccount{account: *account, roleName: account.Role.Stored()}
	return nil
}

func (m *mockRepository) GetAccountByID(_ context.Context, id string) (*domain.Account, error) {
	for _, s := range m.accounts {
		if s.account.ID == id {
			return m.load(s)
		}
	}
	return nil, ErrAccountNotFound
}

func (m *mockRepository) GetAccountByUsername(_ context.Context, username string) (*domain.Account, error) {
	s, ok := m.accounts[username]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return m.load(s)
}

func (m *mockRepository) UpdateAccount(_ context.Context, account *domain.Account) error {
	for username, s := range m.accounts {
		if s.account.ID != account.ID {
			continue
		}
		if other, ok := m.accounts[account.Username]; ok && other != s {
			return ErrUsernameExists
		}
		delete(m.accounts, username)
		s.account.Username = account.Username
		s.account.Email = account.Email
		s.account.Password = account.Password
		s.roleName = account.Role.Stored()
		m.accounts[account.Username] = s
		account.Status = s.account.Status
		return nil
	}
	return ErrAccountNotFound
}

func (m *mockRepository) DeleteAccount(_ context.Context, id string) error {
	for username, s := range m.accounts {
		if s.account.ID == id {
			delete(m.accounts, username)
		}
	}
	return nil
}

func (m *mockRepository) SetAccountStatus(_ context.Context, username string, status domain.AccountStatus) error {
	m.statusCalls++
	s, ok := m.accounts[username]
	if !ok {
		return ErrAccountNotFound
	}
	s.account.Status = status
	return nil
}

func (m *mockRepository) GetAccountStatus(_ context.Context, username string) (domain.AccountStatus, error) {
	s, ok := m.accounts[username]
	if !ok {
		return "", ErrAccountNotFound
	}
	return s.account.Status, nil
}

func (m *mockRepository) GetRoleByUsername(_ context.Context, username string) (domain.Role, error) {
	s, ok := m.accounts[username]
	if !ok {
		return "", ErrAccountNotFound
	}
	return domain.ParseStoredRole(s.roleName)
}

func (m *mockRepository) GetDriverAttributes(_ context.Context, accountID string) (*domain.DriverAttributes, error) {
	if m.driverErr != nil {
		return nil, m.driverErr
	}
	d, ok := m.drivers[accountID]
	if !ok {
		return nil, ErrDriverAttributesNotFound
	}
	return d, nil
}

// plainHasher keeps tests fast; bcrypt is covered separately.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func newTestService() (*Service, *mockRepository) {
	repo := newMockRepository()
	return NewService(repo, plainHasher{}), repo
}

func createAlice(t *testing.T, service *Service) *domain.Account {
	t.Helper()
	account, err := service.CreateAccount(context.Background(), AccountInput{
		Username: "alice",
		Email:    "a@x.com",
		Password: "pw",
		Role:     "driver",
	})
	require.NoError(t, err)
	return account
}

func TestCreateAccount_AliceScenario(t *testing.T) {
	// Arrange
	service, repo := newTestService()
	ctx := context.Background()

	// Act
	account := createAlice(t, service)

	// Assert
	assert.Equal(t, domain.AccountStatusActive, account.Status)
	assert.Equal(t, domain.RoleDriver, account.Role)
	assert.Equal(t, "ROLE_DRIVER", repo.accounts["alice"].roleName)

	role, err := service.GetRole(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleDriver, role)

	active, err := service.IsActive(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, active)
}

func TestCreateAccount_RoleStoredPrefixedForEveryRole(t *testing.T) {
	tests := []struct {
		input    string
		stored   string
		expected domain.Role
	}{
		{"admin", "ROLE_ADMIN", domain.RoleAdmin},
		{"Manager", "ROLE_MANAGER", domain.RoleManager},
		{"DRIVER", "ROLE_DRIVER", domain.RoleDriver},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			service, repo := newTestService()
			ctx := context.Background()

			_, err := service.CreateAccount(ctx, AccountInput{Username: "u", Email: "u@x.com", Password: "pw", Role: tt.input})
			require.NoError(t, err)

			assert.Equal(t, tt.stored, repo.accounts["u"].roleName)
			role, err := service.GetRole(ctx, "u")
			require.NoError(t, err)
			assert.Equal(t, tt.expected, role)
		})
	}
}

func TestCreateAccount_HashesPassword(t *testing.T) {
	service, repo := newTestService()

	createAlice(t, service)

	assert.Equal(t, "hashed:pw", repo.accounts["alice"].account.Password)
}

func TestCreateAccount_InvalidRole(t *testing.T) {
	service, repo := newTestService()

	account, err := service.CreateAccount(context.Background(), AccountInput{
		Username: "alice", Email: "a@x.com", Password: "pw", Role: "pilot",
	})

	assert.Nil(t, account)
	assert.ErrorIs(t, err, ErrInvalidRole)
	assert.Empty(t, repo.accounts)
}

func TestCreateAccount_PasswordByteLength(t *testing.T) {
	tests := []struct {
		name     string
		password string
		expected error
	}{
		{"ascii at limit", strings.Repeat("a", MaxPasswordBytes), nil},
		{"ascii over limit", strings.Repeat("a", MaxPasswordBytes+1), ErrInvalidPassword},
		{"multibyte at limit", strings.Repeat("é", MaxPasswordBytes/2), nil},
		{"multibyte over limit", strings.Repeat("é", 40), ErrInvalidPassword},
		{"empty", "", ErrInvalidPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repo := newTestService()

			_, err := service.CreateAccount(context.Background(), AccountInput{
				Username: "alice", Email: "a@x.com", Password: tt.password, Role: "driver",
			})

			if tt.expected == nil {
				require.NoError(t, err)
				assert.Len(t, repo.accounts, 1)
				return
			}
			assert.ErrorIs(t, err, tt.expected)
			assert.Empty(t, repo.accounts)
		})
	}
}

func TestCreateAccount_DuplicateUsername(t *testing.T) {
	service, repo := newTestService()
	createAlice(t, service)

	account, err := service.CreateAccount(context.Background(), AccountInput{
		Username: "alice", Email: "other@x.com", Password: "pw", Role: "manager",
	})

	assert.Nil(t, account)
	assert.ErrorIs(t, err, ErrUsernameExists)
	assert.Len(t, repo.accounts, 1)
	assert.Equal(t, "a@x.com", repo.accounts["alice"].account.Email)
}

func TestCreateAccount_RepositoryFails(t *testing.T) {
	service, repo := newTestService()
	repo.createErr = errors.New("database error")

	account, err := service.CreateAccount(context.Background(), AccountInput{
		Username: "alice", Email: "a@x.com", Password: "pw", Role: "driver",
	})

	assert.Nil(t, account)
	assert.Error(t, err)
}

func TestBlockUnblock_RestoresActive(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()
	createAlice(t, service)

	require.NoError(t, service.Block(ctx, "alice"))
	active, err := service.IsActive(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, active)

	require.NoError(t, service.Unblock(ctx, "alice"))
	active, err = service.IsActive(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, active)
}

func TestBlock_UnknownAccount(t *testing.T) {
	service, _ := newTestService()

	assert.ErrorIs(t, service.Block(context.Background(), "ghost"), ErrAccountNotFound)
	assert.ErrorIs(t, service.Unblock(context.Background(), "ghost"), ErrAccountNotFound)
}

func TestIsActive_UnknownAccount(t *testing.T) {
	service, _ := newTestService()

	active, err := service.IsActive(context.Background(), "ghost")

	assert.False(t, active)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestGetRole_UnknownAccount(t *testing.T) {
	service, _ := newTestService()

	_, err := service.GetRole(context.Background(), "ghost")

	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestUpdateAccount_DoesNotChangeStatus(t *testing.T) {
	service, repo := newTestService()
	ctx := context.Background()
	account := createAlice(t, service)
	require.NoError(t, service.Block(ctx, "alice"))

	updated, err := service.UpdateAccount(ctx, account.ID, AccountInput{
		Username: "alice", Email: "new@x.com", Password: "new", Role: "manager",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.AccountStatusBlocked, updated.Status)
	assert.Equal(t, "ROLE_MANAGER", repo.accounts["alice"].roleName)
	assert.Equal(t, "hashed:new", repo.accounts["alice"].account.Password)

	active, err := service.IsActive(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, active)
}

func TestUpdateAccount_UnknownOrMalformedID(t *testing.T) {
	service, _ := newTestService()
	input := AccountInput{Username: "x", Email: "x@x.com", Password: "pw", Role: "driver"}

	_, err := service.UpdateAccount(context.Background(), uuid.NewString(), input)
	assert.ErrorIs(t, err, ErrAccountNotFound)

	_, err = service.UpdateAccount(context.Background(), "not-a-uuid", input)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestGetAccount_AbsentIsNotAnError(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	account, err := service.GetAccountByUsername(ctx, "ghost")
	assert.NoError(t, err)
	assert.Nil(t, account)

	account, err = service.GetAccountByID(ctx, uuid.NewString())
	assert.NoError(t, err)
	assert.Nil(t, account)

	account, err = service.GetAccountByID(ctx, "not-a-uuid")
	assert.NoError(t, err)
	assert.Nil(t, account)
}

func TestGetAccount_MalformedRoleIsAFault(t *testing.T) {
	service, repo := newTestService()
	repo.accounts["eve"] = &storedAccount{account: domain.Account{ID: uuid.NewString(), Username: "eve"}, roleName: "DRIVER"}

	_, err := service.GetAccountByUsername(context.Background(), "eve")

	assert.ErrorIs(t, err, domain.ErrMalformedRole)
}

func TestDeleteAccount_Idempotent(t *testing.T) {
	service, repo := newTestService()
	ctx := context.Background()
	account := createAlice(t, service)

	require.NoError(t, service.DeleteAccount(ctx, account.ID))
	require.NoError(t, service.DeleteAccount(ctx, account.ID))
	require.NoError(t, service.DeleteAccount(ctx, "not-a-uuid"))

	assert.Empty(t, repo.accounts)
}

func TestGetUserDetails_Driver(t *testing.T) {
	service, repo := newTestService()
	account := createAlice(t, service)
	repo.drivers[account.ID] = &domain.DriverAttributes{
		AccountID: account.ID, LicensePlate: "AB-123", PaymentMethod: "CREDIT_CARD",
	}

	details, err := service.GetUserDetails(context.Background(), "alice")

	require.NoError(t, err)
	require.NotNil(t, details)
	assert.Equal(t, domain.RoleDriver, details.Role)
	require.NotNil(t, details.LicensePlate)
	require.NotNil(t, details.PaymentMethod)
	assert.Equal(t, "AB-123", *details.LicensePlate)
	assert.Equal(t, "credit_card", *details.PaymentMethod)
}

func TestGetUserDetails_NonDriverNeverHasDriverFields(t *testing.T) {
	service, repo := newTestService()
	account, err := service.CreateAccount(context.Background(), AccountInput{
		Username: "bob", Email: "b@x.com", Password: "pw", Role: "manager",
	})
	require.NoError(t, err)
	repo.drivers[account.ID] = &domain.DriverAttributes{AccountID: account.ID, LicensePlate: "ZZ", PaymentMethod: "CASH"}

	details, err := service.GetUserDetails(context.Background(), "bob")

	require.NoError(t, err)
	assert.Equal(t, domain.RoleManager, details.Role)
	assert.Nil(t, details.LicensePlate)
	assert.Nil(t, details.PaymentMethod)
}

func TestGetUserDetails_DriverWithoutAttributesDegrades(t *testing.T) {
	service, _ := newTestService()
	createAlice(t, service)

	details, err := service.GetUserDetails(context.Background(), "alice")

	require.NoError(t, err)
	require.NotNil(t, details)
	assert.Equal(t, "alice", details.Username)
	assert.Nil(t, details.LicensePlate)
	assert.Nil(t, details.PaymentMethod)
}

func TestGetUserDetails_DriverLookupFault(t *testing.T) {
	service, repo := newTestService()
	createAlice(t, service)
	repo.driverErr = errors.New("connection reset")

	details, err := service.GetUserDetails(context.Background(), "alice")

	assert.Nil(t, details)
	assert.Error(t, err)
}

func TestGetUserDetails_Absent(t *testing.T) {
	service, _ := newTestService()

	details, err := service.GetUserDetails(context.Background(), "ghost")

	assert.NoError(t, err)
	assert.Nil(t, details)
}

func TestBcryptHasher(t *testing.T) {
	hasher := BcryptHasher{Cost: bcrypt.MinCost}

	hash, err := hasher.Hash("secret")

	require.NoError(t, err)
	assert.NotEqual(t, "secret", hash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("secret")))
}
