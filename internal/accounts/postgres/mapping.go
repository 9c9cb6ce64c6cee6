package postgres

import (
	"fmt"

	"github.com/bissquit/parking-garden/internal/domain"
)

// RowScanner is the subset of pgx.Row and pgx.Rows used by the mapping functions.
type RowScanner interface {
	Scan(dest ...any) error
}

// accountColumns lists the columns ScanAccount expects, in order.
const accountColumns = `id, username, email, password, role_name, status, created_at, updated_at`

// ScanAccount maps one row of accountColumns to an Account.
func ScanAccount(row RowScanner) (*domain.Account, error) {
	var (
		account  domain.Account
		roleName string
		status   string
	)
	if err := row.Scan(
		&account.ID,
		&account.Username,
		&account.Email,
		&account.Password,
		&roleName,
		&status,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return finishAccount(&account, roleName, status)
}

// UserDetailsColumns lists the columns ScanUserDetails expects, in order.
// Driver columns are nullable because they come from a LEFT JOIN.
const UserDetailsColumns = `a.id, a.username, a.email, a.role_name, a.status, d.license_plate, d.payment_method`

// ScanUserDetails maps one row of UserDetailsColumns to the account and its
// driver attributes. The attributes are nil when the joined row is absent.
func ScanUserDetails(row RowScanner) (*domain.Account, *domain.DriverAttributes, error) {
	var (
		account       domain.Account
		roleName      string
		status        string
		licensePlate  *string
		paymentMethod *string
	)
	if err := row.Scan(
		&account.ID,
		&account.Username,
		&account.Email,
		&roleName,
		&status,
		&licensePlate,
		&paymentMethod,
	); err != nil {
		return nil, nil, err
	}

	if _, err := finishAccount(&account, roleName, status); err != nil {
		return nil, nil, err
	}

	if licensePlate == nil || paymentMethod == nil {
		return &account, nil, nil
	}

	method, err := domain.ParseStoredPaymentMethod(*paymentMethod)
	if err != nil {
		return nil, nil, fmt.Errorf("account %s: %w", account.ID, err)
	}

	return &account, &domain.DriverAttributes{
		AccountID:     account.ID,
		LicensePlate:  *licensePlate,
		PaymentMethod: method,
	}, nil
}

// ScanDriverAttributes maps an (account_id, license_plate, payment_method) row.
func ScanDriverAttributes(row RowScanner) (*domain.DriverAttributes, error) {
	var (
		driver        domain.DriverAttributes
		paymentMethod string
	)
	if err := row.Scan(&driver.AccountID, &driver.LicensePlate, &paymentMethod); err != nil {
		return nil, err
	}

	method, err := domain.ParseStoredPaymentMethod(paymentMethod)
	if err != nil {
		return nil, fmt.Errorf("driver %s: %w", driver.AccountID, err)
	}
	driver.PaymentMethod = method

	return &driver, nil
}

func finishAccount(account *domain.Account, roleName, status string) (*domain.Account, error) {
	role, err := domain.ParseStoredRole(roleName)
	if err != nil {
		return nil, fmt.Errorf("account %s: %w", account.ID, err)
	}
	account.Role = role

	accountStatus, err := domain.ParseAccountStatus(status)
	if err != nil {
		return nil, fmt.Errorf("account %s: %w", account.ID, err)
	}
	account.Status = accountStatus

	return account, nil
}
