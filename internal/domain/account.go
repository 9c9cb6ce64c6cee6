package domain

import (
	"errors"
	"fmt"
	"time"
)

// AccountStatus represents whether an account may use the platform.
type AccountStatus string

// Account statuses.
const (
	AccountStatusActive  AccountStatus = "ACTIVE"
	AccountStatusBlocked AccountStatus = "BLOCKED"
)

// ErrMalformedStatus is returned when a persisted status is not a known value.
var ErrMalformedStatus = errors.New("malformed stored status")

// IsValid checks if the account status is valid.
func (s AccountStatus) IsValid() bool {
	switch s {
	case AccountStatusActive, AccountStatusBlocked:
		return true
	}
	return false
}

// ParseAccountStatus converts a persisted status into an AccountStatus.
func ParseAccountStatus(s string) (AccountStatus, error) {
	status := AccountStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrMalformedStatus, s)
	}
	return status, nil
}

// Account is the identity record of any platform user.
type Account struct {
	ID        string        `json:"id"`
	Username  string        `json:"username"`
	Email     string        `json:"email"`
	Password  string        `json:"-"`
	Role      Role          `json:"role"`
	Status    AccountStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// IsActive returns true if the account is not blocked.
func (a *Account) IsActive() bool {
	return a.Status == AccountStatusActive
}

// PaymentMethod is a payment method a driver can register.
type PaymentMethod string

// Supported payment methods.
const (
	PaymentMethodCreditCard PaymentMethod = "credit_card"
	PaymentMethodDebitCard  PaymentMethod = "debit_card"
	PaymentMethodPayPal     PaymentMethod = "paypal"
	PaymentMethodCash       PaymentMethod = "cash"
)

// ErrMalformedPaymentMethod is returned when a persisted payment method is not supported.
var ErrMalformedPaymentMethod = errors.New("malformed stored payment method")

// IsValid checks if the payment method is supported.
func (p PaymentMethod) IsValid() bool {
	switch p {
	case PaymentMethodCreditCard, PaymentMethodDebitCard, PaymentMethodPayPal, PaymentMethodCash:
		return true
	}
	return false
}

// ParseStoredPaymentMethod converts a persisted payment method ("CREDIT_CARD") into its lowercase form.
func ParseStoredPaymentMethod(stored string) (PaymentMethod, error) {
	method := PaymentMethod(toLower(stored))
	if !method.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrMalformedPaymentMethod, stored)
	}
	return method, nil
}

// DriverAttributes holds the driver-only extension of an account.
type DriverAttributes struct {
	AccountID     string
	LicensePlate  string
	PaymentMethod PaymentMethod
}

// UserDetails is the role-aware view of an account.
// Driver fields are set only for driver accounts with attributes on record.
type UserDetails struct {
	ID            string        `json:"id"`
	Username      string        `json:"username"`
	Email         string        `json:"email"`
	Role          Role          `json:"role"`
	Status        AccountStatus `json:"status"`
	LicensePlate  *string       `json:"license_plate,omitempty"`
	PaymentMethod *string       `json:"payment_method,omitempty"`
}

// NewUserDetails composes the detail view of an account.
// Driver attributes are merged only when the account role is driver.
func NewUserDetails(account *Account, driver *DriverAttributes) *UserDetails {
	details := &UserDetails{
		ID:       account.ID,
		Username: account.Username,
		Email:    account.Email,
		Role:     account.Role,
		Status:   account.Status,
	}

	if account.Role != RoleDriver || driver == nil {
		return details
	}

	plate := driver.LicensePlate
	method := toLower(string(driver.PaymentMethod))
	details.LicensePlate = &plate
	details.PaymentMethod = &method

	return details
}
