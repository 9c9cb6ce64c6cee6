package statistics

import (
	"context"

	"github.com/bissquit/parking-garden/internal/domain"
)

// UserRecord is an account with its driver attributes, nil when none are on record.
type UserRecord struct {
	Account *domain.Account
	Driver  *domain.DriverAttributes
}

// Repository defines the read-only aggregate queries behind the admin dashboard.
type Repository interface {
	// Totals
	CountAccounts(ctx context.Context) (int64, error)
	CountAccountsByRole(ctx context.Context, role domain.Role) (int64, error)
	CountParkingLots(ctx context.Context) (int64, error)
	CountViolations(ctx context.Context) (int64, error)
	// TotalRevenue and MonthlyRevenue ignore cancelled reservations.
	TotalRevenue(ctx context.Context) (float64, error)
	MonthlyRevenue(ctx context.Context) (float64, error)

	// ListUsers returns accounts ordered by creation time, then id.
	ListUsers(ctx context.Context, limit, offset int) ([]UserRecord, error)

	// Rankings
	TopSlots(ctx context.Context, limit int, ranking domain.SlotRanking) ([]domain.MetricRow, error)
	TopUsers(ctx context.Context, limit int) ([]domain.UserReservationCount, error)

	// Daily series return the most recent days, oldest first.
	DailyRevenue(ctx context.Context, limit int) ([]domain.DailyRevenue, error)
	DailyReservedSpots(ctx context.Context, limit int) ([]domain.DailyReservedSpots, error)
}
