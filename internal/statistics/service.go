// Package statistics provides the platform-wide aggregates shown on the admin dashboard.
package statistics

import (
	"context"
	"fmt"
	"time"

	"github.com/bissquit/parking-garden/internal/accounts"
	"github.com/bissquit/parking-garden/internal/domain"
	"github.com/bissquit/parking-garden/internal/pkg/metrics"
)

// MaxPageSize bounds both page sizes and ranking limits.
const MaxPageSize = 100

// Service implements statistics business logic.
type Service struct {
	repo    Repository
	ranking domain.SlotRanking
}

// NewService creates a new statistics service. An invalid ranking falls back to revenue.
func NewService(repo Repository, ranking domain.SlotRanking) *Service {
	if !ranking.IsValid() {
		ranking = domain.SlotRankingRevenue
	}
	return &Service{
		repo:    repo,
		ranking: ranking,
	}
}

func observe[T any](query string, fn func() (T, error)) (T, error) {
	start := time.Now()
	v, err := fn()
	metrics.ObserveStatisticsQuery(query, start, err)
	if err != nil {
		return v, fmt.Errorf("query %s: %w", query, err)
	}
	return v, nil
}

// GetReport computes the composite totals report.
// The sub-queries run one after another and any failure fails the whole report.
func (s *Service) GetReport(ctx context.Context) (*domain.StatisticsReport, error) {
	var (
		report domain.StatisticsReport
		err    error
	)

	if report.TotalUsers, err = observe("total_users", func() (int64, error) {
		return s.repo.CountAccounts(ctx)
	}); err != nil {
		return nil, err
	}
	if report.TotalManagers, err = observe("total_managers", func() (int64, error) {
		return s.repo.CountAccountsByRole(ctx, domain.RoleManager)
	}); err != nil {
		return nil, err
	}
	if report.TotalDrivers, err = observe("total_drivers", func() (int64, error) {
		return s.repo.CountAccountsByRole(ctx, domain.RoleDriver)
	}); err != nil {
		return nil, err
	}
	if report.TotalParkingLots, err = observe("total_parking_lots", func() (int64, error) {
		return s.repo.CountParkingLots(ctx)
	}); err != nil {
		return nil, err
	}
	if report.TotalRevenue, err = observe("total_revenue", func() (float64, error) {
		return s.repo.TotalRevenue(ctx)
	}); err != nil {
		return nil, err
	}
	if report.TotalViolations, err = observe("total_violations", func() (int64, error) {
		return s.repo.CountViolations(ctx)
	}); err != nil {
		return nil, err
	}
	if report.MonthlyRevenue, err = observe("monthly_revenue", func() (float64, error) {
		return s.repo.MonthlyRevenue(ctx)
	}); err != nil {
		return nil, err
	}

	return &report, nil
}

// ListUsers returns one page of user detail views. Pages start at 1.
func (s *Service) ListUsers(ctx context.Context, page, size int) ([]domain.UserDetails, error) {
	if page < 1 {
		return nil, ErrInvalidPage
	}
	if size < 1 || size > MaxPageSize {
		return nil, ErrInvalidPageSize
	}

	records, err := observe("list_users", func() ([]UserRecord, error) {
		return s.repo.ListUsers(ctx, size, (page-1)*size)
	})
	if err != nil {
		return nil, err
	}

	users := make([]domain.UserDetails, 0, len(records))
	for _, rec := range records {
		if rec.Account.Role == domain.RoleDriver && rec.Driver == nil {
			accounts.ReportMissingDriverAttributes(ctx, rec.Account)
		}
		users = append(users, *domain.NewUserDetails(rec.Account, rec.Driver))
	}

	return users, nil
}

// TopSlots returns the highest ranked parking spots using the configured ranking.
func (s *Service) TopSlots(ctx context.Context, limit int) ([]domain.MetricRow, error) {
	if err := checkLimit(limit); err != nil {
		return nil, err
	}
	return observe("top_slots", func() ([]domain.MetricRow, error) {
		return s.repo.TopSlots(ctx, limit, s.ranking)
	})
}

// TopUsers returns the accounts with the most reservations.
func (s *Service) TopUsers(ctx context.Context, limit int) ([]domain.UserReservationCount, error) {
	if err := checkLimit(limit); err != nil {
		return nil, err
	}
	return observe("top_users", func() ([]domain.UserReservationCount, error) {
		return s.repo.TopUsers(ctx, limit)
	})
}

// DailyRevenue returns revenue for the most recent days that have reservations, oldest first.
func (s *Service) DailyRevenue(ctx context.Context, limit int) ([]domain.DailyRevenue, error) {
	if err := checkLimit(limit); err != nil {
		return nil, err
	}
	return observe("daily_revenue", func() ([]domain.DailyRevenue, error) {
		return s.repo.DailyRevenue(ctx, limit)
	})
}

// DailyReservedSpots returns distinct reserved spots for the most recent days, oldest first.
func (s *Service) DailyReservedSpots(ctx context.Context, limit int) ([]domain.DailyReservedSpots, error) {
	if err := checkLimit(limit); err != nil {
		return nil, err
	}
	return observe("daily_reserved_spots", func() ([]domain.DailyReservedSpots, error) {
		return s.repo.DailyReservedSpots(ctx, limit)
	})
}

func checkLimit(limit int) error {
	if limit < 1 || limit > MaxPageSize {
		return ErrInvalidLimit
	}
	return nil
}
