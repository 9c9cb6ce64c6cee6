// Package postgres implements the statistics aggregate queries on PostgreSQL.
package postgres

import (
	"context"
	"fmt"

	accountspostgres "github.com/bissquit/parking-garden/internal/accounts/postgres"
	"github.com/bissquit/parking-garden/internal/domain"
	"github.com/bissquit/parking-garden/internal/statistics"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Reservations with this status never count towards revenue or occupancy.
const cancelledStatus = "CANCELLED"

// Repository implements statistics.Repository using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL statistics repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func (r *Repository) count(ctx context.Context, query string, args ...any) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *Repository) sum(ctx context.Context, query string, args ...any) (float64, error) {
	var v float64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&v); err != nil {
		return 0, err
	}
	return v, nil
}

// CountAccounts returns the number of accounts of any role.
func (r *Repository) CountAccounts(ctx context.Context) (int64, error) {
	n, err := r.count(ctx, `SELECT COUNT(*) FROM accounts`)
	if err != nil {
		return 0, fmt.Errorf("count accounts: %w", err)
	}
	return n, nil
}

// CountAccountsByRole returns the number of accounts with the given role.
func (r *Repository) CountAccountsByRole(ctx context.Context, role domain.Role) (int64, error) {
	n, err := r.count(ctx, `SELECT COUNT(*) FROM accounts WHERE role_name = $1`, role.Stored())
	if err != nil {
		return 0, fmt.Errorf("count %s accounts: %w", role, err)
	}
	return n, nil
}

// CountParkingLots returns the number of parking lots.
func (r *Repository) CountParkingLots(ctx context.Context) (int64, error) {
	n, err := r.count(ctx, `SELECT COUNT(*) FROM parking_lots`)
	if err != nil {
		return 0, fmt.Errorf("count parking lots: %w", err)
	}
	return n, nil
}

// CountViolations returns the number of recorded violations.
func (r *Repository) CountViolations(ctx context.Context) (int64, error) {
	n, err := r.count(ctx, `SELECT COUNT(*) FROM violations`)
	if err != nil {
		return 0, fmt.Errorf("count violations: %w", err)
	}
	return n, nil
}

// TotalRevenue sums the cost of all non-cancelled reservations.
func (r *Repository) TotalRevenue(ctx context.Context) (float64, error) {
	v, err := r.sum(ctx,
		`SELECT COALESCE(SUM(cost), 0)::float8 FROM reservations WHERE status <> $1`,
		cancelledStatus)
	if err != nil {
		return 0, fmt.Errorf("sum total revenue: %w", err)
	}
	return v, nil
}

// MonthlyRevenue sums the cost of non-cancelled reservations starting in the current UTC month.
func (r *Repository) MonthlyRevenue(ctx context.Context) (float64, error) {
	query := `
		SELECT COALESCE(SUM(cost), 0)::float8
		FROM reservations
		WHERE status <> $1
		  AND start_time >= date_trunc('month', NOW() AT TIME ZONE 'UTC') AT TIME ZONE 'UTC'
		  AND start_time < (date_trunc('month', NOW() AT TIME ZONE 'UTC') + INTERVAL '1 month') AT TIME ZONE 'UTC'
	`
	v, err := r.sum(ctx, query, cancelledStatus)
	if err != nil {
		return 0, fmt.Errorf("sum monthly revenue: %w", err)
	}
	return v, nil
}

// ListUsers returns a page of accounts joined with their driver attributes.
func (r *Repository) ListUsers(ctx context.Context, limit, offset int) ([]statistics.UserRecord, error) {
	query := `
		SELECT ` + accountspostgres.UserDetailsColumns + `
		FROM accounts a
		LEFT JOIN drivers d ON d.account_id = a.id
		ORDER BY a.created_at, a.id
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	records := make([]statistics.UserRecord, 0, limit)
	for rows.Next() {
		account, driver, err := accountspostgres.ScanUserDetails(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		records = append(records, statistics.UserRecord{Account: account, Driver: driver})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return records, nil
}

var slotOrder = map[domain.SlotRanking]string{
	domain.SlotRankingRevenue:   `revenue DESC, occupancy_hours DESC, s.id`,
	domain.SlotRankingOccupancy: `occupancy_hours DESC, revenue DESC, s.id`,
}

// TopSlots ranks parking spots by revenue or occupancy. Each row carries
// spot_id, spot_number, spot_type, lot_id, lot_name, revenue,
// occupancy_hours and reservation_count.
func (r *Repository) TopSlots(ctx context.Context, limit int, ranking domain.SlotRanking) ([]domain.MetricRow, error) {
	order, ok := slotOrder[ranking]
	if !ok {
		return nil, fmt.Errorf("unknown slot ranking %q", ranking)
	}

	query := `
		SELECT
			s.id::text AS spot_id,
			s.spot_number,
			s.spot_type,
			l.id::text AS lot_id,
			l.name AS lot_name,
			COALESCE(SUM(res.cost), 0)::float8 AS revenue,
			COALESCE(SUM(EXTRACT(EPOCH FROM (res.end_time - res.start_time)) / 3600), 0)::float8 AS occupancy_hours,
			COUNT(res.id) AS reservation_count
		FROM parking_spots s
		JOIN parking_lots l ON l.id = s.lot_id
		LEFT JOIN reservations res ON res.spot_id = s.id AND res.status <> $2
		GROUP BY s.id, l.id
		ORDER BY ` + order + `
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit, cancelledStatus)
	if err != nil {
		return nil, fmt.Errorf("query top slots: %w", err)
	}

	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, fmt.Errorf("collect top slots: %w", err)
	}

	slots := make([]domain.MetricRow, 0, len(maps))
	for _, m := range maps {
		slots = append(slots, domain.MetricRow(m))
	}
	return slots, nil
}

// TopUsers ranks accounts by number of reservations; ties are broken by account id.
func (r *Repository) TopUsers(ctx context.Context, limit int) ([]domain.UserReservationCount, error) {
	query := `
		SELECT a.id::text, a.username, a.email, COUNT(res.id) AS reservation_count
		FROM accounts a
		JOIN reservations res ON res.driver_id = a.id
		GROUP BY a.id
		ORDER BY reservation_count DESC, a.id
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query top users: %w", err)
	}

	users, err := pgx.CollectRows(rows, pgx.RowToStructByPos[domain.UserReservationCount])
	if err != nil {
		return nil, fmt.Errorf("collect top users: %w", err)
	}
	return users, nil
}

// DailyRevenue returns revenue for the latest limit UTC days with reservations, oldest first.
func (r *Repository) DailyRevenue(ctx context.Context, limit int) ([]domain.DailyRevenue, error) {
	query := `
		SELECT day, revenue FROM (
			SELECT to_char(start_time AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day,
			       SUM(cost)::float8 AS revenue
			FROM reservations
			WHERE status <> $2
			GROUP BY day
			ORDER BY day DESC
			LIMIT $1
		) recent
		ORDER BY day
	`

	rows, err := r.db.Query(ctx, query, limit, cancelledStatus)
	if err != nil {
		return nil, fmt.Errorf("query daily revenue: %w", err)
	}

	days, err := pgx.CollectRows(rows, pgx.RowToStructByPos[domain.DailyRevenue])
	if err != nil {
		return nil, fmt.Errorf("collect daily revenue: %w", err)
	}
	return days, nil
}

// DailyReservedSpots returns distinct reserved spots for the latest limit UTC days, oldest first.
func (r *Repository) DailyReservedSpots(ctx context.Context, limit int) ([]domain.DailyReservedSpots, error) {
	query := `
		SELECT day, reserved_spots FROM (
			SELECT to_char(start_time AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day,
			       COUNT(DISTINCT spot_id) AS reserved_spots
			FROM reservations
			WHERE status <> $2
			GROUP BY day
			ORDER BY day DESC
			LIMIT $1
		) recent
		ORDER BY day
	`

	rows, err := r.db.Query(ctx, query, limit, cancelledStatus)
	if err != nil {
		return nil, fmt.Errorf("query daily reserved spots: %w", err)
	}

	days, err := pgx.CollectRows(rows, pgx.RowToStructByPos[domain.DailyReservedSpots])
	if err != nil {
		return nil, fmt.Errorf("collect daily reserved spots: %w", err)
	}
	return days, nil
}
