package domain

// StatisticsReport is a point-in-time snapshot of platform-wide aggregates.
type StatisticsReport struct {
	TotalUsers       int64   `json:"total_users"`
	TotalManagers    int64   `json:"total_managers"`
	TotalDrivers     int64   `json:"total_drivers"`
	TotalParkingLots int64   `json:"total_parking_lots"`
	TotalRevenue     float64 `json:"total_revenue"`
	TotalViolations  int64   `json:"total_violations"`
	MonthlyRevenue   float64 `json:"monthly_revenue"`
}

// MetricRow is an open set of named metrics for one ranked entity.
type MetricRow map[string]any

// SlotRanking selects the primary sort key for top parking slots.
type SlotRanking string

// Slot rankings.
const (
	SlotRankingRevenue   SlotRanking = "revenue"
	SlotRankingOccupancy SlotRanking = "occupancy"
)

// IsValid checks if the slot ranking is known.
func (r SlotRanking) IsValid() bool {
	switch r {
	case SlotRankingRevenue, SlotRankingOccupancy:
		return true
	}
	return false
}

// UserReservationCount is one row of the top users by reservations ranking.
type UserReservationCount struct {
	UserID           string `json:"user_id"`
	Username         string `json:"username"`
	Email            string `json:"email"`
	ReservationCount int64  `json:"reservation_count"`
}

// DailyRevenue is the revenue of one calendar day (UTC).
type DailyRevenue struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
}

// DailyReservedSpots is the number of distinct spots reserved on one calendar day (UTC).
type DailyReservedSpots struct {
	Date          string `json:"date"`
	ReservedSpots int64  `json:"reserved_spots"`
}
