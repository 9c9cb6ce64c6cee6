package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// The booking engine owns these tables; tests seed them directly.

// InsertDriverAttributes attaches a drivers row to an account.
func InsertDriverAttributes(t *testing.T, db *pgxpool.Pool, accountID, licensePlate, paymentMethod string) {
	t.Helper()
	_, err := db.Exec(context.Background(),
		`INSERT INTO drivers (account_id, license_plate, payment_method) VALUES ($1, $2, $3)`,
		accountID, licensePlate, paymentMethod)
	if err != nil {
		t.Fatalf("insert driver attributes: %v", err)
	}
}

// InsertParkingLot creates a parking lot and returns its ID.
func InsertParkingLot(t *testing.T, db *pgxpool.Pool, name string) string {
	t.Helper()
	var id string
	err := db.QueryRow(context.Background(),
		`INSERT INTO parking_lots (name, location) VALUES ($1, $2) RETURNING id`,
		name, name+" street").Scan(&id)
	if err != nil {
		t.Fatalf("insert parking lot: %v", err)
	}
	return id
}

// InsertParkingSpot creates a spot in a lot and returns its ID.
func InsertParkingSpot(t *testing.T, db *pgxpool.Pool, lotID string, number int, spotType string) string {
	t.Helper()
	var id string
	err := db.QueryRow(context.Background(),
		`INSERT INTO parking_spots (lot_id, spot_number, spot_type) VALUES ($1, $2, $3) RETURNING id`,
		lotID, number, spotType).Scan(&id)
	if err != nil {
		t.Fatalf("insert parking spot: %v", err)
	}
	return id
}

// Reservation describes a reservation fixture.
type Reservation struct {
	SpotID   string
	DriverID string
	Start    time.Time
	Duration time.Duration
	Cost     float64
	Status   string
}

// InsertReservation creates a reservation and returns its ID.
func InsertReservation(t *testing.T, db *pgxpool.Pool, r Reservation) string {
	t.Helper()
	status := r.Status
	if status == "" {
		status = "COMPLETED"
	}
	var driverID *string
	if r.DriverID != "" {
		driverID = &r.DriverID
	}

	var id string
	err := db.QueryRow(context.Background(), `
		INSERT INTO reservations (spot_id, driver_id, start_time, end_time, cost, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		r.SpotID, driverID, r.Start, r.Start.Add(r.Duration), r.Cost, status).Scan(&id)
	if err != nil {
		t.Fatalf("insert reservation: %v", err)
	}
	return id
}

// InsertViolation records a violation against a reservation.
func InsertViolation(t *testing.T, db *pgxpool.Pool, reservationID, driverID, violationType string, penalty float64) {
	t.Helper()
	_, err := db.Exec(context.Background(), `
		INSERT INTO violations (reservation_id, driver_id, violation_type, penalty)
		VALUES ($1, $2, $3, $4)`,
		reservationID, driverID, violationType, penalty)
	if err != nil {
		t.Fatalf("insert violation: %v", err)
	}
}
