package repositories

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"delivery-mitra-service/internal/domain"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := InitSchema(db); err != nil {
		t.Fatalf("init schema: %v", err)
	}
	return db
}

func seedAgent(t *testing.T, db *sql.DB) {
	t.Helper()
	_, err := db.Exec(
		`INSERT INTO agents (agent_id, phone_number, store_name, store_lat, store_lon) VALUES ($1, $2, $3, $4, $5);`,
		1, "9876543210", "Andheri Hub", 19.1197, 72.8464,
	)
	if err != nil {
		t.Fatalf("seed agent: %v", err)
	}
}

func seedCustomer(t *testing.T, db *sql.DB) {
	t.Helper()
	_, err := db.Exec(
		`INSERT INTO customers (customer_id, full_name, delivery_address, lat, lon) VALUES ($1, $2, $3, $4, $5);`,
		1, "Arjun Mehta", "42, Green Valley Apartments, Mumbai", 19.076, 72.8777,
	)
	if err != nil {
		t.Fatalf("seed customer: %v", err)
	}
}

func seedOrder(t *testing.T, db *sql.DB, orderID int, status string, createdAt time.Time) {
	t.Helper()
	_, err := db.Exec(
		`INSERT INTO orders (order_id, agent_id, customer_id, status, created_at) VALUES ($1, $2, $3, $4, $5);`,
		orderID, 1, 1, status, createdAt,
	)
	if err != nil {
		t.Fatalf("seed order: %v", err)
	}
}

func TestFindByPhone(t *testing.T) {
	db := newTestDB(t)
	seedAgent(t, db)
	repo := NewSQLAgentRepository(db)

	agent, found, err := repo.FindByPhone(context.Background(), "9876543210")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !found {
		t.Fatal("agent not found")
	}
	if agent.AgentID != 1 || agent.Store.LocationName != "Andheri Hub" {
		t.Fatalf("wrong agent: %+v", agent)
	}
	if agent.Store.Coords.Lat != 19.1197 || agent.Store.Coords.Lon != 72.8464 {
		t.Fatalf("wrong store coords: %+v", agent.Store.Coords)
	}

	_, found, err = repo.FindByPhone(context.Background(), "9000000000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Fatal("unknown phone should not resolve")
	}
}

func TestFindActiveByAgentPicksMostRecentOpenOrder(t *testing.T) {
	db := newTestDB(t)
	seedAgent(t, db)
	seedCustomer(t, db)

	base := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	seedOrder(t, db, 101, "Assigned", base)
	seedOrder(t, db, 102, "Delivered", base.Add(2*time.Hour))
	seedOrder(t, db, 103, "Assigned", base.Add(time.Hour))

	repo := NewSQLOrderRepository(db)
	order, found, err := repo.FindActiveByAgent(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !found {
		t.Fatal("no active order found")
	}
	// 102 is newer but Delivered; 103 is the newest open order.
	if order.OrderID != 103 {
		t.Fatalf("order_id = %d, want 103", order.OrderID)
	}
	if order.Customer.FullName != "Arjun Mehta" {
		t.Fatalf("customer not joined: %+v", order.Customer)
	}
}

func TestFindActiveByAgentNoOpenOrder(t *testing.T) {
	db := newTestDB(t)
	seedAgent(t, db)
	seedCustomer(t, db)
	seedOrder(t, db, 101, "Delivered", time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC))

	repo := NewSQLOrderRepository(db)
	order, found, err := repo.FindActiveByAgent(context.Background(), 1)
	if err != nil {
		t.Fatalf("absence must not be an error, got: %v", err)
	}
	if found || order != nil {
		t.Fatalf("expected no order, got %+v", order)
	}
}

func TestUpdateStatusGuardsForwardOnly(t *testing.T) {
	db := newTestDB(t)
	seedAgent(t, db)
	seedCustomer(t, db)
	seedOrder(t, db, 101, "Assigned", time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC))

	repo := NewSQLOrderRepository(db)
	ctx := context.Background()

	if err := repo.UpdateStatus(ctx, 101, domain.StatusAssigned, domain.StatusOutForDelivery); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.UpdateStatus(ctx, 101, domain.StatusOutForDelivery, domain.StatusDelivered); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Any further transition is rejected and changes nothing.
	if err := repo.UpdateStatus(ctx, 101, domain.StatusDelivered, domain.StatusOutForDelivery); err == nil {
		t.Fatal("regression from Delivered was accepted")
	}
	// A stale writer that still believes the order is Assigned misses the
	// guard.
	if err := repo.UpdateStatus(ctx, 101, domain.StatusAssigned, domain.StatusOutForDelivery); err == nil {
		t.Fatal("stale transition was accepted")
	}

	var status string
	if err := db.QueryRow(`SELECT status FROM orders WHERE order_id = 101;`).Scan(&status); err != nil {
		t.Fatalf("read back: %v", err)
	}
	if status != "Delivered" {
		t.Fatalf("status = %q, want Delivered", status)
	}
}

func TestSaveSignatureReplacesExisting(t *testing.T) {
	db := newTestDB(t)
	seedAgent(t, db)
	seedCustomer(t, db)
	seedOrder(t, db, 101, "Delivered", time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC))

	store := NewSQLSignatureStore(db)
	ctx := context.Background()

	if err := store.SaveSignature(ctx, 101, []byte("first")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.SaveSignature(ctx, 101, []byte("second")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var png []byte
	if err := db.QueryRow(`SELECT png FROM signatures WHERE order_id = 101;`).Scan(&png); err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(png) != "second" {
		t.Fatalf("png = %q, want %q", png, "second")
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM signatures;`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}
}
