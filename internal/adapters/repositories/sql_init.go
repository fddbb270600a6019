package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Initialize the database schema. Statements are portable across the
// SQLite and Postgres drivers used by the server and dbtool.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createAgentsQuery := `
	CREATE TABLE IF NOT EXISTS agents (
		agent_id INTEGER PRIMARY KEY,
		phone_number TEXT NOT NULL UNIQUE,
		store_name TEXT NOT NULL,
		store_lat REAL NOT NULL DEFAULT 0,
		store_lon REAL NOT NULL DEFAULT 0
	);
	`

	createCustomersQuery := `
	CREATE TABLE IF NOT EXISTS customers (
		customer_id INTEGER PRIMARY KEY,
		full_name TEXT NOT NULL,
		delivery_address TEXT NOT NULL,
		lat REAL NOT NULL DEFAULT 0,
		lon REAL NOT NULL DEFAULT 0
	);
	`

	createOrdersQuery := `
	CREATE TABLE IF NOT EXISTS orders (
		order_id INTEGER PRIMARY KEY,
		agent_id INTEGER NOT NULL REFERENCES agents(agent_id),
		customer_id INTEGER NOT NULL REFERENCES customers(customer_id),
		status TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	);
	`

	createSignaturesQuery := `
	CREATE TABLE IF NOT EXISTS signatures (
		order_id INTEGER PRIMARY KEY REFERENCES orders(order_id),
		png BLOB NOT NULL,
		created_at TIMESTAMP NOT NULL
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_orders_agent_status
	ON orders(agent_id, status, created_at);
	`

	statements := []string{
		createAgentsQuery,
		createCustomersQuery,
		createOrdersQuery,
		createSignaturesQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type AgentSeed struct {
	AgentID     int     `json:"agent_id"`
	PhoneNumber string  `json:"phone_number"`
	StoreName   string  `json:"store_name"`
	StoreLat    float64 `json:"store_lat"`
	StoreLon    float64 `json:"store_lon"`
}

type CustomerSeed struct {
	CustomerID      int     `json:"customer_id"`
	FullName        string  `json:"full_name"`
	DeliveryAddress string  `json:"delivery_address"`
	Lat             float64 `json:"lat"`
	Lon             float64 `json:"lon"`
}

type OrderSeed struct {
	OrderID    int       `json:"order_id"`
	AgentID    int       `json:"agent_id"`
	CustomerID int       `json:"customer_id"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

type Seed struct {
	Agents    []AgentSeed    `json:"agents"`
	Customers []CustomerSeed `json:"customers"`
	Orders    []OrderSeed    `json:"orders"`
}

// Populate the database with demo data from a JSON file. Existing rows with
// the same primary keys are replaced.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed: read %q: %w", jsonPath, err)
	}

	var seed Seed
	if err := json.Unmarshal(bytes, &seed); err != nil {
		return fmt.Errorf("seed: parse json: %w", err)
	}

	for i, a := range seed.Agents {
		if a.AgentID <= 0 {
			return fmt.Errorf("seed: invalid agent_id at index %d: %d", i+1, a.AgentID)
		}
		if strings.TrimSpace(a.PhoneNumber) == "" {
			return fmt.Errorf("seed: agent at index %d: phone_number cannot be empty", i+1)
		}
	}
	for i, c := range seed.Customers {
		if c.CustomerID <= 0 {
			return fmt.Errorf("seed: invalid customer_id at index %d: %d", i+1, c.CustomerID)
		}
	}
	for i, o := range seed.Orders {
		if o.OrderID <= 0 {
			return fmt.Errorf("seed: invalid order_id at index %d: %d", i+1, o.OrderID)
		}
		if strings.TrimSpace(o.Status) == "" {
			return fmt.Errorf("seed: order at index %d: status cannot be empty", i+1)
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	agentQuery := `
	INSERT INTO agents (agent_id, phone_number, store_name, store_lat, store_lon)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (agent_id) DO UPDATE
	SET phone_number = EXCLUDED.phone_number,
		store_name = EXCLUDED.store_name,
		store_lat = EXCLUDED.store_lat,
		store_lon = EXCLUDED.store_lon;
	`
	for _, a := range seed.Agents {
		if _, err := tx.Exec(agentQuery, a.AgentID, a.PhoneNumber, a.StoreName, a.StoreLat, a.StoreLon); err != nil {
			return fmt.Errorf("seed: insert agent_id=%d: %w", a.AgentID, err)
		}
	}

	customerQuery := `
	INSERT INTO customers (customer_id, full_name, delivery_address, lat, lon)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (customer_id) DO UPDATE
	SET full_name = EXCLUDED.full_name,
		delivery_address = EXCLUDED.delivery_address,
		lat = EXCLUDED.lat,
		lon = EXCLUDED.lon;
	`
	for _, c := range seed.Customers {
		if _, err := tx.Exec(customerQuery, c.CustomerID, c.FullName, c.DeliveryAddress, c.Lat, c.Lon); err != nil {
			return fmt.Errorf("seed: insert customer_id=%d: %w", c.CustomerID, err)
		}
	}

	orderQuery := `
	INSERT INTO orders (order_id, agent_id, customer_id, status, created_at)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (order_id) DO UPDATE
	SET agent_id = EXCLUDED.agent_id,
		customer_id = EXCLUDED.customer_id,
		status = EXCLUDED.status,
		created_at = EXCLUDED.created_at;
	`
	for _, o := range seed.Orders {
		if _, err := tx.Exec(orderQuery, o.OrderID, o.AgentID, o.CustomerID, o.Status, o.CreatedAt); err != nil {
			return fmt.Errorf("seed: insert order_id=%d: %w", o.OrderID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed: commit tx: %w", err)
	}

	return nil
}
