package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"

	"delivery-mitra-service/internal/adapters/cache"
	"delivery-mitra-service/internal/adapters/events"
	"delivery-mitra-service/internal/adapters/repositories"
	"delivery-mitra-service/internal/adapters/traffic"
	"delivery-mitra-service/internal/api"
	"delivery-mitra-service/internal/config"
	"delivery-mitra-service/internal/platform/db"
	"delivery-mitra-service/internal/ports"
	"delivery-mitra-service/internal/services"
)

// main is the application composition root.
// It wires concrete adapters (SQLite/Postgres, traffic HTTP provider,
// Redis cache, AMQP publisher) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	dbPath := config.Get("DB_PATH", "data/app.db")
	seedPath := config.Get("SEED_PATH", "data/seeds/demo.json")
	port := config.Get("PORT", "8080")

	trafficBase := os.Getenv("TRAFFIC_BASE_URL")
	if strings.TrimSpace(trafficBase) == "" {
		log.Fatal("TRAFFIC_BASE_URL is required")
	}
	trafficKey := os.Getenv("TRAFFIC_API_KEY")

	database, err := openDB(dbPath, seedPath)
	if err != nil {
		log.Fatal(err)
	}
	defer database.Close()

	provider, err := traffic.NewHTTPTrafficProvider(trafficBase, trafficKey)
	if err != nil {
		log.Fatal(err)
	}

	// Optional short-TTL cache in front of the traffic provider.
	var trafficCache ports.TrafficCache
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr})
		trafficCache = cache.NewRedisTrafficCache(client, 5*time.Minute)
		log.Printf("traffic cache enabled addr=%s", addr)
	}

	// Optional status-event fan-out.
	var publisher ports.EventPublisher = events.NoopPublisher{}
	if amqpURL := os.Getenv("AMQP_URL"); amqpURL != "" {
		conn, err := amqp091.Dial(amqpURL)
		if err != nil {
			log.Fatal(fmt.Errorf("connect to broker: %w", err))
		}
		defer conn.Close()

		p, err := events.NewAMQPStatusPublisher(conn, config.Get("AMQP_EXCHANGE", "delivery.events"))
		if err != nil {
			log.Fatal(err)
		}
		publisher = p
		log.Println("status event publisher enabled")
	}

	registry := services.NewRegistry(services.Deps{
		Agents:     repositories.NewSQLAgentRepository(database),
		Orders:     repositories.NewSQLOrderRepository(database),
		Signatures: repositories.NewSQLSignatureStore(database),
		Enricher:   services.NewEnricher(provider, trafficCache),
		Events:     publisher,
	})
	router := api.NewRouter(registry)

	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

// openDB uses Postgres when DATABASE_URL is set, otherwise the embedded
// SQLite file, initialized and seeded with demo data for local runs.
func openDB(dbPath, seedPath string) (*sql.DB, error) {
	if databaseURL := os.Getenv("DATABASE_URL"); strings.TrimSpace(databaseURL) != "" {
		return db.OpenPostgres(databaseURL)
	}

	database, err := db.OpenSQLite(dbPath)
	if err != nil {
		return nil, err
	}

	if err := repositories.InitSchema(database); err != nil {
		return nil, fmt.Errorf("init and seed: %w", err)
	}
	if err := repositories.SeedFromJSON(database, seedPath); err != nil {
		return nil, fmt.Errorf("init and seed: %w", err)
	}

	return database, nil
}
