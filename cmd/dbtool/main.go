package main

import (
	"bus-route-service/internal/adapters/repositories"
	"bus-route-service/internal/config"
	"bus-route-service/internal/platform/db"
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/joho/godotenv"
)

// dbtool prepares the configured SQL database: it creates the schema and
// loads the stop graph seed file.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load(config.Get("CONFIG_PATH", "config.yml"))
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	var conn *sql.DB
	switch cfg.Storage.Driver {
	case "postgres":
		conn, err = db.Open(cfg.Storage.DatabaseURL)
	case "sqlite":
		conn, err = db.OpenSqlite(cfg.Storage.SqlitePath)
	default:
		log.Fatalf("storage driver %q has no database to prepare", cfg.Storage.Driver)
	}
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	if err := initAndSeed(ctx, conn, cfg.Storage.Driver, cfg.Graph.SeedPath); err != nil {
		log.Fatal(err)
	}
}

func initAndSeed(ctx context.Context, conn *sql.DB, driver, seedPath string) error {
	initSchema, seed := repositories.InitSchema, repositories.SeedStopsFromJSON
	if driver == "postgres" {
		initSchema, seed = repositories.InitSQLSchema, repositories.SeedStopsSQL
	}

	log.Println("Initializing database schema...")
	if err := initSchema(ctx, conn); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	log.Printf("Seeding stop graph from %s...", seedPath)
	if err := seed(ctx, conn, seedPath); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	log.Println("Seeding complete.")

	return nil
}
