package main

import (
	"bus-route-service/internal/adapters/repositories"
	"bus-route-service/internal/api"
	"bus-route-service/internal/config"
	"bus-route-service/internal/platform/db"
	"bus-route-service/internal/platform/obs"
	"bus-route-service/internal/ports"
	"bus-route-service/internal/services"
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// main is the application composition root.
// It wires the configured storage behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load(config.Get("CONFIG_PATH", "config.yml"))
	if err != nil {
		log.Fatal(err)
	}

	flush, err := obs.InitLogging(cfg.Log.Level)
	if err != nil {
		log.Fatal(err)
	}
	defer flush()

	if err := run(cfg); err != nil {
		zap.S().Fatal(err)
	}
}

func run(cfg *config.Config) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	stopRepo, routeRepo, closeDB, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	graph, err := services.LoadStopGraph(ctx, stopRepo)
	if err != nil {
		return err
	}

	routes, err := services.LoadRouteCollection(ctx, graph, routeRepo)
	if err != nil {
		return err
	}

	zap.S().Infof("network loaded: driver=%s stops=%d routes=%d", cfg.Storage.Driver, len(graph.Stops()), routes.Len())

	router := api.NewRouter(routes, routeRepo, cfg.Server.AllowedOrigins)

	addr := ":" + strconv.Itoa(cfg.Server.Port)
	zap.S().Infof("Server listening addr=%s", addr)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv.ListenAndServe()
}

// openStorage returns the repositories for the configured driver. The SQL
// drivers initialize their schema and seed the stop graph on startup.
func openStorage(
	ctx context.Context,
	cfg *config.Config,
) (ports.StopRepository, ports.RouteRepository, func(), error) {
	switch cfg.Storage.Driver {
	case "memory":
		seeds, err := repositories.ReadStopSeeds(cfg.Graph.SeedPath)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open storage: %w", err)
		}
		return repositories.NewStaticStopRepositoryFromSeeds(seeds),
			repositories.NewMemoryRouteRepository(),
			func() {},
			nil

	case "postgres":
		conn, err := db.Open(cfg.Storage.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := initAndSeed(ctx, conn, cfg.Graph.SeedPath, repositories.InitSQLSchema, repositories.SeedStopsSQL); err != nil {
			conn.Close()
			return nil, nil, nil, err
		}
		return repositories.NewSQLStopRepository(conn),
			repositories.NewSQLRouteRepository(conn),
			func() { conn.Close() },
			nil

	default:
		conn, err := db.OpenSqlite(cfg.Storage.SqlitePath)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := initAndSeed(ctx, conn, cfg.Graph.SeedPath, repositories.InitSchema, repositories.SeedStopsFromJSON); err != nil {
			conn.Close()
			return nil, nil, nil, err
		}
		return repositories.NewSqliteStopRepository(conn),
			repositories.NewSqliteRouteRepository(conn),
			func() { conn.Close() },
			nil
	}
}

func initAndSeed(
	ctx context.Context,
	conn *sql.DB,
	seedPath string,
	initSchema func(context.Context, *sql.DB) error,
	seed func(context.Context, *sql.DB, string) error,
) error {
	if err := initSchema(ctx, conn); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if err := seed(ctx, conn, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}
