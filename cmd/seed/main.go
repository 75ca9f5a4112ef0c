package main

import (
	"context"
	"flag"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"inkwell/internal/config"
	"inkwell/internal/domain/repositories"
	"inkwell/internal/repository/postgres"
	"inkwell/internal/seed"
	"inkwell/internal/service"
)

func main() {
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed content")
	seedFile := flag.String("file", "", "Seed fixture file (overrides SEED_FILE)")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && *dropTables {
		log.Fatalf("BLOCKED: cannot run --drop-tables in production environment")
	}

	logger, closeLog, err := setupLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer closeLog()

	log.Printf("Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if *dropTables {
		log.Println("Dropping all tables...")
		if err := dropAllTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
	}

	log.Println("Ensuring database schema is up to date...")
	if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}

	if *schemaOnly {
		log.Println("Schema setup complete (schema-only mode)")
		return
	}

	path := cfg.SeedFile
	if *seedFile != "" {
		path = *seedFile
	}
	fixture, err := seed.Load(path)
	if err != nil {
		log.Fatalf("Failed to load seed file: %v", err)
	}

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	postRepo := postgres.NewPostRepository(repoConfig)
	categoryRepo := postgres.NewCategoryRepository(repoConfig)
	commentRepo := postgres.NewCommentRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	clock := repositories.SystemClock{}
	postService := service.NewPostService(postRepo, clock, logger)
	categoryService := service.NewCategoryService(categoryRepo, clock, logger)
	commentService := service.NewCommentService(commentRepo, postRepo, clock, logger)

	seeder := seed.NewSeeder(categoryService, postService, commentService, txManager, logger)
	if err := seeder.Apply(ctx, fixture); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Seeding complete: %d categories, %d posts", len(fixture.Categories), len(fixture.Posts))
}

// setupLogger builds the structured logger: JSON to a timestamped file
// when LOG_DIR is set, JSON to stdout otherwise.
func setupLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	var out io.Writer = os.Stdout
	closeLog := func() {}

	if cfg.LogDir != "" {
		f, err := config.SetupLogFile(cfg.LogDir, cfg.LogMaxFiles)
		if err != nil {
			return nil, nil, err
		}
		out = f
		closeLog = func() { f.Close() }
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level})), closeLog, nil
}

// dropAllTables drops all tables in reverse dependency order
func dropAllTables(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	tableNames := []string{
		tables.Comments,
		tables.Posts,
		tables.Categories,
	}

	for _, table := range tableNames {
		dropSQL := "DROP TABLE IF EXISTS " + table + " CASCADE"
		if _, err := pool.Exec(ctx, dropSQL); err != nil {
			return err
		}
		log.Printf("  dropped %s", table)
	}

	return nil
}
