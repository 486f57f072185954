package admin

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloo-solutions/vigilai/internal/ai"
	"github.com/cloo-solutions/vigilai/internal/api/handlers"
	"github.com/cloo-solutions/vigilai/internal/config"
	"github.com/cloo-solutions/vigilai/internal/database"
	"github.com/cloo-solutions/vigilai/internal/jobs"
	"github.com/cloo-solutions/vigilai/internal/repository"
	"github.com/cloo-solutions/vigilai/internal/seed"
	"github.com/cloo-solutions/vigilai/internal/server"
	"github.com/cloo-solutions/vigilai/internal/service"
	"github.com/cloo-solutions/vigilai/internal/storage"
	"github.com/cloo-solutions/vigilai/internal/telemetry"
	"github.com/cloo-solutions/vigilai/internal/tts"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the vigil API server on the specified port",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations on startup")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize Sentry with tracing if SENTRY_DSN is set
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		environment := os.Getenv("ENVIRONMENT")
		if environment == "" {
			environment = "development"
		}

		// Default to 10% sampling in production, 100% in development
		sampleRate := 0.1
		if environment == "development" {
			sampleRate = 1.0
		}

		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:              dsn,
			Environment:      environment,
			TracesSampleRate: sampleRate,
		})
		if err != nil {
			log.Printf("telemetry init failed (continuing without tracing): %v", err)
		} else {
			defer shutdownTelemetry()
		}
	}

	portFlag, _ := cmd.Flags().GetString("port")
	if portFlag != "" && portFlag != "8080" {
		cfg.Port = portFlag
	}

	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()
	log.Println("connected to database")

	// Run migrations unless --no-migrate flag is set
	noMigrate, _ := cmd.Flags().GetBool("no-migrate")
	if !noMigrate {
		if err := runMigrations(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	briefingRepo := repository.NewBriefingRepository(pool)
	knowledgeRepo := repository.NewKnowledgeRepository(pool)
	attentionRepo := repository.NewAttentionRepository(pool)
	txRunner := repository.NewTxRunner(pool)

	var delegate service.Delegate
	var embedder service.Embedder
	var embeddingWorker *jobs.Worker
	if cfg.HasOpenAI() {
		delegate = ai.NewClient(cfg.OpenAIAPIKey)
		embeddingClient := ai.NewEmbeddingClient(cfg.OpenAIAPIKey)
		embedder = embeddingClient

		embeddingProcessor := jobs.NewEmbeddingWorker(knowledgeRepo, embeddingClient)
		embeddingWorker = jobs.NewWorker(embeddingProcessor, 10*time.Second)
		go embeddingWorker.Start(ctx)
		log.Println("embedding worker started")
	} else {
		log.Println("OPENAI_API_KEY not set, structuring falls back to rule-based pipeline")
	}

	var audioStore service.AudioStore
	if cfg.HasS3() {
		s3Client, err := storage.NewS3Client(ctx, storage.S3ClientConfig{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKey,
			SecretAccessKey: cfg.S3SecretKey,
			Bucket:          cfg.S3Bucket,
			UsePathStyle:    true,
		})
		if err != nil {
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		if err := s3Client.EnsureBucket(ctx); err != nil {
			return fmt.Errorf("failed to ensure S3 bucket: %w", err)
		}
		log.Printf("audio cache bucket '%s' ready", cfg.S3Bucket)
		audioStore = s3Client
	}

	var synthesizer service.Synthesizer
	if cfg.HasElevenLabs() {
		synthesizer = tts.NewClient(cfg.ElevenLabsAPIKey, cfg.ElevenLabsVoice)
	}

	briefingSvc := service.NewBriefingService(briefingRepo, knowledgeRepo, delegate)
	attentionSvc := service.NewAttentionService(attentionRepo, briefingRepo, txRunner)
	knowledgeSvc := service.NewKnowledgeService(knowledgeRepo, embedder)
	speechSvc := service.NewSpeechService(synthesizer, audioStore)

	if cfg.SeedDemo {
		if err := seed.DemoBriefing(ctx, briefingRepo, briefingSvc); err != nil {
			log.Printf("seed failed (continuing): %v", err)
		}
	}

	routerCfg := server.RouterConfig{
		BriefingHandler:  handlers.NewBriefingHandler(briefingSvc, attentionSvc),
		KnowledgeHandler: handlers.NewKnowledgeHandler(knowledgeSvc),
		SpeechHandler:    handlers.NewSpeechHandler(speechSvc),
	}

	router := server.NewRouter(routerCfg)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	if embeddingWorker != nil {
		embeddingWorker.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("server exited")
	return nil
}

func runMigrations(databaseURL string) error {
	// Create a sql.DB connection for golang-migrate
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database for migrations: %w", err)
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	if err == migrate.ErrNilVersion {
		log.Println("migrations: database is up to date (no migrations applied)")
	} else if dirty {
		return fmt.Errorf("migration version %d is dirty - manual intervention required", version)
	} else if err == migrate.ErrNoChange {
		log.Printf("migrations: database is up to date (version %d)", version)
	} else {
		log.Printf("migrations: applied successfully (version %d)", version)
	}

	return nil
}
