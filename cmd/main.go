package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/spf13/cobra"

	"github.com/sbilibin2017/dream-vault/docs"
	"github.com/sbilibin2017/dream-vault/internal/config"
	"github.com/sbilibin2017/dream-vault/internal/facades"
	"github.com/sbilibin2017/dream-vault/internal/jwt"
	"github.com/sbilibin2017/dream-vault/internal/logger"
	"github.com/sbilibin2017/dream-vault/internal/middlewares"
	"github.com/sbilibin2017/dream-vault/internal/migrations"
	"github.com/sbilibin2017/dream-vault/internal/repositories"
	"github.com/sbilibin2017/dream-vault/internal/services"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

const apiVersion = "1.0.0"

var configPath string

var rootCmd = &cobra.Command{
	Use:           "dreamvault",
	Short:         "Dream journal API server",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Apply migrations and start the HTTP server",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and exit",
	RunE:  runMigrate,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		printBuildInfo()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.env", "Path to configuration file")
	rootCmd.AddCommand(serveCmd, migrateCmd, versionCmd)
}

// @title Dream Vault API
// @version 1.0.0
// @description Dream journal service with streaks, achievements, pattern analysis and sharing
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Starting service version %s, commit %s, build %s\n", buildVersion, buildCommit, buildDate)
}

func runServe(cmd *cobra.Command, args []string) error {
	printBuildInfo()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	return run(cmd.Context(), cfg)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	if err := logger.Initialize(cfg.LogLevel, cfg.LogFormat); err != nil {
		return err
	}
	defer logger.Log.Sync()

	ctx := cmd.Context()
	db, err := openPostgres(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migrations.Run(ctx, db.DB); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	logger.Log.Info("Migrations applied")
	return nil
}

// openPostgres connects to PostgreSQL and applies pool limits.
func openPostgres(ctx context.Context, cfg *config.Config) (*sqlx.DB, error) {
	logger.Log.Infow("Connecting to PostgreSQL", "host", cfg.PostgresHost, "port", cfg.PostgresPort, "db", cfg.PostgresDB)

	db, err := sqlx.ConnectContext(ctx, "pgx", cfg.PostgresDSN())
	if err != nil {
		return nil, fmt.Errorf("PostgreSQL connection error: %w", err)
	}
	db.SetMaxOpenConns(cfg.PostgresMaxOpenConns)
	db.SetMaxIdleConns(cfg.PostgresMaxIdleConns)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("PostgreSQL ping failed: %w", err)
	}
	return db, nil
}

// newKafkaWriter builds the dream event writer. Every event is flushed on its
// own instead of waiting for kafka-go's one second batch window.
func newKafkaWriter(cfg *config.Config) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafka.Hash{},
		BatchSize:              1,
		BatchTimeout:           10 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
}

// run initializes the logger, storage, messaging and external facades,
// then serves HTTP until a shutdown signal arrives.
func run(ctx context.Context, cfg *config.Config) error {
	if err := logger.Initialize(cfg.LogLevel, cfg.LogFormat); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer logger.Log.Sync()
	logger.Log.Infof("Logger initialized with level %s", cfg.LogLevel)

	// PostgreSQL
	db, err := openPostgres(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migrations.Run(ctx, db.DB); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	// Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr(),
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		PoolSize:     cfg.RedisPoolSize,
		MinIdleConns: cfg.RedisMinIdleConns,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("Redis connection error: %w", err)
	}
	defer rdb.Close()

	// Kafka
	var kafkaWriter services.KafkaWriter
	if len(cfg.KafkaBrokers) > 0 {
		w := newKafkaWriter(cfg)
		defer w.Close()
		kafkaWriter = w
		logger.Log.Infow("Kafka publisher configured", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	// Object storage and AI model
	archive, err := facades.NewS3ArchiveFacade(ctx, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Endpoint, cfg.S3Bucket)
	if err != nil {
		return fmt.Errorf("failed to configure S3: %w", err)
	}
	insightFacade := facades.NewAnthropicInsightFacade(
		cfg.InsightAPIKey, cfg.InsightBaseURL, cfg.InsightModel, cfg.InsightTimeout(), cfg.InsightRatePerSecond,
	)
	if cfg.InsightAPIKey == "" {
		logger.Log.Warn("Insight API key not set, insights fall back to templates")
	}

	tokens := jwt.New(jwt.WithSecretKey(cfg.JWTSecretKey), jwt.WithExpiration(cfg.JWTExpiration()))

	// Repositories
	userReadRepo := repositories.NewUserReadRepository(db)
	userWriteRepo := repositories.NewUserWriteRepository(db)
	dreamReadRepo := repositories.NewDreamReadRepository(db)
	dreamWriteRepo := repositories.NewDreamWriteRepository(db, middlewares.GetTxFromContext)
	settingsRepo := repositories.NewSettingsRepository(db, middlewares.GetTxFromContext)
	seenRepo := repositories.NewAchievementSeenRepository(rdb)

	// Services
	dreamService := services.NewDreamService(dreamReadRepo, dreamWriteRepo, services.NewKafkaEventPublisher(kafkaWriter))

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	docs.SwaggerInfo.Host = cfg.Addr()

	router := newRouter(routerDeps{
		version:      apiVersion,
		db:           db,
		tokener:      tokens,
		registry:     reg,
		swaggerURL:   fmt.Sprintf("http://%s/swagger/doc.json", cfg.Addr()),
		auth:         services.NewAuthService(userReadRepo, userWriteRepo, tokens),
		dreams:       dreamService,
		insight:      services.NewInsightService(dreamService, insightFacade, cfg.InsightTimeout()),
		stats:        services.NewStatsService(dreamReadRepo, settingsRepo),
		patterns:     services.NewPatternService(dreamReadRepo),
		achievements: services.NewAchievementService(dreamReadRepo, settingsRepo, seenRepo),
		settings:     services.NewSettingsService(settingsRepo),
		export:       services.NewExportService(dreamReadRepo, archive),
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	errChan := make(chan error, 1)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go func() {
		logger.Log.Infof("HTTP server listening on %s", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	select {
	case <-ctxShutdown.Done():
		logger.Log.Info("Shutdown signal received, stopping HTTP server...")
	case serveErr := <-errChan:
		return serveErr
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("HTTP server shutdown error", "error", err)
	}

	logger.Log.Info("HTTP server stopped gracefully")
	return nil
}
