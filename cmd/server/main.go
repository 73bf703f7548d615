package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fekuna/hotel-stock-service/config"
	"github.com/fekuna/hotel-stock-service/internal/item"
	"github.com/fekuna/hotel-stock-service/internal/ledger"
	"github.com/fekuna/hotel-stock-service/internal/pkg/broker"
	"github.com/fekuna/hotel-stock-service/internal/pkg/cache"
	"github.com/fekuna/hotel-stock-service/internal/pkg/database"
	"github.com/fekuna/hotel-stock-service/internal/pkg/i18n"
	"github.com/fekuna/hotel-stock-service/internal/pkg/logger"
	"github.com/fekuna/hotel-stock-service/internal/pkg/middleware"
	"github.com/fekuna/hotel-stock-service/internal/pkg/search"

	itemH "github.com/fekuna/hotel-stock-service/internal/item/handler"
	itemRepoPkg "github.com/fekuna/hotel-stock-service/internal/item/repository"
	itemUCPkg "github.com/fekuna/hotel-stock-service/internal/item/usecase"

	ledgerH "github.com/fekuna/hotel-stock-service/internal/ledger/handler"
	ledgerListenerPkg "github.com/fekuna/hotel-stock-service/internal/ledger/listener"
	ledgerRepoPkg "github.com/fekuna/hotel-stock-service/internal/ledger/repository"
	ledgerUCPkg "github.com/fekuna/hotel-stock-service/internal/ledger/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	if cfg.Server.AppEnv == "development" || cfg.Server.AppEnv == "dev" {
		logConfig.IsDevelopment = true
	} else {
		logConfig.Encoding = "json"
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	// 3. Initialize i18n
	translator, err := i18n.New(cfg.I18n.DefaultLanguage)
	if err != nil {
		appLogger.Fatal("Could not load translations", zap.Error(err))
	}

	// 4. Initialize Repositories
	var (
		itemRepo   item.Repository
		ledgerRepo ledger.Repository
		txnLog     item.TransactionLog
	)
	switch cfg.Store.Driver {
	case "memory":
		mem := ledgerRepoPkg.NewMemoryRepository()
		itemRepo, ledgerRepo, txnLog = itemRepoPkg.NewMemoryRepository(), mem, mem
		appLogger.Warn("Using in-memory store, data is lost on restart")
	case "postgres", "sqlite":
		db := openDatabase(cfg, appLogger)
		defer db.Close()
		if err := database.Migrate(db); err != nil {
			appLogger.Fatal("Could not migrate database", zap.Error(err))
		}
		sqlRepo := ledgerRepoPkg.NewSQLRepository(db)
		itemRepo, ledgerRepo, txnLog = itemRepoPkg.NewSQLRepository(db), sqlRepo, sqlRepo
	default:
		appLogger.Fatal("Unknown STORE_DRIVER", zap.String("driver", cfg.Store.Driver))
	}

	// 5. Initialize Redis
	var locker cache.Locker = cache.NewLocalLocker()
	if cfg.Redis.Addr != "" {
		redisClient, err := cache.NewRedisClient(&cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			appLogger.Fatal("Could not connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		locker = redisClient
		appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
	} else {
		appLogger.Info("Redis not configured, using in-process item locks")
	}

	// 6. Initialize Elasticsearch
	var indexer item.Indexer
	if cfg.Elastic.Enabled {
		esClient, err := search.NewClient(&search.Config{
			Addresses: cfg.Elastic.Addresses,
			Username:  cfg.Elastic.Username,
			Password:  cfg.Elastic.Password,
		})
		if err != nil {
			appLogger.Warn("Could not connect to Elasticsearch, item search uses the store", zap.Error(err))
		} else {
			esIndexer := itemRepoPkg.NewElasticIndexer(esClient, cfg.Elastic.Index)
			if err := esIndexer.EnsureIndex(context.Background()); err != nil {
				appLogger.Warn("Could not create search index", zap.String("index", cfg.Elastic.Index), zap.Error(err))
			}
			indexer = esIndexer
			appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
		}
	}

	// 7. Initialize Kafka Producer
	var publisher ledger.Publisher
	if cfg.Kafka.Enabled {
		producer := broker.NewProducer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.LedgerTopic,
		})
		defer producer.Close()
		publisher = producer
		appLogger.Info("Kafka producer ready", zap.String("topic", cfg.Kafka.LedgerTopic))
	}

	// 8. Initialize UseCases
	itemUC := itemUCPkg.NewItemUseCase(itemRepo, txnLog, locker, indexer, appLogger)
	ledgerUC := ledgerUCPkg.NewLedgerUseCase(ledgerRepo, itemRepo, locker, publisher, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if indexer != nil {
		go func() {
			n, err := itemUC.ReindexItems(ctx)
			if err != nil {
				appLogger.Error("Search index backfill failed", zap.Int("indexed", n), zap.Error(err))
				return
			}
			appLogger.Info("Search index backfilled", zap.Int("items", n))
		}()
	}

	// 9. Initialize Listeners
	if cfg.Kafka.Enabled {
		consumer := broker.NewConsumer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.MovementsTopic,
			GroupID: cfg.Kafka.GroupID,
		})
		defer consumer.Close()
		appLogger.Info("Connected to Kafka Consumer", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.MovementsTopic))

		go ledgerListenerPkg.NewMovementListener(consumer, ledgerUC, appLogger).Start(ctx)
	}

	// 10. Start HTTP Server
	if logConfig.IsDevelopment {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept-Language", "Authorization", "X-User-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(middleware.Identity(), middleware.RequestLogger(appLogger))
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	itemH.NewItemHandler(itemUC, translator, appLogger).Register(api)
	ledgerH.NewLedgerHandler(ledgerUC, translator, appLogger).Register(api)

	httpServer := &http.Server{
		Addr:              normalizePort(cfg.Server.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		appLogger.Info("Starting HTTP server", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("failed to serve http", zap.Error(err))
		}
	}()

	// 11. Start gRPC Server
	port := normalizePort(cfg.Server.GRPCPort)
	lis, err := net.Listen("tcp", port)
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}

	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(middleware.ContextInterceptor(appLogger)),
	)
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	reflection.Register(grpcServer)

	appLogger.Info("Starting gRPC server", zap.String("port", port))
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP shutdown failed", zap.Error(err))
	}
	grpcServer.GracefulStop()
	appLogger.Info("Server stopped")
}

func openDatabase(cfg *config.Config, appLogger logger.ZapLogger) *sqlx.DB {
	if cfg.Store.Driver == "sqlite" {
		db, err := database.NewSQLite(cfg.SQLite.Path)
		if err != nil {
			appLogger.Fatal("Could not open SQLite database", zap.Error(err))
		}
		appLogger.Info("Opened SQLite database", zap.String("path", cfg.SQLite.Path))
		return db
	}

	db, err := database.NewPostgres(&database.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))
	return db
}

func normalizePort(port string) string {
	if !strings.HasPrefix(port, ":") && !strings.Contains(port, ":") {
		return ":" + port
	}
	return port
}
