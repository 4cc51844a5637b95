// Package main is the entry point for the UnifiedUI Secured Variables Service.
// @title UnifiedUI Secured Variables Service API
// @version 1.0
// @description Secured variables stored in Kubernetes secrets, with an audit trail of every change
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/unifiedui/variables-service
// @contact.email support@unifiedui.io

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	_ "github.com/unifiedui/variables-service/docs"
	"github.com/unifiedui/variables-service/internal/api/handlers"
	"github.com/unifiedui/variables-service/internal/api/middleware"
	"github.com/unifiedui/variables-service/internal/api/routes"
	"github.com/unifiedui/variables-service/internal/config"
	"github.com/unifiedui/variables-service/internal/core/docdb"
	"github.com/unifiedui/variables-service/internal/core/secrets"
	rediscommonvars "github.com/unifiedui/variables-service/internal/infrastructure/commonvars/redis"
	"github.com/unifiedui/variables-service/internal/infrastructure/docdb/mongodb"
	k8ssecrets "github.com/unifiedui/variables-service/internal/infrastructure/secrets/kubernetes"
	"github.com/unifiedui/variables-service/internal/infrastructure/secrets/memory"
	"github.com/unifiedui/variables-service/internal/pkg/encryption"
	"github.com/unifiedui/variables-service/internal/pkg/logging"
	"github.com/unifiedui/variables-service/internal/services/actionlog"
	"github.com/unifiedui/variables-service/internal/services/variables"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Log)

	ctx := context.Background()

	secretBackend, err := createSecretBackend(cfg.Secrets)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize secret backend")
	}
	defer secretBackend.Close()

	commonVars, err := rediscommonvars.NewStore(rediscommonvars.Config{
		Host:     cfg.CommonVars.Host,
		Port:     cfg.CommonVars.Port,
		Password: cfg.CommonVars.Password,
		DB:       cfg.CommonVars.DB,
		HashKey:  cfg.CommonVars.HashKey,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize common variables store")
	}
	defer commonVars.Close()

	docDBClient, err := createDocDBClient(ctx, cfg.DocDB)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize document db client")
	}
	defer docDBClient.Close(ctx)

	if err := docDBClient.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to ensure indexes")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	actionLogs, err := actionlog.NewPipeline(&actionlog.Config{
		Collection: docDBClient.ActionLogs(),
		QueueSize:  cfg.ActionLog.QueueSize,
		Metrics:    actionlog.NewMetrics(registry),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize action log pipeline")
	}
	actionLogs.Start()
	defer actionLogs.Stop()

	retention, err := actionlog.NewRetention(actionLogs, cfg.ActionLog.Retention, cfg.ActionLog.RetentionCron)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to schedule action log retention")
	}
	retention.Start()
	defer retention.Stop()

	variablesService, err := variables.NewService(&variables.Config{
		Backend:            secretBackend,
		CommonVariables:    commonVars,
		ActionLogger:       actionLogs,
		DefaultSecret:      cfg.Variables.DefaultSecret,
		AsyncDeleteTimeout: cfg.Variables.AsyncDeleteTimeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize variables service")
	}

	gin.SetMode(cfg.Server.GinMode)

	router := gin.New()
	routes.SetupWithMiddleware(router, &routes.Config{
		HealthHandler:     handlers.NewHealthHandler(secretBackend, commonVars, docDBClient),
		VariablesHandler:  handlers.NewVariablesHandler(variablesService),
		ActionLogsHandler: handlers.NewActionLogsHandler(actionLogs),
		Gatherer:          registry,
	}, middleware.NewLoggingMiddleware(), middleware.NewErrorMiddleware(), middleware.DefaultCORSConfig(cfg.Server.CORSOrigins))

	srv := &http.Server{
		Addr:    cfg.Server.Address(),
		Handler: router,
	}

	go func() {
		log.Info().Str("address", cfg.Server.Address()).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}

// createSecretBackend creates a secret backend based on the configuration.
func createSecretBackend(cfg config.SecretsConfig) (secrets.Backend, error) {
	switch secrets.Type(cfg.Type) {
	case secrets.TypeKubernetes:
		return k8ssecrets.NewBackend(k8ssecrets.Config{
			Namespace:  cfg.Namespace,
			Label:      cfg.Label,
			Kubeconfig: cfg.Kubeconfig,
			InCluster:  cfg.InCluster,
		})
	case secrets.TypeMemory:
		sealer, err := createSealer(cfg)
		if err != nil {
			return nil, err
		}
		return memory.NewBackend(memory.WithSealer(sealer), memory.WithLabel(cfg.Label)), nil
	default:
		return nil, fmt.Errorf("unsupported secrets type: %s", cfg.Type)
	}
}

// createDocDBClient creates a document database client based on the configuration.
func createDocDBClient(ctx context.Context, cfg config.DocDBConfig) (docdb.Client, error) {
	switch docdb.Type(cfg.Type) {
	case docdb.TypeMongoDB, docdb.TypeCosmosDB:
		// CosmosDB speaks the MongoDB protocol
		return mongodb.NewClient(ctx, &mongodb.ClientConfig{
			URI:          cfg.URI,
			DatabaseName: cfg.Database,
		})
	default:
		return nil, fmt.Errorf("unsupported docdb type: %s", cfg.Type)
	}
}

// createSealer encrypts in-memory secret values when a key is configured.
func createSealer(cfg config.SecretsConfig) (encryption.Sealer, error) {
	if cfg.EncryptionKey == "" {
		log.Warn().Msg("SECRETS_ENCRYPTION_KEY not set, in-memory values are stored unencrypted")
		return encryption.NewPlainSealer(), nil
	}
	return encryption.NewAESSealer(cfg.EncryptionKey)
}
