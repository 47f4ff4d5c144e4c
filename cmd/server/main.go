package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"curator/internal/config"
	"curator/internal/handler"
	"curator/internal/middleware"
	"curator/internal/registry"
	"curator/internal/repository/postgres"
	"curator/internal/service"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	// Tee logs into a rotated file when LOG_DIR is set
	var logOut io.Writer = os.Stdout
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, 10)
		if err != nil {
			log.Fatalf("Failed to setup log file: %v", err)
		}
		defer logFile.Close()
		logOut = io.MultiWriter(os.Stdout, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
		"storage_root", cfg.StorageRoot,
	)

	// Load embedded naming and extension tables
	reg, err := registry.New()
	if err != nil {
		log.Fatalf("Failed to load naming registry: %v", err)
	}

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", 25,
		"min_conns", 5,
	)

	// Create repositories
	tables := postgres.NewTableNames(cfg.TablePrefix)
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	fileRepo := postgres.NewManagedFileRepository(repoConfig)
	docRepo := postgres.NewLogicalDocumentRepository(repoConfig)
	verRepo := postgres.NewDocumentVersionRepository(repoConfig)
	assetRepo := postgres.NewProjectAssetRepository(repoConfig)
	expRepo := postgres.NewExpenseAttachmentRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)

	// Create services
	pathEngine, err := service.NewPathEngine(cfg.StorageRoot, logger)
	if err != nil {
		log.Fatalf("Failed to create path engine: %v", err)
	}
	namingEngine := service.NewNamingEngine(reg, logger)
	hasher := service.NewContentHasher()
	disk := service.NewDiskStore(logger)

	fileService := service.NewFileService(fileRepo, hasher, disk, logger)
	importService := service.NewImportService(
		namingEngine, pathEngine, hasher, disk, reg,
		fileRepo, docRepo, verRepo, assetRepo, expRepo,
		txManager, logger,
	)
	versionLedger := service.NewVersionLedger(docRepo, verRepo, fileRepo, disk, hasher, txManager, logger)
	linkageService := service.NewLinkageService(assetRepo, expRepo, fileRepo, txManager, logger)
	fileOps := service.NewFileOps(fileRepo, pathEngine, namingEngine, disk, logger)

	// Create handlers
	fileHandler := handler.NewFileHandler(fileService, logger)
	importHandler := handler.NewImportHandler(importService, logger)
	documentHandler := handler.NewDocumentHandler(versionLedger, logger)
	linkageHandler := handler.NewLinkageHandler(linkageService, logger)
	fileOpsHandler := handler.NewFileOpsHandler(fileOps, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", fileHandler.HealthCheck)

	// File catalog routes
	mux.HandleFunc("GET /api/files", fileHandler.ListFiles)
	mux.HandleFunc("GET /api/files/search", fileHandler.SearchFiles) // Must come before {id} route
	mux.HandleFunc("GET /api/files/stats", fileHandler.Stats)
	mux.HandleFunc("GET /api/files/{id}", fileHandler.GetFile)
	mux.HandleFunc("GET /api/files/{id}/integrity", fileHandler.CheckIntegrity)
	mux.HandleFunc("DELETE /api/files/{id}", fileHandler.DeleteFile)

	// File operation routes
	mux.HandleFunc("POST /api/files/{id}/rename", fileOpsHandler.Rename)
	mux.HandleFunc("POST /api/files/{id}/copy", fileOpsHandler.CopyToDirectory)
	mux.HandleFunc("POST /api/files/{id}/save-as", fileOpsHandler.SaveAs)
	mux.HandleFunc("POST /api/files/{id}/trash", fileOpsHandler.MoveToTrash)
	mux.HandleFunc("POST /api/files/trash", fileOpsHandler.BatchMoveToTrash)
	mux.HandleFunc("POST /api/files/copy", fileOpsHandler.BatchCopyToDirectory)

	// Import routes
	mux.HandleFunc("POST /api/import", importHandler.ImportFile)
	mux.HandleFunc("POST /api/import/preview", importHandler.PreviewImport)
	mux.HandleFunc("POST /api/import/batch", importHandler.BatchImport)

	// Logical document and version routes
	mux.HandleFunc("POST /api/documents", documentHandler.CreateDocument)
	mux.HandleFunc("GET /api/documents", documentHandler.ListDocuments)
	mux.HandleFunc("GET /api/documents/{id}", documentHandler.GetDocument)
	mux.HandleFunc("POST /api/documents/{id}/versions", documentHandler.CreateVersion)
	mux.HandleFunc("GET /api/documents/{id}/versions", documentHandler.ListVersions)
	mux.HandleFunc("PUT /api/documents/{id}/official-version", documentHandler.SetOfficialVersion)
	mux.HandleFunc("GET /api/versions/{id}", documentHandler.GetVersion)
	mux.HandleFunc("DELETE /api/versions/{id}", documentHandler.DeleteVersion)
	mux.HandleFunc("POST /api/versions/{id}/duplicate", documentHandler.DuplicateVersion)

	// Asset and expense routes
	mux.HandleFunc("POST /api/assets", linkageHandler.CreateAsset)
	mux.HandleFunc("GET /api/assets", linkageHandler.ListAssets)
	mux.HandleFunc("GET /api/assets/{id}", linkageHandler.GetAsset)
	mux.HandleFunc("DELETE /api/assets/{id}", linkageHandler.DeleteAsset)
	mux.HandleFunc("POST /api/expenses", linkageHandler.CreateExpense)
	mux.HandleFunc("GET /api/expenses", linkageHandler.ListExpenses)
	mux.HandleFunc("GET /api/expenses/{id}", linkageHandler.GetExpense)
	mux.HandleFunc("DELETE /api/expenses/{id}", linkageHandler.DeleteExpense)

	// Build middleware chain
	var httpHandler http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Logging → Routes
	httpHandler = middleware.RequestLogger(logger)(httpHandler)
	httpHandler = middleware.Recovery(logger)(httpHandler)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
	})
	httpHandler = corsHandler.Handler(httpHandler)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
