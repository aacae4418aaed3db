package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/jpcarvalho/divvy/internal/blob"
	"github.com/jpcarvalho/divvy/internal/config"
	"github.com/jpcarvalho/divvy/internal/database"
	"github.com/jpcarvalho/divvy/internal/export"
	"github.com/jpcarvalho/divvy/internal/group"
	groupStore "github.com/jpcarvalho/divvy/internal/group/store"
	divvyHttp "github.com/jpcarvalho/divvy/internal/http"
	exportHandler "github.com/jpcarvalho/divvy/internal/http/export"
	groupHandler "github.com/jpcarvalho/divvy/internal/http/group"
	jsonHandler "github.com/jpcarvalho/divvy/internal/http/importjson"
	zipHandler "github.com/jpcarvalho/divvy/internal/http/importzip"
	"github.com/jpcarvalho/divvy/internal/restore"
	"github.com/jpcarvalho/divvy/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var (
		repo          = groupStore.New(db)
		groupService  = group.NewService(repo)
		blobStore     = blob.NewHTTPStore(cfg.Documents.ProbeTimeout)
		restoreEngine = restore.NewEngine(repo, blobStore, cfg.Import.TxTimeout)
		exportService = export.NewService(groupService)
	)

	var (
		groupH      = groupHandler.NewHandler(groupService, restoreEngine)
		importJSONH = jsonHandler.NewHandler(groupService, restoreEngine, cfg.Import.MaxUploadBytes)
		importZipH  = zipHandler.NewHandler(groupService, restoreEngine, cfg.Import.MaxUploadBytes)
		exportH     = exportHandler.NewHandler(exportService)
	)

	router := divvyHttp.New(groupH, importJSONH, importZipH, exportH)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
