package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/serverless-todo/internal/config"
	"github.com/BuzzLyutic/serverless-todo/internal/function"
	"github.com/BuzzLyutic/serverless-todo/internal/handler"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML config file")
	flag.Parse()

	// Загрузка конфигурации
	cfg, err := config.Load(*configPath)
	if err != nil {
		zap.NewExample().Fatal("Failed to load config", zap.Error(err))
	}

	// Подключаем логгер
	logger, err := cfg.Logger()
	if err != nil {
		zap.NewExample().Fatal("Failed to build logger", zap.Error(err))
	}
	defer logger.Sync()

	table, closeTable, err := openTable(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open table", zap.String("backend", cfg.TableBackend), zap.Error(err))
	}
	defer closeTable()

	fn := function.NewHandler(table, function.Options{
		DefaultTable:             cfg.TableName,
		PageSize:                 cfg.ScanPageSize,
		LegacyFunctionNameAction: cfg.LegacyFunctionNameAction,
	}, logger)
	r := handler.NewRouter(handler.NewFunctionHandler(fn, logger))

	srv := http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  cfg.RequestTimeout.Duration,
		WriteTimeout: cfg.RequestTimeout.Duration,
	}

	go func() {
		logger.Info("Server started", zap.String("addr", srv.Addr), zap.String("table_backend", cfg.TableBackend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Shutdown error", zap.Error(err))
	}
	logger.Info("Server stopped successfully")
}

// openTable connects the configured table backend. The returned func
// releases it.
func openTable(ctx context.Context, cfg config.Config, logger *zap.Logger) (function.Table, func(), error) {
	switch cfg.TableBackend {
	case config.TablePostgres:
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		logger.Info("Successfully connected to the Database!")
		return function.NewPostgresTable(pool), pool.Close, nil
	case config.TableSQLite:
		table, err := function.OpenSQLiteTable(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return table, func() { _ = table.Close() }, nil
	case config.TableDynamo:
		table, err := function.OpenDynamoTable(ctx, cfg.Region)
		if err != nil {
			return nil, nil, err
		}
		return table, func() {}, nil
	default:
		logger.Warn("Using in-memory table; data is lost on restart")
		return function.NewMemoryTable(), func() {}, nil
	}
}
