// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/danielhkuo/quickly-elect/auth"
	"github.com/danielhkuo/quickly-elect/cliparse"
	"github.com/danielhkuo/quickly-elect/db"
	"github.com/danielhkuo/quickly-elect/election"
	"github.com/danielhkuo/quickly-elect/logging"
	"github.com/danielhkuo/quickly-elect/middleware"
	"github.com/danielhkuo/quickly-elect/notify"
	"github.com/danielhkuo/quickly-elect/router"
)

func main() {
	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	if cfg.PrintAdminKey {
		fmt.Println(auth.GenerateIdentityKey(cfg.AdminIdentity, cfg.IdentityKeySalt))
		return
	}

	logger, err := logging.Setup(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		slog.Error("Error configuring logging", "error", err)
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg cliparse.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	engine, err := election.Open(ctx, cfg.AdminIdentity, store,
		election.WithLogger(logger),
		election.WithReceiptSalt(cfg.ReceiptSalt),
	)
	if err != nil {
		return fmt.Errorf("open election: %w", err)
	}
	slog.Info("Election loaded", "status", engine.Election().Status, "admin", engine.Admin())

	if cfg.AMQPURL != "" {
		pub, err := notify.Dial(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			return err
		}
		defer pub.Close()

		events, cancel := engine.Subscribe(256)
		defer cancel()
		go func() {
			if err := pub.Run(ctx, events); err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("Event publisher stopped", "error", err)
			}
		}()
		slog.Info("Publishing events", "exchange", cfg.AMQPExchange)
	}

	server := &http.Server{
		Handler:           middleware.CORS(router.NewRouter(engine, cfg)),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		// Wait for Ctrl-C signal
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		// open SSE streams never finish on their own
		if err := server.Shutdown(shutdownCtx); err != nil {
			server.Close()
		}
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	slog.Info("Server closed")
	return nil
}

// openStore picks the election store for cfg.DatabaseType.
func openStore(cfg cliparse.Config) (election.Store, func(), error) {
	if cfg.DatabaseType == "memory" {
		slog.Warn("Using in-memory store; state is lost on exit")
		return election.NewMemoryStore(), func() {}, nil
	}

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}

	// Create schema (tables)
	if err := db.CreateSchema(conn); err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("schema creation failed: %w", err)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	return db.NewStore(conn), func() { conn.Close() }, nil
}
