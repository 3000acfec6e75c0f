package main

import (
	"flag"
	"net/http"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"ovhkit/internal/mockapi"
)

func main() {
	addr := flag.String("addr", ":8090", "listen address")
	dbPath := flag.String("db", "./data/ovh-mock.db", "sqlite path, empty for in-memory store")
	appKey := flag.String("app-key", "mock-app-key", "registered application key")
	appSecret := flag.String("app-secret", "mock-app-secret", "registered application secret")
	appName := flag.String("app-name", "dev", "registered application name")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	var store mockapi.Store
	if *dbPath == "" {
		store = mockapi.NewMemStore()
	} else {
		dbDir := filepath.Dir(*dbPath)
		if dbDir != "." && dbDir != "" {
			if err := os.MkdirAll(dbDir, 0700); err != nil {
				logger.Fatal().Err(err).Str("dir", dbDir).Msg("create db dir")
			}
		}
		db, err := mockapi.OpenDB(*dbPath)
		if err != nil {
			logger.Fatal().Err(err).Str("db", *dbPath).Msg("open db")
		}
		store = mockapi.NewSQLiteStore(db)
	}

	if err := store.CreateApplication(&mockapi.AppRecord{
		AppKey:    *appKey,
		AppSecret: *appSecret,
		Name:      *appName,
	}); err != nil {
		logger.Fatal().Err(err).Msg("register application")
	}

	api := &mockapi.API{Store: store, Logger: logger}

	logger.Info().Str("addr", *addr).Str("app_key", *appKey).Msg("ovh-mockd listening")
	if err := http.ListenAndServe(*addr, api.Routes()); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
