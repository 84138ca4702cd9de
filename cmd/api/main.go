package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"

	"github.com/exachain/ibc-transfer/cmd/api/app"
	"github.com/exachain/ibc-transfer/pkg/store"
	"github.com/exachain/ibc-transfer/utils"
	"go.uber.org/zap"
)

func main() {
	conf := Configuration{
		DBHost:         utils.Env("POSTGRES_HOST", "localhost"),
		DBName:         utils.Env("POSTGRES_DB_NAME", "ibc_journal"),
		DBUser:         utils.Env("POSTGRES_USER", "postgres"),
		DBPass:         os.Getenv("POSTGRES_PASSWORD"),
		DBSSL:          utils.Env("POSTGRES_SSL_ENABLE", "disable"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		AllowedOrigins: os.Getenv("ALLOWED_ORIGINS"),
		Port:           utils.Env("PORT", "8080"),
	}

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())

	db, err := sql.Open("postgres", conf.postgresURI())
	if err != nil {
		logger.Fatal("cannot connect to postgres", zap.Error(err))
	}
	defer db.Close()

	if err := store.EnsureSchema(db); err != nil {
		logger.Fatal("ensure schema", zap.Error(err))
	}

	a := app.App{Logger: logger.Named("api")}
	a.Initialize(ctx, store.NewStore(db), conf.AllowedOrigins)

	go func() {
		defer cancel()
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt)
		<-quit
	}()

	logger.Info("serving transfer journal", zap.String("port", conf.Port))
	a.Run(ctx, conf.Port)
}
