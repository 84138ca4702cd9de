package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/exachain/ibc-transfer/pkg/config"
	"github.com/exachain/ibc-transfer/pkg/store"
	"github.com/exachain/ibc-transfer/pkg/tendermint"
	"github.com/exachain/ibc-transfer/utils"
	"github.com/iov-one/weave/errors"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

func main() {
	conf := config.Configuration{
		PostgresURI:     os.Getenv("DATABASE_URL"),
		TendermintWsURI: os.Getenv("TENDERMINT_WS_URI"),
	}
	receiver := os.Getenv("RECEIVER")
	denom := utils.Env("DENOM", "uusdx")
	wait, err := time.ParseDuration(utils.Env("WAIT_TIMEOUT", "10m"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "WAIT_TIMEOUT:", err)
		os.Exit(2)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(conf, receiver, denom, wait, logger); err != nil {
		logger.Fatal("relay watch failed", zap.Error(err))
	}
}

func run(conf config.Configuration, receiver, denom string, wait time.Duration, logger *zap.Logger) error {
	if receiver == "" {
		return errors.Wrap(config.ErrConfig, "RECEIVER is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), wait)
	defer cancel()
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt)
		select {
		case <-quit:
			cancel()
		case <-ctx.Done():
		}
	}()

	var st *store.Store
	if conf.PostgresURI != "" {
		db, err := sql.Open("postgres", conf.PostgresURI)
		if err != nil {
			return errors.Wrap(err, "cannot connect to postgres")
		}
		defer db.Close()

		if err := store.EnsureSchema(db); err != nil {
			return errors.Wrap(err, "ensure schema")
		}
		st = store.NewStore(db)
	}

	tmc, err := tendermint.DialTendermint(conf.TendermintWsURI)
	if err != nil {
		return errors.Wrap(err, "dial tendermint")
	}
	defer tmc.Close()

	logger.Info("waiting for packet", zap.String("receiver", receiver), zap.String("denom", denom))
	packet, err := tmc.WaitForPacket(ctx, receiver, denom)
	if err != nil {
		return errors.Wrap(err, "wait for packet")
	}

	fmt.Printf("received %s %s on %s in %s (success: %t)\n",
		packet.Amount, packet.Denom, packet.Receiver, packet.TxHash, packet.Success)

	if !packet.Success {
		logger.Warn("packet was not acknowledged successfully", zap.String("tx", packet.TxHash))
		return nil
	}
	if st == nil {
		return nil
	}

	// The journal keeps the source chain denom, the packet carries the trace.
	hash, err := st.MarkRelayed(ctx, receiver, denom, packet.Amount, packet.TxHash)
	switch {
	case errors.ErrNotFound.Is(err):
		logger.Warn("no confirmed transfer matches the packet", zap.String("amount", packet.Amount))
		return nil
	case err != nil:
		return errors.Wrap(err, "mark relayed")
	}

	fmt.Println("relayed:", hash)
	return nil
}
