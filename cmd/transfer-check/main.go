package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/exachain/ibc-transfer/pkg/config"
	"github.com/exachain/ibc-transfer/pkg/store"
	"github.com/exachain/ibc-transfer/pkg/transfer"
	"github.com/exachain/ibc-transfer/utils"
	"github.com/iov-one/weave/errors"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conf := config.Configuration{
		PostgresURI: os.Getenv("DATABASE_URL"),
	}
	channel := os.Getenv("CHANNEL")
	sender := os.Getenv("SENDER")

	db, err := sql.Open("postgres", conf.PostgresURI)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer db.Close()

	st := store.NewStore(db)
	found, err := st.LoadTransfersByParams(ctx, sender, "", channel)
	if errors.ErrNotFound.Is(err) {
		fmt.Println("no transfer found with given parameters")
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	decimals := int32(config.DefaultDecimals)
	if v := utils.Env("DECIMALS", ""); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil || !d.IsInteger() {
			fmt.Fprintln(os.Stderr, "DECIMALS must be an integer")
			os.Exit(2)
		}
		decimals = int32(d.IntPart())
	}

	total := decimal.Zero
	for _, t := range found {
		amount, err := decimal.NewFromString(t.Amount)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: bad amount %q\n", t.Hash, t.Amount)
			os.Exit(2)
		}
		total = total.Add(amount)
		fmt.Printf("%s %-9s %-10s %s %s -> %s\n", t.Hash, t.Status, t.Channel,
			transfer.FormatUnits(amount.BigInt(), decimals), t.Denom, t.Receiver)
	}
	fmt.Printf("transfers found: %d, total %s\n", len(found), transfer.FormatUnits(total.BigInt(), decimals))
}
