package main

import (
	"context"
	"database/sql"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/exachain/ibc-transfer/pkg/config"
	"github.com/exachain/ibc-transfer/pkg/store"
	"github.com/exachain/ibc-transfer/pkg/transfer"
	"github.com/exachain/ibc-transfer/utils"
	"github.com/iov-one/weave/errors"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type flags struct {
	configPath  string
	network     string
	transfer    string
	amount      string
	value       string
	receiver    string
	channel     string
	memo        string
	databaseURL string
	logLevel    string

	// logged is set once the failure has been written by the logger.
	logged bool
}

func newRootCmd(f *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ibc-transfer",
		Short: "Send one ICS-20 transfer through the EVM transfer precompile",
		Long: `ibc-transfer signs a single call to the ICS-20 precompile at
0x0000000000000000000000000000000000000802, waits for it to be confirmed and
prints the receipt. Running it twice sends two transfers.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), f)
		},
	}

	cmd.PersistentFlags().StringVar(&f.configPath, "config", utils.Env("IBC_TRANSFER_CONFIG", ""), "YAML file with additional network and transfer profiles")

	fl := cmd.Flags()
	fl.StringVar(&f.network, "network", utils.Env("IBC_NETWORK", config.DefaultNetwork), "network profile")
	fl.StringVar(&f.transfer, "transfer", utils.Env("IBC_TRANSFER", config.DefaultTransfer), "transfer profile")
	fl.StringVar(&f.amount, "amount", "", "override the amount, in smallest units")
	fl.StringVar(&f.value, "value", "", "override the amount, in human scale units")
	fl.StringVar(&f.receiver, "receiver", "", "override the destination chain receiver")
	fl.StringVar(&f.channel, "channel", "", "override the source channel")
	fl.StringVar(&f.memo, "memo", "", "override the memo")
	fl.StringVar(&f.databaseURL, "database-url", utils.Env("DATABASE_URL", ""), "postgres URI of the transfer journal, empty disables it")
	fl.StringVar(&f.logLevel, "log-level", utils.Env("LOG_LEVEL", "info"), "debug, info, warn or error")

	cmd.AddCommand(newProfilesCmd(f))
	return cmd
}

func run(ctx context.Context, f *flags) error {
	logger, err := newLogger(f.logLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if err := transferOnce(ctx, f, logger); err != nil {
		logger.Error("transfer failed", zap.Error(err))
		f.logged = true
		return err
	}
	return nil
}

func transferOnce(ctx context.Context, f *flags, logger *zap.Logger) error {
	conf, err := config.LoadFile(f.configPath)
	if err != nil {
		return err
	}
	network, err := conf.Network(f.network)
	if err != nil {
		return err
	}
	if network, err = network.WithEnv(os.LookupEnv); err != nil {
		return err
	}
	profile, err := conf.Transfer(f.transfer)
	if err != nil {
		return err
	}
	f.override(&profile)

	params, err := transfer.NewParams(f.transfer, profile)
	if err != nil {
		return err
	}

	client, err := ethclient.DialContext(ctx, network.URL)
	if err != nil {
		return errors.Wrapf(err, "dial %s", network.URL)
	}
	defer client.Close()

	// A profile without chain id signs for whatever the node reports.
	if network.ChainID == 0 {
		id, err := client.ChainID(ctx)
		if err != nil {
			return errors.Wrap(err, "query chain id")
		}
		network.ChainID = id.Int64()
	}
	keyring, err := transfer.NewKeyring(network.Accounts, big.NewInt(network.ChainID))
	if err != nil {
		return err
	}

	options := []transfer.Option{transfer.WithLogger(logger.Named("transfer"))}
	if uri := firstNonEmpty(f.databaseURL, conf.PostgresURI); uri != "" {
		db, err := sql.Open("postgres", uri)
		if err != nil {
			return errors.Wrap(err, "cannot connect to postgres")
		}
		defer db.Close()
		if err := store.EnsureSchema(db); err != nil {
			return errors.Wrap(err, "ensure schema")
		}
		options = append(options, transfer.WithJournal(store.NewStore(db)))
	}

	logger.Info("starting transfer",
		zap.String("network", f.network),
		zap.String("rpc", network.URL),
		zap.Int64("chain_id", network.ChainID),
		zap.String("transfer", f.transfer))

	inv := transfer.NewInvoker(client, keyring, transfer.OptionsFromNetwork(network), options...)
	return inv.Run(ctx, params)
}

func (f *flags) override(p *config.TransferProfile) {
	if f.amount != "" {
		p.Amount, p.Value = f.amount, ""
	}
	if f.value != "" {
		p.Amount, p.Value = "", f.value
	}
	if f.receiver != "" {
		p.Receiver = f.receiver
	}
	if f.channel != "" {
		p.Channel = f.channel
	}
	if f.memo != "" {
		p.Memo = f.memo
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
