package config

import (
	"io/ioutil"
	"sort"
	"strconv"
	"time"

	"github.com/exachain/ibc-transfer/pkg/models"
	"github.com/iov-one/weave/errors"
	yaml "gopkg.in/yaml.v2"
)

var (
	// ErrConfig is returned when a profile is missing or unusable.
	ErrConfig = errors.Register(3005, "invalid configuration")
)

const (
	DefaultNetwork  = "exachain"
	DefaultTransfer = "oraichain"

	DefaultGasMultiplier = 1.2
	DefaultTimeout       = 2 * time.Minute
	DefaultConfirmations = 1
	DefaultPollInterval  = time.Second
	// EVM side representation of a denomination.
	DefaultDecimals = 18
)

type Configuration struct {
	Networks  map[string]NetworkProfile  `yaml:"networks"`
	Transfers map[string]TransferProfile `yaml:"transfers"`

	// Postgres URI of the transfer journal. Empty disables the journal.
	PostgresURI string `yaml:"postgres_uri"`
	// Tendermint websocket URI of the destination chain
	TendermintWsURI string `yaml:"tendermint_ws_uri"`
	// Allowed origins for CORS
	AllowedOrigins string `yaml:"allowed_origins"`
	Port           string `yaml:"port"`
}

// NetworkProfile describes how to reach and sign for one EVM network.
type NetworkProfile struct {
	URL     string `yaml:"url"`
	ChainID int64  `yaml:"chain_id"`
	// Hex encoded private keys, in signer order.
	Accounts []string `yaml:"accounts"`
	// Names of environment variables holding additional private keys. They
	// are appended after Accounts.
	AccountEnv []string `yaml:"account_env"`
	// Gas limit of the transfer. Zero estimates it and applies GasMultiplier.
	Gas           uint64  `yaml:"gas"`
	GasMultiplier float64 `yaml:"gas_multiplier"`
	// Gas price in wei. Zero lets the node suggest one.
	GasPrice      int64         `yaml:"gas_price"`
	Timeout       time.Duration `yaml:"timeout"`
	Confirmations uint64        `yaml:"confirmations"`
	PollInterval  time.Duration `yaml:"poll_interval"`
}

// TransferProfile holds the literal parameters of one transfer.
type TransferProfile struct {
	Channel  string `yaml:"channel"`
	Denom    string `yaml:"denom"`
	Symbol   string `yaml:"symbol"`
	Decimals int32  `yaml:"decimals"`
	// Amount in smallest units. Exclusive with Value.
	Amount string `yaml:"amount"`
	// Value is the amount in human scale units, converted with Decimals.
	Value            string        `yaml:"value"`
	Receiver         string        `yaml:"receiver"`
	TimeoutHeight    models.Height `yaml:"timeout_height"`
	TimeoutTimestamp uint64        `yaml:"timeout_timestamp"`
	Memo             string        `yaml:"memo"`
}

// Default returns the built-in profiles.
func Default() *Configuration {
	return &Configuration{
		Networks: map[string]NetworkProfile{
			"localhost": {
				URL:        "http://127.0.0.1:8545",
				ChainID:    20250626,
				AccountEnv: []string{"PRIVATE_KEY"},
			},
			"exachain": {
				URL:     "http://128.199.120.187:8545",
				ChainID: 20250626,
				AccountEnv: []string{
					"PRIVATE_KEY",
					"PRIVATE_KEY1",
					"PRIVATE_KEY2",
					"PRIVATE_KEY3",
					"PRIVATE_KEY4",
				},
				GasMultiplier: DefaultGasMultiplier,
				Timeout:       DefaultTimeout,
			},
		},
		Transfers: map[string]TransferProfile{
			"noble": {
				Channel:       "channel-3",
				Denom:         "uusdx",
				Symbol:        "USDX",
				Decimals:      18,
				Amount:        "1000",
				Receiver:      "noble143h7yhvp595g905u49w8r34x6fc0x9tsvczknj",
				TimeoutHeight: models.Height{RevisionNumber: 1, RevisionHeight: 10000000000},
			},
			"oraichain": {
				Channel:       "channel-4",
				Denom:         "uusdx",
				Symbol:        "USDX",
				Decimals:      18,
				Amount:        "20000",
				Receiver:      "oraib1qpuundpvtymcyq3cmcty3udf2zy0m509e5jykd",
				TimeoutHeight: models.Height{RevisionNumber: 2, RevisionHeight: 10000000000},
				Memo:          "oraib0x7eaf74eA145a5A81764EC2ce5fb40cd06DFDD18f",
			},
		},
	}
}

// LoadFile reads a YAML file on top of the built-in profiles. Profiles with
// the same name replace the built-in ones entirely.
func LoadFile(path string) (*Configuration, error) {
	conf := Default()
	if path == "" {
		return conf, nil
	}

	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(ErrConfig, "read %s: %s", path, err)
	}
	var file Configuration
	if err := yaml.UnmarshalStrict(raw, &file); err != nil {
		return nil, errors.Wrapf(ErrConfig, "parse %s: %s", path, err)
	}

	for name, n := range file.Networks {
		conf.Networks[name] = n
	}
	for name, t := range file.Transfers {
		conf.Transfers[name] = t
	}
	if file.PostgresURI != "" {
		conf.PostgresURI = file.PostgresURI
	}
	if file.TendermintWsURI != "" {
		conf.TendermintWsURI = file.TendermintWsURI
	}
	if file.AllowedOrigins != "" {
		conf.AllowedOrigins = file.AllowedOrigins
	}
	if file.Port != "" {
		conf.Port = file.Port
	}
	return conf, nil
}

// Network returns the named network profile with defaults filled in.
func (c *Configuration) Network(name string) (NetworkProfile, error) {
	n, ok := c.Networks[name]
	if !ok {
		return NetworkProfile{}, errors.Wrapf(ErrConfig, "unknown network %q, have %v", name, keys(c.Networks))
	}
	if n.GasMultiplier == 0 {
		n.GasMultiplier = DefaultGasMultiplier
	}
	if n.Timeout == 0 {
		n.Timeout = DefaultTimeout
	}
	if n.Confirmations == 0 {
		n.Confirmations = DefaultConfirmations
	}
	if n.PollInterval == 0 {
		n.PollInterval = DefaultPollInterval
	}
	return n, nil
}

// Transfer returns the named transfer profile.
func (c *Configuration) Transfer(name string) (TransferProfile, error) {
	t, ok := c.Transfers[name]
	if !ok {
		return TransferProfile{}, errors.Wrapf(ErrConfig, "unknown transfer %q, have %v", name, keys(c.Transfers))
	}
	if t.Amount != "" && t.Value != "" {
		return TransferProfile{}, errors.Wrapf(ErrConfig, "transfer %q sets both amount and value", name)
	}
	if t.Symbol == "" {
		t.Symbol = t.Denom
	}
	if t.Decimals == 0 {
		t.Decimals = DefaultDecimals
	}
	return t, nil
}

// WithEnv returns a copy of the profile with environment overrides applied.
// RPC_URL and CHAIN_ID replace the endpoint, and every variable named in
// AccountEnv that is set contributes a private key.
func (n NetworkProfile) WithEnv(lookup func(string) (string, bool)) (NetworkProfile, error) {
	out := n
	out.Accounts = append([]string(nil), n.Accounts...)

	if v, ok := lookup("RPC_URL"); ok && v != "" {
		out.URL = v
	}
	if v, ok := lookup("CHAIN_ID"); ok && v != "" {
		id, err := parseChainID(v)
		if err != nil {
			return NetworkProfile{}, err
		}
		out.ChainID = id
	}
	for _, name := range n.AccountEnv {
		if v, ok := lookup(name); ok && v != "" {
			out.Accounts = append(out.Accounts, v)
		}
	}
	return out, nil
}

func keys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func parseChainID(v string) (int64, error) {
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.Wrapf(ErrConfig, "CHAIN_ID %q is not a positive integer", v)
	}
	return id, nil
}
