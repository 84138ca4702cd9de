package transfer

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/exachain/ibc-transfer/pkg/config"
	"github.com/exachain/ibc-transfer/pkg/models"
	"github.com/iov-one/weave/errors"
)

// Params are the resolved literal values of one transfer.
type Params struct {
	Profile          string
	Channel          string
	Denom            string
	Symbol           string
	Decimals         int32
	Amount           *big.Int
	Receiver         string
	TimeoutHeight    models.Height
	TimeoutTimestamp uint64
	Memo             string
}

// NewParams resolves a transfer profile. Fields are not validated beyond
// amount parsing: the precompile is the authority on what it accepts.
func NewParams(name string, p config.TransferProfile) (Params, error) {
	params := Params{
		Profile:          name,
		Channel:          p.Channel,
		Denom:            p.Denom,
		Symbol:           p.Symbol,
		Decimals:         p.Decimals,
		Receiver:         p.Receiver,
		TimeoutHeight:    p.TimeoutHeight,
		TimeoutTimestamp: p.TimeoutTimestamp,
		Memo:             p.Memo,
	}

	switch {
	case p.Value != "":
		amount, err := ParseUnits(p.Value, p.Decimals)
		if err != nil {
			return Params{}, err
		}
		params.Amount = amount
	case p.Amount != "":
		amount, ok := new(big.Int).SetString(p.Amount, 10)
		if !ok || amount.Sign() < 0 {
			return Params{}, errors.Wrapf(ErrInvalidAmount, "%q is not an unsigned integer", p.Amount)
		}
		params.Amount = amount
	default:
		return Params{}, errors.Wrapf(ErrConfig, "transfer %q has no amount", name)
	}
	return params, nil
}

// Request builds the precompile call arguments for sender.
func (p Params) Request(sender common.Address) models.TransferRequest {
	return models.TransferRequest{
		SourcePort:       models.SourcePort,
		SourceChannel:    p.Channel,
		Denom:            p.Denom,
		Amount:           new(big.Int).Set(p.Amount),
		Sender:           sender,
		Receiver:         p.Receiver,
		TimeoutHeight:    p.TimeoutHeight,
		TimeoutTimestamp: p.TimeoutTimestamp,
		Memo:             p.Memo,
	}
}

// Options control gas and confirmation handling of an Invoker.
type Options struct {
	ChainID       int64
	Gas           uint64
	GasMultiplier float64
	GasPrice      *big.Int
	Timeout       time.Duration
	Confirmations uint64
	PollInterval  time.Duration
}

func OptionsFromNetwork(n config.NetworkProfile) Options {
	o := Options{
		ChainID:       n.ChainID,
		Gas:           n.Gas,
		GasMultiplier: n.GasMultiplier,
		Timeout:       n.Timeout,
		Confirmations: n.Confirmations,
		PollInterval:  n.PollInterval,
	}
	if n.GasPrice > 0 {
		o.GasPrice = big.NewInt(n.GasPrice)
	}
	return o
}

func (o Options) withDefaults() Options {
	if o.GasMultiplier <= 0 {
		o.GasMultiplier = config.DefaultGasMultiplier
	}
	if o.Timeout <= 0 {
		o.Timeout = config.DefaultTimeout
	}
	if o.Confirmations == 0 {
		o.Confirmations = config.DefaultConfirmations
	}
	if o.PollInterval <= 0 {
		o.PollInterval = config.DefaultPollInterval
	}
	return o
}
