package transfer

import (
	"github.com/exachain/ibc-transfer/pkg/config"
	"github.com/exachain/ibc-transfer/pkg/ics20"
	"github.com/iov-one/weave/errors"
)

var (
	// Transfer errors start from 3000

	// ErrNoSignerAvailable is returned when no signing key is configured.
	ErrNoSignerAvailable = errors.Register(3000, "no signer available")
	// ErrContractBinding is returned when the precompile cannot be called
	// through the ICS20I interface.
	ErrContractBinding = ics20.ErrContractBinding
	// ErrTransactionReverted is returned when the precompile rejects the
	// transfer, either during gas estimation or in the mined receipt.
	ErrTransactionReverted = errors.Register(3002, "transaction reverted")
	// ErrConfirmationTimeout is returned when the transaction is not
	// confirmed within the configured window.
	ErrConfirmationTimeout = errors.Register(3003, "confirmation timeout")
	// ErrConfig is returned when a network or transfer profile is unusable.
	ErrConfig = config.ErrConfig
)

var (
	// ErrInvalidAmount is returned when an amount cannot be parsed.
	ErrInvalidAmount = errors.Register(3004, "invalid amount")
)
